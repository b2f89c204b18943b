package sweep

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/brightfield/wellspring/internal/types"
)

// sweepDonations completes pending donations whose payment grace
// window has passed. Each donation is processed independently; a
// failure is logged and the pass moves on.
func (s *Sweeper) sweepDonations(ctx context.Context) (int, error) {
	pending, err := s.store.ListPendingDonations(ctx, s.config.DonationGrace, s.config.BatchSize)
	if err != nil {
		return 0, err
	}

	processed := 0
	for _, d := range pending {
		_, applied, err := s.store.CompleteDonation(ctx, d.ID)
		if err != nil {
			s.logger.Warn("failed to complete donation",
				zap.String("donation_id", d.ID),
				zap.String("member_id", d.MemberID),
				zap.Error(err))
			continue
		}
		if applied {
			processed++
			if err := s.queueReceipt(ctx, d); err != nil {
				// The donation is already committed; the receipt is
				// best-effort and the queue sweep will not see it.
				s.logger.Warn("failed to queue donation receipt",
					zap.String("donation_id", d.ID), zap.Error(err))
			}
		}
	}
	return processed, nil
}

func (s *Sweeper) queueReceipt(ctx context.Context, d *types.Donation) error {
	member, err := s.store.GetMember(ctx, d.MemberID)
	if err != nil {
		return err
	}
	return s.store.EnqueueEmail(ctx, &types.EmailJob{
		Recipient: member.Email,
		Subject:   "Thank you for your donation",
		Body: fmt.Sprintf(
			"We received your %s donation of $%.2f. Your support keeps our coaching programs free.",
			d.Type, d.Amount),
	})
}

// sweepEmails drains the outbound queue. Send failures advance the
// attempt counter and leave the job queued for the next pass until
// MaxEmailAttempts is reached.
func (s *Sweeper) sweepEmails(ctx context.Context) (int, error) {
	jobs, err := s.store.ListQueuedEmails(ctx, s.config.MaxEmailAttempts, s.config.BatchSize)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, job := range jobs {
		sendErr := s.sender.Send(ctx, job)
		if sendErr != nil {
			s.logger.Warn("email delivery failed",
				zap.Int64("email_id", job.ID),
				zap.String("recipient", job.Recipient),
				zap.Int("attempts", job.Attempts+1),
				zap.Error(sendErr))
		}
		if err := s.store.MarkEmailResult(ctx, job.ID, s.config.MaxEmailAttempts, sendErr); err != nil {
			s.logger.Warn("failed to record email result",
				zap.Int64("email_id", job.ID), zap.Error(err))
			continue
		}
		if sendErr == nil {
			sent++
		}
	}
	return sent, nil
}

// sweepTiers reconciles stored membership levels against each
// member's running donation total
func (s *Sweeper) sweepTiers(ctx context.Context) (int, error) {
	return s.store.SyncMemberTiers(ctx, s.config.BatchSize)
}

// sweepCoaches assigns unassigned members to the least loaded active
// coach. Stops early when no coach is available.
func (s *Sweeper) sweepCoaches(ctx context.Context) (int, error) {
	members, err := s.store.ListUnassignedMembers(ctx, s.config.BatchSize)
	if err != nil {
		return 0, err
	}

	assigned := 0
	for _, m := range members {
		coach, err := s.store.LeastLoadedCoach(ctx)
		if err != nil {
			if errors.Is(err, types.ErrNotFound) {
				// No coaches registered; nothing to do this pass
				return assigned, nil
			}
			return assigned, err
		}
		if err := s.store.AssignCoach(ctx, m.ID, coach.ID); err != nil {
			s.logger.Warn("failed to assign coach",
				zap.String("member_id", m.ID),
				zap.String("coach_id", coach.ID),
				zap.Error(err))
			continue
		}
		assigned++
	}
	return assigned, nil
}
