package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/brightfield/wellspring/internal/rewards"
	"github.com/brightfield/wellspring/internal/types"
)

// CreateDonation records a pending donation
func (s *SQLiteStorage) CreateDonation(ctx context.Context, donation *types.Donation) error {
	if err := donation.Validate(); err != nil {
		return err
	}

	if donation.ID == "" {
		donation.ID = uuid.NewString()
	}
	donation.Status = types.DonationPending
	donation.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO donations (id, member_id, amount, donation_type, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, donation.ID, donation.MemberID, donation.Amount, donation.Type,
		donation.Status, donation.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert donation: %w", err)
	}
	return nil
}

func scanDonation(row interface{ Scan(...any) error }) (*types.Donation, error) {
	var d types.Donation
	var completedAt sql.NullTime

	err := row.Scan(&d.ID, &d.MemberID, &d.Amount, &d.Type, &d.Status,
		&d.CreatedAt, &completedAt)
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		d.CompletedAt = &completedAt.Time
	}
	return &d, nil
}

// GetDonation retrieves a donation by ID
func (s *SQLiteStorage) GetDonation(ctx context.Context, id string) (*types.Donation, error) {
	d, err := scanDonation(s.db.QueryRowContext(ctx, `
		SELECT id, member_id, amount, donation_type, status, created_at, completed_at
		FROM donations WHERE id = ?
	`, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("donation %s: %w", id, types.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get donation: %w", err)
	}
	return d, nil
}

// CompleteDonation transitions a donation pending→completed and
// credits the member's aggregate (donation total, membership tier,
// reward points) in the same transaction. The status predicate on the
// UPDATE is the idempotency guard: replaying a completed donation
// matches zero rows, so the member aggregate is never double-credited.
// The bool result reports whether this call performed the transition.
func (s *SQLiteStorage) CompleteDonation(ctx context.Context, donationID string) (*types.Donation, bool, error) {
	conn, commit, done, err := s.immediateTx(ctx)
	if err != nil {
		return nil, false, err
	}
	defer done()

	d, err := scanDonation(conn.QueryRowContext(ctx, `
		SELECT id, member_id, amount, donation_type, status, created_at, completed_at
		FROM donations WHERE id = ?
	`, donationID))
	if err == sql.ErrNoRows {
		return nil, false, fmt.Errorf("donation %s: %w", donationID, types.ErrNotFound)
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get donation: %w", err)
	}

	if d.Status == types.DonationCompleted {
		// Replay of an already-processed donation: report success,
		// change nothing.
		return d, false, nil
	}
	if d.Status != types.DonationPending {
		return nil, false, fmt.Errorf("donation %s is %s: %w", donationID, d.Status, types.ErrConsistency)
	}

	now := time.Now().UTC()
	res, err := conn.ExecContext(ctx, `
		UPDATE donations SET status = ?, completed_at = ?
		WHERE id = ? AND status = ?
	`, types.DonationCompleted, now, donationID, types.DonationPending)
	if err != nil {
		return nil, false, fmt.Errorf("failed to complete donation: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("failed to check donation update: %w", err)
	}
	if affected == 0 {
		return nil, false, fmt.Errorf("donation %s changed state mid-transaction: %w", donationID, types.ErrConsistency)
	}

	var total float64
	err = conn.QueryRowContext(ctx,
		`SELECT donation_total FROM members WHERE id = ?`, d.MemberID).Scan(&total)
	if err == sql.ErrNoRows {
		return nil, false, fmt.Errorf("member %s vanished under donation %s: %w", d.MemberID, donationID, types.ErrConsistency)
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get member total: %w", err)
	}

	newTotal := total + d.Amount
	newLevel := rewards.TierOf(newTotal)
	points := rewards.PointsFor(d.Amount, d.Type)

	_, err = conn.ExecContext(ctx, `
		UPDATE members
		SET donation_total = ?, membership_level = ?,
		    reward_points = reward_points + ?, updated_at = ?
		WHERE id = ?
	`, newTotal, newLevel, points, now, d.MemberID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to update member rewards: %w", err)
	}

	if err := commit(); err != nil {
		return nil, false, err
	}

	d.Status = types.DonationCompleted
	d.CompletedAt = &now
	return d, true, nil
}

// ListPendingDonations returns pending donations created at least
// olderThan ago, oldest first. The donation sweep completes these
// once the payment grace window has passed.
func (s *SQLiteStorage) ListPendingDonations(ctx context.Context, olderThan time.Duration, limit int) ([]*types.Donation, error) {
	if limit <= 0 {
		limit = 50
	}
	cutoff := time.Now().UTC().Add(-olderThan)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, member_id, amount, donation_type, status, created_at, completed_at
		FROM donations
		WHERE status = 'pending' AND created_at <= ?
		ORDER BY created_at ASC
		LIMIT ?
	`, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending donations: %w", err)
	}
	defer rows.Close()

	var donations []*types.Donation
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan donation: %w", err)
		}
		donations = append(donations, d)
	}
	return donations, rows.Err()
}
