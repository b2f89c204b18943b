package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/brightfield/wellspring/internal/types"
)

// EnqueueEmail adds an outbound email to the queue
func (s *SQLiteStorage) EnqueueEmail(ctx context.Context, job *types.EmailJob) error {
	if job.Recipient == "" {
		return fmt.Errorf("%w: email recipient is required", types.ErrValidation)
	}
	if job.Subject == "" {
		return fmt.Errorf("%w: email subject is required", types.ErrValidation)
	}

	job.Status = types.EmailQueued
	job.CreatedAt = time.Now().UTC()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO email_queue (recipient, subject, body, status, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, job.Recipient, job.Subject, job.Body, job.Status, job.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to enqueue email: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get email id: %w", err)
	}
	job.ID = id
	return nil
}

// ListQueuedEmails returns queued emails with fewer than maxAttempts
// delivery attempts, oldest first
func (s *SQLiteStorage) ListQueuedEmails(ctx context.Context, maxAttempts, limit int) ([]*types.EmailJob, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, recipient, subject, body, status, attempts, last_error, created_at, sent_at
		FROM email_queue
		WHERE status = 'queued' AND attempts < ?
		ORDER BY created_at ASC
		LIMIT ?
	`, maxAttempts, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list queued emails: %w", err)
	}
	defer rows.Close()

	var jobs []*types.EmailJob
	for rows.Next() {
		var j types.EmailJob
		var sentAt *time.Time
		if err := rows.Scan(&j.ID, &j.Recipient, &j.Subject, &j.Body, &j.Status,
			&j.Attempts, &j.LastError, &j.CreatedAt, &sentAt); err != nil {
			return nil, fmt.Errorf("failed to scan email job: %w", err)
		}
		j.SentAt = sentAt
		jobs = append(jobs, &j)
	}
	return jobs, rows.Err()
}

// MarkEmailResult records the outcome of one delivery attempt. A nil
// sendErr marks the job sent. On failure the attempt counter advances;
// the job stays queued until it reaches maxAttempts, then moves to the
// terminal failed status. A maxAttempts of zero or less never fails
// the job out.
func (s *SQLiteStorage) MarkEmailResult(ctx context.Context, id int64, maxAttempts int, sendErr error) error {
	if sendErr == nil {
		_, err := s.db.ExecContext(ctx, `
			UPDATE email_queue
			SET status = 'sent', attempts = attempts + 1, sent_at = ?
			WHERE id = ?
		`, time.Now().UTC(), id)
		if err != nil {
			return fmt.Errorf("failed to mark email sent: %w", err)
		}
		return nil
	}

	_, err := s.db.ExecContext(ctx, `
		UPDATE email_queue
		SET attempts = attempts + 1,
		    last_error = ?,
		    status = CASE WHEN ? > 0 AND attempts + 1 >= ? THEN 'failed' ELSE status END
		WHERE id = ?
	`, sendErr.Error(), maxAttempts, maxAttempts, id)
	if err != nil {
		return fmt.Errorf("failed to record email failure: %w", err)
	}
	return nil
}
