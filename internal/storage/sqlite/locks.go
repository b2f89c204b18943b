package sqlite

import (
	"context"
	"fmt"
	"time"
)

// AcquireJobLock attempts to claim the advisory lock for a sweep job.
// The claim succeeds when no lock row exists, the existing lock has
// expired, or the holder already owns it (re-entrant for the same
// holder, so a crashed run's successor with the same identity can
// recover without waiting out the TTL). Returns false when another
// holder's unexpired lock is present.
func (s *SQLiteStorage) AcquireJobLock(ctx context.Context, job, holder string, ttl time.Duration) (bool, error) {
	now := time.Now().UTC()
	expires := now.Add(ttl)

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO job_locks (job, holder, acquired_at, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(job) DO UPDATE SET
			holder = excluded.holder,
			acquired_at = excluded.acquired_at,
			expires_at = excluded.expires_at
		WHERE job_locks.expires_at <= ? OR job_locks.holder = excluded.holder
	`, job, holder, now, expires, now)
	if err != nil {
		return false, fmt.Errorf("failed to acquire job lock %q: %w", job, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check job lock %q: %w", job, err)
	}
	return affected > 0, nil
}

// ReleaseJobLock drops the advisory lock if this holder still owns it
func (s *SQLiteStorage) ReleaseJobLock(ctx context.Context, job, holder string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM job_locks WHERE job = ? AND holder = ?
	`, job, holder)
	if err != nil {
		return fmt.Errorf("failed to release job lock %q: %w", job, err)
	}
	return nil
}
