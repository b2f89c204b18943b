package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/brightfield/wellspring/internal/types"
)

// GetStatistics gathers aggregate platform metrics for the status command
func (s *SQLiteStorage) GetStatistics(ctx context.Context) (*types.PlatformStats, error) {
	stats := &types.PlatformStats{}

	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM members`).Scan(&stats.Members)
	if err != nil {
		return nil, fmt.Errorf("failed to count members: %w", err)
	}

	var avg sql.NullFloat64
	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), AVG(overall_progress) FROM journeys
	`).Scan(&stats.ActiveJourneys, &avg)
	if err != nil {
		return nil, fmt.Errorf("failed to count journeys: %w", err)
	}
	if avg.Valid {
		stats.AverageProgress = avg.Float64
	}

	var total sql.NullFloat64
	err = s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(CASE WHEN status = 'pending' THEN 1 END),
			COUNT(CASE WHEN status = 'completed' THEN 1 END),
			SUM(CASE WHEN status = 'completed' THEN amount ELSE 0 END)
		FROM donations
	`).Scan(&stats.PendingDonations, &stats.CompletedDonations, &total)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize donations: %w", err)
	}
	if total.Valid {
		stats.DonationTotal = total.Float64
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM email_queue WHERE status = 'queued'
	`).Scan(&stats.QueuedEmails)
	if err != nil {
		return nil, fmt.Errorf("failed to count queued emails: %w", err)
	}

	return stats, nil
}
