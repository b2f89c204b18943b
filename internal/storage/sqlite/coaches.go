package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/brightfield/wellspring/internal/types"
)

// CreateCoach registers a coach
func (s *SQLiteStorage) CreateCoach(ctx context.Context, coach *types.Coach) error {
	if coach.Name == "" || coach.Email == "" {
		return fmt.Errorf("%w: coach name and email are required", types.ErrValidation)
	}
	if coach.ID == "" {
		coach.ID = uuid.NewString()
	}
	coach.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO coaches (id, name, email, active, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, coach.ID, coach.Name, coach.Email, coach.Active, coach.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert coach: %w", err)
	}
	return nil
}

// ListUnassignedMembers returns members without a coach, oldest first
func (s *SQLiteStorage) ListUnassignedMembers(ctx context.Context, limit int) ([]*types.Member, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+memberColumns+`
		FROM members
		WHERE coach_id IS NULL
		ORDER BY created_at ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list unassigned members: %w", err)
	}
	defer rows.Close()

	var members []*types.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// LeastLoadedCoach returns the active coach with the fewest assigned
// members, or ErrNotFound when no coach is available
func (s *SQLiteStorage) LeastLoadedCoach(ctx context.Context) (*types.Coach, error) {
	var c types.Coach
	err := s.db.QueryRowContext(ctx, `
		SELECT c.id, c.name, c.email, c.active, c.created_at
		FROM coaches c
		LEFT JOIN members m ON m.coach_id = c.id
		WHERE c.active = 1
		GROUP BY c.id
		ORDER BY COUNT(m.id) ASC, c.created_at ASC
		LIMIT 1
	`).Scan(&c.ID, &c.Name, &c.Email, &c.Active, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no active coaches: %w", types.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find least loaded coach: %w", err)
	}
	return &c, nil
}

// AssignCoach links a member to a coach. Only unassigned members are
// eligible; assigning an already-assigned member is a consistency
// error, which keeps overlapping assignment passes from silently
// reassigning people.
func (s *SQLiteStorage) AssignCoach(ctx context.Context, memberID, coachID string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE members SET coach_id = ?, updated_at = ?
		WHERE id = ? AND coach_id IS NULL
	`, coachID, time.Now().UTC(), memberID)
	if err != nil {
		return fmt.Errorf("failed to assign coach: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check coach assignment: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("member %s already assigned or missing: %w", memberID, types.ErrConsistency)
	}
	return nil
}
