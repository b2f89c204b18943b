package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/brightfield/wellspring/internal/rewards"
	"github.com/brightfield/wellspring/internal/types"
)

// CreateMember creates a new member account
func (s *SQLiteStorage) CreateMember(ctx context.Context, member *types.Member) error {
	if err := member.Validate(); err != nil {
		return err
	}

	if member.ID == "" {
		member.ID = uuid.NewString()
	}
	if member.APIToken == "" {
		member.APIToken = uuid.NewString()
	}
	if member.MembershipLevel == "" {
		member.MembershipLevel = types.LevelFree
	}

	now := time.Now().UTC()
	member.CreatedAt = now
	member.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO members (
			id, email, name, api_token, donation_total,
			membership_level, reward_points, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		member.ID, member.Email, member.Name, member.APIToken,
		member.DonationTotal, member.MembershipLevel, member.RewardPoints,
		member.CreatedAt, member.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}
	return nil
}

const memberColumns = `id, email, name, api_token, donation_total,
       membership_level, reward_points, coach_id, created_at, updated_at`

func scanMember(row interface{ Scan(...any) error }) (*types.Member, error) {
	var m types.Member
	var coachID sql.NullString

	err := row.Scan(
		&m.ID, &m.Email, &m.Name, &m.APIToken, &m.DonationTotal,
		&m.MembershipLevel, &m.RewardPoints, &coachID,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if coachID.Valid {
		m.CoachID = coachID.String
	}
	return &m, nil
}

// GetMember retrieves a member by ID
func (s *SQLiteStorage) GetMember(ctx context.Context, id string) (*types.Member, error) {
	m, err := scanMember(s.db.QueryRowContext(ctx,
		`SELECT `+memberColumns+` FROM members WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("member %s: %w", id, types.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return m, nil
}

// GetMemberByToken resolves an API token to its member. Used by the
// HTTP authentication middleware.
func (s *SQLiteStorage) GetMemberByToken(ctx context.Context, token string) (*types.Member, error) {
	m, err := scanMember(s.db.QueryRowContext(ctx,
		`SELECT `+memberColumns+` FROM members WHERE api_token = ?`, token))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("token: %w", types.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member by token: %w", err)
	}
	return m, nil
}

// tierCaseSQL renders the rewards tier table as a SQL CASE over
// donation_total, so the drift query below stays in lockstep with
// rewards.TierOf without restating thresholds by hand.
func tierCaseSQL() string {
	var b strings.Builder
	b.WriteString("CASE")
	for _, t := range rewards.Tiers() {
		fmt.Fprintf(&b, " WHEN donation_total >= %g THEN '%s'", t.Threshold, t.Level)
	}
	fmt.Fprintf(&b, " ELSE '%s' END", types.LevelFree)
	return b.String()
}

// SyncMemberTiers re-derives membership_level from donation_total for
// members whose stored level has drifted, up to limit at a time.
// Returns the number of members corrected. This is the tier
// reconciliation sweep's workhorse; donation completion keeps tiers
// current inline, so drift normally means a manual total adjustment.
// The query selects only drifted rows, so a batch window smaller than
// the member table still converges: each pass drains up to limit
// drifted members rather than rescanning the same leading rows.
func (s *SQLiteStorage) SyncMemberTiers(ctx context.Context, limit int) (int, error) {
	if limit <= 0 {
		limit = 100
	}

	conn, commit, done, err := s.immediateTx(ctx)
	if err != nil {
		return 0, err
	}
	defer done()

	rows, err := conn.QueryContext(ctx, `
		SELECT id, donation_total, membership_level
		FROM members
		WHERE membership_level != `+tierCaseSQL()+`
		LIMIT ?
	`, limit)
	if err != nil {
		return 0, fmt.Errorf("failed to list members for tier sync: %w", err)
	}

	type fix struct {
		id    string
		level types.MembershipLevel
	}
	var fixes []fix
	for rows.Next() {
		var id string
		var total float64
		var level types.MembershipLevel
		if err := rows.Scan(&id, &total, &level); err != nil {
			rows.Close()
			return 0, fmt.Errorf("failed to scan member: %w", err)
		}
		if want := rewards.TierOf(total); want != level {
			fixes = append(fixes, fix{id: id, level: want})
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, fmt.Errorf("failed to iterate members: %w", err)
	}
	rows.Close()

	for _, f := range fixes {
		_, err := conn.ExecContext(ctx, `
			UPDATE members SET membership_level = ?, updated_at = ? WHERE id = ?
		`, f.level, time.Now().UTC(), f.id)
		if err != nil {
			return 0, fmt.Errorf("failed to sync tier for member %s: %w", f.id, err)
		}
	}

	if err := commit(); err != nil {
		return 0, err
	}
	return len(fixes), nil
}
