package types

import (
	"fmt"
	"time"
)

// MembershipLevel is derived from a member's running donation total.
// Levels control reward multipliers and perks on the platform side.
type MembershipLevel string

const (
	LevelFree      MembershipLevel = "free"
	LevelSupporter MembershipLevel = "supporter"
	LevelChampion  MembershipLevel = "champion"
	LevelGuardian  MembershipLevel = "guardian"
)

// IsValid checks if the membership level value is valid
func (m MembershipLevel) IsValid() bool {
	switch m {
	case LevelFree, LevelSupporter, LevelChampion, LevelGuardian:
		return true
	}
	return false
}

// Member is a platform account. DonationTotal, MembershipLevel and
// RewardPoints form one aggregate: they are only updated together,
// inside the donation-completion transaction or the tier
// reconciliation sweep.
type Member struct {
	ID              string          `json:"id"`
	Email           string          `json:"email"`
	Name            string          `json:"name"`
	APIToken        string          `json:"-"`
	DonationTotal   float64         `json:"donation_total"`
	MembershipLevel MembershipLevel `json:"membership_level"`
	RewardPoints    int             `json:"reward_points"`
	CoachID         string          `json:"coach_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Validate checks if the member has valid field values
func (m *Member) Validate() error {
	if m.Email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	if m.DonationTotal < 0 {
		return fmt.Errorf("%w: donation_total cannot be negative", ErrValidation)
	}
	if m.MembershipLevel != "" && !m.MembershipLevel.IsValid() {
		return fmt.Errorf("%w: invalid membership_level: %s", ErrValidation, m.MembershipLevel)
	}
	if m.RewardPoints < 0 {
		return fmt.Errorf("%w: reward_points cannot be negative", ErrValidation)
	}
	return nil
}

// DonationType distinguishes one-off gifts from recurring ones.
// Monthly donations earn double reward points.
type DonationType string

const (
	DonationOneTime DonationType = "one_time"
	DonationMonthly DonationType = "monthly"
)

// IsValid checks if the donation type value is valid
func (d DonationType) IsValid() bool {
	return d == DonationOneTime || d == DonationMonthly
}

// DonationStatus is the lifecycle state of a donation
type DonationStatus string

const (
	DonationPending   DonationStatus = "pending"
	DonationCompleted DonationStatus = "completed"
	DonationFailed    DonationStatus = "failed"
)

// IsValid checks if the donation status value is valid
func (s DonationStatus) IsValid() bool {
	switch s {
	case DonationPending, DonationCompleted, DonationFailed:
		return true
	}
	return false
}

// Donation is a single gift. Completion transitions pending→completed
// and credits the member's aggregate exactly once; replaying a
// completion for the same donation id is a no-op.
type Donation struct {
	ID          string         `json:"id"`
	MemberID    string         `json:"member_id"`
	Amount      float64        `json:"amount"`
	Type        DonationType   `json:"donation_type"`
	Status      DonationStatus `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
}

// Validate checks if the donation has valid field values
func (d *Donation) Validate() error {
	if d.MemberID == "" {
		return fmt.Errorf("%w: member_id is required", ErrValidation)
	}
	if d.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive (got %.2f)", ErrValidation, d.Amount)
	}
	if !d.Type.IsValid() {
		return fmt.Errorf("%w: invalid donation_type: %s", ErrValidation, d.Type)
	}
	return nil
}

// EmailStatus is the lifecycle state of a queued outbound email
type EmailStatus string

const (
	EmailQueued EmailStatus = "queued"
	EmailSent   EmailStatus = "sent"
	EmailFailed EmailStatus = "failed"
)

// EmailJob is one outbound email in the admin queue. Jobs are drained
// by the email sweep; a failed job records the attempt and stays
// eligible until it reaches MaxEmailAttempts, at which point it moves
// to the terminal failed status.
type EmailJob struct {
	ID        int64       `json:"id"`
	Recipient string      `json:"recipient"`
	Subject   string      `json:"subject"`
	Body      string      `json:"body"`
	Status    EmailStatus `json:"status"`
	Attempts  int         `json:"attempts"`
	LastError string      `json:"last_error,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	SentAt    *time.Time  `json:"sent_at,omitempty"`
}

// Coach is a staff member who takes on members for guidance
type Coach struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}
