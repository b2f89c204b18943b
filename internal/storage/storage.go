package storage

import (
	"context"
	"time"

	"github.com/brightfield/wellspring/internal/storage/sqlite"
	"github.com/brightfield/wellspring/internal/types"
)

// Storage defines the interface for platform storage backends
type Storage interface {
	// Members
	CreateMember(ctx context.Context, member *types.Member) error
	GetMember(ctx context.Context, id string) (*types.Member, error)
	GetMemberByToken(ctx context.Context, token string) (*types.Member, error)
	SyncMemberTiers(ctx context.Context, limit int) (int, error)

	// Coach assignment
	ListUnassignedMembers(ctx context.Context, limit int) ([]*types.Member, error)
	CreateCoach(ctx context.Context, coach *types.Coach) error
	LeastLoadedCoach(ctx context.Context) (*types.Coach, error)
	AssignCoach(ctx context.Context, memberID, coachID string) error

	// Donations
	CreateDonation(ctx context.Context, donation *types.Donation) error
	GetDonation(ctx context.Context, id string) (*types.Donation, error)
	CompleteDonation(ctx context.Context, donationID string) (*types.Donation, bool, error)
	ListPendingDonations(ctx context.Context, olderThan time.Duration, limit int) ([]*types.Donation, error)

	// Journeys
	CreateJourney(ctx context.Context, journey *types.Journey) error
	GetJourney(ctx context.Context, id string) (*types.Journey, error)
	GetActiveJourney(ctx context.Context, memberID string) (*types.Journey, error)
	GetRecommendation(ctx context.Context, id string) (*types.Recommendation, error)
	ApplyProgress(ctx context.Context, recommendationID, memberID string, progress float64) (float64, error)

	// Email queue
	EnqueueEmail(ctx context.Context, job *types.EmailJob) error
	ListQueuedEmails(ctx context.Context, maxAttempts, limit int) ([]*types.EmailJob, error)
	MarkEmailResult(ctx context.Context, id int64, maxAttempts int, sendErr error) error

	// Job locks - advisory locks so overlapping sweep runs skip
	// instead of double-processing
	AcquireJobLock(ctx context.Context, job, holder string, ttl time.Duration) (bool, error)
	ReleaseJobLock(ctx context.Context, job, holder string) error

	// Statistics
	GetStatistics(ctx context.Context) (*types.PlatformStats, error)

	// Lifecycle
	Close() error
}

// Config holds database configuration
type Config struct {
	// Path is the SQLite database file path.
	// Special value ":memory:" creates an in-memory database (useful for tests)
	Path string
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Path: "data/wellspring.db",
	}
}

// NewStorage creates a new SQLite storage backend
func NewStorage(ctx context.Context, cfg *Config) (Storage, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Path == "" {
		cfg.Path = DefaultConfig().Path
	}
	return sqlite.New(cfg.Path)
}
