// Package sweep runs the admin-side periodic batch jobs: completing
// pending donations, draining the outbound email queue, reconciling
// membership tiers, and assigning coaches. Each job is a batch
// function over the storage interface, driven by an explicit
// scheduler and guarded by an advisory lock so overlapping runs skip
// instead of double-processing.
package sweep

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/brightfield/wellspring/internal/storage"
)

// Job is one periodic batch task. Run processes a single pass and
// reports how many items it handled; item-level failures are logged
// and skipped inside Run, never returned, so one bad item cannot
// abort the batch. Run errors mean the whole pass failed (storage
// unreachable, lock query failed).
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) (int, error)
}

// Config controls sweep cadence and batch sizing
type Config struct {
	DonationInterval time.Duration `yaml:"donation_interval"`
	EmailInterval    time.Duration `yaml:"email_interval"`
	TierInterval     time.Duration `yaml:"tier_interval"`
	CoachInterval    time.Duration `yaml:"coach_interval"`

	// DonationGrace is how long a donation stays pending before the
	// sweep completes it
	DonationGrace time.Duration `yaml:"donation_grace"`

	BatchSize        int `yaml:"batch_size"`
	MaxEmailAttempts int `yaml:"max_email_attempts"`

	// LockTTL bounds how long a crashed run can hold a job lock
	LockTTL time.Duration `yaml:"lock_ttl"`
}

// DefaultConfig returns sweep settings suitable for production
func DefaultConfig() *Config {
	return &Config{
		DonationInterval: 1 * time.Minute,
		EmailInterval:    30 * time.Second,
		TierInterval:     15 * time.Minute,
		CoachInterval:    5 * time.Minute,
		DonationGrace:    2 * time.Minute,
		BatchSize:        50,
		MaxEmailAttempts: 3,
		LockTTL:          5 * time.Minute,
	}
}

// Sweeper schedules and runs the batch jobs
type Sweeper struct {
	mu sync.Mutex

	store  storage.Storage
	sender EmailSender
	config *Config
	logger *zap.Logger
	holder string

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

// Deps holds dependencies for creating a Sweeper
type Deps struct {
	Store  storage.Storage
	Sender EmailSender
	Config *Config
	Logger *zap.Logger
}

// NewSweeper creates a sweeper instance
func NewSweeper(deps *Deps) (*Sweeper, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("store is required")
	}

	config := deps.Config
	if config == nil {
		config = DefaultConfig()
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	sender := deps.Sender
	if sender == nil {
		sender = NewLogSender(logger)
	}

	hostname, _ := os.Hostname()
	holder := fmt.Sprintf("%s-%d-%s", hostname, os.Getpid(), uuid.NewString()[:8])

	return &Sweeper{
		store:  deps.Store,
		sender: sender,
		config: config,
		logger: logger,
		holder: holder,
	}, nil
}

// Start launches one goroutine per job. Calling Start on a running
// sweeper is an error.
func (s *Sweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("sweeper already running")
	}

	s.ctx, s.cancel = context.WithCancel(ctx)
	s.running = true

	for _, job := range s.Jobs() {
		s.wg.Add(1)
		go s.runLoop(job)
	}

	s.logger.Info("sweeper started", zap.String("holder", s.holder))
	return nil
}

// Stop gracefully stops all job loops
func (s *Sweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cancel()
	s.running = false
	s.wg.Wait()
	s.logger.Info("sweeper stopped")
}

// Jobs returns the configured job set. Exposed so the sweep CLI
// command can run individual passes on demand.
func (s *Sweeper) Jobs() []Job {
	return []Job{
		{Name: "donations", Interval: s.config.DonationInterval, Run: s.sweepDonations},
		{Name: "emails", Interval: s.config.EmailInterval, Run: s.sweepEmails},
		{Name: "tiers", Interval: s.config.TierInterval, Run: s.sweepTiers},
		{Name: "coaches", Interval: s.config.CoachInterval, Run: s.sweepCoaches},
	}
}

// RunOnce executes a single locked pass of the named job. Returns the
// number of items processed, or false if the lock was held elsewhere.
func (s *Sweeper) RunOnce(ctx context.Context, name string) (int, bool, error) {
	for _, job := range s.Jobs() {
		if job.Name == name {
			return s.lockedPass(ctx, job)
		}
	}
	return 0, false, fmt.Errorf("unknown sweep job %q", name)
}

// runLoop drives one job on its interval. A timer rather than a
// ticker: the next pass is scheduled only after the current pass
// finishes, so a slow pass cannot stack up behind itself in-process.
// The advisory lock covers the cross-process case.
func (s *Sweeper) runLoop(job Job) {
	defer s.wg.Done()

	timer := time.NewTimer(job.Interval)
	defer timer.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return

		case <-timer.C:
			passCtx, cancel := context.WithTimeout(s.ctx, job.Interval)
			n, acquired, err := s.lockedPass(passCtx, job)
			cancel()

			switch {
			case err != nil:
				s.logger.Warn("sweep pass failed",
					zap.String("job", job.Name), zap.Error(err))
			case !acquired:
				s.logger.Debug("sweep pass skipped, lock held elsewhere",
					zap.String("job", job.Name))
			case n > 0:
				s.logger.Info("sweep pass complete",
					zap.String("job", job.Name), zap.Int("processed", n))
			}

			timer.Reset(job.Interval)
		}
	}
}

func (s *Sweeper) lockedPass(ctx context.Context, job Job) (int, bool, error) {
	acquired, err := s.store.AcquireJobLock(ctx, job.Name, s.holder, s.config.LockTTL)
	if err != nil {
		return 0, false, err
	}
	if !acquired {
		return 0, false, nil
	}
	defer func() {
		// Background context: release even when the pass timed out
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.store.ReleaseJobLock(releaseCtx, job.Name, s.holder); err != nil {
			s.logger.Warn("failed to release job lock",
				zap.String("job", job.Name), zap.Error(err))
		}
	}()

	n, err := job.Run(ctx)
	return n, true, err
}
