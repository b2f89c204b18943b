package sqlite

import (
	"context"
	"testing"
	"time"
)

func TestAcquireJobLock(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	acquired, err := store.AcquireJobLock(ctx, "donations", "host-a", time.Minute)
	if err != nil {
		t.Fatalf("Failed to acquire lock: %v", err)
	}
	if !acquired {
		t.Fatal("Expected first acquisition to succeed")
	}

	// A second holder is blocked while the lock is live
	acquired, err = store.AcquireJobLock(ctx, "donations", "host-b", time.Minute)
	if err != nil {
		t.Fatalf("Failed to attempt lock: %v", err)
	}
	if acquired {
		t.Error("Expected second holder to be blocked")
	}

	// Locks are per-job, not global
	acquired, err = store.AcquireJobLock(ctx, "emails", "host-b", time.Minute)
	if err != nil {
		t.Fatalf("Failed to acquire different job lock: %v", err)
	}
	if !acquired {
		t.Error("Expected a different job's lock to be available")
	}
}

// TestJobLockReentrant verifies the same holder can re-acquire its own
// lock, so a restarted run with the same identity recovers immediately.
func TestJobLockReentrant(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		acquired, err := store.AcquireJobLock(ctx, "tiers", "host-a", time.Minute)
		if err != nil {
			t.Fatalf("Failed to acquire lock (attempt %d): %v", i+1, err)
		}
		if !acquired {
			t.Fatalf("Expected re-entrant acquisition to succeed (attempt %d)", i+1)
		}
	}
}

func TestJobLockExpiry(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	// Negative TTL: the lock is born expired
	acquired, err := store.AcquireJobLock(ctx, "coaches", "crashed-host", -time.Second)
	if err != nil {
		t.Fatalf("Failed to acquire lock: %v", err)
	}
	if !acquired {
		t.Fatal("Expected initial acquisition to succeed")
	}

	acquired, err = store.AcquireJobLock(ctx, "coaches", "host-b", time.Minute)
	if err != nil {
		t.Fatalf("Failed to acquire expired lock: %v", err)
	}
	if !acquired {
		t.Error("Expected expired lock to be claimable by another holder")
	}
}

func TestReleaseJobLock(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	if _, err := store.AcquireJobLock(ctx, "donations", "host-a", time.Minute); err != nil {
		t.Fatalf("Failed to acquire lock: %v", err)
	}

	// A foreign release is a no-op; the lock stays held
	if err := store.ReleaseJobLock(ctx, "donations", "host-b"); err != nil {
		t.Fatalf("Failed foreign release: %v", err)
	}
	acquired, err := store.AcquireJobLock(ctx, "donations", "host-b", time.Minute)
	if err != nil {
		t.Fatalf("Failed to attempt lock: %v", err)
	}
	if acquired {
		t.Error("Expected lock still held after foreign release")
	}

	// The owner's release frees it
	if err := store.ReleaseJobLock(ctx, "donations", "host-a"); err != nil {
		t.Fatalf("Failed to release lock: %v", err)
	}
	acquired, err = store.AcquireJobLock(ctx, "donations", "host-b", time.Minute)
	if err != nil {
		t.Fatalf("Failed to acquire released lock: %v", err)
	}
	if !acquired {
		t.Error("Expected released lock to be available")
	}
}
