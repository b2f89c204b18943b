package sqlite

import (
	"context"
	"os"
	"testing"

	"github.com/brightfield/wellspring/internal/types"
)

// setupTestDB creates a storage backend on a temp database file
func setupTestDB(t *testing.T) *SQLiteStorage {
	t.Helper()

	tmpfile, err := os.CreateTemp("", "wellspring-test-*.db")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	_ = tmpfile.Close()

	store, err := New(tmpfile.Name())
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
		_ = os.Remove(tmpfile.Name())
	})

	return store
}

// seedMember creates a member with the given donation total already
// recorded, as if imported from a prior system
func seedMember(t *testing.T, store *SQLiteStorage, email string, donationTotal float64) *types.Member {
	t.Helper()

	member := &types.Member{
		Email:           email,
		Name:            "Test Member",
		DonationTotal:   donationTotal,
		MembershipLevel: types.LevelFree,
	}
	if err := store.CreateMember(context.Background(), member); err != nil {
		t.Fatalf("Failed to create member: %v", err)
	}
	return member
}

func seedCoach(t *testing.T, store *SQLiteStorage, name string, active bool) *types.Coach {
	t.Helper()

	coach := &types.Coach{
		Name:   name,
		Email:  name + "@wellspring.test",
		Active: active,
	}
	if err := store.CreateCoach(context.Background(), coach); err != nil {
		t.Fatalf("Failed to create coach: %v", err)
	}
	return coach
}
