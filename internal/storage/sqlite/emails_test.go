package sqlite

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/brightfield/wellspring/internal/types"
)

func TestEnqueueAndListEmails(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	job := &types.EmailJob{
		Recipient: "donor@example.org",
		Subject:   "Thank you for your donation",
		Body:      "We received your one_time donation of $25.00.",
	}
	if err := store.EnqueueEmail(ctx, job); err != nil {
		t.Fatalf("Failed to enqueue email: %v", err)
	}
	if job.ID == 0 {
		t.Error("Expected assigned email ID")
	}
	if job.Status != types.EmailQueued {
		t.Errorf("Expected queued status, got %s", job.Status)
	}

	jobs, err := store.ListQueuedEmails(ctx, 3, 10)
	if err != nil {
		t.Fatalf("Failed to list queued emails: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("Expected 1 queued email, got %d", len(jobs))
	}
	if jobs[0].Recipient != "donor@example.org" {
		t.Errorf("Expected recipient donor@example.org, got %s", jobs[0].Recipient)
	}
}

func TestEnqueueEmailValidation(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	err := store.EnqueueEmail(ctx, &types.EmailJob{Subject: "No recipient"})
	if !errors.Is(err, types.ErrValidation) {
		t.Errorf("Expected ErrValidation for missing recipient, got %v", err)
	}

	err = store.EnqueueEmail(ctx, &types.EmailJob{Recipient: "a@b.org"})
	if !errors.Is(err, types.ErrValidation) {
		t.Errorf("Expected ErrValidation for missing subject, got %v", err)
	}
}

func TestMarkEmailResultSuccess(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	job := &types.EmailJob{Recipient: "a@b.org", Subject: "hi"}
	if err := store.EnqueueEmail(ctx, job); err != nil {
		t.Fatalf("Failed to enqueue email: %v", err)
	}

	if err := store.MarkEmailResult(ctx, job.ID, 3, nil); err != nil {
		t.Fatalf("Failed to mark email sent: %v", err)
	}

	jobs, err := store.ListQueuedEmails(ctx, 3, 10)
	if err != nil {
		t.Fatalf("Failed to list queued emails: %v", err)
	}
	if len(jobs) != 0 {
		t.Errorf("Expected sent email to leave the queue, got %d jobs", len(jobs))
	}
}

// TestMarkEmailResultFailureRetries verifies a failed attempt keeps the
// job queued until it exhausts maxAttempts, then lands it in the
// terminal failed status rather than leaving it queued forever.
func TestMarkEmailResultFailureRetries(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	job := &types.EmailJob{Recipient: "a@b.org", Subject: "hi"}
	if err := store.EnqueueEmail(ctx, job); err != nil {
		t.Fatalf("Failed to enqueue email: %v", err)
	}

	maxAttempts := 3
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		jobs, err := store.ListQueuedEmails(ctx, maxAttempts, 10)
		if err != nil {
			t.Fatalf("Failed to list queued emails: %v", err)
		}
		if len(jobs) != 1 {
			t.Fatalf("Expected job still eligible before attempt %d, got %d jobs", attempt, len(jobs))
		}
		if jobs[0].Attempts != attempt-1 {
			t.Errorf("Expected %d recorded attempts, got %d", attempt-1, jobs[0].Attempts)
		}

		err = store.MarkEmailResult(ctx, job.ID, maxAttempts, fmt.Errorf("smtp timeout on attempt %d", attempt))
		if err != nil {
			t.Fatalf("Failed to record email failure: %v", err)
		}
	}

	// Attempts exhausted; the job drops out of the sweep's view
	jobs, err := store.ListQueuedEmails(ctx, maxAttempts, 10)
	if err != nil {
		t.Fatalf("Failed to list queued emails: %v", err)
	}
	if len(jobs) != 0 {
		t.Errorf("Expected exhausted job excluded from the queue, got %d jobs", len(jobs))
	}

	// The stored row reflects the terminal state
	var status string
	var attempts int
	err = store.db.QueryRowContext(ctx,
		`SELECT status, attempts FROM email_queue WHERE id = ?`, job.ID).Scan(&status, &attempts)
	if err != nil {
		t.Fatalf("Failed to read email row: %v", err)
	}
	if status != string(types.EmailFailed) {
		t.Errorf("Expected failed status after exhausting attempts, got %s", status)
	}
	if attempts != maxAttempts {
		t.Errorf("Expected %d attempts recorded, got %d", maxAttempts, attempts)
	}
}

// Failures short of the cap leave the job queued
func TestMarkEmailResultFailureBelowCap(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	job := &types.EmailJob{Recipient: "a@b.org", Subject: "hi"}
	if err := store.EnqueueEmail(ctx, job); err != nil {
		t.Fatalf("Failed to enqueue email: %v", err)
	}

	if err := store.MarkEmailResult(ctx, job.ID, 3, fmt.Errorf("smtp timeout")); err != nil {
		t.Fatalf("Failed to record email failure: %v", err)
	}

	jobs, err := store.ListQueuedEmails(ctx, 3, 10)
	if err != nil {
		t.Fatalf("Failed to list queued emails: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("Expected job still queued after one failure, got %d jobs", len(jobs))
	}
	if jobs[0].Status != types.EmailQueued {
		t.Errorf("Expected queued status, got %s", jobs[0].Status)
	}
	if jobs[0].LastError == "" {
		t.Error("Expected last_error recorded")
	}
}
