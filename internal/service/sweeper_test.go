package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ejfii/beginners-luck-sub000/internal/models"
	"github.com/ejfii/beginners-luck-sub000/internal/storage"
)

// expiringStore records sweep calls. Only ExpireMediatorProposals is used.
type expiringStore struct {
	storage.ProposalStore
	calls chan time.Time
	count int64
	err   error
}

func (s *expiringStore) ExpireMediatorProposals(ctx context.Context, now time.Time) (int64, error) {
	select {
	case s.calls <- now:
	default:
	}
	return s.count, s.err
}

func TestSweeperSweep(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	n := &models.Negotiation{OwnerID: "alice", Title: "Case", CreatedAt: env.clock.Now(), UpdatedAt: env.clock.Now()}
	if err := env.store.CreateNegotiation(ctx, n); err != nil {
		t.Fatal(err)
	}
	p := &models.MediatorProposal{
		NegotiationID: n.ID,
		Amount:        100000,
		Deadline:      env.clock.Now().Add(time.Hour),
		Status:        models.MediatorPending,
		CreatedAt:     env.clock.Now(),
		UpdatedAt:     env.clock.Now(),
	}
	if err := env.store.ReplaceMediatorProposal(ctx, p); err != nil {
		t.Fatal(err)
	}

	sweeper := NewSweeper(env.store, time.Minute, logger)
	sweeper.now = env.clock.Now

	if got := sweeper.Sweep(ctx); got != 0 {
		t.Errorf("Sweep before deadline expired %d, want 0", got)
	}

	env.clock.Advance(2 * time.Hour)
	if got := sweeper.Sweep(ctx); got != 1 {
		t.Errorf("Sweep after deadline expired %d, want 1", got)
	}

	stored, err := env.store.GetMediatorProposal(ctx, n.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status != models.MediatorExpired {
		t.Errorf("stored Status = %q, want expired", stored.Status)
	}

	if got := sweeper.Sweep(ctx); got != 0 {
		t.Errorf("second Sweep expired %d, want 0", got)
	}
}

func TestSweeperRun(t *testing.T) {
	store := &expiringStore{calls: make(chan time.Time, 1), err: errors.New("database is locked")}
	sweeper := NewSweeper(store, 5*time.Millisecond, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sweeper.Run(ctx) }()

	select {
	case <-store.calls:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper never ran")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop")
	}
}
