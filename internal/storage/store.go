// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/ejfii/beginners-luck-sub000/internal/models"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("storage: not found")

	// ErrConflict is returned when a concurrent writer changed a row between
	// read and write.
	ErrConflict = errors.New("storage: conflict")

	// ErrDuplicate is returned when a unique constraint would be violated.
	ErrDuplicate = errors.New("storage: duplicate")
)

// BracketUpdate mutates a bracket inside an atomic read-modify-write.
// Returning an error aborts the update and nothing is written.
type BracketUpdate func(b *models.BracketProposal) error

// MediatorUpdate mutates a mediator proposal inside an atomic read-modify-write.
type MediatorUpdate func(p *models.MediatorProposal) error

// UserStore persists accounts.
type UserStore interface {
	// CreateUser assigns user.ID and inserts the row. ErrDuplicate if the
	// email is taken.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// NegotiationStore persists negotiations and their move history.
type NegotiationStore interface {
	// CreateNegotiation assigns n.ID and inserts the row.
	CreateNegotiation(ctx context.Context, n *models.Negotiation) error
	GetNegotiation(ctx context.Context, id string) (*models.Negotiation, error)
	// ListNegotiations returns the owner's negotiations, most recent first.
	ListNegotiations(ctx context.Context, ownerID string) ([]*models.Negotiation, error)
	UpdateEvaluation(ctx context.Context, id string, eval models.CaseEvaluation, updatedAt time.Time) error

	// CreateMove assigns m.ID and inserts the row. In the same transaction it
	// moves m.Timestamp to 1µs past the negotiation's latest move when it is
	// not already later, so timestamps stay strictly increasing under
	// concurrent writers.
	CreateMove(ctx context.Context, m *models.Move) error
	// ListMoves returns a negotiation's moves in chronological order.
	ListMoves(ctx context.Context, negotiationID string) ([]models.Move, error)
	// DeleteMove removes one move. ErrNotFound if it is not part of the
	// negotiation.
	DeleteMove(ctx context.Context, negotiationID, moveID string) error
}

// ProposalStore persists bracket and mediator proposals.
type ProposalStore interface {
	CreateBracket(ctx context.Context, b *models.BracketProposal) error
	GetBracket(ctx context.Context, id string) (*models.BracketProposal, error)
	// ListBrackets returns a negotiation's brackets, most recent first.
	ListBrackets(ctx context.Context, negotiationID string) ([]*models.BracketProposal, error)
	// UpdateBracket loads the bracket, applies fn and writes the result in
	// one transaction.
	UpdateBracket(ctx context.Context, id string, fn BracketUpdate) (*models.BracketProposal, error)

	// ReplaceMediatorProposal stores p as the negotiation's only mediator
	// proposal, discarding any previous one.
	ReplaceMediatorProposal(ctx context.Context, p *models.MediatorProposal) error
	// GetMediatorProposal returns ErrNotFound when the negotiation has none.
	GetMediatorProposal(ctx context.Context, negotiationID string) (*models.MediatorProposal, error)
	// UpdateMediatorProposal loads the negotiation's proposal, applies fn and
	// writes the result in one transaction.
	UpdateMediatorProposal(ctx context.Context, negotiationID string, fn MediatorUpdate) (*models.MediatorProposal, error)
	// ExpireMediatorProposals marks pending proposals whose deadline is
	// before now as expired and reports how many changed.
	ExpireMediatorProposals(ctx context.Context, now time.Time) (int64, error)
}

// Store defines the full persistence surface used by the services.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL)
// without changing the service layer.
type Store interface {
	UserStore
	NegotiationStore
	ProposalStore

	// Close releases any resources held by the store.
	Close() error
}
