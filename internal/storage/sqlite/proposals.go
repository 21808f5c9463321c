package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ejfii/beginners-luck-sub000/internal/models"
	"github.com/ejfii/beginners-luck-sub000/internal/storage"
)

type bracketRow struct {
	ID              string  `db:"id"`
	NegotiationID   string  `db:"negotiation_id"`
	PlaintiffAmount float64 `db:"plaintiff_amount"`
	DefendantAmount float64 `db:"defendant_amount"`
	ProposedBy      string  `db:"proposed_by"`
	Status          string  `db:"status"`
	Notes           string  `db:"notes"`
	CreatedAt       int64   `db:"created_at"`
	Version         int64   `db:"version"`
}

func (r bracketRow) toModel() *models.BracketProposal {
	return &models.BracketProposal{
		ID:              r.ID,
		NegotiationID:   r.NegotiationID,
		PlaintiffAmount: r.PlaintiffAmount,
		DefendantAmount: r.DefendantAmount,
		ProposedBy:      models.Party(r.ProposedBy),
		Status:          models.BracketStatus(r.Status),
		Notes:           r.Notes,
		CreatedAt:       fromNanos(r.CreatedAt),
		Version:         r.Version,
	}
}

const bracketColumns = `id, negotiation_id, plaintiff_amount, defendant_amount, proposed_by, status, notes, created_at, version`

// CreateBracket persists a new bracket proposal.
func (s *SQLiteStore) CreateBracket(ctx context.Context, b *models.BracketProposal) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	b.Version = 1

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO bracket_proposals (`+bracketColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.NegotiationID, b.PlaintiffAmount, b.DefendantAmount,
		string(b.ProposedBy), string(b.Status), b.Notes, toNanos(b.CreatedAt), b.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bracket proposal: %w", err)
	}
	return nil
}

// GetBracket retrieves a bracket proposal by ID.
func (s *SQLiteStore) GetBracket(ctx context.Context, id string) (*models.BracketProposal, error) {
	var row bracketRow
	err := s.db.GetContext(ctx, &row, `SELECT `+bracketColumns+` FROM bracket_proposals WHERE id = ?`, id)
	if err != nil {
		return nil, notFound(err, "bracket proposal", id)
	}
	return row.toModel(), nil
}

// ListBrackets retrieves a negotiation's bracket proposals, newest first.
func (s *SQLiteStore) ListBrackets(ctx context.Context, negotiationID string) ([]*models.BracketProposal, error) {
	var rows []bracketRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT `+bracketColumns+` FROM bracket_proposals WHERE negotiation_id = ? ORDER BY created_at DESC, id DESC`,
		negotiationID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list bracket proposals: %w", err)
	}

	brackets := make([]*models.BracketProposal, 0, len(rows))
	for _, r := range rows {
		brackets = append(brackets, r.toModel())
	}
	return brackets, nil
}

// UpdateBracket applies fn to the stored bracket and writes it back,
// guarded by the row version.
func (s *SQLiteStore) UpdateBracket(ctx context.Context, id string, fn storage.BracketUpdate) (*models.BracketProposal, error) {
	var updated *models.BracketProposal
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		var row bracketRow
		if err := tx.GetContext(ctx, &row, `SELECT `+bracketColumns+` FROM bracket_proposals WHERE id = ?`, id); err != nil {
			return notFound(err, "bracket proposal", id)
		}

		b := row.toModel()
		if err := fn(b); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx,
			`UPDATE bracket_proposals SET plaintiff_amount = ?, defendant_amount = ?, status = ?, notes = ?,
			 version = version + 1 WHERE id = ? AND version = ?`,
			b.PlaintiffAmount, b.DefendantAmount, string(b.Status), b.Notes, id, row.Version,
		)
		if err != nil {
			return fmt.Errorf("failed to update bracket proposal: %w", err)
		}
		if err := requireVersion(res, "bracket proposal", id); err != nil {
			return err
		}

		b.Version = row.Version + 1
		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

type mediatorRow struct {
	ID                string         `db:"id"`
	NegotiationID     string         `db:"negotiation_id"`
	Amount            float64        `db:"amount"`
	Deadline          int64          `db:"deadline"`
	PlaintiffResponse sql.NullString `db:"plaintiff_response"`
	DefendantResponse sql.NullString `db:"defendant_response"`
	Status            string         `db:"status"`
	Notes             string         `db:"notes"`
	CreatedAt         int64          `db:"created_at"`
	UpdatedAt         int64          `db:"updated_at"`
	Version           int64          `db:"version"`
}

func (r mediatorRow) toModel() *models.MediatorProposal {
	return &models.MediatorProposal{
		ID:                r.ID,
		NegotiationID:     r.NegotiationID,
		Amount:            r.Amount,
		Deadline:          fromNanos(r.Deadline),
		PlaintiffResponse: responseFrom(r.PlaintiffResponse),
		DefendantResponse: responseFrom(r.DefendantResponse),
		Status:            models.MediatorStatus(r.Status),
		Notes:             r.Notes,
		CreatedAt:         fromNanos(r.CreatedAt),
		UpdatedAt:         fromNanos(r.UpdatedAt),
		Version:           r.Version,
	}
}

func responseFrom(ns sql.NullString) *models.Response {
	if !ns.Valid {
		return nil
	}
	r := models.Response(ns.String)
	return &r
}

func responseTo(r *models.Response) sql.NullString {
	if r == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*r), Valid: true}
}

const mediatorColumns = `id, negotiation_id, amount, deadline, plaintiff_response, defendant_response,
	status, notes, created_at, updated_at, version`

// ReplaceMediatorProposal deletes any existing proposal for the negotiation
// and inserts p in its place.
func (s *SQLiteStore) ReplaceMediatorProposal(ctx context.Context, p *models.MediatorProposal) error {
	p.ID = uuid.New().String()
	p.Version = 1

	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM mediator_proposals WHERE negotiation_id = ?`, p.NegotiationID); err != nil {
			return fmt.Errorf("failed to delete previous mediator proposal: %w", err)
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO mediator_proposals (`+mediatorColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.NegotiationID, p.Amount, toNanos(p.Deadline),
			responseTo(p.PlaintiffResponse), responseTo(p.DefendantResponse),
			string(p.Status), p.Notes, toNanos(p.CreatedAt), toNanos(p.UpdatedAt), p.Version,
		)
		if err != nil {
			return fmt.Errorf("failed to insert mediator proposal: %w", err)
		}
		return nil
	})
}

// GetMediatorProposal retrieves the negotiation's mediator proposal.
func (s *SQLiteStore) GetMediatorProposal(ctx context.Context, negotiationID string) (*models.MediatorProposal, error) {
	var row mediatorRow
	err := s.db.GetContext(ctx, &row,
		`SELECT `+mediatorColumns+` FROM mediator_proposals WHERE negotiation_id = ?`, negotiationID)
	if err != nil {
		return nil, notFound(err, "mediator proposal for negotiation", negotiationID)
	}
	return row.toModel(), nil
}

// UpdateMediatorProposal applies fn to the stored proposal and writes it
// back, guarded by the row version.
func (s *SQLiteStore) UpdateMediatorProposal(ctx context.Context, negotiationID string, fn storage.MediatorUpdate) (*models.MediatorProposal, error) {
	var updated *models.MediatorProposal
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		var row mediatorRow
		if err := tx.GetContext(ctx, &row,
			`SELECT `+mediatorColumns+` FROM mediator_proposals WHERE negotiation_id = ?`, negotiationID); err != nil {
			return notFound(err, "mediator proposal for negotiation", negotiationID)
		}

		p := row.toModel()
		if err := fn(p); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx,
			`UPDATE mediator_proposals SET plaintiff_response = ?, defendant_response = ?, status = ?,
			 notes = ?, updated_at = ?, version = version + 1 WHERE id = ? AND version = ?`,
			responseTo(p.PlaintiffResponse), responseTo(p.DefendantResponse), string(p.Status),
			p.Notes, toNanos(p.UpdatedAt), row.ID, row.Version,
		)
		if err != nil {
			return fmt.Errorf("failed to update mediator proposal: %w", err)
		}
		if err := requireVersion(res, "mediator proposal", row.ID); err != nil {
			return err
		}

		p.Version = row.Version + 1
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ExpireMediatorProposals marks overdue pending proposals as expired.
func (s *SQLiteStore) ExpireMediatorProposals(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE mediator_proposals SET status = ?, updated_at = ?, version = version + 1
		 WHERE status = ? AND deadline < ?`,
		string(models.MediatorExpired), toNanos(now), string(models.MediatorPending), toNanos(now),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to expire mediator proposals: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count expired proposals: %w", err)
	}
	return n, nil
}

func requireVersion(res sql.Result, what, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check %s update: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s %s was modified concurrently", storage.ErrConflict, what, id)
	}
	return nil
}
