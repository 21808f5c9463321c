package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ejfii/beginners-luck-sub000/internal/models"
	"github.com/ejfii/beginners-luck-sub000/internal/storage"
)

const bracketColumns = `id, negotiation_id, plaintiff_amount, defendant_amount, proposed_by, status, notes, created_at, version`

// CreateBracket persists a new bracket proposal.
func (s *PostgresStore) CreateBracket(ctx context.Context, b *models.BracketProposal) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	b.Version = 1

	_, err := s.pool.Exec(ctx,
		`INSERT INTO bracket_proposals (`+bracketColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		b.ID, b.NegotiationID, b.PlaintiffAmount, b.DefendantAmount,
		string(b.ProposedBy), string(b.Status), b.Notes, b.CreatedAt, b.Version,
	)
	if err != nil {
		return fmt.Errorf("postgres: create bracket proposal: %w", err)
	}
	return nil
}

// GetBracket retrieves a bracket proposal by ID.
func (s *PostgresStore) GetBracket(ctx context.Context, id string) (*models.BracketProposal, error) {
	b, err := scanBracket(s.pool.QueryRow(ctx, `SELECT `+bracketColumns+` FROM bracket_proposals WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "bracket proposal", id)
	}
	return b, nil
}

// ListBrackets retrieves a negotiation's bracket proposals, newest first.
func (s *PostgresStore) ListBrackets(ctx context.Context, negotiationID string) ([]*models.BracketProposal, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+bracketColumns+` FROM bracket_proposals WHERE negotiation_id = $1 ORDER BY created_at DESC, id DESC`,
		negotiationID)
	if err != nil {
		return nil, fmt.Errorf("postgres: list bracket proposals: %w", err)
	}
	brackets, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.BracketProposal, error) {
		return scanBracket(row)
	})
	if err != nil {
		return nil, fmt.Errorf("postgres: scan bracket proposals: %w", err)
	}
	return brackets, nil
}

// UpdateBracket locks the bracket row, applies fn and writes the result.
func (s *PostgresStore) UpdateBracket(ctx context.Context, id string, fn storage.BracketUpdate) (*models.BracketProposal, error) {
	var updated *models.BracketProposal
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		b, err := scanBracket(tx.QueryRow(ctx,
			`SELECT `+bracketColumns+` FROM bracket_proposals WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			return notFound(err, "bracket proposal", id)
		}
		if err := fn(b); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx,
			`UPDATE bracket_proposals SET plaintiff_amount = $1, defendant_amount = $2, status = $3,
			 notes = $4, version = version + 1 WHERE id = $5`,
			b.PlaintiffAmount, b.DefendantAmount, string(b.Status), b.Notes, id,
		); err != nil {
			return fmt.Errorf("postgres: update bracket proposal: %w", err)
		}

		b.Version++
		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func scanBracket(row pgx.Row) (*models.BracketProposal, error) {
	var (
		b                  models.BracketProposal
		proposedBy, status string
	)
	err := row.Scan(&b.ID, &b.NegotiationID, &b.PlaintiffAmount, &b.DefendantAmount,
		&proposedBy, &status, &b.Notes, &b.CreatedAt, &b.Version)
	if err != nil {
		return nil, err
	}
	b.ProposedBy = models.Party(proposedBy)
	b.Status = models.BracketStatus(status)
	b.CreatedAt = b.CreatedAt.UTC()
	return &b, nil
}

const mediatorColumns = `id, negotiation_id, amount, deadline, plaintiff_response, defendant_response,
	status, notes, created_at, updated_at, version`

// ReplaceMediatorProposal stores p as the negotiation's only mediator
// proposal, overwriting any previous one in a single upsert.
func (s *PostgresStore) ReplaceMediatorProposal(ctx context.Context, p *models.MediatorProposal) error {
	p.ID = uuid.New().String()
	p.Version = 1

	_, err := s.pool.Exec(ctx,
		`INSERT INTO mediator_proposals (`+mediatorColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (negotiation_id) DO UPDATE SET
			id = EXCLUDED.id,
			amount = EXCLUDED.amount,
			deadline = EXCLUDED.deadline,
			plaintiff_response = EXCLUDED.plaintiff_response,
			defendant_response = EXCLUDED.defendant_response,
			status = EXCLUDED.status,
			notes = EXCLUDED.notes,
			created_at = EXCLUDED.created_at,
			updated_at = EXCLUDED.updated_at,
			version = EXCLUDED.version`,
		p.ID, p.NegotiationID, p.Amount, p.Deadline,
		responseText(p.PlaintiffResponse), responseText(p.DefendantResponse),
		string(p.Status), p.Notes, p.CreatedAt, p.UpdatedAt, p.Version,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: mediator proposal for %s", storage.ErrConflict, p.NegotiationID)
		}
		return fmt.Errorf("postgres: upsert mediator proposal: %w", err)
	}
	return nil
}

// GetMediatorProposal retrieves the negotiation's mediator proposal.
func (s *PostgresStore) GetMediatorProposal(ctx context.Context, negotiationID string) (*models.MediatorProposal, error) {
	p, err := scanMediator(s.pool.QueryRow(ctx,
		`SELECT `+mediatorColumns+` FROM mediator_proposals WHERE negotiation_id = $1`, negotiationID))
	if err != nil {
		return nil, notFound(err, "mediator proposal for negotiation", negotiationID)
	}
	return p, nil
}

// UpdateMediatorProposal locks the negotiation's proposal row, applies fn
// and writes the result.
func (s *PostgresStore) UpdateMediatorProposal(ctx context.Context, negotiationID string, fn storage.MediatorUpdate) (*models.MediatorProposal, error) {
	var updated *models.MediatorProposal
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		p, err := scanMediator(tx.QueryRow(ctx,
			`SELECT `+mediatorColumns+` FROM mediator_proposals WHERE negotiation_id = $1 FOR UPDATE`, negotiationID))
		if err != nil {
			return notFound(err, "mediator proposal for negotiation", negotiationID)
		}
		if err := fn(p); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx,
			`UPDATE mediator_proposals SET plaintiff_response = $1, defendant_response = $2, status = $3,
			 notes = $4, updated_at = $5, version = version + 1 WHERE id = $6`,
			responseText(p.PlaintiffResponse), responseText(p.DefendantResponse),
			string(p.Status), p.Notes, p.UpdatedAt, p.ID,
		); err != nil {
			return fmt.Errorf("postgres: update mediator proposal: %w", err)
		}

		p.Version++
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ExpireMediatorProposals marks overdue pending proposals as expired.
func (s *PostgresStore) ExpireMediatorProposals(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE mediator_proposals SET status = $1, updated_at = $2, version = version + 1
		 WHERE status = $3 AND deadline < $2`,
		string(models.MediatorExpired), now, string(models.MediatorPending),
	)
	if err != nil {
		return 0, fmt.Errorf("postgres: expire mediator proposals: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanMediator(row pgx.Row) (*models.MediatorProposal, error) {
	var (
		p                    models.MediatorProposal
		plaintiff, defendant *string
		status               string
	)
	err := row.Scan(&p.ID, &p.NegotiationID, &p.Amount, &p.Deadline, &plaintiff, &defendant,
		&status, &p.Notes, &p.CreatedAt, &p.UpdatedAt, &p.Version)
	if err != nil {
		return nil, err
	}
	p.PlaintiffResponse = responseFrom(plaintiff)
	p.DefendantResponse = responseFrom(defendant)
	p.Status = models.MediatorStatus(status)
	p.Deadline = p.Deadline.UTC()
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return &p, nil
}

func responseFrom(s *string) *models.Response {
	if s == nil {
		return nil
	}
	r := models.Response(*s)
	return &r
}

func responseText(r *models.Response) *string {
	if r == nil {
		return nil
	}
	s := string(*r)
	return &s
}
