package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ejfii/beginners-luck-sub000/internal/models"
)

const negotiationColumns = `id, owner_id, title, plaintiff, defendant,
	medical_specials, economic_damages, non_economic_damages, policy_limit,
	liability_percentage, jury_damages_likelihood, created_at, updated_at`

// CreateNegotiation persists a new negotiation.
func (s *PostgresStore) CreateNegotiation(ctx context.Context, n *models.Negotiation) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	if n.UpdatedAt.IsZero() {
		n.UpdatedAt = n.CreatedAt
	}

	e := n.Evaluation
	_, err := s.pool.Exec(ctx,
		`INSERT INTO negotiations (`+negotiationColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		n.ID, n.OwnerID, n.Title, n.Plaintiff, n.Defendant,
		e.MedicalSpecials, e.EconomicDamages, e.NonEconomicDamages, e.PolicyLimit,
		e.LiabilityPercentage, e.JuryDamagesLikelihood, n.CreatedAt, n.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: create negotiation: %w", err)
	}
	return nil
}

// GetNegotiation retrieves a negotiation by ID.
func (s *PostgresStore) GetNegotiation(ctx context.Context, id string) (*models.Negotiation, error) {
	n, err := scanNegotiation(s.pool.QueryRow(ctx,
		`SELECT `+negotiationColumns+` FROM negotiations WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "negotiation", id)
	}
	return n, nil
}

// ListNegotiations retrieves the owner's negotiations, newest first.
func (s *PostgresStore) ListNegotiations(ctx context.Context, ownerID string) ([]*models.Negotiation, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+negotiationColumns+` FROM negotiations WHERE owner_id = $1 ORDER BY created_at DESC, id DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("postgres: list negotiations: %w", err)
	}
	negotiations, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.Negotiation, error) {
		return scanNegotiation(row)
	})
	if err != nil {
		return nil, fmt.Errorf("postgres: scan negotiations: %w", err)
	}
	return negotiations, nil
}

// UpdateEvaluation replaces the stored case evaluation.
func (s *PostgresStore) UpdateEvaluation(ctx context.Context, id string, e models.CaseEvaluation, updatedAt time.Time) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE negotiations SET medical_specials = $1, economic_damages = $2, non_economic_damages = $3,
		 policy_limit = $4, liability_percentage = $5, jury_damages_likelihood = $6, updated_at = $7
		 WHERE id = $8`,
		e.MedicalSpecials, e.EconomicDamages, e.NonEconomicDamages, e.PolicyLimit,
		e.LiabilityPercentage, e.JuryDamagesLikelihood, updatedAt, id,
	)
	if err != nil {
		return fmt.Errorf("postgres: update evaluation: %w", err)
	}
	return requireAffected(tag, "negotiation", id)
}

func scanNegotiation(row pgx.Row) (*models.Negotiation, error) {
	var n models.Negotiation
	e := &n.Evaluation
	err := row.Scan(
		&n.ID, &n.OwnerID, &n.Title, &n.Plaintiff, &n.Defendant,
		&e.MedicalSpecials, &e.EconomicDamages, &e.NonEconomicDamages, &e.PolicyLimit,
		&e.LiabilityPercentage, &e.JuryDamagesLikelihood, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	n.CreatedAt = n.CreatedAt.UTC()
	n.UpdatedAt = n.UpdatedAt.UTC()
	return &n, nil
}

// CreateMove persists a move after the negotiation's latest one. The
// negotiation row is locked so concurrent moves take turns.
func (s *PostgresStore) CreateMove(ctx context.Context, m *models.Move) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		var locked string
		err := tx.QueryRow(ctx,
			`SELECT id FROM negotiations WHERE id = $1 FOR UPDATE`, m.NegotiationID).Scan(&locked)
		if err != nil {
			return notFound(err, "negotiation", m.NegotiationID)
		}

		var last *time.Time
		if err := tx.QueryRow(ctx,
			`SELECT max(timestamp) FROM moves WHERE negotiation_id = $1`, m.NegotiationID).Scan(&last); err != nil {
			return fmt.Errorf("postgres: read latest move: %w", err)
		}
		if last != nil && !m.Timestamp.After(*last) {
			m.Timestamp = last.UTC().Add(time.Microsecond)
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO moves (id, negotiation_id, party, type, amount, timestamp, notes)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			m.ID, m.NegotiationID, string(m.Party), string(m.Type), m.Amount, m.Timestamp, m.Notes,
		)
		if err != nil {
			return fmt.Errorf("postgres: create move: %w", err)
		}
		return nil
	})
}

// ListMoves retrieves a negotiation's moves, oldest first.
func (s *PostgresStore) ListMoves(ctx context.Context, negotiationID string) ([]models.Move, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, negotiation_id, party, type, amount, timestamp, notes
		 FROM moves WHERE negotiation_id = $1 ORDER BY timestamp ASC`, negotiationID)
	if err != nil {
		return nil, fmt.Errorf("postgres: list moves: %w", err)
	}
	moves, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Move, error) {
		var (
			m           models.Move
			party, kind string
		)
		if err := row.Scan(&m.ID, &m.NegotiationID, &party, &kind, &m.Amount, &m.Timestamp, &m.Notes); err != nil {
			return models.Move{}, err
		}
		m.Party = models.Party(party)
		m.Type = models.MoveType(kind)
		m.Timestamp = m.Timestamp.UTC()
		return m, nil
	})
	if err != nil {
		return nil, fmt.Errorf("postgres: scan moves: %w", err)
	}
	return moves, nil
}

// DeleteMove removes a move by ID.
func (s *PostgresStore) DeleteMove(ctx context.Context, negotiationID, moveID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM moves WHERE id = $1 AND negotiation_id = $2`, moveID, negotiationID)
	if err != nil {
		return fmt.Errorf("postgres: delete move: %w", err)
	}
	return requireAffected(tag, "move", moveID)
}
