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

type negotiationRow struct {
	ID                    string   `db:"id"`
	OwnerID               string   `db:"owner_id"`
	Title                 string   `db:"title"`
	Plaintiff             string   `db:"plaintiff"`
	Defendant             string   `db:"defendant"`
	MedicalSpecials       *float64 `db:"medical_specials"`
	EconomicDamages       *float64 `db:"economic_damages"`
	NonEconomicDamages    *float64 `db:"non_economic_damages"`
	PolicyLimit           *float64 `db:"policy_limit"`
	LiabilityPercentage   *float64 `db:"liability_percentage"`
	JuryDamagesLikelihood *float64 `db:"jury_damages_likelihood"`
	CreatedAt             int64    `db:"created_at"`
	UpdatedAt             int64    `db:"updated_at"`
}

func (r negotiationRow) toModel() *models.Negotiation {
	return &models.Negotiation{
		ID:        r.ID,
		OwnerID:   r.OwnerID,
		Title:     r.Title,
		Plaintiff: r.Plaintiff,
		Defendant: r.Defendant,
		Evaluation: models.CaseEvaluation{
			MedicalSpecials:       r.MedicalSpecials,
			EconomicDamages:       r.EconomicDamages,
			NonEconomicDamages:    r.NonEconomicDamages,
			PolicyLimit:           r.PolicyLimit,
			LiabilityPercentage:   r.LiabilityPercentage,
			JuryDamagesLikelihood: r.JuryDamagesLikelihood,
		},
		CreatedAt: fromNanos(r.CreatedAt),
		UpdatedAt: fromNanos(r.UpdatedAt),
	}
}

const negotiationColumns = `id, owner_id, title, plaintiff, defendant,
	medical_specials, economic_damages, non_economic_damages, policy_limit,
	liability_percentage, jury_damages_likelihood, created_at, updated_at`

// CreateNegotiation persists a new negotiation.
func (s *SQLiteStore) CreateNegotiation(ctx context.Context, n *models.Negotiation) error {
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
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO negotiations (`+negotiationColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.OwnerID, n.Title, n.Plaintiff, n.Defendant,
		e.MedicalSpecials, e.EconomicDamages, e.NonEconomicDamages, e.PolicyLimit,
		e.LiabilityPercentage, e.JuryDamagesLikelihood,
		toNanos(n.CreatedAt), toNanos(n.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert negotiation: %w", err)
	}
	return nil
}

// GetNegotiation retrieves a negotiation by ID.
func (s *SQLiteStore) GetNegotiation(ctx context.Context, id string) (*models.Negotiation, error) {
	var row negotiationRow
	err := s.db.GetContext(ctx, &row, `SELECT `+negotiationColumns+` FROM negotiations WHERE id = ?`, id)
	if err != nil {
		return nil, notFound(err, "negotiation", id)
	}
	return row.toModel(), nil
}

// ListNegotiations retrieves all negotiations owned by ownerID.
func (s *SQLiteStore) ListNegotiations(ctx context.Context, ownerID string) ([]*models.Negotiation, error) {
	var rows []negotiationRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT `+negotiationColumns+` FROM negotiations WHERE owner_id = ? ORDER BY created_at DESC, id DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list negotiations: %w", err)
	}

	negotiations := make([]*models.Negotiation, 0, len(rows))
	for _, r := range rows {
		negotiations = append(negotiations, r.toModel())
	}
	return negotiations, nil
}

// UpdateEvaluation replaces the stored case evaluation.
func (s *SQLiteStore) UpdateEvaluation(ctx context.Context, id string, e models.CaseEvaluation, updatedAt time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE negotiations SET medical_specials = ?, economic_damages = ?, non_economic_damages = ?,
		 policy_limit = ?, liability_percentage = ?, jury_damages_likelihood = ?, updated_at = ?
		 WHERE id = ?`,
		e.MedicalSpecials, e.EconomicDamages, e.NonEconomicDamages, e.PolicyLimit,
		e.LiabilityPercentage, e.JuryDamagesLikelihood, toNanos(updatedAt), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update evaluation: %w", err)
	}
	return requireAffected(res, "negotiation", id)
}

type moveRow struct {
	ID            string  `db:"id"`
	NegotiationID string  `db:"negotiation_id"`
	Party         string  `db:"party"`
	Type          string  `db:"type"`
	Amount        float64 `db:"amount"`
	Timestamp     int64   `db:"timestamp"`
	Notes         string  `db:"notes"`
}

// CreateMove persists a move after the negotiation's latest one.
func (s *SQLiteStore) CreateMove(ctx context.Context, m *models.Move) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}

	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		var last sql.NullInt64
		if err := tx.GetContext(ctx, &last,
			`SELECT MAX(timestamp) FROM moves WHERE negotiation_id = ?`, m.NegotiationID); err != nil {
			return fmt.Errorf("failed to read latest move: %w", err)
		}
		if last.Valid && toNanos(m.Timestamp) <= last.Int64 {
			m.Timestamp = fromNanos(last.Int64).Add(time.Microsecond)
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO moves (id, negotiation_id, party, type, amount, timestamp, notes)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			m.ID, m.NegotiationID, string(m.Party), string(m.Type), m.Amount, toNanos(m.Timestamp), m.Notes,
		)
		if err != nil {
			return fmt.Errorf("failed to insert move: %w", err)
		}
		return nil
	})
}

// ListMoves retrieves a negotiation's moves, oldest first.
func (s *SQLiteStore) ListMoves(ctx context.Context, negotiationID string) ([]models.Move, error) {
	var rows []moveRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT id, negotiation_id, party, type, amount, timestamp, notes
		 FROM moves WHERE negotiation_id = ? ORDER BY timestamp ASC`,
		negotiationID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list moves: %w", err)
	}

	moves := make([]models.Move, 0, len(rows))
	for _, r := range rows {
		moves = append(moves, models.Move{
			ID:            r.ID,
			NegotiationID: r.NegotiationID,
			Party:         models.Party(r.Party),
			Type:          models.MoveType(r.Type),
			Amount:        r.Amount,
			Timestamp:     fromNanos(r.Timestamp),
			Notes:         r.Notes,
		})
	}
	return moves, nil
}

// DeleteMove removes a move by ID.
func (s *SQLiteStore) DeleteMove(ctx context.Context, negotiationID, moveID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM moves WHERE id = ? AND negotiation_id = ?`, moveID, negotiationID)
	if err != nil {
		return fmt.Errorf("failed to delete move: %w", err)
	}
	return requireAffected(res, "move", moveID)
}

type rowsAffected interface {
	RowsAffected() (int64, error)
}

func requireAffected(res rowsAffected, what, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check %s update: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s %s", storage.ErrNotFound, what, id)
	}
	return nil
}
