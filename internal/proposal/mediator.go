package proposal

import (
	"fmt"
	"time"

	"github.com/ejfii/beginners-luck-sub000/internal/models"
)

// MediatorParams are the caller-supplied fields of a mediator proposal.
type MediatorParams struct {
	NegotiationID string
	Amount        *float64
	Deadline      time.Time
	Notes         string
}

// NewMediatorProposal validates params and returns a pending proposal with
// both responses cleared. The deadline must be strictly after now.
func NewMediatorProposal(params MediatorParams, now time.Time) (*models.MediatorProposal, error) {
	if params.NegotiationID == "" {
		return nil, &models.ValidationError{Field: "negotiation_id", Reason: "required"}
	}
	if err := requirePositive("amount", params.Amount); err != nil {
		return nil, err
	}
	if params.Deadline.IsZero() {
		return nil, &models.ValidationError{Field: "deadline", Reason: "required"}
	}
	if !params.Deadline.After(now) {
		return nil, &models.ValidationError{Field: "deadline", Reason: "must be in the future"}
	}

	now = now.UTC()
	return &models.MediatorProposal{
		NegotiationID: params.NegotiationID,
		Amount:        *params.Amount,
		Deadline:      params.Deadline.UTC(),
		Status:        models.MediatorPending,
		Notes:         params.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// DeriveStatus computes the status from the pair of responses. A rejection
// from either side wins, then a double acceptance, then a single one.
// With no responses the proposal is pending until the deadline passes and
// expired afterwards.
func DeriveStatus(p *models.MediatorProposal, now time.Time) models.MediatorStatus {
	plaintiff, defendant := p.PlaintiffResponse, p.DefendantResponse

	switch {
	case is(plaintiff, models.ResponseRejected) || is(defendant, models.ResponseRejected):
		return models.MediatorRejected
	case is(plaintiff, models.ResponseAccepted) && is(defendant, models.ResponseAccepted):
		return models.MediatorAcceptedBoth
	case is(plaintiff, models.ResponseAccepted):
		return models.MediatorAcceptedPlaintiff
	case is(defendant, models.ResponseAccepted):
		return models.MediatorAcceptedDefendant
	case now.After(p.Deadline):
		return models.MediatorExpired
	default:
		return models.MediatorPending
	}
}

// Refresh re-derives p.Status for the given time. Reads call this so that
// expiry never depends on a background sweep.
func Refresh(p *models.MediatorProposal, now time.Time) {
	p.Status = DeriveStatus(p, now)
}

// RespondMediator records party's decision and recomputes the status.
// A party may change its own answer while the proposal is still open.
// Terminal proposals and proposals past their deadline are left untouched.
func RespondMediator(p *models.MediatorProposal, party models.Party, decision models.Response, now time.Time) error {
	if !party.Valid() {
		return &models.ValidationError{Field: "party", Reason: "must be plaintiff or defendant"}
	}
	if !decision.Valid() {
		return &models.ValidationError{Field: "decision", Reason: "must be accepted or rejected"}
	}

	if status := DeriveStatus(p, now); status.Terminal() {
		p.Status = status
		return fmt.Errorf("%w: mediator proposal %s is %s", ErrInvalidState, p.ID, status)
	}
	if now.After(p.Deadline) {
		return fmt.Errorf("%w: mediator proposal %s", ErrDeadlinePassed, p.ID)
	}

	d := decision
	if party == models.PartyPlaintiff {
		p.PlaintiffResponse = &d
	} else {
		p.DefendantResponse = &d
	}
	p.Status = DeriveStatus(p, now)
	p.UpdatedAt = now.UTC()
	return nil
}

func is(r *models.Response, want models.Response) bool {
	return r != nil && *r == want
}
