package proposal

import (
	"fmt"
	"slices"
	"time"

	"github.com/ejfii/beginners-luck-sub000/internal/models"
)

// BracketParams are the caller-supplied fields of a new bracket proposal.
// Amounts are pointers so a missing value can be told apart from zero.
type BracketParams struct {
	NegotiationID   string
	PlaintiffAmount *float64
	DefendantAmount *float64
	ProposedBy      models.Party
	Notes           string
}

// NewBracket validates params and returns an active proposal. The ID is
// left for the store to assign.
func NewBracket(params BracketParams, now time.Time) (*models.BracketProposal, error) {
	if params.NegotiationID == "" {
		return nil, &models.ValidationError{Field: "negotiation_id", Reason: "required"}
	}
	if err := requirePositive("plaintiff_amount", params.PlaintiffAmount); err != nil {
		return nil, err
	}
	if err := requirePositive("defendant_amount", params.DefendantAmount); err != nil {
		return nil, err
	}
	if !params.ProposedBy.Valid() {
		return nil, &models.ValidationError{Field: "proposed_by", Reason: "must be plaintiff or defendant"}
	}

	return &models.BracketProposal{
		NegotiationID:   params.NegotiationID,
		PlaintiffAmount: *params.PlaintiffAmount,
		DefendantAmount: *params.DefendantAmount,
		ProposedBy:      params.ProposedBy,
		Status:          models.BracketActive,
		Notes:           params.Notes,
		CreatedAt:       now.UTC(),
	}, nil
}

// RespondBracket moves an active proposal to accepted or rejected. Terminal
// proposals are never changed.
func RespondBracket(b *models.BracketProposal, decision models.Response) error {
	if !decision.Valid() {
		return &models.ValidationError{Field: "decision", Reason: "must be accepted or rejected"}
	}
	if b.Status != models.BracketActive {
		return fmt.Errorf("%w: bracket %s is already %s", ErrInvalidState, b.ID, b.Status)
	}

	if decision == models.ResponseAccepted {
		b.Status = models.BracketAccepted
	} else {
		b.Status = models.BracketRejected
	}
	return nil
}

// SortBrackets orders proposals most recent first by creation time. Ties
// keep their input order.
func SortBrackets(brackets []*models.BracketProposal) {
	slices.SortStableFunc(brackets, func(a, b *models.BracketProposal) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}

// SuggestNextProposer returns the party opposite to whoever made the most
// recent proposal, or the plaintiff when there are none. It is a UI default
// only; nothing enforces alternation.
func SuggestNextProposer(brackets []*models.BracketProposal) models.Party {
	var latest *models.BracketProposal
	for _, b := range brackets {
		if latest == nil || b.CreatedAt.After(latest.CreatedAt) {
			latest = b
		}
	}
	if latest == nil {
		return models.PartyPlaintiff
	}
	return latest.ProposedBy.Opposite()
}

func requirePositive(field string, v *float64) error {
	if v == nil {
		return &models.ValidationError{Field: field, Reason: "required"}
	}
	if *v <= 0 {
		return &models.ValidationError{Field: field, Reason: "must be greater than zero"}
	}
	return nil
}
