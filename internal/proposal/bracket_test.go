package proposal

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/ejfii/beginners-luck-sub000/internal/models"
)

func amount(v float64) *float64 { return &v }

func TestNewBracket(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		params    BracketParams
		wantField string
	}{
		{
			name: "valid",
			params: BracketParams{
				NegotiationID:   "neg-1",
				PlaintiffAmount: amount(250000),
				DefendantAmount: amount(150000),
				ProposedBy:      models.PartyPlaintiff,
			},
		},
		{
			name: "missing plaintiff amount",
			params: BracketParams{
				NegotiationID:   "neg-1",
				DefendantAmount: amount(150000),
				ProposedBy:      models.PartyPlaintiff,
			},
			wantField: "plaintiff_amount",
		},
		{
			name: "zero defendant amount",
			params: BracketParams{
				NegotiationID:   "neg-1",
				PlaintiffAmount: amount(250000),
				DefendantAmount: amount(0),
				ProposedBy:      models.PartyDefendant,
			},
			wantField: "defendant_amount",
		},
		{
			name: "negative plaintiff amount",
			params: BracketParams{
				NegotiationID:   "neg-1",
				PlaintiffAmount: amount(-5),
				DefendantAmount: amount(150000),
				ProposedBy:      models.PartyDefendant,
			},
			wantField: "plaintiff_amount",
		},
		{
			name: "unknown proposer",
			params: BracketParams{
				NegotiationID:   "neg-1",
				PlaintiffAmount: amount(250000),
				DefendantAmount: amount(150000),
				ProposedBy:      "mediator",
			},
			wantField: "proposed_by",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewBracket(tt.params, now)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if b.Status != models.BracketActive {
					t.Errorf("Status = %s, want active", b.Status)
				}
				if !b.CreatedAt.Equal(now) {
					t.Errorf("CreatedAt = %v, want %v", b.CreatedAt, now)
				}
				return
			}
			var verr *models.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("Field = %s, want %s", verr.Field, tt.wantField)
			}
		})
	}
}

func TestRespondBracket(t *testing.T) {
	tests := []struct {
		name       string
		status     models.BracketStatus
		decision   models.Response
		wantStatus models.BracketStatus
		wantErr    error
	}{
		{"accept active", models.BracketActive, models.ResponseAccepted, models.BracketAccepted, nil},
		{"reject active", models.BracketActive, models.ResponseRejected, models.BracketRejected, nil},
		{"accept accepted", models.BracketAccepted, models.ResponseAccepted, models.BracketAccepted, ErrInvalidState},
		{"accept rejected", models.BracketRejected, models.ResponseAccepted, models.BracketRejected, ErrInvalidState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &models.BracketProposal{ID: "b-1", Status: tt.status}
			err := RespondBracket(b, tt.decision)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if b.Status != tt.wantStatus {
				t.Errorf("Status = %s, want %s", b.Status, tt.wantStatus)
			}
		})
	}
}

func TestRespondBracketInvalidDecision(t *testing.T) {
	b := &models.BracketProposal{ID: "b-1", Status: models.BracketActive}
	err := RespondBracket(b, "maybe")

	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if b.Status != models.BracketActive {
		t.Errorf("Status changed to %s", b.Status)
	}
}

func TestSuggestNextProposer(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if got := SuggestNextProposer(nil); got != models.PartyPlaintiff {
		t.Errorf("empty history: got %s, want plaintiff", got)
	}

	// Input order is deliberately not chronological.
	brackets := []*models.BracketProposal{
		{ID: "b-2", ProposedBy: models.PartyDefendant, CreatedAt: base.Add(time.Minute)},
		{ID: "b-3", ProposedBy: models.PartyPlaintiff, CreatedAt: base.Add(2 * time.Minute)},
		{ID: "b-1", ProposedBy: models.PartyPlaintiff, CreatedAt: base},
	}
	if got := SuggestNextProposer(brackets); got != models.PartyDefendant {
		t.Errorf("got %s, want defendant", got)
	}

	brackets[1].CreatedAt = base.Add(-time.Minute)
	if got := SuggestNextProposer(brackets); got != models.PartyPlaintiff {
		t.Errorf("after reorder: got %s, want plaintiff", got)
	}
}

func TestSortBrackets(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	brackets := []*models.BracketProposal{
		{ID: "old", CreatedAt: base},
		{ID: "new", CreatedAt: base.Add(time.Hour)},
		{ID: "mid", CreatedAt: base.Add(time.Minute)},
	}

	SortBrackets(brackets)

	want := []string{"new", "mid", "old"}
	for i, id := range want {
		if brackets[i].ID != id {
			t.Errorf("brackets[%d] = %s, want %s", i, brackets[i].ID, id)
		}
	}
}

func TestSuggestNextProposerTies(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name     string
		brackets []*models.BracketProposal
	}{
		{
			name: "defendant listed first",
			brackets: []*models.BracketProposal{
				{ID: "b-2", ProposedBy: models.PartyDefendant, CreatedAt: created},
				{ID: "b-1", ProposedBy: models.PartyPlaintiff, CreatedAt: created},
			},
		},
		{
			name: "plaintiff listed first",
			brackets: []*models.BracketProposal{
				{ID: "b-2", ProposedBy: models.PartyPlaintiff, CreatedAt: created},
				{ID: "b-1", ProposedBy: models.PartyDefendant, CreatedAt: created},
			},
		},
		{
			name: "tie behind an older entry",
			brackets: []*models.BracketProposal{
				{ID: "b-0", ProposedBy: models.PartyPlaintiff, CreatedAt: created.Add(-time.Hour)},
				{ID: "b-2", ProposedBy: models.PartyDefendant, CreatedAt: created},
				{ID: "b-1", ProposedBy: models.PartyPlaintiff, CreatedAt: created},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SuggestNextProposer(tt.brackets)

			sorted := slices.Clone(tt.brackets)
			SortBrackets(sorted)
			if want := sorted[0].ProposedBy.Opposite(); got != want {
				t.Errorf("SuggestNextProposer = %s, want %s (opposite of %s)", got, want, sorted[0].ID)
			}
		})
	}
}
