package api

import (
	"fmt"

	"github.com/ejfii/beginners-luck-sub000/internal/calculator"
	"github.com/ejfii/beginners-luck-sub000/internal/models"
	"github.com/ejfii/beginners-luck-sub000/internal/money"
)

// ToModel resolves the money fields and validates ranges.
func (in CaseEvaluationInput) ToModel() (models.CaseEvaluation, error) {
	var (
		e   models.CaseEvaluation
		err error
	)
	fields := []struct {
		name string
		in   Amount
		out  **float64
	}{
		{"medical_specials", in.MedicalSpecials, &e.MedicalSpecials},
		{"economic_damages", in.EconomicDamages, &e.EconomicDamages},
		{"non_economic_damages", in.NonEconomicDamages, &e.NonEconomicDamages},
		{"policy_limit", in.PolicyLimit, &e.PolicyLimit},
	}
	for _, f := range fields {
		if *f.out, err = f.in.Resolve(f.name); err != nil {
			return models.CaseEvaluation{}, err
		}
	}
	e.LiabilityPercentage = in.LiabilityPercentage
	e.JuryDamagesLikelihood = in.JuryDamagesLikelihood

	if err := e.Validate(); err != nil {
		return models.CaseEvaluation{}, err
	}
	return e, nil
}

// InputFrom is the inverse of ToModel, used by clients that hold a model.
func InputFrom(e models.CaseEvaluation) CaseEvaluationInput {
	opt := func(v *float64) Amount {
		if v == nil {
			return Amount{}
		}
		return AmountOf(*v)
	}
	return CaseEvaluationInput{
		MedicalSpecials:       opt(e.MedicalSpecials),
		EconomicDamages:       opt(e.EconomicDamages),
		NonEconomicDamages:    opt(e.NonEconomicDamages),
		PolicyLimit:           opt(e.PolicyLimit),
		LiabilityPercentage:   e.LiabilityPercentage,
		JuryDamagesLikelihood: e.JuryDamagesLikelihood,
	}
}

func NewUser(u *models.User) User {
	return User{ID: u.ID, Email: u.Email, DisplayName: u.DisplayName, CreatedAt: u.CreatedAt}
}

func NewNegotiation(n *models.Negotiation) Negotiation {
	e := n.Evaluation
	return Negotiation{
		ID:        n.ID,
		Title:     n.Title,
		Plaintiff: n.Plaintiff,
		Defendant: n.Defendant,
		Evaluation: CaseEvaluation{
			MedicalSpecials:       e.MedicalSpecials,
			EconomicDamages:       e.EconomicDamages,
			NonEconomicDamages:    e.NonEconomicDamages,
			PolicyLimit:           e.PolicyLimit,
			LiabilityPercentage:   e.LiabilityPercentage,
			JuryDamagesLikelihood: e.JuryDamagesLikelihood,
		},
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func newRange(r calculator.Range) Range {
	return Range{
		Low:     r.Low,
		High:    r.High,
		Display: fmt.Sprintf("%s - %s", money.Format(r.Low, false), money.Format(r.High, false)),
	}
}

func NewValuation(v calculator.Valuation) Valuation {
	out := Valuation{
		TotalDamages:          v.TotalDamages,
		AdjustedValue:         v.AdjustedValue,
		SettlementRange:       newRange(v.SettlementRange),
		RecommendedSettlement: v.RecommendedSettlement,
		Warnings:              make([]Warning, 0, len(v.Warnings)),
	}
	if v.JuryAdjustedRange != nil {
		r := newRange(*v.JuryAdjustedRange)
		out.JuryAdjustedRange = &r
	}
	if v.RecommendedSettlement != nil {
		out.RecommendedSettlementDisplay = money.Format(*v.RecommendedSettlement, false)
	}
	for _, w := range v.Warnings {
		out.Warnings = append(out.Warnings, Warning{Code: w.Code, Message: w.Message})
	}
	return out
}

func NewComparison(c calculator.Comparison) CompareScenariosResponse {
	display := "+" + money.Format(c.Delta.Absolute, false)
	if c.Delta.Absolute < 0 {
		display = "-" + money.Format(-c.Delta.Absolute, false)
	}
	return CompareScenariosResponse{
		Current:      NewValuation(c.Current),
		Hypothetical: NewValuation(c.Hypothetical),
		Delta: Delta{
			Absolute:   c.Delta.Absolute,
			Percentage: c.Delta.Percentage,
			Display:    display,
		},
	}
}

func NewMove(m models.Move) Move {
	return Move{
		ID:            m.ID,
		Party:         m.Party,
		Type:          m.Type,
		Amount:        m.Amount,
		AmountDisplay: money.Format(m.Amount, false),
		Timestamp:     m.Timestamp,
		Notes:         m.Notes,
	}
}

func NewAnalytics(a *calculator.Analytics) *Analytics {
	if a == nil {
		return nil
	}
	return &Analytics{
		Midpoint:                   a.Midpoint,
		MidpointDisplay:            money.Format(a.Midpoint, false),
		MidpointOfMidpoints:        a.MidpointOfMidpoints,
		Momentum:                   a.Momentum,
		ConvergenceRate:            a.ConvergenceRate,
		PredictedSettlement:        a.PredictedSettlement,
		PredictedSettlementDisplay: money.Format(a.PredictedSettlement, false),
		Confidence:                 a.Confidence,
		LatestDemand:               a.LatestDemand,
		LatestOffer:                a.LatestOffer,
		Gap:                        a.Gap,
		MoveCount:                  a.MoveCount,
	}
}

func NewBracket(b *models.BracketProposal) Bracket {
	return Bracket{
		ID:                     b.ID,
		NegotiationID:          b.NegotiationID,
		PlaintiffAmount:        b.PlaintiffAmount,
		PlaintiffAmountDisplay: money.Format(b.PlaintiffAmount, false),
		DefendantAmount:        b.DefendantAmount,
		DefendantAmountDisplay: money.Format(b.DefendantAmount, false),
		ProposedBy:             b.ProposedBy,
		Status:                 b.Status,
		Notes:                  b.Notes,
		CreatedAt:              b.CreatedAt,
	}
}

func NewMediatorProposal(p *models.MediatorProposal) *MediatorProposal {
	if p == nil {
		return nil
	}
	return &MediatorProposal{
		ID:                p.ID,
		NegotiationID:     p.NegotiationID,
		Amount:            p.Amount,
		AmountDisplay:     money.Format(p.Amount, false),
		Deadline:          p.Deadline,
		PlaintiffResponse: p.PlaintiffResponse,
		DefendantResponse: p.DefendantResponse,
		Status:            p.Status,
		Notes:             p.Notes,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}
