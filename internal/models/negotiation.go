package models

import "time"

// Negotiation is a settlement negotiation for one legal dispute.
type Negotiation struct {
	// ID is the unique identifier for the negotiation (UUID format).
	ID string

	// OwnerID is the user who created the negotiation.
	OwnerID string

	// Title is the display name of the case (e.g., "Smith v. Acme").
	Title string

	// Plaintiff and Defendant are the party display names.
	Plaintiff string
	Defendant string

	// Evaluation holds the damages, liability and risk inputs the
	// valuation calculator works from.
	Evaluation CaseEvaluation

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CaseEvaluation is the subset of a case record used for valuation.
// Every field is optional; nil means the value has not been entered.
type CaseEvaluation struct {
	MedicalSpecials    *float64
	EconomicDamages    *float64
	NonEconomicDamages *float64

	// PolicyLimit caps both ends of the settlement range when present.
	PolicyLimit *float64

	// LiabilityPercentage is the assessed share of fault, 0-100.
	// Treated as 100 when absent.
	LiabilityPercentage *float64

	// JuryDamagesLikelihood is the estimated chance, 0-100, that a jury
	// awards the claimed damages.
	JuryDamagesLikelihood *float64
}

// Validate reports the first out-of-range field as a ValidationError.
func (e CaseEvaluation) Validate() error {
	money := []struct {
		field string
		value *float64
	}{
		{"medical_specials", e.MedicalSpecials},
		{"economic_damages", e.EconomicDamages},
		{"non_economic_damages", e.NonEconomicDamages},
		{"policy_limit", e.PolicyLimit},
	}
	for _, m := range money {
		if m.value != nil && *m.value < 0 {
			return &ValidationError{Field: m.field, Reason: "must not be negative"}
		}
	}

	percentages := []struct {
		field string
		value *float64
	}{
		{"liability_percentage", e.LiabilityPercentage},
		{"jury_damages_likelihood", e.JuryDamagesLikelihood},
	}
	for _, p := range percentages {
		if p.value != nil && (*p.value < 0 || *p.value > 100) {
			return &ValidationError{Field: p.field, Reason: "must be between 0 and 100"}
		}
	}
	return nil
}

// Float returns a pointer to v. Handy for building optional fields.
func Float(v float64) *float64 {
	return &v
}
