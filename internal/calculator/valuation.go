package calculator

import (
	"math"

	"github.com/ejfii/beginners-luck-sub000/internal/models"
)

const (
	rangeLowFactor  = 0.6
	rangeHighFactor = 0.9

	// recommendedMidpointWeight blends the range midpoint with its
	// jury-scaled counterpart when a jury likelihood is known.
	recommendedMidpointWeight = 0.7

	policyLimitProximity   = 0.95
	lowLiabilityThreshold  = 50.0
	highJuryThreshold      = 70.0
	policyLimitRecoveryCap = 0.6
)

// Range is a low/high settlement band in dollars.
type Range struct {
	Low  float64
	High float64
}

// Midpoint returns the center of the range.
func (r Range) Midpoint() float64 {
	return (r.Low + r.High) / 2
}

func (r Range) scale(pct float64) Range {
	return Range{Low: r.Low * pct / 100, High: r.High * pct / 100}
}

// WarningCode identifies a non-blocking valuation advisory.
type WarningCode string

const (
	WarningNearPolicyLimit       WarningCode = "near_policy_limit"
	WarningLiabilityInconsistent WarningCode = "liability_jury_inconsistent"
	WarningRecoveryCapped        WarningCode = "recovery_capped"
)

// Warning is an advisory about the inputs. It never blocks evaluation.
type Warning struct {
	Code    WarningCode
	Message string
}

// Valuation is the result of evaluating a case.
type Valuation struct {
	TotalDamages  float64
	AdjustedValue float64

	// SettlementRange is the base range. It is authoritative for primary display.
	SettlementRange Range

	// JuryAdjustedRange is SettlementRange scaled by the jury likelihood.
	// Nil when no likelihood was entered.
	JuryAdjustedRange *Range

	// RecommendedSettlement is nil when the adjusted value is not positive.
	RecommendedSettlement *float64

	Warnings []Warning
}

// ComparisonHigh is the high-end figure used in scenario comparisons: the
// jury-adjusted high when present, the base high otherwise.
func (v Valuation) ComparisonHigh() float64 {
	if v.JuryAdjustedRange != nil {
		return v.JuryAdjustedRange.High
	}
	return v.SettlementRange.High
}

// EvaluateCase turns damages, liability and risk inputs into a settlement
// range and recommendation. Percentages outside [0,100] are clamped and
// missing damages count as zero. The input is not modified.
func EvaluateCase(e models.CaseEvaluation) Valuation {
	total := valueOr(e.MedicalSpecials, 0) + valueOr(e.EconomicDamages, 0) + valueOr(e.NonEconomicDamages, 0)
	liability := clampPercent(valueOr(e.LiabilityPercentage, 100))
	adjusted := total * liability / 100

	limit := math.Inf(1)
	if e.PolicyLimit != nil {
		limit = *e.PolicyLimit
	}
	base := Range{
		Low:  math.Min(adjusted*rangeLowFactor, limit),
		High: math.Min(adjusted*rangeHighFactor, limit),
	}

	v := Valuation{
		TotalDamages:    total,
		AdjustedValue:   adjusted,
		SettlementRange: base,
	}

	var jury *float64
	if e.JuryDamagesLikelihood != nil {
		j := clampPercent(*e.JuryDamagesLikelihood)
		jury = &j
		scaled := base.scale(j)
		v.JuryAdjustedRange = &scaled
	}

	if adjusted > 0 {
		rec := base.Midpoint()
		if jury != nil {
			rec = recommendedMidpointWeight*rec + (1-recommendedMidpointWeight)*rec*(*jury)/100
		}
		v.RecommendedSettlement = &rec
	}

	v.Warnings = valuationWarnings(e.PolicyLimit, liability, jury, adjusted, base)
	return v
}

func valuationWarnings(policyLimit *float64, liability float64, jury *float64, adjusted float64, base Range) []Warning {
	var warnings []Warning
	if policyLimit != nil && base.High >= policyLimitProximity*(*policyLimit) {
		warnings = append(warnings, Warning{
			Code:    WarningNearPolicyLimit,
			Message: "Settlement range high end is at or above 95% of the policy limit",
		})
	}
	if jury != nil && liability < lowLiabilityThreshold && *jury > highJuryThreshold {
		warnings = append(warnings, Warning{
			Code:    WarningLiabilityInconsistent,
			Message: "Liability below 50% with jury likelihood above 70% may be inconsistent",
		})
	}
	if policyLimit != nil && *policyLimit < policyLimitRecoveryCap*adjusted {
		warnings = append(warnings, Warning{
			Code:    WarningRecoveryCapped,
			Message: "Policy limit is below 60% of the adjusted value; recovery may be capped",
		})
	}
	return warnings
}

// Delta compares the high-end figures of two valuations.
type Delta struct {
	// Absolute is hypothetical minus current.
	Absolute float64
	// Percentage is Absolute relative to the current figure. Nil when the
	// current figure is zero.
	Percentage *float64
}

// Comparison holds a current and hypothetical valuation side by side.
type Comparison struct {
	Current      Valuation
	Hypothetical Valuation
	Delta        Delta
}

// CompareScenarios evaluates two independent input sets, typically the
// stored case and a what-if variant, without touching either.
func CompareScenarios(current, hypothetical models.CaseEvaluation) Comparison {
	cur := EvaluateCase(current)
	hyp := EvaluateCase(hypothetical)

	curHigh := cur.ComparisonHigh()
	delta := Delta{Absolute: hyp.ComparisonHigh() - curHigh}
	if curHigh != 0 {
		pct := delta.Absolute / curHigh * 100
		delta.Percentage = &pct
	}

	return Comparison{Current: cur, Hypothetical: hyp, Delta: delta}
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}

func clampPercent(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
