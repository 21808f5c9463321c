package calculator

import (
	"math"
	"slices"

	"github.com/ejfii/beginners-luck-sub000/internal/models"
)

const (
	// momentumWindow is how many gap observations back momentum looks.
	momentumWindow = 3

	confidencePerMove        = 6.0
	confidenceMoveCap        = 10
	confidenceConsistencyMax = 40.0
)

// Analytics summarizes a move history. It is recomputed on every call and
// never persisted.
type Analytics struct {
	// Midpoint is the average of the latest demand and latest offer.
	Midpoint float64

	// MidpointOfMidpoints is the running mean of every midpoint observed as
	// the history progressed.
	MidpointOfMidpoints float64

	// Momentum is the percentage of the gap closed over the last few
	// observations. Positive means converging; zero or negative means
	// stalled or diverging.
	Momentum float64

	// ConvergenceRate is the percentage of the first demand/offer gap that
	// has been closed so far, in [0,100].
	ConvergenceRate float64

	// PredictedSettlement extrapolates the midpoint trend to the point where
	// the gap would close, bounded by the current offer and demand.
	PredictedSettlement float64

	// Confidence is 0-100 and grows with the number of moves and with how
	// consistently the gap has narrowed.
	Confidence int

	LatestDemand float64
	LatestOffer  float64
	Gap          float64
	MoveCount    int
}

// ComputeAnalytics derives convergence metrics from a move history. It
// returns nil when there is nothing to measure: no moves, or no point yet at
// which both a demand and an offer are on the table. Callers must render an
// empty state for nil rather than zeros.
func ComputeAnalytics(moves []models.Move) *Analytics {
	if len(moves) == 0 {
		return nil
	}

	ordered := slices.Clone(moves)
	slices.SortStableFunc(ordered, func(a, b models.Move) int {
		return a.Timestamp.Compare(b.Timestamp)
	})

	var (
		demand, offer       float64
		hasDemand, hasOffer bool
		gaps, midpoints     []float64
	)
	for _, m := range ordered {
		switch m.Type {
		case models.MoveDemand:
			demand, hasDemand = m.Amount, true
		case models.MoveOffer:
			offer, hasOffer = m.Amount, true
		default:
			continue
		}
		if hasDemand && hasOffer {
			gaps = append(gaps, demand-offer)
			midpoints = append(midpoints, (demand+offer)/2)
		}
	}
	if len(gaps) == 0 {
		return nil
	}

	last := len(gaps) - 1
	start := max(0, last-momentumWindow)

	return &Analytics{
		Midpoint:            midpoints[last],
		MidpointOfMidpoints: mean(midpoints),
		Momentum:            momentum(gaps[start], gaps[last]),
		ConvergenceRate:     convergenceRate(gaps[0], gaps[last]),
		PredictedSettlement: predictSettlement(gaps, midpoints, start, demand, offer),
		Confidence:          confidence(len(ordered), gaps),
		LatestDemand:        demand,
		LatestOffer:         offer,
		Gap:                 gaps[last],
		MoveCount:           len(ordered),
	}
}

func momentum(startGap, currentGap float64) float64 {
	if startGap <= 0 {
		return 0
	}
	return math.Min(100, (startGap-currentGap)/startGap*100)
}

func convergenceRate(initialGap, currentGap float64) float64 {
	if initialGap <= 0 {
		return 100
	}
	return math.Max(0, math.Min(100, (initialGap-currentGap)/initialGap*100))
}

// predictSettlement projects the midpoint forward by the number of steps the
// recent closing pace needs to eliminate the remaining gap.
func predictSettlement(gaps, midpoints []float64, start int, demand, offer float64) float64 {
	last := len(gaps) - 1
	current := midpoints[last]
	steps := float64(last - start)
	if gaps[last] <= 0 || steps == 0 {
		return current
	}

	closedPerStep := (gaps[start] - gaps[last]) / steps
	if closedPerStep <= 0 {
		return current
	}
	remaining := gaps[last] / closedPerStep
	slope := (midpoints[last] - midpoints[start]) / steps

	return math.Max(offer, math.Min(demand, current+slope*remaining))
}

func confidence(moveCount int, gaps []float64) int {
	score := float64(min(moveCount, confidenceMoveCap)) * confidencePerMove

	if steps := len(gaps) - 1; steps > 0 {
		narrowed := 0
		for i := 1; i < len(gaps); i++ {
			if gaps[i] < gaps[i-1] {
				narrowed++
			}
		}
		score += float64(narrowed) / float64(steps) * confidenceConsistencyMax
	}

	return int(math.Max(0, math.Min(100, math.Round(score))))
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
