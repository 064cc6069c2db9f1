package scenario

import (
	"math"

	"github.com/buildwise/costplan/internal/model"
)

// Phase labels for the short (<=3 month) schedule, one per month.
var shortPhases = []string{"Setup & major work", "Completion work", "Final touches"}

// shortWeights front-loads a project of up to three months.
var shortWeights = []float64{0.40, 0.35, 0.25}

// midPhase is one stage of the 4-6 month schedule.
type midPhase struct {
	label  string
	weight float64
}

// midPhases is the fixed five-stage weight table for 4-6 month projects.
var midPhases = []midPhase{
	{"Site preparation", 0.15},
	{"Foundation work", 0.25},
	{"Structural envelope", 0.30},
	{"Interior work", 0.20},
	{"Finishing & handover", 0.10},
}

// Phase labels for the long (>6 month) schedule.
const (
	phaseInitial   = "Initial setup & foundation"
	phaseMain      = "Main construction work"
	phaseFinishing = "Finishing & handover"
)

// NormalizeCashflow regenerates a phase-weighted monthly cashflow whenever
// the estimate's schedule disagrees with the requested project duration.
// The estimation collaborator is not trusted to honor the timeline it was
// asked for, so callers invoke this on every freshly parsed estimate.
//
// The output always has exactly timelineMonths entries numbered 1..N, and
// the amounts sum to TotalEstimatedCost exactly: rounding drift is folded
// into the final month.
func NormalizeCashflow(result *model.EstimationResult, timelineMonths int) *model.EstimationResult {
	if timelineMonths < 1 {
		timelineMonths = 1
	}
	if len(result.Cashflow) == timelineMonths && contiguous(result.Cashflow) {
		return result
	}

	out := result.Clone()
	out.Cashflow = buildSchedule(out.TotalEstimatedCost, timelineMonths)
	return out
}

// contiguous reports whether months are numbered 1..N in order.
func contiguous(months []model.CashFlowMonth) bool {
	for i, m := range months {
		if m.Month != i+1 {
			return false
		}
	}
	return true
}

// buildSchedule produces the phase-weighted schedule for a total cost over
// n months, reconciled exactly.
func buildSchedule(total float64, n int) []model.CashFlowMonth {
	months := make([]model.CashFlowMonth, n)

	switch {
	case n <= 3:
		for i := 0; i < n; i++ {
			months[i] = model.CashFlowMonth{
				Month:  i + 1,
				Amount: math.Round(total * shortWeights[i]),
				Phase:  shortPhases[i],
			}
		}

	case n <= 6:
		// Proportionally map each month onto one of the five stages, then
		// split that stage's weight evenly across the months it received.
		stageOf := make([]int, n)
		stageCount := make([]int, len(midPhases))
		for i := 0; i < n; i++ {
			stage := int(math.Ceil(float64(i+1)/float64(n)*float64(len(midPhases)))) - 1
			if stage >= len(midPhases) {
				stage = len(midPhases) - 1
			}
			stageOf[i] = stage
			stageCount[stage]++
		}
		for i := 0; i < n; i++ {
			stage := midPhases[stageOf[i]]
			months[i] = model.CashFlowMonth{
				Month:  i + 1,
				Amount: math.Round(total * stage.weight / float64(stageCount[stageOf[i]])),
				Phase:  stage.label,
			}
		}

	default:
		// 20% across the first two months, 10% across the last two,
		// the remaining 60% spread evenly over the middle.
		middle := n - 4
		for i := 0; i < n; i++ {
			var weight float64
			var phase string
			switch {
			case i < 2:
				weight, phase = 0.20/2, phaseInitial
			case i >= n-2:
				weight, phase = 0.10/2, phaseFinishing
			default:
				weight, phase = 0.60/float64(middle), phaseMain
			}
			months[i] = model.CashFlowMonth{
				Month:  i + 1,
				Amount: math.Round(total * weight),
				Phase:  phase,
			}
		}
	}

	// Fold rounding drift into the last month so the schedule reconciles
	// with the total exactly, not just within tolerance.
	var sum float64
	for _, m := range months {
		sum += m.Amount
	}
	months[n-1].Amount += total - sum

	return months
}
