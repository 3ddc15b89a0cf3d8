// Package chart turns numeric aggregates into proportional geometry for
// bar and pie rendering. It never draws; consumers own pixels and colors.
package chart

import (
	"chickenkeeper/internal/analytics"
	"chickenkeeper/internal/core"
)

// BarGroup holds the normalized segment heights for one month column.
// Heights are fractions in [0, 1] of the tallest value across the whole
// series. Negative values clamp to zero height rather than producing
// negative geometry.
type BarGroup struct {
	Label    string  `json:"label"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Profit   float64 `json:"profit"`
}

// PieSlice is one angular span of the expense pie. Start is the slice's
// first degree, Sweep its extent; slices are consecutive from 0 in input
// order and sweeps sum to 360 whenever there is any spend.
type PieSlice struct {
	Category    core.ExpenseCategory `json:"category"`
	Amount      float64              `json:"amount"`
	Start       float64              `json:"startDegrees"`
	Sweep       float64              `json:"sweepDegrees"`
	Placeholder bool                 `json:"placeholder,omitempty"`
}

// BarGroups normalizes the performance series against the largest value of
// any segment in any bucket, so the tallest bar always fills the scale.
// A series with no positive values normalizes against 1 and every height
// is simply zero.
func BarGroups(series []analytics.MonthBucket) []BarGroup {
	var maxValue float64
	for _, b := range series {
		for _, v := range []float64{b.Income, b.Expenses, b.Profit} {
			if v > maxValue {
				maxValue = v
			}
		}
	}
	if maxValue <= 0 {
		maxValue = 1
	}

	out := make([]BarGroup, len(series))
	for i, b := range series {
		out[i] = BarGroup{
			Label:    b.Label,
			Income:   clampFraction(b.Income / maxValue),
			Expenses: clampFraction(b.Expenses / maxValue),
			Profit:   clampFraction(b.Profit / maxValue),
		}
	}
	return out
}

// PieSlices partitions 360 degrees proportionally to the breakdown, in the
// breakdown's (deterministic) order. Zero total yields a single neutral
// placeholder covering the full circle.
func PieSlices(breakdown []analytics.CategoryTotal) []PieSlice {
	var total float64
	for _, ct := range breakdown {
		total += ct.Total
	}
	if total == 0 {
		return []PieSlice{{Start: 0, Sweep: 360, Placeholder: true}}
	}

	out := make([]PieSlice, 0, len(breakdown))
	start := 0.0
	for _, ct := range breakdown {
		sweep := 360 * (ct.Total / total)
		out = append(out, PieSlice{
			Category: ct.Category,
			Amount:   ct.Total,
			Start:    start,
			Sweep:    sweep,
		})
		start += sweep
	}
	return out
}

func clampFraction(f float64) float64 {
	if f < 0 {
		return 0
	}
	return f
}
