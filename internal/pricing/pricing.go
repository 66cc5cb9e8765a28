// Package pricing computes trip prices. Every function is pure and
// deterministic; callers recompute a quote whenever an input changes.
package pricing

import (
	"fmt"
	"math"
	"time"

	"github.com/pkordes/trip-planner/internal/domain"
)

const (
	// PeakMultiplier applies to trips in a peak month.
	PeakMultiplier = 1.2
	// StandardMultiplier applies to every other month.
	StandardMultiplier = 1.0

	// GroupDiscountThreshold is the smallest group that earns the discount.
	GroupDiscountThreshold = 5
	// GroupDiscountRate is the flat fraction taken off the subtotal.
	GroupDiscountRate = 0.10

	// MaxSubtotal is the largest subtotal Quote accepts. Above 2^53 a
	// float64 no longer holds every whole currency unit.
	MaxSubtotal = 1 << 53
)

// peakMonths is a fixed policy, not configurable per call.
var peakMonths = map[time.Month]bool{
	time.June:     true,
	time.July:     true,
	time.August:   true,
	time.December: true,
}

// Input holds the arguments of ComputeTotal.
//
// BasePrice is the group subtotal: the per-person price already multiplied by
// GroupSize. GroupSize must be >= 1; it is not checked here.
type Input struct {
	BasePrice        float64
	SeasonMultiplier float64
	GroupSize        int
}

// SeasonMultiplier returns PeakMultiplier when date falls in June, July,
// August or December, and StandardMultiplier otherwise.
func SeasonMultiplier(date time.Time) float64 {
	if peakMonths[date.Month()] {
		return PeakMultiplier
	}
	return StandardMultiplier
}

// InputProblems reports every reason Quote cannot price perPerson,
// groupSize and tripDate: a price that is not a positive finite number, a
// group smaller than one, or a subtotal above MaxSubtotal. A nil result
// means the inputs are fine.
func InputProblems(perPerson float64, groupSize int, tripDate time.Time) []string {
	var problems []string
	switch {
	case math.IsNaN(perPerson) || math.IsInf(perPerson, 0):
		problems = append(problems, "base_price must be a finite number")
	case perPerson <= 0:
		problems = append(problems, "base_price must be positive")
	}
	if groupSize < 1 {
		problems = append(problems, "group_size must be at least 1")
	}
	if len(problems) == 0 && perPerson*float64(groupSize)*SeasonMultiplier(tripDate) > MaxSubtotal {
		problems = append(problems, fmt.Sprintf("subtotal exceeds %d", int64(MaxSubtotal)))
	}
	return problems
}

// ComputeTotal applies the season multiplier and any group discount to
// in.BasePrice and rounds half-up to a whole currency unit.
func ComputeTotal(in Input) int64 {
	subtotal, discount := breakdown(in)
	return roundHalfUp(subtotal - discount)
}

// Quote prices a trip for groupSize travellers at perPerson each, starting on
// tripDate, and returns the full breakdown. Callers check InputProblems
// first; Quote itself does not reject anything.
func Quote(perPerson float64, groupSize int, tripDate time.Time) domain.PricingQuote {
	in := Input{
		BasePrice:        perPerson * float64(groupSize),
		SeasonMultiplier: SeasonMultiplier(tripDate),
		GroupSize:        groupSize,
	}
	subtotal, discount := breakdown(in)
	return domain.PricingQuote{
		BasePricePerPerson: perPerson,
		SeasonMultiplier:   in.SeasonMultiplier,
		GroupSize:          groupSize,
		Subtotal:           subtotal,
		Discount:           discount,
		TotalPrice:         roundHalfUp(subtotal - discount),
	}
}

func breakdown(in Input) (subtotal, discount float64) {
	subtotal = in.BasePrice * in.SeasonMultiplier
	if in.GroupSize >= GroupDiscountThreshold {
		discount = subtotal * GroupDiscountRate
	}
	return subtotal, discount
}

// roundHalfUp rounds to the nearest integer with .5 going up. The small bias
// absorbs float error where an exact half is computed as 40.49999999999999.
// Values outside the int64 range saturate and NaN rounds to 0.
func roundHalfUp(v float64) int64 {
	r := math.Floor(v + 0.5 + 1e-9)
	switch {
	case math.IsNaN(r):
		return 0
	case r >= math.MaxInt64:
		return math.MaxInt64
	case r <= math.MinInt64:
		return math.MinInt64
	}
	return int64(r)
}
