package pricing_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pkordes/trip-planner/internal/pricing"
)

func TestSeasonMultiplier(t *testing.T) {
	cases := []struct {
		month time.Month
		want  float64
	}{
		{time.January, 1.0},
		{time.April, 1.0},
		{time.May, 1.0},
		{time.June, 1.2},
		{time.July, 1.2},
		{time.August, 1.2},
		{time.September, 1.0},
		{time.November, 1.0},
		{time.December, 1.2},
	}

	for _, tc := range cases {
		t.Run(tc.month.String(), func(t *testing.T) {
			got := pricing.SeasonMultiplier(time.Date(2025, tc.month, 10, 0, 0, 0, 0, time.UTC))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestComputeTotal(t *testing.T) {
	cases := []struct {
		name string
		in   pricing.Input
		want int64
	}{
		{"single traveller off-peak", pricing.Input{BasePrice: 500, SeasonMultiplier: 1.0, GroupSize: 1}, 500},
		{"group of five in peak season", pricing.Input{BasePrice: 500, SeasonMultiplier: 1.2, GroupSize: 5}, 540},
		{"group of four gets no discount", pricing.Input{BasePrice: 400, SeasonMultiplier: 1.2, GroupSize: 4}, 480},
		{"half rounds up", pricing.Input{BasePrice: 100.5, SeasonMultiplier: 1.0, GroupSize: 1}, 101},
		{"below half rounds down", pricing.Input{BasePrice: 100.49, SeasonMultiplier: 1.0, GroupSize: 1}, 100},
		{"discounted half rounds up", pricing.Input{BasePrice: 45, SeasonMultiplier: 1.0, GroupSize: 6}, 41}, // 40.5
		{"zero base price", pricing.Input{BasePrice: 0, SeasonMultiplier: 1.2, GroupSize: 2}, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, pricing.ComputeTotal(tc.in))
		})
	}
}

func TestComputeTotal_Deterministic(t *testing.T) {
	in := pricing.Input{BasePrice: 1234.56, SeasonMultiplier: 1.2, GroupSize: 7}

	first := pricing.ComputeTotal(in)
	for range 10 {
		assert.Equal(t, first, pricing.ComputeTotal(in))
	}
}

func TestQuote(t *testing.T) {
	q := pricing.Quote(100, 5, time.Date(2025, time.July, 10, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, 100.0, q.BasePricePerPerson)
	assert.Equal(t, 1.2, q.SeasonMultiplier)
	assert.Equal(t, 5, q.GroupSize)
	assert.InDelta(t, 600, q.Subtotal, 1e-9)
	assert.InDelta(t, 60, q.Discount, 1e-9)
	assert.Equal(t, int64(540), q.TotalPrice)
}

func TestQuote_MatchesComputeTotal(t *testing.T) {
	date := time.Date(2025, time.April, 10, 0, 0, 0, 0, time.UTC)
	q := pricing.Quote(250, 3, date)

	want := pricing.ComputeTotal(pricing.Input{
		BasePrice:        750,
		SeasonMultiplier: pricing.SeasonMultiplier(date),
		GroupSize:        3,
	})
	assert.Equal(t, want, q.TotalPrice)
}

func TestComputeTotal_Saturates(t *testing.T) {
	got := pricing.ComputeTotal(pricing.Input{BasePrice: 1e19, SeasonMultiplier: pricing.PeakMultiplier, GroupSize: 1})

	assert.Equal(t, int64(math.MaxInt64), got)
	assert.Zero(t, pricing.ComputeTotal(pricing.Input{BasePrice: math.NaN(), SeasonMultiplier: 1, GroupSize: 1}))
}

func TestInputProblems(t *testing.T) {
	july := time.Date(2025, time.July, 10, 0, 0, 0, 0, time.UTC)
	cases := map[string]struct {
		perPerson float64
		groupSize int
		want      []string
	}{
		"fine":          {perPerson: 100, groupSize: 5},
		"zero price":    {perPerson: 0, groupSize: 2, want: []string{"base_price must be positive"}},
		"nan price":     {perPerson: math.NaN(), groupSize: 2, want: []string{"base_price must be a finite number"}},
		"infinite":      {perPerson: math.Inf(1), groupSize: 2, want: []string{"base_price must be a finite number"}},
		"empty group":   {perPerson: 100, groupSize: 0, want: []string{"group_size must be at least 1"}},
		"both wrong":    {perPerson: -1, groupSize: -3, want: []string{"base_price must be positive", "group_size must be at least 1"}},
		"huge subtotal": {perPerson: 1e300, groupSize: 2, want: []string{"subtotal exceeds 9007199254740992"}},
		"seasonal push": {perPerson: float64(pricing.MaxSubtotal), groupSize: 1, want: []string{"subtotal exceeds 9007199254740992"}},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, pricing.InputProblems(tc.perPerson, tc.groupSize, july))
		})
	}
}
