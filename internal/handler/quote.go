package handler

import (
	"net/http"
	"strings"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/pricing"
)

// GetQuote handles GET /quote?base_price=&group_size=&date=.
// base_price is per person; date is YYYY-MM-DD and picks the season.
func (s *Server) GetQuote(w http.ResponseWriter, r *http.Request) {
	var (
		perPerson float64
		groupSize int
		date      openapi_types.Date
	)
	if err := bindQuery(r, "base_price", true, &perPerson); err != nil {
		requestError(w, err.Error())
		return
	}
	if err := bindQuery(r, "group_size", true, &groupSize); err != nil {
		requestError(w, err.Error())
		return
	}
	if err := bindQuery(r, "date", true, &date); err != nil {
		requestError(w, err.Error())
		return
	}
	if date.IsZero() {
		requestError(w, "query parameter 'date' is required")
		return
	}
	if problems := pricing.InputProblems(perPerson, groupSize, date.Time); len(problems) > 0 {
		requestError(w, strings.Join(problems, "; "))
		return
	}

	writeJSON(w, http.StatusOK, quoteToResponse(pricing.Quote(perPerson, groupSize, date.Time)))
}

func quoteToResponse(q domain.PricingQuote) Quote {
	return Quote{
		BasePricePerPerson: q.BasePricePerPerson,
		SeasonMultiplier:   q.SeasonMultiplier,
		GroupSize:          q.GroupSize,
		Subtotal:           q.Subtotal,
		Discount:           q.Discount,
		TotalPrice:         q.TotalPrice,
	}
}
