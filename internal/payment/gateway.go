// Package payment provides the in-process payment collaborator used when no
// external gateway is configured. It reproduces the gateway behaviours the
// booking flow has to cope with: methods that are unavailable on the current
// platform, declined charges, and successful charges with a transaction ID.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
)

// ErrMethodUnsupported is returned when the requested method is not enabled
// on this platform.
var ErrMethodUnsupported = errors.New("payment method not supported")

// DeclineReason is reported for charges the gateway refuses.
const DeclineReason = "declined"

// Gateway is a local payment gateway. It approves any positive amount within
// its configured ceiling for an enabled method.
type Gateway struct {
	methods []domain.PaymentMethod
	limit   int64
	log     *slog.Logger
}

// NewGateway returns a Gateway that accepts the given methods. A limit of 0
// disables the amount ceiling.
func NewGateway(methods []domain.PaymentMethod, limit int64, log *slog.Logger) *Gateway {
	if log == nil {
		log = slog.Default()
	}
	return &Gateway{methods: slices.Clone(methods), limit: limit, log: log}
}

// Process charges amount using method.
func (g *Gateway) Process(ctx context.Context, amount int64, method domain.PaymentMethod) (domain.PaymentResult, error) {
	if !slices.Contains(g.methods, method) {
		return domain.PaymentResult{}, fmt.Errorf("%w: %s", ErrMethodUnsupported, method)
	}
	if amount <= 0 || (g.limit > 0 && amount > g.limit) {
		g.log.InfoContext(ctx, "payment declined", "method", method, "amount", amount)
		return domain.PaymentResult{Success: false, Error: DeclineReason}, nil
	}

	txn := uuid.NewString()
	g.log.InfoContext(ctx, "payment approved", "method", method, "amount", amount, "transaction_id", txn)
	return domain.PaymentResult{Success: true, TransactionID: txn}, nil
}
