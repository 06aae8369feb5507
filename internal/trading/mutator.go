// Package trading validates and submits orders and cancels pending orders.
// Mutation is deliberately decoupled from dashboard refresh: the mutator
// returns a result and the caller decides when to re-aggregate.
package trading

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/papertrade/portal/internal/common"
	"github.com/papertrade/portal/internal/metrics"
	"github.com/papertrade/portal/internal/models"
)

// OrderAction is the direction of an order.
type OrderAction string

const (
	ActionBuy  OrderAction = "BUY"
	ActionSell OrderAction = "SELL"
)

// OrderKind distinguishes market from limit orders.
type OrderKind string

const (
	KindMarket OrderKind = "MARKET"
	KindLimit  OrderKind = "LIMIT"
)

// OrderRequest is a locally-validated order. Quantity is the raw user input;
// it is parsed during validation so the checks run in their fixed order.
// LimitPrice must be present and positive for limit orders and absent for
// market orders.
type OrderRequest struct {
	Symbol     string
	Quantity   string
	Action     OrderAction
	Kind       OrderKind
	LimitPrice *float64
}

// ValidationError is a local rejection: the request never reached the
// network and can be corrected and resubmitted.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ParseQuantity parses a user-supplied quantity string into a positive whole
// number, rejecting fractions and non-numbers with the same message the
// mutator uses for non-positive values.
func ParseQuantity(s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n <= 0 {
		return 0, &ValidationError{Message: "Quantity must be a positive whole number."}
	}
	return n, nil
}

// Submitter is the slice of the API client the mutator needs.
type Submitter interface {
	PlaceOrder(ctx context.Context, order models.OrderSubmission) (*models.OrderOutcome, error)
	CancelPendingOrder(ctx context.Context, orderID int64) (*models.PendingOrder, error)
}

// Mutator submits and cancels orders. It is stateless per call; per-order
// in-flight guards belong to the caller.
type Mutator struct {
	api    Submitter
	logger *common.Logger
}

// NewMutator creates an order mutator over the given submitter.
func NewMutator(api Submitter, logger *common.Logger) *Mutator {
	return &Mutator{api: api, logger: logger}
}

// normalize validates req in a fixed order (symbol, then quantity, then
// limit price) and returns the normalized request with the parsed quantity.
// The first failing check short-circuits; nothing is sent on a validation
// failure.
func normalize(req OrderRequest) (OrderRequest, int64, error) {
	req.Symbol = strings.ToUpper(strings.TrimSpace(req.Symbol))
	if req.Symbol == "" {
		return req, 0, &ValidationError{Message: "Symbol cannot be empty."}
	}

	quantity, err := ParseQuantity(req.Quantity)
	if err != nil {
		return req, 0, err
	}

	switch req.Kind {
	case KindLimit:
		if req.LimitPrice == nil || *req.LimitPrice <= 0 {
			return req, 0, &ValidationError{Message: "Limit price must be a positive number for limit orders."}
		}
	case KindMarket:
		if req.LimitPrice != nil {
			return req, 0, &ValidationError{Message: "Market orders must not specify a limit price."}
		}
	default:
		return req, 0, &ValidationError{Message: fmt.Sprintf("Unknown order kind %q.", req.Kind)}
	}

	if req.Action != ActionBuy && req.Action != ActionSell {
		return req, 0, &ValidationError{Message: fmt.Sprintf("Unknown order action %q.", req.Action)}
	}

	return req, quantity, nil
}

// wireType maps the action/kind pair onto the server's order_type
// discriminator.
func wireType(req OrderRequest) models.OrderType {
	switch {
	case req.Kind == KindMarket && req.Action == ActionBuy:
		return models.OrderTypeMarketBuy
	case req.Kind == KindMarket && req.Action == ActionSell:
		return models.OrderTypeMarketSell
	case req.Kind == KindLimit && req.Action == ActionBuy:
		return models.OrderTypeLimitBuy
	default:
		return models.OrderTypeLimitSell
	}
}

// Submit validates and submits an order. Market orders resolve into an
// executed trade; limit orders resolve into a pending order. The returned
// outcome carries an explicit tag, never an ambiguous shape.
func (m *Mutator) Submit(ctx context.Context, req OrderRequest) (*models.OrderOutcome, error) {
	req, quantity, err := normalize(req)
	if err != nil {
		return nil, err
	}

	submission := models.OrderSubmission{
		Symbol:     req.Symbol,
		Quantity:   quantity,
		OrderType:  wireType(req),
		LimitPrice: req.LimitPrice,
	}

	outcome, err := m.api.PlaceOrder(ctx, submission)
	if err != nil {
		m.logger.Warn().
			Str("symbol", req.Symbol).
			Str("order_type", string(submission.OrderType)).
			Str("error", err.Error()).
			Msg("order rejected")
		metrics.IncOrderFailure()
		return nil, err
	}

	m.logger.Info().
		Str("symbol", req.Symbol).
		Str("order_type", string(submission.OrderType)).
		Str("outcome", string(outcome.Kind)).
		Msg("order accepted")
	metrics.IncOrder(strings.ToLower(string(req.Kind)), strings.ToLower(string(req.Action)))

	return outcome, nil
}

// Cancel cancels a pending limit order. On failure the order remains pending
// on the server and no local state is touched, so the action can be retried.
func (m *Mutator) Cancel(ctx context.Context, orderID int64) (*models.PendingOrder, error) {
	cancelled, err := m.api.CancelPendingOrder(ctx, orderID)
	if err != nil {
		m.logger.Warn().Int64("order_id", orderID).Str("error", err.Error()).Msg("cancellation failed")
		metrics.IncCancellation("error")
		return nil, err
	}

	m.logger.Info().Int64("order_id", orderID).Msg("order cancelled")
	metrics.IncCancellation("ok")
	return cancelled, nil
}

// SuccessMessage renders the transient confirmation for a submitted order.
func SuccessMessage(req OrderRequest, outcome *models.OrderOutcome) string {
	switch outcome.Kind {
	case models.OrderFilled:
		t := outcome.Trade
		return fmt.Sprintf("Success! %s %d %s @ %s", req.Action, t.Quantity, t.Symbol, common.FormatPrice(t.Price))
	case models.OrderQueued:
		p := outcome.Pending
		return fmt.Sprintf("Limit order placed: %s %d %s @ %s (%s)",
			req.Action, p.Quantity, p.Symbol, common.FormatMoney(p.LimitPrice), p.Status)
	default:
		return "Order accepted."
	}
}
