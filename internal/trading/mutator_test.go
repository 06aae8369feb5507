package trading

import (
	"context"
	"errors"
	"testing"

	"github.com/papertrade/portal/internal/client"
	"github.com/papertrade/portal/internal/common"
	"github.com/papertrade/portal/internal/models"
)

// fakeSubmitter records the last submission and returns canned outcomes.
type fakeSubmitter struct {
	lastOrder    *models.OrderSubmission
	outcome      *models.OrderOutcome
	placeErr     error
	lastCancelID int64
	cancelled    *models.PendingOrder
	cancelErr    error
}

func (f *fakeSubmitter) PlaceOrder(ctx context.Context, order models.OrderSubmission) (*models.OrderOutcome, error) {
	f.lastOrder = &order
	return f.outcome, f.placeErr
}

func (f *fakeSubmitter) CancelPendingOrder(ctx context.Context, orderID int64) (*models.PendingOrder, error) {
	f.lastCancelID = orderID
	return f.cancelled, f.cancelErr
}

func newTestMutator(api *fakeSubmitter) *Mutator {
	return NewMutator(api, common.NewSilentLogger())
}

func TestParseQuantity(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"10", 10, false},
		{" 3 ", 3, false},
		{"0", 0, true},
		{"-5", 0, true},
		{"2.5", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}

	for _, tc := range cases {
		got, err := ParseQuantity(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseQuantity(%q): expected error", tc.in)
				continue
			}
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Errorf("ParseQuantity(%q): expected ValidationError, got %T", tc.in, err)
			} else if vErr.Message != "Quantity must be a positive whole number." {
				t.Errorf("ParseQuantity(%q): message = %q", tc.in, vErr.Message)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseQuantity(%q) failed: %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParseQuantity(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestSubmitValidation(t *testing.T) {
	price := 100.0
	cases := []struct {
		name    string
		req     OrderRequest
		wantMsg string
	}{
		{
			name:    "empty symbol",
			req:     OrderRequest{Symbol: "  ", Quantity: "10", Action: ActionBuy, Kind: KindMarket},
			wantMsg: "Symbol cannot be empty.",
		},
		{
			name:    "zero quantity",
			req:     OrderRequest{Symbol: "AAPL", Quantity: "0", Action: ActionBuy, Kind: KindMarket},
			wantMsg: "Quantity must be a positive whole number.",
		},
		{
			name:    "fractional quantity",
			req:     OrderRequest{Symbol: "AAPL", Quantity: "2.5", Action: ActionBuy, Kind: KindMarket},
			wantMsg: "Quantity must be a positive whole number.",
		},
		{
			name:    "empty symbol wins over bad quantity",
			req:     OrderRequest{Symbol: "", Quantity: "2.5", Action: ActionBuy, Kind: KindMarket},
			wantMsg: "Symbol cannot be empty.",
		},
		{
			name:    "bad quantity wins over missing limit price",
			req:     OrderRequest{Symbol: "AAPL", Quantity: "-1", Action: ActionBuy, Kind: KindLimit},
			wantMsg: "Quantity must be a positive whole number.",
		},
		{
			name:    "limit without price",
			req:     OrderRequest{Symbol: "AAPL", Quantity: "10", Action: ActionBuy, Kind: KindLimit},
			wantMsg: "Limit price must be a positive number for limit orders.",
		},
		{
			name:    "market with price",
			req:     OrderRequest{Symbol: "AAPL", Quantity: "10", Action: ActionBuy, Kind: KindMarket, LimitPrice: &price},
			wantMsg: "Market orders must not specify a limit price.",
		},
		{
			name:    "unknown kind",
			req:     OrderRequest{Symbol: "AAPL", Quantity: "10", Action: ActionBuy, Kind: "STOP"},
			wantMsg: `Unknown order kind "STOP".`,
		},
		{
			name:    "unknown action",
			req:     OrderRequest{Symbol: "AAPL", Quantity: "10", Action: "HOLD", Kind: KindMarket},
			wantMsg: `Unknown order action "HOLD".`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api := &fakeSubmitter{}
			m := newTestMutator(api)

			_, err := m.Submit(context.Background(), tc.req)
			if err == nil {
				t.Fatal("expected validation error")
			}

			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %T", err)
			}
			if vErr.Message != tc.wantMsg {
				t.Errorf("message = %q, want %q", vErr.Message, tc.wantMsg)
			}
			if api.lastOrder != nil {
				t.Error("nothing must be sent on a validation failure")
			}
		})
	}
}

func TestSubmitMarketOrder(t *testing.T) {
	api := &fakeSubmitter{
		outcome: &models.OrderOutcome{
			Kind:  models.OrderFilled,
			Trade: &models.Trade{ID: 7, Symbol: "AAPL", Quantity: 10, Price: 150.25, TradeType: "BUY"},
		},
	}
	m := newTestMutator(api)

	req := OrderRequest{Symbol: "aapl", Quantity: "10", Action: ActionBuy, Kind: KindMarket}
	outcome, err := m.Submit(context.Background(), req)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if api.lastOrder.Symbol != "AAPL" {
		t.Errorf("symbol = %q, want uppercased AAPL", api.lastOrder.Symbol)
	}
	if api.lastOrder.OrderType != models.OrderTypeMarketBuy {
		t.Errorf("order_type = %q, want MARKET_BUY", api.lastOrder.OrderType)
	}
	if api.lastOrder.LimitPrice != nil {
		t.Error("market order must carry no limit price")
	}
	if outcome.Kind != models.OrderFilled {
		t.Errorf("outcome kind = %q, want FILLED", outcome.Kind)
	}
}

func TestSubmitLimitOrder(t *testing.T) {
	api := &fakeSubmitter{
		outcome: &models.OrderOutcome{
			Kind:    models.OrderQueued,
			Pending: &models.PendingOrder{ID: 12, Symbol: "MSFT", Quantity: 5, LimitPrice: 300, Status: "PENDING"},
		},
	}
	m := newTestMutator(api)

	price := 300.0
	req := OrderRequest{Symbol: "MSFT", Quantity: "5", Action: ActionBuy, Kind: KindLimit, LimitPrice: &price}
	outcome, err := m.Submit(context.Background(), req)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if api.lastOrder.OrderType != models.OrderTypeLimitBuy {
		t.Errorf("order_type = %q, want LIMIT_BUY", api.lastOrder.OrderType)
	}
	if api.lastOrder.LimitPrice == nil || *api.lastOrder.LimitPrice != 300 {
		t.Error("limit order must carry its limit price")
	}
	if outcome.Kind != models.OrderQueued {
		t.Errorf("outcome kind = %q, want QUEUED", outcome.Kind)
	}
}

func TestSubmitSellWireTypes(t *testing.T) {
	price := 50.0
	cases := []struct {
		req  OrderRequest
		want models.OrderType
	}{
		{OrderRequest{Symbol: "A", Quantity: "1", Action: ActionSell, Kind: KindMarket}, models.OrderTypeMarketSell},
		{OrderRequest{Symbol: "A", Quantity: "1", Action: ActionSell, Kind: KindLimit, LimitPrice: &price}, models.OrderTypeLimitSell},
	}

	for _, tc := range cases {
		api := &fakeSubmitter{outcome: &models.OrderOutcome{Kind: models.OrderFilled, Trade: &models.Trade{}}}
		m := newTestMutator(api)
		if _, err := m.Submit(context.Background(), tc.req); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
		if api.lastOrder.OrderType != tc.want {
			t.Errorf("order_type = %q, want %q", api.lastOrder.OrderType, tc.want)
		}
	}
}

func TestSubmitServerRejection(t *testing.T) {
	api := &fakeSubmitter{placeErr: &client.APIError{Status: 400, Detail: "Insufficient funds"}}
	m := newTestMutator(api)

	req := OrderRequest{Symbol: "AAPL", Quantity: "1000000", Action: ActionBuy, Kind: KindMarket}
	_, err := m.Submit(context.Background(), req)
	if err == nil {
		t.Fatal("expected rejection to propagate")
	}
	if got := client.ErrorMessage(err, "Failed to place order."); got != "Insufficient funds" {
		t.Errorf("message = %q", got)
	}
}

func TestCancel(t *testing.T) {
	api := &fakeSubmitter{cancelled: &models.PendingOrder{ID: 42, Status: "CANCELLED"}}
	m := newTestMutator(api)

	cancelled, err := m.Cancel(context.Background(), 42)
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if api.lastCancelID != 42 {
		t.Errorf("cancel id = %d, want 42", api.lastCancelID)
	}
	if cancelled.Status != "CANCELLED" {
		t.Errorf("cancelled = %+v", cancelled)
	}
}

func TestCancelFailure(t *testing.T) {
	api := &fakeSubmitter{cancelErr: &client.APIError{Status: 404, Detail: "Order not found"}}
	m := newTestMutator(api)

	_, err := m.Cancel(context.Background(), 99)
	if err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestSuccessMessageFilled(t *testing.T) {
	req := OrderRequest{Symbol: "AAPL", Quantity: "10", Action: ActionBuy, Kind: KindMarket}
	outcome := &models.OrderOutcome{
		Kind:  models.OrderFilled,
		Trade: &models.Trade{Symbol: "AAPL", Quantity: 10, Price: 150.25},
	}

	got := SuccessMessage(req, outcome)
	want := "Success! BUY 10 AAPL @ $150.2500"
	if got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
}

func TestSuccessMessageQueued(t *testing.T) {
	req := OrderRequest{Symbol: "MSFT", Quantity: "5", Action: ActionBuy, Kind: KindLimit}
	outcome := &models.OrderOutcome{
		Kind:    models.OrderQueued,
		Pending: &models.PendingOrder{Symbol: "MSFT", Quantity: 5, LimitPrice: 300, Status: "PENDING"},
	}

	got := SuccessMessage(req, outcome)
	want := "Limit order placed: BUY 5 MSFT @ $300.00 (PENDING)"
	if got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
}
