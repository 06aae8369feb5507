package handlers

import (
	"context"
	"errors"

	"github.com/papertrade/portal/internal/models"
)

// errTimeout stands in for a network failure that is not an APIError.
var errTimeout = errors.New("dial tcp: i/o timeout")

// fakeSource feeds the aggregator canned dashboard data.
type fakeSource struct {
	portfolio    *models.Portfolio
	portfolioErr error
	risk         *models.RiskEstimate
	riskErr      error
	pending      []models.PendingOrder
	pendingErr   error
}

func (f *fakeSource) FetchPortfolio(ctx context.Context) (*models.Portfolio, error) {
	return f.portfolio, f.portfolioErr
}

func (f *fakeSource) FetchVaR(ctx context.Context, confidenceLevel float64, lookbackDays int) (*models.RiskEstimate, error) {
	return f.risk, f.riskErr
}

func (f *fakeSource) FetchPendingOrders(ctx context.Context) ([]models.PendingOrder, error) {
	return f.pending, f.pendingErr
}

func healthySource() *fakeSource {
	return &fakeSource{
		portfolio: &models.Portfolio{CashBalance: 10000},
		risk:      &models.RiskEstimate{ConfidenceLevel: 0.95, LookbackDays: 126},
		pending:   []models.PendingOrder{},
	}
}

// fakeSubmitter feeds the mutator canned order outcomes.
type fakeSubmitter struct {
	outcome      *models.OrderOutcome
	placeErr     error
	placeCalls   int
	cancelled    *models.PendingOrder
	cancelErr    error
	cancelStart  chan int64
	cancelResume chan struct{}
}

func (f *fakeSubmitter) PlaceOrder(ctx context.Context, order models.OrderSubmission) (*models.OrderOutcome, error) {
	f.placeCalls++
	return f.outcome, f.placeErr
}

func (f *fakeSubmitter) CancelPendingOrder(ctx context.Context, orderID int64) (*models.PendingOrder, error) {
	if f.cancelStart != nil {
		f.cancelStart <- orderID
		<-f.cancelResume
	}
	return f.cancelled, f.cancelErr
}

// fakeExchanger feeds the auth handler canned token exchanges.
type fakeExchanger struct {
	token       *models.TokenResponse
	exchangeErr error
	user        *models.RegisteredUser
	registerErr error
}

func (f *fakeExchanger) ExchangeToken(ctx context.Context, username, password string) (*models.TokenResponse, error) {
	return f.token, f.exchangeErr
}

func (f *fakeExchanger) Register(ctx context.Context, req models.RegisterRequest) (*models.RegisteredUser, error) {
	return f.user, f.registerErr
}

// fakeProfileFetcher feeds the session controller a canned profile.
type fakeProfileFetcher struct {
	profile *models.UserProfile
	err     error
}

func (f *fakeProfileFetcher) FetchProfile(ctx context.Context) (*models.UserProfile, error) {
	return f.profile, f.err
}

// fakeHistory feeds the history handler canned pages.
type fakeHistory struct {
	trades    []models.Trade
	tradesErr error
	points    []models.ValuePoint
	pointsErr error

	gotSkip       int
	gotLimit      int
	gotPointLimit int
}

func (f *fakeHistory) FetchTradeHistory(ctx context.Context, skip, limit int) ([]models.Trade, error) {
	f.gotSkip = skip
	f.gotLimit = limit
	return f.trades, f.tradesErr
}

func (f *fakeHistory) FetchValueHistory(ctx context.Context, limit int) ([]models.ValuePoint, error) {
	f.gotPointLimit = limit
	return f.points, f.pointsErr
}

// fakeWatchlist feeds the watchlist handler canned rows.
type fakeWatchlist struct {
	items     []models.WatchlistItem
	itemsErr  error
	entry     *models.WatchlistEntry
	addErr    error
	removeErr error

	gotAdded   string
	gotRemoved string
}

func (f *fakeWatchlist) FetchWatchlist(ctx context.Context) ([]models.WatchlistItem, error) {
	return f.items, f.itemsErr
}

func (f *fakeWatchlist) AddWatchlistSymbol(ctx context.Context, symbol string) (*models.WatchlistEntry, error) {
	f.gotAdded = symbol
	return f.entry, f.addErr
}

func (f *fakeWatchlist) RemoveWatchlistSymbol(ctx context.Context, symbol string) error {
	f.gotRemoved = symbol
	return f.removeErr
}
