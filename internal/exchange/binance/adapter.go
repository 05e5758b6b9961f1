package binance

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"u-exchanges/internal/batch"
	"u-exchanges/internal/core"
	"u-exchanges/internal/paginate"
)

var log = logrus.WithField("venue", "binance")

// The isolated-margin API has no batch order endpoint, so bulk operations
// fan out single requests one per chunk.
const marginBatchLimit = 1

// MarginAdapter implements the unified margin, order, and transfer
// operations over a MarginClient. It holds no per-call state: precision is
// resolved fresh for every order-affecting call and threaded as a value.
type MarginAdapter struct {
	client MarginClient
}

func NewMarginAdapter(client MarginClient) *MarginAdapter {
	return &MarginAdapter{client: client}
}

func (a *MarginAdapter) MarginAccounts(ctx context.Context, symbols ...string) ([]core.MarginAccount, error) {
	resp, err := a.client.IsolatedAccounts(ctx, symbols...)
	if err != nil {
		return nil, errors.Wrap(err, "binance: isolated accounts")
	}
	accounts := make([]core.MarginAccount, len(resp.Assets))
	for i, pair := range resp.Assets {
		accounts[i] = toMarginAccount(pair)
	}
	return accounts, nil
}

func (a *MarginAdapter) LoanableAmount(ctx context.Context, symbol, asset string) (core.LoanInfo, error) {
	borrowable, err := a.client.MaxBorrowable(ctx, asset, symbol)
	if err != nil {
		return core.LoanInfo{}, errors.Wrap(err, "binance: max borrowable")
	}
	rate, err := a.client.InterestRate(ctx, asset)
	if err != nil {
		return core.LoanInfo{}, errors.Wrap(err, "binance: interest rate")
	}
	return core.LoanInfo{
		Asset:     asset,
		Rate:      dec(rate.DailyInterestRate),
		Available: dec(borrowable.Amount),
	}, nil
}

// Borrow requests an isolated-margin loan. The vendor error is narrowed to a
// boolean; every other operation propagates it unmodified.
func (a *MarginAdapter) Borrow(ctx context.Context, symbol, asset string, amount decimal.Decimal) bool {
	if err := a.client.Borrow(ctx, asset, symbol, amount.String()); err != nil {
		log.WithError(err).WithField("symbol", symbol).Warn("borrow rejected")
		return false
	}
	return true
}

func (a *MarginAdapter) Repay(ctx context.Context, symbol, asset string, amount decimal.Decimal) bool {
	if err := a.client.Repay(ctx, asset, symbol, amount.String()); err != nil {
		log.WithError(err).WithField("symbol", symbol).Warn("repay rejected")
		return false
	}
	return true
}

func (a *MarginAdapter) CreateOrder(ctx context.Context, intent core.OrderIntent) (core.Order, error) {
	plan, err := a.buildPlan(ctx, intent)
	if err != nil {
		return core.Order{}, err
	}
	result, err := a.client.CreateOrder(ctx, planParams(plan, true))
	if err != nil {
		return core.Order{}, errors.Wrap(err, "binance: create margin order")
	}
	return toOrder(result), nil
}

// BulkCreateOrders builds every plan first, against one profile per symbol
// resolved at call start, then dispatches the submissions concurrently.
// Results preserve intent order; any failed submission fails the whole call.
func (a *MarginAdapter) BulkCreateOrders(ctx context.Context, intents []core.OrderIntent) ([]core.Order, error) {
	plans, err := a.buildPlans(ctx, intents)
	if err != nil {
		return nil, err
	}
	results, err := batch.Dispatch(ctx, plans, marginBatchLimit,
		func(ctx context.Context, chunk []core.OrderPlan) (OrderResult, error) {
			return a.client.CreateOrder(ctx, planParams(chunk[0], true))
		})
	if err != nil {
		return nil, errors.Wrap(err, "binance: bulk create orders")
	}
	return toOrders(results), nil
}

func (a *MarginAdapter) CancelOrder(ctx context.Context, symbol, orderID string) error {
	return errors.Wrap(a.client.CancelOrder(ctx, symbol, orderID), "binance: cancel order")
}

func (a *MarginAdapter) BulkCancelOrders(ctx context.Context, symbol string, orderIDs []string) error {
	_, err := batch.Dispatch(ctx, orderIDs, marginBatchLimit,
		func(ctx context.Context, chunk []string) (struct{}, error) {
			return struct{}{}, a.client.CancelOrder(ctx, symbol, chunk[0])
		})
	return errors.Wrap(err, "binance: bulk cancel orders")
}

func (a *MarginAdapter) CancelOpenOrders(ctx context.Context, symbol string) error {
	return errors.Wrap(a.client.CancelOpenOrders(ctx, symbol), "binance: cancel open orders")
}

func (a *MarginAdapter) OpenOrders(ctx context.Context, symbol string) ([]core.Order, error) {
	results, err := a.client.OpenOrders(ctx, symbol)
	if err != nil {
		return nil, errors.Wrap(err, "binance: open orders")
	}
	return toOrders(results), nil
}

func (a *MarginAdapter) ClosedOrders(ctx context.Context, symbol string) ([]core.Order, error) {
	results, err := paginate.All(ctx,
		func(ctx context.Context) ([]OrderResult, string, error) {
			return a.client.ClosedOrders(ctx, symbol, "")
		},
		func(ctx context.Context, cursor string) ([]OrderResult, string, error) {
			return a.client.ClosedOrders(ctx, symbol, cursor)
		})
	if err != nil {
		return nil, errors.Wrap(err, "binance: closed orders")
	}
	return toOrders(results), nil
}

func (a *MarginAdapter) Transfer(ctx context.Context, req core.TransferRequest) error {
	return errors.Wrap(a.client.Transfer(ctx, toTransferParams(req)), "binance: transfer")
}

// resolve fetches the symbol's precision profile and current price. Called
// at the start of every order-affecting operation; the profile never
// outlives the call.
func (a *MarginAdapter) resolve(ctx context.Context, symbol string) (core.PrecisionProfile, decimal.Decimal, error) {
	symbols, err := a.client.ExchangeInfo(ctx, symbol)
	if err != nil {
		return core.PrecisionProfile{}, decimal.Decimal{}, errors.Wrap(err, "binance: exchange info")
	}
	profile, err := core.ResolvePrecision(toInstruments(symbols), symbol)
	if err != nil {
		return core.PrecisionProfile{}, decimal.Decimal{}, err
	}
	ticker, err := a.client.TickerPrice(ctx, symbol)
	if err != nil {
		return core.PrecisionProfile{}, decimal.Decimal{}, errors.Wrap(err, "binance: ticker price")
	}
	return profile, dec(ticker.Price), nil
}

func (a *MarginAdapter) buildPlan(ctx context.Context, intent core.OrderIntent) (core.OrderPlan, error) {
	profile, current, err := a.resolve(ctx, intent.Symbol)
	if err != nil {
		return core.OrderPlan{}, err
	}
	return core.BuildMarginOrder(intent, profile, current)
}

// buildPlans resolves one profile per distinct symbol, then builds every
// plan in intent order.
func (a *MarginAdapter) buildPlans(ctx context.Context, intents []core.OrderIntent) ([]core.OrderPlan, error) {
	type resolved struct {
		profile core.PrecisionProfile
		current decimal.Decimal
	}
	bySymbol := make(map[string]resolved)
	plans := make([]core.OrderPlan, len(intents))
	for i, intent := range intents {
		r, ok := bySymbol[intent.Symbol]
		if !ok {
			profile, current, err := a.resolve(ctx, intent.Symbol)
			if err != nil {
				return nil, err
			}
			r = resolved{profile: profile, current: current}
			bySymbol[intent.Symbol] = r
		}
		plan, err := core.BuildMarginOrder(intent, r.profile, r.current)
		if err != nil {
			return nil, err
		}
		plans[i] = plan
	}
	return plans, nil
}
