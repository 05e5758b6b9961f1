package okcoin

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"u-exchanges/internal/batch"
	"u-exchanges/internal/core"
	"u-exchanges/internal/paginate"
)

var log = logrus.WithField("venue", "okcoin")

// The v3 batch order endpoint accepts at most ten orders per request.
const batchLimit = 10

// marginTrading marks v3 orders as margin-account orders.
const marginTrading = "2"

// Adapter implements the unified margin and transfer operations over the v3
// Client. Stops are not supported by the v3 spot/margin order endpoint and
// fail with ErrUnsupported instead of being silently downgraded.
type Adapter struct {
	client Client
}

func NewAdapter(client Client) *Adapter {
	return &Adapter{client: client}
}

func (a *Adapter) MarginAccounts(ctx context.Context, symbols ...string) ([]core.MarginAccount, error) {
	raw, err := a.client.MarginAccounts(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "okcoin: margin accounts")
	}
	wanted := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		wanted[s] = true
	}
	accounts := make([]core.MarginAccount, 0, len(raw))
	for _, acc := range raw {
		if len(wanted) > 0 && !wanted[acc.InstrumentID] {
			continue
		}
		accounts = append(accounts, toMarginAccount(acc))
	}
	return accounts, nil
}

func (a *Adapter) LoanableAmount(ctx context.Context, symbol, asset string) (core.LoanInfo, error) {
	legs, err := a.client.Availability(ctx, symbol)
	if err != nil {
		return core.LoanInfo{}, errors.Wrap(err, "okcoin: availability")
	}
	for _, leg := range legs {
		if leg.Currency == asset {
			return core.LoanInfo{
				Asset:     asset,
				Rate:      dec(leg.Rate),
				Available: dec(leg.Available),
			}, nil
		}
	}
	return core.LoanInfo{}, errors.Wrapf(core.ErrSymbolNotFound, "okcoin: no availability for %s in %s", asset, symbol)
}

func (a *Adapter) Borrow(ctx context.Context, symbol, asset string, amount decimal.Decimal) bool {
	if err := a.client.Borrow(ctx, symbol, asset, amount.String()); err != nil {
		log.WithError(err).WithField("symbol", symbol).Warn("borrow rejected")
		return false
	}
	return true
}

func (a *Adapter) Repay(ctx context.Context, symbol, asset string, amount decimal.Decimal) bool {
	if err := a.client.Repay(ctx, symbol, asset, amount.String()); err != nil {
		log.WithError(err).WithField("symbol", symbol).Warn("repay rejected")
		return false
	}
	return true
}

func (a *Adapter) CreateOrder(ctx context.Context, intent core.OrderIntent) (core.Order, error) {
	plan, err := a.buildPlan(ctx, intent)
	if err != nil {
		return core.Order{}, err
	}
	result, err := a.client.PlaceOrder(ctx, planParams(plan))
	if err != nil {
		return core.Order{}, errors.Wrap(err, "okcoin: place order")
	}
	return planOrder(plan, result), nil
}

// BulkCreateOrders builds every plan first, then submits batches of ten
// concurrently. Results preserve intent order.
func (a *Adapter) BulkCreateOrders(ctx context.Context, intents []core.OrderIntent) ([]core.Order, error) {
	plans, err := a.buildPlans(ctx, intents)
	if err != nil {
		return nil, err
	}
	params := make([]OrderParams, len(plans))
	for i, plan := range plans {
		params[i] = planParams(plan)
	}
	chunked, err := batch.Dispatch(ctx, params, batchLimit, a.client.PlaceBatchOrders)
	if err != nil {
		return nil, errors.Wrap(err, "okcoin: batch place orders")
	}
	orders := make([]core.Order, 0, len(plans))
	for _, results := range chunked {
		for _, result := range results {
			orders = append(orders, planOrder(plans[len(orders)], result))
		}
	}
	return orders, nil
}

func (a *Adapter) CancelOrder(ctx context.Context, symbol, orderID string) error {
	return errors.Wrap(a.client.CancelOrder(ctx, symbol, orderID), "okcoin: cancel order")
}

func (a *Adapter) BulkCancelOrders(ctx context.Context, symbol string, orderIDs []string) error {
	_, err := batch.Dispatch(ctx, orderIDs, batchLimit,
		func(ctx context.Context, chunk []string) (struct{}, error) {
			return struct{}{}, a.client.CancelBatchOrders(ctx, symbol, chunk)
		})
	return errors.Wrap(err, "okcoin: batch cancel orders")
}

func (a *Adapter) CancelOpenOrders(ctx context.Context, symbol string) error {
	orders, err := a.OpenOrders(ctx, symbol)
	if err != nil {
		return err
	}
	ids := make([]string, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	return a.BulkCancelOrders(ctx, symbol, ids)
}

func (a *Adapter) OpenOrders(ctx context.Context, symbol string) ([]core.Order, error) {
	infos, err := paginate.All(ctx,
		func(ctx context.Context) ([]OrderInfo, string, error) {
			return a.client.PendingOrders(ctx, symbol, "")
		},
		func(ctx context.Context, cursor string) ([]OrderInfo, string, error) {
			return a.client.PendingOrders(ctx, symbol, cursor)
		})
	if err != nil {
		return nil, errors.Wrap(err, "okcoin: pending orders")
	}
	return toOrders(infos), nil
}

func (a *Adapter) ClosedOrders(ctx context.Context, symbol string) ([]core.Order, error) {
	infos, err := paginate.All(ctx,
		func(ctx context.Context) ([]OrderInfo, string, error) {
			return a.client.OrderHistory(ctx, symbol, "")
		},
		func(ctx context.Context, cursor string) ([]OrderInfo, string, error) {
			return a.client.OrderHistory(ctx, symbol, cursor)
		})
	if err != nil {
		return nil, errors.Wrap(err, "okcoin: order history")
	}
	return toOrders(infos), nil
}

func (a *Adapter) Transfer(ctx context.Context, req core.TransferRequest) error {
	return errors.Wrap(a.client.Transfer(ctx, toTransferParams(req)), "okcoin: transfer")
}

func (a *Adapter) resolve(ctx context.Context, symbol string) (core.PrecisionProfile, decimal.Decimal, error) {
	raw, err := a.client.Instruments(ctx)
	if err != nil {
		return core.PrecisionProfile{}, decimal.Decimal{}, errors.Wrap(err, "okcoin: instruments")
	}
	profile, err := core.ResolvePrecision(toInstruments(raw), symbol)
	if err != nil {
		return core.PrecisionProfile{}, decimal.Decimal{}, err
	}
	ticker, err := a.client.Ticker(ctx, symbol)
	if err != nil {
		return core.PrecisionProfile{}, decimal.Decimal{}, errors.Wrap(err, "okcoin: ticker")
	}
	return profile, dec(ticker.Last), nil
}

func (a *Adapter) buildPlan(ctx context.Context, intent core.OrderIntent) (core.OrderPlan, error) {
	if intent.Stop {
		return core.OrderPlan{}, errors.Wrap(core.ErrUnsupported, "okcoin: stop orders")
	}
	profile, current, err := a.resolve(ctx, intent.Symbol)
	if err != nil {
		return core.OrderPlan{}, err
	}
	return core.BuildMarginOrder(intent, profile, current)
}

func (a *Adapter) buildPlans(ctx context.Context, intents []core.OrderIntent) ([]core.OrderPlan, error) {
	type resolved struct {
		profile core.PrecisionProfile
		current decimal.Decimal
	}
	bySymbol := make(map[string]resolved)
	plans := make([]core.OrderPlan, len(intents))
	for i, intent := range intents {
		if intent.Stop {
			return nil, errors.Wrap(core.ErrUnsupported, "okcoin: stop orders")
		}
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
