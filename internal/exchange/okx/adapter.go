package okx

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"u-exchanges/internal/batch"
	"u-exchanges/internal/core"
	"u-exchanges/internal/paginate"
)

var log = logrus.WithField("venue", "okx")

// The spot/swap batch endpoints accept at most ten orders per request.
const batchLimit = 10

// MarginAdapter implements the unified margin, order, and transfer
// operations over the v5 Client. Precision is resolved fresh per
// order-affecting call and passed by value.
type MarginAdapter struct {
	client Client
}

func NewMarginAdapter(client Client) *MarginAdapter {
	return &MarginAdapter{client: client}
}

func (a *MarginAdapter) MarginAccounts(ctx context.Context, symbols ...string) ([]core.MarginAccount, error) {
	positions, err := a.client.Positions(ctx, instTypeMargin)
	if err != nil {
		return nil, errors.Wrap(err, "okx: margin positions")
	}
	wanted := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		wanted[s] = true
	}
	accounts := make([]core.MarginAccount, 0, len(positions))
	for _, p := range positions {
		if len(wanted) > 0 && !wanted[p.InstID] {
			continue
		}
		accounts = append(accounts, toMarginAccount(p))
	}
	return accounts, nil
}

func (a *MarginAdapter) LoanableAmount(ctx context.Context, symbol, asset string) (core.LoanInfo, error) {
	loan, err := a.client.MaxLoan(ctx, symbol, tdModeIsolated, asset)
	if err != nil {
		return core.LoanInfo{}, errors.Wrap(err, "okx: max loan")
	}
	rate, err := a.client.InterestRate(ctx, asset)
	if err != nil {
		return core.LoanInfo{}, errors.Wrap(err, "okx: interest rate")
	}
	return core.LoanInfo{
		Asset:     asset,
		Rate:      dec(rate.InterestRate),
		Available: dec(loan.MaxLoan),
	}, nil
}

func (a *MarginAdapter) Borrow(ctx context.Context, symbol, asset string, amount decimal.Decimal) bool {
	if err := a.client.Borrow(ctx, asset, amount.String(), symbol); err != nil {
		log.WithError(err).WithField("symbol", symbol).Warn("borrow rejected")
		return false
	}
	return true
}

func (a *MarginAdapter) Repay(ctx context.Context, symbol, asset string, amount decimal.Decimal) bool {
	if err := a.client.Repay(ctx, asset, amount.String(), symbol); err != nil {
		log.WithError(err).WithField("symbol", symbol).Warn("repay rejected")
		return false
	}
	return true
}

func (a *MarginAdapter) CreateOrder(ctx context.Context, intent core.OrderIntent) (core.Order, error) {
	plan, err := buildPlan(ctx, a.client, instTypeMargin, intent, core.BuildMarginOrder)
	if err != nil {
		return core.Order{}, err
	}
	detail, err := a.client.PlaceOrder(ctx, planParams(plan))
	if err != nil {
		return core.Order{}, errors.Wrap(err, "okx: place order")
	}
	return toOrder(detail), nil
}

// BulkCreateOrders builds every plan first, then submits batches of ten
// concurrently. Results preserve intent order.
func (a *MarginAdapter) BulkCreateOrders(ctx context.Context, intents []core.OrderIntent) ([]core.Order, error) {
	plans, err := buildPlans(ctx, a.client, instTypeMargin, intents, core.BuildMarginOrder)
	if err != nil {
		return nil, err
	}
	return dispatchPlans(ctx, a.client, plans)
}

func (a *MarginAdapter) CancelOrder(ctx context.Context, symbol, orderID string) error {
	err := a.client.CancelOrder(ctx, CancelParams{InstID: symbol, OrdID: orderID})
	return errors.Wrap(err, "okx: cancel order")
}

func (a *MarginAdapter) BulkCancelOrders(ctx context.Context, symbol string, orderIDs []string) error {
	return bulkCancel(ctx, a.client, symbol, orderIDs)
}

func (a *MarginAdapter) CancelOpenOrders(ctx context.Context, symbol string) error {
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

func (a *MarginAdapter) OpenOrders(ctx context.Context, symbol string) ([]core.Order, error) {
	details, err := paginate.All(ctx,
		func(ctx context.Context) ([]OrderDetail, string, error) {
			return a.client.PendingOrders(ctx, instTypeMargin, symbol, "")
		},
		func(ctx context.Context, cursor string) ([]OrderDetail, string, error) {
			return a.client.PendingOrders(ctx, instTypeMargin, symbol, cursor)
		})
	if err != nil {
		return nil, errors.Wrap(err, "okx: pending orders")
	}
	return toOrders(details), nil
}

func (a *MarginAdapter) ClosedOrders(ctx context.Context, symbol string) ([]core.Order, error) {
	details, err := paginate.All(ctx,
		func(ctx context.Context) ([]OrderDetail, string, error) {
			return a.client.OrderHistory(ctx, instTypeMargin, symbol, "")
		},
		func(ctx context.Context, cursor string) ([]OrderDetail, string, error) {
			return a.client.OrderHistory(ctx, instTypeMargin, symbol, cursor)
		})
	if err != nil {
		return nil, errors.Wrap(err, "okx: order history")
	}
	return toOrders(details), nil
}

func (a *MarginAdapter) Transfer(ctx context.Context, req core.TransferRequest) error {
	return errors.Wrap(a.client.Transfer(ctx, toTransferParams(req)), "okx: transfer")
}

type buildFunc func(core.OrderIntent, core.PrecisionProfile, decimal.Decimal) (core.OrderPlan, error)

// resolve fetches the instrument table for the type and the current price,
// then derives the symbol's profile.
func resolve(ctx context.Context, client Client, instType, symbol string) (core.PrecisionProfile, decimal.Decimal, error) {
	raw, err := client.Instruments(ctx, instType)
	if err != nil {
		return core.PrecisionProfile{}, decimal.Decimal{}, errors.Wrap(err, "okx: instruments")
	}
	profile, err := core.ResolvePrecision(toInstruments(raw), symbol)
	if err != nil {
		return core.PrecisionProfile{}, decimal.Decimal{}, err
	}
	ticker, err := client.Ticker(ctx, symbol)
	if err != nil {
		return core.PrecisionProfile{}, decimal.Decimal{}, errors.Wrap(err, "okx: ticker")
	}
	return profile, dec(ticker.Last), nil
}

func buildPlan(ctx context.Context, client Client, instType string, intent core.OrderIntent, build buildFunc) (core.OrderPlan, error) {
	profile, current, err := resolve(ctx, client, instType, intent.Symbol)
	if err != nil {
		return core.OrderPlan{}, err
	}
	return build(intent, profile, current)
}

func buildPlans(ctx context.Context, client Client, instType string, intents []core.OrderIntent, build buildFunc) ([]core.OrderPlan, error) {
	type resolved struct {
		profile core.PrecisionProfile
		current decimal.Decimal
	}
	bySymbol := make(map[string]resolved)
	plans := make([]core.OrderPlan, len(intents))
	for i, intent := range intents {
		r, ok := bySymbol[intent.Symbol]
		if !ok {
			profile, current, err := resolve(ctx, client, instType, intent.Symbol)
			if err != nil {
				return nil, err
			}
			r = resolved{profile: profile, current: current}
			bySymbol[intent.Symbol] = r
		}
		plan, err := build(intent, r.profile, r.current)
		if err != nil {
			return nil, err
		}
		plans[i] = plan
	}
	return plans, nil
}

func dispatchPlans(ctx context.Context, client Client, plans []core.OrderPlan) ([]core.Order, error) {
	params := make([]OrderParams, len(plans))
	for i, plan := range plans {
		params[i] = planParams(plan)
	}
	chunked, err := batch.Dispatch(ctx, params, batchLimit, client.PlaceBatchOrders)
	if err != nil {
		return nil, errors.Wrap(err, "okx: batch place orders")
	}
	var orders []core.Order
	for _, details := range chunked {
		orders = append(orders, toOrders(details)...)
	}
	return orders, nil
}

func bulkCancel(ctx context.Context, client Client, symbol string, orderIDs []string) error {
	cancels := make([]CancelParams, len(orderIDs))
	for i, id := range orderIDs {
		cancels[i] = CancelParams{InstID: symbol, OrdID: id}
	}
	_, err := batch.Dispatch(ctx, cancels, batchLimit,
		func(ctx context.Context, chunk []CancelParams) (struct{}, error) {
			return struct{}{}, client.CancelBatchOrders(ctx, chunk)
		})
	return errors.Wrap(err, "okx: batch cancel orders")
}
