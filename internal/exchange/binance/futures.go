package binance

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"u-exchanges/internal/batch"
	"u-exchanges/internal/core"
)

// The futures batch endpoint accepts at most five orders per request.
const futuresBatchLimit = 5

// FuturesAdapter implements the unified futures operations over a
// FuturesClient. One adapter serves one margining flavor; the future type is
// fixed at construction, not re-derived from symbol strings.
type FuturesAdapter struct {
	client     FuturesClient
	futureType core.FutureType
}

func NewFuturesAdapter(client FuturesClient, futureType core.FutureType) *FuturesAdapter {
	return &FuturesAdapter{client: client, futureType: futureType}
}

func (a *FuturesAdapter) Positions(ctx context.Context, symbol string) ([]core.FuturePosition, error) {
	raw, err := a.client.PositionRisk(ctx, symbol)
	if err != nil {
		return nil, errors.Wrap(err, "binance: position risk")
	}
	positions := make([]core.FuturePosition, 0, len(raw))
	for _, p := range raw {
		size := dec(p.PositionAmt)
		if size.IsZero() {
			continue
		}
		positions = append(positions, core.FuturePosition{
			Symbol:           p.Symbol,
			FutureType:       a.futureType,
			Size:             size,
			Entry:            dec(p.EntryPrice),
			PnL:              dec(p.UnRealizedProfit),
			LiquidationPrice: dec(p.LiquidationPrice),
			Leverage:         dec(p.Leverage),
			MarginMode:       core.MarginMode(p.MarginType),
			Kind:             positionKind(p, size),
			MarkPrice:        dec(p.MarkPrice),
		})
	}
	return positions, nil
}

func positionKind(p PositionRisk, size decimal.Decimal) core.PositionKind {
	switch core.PositionSide(p.PositionSide) {
	case core.PositionLong:
		return core.KindLong
	case core.PositionShort:
		return core.KindShort
	}
	// one-way mode reports BOTH; the sign of the size decides
	if size.IsNegative() {
		return core.KindShort
	}
	return core.KindLong
}

func (a *FuturesAdapter) SetLeverage(ctx context.Context, symbol string, leverage int) error {
	return errors.Wrap(a.client.SetLeverage(ctx, symbol, leverage), "binance: set leverage")
}

func (a *FuturesAdapter) CreateOrder(ctx context.Context, intent core.OrderIntent) (core.Order, error) {
	plan, err := a.buildPlan(ctx, intent)
	if err != nil {
		return core.Order{}, err
	}
	result, err := a.client.CreateOrder(ctx, planParams(plan, false))
	if err != nil {
		return core.Order{}, errors.Wrap(err, "binance: create futures order")
	}
	return toOrder(result), nil
}

// BulkCreateOrders builds all plans against profiles resolved at call start,
// then submits them through the batch endpoint in chunks of five. Results
// preserve intent order regardless of which chunk completes first.
func (a *FuturesAdapter) BulkCreateOrders(ctx context.Context, intents []core.OrderIntent) ([]core.Order, error) {
	plans, err := a.buildPlans(ctx, intents)
	if err != nil {
		return nil, err
	}
	params := make([]OrderParams, len(plans))
	for i, plan := range plans {
		params[i] = planParams(plan, false)
	}
	chunked, err := batch.Dispatch(ctx, params, futuresBatchLimit, a.client.CreateBatchOrders)
	if err != nil {
		return nil, errors.Wrap(err, "binance: bulk create futures orders")
	}
	var orders []core.Order
	for _, results := range chunked {
		orders = append(orders, toOrders(results)...)
	}
	return orders, nil
}

func (a *FuturesAdapter) CancelOrder(ctx context.Context, symbol, orderID string) error {
	return errors.Wrap(a.client.CancelOrder(ctx, symbol, orderID), "binance: cancel futures order")
}

// BulkCancelOrders follows the identical chunk contract as creation.
func (a *FuturesAdapter) BulkCancelOrders(ctx context.Context, symbol string, orderIDs []string) error {
	_, err := batch.Dispatch(ctx, orderIDs, futuresBatchLimit,
		func(ctx context.Context, chunk []string) (struct{}, error) {
			return struct{}{}, a.client.CancelBatchOrders(ctx, symbol, chunk)
		})
	return errors.Wrap(err, "binance: bulk cancel futures orders")
}

func (a *FuturesAdapter) OpenOrders(ctx context.Context, symbol string) ([]core.Order, error) {
	results, err := a.client.OpenOrders(ctx, symbol)
	if err != nil {
		return nil, errors.Wrap(err, "binance: open futures orders")
	}
	return toOrders(results), nil
}

func (a *FuturesAdapter) resolve(ctx context.Context, symbol string) (core.PrecisionProfile, decimal.Decimal, error) {
	symbols, err := a.client.ExchangeInfo(ctx, symbol)
	if err != nil {
		return core.PrecisionProfile{}, decimal.Decimal{}, errors.Wrap(err, "binance: futures exchange info")
	}
	profile, err := core.ResolvePrecision(toInstruments(symbols), symbol)
	if err != nil {
		return core.PrecisionProfile{}, decimal.Decimal{}, err
	}
	ticker, err := a.client.TickerPrice(ctx, symbol)
	if err != nil {
		return core.PrecisionProfile{}, decimal.Decimal{}, errors.Wrap(err, "binance: futures ticker price")
	}
	return profile, dec(ticker.Price), nil
}

func (a *FuturesAdapter) buildPlan(ctx context.Context, intent core.OrderIntent) (core.OrderPlan, error) {
	intent.FutureType = a.futureType
	profile, current, err := a.resolve(ctx, intent.Symbol)
	if err != nil {
		return core.OrderPlan{}, err
	}
	return core.BuildFuturesOrder(intent, profile, current)
}

func (a *FuturesAdapter) buildPlans(ctx context.Context, intents []core.OrderIntent) ([]core.OrderPlan, error) {
	type resolved struct {
		profile core.PrecisionProfile
		current decimal.Decimal
	}
	bySymbol := make(map[string]resolved)
	plans := make([]core.OrderPlan, len(intents))
	for i, intent := range intents {
		intent.FutureType = a.futureType
		r, ok := bySymbol[intent.Symbol]
		if !ok {
			profile, current, err := a.resolve(ctx, intent.Symbol)
			if err != nil {
				return nil, err
			}
			r = resolved{profile: profile, current: current}
			bySymbol[intent.Symbol] = r
		}
		plan, err := core.BuildFuturesOrder(intent, r.profile, r.current)
		if err != nil {
			return nil, err
		}
		plans[i] = plan
	}
	return plans, nil
}
