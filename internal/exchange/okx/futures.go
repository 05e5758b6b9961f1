package okx

import (
	"context"
	"strconv"

	"github.com/pkg/errors"

	"u-exchanges/internal/core"
	"u-exchanges/internal/paginate"
)

// FuturesAdapter implements the unified futures operations over perpetual
// swaps. The margining flavor of each position is read off its collateral
// currency, once, during normalization.
type FuturesAdapter struct {
	client Client
}

func NewFuturesAdapter(client Client) *FuturesAdapter {
	return &FuturesAdapter{client: client}
}

func (a *FuturesAdapter) Positions(ctx context.Context, symbol string) ([]core.FuturePosition, error) {
	raw, err := a.client.Positions(ctx, instTypeSwap)
	if err != nil {
		return nil, errors.Wrap(err, "okx: swap positions")
	}
	positions := make([]core.FuturePosition, 0, len(raw))
	for _, p := range raw {
		if symbol != "" && p.InstID != symbol {
			continue
		}
		size := dec(p.Pos)
		if size.IsZero() {
			continue
		}
		kind := core.KindLong
		if p.PosSide == "short" || size.IsNegative() {
			kind = core.KindShort
		}
		positions = append(positions, core.FuturePosition{
			Symbol:           p.InstID,
			FutureType:       futureType(p),
			Size:             size,
			Entry:            dec(p.AvgPx),
			PnL:              dec(p.Upl),
			LiquidationPrice: dec(p.LiqPx),
			Leverage:         dec(p.Lever),
			MarginMode:       core.MarginMode(p.MgnMode),
			Kind:             kind,
			MarkPrice:        dec(p.MarkPx),
		})
	}
	return positions, nil
}

func (a *FuturesAdapter) SetLeverage(ctx context.Context, symbol string, leverage int) error {
	err := a.client.SetLeverage(ctx, symbol, strconv.Itoa(leverage), tdModeIsolated)
	return errors.Wrap(err, "okx: set leverage")
}

func (a *FuturesAdapter) CreateOrder(ctx context.Context, intent core.OrderIntent) (core.Order, error) {
	plan, err := buildPlan(ctx, a.client, instTypeSwap, intent, core.BuildFuturesOrder)
	if err != nil {
		return core.Order{}, err
	}
	detail, err := a.client.PlaceOrder(ctx, planParams(plan))
	if err != nil {
		return core.Order{}, errors.Wrap(err, "okx: place swap order")
	}
	return toOrder(detail), nil
}

func (a *FuturesAdapter) BulkCreateOrders(ctx context.Context, intents []core.OrderIntent) ([]core.Order, error) {
	plans, err := buildPlans(ctx, a.client, instTypeSwap, intents, core.BuildFuturesOrder)
	if err != nil {
		return nil, err
	}
	return dispatchPlans(ctx, a.client, plans)
}

func (a *FuturesAdapter) CancelOrder(ctx context.Context, symbol, orderID string) error {
	err := a.client.CancelOrder(ctx, CancelParams{InstID: symbol, OrdID: orderID})
	return errors.Wrap(err, "okx: cancel swap order")
}

func (a *FuturesAdapter) BulkCancelOrders(ctx context.Context, symbol string, orderIDs []string) error {
	return bulkCancel(ctx, a.client, symbol, orderIDs)
}

func (a *FuturesAdapter) OpenOrders(ctx context.Context, symbol string) ([]core.Order, error) {
	details, err := paginate.All(ctx,
		func(ctx context.Context) ([]OrderDetail, string, error) {
			return a.client.PendingOrders(ctx, instTypeSwap, symbol, "")
		},
		func(ctx context.Context, cursor string) ([]OrderDetail, string, error) {
			return a.client.PendingOrders(ctx, instTypeSwap, symbol, cursor)
		})
	if err != nil {
		return nil, errors.Wrap(err, "okx: pending swap orders")
	}
	return toOrders(details), nil
}
