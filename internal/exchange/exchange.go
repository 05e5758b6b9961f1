// Package exchange is the unified surface over the supported venues. Each
// venue package adapts its vendor client to the capability interfaces here;
// callers pick capabilities off an Exchange and never touch vendor types.
package exchange

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"u-exchanges/internal/core"
	"u-exchanges/internal/exchange/binance"
	"u-exchanges/internal/exchange/okcoin"
	"u-exchanges/internal/exchange/okx"
)

type Venue string

const (
	Binance Venue = "binance"
	OKCoin  Venue = "okcoin"
	OKExV3  Venue = "okex-v3"
	OKX     Venue = "okx"
)

// MarginCapable covers isolated-margin account state, loans, and the full
// order lifecycle. Borrow and Repay report plain success; vendor rejections
// are logged by the adapter, not returned.
type MarginCapable interface {
	MarginAccounts(ctx context.Context, symbols ...string) ([]core.MarginAccount, error)
	LoanableAmount(ctx context.Context, symbol, asset string) (core.LoanInfo, error)
	Borrow(ctx context.Context, symbol, asset string, amount decimal.Decimal) bool
	Repay(ctx context.Context, symbol, asset string, amount decimal.Decimal) bool
	CreateOrder(ctx context.Context, intent core.OrderIntent) (core.Order, error)
	BulkCreateOrders(ctx context.Context, intents []core.OrderIntent) ([]core.Order, error)
	CancelOrder(ctx context.Context, symbol, orderID string) error
	BulkCancelOrders(ctx context.Context, symbol string, orderIDs []string) error
	CancelOpenOrders(ctx context.Context, symbol string) error
	OpenOrders(ctx context.Context, symbol string) ([]core.Order, error)
	ClosedOrders(ctx context.Context, symbol string) ([]core.Order, error)
}

// FuturesCapable covers perpetual and delivery contract operations.
type FuturesCapable interface {
	Positions(ctx context.Context, symbol string) ([]core.FuturePosition, error)
	SetLeverage(ctx context.Context, symbol string, leverage int) error
	CreateOrder(ctx context.Context, intent core.OrderIntent) (core.Order, error)
	BulkCreateOrders(ctx context.Context, intents []core.OrderIntent) ([]core.Order, error)
	CancelOrder(ctx context.Context, symbol, orderID string) error
	BulkCancelOrders(ctx context.Context, symbol string, orderIDs []string) error
	OpenOrders(ctx context.Context, symbol string) ([]core.Order, error)
}

// TransferCapable moves funds between wallets of the same account.
type TransferCapable interface {
	Transfer(ctx context.Context, req core.TransferRequest) error
}

// Exchange bundles one venue's capabilities. A nil field means the venue
// does not support that capability.
type Exchange struct {
	Venue    Venue
	Margin   MarginCapable
	Futures  FuturesCapable
	Transfer TransferCapable
}

// Deps carries the authenticated vendor clients a venue needs. Only the
// fields the chosen venue uses have to be set.
type Deps struct {
	BinanceMargin  binance.MarginClient
	BinanceFutures binance.FuturesClient
	OKX            okx.Client
	V3             okcoin.Client
	FutureType     core.FutureType
}

// New wires the venue's adapters. OKCoin and OKEx v3 share the same adapter
// over the v3 API; neither exposes futures here.
func New(venue Venue, deps Deps) (*Exchange, error) {
	switch venue {
	case Binance:
		margin := binance.NewMarginAdapter(deps.BinanceMargin)
		ex := &Exchange{Venue: venue, Margin: margin, Transfer: margin}
		if deps.BinanceFutures != nil {
			ex.Futures = binance.NewFuturesAdapter(deps.BinanceFutures, deps.FutureType)
		}
		return ex, nil
	case OKX:
		margin := okx.NewMarginAdapter(deps.OKX)
		return &Exchange{
			Venue:    venue,
			Margin:   margin,
			Futures:  okx.NewFuturesAdapter(deps.OKX),
			Transfer: margin,
		}, nil
	case OKCoin, OKExV3:
		adapter := okcoin.NewAdapter(deps.V3)
		return &Exchange{Venue: venue, Margin: adapter, Transfer: adapter}, nil
	default:
		return nil, errors.Wrapf(core.ErrUnsupported, "exchange: unknown venue %q", venue)
	}
}
