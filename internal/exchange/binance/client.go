// Package binance adapts the Binance isolated-margin and USDT-futures APIs
// to the unified capability surface. The vendor SDK is reached through the
// MarginClient/FuturesClient interfaces; this package never opens a
// connection itself.
package binance

import (
	"context"
	"strconv"
)

// APIError is a vendor rejection, surfaced to callers unmodified except by
// Borrow/Repay which narrow it to a boolean.
type APIError struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func (e APIError) Error() string {
	return "binance api error " + strconv.Itoa(e.Code) + ": " + e.Msg
}

// SymbolInfo is one exchangeInfo row. Precision lives in the filter list.
type SymbolInfo struct {
	Symbol     string         `json:"symbol"`
	BaseAsset  string         `json:"baseAsset"`
	QuoteAsset string         `json:"quoteAsset"`
	Filters    []SymbolFilter `json:"filters"`
}

type SymbolFilter struct {
	FilterType  string `json:"filterType"`
	TickSize    string `json:"tickSize,omitempty"`
	StepSize    string `json:"stepSize,omitempty"`
	MinNotional string `json:"minNotional,omitempty"`
}

type TickerPrice struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

type IsolatedAccountsResponse struct {
	Assets []IsolatedPair `json:"assets"`
}

type IsolatedPair struct {
	Symbol         string        `json:"symbol"`
	BaseAsset      IsolatedAsset `json:"baseAsset"`
	QuoteAsset     IsolatedAsset `json:"quoteAsset"`
	LiquidatePrice string        `json:"liquidatePrice"`
	MarginLevel    string        `json:"marginLevel"`
}

type IsolatedAsset struct {
	Asset      string `json:"asset"`
	Free       string `json:"free"`
	Borrowed   string `json:"borrowed"`
	TotalAsset string `json:"totalAsset"`
}

type MaxBorrowable struct {
	Amount      string `json:"amount"`
	BorrowLimit string `json:"borrowLimit"`
}

type InterestRateRecord struct {
	Asset             string `json:"asset"`
	DailyInterestRate string `json:"dailyInterestRate"`
}

// OrderParams is the vendor-shaped order payload. Empty strings are omitted
// from the request, which is how built plans drop price or time-in-force.
type OrderParams struct {
	Symbol           string `json:"symbol"`
	Side             string `json:"side"`
	Type             string `json:"type"`
	TimeInForce      string `json:"timeInForce,omitempty"`
	Quantity         string `json:"quantity"`
	Price            string `json:"price,omitempty"`
	StopPrice        string `json:"stopPrice,omitempty"`
	SideEffectType   string `json:"sideEffectType,omitempty"`
	PositionSide     string `json:"positionSide,omitempty"`
	NewClientOrderID string `json:"newClientOrderId,omitempty"`
	IsIsolated       bool   `json:"isIsolated,omitempty"`
}

type OrderResult struct {
	Symbol        string `json:"symbol"`
	OrderID       int64  `json:"orderId"`
	ClientOrderID string `json:"clientOrderId"`
	Price         string `json:"price"`
	OrigQty       string `json:"origQty"`
	ExecutedQty   string `json:"executedQty"`
	Status        string `json:"status"`
	Side          string `json:"side"`
	Type          string `json:"type"`
	Time          int64  `json:"time"`
}

type PositionRisk struct {
	Symbol           string `json:"symbol"`
	PositionAmt      string `json:"positionAmt"`
	EntryPrice       string `json:"entryPrice"`
	MarkPrice        string `json:"markPrice"`
	UnRealizedProfit string `json:"unRealizedProfit"`
	LiquidationPrice string `json:"liquidationPrice"`
	Leverage         string `json:"leverage"`
	MarginType       string `json:"marginType"`
	PositionSide     string `json:"positionSide"`
}

type TransferParams struct {
	Asset  string `json:"asset"`
	Amount string `json:"amount"`
	From   string `json:"transFrom"`
	To     string `json:"transTo"`
	Symbol string `json:"symbol,omitempty"`
}

// MarginClient is the call surface the authenticated Binance margin SDK must
// expose. Credentials, signing, timeouts, and retries are its concern.
type MarginClient interface {
	ExchangeInfo(ctx context.Context, symbols ...string) ([]SymbolInfo, error)
	TickerPrice(ctx context.Context, symbol string) (TickerPrice, error)
	IsolatedAccounts(ctx context.Context, symbols ...string) (IsolatedAccountsResponse, error)
	MaxBorrowable(ctx context.Context, asset, isolatedSymbol string) (MaxBorrowable, error)
	InterestRate(ctx context.Context, asset string) (InterestRateRecord, error)
	Borrow(ctx context.Context, asset, isolatedSymbol, amount string) error
	Repay(ctx context.Context, asset, isolatedSymbol, amount string) error
	CreateOrder(ctx context.Context, params OrderParams) (OrderResult, error)
	CancelOrder(ctx context.Context, symbol, orderID string) error
	CancelOpenOrders(ctx context.Context, symbol string) error
	OpenOrders(ctx context.Context, symbol string) ([]OrderResult, error)
	ClosedOrders(ctx context.Context, symbol, cursor string) ([]OrderResult, string, error)
	Transfer(ctx context.Context, params TransferParams) error
}

// FuturesClient is the call surface of the USDT-futures SDK.
type FuturesClient interface {
	ExchangeInfo(ctx context.Context, symbols ...string) ([]SymbolInfo, error)
	TickerPrice(ctx context.Context, symbol string) (TickerPrice, error)
	PositionRisk(ctx context.Context, symbol string) ([]PositionRisk, error)
	SetLeverage(ctx context.Context, symbol string, leverage int) error
	CreateOrder(ctx context.Context, params OrderParams) (OrderResult, error)
	CreateBatchOrders(ctx context.Context, params []OrderParams) ([]OrderResult, error)
	CancelOrder(ctx context.Context, symbol, orderID string) error
	CancelBatchOrders(ctx context.Context, symbol string, orderIDs []string) error
	OpenOrders(ctx context.Context, symbol string) ([]OrderResult, error)
}
