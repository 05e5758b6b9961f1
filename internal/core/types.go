package core

import (
	"time"

	"github.com/shopspring/decimal"
)

type Side string

type OrderType string

type OrderStatus string

type TimeInForce string

type SideEffect string

type PositionKind string

type PositionSide string

type FutureType string

type MarginMode string

type Wallet string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

const (
	Limit           OrderType = "LIMIT"
	Market          OrderType = "MARKET"
	StopLossLimit   OrderType = "STOP_LOSS_LIMIT"
	TakeProfitLimit OrderType = "TAKE_PROFIT_LIMIT"
	Stop            OrderType = "STOP"
	StopMarket      OrderType = "STOP_MARKET"
)

const (
	OrderNew             OrderStatus = "NEW"
	OrderPartiallyFilled OrderStatus = "PARTIALLY_FILLED"
	OrderFilled          OrderStatus = "FILLED"
	OrderCanceled        OrderStatus = "CANCELED"
	OrderRejected        OrderStatus = "REJECTED"
	OrderExpired         OrderStatus = "EXPIRED"
)

const (
	GTC TimeInForce = "GTC"
)

// Side effects are venue instructions attached to isolated-margin orders:
// borrow the shortfall on entry, or repay the open loan from the proceeds.
const (
	SideEffectNone      SideEffect = "NO_SIDE_EFFECT"
	SideEffectMarginBuy SideEffect = "MARGIN_BUY"
	SideEffectAutoRepay SideEffect = "AUTO_REPAY"
)

const (
	KindLong  PositionKind = "long"
	KindShort PositionKind = "short"
)

const (
	PositionLong  PositionSide = "LONG"
	PositionShort PositionSide = "SHORT"
)

// Coin-margined contracts are collateralized in the underlying coin,
// USDT-margined in the stablecoin. Resolved once at intent construction,
// never re-derived from symbol substrings.
const (
	FutureCoin FutureType = "coin"
	FutureUSDT FutureType = "usdt"
)

const (
	MarginCross    MarginMode = "cross"
	MarginIsolated MarginMode = "isolated"
)

const (
	WalletFunding Wallet = "funding"
	WalletSpot    Wallet = "spot"
	WalletMargin  Wallet = "margin"
	WalletFutures Wallet = "futures"
)

// AssetBalance is a snapshot of one asset's funds inside a margin account.
type AssetBalance struct {
	Free     decimal.Decimal
	Borrowed decimal.Decimal
	Total    decimal.Decimal
}

// MarginAccount is one isolated-margin pair. BalanceByAsset is keyed by
// exactly {BaseAsset, QuoteAsset}.
type MarginAccount struct {
	BaseAsset        string
	QuoteAsset       string
	Symbol           string
	BaseBalance      AssetBalance
	QuoteBalance     AssetBalance
	LiquidationPrice decimal.Decimal
	MarginRatio      decimal.Decimal
	BalanceByAsset   map[string]AssetBalance
}

// LoanInfo is the daily interest rate and maximum borrowable amount for one
// asset in one isolated-margin symbol.
type LoanInfo struct {
	Asset     string
	Rate      decimal.Decimal
	Available decimal.Decimal
}

// Balance is a generic wallet or sub-account balance.
type Balance struct {
	Asset     string
	Balance   decimal.Decimal
	Available decimal.Decimal
	Locked    decimal.Decimal
}

type FuturePosition struct {
	Symbol           string
	FutureType       FutureType
	Size             decimal.Decimal
	Entry            decimal.Decimal
	PnL              decimal.Decimal
	LiquidationPrice decimal.Decimal
	Leverage         decimal.Decimal
	MarginMode       MarginMode
	Kind             PositionKind
	MarkPrice        decimal.Decimal
}

// Order is the normalized view of a vendor order response.
type Order struct {
	ID          string
	ClientID    string
	Symbol      string
	Side        Side
	Type        OrderType
	Price       decimal.Decimal
	Qty         decimal.Decimal
	ExecutedQty decimal.Decimal
	Status      OrderStatus
	CreatedAt   time.Time
}

// TransferRequest moves funds between wallets of the same account. Symbol
// names the isolated-margin pair when either side is the margin wallet.
type TransferRequest struct {
	Asset  string
	Amount decimal.Decimal
	From   Wallet
	To     Wallet
	Symbol string
}
