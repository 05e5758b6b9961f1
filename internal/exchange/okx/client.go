// Package okx adapts the OKX (OKEx v5) unified-account API to the unified
// capability surface. The vendor SDK is reached through the Client
// interface; this package never opens a connection itself.
package okx

import "context"

// APIError is a vendor rejection (sCode/sMsg pair), surfaced unmodified
// except by Borrow/Repay.
type APIError struct {
	Code string `json:"sCode"`
	Msg  string `json:"sMsg"`
}

func (e APIError) Error() string {
	return "okx api error " + e.Code + ": " + e.Msg
}

// Instrument is one /public/instruments row. All numerics arrive as strings.
type Instrument struct {
	InstID   string `json:"instId"`
	TickSz   string `json:"tickSz"`
	LotSz    string `json:"lotSz"`
	MinSz    string `json:"minSz"`
	CtVal    string `json:"ctVal"`
	InstType string `json:"instType"`
}

type Ticker struct {
	InstID string `json:"instId"`
	Last   string `json:"last"`
}

type Position struct {
	InstID   string `json:"instId"`
	InstType string `json:"instType"`
	MgnMode  string `json:"mgnMode"`
	PosSide  string `json:"posSide"`
	Pos      string `json:"pos"`
	AvgPx    string `json:"avgPx"`
	Upl      string `json:"upl"`
	LiqPx    string `json:"liqPx"`
	Lever    string `json:"lever"`
	MarkPx   string `json:"markPx"`
	MgnRatio string `json:"mgnRatio"`
	Ccy      string `json:"ccy"`
	Liab     string `json:"liab"`
	LiabCcy  string `json:"liabCcy"`
	AvailPos string `json:"availPos"`
}

type MaxLoan struct {
	InstID  string `json:"instId"`
	Ccy     string `json:"ccy"`
	MaxLoan string `json:"maxLoan"`
}

type InterestRate struct {
	Ccy          string `json:"ccy"`
	InterestRate string `json:"interestRate"`
}

type BalanceDetail struct {
	Ccy       string `json:"ccy"`
	CashBal   string `json:"cashBal"`
	AvailBal  string `json:"availBal"`
	FrozenBal string `json:"frozenBal"`
}

// OrderParams is the vendor-shaped order payload. Empty strings are omitted
// from the request.
type OrderParams struct {
	InstID    string `json:"instId"`
	TdMode    string `json:"tdMode"`
	Side      string `json:"side"`
	PosSide   string `json:"posSide,omitempty"`
	OrdType   string `json:"ordType"`
	Sz        string `json:"sz"`
	Px        string `json:"px,omitempty"`
	TriggerPx string `json:"triggerPx,omitempty"`
	ClOrdID   string `json:"clOrdId,omitempty"`
}

type OrderDetail struct {
	InstID    string `json:"instId"`
	OrdID     string `json:"ordId"`
	ClOrdID   string `json:"clOrdId"`
	Px        string `json:"px"`
	Sz        string `json:"sz"`
	AccFillSz string `json:"accFillSz"`
	State     string `json:"state"`
	Side      string `json:"side"`
	OrdType   string `json:"ordType"`
	CTime     string `json:"cTime"`
}

type CancelParams struct {
	InstID string `json:"instId"`
	OrdID  string `json:"ordId"`
}

type TransferParams struct {
	Ccy    string `json:"ccy"`
	Amt    string `json:"amt"`
	From   string `json:"from"`
	To     string `json:"to"`
	InstID string `json:"instId,omitempty"`
}

// Client is the call surface the authenticated OKX SDK must expose.
// Credentials (key/secret/passphrase), signing, and transport are its
// concern. Listing calls take and return the vendor's opaque "after" cursor.
type Client interface {
	Instruments(ctx context.Context, instType string) ([]Instrument, error)
	Ticker(ctx context.Context, instID string) (Ticker, error)
	Positions(ctx context.Context, instType string) ([]Position, error)
	Balances(ctx context.Context, currencies ...string) ([]BalanceDetail, error)
	MaxLoan(ctx context.Context, instID, mgnMode, ccy string) (MaxLoan, error)
	InterestRate(ctx context.Context, ccy string) (InterestRate, error)
	Borrow(ctx context.Context, ccy, amount, instID string) error
	Repay(ctx context.Context, ccy, amount, instID string) error
	PlaceOrder(ctx context.Context, params OrderParams) (OrderDetail, error)
	PlaceBatchOrders(ctx context.Context, params []OrderParams) ([]OrderDetail, error)
	CancelOrder(ctx context.Context, params CancelParams) error
	CancelBatchOrders(ctx context.Context, params []CancelParams) error
	PendingOrders(ctx context.Context, instType, instID, cursor string) ([]OrderDetail, string, error)
	OrderHistory(ctx context.Context, instType, instID, cursor string) ([]OrderDetail, string, error)
	SetLeverage(ctx context.Context, instID, lever, mgnMode string) error
	Transfer(ctx context.Context, params TransferParams) error
}
