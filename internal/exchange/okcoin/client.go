// Package okcoin adapts the v3 margin/spot API shared by OKCoin and OKEx v3
// to the unified capability surface. Both venues run the same API; only the
// externally supplied client handle differs. The v3 API has no futures
// capability here.
package okcoin

import "context"

// APIError is a vendor rejection, surfaced unmodified except by
// Borrow/Repay.
type APIError struct {
	Code int    `json:"code"`
	Msg  string `json:"message"`
}

func (e APIError) Error() string {
	return "okcoin api error: " + e.Msg
}

// Instrument is one /spot/v3/instruments row.
type Instrument struct {
	InstrumentID  string `json:"instrument_id"`
	BaseCurrency  string `json:"base_currency"`
	QuoteCurrency string `json:"quote_currency"`
	TickSize      string `json:"tick_size"`
	SizeIncrement string `json:"size_increment"`
	MinSize       string `json:"min_size"`
}

type Ticker struct {
	InstrumentID string `json:"instrument_id"`
	Last         string `json:"last"`
}

// MarginAccount is one /margin/v3/accounts row, with the per-currency legs
// already keyed by asset.
type MarginAccount struct {
	InstrumentID     string                     `json:"instrument_id"`
	LiquidationPrice string                     `json:"liquidation_price"`
	MarginRatio      string                     `json:"margin_ratio"`
	Currencies       map[string]CurrencyBalance `json:"currencies"`
}

type CurrencyBalance struct {
	Available string `json:"available"`
	Borrowed  string `json:"borrowed"`
	Balance   string `json:"balance"`
}

// CurrencyAvailability is one leg of /margin/v3/accounts/availability.
type CurrencyAvailability struct {
	Currency  string `json:"currency"`
	Available string `json:"available"`
	Rate      string `json:"rate"`
}

type OrderParams struct {
	InstrumentID  string `json:"instrument_id"`
	ClientOID     string `json:"client_oid,omitempty"`
	Type          string `json:"type"`
	Side          string `json:"side"`
	Price         string `json:"price,omitempty"`
	Size          string `json:"size"`
	MarginTrading string `json:"margin_trading"`
}

type OrderResult struct {
	OrderID   string `json:"order_id"`
	ClientOID string `json:"client_oid"`
	Result    bool   `json:"result"`
}

type OrderInfo struct {
	OrderID      string `json:"order_id"`
	ClientOID    string `json:"client_oid"`
	InstrumentID string `json:"instrument_id"`
	Price        string `json:"price"`
	Size         string `json:"size"`
	FilledSize   string `json:"filled_size"`
	Side         string `json:"side"`
	Type         string `json:"type"`
	State        string `json:"state"`
	Timestamp    string `json:"timestamp"`
}

type TransferParams struct {
	Currency     string `json:"currency"`
	Amount       string `json:"amount"`
	From         string `json:"from"`
	To           string `json:"to"`
	InstrumentID string `json:"instrument_id,omitempty"`
}

// Client is the call surface the authenticated v3 SDK must expose.
// Credentials (key/secret/passphrase) and transport are its concern.
// Listing calls take and return the vendor's opaque "after" cursor.
type Client interface {
	Instruments(ctx context.Context) ([]Instrument, error)
	Ticker(ctx context.Context, instrumentID string) (Ticker, error)
	MarginAccounts(ctx context.Context) ([]MarginAccount, error)
	Availability(ctx context.Context, instrumentID string) ([]CurrencyAvailability, error)
	Borrow(ctx context.Context, instrumentID, currency, amount string) error
	Repay(ctx context.Context, instrumentID, currency, amount string) error
	PlaceOrder(ctx context.Context, params OrderParams) (OrderResult, error)
	PlaceBatchOrders(ctx context.Context, params []OrderParams) ([]OrderResult, error)
	CancelOrder(ctx context.Context, instrumentID, orderID string) error
	CancelBatchOrders(ctx context.Context, instrumentID string, orderIDs []string) error
	PendingOrders(ctx context.Context, instrumentID, cursor string) ([]OrderInfo, string, error)
	OrderHistory(ctx context.Context, instrumentID, cursor string) ([]OrderInfo, string, error)
	Transfer(ctx context.Context, params TransferParams) error
}
