package binance

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"u-exchanges/internal/core"
)

// fakeMarginClient serves canned vendor payloads and records the requests the
// adapter makes. Bulk operations run concurrently, so recording is locked.
type fakeMarginClient struct {
	mu          sync.Mutex
	infoCalls   int
	created     []OrderParams
	canceled    []string
	cursorsSeen []string
	borrowErr   error
	accounts    IsolatedAccountsResponse
	closedPages []closedPage
	price       string
}

type closedPage struct {
	results []OrderResult
	next    string
}

func newFakeMarginClient() *fakeMarginClient {
	return &fakeMarginClient{price: "50000"}
}

func (f *fakeMarginClient) ExchangeInfo(ctx context.Context, symbols ...string) ([]SymbolInfo, error) {
	f.mu.Lock()
	f.infoCalls++
	f.mu.Unlock()
	return []SymbolInfo{{
		Symbol:     "BTCUSDT",
		BaseAsset:  "BTC",
		QuoteAsset: "USDT",
		Filters: []SymbolFilter{
			{FilterType: "PRICE_FILTER", TickSize: "0.01"},
			{FilterType: "LOT_SIZE", StepSize: "0.001"},
			{FilterType: "MIN_NOTIONAL", MinNotional: "10"},
		},
	}}, nil
}

func (f *fakeMarginClient) TickerPrice(ctx context.Context, symbol string) (TickerPrice, error) {
	return TickerPrice{Symbol: symbol, Price: f.price}, nil
}

func (f *fakeMarginClient) IsolatedAccounts(ctx context.Context, symbols ...string) (IsolatedAccountsResponse, error) {
	return f.accounts, nil
}

func (f *fakeMarginClient) MaxBorrowable(ctx context.Context, asset, isolatedSymbol string) (MaxBorrowable, error) {
	return MaxBorrowable{Amount: "250.5"}, nil
}

func (f *fakeMarginClient) InterestRate(ctx context.Context, asset string) (InterestRateRecord, error) {
	return InterestRateRecord{Asset: asset, DailyInterestRate: "0.0002"}, nil
}

func (f *fakeMarginClient) Borrow(ctx context.Context, asset, isolatedSymbol, amount string) error {
	return f.borrowErr
}

func (f *fakeMarginClient) Repay(ctx context.Context, asset, isolatedSymbol, amount string) error {
	return f.borrowErr
}

func (f *fakeMarginClient) CreateOrder(ctx context.Context, params OrderParams) (OrderResult, error) {
	f.mu.Lock()
	f.created = append(f.created, params)
	id := int64(len(f.created))
	f.mu.Unlock()
	return OrderResult{
		Symbol:        params.Symbol,
		OrderID:       id,
		ClientOrderID: params.NewClientOrderID,
		Price:         params.Price,
		OrigQty:       params.Quantity,
		Status:        "NEW",
		Side:          params.Side,
		Type:          params.Type,
	}, nil
}

func (f *fakeMarginClient) CancelOrder(ctx context.Context, symbol, orderID string) error {
	f.mu.Lock()
	f.canceled = append(f.canceled, orderID)
	f.mu.Unlock()
	return nil
}

func (f *fakeMarginClient) CancelOpenOrders(ctx context.Context, symbol string) error {
	return nil
}

func (f *fakeMarginClient) OpenOrders(ctx context.Context, symbol string) ([]OrderResult, error) {
	return nil, nil
}

func (f *fakeMarginClient) ClosedOrders(ctx context.Context, symbol, cursor string) ([]OrderResult, string, error) {
	f.cursorsSeen = append(f.cursorsSeen, cursor)
	for i, page := range f.closedPages {
		if (cursor == "" && i == 0) || (i > 0 && f.closedPages[i-1].next == cursor) {
			return page.results, page.next, nil
		}
	}
	return nil, "", nil
}

func (f *fakeMarginClient) Transfer(ctx context.Context, params TransferParams) error {
	return nil
}

func TestMarginAccountsMapping(t *testing.T) {
	client := newFakeMarginClient()
	client.accounts = IsolatedAccountsResponse{Assets: []IsolatedPair{{
		Symbol:         "BTCUSDT",
		BaseAsset:      IsolatedAsset{Asset: "BTC", Free: "0.5", Borrowed: "0.1", TotalAsset: "0.6"},
		QuoteAsset:     IsolatedAsset{Asset: "USDT", Free: "1000", Borrowed: "0", TotalAsset: "1000"},
		LiquidatePrice: "31000.5",
		MarginLevel:    "2.7",
	}}}
	adapter := NewMarginAdapter(client)

	accounts, err := adapter.MarginAccounts(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	require.Len(t, accounts, 1)

	acc := accounts[0]
	require.Equal(t, "BTC", acc.BaseAsset)
	require.Equal(t, "USDT", acc.QuoteAsset)
	require.True(t, acc.BaseBalance.Borrowed.Equal(decimal.RequireFromString("0.1")))
	require.True(t, acc.LiquidationPrice.Equal(decimal.RequireFromString("31000.5")))

	// keyed by exactly the two legs
	require.Len(t, acc.BalanceByAsset, 2)
	require.Contains(t, acc.BalanceByAsset, "BTC")
	require.Contains(t, acc.BalanceByAsset, "USDT")
	require.True(t, acc.BalanceByAsset["BTC"].Free.Equal(acc.BaseBalance.Free))
}

func TestBorrowNarrowsVendorError(t *testing.T) {
	client := newFakeMarginClient()
	adapter := NewMarginAdapter(client)

	client.borrowErr = APIError{Code: -3045, Msg: "the system does not have enough asset"}
	require.False(t, adapter.Borrow(context.Background(), "BTCUSDT", "USDT", decimal.NewFromInt(100)))
	require.False(t, adapter.Repay(context.Background(), "BTCUSDT", "USDT", decimal.NewFromInt(100)))

	client.borrowErr = nil
	require.True(t, adapter.Borrow(context.Background(), "BTCUSDT", "USDT", decimal.NewFromInt(100)))
}

func TestCreateOrderShapesVendorParams(t *testing.T) {
	client := newFakeMarginClient()
	adapter := NewMarginAdapter(client)

	order, err := adapter.CreateOrder(context.Background(), core.OrderIntent{
		Symbol:   "BTCUSDT",
		Side:     core.Buy,
		Quantity: decimal.RequireFromString("0.5"),
		Price:    decimal.RequireFromString("50000.555"),
	})
	require.NoError(t, err)
	require.Len(t, client.created, 1)

	params := client.created[0]
	require.Equal(t, "LIMIT", params.Type)
	require.Equal(t, "GTC", params.TimeInForce)
	require.Equal(t, "MARGIN_BUY", params.SideEffectType)
	require.Equal(t, "50000.55", params.Price) // truncated, not rounded
	require.Equal(t, "0.5", params.Quantity)
	require.True(t, params.IsIsolated)
	require.True(t, strings.HasPrefix(params.NewClientOrderID, "uex-"))
	require.Equal(t, params.NewClientOrderID, order.ClientID)
}

func TestBulkCreateOrdersFansOutSingles(t *testing.T) {
	client := newFakeMarginClient()
	adapter := NewMarginAdapter(client)

	intents := make([]core.OrderIntent, 4)
	for i := range intents {
		intents[i] = core.OrderIntent{
			Symbol:   "BTCUSDT",
			Side:     core.Buy,
			Quantity: decimal.RequireFromString("0.5"),
			Price:    decimal.NewFromInt(50000),
			ClientID: "bulk-" + strconv.Itoa(i),
		}
	}
	orders, err := adapter.BulkCreateOrders(context.Background(), intents)
	require.NoError(t, err)
	require.Len(t, orders, 4)
	require.Len(t, client.created, 4)

	// one metadata fetch per distinct symbol, not per intent
	require.Equal(t, 1, client.infoCalls)

	// results come back in intent order even though submissions ran
	// concurrently
	for i, o := range orders {
		require.Equal(t, "bulk-"+strconv.Itoa(i), o.ClientID)
	}
}

func TestClosedOrdersWalksAllPages(t *testing.T) {
	client := newFakeMarginClient()
	client.closedPages = []closedPage{
		{results: []OrderResult{{OrderID: 1, Status: "FILLED"}, {OrderID: 2, Status: "FILLED"}}, next: "c1"},
		{results: []OrderResult{{OrderID: 3, Status: "CANCELED"}}, next: ""},
	}
	adapter := NewMarginAdapter(client)

	orders, err := adapter.ClosedOrders(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	require.Len(t, orders, 3)
	require.Equal(t, []string{"", "c1"}, client.cursorsSeen)
	require.Equal(t, "1", orders[0].ID)
	require.Equal(t, "3", orders[2].ID)
	require.Equal(t, core.OrderCanceled, orders[2].Status)
}

func TestBulkCancelOrdersHitsEveryID(t *testing.T) {
	client := newFakeMarginClient()
	adapter := NewMarginAdapter(client)

	ids := []string{"1", "2", "3"}
	require.NoError(t, adapter.BulkCancelOrders(context.Background(), "BTCUSDT", ids))
	require.ElementsMatch(t, ids, client.canceled)
}
