package okx

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"u-exchanges/internal/core"
)

type fakeClient struct {
	mu          sync.Mutex
	batchSizes  []int
	cancelCalls [][]CancelParams
	cursorsSeen []string
	positions   []Position
	borrowErr   error
	lastPlace   OrderParams
	leverCall   [3]string
	pending     []pendingPage
}

type pendingPage struct {
	details []OrderDetail
	next    string
}

func (f *fakeClient) Instruments(ctx context.Context, instType string) ([]Instrument, error) {
	return []Instrument{
		{InstID: "BTC-USDT", TickSz: "0.1", LotSz: "0.00000001", MinSz: "0.00001", InstType: "MARGIN"},
		{InstID: "BTC-USDT-SWAP", TickSz: "0.1", LotSz: "1", MinSz: "1", CtVal: "0.01", InstType: "SWAP"},
	}, nil
}

func (f *fakeClient) Ticker(ctx context.Context, instID string) (Ticker, error) {
	return Ticker{InstID: instID, Last: "50000"}, nil
}

func (f *fakeClient) Positions(ctx context.Context, instType string) ([]Position, error) {
	return f.positions, nil
}

func (f *fakeClient) Balances(ctx context.Context, currencies ...string) ([]BalanceDetail, error) {
	return nil, nil
}

func (f *fakeClient) MaxLoan(ctx context.Context, instID, mgnMode, ccy string) (MaxLoan, error) {
	return MaxLoan{InstID: instID, Ccy: ccy, MaxLoan: "120000"}, nil
}

func (f *fakeClient) InterestRate(ctx context.Context, ccy string) (InterestRate, error) {
	return InterestRate{Ccy: ccy, InterestRate: "0.00009"}, nil
}

func (f *fakeClient) Borrow(ctx context.Context, ccy, amount, instID string) error {
	return f.borrowErr
}

func (f *fakeClient) Repay(ctx context.Context, ccy, amount, instID string) error {
	return f.borrowErr
}

func (f *fakeClient) PlaceOrder(ctx context.Context, params OrderParams) (OrderDetail, error) {
	f.lastPlace = params
	return OrderDetail{
		InstID:  params.InstID,
		OrdID:   "1",
		ClOrdID: params.ClOrdID,
		Px:      params.Px,
		Sz:      params.Sz,
		State:   "live",
		Side:    params.Side,
		OrdType: params.OrdType,
	}, nil
}

func (f *fakeClient) PlaceBatchOrders(ctx context.Context, params []OrderParams) ([]OrderDetail, error) {
	f.mu.Lock()
	f.batchSizes = append(f.batchSizes, len(params))
	f.mu.Unlock()
	details := make([]OrderDetail, len(params))
	for i, p := range params {
		details[i] = OrderDetail{InstID: p.InstID, ClOrdID: p.ClOrdID, Sz: p.Sz, State: "live", OrdType: p.OrdType}
	}
	return details, nil
}

func (f *fakeClient) CancelOrder(ctx context.Context, params CancelParams) error {
	return nil
}

func (f *fakeClient) CancelBatchOrders(ctx context.Context, params []CancelParams) error {
	f.mu.Lock()
	f.cancelCalls = append(f.cancelCalls, params)
	f.mu.Unlock()
	return nil
}

func (f *fakeClient) PendingOrders(ctx context.Context, instType, instID, cursor string) ([]OrderDetail, string, error) {
	f.cursorsSeen = append(f.cursorsSeen, cursor)
	for i, page := range f.pending {
		if (cursor == "" && i == 0) || (i > 0 && f.pending[i-1].next == cursor) {
			return page.details, page.next, nil
		}
	}
	return nil, "", nil
}

func (f *fakeClient) OrderHistory(ctx context.Context, instType, instID, cursor string) ([]OrderDetail, string, error) {
	return f.PendingOrders(ctx, instType, instID, cursor)
}

func (f *fakeClient) SetLeverage(ctx context.Context, instID, lever, mgnMode string) error {
	f.leverCall = [3]string{instID, lever, mgnMode}
	return nil
}

func (f *fakeClient) Transfer(ctx context.Context, params TransferParams) error {
	return nil
}

func TestMarginAccountsFromPositions(t *testing.T) {
	client := &fakeClient{positions: []Position{{
		InstID:   "BTC-USDT",
		InstType: "MARGIN",
		MgnMode:  "isolated",
		Ccy:      "BTC",
		Pos:      "0.6",
		AvailPos: "0.5",
		Liab:     "20000",
		LiabCcy:  "USDT",
		LiqPx:    "31000",
		MgnRatio: "2.7",
	}}}
	adapter := NewMarginAdapter(client)

	accounts, err := adapter.MarginAccounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 1)

	acc := accounts[0]
	require.Equal(t, "BTC", acc.BaseAsset)
	require.Equal(t, "USDT", acc.QuoteAsset)
	require.Len(t, acc.BalanceByAsset, 2)
	require.True(t, acc.BaseBalance.Free.Equal(decimal.RequireFromString("0.5")))
	require.True(t, acc.QuoteBalance.Borrowed.Equal(decimal.RequireFromString("20000")))
}

func TestPlaceOrderUsesConditionalForStops(t *testing.T) {
	client := &fakeClient{}
	adapter := NewMarginAdapter(client)

	_, err := adapter.CreateOrder(context.Background(), core.OrderIntent{
		Symbol:   "BTC-USDT",
		Side:     core.Buy,
		Quantity: decimal.RequireFromString("0.5"),
		Price:    decimal.NewFromInt(49000),
		Stop:     true,
	})
	require.NoError(t, err)

	params := client.lastPlace
	require.Equal(t, "conditional", params.OrdType)
	require.Equal(t, "isolated", params.TdMode)
	require.Equal(t, "buy", params.Side)
	require.Equal(t, "49000", params.Px)
	// one tick below the buy limit
	require.Equal(t, "48999.9", params.TriggerPx)
}

func TestBulkCreateBatchesOfTen(t *testing.T) {
	client := &fakeClient{}
	adapter := NewMarginAdapter(client)

	intents := make([]core.OrderIntent, 23)
	for i := range intents {
		intents[i] = core.OrderIntent{
			Symbol:   "BTC-USDT",
			Side:     core.Buy,
			Quantity: decimal.RequireFromString("0.1"),
			Price:    decimal.NewFromInt(50000),
			ClientID: "b" + strconv.Itoa(i),
		}
	}
	orders, err := adapter.BulkCreateOrders(context.Background(), intents)
	require.NoError(t, err)
	require.Len(t, orders, 23)

	sizes := append([]int(nil), client.batchSizes...)
	sort.Ints(sizes)
	require.Equal(t, []int{3, 10, 10}, sizes)

	for i, o := range orders {
		require.Equal(t, "b"+strconv.Itoa(i), o.ClientID)
	}
}

func TestCancelOpenOrdersListsThenCancels(t *testing.T) {
	client := &fakeClient{pending: []pendingPage{
		{details: []OrderDetail{{OrdID: "11", State: "live"}, {OrdID: "12", State: "live"}}, next: "p2"},
		{details: []OrderDetail{{OrdID: "13", State: "live"}}, next: ""},
	}}
	adapter := NewMarginAdapter(client)

	require.NoError(t, adapter.CancelOpenOrders(context.Background(), "BTC-USDT"))
	require.Equal(t, []string{"", "p2"}, client.cursorsSeen)

	var ids []string
	for _, call := range client.cancelCalls {
		for _, c := range call {
			ids = append(ids, c.OrdID)
		}
	}
	require.ElementsMatch(t, []string{"11", "12", "13"}, ids)
}

func TestSwapPositionsAndLeverage(t *testing.T) {
	client := &fakeClient{positions: []Position{
		{InstID: "BTC-USDT-SWAP", InstType: "SWAP", MgnMode: "isolated", PosSide: "short", Pos: "-3", Ccy: "USDT", Lever: "10"},
		{InstID: "ETH-USDT-SWAP", InstType: "SWAP", Pos: "0"},
		{InstID: "BTC-USD-SWAP", InstType: "SWAP", PosSide: "long", Pos: "2", Ccy: "BTC"},
	}}
	adapter := NewFuturesAdapter(client)

	positions, err := adapter.Positions(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, positions, 2)
	require.Equal(t, core.KindShort, positions[0].Kind)
	require.Equal(t, core.FutureUSDT, positions[0].FutureType)
	require.Equal(t, core.FutureCoin, positions[1].FutureType)

	require.NoError(t, adapter.SetLeverage(context.Background(), "BTC-USDT-SWAP", 10))
	require.Equal(t, [3]string{"BTC-USDT-SWAP", "10", "isolated"}, client.leverCall)
}

func TestBorrowNarrowsVendorError(t *testing.T) {
	client := &fakeClient{borrowErr: APIError{Code: "59301", Msg: "borrow amount exceeds limit"}}
	adapter := NewMarginAdapter(client)

	require.False(t, adapter.Borrow(context.Background(), "BTC-USDT", "USDT", decimal.NewFromInt(100)))
	client.borrowErr = nil
	require.True(t, adapter.Repay(context.Background(), "BTC-USDT", "USDT", decimal.NewFromInt(100)))
}
