package binance

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"u-exchanges/internal/core"
)

// toInstruments maps exchangeInfo filter rows into venue-neutral metadata.
func toInstruments(symbols []SymbolInfo) []core.Instrument {
	instruments := make([]core.Instrument, 0, len(symbols))
	for _, s := range symbols {
		inst := core.Instrument{Symbol: s.Symbol}
		for _, f := range s.Filters {
			switch f.FilterType {
			case "PRICE_FILTER":
				inst.TickSize = parseFloat(f.TickSize)
			case "LOT_SIZE":
				inst.StepSize = parseFloat(f.StepSize)
			case "MIN_NOTIONAL", "NOTIONAL":
				inst.MinNotional = parseFloat(f.MinNotional)
			}
		}
		instruments = append(instruments, inst)
	}
	return instruments
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func dec(s string) decimal.Decimal {
	v, _ := decimal.NewFromString(s)
	return v
}

func toAssetBalance(a IsolatedAsset) core.AssetBalance {
	return core.AssetBalance{
		Free:     dec(a.Free),
		Borrowed: dec(a.Borrowed),
		Total:    dec(a.TotalAsset),
	}
}

func toMarginAccount(p IsolatedPair) core.MarginAccount {
	base := toAssetBalance(p.BaseAsset)
	quote := toAssetBalance(p.QuoteAsset)
	return core.MarginAccount{
		BaseAsset:        p.BaseAsset.Asset,
		QuoteAsset:       p.QuoteAsset.Asset,
		Symbol:           p.Symbol,
		BaseBalance:      base,
		QuoteBalance:     quote,
		LiquidationPrice: dec(p.LiquidatePrice),
		MarginRatio:      dec(p.MarginLevel),
		BalanceByAsset: map[string]core.AssetBalance{
			p.BaseAsset.Asset:  base,
			p.QuoteAsset.Asset: quote,
		},
	}
}

func toOrder(r OrderResult) core.Order {
	order := core.Order{
		ID:          strconv.FormatInt(r.OrderID, 10),
		ClientID:    r.ClientOrderID,
		Symbol:      r.Symbol,
		Side:        core.Side(r.Side),
		Type:        core.OrderType(r.Type),
		Price:       dec(r.Price),
		Qty:         dec(r.OrigQty),
		ExecutedQty: dec(r.ExecutedQty),
		Status:      core.OrderStatus(r.Status),
	}
	if r.Time > 0 {
		order.CreatedAt = time.UnixMilli(r.Time)
	}
	return order
}

func toOrders(results []OrderResult) []core.Order {
	orders := make([]core.Order, len(results))
	for i, r := range results {
		orders[i] = toOrder(r)
	}
	return orders
}

// planParams renders a built plan as vendor order parameters. Zero-valued
// plan fields stay empty and are omitted from the request.
func planParams(plan core.OrderPlan, isolated bool) OrderParams {
	params := OrderParams{
		Symbol:           plan.Symbol,
		Side:             string(plan.Side),
		Type:             string(plan.Type),
		TimeInForce:      string(plan.TimeInForce),
		Quantity:         plan.Quantity.String(),
		SideEffectType:   string(plan.SideEffect),
		PositionSide:     string(plan.PositionSide),
		NewClientOrderID: plan.ClientID,
		IsIsolated:       isolated,
	}
	if !plan.Price.IsZero() {
		params.Price = plan.Price.String()
	}
	if !plan.StopPrice.IsZero() {
		params.StopPrice = plan.StopPrice.String()
	}
	return params
}

var walletNames = map[core.Wallet]string{
	core.WalletFunding: "FUNDING",
	core.WalletSpot:    "MAIN",
	core.WalletMargin:  "ISOLATED_MARGIN",
	core.WalletFutures: "UMFUTURE",
}

func toTransferParams(req core.TransferRequest) TransferParams {
	return TransferParams{
		Asset:  req.Asset,
		Amount: req.Amount.String(),
		From:   walletNames[req.From],
		To:     walletNames[req.To],
		Symbol: req.Symbol,
	}
}
