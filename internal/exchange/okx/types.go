package okx

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"u-exchanges/internal/core"
)

const (
	instTypeMargin = "MARGIN"
	instTypeSwap   = "SWAP"

	tdModeIsolated = "isolated"
)

func dec(s string) decimal.Decimal {
	v, _ := decimal.NewFromString(s)
	return v
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func toInstruments(raw []Instrument) []core.Instrument {
	instruments := make([]core.Instrument, len(raw))
	for i, r := range raw {
		instruments[i] = core.Instrument{
			Symbol:       r.InstID,
			TickSize:     parseFloat(r.TickSz),
			StepSize:     parseFloat(r.LotSz),
			MinNotional:  parseFloat(r.MinSz),
			ContractSize: parseFloat(r.CtVal),
		}
	}
	return instruments
}

// splitInstID breaks "BTC-USDT" into base and quote assets.
func splitInstID(instID string) (string, string) {
	parts := strings.SplitN(instID, "-", 3)
	if len(parts) < 2 {
		return instID, ""
	}
	return parts[0], parts[1]
}

// toMarginAccount views one isolated MARGIN position as a margin account.
// The liability currency carries the borrowed amount; the other leg is free
// equity.
func toMarginAccount(p Position) core.MarginAccount {
	base, quote := splitInstID(p.InstID)
	balances := map[string]core.AssetBalance{
		base:  {},
		quote: {},
	}
	pos := core.AssetBalance{Free: dec(p.AvailPos), Total: dec(p.Pos)}
	balances[p.Ccy] = pos
	if liab, ok := balances[p.LiabCcy]; ok {
		liab.Borrowed = dec(p.Liab)
		balances[p.LiabCcy] = liab
	}
	return core.MarginAccount{
		BaseAsset:        base,
		QuoteAsset:       quote,
		Symbol:           p.InstID,
		BaseBalance:      balances[base],
		QuoteBalance:     balances[quote],
		LiquidationPrice: dec(p.LiqPx),
		MarginRatio:      dec(p.MgnRatio),
		BalanceByAsset:   balances,
	}
}

var orderStates = map[string]core.OrderStatus{
	"live":             core.OrderNew,
	"partially_filled": core.OrderPartiallyFilled,
	"filled":           core.OrderFilled,
	"canceled":         core.OrderCanceled,
}

func toOrder(d OrderDetail) core.Order {
	order := core.Order{
		ID:          d.OrdID,
		ClientID:    d.ClOrdID,
		Symbol:      d.InstID,
		Side:        core.Side(strings.ToUpper(d.Side)),
		Price:       dec(d.Px),
		Qty:         dec(d.Sz),
		ExecutedQty: dec(d.AccFillSz),
		Status:      orderStates[d.State],
	}
	switch d.OrdType {
	case "market":
		order.Type = core.Market
	case "conditional":
		order.Type = core.StopLossLimit
	default:
		order.Type = core.Limit
	}
	if ms, err := strconv.ParseInt(d.CTime, 10, 64); err == nil && ms > 0 {
		order.CreatedAt = time.UnixMilli(ms)
	}
	return order
}

func toOrders(details []OrderDetail) []core.Order {
	orders := make([]core.Order, len(details))
	for i, d := range details {
		orders[i] = toOrder(d)
	}
	return orders
}

// planParams renders a built plan as vendor order parameters. Stop variants
// become conditional orders carrying a trigger price; absent plan fields
// stay empty.
func planParams(plan core.OrderPlan) OrderParams {
	params := OrderParams{
		InstID:  plan.Symbol,
		TdMode:  tdModeIsolated,
		Side:    strings.ToLower(string(plan.Side)),
		PosSide: strings.ToLower(string(plan.PositionSide)),
		Sz:      plan.Quantity.String(),
		ClOrdID: plan.ClientID,
	}
	switch plan.Type {
	case core.Market:
		params.OrdType = "market"
	case core.Limit:
		params.OrdType = "limit"
	default:
		params.OrdType = "conditional"
	}
	if !plan.Price.IsZero() {
		params.Px = plan.Price.String()
	}
	if !plan.StopPrice.IsZero() {
		params.TriggerPx = plan.StopPrice.String()
	}
	return params
}

// Funding wallet transfers use account type 6; everything else lives in the
// unified trading account (18).
var accountTypes = map[core.Wallet]string{
	core.WalletFunding: "6",
	core.WalletSpot:    "18",
	core.WalletMargin:  "18",
	core.WalletFutures: "18",
}

func toTransferParams(req core.TransferRequest) TransferParams {
	return TransferParams{
		Ccy:    req.Asset,
		Amt:    req.Amount.String(),
		From:   accountTypes[req.From],
		To:     accountTypes[req.To],
		InstID: req.Symbol,
	}
}

// futureType reads the margin currency off the position; USDT collateral
// means a USDT-margined contract.
func futureType(p Position) core.FutureType {
	if strings.EqualFold(p.Ccy, "USDT") {
		return core.FutureUSDT
	}
	return core.FutureCoin
}
