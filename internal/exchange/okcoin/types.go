package okcoin

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"u-exchanges/internal/core"
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
			Symbol:      r.InstrumentID,
			TickSize:    parseFloat(r.TickSize),
			StepSize:    parseFloat(r.SizeIncrement),
			MinNotional: parseFloat(r.MinSize),
		}
	}
	return instruments
}

// splitInstrumentID breaks "BTC-USDT" into base and quote assets.
func splitInstrumentID(id string) (string, string) {
	parts := strings.SplitN(id, "-", 2)
	if len(parts) < 2 {
		return id, ""
	}
	return parts[0], parts[1]
}

func toAssetBalance(b CurrencyBalance) core.AssetBalance {
	return core.AssetBalance{
		Free:     dec(b.Available),
		Borrowed: dec(b.Borrowed),
		Total:    dec(b.Balance),
	}
}

func toMarginAccount(acc MarginAccount) core.MarginAccount {
	base, quote := splitInstrumentID(acc.InstrumentID)
	baseBalance := toAssetBalance(acc.Currencies[base])
	quoteBalance := toAssetBalance(acc.Currencies[quote])
	return core.MarginAccount{
		BaseAsset:        base,
		QuoteAsset:       quote,
		Symbol:           acc.InstrumentID,
		BaseBalance:      baseBalance,
		QuoteBalance:     quoteBalance,
		LiquidationPrice: dec(acc.LiquidationPrice),
		MarginRatio:      dec(acc.MarginRatio),
		BalanceByAsset: map[string]core.AssetBalance{
			base:  baseBalance,
			quote: quoteBalance,
		},
	}
}

var orderStates = map[string]core.OrderStatus{
	"-1": core.OrderCanceled,
	"0":  core.OrderNew,
	"1":  core.OrderPartiallyFilled,
	"2":  core.OrderFilled,
}

func toOrder(info OrderInfo) core.Order {
	order := core.Order{
		ID:          info.OrderID,
		ClientID:    info.ClientOID,
		Symbol:      info.InstrumentID,
		Side:        core.Side(strings.ToUpper(info.Side)),
		Price:       dec(info.Price),
		Qty:         dec(info.Size),
		ExecutedQty: dec(info.FilledSize),
		Status:      orderStates[info.State],
	}
	if info.Type == "market" {
		order.Type = core.Market
	} else {
		order.Type = core.Limit
	}
	if ts, err := time.Parse(time.RFC3339, info.Timestamp); err == nil {
		order.CreatedAt = ts
	}
	return order
}

func toOrders(infos []OrderInfo) []core.Order {
	orders := make([]core.Order, len(infos))
	for i, info := range infos {
		orders[i] = toOrder(info)
	}
	return orders
}

func planParams(plan core.OrderPlan) OrderParams {
	params := OrderParams{
		InstrumentID:  plan.Symbol,
		ClientOID:     plan.ClientID,
		Side:          strings.ToLower(string(plan.Side)),
		Size:          plan.Quantity.String(),
		MarginTrading: marginTrading,
	}
	if plan.Type == core.Market {
		params.Type = "market"
	} else {
		params.Type = "limit"
		params.Price = plan.Price.String()
	}
	return params
}

// planOrder combines the submitted plan with the vendor's id-only placement
// acknowledgement.
func planOrder(plan core.OrderPlan, result OrderResult) core.Order {
	return core.Order{
		ID:       result.OrderID,
		ClientID: result.ClientOID,
		Symbol:   plan.Symbol,
		Side:     plan.Side,
		Type:     plan.Type,
		Price:    plan.Price,
		Qty:      plan.Quantity,
		Status:   core.OrderNew,
	}
}

// v3 account transfer codes.
var walletCodes = map[core.Wallet]string{
	core.WalletSpot:    "1",
	core.WalletFutures: "3",
	core.WalletMargin:  "5",
	core.WalletFunding: "6",
}

func toTransferParams(req core.TransferRequest) TransferParams {
	return TransferParams{
		Currency:     req.Asset,
		Amount:       req.Amount.String(),
		From:         walletCodes[req.From],
		To:           walletCodes[req.To],
		InstrumentID: req.Symbol,
	}
}
