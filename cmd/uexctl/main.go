// uexctl is an offline inspector for the unified exchange layer. It resolves
// a symbol's precision profile from an instrument-metadata dump and can
// dry-run an order plan against it, without touching any venue.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"u-exchanges/internal/config"
	"u-exchanges/internal/core"
)

// instrumentRow is one row of the metadata dump, already venue-neutral.
type instrumentRow struct {
	Symbol       string  `json:"symbol"`
	TickSize     float64 `json:"tick_size"`
	StepSize     float64 `json:"step_size"`
	MinNotional  float64 `json:"min_notional"`
	ContractSize float64 `json:"contract_size,omitempty"`
}

type profileReport struct {
	Symbol         string `json:"symbol"`
	PricePlaces    int32  `json:"price_places"`
	QuantityPlaces int32  `json:"quantity_places"`
	TickDifference string `json:"tick_difference"`
	StepSize       string `json:"step_size"`
	Minimum        string `json:"minimum"`
	ContractSize   string `json:"contract_size,omitempty"`
}

type planReport struct {
	Symbol       string `json:"symbol"`
	Side         string `json:"side"`
	PositionSide string `json:"position_side,omitempty"`
	Type         string `json:"type"`
	Price        string `json:"price,omitempty"`
	StopPrice    string `json:"stop_price,omitempty"`
	Quantity     string `json:"quantity"`
	TimeInForce  string `json:"time_in_force,omitempty"`
	SideEffect   string `json:"side_effect,omitempty"`
	ClientID     string `json:"client_id"`
}

func main() {
	var (
		configPath      string
		instrumentsPath string
		symbol          string
		side            string
		qty             string
		notional        string
		price           string
		current         string
		kind            string
		market          bool
		stop            bool
		repay           bool
		borrow          bool
		futures         bool
		forceMarket     bool
		listVenues      bool
	)
	flag.StringVar(&configPath, "config", "", "optional config yaml path")
	flag.StringVar(&instrumentsPath, "instruments", "", "instrument metadata JSON dump")
	flag.StringVar(&symbol, "symbol", "", "symbol to resolve")
	flag.StringVar(&side, "side", "", "buy or sell; enables the order dry run")
	flag.StringVar(&qty, "qty", "", "order quantity")
	flag.StringVar(&notional, "notional", "", "order notional; sized against -current")
	flag.StringVar(&price, "price", "", "limit price")
	flag.StringVar(&current, "current", "", "current market price for sizing and stop classification")
	flag.StringVar(&kind, "kind", "", "position kind for stops and futures: long or short")
	flag.BoolVar(&market, "market", false, "market order")
	flag.BoolVar(&stop, "stop", false, "stop order")
	flag.BoolVar(&repay, "repay", false, "auto-repay side effect")
	flag.BoolVar(&borrow, "borrow", false, "force margin-buy on stops")
	flag.BoolVar(&futures, "futures", false, "build a futures plan instead of margin")
	flag.BoolVar(&forceMarket, "force-market", false, "strip price and time-in-force (futures)")
	flag.BoolVar(&listVenues, "venues", false, "report venues with usable credentials")
	flag.Parse()

	var cfg config.Config
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			fatal(err.Error())
		}
		cfg = loaded
		if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
			logrus.SetLevel(level)
		}
	}
	if listVenues {
		if configPath == "" {
			fatal("-venues requires -config")
		}
		emit(map[string]any{"configured_venues": cfg.ConfiguredVenues(), "default_venue": cfg.DefaultVenue})
		return
	}
	if instrumentsPath == "" || symbol == "" {
		fatal("-instruments and -symbol are required")
	}

	instruments, err := loadInstruments(instrumentsPath)
	if err != nil {
		fatal(err.Error())
	}
	profile, err := core.ResolvePrecision(instruments, symbol)
	if err != nil {
		fatal(fmt.Sprintf("resolve %s: %v", symbol, err))
	}

	if side == "" {
		emit(toProfileReport(symbol, profile))
		return
	}

	intent := core.OrderIntent{
		Symbol:      symbol,
		Side:        core.Side(upperSide(side)),
		Quantity:    parseDec(qty),
		Notional:    parseDec(notional),
		Price:       parseDec(price),
		Market:      market,
		Stop:        stop,
		Repay:       repay,
		Borrow:      borrow,
		Kind:        core.PositionKind(kind),
		ForceMarket: forceMarket,
	}
	if cfg.Orders.ClientIDPrefix != "" {
		intent.ClientID = core.NewClientID(cfg.Orders.ClientIDPrefix)
	}
	if intent.Notional.IsZero() && !cfg.Orders.Notional.IsZero() && intent.Quantity.IsZero() {
		intent.Notional = cfg.Orders.Notional.Decimal
	}
	mark := parseDec(current)
	if mark.IsZero() {
		mark = intent.Price
	}

	build := core.BuildMarginOrder
	if futures {
		build = core.BuildFuturesOrder
	}
	plan, err := build(intent, profile, mark)
	if err != nil {
		fatal(fmt.Sprintf("build plan: %v", err))
	}
	emit(toPlanReport(plan))
}

func loadInstruments(path string) ([]core.Instrument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rows []instrumentRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	instruments := make([]core.Instrument, len(rows))
	for i, r := range rows {
		instruments[i] = core.Instrument{
			Symbol:       r.Symbol,
			TickSize:     r.TickSize,
			StepSize:     r.StepSize,
			MinNotional:  r.MinNotional,
			ContractSize: r.ContractSize,
		}
	}
	return instruments, nil
}

func toProfileReport(symbol string, p core.PrecisionProfile) profileReport {
	report := profileReport{
		Symbol:         symbol,
		PricePlaces:    p.PricePlaces,
		QuantityPlaces: p.QuantityPlaces,
		TickDifference: p.TickDifference.String(),
		StepSize:       p.StepSize.String(),
		Minimum:        p.Minimum.String(),
	}
	if !p.ContractSize.IsZero() {
		report.ContractSize = p.ContractSize.String()
	}
	return report
}

func toPlanReport(plan core.OrderPlan) planReport {
	report := planReport{
		Symbol:       plan.Symbol,
		Side:         string(plan.Side),
		PositionSide: string(plan.PositionSide),
		Type:         string(plan.Type),
		Quantity:     plan.Quantity.String(),
		TimeInForce:  string(plan.TimeInForce),
		SideEffect:   string(plan.SideEffect),
		ClientID:     plan.ClientID,
	}
	if !plan.Price.IsZero() {
		report.Price = plan.Price.String()
	}
	if !plan.StopPrice.IsZero() {
		report.StopPrice = plan.StopPrice.String()
	}
	return report
}

func upperSide(v string) string {
	switch v {
	case "buy", "BUY", "Buy":
		return "BUY"
	case "sell", "SELL", "Sell":
		return "SELL"
	}
	fatal("side must be buy or sell")
	return ""
}

func parseDec(v string) decimal.Decimal {
	if v == "" {
		return decimal.Decimal{}
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		fatal(fmt.Sprintf("invalid decimal %q", v))
	}
	return d
}

func emit(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fatal(err.Error())
	}
}

func fatal(msg string) {
	fmt.Fprintln(os.Stderr, "uexctl: "+msg)
	os.Exit(1)
}
