package core

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderIntent is the abstract order a caller wants placed, before any
// venue-specific shaping. Exactly one of Quantity/Notional drives sizing.
type OrderIntent struct {
	Symbol      string
	Side        Side
	Quantity    decimal.Decimal
	Notional    decimal.Decimal
	Price       decimal.Decimal
	Market      bool
	Stop        bool
	Repay       bool
	Borrow      bool
	Kind        PositionKind
	FutureType  FutureType
	ForceMarket bool
	ClientID    string
}

// OrderPlan is a built, unsubmitted order. Zero-valued Price and TimeInForce
// mean the field is absent from the vendor payload, not zeroed. Building and
// submitting are separate steps so bulk creation can build every plan against
// one freshly resolved profile, then dispatch them as batches.
type OrderPlan struct {
	Symbol       string
	Side         Side
	PositionSide PositionSide
	Type         OrderType
	Price        decimal.Decimal
	StopPrice    decimal.Decimal
	Quantity     decimal.Decimal
	TimeInForce  TimeInForce
	SideEffect   SideEffect
	ClientID     string
}

// BuildMarginOrder turns an intent into an isolated-margin order plan.
//
// Defaults are a GTC limit order that auto-borrows the shortfall. Repay flips
// the side effect to auto-repay. A stop intent offsets the trigger one tick
// away from the limit price and classifies the order as stop-loss or
// take-profit against the current market price. Market intents drop the
// price entirely.
func BuildMarginOrder(intent OrderIntent, profile PrecisionProfile, current decimal.Decimal) (OrderPlan, error) {
	if profile.IsZero() {
		return OrderPlan{}, ErrNoPrecision
	}
	qty, err := resolveQuantity(intent, profile, current)
	if err != nil {
		return OrderPlan{}, err
	}
	plan := OrderPlan{
		Symbol:      intent.Symbol,
		Side:        intent.Side,
		Type:        Limit,
		Price:       intent.Price.Truncate(profile.PricePlaces),
		Quantity:    qty,
		TimeInForce: GTC,
		SideEffect:  SideEffectMarginBuy,
		ClientID:    clientID(intent.ClientID),
	}
	if intent.Repay {
		plan.SideEffect = SideEffectAutoRepay
	}
	if intent.Stop {
		plan.StopPrice = stopPrice(intent, plan.Price, profile.TickDifference)
		plan.Type = classifyStop(intent, plan.Price, current)
		if intent.Borrow {
			plan.SideEffect = SideEffectMarginBuy
		}
	}
	if intent.Market {
		plan.Type = Market
		plan.Price = decimal.Decimal{}
		plan.TimeInForce = ""
	}
	return plan, nil
}

// BuildFuturesOrder is the futures variant: a position side is always set,
// stops split into limit ("STOP") and market ("STOP_MARKET") triggers, and
// ForceMarket strips price and time-in-force unconditionally.
func BuildFuturesOrder(intent OrderIntent, profile PrecisionProfile, current decimal.Decimal) (OrderPlan, error) {
	if profile.IsZero() {
		return OrderPlan{}, ErrNoPrecision
	}
	qty, err := resolveQuantity(intent, profile, current)
	if err != nil {
		return OrderPlan{}, err
	}
	plan := OrderPlan{
		Symbol:       intent.Symbol,
		Side:         intent.Side,
		PositionSide: positionSide(intent),
		Type:         Limit,
		Price:        intent.Price.Truncate(profile.PricePlaces),
		Quantity:     qty,
		TimeInForce:  GTC,
		ClientID:     clientID(intent.ClientID),
	}
	switch {
	case intent.Stop && intent.Market:
		plan.Type = StopMarket
		plan.StopPrice = stopPrice(intent, plan.Price, profile.TickDifference)
		plan.Price = decimal.Decimal{}
		plan.TimeInForce = ""
	case intent.Stop:
		plan.Type = Stop
		plan.StopPrice = stopPrice(intent, plan.Price, profile.TickDifference)
	case intent.Market:
		plan.Type = Market
		plan.Price = decimal.Decimal{}
		plan.TimeInForce = ""
	}
	if intent.ForceMarket {
		plan.Price = decimal.Decimal{}
		plan.TimeInForce = ""
	}
	return plan, nil
}

// resolveQuantity sizes the order. When a notional is supplied the working
// quantity is notional/price plus the profile minimum; the minimum acts as a
// buffer so the rounded notional still clears the venue floor. Both price
// and quantity are truncated, never rounded, to match venue tick validation.
func resolveQuantity(intent OrderIntent, profile PrecisionProfile, current decimal.Decimal) (decimal.Decimal, error) {
	qty := intent.Quantity
	if qty.IsZero() {
		if intent.Notional.IsZero() || current.IsZero() {
			return decimal.Decimal{}, ErrInvalidIntent
		}
		qty = intent.Notional.Div(current).Add(profile.Minimum)
	}
	return qty.Truncate(profile.QuantityPlaces), nil
}

// stopPrice offsets the trigger one tick to the side of the limit price away
// from adverse movement.
func stopPrice(intent OrderIntent, price, tick decimal.Decimal) decimal.Decimal {
	switch {
	case intent.Side == Buy:
		return price.Sub(tick)
	case intent.Side == Sell:
		return price.Add(tick)
	case intent.Kind == KindLong:
		return price.Sub(tick)
	default:
		return price.Add(tick)
	}
}

// classifyStop decides between stop-loss and take-profit. A buy stop already
// above the market is a take-profit; a sell stop is a take-profit only when
// it closes a long below the market.
func classifyStop(intent OrderIntent, price, current decimal.Decimal) OrderType {
	if intent.Side == Buy {
		if current.Cmp(price) > 0 {
			return TakeProfitLimit
		}
		return StopLossLimit
	}
	if intent.Kind == KindLong && current.Cmp(price) < 0 {
		return TakeProfitLimit
	}
	return StopLossLimit
}

// positionSide derives the required futures position side from the typed
// kind, falling back to the order side.
func positionSide(intent OrderIntent) PositionSide {
	switch {
	case intent.Kind == KindLong:
		return PositionLong
	case intent.Kind == KindShort:
		return PositionShort
	case intent.Side == Sell:
		return PositionShort
	default:
		return PositionLong
	}
}

const defaultClientPrefix = "uex"

func clientID(id string) string {
	if id != "" {
		return id
	}
	return NewClientID(defaultClientPrefix)
}

// NewClientID builds a venue-safe client order id from a normalized prefix
// and a random suffix.
func NewClientID(prefix string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")
	return NormalizeClientPrefix(prefix) + "-" + suffix[:16]
}

// NormalizeClientPrefix lowercases the prefix and strips characters venues
// reject in client order ids, capping it at 20 characters.
func NormalizeClientPrefix(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return defaultClientPrefix
	}
	b := strings.Builder{}
	for _, r := range v {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			b.WriteRune(r)
		}
	}
	out := b.String()
	if out == "" {
		return defaultClientPrefix
	}
	if len(out) > 20 {
		out = out[:20]
	}
	return out
}
