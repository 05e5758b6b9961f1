package core

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Instrument is one venue-neutral row of raw instrument metadata. Adapters
// map their vendor's exchange-info payload into it before resolving.
type Instrument struct {
	Symbol       string
	TickSize     float64
	StepSize     float64
	MinNotional  float64
	ContractSize float64
}

// PrecisionProfile carries the per-symbol rounding parameters for one
// order-construction call. It is resolved fresh for every order-affecting
// call and passed by value; it is never adapter state, so concurrent calls
// for different symbols cannot race.
type PrecisionProfile struct {
	PricePlaces    int32
	QuantityPlaces int32
	TickDifference decimal.Decimal
	StepSize       decimal.Decimal
	Minimum        decimal.Decimal
	ContractSize   decimal.Decimal
}

func (p PrecisionProfile) IsZero() bool {
	return p.TickDifference.IsZero() && p.StepSize.IsZero()
}

var two = decimal.NewFromInt(2)

// ResolvePrecision locates the symbol's metadata (case-insensitive) and
// derives decimal places, the smallest price delta, and the minimum tradable
// size. The minimum carries a two-step safety margin so a truncated quantity
// still clears the venue floor.
func ResolvePrecision(instruments []Instrument, symbol string) (PrecisionProfile, error) {
	for _, inst := range instruments {
		if !strings.EqualFold(inst.Symbol, symbol) {
			continue
		}
		pricePlaces := decimalPlaces(inst.TickSize)
		qtyPlaces := decimalPlaces(inst.StepSize)
		step := decimal.NewFromFloat(inst.StepSize)
		floor := decimal.NewFromFloat(inst.MinNotional)
		if floor.IsZero() {
			floor = step
		}
		return PrecisionProfile{
			PricePlaces:    pricePlaces,
			QuantityPlaces: qtyPlaces,
			TickDifference: decimal.New(1, -pricePlaces),
			StepSize:       step,
			Minimum:        floor.Add(step.Mul(two)),
			ContractSize:   decimal.NewFromFloat(inst.ContractSize),
		}, nil
	}
	return PrecisionProfile{}, ErrSymbolNotFound
}

// decimalPlaces derives the decimal digits implied by a tick or step
// increment from its base-10 exponent in normalized scientific notation:
// 0.01 -> 2, 0.025 -> 2, 1 -> 0. Increments of one or more round to whole
// units, so non-negative exponents yield zero places.
func decimalPlaces(increment float64) int32 {
	if increment <= 0 {
		return 0
	}
	s := strconv.FormatFloat(increment, 'e', 8, 64)
	exp, err := strconv.Atoi(s[strings.IndexByte(s, 'e')+1:])
	if err != nil || exp >= 0 {
		return 0
	}
	return int32(-exp)
}
