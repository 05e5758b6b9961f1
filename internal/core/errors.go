package core

import "errors"

var (
	// ErrSymbolNotFound indicates the symbol is absent from the exchange's
	// instrument metadata. Callers must fail the operation rather than
	// submit unrounded values.
	ErrSymbolNotFound = errors.New("symbol not found in exchange metadata")
	// ErrNoPrecision indicates an order build was attempted without a
	// resolved precision profile.
	ErrNoPrecision = errors.New("precision profile not resolved")
	// ErrInvalidIntent indicates the order intent cannot produce a sized order.
	ErrInvalidIntent = errors.New("invalid order intent")
	// ErrUnsupported indicates the venue does not expose this capability.
	ErrUnsupported = errors.New("operation not supported by venue")
)
