package exchange

import (
	"testing"

	"github.com/stretchr/testify/require"

	"u-exchanges/internal/core"
	"u-exchanges/internal/exchange/binance"
	"u-exchanges/internal/exchange/okcoin"
	"u-exchanges/internal/exchange/okx"
)

func TestNewBinance(t *testing.T) {
	ex, err := New(Binance, Deps{
		BinanceMargin:  binance.MarginClient(nil),
		BinanceFutures: nil,
	})
	require.NoError(t, err)
	require.Equal(t, Binance, ex.Venue)
	require.NotNil(t, ex.Margin)
	require.NotNil(t, ex.Transfer)
	// no futures client wired means no futures capability
	require.Nil(t, ex.Futures)
}

func TestNewBinanceWithFutures(t *testing.T) {
	ex, err := New(Binance, Deps{FutureType: core.FutureUSDT, BinanceFutures: struct{ binance.FuturesClient }{}})
	require.NoError(t, err)
	require.NotNil(t, ex.Futures)
}

func TestNewOKX(t *testing.T) {
	ex, err := New(OKX, Deps{OKX: okx.Client(nil)})
	require.NoError(t, err)
	require.NotNil(t, ex.Margin)
	require.NotNil(t, ex.Futures)
	require.NotNil(t, ex.Transfer)
}

func TestV3VenuesShareAdapter(t *testing.T) {
	for _, venue := range []Venue{OKCoin, OKExV3} {
		ex, err := New(venue, Deps{V3: okcoin.Client(nil)})
		require.NoError(t, err)
		require.Equal(t, venue, ex.Venue)
		require.NotNil(t, ex.Margin)
		require.Nil(t, ex.Futures, "v3 venues have no futures capability")
	}
}

func TestNewUnknownVenue(t *testing.T) {
	_, err := New("bitmex", Deps{})
	require.ErrorIs(t, err, core.ErrUnsupported)
}
