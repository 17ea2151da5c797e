package catalogs

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/unwraplabs/tyrion/internal/domain"
)

func TestWALStoreSaveAndLatest(t *testing.T) {
	store, err := NewWALStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	_, ok, err := store.Latest()
	require.NoError(t, err)
	require.False(t, ok)

	first := []domain.PoolRecord{
		{Protocol: "Vesu", PoolName: "vUSDC", Asset: "USDC", APY: 4.5, RiskRating: domain.RiskLow},
	}
	second := []domain.PoolRecord{
		{Protocol: "Vesu", PoolName: "vUSDC", Asset: "USDC", APY: 5.5, RiskRating: domain.RiskLow},
		{Protocol: "Vesu", PoolName: "vETH", Asset: "ETH", APY: 2.0, RiskRating: domain.RiskMedium},
	}

	require.NoError(t, store.Save(first))
	require.NoError(t, store.Save(second))

	latest, ok, err := store.Latest()
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, latest, 2)
	require.Equal(t, 5.5, latest[0].APY)
}

func TestWALStoreHistory(t *testing.T) {
	store, err := NewWALStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	for apy := 1.0; apy <= 3.0; apy++ {
		require.NoError(t, store.Save([]domain.PoolRecord{
			{Protocol: "Vesu", PoolName: "vUSDC", Asset: "USDC", APY: apy, RiskRating: domain.RiskLow},
		}))
	}

	history, err := store.History(0)
	require.NoError(t, err)
	require.Len(t, history, 3)
	require.Equal(t, 1.0, history[0][0].APY)
	require.Equal(t, 3.0, history[2][0].APY)

	tail, err := store.History(store.CurrentIndex() - 1)
	require.NoError(t, err)
	require.Len(t, tail, 1)

	none, err := store.History(store.CurrentIndex())
	require.NoError(t, err)
	require.Empty(t, none)
}
