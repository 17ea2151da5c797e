package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestWalletBalancesNormalized(t *testing.T) {
	balances := WalletBalances{
		"usdc":  decimal.NewFromInt(100),
		"ETH":   decimal.Zero,
		" strk": decimal.NewFromFloat(0.5),
	}

	got, err := balances.Normalized()
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.True(t, got["USDC"].Equal(decimal.NewFromInt(100)))
	require.True(t, got["STRK"].Equal(decimal.NewFromFloat(0.5)))
	require.NotContains(t, got, "ETH")
}

func TestWalletBalancesNegativeIsError(t *testing.T) {
	balances := WalletBalances{"USDC": decimal.NewFromInt(-1)}
	_, err := balances.Normalized()
	require.Error(t, err)
}

func TestWalletBalancesEmptySymbolIsError(t *testing.T) {
	balances := WalletBalances{"  ": decimal.NewFromInt(1)}
	_, err := balances.Normalized()
	require.Error(t, err)
}
