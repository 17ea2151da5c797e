package setup

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseBalancePairs(t *testing.T) {
	got, err := parseBalancePairs("USDC=1000, ETH=1.5")
	require.NoError(t, err)
	require.Equal(t, map[string]string{"USDC": "1000", "ETH": "1.5"}, got)

	got, err = parseBalancePairs("")
	require.NoError(t, err)
	require.Nil(t, got)

	_, err = parseBalancePairs("USDC")
	require.Error(t, err)

	_, err = parseBalancePairs("USDC=lots")
	require.Error(t, err)
}
