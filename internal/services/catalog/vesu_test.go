package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/unwraplabs/tyrion/internal/domain"
)

const vesuSample = `{
  "data": [
    {
      "name": "Genesis",
      "isVerified": true,
      "assets": [
        {
          "name": "USD Coin",
          "symbol": "USDC",
          "vToken": {"name": "vUSDC"},
          "riskRating": "low",
          "stats": {
            "supplyApy": {"value": "45000000000000000", "decimals": 18},
            "defiSpringSupplyApr": {"value": "5000000000000000", "decimals": 18},
            "totalSupplied": {"value": "2000000000000", "decimals": 6},
            "usdPrice": {"value": "1000000000000000000", "decimals": 18}
          }
        },
        {
          "name": "Ether",
          "symbol": "ETH",
          "vToken": {"name": "vETH"},
          "stats": {
            "supplyApy": {"value": "21000000000000000", "decimals": 18},
            "totalSupplied": {"value": "500000000000000000000", "decimals": 18},
            "usdPrice": {"value": "3000000000000000000000", "decimals": 18}
          }
        },
        {
          "name": "No Stats",
          "symbol": "DAI",
          "vToken": {"name": "vDAI"},
          "stats": null
        }
      ]
    }
  ]
}`

func TestVesuClientPools(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(vesuSample))
	}))
	defer srv.Close()

	client := NewVesuClient(srv.URL, zap.NewNop())
	records, err := client.Pools(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2, "asset without stats must be skipped")

	usdc := records[0]
	require.Equal(t, "Vesu", usdc.Protocol)
	require.Equal(t, "vUSDC", usdc.PoolName)
	require.Equal(t, "USDC", usdc.Asset)
	require.InDelta(t, 5.0, usdc.APY, 1e-9, "net apy is supply plus incentive, in percent")
	require.Equal(t, domain.RiskLow, usdc.RiskRating)
	require.InDelta(t, 2_000_000.0, usdc.TvlUsd, 1e-6)
	require.True(t, usdc.IsAudited)

	eth := records[1]
	require.InDelta(t, 2.1, eth.APY, 1e-9, "missing incentive apr counts as zero")
	require.Equal(t, domain.RiskMedium, eth.RiskRating, "missing rating defaults to medium")
	require.InDelta(t, 1_500_000.0, eth.TvlUsd, 1e-6)
}

func TestVesuClientErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewVesuClient(srv.URL, zap.NewNop())

	_, err := client.fetch(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "502")
}

func TestVesuClientUnconfigured(t *testing.T) {
	client := NewVesuClient("", zap.NewNop())
	_, err := client.Pools(context.Background())
	require.Error(t, err)
}
