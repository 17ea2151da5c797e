package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRiskRatingCaseInsensitive(t *testing.T) {
	for _, raw := range []string{"low", "Low", "LOW", " Medium ", "HIGH"} {
		rating := RiskRating(raw)
		require.True(t, rating.IsValid(), "rating %q must be valid", raw)

		parsed, ok := ParseRiskRating(raw)
		require.True(t, ok)
		require.Equal(t, parsed, rating.Normalize())
	}

	require.False(t, RiskRating("extreme").IsValid())
	require.Equal(t, RiskRating("extreme"), RiskRating("extreme").Normalize())
}

func TestRiskRatingUnmarshalCanonicalizes(t *testing.T) {
	var record PoolRecord
	require.NoError(t, json.Unmarshal([]byte(
		`{"protocol":"Vesu","pool_name":"vUSDC","asset":"USDC","net_apy":5,"risk_rating":"Low","tvl_usd":1}`,
	), &record))
	require.Equal(t, RiskLow, record.RiskRating)
	require.NoError(t, record.Validate())

	require.NoError(t, json.Unmarshal([]byte(`{"risk_rating":"extreme"}`), &record))
	require.Equal(t, RiskRating("extreme"), record.RiskRating)
	require.Error(t, record.Validate())
}

func TestPoolRecordValidateMixedCaseRating(t *testing.T) {
	record := PoolRecord{Protocol: "Vesu", PoolName: "vUSDC", Asset: "USDC", APY: 5, RiskRating: "MEDIUM", TvlUsd: 1}
	require.NoError(t, record.Validate())
}
