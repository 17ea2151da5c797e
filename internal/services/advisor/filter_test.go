package advisor

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/unwraplabs/tyrion/internal/domain"
)

func testCatalog() []domain.PoolRecord {
	return []domain.PoolRecord{
		{Protocol: "Vesu", PoolName: "PoolA", Asset: "USDC", APY: 5, RiskRating: domain.RiskLow, TvlUsd: 1_000_000, IsAudited: true},
		{Protocol: "Vesu", PoolName: "PoolB", Asset: "USDC", APY: 8, RiskRating: domain.RiskMedium, TvlUsd: 1_000_000, IsAudited: true},
		{Protocol: "Nostra", PoolName: "PoolC", Asset: "ETH", APY: 12, RiskRating: domain.RiskHigh, TvlUsd: 500_000, IsAudited: false},
		{Protocol: "Ekubo", PoolName: "PoolD", Asset: "STRK", APY: 20, RiskRating: domain.RiskHigh, TvlUsd: 250_000, IsAudited: true},
	}
}

func TestFilterPoolsZeroCriteriaIsIdentity(t *testing.T) {
	engine := NewEngine(zap.NewNop())
	catalog := testCatalog()

	got := engine.FilterPools(catalog, domain.FilterCriteria{})
	require.Equal(t, catalog, got)
}

func TestFilterPoolsCriteria(t *testing.T) {
	engine := NewEngine(zap.NewNop())
	catalog := testCatalog()

	tests := []struct {
		name     string
		criteria domain.FilterCriteria
		want     []string // pool names
	}{
		{
			name:     "audited only",
			criteria: domain.FilterCriteria{AuditedOnly: true},
			want:     []string{"PoolA", "PoolB", "PoolD"},
		},
		{
			name:     "protocol allow-list is case-insensitive",
			criteria: domain.FilterCriteria{Protocols: []string{"vesu"}},
			want:     []string{"PoolA", "PoolB"},
		},
		{
			name:     "asset allow-list is case-insensitive",
			criteria: domain.FilterCriteria{Assets: []string{"eth"}},
			want:     []string{"PoolC"},
		},
		{
			name:     "risk levels",
			criteria: domain.FilterCriteria{RiskLevels: []domain.RiskRating{domain.RiskHigh}},
			want:     []string{"PoolC", "PoolD"},
		},
		{
			name:     "min tvl",
			criteria: domain.FilterCriteria{MinTvl: 600_000},
			want:     []string{"PoolA", "PoolB"},
		},
		{
			name:     "min apy",
			criteria: domain.FilterCriteria{MinApy: 10},
			want:     []string{"PoolC", "PoolD"},
		},
		{
			name:     "conjunction of criteria",
			criteria: domain.FilterCriteria{AuditedOnly: true, MinApy: 6, Protocols: []string{"Vesu", "Ekubo"}},
			want:     []string{"PoolB", "PoolD"},
		},
		{
			name:     "min tvl above every pool excludes all",
			criteria: domain.FilterCriteria{MinTvl: 2_000_000},
			want:     []string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := engine.FilterPools(catalog, tc.criteria)
			names := make([]string, 0, len(got))
			for _, pool := range got {
				names = append(names, pool.PoolName)
			}
			require.Equal(t, tc.want, names)
		})
	}
}

func TestFilterPoolsSkipsMalformedRecords(t *testing.T) {
	engine := NewEngine(zap.NewNop())
	catalog := []domain.PoolRecord{
		{Protocol: "Vesu", PoolName: "NoAsset", APY: 5, RiskRating: domain.RiskLow, TvlUsd: 1},
		{Protocol: "Vesu", PoolName: "BadRisk", Asset: "USDC", APY: 5, RiskRating: "extreme", TvlUsd: 1},
		{Protocol: "Vesu", PoolName: "NegativeApy", Asset: "USDC", APY: -1, RiskRating: domain.RiskLow, TvlUsd: 1},
		{Protocol: "Vesu", PoolName: "Good", Asset: "USDC", APY: 5, RiskRating: domain.RiskLow, TvlUsd: 1},
	}

	got := engine.FilterPools(catalog, domain.FilterCriteria{})
	require.Len(t, got, 1)
	require.Equal(t, "Good", got[0].PoolName)
}

// Catalog sources outside our own clients may carry mixed-case ratings;
// those records are valid, not malformed.
func TestFilterPoolsKeepsMixedCaseRatings(t *testing.T) {
	engine := NewEngine(zap.NewNop())
	catalog := []domain.PoolRecord{
		{Protocol: "Vesu", PoolName: "PoolA", Asset: "USDC", APY: 5, RiskRating: "Low", TvlUsd: 1, IsAudited: true},
		{Protocol: "Vesu", PoolName: "PoolB", Asset: "USDC", APY: 8, RiskRating: "MEDIUM", TvlUsd: 1, IsAudited: true},
	}

	got := engine.FilterPools(catalog, domain.FilterCriteria{})
	require.Len(t, got, 2)

	got = engine.FilterPools(catalog, domain.FilterCriteria{RiskLevels: []domain.RiskRating{domain.RiskLow}})
	require.Len(t, got, 1)
	require.Equal(t, "PoolA", got[0].PoolName)
}

func TestFilterPoolsEachCriterionNarrows(t *testing.T) {
	engine := NewEngine(zap.NewNop())
	catalog := testCatalog()
	full := engine.FilterPools(catalog, domain.FilterCriteria{})

	criteria := []domain.FilterCriteria{
		{AuditedOnly: true},
		{Protocols: []string{"Vesu"}},
		{Assets: []string{"USDC"}},
		{RiskLevels: []domain.RiskRating{domain.RiskLow, domain.RiskMedium}},
		{MinTvl: 500_000},
		{MinApy: 5},
	}
	for _, c := range criteria {
		got := engine.FilterPools(catalog, c)
		require.LessOrEqual(t, len(got), len(full))
	}
}
