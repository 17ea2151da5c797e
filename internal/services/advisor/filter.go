package advisor

import (
	"go.uber.org/zap"

	"github.com/unwraplabs/tyrion/internal/domain"
)

// FilterPools applies the criteria to the catalog and returns the eligible
// subset, preserving catalog order. All predicates are independent and
// conjunctive; the zero criteria returns the catalog unchanged. Records
// missing required fields are skipped with a warning rather than failing
// the whole call. An empty result is not an error.
func (e *Engine) FilterPools(catalog []domain.PoolRecord, criteria domain.FilterCriteria) []domain.PoolRecord {
	eligible := make([]domain.PoolRecord, 0, len(catalog))
	for _, pool := range catalog {
		if err := pool.Validate(); err != nil {
			e.logger.Warn("skipping malformed pool record", zap.Error(err))
			continue
		}
		if criteria.AuditedOnly && !pool.IsAudited {
			continue
		}
		if !criteria.AllowsProtocol(pool.Protocol) {
			continue
		}
		if !criteria.AllowsAsset(pool.Asset) {
			continue
		}
		if !criteria.AllowsRisk(pool.RiskRating) {
			continue
		}
		if pool.TvlUsd < criteria.MinTvl {
			continue
		}
		if pool.APY < criteria.MinApy {
			continue
		}
		eligible = append(eligible, pool)
	}
	return eligible
}
