package advisor

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/unwraplabs/tyrion/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// Allocate distributes 100% of each held asset's balance across the
// best-APY eligible pool of every permitted risk tier, in fixed
// low, medium, high order.
//
// A higher-risk tier must beat the best available pool one tier down to
// be used: when the best medium pool yields less than the best low pool
// the medium tier's weight is routed into the low pool, and likewise
// high against medium. A high pool that loses to medium is NOT
// re-compared against low; the substitution is a single step per tier.
// Legs routed into the same (protocol, pool) are merged. After all
// tiers, any percent shortfall (a permitted tier with no pool) is added
// to the highest-APY leg so per-asset percents always sum to exactly
// 100 and amounts to exactly the balance.
//
// Assets with no eligible pool are omitted from the plan; only
// structurally invalid balances produce an error.
func (e *Engine) Allocate(balances domain.WalletBalances, profile domain.RiskProfile, eligible []domain.PoolRecord) (domain.InvestmentPlan, error) {
	plan := domain.NewInvestmentPlan()

	normalized, err := balances.Normalized()
	if err != nil {
		return plan, errors.Wrap(err, "invalid wallet balances")
	}
	if len(normalized) == 0 || len(eligible) == 0 {
		return plan, nil
	}

	if !profile.IsValid() {
		e.logger.Debug("unknown risk profile, defaulting to balanced", zap.String("profile", profile.String()))
		profile = domain.Balanced
	}

	tiers := partitionByTier(eligible)

	for _, asset := range sortedSymbols(normalized) {
		legs := e.allocateAsset(asset, normalized[asset], profile, tiers)
		if len(legs) == 0 {
			continue
		}
		plan.Assets[asset] = legs
		plan.Flat = append(plan.Flat, legs...)
	}
	return plan, nil
}

func (e *Engine) allocateAsset(asset string, balance decimal.Decimal, profile domain.RiskProfile, tiers map[domain.RiskRating][]domain.PoolRecord) []domain.AllocationLeg {
	best := map[domain.RiskRating]*domain.PoolRecord{
		domain.RiskLow:    bestPoolFor(tiers[domain.RiskLow], asset),
		domain.RiskMedium: bestPoolFor(tiers[domain.RiskMedium], asset),
		domain.RiskHigh:   bestPoolFor(tiers[domain.RiskHigh], asset),
	}

	var legs []domain.AllocationLeg
	legIndex := make(map[domain.PoolKey]int)

	for _, tw := range profile.TierWeights() {
		if tw.Weight.IsZero() {
			continue
		}
		pool := best[tw.Tier]
		if pool == nil {
			continue
		}

		// never accept more risk without more expected return
		switch tw.Tier {
		case domain.RiskMedium:
			if low := best[domain.RiskLow]; low != nil && pool.APY < low.APY {
				e.logger.Debug("substituting low-risk pool for medium tier",
					zap.String("asset", asset),
					zap.String("skipped", pool.PoolName),
					zap.String("used", low.PoolName))
				pool = low
			}
		case domain.RiskHigh:
			if medium := best[domain.RiskMedium]; medium != nil && pool.APY < medium.APY {
				e.logger.Debug("substituting medium-risk pool for high tier",
					zap.String("asset", asset),
					zap.String("skipped", pool.PoolName),
					zap.String("used", medium.PoolName))
				pool = medium
			}
		}

		amount := tw.Weight.Mul(balance)
		percent := tw.Weight.Mul(hundred)

		if i, ok := legIndex[pool.Key()]; ok {
			legs[i].AllocatedAmount = legs[i].AllocatedAmount.Add(amount)
			legs[i].PercentAllocation = legs[i].PercentAllocation.Add(percent)
			continue
		}
		legs = append(legs, domain.AllocationLeg{
			Asset:             asset,
			Protocol:          pool.Protocol,
			PoolName:          pool.PoolName,
			AllocatedAmount:   amount,
			PercentAllocation: percent,
			APY:               pool.APY,
			RiskRating:        pool.RiskRating,
			IsAudited:         pool.IsAudited,
			TvlUsd:            pool.TvlUsd,
		})
		legIndex[pool.Key()] = len(legs) - 1
	}

	if len(legs) == 0 {
		return nil
	}
	correctRounding(legs, balance)
	return legs
}

// correctRounding tops up the highest-APY leg so that percents sum to
// exactly 100 and amounts to exactly the balance.
func correctRounding(legs []domain.AllocationLeg, balance decimal.Decimal) {
	total := decimal.Zero
	for _, leg := range legs {
		total = total.Add(leg.PercentAllocation)
	}
	if total.Equal(hundred) {
		return
	}

	diff := hundred.Sub(total)
	target := 0
	for i := 1; i < len(legs); i++ {
		if legs[i].APY > legs[target].APY {
			target = i
		}
	}
	legs[target].PercentAllocation = legs[target].PercentAllocation.Add(diff)
	legs[target].AllocatedAmount = legs[target].AllocatedAmount.Add(diff.Div(hundred).Mul(balance))
}

// bestPoolFor returns the highest-APY record for the asset, keeping the
// earliest catalog entry on ties. Nil when the tier holds no pool for it.
func bestPoolFor(pools []domain.PoolRecord, asset string) *domain.PoolRecord {
	var best *domain.PoolRecord
	for i := range pools {
		if !strings.EqualFold(pools[i].Asset, asset) {
			continue
		}
		if best == nil || pools[i].APY > best.APY {
			best = &pools[i]
		}
	}
	return best
}

func partitionByTier(pools []domain.PoolRecord) map[domain.RiskRating][]domain.PoolRecord {
	tiers := make(map[domain.RiskRating][]domain.PoolRecord, 3)
	for _, pool := range pools {
		pool.RiskRating = pool.RiskRating.Normalize()
		tiers[pool.RiskRating] = append(tiers[pool.RiskRating], pool)
	}
	return tiers
}

func sortedSymbols(balances domain.WalletBalances) []string {
	symbols := make([]string, 0, len(balances))
	for symbol := range balances {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}
