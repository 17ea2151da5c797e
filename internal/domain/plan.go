package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AllocationLeg placement of part of an asset's balance into one pool.
type AllocationLeg struct {
	// Asset token symbol this leg allocates.
	Asset string `json:"asset"`
	// Protocol protocol identifier of the destination pool.
	Protocol string `json:"protocol"`
	// PoolName destination pool name.
	PoolName string `json:"pool_name"`
	// AllocatedAmount amount in the asset's native units.
	AllocatedAmount decimal.Decimal `json:"allocated_amount"`
	// PercentAllocation share of the asset's balance, 0-100.
	PercentAllocation decimal.Decimal `json:"percent_allocation"`
	// APY of the destination pool in percent.
	APY float64 `json:"net_apy"`
	// RiskRating of the destination pool.
	RiskRating RiskRating `json:"risk_rating"`
	// IsAudited whether the destination pool is audited.
	IsAudited bool `json:"is_audited"`
	// TvlUsd TVL of the destination pool in USD.
	TvlUsd float64 `json:"tvl_usd"`
}

// String returns a human-readable string representation.
func (l *AllocationLeg) String() string {
	return fmt.Sprintf("%s -> %s/%s amount: %s (%s%%)",
		l.Asset, l.Protocol, l.PoolName, l.AllocatedAmount.String(), l.PercentAllocation.String())
}

// InvestmentPlan the full allocation result: per-asset ordered legs plus
// a flattened view for client consumption, in discovery order.
type InvestmentPlan struct {
	Assets map[string][]AllocationLeg `json:"assets"`
	Flat   []AllocationLeg            `json:"flat"`
}

// NewInvestmentPlan creates an empty plan.
func NewInvestmentPlan() InvestmentPlan {
	return InvestmentPlan{Assets: make(map[string][]AllocationLeg)}
}

// IsEmpty reports whether no asset received any allocation.
func (p InvestmentPlan) IsEmpty() bool {
	return len(p.Assets) == 0
}
