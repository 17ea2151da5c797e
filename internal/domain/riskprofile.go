package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// RiskProfile user-level risk preference driving the tier-weight split.
type RiskProfile string

const (
	// RiskAverse 70% low, 30% medium, 0% high.
	RiskAverse RiskProfile = "risk averse"
	// Balanced 50% low, 40% medium, 10% high.
	Balanced RiskProfile = "balanced"
	// Aggressive 30% low, 40% medium, 30% high.
	Aggressive RiskProfile = "aggressive"
)

// String returns the string representation.
func (p RiskProfile) String() string {
	return string(p)
}

// IsValid checks if the RiskProfile value is valid.
func (p RiskProfile) IsValid() bool {
	return p == RiskAverse || p == Balanced || p == Aggressive
}

// ParseRiskProfile parses a profile string case-insensitively.
// Unknown or empty input maps to Balanced, reported via ok=false.
func ParseRiskProfile(s string) (RiskProfile, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "risk averse", "risk-averse", "riskaverse", "conservative":
		return RiskAverse, true
	case "balanced", "moderate":
		return Balanced, true
	case "aggressive":
		return Aggressive, true
	}
	return Balanced, false
}

// TierWeight fraction of an asset's balance targeted at one risk tier.
type TierWeight struct {
	Tier   RiskRating
	Weight decimal.Decimal
}

// TierWeights returns the tier-weight table for the profile in fixed
// low, medium, high order. Unknown profiles fall back to Balanced.
func (p RiskProfile) TierWeights() []TierWeight {
	low, medium, high := "0.5", "0.4", "0.1"
	switch p {
	case RiskAverse:
		low, medium, high = "0.7", "0.3", "0"
	case Aggressive:
		low, medium, high = "0.3", "0.4", "0.3"
	}
	return []TierWeight{
		{Tier: RiskLow, Weight: decimal.RequireFromString(low)},
		{Tier: RiskMedium, Weight: decimal.RequireFromString(medium)},
		{Tier: RiskHigh, Weight: decimal.RequireFromString(high)},
	}
}
