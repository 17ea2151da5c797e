package domain

import "strings"

// FilterCriteria user-derived hard constraints on the pool catalog.
// Every field is optional; the zero value means "no constraint".
type FilterCriteria struct {
	// AuditedOnly keep only audited pools.
	AuditedOnly bool `json:"audited_only,omitempty"`
	// Protocols allowed protocol names, empty means any.
	Protocols []string `json:"protocols,omitempty"`
	// RiskLevels allowed risk tiers, empty means any.
	RiskLevels []RiskRating `json:"risk_levels,omitempty"`
	// MinTvl minimum TVL in USD.
	MinTvl float64 `json:"min_tvl,omitempty"`
	// MinApy minimum APY in percent.
	MinApy float64 `json:"min_apy,omitempty"`
	// Assets allowed token symbols, empty means any.
	Assets []string `json:"assets,omitempty"`
}

// IsZero reports whether no constraint is set.
func (c FilterCriteria) IsZero() bool {
	return !c.AuditedOnly &&
		len(c.Protocols) == 0 &&
		len(c.RiskLevels) == 0 &&
		c.MinTvl == 0 &&
		c.MinApy == 0 &&
		len(c.Assets) == 0
}

// AllowsProtocol checks the protocol allow-list case-insensitively.
func (c FilterCriteria) AllowsProtocol(protocol string) bool {
	return len(c.Protocols) == 0 || containsFold(c.Protocols, protocol)
}

// AllowsAsset checks the asset allow-list case-insensitively.
func (c FilterCriteria) AllowsAsset(asset string) bool {
	return len(c.Assets) == 0 || containsFold(c.Assets, asset)
}

// AllowsRisk checks the risk tier allow-list.
func (c FilterCriteria) AllowsRisk(rating RiskRating) bool {
	if len(c.RiskLevels) == 0 {
		return true
	}
	for _, r := range c.RiskLevels {
		if strings.EqualFold(string(r), string(rating)) {
			return true
		}
	}
	return false
}

func containsFold(set []string, v string) bool {
	for _, s := range set {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}
