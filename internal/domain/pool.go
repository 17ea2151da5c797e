// Package domain defines core data structures used throughout the advisor.
package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RiskRating coarse risk bucket assigned to a pool.
type RiskRating string

const (
	// RiskLow low-risk pool.
	RiskLow RiskRating = "low"
	// RiskMedium medium-risk pool.
	RiskMedium RiskRating = "medium"
	// RiskHigh high-risk pool.
	RiskHigh RiskRating = "high"
)

// ParseRiskRating parses a risk rating string case-insensitively.
func ParseRiskRating(s string) (RiskRating, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return RiskLow, true
	case "medium":
		return RiskMedium, true
	case "high":
		return RiskHigh, true
	}
	return "", false
}

// String returns the string representation.
func (r RiskRating) String() string {
	return string(r)
}

// IsValid checks if the RiskRating names a known tier, in any case.
func (r RiskRating) IsValid() bool {
	_, ok := ParseRiskRating(string(r))
	return ok
}

// Normalize returns the canonical lowercase rating. Unknown values are
// returned unchanged so Validate can report them.
func (r RiskRating) Normalize() RiskRating {
	if parsed, ok := ParseRiskRating(string(r)); ok {
		return parsed
	}
	return r
}

// UnmarshalJSON canonicalizes the rating case at decode time.
func (r *RiskRating) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*r = RiskRating(s).Normalize()
	return nil
}

// PoolKey identifies a pool within a protocol. Two allocation legs landing
// in the same key for the same asset are merged into one.
type PoolKey struct {
	Protocol string
	PoolName string
}

// PoolRecord one yield opportunity in the catalog.
type PoolRecord struct {
	// Protocol protocol identifier, e.g. "Vesu".
	Protocol string `json:"protocol"`
	// PoolName pool or strategy name within the protocol.
	PoolName string `json:"pool_name"`
	// Asset token symbol the pool accepts.
	Asset string `json:"asset"`
	// APY annualized percentage yield, net of incentive yield.
	APY float64 `json:"net_apy"`
	// RiskRating low, medium or high.
	RiskRating RiskRating `json:"risk_rating"`
	// TvlUsd total value locked in USD.
	TvlUsd float64 `json:"tvl_usd"`
	// IsAudited whether the pool's contracts are audited.
	IsAudited bool `json:"is_audited"`
}

// Key returns the merge key for the record.
func (p PoolRecord) Key() PoolKey {
	return PoolKey{Protocol: p.Protocol, PoolName: p.PoolName}
}

// Validate reports whether the record carries the fields needed to
// evaluate it. Malformed records are skipped by the filter, not fatal.
func (p PoolRecord) Validate() error {
	if strings.TrimSpace(p.Asset) == "" {
		return fmt.Errorf("pool record %s/%s is missing asset", p.Protocol, p.PoolName)
	}
	if p.APY < 0 {
		return fmt.Errorf("pool record %s/%s has negative apy %f", p.Protocol, p.PoolName, p.APY)
	}
	if p.TvlUsd < 0 {
		return fmt.Errorf("pool record %s/%s has negative tvl %f", p.Protocol, p.PoolName, p.TvlUsd)
	}
	if !p.RiskRating.IsValid() {
		return fmt.Errorf("pool record %s/%s has unknown risk rating %q", p.Protocol, p.PoolName, p.RiskRating)
	}
	return nil
}
