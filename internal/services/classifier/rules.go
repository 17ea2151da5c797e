package classifier

import (
	"context"
	"strings"

	"github.com/unwraplabs/tyrion/internal/domain"
)

// Keyword tables for the rule-based extractor. Matching is whole-word
// over the lower-cased statement.
var (
	riskAverseKeywords = []string{"risk averse", "risk-averse", "safe", "conservative", "minimal risk", "preserve", "low risk"}
	balancedKeywords   = []string{"balanced", "moderate", "middle ground", "medium risk"}
	aggressiveKeywords = []string{"aggressive", "risky", "high risk", "maximize", "highest apy"}

	auditedKeywords    = []string{"audited", "verified", "secure"}
	nonAuditedKeywords = []string{"unaudited", "unverified"}

	knownAssets = []string{"USDC", "ETH", "WBTC", "DAI", "STETH", "STRK", "XSTRK", "AVAX"}
)

// RuleClassifier is the deterministic fallback used when no LLM is
// configured or its reply cannot be parsed.
type RuleClassifier struct{}

// NewRuleClassifier creates a keyword-based classifier.
func NewRuleClassifier() *RuleClassifier {
	return &RuleClassifier{}
}

// Classify extracts the profile and criteria from keyword matches.
// It never fails; an uninformative statement yields the Balanced
// default with empty criteria.
func (r *RuleClassifier) Classify(_ context.Context, statement string) (Result, error) {
	lowered := strings.ToLower(statement)

	result := Result{Profile: domain.Balanced}

	// order matters: "low risk" marks a risk-averse user even though
	// "risk" alone appears in the aggressive table
	switch {
	case containsAny(lowered, riskAverseKeywords):
		result.Profile = domain.RiskAverse
		result.ProfileStated = true
	case containsAny(lowered, balancedKeywords):
		result.Profile = domain.Balanced
		result.ProfileStated = true
	case containsAny(lowered, aggressiveKeywords):
		result.Profile = domain.Aggressive
		result.ProfileStated = true
	}

	if containsAny(lowered, nonAuditedKeywords) {
		result.Criteria.AuditedOnly = false
	} else if containsAny(lowered, auditedKeywords) {
		result.Criteria.AuditedOnly = true
	}

	for _, symbol := range knownAssets {
		if containsWord(lowered, strings.ToLower(symbol)) {
			result.Criteria.Assets = append(result.Criteria.Assets, symbol)
		}
	}

	return result, nil
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if containsWord(s, kw) {
			return true
		}
	}
	return false
}

func containsWord(s, word string) bool {
	idx := 0
	for {
		i := strings.Index(s[idx:], word)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(word)
		beforeOK := start == 0 || !isWordChar(s[start-1])
		afterOK := end == len(s) || !isWordChar(s[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
