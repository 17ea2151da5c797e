// Package classifier turns a user's free-text statement into a typed
// risk profile and filter criteria. The LLM reply is validated at this
// boundary so the allocation engine never sees malformed JSON.
package classifier

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/unwraplabs/tyrion/internal/clients"
	"github.com/unwraplabs/tyrion/internal/domain"
	"github.com/unwraplabs/tyrion/internal/services/promptbuilder"
)

// Result is the typed outcome of classifying a statement.
type Result struct {
	// Profile the classified risk profile; Balanced when none was stated.
	Profile domain.RiskProfile
	// ProfileStated whether the statement actually expressed a preference.
	ProfileStated bool
	// Criteria hard constraints extracted from the statement.
	Criteria domain.FilterCriteria
}

// Classifier extracts a risk profile and filter criteria from free text.
type Classifier interface {
	Classify(ctx context.Context, statement string) (Result, error)
}

// LLMClassifier asks an LLM for the classification and falls back to
// keyword rules when the model is unreachable or replies with garbage.
type LLMClassifier struct {
	llm      clients.LLMClient
	prompts  *promptbuilder.PromptBuilder
	fallback *RuleClassifier
	logger   *zap.Logger
}

// NewLLMClassifier creates a classifier backed by the given LLM client.
func NewLLMClassifier(llm clients.LLMClient, logger *zap.Logger) *LLMClassifier {
	return &LLMClassifier{
		llm:      llm,
		prompts:  promptbuilder.NewPromptBuilder(),
		fallback: NewRuleClassifier(),
		logger:   logger,
	}
}

// Classify sends the statement to the model and parses the structured
// reply. Any model failure degrades to the rule-based extractor rather
// than failing the request.
func (c *LLMClassifier) Classify(ctx context.Context, statement string) (Result, error) {
	reply, err := c.llm.Complete(ctx, promptbuilder.SystemPrompt, c.prompts.BuildClassifyPrompt(statement))
	if err != nil {
		c.logger.Warn("LLM classification failed, using rule-based fallback", zap.Error(err))
		return c.fallback.Classify(ctx, statement)
	}

	result, err := ParseReply(reply)
	if err != nil {
		c.logger.Warn("unparseable LLM classification reply, using rule-based fallback",
			zap.Error(err), zap.String("reply", reply))
		return c.fallback.Classify(ctx, statement)
	}
	return result, nil
}

// llmReply mirrors the JSON contract in promptbuilder.SystemPrompt.
type llmReply struct {
	RiskProfile string `json:"risk_profile"`
	Filters     struct {
		AuditedOnly bool     `json:"audited_only"`
		Protocols   []string `json:"protocols"`
		RiskLevels  []string `json:"risk_levels"`
		MinTvl      float64  `json:"min_tvl"`
		MinApy      float64  `json:"min_apy"`
		Assets      []string `json:"assets"`
	} `json:"filters"`
}

var thinkTagRe = regexp.MustCompile(`(?s)<think>.*?</think>`)

// ParseReply validates a raw model reply into a Result. Reasoning-model
// think tags and markdown fences around the JSON object are tolerated.
func ParseReply(reply string) (Result, error) {
	cleaned := thinkTagRe.ReplaceAllString(reply, "")

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		return Result{}, errors.New("reply contains no JSON object")
	}

	var parsed llmReply
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &parsed); err != nil {
		return Result{}, errors.Wrap(err, "decode classification reply")
	}

	profile, stated := domain.ParseRiskProfile(parsed.RiskProfile)

	criteria := domain.FilterCriteria{
		AuditedOnly: parsed.Filters.AuditedOnly,
		Protocols:   trimAll(parsed.Filters.Protocols),
		MinTvl:      clampNonNegative(parsed.Filters.MinTvl),
		MinApy:      clampNonNegative(parsed.Filters.MinApy),
		Assets:      upperAll(parsed.Filters.Assets),
	}
	for _, level := range parsed.Filters.RiskLevels {
		rating, ok := domain.ParseRiskRating(level)
		if !ok {
			continue
		}
		criteria.RiskLevels = append(criteria.RiskLevels, rating)
	}

	return Result{Profile: profile, ProfileStated: stated, Criteria: criteria}, nil
}

func clampNonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func trimAll(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func upperAll(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.ToUpper(strings.TrimSpace(v)); v != "" {
			out = append(out, v)
		}
	}
	return out
}
