package classifier

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/unwraplabs/tyrion/internal/domain"
)

func TestParseReply(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  Result
	}{
		{
			name:  "plain json",
			reply: `{"risk_profile":"aggressive","filters":{"assets":["usdc","eth"],"min_apy":5}}`,
			want: Result{
				Profile:       domain.Aggressive,
				ProfileStated: true,
				Criteria:      domain.FilterCriteria{Assets: []string{"USDC", "ETH"}, MinApy: 5},
			},
		},
		{
			name: "json wrapped in markdown fences",
			reply: "```json\n" +
				`{"risk_profile":"risk averse","filters":{"audited_only":true}}` + "\n```",
			want: Result{
				Profile:       domain.RiskAverse,
				ProfileStated: true,
				Criteria:      domain.FilterCriteria{AuditedOnly: true},
			},
		},
		{
			name: "reasoning model think tags stripped",
			reply: "<think>the user sounds cautious {not json}</think>\n" +
				`{"risk_profile":"balanced","filters":{}}`,
			want: Result{Profile: domain.Balanced, ProfileStated: true},
		},
		{
			name:  "no stated preference defaults to balanced",
			reply: `{"risk_profile":"none","filters":{}}`,
			want:  Result{Profile: domain.Balanced, ProfileStated: false},
		},
		{
			name:  "unknown risk levels dropped, negatives clamped",
			reply: `{"risk_profile":"balanced","filters":{"risk_levels":["low","extreme"],"min_tvl":-5}}`,
			want: Result{
				Profile:       domain.Balanced,
				ProfileStated: true,
				Criteria:      domain.FilterCriteria{RiskLevels: []domain.RiskRating{domain.RiskLow}},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseReply(tc.reply)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestParseReplyRejectsGarbage(t *testing.T) {
	_, err := ParseReply("sorry, I cannot help with that")
	require.Error(t, err)
}

func TestRuleClassifier(t *testing.T) {
	rc := NewRuleClassifier()
	ctx := context.Background()

	tests := []struct {
		statement string
		profile   domain.RiskProfile
		stated    bool
		audited   bool
		assets    []string
	}{
		{
			statement: "Find me a conservative lending platform that supports USDC and ETH.",
			profile:   domain.RiskAverse,
			stated:    true,
			assets:    []string{"USDC", "ETH"},
		},
		{
			statement: "Show me moderate-risk verified yield farming protocols.",
			profile:   domain.Balanced,
			stated:    true,
			audited:   true,
		},
		{
			statement: "I want aggressive DeFi plays for my STRK.",
			profile:   domain.Aggressive,
			stated:    true,
			assets:    []string{"STRK"},
		},
		{
			statement: "What pools do you have?",
			profile:   domain.Balanced,
			stated:    false,
		},
		{
			statement: "I do not want to risk my funds, keep it safe please.",
			profile:   domain.RiskAverse,
			stated:    true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.statement, func(t *testing.T) {
			got, err := rc.Classify(ctx, tc.statement)
			require.NoError(t, err)
			require.Equal(t, tc.profile, got.Profile)
			require.Equal(t, tc.stated, got.ProfileStated)
			require.Equal(t, tc.audited, got.Criteria.AuditedOnly)
			require.Equal(t, tc.assets, got.Criteria.Assets)
		})
	}
}

type stubLLM struct {
	reply string
	err   error
}

func (s *stubLLM) Complete(context.Context, string, string) (string, error) {
	return s.reply, s.err
}

func TestLLMClassifierFallsBackOnError(t *testing.T) {
	c := NewLLMClassifier(&stubLLM{err: errors.New("connection refused")}, zap.NewNop())

	got, err := c.Classify(context.Background(), "keep my funds safe")
	require.NoError(t, err)
	require.Equal(t, domain.RiskAverse, got.Profile)
}

func TestLLMClassifierFallsBackOnGarbageReply(t *testing.T) {
	c := NewLLMClassifier(&stubLLM{reply: "I am a teapot"}, zap.NewNop())

	got, err := c.Classify(context.Background(), "I want aggressive returns")
	require.NoError(t, err)
	require.Equal(t, domain.Aggressive, got.Profile)
}

func TestLLMClassifierParsesReply(t *testing.T) {
	c := NewLLMClassifier(&stubLLM{reply: `{"risk_profile":"aggressive","filters":{"min_apy":8}}`}, zap.NewNop())

	got, err := c.Classify(context.Background(), "whatever")
	require.NoError(t, err)
	require.Equal(t, domain.Aggressive, got.Profile)
	require.Equal(t, 8.0, got.Criteria.MinApy)
}
