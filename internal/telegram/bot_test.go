package telegram

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/unwraplabs/tyrion/internal/domain"
	"github.com/unwraplabs/tyrion/internal/services/advisor"
)

type stubLLM struct {
	reply string
	err   error
	sys   string
	user  string
}

func (s *stubLLM) Complete(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	s.sys = systemPrompt
	s.user = userPrompt
	return s.reply, s.err
}

func TestNewBotRequiresToken(t *testing.T) {
	_, err := NewBot("", nil, nil, zap.NewNop())
	require.Error(t, err)
}

func TestRenderAdvice(t *testing.T) {
	leg := domain.AllocationLeg{
		Asset:             "USDC",
		Protocol:          "Vesu",
		PoolName:          "vUSDC",
		AllocatedAmount:   decimal.NewFromInt(700),
		PercentAllocation: decimal.NewFromInt(70),
		APY:               5.25,
		RiskRating:        domain.RiskLow,
	}
	advice := advisor.Advice{
		Profile: domain.RiskAverse,
		Plan: domain.InvestmentPlan{
			Assets: map[string][]domain.AllocationLeg{"USDC": {leg}},
			Flat:   []domain.AllocationLeg{leg},
		},
	}

	got := renderAdvice(advice)
	require.Contains(t, got, "Risk profile: risk averse")
	require.Contains(t, got, "1. Vesu vUSDC (USDC)")
	require.Contains(t, got, "Net APY: 5.25%")
	require.Contains(t, got, "Invest: 700 USDC (70.00%)")
}

func TestRenderAdviceEmptyPlan(t *testing.T) {
	got := renderAdvice(advisor.Advice{Plan: domain.NewInvestmentPlan()})
	require.Contains(t, got, "No investment opportunities found")
}

func sampleAdvice() advisor.Advice {
	leg := domain.AllocationLeg{
		Asset:             "USDC",
		Protocol:          "Vesu",
		PoolName:          "vUSDC",
		AllocatedAmount:   decimal.NewFromInt(700),
		PercentAllocation: decimal.NewFromInt(70),
		APY:               5.25,
		RiskRating:        domain.RiskLow,
	}
	return advisor.Advice{
		Profile: domain.RiskAverse,
		Plan: domain.InvestmentPlan{
			Assets: map[string][]domain.AllocationLeg{"USDC": {leg}},
			Flat:   []domain.AllocationLeg{leg},
		},
	}
}

func TestRenderReplyUsesLLM(t *testing.T) {
	llm := &stubLLM{reply: "Put 700 USDC into the Vesu vUSDC pool."}
	bot, err := NewBot("token", nil, llm, zap.NewNop())
	require.NoError(t, err)

	got := bot.renderReply(context.Background(), sampleAdvice())
	require.Equal(t, "Put 700 USDC into the Vesu vUSDC pool.", got)
	require.Contains(t, llm.user, "700 USDC")
	require.Contains(t, llm.user, "Vesu vUSDC")
	require.NotEmpty(t, llm.sys)
}

func TestRenderReplyFallsBackOnLLMError(t *testing.T) {
	bot, err := NewBot("token", nil, &stubLLM{err: errors.New("model down")}, zap.NewNop())
	require.NoError(t, err)

	got := bot.renderReply(context.Background(), sampleAdvice())
	require.Contains(t, got, "1. Vesu vUSDC (USDC)")
}

func TestRenderReplyWithoutLLM(t *testing.T) {
	bot, err := NewBot("token", nil, nil, zap.NewNop())
	require.NoError(t, err)

	got := bot.renderReply(context.Background(), sampleAdvice())
	require.Contains(t, got, "Risk profile: risk averse")
}

func TestRenderReplyEmptyPlanSkipsLLM(t *testing.T) {
	llm := &stubLLM{reply: "should not be used"}
	bot, err := NewBot("token", nil, llm, zap.NewNop())
	require.NoError(t, err)

	got := bot.renderReply(context.Background(), advisor.Advice{Plan: domain.NewInvestmentPlan()})
	require.Contains(t, got, "No investment opportunities found")
	require.Empty(t, llm.user)
}
