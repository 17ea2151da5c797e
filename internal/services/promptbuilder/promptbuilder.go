// Package promptbuilder generates prompts for the classification and
// reply-rendering LLM calls.
package promptbuilder

import (
	"fmt"
	"strings"

	"github.com/unwraplabs/tyrion/internal/domain"
)

// PromptBuilder formats user statements and allocation results into
// prompts for LLM consumption.
type PromptBuilder struct{}

// NewPromptBuilder creates a new prompt builder instance.
func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildClassifyPrompt wraps the user's free-text statement for the
// risk/filter extraction call.
func (b *PromptBuilder) BuildClassifyPrompt(statement string) string {
	var sb strings.Builder
	sb.WriteString("Analyze the following user statement and extract the risk appetite and filters.\n\n")
	sb.WriteString("User statement: ")
	sb.WriteString(strings.TrimSpace(statement))
	return sb.String()
}

// BuildReplyPrompt asks the model to render an allocation plan as a short
// human-readable message, used by the chat front ends.
func (b *PromptBuilder) BuildReplyPrompt(plan domain.InvestmentPlan) string {
	var sb strings.Builder
	sb.WriteString("Rewrite the following investment plan for the user in a concise, human way, without markdown. ")
	sb.WriteString("Keep every number exactly as given.\n\n")
	if plan.IsEmpty() {
		sb.WriteString("No investment opportunities matched the user's wallet and constraints.")
		return sb.String()
	}
	for _, leg := range plan.Flat {
		sb.WriteString(fmt.Sprintf("- %s: put %s %s (%s%%) into %s %s (APY %.2f%%, risk %s)\n",
			leg.Asset,
			leg.AllocatedAmount.String(),
			leg.Asset,
			leg.PercentAllocation.String(),
			leg.Protocol,
			leg.PoolName,
			leg.APY,
			leg.RiskRating,
		))
	}
	return sb.String()
}
