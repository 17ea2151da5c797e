package wallet

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/unwraplabs/tyrion/internal/domain"
)

// StaticProvider serves a fixed balance set. Used for dry runs and for
// requests that carry inline balances instead of an account reference.
type StaticProvider struct {
	balances domain.WalletBalances
}

func NewStaticProvider(balances map[string]decimal.Decimal) *StaticProvider {
	return &StaticProvider{balances: domain.WalletBalances(balances)}
}

func (p *StaticProvider) Balances(_ context.Context, _ string) (domain.WalletBalances, error) {
	out := make(domain.WalletBalances, len(p.balances))
	for symbol, amount := range p.balances {
		out[symbol] = amount
	}
	return out, nil
}
