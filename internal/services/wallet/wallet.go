// Package wallet provides balance providers: given an account
// identifier they return the wallet's token balances, decimal-adjusted
// and filtered to non-zero entries.
package wallet

import (
	"context"

	"github.com/unwraplabs/tyrion/internal/domain"
)

// BalanceProvider returns the balances held by an account.
// Implementations must drop zero balances and never return negatives.
type BalanceProvider interface {
	Balances(ctx context.Context, account string) (domain.WalletBalances, error)
}

// Token describes one ERC-20 token tracked by the on-chain provider.
type Token struct {
	// Symbol token symbol used as the balance key.
	Symbol string `yaml:"symbol"`
	// Address token contract address.
	Address string `yaml:"address"`
	// Decimals token decimal places for unit adjustment.
	Decimals int32 `yaml:"decimals"`
}

// DefaultTokens is the registry used when the config lists none.
var DefaultTokens = []Token{
	{Symbol: "USDC", Address: "0xaf88d065e77c8cC2239327C5EDb3A432268e5831", Decimals: 6},
	{Symbol: "WETH", Address: "0x82aF49447D8a07e3bd95BD0d56f35241523fBab1", Decimals: 18},
	{Symbol: "DAI", Address: "0xDA10009cBd5D07dd0CeCc66161FC93D7c9000da1", Decimals: 18},
}
