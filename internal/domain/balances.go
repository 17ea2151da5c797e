package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// WalletBalances maps token symbols to balances in native units,
// already decimal-adjusted by the balance provider.
type WalletBalances map[string]decimal.Decimal

// Normalized validates the balances and returns a copy with zero-balance
// entries dropped and symbols upper-cased. A negative balance is a
// structural input error and aborts the call.
func (b WalletBalances) Normalized() (WalletBalances, error) {
	out := make(WalletBalances, len(b))
	for symbol, amount := range b {
		symbol = strings.ToUpper(strings.TrimSpace(symbol))
		if symbol == "" {
			return nil, fmt.Errorf("wallet balance with empty symbol")
		}
		if amount.IsNegative() {
			return nil, fmt.Errorf("negative balance %s for %s", amount.String(), symbol)
		}
		if amount.IsZero() {
			continue
		}
		out[symbol] = amount
	}
	return out, nil
}
