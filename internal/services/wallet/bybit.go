package wallet

import (
	"context"
	"strings"

	"github.com/hirokisan/bybit/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/unwraplabs/tyrion/internal/domain"
)

// BybitProvider reads balances from a Bybit unified trading account.
type BybitProvider struct {
	client *bybit.Client
	logger *zap.Logger
}

func NewBybitProvider(client *bybit.Client, logger *zap.Logger) *BybitProvider {
	return &BybitProvider{client: client, logger: logger}
}

func (p *BybitProvider) Balances(_ context.Context, _ string) (domain.WalletBalances, error) {
	res, err := p.client.V5().Account().GetWalletBalance(bybit.AccountTypeV5("UNIFIED"), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get bybit wallet balance")
	}
	if len(res.Result.List) == 0 {
		return domain.WalletBalances{}, nil
	}

	balances := make(domain.WalletBalances)
	for _, coin := range res.Result.List[0].Coin {
		amount, err := decimal.NewFromString(coin.WalletBalance)
		if err != nil {
			p.logger.Warn("skipping unparsable bybit balance",
				zap.String("coin", string(coin.Coin)), zap.String("balance", coin.WalletBalance))
			continue
		}
		if amount.IsZero() {
			continue
		}
		balances[strings.ToUpper(string(coin.Coin))] = amount
	}

	return balances, nil
}
