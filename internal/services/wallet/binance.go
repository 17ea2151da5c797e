package wallet

import (
	"context"
	"strings"

	"github.com/adshao/go-binance/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/unwraplabs/tyrion/internal/domain"
)

// BinanceProvider reads spot balances from a Binance account.
// The account argument is ignored, the API key already scopes the account.
type BinanceProvider struct {
	client *binance.Client
	logger *zap.Logger
}

func NewBinanceProvider(client *binance.Client, logger *zap.Logger) *BinanceProvider {
	return &BinanceProvider{client: client, logger: logger}
}

func (p *BinanceProvider) Balances(ctx context.Context, _ string) (domain.WalletBalances, error) {
	account, err := p.client.NewGetAccountService().Do(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get binance account balance")
	}

	balances := make(domain.WalletBalances)
	for _, b := range account.Balances {
		amount, err := decimal.NewFromString(b.Free)
		if err != nil {
			p.logger.Warn("skipping unparsable binance balance",
				zap.String("asset", b.Asset), zap.String("free", b.Free))
			continue
		}
		if amount.IsZero() {
			continue
		}
		balances[strings.ToUpper(b.Asset)] = amount
	}

	return balances, nil
}
