package wallet

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	hyperliquid "github.com/sonirico/go-hyperliquid"
	"go.uber.org/zap"

	"github.com/unwraplabs/tyrion/internal/domain"
)

// HyperliquidProvider reads spot balances from Hyperliquid. The account
// argument overrides the address derived from the configured key when set.
type HyperliquidProvider struct {
	info        *hyperliquid.Info
	accountAddr string
	logger      *zap.Logger
}

func NewHyperliquidProvider(ex *hyperliquid.Exchange, accountAddr string, logger *zap.Logger) (*HyperliquidProvider, error) {
	if ex == nil {
		return nil, errors.New("hyperliquid exchange is nil")
	}
	return &HyperliquidProvider{
		info:        ex.Info(),
		accountAddr: accountAddr,
		logger:      logger,
	}, nil
}

func (p *HyperliquidProvider) Balances(ctx context.Context, account string) (domain.WalletBalances, error) {
	addr := p.accountAddr
	if account != "" {
		addr = account
	}

	st, err := p.info.SpotUserState(ctx, addr)
	if err != nil {
		return nil, errors.Wrap(err, "get spot user state")
	}

	balances := make(domain.WalletBalances)
	for _, b := range st.Balances {
		amount, err := decimal.NewFromString(b.Total)
		if err != nil {
			p.logger.Warn("skipping unparsable hyperliquid balance",
				zap.String("coin", b.Coin), zap.String("total", b.Total))
			continue
		}
		if amount.IsZero() {
			continue
		}
		balances[strings.ToUpper(b.Coin)] = amount
	}

	return balances, nil
}
