package wallet

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/unwraplabs/tyrion/internal/domain"
)

const erc20BalanceOfABI = `[{"constant":true,"inputs":[{"name":"_owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"balance","type":"uint256"}],"type":"function"}]`

// EthereumProvider reads ERC-20 balances for a configured token registry
// straight from an RPC node.
type EthereumProvider struct {
	client       *ethclient.Client
	tokens       []Token
	erc20        abi.ABI
	defaultOwner string
	logger       *zap.Logger
}

// NewEthereumProvider dials the RPC endpoint and prepares the provider.
// defaultOwner is used when a balance request names no account.
func NewEthereumProvider(rpcURL string, defaultOwner string, tokens []Token, logger *zap.Logger) (*EthereumProvider, error) {
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, errors.Wrapf(err, "dial ethereum rpc %s", rpcURL)
	}

	parsed, err := abi.JSON(strings.NewReader(erc20BalanceOfABI))
	if err != nil {
		return nil, errors.Wrap(err, "parse erc20 abi")
	}

	if len(tokens) == 0 {
		tokens = DefaultTokens
	}

	return &EthereumProvider{
		client:       client,
		tokens:       tokens,
		erc20:        parsed,
		defaultOwner: defaultOwner,
		logger:       logger,
	}, nil
}

// Balances calls balanceOf for every registered token. A failing token
// read is logged and skipped so one flaky contract doesn't hide the rest
// of the wallet.
func (p *EthereumProvider) Balances(ctx context.Context, account string) (domain.WalletBalances, error) {
	if account == "" {
		account = p.defaultOwner
	}
	if !common.IsHexAddress(account) {
		return nil, fmt.Errorf("invalid wallet address %q", account)
	}
	owner := common.HexToAddress(account)

	calldata, err := p.erc20.Pack("balanceOf", owner)
	if err != nil {
		return nil, errors.Wrap(err, "pack balanceOf call")
	}

	balances := make(domain.WalletBalances, len(p.tokens))
	for _, token := range p.tokens {
		if !common.IsHexAddress(token.Address) {
			p.logger.Warn("skipping token with invalid contract address",
				zap.String("symbol", token.Symbol), zap.String("address", token.Address))
			continue
		}
		contract := common.HexToAddress(token.Address)

		out, err := p.client.CallContract(ctx, ethereum.CallMsg{To: &contract, Data: calldata}, nil)
		if err != nil {
			p.logger.Warn("failed to read token balance",
				zap.String("symbol", token.Symbol), zap.Error(err))
			continue
		}

		raw := new(big.Int).SetBytes(out)
		amount := decimal.NewFromBigInt(raw, -token.Decimals)
		if amount.IsZero() {
			continue
		}
		balances[strings.ToUpper(token.Symbol)] = amount
	}

	return balances, nil
}

// Close releases the underlying RPC connection.
func (p *EthereumProvider) Close() {
	p.client.Close()
}
