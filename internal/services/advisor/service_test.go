package advisor

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/unwraplabs/tyrion/internal/domain"
	"github.com/unwraplabs/tyrion/internal/services/classifier"
)

type stubCatalog struct {
	records []domain.PoolRecord
	err     error
}

func (s *stubCatalog) Pools(context.Context) ([]domain.PoolRecord, error) {
	return s.records, s.err
}

type stubWallet struct {
	balances domain.WalletBalances
	err      error
	account  string
}

func (s *stubWallet) Balances(_ context.Context, account string) (domain.WalletBalances, error) {
	s.account = account
	return s.balances, s.err
}

type stubClassifier struct {
	result classifier.Result
	err    error
}

func (s *stubClassifier) Classify(context.Context, string) (classifier.Result, error) {
	return s.result, s.err
}

func TestServiceAdviseWithInlineBalances(t *testing.T) {
	source := &stubCatalog{records: testCatalog()}
	cls := &stubClassifier{result: classifier.Result{
		Profile:       domain.RiskAverse,
		ProfileStated: true,
		Criteria:      domain.FilterCriteria{AuditedOnly: true},
	}}

	svc := NewService(NewEngine(zap.NewNop()), cls, nil, source, zap.NewNop())

	advice, err := svc.Advise(context.Background(), AdviceRequest{
		Statement: "keep it safe",
		Balances:  domain.WalletBalances{"USDC": decimal.NewFromInt(1000)},
	})
	require.NoError(t, err)
	require.NotEmpty(t, advice.RequestID)
	require.Equal(t, domain.RiskAverse, advice.Profile)
	require.False(t, advice.Plan.IsEmpty())
	for _, record := range advice.Eligible {
		require.True(t, record.IsAudited)
	}
}

func TestServiceAdviseUsesWalletProvider(t *testing.T) {
	source := &stubCatalog{records: testCatalog()}
	provider := &stubWallet{balances: domain.WalletBalances{"USDC": decimal.NewFromInt(500)}}

	svc := NewService(NewEngine(zap.NewNop()), nil, provider, source, zap.NewNop())

	advice, err := svc.Advise(context.Background(), AdviceRequest{Account: "0xabc"})
	require.NoError(t, err)
	require.Equal(t, "0xabc", provider.account)
	require.Equal(t, domain.Balanced, advice.Profile, "no statement means default profile")
	require.False(t, advice.Plan.IsEmpty())
}

func TestServiceAdviseEmptyPlanIsNotError(t *testing.T) {
	source := &stubCatalog{records: nil}
	svc := NewService(NewEngine(zap.NewNop()), nil, nil, source, zap.NewNop())

	advice, err := svc.Advise(context.Background(), AdviceRequest{
		Balances: domain.WalletBalances{"USDC": decimal.NewFromInt(100)},
	})
	require.NoError(t, err)
	require.True(t, advice.Plan.IsEmpty())
}

func TestServiceAdviseNoBalanceSource(t *testing.T) {
	svc := NewService(NewEngine(zap.NewNop()), nil, nil, &stubCatalog{}, zap.NewNop())

	_, err := svc.Advise(context.Background(), AdviceRequest{Account: "0xabc"})
	require.Error(t, err)
}

func TestServiceAdviseCatalogFailure(t *testing.T) {
	source := &stubCatalog{err: errors.New("api down")}
	svc := NewService(NewEngine(zap.NewNop()), nil, nil, source, zap.NewNop())

	_, err := svc.Advise(context.Background(), AdviceRequest{
		Balances: domain.WalletBalances{"USDC": decimal.NewFromInt(100)},
	})
	require.Error(t, err)
}

func TestServicePools(t *testing.T) {
	source := &stubCatalog{records: testCatalog()}
	svc := NewService(NewEngine(zap.NewNop()), nil, nil, source, zap.NewNop())

	got, err := svc.Pools(context.Background(), domain.FilterCriteria{MinApy: 100})
	require.NoError(t, err)
	require.Empty(t, got)

	all, err := svc.Pools(context.Background(), domain.FilterCriteria{})
	require.NoError(t, err)
	require.Len(t, all, len(testCatalog()))
}
