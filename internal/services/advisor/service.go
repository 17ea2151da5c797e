package advisor

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/unwraplabs/tyrion/internal/domain"
	"github.com/unwraplabs/tyrion/internal/services/catalog"
	"github.com/unwraplabs/tyrion/internal/services/classifier"
	"github.com/unwraplabs/tyrion/internal/services/wallet"
)

// AdviceRequest is one advice query. Inline balances take precedence
// over the account lookup; the statement is free-form user text.
type AdviceRequest struct {
	Statement string
	Account   string
	Balances  domain.WalletBalances
}

// Advice is the outcome of one advice query. An empty plan is a valid
// outcome, not an error.
type Advice struct {
	RequestID string
	Profile   domain.RiskProfile
	Criteria  domain.FilterCriteria
	Eligible  []domain.PoolRecord
	Plan      domain.InvestmentPlan
}

// Service wires the classifier, the wallet and the catalog into the
// allocation engine.
type Service struct {
	engine     *Engine
	classifier classifier.Classifier
	wallet     wallet.BalanceProvider
	catalog    catalog.Source
	logger     *zap.Logger
}

func NewService(engine *Engine, cls classifier.Classifier, provider wallet.BalanceProvider, source catalog.Source, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		engine:     engine,
		classifier: cls,
		wallet:     provider,
		catalog:    source,
		logger:     logger,
	}
}

// Advise runs the full pipeline: balances, classification, catalog
// filtering, allocation.
func (s *Service) Advise(ctx context.Context, req AdviceRequest) (Advice, error) {
	requestID := uuid.NewString()
	logger := s.logger.With(zap.String("request_id", requestID))

	balances := req.Balances
	if balances == nil {
		if s.wallet == nil {
			return Advice{}, errors.New("no balances provided and no wallet provider configured")
		}
		var err error
		balances, err = s.wallet.Balances(ctx, req.Account)
		if err != nil {
			return Advice{}, errors.Wrap(err, "fetch wallet balances")
		}
	}

	profile := domain.Balanced
	criteria := domain.FilterCriteria{}
	if s.classifier != nil && req.Statement != "" {
		result, err := s.classifier.Classify(ctx, req.Statement)
		if err != nil {
			return Advice{}, errors.Wrap(err, "classify statement")
		}
		profile = result.Profile
		criteria = result.Criteria
		logger.Debug("statement classified",
			zap.String("profile", string(result.Profile)),
			zap.Bool("stated", result.ProfileStated))
	}

	pools, err := s.catalog.Pools(ctx)
	if err != nil {
		return Advice{}, errors.Wrap(err, "load pool catalog")
	}

	eligible := s.engine.FilterPools(pools, criteria)

	plan, err := s.engine.Allocate(balances, profile, eligible)
	if err != nil {
		return Advice{}, errors.Wrap(err, "allocate")
	}

	logger.Info("advice computed",
		zap.String("profile", string(profile)),
		zap.Int("catalog", len(pools)),
		zap.Int("eligible", len(eligible)),
		zap.Int("legs", len(plan.Flat)))

	return Advice{
		RequestID: requestID,
		Profile:   profile,
		Criteria:  criteria,
		Eligible:  eligible,
		Plan:      plan,
	}, nil
}

// Pools returns the catalog filtered by the given criteria.
func (s *Service) Pools(ctx context.Context, criteria domain.FilterCriteria) ([]domain.PoolRecord, error) {
	pools, err := s.catalog.Pools(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load pool catalog")
	}
	return s.engine.FilterPools(pools, criteria), nil
}
