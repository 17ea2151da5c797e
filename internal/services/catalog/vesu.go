package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/unwraplabs/tyrion/internal/domain"
	"github.com/unwraplabs/tyrion/pkg/retrier"
)

const vesuProtocol = "Vesu"

// VesuClient fetches the pool catalog from a Vesu-style lending API.
// The API nests assets under pools and encodes rates as scaled big
// integers (value plus decimals).
type VesuClient struct {
	apiURL     string
	httpClient *http.Client
	retrier    *retrier.Retrier
	logger     *zap.Logger
}

func NewVesuClient(apiURL string, logger *zap.Logger) *VesuClient {
	return &VesuClient{
		apiURL: apiURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		retrier: retrier.New(
			retrier.WithAttempts(3),
			retrier.WithInitialInterval(2*time.Second),
		),
		logger: logger,
	}
}

// Pools fetches the catalog and flattens it to pool records. Assets
// without stats are skipped. Net APY is supply APY plus the incentive
// APR, expressed in percent.
func (c *VesuClient) Pools(ctx context.Context) ([]domain.PoolRecord, error) {
	if c.apiURL == "" {
		return nil, errors.New("vesu api url is not configured")
	}

	doc, err := retrier.DoWithData(c.retrier, ctx, c.fetch)
	if err != nil {
		return nil, errors.Wrap(err, "fetch vesu catalog")
	}

	var records []domain.PoolRecord
	for _, pool := range doc.Data {
		for _, asset := range pool.Assets {
			if asset.Stats == nil {
				continue
			}

			rating, ok := domain.ParseRiskRating(asset.RiskRating)
			if !ok {
				rating = domain.RiskMedium
			}

			poolName := asset.VToken.Name
			if poolName == "" {
				poolName = pool.Name
			}

			netApy := (asset.Stats.SupplyApy.float() + asset.Stats.DefiSpringSupplyApr.float()) * 100
			tvl := asset.Stats.TotalSupplied.float() * asset.Stats.UsdPrice.float()

			records = append(records, domain.PoolRecord{
				Protocol:   vesuProtocol,
				PoolName:   poolName,
				Asset:      asset.Symbol,
				APY:        netApy,
				RiskRating: rating,
				TvlUsd:     tvl,
				IsAudited:  pool.IsVerified,
			})
		}
	}

	c.logger.Debug("vesu catalog fetched", zap.Int("pools", len(records)))

	return records, nil
}

func (c *VesuClient) fetch(ctx context.Context) (vesuDocument, error) {
	var doc vesuDocument

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL, nil)
	if err != nil {
		return doc, errors.Wrap(err, "create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return doc, errors.Wrap(err, "send request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return doc, fmt.Errorf("vesu api returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return doc, errors.Wrap(err, "decode response")
	}

	return doc, nil
}

type vesuDocument struct {
	Data []vesuPool `json:"data"`
}

type vesuPool struct {
	Name       string      `json:"name"`
	IsVerified bool        `json:"isVerified"`
	Assets     []vesuAsset `json:"assets"`
}

type vesuAsset struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	VToken struct {
		Name string `json:"name"`
	} `json:"vToken"`
	RiskRating string     `json:"riskRating"`
	Stats      *vesuStats `json:"stats"`
}

type vesuStats struct {
	SupplyApy           *vesuScaled `json:"supplyApy"`
	DefiSpringSupplyApr *vesuScaled `json:"defiSpringSupplyApr"`
	TotalSupplied       *vesuScaled `json:"totalSupplied"`
	UsdPrice            *vesuScaled `json:"usdPrice"`
}

// vesuScaled is a big integer scaled by a decimals exponent.
// The API omits decimals on some fields, 18 is the documented default.
type vesuScaled struct {
	Value    string `json:"value"`
	Decimals *int32 `json:"decimals"`
}

func (s *vesuScaled) float() float64 {
	if s == nil || s.Value == "" {
		return 0
	}
	d, err := decimal.NewFromString(s.Value)
	if err != nil {
		return 0
	}
	decimals := int32(18)
	if s.Decimals != nil {
		decimals = *s.Decimals
	}
	f, _ := d.Shift(-decimals).Float64()
	return f
}
