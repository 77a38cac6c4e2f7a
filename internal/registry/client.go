// Package registry fetches pool metadata from the Curve pools API.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"curvescope/internal/chain"
	"curvescope/internal/model"
)

const defaultBaseURL = "https://api.curve.fi/api"

// Registry pool types exposed by the getPools endpoint.
var poolTypes = []string{"main", "crypto", "factory", "factory-crypto"}

// Client talks to the Curve pools API.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	maxRetries   int
	retryBackoff time.Duration
	logger       *zap.Logger
}

// NewClient creates a registry client. An empty baseURL falls back to the
// public Curve API.
func NewClient(baseURL string, maxRetries int, retryBackoff time.Duration, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		maxRetries:   maxRetries,
		retryBackoff: retryBackoff,
		logger:       logger,
	}
}

type poolCoinPayload struct {
	Address           string          `json:"address"`
	Symbol            string          `json:"symbol"`
	Decimals          json.Number     `json:"decimals"`
	UsdPrice          decimal.Decimal `json:"usdPrice"`
	PoolBalance       string          `json:"poolBalance"`
	IsBasePoolLpToken bool            `json:"isBasePoolLpToken"`
}

type poolPayload struct {
	Address       string            `json:"address"`
	Name          string            `json:"name"`
	AssetTypeName string            `json:"assetTypeName"`
	IsMetaPool    bool              `json:"isMetaPool"`
	UsdTotal      decimal.Decimal   `json:"usdTotal"`
	Coins         []poolCoinPayload `json:"coins"`
}

type poolsResponse struct {
	Success bool `json:"success"`
	Data    struct {
		PoolData []poolPayload `json:"poolData"`
	} `json:"data"`
}

// FetchPools loads every pool of the network across all registry pool types.
// Coin order is preserved as returned, it is the pool's coin index space.
func (c *Client) FetchPools(ctx context.Context, network string) ([]model.PoolMetadata, error) {
	var pools []model.PoolMetadata
	for _, poolType := range poolTypes {
		page, err := c.fetchPoolType(ctx, network, poolType)
		if err != nil {
			return nil, fmt.Errorf("fetch %s/%s pools: %w", network, poolType, err)
		}
		pools = append(pools, page...)
	}
	return pools, nil
}

func (c *Client) fetchPoolType(ctx context.Context, network, poolType string) ([]model.PoolMetadata, error) {
	url := fmt.Sprintf("%s/getPools/%s/%s", c.baseURL, network, poolType)

	var payload poolsResponse
	err := chain.WithRetry(ctx, c.maxRetries, c.retryBackoff, func(ctx context.Context) error {
		c.logger.Debug("registry request", zap.String("url", url))
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		payload = poolsResponse{}
		return json.Unmarshal(body, &payload)
	})
	if err != nil {
		return nil, err
	}
	if !payload.Success {
		return nil, fmt.Errorf("registry reported failure")
	}

	pools := make([]model.PoolMetadata, 0, len(payload.Data.PoolData))
	for _, p := range payload.Data.PoolData {
		meta, err := toMetadata(network, p)
		if err != nil {
			c.logger.Warn("skip pool", zap.String("pool", p.Address), zap.Error(err))
			continue
		}
		pools = append(pools, meta)
	}
	return pools, nil
}

func toMetadata(network string, p poolPayload) (model.PoolMetadata, error) {
	assetType, err := model.ParseAssetType(p.AssetTypeName)
	if err != nil {
		return model.PoolMetadata{}, err
	}

	coins := make([]model.PoolCoin, 0, len(p.Coins))
	for _, coin := range p.Coins {
		decimals, err := strconv.ParseInt(coin.Decimals.String(), 10, 32)
		if err != nil {
			return model.PoolMetadata{}, fmt.Errorf("coin %s decimals: %w", coin.Address, err)
		}
		coins = append(coins, model.PoolCoin{
			Address:     coin.Address,
			Symbol:      coin.Symbol,
			Decimals:    int32(decimals),
			UsdPrice:    coin.UsdPrice,
			PoolBalance: coin.PoolBalance,
		})
	}

	return model.PoolMetadata{
		Address:       p.Address,
		Network:       network,
		Name:          p.Name,
		AssetTypeName: assetType,
		IsMetaPool:    p.IsMetaPool,
		Coins:         coins,
		UsdTotal:      p.UsdTotal,
	}, nil
}
