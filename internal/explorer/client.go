// Package explorer pulls account history from Etherscan-family block
// explorer APIs.
package explorer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"

	"curvescope/internal/chain"
	"curvescope/internal/model"
)

var apiBaseURLs = map[string]string{
	"ethereum":  "https://api.etherscan.io",
	"optimism":  "https://api-optimistic.etherscan.io",
	"arbitrum":  "https://api.arbiscan.io",
	"polygon":   "https://api.polygonscan.com",
	"fantom":    "https://api.ftmscan.com",
	"avalanche": "https://api.snowtrace.io",
	"gnosis":    "https://api.gnosisscan.io",
}

// Client talks to one network's explorer API.
type Client struct {
	apiURL       string
	apiKey       string
	httpClient   *http.Client
	maxRetries   int
	retryBackoff time.Duration
	logger       *zap.Logger
}

// NewClient creates an explorer client for the network. Returns an error for
// networks without a known explorer API.
func NewClient(network, apiKey string, maxRetries int, retryBackoff time.Duration, logger *zap.Logger) (*Client, error) {
	apiURL, ok := apiBaseURLs[network]
	if !ok {
		return nil, fmt.Errorf("no explorer api for network %s", network)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		apiURL:       apiURL,
		apiKey:       apiKey,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		maxRetries:   maxRetries,
		retryBackoff: retryBackoff,
		logger:       logger,
	}, nil
}

type apiResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

type txPayload struct {
	Hash            string `json:"hash"`
	TimeStamp       string `json:"timeStamp"`
	From            string `json:"from"`
	To              string `json:"to"`
	Value           string `json:"value"`
	Input           string `json:"input"`
	IsError         string `json:"isError"`
	TxReceiptStatus string `json:"txreceipt_status"`
}

type logPayload struct {
	Address         string   `json:"address"`
	Topics          []string `json:"topics"`
	Data            string   `json:"data"`
	TimeStamp       string   `json:"timeStamp"`
	TransactionHash string   `json:"transactionHash"`
}

// AccountTxs returns the address's most recent transactions, newest first.
func (c *Client) AccountTxs(ctx context.Context, address string, page, offset int) ([]model.TxRecord, error) {
	result, err := c.apiFetch(ctx, url.Values{
		"module":  {"account"},
		"action":  {"txlist"},
		"address": {address},
		"page":    {strconv.Itoa(page)},
		"offset":  {strconv.Itoa(offset)},
		"sort":    {"desc"},
	})
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}

	var payload []txPayload
	if err := json.Unmarshal(result, &payload); err != nil {
		return nil, fmt.Errorf("decode txlist: %w", err)
	}

	txs := make([]model.TxRecord, 0, len(payload))
	for _, p := range payload {
		ts, err := strconv.ParseUint(p.TimeStamp, 10, 64)
		if err != nil {
			c.logger.Warn("skip tx with bad timestamp", zap.String("tx", p.Hash))
			continue
		}
		status := model.TxStatusSuccess
		if p.IsError == "1" || p.TxReceiptStatus == "0" {
			status = model.TxStatusFailed
		}
		txs = append(txs, model.TxRecord{
			Hash:      p.Hash,
			Timestamp: ts,
			From:      p.From,
			To:        p.To,
			Value:     p.Value,
			Input:     p.Input,
			Status:    status,
		})
	}
	return txs, nil
}

// AccountLogs returns the address's logs in the block range.
func (c *Client) AccountLogs(ctx context.Context, address string, fromBlock, toBlock uint64, page, offset int) ([]model.LogRecord, error) {
	result, err := c.apiFetch(ctx, url.Values{
		"module":    {"logs"},
		"action":    {"getLogs"},
		"address":   {address},
		"fromBlock": {strconv.FormatUint(fromBlock, 10)},
		"toBlock":   {strconv.FormatUint(toBlock, 10)},
		"page":      {strconv.Itoa(page)},
		"offset":    {strconv.Itoa(offset)},
	})
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}

	var payload []logPayload
	if err := json.Unmarshal(result, &payload); err != nil {
		return nil, fmt.Errorf("decode logs: %w", err)
	}

	logs := make([]model.LogRecord, 0, len(payload))
	for _, p := range payload {
		// Log endpoints report timestamps as hex quantities.
		ts, err := hexutil.DecodeUint64(p.TimeStamp)
		if err != nil {
			c.logger.Warn("skip log with bad timestamp", zap.String("tx", p.TransactionHash))
			continue
		}
		logs = append(logs, model.LogRecord{
			TxHash:    p.TransactionHash,
			Address:   p.Address,
			Topics:    p.Topics,
			Data:      p.Data,
			Timestamp: ts,
		})
	}
	return logs, nil
}

// ContractABI returns the verified contract ABI JSON, or "" when the source
// is not verified.
func (c *Client) ContractABI(ctx context.Context, address string) (string, error) {
	result, err := c.apiFetch(ctx, url.Values{
		"module":  {"contract"},
		"action":  {"getabi"},
		"address": {address},
	})
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", nil
	}

	var abiJSON string
	if err := json.Unmarshal(result, &abiJSON); err != nil {
		return "", fmt.Errorf("decode abi: %w", err)
	}
	return abiJSON, nil
}

// apiFetch runs one explorer query with retries. The explorer reports empty
// result sets as errors, those come back as a nil result with no error.
func (c *Client) apiFetch(ctx context.Context, query url.Values) (json.RawMessage, error) {
	if c.apiKey != "" {
		query.Set("apikey", c.apiKey)
	}
	reqURL := fmt.Sprintf("%s/api?%s", c.apiURL, query.Encode())

	var parsed apiResponse
	err := chain.WithRetry(ctx, c.maxRetries, c.retryBackoff, func(ctx context.Context) error {
		c.logger.Debug("explorer request",
			zap.String("module", query.Get("module")),
			zap.String("action", query.Get("action")))
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
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
		parsed = apiResponse{}
		return json.Unmarshal(body, &parsed)
	})
	if err != nil {
		return nil, err
	}

	if parsed.Status != "1" {
		switch parsed.Message {
		case "No transactions found", "No records found":
			return nil, nil
		}
		if parsed.Message == "NOTOK" {
			var detail string
			if json.Unmarshal(parsed.Result, &detail) == nil && detail == "Contract source code not verified" {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("explorer error: %s", parsed.Message)
	}
	return parsed.Result, nil
}
