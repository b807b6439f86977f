// Package chainadapter fetches transactions and blocks from an external
// Esplora-compatible REST service, extracts OP_RETURN push data, and caches
// per-txid responses on disk.
//
// Any network or decode error surfaces as config.ErrChainUnavailable: callers
// must treat this as "undecided, retry later", never as "rejected" — the
// distinction that separates a ChainError from a ValidationError or
// StateError in the error taxonomy.
package chainadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/scl-host/sclindexer/internal/config"
)

// Adapter is the Chain Adapter component (C1).
type Adapter struct {
	client *http.Client
	baseURL string
	rl *RateLimiter
	cb *CircuitBreaker
	cache *txCache
}

// New creates a Chain Adapter pointed at an Esplora-compatible base URL,
// caching responses under jsonDir/TXs.
func New(baseURL, jsonDir string) *Adapter {
	return &Adapter{
 client: &http.Client{Timeout: 30 * time.Second},
 baseURL: strings.TrimSuffix(baseURL, "/"),
 rl: NewRateLimiter("esplora", config.EsploraRateLimitRPS),
 cb: NewCircuitBreaker(config.CircuitBreakerThreshold, config.CircuitBreakerCooldown),
 cache: newTxCache(jsonDir),
	}
}

// doGet performs a rate-limited, circuit-broken GET against the Esplora base
// URL, returning the raw response body.
func (a *Adapter) doGet(ctx context.Context, path string) ([]byte, error) {
	if !a.cb.Allow() {
 return nil, fmt.Errorf("%w: circuit breaker open", config.ErrChainUnavailable)
	}
	if err := a.rl.Wait(ctx); err != nil {
 return nil, fmt.Errorf("%w: rate limiter wait: %v", config.ErrChainUnavailable, err)
	}

	url := a.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
 return nil, fmt.Errorf("%w: build request: %v", config.ErrChainUnavailable, err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
 a.cb.RecordFailure()
 return nil, fmt.Errorf("%w: %v", config.ErrChainUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
 wait := parseRetryAfter(resp.Header)
 a.cb.RecordFailure()
 return nil, fmt.Errorf("%w: rate limited, retry after %s", config.ErrChainUnavailable, wait)
	}
	if resp.StatusCode != http.StatusOK {
 a.cb.RecordFailure()
 return nil, fmt.Errorf("%w: HTTP %d from %s", config.ErrChainUnavailable, resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
 a.cb.RecordFailure()
 return nil, fmt.Errorf("%w: read body: %v", config.ErrChainUnavailable, err)
	}

	a.cb.RecordSuccess()
	return body, nil
}

// GetTransaction returns transaction details for txid, cached on disk unless
// forceRefresh is set.
func (a *Adapter) GetTransaction(ctx context.Context, txid string, forceRefresh bool) (*TxInfo, error) {
	if !forceRefresh {
 if cached, ok := a.cache.load(txid); ok {
 return cached, nil
 }
	}

	body, err := a.doGet(ctx, "/tx/"+txid)
	if err != nil {
 return nil, err
	}

	var info TxInfo
	if err := json.Unmarshal(body, &info); err != nil {
 return nil, fmt.Errorf("%w: decode tx %s: %v", config.ErrChainUnavailable, txid, err)
	}
	info.TxID = txid

	if err := a.cache.store(&info); err != nil {
 slog.Warn("failed to cache tx response", "txid", txid, "error", err)
	}

	return &info, nil
}

// EvictCachedTx removes a cached response, called once a command carried by
// that txid has been committed to confirmed state.
func (a *Adapter) EvictCachedTx(txid string) {
	a.cache.Evict(txid)
}

// GetTipHeight returns the current chain tip height.
func (a *Adapter) GetTipHeight(ctx context.Context) (uint64, error) {
	body, err := a.doGet(ctx, "/blocks/tip/height")
	if err != nil {
 return 0, err
	}
	h, err := strconv.ParseUint(strings.TrimSpace(string(body)), 10, 64)
	if err != nil {
 return 0, fmt.Errorf("%w: parse tip height: %v", config.ErrChainUnavailable, err)
	}
	return h, nil
}

// GetBlockTxs returns up to config.BlockScanPageSize transactions from
// blockHash starting at startIndex, for the sweeper's per-block LP scan.
func (a *Adapter) GetBlockTxs(ctx context.Context, blockHash string, startIndex int) ([]TxInfo, error) {
	path := fmt.Sprintf("/block/%s/txs/%d", blockHash, startIndex)
	body, err := a.doGet(ctx, path)
	if err != nil {
 return nil, err
	}
	var txs []TxInfo
	if err := json.Unmarshal(body, &txs); err != nil {
 return nil, fmt.Errorf("%w: decode block txs: %v", config.ErrChainUnavailable, err)
	}
	return txs, nil
}

// GetBlockHash returns the block hash at height, for the sweeper's block-by-
// block LP scan between the last-seen tip and the new one.
func (a *Adapter) GetBlockHash(ctx context.Context, height uint64) (string, error) {
	body, err := a.doGet(ctx, fmt.Sprintf("/block-height/%d", height))
	if err != nil {
 return "", err
	}
	return strings.TrimSpace(string(body)), nil
}

// GetTipBlockHash returns the current chain tip's block hash.
func (a *Adapter) GetTipBlockHash(ctx context.Context) (string, error) {
	body, err := a.doGet(ctx, "/blocks/tip/hash")
	if err != nil {
 return "", err
	}
	return strings.TrimSpace(string(body)), nil
}

type outspendResponse struct {
	Spent bool `json:"spent"`
}

// IsUTXOSpent reports whether the output at txid:vout has been spent.
func (a *Adapter) IsUTXOSpent(ctx context.Context, txid string, vout uint32) (bool, error) {
	path := fmt.Sprintf("/tx/%s/outspend/%d", txid, vout)
	body, err := a.doGet(ctx, path)
	if err != nil {
 return false, err
	}
	var out outspendResponse
	if err := json.Unmarshal(body, &out); err != nil {
 return false, fmt.Errorf("%w: decode outspend: %v", config.ErrChainUnavailable, err)
	}
	return out.Spent, nil
}

// ExtractOpReturn returns the push bytes (as a lowercase hex string) of the
// first OP_RETURN output, decoded from the ASM form
// "OP_RETURN OP_PUSHBYTES_<n> <hex>". Returns ok=false if no OP_RETURN output
// is present.
func ExtractOpReturn(vouts []Vout) (string, bool) {
	for _, v := range vouts {
 if v.ScriptPubKeyType != "op_return" {
 continue
 }
 fields := strings.Fields(v.ScriptPubKeyAsm)
 if len(fields) < 2 || fields[0] != "OP_RETURN" {
 continue
 }
 // fields[1] looks like "OP_PUSHBYTES_32"; fields[2] is the hex payload.
 if !strings.HasPrefix(fields[1], "OP_PUSHBYTES_") {
 continue
 }
 if len(fields) < 3 {
 return "", false
 }
 return strings.ToLower(fields[2]), true
	}
	return "", false
}
