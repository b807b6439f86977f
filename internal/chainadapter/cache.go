package chainadapter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/scl-host/sclindexer/internal/fsutil"
)

// txCache is the on-disk TXs/<txid>.txt cache.
// Eviction is manual: the queue scheduler removes the entry once a queued
// command from that txid has executed against confirmed state, since the
// transaction is never consulted again afterward.
type txCache struct {
	dir string
}

func newTxCache(jsonDir string) *txCache {
	return &txCache{dir: filepath.Join(jsonDir, "TXs")}
}

func (c *txCache) path(txid string) string {
	return filepath.Join(c.dir, txid+".txt")
}

func (c *txCache) load(txid string) (*TxInfo, bool) {
	data, err := os.ReadFile(c.path(txid))
	if err != nil {
 return nil, false
	}
	var info TxInfo
	if err := json.Unmarshal(data, &info); err != nil {
 slog.Warn("tx cache entry corrupt, ignoring", "txid", txid, "error", err)
 return nil, false
	}
	return &info, true
}

func (c *txCache) store(info *TxInfo) error {
	data, err := json.Marshal(info)
	if err != nil {
 return fmt.Errorf("marshal tx cache entry: %w", err)
	}
	return fsutil.WriteFileAtomic(c.path(info.TxID), data, 0o644)
}

// Evict removes a cache entry, e.g. after a confirmed commit for that txid.
func (c *txCache) Evict(txid string) {
	if err := os.Remove(c.path(txid)); err != nil && !os.IsNotExist(err) {
 slog.Warn("failed to evict tx cache entry", "txid", txid, "error", err)
	}
}
