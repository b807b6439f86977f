// Package handlers implements the HTTP read/write surface's endpoint logic:
// field projections, bulk lookups, command submission, and peer relay.
package handlers

import (
	"log/slog"

	"github.com/scl-host/sclindexer/internal/chainadapter"
	"github.com/scl-host/sclindexer/internal/executor"
	"github.com/scl-host/sclindexer/internal/index"
	"github.com/scl-host/sclindexer/internal/queue"
	"github.com/scl-host/sclindexer/internal/runtimeconfig"
	"github.com/scl-host/sclindexer/internal/store"
)

// Deps bundles every component a handler might need into one value instead
// of a growing constructor parameter list.
type Deps struct {
	Chain *chainadapter.Adapter
	Store *store.Store
	Exec *executor.Executor
	Queues *queue.Queues
	RTCfg *runtimeconfig.Store
	Index *index.DB
	Log *slog.Logger

	// RelayKey is the key sent along with commands this node relays to
	// peers; incoming relays are checked against the runtime config's key
	// instead. Hosts is the peer list a freshly accepted
	// command is forwarded to; SelfIP is excluded from that list.
	RelayKey string
	Hosts []string
	SelfIP string
}

func (d *Deps) logger() *slog.Logger {
	if d.Log == nil {
 return slog.Default()
	}
	return d.Log
}
