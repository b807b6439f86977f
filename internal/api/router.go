package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/scl-host/sclindexer/internal/api/handlers"
	"github.com/scl-host/sclindexer/internal/api/middleware"
)

// Version is set at build time via ldflags.
var Version = "dev"

// NewRouter creates and configures the Chi router with all middleware and
// routes.
func NewRouter(deps *handlers.Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestLogging)
	r.Use(middleware.CORS)

	slog.Info("router initialized", "middleware", []string{"requestLogging", "cors"})

	r.Get("/health", handlers.Health(Version))
	r.Get("/contracts", deps.Contracts())
	r.Get("/coin_drops", deps.CoinDrops())
	r.Get("/liquidity_pools", deps.LiquidityPools())

	r.Post("/commands", deps.Commands())
	r.Post("/relay_commands", deps.RelayCommands())
	r.Post("/consolidate", deps.Consolidate())

	r.Post("/check_utxos", deps.CheckUTXOs())
	r.Post("/summaries", deps.Summaries())
	r.Get("/all_summaries", deps.AllSummaries())
	r.Post("/listing_summaries", deps.ListingSummaries())
	r.Post("/bid_utxo_trade_info", deps.BidUTXOTradeInfo())
	r.Post("/check_txids_history", deps.CheckTxidsHistory())

	r.Get("/transfer_details/{txid}", deps.TransferDetails())

	r.Get("/{contract_id}/history", deps.History())
	r.Get("/{contract_id}/{field}", deps.Field())
	r.Get("/{contract_id}/{field}/page/{n}", deps.FieldPage())
	r.Get("/{contract_id}/{field}/{utxo}", deps.FieldUTXO())

	return r
}
