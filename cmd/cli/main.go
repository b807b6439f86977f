// Command cli runs one-shot maintenance subcommands against a flat-file
// store, outside the normal serving path.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/scl-host/sclindexer/internal/chainadapter"
	"github.com/scl-host/sclindexer/internal/config"
	"github.com/scl-host/sclindexer/internal/logging"
	"github.com/scl-host/sclindexer/internal/store"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "convert":
		if err := runConvert(); err != nil {
			slog.Error("convert error", "error", err)
			os.Exit(1)
		}
	case "check_spent":
		if err := runCheckSpent(); err != nil {
			slog.Error("check_spent error", "error", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: cli <command>

Commands:
  convert      One-time schema migration: rewrite every contract's
               state.txt through the current struct shape
  check_spent  Garbage-collect listings and bids whose reserved UTXO has
               since been spent off-protocol
`)
}

func runConvert() error {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	jsonDir := fs.String("json-dir", "", "Flat-file store directory (default: from SCL_JSON_DIR or ./Json)")
	fs.Parse(os.Args[2:])

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *jsonDir != "" {
		cfg.JSONDir = *jsonDir
	}

	logCloser, err := logging.Setup(cfg.LogLevel, cfg.LogDir)
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	defer logCloser.Close()

	st := store.New(cfg.JSONDir)
	ids, err := st.ListContractIDs()
	if err != nil {
		return fmt.Errorf("list contracts: %w", err)
	}

	converted := 0
	for _, id := range ids {
		c, err := st.LoadState(id)
		if err != nil {
			slog.Error("load state failed, skipping", "contract_id", id, "error", err)
			continue
		}
		if c == nil {
			continue
		}
		// LoadState already decoded through the current Contract shape, so
		// re-saving drops any legacy fields and backfills new ones with their
		// zero values.
		if err := st.SaveState(c); err != nil {
			slog.Error("save state failed", "contract_id", id, "error", err)
			continue
		}
		converted++
	}

	slog.Info("convert complete", "contracts_total", len(ids), "contracts_converted", converted)
	return nil
}

func runCheckSpent() error {
	fs := flag.NewFlagSet("check_spent", flag.ExitOnError)
	jsonDir := fs.String("json-dir", "", "Flat-file store directory (default: from SCL_JSON_DIR or ./Json)")
	fs.Parse(os.Args[2:])

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *jsonDir != "" {
		cfg.JSONDir = *jsonDir
	}

	logCloser, err := logging.Setup(cfg.LogLevel, cfg.LogDir)
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	defer logCloser.Close()

	st := store.New(cfg.JSONDir)
	chain := chainadapter.New(cfg.EsploraURL, cfg.JSONDir)
	ctx := context.Background()

	ids, err := st.ListContractIDs()
	if err != nil {
		return fmt.Errorf("list contracts: %w", err)
	}

	reaped := 0
	for _, id := range ids {
		c, err := st.LoadState(id)
		if err != nil {
			slog.Error("load state failed, skipping", "contract_id", id, "error", err)
			continue
		}
		if c == nil {
			continue
		}

		dirty := false
		for _, l := range c.Listings {
			spent, err := utxoSpent(ctx, chain, l.ListUTXO)
			if err != nil {
				slog.Warn("spend check failed", "contract_id", id, "utxo", l.ListUTXO, "error", err)
				continue
			}
			if !spent {
				continue
			}
			if err := c.CancelListing("check_spent:"+l.ListUTXO, l.ListUTXO); err != nil {
				slog.Warn("cancel listing failed", "contract_id", id, "utxo", l.ListUTXO, "error", err)
				continue
			}
			dirty = true
			reaped++
		}
		for _, b := range c.Bids {
			spent, err := utxoSpent(ctx, chain, b.ReservedUTXO)
			if err != nil {
				slog.Warn("spend check failed", "contract_id", id, "utxo", b.ReservedUTXO, "error", err)
				continue
			}
			if !spent {
				continue
			}
			if err := c.CancelBid("check_spent:"+b.ReservedUTXO, b.ReservedUTXO); err != nil {
				slog.Warn("cancel bid failed", "contract_id", id, "utxo", b.ReservedUTXO, "error", err)
				continue
			}
			dirty = true
			reaped++
		}

		if dirty {
			if err := st.SaveState(c); err != nil {
				slog.Error("save state failed", "contract_id", id, "error", err)
			}
		}
	}

	slog.Info("check_spent complete", "contracts_scanned", len(ids), "entries_reaped", reaped)
	return nil
}

// utxoSpent reports whether the <txid>:<vout> utxo reference has been spent.
func utxoSpent(ctx context.Context, chain *chainadapter.Adapter, utxo string) (bool, error) {
	txid, voutStr, ok := strings.Cut(utxo, ":")
	if !ok {
		return false, fmt.Errorf("malformed utxo reference: %q", utxo)
	}
	var vout uint32
	if _, err := fmt.Sscanf(voutStr, "%d", &vout); err != nil {
		return false, fmt.Errorf("malformed utxo vout: %q", utxo)
	}
	return chain.IsUTXOSpent(ctx, txid, vout)
}
