package queue

import (
	"context"
	"encoding/hex"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/scl-host/sclindexer/internal/chainadapter"
	"github.com/scl-host/sclindexer/internal/codec/magiccrypt"
	"github.com/scl-host/sclindexer/internal/config"
	"github.com/scl-host/sclindexer/internal/executor"
	"github.com/scl-host/sclindexer/internal/runtimeconfig"
	"github.com/scl-host/sclindexer/internal/store"
)

// Scheduler is component C5: it owns the three queues, the periodic sweeper,
// and the tight confirmed-queue drainer.
type Scheduler struct {
	chain *chainadapter.Adapter
	exec *executor.Executor
	store *store.Store
	rtcfg *runtimeconfig.Store
	queues *Queues
	log *slog.Logger

	lpPassphrase func(lpContractID string) string
}

// New builds a Scheduler. lpPassphrase derives a MagicCrypt key from an
// lp_contract_id for the block-scan decryption probe; pass nil to use the
// same default the executor uses (the contract id itself).
func New(chain *chainadapter.Adapter, exec *executor.Executor, st *store.Store, rtcfg *runtimeconfig.Store, queues *Queues, log *slog.Logger, lpPassphrase func(string) string) *Scheduler {
	if log == nil {
 log = slog.Default()
	}
	if lpPassphrase == nil {
 lpPassphrase = func(id string) string { return id }
	}
	return &Scheduler{
 chain: chain,
 exec: exec,
 store: st,
 rtcfg: rtcfg,
 queues: queues,
 log: log,
 lpPassphrase: lpPassphrase,
	}
}

// Run blocks, running the confirmed-queue drainer (T1) and the periodic
// sweeper (T2, spawning T4 per-contract tasks) until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	go s.drainConfirmedLoop(ctx)
	s.sweepLoop(ctx)
}

// drainConfirmedLoop is T1: a tight loop that executes confirmed-queue items
// one at a time, backing off briefly only when the queue is empty.
func (s *Scheduler) drainConfirmedLoop(ctx context.Context) {
	for {
 select {
 case <-ctx.Done():
 return
 default:
 }
 drained, err := s.drainConfirmedOnce(ctx)
 if err != nil {
 s.log.Error("confirmed queue drain failed", "error", err)
 }
 if !drained {
 select {
 case <-ctx.Done():
 return
 case <-time.After(250 * time.Millisecond):
 }
 }
	}
}

func (s *Scheduler) drainConfirmedOnce(ctx context.Context) (bool, error) {
	entries, err := s.queues.Confirmed.List()
	if err != nil {
 return false, err
	}
	if len(entries) == 0 {
 return false, nil
	}
	e := entries[0]
	_, err = s.exec.Execute(ctx, executor.Request{
 TxID: e.Item.TxID,
 Payload: e.Item.Payload,
 BidPayload: e.Item.BidPayload,
 LPContractID: e.Item.LPContractID,
	})
	if err != nil {
 s.log.Warn("confirmed item execution failed", "txid", e.Item.TxID, "error", err)
 // Never retried from the confirmed queue; a failure here is a StateError or PayloadError, both
 // non-retryable, so the item is still removed.
	} else {
 s.chain.EvictCachedTx(e.Item.TxID)
	}
	if err := s.queues.Confirmed.Remove(e); err != nil {
 return true, err
	}
	return true, nil
}

// sweepLoop is T2: the 4-second sweeper.
func (s *Scheduler) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(config.SweepInterval)
	defer ticker.Stop()
	for {
 select {
 case <-ctx.Done():
 return
 case <-ticker.C:
 if err := s.sweepOnce(ctx); err != nil {
 s.log.Error("sweep tick failed", "error", err)
 }
 }
	}
}

func (s *Scheduler) sweepOnce(ctx context.Context) error {
	if err := s.rtcfg.Reload(); err != nil {
 s.log.Warn("sweep: reloading runtime config failed", "error", err)
	}
	tip, err := s.chain.GetTipHeight(ctx)
	if err != nil {
 s.log.Warn("sweep: tip height unavailable, skipping tick", "error", err)
 return nil // ChainError: transient, retried next tick
	}

	prev := s.rtcfg.Config().BlockHeight
	if tip > prev {
 s.log.Info("sweep tick", "tipHeight", tip, "previousHeight", prev)
 if err := s.rtcfg.SetBlockHeight(tip); err != nil {
 return err
 }
 if err := s.advanceContracts(tip); err != nil {
 s.log.Error("sweep: advancing contracts failed", "error", err)
 }
 if err := s.scanBlocksForClaims(ctx, prev, tip); err != nil {
 s.log.Error("sweep: block scan for LP claims failed", "error", err)
 }
	}

	if err := s.drainQueue(ctx, s.queues.Pending); err != nil {
 s.log.Error("sweep: draining pending queue failed", "error", err)
	}
	if err := s.drainQueue(ctx, s.queues.Claims); err != nil {
 s.log.Error("sweep: draining claims queue failed", "error", err)
	}
	return nil
}

// advanceContracts is T4: for every known contract, mirror confirmed state
// into pending, advance its drips to the new tip, and flush any pending
// SCL02 final-airdrop split. Re-enqueuing fulfillment commands whose bids
// reference now-confirmable accept/fulfil txs needs no separate mechanism:
// those commands already sit in the Pending queue and are retried by
// drainQueue below on every tick until their referenced transaction
// confirms.
func (s *Scheduler) advanceContracts(tip uint64) error {
	ids, err := s.store.ListContractIDs()
	if err != nil {
 return err
	}
	for _, id := range ids {
 c, err := s.store.LoadState(id)
 if err != nil {
 s.log.Error("advanceContracts: load failed", "contract", id, "error", err)
 continue
 }
 if c == nil {
 continue
 }
 c.AdvanceDrips(tip)
 c.AirdropSplit()
 if err := s.store.SaveState(c); err != nil {
 s.log.Error("advanceContracts: save confirmed failed", "contract", id, "error", err)
 continue
 }
 if err := s.store.SavePending(c); err != nil {
 s.log.Error("advanceContracts: save pending failed", "contract", id, "error", err)
 }
	}
	return nil
}

// scanBlocksForClaims scans every block mined since the
// last tick for OP_RETURN outputs and, for each known LP contract, attempt
// MagicCrypt decryption; a successful decryption enqueues the tx to Claims
// without needing an explicit /commands submission.
func (s *Scheduler) scanBlocksForClaims(ctx context.Context, fromHeight, toHeight uint64) error {
	lpIDs := s.rtcfg.Lookups().LPs
	if len(lpIDs) == 0 || toHeight <= fromHeight {
 return nil
	}
	for h := fromHeight + 1; h <= toHeight; h++ {
 hash, err := s.chain.GetBlockHash(ctx, h)
 if err != nil {
 return err
 }
 if err := s.scanBlock(ctx, hash, lpIDs); err != nil {
 return err
 }
	}
	return nil
}

func (s *Scheduler) scanBlock(ctx context.Context, blockHash string, lpIDs []string) error {
	for start := 0; ; start += config.BlockScanPageSize {
 txs, err := s.chain.GetBlockTxs(ctx, blockHash, start)
 if err != nil {
 return err
 }
 if len(txs) == 0 {
 return nil
 }
 for _, tx := range txs {
 opReturnHex, ok := chainadapter.ExtractOpReturn(tx.Vout)
 if !ok {
 continue
 }
 for _, lpID := range lpIDs {
 if s.probeLPCommand(opReturnHex, lpID) {
 already, err := s.queues.Claims.Has(tx.TxID)
 if err != nil {
 return err
 }
 if already {
 continue
 }
 if _, err := s.queues.Claims.Enqueue(Item{TxID: tx.TxID, LPContractID: lpID}); err != nil {
 return err
 }
 }
 }
 }
 if len(txs) < config.BlockScanPageSize {
 return nil
 }
	}
}

// probeLPCommand reports whether opReturnHex decrypts, under lpID's
// passphrase, to a recognizable LP command prefix.
func (s *Scheduler) probeLPCommand(opReturnHex, lpID string) bool {
	raw, err := hex.DecodeString(opReturnHex)
	if err != nil {
 return false
	}
	plaintext, err := magiccrypt.Decrypt(s.lpPassphrase(lpID), string(raw))
	if err != nil {
 return false
	}
	return strings.HasPrefix(plaintext, config.LPProvidePrefix) ||
 strings.HasPrefix(plaintext, config.LPSwapPrefix) ||
 strings.HasPrefix(plaintext, config.LPLiquidatePrefix)
}

// drainQueue attempts every item in FIFO order. A
// confirmed result removes the item; a valid-but-unconfirmed result keeps it
// and records AcceptedAt; anything else is judged against the 2-minute/24-
// hour timeout rules.
func (s *Scheduler) drainQueue(ctx context.Context, q *FileQueue) error {
	entries, err := q.List()
	if err != nil {
 return err
	}
	now := time.Now().UTC()
	for _, e := range entries {
 result, execErr := s.exec.Execute(ctx, executor.Request{
 TxID: e.Item.TxID,
 Payload: e.Item.Payload,
 BidPayload: e.Item.BidPayload,
 LPContractID: e.Item.LPContractID,
 })
 switch {
 case execErr == nil && result.Confirmed:
 s.chain.EvictCachedTx(e.Item.TxID)
 if err := q.Remove(e); err != nil {
 return err
 }
 case execErr == nil:
 // Valid but not yet confirmed: executor already applied it to
 // pending state. Keep the item, mark it accepted.
 e.Item.MarkAccepted(now)
 if err := q.Update(e); err != nil {
 return err
 }
 case errors.Is(execErr, config.ErrPayloadGrammar):
 // PayloadError: never retried.
 if err := q.Remove(e); err != nil {
 return err
 }
 case errors.Is(execErr, config.ErrChainUnavailable):
 // ChainError: transient, retried next tick regardless of timers.
 default:
 // ValidationError (commitment mismatch / decryption failure) or a
 // StateError: apply the timeout rules.
 if e.Item.AcceptedAt == nil {
 if now.Sub(e.Item.EnqueuedAt) > config.PendingAcceptTimeout {
 s.log.Info("dropping never-accepted queue item", "txid", e.Item.TxID, "error", execErr)
 if err := q.Remove(e); err != nil {
 return err
 }
 }
 continue
 }
 if now.Sub(e.Item.EnqueuedAt) > config.PendingConfirmTimeout {
 s.log.Info("dropping expired pending queue item", "txid", e.Item.TxID, "error", execErr)
 if err := q.Remove(e); err != nil {
 return err
 }
 }
 }
	}
	return nil
}
