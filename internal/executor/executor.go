// Package executor is the single writer for every contract's state.
// It validates a submitted payload against the
// transaction's on-chain OP_RETURN commitment, dispatches the parsed command
// to the matching contract state-transition method, and persists the
// result. Per-contract access is serialized by a lock held for the
// duration of one command; independent contracts execute concurrently.
package executor

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/scl-host/sclindexer/internal/chainadapter"
	"github.com/scl-host/sclindexer/internal/codec"
	"github.com/scl-host/sclindexer/internal/codec/magiccrypt"
	"github.com/scl-host/sclindexer/internal/config"
	"github.com/scl-host/sclindexer/internal/contract"
	"github.com/scl-host/sclindexer/internal/runtimeconfig"
	"github.com/scl-host/sclindexer/internal/store"
)

// Request is one inbound (txid, payload) pair awaiting validation and
// execution.
type Request struct {
	TxID string
	Payload string
	LPContractID string // non-empty selects the MagicCrypt decryption path
	// BidPayload carries, for a BID command only, one "<accept_tx_hex>:
	// <fulfil_tx_hex>" pair per bid tuple (comma-separated, same order as
	// the BID payload's tuples) — the raw, unbroadcast transactions whose
	// txids become the bid's accept_txid and bid_id.
	BidPayload string
	Pending bool
}

// Result reports what happened to a submitted request.
type Result struct {
	Confirmed bool
	ContractID string
	Kind codec.Kind
}

// Executor wires C1 (chain lookups), C2 (payload parsing) and C3 (contract
// state transitions) together with C6 (UTXO index) persistence.
type Executor struct {
	chain *chainadapter.Adapter
	store *store.Store
	rtcfg *runtimeconfig.Store
	log *slog.Logger

	mu sync.Mutex
	locks map[string]*sync.Mutex

	// lpPassphrase derives the MagicCrypt key for an lp_contract_id. The
	// default matches the scheme described for LP payloads: the key is
	// derived directly from the contract id string.
	lpPassphrase func(lpContractID string) string
}

// New builds an Executor backed by chain and st, logging through log.
// rtcfg gates SCL02 mints against the node's reserved-ticker ban list.
func New(chain *chainadapter.Adapter, st *store.Store, rtcfg *runtimeconfig.Store, log *slog.Logger) *Executor {
	if log == nil {
 log = slog.Default()
	}
	return &Executor{
 chain: chain,
 store: st,
 rtcfg: rtcfg,
 log: log,
 locks: map[string]*sync.Mutex{},
 lpPassphrase: func(id string) string { return id },
	}
}

func (e *Executor) lockFor(id string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	m, ok := e.locks[id]
	if !ok {
 m = &sync.Mutex{}
 e.locks[id] = m
	}
	return m
}

// withContracts locks every distinct, non-empty id in sorted order — this
// is what keeps a 3-contract LP operation deadlock-free against any other
// combination touching the same contracts — runs fn, then unlocks.
func (e *Executor) withContracts(ids []string, fn func() error) error {
	seen := map[string]struct{}{}
	sorted := make([]string, 0, len(ids))
	for _, id := range ids {
 if id == "" {
 continue
 }
 if _, ok := seen[id]; ok {
 continue
 }
 seen[id] = struct{}{}
 sorted = append(sorted, id)
	}
	sort.Strings(sorted)
	locked := make([]*sync.Mutex, 0, len(sorted))
	for _, id := range sorted {
 l := e.lockFor(id)
 l.Lock()
 locked = append(locked, l)
	}
	defer func() {
 for _, l := range locked {
 l.Unlock()
 }
	}()
	return fn()
}

// Execute validates req against the chain and, if the command is already
// confirmed on chain, applies it to confirmed state; otherwise (when
// req.Pending is true, or validation is inconclusive) applies it to the
// pending mirror only. Returns config.ErrCommitmentMismatch / a codec
// grammar error / config.ErrDecryptionFailed for a payload that never
// validates; callers should enqueue those for retry until expiry rather
// than discard outright, per the sweep algorithm.
func (e *Executor) Execute(ctx context.Context, req Request) (Result, error) {
	tx, err := e.chain.GetTransaction(ctx, req.TxID, false)
	if err != nil {
 return Result{}, err
	}

	opReturnHex, ok := chainadapter.ExtractOpReturn(tx.Vout)
	if !ok {
 return Result{}, fmt.Errorf("%w: no op_return in %s", config.ErrNoOpReturn, req.TxID)
	}

	cmd, err := e.decodeCommand(req, opReturnHex)
	if err != nil {
 return Result{}, err
	}

	confirmed := tx.Status.Confirmed && !req.Pending
	contractIDs, err := e.touchedContracts(cmd, req)
	if err != nil {
 return Result{}, err
	}

	result := Result{Confirmed: confirmed, Kind: cmd.Kind()}
	if len(contractIDs) > 0 {
 result.ContractID = contractIDs[0]
	}
	err = e.withContracts(contractIDs, func() error {
 return e.apply(req, cmd, tx, confirmed, &result)
	})
	if err != nil {
 return Result{}, err
	}
	return result, nil
}

// decodeCommand validates the payload's on-chain commitment and parses it
// into a codec.Command, dispatching on whether the request carries an
// lp_contract_id.
func (e *Executor) decodeCommand(req Request, opReturnHex string) (codec.Command, error) {
	if req.LPContractID != "" {
 raw, err := hex.DecodeString(opReturnHex)
 if err != nil {
 return nil, fmt.Errorf("%w: op_return is not valid hex: %v", config.ErrDecryptionFailed, err)
 }
 plaintext, err := magiccrypt.Decrypt(e.lpPassphrase(req.LPContractID), string(raw))
 if err != nil {
 return nil, fmt.Errorf("%w: %v", config.ErrDecryptionFailed, err)
 }
 if !strings.HasPrefix(plaintext, config.LPProvidePrefix) &&
 !strings.HasPrefix(plaintext, config.LPSwapPrefix) &&
 !strings.HasPrefix(plaintext, config.LPLiquidatePrefix) {
 return nil, fmt.Errorf("%w: lp plaintext has unknown prefix", config.ErrDecryptionFailed)
 }
 return codec.ParseLP(plaintext)
	}

	if err := codec.VerifyCommitment(req.Payload, opReturnHex); err != nil {
 return nil, err
	}
	return codec.Parse(req.TxID, req.Payload)
}

// touchedContracts resolves the contract id(s) a command needs locked and
// loaded before it can run. Mint commands and LP commands are handled
// specially: a mint creates a new contract named after its own txid, and
// every LP verb additionally touches the pool's two underlying contracts.
func (e *Executor) touchedContracts(cmd codec.Command, req Request) ([]string, error) {
	switch cmd.(type) {
	case codec.MintSCL01, codec.MintSCL02, codec.MintSCL03, codec.MintSCL04, codec.MintSCL05:
 return []string{req.TxID}, nil
	case codec.LPProvide, codec.LPSwap, codec.LPLiquidate:
 pool, err := e.loadLPContract(req.LPContractID, req.Pending)
 if err != nil {
 return nil, err
 }
 ids := []string{req.LPContractID}
 if pool != nil && pool.LiquidityPool != nil {
 ids = append(ids, pool.LiquidityPool.ContractID1, pool.LiquidityPool.ContractID2)
 }
 return ids, nil
	default:
 return []string{contractIDOf(cmd)}, nil
	}
}

func (e *Executor) loadLPContract(id string, pending bool) (*contract.Contract, error) {
	if pending {
 return e.store.LoadPending(id)
	}
	return e.store.LoadState(id)
}

// contractIDOf extracts the ContractID field every non-mint, non-LP command
// carries.
func contractIDOf(cmd codec.Command) string {
	switch c := cmd.(type) {
	case codec.Transfer:
 return c.ContractID
	case codec.Burn:
 return c.ContractID
	case codec.List:
 return c.ContractID
	case codec.Bid:
 return c.ContractID
	case codec.AcceptBid:
 return c.ContractID
	case codec.FulfilTrade:
 return c.ContractID
	case codec.CancelListing:
 return c.ContractID
	case codec.CancelBid:
 return c.ContractID
	case codec.Drip:
 return c.ContractID
	case codec.DimAirdropMint:
 return c.ContractID
	case codec.DimAirdropClaim:
 return c.ContractID
	case codec.DGECreate:
 return c.ContractID
	case codec.DGEClaim:
 return c.ContractID
	case codec.RightToMintExercise:
 return c.ContractID
	case codec.AirdropClaim:
 return c.ContractID
	default:
 return ""
	}
}
