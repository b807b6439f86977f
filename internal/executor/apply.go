package executor

import (
	"fmt"
	"strings"

	"github.com/scl-host/sclindexer/internal/chainadapter"
	"github.com/scl-host/sclindexer/internal/codec"
	"github.com/scl-host/sclindexer/internal/config"
	"github.com/scl-host/sclindexer/internal/contract"
	"github.com/scl-host/sclindexer/internal/store"
)

// apply loads the contract(s) a command needs, runs its state transition,
// and persists the result. Must be called with every touched contract's
// lock already held.
func (e *Executor) apply(req Request, cmd codec.Command, tx *chainadapter.TxInfo, confirmed bool, result *Result) error {
	txid, payload := req.TxID, req.Payload
	block := blockHeight(tx)

	switch c := cmd.(type) {
	case codec.MintSCL01:
 return e.applyMint(txid, confirmed, func() (*contract.Contract, bool) {
 return contract.MintSCL01(txid, c.Ticker, c.MaxSupply, c.Decimals, c.ReceiveUTXO), true
 })
	case codec.MintSCL02:
 if e.rtcfg != nil && e.rtcfg.IsReservedTicker(c.Ticker) {
 return fmt.Errorf("%w: %s", config.ErrReservedTicker, c.Ticker)
 }
 return e.applyMint(txid, confirmed, func() (*contract.Contract, bool) {
 return contract.MintSCL02(txid, c.Ticker, c.MaxSupply, c.AirdropAmount, c.Decimals), true
 })
	case codec.MintSCL03:
 return e.applyMint(txid, confirmed, func() (*contract.Contract, bool) {
 alloc := make(map[string]uint64, len(c.Allocations))
 for _, a := range c.Allocations {
 alloc[a.UTXO] += a.Amount
 }
 return contract.MintSCL03(txid, c.Ticker, c.Decimals, alloc), true
 })
	case codec.MintSCL04:
 return e.applyMint(txid, confirmed, func() (*contract.Contract, bool) {
 return contract.MintSCL04(txid, c.Ticker, c.ContractID1, c.ContractID2, c.Ratio, c.Fee), true
 })
	case codec.MintSCL05:
 return e.applyMint(txid, confirmed, func() (*contract.Contract, bool) {
 return contract.MintSCL05(txid, c.Ticker, c.ReceiveUTXO, c.Base64Data), true
 })

	case codec.Transfer:
 return e.mutate(c.ContractID, txid, payload, confirmed, func(ct *contract.Contract) error {
 return ct.Transfer(txid, c.Senders, toContractUTXOAmount(c.Receivers), block)
 })
	case codec.Burn:
 return e.mutate(c.ContractID, txid, payload, confirmed, func(ct *contract.Contract) error {
 return ct.Burn(txid, c.Burners, c.Amount, c.ChangeUTXO)
 })
	case codec.List:
 return e.mutate(c.ContractID, txid, payload, confirmed, func(ct *contract.Contract) error {
 return ct.List(txid, c.Senders, c.ChangeUTXO, c.ListUTXO, c.ListAmount, c.Price, c.PayAddr, block)
 })
	case codec.Bid:
 return e.mutate(c.ContractID, txid, payload, confirmed, func(ct *contract.Contract) error {
 entries, err := bidEntriesWithPrecomputedIDs(c.Bids, req.BidPayload)
 if err != nil {
 return err
 }
 return ct.Bid(txid, entries, block)
 })
	case codec.AcceptBid:
 return e.mutateExtra(c.ContractID, txid, payload, confirmed, func(ct *contract.Contract) (string, error) {
 bidID, err := resolveBidIDForAccept(ct, tx, txid)
 if err != nil {
 return "", err
 }
 return ct.AcceptBid(txid, bidID)
 })
	case codec.FulfilTrade:
 return e.mutate(c.ContractID, txid, payload, confirmed, func(ct *contract.Contract) error {
 // bid_id is the txid of its own fulfil transaction: the same
 // transaction now being applied was precomputed and hashed at BID
 // time, so no lookup is needed to know which bid this is.
 return ct.FulfilTrade(txid, txid)
 })
	case codec.CancelListing:
 return e.mutate(c.ContractID, txid, payload, confirmed, func(ct *contract.Contract) error {
 return ct.CancelListing(txid, c.ListUTXO)
 })
	case codec.CancelBid:
 return e.mutate(c.ContractID, txid, payload, confirmed, func(ct *contract.Contract) error {
 return ct.CancelBid(txid, c.BidUTXO)
 })
	case codec.Drip:
 return e.mutate(c.ContractID, txid, payload, confirmed, func(ct *contract.Contract) error {
 return ct.StartDrip(txid, c.Senders, toContractDripReceivers(c.Receivers), c.ChangeUTXO, block)
 })
	case codec.DimAirdropMint:
 return e.mutate(c.ContractID, txid, payload, confirmed, func(ct *contract.Contract) error {
 return ct.CreateDimAirdrop(txid, claimIDFor(txid, c.ContractID), c.Senders, c.Pool, c.StepAmount, c.StepPeriod, c.Max, c.Min, c.ChangeUTXO, c.SingleDrop)
 })
	case codec.DimAirdropClaim:
 return e.mutate(c.ContractID, txid, payload, confirmed, func(ct *contract.Contract) error {
 return ct.ClaimDimAirdrop(txid, c.ClaimID, donorAddress(tx), c.ReceiverUTXO)
 })
	case codec.DGECreate:
 return e.mutate(c.ContractID, txid, payload, confirmed, func(ct *contract.Contract) error {
 return ct.CreateDGE(txid, claimIDFor(txid, c.ContractID), c.Senders, c.Pool, c.SatsRate, c.MaxDrop, c.DripDuration, c.DonationAddr, c.ChangeUTXO, c.SingleDrop)
 })
	case codec.DGEClaim:
 return e.mutate(c.ContractID, txid, payload, confirmed, func(ct *contract.Contract) error {
 dge, ok := ct.DGEs[c.ClaimID]
 if !ok {
 return config.ErrAirdropExhausted
 }
 sats := donationAmount(tx, dge.DonationsAddress)
 return ct.ClaimDGE(txid, c.ClaimID, donorAddress(tx), sats, c.ReceiverUTXO, block)
 })
	case codec.RightToMintExercise:
 return e.mutate(c.ContractID, txid, payload, confirmed, func(ct *contract.Contract) error {
 return ct.ExerciseRightToMint(txid, c.RightsUTXO, c.Receiver, c.ChangeUTXO, c.MintAmount)
 })
	case codec.AirdropClaim:
 return e.mutate(c.ContractID, txid, payload, confirmed, func(ct *contract.Contract) error {
 return ct.Airdrop(txid, c.ReceiverUTXO, !confirmed)
 })

	case codec.LPProvide:
 return e.applyLPProvide(req, txid, confirmed, c.Amount, block, tx)
	case codec.LPSwap:
 return e.applyLPSwap(req, txid, confirmed, c, tx)
	case codec.LPLiquidate:
 return e.applyLPLiquidate(req, txid, confirmed, c.Amount, tx)

	default:
 return fmt.Errorf("executor: unhandled command kind %s", cmd.Kind())
	}
}

// applyMint is idempotent on contract_id: if the state file already exists,
// the mint is a no-op.
func (e *Executor) applyMint(contractID string, confirmed bool, build func() (*contract.Contract, bool)) error {
	existing, err := e.store.LoadState(contractID)
	if err != nil {
 return err
	}
	if existing != nil {
 return nil
	}
	c, _ := build()
	e.syncUTXOIndex(c, utxoSnapshot{}, !confirmed)
	if confirmed {
 if err := e.store.SaveState(c); err != nil {
 return err
 }
 if err := e.store.SaveHeader(store.Header{ContractID: c.ContractID, Ticker: c.Ticker, ContractType: string(c.Kind), Decimals: c.Decimals}); err != nil {
 return err
 }
	}
	return e.store.SavePending(c)
}

// mutate loads contractID's state (confirmed or pending per the flag),
// skips if txid was already applied, runs fn, and persists.
func (e *Executor) mutate(contractID, txid, payload string, confirmed bool, fn func(*contract.Contract) error) error {
	if contractID == "" {
 return fmt.Errorf("executor: command missing contract id for txid %s", txid)
	}
	load := e.store.LoadPending
	if confirmed {
 load = e.store.LoadState
	}
	c, err := load(contractID)
	if err != nil {
 return err
	}
	if c == nil {
 return fmt.Errorf("%w: %s", config.ErrUnknownContract, contractID)
	}
	if c.HasApplied(txid) {
 return nil
	}
	before := snapshotUTXOs(c)
	if err := fn(c); err != nil {
 return err
	}
	c.RecordPayload(txid, payload)
	e.syncUTXOIndex(c, before, !confirmed)
	if confirmed {
 if err := e.store.SaveState(c); err != nil {
 return err
 }
 return e.store.SavePending(c)
	}
	return e.store.SavePending(c)
}

// mutateExtra is mutate for commands whose transition returns a suffix to
// append to the stored payload (accept_bid's -ExtraInfo-<bid_id>,<amt>,
// <price>, ) rather than a bare error.
func (e *Executor) mutateExtra(contractID, txid, payload string, confirmed bool, fn func(*contract.Contract) (string, error)) error {
	if contractID == "" {
 return fmt.Errorf("executor: command missing contract id for txid %s", txid)
	}
	load := e.store.LoadPending
	if confirmed {
 load = e.store.LoadState
	}
	c, err := load(contractID)
	if err != nil {
 return err
	}
	if c == nil {
 return fmt.Errorf("%w: %s", config.ErrUnknownContract, contractID)
	}
	if c.HasApplied(txid) {
 return nil
	}
	before := snapshotUTXOs(c)
	suffix, err := fn(c)
	if err != nil {
 return err
	}
	c.RecordPayload(txid, payload+suffix)
	e.syncUTXOIndex(c, before, !confirmed)
	if confirmed {
 if err := e.store.SaveState(c); err != nil {
 return err
 }
 return e.store.SavePending(c)
	}
	return e.store.SavePending(c)
}

func toContractUTXOAmount(in []codec.UTXOAmount) []contract.UTXOAmount {
	out := make([]contract.UTXOAmount, len(in))
	for i, v := range in {
 out[i] = contract.UTXOAmount{UTXO: v.UTXO, Amount: v.Amount}
	}
	return out
}

func toContractDripReceivers(in []codec.DripReceiver) []contract.DripReceiver {
	out := make([]contract.DripReceiver, len(in))
	for i, v := range in {
 out[i] = contract.DripReceiver{UTXO: v.UTXO, Amount: v.Amount, Duration: v.Duration}
	}
	return out
}

// bidEntriesWithPrecomputedIDs pairs each wire bid tuple with the bid_id and
// accept-tx id the submitter precomputed for it, carried alongside the BID
// command as bidPayload: one "<accept_tx_hex>:<fulfil_tx_hex>" pair per bid
// tuple, comma-separated in the same order as c.Bids.
func bidEntriesWithPrecomputedIDs(in []codec.BidEntry, bidPayload string) ([]contract.BidEntry, error) {
	if bidPayload == "" {
 return nil, fmt.Errorf("%w: BID requires an accompanying bid_payload", config.ErrPayloadGrammar)
	}
	pairs := strings.Split(bidPayload, ",")
	if len(pairs) != len(in) {
 return nil, fmt.Errorf("%w: BID carries %d bid tuple(s) but bid_payload has %d", config.ErrPayloadGrammar, len(in), len(pairs))
	}
	out := make([]contract.BidEntry, len(in))
	for i, v := range in {
 acceptHex, fulfilHex, ok := strings.Cut(strings.TrimSpace(pairs[i]), ":")
 if !ok {
 return nil, fmt.Errorf("%w: bid_payload entry %d is not an accept_tx:fulfil_tx pair", config.ErrPayloadGrammar, i)
 }
 acceptTxID, err := codec.FulfilTxID(acceptHex)
 if err != nil {
 return nil, err
 }
 fulfilTxID, err := codec.FulfilTxID(fulfilHex)
 if err != nil {
 return nil, err
 }
 out[i] = contract.BidEntry{
 OrderID: v.OrderID, Amount: v.Amount, Price: v.Price, ReservedUTXO: v.ReservedUTXO,
 FulfilTxID: fulfilTxID, AcceptTxID: acceptTxID,
 }
	}
	return out, nil
}

func blockHeight(tx *chainadapter.TxInfo) uint64 {
	if tx == nil || tx.Status.BlockHeight == nil {
 return 0
	}
	return *tx.Status.BlockHeight
}

// donorAddress returns the address funding the transaction's first input —
// the address diminishing airdrops and DGEs key claimer identity on.
func donorAddress(tx *chainadapter.TxInfo) string {
	if tx == nil || len(tx.Vin) == 0 || tx.Vin[0].Prevout == nil {
 return ""
	}
	return tx.Vin[0].Prevout.Address
}

// donationAmount sums every output of tx paid to addr — the BTC donation a
// DGE claim converts into tokens.
func donationAmount(tx *chainadapter.TxInfo, addr string) uint64 {
	if tx == nil || addr == "" {
 return 0
	}
	var total uint64
	for _, v := range tx.Vout {
 if v.Address == addr {
 total += v.Value
 }
	}
	return total
}

// claimIDFor names a newly created dim-airdrop/DGE pool after its own
// creating txid, the same "tokens refer to their defining txid" convention
// contract ids use — it's how a later claim payload can reference it back.
func claimIDFor(txid, contractID string) string {
	return txid
}

// spentByTx reports whether tx's inputs include utxo (formatted txid:vout).
func spentByTx(tx *chainadapter.TxInfo, utxo string) bool {
	if tx == nil || utxo == "" {
 return false
	}
	for _, in := range tx.Vin {
 if fmt.Sprintf("%s:%d", in.TxID, in.Vout) == utxo {
 return true
 }
	}
	return false
}

// resolveBidIDForAccept finds the bid to accept: every open bid carries the
// accept-tx id its submitter precomputed at BID time, so the bid being
// accepted is whichever one's AcceptTxID matches the currently executing
// transaction's own txid — a unique, deterministic match rather than a
// pick among several candidates. The listing's list_utxo must also be
// spent by this transaction, matching the original authorization check.
func resolveBidIDForAccept(c *contract.Contract, tx *chainadapter.TxInfo, txid string) (string, error) {
	for bidID, bid := range c.Bids {
 if bid.AcceptTxID != txid || bid.AcceptTx != "" {
 continue
 }
 listing, ok := c.Listings[bid.OrderID]
 if !ok || !spentByTx(tx, listing.ListUTXO) {
 continue
 }
 return bidID, nil
	}
	return "", fmt.Errorf("%w: accept_bid tx does not match a known bid's precomputed accept-tx id", config.ErrUnknownBid)
}
