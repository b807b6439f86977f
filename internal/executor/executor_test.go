package executor

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/scl-host/sclindexer/internal/chainadapter"
	"github.com/scl-host/sclindexer/internal/codec"
	"github.com/scl-host/sclindexer/internal/config"
	"github.com/scl-host/sclindexer/internal/runtimeconfig"
	"github.com/scl-host/sclindexer/internal/store"
)

// rawTxHex builds a minimal, syntactically valid raw transaction so a test
// can carry a real, precomputable txid as a BID's accept/fulfil tx — keyed
// off seed so distinct calls produce distinct txids.
func rawTxHex(t *testing.T, seed byte) string {
	t.Helper()
	msgTx := wire.NewMsgTx(wire.TxVersion)
	var prevHash chainhash.Hash
	prevHash[0] = seed
	msgTx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&prevHash, 0), nil, nil))
	msgTx.AddTxOut(wire.NewTxOut(1000, []byte{0x6a}))

	var buf bytes.Buffer
	if err := msgTx.Serialize(&buf); err != nil {
		t.Fatalf("serialize raw tx: %v", err)
	}
	return hex.EncodeToString(buf.Bytes())
}

// seedTx writes a fake cached transaction so the chain adapter never needs
// network access in these tests.
func seedTx(t *testing.T, jsonDir string, info chainadapter.TxInfo) {
	t.Helper()
	dir := filepath.Join(jsonDir, "TXs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
 t.Fatalf("mkdir TXs: %v", err)
	}
	data, err := json.Marshal(info)
	if err != nil {
 t.Fatalf("marshal tx: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, info.TxID+".txt"), data, 0o644); err != nil {
 t.Fatalf("write tx cache: %v", err)
	}
}

func confirmedStatus(height uint64) chainadapter.Status {
	h := height
	return chainadapter.Status{Confirmed: true, BlockHeight: &h}
}

func opReturnVout(hexPush string) chainadapter.Vout {
	return chainadapter.Vout{
 ScriptPubKeyType: "op_return",
 ScriptPubKeyAsm: fmt.Sprintf("OP_RETURN OP_PUSHBYTES_%d %s", len(hexPush)/2, hexPush),
	}
}

func newTestExecutor(t *testing.T) (*Executor, string) {
	t.Helper()
	dir := t.TempDir()
	chain := chainadapter.New("http://example.invalid", dir)
	st := store.New(dir)
	return New(chain, st, nil, nil), dir
}

func TestExecute_MintThenTransfer(t *testing.T) {
	ex, dir := newTestExecutor(t)

	mintTxID := "mint1"
	mintPayload := "{SCL01:[TICK,21000000,8,mint1:0]}"
	seedTx(t, dir, chainadapter.TxInfo{
 TxID: mintTxID,
 Vout: []chainadapter.Vout{opReturnVout(codec.CommitmentHex(mintPayload)), {Address: "addrA", Value: 1000}},
 Status: confirmedStatus(100),
	})

	res, err := ex.Execute(context.Background(), Request{TxID: mintTxID, Payload: mintPayload})
	if err != nil {
 t.Fatalf("Execute(mint) error = %v", err)
	}
	if !res.Confirmed || res.ContractID != mintTxID {
 t.Fatalf("unexpected mint result: %+v", res)
	}

	st := store.New(dir)
	minted, err := st.LoadState(mintTxID)
	if err != nil || minted == nil {
 t.Fatalf("LoadState after mint = %v, %v", minted, err)
	}
	if minted.Owners["mint1:0"] != 21000000 {
 t.Fatalf("unexpected owner balance after mint: %+v", minted.Owners)
	}

	transferTxID := "transfer1"
	transferPayload := fmt.Sprintf("{%s:TRANSFER[mint1:0],[transfer1:0(21000000)]}", mintTxID)
	seedTx(t, dir, chainadapter.TxInfo{
 TxID: transferTxID,
 Vin: []chainadapter.Vin{{TxID: mintTxID, Vout: 0}},
 Vout: []chainadapter.Vout{opReturnVout(codec.CommitmentHex(transferPayload))},
 Status: confirmedStatus(101),
	})

	res, err = ex.Execute(context.Background(), Request{TxID: transferTxID, Payload: transferPayload})
	if err != nil {
 t.Fatalf("Execute(transfer) error = %v", err)
	}
	if res.ContractID != mintTxID {
 t.Fatalf("unexpected transfer result contract id: %+v", res)
	}

	after, err := st.LoadState(mintTxID)
	if err != nil || after == nil {
 t.Fatalf("LoadState after transfer = %v, %v", after, err)
	}
	if after.Owners["transfer1:0"] != 21000000 {
 t.Fatalf("unexpected owners after transfer: %+v", after.Owners)
	}
	if _, stillThere := after.Owners["mint1:0"]; stillThere {
 t.Fatalf("sender utxo should be spent: %+v", after.Owners)
	}
}

func TestExecute_CommitmentMismatchIsRejected(t *testing.T) {
	ex, dir := newTestExecutor(t)
	mintTxID := "mint2"
	mintPayload := "{SCL01:[TICK,21000000,8,mint2:0]}"
	seedTx(t, dir, chainadapter.TxInfo{
 TxID: mintTxID,
 Vout: []chainadapter.Vout{opReturnVout("00112233")},
 Status: confirmedStatus(100),
	})

	_, err := ex.Execute(context.Background(), Request{TxID: mintTxID, Payload: mintPayload})
	if err == nil {
 t.Fatalf("expected a commitment mismatch error")
	}
}

func TestExecute_IdempotentOnRepeatedTxid(t *testing.T) {
	ex, dir := newTestExecutor(t)
	mintTxID := "mint3"
	mintPayload := "{SCL01:[TICK,1000,0,mint3:0]}"
	seedTx(t, dir, chainadapter.TxInfo{
 TxID: mintTxID,
 Vout: []chainadapter.Vout{opReturnVout(codec.CommitmentHex(mintPayload))},
 Status: confirmedStatus(5),
	})

	if _, err := ex.Execute(context.Background(), Request{TxID: mintTxID, Payload: mintPayload}); err != nil {
 t.Fatalf("first Execute error = %v", err)
	}
	if _, err := ex.Execute(context.Background(), Request{TxID: mintTxID, Payload: mintPayload}); err != nil {
 t.Fatalf("second Execute (idempotent replay) error = %v", err)
	}
}

func TestExecute_MintSCL02RejectsReservedTicker(t *testing.T) {
	dir := t.TempDir()
	chain := chainadapter.New("http://example.invalid", dir)
	st := store.New(dir)
	rt, err := runtimeconfig.Open(dir)
	if err != nil {
 t.Fatalf("runtimeconfig.Open error = %v", err)
	}
	cfg := rt.Config()
	cfg.ReservedTickers = []string{"BANNED"}
	if err := rt.SaveConfig(cfg); err != nil {
 t.Fatalf("SaveConfig error = %v", err)
	}
	ex := New(chain, st, rt, nil)

	mintTxID := "mint4"
	mintPayload := "{SCL02:[BANNED,1000,100,0]}"
	seedTx(t, dir, chainadapter.TxInfo{
 TxID: mintTxID,
 Vout: []chainadapter.Vout{opReturnVout(codec.CommitmentHex(mintPayload))},
 Status: confirmedStatus(10),
	})

	if _, err := ex.Execute(context.Background(), Request{TxID: mintTxID, Payload: mintPayload}); !errors.Is(err, config.ErrReservedTicker) {
 t.Fatalf("Execute error = %v, want config.ErrReservedTicker", err)
	}

	minted, err := st.LoadState(mintTxID)
	if err != nil {
 t.Fatalf("LoadState error = %v", err)
	}
	if minted != nil {
 t.Fatalf("reserved ticker mint should not have been persisted: %+v", minted)
	}
}

// TestExecute_ListBidAcceptFulfilFlow exercises a full marketplace trade
// (LIST, BID, ACCEPT_BID, FULFIL_TRADE) through Execute end to end, using
// real wire-serialized raw transactions for the bid's precomputed accept
// and fulfil txids, and checks that the C6 UTXO balance index is actually
// written and deleted alongside contract state at every step.
func TestExecute_ListBidAcceptFulfilFlow(t *testing.T) {
	ex, dir := newTestExecutor(t)
	st := store.New(dir)
	const payAddr = "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa"

	mintTxID := "mint5"
	mintPayload := "{SCL01:[TICK,1000,0,mint5:0]}"
	seedTx(t, dir, chainadapter.TxInfo{
		TxID:   mintTxID,
		Vout:   []chainadapter.Vout{opReturnVout(codec.CommitmentHex(mintPayload))},
		Status: confirmedStatus(10),
	})
	if _, err := ex.Execute(context.Background(), Request{TxID: mintTxID, Payload: mintPayload}); err != nil {
		t.Fatalf("Execute(mint) error = %v", err)
	}
	rec, ok, err := st.ReadUTXORecord("mint5:0")
	if err != nil || !ok {
		t.Fatalf("ReadUTXORecord(mint5:0) after mint = %+v, %v, %v", rec, ok, err)
	}
	if rec.ContractID != mintTxID || rec.Tag != store.TagOwner || rec.Values[0] != "1000" {
		t.Fatalf("unexpected owner record after mint: %+v", rec)
	}

	listTxID := "list5"
	listPayload := fmt.Sprintf("{%s:LIST[mint5:0],change5:0,list5:0,500,1000,%s}", mintTxID, payAddr)
	seedTx(t, dir, chainadapter.TxInfo{
		TxID:   listTxID,
		Vin:    []chainadapter.Vin{{TxID: mintTxID, Vout: 0}},
		Vout:   []chainadapter.Vout{opReturnVout(codec.CommitmentHex(listPayload))},
		Status: confirmedStatus(11),
	})
	if _, err := ex.Execute(context.Background(), Request{TxID: listTxID, Payload: listPayload}); err != nil {
		t.Fatalf("Execute(list) error = %v", err)
	}
	if _, ok, err := st.ReadUTXORecord("mint5:0"); err != nil || ok {
		t.Fatalf("ReadUTXORecord(mint5:0) should be gone after its owner utxo was spent by LIST: ok=%v err=%v", ok, err)
	}
	listRec, ok, err := st.ReadUTXORecord("list5:0")
	if err != nil || !ok {
		t.Fatalf("ReadUTXORecord(list5:0) after list = %+v, %v, %v", listRec, ok, err)
	}
	if listRec.ContractID != mintTxID || listRec.Tag != store.TagListing {
		t.Fatalf("unexpected listing record after list: %+v", listRec)
	}

	acceptRawHex := rawTxHex(t, 0x10)
	fulfilRawHex := rawTxHex(t, 0x11)
	acceptTxID, err := codec.FulfilTxID(acceptRawHex)
	if err != nil {
		t.Fatalf("FulfilTxID(accept) error = %v", err)
	}
	fulfilTxID, err := codec.FulfilTxID(fulfilRawHex)
	if err != nil {
		t.Fatalf("FulfilTxID(fulfil) error = %v", err)
	}

	bidTxID := "bidtx5"
	bidPayload := fmt.Sprintf("{%s:BID[mint5:0,500,1000,res5:0]}", mintTxID)
	seedTx(t, dir, chainadapter.TxInfo{
		TxID:   bidTxID,
		Vout:   []chainadapter.Vout{opReturnVout(codec.CommitmentHex(bidPayload))},
		Status: confirmedStatus(12),
	})
	if _, err := ex.Execute(context.Background(), Request{
		TxID: bidTxID, Payload: bidPayload, BidPayload: acceptRawHex + ":" + fulfilRawHex,
	}); err != nil {
		t.Fatalf("Execute(bid) error = %v", err)
	}
	bidRec, ok, err := st.ReadUTXORecord("res5:0")
	if err != nil || !ok {
		t.Fatalf("ReadUTXORecord(res5:0) after bid = %+v, %v, %v", bidRec, ok, err)
	}
	if bidRec.ContractID != mintTxID || bidRec.Tag != store.TagBid {
		t.Fatalf("unexpected bid record after bid: %+v", bidRec)
	}
	listRec, ok, err = st.ReadUTXORecord("list5:0")
	if err != nil || !ok {
		t.Fatalf("ReadUTXORecord(list5:0) after bid = %+v, %v, %v", listRec, ok, err)
	}
	if listRec.Values[2] != "1" {
		t.Fatalf("listing record should report 1 bid after a matching bid lands: %+v", listRec)
	}

	acceptPayload := fmt.Sprintf("{%s:ACCEPT_BID}", mintTxID)
	seedTx(t, dir, chainadapter.TxInfo{
		TxID:   acceptTxID,
		Vin:    []chainadapter.Vin{{TxID: listTxID, Vout: 0}},
		Vout:   []chainadapter.Vout{opReturnVout(codec.CommitmentHex(acceptPayload))},
		Status: confirmedStatus(13),
	})
	if _, err := ex.Execute(context.Background(), Request{TxID: acceptTxID, Payload: acceptPayload}); err != nil {
		t.Fatalf("Execute(accept_bid) error = %v", err)
	}

	fulfilPayload := fmt.Sprintf("{%s:FULFIL_TRADE}", mintTxID)
	seedTx(t, dir, chainadapter.TxInfo{
		TxID:   fulfilTxID,
		Vin:    []chainadapter.Vin{{TxID: "res5", Vout: 0}},
		Vout:   []chainadapter.Vout{opReturnVout(codec.CommitmentHex(fulfilPayload))},
		Status: confirmedStatus(14),
	})
	if _, err := ex.Execute(context.Background(), Request{TxID: fulfilTxID, Payload: fulfilPayload}); err != nil {
		t.Fatalf("Execute(fulfil_trade) error = %v", err)
	}

	final, err := st.LoadState(mintTxID)
	if err != nil || final == nil {
		t.Fatalf("LoadState after fulfil = %v, %v", final, err)
	}
	if final.Owners[fulfilTxID+":0"] != 500 {
		t.Fatalf("buyer should be credited 500 at %s:0: %+v", fulfilTxID, final.Owners)
	}
	if _, stillListed := final.Listings["mint5:0"]; stillListed {
		t.Fatalf("listing should be gone after fulfil: %+v", final.Listings)
	}
	if len(final.Bids) != 0 {
		t.Fatalf("bids should be gone after fulfil: %+v", final.Bids)
	}

	if _, ok, err := st.ReadUTXORecord("list5:0"); err != nil || ok {
		t.Fatalf("listing index record should be deleted after fulfil: ok=%v err=%v", ok, err)
	}
	if _, ok, err := st.ReadUTXORecord("res5:0"); err != nil || ok {
		t.Fatalf("bid index record should be deleted after fulfil: ok=%v err=%v", ok, err)
	}
	buyerRec, ok, err := st.ReadUTXORecord(fulfilTxID + ":0")
	if err != nil || !ok {
		t.Fatalf("ReadUTXORecord(%s:0) after fulfil = %+v, %v, %v", fulfilTxID, buyerRec, ok, err)
	}
	if buyerRec.ContractID != mintTxID || buyerRec.Tag != store.TagOwner || buyerRec.Values[0] != "500" {
		t.Fatalf("unexpected buyer owner record after fulfil: %+v", buyerRec)
	}
}
