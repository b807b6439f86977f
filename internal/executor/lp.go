package executor

import (
	"fmt"

	"github.com/scl-host/sclindexer/internal/chainadapter"
	"github.com/scl-host/sclindexer/internal/codec"
	"github.com/scl-host/sclindexer/internal/contract"
)

// lpContracts loads the LP contract and both of its underlying token
// contracts (confirmed or pending per the flag). Callers must already hold
// all three contracts' locks (touchedContracts resolves them up front).
func (e *Executor) lpContracts(lpContractID string, confirmed bool) (lp, under1, under2 *contract.Contract, err error) {
	load := e.store.LoadPending
	if confirmed {
 load = e.store.LoadState
	}
	lp, err = load(lpContractID)
	if err != nil {
 return nil, nil, nil, err
	}
	if lp == nil || lp.LiquidityPool == nil {
 return nil, nil, nil, fmt.Errorf("executor: %s is not a liquidity pool contract", lpContractID)
	}
	under1, err = load(lp.LiquidityPool.ContractID1)
	if err != nil {
 return nil, nil, nil, err
	}
	under2, err = load(lp.LiquidityPool.ContractID2)
	if err != nil {
 return nil, nil, nil, err
	}
	if under1 == nil || under2 == nil {
 return nil, nil, nil, fmt.Errorf("executor: lp %s references an unknown underlying contract", lpContractID)
	}
	return lp, under1, under2, nil
}

func (e *Executor) saveTrio(confirmed bool, contracts...*contract.Contract) error {
	for _, c := range contracts {
 if confirmed {
 if err := e.store.SaveState(c); err != nil {
 return err
 }
 }
 if err := e.store.SavePending(c); err != nil {
 return err
 }
	}
	return nil
}

// txInputUTXOs lists every input of tx as "txid:vout" strings.
func txInputUTXOs(tx *chainadapter.TxInfo) []string {
	if tx == nil {
 return nil
	}
	out := make([]string, len(tx.Vin))
	for i, v := range tx.Vin {
 out[i] = fmt.Sprintf("%s:%d", v.TxID, v.Vout)
	}
	return out
}

// splitSendersByContract partitions a set of spent UTXOs between the two
// underlying contracts they belong to, consulting the UTXO balance index
// (component C6) since LP wire payloads carry no sender list of their own —
// only a bare amount.
func (e *Executor) splitSendersByContract(utxos []string, id1, id2 string) (forID1, forID2 []string) {
	for _, u := range utxos {
 rec, ok, err := e.store.ReadUTXORecord(u)
 if err != nil || !ok {
 continue
 }
 switch rec.ContractID {
 case id1:
 forID1 = append(forID1, u)
 case id2:
 forID2 = append(forID2, u)
 }
	}
	return forID1, forID2
}

// applyLPProvide spends amount (and amount*liquidity_ratio of the second
// asset) out of whichever of the two underlying contracts the spent inputs
// belong to, then mints LP shares.
func (e *Executor) applyLPProvide(req Request, txid string, confirmed bool, amount, block uint64, tx *chainadapter.TxInfo) error {
	lp, under1, under2, err := e.lpContracts(req.LPContractID, confirmed)
	if err != nil {
 return err
	}
	if lp.HasApplied(txid) {
 return nil
	}
	senders1, senders2 := e.splitSendersByContract(txInputUTXOs(tx), under1.ContractID, under2.ContractID)
	beforeLP, before1, before2 := snapshotUTXOs(lp), snapshotUTXOs(under1), snapshotUTXOs(under2)
	change1, change2 := txid+":1", txid+":2"

	if len(senders1) > 0 {
 if err := under1.ProvideLiquidity(txid, senders1, amount, change1, block); err != nil {
 return err
 }
	}
	amount2 := amount * lp.LiquidityPool.LiquidityRatio
	if len(senders2) > 0 {
 if err := under2.ProvideLiquidity(txid, senders2, amount2, change2, block); err != nil {
 return err
 }
	}
	if err := lp.ProvideLiquidityLP(txid, amount); err != nil {
 return err
	}
	lp.RecordPayload(txid, "")
	e.syncUTXOIndex(lp, beforeLP, !confirmed)
	e.syncUTXOIndex(under1, before1, !confirmed)
	e.syncUTXOIndex(under2, before2, !confirmed)
	return e.saveTrio(confirmed, lp, under1, under2)
}

// applyLPSwap claims the provided amount out of the sending underlying
// contract, runs the constant-product swap on the LP contract, and credits
// the swap's computed output to the receiving underlying contract.
func (e *Executor) applyLPSwap(req Request, txid string, confirmed bool, c codec.LPSwap, tx *chainadapter.TxInfo) error {
	lp, under1, under2, err := e.lpContracts(req.LPContractID, confirmed)
	if err != nil {
 return err
	}
	if lp.HasApplied(txid) {
 return nil
	}
	beforeLP, before1, before2 := snapshotUTXOs(lp), snapshotUTXOs(under1), snapshotUTXOs(under2)
	providing, receiving := under1, under2
	if c.Which == 1 {
 providing, receiving = under2, under1
	}

	if _, err := providing.SwapClaim(txid, txInputUTXOs(tx)); err != nil {
 return err
	}
	out, err := lp.SwapLP(txid, c.Which, c.Amount, c.Quoted, c.Tolerance)
	if err != nil {
 return err
	}
	if out > 0 {
 if err := receiving.SwapReceive(txid, out); err != nil {
 return err
 }
	}
	lp.RecordPayload(txid, "")
	e.syncUTXOIndex(lp, beforeLP, !confirmed)
	e.syncUTXOIndex(under1, before1, !confirmed)
	e.syncUTXOIndex(under2, before2, !confirmed)
	return e.saveTrio(confirmed, lp, under1, under2)
}

// applyLPLiquidate burns LP shares and withdraws the pro-rata share of both
// underlying pools.
func (e *Executor) applyLPLiquidate(req Request, txid string, confirmed bool, amount uint64, tx *chainadapter.TxInfo) error {
	lp, under1, under2, err := e.lpContracts(req.LPContractID, confirmed)
	if err != nil {
 return err
	}
	if lp.HasApplied(txid) {
 return nil
	}
	beforeLP, before1, before2 := snapshotUTXOs(lp), snapshotUTXOs(under1), snapshotUTXOs(under2)
	out1, out2, err := lp.LiquidatePositionLP(txid, txInputUTXOs(tx), amount)
	if err != nil {
 return err
	}
	if out1 > 0 {
 if err := under1.LiquidatePosition(txid, txid+":1", out1); err != nil {
 return err
 }
	}
	if out2 > 0 {
 if err := under2.LiquidatePosition(txid, txid+":2", out2); err != nil {
 return err
 }
	}
	lp.RecordPayload(txid, "")
	e.syncUTXOIndex(lp, beforeLP, !confirmed)
	e.syncUTXOIndex(under1, before1, !confirmed)
	e.syncUTXOIndex(under2, before2, !confirmed)
	return e.saveTrio(confirmed, lp, under1, under2)
}
