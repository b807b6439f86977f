package executor

import (
	"context"
	"fmt"

	"github.com/scl-host/sclindexer/internal/chainadapter"
	"github.com/scl-host/sclindexer/internal/codec"
	"github.com/scl-host/sclindexer/internal/config"
	"github.com/scl-host/sclindexer/internal/contract"
)

// Consolidate rebinds a contract's balance after an off-protocol transaction
// moved one or more owned UTXOs with no OP_RETURN commitment: every input UTXO's balance is transferred in full to
// txid:0, the same way an on-protocol TRANSFER would, reusing
// Contract.Transfer rather than a separate rebind path.
func (e *Executor) Consolidate(ctx context.Context, txid, contractID string) (Result, error) {
	tx, err := e.chain.GetTransaction(ctx, txid, true)
	if err != nil {
 return Result{}, err
	}
	if _, ok := chainadapter.ExtractOpReturn(tx.Vout); ok {
 return Result{}, fmt.Errorf("%w: %s", config.ErrNotConsolidatable, txid)
	}
	if len(tx.Vin) == 0 {
 return Result{}, fmt.Errorf("%w: %s has no inputs", config.ErrPayloadGrammar, txid)
	}

	senders := make([]string, len(tx.Vin))
	for i, v := range tx.Vin {
 senders[i] = fmt.Sprintf("%s:%d", v.TxID, v.Vout)
	}

	confirmed := tx.Status.Confirmed
	result := Result{Confirmed: confirmed, ContractID: contractID, Kind: codec.KindConsolidate}
	err = e.withContracts([]string{contractID}, func() error {
 return e.mutate(contractID, txid, "CONSOLIDATE", confirmed, func(ct *contract.Contract) error {
 return ct.Transfer(txid, senders, []contract.UTXOAmount{{UTXO: txid + ":0", Amount: 0}}, blockHeight(tx))
 })
	})
	if err != nil {
 return Result{}, err
	}
	return result, nil
}
