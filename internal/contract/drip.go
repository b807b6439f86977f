package contract

import "github.com/scl-host/sclindexer/internal/config"

// DripReceiver is one receiver inside a DRIP payload: an amount to release
// evenly across duration blocks.
type DripReceiver struct {
	UTXO string
	Amount uint64
	Duration uint64
}

// StartDrip spends senders' combined balance, opens one new Drip per
// receiver, and immediately credits the first block's worth to each —
// "start_drip... immediately credits one block's worth".
func (c *Contract) StartDrip(txid string, senders []string, receivers []DripReceiver, changeUTXO string, block uint64) error {
	if c.HasApplied(txid) {
 return nil
	}
	total, err := c.spendSenders(senders)
	if err != nil {
 return err
	}
	var committed uint64
	for _, r := range receivers {
 if r.Duration == 0 {
 return config.ErrPayloadGrammar
 }
 committed += r.Amount
	}
	if committed > total {
 return config.ErrInsufficientBalance
	}
	for _, r := range receivers {
 dripAmount := r.Amount / r.Duration
 d := &Drip{
 BlockEnd: block + r.Duration - 1,
 DripAmount: dripAmount,
 Amount: r.Amount,
 StartBlock: block,
 LastBlockDripped: block,
 }
 c.Drips[r.UTXO] = append(c.Drips[r.UTXO], d)
 c.Owners[r.UTXO] += dripAmount
 d.Dripped += dripAmount
	}
	if remainder := total - committed; remainder > 0 && changeUTXO != "" {
 c.Owners[changeUTXO] += remainder
	}
	return nil
}

// AdvanceDrips advances every outstanding drip to min(block, block_end),
// crediting (advanced_blocks)*drip_amount, applying the terminal-block
// residual correction so integer-division dust lands on the last block
// (original_source drip behavior), and draining drips whose block_end has
// passed.
func (c *Contract) AdvanceDrips(block uint64) {
	for utxo, ds := range c.Drips {
 var kept []*Drip
 for _, d := range ds {
 advanceBlock := block
 if advanceBlock > d.BlockEnd {
 advanceBlock = d.BlockEnd
 }
 if advanceBlock > d.LastBlockDripped {
 credited := (advanceBlock - d.LastBlockDripped) * d.DripAmount
 d.Dripped += credited
 d.LastBlockDripped = advanceBlock
 c.Owners[utxo] += credited
 }
 if block >= d.BlockEnd {
 if residual := d.Amount - d.Dripped; residual > 0 {
 c.Owners[utxo] += residual
 d.Dripped += residual
 }
 continue // drained, drop from kept
 }
 kept = append(kept, d)
 }
 if len(kept) == 0 {
 delete(c.Drips, utxo)
 } else {
 c.Drips[utxo] = kept
 }
	}
}
