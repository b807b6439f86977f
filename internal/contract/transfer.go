package contract

import "github.com/scl-host/sclindexer/internal/config"

// migrateDrips moves every drip owned by any of fromUTXOs onto toUTXO,
// re-based to the given block: the amount for blocks elapsed since each
// drip's last credit is credited to toUTXO, so it is not lost.
func (c *Contract) migrateDrips(fromUTXOs []string, toUTXO string, block uint64) {
	for _, utxo := range fromUTXOs {
 ds, ok := c.Drips[utxo]
 if !ok {
 continue
 }
 delete(c.Drips, utxo)
 for _, d := range ds {
 advanceBlock := block
 if advanceBlock > d.BlockEnd {
 advanceBlock = d.BlockEnd
 }
 if advanceBlock > d.LastBlockDripped {
 elapsed := (advanceBlock - d.LastBlockDripped) * d.DripAmount
 d.Dripped += elapsed
 c.Owners[toUTXO] += elapsed
 d.LastBlockDripped = advanceBlock
 }
 c.Drips[toUTXO] = append(c.Drips[toUTXO], d)
 }
	}
}

// spendSenders removes senders from owners and returns their combined
// balance, or an error if any sender is unknown.
func (c *Contract) spendSenders(senders []string) (uint64, error) {
	var total uint64
	for _, s := range senders {
 bal, ok := c.Owners[s]
 if !ok {
 return 0, config.ErrUnknownUTXO
 }
 total += bal
	}
	for _, s := range senders {
 delete(c.Owners, s)
	}
	return total, nil
}

// Transfer moves tokens from senders to receivers, migrating any drips on
// the senders to the last receiver and crediting any pro-rated surplus
// there too.
func (c *Contract) Transfer(txid string, senders []string, receivers []UTXOAmount, block uint64) error {
	if c.HasApplied(txid) {
 return nil
	}
	total, err := c.spendSenders(senders)
	if err != nil {
 return err
	}
	var sent uint64
	for _, r := range receivers {
 sent += r.Amount
	}
	if sent > total {
 return config.ErrInsufficientBalance
	}
	if len(receivers) == 0 {
 return config.ErrPayloadGrammar
	}
	for i, r := range receivers {
 amt := r.Amount
 if i == len(receivers)-1 {
 amt += total - sent // residual surplus to last receiver
 }
 c.Owners[r.UTXO] += amt
	}
	last := receivers[len(receivers)-1].UTXO
	c.migrateDrips(senders, last, block)
	return nil
}

// Burn removes amt tokens from burners' combined balance, returning any
// excess to changeUTXO, and decrements supply.
func (c *Contract) Burn(txid string, burners []string, amt uint64, changeUTXO string) error {
	if c.HasApplied(txid) {
 return nil
	}
	total, err := c.spendSenders(burners)
	if err != nil {
 return err
	}
	if total < amt {
 return config.ErrInsufficientBalance
	}
	if total > amt && changeUTXO != "" {
 c.Owners[changeUTXO] += total - amt
	}
	c.Supply -= amt
	return nil
}

// UTXOAmount is the contract package's own receiver-shape type, decoupled
// from the codec package so contract has no dependency on the wire format.
type UTXOAmount struct {
	UTXO string
	Amount uint64
}
