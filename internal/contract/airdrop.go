package contract

import "github.com/scl-host/sclindexer/internal/config"

// CreateDimAirdrop opens a diminishing-rate airdrop claim pool, spending
// senders' combined balance into the pool.
func (c *Contract) CreateDimAirdrop(txid, claimID string, senders []string, pool, stepAmount, stepPeriod, max, min uint64, changeUTXO string, singleDrop bool) error {
	if c.HasApplied(txid) {
 return nil
	}
	if _, exists := c.DimAirdrops[claimID]; exists {
 return config.ErrDuplicateContract
	}
	total, err := c.spendSenders(senders)
	if err != nil {
 return err
	}
	if pool > total {
 return config.ErrInsufficientBalance
	}
	if remainder := total - pool; remainder > 0 && changeUTXO != "" {
 c.Owners[changeUTXO] += remainder
	}
	c.DimAirdrops[claimID] = &DimAirdrop{
 PoolAmount: pool,
 StepDownAmount: stepAmount,
 StepPeriodAmount: stepPeriod,
 MaxAirdrop: max,
 MinAirdrop: min,
 CurrentAirdrop: max,
 SingleDrop: singleDrop,
 Claimers: map[string]uint64{},
	}
	return nil
}

// ClaimDimAirdrop credits receiverUTXO with the pool's current per-claim
// amount, stepping the rate down every step_period_amount claims and
// clamping to what's left in the pool.
func (c *Contract) ClaimDimAirdrop(txid, claimID, donorAddr, receiverUTXO string) error {
	if c.HasApplied(txid) {
 return nil
	}
	da, ok := c.DimAirdrops[claimID]
	if !ok {
 return config.ErrAirdropExhausted
	}
	if da.SingleDrop {
 if _, already := da.Claimers[donorAddr]; already {
 return config.ErrAlreadyFulfilled
 }
	}
	remaining := da.PoolAmount - da.AmountAirdropped
	if remaining == 0 {
 return config.ErrAirdropExhausted
	}
	amount := da.CurrentAirdrop
	if amount > remaining {
 amount = remaining
	}
	c.Owners[receiverUTXO] += amount
	da.AmountAirdropped += amount
	da.Claimers[donorAddr] += amount

	da.CurrentInPeriod++
	if da.StepPeriodAmount > 0 && da.CurrentInPeriod == da.StepPeriodAmount {
 da.CurrentInPeriod = 0
 if da.CurrentAirdrop > da.MinAirdrop {
 if da.CurrentAirdrop-da.MinAirdrop < da.StepDownAmount {
 da.CurrentAirdrop = da.MinAirdrop
 } else {
 da.CurrentAirdrop -= da.StepDownAmount
 }
 }
	}
	return nil
}

// CreateDGE opens a donation-gated emission pool, spending senders'
// combined balance into it.
func (c *Contract) CreateDGE(txid, claimID string, senders []string, pool, satsRate, maxDrop, dripDuration uint64, donationsAddr, changeUTXO string, singleDrop bool) error {
	if c.HasApplied(txid) {
 return nil
	}
	if _, exists := c.DGEs[claimID]; exists {
 return config.ErrDuplicateContract
	}
	total, err := c.spendSenders(senders)
	if err != nil {
 return err
	}
	if pool > total {
 return config.ErrInsufficientBalance
	}
	if remainder := total - pool; remainder > 0 && changeUTXO != "" {
 c.Owners[changeUTXO] += remainder
	}
	c.DGEs[claimID] = &DGE{
 PoolAmount: pool,
 SatsRate: satsRate,
 MaxDrop: maxDrop,
 DonationsAddress: donationsAddr,
 DripDuration: dripDuration,
 SingleDrop: singleDrop,
 Donaters: map[string]uint64{},
	}
	return nil
}

// ClaimDGE converts a BTC donation of donationSats into a token drip:
// token_amount = donation_sats * 10^decimals / sats_rate, clamped by
// max_drop and the pool's remaining balance, then delivered as a fresh
// drip of drip_duration blocks rather than an instant credit.
func (c *Contract) ClaimDGE(txid, claimID, donorAddr string, donationSats uint64, receiverUTXO string, block uint64) error {
	if c.HasApplied(txid) {
 return nil
	}
	dge, ok := c.DGEs[claimID]
	if !ok {
 return config.ErrAirdropExhausted
	}
	if dge.SingleDrop {
 if _, already := dge.Donaters[donorAddr]; already {
 return config.ErrAlreadyFulfilled
 }
	}
	scale := pow10(c.Decimals)
	tokenAmount := donationSats * scale / dge.SatsRate
	if tokenAmount > dge.MaxDrop {
 tokenAmount = dge.MaxDrop
	}
	remaining := dge.PoolAmount - dge.CurrentAmountDropped
	if tokenAmount > remaining {
 tokenAmount = remaining
	}
	if tokenAmount == 0 {
 return config.ErrDonationOverCap
	}
	dge.CurrentAmountDropped += tokenAmount
	dge.Donaters[donorAddr] += donationSats

	dripAmount := tokenAmount / dge.DripDuration
	d := &Drip{
 BlockEnd: block + dge.DripDuration - 1,
 DripAmount: dripAmount,
 Amount: tokenAmount,
 StartBlock: block,
 LastBlockDripped: block,
	}
	c.Owners[receiverUTXO] += dripAmount
	d.Dripped += dripAmount
	c.Drips[receiverUTXO] = append(c.Drips[receiverUTXO], d)
	return nil
}

func pow10(n int) uint64 {
	v := uint64(1)
	for i := 0; i < n; i++ {
 v *= 10
	}
	return v
}

// Airdrop processes one claim against an SCL02 airdrop-token contract. The
// final airdrop (current_airdrops+1 == total_airdrops) is withheld and
// queued for an even split across all pending receivers on the next block.
func (c *Contract) Airdrop(txid, receiverUTXO string, pending bool) error {
	if c.HasApplied(txid) {
 return nil
	}
	if c.CurrentAirdrops+1 == c.TotalAirdrops {
 c.LastAirdropSplit = append(c.LastAirdropSplit, receiverUTXO)
 return nil
	}
	if err := c.checkSupplyCap(c.AirdropAmount); err != nil {
 return err
	}
	c.CurrentAirdrops++
	c.Supply += c.AirdropAmount
	if pending {
 c.PendingClaims[receiverUTXO] += c.AirdropAmount
	} else {
 c.Owners[receiverUTXO] += c.AirdropAmount
	}
	return nil
}

// AirdropSplit divides one airdrop's worth evenly across every UTXO queued
// in last_airdrop_split, invoked exactly once when a new block arrives
// while the queue is non-empty.
func (c *Contract) AirdropSplit() {
	if len(c.LastAirdropSplit) == 0 {
 return
	}
	n := uint64(len(c.LastAirdropSplit))
	share := c.AirdropAmount / n
	for _, utxo := range c.LastAirdropSplit {
 c.Owners[utxo] += share
	}
	c.Supply += share * n
	c.CurrentAirdrops = c.TotalAirdrops
	c.LastAirdropSplit = nil
}
