package contract

import "github.com/scl-host/sclindexer/internal/config"

// ProvideLiquidity removes amount from senders' combined balance on an
// underlying token contract and marks it reserved as liquidated_tokens,
// migrating any drips to changeUTXO.
func (c *Contract) ProvideLiquidity(txid string, senders []string, amount uint64, changeUTXO string, block uint64) error {
	if c.HasApplied(txid) {
 return nil
	}
	total, err := c.spendSenders(senders)
	if err != nil {
 return err
	}
	if amount > total {
 return config.ErrInsufficientBalance
	}
	c.LiquidatedTokens += amount
	if remainder := total - amount; remainder > 0 && changeUTXO != "" {
 c.Owners[changeUTXO] += remainder
	}
	c.migrateDrips(senders, changeUTXO, block)
	return nil
}

// SwapClaim removes the provided input from an underlying contract's
// owners ahead of a cross-contract swap.
func (c *Contract) SwapClaim(txid string, senders []string) (uint64, error) {
	if c.HasApplied(txid) {
 return 0, nil
	}
	total, err := c.spendSenders(senders)
	if err != nil {
 return 0, err
	}
	c.LiquidatedTokens += total
	return total, nil
}

// SwapReceive credits txid:0 on the receiving underlying contract with the
// swapped-out amount, releasing it from the reserved pool.
func (c *Contract) SwapReceive(txid string, amount uint64) error {
	if c.HasApplied(txid) {
 return nil
	}
	if amount > c.LiquidatedTokens {
 return config.ErrInsufficientBalance
	}
	c.LiquidatedTokens -= amount
	c.Owners[txid+":0"] += amount
	return nil
}

// LiquidatePosition releases amount of reserved (liquidated_tokens) supply
// back to receiverUTXO on an underlying contract, as part of an LP
// position withdrawal.
func (c *Contract) LiquidatePosition(txid, receiverUTXO string, amount uint64) error {
	if amount > c.LiquidatedTokens {
 return config.ErrInsufficientBalance
	}
	c.LiquidatedTokens -= amount
	c.Owners[receiverUTXO] += amount
	return nil
}

// ProvideLiquidityLP seeds or adds to the constant-product pools: pool_1 +=
// amount, pool_2 += amount*liquidity_ratio, minting that many combined LP
// shares to txid:0 on the LP contract itself, and recomputes k.
func (c *Contract) ProvideLiquidityLP(txid string, amount uint64) error {
	if c.HasApplied(txid) {
 return nil
	}
	lp := c.LiquidityPool
	if lp == nil {
 return config.ErrUnknownContract
	}
	amount2 := amount * lp.LiquidityRatio
	lp.Pool1 += amount
	lp.Pool2 += amount2
	lp.K = lp.Pool1 * lp.Pool2
	shares := amount + amount2
	c.Owners[txid+":0"] += shares
	c.Supply += shares
	return nil
}

// SwapLP executes a constant-product swap with fee. which selects the
// provided side (0 = pool_1 in, 1 = pool_2 in). If the computed output
// deviates from quoted by more than tolerance, the output is capped to
// quoted*(1+tolerance) when it's at least quoted, or the swap is refused
// (returns 0, no state change) when it's below quoted*(1-tolerance).
func (c *Contract) SwapLP(txid string, which int, provided, quoted uint64, tolerance float64) (uint64, error) {
	if c.HasApplied(txid) {
 return 0, nil
	}
	lp := c.LiquidityPool
	if lp == nil {
 return 0, config.ErrUnknownContract
	}

	senderPool, receiverPool := lp.Pool1, lp.Pool2
	if which == 1 {
 senderPool, receiverPool = lp.Pool2, lp.Pool1
	}

	effectiveIn := float64(provided) * (1 - lp.Fee)
	out := receiverPool - uint64(float64(lp.K)/(float64(senderPool)+effectiveIn))

	lowerBound := float64(quoted) * (1 - tolerance)
	upperBound := float64(quoted) * (1 + tolerance)
	switch {
	case float64(out) > upperBound:
 out = uint64(upperBound)
	case float64(out) < lowerBound:
 return 0, config.ErrSlippageExceeded
	}

	if which == 0 {
 lp.Pool1 += provided
 lp.Pool2 -= out
	} else {
 lp.Pool2 += provided
 lp.Pool1 -= out
	}
	lp.K = lp.Pool1 * lp.Pool2
	lp.Swaps++
	return out, nil
}

// LiquidatePositionLP burns amount LP shares from lpUTXOs and returns the
// pro-rata share of both pools to withdraw — the caller (executor) applies
// those amounts to the two underlying contracts via LiquidatePosition.
func (c *Contract) LiquidatePositionLP(txid string, lpUTXOs []string, amount uint64) (out1, out2 uint64, err error) {
	if c.HasApplied(txid) {
 return 0, 0, nil
	}
	lp := c.LiquidityPool
	if lp == nil {
 return 0, 0, config.ErrUnknownContract
	}
	held, spendErr := c.spendSenders(lpUTXOs)
	if spendErr != nil {
 return 0, 0, spendErr
	}
	if amount > held {
 return 0, 0, config.ErrInsufficientBalance
	}
	if remainder := held - amount; remainder > 0 {
 c.Owners[txid+":0"] += remainder
	}
	out1 = lp.Pool1 * amount / c.Supply
	out2 = lp.Pool2 * amount / c.Supply
	lp.Pool1 -= out1
	lp.Pool2 -= out2
	lp.K = lp.Pool1 * lp.Pool2
	lp.Liquidations++
	c.Supply -= amount
	return out1, out2, nil
}
