package contract

import (
	"strconv"
	"testing"
)

func TestDimAirdrop_StepsDownEveryPeriod(t *testing.T) {
	c := MintSCL01("A", "TKR", 1000, 0, "A:0")
	if err := c.CreateDimAirdrop("create1", "claim1", []string{"A:0"}, 1000, 10, 2, 100, 50, "change:0", false); err != nil {
 t.Fatalf("CreateDimAirdrop error = %v", err)
	}

	if err := c.ClaimDimAirdrop("c1", "claim1", "addr1", "r1:0"); err != nil {
 t.Fatalf("ClaimDimAirdrop error = %v", err)
	}
	if c.Owners["r1:0"] != 100 {
 t.Fatalf("expected first claim of 100, got %d", c.Owners["r1:0"])
	}

	if err := c.ClaimDimAirdrop("c2", "claim1", "addr2", "r2:0"); err != nil {
 t.Fatalf("ClaimDimAirdrop error = %v", err)
	}
	// step_period_amount=2, so after the 2nd claim current_airdrop steps down by 10.
	if c.DimAirdrops["claim1"].CurrentAirdrop != 90 {
 t.Fatalf("expected step-down to 90, got %d", c.DimAirdrops["claim1"].CurrentAirdrop)
	}
}

// TestDimAirdropExhaustion_SumOfClaimsNeverExceedsPool checks that the sum of claims
// equals pool_amount at completion, current_airdrop monotonically
// non-increasing.
func TestDimAirdropExhaustion_SumOfClaimsNeverExceedsPool(t *testing.T) {
	c := MintSCL01("A", "TKR", 100000, 0, "A:0")
	if err := c.CreateDimAirdrop("create1", "claim1", []string{"A:0"}, 1000, 5, 3, 50, 10, "change:0", false); err != nil {
 t.Fatalf("CreateDimAirdrop error = %v", err)
	}

	var total uint64
	lastRate := c.DimAirdrops["claim1"].CurrentAirdrop
	for i := 0; i < 200; i++ {
 da := c.DimAirdrops["claim1"]
 if da.AmountAirdropped >= da.PoolAmount {
 break
 }
 before := c.Owners["sink:0"]
 if err := c.ClaimDimAirdrop(txidFor(i), "claim1", addrFor(i), "sink:0"); err != nil {
 t.Fatalf("ClaimDimAirdrop iteration %d error = %v", i, err)
 }
 total += c.Owners["sink:0"] - before
 if da.CurrentAirdrop > lastRate {
 t.Fatalf("current_airdrop increased: %d -> %d", lastRate, da.CurrentAirdrop)
 }
 lastRate = da.CurrentAirdrop
	}
	if total != 1000 {
 t.Fatalf("expected total claimed to equal pool_amount 1000, got %d", total)
	}
}

// TestDGEClaim_DonationConvertsToTokenDrip checks the sats-to-token conversion.
func TestDGEClaim_DonationConvertsToTokenDrip(t *testing.T) {
	c := MintSCL01("A", "TKR", 1000000, 0, "A:0")
	if err := c.CreateDGE("create1", "dge1", []string{"A:0"}, 10000, 1000, 500, 10, "donate:0", "change:0", false); err != nil {
 t.Fatalf("CreateDGE error = %v", err)
	}
	if err := c.ClaimDGE("claim1", "dge1", "donorAddr", 100000, "recv:0", 1); err != nil {
 t.Fatalf("ClaimDGE error = %v", err)
	}
	drips := c.Drips["recv:0"]
	if len(drips) != 1 {
 t.Fatalf("expected a drip opened for the claim, got %+v", drips)
	}
	if drips[0].Amount != 100 {
 t.Fatalf("expected drip amount 100, got %d", drips[0].Amount)
	}
	if drips[0].BlockEnd != 10 {
 t.Fatalf("expected block_end 10 (1+10-1), got %d", drips[0].BlockEnd)
	}
}

func txidFor(i int) string { return "tx" + strconv.Itoa(i) }
func addrFor(i int) string { return "addr" + strconv.Itoa(i) }
