package contract

import "testing"

func TestMintSCL01_FullyAllocatesSupply(t *testing.T) {
	c := MintSCL01("A", "TKR", 1000, 0, "A:0")
	if c.Supply != 1000 || c.MaxSupply != 1000 {
 t.Fatalf("unexpected supply: %+v", c)
	}
	if c.Owners["A:0"] != 1000 {
 t.Fatalf("unexpected owner balance: %+v", c.Owners)
	}
}

func TestMintSCL02_StartsAtZeroSupply(t *testing.T) {
	c := MintSCL02("A", "AIR", 10000, 100, 0)
	if c.Supply != 0 {
 t.Fatalf("expected zero supply at mint, got %d", c.Supply)
	}
	if c.TotalAirdrops != 100 {
 t.Fatalf("expected 100 total airdrops, got %d", c.TotalAirdrops)
	}
}

func TestMintSCL03_AllocatesRightToMint(t *testing.T) {
	c := MintSCL03("A", "RTM", 0, map[string]uint64{"A:0": 500})
	if c.RightToMint["A:0"] != 500 {
 t.Fatalf("unexpected allowance: %+v", c.RightToMint)
	}
	if c.Supply != 0 {
 t.Fatalf("expected zero supply at mint")
	}
}

func TestMintSCL05_SingleSupplyNFT(t *testing.T) {
	c := MintSCL05("A", "NFT", "A:0", "YmFzZTY0")
	if c.Supply != 1 || c.MaxSupply != 1 {
 t.Fatalf("expected NFT supply of 1, got %+v", c)
	}
	if c.TokenData != "YmFzZTY0" {
 t.Fatalf("unexpected token data: %s", c.TokenData)
	}
}

func TestMintSCL04_SeedsEmptyPools(t *testing.T) {
	c := MintSCL04("A", "LP", "B", "C", 1, 0.003)
	if c.LiquidityPool.Pool1 != 0 || c.LiquidityPool.Pool2 != 0 {
 t.Fatalf("expected empty pools at mint: %+v", c.LiquidityPool)
	}
}

// TestMintAndTransfer checks a mint followed by a transfer.
func TestMintAndTransfer(t *testing.T) {
	c := MintSCL01("A", "TKR", 1000, 0, "A:0")
	err := c.Transfer("B", []string{"A:0"}, []UTXOAmount{{UTXO: "B:0", Amount: 400}, {UTXO: "B:1", Amount: 600}}, 1)
	if err != nil {
 t.Fatalf("Transfer error = %v", err)
	}
	c.RecordPayload("A", "mint-payload")
	c.RecordPayload("B", "transfer-payload")

	if c.Owners["B:0"] != 400 || c.Owners["B:1"] != 600 {
 t.Fatalf("unexpected owners: %+v", c.Owners)
	}
	if len(c.Owners) != 2 {
 t.Fatalf("expected exactly 2 owner entries, got %+v", c.Owners)
	}
	if c.Supply != 1000 {
 t.Fatalf("expected supply unchanged at 1000, got %d", c.Supply)
	}
	if len(c.Payloads) != 2 {
 t.Fatalf("expected 2 payload entries, got %+v", c.Payloads)
	}
}
