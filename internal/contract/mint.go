package contract

// MintSCL01 constructs a fixed-supply fungible token contract, fully
// allocated to receiveUTXO at mint time. Idempotent on contract_id: callers
// must route through the executor's applyMint, which short-circuits a
// repeat mint for an id that already has state (nil, not an error).
func MintSCL01(contractID, ticker string, maxSupply uint64, decimals int, receiveUTXO string) *Contract {
	c := New(contractID, ticker, KindSCL01, decimals)
	c.MaxSupply = maxSupply
	c.Supply = maxSupply
	c.Owners[receiveUTXO] = maxSupply
	return c
}

// MintSCL02 constructs an airdrop-token contract: zero supply at mint time,
// tokens enter circulation only via airdrop/airdrop_split.
func MintSCL02(contractID, ticker string, maxSupply, airdropAmount uint64, decimals int) *Contract {
	c := New(contractID, ticker, KindSCL02, decimals)
	c.MaxSupply = maxSupply
	c.AirdropAmount = airdropAmount
	if airdropAmount > 0 {
 c.TotalAirdrops = maxSupply / airdropAmount
	}
	c.PendingClaims = map[string]uint64{}
	return c
}

// MintSCL03 constructs a right-to-mint contract: no initial supply, only
// allowances handed to the given allocation UTXOs.
func MintSCL03(contractID, ticker string, decimals int, allocations map[string]uint64) *Contract {
	c := New(contractID, ticker, KindSCL03, decimals)
	c.RightToMint = map[string]uint64{}
	for utxo, amt := range allocations {
 c.RightToMint[utxo] = amt
	}
	return c
}

// MintSCL04 constructs a liquidity-pool contract linking two existing token
// contracts. Pools start empty; provide_liquidity_lp seeds them.
func MintSCL04(contractID, ticker, contractID1, contractID2 string, liquidityRatio uint64, fee float64) *Contract {
	c := New(contractID, ticker, KindSCL04, 0)
	c.LiquidityPool = &LiquidityPool{
 ContractID1: contractID1,
 ContractID2: contractID2,
 Fee: fee,
 LiquidityRatio: liquidityRatio,
	}
	return c
}

// MintSCL05 constructs a single-token NFT contract carrying an opaque
// base64 data blob.
func MintSCL05(contractID, ticker, receiveUTXO, base64Data string) *Contract {
	c := New(contractID, ticker, KindSCL05, 0)
	c.MaxSupply = 1
	c.Supply = 1
	c.Owners[receiveUTXO] = 1
	c.TokenData = base64Data
	return c
}
