// Package contract implements the per-contract data model and state
// transition methods. A Contract owns all of its
// sub-maps exclusively; callers serialize access per contract id — this
// package itself holds no locks and does no I/O.
package contract

import "github.com/scl-host/sclindexer/internal/config"

// Kind identifies which SCL mint type a contract was created by.
type Kind string

const (
	KindSCL01 Kind = "SCL01"
	KindSCL02 Kind = "SCL02"
	KindSCL03 Kind = "SCL03"
	KindSCL04 Kind = "SCL04" // liquidity pool
	KindSCL05 Kind = "SCL05" // NFT
)

// Listing is one open sell order.
type Listing struct {
	OrderID string `json:"order_id"`
	ListUTXO string `json:"list_utxo"`
	ChangeUTXO string `json:"change_utxo"`
	ListAmount uint64 `json:"list_amt"`
	Price uint64 `json:"price"`
	ReceiveAddr string `json:"rec_addr"`
	ValidBidBlock uint64 `json:"valid_bid_block,omitempty"`
}

// Bid is one reserved buy order against a Listing.
type Bid struct {
	BidID string `json:"bid_id"`
	OrderID string `json:"order_id"`
	BidAmount uint64 `json:"bid_amount"`
	BidPrice uint64 `json:"bid_price"`
	ReservedUTXO string `json:"reserved_utxo"`
	// AcceptTxID is the txid of the accept_bid transaction this bid expects,
	// precomputed at BID time from the accompanying accept-tx hex — it is
	// what lets a later accept_bid resolve back to this bid deterministically
	// instead of guessing among a listing's open bids.
	AcceptTxID string `json:"accept_txid,omitempty"`
	AcceptTx string `json:"accept_tx,omitempty"`
	FulfillTx string `json:"fulfill_tx,omitempty"`
	FulfillmentUTXOs []string `json:"fulfillment_utxos,omitempty"`
}

// Drip is one time-release schedule paying out to a single UTXO.
type Drip struct {
	BlockEnd uint64 `json:"block_end"`
	DripAmount uint64 `json:"drip_amount"`
	Amount uint64 `json:"amount"`
	StartBlock uint64 `json:"start_block"`
	LastBlockDripped uint64 `json:"last_block_dripped"`
	Dripped uint64 `json:"dripped"`
}

// DimAirdrop is a diminishing-rate airdrop claim pool.
type DimAirdrop struct {
	PoolAmount uint64 `json:"pool_amount"`
	StepDownAmount uint64 `json:"step_down_amount"`
	StepPeriodAmount uint64 `json:"step_period_amount"`
	MaxAirdrop uint64 `json:"max_airdrop"`
	MinAirdrop uint64 `json:"min_airdrop"`
	CurrentAirdrop uint64 `json:"current_airdrop"`
	CurrentInPeriod uint64 `json:"current_in_period"`
	AmountAirdropped uint64 `json:"amount_airdropped"`
	SingleDrop bool `json:"single_drop"`
	Claimers map[string]uint64 `json:"claimers"`
}

// DGE is a donation-gated emission pool: BTC donations convert to token drips.
type DGE struct {
	PoolAmount uint64 `json:"pool_amount"`
	SatsRate uint64 `json:"sats_rate"`
	MaxDrop uint64 `json:"max_drop"`
	CurrentAmountDropped uint64 `json:"current_amount_dropped"`
	DonationsAddress string `json:"donations_address"`
	DripDuration uint64 `json:"drip_duration"`
	SingleDrop bool `json:"single_drop"`
	Donaters map[string]uint64 `json:"donaters"`
}

// LiquidityPool is the AMM state carried by an SCL04 contract.
type LiquidityPool struct {
	ContractID1 string `json:"contract_id_1"`
	ContractID2 string `json:"contract_id_2"`
	Pool1 uint64 `json:"pool_1"`
	Pool2 uint64 `json:"pool_2"`
	Fee float64 `json:"fee"`
	K uint64 `json:"k"`
	LiquidityRatio uint64 `json:"liquidity_ratio"`
	Swaps uint64 `json:"swaps"`
	Liquidations uint64 `json:"liquidations"`
}

// Contract is the full per-contract data model. contract_id
// equals the txid of the mint transaction that created it.
type Contract struct {
	Ticker string `json:"ticker"`
	ContractID string `json:"contract_id"`
	Kind Kind `json:"kind"`
	Decimals int `json:"decimals"`
	Supply uint64 `json:"supply"`
	MaxSupply uint64 `json:"max_supply,omitempty"` // 0 means unset

	Owners map[string]uint64 `json:"owners"`
	Payloads map[string]string `json:"payloads"`
	Listings map[string]*Listing `json:"listings"`
	Bids map[string]*Bid `json:"bids"`
	Fulfillments map[string]string `json:"fulfillments"` // bid_id -> order_id
	Drips map[string][]*Drip `json:"drips"` // utxo -> drips

	DimAirdrops map[string]*DimAirdrop `json:"diminishing_airdrops"`
	DGEs map[string]*DGE `json:"dges"`

	// SCL02 airdrop-token fields.
	AirdropAmount uint64 `json:"airdrop_amount,omitempty"`
	TotalAirdrops uint64 `json:"total_airdrops,omitempty"`
	CurrentAirdrops uint64 `json:"current_airdrops,omitempty"`
	PendingClaims map[string]uint64 `json:"pending_claims,omitempty"`
	LastAirdropSplit []string `json:"last_airdrop_split,omitempty"`

	RightToMint map[string]uint64 `json:"right_to_mint,omitempty"`

	LiquidityPool *LiquidityPool `json:"liquidity_pool,omitempty"`
	LiquidatedTokens uint64 `json:"liquidated_tokens,omitempty"`

	TokenData string `json:"token_data,omitempty"` // SCL05 NFT
}

// New constructs an empty contract shell shared by every mint_* constructor.
func New(contractID, ticker string, kind Kind, decimals int) *Contract {
	return &Contract{
 ContractID: contractID,
 Ticker: ticker,
 Kind: kind,
 Decimals: decimals,
 Owners: map[string]uint64{},
 Payloads: map[string]string{},
 Listings: map[string]*Listing{},
 Bids: map[string]*Bid{},
 Fulfillments: map[string]string{},
 Drips: map[string][]*Drip{},
 DimAirdrops: map[string]*DimAirdrop{},
 DGEs: map[string]*DGE{},
	}
}

// HasApplied reports whether txid has already been recorded in payloads
// (invariant I6: payloads is append-only and idempotent by txid).
func (c *Contract) HasApplied(txid string) bool {
	_, ok := c.Payloads[txid]
	return ok
}

// RecordPayload appends txid's payload to the log. Callers must check
// HasApplied first; this does not itself enforce idempotence.
func (c *Contract) RecordPayload(txid, payload string) {
	c.Payloads[txid] = payload
}

// Reserved sums tokens held outside owners: LP-provided, airdrop/DGE pool
// remainders not yet credited, unreleased drip principal, and open
// listings' list_amt — the right-hand side of invariant I1.
func (c *Contract) Reserved() uint64 {
	var reserved uint64
	reserved += c.LiquidatedTokens
	for _, ds := range c.Drips {
 for _, d := range ds {
 reserved += d.Amount - d.Dripped
 }
	}
	for _, da := range c.DimAirdrops {
 reserved += da.PoolAmount - da.AmountAirdropped
	}
	for _, dge := range c.DGEs {
 reserved += dge.PoolAmount - dge.CurrentAmountDropped
	}
	for _, l := range c.Listings {
 reserved += l.ListAmount
	}
	return reserved
}

// Balance sums owners.values — the supply currently held outright.
func (c *Contract) Balance() uint64 {
	var total uint64
	for _, v := range c.Owners {
 total += v
	}
	return total
}

// checkSupplyCap returns config.ErrSupplyCapExceeded if minting delta more
// would push supply above MaxSupply (when set).
func (c *Contract) checkSupplyCap(delta uint64) error {
	if c.MaxSupply == 0 {
 return nil
	}
	if c.Supply+delta > c.MaxSupply {
 return config.ErrSupplyCapExceeded
	}
	return nil
}
