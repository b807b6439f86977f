// Package codec parses and serializes the textual SCL command payloads
// carried in a Bitcoin transaction's OP_RETURN commitment. Grammar errors are typed (config.ErrPayloadGrammar, never
// a bare boolean) and returned from Parse/ParseLP; semantic errors belong to
// the contract state machine, not this package.
package codec

// Kind identifies the shape of a parsed Command.
type Kind string

const (
	KindMintSCL01 Kind = "MINT_SCL01"
	KindMintSCL02 Kind = "MINT_SCL02"
	KindMintSCL03 Kind = "MINT_SCL03"
	KindMintSCL04 Kind = "MINT_SCL04"
	KindMintSCL05 Kind = "MINT_SCL05"
	KindTransfer Kind = "TRANSFER"
	KindBurn Kind = "BURN"
	KindList Kind = "LIST"
	KindBid Kind = "BID"
	KindAcceptBid Kind = "ACCEPT_BID"
	KindFulfilTrade Kind = "FULFIL_TRADE"
	KindCancelListing Kind = "CANCELLISTING"
	KindCancelBid Kind = "CANCELBID"
	KindDrip Kind = "DRIP"
	KindDimAirdropMint Kind = "DIMAIRDROP"
	KindDimAirdropClaim Kind = "CLAIM_DIMAIRDROP"
	KindDGECreate Kind = "DGE"
	KindDGEClaim Kind = "CLAIM_DGE"
	KindRightToMint Kind = "RIGHTTOMINT"
	KindAirdropClaim Kind = "AIRDROP"
	KindLPProvide Kind = "PLP"
	KindLPSwap Kind = "SLP"
	KindLPLiquidate Kind = "LLP"
	KindConsolidate Kind = "CONSOLIDATE"
)

// Command is implemented by every parsed payload variant.
type Command interface {
	Kind() Kind
}

// UTXOAmount pairs a UTXO with an amount, the recurring receiver shape
// across transfer/burn/list/mint-SCL03 payloads.
type UTXOAmount struct {
	UTXO string
	Amount uint64
}

// DripReceiver is a receiver UTXO paired with the amount and duration of a
// new drip to start for it.
type DripReceiver struct {
	UTXO string
	Amount uint64
	Duration uint64
}

// BidEntry is one bid tuple inside a BID payload.
type BidEntry struct {
	OrderID string
	Amount uint64
	Price uint64
	ReservedUTXO string
}

type MintSCL01 struct {
	Ticker string
	MaxSupply uint64
	Decimals int
	ReceiveUTXO string
}

func (MintSCL01) Kind() Kind { return KindMintSCL01 }

type MintSCL02 struct {
	Ticker string
	MaxSupply uint64
	AirdropAmount uint64
	Decimals int
}

func (MintSCL02) Kind() Kind { return KindMintSCL02 }

type MintSCL03 struct {
	Ticker string
	Decimals int
	Allocations []UTXOAmount
}

func (MintSCL03) Kind() Kind { return KindMintSCL03 }

type MintSCL04 struct {
	Ticker string
	ContractID1 string
	ContractID2 string
	Ratio uint64
	Fee float64
}

func (MintSCL04) Kind() Kind { return KindMintSCL04 }

type MintSCL05 struct {
	Ticker string
	ReceiveUTXO string
	Base64Data string
}

func (MintSCL05) Kind() Kind { return KindMintSCL05 }

type Transfer struct {
	ContractID string
	Senders []string
	Receivers []UTXOAmount
}

func (Transfer) Kind() Kind { return KindTransfer }

type Burn struct {
	ContractID string
	Burners []string
	Amount uint64
	ChangeUTXO string
}

func (Burn) Kind() Kind { return KindBurn }

type List struct {
	ContractID string
	Senders []string
	ChangeUTXO string
	ListUTXO string
	ListAmount uint64
	Price uint64
	PayAddr string
}

func (List) Kind() Kind { return KindList }

type Bid struct {
	ContractID string
	Bids []BidEntry
}

func (Bid) Kind() Kind { return KindBid }

type AcceptBid struct {
	ContractID string
}

func (AcceptBid) Kind() Kind { return KindAcceptBid }

type FulfilTrade struct {
	ContractID string
}

func (FulfilTrade) Kind() Kind { return KindFulfilTrade }

type CancelListing struct {
	ContractID string
	ListUTXO string
}

func (CancelListing) Kind() Kind { return KindCancelListing }

type CancelBid struct {
	ContractID string
	BidUTXO string
}

func (CancelBid) Kind() Kind { return KindCancelBid }

type Drip struct {
	ContractID string
	Senders []string
	Receivers []DripReceiver
	ChangeUTXO string
}

func (Drip) Kind() Kind { return KindDrip }

type DimAirdropMint struct {
	ContractID string
	Senders []string
	Pool uint64
	StepAmount uint64
	StepPeriod uint64
	Max uint64
	Min uint64
	ChangeUTXO string
	SingleDrop bool
}

func (DimAirdropMint) Kind() Kind { return KindDimAirdropMint }

type DimAirdropClaim struct {
	ContractID string
	ClaimID string
	ReceiverUTXO string
}

func (DimAirdropClaim) Kind() Kind { return KindDimAirdropClaim }

type DGECreate struct {
	ContractID string
	Senders []string
	Pool uint64
	SatsRate uint64
	MaxDrop uint64
	DripDuration uint64
	DonationAddr string
	ChangeUTXO string
	SingleDrop bool
}

func (DGECreate) Kind() Kind { return KindDGECreate }

type DGEClaim struct {
	ContractID string
	ClaimID string
	ReceiverUTXO string
}

func (DGEClaim) Kind() Kind { return KindDGEClaim }

type RightToMintExercise struct {
	ContractID string
	RightsUTXO string
	Receiver string
	ChangeUTXO string
	MintAmount uint64
}

func (RightToMintExercise) Kind() Kind { return KindRightToMint }

type AirdropClaim struct {
	ContractID string
	ReceiverUTXO string
}

func (AirdropClaim) Kind() Kind { return KindAirdropClaim }

// LP commands carry no contract id — the caller supplies lp_contract_id out
// of band (it's how the payload was decrypted in the first place).

type LPProvide struct {
	Amount uint64
}

func (LPProvide) Kind() Kind { return KindLPProvide }

type LPSwap struct {
	Which int
	Amount uint64
	Quoted uint64
	Tolerance float64
}

func (LPSwap) Kind() Kind { return KindLPSwap }

type LPLiquidate struct {
	Amount uint64
}

func (LPLiquidate) Kind() Kind { return KindLPLiquidate }
