package config

import "errors"

// Sentinel errors for internal use. These classify failures along the
// taxonomy described in the design notes: payload grammar, contract-state
// semantics, on-chain validation, chain I/O, and disk I/O.
var (
	ErrInvalidConfig = errors.New("invalid config")

	// Payload / grammar errors — never retried.
	ErrPayloadGrammar = errors.New("payload grammar violation")

	// State-machine (semantic) errors — logged to Failures/, never retried.
	ErrUnknownContract = errors.New("unknown contract")
	ErrDuplicateContract = errors.New("contract already minted")
	ErrUnknownUTXO = errors.New("unknown utxo")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrUnknownListing = errors.New("unknown listing")
	ErrUnknownBid = errors.New("unknown bid")
	ErrListingExists = errors.New("listing already exists for order id")
	ErrAlreadyFulfilled = errors.New("listing or bid already fulfilled")
	ErrBidBelowAsk = errors.New("bid amount*price below listing amount*price")
	ErrAirdropExhausted = errors.New("airdrop pool exhausted")
	ErrDonationOverCap = errors.New("donation exceeds drop cap")
	ErrSupplyCapExceeded = errors.New("mint would exceed max supply")
	ErrReservedTicker = errors.New("ticker is reserved")
	ErrDuplicateTicker = errors.New("ticker already minted")
	ErrSlippageExceeded = errors.New("swap output below slippage tolerance")
	ErrNotConsolidatable = errors.New("transaction carries an op_return, not a plain off-contract move")

	// Validation errors — item stays pending, retried until expiry.
	ErrCommitmentMismatch = errors.New("op_return commitment does not match payload")
	ErrNotConfirmed = errors.New("transaction not yet confirmed")
	ErrDecryptionFailed = errors.New("lp payload decryption failed")

	// Chain adapter (transient) errors — retried on next sweep.
	ErrChainUnavailable = errors.New("chain adapter unavailable")
	ErrNoOpReturn = errors.New("no OP_RETURN output found")

	// Disk I/O errors.
	ErrIO = errors.New("disk io error")

	// Relay
	ErrRelayKeyMismatch = errors.New("relay key mismatch")
)

// Error codes — shared with API consumers in response bodies.
const (
	ErrorInvalidConfig = "ERROR_INVALID_CONFIG"
	ErrorPayloadGrammar = "ERROR_PAYLOAD_GRAMMAR"
	ErrorContractNotFound = "ERROR_CONTRACT_NOT_FOUND"
	ErrorStateConflict = "ERROR_STATE_CONFLICT"
	ErrorValidationPending = "ERROR_VALIDATION_PENDING"
	ErrorChainUnavailable = "ERROR_CHAIN_UNAVAILABLE"
	ErrorIO = "ERROR_IO"
	ErrorBadRequest = "ERROR_BAD_REQUEST"
	ErrorRelayKeyMismatch = "ERROR_RELAY_KEY_MISMATCH"
	ErrorInternal = "ERROR_INTERNAL"
)
