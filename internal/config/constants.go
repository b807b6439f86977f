package config

import "time"

// Pagination
const (
	DefaultPage = 1
	DefaultPageSize = 100
	MaxPageSize = 1000
)

// Scheduler
const (
	SweepInterval = 4 * time.Second
	PendingAcceptTimeout = 2 * time.Minute
	PendingConfirmTimeout = 24 * time.Hour
	BlockScanPageSize = 25
)

// Server
const (
	ServerReadTimeout = 30 * time.Second
	ServerWriteTimeout = 60 * time.Second
	ServerIdleTimeout = 120 * time.Second
	ServerMaxHeaderBytes = 1 << 20
	ShutdownTimeout = 10 * time.Second
	APITimeout = 30 * time.Second
)

// Logging
const (
	LogFilePattern = "sclindexer-%s-%s.log" // date, level
	LogFilePrefix = "sclindexer-"
	LogMaxAgeDays = 30
)

// Chain adapter resilience
const (
	EsploraRateLimitRPS = 10
	CircuitBreakerThreshold = 5
	CircuitBreakerCooldown = 30 * time.Second
	CircuitBreakerHalfOpenMax = 1
)

const (
	CircuitClosed = "closed"
	CircuitOpen = "open"
	CircuitHalfOpen = "half-open"
)

// Contract field names accepted by the read API.
const (
	FieldOwners = "owners"
	FieldPayloads = "payloads"
	FieldListings = "listings"
	FieldBids = "bids"
	FieldFulfillments = "fulfillments"
	FieldDrips = "drips"
	FieldDimAirdrops = "diminishing_airdrops"
	FieldDGEs = "dges"
	FieldRightToMint = "right_to_mint"
	FieldSupply = "supply"
	FieldMaxSupply = "max_supply"
	FieldDecimals = "decimals"
	FieldLiquidityPool = "liquidity_pool"
	FieldTokenData = "token_data"
	FieldState = "state"
	FieldSummary = "summary"
	FieldTrades = "trades"
	FieldHistory = "history"
)

// PendingFieldPrefix marks a field query against pending state instead of confirmed.
const PendingFieldPrefix = "pending-"

// LP payload magic prefixes.
const (
	LPProvidePrefix = "PLP["
	LPSwapPrefix = "SLP["
	LPLiquidatePrefix = "LLP["
)
