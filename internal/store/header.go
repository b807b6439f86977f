// Package store persists contract state to the flat-file layout mandated by
// the indexer's on-disk contract (Contracts/<cid>/{state,pending,header,
// interactions}.txt, UTXOS/<txid>:<vout>.txt, Backups/...). Every write goes
// through fsutil.WriteFileAtomic; this package never mutates a Contract, it
// only serializes/deserializes one.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/scl-host/sclindexer/internal/contract"
	"github.com/scl-host/sclindexer/internal/fsutil"
)

// Header is the small discovery record written alongside full state, so
// listing all contracts doesn't require loading every state.txt.
type Header struct {
	ContractID string `json:"contract_id"`
	Ticker string `json:"ticker"`
	RestURL string `json:"rest_url"`
	ContractType string `json:"contract_type"`
	Decimals int `json:"decimals"`
}

// Store is the on-disk root for the mandated Json/ layout.
type Store struct {
	baseDir string
}

// New returns a Store rooted at baseDir (the configured Json/ directory).
func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) contractDir(contractID string) string {
	return filepath.Join(s.baseDir, "Contracts", contractID)
}

func (s *Store) statePath(contractID string) string {
	return filepath.Join(s.contractDir(contractID), "state.txt")
}

func (s *Store) pendingPath(contractID string) string {
	return filepath.Join(s.contractDir(contractID), "pending.txt")
}

func (s *Store) headerPath(contractID string) string {
	return filepath.Join(s.contractDir(contractID), "header.txt")
}

func (s *Store) interactionsPath(contractID string) string {
	return filepath.Join(s.contractDir(contractID), "interactions.txt")
}

// SaveState atomically persists c as the confirmed state for its contract id.
func (s *Store) SaveState(c *contract.Contract) error {
	return s.writeJSON(s.statePath(c.ContractID), c)
}

// LoadState reads confirmed state for contractID. Returns (nil, nil) if no
// state file exists yet (unminted contract id).
func (s *Store) LoadState(contractID string) (*contract.Contract, error) {
	return s.readContract(s.statePath(contractID))
}

// SavePending atomically persists c as the pending-state mirror.
func (s *Store) SavePending(c *contract.Contract) error {
	return s.writeJSON(s.pendingPath(c.ContractID), c)
}

// LoadPending reads pending state for contractID. Returns (nil, nil) if
// none exists.
func (s *Store) LoadPending(contractID string) (*contract.Contract, error) {
	return s.readContract(s.pendingPath(contractID))
}

// SaveHeader writes the discovery header for a newly minted contract.
func (s *Store) SaveHeader(h Header) error {
	return s.writeJSON(s.headerPath(h.ContractID), h)
}

// LoadHeader reads the discovery header for contractID.
func (s *Store) LoadHeader(contractID string) (*Header, error) {
	data, err := os.ReadFile(s.headerPath(contractID))
	if err != nil {
 if os.IsNotExist(err) {
 return nil, nil
 }
 return nil, fmt.Errorf("read header %q: %w", contractID, err)
	}
	var h Header
	if err := json.Unmarshal(data, &h); err != nil {
 return nil, fmt.Errorf("decode header %q: %w", contractID, err)
	}
	return &h, nil
}

// ListContractIDs enumerates every contract id with a directory under
// Contracts/, whether or not it holds a header.
func (s *Store) ListContractIDs() ([]string, error) {
	root := filepath.Join(s.baseDir, "Contracts")
	entries, err := os.ReadDir(root)
	if err != nil {
 if os.IsNotExist(err) {
 return nil, nil
 }
 return nil, fmt.Errorf("read contracts directory: %w", err)
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
 if e.IsDir() {
 ids = append(ids, e.Name())
 }
	}
	return ids, nil
}

// Interactions aggregates per-contract read-projection counters: total listed/traded/burns/transfers/interactions, and the
// fulfillment terms recovered from accept_bid's ExtraInfo suffix.
type Interactions struct {
	TotalListed uint64 `json:"total_listed"`
	TotalTraded uint64 `json:"total_traded"`
	TotalBurns uint64 `json:"total_burns"`
	TotalTransfers uint64 `json:"total_transfers"`
	TotalInteractions uint64 `json:"total_interactions"`
	FulfillmentSummaries []FulfillmentSummary `json:"fulfillment_summaries"`
}

// FulfillmentSummary records one completed trade's terms for VWAP
// aggregation.
type FulfillmentSummary struct {
	BidPrice uint64 `json:"bid_price"`
	BidAmount uint64 `json:"bid_amount"`
	ListingPrice uint64 `json:"listing_price"`
	ListingAmount uint64 `json:"listing_amount"`
}

// SaveInteractions atomically persists aggregated interaction counters.
func (s *Store) SaveInteractions(contractID string, in *Interactions) error {
	return s.writeJSON(s.interactionsPath(contractID), in)
}

// LoadInteractions reads aggregated interaction counters, defaulting to a
// zero value if none exist yet.
func (s *Store) LoadInteractions(contractID string) (*Interactions, error) {
	data, err := os.ReadFile(s.interactionsPath(contractID))
	if err != nil {
 if os.IsNotExist(err) {
 return &Interactions{}, nil
 }
 return nil, fmt.Errorf("read interactions %q: %w", contractID, err)
	}
	var in Interactions
	if err := json.Unmarshal(data, &in); err != nil {
 return nil, fmt.Errorf("decode interactions %q: %w", contractID, err)
	}
	return &in, nil
}

func (s *Store) writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", " ")
	if err != nil {
 return fmt.Errorf("marshal %q: %w", path, err)
	}
	return fsutil.WriteFileAtomic(path, data, 0o644)
}

func (s *Store) readContract(path string) (*contract.Contract, error) {
	data, err := os.ReadFile(path)
	if err != nil {
 if os.IsNotExist(err) {
 return nil, nil
 }
 return nil, fmt.Errorf("read %q: %w", path, err)
	}
	var c contract.Contract
	if err := json.Unmarshal(data, &c); err != nil {
 return nil, fmt.Errorf("decode %q: %w", path, err)
	}
	return &c, nil
}
