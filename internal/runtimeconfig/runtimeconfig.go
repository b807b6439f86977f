// Package runtimeconfig manages the two small node-local JSON documents the
// scheduler and relay rely on: config.txt (mutable node config — tip height,
// reserved tickers, peer list, relay key) and lookups.txt (the LP contract
// id index). Both are read-mostly global state, loaded at Open and re-read
// from disk only by Reload (the sweeper calls it every tick; other reads
// use the in-memory copy), and rewritten through an atomic whole-file
// rewrite, guarded by a sync.RWMutex
// instead of round-tripping through a database.
package runtimeconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/scl-host/sclindexer/internal/fsutil"
)

// NodeConfig is the persisted shape of config.txt.
type NodeConfig struct {
	BlockHeight uint64 `json:"block_height"`
	Memes []string `json:"memes"`
	ReservedTickers []string `json:"reserved_tickers"`
	HostsIPs []string `json:"hosts_ips"`
	MyIPSplit string `json:"my_ip_split"`
	MyIP string `json:"my_ip"`
	Key string `json:"key"`
	Esplora string `json:"esplora"`
	URL string `json:"url"`
}

// Lookups is the persisted shape of lookups.txt.
type Lookups struct {
	LPs []string `json:"lps"`
}

// Store wraps the two documents with a mutex guarding read-modify-write
// cycles; each Get returns a defensive copy so callers never mutate shared
// state without going through Save/Update.
type Store struct {
	mu sync.RWMutex
	configPath string
	lookupsPath string
	config NodeConfig
	lookups Lookups
}

// Open loads (or initializes) config.txt and lookups.txt under jsonDir.
func Open(jsonDir string) (*Store, error) {
	s := &Store{
 configPath: filepath.Join(jsonDir, "config.txt"),
 lookupsPath: filepath.Join(jsonDir, "lookups.txt"),
	}
	if err := s.reloadConfig(); err != nil {
 return nil, err
	}
	if err := s.reloadLookups(); err != nil {
 return nil, err
	}
	return s, nil
}

func (s *Store) reloadConfig() error {
	data, err := os.ReadFile(s.configPath)
	if os.IsNotExist(err) {
 s.mu.Lock()
 s.config = NodeConfig{}
 s.mu.Unlock()
 return nil
	}
	if err != nil {
 return fmt.Errorf("read %q: %w", s.configPath, err)
	}
	var cfg NodeConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
 return fmt.Errorf("parse %q: %w", s.configPath, err)
	}
	s.mu.Lock()
	s.config = cfg
	s.mu.Unlock()
	return nil
}

func (s *Store) reloadLookups() error {
	data, err := os.ReadFile(s.lookupsPath)
	if os.IsNotExist(err) {
 s.mu.Lock()
 s.lookups = Lookups{}
 s.mu.Unlock()
 return nil
	}
	if err != nil {
 return fmt.Errorf("read %q: %w", s.lookupsPath, err)
	}
	var lk Lookups
	if err := json.Unmarshal(data, &lk); err != nil {
 return fmt.Errorf("parse %q: %w", s.lookupsPath, err)
	}
	s.mu.Lock()
	s.lookups = lk
	s.mu.Unlock()
	return nil
}

// Config returns a copy of the current node config. Callers that need the
// freshest on-disk value (e.g. the sweeper, at the top of every tick) should
// call Reload first.
func (s *Store) Config() NodeConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg := s.config
	cfg.Memes = append([]string(nil), s.config.Memes...)
	cfg.ReservedTickers = append([]string(nil), s.config.ReservedTickers...)
	cfg.HostsIPs = append([]string(nil), s.config.HostsIPs...)
	return cfg
}

// Reload re-reads both documents from disk, picking up edits made by a peer
// process or a prior run.
func (s *Store) Reload() error {
	if err := s.reloadConfig(); err != nil {
 return err
	}
	return s.reloadLookups()
}

// Lookups returns a copy of the current LP lookup table.
func (s *Store) Lookups() Lookups {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lk := s.lookups
	lk.LPs = append([]string(nil), s.lookups.LPs...)
	return lk
}

// IsLP reports whether contractID is a known LP contract.
func (s *Store) IsLP(contractID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.lookups.LPs {
 if id == contractID {
 return true
 }
	}
	return false
}

// SaveConfig persists a new node config, replacing the in-memory copy.
func (s *Store) SaveConfig(cfg NodeConfig) error {
	data, err := json.MarshalIndent(cfg, "", " ")
	if err != nil {
 return fmt.Errorf("marshal config: %w", err)
	}
	if err := fsutil.WriteFileAtomic(s.configPath, data, 0o644); err != nil {
 return err
	}
	s.mu.Lock()
	s.config = cfg
	s.mu.Unlock()
	return nil
}

// SetBlockHeight updates only the tip-height field, the field the sweeper
// rewrites every tick.
func (s *Store) SetBlockHeight(h uint64) error {
	cfg := s.Config()
	cfg.BlockHeight = h
	return s.SaveConfig(cfg)
}

// RegisterLP adds a new LP contract id to lookups.txt if not already present.
func (s *Store) RegisterLP(contractID string) error {
	if s.IsLP(contractID) {
 return nil
	}
	lk := s.Lookups()
	lk.LPs = append(lk.LPs, contractID)
	data, err := json.MarshalIndent(lk, "", " ")
	if err != nil {
 return fmt.Errorf("marshal lookups: %w", err)
	}
	if err := fsutil.WriteFileAtomic(s.lookupsPath, data, 0o644); err != nil {
 return err
	}
	s.mu.Lock()
	s.lookups = lk
	s.mu.Unlock()
	return nil
}

// IsReservedTicker reports whether ticker appears in the node's reserved-ticker
// ban list.
func (s *Store) IsReservedTicker(ticker string) bool {
	cfg := s.Config()
	for _, t := range cfg.ReservedTickers {
 if t == ticker {
 return true
 }
	}
	return false
}
