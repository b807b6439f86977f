package store

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/scl-host/sclindexer/internal/fsutil"
)

// FailureEntry is one rejected command, recorded for operator inspection
// rather than retried.
type FailureEntry struct {
	TxID string `json:"txid"`
	ContractID string `json:"contract_id,omitempty"`
	Payload string `json:"payload"`
	Reason string `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

func (s *Store) failurePath(day time.Time) string {
	return filepath.Join(s.baseDir, "Failures", day.UTC().Format("2006-01-02")+".txt")
}

// AppendFailure appends entry to the day's failure log, matching
// AppendBackup's read-modify-write-whole-file pattern.
func (s *Store) AppendFailure(entry FailureEntry) error {
	path := s.failurePath(entry.Timestamp)
	data, err := readFileOrEmpty(path)
	if err != nil {
 return err
	}
	var entries []FailureEntry
	if len(data) > 0 {
 if err := json.Unmarshal(data, &entries); err != nil {
 return fmt.Errorf("decode failure file %q: %w", path, err)
 }
	}
	entries = append(entries, entry)
	out, err := json.Marshal(entries)
	if err != nil {
 return fmt.Errorf("marshal failure entries: %w", err)
	}
	return fsutil.WriteFileAtomic(path, out, 0o644)
}
