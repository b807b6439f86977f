// Package fsutil provides small filesystem helpers shared by the store,
// queue, and runtime-config packages: atomic whole-file rewrites and
// lexicographically sortable timestamped file names.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// WriteFileAtomic writes data to path by first writing to a temp file in the
// same directory and renaming it into place, so readers never observe a
// partially written file. This is the durable-write idiom used throughout
// the contract store, UTXO index, and on-disk queues.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
 return fmt.Errorf("create directory %q: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
 return fmt.Errorf("create temp file in %q: %w", dir, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
 tmp.Close()
 os.Remove(tmpPath)
 return fmt.Errorf("write temp file %q: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
 os.Remove(tmpPath)
 return fmt.Errorf("close temp file %q: %w", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
 os.Remove(tmpPath)
 return fmt.Errorf("chmod temp file %q: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
 os.Remove(tmpPath)
 return fmt.Errorf("rename temp file into %q: %w", path, err)
	}
	return nil
}

// TimestampedName builds a lexicographically sortable queue file name of the
// form YYYY-MM-DD-HH-MM-SS-<seq>-<suffix>.txt, where seq is seq modulo
// 1,000,000 as six digits. Within one second, names therefore sort by seq,
// which breaks ties between items landing in the same second.
func TimestampedName(t time.Time, suffix string, seq uint64) string {
	return fmt.Sprintf("%s-%06d-%s.txt", t.UTC().Format("2006-01-02-15-04-05"), seq%1_000_000, suffix)
}
