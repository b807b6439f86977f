package queue

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"
	"time"

	"github.com/scl-host/sclindexer/internal/fsutil"
)

// FileQueue is one of the three queue directories (Confirmed, Pending,
// Claims). Every operation is a single atomic whole-file rewrite or rename,
// so a crash mid-sweep leaves the directory in a consistent state.
type FileQueue struct {
	dir string
	seq uint64
}

// OpenDir returns a FileQueue rooted at dir, creating it if necessary.
func OpenDir(dir string) (*FileQueue, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
 return nil, fmt.Errorf("create queue dir %q: %w", dir, err)
	}
	return &FileQueue{dir: dir}, nil
}

func (q *FileQueue) pathFor(it *Item) string {
	seq := atomic.AddUint64(&q.seq, 1)
	name := fsutil.TimestampedName(it.EnqueuedAt, it.TxID, seq)
	return filepath.Join(q.dir, name)
}

// Enqueue writes a new item file. Returns the path so callers (e.g. the
// relay, which keys insertion by txid) can make enqueue idempotent by
// checking Has first.
func (q *FileQueue) Enqueue(it Item) (string, error) {
	if it.EnqueuedAt.IsZero() {
 it.EnqueuedAt = time.Now().UTC()
	}
	data, err := it.marshal()
	if err != nil {
 return "", fmt.Errorf("marshal queue item %s: %w", it.TxID, err)
	}
	path := q.pathFor(&it)
	if err := fsutil.WriteFileAtomic(path, data, 0o644); err != nil {
 return "", err
	}
	return path, nil
}

// Entry pairs an on-disk item with the path it was loaded from, so callers
// can Update or Remove it without recomputing the name.
type Entry struct {
	Path string
	Item Item
}

// List returns every queued item in FIFO (lexicographic file name) order.
func (q *FileQueue) List() ([]Entry, error) {
	dirEntries, err := os.ReadDir(q.dir)
	if err != nil {
 if os.IsNotExist(err) {
 return nil, nil
 }
 return nil, fmt.Errorf("read queue dir %q: %w", q.dir, err)
	}
	names := make([]string, 0, len(dirEntries))
	for _, e := range dirEntries {
 if !e.IsDir() {
 names = append(names, e.Name())
 }
	}
	sort.Strings(names)

	out := make([]Entry, 0, len(names))
	for _, name := range names {
 path := filepath.Join(q.dir, name)
 data, err := os.ReadFile(path)
 if err != nil {
 if os.IsNotExist(err) {
 continue // removed concurrently by another sweep step
 }
 return nil, fmt.Errorf("read queue item %q: %w", path, err)
 }
 it, err := unmarshalItem(data)
 if err != nil {
 return nil, fmt.Errorf("decode queue item %q: %w", path, err)
 }
 out = append(out, Entry{Path: path, Item: *it})
	}
	return out, nil
}

// Has reports whether any queued item carries txid, for idempotent relay
// insertion.
func (q *FileQueue) Has(txid string) (bool, error) {
	entries, err := q.List()
	if err != nil {
 return false, err
	}
	for _, e := range entries {
 if e.Item.TxID == txid {
 return true, nil
 }
	}
	return false, nil
}

// Update rewrites an entry's file in place (its name, hence its FIFO
// position, never changes) — used to persist AcceptedAt after a pending item
// validates for the first time.
func (q *FileQueue) Update(e Entry) error {
	data, err := e.Item.marshal()
	if err != nil {
 return fmt.Errorf("marshal queue item %s: %w", e.Item.TxID, err)
	}
	return fsutil.WriteFileAtomic(e.Path, data, 0o644)
}

// Remove deletes an entry's file, e.g. after successful execution or an
// expiry discard.
func (q *FileQueue) Remove(e Entry) error {
	if err := os.Remove(e.Path); err != nil && !os.IsNotExist(err) {
 return fmt.Errorf("remove queue item %q: %w", e.Path, err)
	}
	return nil
}
