package queue

import (
	"testing"
	"time"
)

func TestEnqueueList_FIFOOrder(t *testing.T) {
	q, err := OpenDir(t.TempDir())
	if err != nil {
 t.Fatalf("OpenDir error = %v", err)
	}
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	if _, err := q.Enqueue(Item{TxID: "tx1", Payload: "p1", EnqueuedAt: base}); err != nil {
 t.Fatalf("Enqueue(tx1) error = %v", err)
	}
	if _, err := q.Enqueue(Item{TxID: "tx2", Payload: "p2", EnqueuedAt: base.Add(time.Second)}); err != nil {
 t.Fatalf("Enqueue(tx2) error = %v", err)
	}

	entries, err := q.List()
	if err != nil {
 t.Fatalf("List error = %v", err)
	}
	if len(entries) != 2 {
 t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Item.TxID != "tx1" || entries[1].Item.TxID != "tx2" {
 t.Fatalf("unexpected FIFO order: %+v", entries)
	}
}

func TestHas_FindsEnqueuedTxID(t *testing.T) {
	q, _ := OpenDir(t.TempDir())
	if _, err := q.Enqueue(Item{TxID: "tx1", Payload: "p1"}); err != nil {
 t.Fatalf("Enqueue error = %v", err)
	}
	has, err := q.Has("tx1")
	if err != nil || !has {
 t.Fatalf("Has(tx1) = %v, %v, want true, nil", has, err)
	}
	has, err = q.Has("missing")
	if err != nil || has {
 t.Fatalf("Has(missing) = %v, %v, want false, nil", has, err)
	}
}

func TestUpdate_PreservesFIFOPosition(t *testing.T) {
	q, _ := OpenDir(t.TempDir())
	path, err := q.Enqueue(Item{TxID: "tx1", Payload: "p1"})
	if err != nil {
 t.Fatalf("Enqueue error = %v", err)
	}
	entries, _ := q.List()
	entry := entries[0]
	now := time.Now().UTC()
	entry.Item.MarkAccepted(now)
	if err := q.Update(entry); err != nil {
 t.Fatalf("Update error = %v", err)
	}

	entries, _ = q.List()
	if len(entries) != 1 || entries[0].Path != path {
 t.Fatalf("Update should not change file name: %+v", entries)
	}
	if entries[0].Item.AcceptedAt == nil {
 t.Fatalf("expected AcceptedAt to be persisted")
	}
}

func TestRemove_DeletesItem(t *testing.T) {
	q, _ := OpenDir(t.TempDir())
	if _, err := q.Enqueue(Item{TxID: "tx1", Payload: "p1"}); err != nil {
 t.Fatalf("Enqueue error = %v", err)
	}
	entries, _ := q.List()
	if err := q.Remove(entries[0]); err != nil {
 t.Fatalf("Remove error = %v", err)
	}
	entries, err := q.List()
	if err != nil || len(entries) != 0 {
 t.Fatalf("expected empty queue after Remove, got %+v, %v", entries, err)
	}
}

func TestItem_MarkAccepted_OnlySetsOnce(t *testing.T) {
	it := Item{TxID: "tx1"}
	first := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)

	it.MarkAccepted(first)
	it.MarkAccepted(second)

	if it.AcceptedAt == nil || !it.AcceptedAt.Equal(first) {
 t.Fatalf("MarkAccepted should be a no-op once set, got %v", it.AcceptedAt)
	}
}
