package store

import (
	"testing"
	"time"

	"github.com/scl-host/sclindexer/internal/contract"
)

func TestSaveLoadState_RoundTrip(t *testing.T) {
	s := New(t.TempDir())
	c := contract.MintSCL01("A", "TKR", 1000, 0, "A:0")

	if err := s.SaveState(c); err != nil {
 t.Fatalf("SaveState error = %v", err)
	}
	got, err := s.LoadState("A")
	if err != nil {
 t.Fatalf("LoadState error = %v", err)
	}
	if got == nil || got.Supply != 1000 || got.Owners["A:0"] != 1000 {
 t.Fatalf("unexpected loaded state: %+v", got)
	}
}

func TestLoadState_MissingReturnsNilNil(t *testing.T) {
	s := New(t.TempDir())
	got, err := s.LoadState("nonexistent")
	if err != nil {
 t.Fatalf("LoadState error = %v", err)
	}
	if got != nil {
 t.Fatalf("expected nil for missing contract, got %+v", got)
	}
}

func TestSaveLoadHeader_RoundTrip(t *testing.T) {
	s := New(t.TempDir())
	h := Header{ContractID: "A", Ticker: "TKR", ContractType: "SCL01", Decimals: 0}
	if err := s.SaveHeader(h); err != nil {
 t.Fatalf("SaveHeader error = %v", err)
	}
	got, err := s.LoadHeader("A")
	if err != nil {
 t.Fatalf("LoadHeader error = %v", err)
	}
	if got == nil || got.Ticker != "TKR" {
 t.Fatalf("unexpected header: %+v", got)
	}
}

func TestListContractIDs(t *testing.T) {
	s := New(t.TempDir())
	s.SaveHeader(Header{ContractID: "A"})
	s.SaveHeader(Header{ContractID: "B"})

	ids, err := s.ListContractIDs()
	if err != nil {
 t.Fatalf("ListContractIDs error = %v", err)
	}
	if len(ids) != 2 {
 t.Fatalf("expected 2 contract ids, got %v", ids)
	}
}

func TestUTXORecord_FormatAndParseRoundTrip(t *testing.T) {
	rec := OwnerRecord("cid1", 4200, false, false)
	line := rec.Format()
	if line != "cid1:O,4200" {
 t.Fatalf("unexpected format: %q", line)
	}
	got, err := ParseRecord(line)
	if err != nil {
 t.Fatalf("ParseRecord error = %v", err)
	}
	if got.ContractID != "cid1" || got.Tag != TagOwner || got.Values[0] != "4200" {
 t.Fatalf("unexpected parsed record: %+v", got)
	}
}

func TestWriteReadDeleteUTXORecord(t *testing.T) {
	s := New(t.TempDir())
	rec := OwnerRecord("cid1", 500, true, false)
	if err := s.WriteUTXORecord("tx1:0", rec); err != nil {
 t.Fatalf("WriteUTXORecord error = %v", err)
	}
	got, ok, err := s.ReadUTXORecord("tx1:0")
	if err != nil {
 t.Fatalf("ReadUTXORecord error = %v", err)
	}
	if !ok || got.Tag != TagDrippingOwner {
 t.Fatalf("unexpected record: %+v ok=%v", got, ok)
	}

	if err := s.DeleteUTXORecord("tx1:0"); err != nil {
 t.Fatalf("DeleteUTXORecord error = %v", err)
	}
	_, ok, err = s.ReadUTXORecord("tx1:0")
	if err != nil {
 t.Fatalf("ReadUTXORecord after delete error = %v", err)
	}
	if ok {
 t.Fatalf("expected record to be gone after delete")
	}
}

func TestAppendBackup_AccumulatesEntries(t *testing.T) {
	s := New(t.TempDir())
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	if err := s.AppendBackup(BackupEntry{TxID: "tx1", Payload: "p1", Timestamp: now}); err != nil {
 t.Fatalf("AppendBackup error = %v", err)
	}
	if err := s.AppendBackup(BackupEntry{TxID: "tx2", Payload: "p2", Timestamp: now}); err != nil {
 t.Fatalf("AppendBackup second entry error = %v", err)
	}
	entries, err := s.readBackupFile(s.backupPath(now, false))
	if err != nil {
 t.Fatalf("readBackupFile error = %v", err)
	}
	if len(entries) != 2 {
 t.Fatalf("expected 2 accumulated entries, got %d", len(entries))
	}
}
