package handlers

import (
	"testing"

	"github.com/scl-host/sclindexer/internal/contract"
)

func TestSortedEntries_OrdersByKey(t *testing.T) {
	m := map[string]uint64{"c:0": 3, "a:0": 1, "b:0": 2}
	got := sortedEntries(m)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	want := []string{"a:0", "b:0", "c:0"}
	for i, e := range got {
		if e.Key != want[i] {
			t.Errorf("entry[%d].Key = %q, want %q", i, e.Key, want[i])
		}
	}
}

func TestMappedField_KnownAndUnknownFields(t *testing.T) {
	c := contract.MintSCL01("A", "TKR", 1000, 0, "A:0")

	entries, ok := mappedField(c, "owners")
	if !ok || len(entries) != 1 || entries[0].Key != "A:0" {
		t.Fatalf("mappedField(owners) = %+v, %v", entries, ok)
	}

	if _, ok := mappedField(c, "not_a_field"); ok {
		t.Error("mappedField(not_a_field) should report ok=false")
	}
}

func TestMappedEntry_LooksUpSingleKey(t *testing.T) {
	c := contract.MintSCL01("A", "TKR", 1000, 0, "A:0")

	v, ok := mappedEntry(c, "owners", "A:0")
	if !ok || v.(uint64) != 1000 {
		t.Fatalf("mappedEntry(owners, A:0) = %v, %v", v, ok)
	}
	if _, ok := mappedEntry(c, "owners", "missing:0"); ok {
		t.Error("mappedEntry should report ok=false for a missing key")
	}
}

func TestScalarField_SupplyAndState(t *testing.T) {
	c := contract.MintSCL01("A", "TKR", 1000, 0, "A:0")

	supply, ok := scalarField(c, "supply")
	if !ok || supply.(uint64) != 1000 {
		t.Fatalf("scalarField(supply) = %v, %v", supply, ok)
	}

	state, ok := scalarField(c, "state")
	if !ok || state.(*contract.Contract) != c {
		t.Fatalf("scalarField(state) should return the contract itself")
	}

	if _, ok := scalarField(c, "owners"); ok {
		t.Error("scalarField(owners) should report ok=false for a map field")
	}
}

func TestPage_SlicesAndReportsTotals(t *testing.T) {
	entries := make([]entry, 0, 250)
	for i := 0; i < 250; i++ {
		entries = append(entries, entry{Key: string(rune('a' + i%26))})
	}

	p1 := page(entries, 1)
	if p1.CurrentPage != 1 || p1.TotalPages != 3 || p1.PageEntries != 100 {
		t.Fatalf("page 1 = %+v", p1)
	}

	p3 := page(entries, 3)
	if p3.PageEntries != 50 {
		t.Fatalf("page 3 PageEntries = %d, want 50", p3.PageEntries)
	}

	p0 := page(entries, 0)
	if p0.CurrentPage != 1 {
		t.Errorf("page(0) should default to page 1, got %d", p0.CurrentPage)
	}

	beyond := page(entries, 99)
	if beyond.PageEntries != 0 {
		t.Errorf("page beyond range should be empty, got %d entries", beyond.PageEntries)
	}
}

func TestPage_EmptyEntriesStillReportsOnePage(t *testing.T) {
	p := page(nil, 1)
	if p.TotalPages != 1 || p.PageEntries != 0 {
		t.Fatalf("page(nil) = %+v, want 1 total page, 0 entries", p)
	}
}
