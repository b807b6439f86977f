package handlers

import (
	"sort"

	"github.com/scl-host/sclindexer/internal/config"
	"github.com/scl-host/sclindexer/internal/contract"
)

// entry is one (key, value) pair of a paginated map field, the unit the
// `/{contract_id}/{field}` family of endpoints works in.
type entry struct {
	Key string `json:"key"`
	Value interface{} `json:"value"`
}

// sortedEntries converts a field map into key-sorted entries, generic over
// the map's value type so each field's accessor stays a one-liner.
func sortedEntries[V any](m map[string]V) []entry {
	keys := make([]string, 0, len(m))
	for k := range m {
 keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]entry, 0, len(keys))
	for _, k := range keys {
 out = append(out, entry{Key: k, Value: m[k]})
	}
	return out
}

// mappedField returns field's full entry list, or ok=false if field isn't a
// map-shaped contract field.
func mappedField(c *contract.Contract, field string) ([]entry, bool) {
	switch field {
	case config.FieldOwners:
 return sortedEntries(c.Owners), true
	case config.FieldPayloads:
 return sortedEntries(c.Payloads), true
	case config.FieldListings:
 return sortedEntries(c.Listings), true
	case config.FieldBids:
 return sortedEntries(c.Bids), true
	case config.FieldFulfillments:
 return sortedEntries(c.Fulfillments), true
	case config.FieldDrips:
 return sortedEntries(c.Drips), true
	case config.FieldDimAirdrops:
 return sortedEntries(c.DimAirdrops), true
	case config.FieldDGEs:
 return sortedEntries(c.DGEs), true
	case config.FieldRightToMint:
 return sortedEntries(c.RightToMint), true
	default:
 return nil, false
	}
}

// mappedEntry looks up a single key within a map-shaped field, backing the
// `/{contract_id}/{field}/{utxo}` per-UTXO view.
func mappedEntry(c *contract.Contract, field, key string) (interface{}, bool) {
	switch field {
	case config.FieldOwners:
 v, ok := c.Owners[key]
 return v, ok
	case config.FieldPayloads:
 v, ok := c.Payloads[key]
 return v, ok
	case config.FieldListings:
 v, ok := c.Listings[key]
 return v, ok
	case config.FieldBids:
 v, ok := c.Bids[key]
 return v, ok
	case config.FieldFulfillments:
 v, ok := c.Fulfillments[key]
 return v, ok
	case config.FieldDrips:
 v, ok := c.Drips[key]
 return v, ok
	case config.FieldDimAirdrops:
 v, ok := c.DimAirdrops[key]
 return v, ok
	case config.FieldDGEs:
 v, ok := c.DGEs[key]
 return v, ok
	case config.FieldRightToMint:
 v, ok := c.RightToMint[key]
 return v, ok
	default:
 return nil, false
	}
}

// scalarField returns field's value when field names a non-map, single-value
// contract field (or the whole contract, for "state").
func scalarField(c *contract.Contract, field string) (interface{}, bool) {
	switch field {
	case config.FieldSupply:
 return c.Supply, true
	case config.FieldMaxSupply:
 return c.MaxSupply, true
	case config.FieldDecimals:
 return c.Decimals, true
	case config.FieldLiquidityPool:
 return c.LiquidityPool, true
	case config.FieldTokenData:
 return c.TokenData, true
	case config.FieldState:
 return c, true
	default:
 return nil, false
	}
}

// page slices entries into the requested 1-indexed page of
// config.DefaultPageSize entries, returning the pagination envelope shape
// shared by every paged read endpoint.
func page(entries []entry, pageNum int) pagedEntries {
	if pageNum < 1 {
 pageNum = config.DefaultPage
	}
	total := len(entries)
	totalPages := (total + config.DefaultPageSize - 1) / config.DefaultPageSize
	if totalPages == 0 {
 totalPages = 1
	}
	start := (pageNum - 1) * config.DefaultPageSize
	if start > total {
 start = total
	}
	end := start + config.DefaultPageSize
	if end > total {
 end = total
	}
	slice := entries[start:end]
	return pagedEntries{
 CurrentPage: pageNum,
 TotalPages: totalPages,
 PageEntries: len(slice),
 Entries: slice,
	}
}

type pagedEntries struct {
	CurrentPage int `json:"current_page"`
	TotalPages int `json:"total_pages"`
	PageEntries int `json:"page_entries"`
	Entries []entry `json:"entries"`
}
