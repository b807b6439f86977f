package index

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/scl-host/sclindexer/internal/config"
)

// HistoryEntry is one indexed command, the row shape backing the
// `/{contract_id}/history` endpoint.
type HistoryEntry struct {
	TxID string `json:"txid"`
	Kind string `json:"kind"`
	Payload string `json:"payload"`
	RecordedAt string `json:"recorded_at"`
}

// HistoryPage is one page of a contract's command history, matching the
// `{current_page, total_pages, page_entries, entries}` pagination envelope
// shared by every paged read endpoint.
type HistoryPage struct {
	CurrentPage int `json:"current_page"`
	TotalPages int `json:"total_pages"`
	PageEntries int `json:"page_entries"`
	Entries []HistoryEntry `json:"entries"`
}

// History returns page `page` (1-indexed) of contractID's indexed history,
// ordered by row id. Rebuild inserts rows by ranging over the contract's
// payloads map, so this order is not the order the commands were applied.
func (d *DB) History(contractID string, page int) (HistoryPage, error) {
	if page < 1 {
 page = config.DefaultPage
	}
	var total int
	if err := d.conn.QueryRow(`SELECT COUNT(*) FROM command_history WHERE contract_id = ?`, contractID).Scan(&total); err != nil {
 return HistoryPage{}, fmt.Errorf("count history for %s: %w", contractID, err)
	}
	totalPages := (total + config.DefaultPageSize - 1) / config.DefaultPageSize
	if totalPages == 0 {
 totalPages = 1
	}
	offset := (page - 1) * config.DefaultPageSize

	rows, err := d.conn.Query(`
 SELECT txid, kind, payload, recorded_at FROM command_history
 WHERE contract_id = ?
 ORDER BY id ASC
 LIMIT ? OFFSET ?
	`, contractID, config.DefaultPageSize, offset)
	if err != nil {
 return HistoryPage{}, fmt.Errorf("query history for %s: %w", contractID, err)
	}
	defer rows.Close()

	entries := make([]HistoryEntry, 0, config.DefaultPageSize)
	for rows.Next() {
 var e HistoryEntry
 if err := rows.Scan(&e.TxID, &e.Kind, &e.Payload, &e.RecordedAt); err != nil {
 return HistoryPage{}, fmt.Errorf("scan history row: %w", err)
 }
 entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
 return HistoryPage{}, err
	}

	return HistoryPage{
 CurrentPage: page,
 TotalPages: totalPages,
 PageEntries: len(entries),
 Entries: entries,
	}, nil
}

// HistoryByTxIDs returns the indexed entries among txids for contractID,
// backing the `/check_txids_history` bulk lookup.
func (d *DB) HistoryByTxIDs(contractID string, txids []string) ([]HistoryEntry, error) {
	if len(txids) == 0 {
 return nil, nil
	}
	placeholders := make([]string, len(txids))
	args := make([]interface{}, 0, len(txids)+1)
	args = append(args, contractID)
	for i, txid := range txids {
 placeholders[i] = "?"
 args = append(args, txid)
	}
	query := `SELECT txid, kind, payload, recorded_at FROM command_history
 WHERE contract_id = ? AND txid IN (` + strings.Join(placeholders, ",") + `)
 ORDER BY id ASC`
	rows, err := d.conn.Query(query, args...)
	if err != nil {
 return nil, fmt.Errorf("query history by txids for %s: %w", contractID, err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
 var e HistoryEntry
 if err := rows.Scan(&e.TxID, &e.Kind, &e.Payload, &e.RecordedAt); err != nil {
 return nil, fmt.Errorf("scan history row: %w", err)
 }
 entries = append(entries, e)
	}
	return entries, rows.Err()
}

// InteractionCounters is the sqlite-backed mirror of store.Interactions,
// queried directly instead of re-deriving it from the flat-file store on
// every read.
type InteractionCounters struct {
	TotalListed uint64 `json:"total_listed"`
	TotalTraded uint64 `json:"total_traded"`
	TotalBurns uint64 `json:"total_burns"`
	TotalTransfers uint64 `json:"total_transfers"`
	TotalInteractions uint64 `json:"total_interactions"`
}

// Counters returns contractID's aggregated interaction counters, zero-valued
// if the contract has never been indexed.
func (d *DB) Counters(contractID string) (InteractionCounters, error) {
	var c InteractionCounters
	err := d.conn.QueryRow(`
 SELECT total_listed, total_traded, total_burns, total_transfers, total_interactions
 FROM interaction_counters WHERE contract_id = ?
	`, contractID).Scan(&c.TotalListed, &c.TotalTraded, &c.TotalBurns, &c.TotalTransfers, &c.TotalInteractions)
	if err != nil {
 if errors.Is(err, sql.ErrNoRows) {
 return InteractionCounters{}, nil
 }
 return InteractionCounters{}, fmt.Errorf("query counters for %s: %w", contractID, err)
	}
	return c, nil
}
