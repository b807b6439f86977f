package index

import (
	"fmt"
	"strings"

	"github.com/scl-host/sclindexer/internal/codec"
	"github.com/scl-host/sclindexer/internal/contract"
	"github.com/scl-host/sclindexer/internal/store"
)

// Rebuild repopulates the read-index from scratch off the flat-file store,
// the only authoritative source. Safe to call against a fresh or
// stale database; rows are replaced, never appended to duplicate.
func (d *DB) Rebuild(st *store.Store) error {
	ids, err := st.ListContractIDs()
	if err != nil {
 return fmt.Errorf("list contracts: %w", err)
	}
	for _, id := range ids {
 c, err := st.LoadState(id)
 if err != nil {
 return fmt.Errorf("load state %s: %w", id, err)
 }
 if c == nil {
 continue
 }
 if err := d.indexContract(c); err != nil {
 return fmt.Errorf("index contract %s: %w", id, err)
 }
	}
	return nil
}

func (d *DB) indexContract(c *contract.Contract) error {
	counters := classify(c)
	if _, err := d.conn.Exec(`
 INSERT INTO interaction_counters (contract_id, total_listed, total_traded, total_burns, total_transfers, total_interactions)
 VALUES (?, ?, ?, ?, ?, ?)
 ON CONFLICT(contract_id) DO UPDATE SET
 total_listed = excluded.total_listed,
 total_traded = excluded.total_traded,
 total_burns = excluded.total_burns,
 total_transfers = excluded.total_transfers,
 total_interactions = excluded.total_interactions
	`, c.ContractID, counters.listed, counters.traded, counters.burns, counters.transfers, counters.total); err != nil {
 return err
	}

	for txid, payload := range c.Payloads {
 kind := classifyKind(txid, payload)
 if _, err := d.conn.Exec(`
 INSERT OR REPLACE INTO command_history (contract_id, txid, kind, payload)
 VALUES (?, ?, ?, ?)
 `, c.ContractID, txid, string(kind), payload); err != nil {
 return err
 }
	}
	return nil
}

type counterTotals struct {
	listed, traded, burns, transfers, total uint64
}

// classify derives aggregate interaction counters from the payloads log,
// the same tallies the summary projection reports (total
// listed/traded/burns/transfers/interactions).
func classify(c *contract.Contract) counterTotals {
	var t counterTotals
	for txid, payload := range c.Payloads {
 t.total++
 switch classifyKind(txid, payload) {
 case codec.KindList:
 t.listed++
 case codec.KindFulfilTrade:
 t.traded++
 case codec.KindBurn:
 t.burns++
 case codec.KindTransfer:
 t.transfers++
 }
	}
	return t
}

// classifyKind recovers the command kind of a recorded payload by re-running
// it through the real grammar parser, stripping accept_bid's trailing
// "-ExtraInfo-<bid_id>,<amt>,<price>" suffix first. LP payloads are recorded as an empty string — the OP_RETURN plaintext
// is only ever decrypted transiently by the executor, never persisted — so
// they classify as the generic "LP" kind rather than PLP/SLP/LLP
// specifically.
func classifyKind(txid, payload string) codec.Kind {
	if payload == "" {
 return "LP"
	}
	base := payload
	if idx := strings.Index(base, "-ExtraInfo-"); idx != -1 {
 base = base[:idx]
	}
	cmd, err := codec.Parse(txid, base)
	if err != nil {
 return "UNKNOWN"
	}
	return cmd.Kind()
}
