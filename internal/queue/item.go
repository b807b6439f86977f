// Package queue implements the three on-disk FIFO queues Confirmed, Pending,
// and Claims. Each queue is a directory of one file per item, named so a
// lexicographic directory listing is arrival order — the same durable-
// sequence idiom as fsutil.TimestampedName.
package queue

import (
	"encoding/json"
	"time"
)

// Item is one submitted (txid, payload) pair awaiting execution, plus the
// bookkeeping the sweeper needs to apply the 2-minute/24-hour timeout rules.
type Item struct {
	TxID string `json:"txid"`
	Payload string `json:"payload"`
	BidPayload string `json:"bid_payload,omitempty"`
	ContractID string `json:"contract_id,omitempty"`
	LPContractID string `json:"lp_contract_id,omitempty"`

	EnqueuedAt time.Time `json:"enqueued_at"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty"` // set on first valid-but-unconfirmed validation
}

// MarkAccepted records the first time this item validated as valid-but-not-
// yet-confirmed. Once set, the 2-minute acceptance limit no longer applies;
// the 24-hour limit is still measured from EnqueuedAt.
func (it *Item) MarkAccepted(now time.Time) {
	if it.AcceptedAt == nil {
 t := now
 it.AcceptedAt = &t
	}
}

func (it *Item) marshal() ([]byte, error) {
	return json.MarshalIndent(it, "", " ")
}

func unmarshalItem(data []byte) (*Item, error) {
	var it Item
	if err := json.Unmarshal(data, &it); err != nil {
 return nil, err
	}
	return &it, nil
}
