package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/scl-host/sclindexer/internal/fsutil"
)

// Tag identifies the semantic meaning of one UTXO balance record. The D
// prefix marks an owner with an active drip; P- marks a pending-state
// record; U is LP-internal reserved balance; C marks a pending airdrop
// claim.
type Tag string

const (
	TagOwner Tag = "O"
	TagDrippingOwner Tag = "DO"
	TagListing Tag = "L"
	TagBid Tag = "B"
	TagClaim Tag = "C"
	TagDrippingClaim Tag = "DC"
	TagPendingOwner Tag = "P-O"
	TagPendingDripping Tag = "P-DO"
	TagPendingListing Tag = "P-L"
	TagPendingBid Tag = "P-B"
	TagPendingClaim Tag = "P-C"
	TagPendingDripClaim Tag = "P-DC"
	TagLPInternal Tag = "U"
	TagLPDripping Tag = "DU"
	TagPendingLP Tag = "P-U"
	TagPendingLPDrip Tag = "P-DU"
)

// Record is one UTXO's decoded balance-index entry.
type Record struct {
	ContractID string
	Tag Tag
	Values []string
}

// Format serializes r as <contract_id>:<tag>,<value1>[,<value2>,...].
func (r Record) Format() string {
	var b strings.Builder
	b.WriteString(r.ContractID)
	b.WriteByte(':')
	b.WriteString(string(r.Tag))
	for _, v := range r.Values {
 b.WriteByte(',')
 b.WriteString(v)
	}
	return b.String()
}

// ParseRecord decodes a UTXO balance-index line back into a Record.
func ParseRecord(line string) (Record, error) {
	line = strings.TrimSpace(line)
	head, rest, ok := strings.Cut(line, ":")
	if !ok {
 return Record{}, fmt.Errorf("malformed utxo record: %q", line)
	}
	parts := strings.Split(rest, ",")
	if len(parts) == 0 {
 return Record{}, fmt.Errorf("malformed utxo record: %q", line)
	}
	return Record{ContractID: head, Tag: Tag(parts[0]), Values: parts[1:]}, nil
}

// utxoPath follows the literal UTXOS/<txid>:<vout>.txt naming; colons are
// valid in POSIX file names.
func (s *Store) utxoPath(utxo string) string {
	return filepath.Join(s.baseDir, "UTXOS", utxo+".txt")
}

// WriteUTXORecord atomically writes one balance-index record.
func (s *Store) WriteUTXORecord(utxo string, r Record) error {
	return fsutil.WriteFileAtomic(s.utxoPath(utxo), []byte(r.Format()), 0o644)
}

// ReadUTXORecord reads and decodes one UTXO's balance record. Returns
// (Record{}, false, nil) if no record exists (spent or never owned).
func (s *Store) ReadUTXORecord(utxo string) (Record, bool, error) {
	data, err := os.ReadFile(s.utxoPath(utxo))
	if err != nil {
 if os.IsNotExist(err) {
 return Record{}, false, nil
 }
 return Record{}, false, fmt.Errorf("read utxo record %q: %w", utxo, err)
	}
	rec, err := ParseRecord(string(data))
	if err != nil {
 return Record{}, false, err
	}
	return rec, true, nil
}

// DeleteUTXORecord removes a UTXO's balance record (spent or GC'd).
func (s *Store) DeleteUTXORecord(utxo string) error {
	err := os.Remove(s.utxoPath(utxo))
	if err != nil && !os.IsNotExist(err) {
 return fmt.Errorf("delete utxo record %q: %w", utxo, err)
	}
	return nil
}

// OwnerRecord builds an O/DO (or pending P-O/P-DO) record for a plain
// balance holder.
func OwnerRecord(contractID string, balance uint64, dripping, pending bool) Record {
	tag := TagOwner
	switch {
	case pending && dripping:
 tag = TagPendingDripping
	case pending:
 tag = TagPendingOwner
	case dripping:
 tag = TagDrippingOwner
	}
	return Record{ContractID: contractID, Tag: tag, Values: []string{strconv.FormatUint(balance, 10)}}
}

// ListingRecord builds an L (or P-L) record.
func ListingRecord(contractID string, listAmt, price, numBids, highestBid, minBid uint64, listUTXO string, pending bool) Record {
	tag := TagListing
	if pending {
 tag = TagPendingListing
	}
	return Record{
 ContractID: contractID,
 Tag: tag,
 Values: []string{
 strconv.FormatUint(listAmt, 10),
 strconv.FormatUint(price, 10),
 strconv.FormatUint(numBids, 10),
 strconv.FormatUint(highestBid, 10),
 strconv.FormatUint(minBid, 10),
 listUTXO,
 },
	}
}

// LPBalanceRecord builds a U (or P-U) record for an LP share balance held
// on the liquidity-pool contract itself — distinct from OwnerRecord's O/DO
// tags, which are reserved for plain token holders on SCL01/02/03/05
// contracts.
func LPBalanceRecord(contractID string, balance uint64, pending bool) Record {
	tag := TagLPInternal
	if pending {
 tag = TagPendingLP
	}
	return Record{ContractID: contractID, Tag: tag, Values: []string{strconv.FormatUint(balance, 10)}}
}

// BidRecord builds a B (or P-B) record ( bid_amount, bid_price,
// 0 (reserved), list_utxo).
func BidRecord(contractID string, bidAmount, bidPrice uint64, listUTXO string, pending bool) Record {
	tag := TagBid
	if pending {
 tag = TagPendingBid
	}
	return Record{
 ContractID: contractID,
 Tag: tag,
 Values: []string{
 strconv.FormatUint(bidAmount, 10),
 strconv.FormatUint(bidPrice, 10),
 "0",
 listUTXO,
 },
	}
}
