package executor

import (
	"github.com/scl-host/sclindexer/internal/contract"
	"github.com/scl-host/sclindexer/internal/store"
)

// utxoSnapshot captures a contract's UTXO-keyed maps immediately before a
// state transition runs, so syncUTXOIndex can diff against the
// post-transition maps to find what was created or spent.
type utxoSnapshot struct {
	owners map[string]uint64
	listings map[string]contract.Listing
	bids map[string]contract.Bid
}

func snapshotUTXOs(c *contract.Contract) utxoSnapshot {
	owners := make(map[string]uint64, len(c.Owners))
	for k, v := range c.Owners {
 owners[k] = v
	}
	listings := make(map[string]contract.Listing, len(c.Listings))
	for k, v := range c.Listings {
 if v != nil {
 listings[k] = *v
 }
	}
	bids := make(map[string]contract.Bid, len(c.Bids))
	for k, v := range c.Bids {
 if v != nil {
 bids[k] = *v
 }
	}
	return utxoSnapshot{owners: owners, listings: listings, bids: bids}
}

// syncUTXOIndex reconciles the UTXO balance index (component C6) against c's
// current owner/listing/bid maps, using before to tell what was created or
// spent by this transition. Per spec, the index is a derived, eventually
// consistent view written after contract state changes; a write failure
// here is logged and never fails the transition it mirrors.
func (e *Executor) syncUTXOIndex(c *contract.Contract, before utxoSnapshot, pending bool) {
	e.syncOwnerUTXOs(c, before.owners, pending)
	e.syncListingAndBidUTXOs(c, before.listings, before.bids, pending)
}

func (e *Executor) syncOwnerUTXOs(c *contract.Contract, before map[string]uint64, pending bool) {
	for utxo, bal := range c.Owners {
 if old, ok := before[utxo]; ok && old == bal {
 continue
 }
 e.writeUTXOIndex(utxo, e.ownerRecordFor(c, utxo, bal, pending))
	}
	for utxo := range before {
 if _, ok := c.Owners[utxo]; !ok {
 e.deleteUTXOIndex(utxo)
 }
	}
}

// ownerRecordFor tags an owner UTXO: LP contracts hold share balances
// (U / P-U, never dripping), everything else is a plain token holder
// (O / DO, P-O / P-DO per whether it carries an active drip).
func (e *Executor) ownerRecordFor(c *contract.Contract, utxo string, balance uint64, pending bool) store.Record {
	if c.Kind == contract.KindSCL04 {
 return store.LPBalanceRecord(c.ContractID, balance, pending)
	}
	ds, hasDrips := c.Drips[utxo]
	return store.OwnerRecord(c.ContractID, balance, hasDrips && len(ds) > 0, pending)
}

// syncListingAndBidUTXOs writes/deletes listing and bid records. A listing's
// num_bids/highest_bid/min_bid summary depends on its bids, so any order_id
// whose bid set changed gets its listing record rewritten even when the
// listing itself didn't change.
func (e *Executor) syncListingAndBidUTXOs(c *contract.Contract, beforeListings map[string]contract.Listing, beforeBids map[string]contract.Bid, pending bool) {
	touchedOrders := map[string]bool{}

	for bidID, bid := range c.Bids {
 if _, existed := beforeBids[bidID]; existed {
 continue
 }
 touchedOrders[bid.OrderID] = true
 e.writeUTXOIndex(bid.ReservedUTXO, e.bidRecordFor(c, bid, pending))
	}
	for bidID, bid := range beforeBids {
 if _, ok := c.Bids[bidID]; !ok {
 touchedOrders[bid.OrderID] = true
 e.deleteUTXOIndex(bid.ReservedUTXO)
 }
	}

	for orderID, listing := range c.Listings {
 if _, existed := beforeListings[orderID]; existed && !touchedOrders[orderID] {
 continue
 }
 e.writeUTXOIndex(listing.ListUTXO, e.listingRecordFor(c, listing, pending))
	}
	for orderID, listing := range beforeListings {
 if _, ok := c.Listings[orderID]; !ok {
 e.deleteUTXOIndex(listing.ListUTXO)
 }
	}
}

func (e *Executor) listingRecordFor(c *contract.Contract, listing *contract.Listing, pending bool) store.Record {
	var numBids, highest, lowest uint64
	for _, b := range c.Bids {
 if b.OrderID != listing.OrderID {
 continue
 }
 numBids++
 if b.BidPrice > highest {
 highest = b.BidPrice
 }
 if lowest == 0 || b.BidPrice < lowest {
 lowest = b.BidPrice
 }
	}
	return store.ListingRecord(c.ContractID, listing.ListAmount, listing.Price, numBids, highest, lowest, listing.ListUTXO, pending)
}

func (e *Executor) bidRecordFor(c *contract.Contract, bid *contract.Bid, pending bool) store.Record {
	var listUTXO string
	if listing, ok := c.Listings[bid.OrderID]; ok {
 listUTXO = listing.ListUTXO
	}
	return store.BidRecord(c.ContractID, bid.BidAmount, bid.BidPrice, listUTXO, pending)
}

func (e *Executor) writeUTXOIndex(utxo string, r store.Record) {
	if utxo == "" {
 return
	}
	if err := e.store.WriteUTXORecord(utxo, r); err != nil {
 e.log.Warn("utxo index write failed", "utxo", utxo, "error", err)
	}
}

func (e *Executor) deleteUTXOIndex(utxo string) {
	if utxo == "" {
 return
	}
	if err := e.store.DeleteUTXORecord(utxo); err != nil {
 e.log.Warn("utxo index delete failed", "utxo", utxo, "error", err)
	}
}
