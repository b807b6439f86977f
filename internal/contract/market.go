package contract

import (
	"strconv"

	"github.com/scl-host/sclindexer/internal/config"
)

// List moves listAmount out of senders' combined balance into a new
// Listing keyed by order_id = senders[0], crediting any remainder (with
// drip migration) to changeUTXO.
func (c *Contract) List(txid string, senders []string, changeUTXO, listUTXO string, listAmount, price uint64, payAddr string, block uint64) error {
	if c.HasApplied(txid) {
 return nil
	}
	if len(senders) == 0 {
 return config.ErrPayloadGrammar
	}
	orderID := senders[0]
	if _, exists := c.Listings[orderID]; exists {
 return config.ErrListingExists
	}
	total, err := c.spendSenders(senders)
	if err != nil {
 return err
	}
	if listAmount > total {
 return config.ErrInsufficientBalance
	}
	if remainder := total - listAmount; remainder > 0 {
 c.Owners[changeUTXO] += remainder
	}
	c.migrateDrips(senders, changeUTXO, block)
	c.Listings[orderID] = &Listing{
 OrderID: orderID,
 ListUTXO: listUTXO,
 ChangeUTXO: changeUTXO,
 ListAmount: listAmount,
 Price: price,
 ReceiveAddr: payAddr,
	}
	return nil
}

// BidEntry is one bid tuple submitted inside a BID payload, against an
// existing listing's order_id. FulfilTxID is the precomputed txid of the
// bid's accompanying fulfil transaction — it becomes the bid's bid_id, so
// that fulfilling a bid never has to guess which of a listing's several
// open bids is meant. AcceptTxID is the precomputed txid of the matching
// accept_bid transaction, resolving accept_bid the same way.
type BidEntry struct {
	OrderID string
	Amount uint64
	Price uint64
	ReservedUTXO string
	FulfilTxID string
	AcceptTxID string
}

// Bid evaluates each submitted bid against its listing: bids that clear the
// ask (amount*price >= list_amt*price) mark the listing valid at block;
// bids exceeding list_amt, or missing their fulfil-tx id, are silently
// dropped.
func (c *Contract) Bid(txid string, bids []BidEntry, block uint64) error {
	if c.HasApplied(txid) {
 return nil
	}
	for _, b := range bids {
 if b.FulfilTxID == "" || b.AcceptTxID == "" {
 continue
 }
 listing, ok := c.Listings[b.OrderID]
 if !ok {
 continue
 }
 if b.Amount > listing.ListAmount {
 continue
 }
 if b.Amount*b.Price < listing.ListAmount*listing.Price {
 continue
 }
 listing.ValidBidBlock = block
 bidID := b.FulfilTxID
 c.Bids[bidID] = &Bid{
 BidID: bidID,
 OrderID: b.OrderID,
 BidAmount: b.Amount,
 BidPrice: b.Price,
 ReservedUTXO: b.ReservedUTXO,
 AcceptTxID: b.AcceptTxID,
 }
	}
	return nil
}

// AcceptBid records that the seller accepted bidID against its listing,
// keyed for later fulfillment. Returns the suffix to append to the stored
// payload for later trade-term recovery by read projections.
func (c *Contract) AcceptBid(txid, bidID string) (string, error) {
	if c.HasApplied(txid) {
 return "", nil
	}
	bid, ok := c.Bids[bidID]
	if !ok {
 return "", config.ErrUnknownBid
	}
	if _, exists := c.Fulfillments[bidID]; exists {
 return "", config.ErrAlreadyFulfilled
	}
	bid.AcceptTx = txid
	c.Fulfillments[bidID] = bid.OrderID
	return extraInfoSuffix(bidID, bid.BidAmount, bid.BidPrice), nil
}

func extraInfoSuffix(bidID string, amount, price uint64) string {
	return "-ExtraInfo-" + bidID + "," + strconv.FormatUint(amount, 10) + "," + strconv.FormatUint(price, 10)
}

// FulfilTrade completes an accepted trade: credits the bid's reserved
// buyer with bid_amount at txid:0, returns any listing surplus to txid:2,
// and removes the listing plus every bid against its order.
func (c *Contract) FulfilTrade(txid, bidID string) error {
	if c.HasApplied(txid) {
 return nil
	}
	orderID, ok := c.Fulfillments[bidID]
	if !ok {
 return config.ErrUnknownBid
	}
	bid, ok := c.Bids[bidID]
	if !ok {
 return config.ErrUnknownBid
	}
	listing, ok := c.Listings[orderID]
	if !ok {
 return config.ErrUnknownListing
	}
	bid.FulfillTx = txid
	receiver := txid + ":0"
	c.Owners[receiver] += bid.BidAmount
	bid.FulfillmentUTXOs = append(bid.FulfillmentUTXOs, receiver)
	if listing.ListAmount > bid.BidAmount {
 remainder := txid + ":2"
 c.Owners[remainder] += listing.ListAmount - bid.BidAmount
 bid.FulfillmentUTXOs = append(bid.FulfillmentUTXOs, remainder)
	}
	c.removeOrder(orderID)
	return nil
}

// CancelListing refunds list_amt to txid:0 and removes the listing and all
// its bids. Errors if any bid against it has already been fulfilled.
func (c *Contract) CancelListing(txid, listUTXO string) error {
	if c.HasApplied(txid) {
 return nil
	}
	var orderID string
	var listing *Listing
	for id, l := range c.Listings {
 if l.ListUTXO == listUTXO {
 orderID, listing = id, l
 break
 }
	}
	if listing == nil {
 return config.ErrUnknownListing
	}
	for bidID := range c.Bids {
 if c.Bids[bidID].OrderID == orderID {
 if _, fulfilled := c.Fulfillments[bidID]; fulfilled {
 return config.ErrAlreadyFulfilled
 }
 }
	}
	c.Owners[txid+":0"] += listing.ListAmount
	c.removeOrder(orderID)
	return nil
}

// CancelBid removes a single unfulfilled bid by its reserved utxo.
func (c *Contract) CancelBid(txid, bidUTXO string) error {
	if c.HasApplied(txid) {
 return nil
	}
	var bidID string
	for id, b := range c.Bids {
 if b.ReservedUTXO == bidUTXO {
 bidID = id
 break
 }
	}
	if bidID == "" {
 return config.ErrUnknownBid
	}
	if _, fulfilled := c.Fulfillments[bidID]; fulfilled {
 return config.ErrAlreadyFulfilled
	}
	delete(c.Bids, bidID)
	return nil
}

// removeOrder deletes a listing and every bid referencing its order_id.
func (c *Contract) removeOrder(orderID string) {
	delete(c.Listings, orderID)
	for bidID, b := range c.Bids {
 if b.OrderID == orderID {
 delete(c.Bids, bidID)
 delete(c.Fulfillments, bidID)
 }
	}
}
