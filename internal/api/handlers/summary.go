package handlers

import (
	"strconv"
	"strings"

	"github.com/scl-host/sclindexer/internal/contract"
)

// trade is one completed fulfillment, recovered from an accept_bid payload's
// "-ExtraInfo-<bid_id>,<amt>,<price>" suffix — the only place trade terms
// survive for VWAP computation.
type trade struct {
	TxID string `json:"txid"`
	BidID string `json:"bid_id"`
	Amount uint64 `json:"amount"`
	Price uint64 `json:"price"`
}

// parseExtraInfo extracts the trade term suffix from a stored payload, if
// present.
func parseExtraInfo(txid, payload string) (trade, bool) {
	idx := strings.Index(payload, "-ExtraInfo-")
	if idx == -1 {
 return trade{}, false
	}
	fields := strings.Split(payload[idx+len("-ExtraInfo-"):], ",")
	if len(fields) != 3 {
 return trade{}, false
	}
	amount, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
 return trade{}, false
	}
	price, err := strconv.ParseUint(fields[2], 10, 64)
	if err != nil {
 return trade{}, false
	}
	return trade{TxID: txid, BidID: fields[0], Amount: amount, Price: price}, true
}

// tradesFor returns every completed trade recorded against c, for the
// `/{contract_id}/trades` projection and for summary VWAP computation.
func tradesFor(c *contract.Contract) []trade {
	var trades []trade
	for txid, payload := range c.Payloads {
 if t, ok := parseExtraInfo(txid, payload); ok {
 trades = append(trades, t)
 }
	}
	return trades
}

// summary is the `/{contract_id}/summary` projection.
type summary struct {
	AverageListingPrice float64 `json:"average_listing_price"`
	AverageTradedPrice float64 `json:"average_traded_price"`
	TotalListed uint64 `json:"total_listed"`
	TotalTraded uint64 `json:"total_traded"`
	TotalBurns uint64 `json:"total_burns"`
	TotalTransfers uint64 `json:"total_transfers"`
	TotalInteractions uint64 `json:"total_interactions"`
	LPRatio float64 `json:"lp_ratio,omitempty"`
	LPPeers []string `json:"lp_peers,omitempty"`
	AvailableAirdrops uint64 `json:"available_airdrops,omitempty"`
}

// summaryFor builds c's summary projection, pulling interaction counts from
// the read-index and computing VWAP prices directly from current state.
func (d *Deps) summaryFor(c *contract.Contract) summary {
	s := summary{}

	counters, err := d.Index.Counters(c.ContractID)
	if err != nil {
 d.logger().Warn("summary: counters lookup failed", "contract_id", c.ContractID, "error", err)
	} else {
 s.TotalListed = counters.TotalListed
 s.TotalTraded = counters.TotalTraded
 s.TotalBurns = counters.TotalBurns
 s.TotalTransfers = counters.TotalTransfers
 s.TotalInteractions = counters.TotalInteractions
	}

	var listAmtSum, listWeighted float64
	for _, l := range c.Listings {
 listAmtSum += float64(l.ListAmount)
 listWeighted += float64(l.ListAmount) * float64(l.Price)
	}
	if listAmtSum > 0 {
 s.AverageListingPrice = listWeighted / listAmtSum
	}

	var tradeAmtSum, tradeWeighted float64
	for _, t := range tradesFor(c) {
 tradeAmtSum += float64(t.Amount)
 tradeWeighted += float64(t.Amount) * float64(t.Price)
	}
	if tradeAmtSum > 0 {
 s.AverageTradedPrice = tradeWeighted / tradeAmtSum
	}

	if c.LiquidityPool != nil {
 lp := c.LiquidityPool
 if lp.Pool2 > 0 {
 s.LPRatio = float64(lp.Pool1) / float64(lp.Pool2)
 }
 s.LPPeers = []string{lp.ContractID1, lp.ContractID2}
	}

	if c.TotalAirdrops > c.CurrentAirdrops {
 s.AvailableAirdrops = c.TotalAirdrops - c.CurrentAirdrops
	}

	return s
}
