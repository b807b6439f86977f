package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/scl-host/sclindexer/internal/config"
)

// CheckUTXOs handles POST /check_utxos: `{contract_ids, utxos}` → balances
// and summaries per contract.
func (d *Deps) CheckUTXOs() http.HandlerFunc {
	type request struct {
 ContractIDs []string `json:"contract_ids"`
 UTXOs []string `json:"utxos"`
	}
	type contractCheck struct {
 Balances map[string]uint64 `json:"balances"`
 Summary summary `json:"summary"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
 var req request
 if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
 writeError(w, http.StatusBadRequest, config.ErrorBadRequest, "invalid request body: "+err.Error())
 return
 }

 out := make(map[string]contractCheck, len(req.ContractIDs))
 for _, id := range req.ContractIDs {
 c, err := d.Store.LoadState(id)
 if err != nil || c == nil {
 continue
 }
 balances := make(map[string]uint64, len(req.UTXOs))
 for _, utxo := range req.UTXOs {
 if bal, ok := c.Owners[utxo]; ok {
 balances[utxo] = bal
 }
 }
 out[id] = contractCheck{Balances: balances, Summary: d.summaryFor(c)}
 }
 writeJSON(w, http.StatusOK, out)
	}
}

// Summaries handles POST /summaries: contract summaries by id list.
func (d *Deps) Summaries() http.HandlerFunc {
	type request struct {
 ContractIDs []string `json:"contract_ids"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
 var req request
 if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
 writeError(w, http.StatusBadRequest, config.ErrorBadRequest, "invalid request body: "+err.Error())
 return
 }
 out := make(map[string]summary, len(req.ContractIDs))
 for _, id := range req.ContractIDs {
 c, err := d.Store.LoadState(id)
 if err != nil || c == nil {
 continue
 }
 out[id] = d.summaryFor(c)
 }
 writeJSON(w, http.StatusOK, out)
	}
}

// AllSummaries handles GET /all_summaries: every known contract's summary.
func (d *Deps) AllSummaries() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
 ids, err := d.Store.ListContractIDs()
 if err != nil {
 writeError(w, http.StatusInternalServerError, config.ErrorIO, err.Error())
 return
 }
 out := make(map[string]summary, len(ids))
 for _, id := range ids {
 c, err := d.Store.LoadState(id)
 if err != nil || c == nil {
 continue
 }
 out[id] = d.summaryFor(c)
 }
 writeJSON(w, http.StatusOK, out)
	}
}

// ListingSummaries handles POST /listing_summaries: bulk listing lookups
// across contracts, each joined with its currently reserved bids.
func (d *Deps) ListingSummaries() http.HandlerFunc {
	type lookup struct {
 ContractID string `json:"contract_id"`
 OrderID string `json:"order_id"`
	}
	type listingSummary struct {
 lookup
 Found bool `json:"found"`
 Listing interface{} `json:"listing,omitempty"`
 Bids []interface{} `json:"bids,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
 var lookups []lookup
 if err := json.NewDecoder(r.Body).Decode(&lookups); err != nil {
 writeError(w, http.StatusBadRequest, config.ErrorBadRequest, "invalid request body: "+err.Error())
 return
 }
 out := make([]listingSummary, 0, len(lookups))
 for _, lk := range lookups {
 c, err := d.Store.LoadState(lk.ContractID)
 if err != nil || c == nil {
 out = append(out, listingSummary{lookup: lk})
 continue
 }
 listing, ok := c.Listings[lk.OrderID]
 if !ok {
 out = append(out, listingSummary{lookup: lk})
 continue
 }
 var bids []interface{}
 for _, bid := range c.Bids {
 if bid.OrderID == lk.OrderID {
 bids = append(bids, bid)
 }
 }
 out = append(out, listingSummary{lookup: lk, Found: true, Listing: listing, Bids: bids})
 }
 writeJSON(w, http.StatusOK, out)
	}
}

// BidUTXOTradeInfo handles POST /bid_utxo_trade_info: bulk bid-side trade
// lookups, each joined with its order's listing.
func (d *Deps) BidUTXOTradeInfo() http.HandlerFunc {
	type lookup struct {
 ContractID string `json:"contract_id"`
 BidID string `json:"bid_id"`
	}
	type bidTradeInfo struct {
 lookup
 Found bool `json:"found"`
 Bid interface{} `json:"bid,omitempty"`
 Listing interface{} `json:"listing,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
 var lookups []lookup
 if err := json.NewDecoder(r.Body).Decode(&lookups); err != nil {
 writeError(w, http.StatusBadRequest, config.ErrorBadRequest, "invalid request body: "+err.Error())
 return
 }
 out := make([]bidTradeInfo, 0, len(lookups))
 for _, lk := range lookups {
 c, err := d.Store.LoadState(lk.ContractID)
 if err != nil || c == nil {
 out = append(out, bidTradeInfo{lookup: lk})
 continue
 }
 bid, ok := c.Bids[lk.BidID]
 if !ok {
 out = append(out, bidTradeInfo{lookup: lk})
 continue
 }
 info := bidTradeInfo{lookup: lk, Found: true, Bid: bid}
 if listing, ok := c.Listings[bid.OrderID]; ok {
 info.Listing = listing
 }
 out = append(out, info)
 }
 writeJSON(w, http.StatusOK, out)
	}
}

// CheckTxidsHistory handles POST /check_txids_history: filtered history
// entries for a contract, restricted to the requested txids.
func (d *Deps) CheckTxidsHistory() http.HandlerFunc {
	type request struct {
 ContractID string `json:"contract_id"`
 TxIDs []string `json:"txids"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
 var req request
 if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
 writeError(w, http.StatusBadRequest, config.ErrorBadRequest, "invalid request body: "+err.Error())
 return
 }
 entries, err := d.Index.HistoryByTxIDs(req.ContractID, req.TxIDs)
 if err != nil {
 writeError(w, http.StatusInternalServerError, config.ErrorIO, err.Error())
 return
 }
 writeJSON(w, http.StatusOK, entries)
	}
}
