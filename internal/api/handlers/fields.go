package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/scl-host/sclindexer/internal/config"
	"github.com/scl-host/sclindexer/internal/contract"
)

// loadContract resolves a request's contract_id/field pair to the confirmed
// or pending Contract, per the `pending-<field>` prefix convention. field is
// returned with that prefix stripped.
func (d *Deps) loadContract(w http.ResponseWriter, r *http.Request, contractID, rawField string) (*contract.Contract, string, bool) {
	field := rawField
	pending := strings.HasPrefix(rawField, config.PendingFieldPrefix)
	if pending {
 field = strings.TrimPrefix(rawField, config.PendingFieldPrefix)
	}

	var (
 c *contract.Contract
 err error
	)
	if pending {
 c, err = d.Store.LoadPending(contractID)
	} else {
 c, err = d.Store.LoadState(contractID)
	}
	if err != nil {
 writeError(w, http.StatusInternalServerError, config.ErrorIO, err.Error())
 return nil, "", false
	}
	if c == nil {
 writeError(w, http.StatusNotFound, config.ErrorContractNotFound, "unknown contract: "+contractID)
 return nil, "", false
	}
	return c, field, true
}

// Field handles GET /{contract_id}/{field}: the full value of a single field,
// confirmed or pending.
func (d *Deps) Field() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
 contractID := chi.URLParam(r, "contract_id")
 rawField := chi.URLParam(r, "field")

 c, field, ok := d.loadContract(w, r, contractID, rawField)
 if !ok {
 return
 }

 switch field {
 case config.FieldSummary:
 writeJSON(w, http.StatusOK, d.summaryFor(c))
 return
 case config.FieldTrades:
 writeJSON(w, http.StatusOK, tradesFor(c))
 return
 }

 if v, ok := scalarField(c, field); ok {
 writeJSON(w, http.StatusOK, v)
 return
 }
 if entries, ok := mappedField(c, field); ok {
 writeJSON(w, http.StatusOK, entries)
 return
 }
 writeError(w, http.StatusBadRequest, config.ErrorBadRequest, "unknown field: "+field)
	}
}

// FieldPage handles GET /{contract_id}/{field}/page/{n}: a 100-entries page
// of a map-shaped field.
func (d *Deps) FieldPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
 contractID := chi.URLParam(r, "contract_id")
 rawField := chi.URLParam(r, "field")
 n, err := strconv.Atoi(chi.URLParam(r, "n"))
 if err != nil || n < 1 {
 n = config.DefaultPage
 }

 c, field, ok := d.loadContract(w, r, contractID, rawField)
 if !ok {
 return
 }

 entries, ok := mappedField(c, field)
 if !ok {
 writeError(w, http.StatusBadRequest, config.ErrorBadRequest, "field is not paginated: "+field)
 return
 }
 writeJSON(w, http.StatusOK, page(entries, n))
	}
}

// FieldUTXO handles GET /{contract_id}/{field}/{utxo}: a per-UTXO view into a
// map-shaped field.
func (d *Deps) FieldUTXO() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
 contractID := chi.URLParam(r, "contract_id")
 rawField := chi.URLParam(r, "field")
 utxo := chi.URLParam(r, "utxo")

 c, field, ok := d.loadContract(w, r, contractID, rawField)
 if !ok {
 return
 }

 v, found := mappedEntry(c, field, utxo)
 if !found {
 writeError(w, http.StatusNotFound, config.ErrorContractNotFound, "no entry for utxo: "+utxo)
 return
 }
 writeJSON(w, http.StatusOK, v)
	}
}

// History handles GET /{contract_id}/history: one page (the `page` query
// parameter, default 1) of a contract's indexed command history.
func (d *Deps) History() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
 contractID := chi.URLParam(r, "contract_id")
 pageNum, _ := strconv.Atoi(r.URL.Query().Get("page"))
 if pageNum < 1 {
 pageNum = config.DefaultPage
 }
 hist, err := d.Index.History(contractID, pageNum)
 if err != nil {
 writeError(w, http.StatusInternalServerError, config.ErrorIO, err.Error())
 return
 }
 writeJSON(w, http.StatusOK, hist)
	}
}

// Contracts handles GET /contracts: the discovery list of every known
// contract header.
func (d *Deps) Contracts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
 ids, err := d.Store.ListContractIDs()
 if err != nil {
 writeError(w, http.StatusInternalServerError, config.ErrorIO, err.Error())
 return
 }
 headers := make([]interface{}, 0, len(ids))
 for _, id := range ids {
 h, err := d.Store.LoadHeader(id)
 if err != nil {
 d.logger().Warn("skipping unreadable header", "contract_id", id, "error", err)
 continue
 }
 if h != nil {
 headers = append(headers, h)
 }
 }
 writeJSON(w, http.StatusOK, headers)
	}
}
