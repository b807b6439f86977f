package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/scl-host/sclindexer/internal/config"
)

type consolidateRequest struct {
	TxID string `json:"txid"`
	ContractID string `json:"contract_id"`
}

// Consolidate handles POST /consolidate: rebind a contract's
// balance after tokens moved in a plain transaction with no OP_RETURN.
func (d *Deps) Consolidate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
 var req consolidateRequest
 if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
 writeError(w, http.StatusBadRequest, config.ErrorBadRequest, "invalid request body: "+err.Error())
 return
 }

 result, err := d.Exec.Consolidate(r.Context(), req.TxID, req.ContractID)
 if err != nil {
 writeCommandError(w, err)
 return
 }
 writeJSON(w, http.StatusOK, commandResponse{Result: result})
	}
}
