package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/scl-host/sclindexer/internal/config"
	"github.com/scl-host/sclindexer/internal/executor"
	"github.com/scl-host/sclindexer/internal/queue"
	"github.com/scl-host/sclindexer/internal/store"
)

// commandRequest is the POST /commands body.
type commandRequest struct {
	TxID string `json:"txid"`
	Payload string `json:"payload"`
	BidPayload string `json:"bid_payload,omitempty"` // per-bid "accept_tx_hex:fulfil_tx_hex" pairs accompanying a BID; broadcast of both is the submitter's responsibility
	ContractID string `json:"contract_id,omitempty"`
}

// relayRequest is the POST /relay_commands body: a commandRequest plus the
// shared relay key.
type relayRequest struct {
	commandRequest
	Key string `json:"key"`
}

type commandResponse struct {
	Result executor.Result `json:"result"`
}

// Commands handles POST /commands: validate-and-execute immediately; on a
// ValidationError or ChainError the request is parked in the Pending queue
// for the scheduler to retry, rather than rejected outright. On success the
// accepted command is relayed to every configured peer (best-effort).
func (d *Deps) Commands() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
 var req commandRequest
 if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
 writeError(w, http.StatusBadRequest, config.ErrorBadRequest, "invalid request body: "+err.Error())
 return
 }

 result, err := d.acceptCommand(r, req)
 if err != nil {
 writeCommandError(w, err)
 return
 }

 writeJSON(w, http.StatusOK, commandResponse{Result: result})
	}
}

// RelayCommands handles POST /relay_commands: identical acceptance path,
// gated on the shared relay key matching this node's configured key.
func (d *Deps) RelayCommands() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
 var req relayRequest
 if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
 writeError(w, http.StatusBadRequest, config.ErrorBadRequest, "invalid request body: "+err.Error())
 return
 }
 if req.Key == "" || req.Key != d.RTCfg.Config().Key {
 writeError(w, http.StatusForbidden, config.ErrorRelayKeyMismatch, "relay key mismatch")
 return
 }

 result, err := d.acceptCommand(r, req.commandRequest)
 if err != nil {
 writeCommandError(w, err)
 return
 }
 writeJSON(w, http.StatusOK, commandResponse{Result: result})
	}
}

// acceptCommand runs the shared validate-execute-enqueue-relay path for both
// /commands and /relay_commands.
func (d *Deps) acceptCommand(r *http.Request, req commandRequest) (executor.Result, error) {
	execReq := executor.Request{TxID: req.TxID, Payload: req.Payload, BidPayload: req.BidPayload}
	if d.RTCfg.IsLP(req.ContractID) {
 execReq.LPContractID = req.ContractID
	}

	result, err := d.Exec.Execute(r.Context(), execReq)
	switch {
	case err == nil:
 if err := d.Store.AppendBackup(store.BackupEntry{TxID: req.TxID, Payload: req.Payload, Pending: !result.Confirmed, Timestamp: time.Now()}); err != nil {
 d.logger().Warn("failed to append backup entry", "txid", req.TxID, "error", err)
 }
 d.relay(req)
 return result, nil

	case errors.Is(err, config.ErrPayloadGrammar):
 return executor.Result{}, err

	case errors.Is(err, config.ErrChainUnavailable),
 errors.Is(err, config.ErrCommitmentMismatch),
 errors.Is(err, config.ErrNotConfirmed),
 errors.Is(err, config.ErrDecryptionFailed):
 item := queue.Item{TxID: req.TxID, Payload: req.Payload, BidPayload: req.BidPayload, ContractID: req.ContractID, LPContractID: execReq.LPContractID, EnqueuedAt: time.Now()}
 if _, qerr := d.Queues.Pending.Enqueue(item); qerr != nil {
 d.logger().Error("failed to enqueue pending command", "txid", req.TxID, "error", qerr)
 }
 return executor.Result{}, err

	default:
 if ferr := d.Store.AppendFailure(store.FailureEntry{TxID: req.TxID, ContractID: req.ContractID, Payload: req.Payload, Reason: err.Error(), Timestamp: time.Now()}); ferr != nil {
 d.logger().Warn("failed to append failure entry", "txid", req.TxID, "error", ferr)
 }
 return executor.Result{}, err
	}
}

// relay forwards an accepted command to every configured peer except this
// node, best-effort. Failures are logged, never surfaced to the
// submitter — relay is not on the command's success path.
func (d *Deps) relay(req commandRequest) {
	if len(d.Hosts) == 0 {
 return
	}
	body, err := json.Marshal(relayRequest{commandRequest: req, Key: d.RelayKey})
	if err != nil {
 d.logger().Warn("failed to marshal relay body", "txid", req.TxID, "error", err)
 return
	}
	client := &http.Client{Timeout: 10 * time.Second}
	for _, host := range d.Hosts {
 if host == "" || host == d.SelfIP {
 continue
 }
 go func(host string) {
 resp, err := client.Post(host+"/relay_commands", "application/json", bytes.NewReader(body))
 if err != nil {
 d.logger().Warn("relay to peer failed", "host", host, "txid", req.TxID, "error", err)
 return
 }
 resp.Body.Close()
 }(host)
	}
}
