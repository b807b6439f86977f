package handlers

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// addressGroup is one BTC address and every UTXO it sent or received in a
// transaction, the shape `transfer_details` groups by.
type addressGroup struct {
	Address string `json:"address"`
	UTXOs []string `json:"utxos"`
}

type transferDetails struct {
	TxID string `json:"txid"`
	Senders []addressGroup `json:"senders"`
	Receivers []addressGroup `json:"receivers"`
}

// TransferDetails handles GET /transfer_details/{txid}: resolves every
// involved UTXO to its BTC address and groups senders/receivers by address,
// one occurrence per UTXO, not amount-weighted.
func (d *Deps) TransferDetails() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
 txid := chi.URLParam(r, "txid")

 tx, err := d.Chain.GetTransaction(r.Context(), txid, false)
 if err != nil {
 writeCommandError(w, err)
 return
 }

 senders := map[string][]string{}
 for _, v := range tx.Vin {
 if v.Prevout == nil || v.Prevout.Address == "" {
 continue
 }
 utxo := v.TxID + ":" + strconv.FormatUint(uint64(v.Vout), 10)
 senders[v.Prevout.Address] = append(senders[v.Prevout.Address], utxo)
 }

 receivers := map[string][]string{}
 for i, v := range tx.Vout {
 if v.Address == "" {
 continue
 }
 utxo := txid + ":" + strconv.Itoa(i)
 receivers[v.Address] = append(receivers[v.Address], utxo)
 }

 writeJSON(w, http.StatusOK, transferDetails{
 TxID: txid,
 Senders: groupedSorted(senders),
 Receivers: groupedSorted(receivers),
 })
	}
}

func groupedSorted(m map[string][]string) []addressGroup {
	addrs := make([]string, 0, len(m))
	for a := range m {
 addrs = append(addrs, a)
	}
	sort.Strings(addrs)
	out := make([]addressGroup, 0, len(addrs))
	for _, a := range addrs {
 out = append(out, addressGroup{Address: a, UTXOs: m[a]})
	}
	return out
}

