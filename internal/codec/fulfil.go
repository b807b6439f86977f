package codec

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/wire"

	"github.com/scl-host/sclindexer/internal/config"
)

// FulfilTxID computes a BID entry's bid_id: the txid of its accompanying,
// unbroadcast fulfil transaction, supplied as raw hex alongside the BID
// command. Deriving bid_id this way (rather than from the BID command's own
// txid) keeps bid resolution deterministic across peers even when a listing
// attracts more than one open bid.
func FulfilTxID(rawHex string) (string, error) {
	raw, err := hex.DecodeString(rawHex)
	if err != nil {
 return "", fmt.Errorf("%w: bid fulfil-tx is not valid hex: %v", config.ErrPayloadGrammar, err)
	}
	var msgTx wire.MsgTx
	if err := msgTx.Deserialize(bytes.NewReader(raw)); err != nil {
 return "", fmt.Errorf("%w: bid fulfil-tx does not decode: %v", config.ErrPayloadGrammar, err)
	}
	return msgTx.TxHash().String(), nil
}
