package codec

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"

	"github.com/scl-host/sclindexer/internal/config"
)

// validateAddress checks that addr decodes as a Bitcoin address under
// either mainnet or testnet params. Payloads don't carry a network tag, so
// both are tried; rejecting addresses that are valid under neither catches
// the typo/garbage case without pinning this node to one network.
func validateAddress(addr string) error {
	if _, err := btcutil.DecodeAddress(addr, &chaincfg.MainNetParams); err == nil {
 return nil
	}
	if _, err := btcutil.DecodeAddress(addr, &chaincfg.TestNet3Params); err == nil {
 return nil
	}
	return fmt.Errorf("%w: not a valid bitcoin address: %q", config.ErrPayloadGrammar, addr)
}
