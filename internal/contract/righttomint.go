package contract

import "github.com/scl-host/sclindexer/internal/config"

// ExerciseRightToMint exercises an SCL03 minting allowance held at rtmUTXO: mints
// mintAmt new supply to receiver, and if the allowance exceeds mintAmt,
// records the remainder against changeUTXO.
func (c *Contract) ExerciseRightToMint(txid, rtmUTXO, receiver, changeUTXO string, mintAmt uint64) error {
	if c.HasApplied(txid) {
 return nil
	}
	allowance, ok := c.RightToMint[rtmUTXO]
	if !ok {
 return config.ErrUnknownUTXO
	}
	if mintAmt > allowance {
 return config.ErrInsufficientBalance
	}
	delete(c.RightToMint, rtmUTXO)
	if allowance > mintAmt && changeUTXO != "" {
 c.RightToMint[changeUTXO] = allowance - mintAmt
	}
	c.Owners[receiver] += mintAmt
	c.Supply += mintAmt
	return nil
}
