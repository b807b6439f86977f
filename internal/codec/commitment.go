package codec

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/scl-host/sclindexer/internal/config"
)

// TrimPayload normalizes a raw payload string the same way the committing
// side does before hashing: trailing CR/LF stripped, nothing else touched —
// the commitment is over the exact bytes of the payload text.
func TrimPayload(raw string) string {
	return strings.TrimRight(raw, "\r\n")
}

// CommitmentHex returns the lowercase hex sha256 digest of payload, the form
// expected to appear verbatim in the OP_RETURN output of a non-LP command
// transaction.
func CommitmentHex(payload string) string {
	sum := sha256.Sum256([]byte(TrimPayload(payload)))
	return hex.EncodeToString(sum[:])
}

// VerifyCommitment reports whether opReturnHex matches the sha256 commitment
// of payload, returning config.ErrCommitmentMismatch when it does not.
func VerifyCommitment(payload, opReturnHex string) error {
	want := CommitmentHex(payload)
	if !strings.EqualFold(want, strings.TrimSpace(opReturnHex)) {
 return config.ErrCommitmentMismatch
	}
	return nil
}
