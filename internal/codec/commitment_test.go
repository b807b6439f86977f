package codec

import "testing"

func TestVerifyCommitment_MatchIgnoresCaseAndTrailingNewline(t *testing.T) {
	payload := "{abcd1234:TRANSFER[u1],[u2(100)]}"
	hex := CommitmentHex(payload)

	if err := VerifyCommitment(payload+"\n", hex); err != nil {
 t.Fatalf("VerifyCommitment with trailing newline error = %v", err)
	}
	if err := VerifyCommitment(payload, upper(hex)); err != nil {
 t.Fatalf("VerifyCommitment with uppercase hex error = %v", err)
	}
}

func TestVerifyCommitment_Mismatch(t *testing.T) {
	payload := "{abcd1234:TRANSFER[u1],[u2(100)]}"
	if err := VerifyCommitment(payload, "deadbeef"); err == nil {
 t.Fatalf("expected commitment mismatch error")
	}
}

func upper(s string) string {
	b := []byte(s)
	for i, c := range b {
 if c >= 'a' && c <= 'z' {
 b[i] = c - 32
 }
	}
	return string(b)
}
