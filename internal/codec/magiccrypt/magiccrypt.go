// Package magiccrypt implements the MagicCrypt64-compatible symmetric
// cipher used to wrap LP (liquidity-pool) command payloads:
// DES in ECB mode with the key derived as the first 8 bytes of the MD5
// digest of the passphrase. This matches the on-the-wire format produced by
// the widely-deployed MagicCrypt libraries; it is not a general-purpose
// cipher choice, it's a fixed external wire format this package must
// interoperate with.
package magiccrypt

import (
	"crypto/des"
	"crypto/md5"
	"encoding/base64"
	"errors"
	"fmt"
)

var ErrInvalidCiphertext = errors.New("magiccrypt: invalid ciphertext")

func deriveKey(passphrase string) []byte {
	sum := md5.Sum([]byte(passphrase))
	return sum[:8]
}

// Encrypt returns the base64-encoded DES-ECB/PKCS7 ciphertext of plaintext
// under passphrase.
func Encrypt(passphrase, plaintext string) (string, error) {
	block, err := des.NewCipher(deriveKey(passphrase))
	if err != nil {
 return "", fmt.Errorf("magiccrypt: new cipher: %w", err)
	}
	bs := block.BlockSize()
	padded := pkcs7Pad([]byte(plaintext), bs)
	out := make([]byte, len(padded))
	for i := 0; i < len(padded); i += bs {
 block.Encrypt(out[i:i+bs], padded[i:i+bs])
	}
	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt reverses Encrypt. It returns ErrInvalidCiphertext if ciphertext is
// not valid base64, is not a multiple of the DES block size, or unpads to an
// invalid length — any of which indicate the wrong passphrase or a corrupt
// LP payload, not a recoverable condition.
func Decrypt(passphrase, ciphertextB64 string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertextB64)
	if err != nil {
 return "", fmt.Errorf("%w: %v", ErrInvalidCiphertext, err)
	}
	block, err := des.NewCipher(deriveKey(passphrase))
	if err != nil {
 return "", fmt.Errorf("magiccrypt: new cipher: %w", err)
	}
	bs := block.BlockSize()
	if len(raw) == 0 || len(raw)%bs != 0 {
 return "", fmt.Errorf("%w: ciphertext length %d not a multiple of block size %d", ErrInvalidCiphertext, len(raw), bs)
	}
	out := make([]byte, len(raw))
	for i := 0; i < len(raw); i += bs {
 block.Decrypt(out[i:i+bs], raw[i:i+bs])
	}
	unpadded, err := pkcs7Unpad(out, bs)
	if err != nil {
 return "", fmt.Errorf("%w: %v", ErrInvalidCiphertext, err)
	}
	return string(unpadded), nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+padLen)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
 padded[i] = byte(padLen)
	}
	return padded
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	n := len(data)
	if n == 0 {
 return nil, errors.New("empty data")
	}
	padLen := int(data[n-1])
	if padLen == 0 || padLen > blockSize || padLen > n {
 return nil, fmt.Errorf("invalid padding length %d", padLen)
	}
	for _, b := range data[n-padLen:] {
 if int(b) != padLen {
 return nil, errors.New("invalid padding bytes")
 }
	}
	return data[:n-padLen], nil
}
