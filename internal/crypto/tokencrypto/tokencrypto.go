// Package tokencrypto seals and opens the encrypted payloads carried by
// sirène activation tokens.
package tokencrypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/chacha20poly1305"
)

// KeyLen is the required key length in bytes.
const KeyLen = chacha20poly1305.KeySize

var (
	ErrKeyLength  = errors.New("tokencrypto: key must be 32 bytes")
	ErrCiphertext = errors.New("tokencrypto: ciphertext malformed or corrupted")
)

// DeriveKey turns the configured secret into a fixed-length key. A secret of
// exactly KeyLen bytes is used as-is, anything else is hashed down.
func DeriveKey(secret string) []byte {
	if len(secret) == KeyLen {
		return []byte(secret)
	}
	sum := sha256.Sum256([]byte(secret))
	return sum[:]
}

// Encrypt seals plaintext with XChaCha20-Poly1305 under a random nonce and
// returns nonce||ciphertext encoded as base64.
func Encrypt(key, plaintext []byte) (string, error) {
	if len(key) != KeyLen {
		return "", ErrKeyLength
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	out := make([]byte, 0, len(nonce)+len(plaintext)+aead.Overhead())
	out = append(out, nonce...)
	out = append(out, aead.Seal(nil, nonce, plaintext, nil)...)
	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt opens a base64 nonce||ciphertext blob produced by Encrypt. Any
// tampering with the ciphertext fails authentication.
func Decrypt(key []byte, encoded string) ([]byte, error) {
	if len(key) != KeyLen {
		return nil, ErrKeyLength
	}
	blob, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrCiphertext
	}
	if len(blob) < chacha20poly1305.NonceSizeX {
		return nil, ErrCiphertext
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	nonce := blob[:chacha20poly1305.NonceSizeX]
	ct := blob[chacha20poly1305.NonceSizeX:]
	plaintext, err := aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return nil, ErrCiphertext
	}
	return plaintext, nil
}

// Hash returns the hex-encoded SHA-256 digest of the encoded ciphertext,
// used for fast equality checks without decrypting.
func Hash(encoded string) string {
	sum := sha256.Sum256([]byte(encoded))
	return hex.EncodeToString(sum[:])
}
