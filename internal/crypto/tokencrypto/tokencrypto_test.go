package tokencrypto

import (
	"encoding/base64"
	"testing"
)

func TestDeriveKey_Length(t *testing.T) {
	t.Parallel()
	if got := len(DeriveKey("short secret")); got != KeyLen {
		t.Fatalf("len=%d, want=%d", got, KeyLen)
	}
	exact := "0123456789abcdef0123456789abcdef"
	if got := string(DeriveKey(exact)); got != exact {
		t.Fatalf("32-byte secret must be used as-is")
	}
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	t.Parallel()
	key := DeriveKey("server-held-secret")
	plaintext := []byte(`{"abonnement_id":"abc","numero_serie":"SN-001"}`)

	encoded, err := Encrypt(key, plaintext)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if encoded == string(plaintext) {
		t.Fatalf("ciphertext must differ from plaintext")
	}

	out, err := Decrypt(key, encoded)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if string(out) != string(plaintext) {
		t.Fatalf("round trip mismatch: %q", out)
	}
}

func TestEncrypt_NonceUnique(t *testing.T) {
	t.Parallel()
	key := DeriveKey("server-held-secret")
	a, _ := Encrypt(key, []byte("payload"))
	b, _ := Encrypt(key, []byte("payload"))
	if a == b {
		t.Fatalf("two encryptions of the same payload must differ")
	}
}

func TestDecrypt_TamperFails(t *testing.T) {
	t.Parallel()
	key := DeriveKey("server-held-secret")
	encoded, err := Encrypt(key, []byte("payload"))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	blob, _ := base64.StdEncoding.DecodeString(encoded)
	blob[len(blob)-1] ^= 0x01
	tampered := base64.StdEncoding.EncodeToString(blob)

	if _, err := Decrypt(key, tampered); err == nil {
		t.Fatalf("tampered ciphertext must fail decryption")
	}
}

func TestDecrypt_WrongKeyFails(t *testing.T) {
	t.Parallel()
	encoded, err := Encrypt(DeriveKey("key-one"), []byte("payload"))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if _, err := Decrypt(DeriveKey("key-two"), encoded); err == nil {
		t.Fatalf("wrong key must fail decryption")
	}
}

func TestDecrypt_Malformed(t *testing.T) {
	t.Parallel()
	key := DeriveKey("server-held-secret")
	for _, in := range []string{"", "not base64!!", base64.StdEncoding.EncodeToString([]byte("tiny"))} {
		if _, err := Decrypt(key, in); err == nil {
			t.Fatalf("malformed input %q must fail", in)
		}
	}
}

func TestHash_StableAndDistinct(t *testing.T) {
	t.Parallel()
	if Hash("abc") != Hash("abc") {
		t.Fatalf("hash must be deterministic")
	}
	if Hash("abc") == Hash("abd") {
		t.Fatalf("hash must change with input")
	}
	if len(Hash("abc")) != 64 {
		t.Fatalf("expected hex sha256 digest")
	}
}
