package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
)

const referenceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomString returns a random string of length n drawn from A-Z0-9.
func RandomString(n int) string {
	var sb strings.Builder
	sb.Grow(n)
	max := big.NewInt(int64(len(referenceAlphabet)))
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the OS entropy source is broken
			idx = big.NewInt(int64(i % len(referenceAlphabet)))
		}
		sb.WriteByte(referenceAlphabet[idx.Int64()])
	}
	return sb.String()
}

// RandomDigits returns a random numeric code of length n, zero padded.
func RandomDigits(n int) string {
	limit := big.NewInt(1)
	for i := 0; i < n; i++ {
		limit.Mul(limit, big.NewInt(10))
	}
	v, err := rand.Int(rand.Reader, limit)
	if err != nil {
		v = big.NewInt(0)
	}
	return fmt.Sprintf("%0*d", n, v)
}

// GenerateReference builds a dated business reference such as
// OM-20250131-X7K2QD or TXN-20250131-9F3A21BC.
func GenerateReference(prefix string, randomLen int) string {
	return fmt.Sprintf("%s-%s-%s", prefix, time.Now().Format("20060102"), RandomString(randomLen))
}

// FormatMontant renders an amount in francs with thousands separators.
func FormatMontant(montant float64) string {
	whole := int64(montant)
	s := fmt.Sprintf("%d", whole)
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ' ')
		}
		out = append(out, c)
	}
	return string(out) + " FCFA"
}
