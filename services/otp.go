package services

import (
	"crypto/rand"
	"math/big"
)

// GenerateRandomCode returns length decimal digits drawn from crypto/rand.
func GenerateRandomCode(length int) string {
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			// Fallback to 0 in the unlikely event of entropy failure
			code[i] = '0'
			continue
		}
		code[i] = byte('0' + n.Int64())
	}
	return string(code)
}
