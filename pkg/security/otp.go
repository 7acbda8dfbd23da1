package security

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"
)

// GenerateOTP produces a zero-padded numeric one-time code of the given length.
func GenerateOTP(length int) (string, error) {
	if length <= 0 || length > 10 {
		return "", fmt.Errorf("invalid otp length %d", length)
	}

	max := big.NewInt(1)
	for i := 0; i < length; i++ {
		max.Mul(max, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%0*d", length, n), nil
}

// HashOTP returns the hex SHA-256 digest stored in place of the raw code.
func HashOTP(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

// VerifyOTP compares a submitted code against the stored digest in constant time.
func VerifyOTP(code, storedDigest string) bool {
	computed := HashOTP(code)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(storedDigest)) == 1
}
