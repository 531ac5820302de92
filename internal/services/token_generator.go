package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// GenerateTokenKey generates a random numeric token key of the given length.
// Digits are drawn uniformly, so leading zeros are as likely as anything
// else. We use this formatting to allow leading 0s.
func GenerateTokenKey(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("token key length must be positive, got %d", length)
	}

	digits := make([]byte, length)
	for i := 0; i < length; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate random digit: %w", err)
		}
		digits[i] = byte('0' + num.Int64())
	}

	return string(digits), nil
}
