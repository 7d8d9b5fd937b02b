package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

const (
	classCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	classCodeLength   = 6
)

var classCodePattern = regexp.MustCompile(`^[A-Z0-9]{6}$`)

// GenerateClassCode returns a random six character uppercase alphanumeric code.
func GenerateClassCode() (string, error) {
	var b strings.Builder
	limit := big.NewInt(int64(len(classCodeAlphabet)))
	for i := 0; i < classCodeLength; i++ {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("generate class code: %w", err)
		}
		b.WriteByte(classCodeAlphabet[n.Int64()])
	}
	return b.String(), nil
}

// NormalizeClassCode trims and uppercases a user-entered code.
func NormalizeClassCode(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// ValidClassCode reports whether code is six uppercase alphanumerics.
func ValidClassCode(code string) bool {
	return classCodePattern.MatchString(code)
}
