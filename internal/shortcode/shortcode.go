package shortcode

import (
	"fmt"
	"regexp"

	gonanoid "github.com/jaevor/go-nanoid"
)

// Alphabet is the 62-symbol set short codes are drawn from.
const Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// DefaultLength gives 62^6 possible codes, enough that random collisions
// stay negligible for a single-process store.
const DefaultLength = 6

var codePattern = regexp.MustCompile(`^[a-zA-Z0-9]{3,20}$`)

// Generator produces random alphanumeric short codes. It gives no
// uniqueness guarantee on its own; callers retry against the store.
type Generator struct {
	newCode func() string
}

// NewGenerator creates a generator for codes of the given length.
// Non-positive lengths fall back to DefaultLength.
func NewGenerator(length int) (*Generator, error) {
	if length <= 0 {
		length = DefaultLength
	}

	newCode, err := gonanoid.CustomASCII(Alphabet, length)
	if err != nil {
		return nil, fmt.Errorf("failed to build code generator: %w", err)
	}

	return &Generator{newCode: newCode}, nil
}

// Generate returns a fresh random code.
func (g *Generator) Generate() string {
	return g.newCode()
}

// IsValidFormat reports whether code is 3-20 alphanumeric characters.
func IsValidFormat(code string) bool {
	return codePattern.MatchString(code)
}
