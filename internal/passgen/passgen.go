// Package passgen builds random passwords from a configurable alphabet.
package passgen

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
)

const (
	Numbers      = "0123456789"
	LettersLower = "abcdefghijklmnopqrstuvwxyz"
	LettersUpper = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	Symbols      = "!@#$%^&*()_+-=[]{}|;:,.<>?"
	LookAlikes   = "il1Lo0O"

	MinLength     = 4
	MaxLength     = 50
	DefaultLength = 12
)

var (
	ErrEmptyAlphabet = errors.New("at least one character class must be enabled")
	ErrLength        = errors.New("length must be between 4 and 50")
)

type Options struct {
	Length            int
	IncludeNumbers    bool
	IncludeLetters    bool
	IncludeSymbols    bool
	ExcludeLookAlikes bool
}

func DefaultOptions() Options {
	return Options{
		Length:         DefaultLength,
		IncludeNumbers: true,
		IncludeLetters: true,
		IncludeSymbols: true,
	}
}

// Alphabet returns the characters a password may be drawn from.
func (o Options) Alphabet() string {
	var b strings.Builder
	if o.IncludeNumbers {
		b.WriteString(Numbers)
	}
	if o.IncludeLetters {
		b.WriteString(LettersLower)
		b.WriteString(LettersUpper)
	}
	if o.IncludeSymbols {
		b.WriteString(Symbols)
	}

	alphabet := b.String()
	if o.ExcludeLookAlikes {
		alphabet = strings.Map(func(r rune) rune {
			if strings.ContainsRune(LookAlikes, r) {
				return -1
			}
			return r
		}, alphabet)
	}
	return alphabet
}

// Generate draws each character uniformly from the alphabet using crypto/rand.
func Generate(o Options) (string, error) {
	if o.Length < MinLength || o.Length > MaxLength {
		return "", ErrLength
	}

	alphabet := o.Alphabet()
	if alphabet == "" {
		return "", ErrEmptyAlphabet
	}

	limit := big.NewInt(int64(len(alphabet)))
	out := make([]byte, o.Length)
	for i := range out {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		out[i] = alphabet[n.Int64()]
	}
	return string(out), nil
}
