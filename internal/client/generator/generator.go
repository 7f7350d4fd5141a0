// Package generator produces random passwords from crypto/rand.
package generator

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
)

const (
	lower   = "abcdefghijklmnopqrstuvwxyz"
	upper   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits  = "0123456789"
	symbols = "!@#$%^&*()_+-=[]{}|;:,.<>?"

	lookAlikes = "il1Lo0O"
)

const (
	DefaultLength = 12
	MaxLength     = 256
)

var (
	ErrNoCharset     = errors.New("select at least one character class")
	ErrInvalidLength = errors.New("length must be between 1 and 256")
)

type Options struct {
	Length           int
	Lower            bool
	Upper            bool
	Digits           bool
	Symbols          bool
	ExcludeLookAlike bool
}

// DefaultOptions is every class enabled at DefaultLength.
func DefaultOptions() Options {
	return Options{Length: DefaultLength, Lower: true, Upper: true, Digits: true, Symbols: true}
}

// Charset returns the alphabet selected by o.
func (o Options) Charset() string {
	var b strings.Builder
	if o.Lower {
		b.WriteString(lower)
	}
	if o.Upper {
		b.WriteString(upper)
	}
	if o.Digits {
		b.WriteString(digits)
	}
	if o.Symbols {
		b.WriteString(symbols)
	}

	chars := b.String()
	if o.ExcludeLookAlike {
		chars = strings.Map(func(r rune) rune {
			if strings.ContainsRune(lookAlikes, r) {
				return -1
			}
			return r
		}, chars)
	}
	return chars
}

// Generate returns a password drawn uniformly from o.Charset().
func Generate(o Options) (string, error) {
	if o.Length < 1 || o.Length > MaxLength {
		return "", ErrInvalidLength
	}
	chars := o.Charset()
	if chars == "" {
		return "", ErrNoCharset
	}

	max := big.NewInt(int64(len(chars)))
	out := make([]byte, o.Length)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = chars[n.Int64()]
	}
	return string(out), nil
}
