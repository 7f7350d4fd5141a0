// Package cryptox is the envelope engine: authenticated encryption of
// structured records under the local data-encryption key.
//
// Records are serialized to JSON (struct field order is stable) and sealed
// with AES-256-GCM under a fresh 96-bit random nonce per call.
package cryptox

import (
	"bytes"
	"crypto/rand"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/passvault/internal/common"
)

// NonceSize is the GCM nonce length in bytes.
const NonceSize = 12

// Envelope is one sealed record.
type Envelope struct {
	Ciphertext []byte
	Nonce      []byte
}

// Validator is implemented by record types that check their own schema
// after decoding.
type Validator interface {
	Validate() error
}

// Seal encrypts plaintext under key with a new random nonce.
func Seal(key *KeyHandle, plaintext []byte) (Envelope, error) {
	aead, err := key.cipher()
	if err != nil {
		return Envelope{}, err
	}

	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return Envelope{}, fmt.Errorf("nonce generation: %w", err)
	}

	return Envelope{Ciphertext: aead.Seal(nil, nonce, plaintext, nil), Nonce: nonce}, nil
}

// Open authenticates and decrypts env. Any failure (tampered ciphertext,
// wrong key, wrong or odd-sized nonce) is the same ErrAuthenticationFailure.
func Open(key *KeyHandle, env Envelope) ([]byte, error) {
	aead, err := key.cipher()
	if err != nil {
		return nil, err
	}
	if len(env.Nonce) != NonceSize {
		return nil, common.ErrAuthenticationFailure
	}

	plaintext, err := aead.Open(nil, env.Nonce, env.Ciphertext, nil)
	if err != nil {
		return nil, common.ErrAuthenticationFailure
	}
	return plaintext, nil
}

// EncryptRecord serializes record to JSON and seals it.
func EncryptRecord(key *KeyHandle, record any) (Envelope, error) {
	if _, err := key.cipher(); err != nil {
		return Envelope{}, err
	}

	plaintext, err := json.Marshal(record)
	if err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", common.ErrMalformedRecord, err)
	}
	defer common.WipeByteArray(plaintext)

	return Seal(key, plaintext)
}

// DecryptRecord opens env and decodes it into out. Unknown fields, trailing
// data and Validate failures are ErrMalformedRecord.
func DecryptRecord(key *KeyHandle, env Envelope, out Validator) error {
	plaintext, err := Open(key, env)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(plaintext)

	dec := json.NewDecoder(bytes.NewReader(plaintext))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%w: %v", common.ErrMalformedRecord, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data", common.ErrMalformedRecord)
	}
	if err := out.Validate(); err != nil {
		return fmt.Errorf("%w: %v", common.ErrMalformedRecord, err)
	}
	return nil
}
