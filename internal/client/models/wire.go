package models

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/cryptox"
)

// WireEnvelope is an envelope in transit: base64 ciphertext and nonce. It is
// the request body for create/update and the item shape of backup files.
type WireEnvelope struct {
	Data string `json:"data"`
	IV   string `json:"iv"`
}

func NewWireEnvelope(env cryptox.Envelope) WireEnvelope {
	return WireEnvelope{
		Data: base64.StdEncoding.EncodeToString(env.Ciphertext),
		IV:   base64.StdEncoding.EncodeToString(env.Nonce),
	}
}

// Envelope decodes w. Undecodable fields cannot be authenticated and are
// reported as common.ErrAuthenticationFailure.
func (w WireEnvelope) Envelope() (cryptox.Envelope, error) {
	ct, err := base64.StdEncoding.DecodeString(w.Data)
	if err != nil {
		return cryptox.Envelope{}, fmt.Errorf("%w: data: %v", common.ErrAuthenticationFailure, err)
	}
	nonce, err := base64.StdEncoding.DecodeString(w.IV)
	if err != nil {
		return cryptox.Envelope{}, fmt.Errorf("%w: iv: %v", common.ErrAuthenticationFailure, err)
	}
	return cryptox.Envelope{Ciphertext: ct, Nonce: nonce}, nil
}

// RemoteRecord is a VaultRecord as returned by the server.
type RemoteRecord struct {
	ID        string    `json:"_id"`
	Data      string    `json:"data"`
	IV        string    `json:"iv"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (r RemoteRecord) Wire() WireEnvelope {
	return WireEnvelope{Data: r.Data, IV: r.IV}
}

// User is the identity returned by the session check.
type User struct {
	ID    string `json:"_id"`
	Email string `json:"email"`
}

// ImportResult counts the outcome of merging a backup.
type ImportResult struct {
	Imported int   `json:"imported"`
	Skipped  int   `json:"skipped"`
	Failed   int   `json:"failed"`
	FailedAt []int `json:"failedAt,omitempty"`
}
