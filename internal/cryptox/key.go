package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"github.com/dmitrijs2005/passvault/internal/common"
)

// KeyHandle is an imported data-encryption key. The zero value and nil are
// both invalid; only ImportKey produces usable handles.
type KeyHandle struct {
	raw  []byte
	aead cipher.AEAD
}

// ImportKey turns 32 bytes of key material into a KeyHandle. The bytes are
// copied; the caller may wipe its own slice afterwards. Any other length is
// reported as common.ErrKeyCorrupt: there is no derived or padded fallback.
func ImportKey(raw []byte) (*KeyHandle, error) {
	if len(raw) != common.DEKSize {
		return nil, fmt.Errorf("%w: want %d bytes, got %d", common.ErrKeyCorrupt, common.DEKSize, len(raw))
	}

	k := make([]byte, len(raw))
	copy(k, raw)
	lockMemory(k)

	block, err := aes.NewCipher(k)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrKeyCorrupt, err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrKeyCorrupt, err)
	}

	return &KeyHandle{raw: k, aead: aead}, nil
}

// Destroy wipes the key bytes. The handle is unusable afterwards.
func (k *KeyHandle) Destroy() {
	if k == nil || k.raw == nil {
		return
	}
	common.WipeByteArray(k.raw)
	unlockMemory(k.raw)
	k.raw = nil
	k.aead = nil
}

func (k *KeyHandle) cipher() (cipher.AEAD, error) {
	if k == nil || k.aead == nil {
		return nil, common.ErrKeyInvalid
	}
	return k.aead, nil
}

// String never prints key material.
func (k *KeyHandle) String() string { return "KeyHandle(redacted)" }
