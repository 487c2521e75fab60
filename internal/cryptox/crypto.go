// Package cryptox seals small secrets (stored tokens) with AES-GCM under a
// key derived from a user-supplied secret with argon2id.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"

	"github.com/parceltrack/console/internal/common"
	"golang.org/x/crypto/argon2"
)

// KeySize is the derived key length (AES-256).
const KeySize = 32

// ErrSealedTooShort is returned by Open when the input cannot even hold
// a nonce.
var ErrSealedTooShort = errors.New("sealed data too short")

// DeriveKey stretches secret with salt into a KeySize-byte AES key.
func DeriveKey(secret []byte, salt []byte) []byte {
	return argon2.IDKey(secret, salt, 1, 64*1024, 4, KeySize)
}

// Seal encrypts plaintext with AES-GCM. A fresh random nonce is generated
// for every call and prepended to the ciphertext.
func Seal(plaintext, key []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := common.GenerateRandByteArray(aead.NonceSize())
	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Open reverses Seal. Tampered data or a wrong key yields an error.
func Open(sealed, key []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	if len(sealed) < aead.NonceSize() {
		return nil, ErrSealedTooShort
	}
	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]

	return aead.Open(nil, nonce, ciphertext, nil)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
