// Package cryptox implements the credential protection used for the Notion
// integration token: a key derived from a user passphrase with Argon2id, and
// AES-GCM for the sealed value stored in the config file.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"fmt"

	"github.com/promptkeeper/promptkeeper/internal/common"
	"github.com/promptkeeper/promptkeeper/internal/shared"
	"golang.org/x/crypto/argon2"
)

// SaltSize is the number of random bytes generated for a new salt.
const SaltSize = 16

// DeriveKey derives a 32-byte AES key from a passphrase and salt using
// Argon2id. The same parameters must be used for sealing and opening.
func DeriveKey(passphrase []byte, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, 1, 64*1024, 4, 32)
}

// SealToken encrypts token with a key derived from passphrase and a fresh
// random salt. The returned sealed value is base64(nonce || ciphertext); the
// salt is returned base64-encoded so both can be stored as plain config
// strings. The derived key is wiped before returning.
func SealToken(token string, passphrase []byte) (sealed string, salt string, err error) {
	rawSalt := shared.GenerateRandByteArray(SaltSize)

	key := DeriveKey(passphrase, rawSalt)
	defer shared.WipeByteArray(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", "", err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", "", err
	}

	nonce := shared.GenerateRandByteArray(aesgcm.NonceSize())
	ciphertext := aesgcm.Seal(nil, nonce, []byte(token), nil)

	out := make([]byte, 0, len(nonce)+len(ciphertext))
	out = append(out, nonce...)
	out = append(out, ciphertext...)

	return base64.StdEncoding.EncodeToString(out),
		base64.StdEncoding.EncodeToString(rawSalt), nil
}

// OpenToken reverses SealToken. A wrong passphrase (or a tampered sealed
// value) yields common.ErrBadPassphrase.
func OpenToken(sealed string, salt string, passphrase []byte) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("decoding sealed token: %w", err)
	}
	rawSalt, err := base64.StdEncoding.DecodeString(salt)
	if err != nil {
		return "", fmt.Errorf("decoding salt: %w", err)
	}

	key := DeriveKey(passphrase, rawSalt)
	defer shared.WipeByteArray(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	if len(raw) < aesgcm.NonceSize() {
		return "", common.ErrBadPassphrase
	}
	nonce, ciphertext := raw[:aesgcm.NonceSize()], raw[aesgcm.NonceSize():]

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", common.ErrBadPassphrase
	}
	return string(plaintext), nil
}
