package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
)

var ErrCipherTextTooShort = errors.New("cipher text too short")

// Vault seals small payloads, such as signed download links, with AES-GCM.
// Output is URL safe base64.
type Vault struct {
	key []byte
}

// New expects a 16, 24 or 32 byte key.
func New(key []byte) Vault {
	return Vault{
		key: key,
	}
}

func (vault Vault) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(vault.key)
	if err != nil {
		return nil, fmt.Errorf("vault key: %w", err)
	}

	return cipher.NewGCM(block)
}

func (vault Vault) Encrypt(plainText []byte) ([]byte, error) {
	aead, err := vault.aead()
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	sealed := aead.Seal(nonce, nonce, plainText, nil)

	return []byte(base64.RawURLEncoding.EncodeToString(sealed)), nil
}

func (vault Vault) Decrypt(encoded []byte) ([]byte, error) {
	sealed, err := base64.RawURLEncoding.DecodeString(string(encoded))
	if err != nil {
		return nil, err
	}

	aead, err := vault.aead()
	if err != nil {
		return nil, err
	}

	if len(sealed) < aead.NonceSize() {
		return nil, ErrCipherTextTooShort
	}

	nonce, cipherText := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]

	return aead.Open(nil, nonce, cipherText, nil)
}
