// Package secret seals sensitive settings (the AI provider API key) before
// they are written to the database.
//
// WHY XChaCha20-Poly1305?
// It is an AEAD: one call encrypts AND authenticates, so a tampered value
// fails to open instead of decrypting to garbage. The X variant takes a
// 24-byte nonce, which is large enough to pick at random for every Seal
// without tracking counters.
//
// KEY DERIVATION:
// The operator configures a free-form passphrase (settings_secret). HKDF-SHA256
// stretches it into exactly the 32-byte key the cipher needs.
//
// STORED FORMAT:
//
//	v1:<base64(nonce || ciphertext || tag)>
//
// Values without the "v1:" prefix are treated as plain text, so a database
// written before a secret was configured keeps working.
package secret

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const (
	prefix = "v1:"
	info   = "datanest settings api key"
)

// ErrNoKey is returned when a sealed value is read but no secret is configured.
var ErrNoKey = errors.New("secret: sealed value found but no settings secret configured")

// Sealer seals and opens short secrets. The zero value (and New("")) is a
// pass-through: Seal returns its input unchanged.
type Sealer struct {
	key []byte
}

// New derives a sealing key from passphrase. An empty passphrase yields a
// pass-through Sealer.
func New(passphrase string) (*Sealer, error) {
	if passphrase == "" {
		return &Sealer{}, nil
	}

	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(passphrase), nil, []byte(info)), key); err != nil {
		return nil, fmt.Errorf("secret: deriving key: %w", err)
	}
	return &Sealer{key: key}, nil
}

// Enabled reports whether values are actually encrypted.
func (s *Sealer) Enabled() bool {
	return len(s.key) > 0
}

// Seal encrypts plain. The empty string stays empty so "no key" round-trips.
func (s *Sealer) Seal(plain string) (string, error) {
	if plain == "" || !s.Enabled() {
		return plain, nil
	}

	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return "", fmt.Errorf("secret: creating cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plain)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("secret: generating nonce: %w", err)
	}

	// Seal appends to nonce, giving nonce || ciphertext || tag in one slice.
	sealed := aead.Seal(nonce, nonce, []byte(plain), nil)
	return prefix + base64.RawStdEncoding.EncodeToString(sealed), nil
}

// Open reverses Seal. Values without the version prefix are returned as-is.
func (s *Sealer) Open(stored string) (string, error) {
	if !strings.HasPrefix(stored, prefix) {
		return stored, nil
	}
	if !s.Enabled() {
		return "", ErrNoKey
	}

	raw, err := base64.RawStdEncoding.DecodeString(strings.TrimPrefix(stored, prefix))
	if err != nil {
		return "", fmt.Errorf("secret: decoding: %w", err)
	}

	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return "", fmt.Errorf("secret: creating cipher: %w", err)
	}
	if len(raw) < aead.NonceSize()+aead.Overhead() {
		return "", errors.New("secret: sealed value too short")
	}

	nonce, ciphertext := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("secret: opening: %w", err)
	}
	return string(plain), nil
}
