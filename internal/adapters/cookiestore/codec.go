// Package cookiestore persists browser session records through cookies.
package cookiestore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Versioned prefix to allow future key/algorithm rotations without invalidating the format.
const cookiePrefixV1 = "v1."

// ErrInvalidCookie is returned when a cookie value fails authentication or decoding.
var ErrInvalidCookie = errors.New("invalid session cookie")

// Codec seals values with AES-256-GCM so cookies are both confidential and tamper-evident.
// The cookie name is bound as additional data, so a value cannot be replayed under another name.
type Codec struct {
	aead cipher.AEAD
}

// NewCodec derives a 32-byte key from secret.
func NewCodec(secret string) (*Codec, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("session secret is required")
	}
	key := sha256.Sum256([]byte(secret))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Codec{aead: gcm}, nil
}

// Seal encodes v as JSON and encrypts it for the cookie called name.
func (c *Codec) Seal(name string, v any) (string, error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode cookie: %w", err)
	}
	nonce := make([]byte, c.aead.NonceSize())
	if _, readErr := io.ReadFull(rand.Reader, nonce); readErr != nil {
		return "", readErr
	}
	ct := c.aead.Seal(nil, nonce, plaintext, []byte(name))
	// Store nonce||ciphertext
	buf := make([]byte, 0, len(nonce)+len(ct))
	buf = append(buf, nonce...)
	buf = append(buf, ct...)
	return cookiePrefixV1 + base64.RawURLEncoding.EncodeToString(buf), nil
}

// Open decrypts a value produced by Seal into v.
func (c *Codec) Open(name, value string, v any) error {
	if !strings.HasPrefix(value, cookiePrefixV1) {
		return ErrInvalidCookie
	}
	raw, err := base64.RawURLEncoding.DecodeString(value[len(cookiePrefixV1):])
	if err != nil {
		return ErrInvalidCookie
	}
	ns := c.aead.NonceSize()
	if len(raw) < ns {
		return ErrInvalidCookie
	}
	plaintext, err := c.aead.Open(nil, raw[:ns], raw[ns:], []byte(name))
	if err != nil {
		return ErrInvalidCookie
	}
	if err := json.Unmarshal(plaintext, v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCookie, err)
	}
	return nil
}
