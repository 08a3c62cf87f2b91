package codec

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
)

const (
	// minSecretLength matches the AES-256 key size so short passphrases are refused.
	minSecretLength = 32
	saltSize        = 16
	keySize         = 32
	tagSize         = sha256.Size
	tokenParts      = 3
)

// Codec turns values into confidential, authenticated token strings and back.
// A Codec is safe for concurrent use.
type Codec struct {
	secret []byte
	params KDFParams
	rand   io.Reader
}

// New creates a Codec keyed by the long-term secret.
func New(secret string, opts ...Option) (*Codec, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	if len(secret) < minSecretLength {
		return nil, fmt.Errorf("%w: got %d chars, need at least %d",
			ErrSecretTooShort, len(secret), minSecretLength)
	}

	c := &Codec{
		secret: []byte(secret),
		params: DefaultKDFParams(),
		rand:   rand.Reader,
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.params.validate(); err != nil {
		return nil, fmt.Errorf("%w: time=%d memory=%dKiB threads=%d",
			err, c.params.Time, c.params.MemoryKiB, c.params.Threads)
	}

	return c, nil
}

// Encode serializes v to JSON and seals it into a token of the form
//
//	["<hex ciphertext||tag>","<base64 salt>","<base64 iv>"]
//
// Every call draws a fresh salt and IV, so equal values never produce equal tokens.
// Errors are limited to JSON marshalling of v and entropy failure.
func (c *Codec) Encode(v any) (string, error) {
	plain, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("codec: marshal payload: %w", err)
	}

	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(c.rand, salt); err != nil {
		return "", errors.Join(ErrEntropy, err)
	}
	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(c.rand, iv); err != nil {
		return "", errors.Join(ErrEntropy, err)
	}

	encKey, macKey := c.deriveKeys(salt)

	block, err := aes.NewCipher(encKey)
	if err != nil {
		return "", fmt.Errorf("codec: creating cipher: %w", err)
	}

	padded := pad(plain)
	sealed := make([]byte, len(padded), len(padded)+tagSize)
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(sealed, padded)
	sealed = append(sealed, sign(macKey, salt, iv, sealed)...)

	out, err := json.Marshal([tokenParts]string{
		hex.EncodeToString(sealed),
		base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(iv),
	})
	if err != nil {
		return "", fmt.Errorf("codec: marshal token: %w", err)
	}
	return string(out), nil
}

// Decode opens a token produced by Encode and unmarshals the payload into v.
// Any failure yields ErrDecodeFailure.
func (c *Codec) Decode(token string, v any) error {
	plain, err := c.open(token)
	if err != nil {
		return ErrDecodeFailure
	}
	if err := json.Unmarshal(plain, v); err != nil {
		return ErrDecodeFailure
	}
	return nil
}

func (c *Codec) open(token string) ([]byte, error) {
	var parts []string
	if err := json.Unmarshal([]byte(token), &parts); err != nil {
		return nil, err
	}
	if len(parts) != tokenParts {
		return nil, errInvalidStructure
	}

	sealed, err := decodeHex(parts[0])
	if err != nil {
		return nil, err
	}
	salt, err := decodeBase64(parts[1])
	if err != nil {
		return nil, err
	}
	iv, err := decodeBase64(parts[2])
	if err != nil {
		return nil, err
	}

	if len(salt) != saltSize || len(iv) != aes.BlockSize {
		return nil, errInvalidStructure
	}
	ctLen := len(sealed) - tagSize
	if ctLen < aes.BlockSize || ctLen%aes.BlockSize != 0 {
		return nil, errInvalidStructure
	}
	ciphertext, tag := sealed[:ctLen], sealed[ctLen:]

	encKey, macKey := c.deriveKeys(salt)
	if !hmac.Equal(tag, sign(macKey, salt, iv, ciphertext)) {
		return nil, errInvalidStructure
	}

	block, err := aes.NewCipher(encKey)
	if err != nil {
		return nil, err
	}
	plain := make([]byte, ctLen)
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, ciphertext)

	return unpad(plain)
}

// deriveKeys stretches the secret with the per-token salt into an AES-256 key
// and an HMAC-SHA256 key.
func (c *Codec) deriveKeys(salt []byte) (encKey, macKey []byte) {
	km := argon2.IDKey(c.secret, salt, c.params.Time, c.params.MemoryKiB, c.params.Threads, 2*keySize)
	return km[:keySize], km[keySize:]
}

func sign(macKey, salt, iv, ciphertext []byte) []byte {
	mac := hmac.New(sha256.New, macKey)
	mac.Write(salt)
	mac.Write(iv)
	mac.Write(ciphertext)
	return mac.Sum(nil)
}

var errInvalidStructure = errors.New("invalid token structure")

// pad applies PKCS#7 padding to a whole number of AES blocks.
func pad(b []byte) []byte {
	n := aes.BlockSize - len(b)%aes.BlockSize
	return append(bytes.Clone(b), bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(b []byte) ([]byte, error) {
	if len(b) == 0 || len(b)%aes.BlockSize != 0 {
		return nil, errInvalidStructure
	}
	n := int(b[len(b)-1])
	if n == 0 || n > aes.BlockSize {
		return nil, errInvalidStructure
	}
	for _, p := range b[len(b)-n:] {
		if int(p) != n {
			return nil, errInvalidStructure
		}
	}
	return b[:len(b)-n], nil
}

// decodeHex accepts only the lowercase form Encode produces, so that every
// distinct string maps to distinct bytes.
func decodeHex(s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if hex.EncodeToString(b) != s {
		return nil, errInvalidStructure
	}
	return b, nil
}

func decodeBase64(s string) ([]byte, error) {
	b, err := base64.StdEncoding.Strict().DecodeString(s)
	if err != nil {
		return nil, err
	}
	if base64.StdEncoding.EncodeToString(b) != s {
		return nil, errInvalidStructure
	}
	return b, nil
}
