package noise

import (
	"encoding/binary"
	"errors"

	"golang.org/x/crypto/chacha20poly1305"
)

// TagSize: Poly1305 authentication tag appended to every ciphertext.
const TagSize = chacha20poly1305.Overhead

var (
	errCipherOpen     = errors.New("noise: ciphertext authentication failed")
	errNonceExhausted = errors.New("noise: nonce counter exhausted")
)

// CipherState holds one direction's transport key and its monotonically
// increasing nonce counter. Not safe for concurrent use; the owning session
// serializes access. The counter is never rewound, including on decrypt
// failure, so a key/nonce pair is never reused.
type CipherState struct {
	key   [KeySize]byte
	nonce uint64
	dead  bool
}

// NewCipherState arms one transport direction with a key from a completed
// handshake split. The counter starts at zero.
func NewCipherState(key [KeySize]byte) *CipherState {
	return &CipherState{key: key}
}

// Nonce returns the counter that the next Encrypt/Decrypt will use.
func (c *CipherState) Nonce() uint64 { return c.nonce }

// Encrypt seals plaintext under the current nonce and advances the counter.
func (c *CipherState) Encrypt(ad, plaintext []byte) ([]byte, error) {
	if c.dead {
		return nil, errNonceExhausted
	}
	aead, err := chacha20poly1305.New(c.key[:])
	if err != nil {
		return nil, err
	}
	ct := aead.Seal(nil, c.nonceBytes(), plaintext, ad)
	c.advance()
	return ct, nil
}

// Decrypt opens ciphertext under the current nonce and advances the counter.
// The counter advances even on failure: a desynchronized stream is already
// unrecoverable and retrying under the same nonce must be impossible.
func (c *CipherState) Decrypt(ad, ciphertext []byte) ([]byte, error) {
	if c.dead {
		return nil, errNonceExhausted
	}
	aead, err := chacha20poly1305.New(c.key[:])
	if err != nil {
		return nil, err
	}
	pt, err := aead.Open(nil, c.nonceBytes(), ciphertext, ad)
	c.advance()
	if err != nil {
		return nil, errCipherOpen
	}
	return pt, nil
}

// nonceBytes: 96-bit ChaCha20-Poly1305 nonce, 4 zero bytes then the 64-bit
// little-endian counter.
func (c *CipherState) nonceBytes() []byte {
	var n [chacha20poly1305.NonceSize]byte
	binary.LittleEndian.PutUint64(n[4:], c.nonce)
	return n[:]
}

func (c *CipherState) advance() {
	if c.nonce == ^uint64(0) {
		c.dead = true
		c.Zeroize()
		return
	}
	c.nonce++
}

// Zeroize wipes the key. Further use fails.
func (c *CipherState) Zeroize() {
	zero(c.key[:])
	c.dead = true
}
