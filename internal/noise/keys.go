// Package noise: the authenticated key-exchange engine securing framed
// connections. NX pattern over X25519 with ChaCha20-Poly1305 and BLAKE2s;
// the responder's static key is certified by an ed25519 authority key.
package noise

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"io"

	"github.com/btcsuite/btcd/btcutil/base58"
	"golang.org/x/crypto/curve25519"
)

// KeySize: X25519 and ed25519 public keys are 32 bytes.
const KeySize = 32

var ErrBadKey = errors.New("noise: bad key length or encoding")

// authority key version prefix for the base58 text form (2 bytes, then the
// 32-byte key, then a 4-byte double-SHA256 checksum).
var keyVersionPrefix = [2]byte{0x01, 0x00}

// StaticKeyPair is an X25519 keypair. Private halves are zeroized when the
// owning handshake finishes.
type StaticKeyPair struct {
	Private [KeySize]byte
	Public  [KeySize]byte
}

// GenerateStaticKeyPair creates a responder static X25519 keypair.
func GenerateStaticKeyPair() (*StaticKeyPair, error) {
	var kp StaticKeyPair
	if _, err := io.ReadFull(rand.Reader, kp.Private[:]); err != nil {
		return nil, err
	}
	pub, err := curve25519.X25519(kp.Private[:], curve25519.Basepoint)
	if err != nil {
		return nil, err
	}
	copy(kp.Public[:], pub)
	return &kp, nil
}

// Zeroize wipes the private half.
func (kp *StaticKeyPair) Zeroize() {
	zero(kp.Private[:])
}

// AuthorityKeyPair signs responder certificates.
type AuthorityKeyPair struct {
	Public  ed25519.PublicKey
	Private ed25519.PrivateKey
}

// GenerateAuthorityKeyPair creates a new certificate authority keypair.
func GenerateAuthorityKeyPair() (*AuthorityKeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return &AuthorityKeyPair{Public: pub, Private: priv}, nil
}

// EncodeKey renders a 32-byte key in the base58 text form used for
// authority keys: version prefix + key + checksum.
func EncodeKey(key []byte) (string, error) {
	if len(key) != KeySize {
		return "", ErrBadKey
	}
	buf := make([]byte, 0, 2+KeySize+4)
	buf = append(buf, keyVersionPrefix[:]...)
	buf = append(buf, key...)
	sum := checksum(buf)
	buf = append(buf, sum[:]...)
	return base58.Encode(buf), nil
}

// DecodeKey parses the base58 text form back to the raw 32-byte key.
func DecodeKey(s string) ([]byte, error) {
	raw := base58.Decode(s)
	if len(raw) != 2+KeySize+4 {
		return nil, ErrBadKey
	}
	body, sum := raw[:2+KeySize], raw[2+KeySize:]
	want := checksum(body)
	if sum[0] != want[0] || sum[1] != want[1] || sum[2] != want[2] || sum[3] != want[3] {
		return nil, ErrBadKey
	}
	return append([]byte(nil), body[2:]...), nil
}

func checksum(b []byte) [4]byte {
	first := sha256.Sum256(b)
	second := sha256.Sum256(first[:])
	var out [4]byte
	copy(out[:], second[:4])
	return out
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
