package noise

import (
	"hash"
	"io"

	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/hkdf"
)

const protocolName = "Noise_NX_25519_ChaChaPoly_BLAKE2s"

// symmetricState tracks the handshake transcript hash and chaining key.
// Every public byte on the wire is mixed into the hash, so both parties
// authenticate the exact byte sequence they exchanged.
type symmetricState struct {
	ck     [KeySize]byte // chaining key
	h      [KeySize]byte // transcript hash
	cipher *CipherState  // nil until the first DH output is mixed in
}

func newSymmetricState() *symmetricState {
	s := &symmetricState{}
	s.h = blake2s.Sum256([]byte(protocolName))
	s.ck = s.h
	return s
}

func (s *symmetricState) mixHash(data []byte) {
	buf := make([]byte, 0, len(s.h)+len(data))
	buf = append(buf, s.h[:]...)
	buf = append(buf, data...)
	s.h = blake2s.Sum256(buf)
}

// mixKey feeds DH output into the chaining key and arms a fresh cipher
// with a zero nonce.
func (s *symmetricState) mixKey(ikm []byte) error {
	var k [KeySize]byte
	if err := s.kdf2(ikm, s.ck[:], k[:]); err != nil {
		return err
	}
	if s.cipher != nil {
		s.cipher.Zeroize()
	}
	s.cipher = NewCipherState(k)
	zero(k[:])
	return nil
}

// kdf2 is the two-output HKDF over BLAKE2s with the chaining key as salt.
func (s *symmetricState) kdf2(ikm, salt []byte, out2 []byte) error {
	r := hkdf.New(newBlake2s, ikm, salt, nil)
	var ck [KeySize]byte
	if _, err := io.ReadFull(r, ck[:]); err != nil {
		return err
	}
	if _, err := io.ReadFull(r, out2); err != nil {
		return err
	}
	s.ck = ck
	zero(ck[:])
	return nil
}

func (s *symmetricState) encryptAndHash(plaintext []byte) ([]byte, error) {
	if s.cipher == nil {
		s.mixHash(plaintext)
		return plaintext, nil
	}
	ct, err := s.cipher.Encrypt(s.h[:], plaintext)
	if err != nil {
		return nil, err
	}
	s.mixHash(ct)
	return ct, nil
}

func (s *symmetricState) decryptAndHash(ciphertext []byte) ([]byte, error) {
	if s.cipher == nil {
		s.mixHash(ciphertext)
		return ciphertext, nil
	}
	pt, err := s.cipher.Decrypt(s.h[:], ciphertext)
	if err != nil {
		return nil, err
	}
	s.mixHash(ciphertext)
	return pt, nil
}

// split derives the two transport keys from the final chaining key. The
// first keys the initiator-to-responder direction.
func (s *symmetricState) split() (k1, k2 [KeySize]byte, err error) {
	r := hkdf.New(newBlake2s, nil, s.ck[:], nil)
	if _, err = io.ReadFull(r, k1[:]); err != nil {
		return
	}
	if _, err = io.ReadFull(r, k2[:]); err != nil {
		return
	}
	return
}

// zeroize wipes the chaining key and any armed handshake cipher. The
// transcript hash is not secret.
func (s *symmetricState) zeroize() {
	zero(s.ck[:])
	if s.cipher != nil {
		s.cipher.Zeroize()
		s.cipher = nil
	}
}

func newBlake2s() hash.Hash {
	h, err := blake2s.New256(nil)
	if err != nil {
		// unkeyed blake2s cannot fail
		panic(err)
	}
	return h
}
