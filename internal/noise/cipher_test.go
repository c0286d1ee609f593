package noise

import (
	"bytes"
	"testing"
)

func testKey(b byte) [KeySize]byte {
	var k [KeySize]byte
	for i := range k {
		k[i] = b
	}
	return k
}

func TestCipherRoundtrip(t *testing.T) {
	enc := NewCipherState(testKey(7))
	dec := NewCipherState(testKey(7))
	for i := 0; i < 5; i++ {
		ct, err := enc.Encrypt(nil, []byte("frame payload"))
		if err != nil {
			t.Fatal(err)
		}
		pt, err := dec.Decrypt(nil, ct)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(pt, []byte("frame payload")) {
			t.Fatalf("iteration %d: got %q", i, pt)
		}
	}
}

func TestCipherNonceMonotonic(t *testing.T) {
	c := NewCipherState(testKey(1))
	prev := c.Nonce()
	for i := 0; i < 10; i++ {
		if _, err := c.Encrypt(nil, []byte{byte(i)}); err != nil {
			t.Fatal(err)
		}
		if c.Nonce() <= prev {
			t.Fatalf("nonce did not advance: %d -> %d", prev, c.Nonce())
		}
		prev = c.Nonce()
	}
}

func TestCipherDistinctNoncesDistinctCiphertexts(t *testing.T) {
	c := NewCipherState(testKey(2))
	a, _ := c.Encrypt(nil, []byte("same"))
	b, _ := c.Encrypt(nil, []byte("same"))
	if bytes.Equal(a, b) {
		t.Fatal("equal ciphertexts for consecutive nonces")
	}
}

func TestCipherTamperEveryBit(t *testing.T) {
	plaintext := []byte{0xca, 0xfe}
	for bit := 0; bit < (len(plaintext)+TagSize)*8; bit++ {
		enc := NewCipherState(testKey(3))
		dec := NewCipherState(testKey(3))
		ct, err := enc.Encrypt(nil, plaintext)
		if err != nil {
			t.Fatal(err)
		}
		ct[bit/8] ^= 1 << (bit % 8)
		if _, err := dec.Decrypt(nil, ct); err == nil {
			t.Fatalf("bit %d: tampered ciphertext accepted", bit)
		}
	}
}

func TestCipherDecryptFailureStillAdvancesNonce(t *testing.T) {
	c := NewCipherState(testKey(4))
	before := c.Nonce()
	if _, err := c.Decrypt(nil, make([]byte, TagSize+1)); err == nil {
		t.Fatal("garbage accepted")
	}
	if c.Nonce() != before+1 {
		t.Fatalf("nonce %d, want %d", c.Nonce(), before+1)
	}
}

func TestCipherZeroize(t *testing.T) {
	c := NewCipherState(testKey(5))
	c.Zeroize()
	if c.key != ([KeySize]byte{}) {
		t.Fatal("key not wiped")
	}
	if _, err := c.Encrypt(nil, []byte("x")); err == nil {
		t.Fatal("encrypt succeeded after zeroize")
	}
}
