package noise

import (
	"crypto/ed25519"
	"encoding/binary"
	"time"
)

// CertificateVersion of the signature noise message layout.
const CertificateVersion = 0

// CertificateSize: version u16 + valid_from u32 + not_valid_after u32 +
// 64-byte ed25519 signature.
const CertificateSize = 2 + 4 + 4 + ed25519.SignatureSize

// Certificate binds a responder static key to the authority key for a
// validity window. It rides encrypted inside the second handshake message,
// so only the authenticated peer ever sees it.
type Certificate struct {
	Version       uint16
	ValidFrom     uint32
	NotValidAfter uint32
	Signature     [ed25519.SignatureSize]byte
}

// SignCertificate issues a certificate over staticPub valid from now for
// the given duration.
func SignCertificate(authority *AuthorityKeyPair, staticPub [KeySize]byte, validity time.Duration) Certificate {
	now := time.Now()
	c := Certificate{
		Version:       CertificateVersion,
		ValidFrom:     uint32(now.Unix()),
		NotValidAfter: uint32(now.Add(validity).Unix()),
	}
	sig := ed25519.Sign(authority.Private, c.signedPayload(staticPub))
	copy(c.Signature[:], sig)
	return c
}

// Verify checks the authority signature and the validity window at the
// given instant.
func (c Certificate) Verify(authorityPub ed25519.PublicKey, staticPub [KeySize]byte, now time.Time) bool {
	if c.Version != CertificateVersion {
		return false
	}
	t := uint32(now.Unix())
	if t < c.ValidFrom || t > c.NotValidAfter {
		return false
	}
	return ed25519.Verify(authorityPub, c.signedPayload(staticPub), c.Signature[:])
}

// signedPayload: the authority signs the window fields plus the static key
// itself, so a certificate cannot be replayed for a different key.
func (c Certificate) signedPayload(staticPub [KeySize]byte) []byte {
	buf := make([]byte, 0, 2+4+4+KeySize)
	buf = binary.LittleEndian.AppendUint16(buf, c.Version)
	buf = binary.LittleEndian.AppendUint32(buf, c.ValidFrom)
	buf = binary.LittleEndian.AppendUint32(buf, c.NotValidAfter)
	buf = append(buf, staticPub[:]...)
	return buf
}

func (c Certificate) marshal() []byte {
	buf := make([]byte, 0, CertificateSize)
	buf = binary.LittleEndian.AppendUint16(buf, c.Version)
	buf = binary.LittleEndian.AppendUint32(buf, c.ValidFrom)
	buf = binary.LittleEndian.AppendUint32(buf, c.NotValidAfter)
	buf = append(buf, c.Signature[:]...)
	return buf
}

func parseCertificate(b []byte) (Certificate, bool) {
	if len(b) != CertificateSize {
		return Certificate{}, false
	}
	var c Certificate
	c.Version = binary.LittleEndian.Uint16(b[0:2])
	c.ValidFrom = binary.LittleEndian.Uint32(b[2:6])
	c.NotValidAfter = binary.LittleEndian.Uint32(b[6:10])
	copy(c.Signature[:], b[10:])
	return c, true
}
