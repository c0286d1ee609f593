package noise

import (
	"bytes"
	"testing"
	"time"
)

func runHandshake(t *testing.T) (*Handshake, *Handshake) {
	t.Helper()
	authority, err := GenerateAuthorityKeyPair()
	if err != nil {
		t.Fatal(err)
	}
	ini, err := NewInitiator(authority.Public)
	if err != nil {
		t.Fatal(err)
	}
	res, err := NewResponder(authority, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	msg0, err := ini.Step0()
	if err != nil {
		t.Fatal(err)
	}
	if len(msg0) != InitiatorMessageSize {
		t.Fatalf("step0 size %d", len(msg0))
	}
	msg1, err := res.Step1(msg0)
	if err != nil {
		t.Fatal(err)
	}
	if len(msg1) != ResponderMessageSize {
		t.Fatalf("step1 size %d", len(msg1))
	}
	if err := ini.Step2(msg1); err != nil {
		t.Fatal(err)
	}
	return ini, res
}

func TestHandshakeSymmetry(t *testing.T) {
	ini, res := runHandshake(t)
	if ini.State() != Completed || res.State() != Completed {
		t.Fatalf("states: %v %v", ini.State(), res.State())
	}
	iSend, iRecv, err := ini.TransportKeys()
	if err != nil {
		t.Fatal(err)
	}
	rSend, rRecv, err := res.TransportKeys()
	if err != nil {
		t.Fatal(err)
	}
	if iSend != rRecv || iRecv != rSend {
		t.Fatal("directional keys not symmetric")
	}
	if iSend == iRecv {
		t.Fatal("send and receive keys must differ")
	}
	var zeroKey [KeySize]byte
	if iSend == zeroKey || iRecv == zeroKey {
		t.Fatal("derived key is zero")
	}
}

func TestHandshakeSessionsIndependent(t *testing.T) {
	a, _ := runHandshake(t)
	b, _ := runHandshake(t)
	as, _, _ := a.TransportKeys()
	bs, _, _ := b.TransportKeys()
	if as == bs {
		t.Fatal("two handshakes derived the same key")
	}
}

func TestStep2TamperedResponderMessage(t *testing.T) {
	authority, _ := GenerateAuthorityKeyPair()
	for bit := 0; bit < 8; bit++ {
		ini, _ := NewInitiator(authority.Public)
		res, _ := NewResponder(authority, time.Hour)
		msg0, _ := ini.Step0()
		msg1, err := res.Step1(msg0)
		if err != nil {
			t.Fatal(err)
		}
		// flip one bit inside the encrypted static key section
		msg1[KeySize+5] ^= 1 << bit
		if err := ini.Step2(msg1); err != ErrAuthenticationFailure {
			t.Fatalf("bit %d: err = %v", bit, err)
		}
		if ini.State() != Failed {
			t.Fatalf("bit %d: state %v", bit, ini.State())
		}
		if _, _, err := ini.TransportKeys(); err != ErrProtocolViolation {
			t.Fatalf("keys after failure: %v", err)
		}
	}
}

func TestStep2WrongAuthority(t *testing.T) {
	authority, _ := GenerateAuthorityKeyPair()
	imposter, _ := GenerateAuthorityKeyPair()
	ini, _ := NewInitiator(authority.Public)
	res, _ := NewResponder(imposter, time.Hour)
	msg0, _ := ini.Step0()
	msg1, err := res.Step1(msg0)
	if err != nil {
		t.Fatal(err)
	}
	if err := ini.Step2(msg1); err != ErrAuthenticationFailure {
		t.Fatalf("err = %v", err)
	}
}

func TestStep2ExpiredCertificate(t *testing.T) {
	authority, _ := GenerateAuthorityKeyPair()
	ini, _ := NewInitiator(authority.Public)
	res, _ := NewResponder(authority, time.Second)
	msg0, _ := ini.Step0()
	msg1, err := res.Step1(msg0)
	if err != nil {
		t.Fatal(err)
	}
	ini.now = func() time.Time { return time.Now().Add(time.Hour) }
	if err := ini.Step2(msg1); err != ErrAuthenticationFailure {
		t.Fatalf("err = %v", err)
	}
}

func TestOutOfOrderSteps(t *testing.T) {
	authority, _ := GenerateAuthorityKeyPair()

	ini, _ := NewInitiator(authority.Public)
	if err := ini.Step2(make([]byte, ResponderMessageSize)); err != ErrProtocolViolation {
		t.Fatalf("step2 before step0: %v", err)
	}

	ini2, _ := NewInitiator(authority.Public)
	if _, err := ini2.Step1(make([]byte, InitiatorMessageSize)); err != ErrProtocolViolation {
		t.Fatalf("step1 on initiator: %v", err)
	}

	res, _ := NewResponder(authority, time.Hour)
	if _, err := res.Step0(); err != ErrProtocolViolation {
		t.Fatalf("step0 on responder: %v", err)
	}

	res2, _ := NewResponder(authority, time.Hour)
	if _, err := res2.Step1(make([]byte, 10)); err != ErrProtocolViolation {
		t.Fatalf("short initiator frame: %v", err)
	}
}

func TestHandshakeTerminalAfterCompletion(t *testing.T) {
	ini, res := runHandshake(t)
	if _, err := ini.Step0(); err != ErrProtocolViolation {
		t.Fatalf("step0 after completion: %v", err)
	}
	if _, err := res.Step1(make([]byte, InitiatorMessageSize)); err != ErrProtocolViolation {
		t.Fatalf("step1 after completion: %v", err)
	}
}

func TestAbortZeroizes(t *testing.T) {
	authority, _ := GenerateAuthorityKeyPair()
	ini, _ := NewInitiator(authority.Public)
	if _, err := ini.Step0(); err != nil {
		t.Fatal(err)
	}
	eph := ini.ephemeral
	ini.Abort()
	if ini.State() != Failed {
		t.Fatalf("state %v", ini.State())
	}
	var zeroed [KeySize]byte
	if eph.Private != zeroed {
		t.Fatal("ephemeral private key not wiped")
	}
	if _, _, err := ini.TransportKeys(); err != ErrProtocolViolation {
		t.Fatalf("keys after abort: %v", err)
	}
}

func TestKeyTextEncoding(t *testing.T) {
	authority, _ := GenerateAuthorityKeyPair()
	s, err := EncodeKey(authority.Public)
	if err != nil {
		t.Fatal(err)
	}
	back, err := DecodeKey(s)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(back, authority.Public) {
		t.Fatal("key text roundtrip mismatch")
	}
	// corrupt one character
	corrupted := []byte(s)
	if corrupted[3] == '2' {
		corrupted[3] = '3'
	} else {
		corrupted[3] = '2'
	}
	if _, err := DecodeKey(string(corrupted)); err != ErrBadKey {
		t.Fatalf("corrupted key err = %v", err)
	}
	if _, err := EncodeKey([]byte{1, 2, 3}); err != ErrBadKey {
		t.Fatalf("short key err = %v", err)
	}
}

func TestCertificateRoundtrip(t *testing.T) {
	authority, _ := GenerateAuthorityKeyPair()
	static, _ := GenerateStaticKeyPair()
	cert := SignCertificate(authority, static.Public, time.Hour)
	parsed, ok := parseCertificate(cert.marshal())
	if !ok {
		t.Fatal("marshal/parse failed")
	}
	if parsed != cert {
		t.Fatalf("got %+v", parsed)
	}
	if !parsed.Verify(authority.Public, static.Public, time.Now()) {
		t.Fatal("certificate does not verify")
	}
	other, _ := GenerateStaticKeyPair()
	if parsed.Verify(authority.Public, other.Public, time.Now()) {
		t.Fatal("certificate verified for a different static key")
	}
}
