package noise

import (
	"crypto/ed25519"
	"errors"
	"time"

	"golang.org/x/crypto/curve25519"
)

// Wire sizes of the two handshake messages.
const (
	// InitiatorMessageSize: the initiator's ephemeral public key.
	InitiatorMessageSize = KeySize
	// ResponderMessageSize: ephemeral key + encrypted static key +
	// encrypted certificate.
	ResponderMessageSize = KeySize + (KeySize + TagSize) + (CertificateSize + TagSize)
)

var (
	ErrAuthenticationFailure = errors.New("noise: authentication failure")
	ErrHandshakeTimeout      = errors.New("noise: handshake timed out")
	ErrProtocolViolation     = errors.New("noise: handshake protocol violation")
)

// Role of a handshake party.
type Role int

const (
	Initiator Role = iota
	Responder
)

// State of the handshake. Completed and Failed are terminal; a new
// connection needs a new Handshake.
type State int

const (
	Uninitiated State = iota
	SentFirstMessage
	ReceivedFirstMessage
	Completed
	Failed
)

// Handshake runs one side of the two-message exchange. It is a pure
// in-memory computation: callers move the returned byte slices over
// whatever stream they have and enforce their own timeout (surfacing
// ErrHandshakeTimeout). Not safe for concurrent use.
type Handshake struct {
	role  Role
	state State
	sym   *symmetricState

	ephemeral *StaticKeyPair

	// responder side
	static    *StaticKeyPair
	ownStatic bool
	cert      Certificate

	// initiator side
	authorityPub ed25519.PublicKey

	sendKey, recvKey [KeySize]byte

	now func() time.Time
}

// NewInitiator builds the client side. authorityPub is the 32-byte ed25519
// key the responder's certificate must verify against.
func NewInitiator(authorityPub []byte) (*Handshake, error) {
	if len(authorityPub) != ed25519.PublicKeySize {
		return nil, ErrBadKey
	}
	return &Handshake{
		role:         Initiator,
		sym:          newSymmetricState(),
		authorityPub: append(ed25519.PublicKey(nil), authorityPub...),
		now:          time.Now,
	}, nil
}

// NewResponder builds the server side from the authority keypair. A fresh
// static key is generated and certified for certValidity.
func NewResponder(authority *AuthorityKeyPair, certValidity time.Duration) (*Handshake, error) {
	static, err := GenerateStaticKeyPair()
	if err != nil {
		return nil, err
	}
	h := newResponder(static, SignCertificate(authority, static.Public, certValidity))
	h.ownStatic = true
	return h, nil
}

// NewResponderWithStatic builds the server side from a pre-certified static
// key (e.g. one persisted in the keystore). The caller keeps ownership of
// the keypair.
func NewResponderWithStatic(static *StaticKeyPair, cert Certificate) *Handshake {
	return newResponder(static, cert)
}

func newResponder(static *StaticKeyPair, cert Certificate) *Handshake {
	return &Handshake{
		role:   Responder,
		sym:    newSymmetricState(),
		static: static,
		cert:   cert,
		now:    time.Now,
	}
}

func (h *Handshake) Role() Role   { return h.role }
func (h *Handshake) State() State { return h.state }

// Step0 produces the initiator's opening message.
func (h *Handshake) Step0() ([]byte, error) {
	if h.role != Initiator || h.state != Uninitiated {
		return nil, h.fail(ErrProtocolViolation)
	}
	eph, err := GenerateStaticKeyPair()
	if err != nil {
		return nil, h.fail(err)
	}
	h.ephemeral = eph
	h.sym.mixHash(eph.Public[:])
	if _, err := h.sym.encryptAndHash(nil); err != nil {
		return nil, h.fail(err)
	}
	h.state = SentFirstMessage
	return append([]byte(nil), eph.Public[:]...), nil
}

// Step1 consumes the initiator's message and produces the responder's
// reply. On success the responder is Completed and its transport keys are
// derived.
func (h *Handshake) Step1(initiatorMsg []byte) ([]byte, error) {
	if h.role != Responder || h.state != Uninitiated {
		return nil, h.fail(ErrProtocolViolation)
	}
	if len(initiatorMsg) != InitiatorMessageSize {
		return nil, h.fail(ErrProtocolViolation)
	}
	h.state = ReceivedFirstMessage

	re := initiatorMsg
	h.sym.mixHash(re)
	if _, err := h.sym.decryptAndHash(nil); err != nil {
		return nil, h.fail(ErrAuthenticationFailure)
	}

	eph, err := GenerateStaticKeyPair()
	if err != nil {
		return nil, h.fail(err)
	}
	h.ephemeral = eph

	out := make([]byte, 0, ResponderMessageSize)
	out = append(out, eph.Public[:]...)
	h.sym.mixHash(eph.Public[:])

	ee, err := curve25519.X25519(eph.Private[:], re)
	if err != nil {
		return nil, h.fail(ErrAuthenticationFailure)
	}
	if err := h.sym.mixKey(ee); err != nil {
		return nil, h.fail(err)
	}
	zero(ee)

	sCt, err := h.sym.encryptAndHash(h.static.Public[:])
	if err != nil {
		return nil, h.fail(err)
	}
	out = append(out, sCt...)

	es, err := curve25519.X25519(h.static.Private[:], re)
	if err != nil {
		return nil, h.fail(ErrAuthenticationFailure)
	}
	if err := h.sym.mixKey(es); err != nil {
		return nil, h.fail(err)
	}
	zero(es)

	certCt, err := h.sym.encryptAndHash(h.cert.marshal())
	if err != nil {
		return nil, h.fail(err)
	}
	out = append(out, certCt...)

	if err := h.complete(); err != nil {
		return nil, err
	}
	return out, nil
}

// Step2 consumes the responder's reply on the initiator side, verifying
// the certificate. On success the initiator is Completed.
func (h *Handshake) Step2(responderMsg []byte) error {
	if h.role != Initiator || h.state != SentFirstMessage {
		return h.fail(ErrProtocolViolation)
	}
	if len(responderMsg) != ResponderMessageSize {
		return h.fail(ErrProtocolViolation)
	}

	re := responderMsg[:KeySize]
	h.sym.mixHash(re)

	ee, err := curve25519.X25519(h.ephemeral.Private[:], re)
	if err != nil {
		return h.fail(ErrAuthenticationFailure)
	}
	if err := h.sym.mixKey(ee); err != nil {
		return h.fail(err)
	}
	zero(ee)

	rs, err := h.sym.decryptAndHash(responderMsg[KeySize : KeySize+KeySize+TagSize])
	if err != nil {
		return h.fail(ErrAuthenticationFailure)
	}

	es, err := curve25519.X25519(h.ephemeral.Private[:], rs)
	if err != nil {
		return h.fail(ErrAuthenticationFailure)
	}
	if err := h.sym.mixKey(es); err != nil {
		return h.fail(err)
	}
	zero(es)

	certBytes, err := h.sym.decryptAndHash(responderMsg[KeySize+KeySize+TagSize:])
	if err != nil {
		return h.fail(ErrAuthenticationFailure)
	}
	cert, ok := parseCertificate(certBytes)
	if !ok {
		return h.fail(ErrAuthenticationFailure)
	}
	var remoteStatic [KeySize]byte
	copy(remoteStatic[:], rs)
	if !cert.Verify(h.authorityPub, remoteStatic, h.now()) {
		return h.fail(ErrAuthenticationFailure)
	}

	return h.complete()
}

// TransportKeys returns the directional keys once Completed. The
// initiator's send key equals the responder's receive key and vice versa.
func (h *Handshake) TransportKeys() (send, recv [KeySize]byte, err error) {
	if h.state != Completed {
		return send, recv, ErrProtocolViolation
	}
	return h.sendKey, h.recvKey, nil
}

// Abort cancels the handshake and zeroizes everything. Safe to call in any
// state; afterwards the handshake is Failed.
func (h *Handshake) Abort() {
	if h.state == Failed {
		return
	}
	h.wipe()
	zero(h.sendKey[:])
	zero(h.recvKey[:])
	h.state = Failed
}

func (h *Handshake) complete() error {
	k1, k2, err := h.sym.split()
	if err != nil {
		return h.fail(err)
	}
	// first split key carries initiator-to-responder traffic
	if h.role == Initiator {
		h.sendKey, h.recvKey = k1, k2
	} else {
		h.sendKey, h.recvKey = k2, k1
	}
	zero(k1[:])
	zero(k2[:])
	h.wipe()
	h.state = Completed
	return nil
}

// fail zeroizes all intermediate secrets and makes the handshake terminal.
func (h *Handshake) fail(err error) error {
	h.wipe()
	zero(h.sendKey[:])
	zero(h.recvKey[:])
	h.state = Failed
	return err
}

func (h *Handshake) wipe() {
	if h.ephemeral != nil {
		h.ephemeral.Zeroize()
	}
	if h.ownStatic && h.static != nil {
		h.static.Zeroize()
	}
	h.sym.zeroize()
}
