package transport

import (
	"errors"
	"io"
	"net"
	"time"

	"dev.c0redev.sv2/internal/noise"
)

// Client runs the initiator handshake over conn and returns an established
// session. authorityPub is the responder authority's 32-byte ed25519 key.
// timeout > 0 bounds the whole exchange; expiry surfaces as
// noise.ErrHandshakeTimeout and the connection is closed.
func Client(conn net.Conn, authorityPub []byte, timeout time.Duration) (*Session, error) {
	hs, err := noise.NewInitiator(authorityPub)
	if err != nil {
		return nil, err
	}
	return run(conn, hs, timeout, func() error {
		msg0, err := hs.Step0()
		if err != nil {
			return err
		}
		if _, err := conn.Write(msg0); err != nil {
			return err
		}
		msg1 := make([]byte, noise.ResponderMessageSize)
		if _, err := io.ReadFull(conn, msg1); err != nil {
			return err
		}
		return hs.Step2(msg1)
	})
}

// Server runs the responder handshake over conn with a freshly certified
// static key.
func Server(conn net.Conn, authority *noise.AuthorityKeyPair, certValidity, timeout time.Duration) (*Session, error) {
	hs, err := noise.NewResponder(authority, certValidity)
	if err != nil {
		return nil, err
	}
	return serve(conn, hs, timeout)
}

// ServerWithStatic runs the responder handshake with a pre-certified static
// key, e.g. one loaded from the keystore.
func ServerWithStatic(conn net.Conn, static *noise.StaticKeyPair, cert noise.Certificate, timeout time.Duration) (*Session, error) {
	return serve(conn, noise.NewResponderWithStatic(static, cert), timeout)
}

func serve(conn net.Conn, hs *noise.Handshake, timeout time.Duration) (*Session, error) {
	return run(conn, hs, timeout, func() error {
		msg0 := make([]byte, noise.InitiatorMessageSize)
		if _, err := io.ReadFull(conn, msg0); err != nil {
			return err
		}
		msg1, err := hs.Step1(msg0)
		if err != nil {
			return err
		}
		_, err = conn.Write(msg1)
		return err
	})
}

func run(conn net.Conn, hs *noise.Handshake, timeout time.Duration, exchange func() error) (*Session, error) {
	if timeout > 0 {
		if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
			hs.Abort()
			return nil, err
		}
	}
	if err := exchange(); err != nil {
		hs.Abort()
		_ = conn.Close()
		return nil, timeoutErr(err)
	}
	sendKey, recvKey, err := hs.TransportKeys()
	if err != nil {
		hs.Abort()
		_ = conn.Close()
		return nil, err
	}
	// the handshake holds its own key copies; wipe them now that the
	// session owns the cipher states
	hs.Abort()
	if timeout > 0 {
		if err := conn.SetDeadline(time.Time{}); err != nil {
			_ = conn.Close()
			return nil, err
		}
	}
	return NewSession(conn, sendKey, recvKey), nil
}

func timeoutErr(err error) error {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return noise.ErrHandshakeTimeout
	}
	return err
}
