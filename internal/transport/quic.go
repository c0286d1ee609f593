package transport

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"errors"
	"math/big"
	"net"
	"time"

	"github.com/quic-go/quic-go"
)

// alpnSV2 identifies the framed protocol on QUIC connections. QUIC only
// supplies the ordered byte stream; peer authentication stays with the
// noise authority certificate inside the stream.
const alpnSV2 = "sv2"

// streamConn wraps quic.Stream as net.Conn so a Session can sit on top.
type streamConn struct {
	*quic.Stream
	conn *quic.Conn
}

func (c *streamConn) LocalAddr() net.Addr  { return c.conn.LocalAddr() }
func (c *streamConn) RemoteAddr() net.Addr { return c.conn.RemoteAddr() }

// DefaultQUICClientTLS TLS for QUIC clients (InsecureSkipVerify: identity
// comes from the noise handshake, not the TLS layer).
func DefaultQUICClientTLS() *tls.Config {
	return &tls.Config{
		InsecureSkipVerify: true,
		MinVersion:         tls.VersionTLS12,
		NextProtos:         []string{alpnSV2},
	}
}

// SelfSignedQUICServerTLS generates an ephemeral in-memory certificate for
// the QUIC layer. Peers do not verify it; session authentication comes from
// the noise handshake on the stream.
func SelfSignedQUICServerTLS() (*tls.Config, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return nil, err
	}
	now := time.Now()
	template := x509.Certificate{
		SerialNumber: serial,
		Subject:      pkix.Name{CommonName: "sv2"},
		NotBefore:    now.Add(-time.Hour),
		NotAfter:     now.Add(365 * 24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}
	der, err := x509.CreateCertificate(rand.Reader, &template, &template, pub, priv)
	if err != nil {
		return nil, err
	}
	return &tls.Config{
		Certificates: []tls.Certificate{{Certificate: [][]byte{der}, PrivateKey: priv}},
		MinVersion:   tls.VersionTLS12,
		NextProtos:   []string{alpnSV2},
	}, nil
}

// DialQUIC dials addr, opens one stream, returns net.Conn ready for Client.
func DialQUIC(ctx context.Context, addr string, tlsConfig *tls.Config) (net.Conn, error) {
	if tlsConfig == nil {
		tlsConfig = DefaultQUICClientTLS()
	}
	conn, err := quic.DialAddr(ctx, addr, tlsConfig, &quic.Config{
		MaxIdleTimeout: 30 * time.Second,
	})
	if err != nil {
		return nil, err
	}
	stream, err := conn.OpenStreamSync(ctx)
	if err != nil {
		_ = conn.CloseWithError(0, "")
		return nil, err
	}
	return &streamConn{Stream: stream, conn: conn}, nil
}

// DialQUICSession dials over QUIC and runs the initiator handshake on the
// stream.
func DialQUICSession(ctx context.Context, addr string, tlsConfig *tls.Config, authorityPub []byte, timeout time.Duration) (*Session, error) {
	conn, err := DialQUIC(ctx, addr, tlsConfig)
	if err != nil {
		return nil, err
	}
	return Client(conn, authorityPub, timeout)
}

// ListenQUIC listens on addr; tlsConfig must carry Certificates.
func ListenQUIC(addr string, tlsConfig *tls.Config) (*quic.Listener, error) {
	if tlsConfig == nil {
		return nil, errors.New("transport: quic listener needs a tls config")
	}
	return quic.ListenAddr(addr, tlsConfig, &quic.Config{
		MaxIdleTimeout: 30 * time.Second,
	})
}

// AcceptQUIC accepts one connection and its first stream as a net.Conn
// ready for Server.
func AcceptQUIC(ctx context.Context, ln *quic.Listener) (net.Conn, error) {
	conn, err := ln.Accept(ctx)
	if err != nil {
		return nil, err
	}
	stream, err := conn.AcceptStream(ctx)
	if err != nil {
		_ = conn.CloseWithError(0, "")
		return nil, err
	}
	return &streamConn{Stream: stream, conn: conn}, nil
}
