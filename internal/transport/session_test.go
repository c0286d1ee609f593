package transport

import (
	"bytes"
	"errors"
	"net"
	"testing"
	"time"

	"dev.c0redev.sv2/internal/framing"
	"dev.c0redev.sv2/internal/message"
	"dev.c0redev.sv2/internal/noise"
)

// pipeSessions completes a handshake over an in-memory pipe and returns
// both established sessions.
func pipeSessions(t *testing.T) (*Session, *Session) {
	t.Helper()
	authority, err := noise.GenerateAuthorityKeyPair()
	if err != nil {
		t.Fatal(err)
	}
	cConn, sConn := net.Pipe()
	type result struct {
		sess *Session
		err  error
	}
	srvCh := make(chan result, 1)
	go func() {
		sess, err := Server(sConn, authority, time.Hour, 5*time.Second)
		srvCh <- result{sess, err}
	}()
	client, err := Client(cConn, authority.Public, 5*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	srv := <-srvCh
	if srv.err != nil {
		t.Fatal(srv.err)
	}
	t.Cleanup(func() {
		client.Close()
		srv.sess.Close()
	})
	return client, srv.sess
}

func TestHandshakeAndFirstFramesBothWays(t *testing.T) {
	client, server := pipeSessions(t)

	setup := &message.SetupConnection{
		Protocol:     message.ProtocolMining,
		MinVersion:   2,
		MaxVersion:   2,
		EndpointHost: "test.example.com",
		EndpointPort: 34254,
		Vendor:       "test",
	}
	done := make(chan error, 1)
	go func() { done <- client.SendMessage(setup) }()

	got, err := server.ReceiveMessage()
	if err != nil {
		t.Fatal(err)
	}
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	sc, ok := got.(*message.SetupConnection)
	if !ok {
		t.Fatalf("got %T", got)
	}
	if sc.EndpointHost != setup.EndpointHost || sc.EndpointPort != setup.EndpointPort {
		t.Fatalf("got %+v", sc)
	}

	go func() { done <- server.SendMessage(&message.SetupConnectionSuccess{UsedVersion: 2}) }()
	reply, err := client.ReceiveMessage()
	if err != nil {
		t.Fatal(err)
	}
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if ss, ok := reply.(*message.SetupConnectionSuccess); !ok || ss.UsedVersion != 2 {
		t.Fatalf("got %#v", reply)
	}
}

func TestFramesArriveInSendOrder(t *testing.T) {
	client, server := pipeSessions(t)
	const n = 20
	go func() {
		for i := 0; i < n; i++ {
			_ = client.SendMessage(&message.SubmitSharesStandard{SequenceNumber: uint32(i)})
		}
	}()
	for i := 0; i < n; i++ {
		m, err := server.ReceiveMessage()
		if err != nil {
			t.Fatal(err)
		}
		if got := m.(*message.SubmitSharesStandard).SequenceNumber; got != uint32(i) {
			t.Fatalf("frame %d arrived with sequence %d", i, got)
		}
	}
}

func TestSendNonceStrictlyIncreases(t *testing.T) {
	client, server := pipeSessions(t)
	go func() {
		for i := 0; i < 8; i++ {
			_, _ = server.ReceiveFrame()
		}
	}()
	prev := client.SendNonce()
	for i := 0; i < 8; i++ {
		if err := client.SendFrame(framing.Frame{MessageType: 0x1a, Payload: []byte{byte(i)}}); err != nil {
			t.Fatal(err)
		}
		if client.SendNonce() <= prev {
			t.Fatalf("send %d: nonce %d not greater than %d", i, client.SendNonce(), prev)
		}
		prev = client.SendNonce()
	}
}

func TestLargeFrameChunked(t *testing.T) {
	client, server := pipeSessions(t)
	// payload large enough to need several envelopes
	payload := bytes.Repeat([]byte{0x5a}, 3*maxChunk+100)
	go func() {
		_ = client.SendFrame(framing.Frame{MessageType: 0x74, Payload: payload})
	}()
	f, err := server.ReceiveFrame()
	if err != nil {
		t.Fatal(err)
	}
	if f.MessageType != 0x74 || !bytes.Equal(f.Payload, payload) {
		t.Fatalf("chunked frame corrupted: type %x len %d", f.MessageType, len(f.Payload))
	}
}

// tamperConn flips one bit of the nth written byte.
type tamperConn struct {
	net.Conn
	n       int
	written int
	bit     byte
}

func (c *tamperConn) Write(p []byte) (int, error) {
	q := append([]byte(nil), p...)
	if c.written <= c.n && c.n < c.written+len(q) {
		q[c.n-c.written] ^= c.bit
	}
	c.written += len(q)
	return c.Conn.Write(q)
}

func TestTamperedCiphertextFatal(t *testing.T) {
	authority, _ := noise.GenerateAuthorityKeyPair()
	cConn, sConn := net.Pipe()
	// corrupt a byte well past the 170-byte handshake reply, inside the
	// first data envelope's ciphertext
	tampered := &tamperConn{Conn: sConn, n: noise.ResponderMessageSize + 5, bit: 0x10}
	srvCh := make(chan *Session, 1)
	errCh := make(chan error, 1)
	go func() {
		sess, err := Server(tampered, authority, time.Hour, 5*time.Second)
		if err != nil {
			errCh <- err
			return
		}
		srvCh <- sess
		errCh <- sess.SendMessage(&message.SetupConnectionSuccess{UsedVersion: 2})
	}()
	client, err := Client(cConn, authority.Public, 5*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()
	_, err = client.ReceiveMessage()
	if !errors.Is(err, ErrDecryptionFailure) {
		t.Fatalf("err = %v", err)
	}
	// session is poisoned, not retryable
	if _, err := client.ReceiveFrame(); !errors.Is(err, ErrTransportClosed) {
		t.Fatalf("after poison: %v", err)
	}
	if err := client.SendFrame(framing.Frame{}); !errors.Is(err, ErrTransportClosed) {
		t.Fatalf("send after poison: %v", err)
	}
	<-errCh
	if s := <-srvCh; s != nil {
		s.Close()
	}
}

func TestSendAfterClose(t *testing.T) {
	client, _ := pipeSessions(t)
	if err := client.Close(); err != nil {
		t.Fatal(err)
	}
	if err := client.SendFrame(framing.Frame{MessageType: 1}); !errors.Is(err, ErrTransportClosed) {
		t.Fatalf("err = %v", err)
	}
	if _, err := client.ReceiveFrame(); !errors.Is(err, ErrTransportClosed) {
		t.Fatalf("err = %v", err)
	}
	// double close is fine
	if err := client.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestHandshakeTimeout(t *testing.T) {
	cConn, sConn := net.Pipe()
	defer sConn.Close()
	authority, _ := noise.GenerateAuthorityKeyPair()
	// nobody answers on sConn
	_, err := Client(cConn, authority.Public, 50*time.Millisecond)
	if !errors.Is(err, noise.ErrHandshakeTimeout) {
		t.Fatalf("err = %v", err)
	}
}

func TestPeerClosedDuringReceive(t *testing.T) {
	client, server := pipeSessions(t)
	_ = server.Close()
	if _, err := client.ReceiveFrame(); !errors.Is(err, ErrTransportClosed) {
		t.Fatalf("err = %v", err)
	}
}
