// Package transport: encrypted Stratum V2 sessions over an ordered byte
// stream (TCP, QUIC stream, in-memory pipe).
package transport

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"dev.c0redev.sv2/internal/framing"
	"dev.c0redev.sv2/internal/message"
	"dev.c0redev.sv2/internal/noise"
)

var (
	ErrTransportClosed   = errors.New("transport: session closed")
	ErrDecryptionFailure = errors.New("transport: decryption failure, session torn down")
)

// Envelope: 2-byte LE ciphertext length, then ciphertext + tag. Frames
// larger than one envelope are split at maxChunk and reassembled in strict
// arrival order on the far side.
const (
	maxCiphertext = 1<<16 - 1
	maxChunk      = maxCiphertext - noise.TagSize
)

// Session owns the two directional cipher states of one established
// connection. Nonces advance on every envelope; a failed decryption
// poisons the session permanently, since a desynchronized nonce cannot be
// recovered. Not safe for concurrent use: callers issuing Send or Receive
// from multiple goroutines must serialize externally.
type Session struct {
	conn io.ReadWriteCloser
	send *noise.CipherState
	recv *noise.CipherState

	parser framing.Parser
	closed bool
}

// NewSession wraps conn with the directional keys derived from a completed
// handshake.
func NewSession(conn io.ReadWriteCloser, sendKey, recvKey [noise.KeySize]byte) *Session {
	return &Session{
		conn: conn,
		send: noise.NewCipherState(sendKey),
		recv: noise.NewCipherState(recvKey),
	}
}

// SendNonce exposes the send counter (monotonicity checks, debugging).
func (s *Session) SendNonce() uint64 { return s.send.Nonce() }

// SendFrameBytes encrypts and writes one serialized frame.
func (s *Session) SendFrameBytes(frameBytes []byte) error {
	if s.closed {
		return ErrTransportClosed
	}
	for off := 0; off < len(frameBytes) || off == 0; off += maxChunk {
		end := off + maxChunk
		if end > len(frameBytes) {
			end = len(frameBytes)
		}
		ct, err := s.send.Encrypt(nil, frameBytes[off:end])
		if err != nil {
			s.teardown()
			return err
		}
		var hdr [2]byte
		binary.LittleEndian.PutUint16(hdr[:], uint16(len(ct)))
		if _, err := s.conn.Write(hdr[:]); err != nil {
			s.teardown()
			return fmt.Errorf("%w: %v", ErrTransportClosed, err)
		}
		if _, err := s.conn.Write(ct); err != nil {
			s.teardown()
			return fmt.Errorf("%w: %v", ErrTransportClosed, err)
		}
		if end == len(frameBytes) {
			break
		}
	}
	return nil
}

// SendFrame encodes and sends a frame.
func (s *Session) SendFrame(f framing.Frame) error {
	b, err := framing.Encode(f)
	if err != nil {
		return err
	}
	return s.SendFrameBytes(b)
}

// SendMessage encodes and sends a typed message.
func (s *Session) SendMessage(m message.Message) error {
	b, err := message.EncodeBytes(m)
	if err != nil {
		return err
	}
	return s.SendFrameBytes(b)
}

// ReceiveFrame reads envelopes until one whole frame is decrypted and
// parsed. ErrDecryptionFailure is fatal: the session is torn down and all
// key material wiped before returning.
func (s *Session) ReceiveFrame() (framing.Frame, error) {
	for {
		f, err := s.parser.Next()
		if err == nil {
			return f, nil
		}
		if err != framing.ErrIncompleteFrame {
			return framing.Frame{}, err
		}
		pt, err := s.readEnvelope()
		if err != nil {
			return framing.Frame{}, err
		}
		s.parser.Feed(pt)
	}
}

// ReceiveMessage is ReceiveFrame plus registry decoding.
func (s *Session) ReceiveMessage() (message.Message, error) {
	f, err := s.ReceiveFrame()
	if err != nil {
		return nil, err
	}
	return message.Decode(f)
}

func (s *Session) readEnvelope() ([]byte, error) {
	if s.closed {
		return nil, ErrTransportClosed
	}
	var hdr [2]byte
	if _, err := io.ReadFull(s.conn, hdr[:]); err != nil {
		s.teardown()
		return nil, fmt.Errorf("%w: %v", ErrTransportClosed, err)
	}
	n := int(binary.LittleEndian.Uint16(hdr[:]))
	if n < noise.TagSize {
		s.teardown()
		return nil, ErrDecryptionFailure
	}
	ct := make([]byte, n)
	if _, err := io.ReadFull(s.conn, ct); err != nil {
		s.teardown()
		return nil, fmt.Errorf("%w: %v", ErrTransportClosed, err)
	}
	pt, err := s.recv.Decrypt(nil, ct)
	if err != nil {
		s.teardown()
		return nil, ErrDecryptionFailure
	}
	return pt, nil
}

// Close tears the session down and zeroizes both cipher states. Safe to
// call more than once.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.teardown()
	return nil
}

func (s *Session) teardown() {
	s.closed = true
	s.send.Zeroize()
	s.recv.Zeroize()
	_ = s.conn.Close()
}
