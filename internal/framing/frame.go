// Package framing: Stratum V2 binary frame codec (header + payload).
package framing

import (
	"encoding/binary"
	"errors"
)

// HeaderSize: 2 (extension_type) + 1 (msg_type) + 3 (msg_length) bytes.
const HeaderSize = 6

// MaxPayloadSize: msg_length is u24.
const MaxPayloadSize = 1<<24 - 1

// channelMsgBit: top bit of extension_type marks a channel-scoped message.
const channelMsgBit = 0x8000

var (
	ErrFrameTooLarge   = errors.New("framing: payload exceeds u24 length")
	ErrIncompleteFrame = errors.New("framing: incomplete frame, need more bytes")
	ErrMalformedHeader = errors.New("framing: malformed frame header")
)

// Frame: one wire unit. ExtensionType carries only the low 15 bits;
// the channel flag is split out.
type Frame struct {
	ExtensionType uint16
	ChannelMsg    bool
	MessageType   uint8
	Payload       []byte
}

// Encode serializes the frame: 6-byte header (little-endian fields) + payload.
func Encode(f Frame) ([]byte, error) {
	if len(f.Payload) > MaxPayloadSize {
		return nil, ErrFrameTooLarge
	}
	ext := f.ExtensionType &^ channelMsgBit
	if f.ChannelMsg {
		ext |= channelMsgBit
	}
	out := make([]byte, HeaderSize+len(f.Payload))
	binary.LittleEndian.PutUint16(out[0:2], ext)
	out[2] = f.MessageType
	putUint24(out[3:6], uint32(len(f.Payload)))
	copy(out[HeaderSize:], f.Payload)
	return out, nil
}

// Decode parses one frame from the front of buf and returns the unread
// remainder. Pure: buf is never mutated, so ErrIncompleteFrame is
// non-destructive and the caller can retry with more bytes appended.
func Decode(buf []byte) (Frame, []byte, error) {
	if len(buf) < HeaderSize {
		return Frame{}, buf, ErrIncompleteFrame
	}
	ext := binary.LittleEndian.Uint16(buf[0:2])
	length := uint24(buf[3:6])
	if len(buf)-HeaderSize < int(length) {
		return Frame{}, buf, ErrIncompleteFrame
	}
	f := Frame{
		ExtensionType: ext &^ channelMsgBit,
		ChannelMsg:    ext&channelMsgBit != 0,
		MessageType:   buf[2],
		Payload:       append([]byte(nil), buf[HeaderSize:HeaderSize+int(length)]...),
	}
	return f, buf[HeaderSize+int(length):], nil
}

// DecodeComplete parses a buffer known to hold exactly one whole frame
// (e.g. one decrypted transport unit). A buffer too short for the fixed
// header is malformed here, not incomplete, and trailing garbage after the
// declared payload is rejected.
func DecodeComplete(buf []byte) (Frame, error) {
	if len(buf) < HeaderSize {
		return Frame{}, ErrMalformedHeader
	}
	f, rest, err := Decode(buf)
	if err != nil {
		return Frame{}, err
	}
	if len(rest) != 0 {
		return Frame{}, ErrMalformedHeader
	}
	return f, nil
}

func putUint24(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
}

func uint24(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
}
