// Package message: typed Stratum V2 messages and their payload codecs.
package message

import (
	"encoding/binary"
	"errors"
	"math"
)

var (
	ErrUnknownMessageType = errors.New("message: unknown (extension, message type) pair")
	ErrInvalidPayload     = errors.New("message: payload does not match schema")
)

// U256Size: fixed 32-byte field (targets, hashes).
const U256Size = 32

// writer builds a payload. Fields are fixed-width or length-prefixed
// little-endian per the SV2 binary codec; writes only fail on oversized
// variable fields, recorded in err and surfaced once by bytes().
type writer struct {
	buf []byte
	err error
}

func (w *writer) bytes() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	return w.buf, nil
}

func (w *writer) u8(v uint8)  { w.buf = append(w.buf, v) }
func (w *writer) u16(v uint16) {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}
func (w *writer) u32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}
func (w *writer) u64(v uint64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
}
func (w *writer) f32(v float32) { w.u32(math.Float32bits(v)) }
func (w *writer) boolean(v bool) {
	if v {
		w.u8(1)
	} else {
		w.u8(0)
	}
}

// u256 pads or rejects: exactly 32 bytes on the wire.
func (w *writer) u256(v []byte) {
	if len(v) > U256Size {
		w.fail()
		return
	}
	w.buf = append(w.buf, v...)
	for i := len(v); i < U256Size; i++ {
		w.buf = append(w.buf, 0)
	}
}

// str255: STR0_255, 1-byte length + UTF-8 bytes.
func (w *writer) str255(s string) {
	if len(s) > 255 {
		w.fail()
		return
	}
	w.u8(uint8(len(s)))
	w.buf = append(w.buf, s...)
}

// b255: B0_255, 1-byte length prefix.
func (w *writer) b255(v []byte) {
	if len(v) > 255 {
		w.fail()
		return
	}
	w.u8(uint8(len(v)))
	w.buf = append(w.buf, v...)
}

// b32: B0_32 (extranonce material), 1-byte length, max 32.
func (w *writer) b32(v []byte) {
	if len(v) > 32 {
		w.fail()
		return
	}
	w.u8(uint8(len(v)))
	w.buf = append(w.buf, v...)
}

// b64k: B0_64K, 2-byte LE length prefix.
func (w *writer) b64k(v []byte) {
	if len(v) > 0xffff {
		w.fail()
		return
	}
	w.u16(uint16(len(v)))
	w.buf = append(w.buf, v...)
}

// b16m: B0_16M, 3-byte LE length prefix.
func (w *writer) b16m(v []byte) {
	if len(v) > 0xffffff {
		w.fail()
		return
	}
	n := uint32(len(v))
	w.buf = append(w.buf, byte(n), byte(n>>8), byte(n>>16))
	w.buf = append(w.buf, v...)
}

// seqU256 variants: count prefix + fixed 32-byte items (merkle paths, tx ids).
func (w *writer) seqU256n255(items [][]byte) {
	if len(items) > 255 {
		w.fail()
		return
	}
	w.u8(uint8(len(items)))
	for _, it := range items {
		w.u256(it)
	}
}

func (w *writer) seqU256n64k(items [][]byte) {
	if len(items) > 0xffff {
		w.fail()
		return
	}
	w.u16(uint16(len(items)))
	for _, it := range items {
		w.u256(it)
	}
}

// seqB16Mn64k: SEQ0_64K of B0_16M blobs (raw transactions).
func (w *writer) seqB16Mn64k(items [][]byte) {
	if len(items) > 0xffff {
		w.fail()
		return
	}
	w.u16(uint16(len(items)))
	for _, it := range items {
		w.b16m(it)
	}
}

func (w *writer) seqU16n64k(items []uint16) {
	if len(items) > 0xffff {
		w.fail()
		return
	}
	w.u16(uint16(len(items)))
	for _, it := range items {
		w.u16(it)
	}
}

func (w *writer) seqU32n64k(items []uint32) {
	if len(items) > 0xffff {
		w.fail()
		return
	}
	w.u16(uint16(len(items)))
	for _, it := range items {
		w.u32(it)
	}
}

// optU32: 1-byte presence count (0 or 1) + value.
func (w *writer) optU32(v *uint32) {
	if v == nil {
		w.u8(0)
		return
	}
	w.u8(1)
	w.u32(*v)
}

func (w *writer) fail() {
	if w.err == nil {
		w.err = ErrInvalidPayload
	}
}

// reader walks a payload with a sticky error: once a read runs past the
// buffer every later read yields zero values and done() reports the error.
type reader struct {
	buf []byte
	off int
	err error
}

func newReader(payload []byte) *reader { return &reader{buf: payload} }

// done verifies the whole payload was consumed cleanly.
func (r *reader) done() error {
	if r.err != nil {
		return r.err
	}
	if r.off != len(r.buf) {
		return ErrInvalidPayload
	}
	return nil
}

func (r *reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if len(r.buf)-r.off < n {
		r.err = ErrInvalidPayload
		return nil
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

func (r *reader) u8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *reader) u16() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (r *reader) u32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *reader) u64() uint64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (r *reader) f32() float32 { return math.Float32frombits(r.u32()) }

func (r *reader) boolean() bool {
	switch r.u8() {
	case 0:
		return false
	case 1:
		return true
	default:
		r.err = ErrInvalidPayload
		return false
	}
}

func (r *reader) u256() []byte {
	b := r.take(U256Size)
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}

func (r *reader) str255() string {
	n := int(r.u8())
	b := r.take(n)
	return string(b)
}

func (r *reader) b255() []byte {
	n := int(r.u8())
	b := r.take(n)
	return append([]byte(nil), b...)
}

func (r *reader) b32() []byte {
	n := int(r.u8())
	if n > 32 {
		r.err = ErrInvalidPayload
		return nil
	}
	b := r.take(n)
	return append([]byte(nil), b...)
}

func (r *reader) b64k() []byte {
	n := int(r.u16())
	b := r.take(n)
	return append([]byte(nil), b...)
}

func (r *reader) b16m() []byte {
	b3 := r.take(3)
	if b3 == nil {
		return nil
	}
	n := int(b3[0]) | int(b3[1])<<8 | int(b3[2])<<16
	b := r.take(n)
	return append([]byte(nil), b...)
}

func (r *reader) seqU256n255() [][]byte {
	n := int(r.u8())
	items := make([][]byte, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, r.u256())
	}
	return items
}

func (r *reader) seqU256n64k() [][]byte {
	n := int(r.u16())
	items := make([][]byte, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, r.u256())
	}
	return items
}

func (r *reader) seqB16Mn64k() [][]byte {
	n := int(r.u16())
	items := make([][]byte, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, r.b16m())
	}
	return items
}

func (r *reader) seqU16n64k() []uint16 {
	n := int(r.u16())
	items := make([]uint16, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, r.u16())
	}
	return items
}

func (r *reader) seqU32n64k() []uint32 {
	n := int(r.u16())
	items := make([]uint32, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, r.u32())
	}
	return items
}

func (r *reader) optU32() *uint32 {
	switch r.u8() {
	case 0:
		return nil
	case 1:
		v := r.u32()
		return &v
	default:
		r.err = ErrInvalidPayload
		return nil
	}
}
