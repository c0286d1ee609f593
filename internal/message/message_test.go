package message

import (
	"bytes"
	"reflect"
	"testing"

	"dev.c0redev.sv2/internal/framing"
)

func roundtrip(t *testing.T, m Message) Message {
	t.Helper()
	f, err := Encode(m)
	if err != nil {
		t.Fatal(err)
	}
	b, err := framing.Encode(f)
	if err != nil {
		t.Fatal(err)
	}
	dec, rest, err := framing.Decode(b)
	if err != nil {
		t.Fatal(err)
	}
	if len(rest) != 0 {
		t.Fatalf("rest: %d", len(rest))
	}
	got, err := Decode(dec)
	if err != nil {
		t.Fatal(err)
	}
	return got
}

func TestSetupConnectionRoundtrip(t *testing.T) {
	m := &SetupConnection{
		Protocol:        ProtocolMining,
		MinVersion:      2,
		MaxVersion:      2,
		Flags:           0b001,
		EndpointHost:    "pool.example.com",
		EndpointPort:    34254,
		Vendor:          "Bitmain",
		HardwareVersion: "S19 Pro",
		Firmware:        "braiins-os-2024",
		DeviceID:        "device-77",
	}
	got := roundtrip(t, m)
	if !reflect.DeepEqual(got, m) {
		t.Fatalf("got %+v", got)
	}
}

func TestNewExtendedMiningJobRoundtrip(t *testing.T) {
	ntime := uint32(1700000000)
	path := [][]byte{bytes.Repeat([]byte{0x11}, 32), bytes.Repeat([]byte{0x22}, 32)}
	for _, m := range []*NewExtendedMiningJob{
		{ChannelID: 9, JobID: 4, MinNTime: &ntime, Version: 0x20000000,
			VersionRollingAllowed: true, MerklePath: path,
			CoinbaseTxPrefix: []byte{1, 2, 3}, CoinbaseTxSuffix: []byte{4, 5}},
		{ChannelID: 9, JobID: 5, MerklePath: [][]byte{},
			CoinbaseTxPrefix: []byte{}, CoinbaseTxSuffix: []byte{}},
	} {
		got := roundtrip(t, m)
		g := got.(*NewExtendedMiningJob)
		if g.JobID != m.JobID || g.VersionRollingAllowed != m.VersionRollingAllowed {
			t.Fatalf("got %+v", g)
		}
		if (g.MinNTime == nil) != (m.MinNTime == nil) {
			t.Fatal("optional min_ntime lost")
		}
		if m.MinNTime != nil && *g.MinNTime != *m.MinNTime {
			t.Fatalf("min_ntime %d", *g.MinNTime)
		}
		if len(g.MerklePath) != len(m.MerklePath) {
			t.Fatalf("merkle path %d", len(g.MerklePath))
		}
	}
}

func TestNewExtendedMiningJobChannelBitOnWire(t *testing.T) {
	f, err := Encode(&NewExtendedMiningJob{ChannelID: 1})
	if err != nil {
		t.Fatal(err)
	}
	if !f.ChannelMsg {
		t.Fatal("channel message flag not set")
	}
	b, _ := framing.Encode(f)
	if b[1]&0x80 == 0 {
		t.Fatalf("channel bit missing in header: % x", b[:6])
	}
}

func TestSubmitSharesExtendedRoundtrip(t *testing.T) {
	m := &SubmitSharesExtended{
		ChannelID: 3, SequenceNumber: 41, JobID: 7,
		Nonce: 0xdeadbeef, NTime: 1700000123, Version: 0x20000000,
		Extranonce: []byte{0xaa, 0xbb, 0xcc, 0xdd},
	}
	got := roundtrip(t, m)
	if !reflect.DeepEqual(got, m) {
		t.Fatalf("got %+v", got)
	}
}

func TestNewTemplateRoundtrip(t *testing.T) {
	m := &NewTemplate{
		TemplateID: 12345, FutureTemplate: true, Version: 0x20000000,
		CoinbaseTxVersion: 2, CoinbasePrefix: []byte{0x03, 0x01, 0x02, 0x03},
		CoinbaseTxInputSequence:  0xffffffff,
		CoinbaseTxValueRemaining: 625000000,
		CoinbaseTxOutputsCount:   1,
		CoinbaseTxOutputs:        bytes.Repeat([]byte{0x42}, 40),
		CoinbaseTxLocktime:       0,
		MerklePath:               [][]byte{bytes.Repeat([]byte{0x99}, 32)},
	}
	got := roundtrip(t, m)
	if !reflect.DeepEqual(got, m) {
		t.Fatalf("got %+v", got)
	}
}

func TestRequestTransactionDataSuccessRoundtrip(t *testing.T) {
	m := &RequestTransactionDataSuccess{
		TemplateID:      8,
		ExcessData:      []byte{1},
		TransactionList: [][]byte{bytes.Repeat([]byte{0xab}, 300), {0x01}},
	}
	got := roundtrip(t, m)
	if !reflect.DeepEqual(got, m) {
		t.Fatalf("got %+v", got)
	}
}

func TestDeclareMiningJobRoundtrip(t *testing.T) {
	m := &DeclareMiningJob{
		RequestID:        2,
		MiningJobToken:   []byte{0xde, 0xad},
		Version:          0x20000000,
		CoinbaseTxPrefix: []byte{1},
		CoinbaseTxSuffix: []byte{2},
		TxIDList:         [][]byte{bytes.Repeat([]byte{0x31}, 32)},
		ExcessData:       []byte{},
	}
	got := roundtrip(t, m)
	if !reflect.DeepEqual(got, m) {
		t.Fatalf("got %+v", got)
	}
}

func TestResolveUnknownPair(t *testing.T) {
	if _, err := Resolve(ExtensionCore, 0xfe); err != ErrUnknownMessageType {
		t.Fatalf("err = %v", err)
	}
	if _, err := Resolve(0x0042, TypeSetupConnection); err != ErrUnknownMessageType {
		t.Fatalf("foreign extension err = %v", err)
	}
}

func TestDecodeUnknownFallback(t *testing.T) {
	f := framing.Frame{ExtensionType: 0x0042, ChannelMsg: true, MessageType: 0xfe, Payload: []byte{9, 9, 9}}
	m, err := Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	u, ok := m.(*Unknown)
	if !ok {
		t.Fatalf("got %T", m)
	}
	if u.Extension != 0x0042 || u.Type != 0xfe || !u.Channel || !bytes.Equal(u.Payload, []byte{9, 9, 9}) {
		t.Fatalf("got %+v", u)
	}
	// unknown survives re-encoding untouched
	f2, err := Encode(u)
	if err != nil {
		t.Fatal(err)
	}
	if f2.ExtensionType != f.ExtensionType || f2.MessageType != f.MessageType || !bytes.Equal(f2.Payload, f.Payload) {
		t.Fatalf("re-encode: %+v", f2)
	}
}

func TestDecodeTruncatedPayload(t *testing.T) {
	m := &SubmitSharesStandard{ChannelID: 1, SequenceNumber: 2, JobID: 3, Nonce: 4, NTime: 5, Version: 6}
	f, err := Encode(m)
	if err != nil {
		t.Fatal(err)
	}
	f.Payload = f.Payload[:len(f.Payload)-1]
	if _, err := Decode(f); err != ErrInvalidPayload {
		t.Fatalf("err = %v", err)
	}
}

func TestDecodeTrailingGarbagePayload(t *testing.T) {
	m := &ChannelEndpointChanged{ChannelID: 12}
	f, err := Encode(m)
	if err != nil {
		t.Fatal(err)
	}
	f.Payload = append(f.Payload, 0x00)
	if _, err := Decode(f); err != ErrInvalidPayload {
		t.Fatalf("err = %v", err)
	}
}

func TestOversizedFieldsRejected(t *testing.T) {
	if _, err := (&SetupConnection{Vendor: string(make([]byte, 256))}).MarshalPayload(); err != ErrInvalidPayload {
		t.Fatalf("long string err = %v", err)
	}
	if _, err := (&SubmitSharesExtended{Extranonce: make([]byte, 33)}).MarshalPayload(); err != ErrInvalidPayload {
		t.Fatalf("long extranonce err = %v", err)
	}
	if _, err := (&SetTarget{MaximumTarget: make([]byte, 33)}).MarshalPayload(); err != ErrInvalidPayload {
		t.Fatalf("long target err = %v", err)
	}
}

// Wire layout is schema-fixed: a SetupConnectionSuccess must always be
// exactly 6 payload bytes, little-endian.
func TestSetupConnectionSuccessLayout(t *testing.T) {
	b, err := EncodeBytes(&SetupConnectionSuccess{UsedVersion: 2, Flags: 0x01020304})
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{
		0x00, 0x00, // extension_type
		0x01,             // msg_type
		0x06, 0x00, 0x00, // msg_length
		0x02, 0x00, // used_version LE
		0x04, 0x03, 0x02, 0x01, // flags LE
	}
	if !bytes.Equal(b, want) {
		t.Fatalf("got % x, want % x", b, want)
	}
}
