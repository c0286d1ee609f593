package message

import (
	"dev.c0redev.sv2/internal/framing"
)

// ExtensionCore: all messages defined here live in the core namespace.
const ExtensionCore uint16 = 0x0000

// Message type discriminators, SV2 protocol family numbering.
const (
	// common
	TypeSetupConnection        uint8 = 0x00
	TypeSetupConnectionSuccess uint8 = 0x01
	TypeSetupConnectionError   uint8 = 0x02
	TypeChannelEndpointChanged uint8 = 0x03
	TypeReconnect              uint8 = 0x25

	// mining
	TypeOpenStandardMiningChannel        uint8 = 0x10
	TypeOpenStandardMiningChannelSuccess uint8 = 0x11
	TypeOpenMiningChannelError           uint8 = 0x12
	TypeOpenExtendedMiningChannel        uint8 = 0x13
	TypeOpenExtendedMiningChannelSuccess uint8 = 0x14
	TypeUpdateChannel                    uint8 = 0x16
	TypeUpdateChannelError               uint8 = 0x17
	TypeCloseChannel                     uint8 = 0x18
	TypeSetExtranoncePrefix              uint8 = 0x19
	TypeSubmitSharesStandard             uint8 = 0x1a
	TypeSubmitSharesExtended             uint8 = 0x1b
	TypeSubmitSharesSuccess              uint8 = 0x1c
	TypeSubmitSharesError                uint8 = 0x1d
	TypeNewMiningJob                     uint8 = 0x1e
	TypeNewExtendedMiningJob             uint8 = 0x1f
	TypeSetNewPrevHashMining             uint8 = 0x20
	TypeSetTarget                        uint8 = 0x21
	TypeSetCustomMiningJob               uint8 = 0x22
	TypeSetCustomMiningJobSuccess        uint8 = 0x23
	TypeSetCustomMiningJobError          uint8 = 0x24
	TypeSetGroupChannel                  uint8 = 0x26

	// job declaration
	TypeAllocateMiningJobToken            uint8 = 0x50
	TypeAllocateMiningJobTokenSuccess     uint8 = 0x51
	TypeProvideMissingTransactions        uint8 = 0x55
	TypeProvideMissingTransactionsSuccess uint8 = 0x56
	TypeDeclareMiningJob                  uint8 = 0x57
	TypeDeclareMiningJobSuccess           uint8 = 0x58
	TypeDeclareMiningJobError             uint8 = 0x59
	TypePushSolution                      uint8 = 0x60

	// template distribution
	TypeCoinbaseOutputConstraints       uint8 = 0x70
	TypeNewTemplate                     uint8 = 0x71
	TypeSetNewPrevHashTemplate          uint8 = 0x72
	TypeRequestTransactionData          uint8 = 0x73
	TypeRequestTransactionDataSuccess   uint8 = 0x74
	TypeRequestTransactionDataError     uint8 = 0x75
	TypeSubmitSolution                  uint8 = 0x76
)

// Message is the closed variant set over the defined SV2 message kinds.
// Payload encoding is deterministic and schema-fixed per kind.
type Message interface {
	MessageType() uint8
	ExtensionType() uint16
	ChannelMsg() bool
	MarshalPayload() ([]byte, error)
	UnmarshalPayload([]byte) error
}

// Unknown is the fallback variant for (extension, type) pairs outside the
// registry. It preserves the raw payload so callers can apply policy
// (skip, log, or treat as a protocol violation) without losing bytes.
type Unknown struct {
	Extension uint16
	Channel   bool
	Type      uint8
	Payload   []byte
}

func (m *Unknown) MessageType() uint8    { return m.Type }
func (m *Unknown) ExtensionType() uint16 { return m.Extension }
func (m *Unknown) ChannelMsg() bool      { return m.Channel }
func (m *Unknown) MarshalPayload() ([]byte, error) {
	return append([]byte(nil), m.Payload...), nil
}
func (m *Unknown) UnmarshalPayload(p []byte) error {
	m.Payload = append([]byte(nil), p...)
	return nil
}

type registryKey struct {
	ext     uint16
	msgType uint8
}

// registry is append-only: new kinds are added, existing entries never
// change, so no existing encoding can shift.
var registry = map[registryKey]func() Message{
	{ExtensionCore, TypeSetupConnection}:        func() Message { return &SetupConnection{} },
	{ExtensionCore, TypeSetupConnectionSuccess}: func() Message { return &SetupConnectionSuccess{} },
	{ExtensionCore, TypeSetupConnectionError}:   func() Message { return &SetupConnectionError{} },
	{ExtensionCore, TypeChannelEndpointChanged}: func() Message { return &ChannelEndpointChanged{} },
	{ExtensionCore, TypeReconnect}:              func() Message { return &Reconnect{} },

	{ExtensionCore, TypeOpenStandardMiningChannel}:        func() Message { return &OpenStandardMiningChannel{} },
	{ExtensionCore, TypeOpenStandardMiningChannelSuccess}: func() Message { return &OpenStandardMiningChannelSuccess{} },
	{ExtensionCore, TypeOpenMiningChannelError}:           func() Message { return &OpenMiningChannelError{} },
	{ExtensionCore, TypeOpenExtendedMiningChannel}:        func() Message { return &OpenExtendedMiningChannel{} },
	{ExtensionCore, TypeOpenExtendedMiningChannelSuccess}: func() Message { return &OpenExtendedMiningChannelSuccess{} },
	{ExtensionCore, TypeUpdateChannel}:                    func() Message { return &UpdateChannel{} },
	{ExtensionCore, TypeUpdateChannelError}:               func() Message { return &UpdateChannelError{} },
	{ExtensionCore, TypeCloseChannel}:                     func() Message { return &CloseChannel{} },
	{ExtensionCore, TypeSetExtranoncePrefix}:              func() Message { return &SetExtranoncePrefix{} },
	{ExtensionCore, TypeSubmitSharesStandard}:             func() Message { return &SubmitSharesStandard{} },
	{ExtensionCore, TypeSubmitSharesExtended}:             func() Message { return &SubmitSharesExtended{} },
	{ExtensionCore, TypeSubmitSharesSuccess}:              func() Message { return &SubmitSharesSuccess{} },
	{ExtensionCore, TypeSubmitSharesError}:                func() Message { return &SubmitSharesError{} },
	{ExtensionCore, TypeNewMiningJob}:                     func() Message { return &NewMiningJob{} },
	{ExtensionCore, TypeNewExtendedMiningJob}:             func() Message { return &NewExtendedMiningJob{} },
	{ExtensionCore, TypeSetNewPrevHashMining}:             func() Message { return &SetNewPrevHashMining{} },
	{ExtensionCore, TypeSetTarget}:                        func() Message { return &SetTarget{} },
	{ExtensionCore, TypeSetCustomMiningJob}:               func() Message { return &SetCustomMiningJob{} },
	{ExtensionCore, TypeSetCustomMiningJobSuccess}:        func() Message { return &SetCustomMiningJobSuccess{} },
	{ExtensionCore, TypeSetCustomMiningJobError}:          func() Message { return &SetCustomMiningJobError{} },
	{ExtensionCore, TypeSetGroupChannel}:                  func() Message { return &SetGroupChannel{} },

	{ExtensionCore, TypeAllocateMiningJobToken}:            func() Message { return &AllocateMiningJobToken{} },
	{ExtensionCore, TypeAllocateMiningJobTokenSuccess}:     func() Message { return &AllocateMiningJobTokenSuccess{} },
	{ExtensionCore, TypeProvideMissingTransactions}:        func() Message { return &ProvideMissingTransactions{} },
	{ExtensionCore, TypeProvideMissingTransactionsSuccess}: func() Message { return &ProvideMissingTransactionsSuccess{} },
	{ExtensionCore, TypeDeclareMiningJob}:                  func() Message { return &DeclareMiningJob{} },
	{ExtensionCore, TypeDeclareMiningJobSuccess}:           func() Message { return &DeclareMiningJobSuccess{} },
	{ExtensionCore, TypeDeclareMiningJobError}:             func() Message { return &DeclareMiningJobError{} },
	{ExtensionCore, TypePushSolution}:                      func() Message { return &PushSolution{} },

	{ExtensionCore, TypeCoinbaseOutputConstraints}:     func() Message { return &CoinbaseOutputConstraints{} },
	{ExtensionCore, TypeNewTemplate}:                   func() Message { return &NewTemplate{} },
	{ExtensionCore, TypeSetNewPrevHashTemplate}:        func() Message { return &SetNewPrevHashTemplateDistribution{} },
	{ExtensionCore, TypeRequestTransactionData}:        func() Message { return &RequestTransactionData{} },
	{ExtensionCore, TypeRequestTransactionDataSuccess}: func() Message { return &RequestTransactionDataSuccess{} },
	{ExtensionCore, TypeRequestTransactionDataError}:   func() Message { return &RequestTransactionDataError{} },
	{ExtensionCore, TypeSubmitSolution}:                func() Message { return &SubmitSolution{} },
}

// Resolve returns a constructor for the given pair, or ErrUnknownMessageType.
func Resolve(extensionType uint16, messageType uint8) (func() Message, error) {
	ctor, ok := registry[registryKey{extensionType, messageType}]
	if !ok {
		return nil, ErrUnknownMessageType
	}
	return ctor, nil
}

// Decode resolves and parses a frame's payload into a typed message.
// Unregistered pairs land in the Unknown variant rather than an error, so
// unrecognized traffic is never misrouted or silently dropped.
func Decode(f framing.Frame) (Message, error) {
	ctor, err := Resolve(f.ExtensionType, f.MessageType)
	if err != nil {
		return &Unknown{
			Extension: f.ExtensionType,
			Channel:   f.ChannelMsg,
			Type:      f.MessageType,
			Payload:   append([]byte(nil), f.Payload...),
		}, nil
	}
	m := ctor()
	if err := m.UnmarshalPayload(f.Payload); err != nil {
		return nil, err
	}
	return m, nil
}

// Encode serializes a typed message into a frame.
func Encode(m Message) (framing.Frame, error) {
	payload, err := m.MarshalPayload()
	if err != nil {
		return framing.Frame{}, err
	}
	if len(payload) > framing.MaxPayloadSize {
		return framing.Frame{}, framing.ErrFrameTooLarge
	}
	return framing.Frame{
		ExtensionType: m.ExtensionType(),
		ChannelMsg:    m.ChannelMsg(),
		MessageType:   m.MessageType(),
		Payload:       payload,
	}, nil
}

// EncodeBytes is Encode plus frame serialization in one step.
func EncodeBytes(m Message) ([]byte, error) {
	f, err := Encode(m)
	if err != nil {
		return nil, err
	}
	return framing.Encode(f)
}
