package message

// Protocol discriminators carried in SetupConnection.
const (
	ProtocolMining               = 0
	ProtocolJobDeclaration       = 1
	ProtocolTemplateDistribution = 2
)

// SetupConnection: first message on every connection, version/flag negotiation.
type SetupConnection struct {
	Protocol        uint8
	MinVersion      uint16
	MaxVersion      uint16
	Flags           uint32
	EndpointHost    string
	EndpointPort    uint16
	Vendor          string
	HardwareVersion string
	Firmware        string
	DeviceID        string
}

func (m *SetupConnection) MessageType() uint8     { return TypeSetupConnection }
func (m *SetupConnection) ExtensionType() uint16  { return ExtensionCore }
func (m *SetupConnection) ChannelMsg() bool       { return false }

func (m *SetupConnection) MarshalPayload() ([]byte, error) {
	var w writer
	w.u8(m.Protocol)
	w.u16(m.MinVersion)
	w.u16(m.MaxVersion)
	w.u32(m.Flags)
	w.str255(m.EndpointHost)
	w.u16(m.EndpointPort)
	w.str255(m.Vendor)
	w.str255(m.HardwareVersion)
	w.str255(m.Firmware)
	w.str255(m.DeviceID)
	return w.bytes()
}

func (m *SetupConnection) UnmarshalPayload(p []byte) error {
	r := newReader(p)
	m.Protocol = r.u8()
	m.MinVersion = r.u16()
	m.MaxVersion = r.u16()
	m.Flags = r.u32()
	m.EndpointHost = r.str255()
	m.EndpointPort = r.u16()
	m.Vendor = r.str255()
	m.HardwareVersion = r.str255()
	m.Firmware = r.str255()
	m.DeviceID = r.str255()
	return r.done()
}

type SetupConnectionSuccess struct {
	UsedVersion uint16
	Flags       uint32
}

func (m *SetupConnectionSuccess) MessageType() uint8    { return TypeSetupConnectionSuccess }
func (m *SetupConnectionSuccess) ExtensionType() uint16 { return ExtensionCore }
func (m *SetupConnectionSuccess) ChannelMsg() bool      { return false }

func (m *SetupConnectionSuccess) MarshalPayload() ([]byte, error) {
	var w writer
	w.u16(m.UsedVersion)
	w.u32(m.Flags)
	return w.bytes()
}

func (m *SetupConnectionSuccess) UnmarshalPayload(p []byte) error {
	r := newReader(p)
	m.UsedVersion = r.u16()
	m.Flags = r.u32()
	return r.done()
}

type SetupConnectionError struct {
	Flags     uint32
	ErrorCode string
}

func (m *SetupConnectionError) MessageType() uint8    { return TypeSetupConnectionError }
func (m *SetupConnectionError) ExtensionType() uint16 { return ExtensionCore }
func (m *SetupConnectionError) ChannelMsg() bool      { return false }

func (m *SetupConnectionError) MarshalPayload() ([]byte, error) {
	var w writer
	w.u32(m.Flags)
	w.str255(m.ErrorCode)
	return w.bytes()
}

func (m *SetupConnectionError) UnmarshalPayload(p []byte) error {
	r := newReader(p)
	m.Flags = r.u32()
	m.ErrorCode = r.str255()
	return r.done()
}

type ChannelEndpointChanged struct {
	ChannelID uint32
}

func (m *ChannelEndpointChanged) MessageType() uint8    { return TypeChannelEndpointChanged }
func (m *ChannelEndpointChanged) ExtensionType() uint16 { return ExtensionCore }
func (m *ChannelEndpointChanged) ChannelMsg() bool      { return true }

func (m *ChannelEndpointChanged) MarshalPayload() ([]byte, error) {
	var w writer
	w.u32(m.ChannelID)
	return w.bytes()
}

func (m *ChannelEndpointChanged) UnmarshalPayload(p []byte) error {
	r := newReader(p)
	m.ChannelID = r.u32()
	return r.done()
}

type Reconnect struct {
	NewHost string
	NewPort uint16
}

func (m *Reconnect) MessageType() uint8    { return TypeReconnect }
func (m *Reconnect) ExtensionType() uint16 { return ExtensionCore }
func (m *Reconnect) ChannelMsg() bool      { return false }

func (m *Reconnect) MarshalPayload() ([]byte, error) {
	var w writer
	w.str255(m.NewHost)
	w.u16(m.NewPort)
	return w.bytes()
}

func (m *Reconnect) UnmarshalPayload(p []byte) error {
	r := newReader(p)
	m.NewHost = r.str255()
	m.NewPort = r.u16()
	return r.done()
}
