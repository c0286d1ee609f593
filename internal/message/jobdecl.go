package message

// Job declaration subprotocol messages.

type AllocateMiningJobToken struct {
	UserIdentifier string
	RequestID      uint32
}

func (m *AllocateMiningJobToken) MessageType() uint8    { return TypeAllocateMiningJobToken }
func (m *AllocateMiningJobToken) ExtensionType() uint16 { return ExtensionCore }
func (m *AllocateMiningJobToken) ChannelMsg() bool      { return false }

func (m *AllocateMiningJobToken) MarshalPayload() ([]byte, error) {
	var w writer
	w.str255(m.UserIdentifier)
	w.u32(m.RequestID)
	return w.bytes()
}

func (m *AllocateMiningJobToken) UnmarshalPayload(p []byte) error {
	r := newReader(p)
	m.UserIdentifier = r.str255()
	m.RequestID = r.u32()
	return r.done()
}

type AllocateMiningJobTokenSuccess struct {
	RequestID         uint32
	MiningJobToken    []byte
	CoinbaseTxOutputs []byte
}

func (m *AllocateMiningJobTokenSuccess) MessageType() uint8 {
	return TypeAllocateMiningJobTokenSuccess
}
func (m *AllocateMiningJobTokenSuccess) ExtensionType() uint16 { return ExtensionCore }
func (m *AllocateMiningJobTokenSuccess) ChannelMsg() bool      { return false }

func (m *AllocateMiningJobTokenSuccess) MarshalPayload() ([]byte, error) {
	var w writer
	w.u32(m.RequestID)
	w.b255(m.MiningJobToken)
	w.b64k(m.CoinbaseTxOutputs)
	return w.bytes()
}

func (m *AllocateMiningJobTokenSuccess) UnmarshalPayload(p []byte) error {
	r := newReader(p)
	m.RequestID = r.u32()
	m.MiningJobToken = r.b255()
	m.CoinbaseTxOutputs = r.b64k()
	return r.done()
}

type DeclareMiningJob struct {
	RequestID        uint32
	MiningJobToken   []byte
	Version          uint32
	CoinbaseTxPrefix []byte
	CoinbaseTxSuffix []byte
	TxIDList         [][]byte // U256 each
	ExcessData       []byte
}

func (m *DeclareMiningJob) MessageType() uint8    { return TypeDeclareMiningJob }
func (m *DeclareMiningJob) ExtensionType() uint16 { return ExtensionCore }
func (m *DeclareMiningJob) ChannelMsg() bool      { return false }

func (m *DeclareMiningJob) MarshalPayload() ([]byte, error) {
	var w writer
	w.u32(m.RequestID)
	w.b255(m.MiningJobToken)
	w.u32(m.Version)
	w.b64k(m.CoinbaseTxPrefix)
	w.b64k(m.CoinbaseTxSuffix)
	w.seqU256n64k(m.TxIDList)
	w.b64k(m.ExcessData)
	return w.bytes()
}

func (m *DeclareMiningJob) UnmarshalPayload(p []byte) error {
	r := newReader(p)
	m.RequestID = r.u32()
	m.MiningJobToken = r.b255()
	m.Version = r.u32()
	m.CoinbaseTxPrefix = r.b64k()
	m.CoinbaseTxSuffix = r.b64k()
	m.TxIDList = r.seqU256n64k()
	m.ExcessData = r.b64k()
	return r.done()
}

type DeclareMiningJobSuccess struct {
	RequestID         uint32
	NewMiningJobToken []byte
}

func (m *DeclareMiningJobSuccess) MessageType() uint8    { return TypeDeclareMiningJobSuccess }
func (m *DeclareMiningJobSuccess) ExtensionType() uint16 { return ExtensionCore }
func (m *DeclareMiningJobSuccess) ChannelMsg() bool      { return false }

func (m *DeclareMiningJobSuccess) MarshalPayload() ([]byte, error) {
	var w writer
	w.u32(m.RequestID)
	w.b255(m.NewMiningJobToken)
	return w.bytes()
}

func (m *DeclareMiningJobSuccess) UnmarshalPayload(p []byte) error {
	r := newReader(p)
	m.RequestID = r.u32()
	m.NewMiningJobToken = r.b255()
	return r.done()
}

type DeclareMiningJobError struct {
	RequestID    uint32
	ErrorCode    string
	ErrorDetails []byte
}

func (m *DeclareMiningJobError) MessageType() uint8    { return TypeDeclareMiningJobError }
func (m *DeclareMiningJobError) ExtensionType() uint16 { return ExtensionCore }
func (m *DeclareMiningJobError) ChannelMsg() bool      { return false }

func (m *DeclareMiningJobError) MarshalPayload() ([]byte, error) {
	var w writer
	w.u32(m.RequestID)
	w.str255(m.ErrorCode)
	w.b64k(m.ErrorDetails)
	return w.bytes()
}

func (m *DeclareMiningJobError) UnmarshalPayload(p []byte) error {
	r := newReader(p)
	m.RequestID = r.u32()
	m.ErrorCode = r.str255()
	m.ErrorDetails = r.b64k()
	return r.done()
}

type ProvideMissingTransactions struct {
	RequestID             uint32
	UnknownTxPositionList []uint16
}

func (m *ProvideMissingTransactions) MessageType() uint8 {
	return TypeProvideMissingTransactions
}
func (m *ProvideMissingTransactions) ExtensionType() uint16 { return ExtensionCore }
func (m *ProvideMissingTransactions) ChannelMsg() bool      { return false }

func (m *ProvideMissingTransactions) MarshalPayload() ([]byte, error) {
	var w writer
	w.u32(m.RequestID)
	w.seqU16n64k(m.UnknownTxPositionList)
	return w.bytes()
}

func (m *ProvideMissingTransactions) UnmarshalPayload(p []byte) error {
	r := newReader(p)
	m.RequestID = r.u32()
	m.UnknownTxPositionList = r.seqU16n64k()
	return r.done()
}

type ProvideMissingTransactionsSuccess struct {
	RequestID       uint32
	TransactionList [][]byte // raw txs, B0_16M each
}

func (m *ProvideMissingTransactionsSuccess) MessageType() uint8 {
	return TypeProvideMissingTransactionsSuccess
}
func (m *ProvideMissingTransactionsSuccess) ExtensionType() uint16 { return ExtensionCore }
func (m *ProvideMissingTransactionsSuccess) ChannelMsg() bool      { return false }

func (m *ProvideMissingTransactionsSuccess) MarshalPayload() ([]byte, error) {
	var w writer
	w.u32(m.RequestID)
	w.seqB16Mn64k(m.TransactionList)
	return w.bytes()
}

func (m *ProvideMissingTransactionsSuccess) UnmarshalPayload(p []byte) error {
	r := newReader(p)
	m.RequestID = r.u32()
	m.TransactionList = r.seqB16Mn64k()
	return r.done()
}

type PushSolution struct {
	Extranonce []byte
	PrevHash   []byte // U256
	Nonce      uint32
	NTime      uint32
	NBits      uint32
	Version    uint32
}

func (m *PushSolution) MessageType() uint8    { return TypePushSolution }
func (m *PushSolution) ExtensionType() uint16 { return ExtensionCore }
func (m *PushSolution) ChannelMsg() bool      { return false }

func (m *PushSolution) MarshalPayload() ([]byte, error) {
	var w writer
	w.b32(m.Extranonce)
	w.u256(m.PrevHash)
	w.u32(m.Nonce)
	w.u32(m.NTime)
	w.u32(m.NBits)
	w.u32(m.Version)
	return w.bytes()
}

func (m *PushSolution) UnmarshalPayload(p []byte) error {
	r := newReader(p)
	m.Extranonce = r.b32()
	m.PrevHash = r.u256()
	m.Nonce = r.u32()
	m.NTime = r.u32()
	m.NBits = r.u32()
	m.Version = r.u32()
	return r.done()
}
