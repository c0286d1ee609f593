package message

// Template distribution subprotocol messages.

type CoinbaseOutputConstraints struct {
	CoinbaseOutputMaxAdditionalSize   uint32
	CoinbaseOutputMaxAdditionalSigops uint16
}

func (m *CoinbaseOutputConstraints) MessageType() uint8    { return TypeCoinbaseOutputConstraints }
func (m *CoinbaseOutputConstraints) ExtensionType() uint16 { return ExtensionCore }
func (m *CoinbaseOutputConstraints) ChannelMsg() bool      { return false }

func (m *CoinbaseOutputConstraints) MarshalPayload() ([]byte, error) {
	var w writer
	w.u32(m.CoinbaseOutputMaxAdditionalSize)
	w.u16(m.CoinbaseOutputMaxAdditionalSigops)
	return w.bytes()
}

func (m *CoinbaseOutputConstraints) UnmarshalPayload(p []byte) error {
	r := newReader(p)
	m.CoinbaseOutputMaxAdditionalSize = r.u32()
	m.CoinbaseOutputMaxAdditionalSigops = r.u16()
	return r.done()
}

type NewTemplate struct {
	TemplateID               uint64
	FutureTemplate           bool
	Version                  uint32
	CoinbaseTxVersion        uint32
	CoinbasePrefix           []byte
	CoinbaseTxInputSequence  uint32
	CoinbaseTxValueRemaining uint64
	CoinbaseTxOutputsCount   uint32
	CoinbaseTxOutputs        []byte
	CoinbaseTxLocktime       uint32
	MerklePath               [][]byte // U256 each
}

func (m *NewTemplate) MessageType() uint8    { return TypeNewTemplate }
func (m *NewTemplate) ExtensionType() uint16 { return ExtensionCore }
func (m *NewTemplate) ChannelMsg() bool      { return false }

func (m *NewTemplate) MarshalPayload() ([]byte, error) {
	var w writer
	w.u64(m.TemplateID)
	w.boolean(m.FutureTemplate)
	w.u32(m.Version)
	w.u32(m.CoinbaseTxVersion)
	w.b255(m.CoinbasePrefix)
	w.u32(m.CoinbaseTxInputSequence)
	w.u64(m.CoinbaseTxValueRemaining)
	w.u32(m.CoinbaseTxOutputsCount)
	w.b64k(m.CoinbaseTxOutputs)
	w.u32(m.CoinbaseTxLocktime)
	w.seqU256n255(m.MerklePath)
	return w.bytes()
}

func (m *NewTemplate) UnmarshalPayload(p []byte) error {
	r := newReader(p)
	m.TemplateID = r.u64()
	m.FutureTemplate = r.boolean()
	m.Version = r.u32()
	m.CoinbaseTxVersion = r.u32()
	m.CoinbasePrefix = r.b255()
	m.CoinbaseTxInputSequence = r.u32()
	m.CoinbaseTxValueRemaining = r.u64()
	m.CoinbaseTxOutputsCount = r.u32()
	m.CoinbaseTxOutputs = r.b64k()
	m.CoinbaseTxLocktime = r.u32()
	m.MerklePath = r.seqU256n255()
	return r.done()
}

type SetNewPrevHashTemplateDistribution struct {
	TemplateID      uint64
	PrevHash        []byte // U256
	HeaderTimestamp uint32
	NBits           uint32
	Target          []byte // U256
}

func (m *SetNewPrevHashTemplateDistribution) MessageType() uint8 {
	return TypeSetNewPrevHashTemplate
}
func (m *SetNewPrevHashTemplateDistribution) ExtensionType() uint16 { return ExtensionCore }
func (m *SetNewPrevHashTemplateDistribution) ChannelMsg() bool      { return false }

func (m *SetNewPrevHashTemplateDistribution) MarshalPayload() ([]byte, error) {
	var w writer
	w.u64(m.TemplateID)
	w.u256(m.PrevHash)
	w.u32(m.HeaderTimestamp)
	w.u32(m.NBits)
	w.u256(m.Target)
	return w.bytes()
}

func (m *SetNewPrevHashTemplateDistribution) UnmarshalPayload(p []byte) error {
	r := newReader(p)
	m.TemplateID = r.u64()
	m.PrevHash = r.u256()
	m.HeaderTimestamp = r.u32()
	m.NBits = r.u32()
	m.Target = r.u256()
	return r.done()
}

type RequestTransactionData struct {
	TemplateID uint64
}

func (m *RequestTransactionData) MessageType() uint8    { return TypeRequestTransactionData }
func (m *RequestTransactionData) ExtensionType() uint16 { return ExtensionCore }
func (m *RequestTransactionData) ChannelMsg() bool      { return false }

func (m *RequestTransactionData) MarshalPayload() ([]byte, error) {
	var w writer
	w.u64(m.TemplateID)
	return w.bytes()
}

func (m *RequestTransactionData) UnmarshalPayload(p []byte) error {
	r := newReader(p)
	m.TemplateID = r.u64()
	return r.done()
}

type RequestTransactionDataSuccess struct {
	TemplateID      uint64
	ExcessData      []byte
	TransactionList [][]byte // raw txs, B0_16M each
}

func (m *RequestTransactionDataSuccess) MessageType() uint8 {
	return TypeRequestTransactionDataSuccess
}
func (m *RequestTransactionDataSuccess) ExtensionType() uint16 { return ExtensionCore }
func (m *RequestTransactionDataSuccess) ChannelMsg() bool      { return false }

func (m *RequestTransactionDataSuccess) MarshalPayload() ([]byte, error) {
	var w writer
	w.u64(m.TemplateID)
	w.b64k(m.ExcessData)
	w.seqB16Mn64k(m.TransactionList)
	return w.bytes()
}

func (m *RequestTransactionDataSuccess) UnmarshalPayload(p []byte) error {
	r := newReader(p)
	m.TemplateID = r.u64()
	m.ExcessData = r.b64k()
	m.TransactionList = r.seqB16Mn64k()
	return r.done()
}

type RequestTransactionDataError struct {
	TemplateID uint64
	ErrorCode  string
}

func (m *RequestTransactionDataError) MessageType() uint8 {
	return TypeRequestTransactionDataError
}
func (m *RequestTransactionDataError) ExtensionType() uint16 { return ExtensionCore }
func (m *RequestTransactionDataError) ChannelMsg() bool      { return false }

func (m *RequestTransactionDataError) MarshalPayload() ([]byte, error) {
	var w writer
	w.u64(m.TemplateID)
	w.str255(m.ErrorCode)
	return w.bytes()
}

func (m *RequestTransactionDataError) UnmarshalPayload(p []byte) error {
	r := newReader(p)
	m.TemplateID = r.u64()
	m.ErrorCode = r.str255()
	return r.done()
}

type SubmitSolution struct {
	TemplateID      uint64
	Version         uint32
	HeaderTimestamp uint32
	HeaderNonce     uint32
	CoinbaseTx      []byte
}

func (m *SubmitSolution) MessageType() uint8    { return TypeSubmitSolution }
func (m *SubmitSolution) ExtensionType() uint16 { return ExtensionCore }
func (m *SubmitSolution) ChannelMsg() bool      { return false }

func (m *SubmitSolution) MarshalPayload() ([]byte, error) {
	var w writer
	w.u64(m.TemplateID)
	w.u32(m.Version)
	w.u32(m.HeaderTimestamp)
	w.u32(m.HeaderNonce)
	w.b64k(m.CoinbaseTx)
	return w.bytes()
}

func (m *SubmitSolution) UnmarshalPayload(p []byte) error {
	r := newReader(p)
	m.TemplateID = r.u64()
	m.Version = r.u32()
	m.HeaderTimestamp = r.u32()
	m.HeaderNonce = r.u32()
	m.CoinbaseTx = r.b64k()
	return r.done()
}
