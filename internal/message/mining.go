package message

// Mining subprotocol messages. Channel-scoped kinds carry the channel
// flag bit in their frame header.

type OpenStandardMiningChannel struct {
	RequestID       uint32
	UserIdentity    string
	NominalHashRate float32
	MaxTarget       []byte // U256
}

func (m *OpenStandardMiningChannel) MessageType() uint8    { return TypeOpenStandardMiningChannel }
func (m *OpenStandardMiningChannel) ExtensionType() uint16 { return ExtensionCore }
func (m *OpenStandardMiningChannel) ChannelMsg() bool      { return false }

func (m *OpenStandardMiningChannel) MarshalPayload() ([]byte, error) {
	var w writer
	w.u32(m.RequestID)
	w.str255(m.UserIdentity)
	w.f32(m.NominalHashRate)
	w.u256(m.MaxTarget)
	return w.bytes()
}

func (m *OpenStandardMiningChannel) UnmarshalPayload(p []byte) error {
	r := newReader(p)
	m.RequestID = r.u32()
	m.UserIdentity = r.str255()
	m.NominalHashRate = r.f32()
	m.MaxTarget = r.u256()
	return r.done()
}

type OpenStandardMiningChannelSuccess struct {
	RequestID        uint32
	ChannelID        uint32
	Target           []byte // U256
	ExtranoncePrefix []byte
	GroupChannelID   uint32
}

func (m *OpenStandardMiningChannelSuccess) MessageType() uint8 {
	return TypeOpenStandardMiningChannelSuccess
}
func (m *OpenStandardMiningChannelSuccess) ExtensionType() uint16 { return ExtensionCore }
func (m *OpenStandardMiningChannelSuccess) ChannelMsg() bool      { return false }

func (m *OpenStandardMiningChannelSuccess) MarshalPayload() ([]byte, error) {
	var w writer
	w.u32(m.RequestID)
	w.u32(m.ChannelID)
	w.u256(m.Target)
	w.b32(m.ExtranoncePrefix)
	w.u32(m.GroupChannelID)
	return w.bytes()
}

func (m *OpenStandardMiningChannelSuccess) UnmarshalPayload(p []byte) error {
	r := newReader(p)
	m.RequestID = r.u32()
	m.ChannelID = r.u32()
	m.Target = r.u256()
	m.ExtranoncePrefix = r.b32()
	m.GroupChannelID = r.u32()
	return r.done()
}

type OpenExtendedMiningChannel struct {
	RequestID         uint32
	UserIdentity      string
	NominalHashRate   float32
	MaxTarget         []byte // U256
	MinExtranonceSize uint16
}

func (m *OpenExtendedMiningChannel) MessageType() uint8    { return TypeOpenExtendedMiningChannel }
func (m *OpenExtendedMiningChannel) ExtensionType() uint16 { return ExtensionCore }
func (m *OpenExtendedMiningChannel) ChannelMsg() bool      { return false }

func (m *OpenExtendedMiningChannel) MarshalPayload() ([]byte, error) {
	var w writer
	w.u32(m.RequestID)
	w.str255(m.UserIdentity)
	w.f32(m.NominalHashRate)
	w.u256(m.MaxTarget)
	w.u16(m.MinExtranonceSize)
	return w.bytes()
}

func (m *OpenExtendedMiningChannel) UnmarshalPayload(p []byte) error {
	r := newReader(p)
	m.RequestID = r.u32()
	m.UserIdentity = r.str255()
	m.NominalHashRate = r.f32()
	m.MaxTarget = r.u256()
	m.MinExtranonceSize = r.u16()
	return r.done()
}

type OpenExtendedMiningChannelSuccess struct {
	RequestID        uint32
	ChannelID        uint32
	Target           []byte // U256
	ExtranonceSize   uint16
	ExtranoncePrefix []byte
}

func (m *OpenExtendedMiningChannelSuccess) MessageType() uint8 {
	return TypeOpenExtendedMiningChannelSuccess
}
func (m *OpenExtendedMiningChannelSuccess) ExtensionType() uint16 { return ExtensionCore }
func (m *OpenExtendedMiningChannelSuccess) ChannelMsg() bool      { return false }

func (m *OpenExtendedMiningChannelSuccess) MarshalPayload() ([]byte, error) {
	var w writer
	w.u32(m.RequestID)
	w.u32(m.ChannelID)
	w.u256(m.Target)
	w.u16(m.ExtranonceSize)
	w.b32(m.ExtranoncePrefix)
	return w.bytes()
}

func (m *OpenExtendedMiningChannelSuccess) UnmarshalPayload(p []byte) error {
	r := newReader(p)
	m.RequestID = r.u32()
	m.ChannelID = r.u32()
	m.Target = r.u256()
	m.ExtranonceSize = r.u16()
	m.ExtranoncePrefix = r.b32()
	return r.done()
}

type OpenMiningChannelError struct {
	RequestID uint32
	ErrorCode string
}

func (m *OpenMiningChannelError) MessageType() uint8    { return TypeOpenMiningChannelError }
func (m *OpenMiningChannelError) ExtensionType() uint16 { return ExtensionCore }
func (m *OpenMiningChannelError) ChannelMsg() bool      { return false }

func (m *OpenMiningChannelError) MarshalPayload() ([]byte, error) {
	var w writer
	w.u32(m.RequestID)
	w.str255(m.ErrorCode)
	return w.bytes()
}

func (m *OpenMiningChannelError) UnmarshalPayload(p []byte) error {
	r := newReader(p)
	m.RequestID = r.u32()
	m.ErrorCode = r.str255()
	return r.done()
}

type UpdateChannel struct {
	ChannelID       uint32
	NominalHashRate float32
	MaximumTarget   []byte // U256
}

func (m *UpdateChannel) MessageType() uint8    { return TypeUpdateChannel }
func (m *UpdateChannel) ExtensionType() uint16 { return ExtensionCore }
func (m *UpdateChannel) ChannelMsg() bool      { return true }

func (m *UpdateChannel) MarshalPayload() ([]byte, error) {
	var w writer
	w.u32(m.ChannelID)
	w.f32(m.NominalHashRate)
	w.u256(m.MaximumTarget)
	return w.bytes()
}

func (m *UpdateChannel) UnmarshalPayload(p []byte) error {
	r := newReader(p)
	m.ChannelID = r.u32()
	m.NominalHashRate = r.f32()
	m.MaximumTarget = r.u256()
	return r.done()
}

type UpdateChannelError struct {
	ChannelID uint32
	ErrorCode string
}

func (m *UpdateChannelError) MessageType() uint8    { return TypeUpdateChannelError }
func (m *UpdateChannelError) ExtensionType() uint16 { return ExtensionCore }
func (m *UpdateChannelError) ChannelMsg() bool      { return true }

func (m *UpdateChannelError) MarshalPayload() ([]byte, error) {
	var w writer
	w.u32(m.ChannelID)
	w.str255(m.ErrorCode)
	return w.bytes()
}

func (m *UpdateChannelError) UnmarshalPayload(p []byte) error {
	r := newReader(p)
	m.ChannelID = r.u32()
	m.ErrorCode = r.str255()
	return r.done()
}

type CloseChannel struct {
	ChannelID  uint32
	ReasonCode string
}

func (m *CloseChannel) MessageType() uint8    { return TypeCloseChannel }
func (m *CloseChannel) ExtensionType() uint16 { return ExtensionCore }
func (m *CloseChannel) ChannelMsg() bool      { return true }

func (m *CloseChannel) MarshalPayload() ([]byte, error) {
	var w writer
	w.u32(m.ChannelID)
	w.str255(m.ReasonCode)
	return w.bytes()
}

func (m *CloseChannel) UnmarshalPayload(p []byte) error {
	r := newReader(p)
	m.ChannelID = r.u32()
	m.ReasonCode = r.str255()
	return r.done()
}

type SetExtranoncePrefix struct {
	ChannelID        uint32
	ExtranoncePrefix []byte
}

func (m *SetExtranoncePrefix) MessageType() uint8    { return TypeSetExtranoncePrefix }
func (m *SetExtranoncePrefix) ExtensionType() uint16 { return ExtensionCore }
func (m *SetExtranoncePrefix) ChannelMsg() bool      { return true }

func (m *SetExtranoncePrefix) MarshalPayload() ([]byte, error) {
	var w writer
	w.u32(m.ChannelID)
	w.b32(m.ExtranoncePrefix)
	return w.bytes()
}

func (m *SetExtranoncePrefix) UnmarshalPayload(p []byte) error {
	r := newReader(p)
	m.ChannelID = r.u32()
	m.ExtranoncePrefix = r.b32()
	return r.done()
}

type SubmitSharesStandard struct {
	ChannelID      uint32
	SequenceNumber uint32
	JobID          uint32
	Nonce          uint32
	NTime          uint32
	Version        uint32
}

func (m *SubmitSharesStandard) MessageType() uint8    { return TypeSubmitSharesStandard }
func (m *SubmitSharesStandard) ExtensionType() uint16 { return ExtensionCore }
func (m *SubmitSharesStandard) ChannelMsg() bool      { return true }

func (m *SubmitSharesStandard) MarshalPayload() ([]byte, error) {
	var w writer
	w.u32(m.ChannelID)
	w.u32(m.SequenceNumber)
	w.u32(m.JobID)
	w.u32(m.Nonce)
	w.u32(m.NTime)
	w.u32(m.Version)
	return w.bytes()
}

func (m *SubmitSharesStandard) UnmarshalPayload(p []byte) error {
	r := newReader(p)
	m.ChannelID = r.u32()
	m.SequenceNumber = r.u32()
	m.JobID = r.u32()
	m.Nonce = r.u32()
	m.NTime = r.u32()
	m.Version = r.u32()
	return r.done()
}

type SubmitSharesExtended struct {
	ChannelID      uint32
	SequenceNumber uint32
	JobID          uint32
	Nonce          uint32
	NTime          uint32
	Version        uint32
	Extranonce     []byte
}

func (m *SubmitSharesExtended) MessageType() uint8    { return TypeSubmitSharesExtended }
func (m *SubmitSharesExtended) ExtensionType() uint16 { return ExtensionCore }
func (m *SubmitSharesExtended) ChannelMsg() bool      { return true }

func (m *SubmitSharesExtended) MarshalPayload() ([]byte, error) {
	var w writer
	w.u32(m.ChannelID)
	w.u32(m.SequenceNumber)
	w.u32(m.JobID)
	w.u32(m.Nonce)
	w.u32(m.NTime)
	w.u32(m.Version)
	w.b32(m.Extranonce)
	return w.bytes()
}

func (m *SubmitSharesExtended) UnmarshalPayload(p []byte) error {
	r := newReader(p)
	m.ChannelID = r.u32()
	m.SequenceNumber = r.u32()
	m.JobID = r.u32()
	m.Nonce = r.u32()
	m.NTime = r.u32()
	m.Version = r.u32()
	m.Extranonce = r.b32()
	return r.done()
}

type SubmitSharesSuccess struct {
	ChannelID               uint32
	LastSequenceNumber      uint32
	NewSubmitsAcceptedCount uint32
	NewSharesSum            uint64
}

func (m *SubmitSharesSuccess) MessageType() uint8    { return TypeSubmitSharesSuccess }
func (m *SubmitSharesSuccess) ExtensionType() uint16 { return ExtensionCore }
func (m *SubmitSharesSuccess) ChannelMsg() bool      { return true }

func (m *SubmitSharesSuccess) MarshalPayload() ([]byte, error) {
	var w writer
	w.u32(m.ChannelID)
	w.u32(m.LastSequenceNumber)
	w.u32(m.NewSubmitsAcceptedCount)
	w.u64(m.NewSharesSum)
	return w.bytes()
}

func (m *SubmitSharesSuccess) UnmarshalPayload(p []byte) error {
	r := newReader(p)
	m.ChannelID = r.u32()
	m.LastSequenceNumber = r.u32()
	m.NewSubmitsAcceptedCount = r.u32()
	m.NewSharesSum = r.u64()
	return r.done()
}

type SubmitSharesError struct {
	ChannelID      uint32
	SequenceNumber uint32
	ErrorCode      string
}

func (m *SubmitSharesError) MessageType() uint8    { return TypeSubmitSharesError }
func (m *SubmitSharesError) ExtensionType() uint16 { return ExtensionCore }
func (m *SubmitSharesError) ChannelMsg() bool      { return true }

func (m *SubmitSharesError) MarshalPayload() ([]byte, error) {
	var w writer
	w.u32(m.ChannelID)
	w.u32(m.SequenceNumber)
	w.str255(m.ErrorCode)
	return w.bytes()
}

func (m *SubmitSharesError) UnmarshalPayload(p []byte) error {
	r := newReader(p)
	m.ChannelID = r.u32()
	m.SequenceNumber = r.u32()
	m.ErrorCode = r.str255()
	return r.done()
}

type NewMiningJob struct {
	ChannelID  uint32
	JobID      uint32
	MinNTime   *uint32 // absent = future job
	Version    uint32
	MerkleRoot []byte // U256
}

func (m *NewMiningJob) MessageType() uint8    { return TypeNewMiningJob }
func (m *NewMiningJob) ExtensionType() uint16 { return ExtensionCore }
func (m *NewMiningJob) ChannelMsg() bool      { return true }

func (m *NewMiningJob) MarshalPayload() ([]byte, error) {
	var w writer
	w.u32(m.ChannelID)
	w.u32(m.JobID)
	w.optU32(m.MinNTime)
	w.u32(m.Version)
	w.u256(m.MerkleRoot)
	return w.bytes()
}

func (m *NewMiningJob) UnmarshalPayload(p []byte) error {
	r := newReader(p)
	m.ChannelID = r.u32()
	m.JobID = r.u32()
	m.MinNTime = r.optU32()
	m.Version = r.u32()
	m.MerkleRoot = r.u256()
	return r.done()
}

type NewExtendedMiningJob struct {
	ChannelID             uint32
	JobID                 uint32
	MinNTime              *uint32
	Version               uint32
	VersionRollingAllowed bool
	MerklePath            [][]byte // U256 each
	CoinbaseTxPrefix      []byte
	CoinbaseTxSuffix      []byte
}

func (m *NewExtendedMiningJob) MessageType() uint8    { return TypeNewExtendedMiningJob }
func (m *NewExtendedMiningJob) ExtensionType() uint16 { return ExtensionCore }
func (m *NewExtendedMiningJob) ChannelMsg() bool      { return true }

func (m *NewExtendedMiningJob) MarshalPayload() ([]byte, error) {
	var w writer
	w.u32(m.ChannelID)
	w.u32(m.JobID)
	w.optU32(m.MinNTime)
	w.u32(m.Version)
	w.boolean(m.VersionRollingAllowed)
	w.seqU256n255(m.MerklePath)
	w.b64k(m.CoinbaseTxPrefix)
	w.b64k(m.CoinbaseTxSuffix)
	return w.bytes()
}

func (m *NewExtendedMiningJob) UnmarshalPayload(p []byte) error {
	r := newReader(p)
	m.ChannelID = r.u32()
	m.JobID = r.u32()
	m.MinNTime = r.optU32()
	m.Version = r.u32()
	m.VersionRollingAllowed = r.boolean()
	m.MerklePath = r.seqU256n255()
	m.CoinbaseTxPrefix = r.b64k()
	m.CoinbaseTxSuffix = r.b64k()
	return r.done()
}

type SetNewPrevHashMining struct {
	ChannelID uint32
	JobID     uint32
	PrevHash  []byte // U256
	MinNTime  uint32
	NBits     uint32
}

func (m *SetNewPrevHashMining) MessageType() uint8    { return TypeSetNewPrevHashMining }
func (m *SetNewPrevHashMining) ExtensionType() uint16 { return ExtensionCore }
func (m *SetNewPrevHashMining) ChannelMsg() bool      { return true }

func (m *SetNewPrevHashMining) MarshalPayload() ([]byte, error) {
	var w writer
	w.u32(m.ChannelID)
	w.u32(m.JobID)
	w.u256(m.PrevHash)
	w.u32(m.MinNTime)
	w.u32(m.NBits)
	return w.bytes()
}

func (m *SetNewPrevHashMining) UnmarshalPayload(p []byte) error {
	r := newReader(p)
	m.ChannelID = r.u32()
	m.JobID = r.u32()
	m.PrevHash = r.u256()
	m.MinNTime = r.u32()
	m.NBits = r.u32()
	return r.done()
}

type SetCustomMiningJob struct {
	ChannelID              uint32
	RequestID              uint32
	MiningJobToken         []byte
	Version                uint32
	PrevHash               []byte // U256
	MinNTime               uint32
	NBits                  uint32
	CoinbaseTxVersion      uint32
	CoinbasePrefix         []byte
	CoinbaseTxInputNSeq    uint32
	CoinbaseTxOutputs      []byte
	CoinbaseTxLocktime     uint32
	MerklePath             [][]byte // U256 each
}

func (m *SetCustomMiningJob) MessageType() uint8    { return TypeSetCustomMiningJob }
func (m *SetCustomMiningJob) ExtensionType() uint16 { return ExtensionCore }
func (m *SetCustomMiningJob) ChannelMsg() bool      { return false }

func (m *SetCustomMiningJob) MarshalPayload() ([]byte, error) {
	var w writer
	w.u32(m.ChannelID)
	w.u32(m.RequestID)
	w.b255(m.MiningJobToken)
	w.u32(m.Version)
	w.u256(m.PrevHash)
	w.u32(m.MinNTime)
	w.u32(m.NBits)
	w.u32(m.CoinbaseTxVersion)
	w.b255(m.CoinbasePrefix)
	w.u32(m.CoinbaseTxInputNSeq)
	w.b64k(m.CoinbaseTxOutputs)
	w.u32(m.CoinbaseTxLocktime)
	w.seqU256n255(m.MerklePath)
	return w.bytes()
}

func (m *SetCustomMiningJob) UnmarshalPayload(p []byte) error {
	r := newReader(p)
	m.ChannelID = r.u32()
	m.RequestID = r.u32()
	m.MiningJobToken = r.b255()
	m.Version = r.u32()
	m.PrevHash = r.u256()
	m.MinNTime = r.u32()
	m.NBits = r.u32()
	m.CoinbaseTxVersion = r.u32()
	m.CoinbasePrefix = r.b255()
	m.CoinbaseTxInputNSeq = r.u32()
	m.CoinbaseTxOutputs = r.b64k()
	m.CoinbaseTxLocktime = r.u32()
	m.MerklePath = r.seqU256n255()
	return r.done()
}

type SetCustomMiningJobSuccess struct {
	ChannelID uint32
	RequestID uint32
	JobID     uint32
}

func (m *SetCustomMiningJobSuccess) MessageType() uint8    { return TypeSetCustomMiningJobSuccess }
func (m *SetCustomMiningJobSuccess) ExtensionType() uint16 { return ExtensionCore }
func (m *SetCustomMiningJobSuccess) ChannelMsg() bool      { return false }

func (m *SetCustomMiningJobSuccess) MarshalPayload() ([]byte, error) {
	var w writer
	w.u32(m.ChannelID)
	w.u32(m.RequestID)
	w.u32(m.JobID)
	return w.bytes()
}

func (m *SetCustomMiningJobSuccess) UnmarshalPayload(p []byte) error {
	r := newReader(p)
	m.ChannelID = r.u32()
	m.RequestID = r.u32()
	m.JobID = r.u32()
	return r.done()
}

type SetCustomMiningJobError struct {
	ChannelID uint32
	RequestID uint32
	ErrorCode string
}

func (m *SetCustomMiningJobError) MessageType() uint8    { return TypeSetCustomMiningJobError }
func (m *SetCustomMiningJobError) ExtensionType() uint16 { return ExtensionCore }
func (m *SetCustomMiningJobError) ChannelMsg() bool      { return false }

func (m *SetCustomMiningJobError) MarshalPayload() ([]byte, error) {
	var w writer
	w.u32(m.ChannelID)
	w.u32(m.RequestID)
	w.str255(m.ErrorCode)
	return w.bytes()
}

func (m *SetCustomMiningJobError) UnmarshalPayload(p []byte) error {
	r := newReader(p)
	m.ChannelID = r.u32()
	m.RequestID = r.u32()
	m.ErrorCode = r.str255()
	return r.done()
}

type SetTarget struct {
	ChannelID     uint32
	MaximumTarget []byte // U256
}

func (m *SetTarget) MessageType() uint8    { return TypeSetTarget }
func (m *SetTarget) ExtensionType() uint16 { return ExtensionCore }
func (m *SetTarget) ChannelMsg() bool      { return true }

func (m *SetTarget) MarshalPayload() ([]byte, error) {
	var w writer
	w.u32(m.ChannelID)
	w.u256(m.MaximumTarget)
	return w.bytes()
}

func (m *SetTarget) UnmarshalPayload(p []byte) error {
	r := newReader(p)
	m.ChannelID = r.u32()
	m.MaximumTarget = r.u256()
	return r.done()
}

type SetGroupChannel struct {
	GroupChannelID uint32
	ChannelIDs     []uint32
}

func (m *SetGroupChannel) MessageType() uint8    { return TypeSetGroupChannel }
func (m *SetGroupChannel) ExtensionType() uint16 { return ExtensionCore }
func (m *SetGroupChannel) ChannelMsg() bool      { return true }

func (m *SetGroupChannel) MarshalPayload() ([]byte, error) {
	var w writer
	w.u32(m.GroupChannelID)
	w.seqU32n64k(m.ChannelIDs)
	return w.bytes()
}

func (m *SetGroupChannel) UnmarshalPayload(p []byte) error {
	r := newReader(p)
	m.GroupChannelID = r.u32()
	m.ChannelIDs = r.seqU32n64k()
	return r.done()
}
