// Package vaa implements the wire codec for the bridge network's signed
// attestation messages. The layout must match the published format
// bit-for-bit: all integers big-endian, all widths fixed except the payload.
//
//	header: version(1) | signerSetId(4) | nSigs(1) | nSigs * sig(66)
//	body:   timestamp(4) | nonce(4) | emitterChain(2) | emitterAddress(32) |
//	        sequence(8) | consistencyLevel(1) | payload(...)
//
// Signature cryptography is not checked here; the bridge adapter owns it.
package vaa

import (
	"encoding/binary"
	"errors"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/crossyield-io/vault-go/common"
)

const (
	// SignatureRecordLength is one signer record: index(1) + ecdsa sig(65).
	SignatureRecordLength = 66

	headerFixedLength = 1 + 4 + 1
	bodyFixedLength   = 4 + 4 + 2 + 32 + 8 + 1
)

var (
	ErrInvalidMessageFormat   = errors.New("attestation bytes are malformed")
	ErrUnsupportedPayloadType = errors.New("attestation payload type is not supported")
)

// Signature is one signer-set member's record as it appears on the wire.
type Signature struct {
	Index     uint8    // position in the signer set
	Signature [65]byte // r(32) | s(32) | v(1)
}

// Message is a fully parsed attestation.
type Message struct {
	Version          uint8
	SignerSetID      uint32
	Signatures       []Signature
	Timestamp        uint32
	Nonce            uint32
	EmitterChain     uint16
	EmitterAddress   [32]byte
	Sequence         uint64
	ConsistencyLevel uint8
	Payload          []byte // raw payload, leading type byte included
}

// Unmarshal parses raw attestation bytes. Every fixed-width read is length
// checked; a short buffer anywhere yields ErrInvalidMessageFormat. The
// payload is kept opaque here and dispatched by DecodeTransfer et al.
func Unmarshal(raw []byte) (*Message, error) {
	if len(raw) < headerFixedLength {
		return nil, ErrInvalidMessageFormat
	}

	m := &Message{}
	m.Version = raw[0]
	m.SignerSetID = binary.BigEndian.Uint32(raw[1:5])
	nSigs := int(raw[5])

	offset := headerFixedLength
	if len(raw) < offset+nSigs*SignatureRecordLength {
		return nil, ErrInvalidMessageFormat
	}
	m.Signatures = make([]Signature, nSigs)
	for i := 0; i < nSigs; i++ {
		rec := raw[offset : offset+SignatureRecordLength]
		m.Signatures[i].Index = rec[0]
		copy(m.Signatures[i].Signature[:], rec[1:])
		offset += SignatureRecordLength
	}

	body := raw[offset:]
	if len(body) < bodyFixedLength {
		return nil, ErrInvalidMessageFormat
	}
	m.Timestamp = binary.BigEndian.Uint32(body[0:4])
	m.Nonce = binary.BigEndian.Uint32(body[4:8])
	m.EmitterChain = binary.BigEndian.Uint16(body[8:10])
	copy(m.EmitterAddress[:], body[10:42])
	m.Sequence = binary.BigEndian.Uint64(body[42:50])
	m.ConsistencyLevel = body[50]
	m.Payload = body[bodyFixedLength:]

	// a settled message always carries a payload; bare bodies are garbage
	if len(m.Payload) == 0 {
		return nil, ErrInvalidMessageFormat
	}

	return m, nil
}

// Marshal re-encodes the message. Unmarshal(Marshal(m)) reproduces m; the
// simulated bridge and tests use it to build valid byte blobs.
func (m *Message) Marshal() []byte {
	buf := make([]byte, 0, headerFixedLength+len(m.Signatures)*SignatureRecordLength+bodyFixedLength+len(m.Payload))
	buf = append(buf, m.Version)
	buf = binary.BigEndian.AppendUint32(buf, m.SignerSetID)
	buf = append(buf, uint8(len(m.Signatures)))
	for _, sig := range m.Signatures {
		buf = append(buf, sig.Index)
		buf = append(buf, sig.Signature[:]...)
	}
	return append(buf, m.serializeBody()...)
}

func (m *Message) serializeBody() []byte {
	buf := make([]byte, 0, bodyFixedLength+len(m.Payload))
	buf = binary.BigEndian.AppendUint32(buf, m.Timestamp)
	buf = binary.BigEndian.AppendUint32(buf, m.Nonce)
	buf = binary.BigEndian.AppendUint16(buf, m.EmitterChain)
	buf = append(buf, m.EmitterAddress[:]...)
	buf = binary.BigEndian.AppendUint64(buf, m.Sequence)
	buf = append(buf, m.ConsistencyLevel)
	return append(buf, m.Payload...)
}

// SigningDigest is what the signer set signs: keccak256(keccak256(body)).
func (m *Message) SigningDigest() ethcommon.Hash {
	return crypto.Keccak256Hash(crypto.Keccak256(m.serializeBody()))
}

// Identity is the replay-guard key of the message. The triple
// (emitterChain, emitterAddress, sequence) is settled at most once.
func (m *Message) Identity() ethcommon.Hash {
	return common.MessageIdentity(m.EmitterChain, m.EmitterAddress, m.Sequence)
}
