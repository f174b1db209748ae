package vaa

import (
	"encoding/binary"
	"math/big"

	"github.com/crossyield-io/vault-go/common"
)

// PayloadType is the leading byte of an attestation payload.
type PayloadType uint8

const (
	// PayloadTransfer moves tokens; settlement relevant.
	PayloadTransfer PayloadType = 1
	// PayloadAssetMeta describes a token; informational, never settled.
	PayloadAssetMeta PayloadType = 2
	// PayloadTransferWithPayload is a transfer plus an origin address and
	// arbitrary trailing bytes for the receiving contract.
	PayloadTransferWithPayload PayloadType = 3
)

const (
	// type 1: id(1) amount(32) token(32) tokenChain(2) to(32) toChain(2) fee(32)
	transferLength = 1 + 32 + 32 + 2 + 32 + 2 + 32
	// type 3 swaps the fee field for fromAddress and allows trailing bytes
	transferWithPayloadMinLength = 1 + 32 + 32 + 2 + 32 + 2 + 32
	// type 2: id(1) token(32) tokenChain(2) decimals(1) symbol(32) name(32)
	assetMetaLength = 1 + 32 + 2 + 1 + 32 + 32
)

// Transfer is the decoded form of payload types 1 and 3.
type Transfer struct {
	Type         PayloadType
	Amount       *big.Int
	TokenAddress [32]byte
	TokenChain   uint16
	To           [32]byte
	ToChain      uint16
	Fee          *big.Int // type 1 only, zero otherwise
	FromAddress  [32]byte // type 3 only
	ExtraPayload []byte   // type 3 only, may be empty
}

// AssetMeta is the decoded form of payload type 2.
type AssetMeta struct {
	TokenAddress [32]byte
	TokenChain   uint16
	Decimals     uint8
	Symbol       [32]byte
	Name         [32]byte
}

// PayloadTypeOf peeks at the leading payload byte without decoding.
func PayloadTypeOf(payload []byte) (PayloadType, error) {
	if len(payload) == 0 {
		return 0, ErrInvalidMessageFormat
	}
	pt := PayloadType(payload[0])
	switch pt {
	case PayloadTransfer, PayloadAssetMeta, PayloadTransferWithPayload:
		return pt, nil
	}
	return 0, ErrUnsupportedPayloadType
}

// DecodeTransfer parses a type 1 or type 3 payload. A type 1 payload must
// be exactly transferLength; a type 3 payload at least that long.
func DecodeTransfer(payload []byte) (*Transfer, error) {
	pt, err := PayloadTypeOf(payload)
	if err != nil {
		return nil, err
	}

	switch pt {
	case PayloadTransfer:
		if len(payload) != transferLength {
			return nil, ErrInvalidMessageFormat
		}
	case PayloadTransferWithPayload:
		if len(payload) < transferWithPayloadMinLength {
			return nil, ErrInvalidMessageFormat
		}
	default:
		return nil, ErrUnsupportedPayloadType
	}

	t := &Transfer{Type: pt, Fee: new(big.Int)}
	t.Amount = new(big.Int).SetBytes(payload[1:33])
	copy(t.TokenAddress[:], payload[33:65])
	t.TokenChain = binary.BigEndian.Uint16(payload[65:67])
	copy(t.To[:], payload[67:99])
	t.ToChain = binary.BigEndian.Uint16(payload[99:101])

	if pt == PayloadTransfer {
		t.Fee = new(big.Int).SetBytes(payload[101:133])
	} else {
		copy(t.FromAddress[:], payload[101:133])
		t.ExtraPayload = payload[133:]
	}

	return t, nil
}

// DecodeAssetMeta parses a type 2 payload.
func DecodeAssetMeta(payload []byte) (*AssetMeta, error) {
	pt, err := PayloadTypeOf(payload)
	if err != nil {
		return nil, err
	}
	if pt != PayloadAssetMeta {
		return nil, ErrUnsupportedPayloadType
	}
	if len(payload) != assetMetaLength {
		return nil, ErrInvalidMessageFormat
	}

	am := &AssetMeta{}
	copy(am.TokenAddress[:], payload[1:33])
	am.TokenChain = binary.BigEndian.Uint16(payload[33:35])
	am.Decimals = payload[35]
	copy(am.Symbol[:], payload[36:68])
	copy(am.Name[:], payload[68:100])
	return am, nil
}

// Encode renders the transfer back into payload bytes.
func (t *Transfer) Encode() []byte {
	buf := make([]byte, 0, transferLength+len(t.ExtraPayload))
	buf = append(buf, uint8(t.Type))

	amount := common.BigInt2Bytes32(t.Amount)
	buf = append(buf, amount[:]...)
	buf = append(buf, t.TokenAddress[:]...)
	buf = binary.BigEndian.AppendUint16(buf, t.TokenChain)
	buf = append(buf, t.To[:]...)
	buf = binary.BigEndian.AppendUint16(buf, t.ToChain)

	if t.Type == PayloadTransfer {
		fee := common.BigInt2Bytes32(t.Fee)
		buf = append(buf, fee[:]...)
	} else {
		buf = append(buf, t.FromAddress[:]...)
		buf = append(buf, t.ExtraPayload...)
	}
	return buf
}

// Encode renders the asset meta back into payload bytes.
func (am *AssetMeta) Encode() []byte {
	buf := make([]byte, 0, assetMetaLength)
	buf = append(buf, uint8(PayloadAssetMeta))
	buf = append(buf, am.TokenAddress[:]...)
	buf = binary.BigEndian.AppendUint16(buf, am.TokenChain)
	buf = append(buf, am.Decimals)
	buf = append(buf, am.Symbol[:]...)
	buf = append(buf, am.Name[:]...)
	return buf
}
