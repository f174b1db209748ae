package common

import (
	"encoding/binary"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// MessageIdentity derives the replay-guard key of an inbound attestation:
// keccak256(emitterChain(be16) || emitterAddress || sequence(be64)).
// The triple uniquely identifies a message across the bridge network.
func MessageIdentity(emitterChain uint16, emitterAddress [32]byte, sequence uint64) ethcommon.Hash {
	buf := make([]byte, 2+32+8)
	binary.BigEndian.PutUint16(buf[0:2], emitterChain)
	copy(buf[2:34], emitterAddress[:])
	binary.BigEndian.PutUint64(buf[34:42], sequence)
	return crypto.Keccak256Hash(buf)
}

// PathIdentity derives the whitelist key of an encoded multi-hop swap route.
func PathIdentity(encodedPath []byte) ethcommon.Hash {
	return crypto.Keccak256Hash(encodedPath)
}
