// Package bridgeman hosts the chain-bridge collaborator: signer-set
// verification over attestation bytes and a simulated bridge for tests.
// The vault only sees the agreement.BridgeAdapter interface.
package bridgeman

import (
	"errors"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/crossyield-io/vault-go/vaa"
)

var (
	ErrUnknownSignerSet  = errors.New("attestation names an unknown signer set")
	ErrNoQuorum          = errors.New("attestation carries too few signatures")
	ErrInvalidSignature  = errors.New("attestation signature does not recover to a signer")
	ErrSignatureOrdering = errors.New("attestation signature indices are not strictly increasing")
)

// Quorum is the smallest signature count accepted for a set of n signers,
// the usual 2/3+ rule.
func Quorum(n int) int {
	return n*2/3 + 1
}

// VerifySignatures checks the signer-set signatures of a parsed attestation
// against the known signer addresses. Indices must be strictly increasing
// (no duplicate signers) and every signature must recover to the address at
// its index over the message's signing digest.
func VerifySignatures(m *vaa.Message, signers []ethcommon.Address) error {
	if len(m.Signatures) < Quorum(len(signers)) {
		return ErrNoQuorum
	}

	digest := m.SigningDigest()
	last := -1
	for _, sig := range m.Signatures {
		idx := int(sig.Index)
		if idx <= last {
			return ErrSignatureOrdering
		}
		last = idx
		if idx >= len(signers) {
			return ErrInvalidSignature
		}

		pub, err := crypto.Ecrecover(digest.Bytes(), sig.Signature[:])
		if err != nil {
			return ErrInvalidSignature
		}
		recovered, err := crypto.UnmarshalPubkey(pub)
		if err != nil {
			return ErrInvalidSignature
		}
		if crypto.PubkeyToAddress(*recovered) != signers[idx] {
			return ErrInvalidSignature
		}
	}

	return nil
}
