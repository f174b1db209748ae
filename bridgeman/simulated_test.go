package bridgeman

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/crossyield-io/vault-go/common"
	"github.com/crossyield-io/vault-go/vaa"
)

func testTransfer() *vaa.Transfer {
	return &vaa.Transfer{
		Type:         vaa.PayloadTransfer,
		Amount:       big.NewInt(500000),
		TokenAddress: common.RandBytes32(),
		TokenChain:   2,
		To:           common.RandBytes32(),
		ToChain:      5,
		Fee:          big.NewInt(0),
	}
}

func TestSignAndVerify(t *testing.T) {
	sb := NewSimulatedBridge(7, 3, 2, big.NewInt(100))

	raw := sb.NextInbound(testTransfer())
	assert.NoError(t, sb.VerifyAttestation(raw))

	m, err := vaa.Unmarshal(raw)
	assert.NoError(t, err)
	assert.Equal(t, uint32(3), m.SignerSetID)
	assert.Len(t, m.Signatures, Quorum(7))
}

func TestVerifyRejectsTamperedBody(t *testing.T) {
	sb := NewSimulatedBridge(7, 3, 2, big.NewInt(100))
	raw := sb.NextInbound(testTransfer())

	// flip one byte in the amount field; signatures no longer match
	tampered := make([]byte, len(raw))
	copy(tampered, raw)
	tampered[len(tampered)-40] ^= 0xff
	assert.ErrorIs(t, sb.VerifyAttestation(tampered), ErrInvalidSignature)
}

func TestVerifyRejectsWrongSignerSet(t *testing.T) {
	sb := NewSimulatedBridge(7, 3, 2, big.NewInt(100))
	other := NewSimulatedBridge(7, 3, 2, big.NewInt(100))

	// same set id, different keys
	raw := other.NextInbound(testTransfer())
	assert.ErrorIs(t, sb.VerifyAttestation(raw), ErrInvalidSignature)

	// unknown set id
	stranger := NewSimulatedBridge(7, 9, 2, big.NewInt(100))
	raw = stranger.NextInbound(testTransfer())
	assert.ErrorIs(t, sb.VerifyAttestation(raw), ErrUnknownSignerSet)
}

func TestVerifyRejectsBelowQuorum(t *testing.T) {
	sb := NewSimulatedBridge(7, 3, 2, big.NewInt(100))
	raw := sb.NextInbound(testTransfer())

	m, err := vaa.Unmarshal(raw)
	assert.NoError(t, err)
	m.Signatures = m.Signatures[:Quorum(7)-1]
	assert.ErrorIs(t, sb.VerifyAttestation(m.Marshal()), ErrNoQuorum)
}

func TestVerifyRejectsDuplicateSigner(t *testing.T) {
	sb := NewSimulatedBridge(3, 3, 2, big.NewInt(100))
	raw := sb.NextInbound(testTransfer())

	m, err := vaa.Unmarshal(raw)
	assert.NoError(t, err)
	// repeat the first record to reach the count with a duplicate index
	m.Signatures[len(m.Signatures)-1] = m.Signatures[0]
	assert.ErrorIs(t, sb.VerifyAttestation(m.Marshal()), ErrSignatureOrdering)
}

func TestPublishSequences(t *testing.T) {
	sb := NewSimulatedBridge(1, 0, 2, big.NewInt(100))

	asset := common.RandEthAddress()
	seq1, err := sb.Publish(asset, big.NewInt(10), 5, common.RandBytes32())
	assert.NoError(t, err)
	seq2, err := sb.Publish(asset, big.NewInt(20), 5, common.RandBytes32())
	assert.NoError(t, err)
	assert.Greater(t, seq2, seq1)

	pub := sb.Published()
	assert.Len(t, pub, 2)
	assert.Equal(t, big.NewInt(10), pub[0].Amount)
	assert.Equal(t, seq2, pub[1].Sequence)
}
