package bridgeman

import (
	"crypto/ecdsa"
	"math/big"
	"sync"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/crossyield-io/vault-go/common"
	"github.com/crossyield-io/vault-go/vaa"
)

// PublishedTransfer records one outbound publish for inspection in tests.
type PublishedTransfer struct {
	Asset     ethcommon.Address
	Amount    *big.Int
	DestChain uint16
	Recipient [32]byte
	Sequence  uint64
}

// SimulatedBridge implements agreement.BridgeAdapter with a locally held
// signer set, so tests can exercise the full byte path with real
// secp256k1 signatures instead of canned fixtures.
type SimulatedBridge struct {
	mu sync.Mutex

	signerSetID uint32
	guardians   []*ecdsa.PrivateKey
	signers     []ethcommon.Address

	emitterChain   uint16
	emitterAddress [32]byte

	fee      *big.Int
	sequence uint64

	published []PublishedTransfer

	// injectable failure for the settle leg
	SettleErr error
}

func NewSimulatedBridge(nGuardians int, signerSetID uint32, emitterChain uint16, fee *big.Int) *SimulatedBridge {
	sb := &SimulatedBridge{
		signerSetID:    signerSetID,
		emitterChain:   emitterChain,
		emitterAddress: common.RandBytes32(),
		fee:            new(big.Int).Set(fee),
	}
	for i := 0; i < nGuardians; i++ {
		sk, _ := crypto.GenerateKey()
		sb.guardians = append(sb.guardians, sk)
		sb.signers = append(sb.signers, crypto.PubkeyToAddress(sk.PublicKey))
	}
	return sb
}

func (sb *SimulatedBridge) QuoteFee() *big.Int {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	return new(big.Int).Set(sb.fee)
}

func (sb *SimulatedBridge) SetFee(fee *big.Int) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.fee = new(big.Int).Set(fee)
}

// Publish assigns the next sequence number and records the transfer.
func (sb *SimulatedBridge) Publish(asset ethcommon.Address, amount *big.Int, destChain uint16, recipient [32]byte) (uint64, error) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	sb.sequence++
	sb.published = append(sb.published, PublishedTransfer{
		Asset:     asset,
		Amount:    new(big.Int).Set(amount),
		DestChain: destChain,
		Recipient: recipient,
		Sequence:  sb.sequence,
	})
	return sb.sequence, nil
}

// Published returns a snapshot of everything published so far.
func (sb *SimulatedBridge) Published() []PublishedTransfer {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	out := make([]PublishedTransfer, len(sb.published))
	copy(out, sb.published)
	return out
}

func (sb *SimulatedBridge) VerifyAttestation(raw []byte) error {
	m, err := vaa.Unmarshal(raw)
	if err != nil {
		return err
	}
	if m.SignerSetID != sb.signerSetID {
		return ErrUnknownSignerSet
	}
	return VerifySignatures(m, sb.signers)
}

func (sb *SimulatedBridge) Settle(raw []byte) error {
	return sb.SettleErr
}

// SignerAddresses exposes the guardian addresses.
func (sb *SimulatedBridge) SignerAddresses() []ethcommon.Address {
	out := make([]ethcommon.Address, len(sb.signers))
	copy(out, sb.signers)
	return out
}

// NextInbound builds a fully signed inbound transfer attestation from this
// bridge's emitter, with a fresh sequence number.
func (sb *SimulatedBridge) NextInbound(xfer *vaa.Transfer) []byte {
	sb.mu.Lock()
	sb.sequence++
	seq := sb.sequence
	sb.mu.Unlock()

	m := &vaa.Message{
		Version:          1,
		SignerSetID:      sb.signerSetID,
		Timestamp:        uint32(time.Now().Unix()),
		Nonce:            uint32(seq),
		EmitterChain:     sb.emitterChain,
		EmitterAddress:   sb.emitterAddress,
		Sequence:         seq,
		ConsistencyLevel: 1,
		Payload:          xfer.Encode(),
	}
	return sb.Sign(m)
}

// Sign attaches a quorum of guardian signatures and marshals the message.
func (sb *SimulatedBridge) Sign(m *vaa.Message) []byte {
	digest := m.SigningDigest()

	n := Quorum(len(sb.guardians))
	m.Signatures = make([]vaa.Signature, 0, n)
	for i := 0; i < n; i++ {
		sig, err := crypto.Sign(digest.Bytes(), sb.guardians[i])
		if err != nil {
			panic(err)
		}
		rec := vaa.Signature{Index: uint8(i)}
		copy(rec.Signature[:], sig)
		m.Signatures = append(m.Signatures, rec)
	}
	return m.Marshal()
}
