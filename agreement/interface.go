package agreement

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// BridgeAdapter is the narrow surface of the external chain bridge.
// The vault never looks inside it; correctness of inbound settlement
// rests on the attestation bytes, not on who implements this.
type BridgeAdapter interface {
	// QuoteFee returns the fee the bridge currently charges to publish
	// an outbound transfer message.
	QuoteFee() *big.Int

	// Publish hands an outbound transfer to the bridge and returns the
	// sequence number assigned to the resulting attestation. Off-chain
	// tooling uses (emitter, sequence) to fetch the signed message later.
	Publish(asset common.Address, amount *big.Int, destChain uint16, recipient [32]byte) (uint64, error)

	// VerifyAttestation checks the signer-set signatures over the raw
	// attestation bytes. Must return nil before any ledger mutation.
	// Signature math lives here, not in the vault.
	VerifyAttestation(raw []byte) error

	// Settle completes an inbound transfer on this side (release/mint).
	// Called after the message is marked processed, never before.
	Settle(raw []byte) error
}

// SwapRouter is the narrow surface of the external exchange router.
type SwapRouter interface {
	// ExactInputSingle swaps amountIn of tokenIn for tokenOut through a
	// single pool with the given fee tier. Returns the actual output.
	ExactInputSingle(tokenIn, tokenOut common.Address, feeTier uint32, amountIn, minOut *big.Int) (*big.Int, error)

	// ExactInput swaps along an encoded multi-hop path (see router pkg
	// for the encoding). Returns the actual output.
	ExactInput(encodedPath []byte, amountIn, minOut *big.Int) (*big.Int, error)
}

// EventSink receives events after the corresponding state change committed.
type EventSink interface {
	Publish(ev Event)
}
