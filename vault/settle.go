package vault

import (
	ethcommon "github.com/ethereum/go-ethereum/common"
	logger "github.com/sirupsen/logrus"

	"github.com/crossyield-io/vault-go/agreement"
	"github.com/crossyield-io/vault-go/common"
	"github.com/crossyield-io/vault-go/vaa"
)

// SettleBridgeIn consumes an inbound attestation. Open to any caller:
// correctness rests on the message bytes, not on who relays them.
//
// Order of operations is the whole defense: decode, verify signatures,
// bind recipient, then mark processed BEFORE the external settle call and
// credit after it, all inside one ledger transaction. A failure anywhere
// rolls the unit back; a byte-identical resubmission fails AlreadyRedeemed.
func (v *Vault) SettleBridgeIn(caller ethcommon.Address, attestation []byte) error {
	if err := v.enter(); err != nil {
		return err
	}
	defer v.exit()

	if err := v.requireRunning(); err != nil {
		return err
	}

	m, err := vaa.Unmarshal(attestation)
	if err != nil {
		return err
	}

	xfer, err := vaa.DecodeTransfer(m.Payload)
	if err != nil {
		return err
	}

	// signature check is the bridge's call to make, never skipped
	if err := v.bridge.VerifyAttestation(attestation); err != nil {
		return err
	}

	// recipient binding: a message addressed elsewhere is not ours,
	// however valid its signatures are
	if xfer.ToChain != v.cfg.ChainID || xfer.To != v.cfg.VaultAddress {
		return ErrInvalidRecipient
	}
	if xfer.Amount.Sign() <= 0 {
		return ErrInvalidAmount
	}

	token := common.Bytes32ToAddress(xfer.TokenAddress)
	err = v.ledger.SettleInbound(m.Identity(), token, xfer.Amount, func() error {
		return v.bridge.Settle(attestation)
	})
	if err != nil {
		return err
	}

	v.events.Publish(&agreement.BridgedInEvent{
		Token:       token,
		Amount:      xfer.Amount,
		SourceChain: m.EmitterChain,
	})
	logger.WithFields(logger.Fields{
		"relayer":     caller.Hex(),
		"token":       token.Hex(),
		"amount":      xfer.Amount.String(),
		"sourceChain": m.EmitterChain,
		"sequence":    m.Sequence,
	}).Info("bridge in settled")
	return nil
}
