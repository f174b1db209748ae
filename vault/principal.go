package vault

import (
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"
	logger "github.com/sirupsen/logrus"

	"github.com/crossyield-io/vault-go/agreement"
	"github.com/crossyield-io/vault-go/ledger"
)

// Deposit moves amount into custody and bumps the deposited counter.
// Open to anyone while the vault runs. A zero amount succeeds and still
// emits the event; callers rely on that as an idempotent probe.
func (v *Vault) Deposit(depositor, asset ethcommon.Address, amount *big.Int) error {
	if err := v.enter(); err != nil {
		return err
	}
	defer v.exit()

	if err := v.requireRunning(); err != nil {
		return err
	}
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}

	if err := v.ledger.ApplyDeposit(asset, amount); err != nil {
		return err
	}

	v.events.Publish(&agreement.DepositedEvent{Depositor: depositor, Asset: asset, Amount: amount})
	logger.WithFields(logger.Fields{
		"depositor": depositor.Hex(),
		"asset":     asset.Hex(),
		"amount":    amount.String(),
	}).Info("deposit")
	return nil
}

// Withdraw pulls amount out of custody. The balance check runs against live
// holdings, not the deposited counter: bridging and swaps move holdings
// independently of deposits.
func (v *Vault) Withdraw(caller, asset ethcommon.Address, amount *big.Int) error {
	if err := v.enter(); err != nil {
		return err
	}
	defer v.exit()

	if err := v.requireRole(caller, agreement.RoleAdmin); err != nil {
		return err
	}
	if err := v.requireRunning(); err != nil {
		return err
	}
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}

	if err := v.ledger.ApplyWithdraw(asset, amount); err != nil {
		return err
	}

	v.events.Publish(&agreement.WithdrawnEvent{Asset: asset, Amount: amount, Admin: caller})
	logger.WithFields(logger.Fields{
		"admin":  caller.Hex(),
		"asset":  asset.Hex(),
		"amount": amount.String(),
	}).Info("withdraw")
	return nil
}

// BridgeOut hands amount to the bridge for the sibling vault on destChain.
// The attached fee must cover the bridge's current quote. The returned
// sequence number locates the resulting attestation off-chain.
func (v *Vault) BridgeOut(caller, asset ethcommon.Address, amount *big.Int, destChain uint16, recipient [32]byte, fee *big.Int) (uint64, error) {
	if err := v.enter(); err != nil {
		return 0, err
	}
	defer v.exit()

	if err := v.requireRole(caller, agreement.RoleOperator); err != nil {
		return 0, err
	}
	if err := v.requireRunning(); err != nil {
		return 0, err
	}
	if amount == nil || amount.Sign() <= 0 {
		return 0, ErrInvalidAmount
	}

	// balance first: a short balance must fail before any fee is taken
	custody, err := v.ledger.CustodyOf(asset)
	if err != nil {
		return 0, err
	}
	if custody.Cmp(amount) < 0 {
		return 0, &ledger.InsufficientBalanceError{Asset: asset, Requested: amount, Available: custody}
	}

	if fee == nil || fee.Cmp(v.bridge.QuoteFee()) < 0 {
		return 0, ErrInsufficientFee
	}

	sequence, err := v.bridge.Publish(asset, amount, destChain, recipient)
	if err != nil {
		return 0, err
	}

	// the debit re-checks custody inside its transaction
	if err := v.ledger.ApplyBridgeOut(asset, amount); err != nil {
		return 0, err
	}

	v.events.Publish(&agreement.BridgedOutEvent{
		Asset:     asset,
		Amount:    amount,
		DestChain: destChain,
		Recipient: recipient,
		Sequence:  sequence,
	})
	logger.WithFields(logger.Fields{
		"asset":     asset.Hex(),
		"amount":    amount.String(),
		"destChain": destChain,
		"sequence":  sequence,
	}).Info("bridge out")
	return sequence, nil
}
