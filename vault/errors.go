package vault

import (
	"errors"
	"fmt"
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/crossyield-io/vault-go/ledger"
)

var (
	ErrUnauthorized  = errors.New("caller lacks the required role")
	ErrPaused        = errors.New("vault is paused")
	ErrReentrantCall = errors.New("reentrant call rejected")

	ErrInvalidAmount        = errors.New("amount is invalid")
	ErrEmptyPath            = errors.New("swap path is empty")
	ErrInvalidRouterAddress = errors.New("router is not configured")
	ErrInvalidBridgeAddress = errors.New("bridge is not configured")

	ErrInsufficientFee  = errors.New("attached fee below the bridge quote")
	ErrInvalidRecipient = errors.New("attestation is not addressed to this vault")

	// re-exported so callers match against one package
	ErrInsufficientBalance = ledger.ErrInsufficientBalance
	ErrAlreadyRedeemed     = ledger.ErrAlreadyProcessed
)

// InsufficientOutputError reports a router fill below the caller's bound.
type InsufficientOutputError struct {
	Expected *big.Int
	Actual   *big.Int
}

var ErrInsufficientOutput = errors.New("swap output below minimum")

func (e *InsufficientOutputError) Error() string {
	return fmt.Sprintf("swap output below minimum: expected=%s actual=%s", e.Expected, e.Actual)
}

func (e *InsufficientOutputError) Is(target error) bool {
	return target == ErrInsufficientOutput
}

// PathNotAllowedError reports a swap route missing from the whitelist.
type PathNotAllowedError struct {
	Hash ethcommon.Hash
}

var ErrPathNotAllowed = errors.New("swap path is not whitelisted")

func (e *PathNotAllowedError) Error() string {
	return fmt.Sprintf("swap path is not whitelisted: hash=%s", e.Hash)
}

func (e *PathNotAllowedError) Is(target error) bool {
	return target == ErrPathNotAllowed
}
