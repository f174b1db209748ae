package vault

import (
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"
	logger "github.com/sirupsen/logrus"

	"github.com/crossyield-io/vault-go/agreement"
	"github.com/crossyield-io/vault-go/common"
	"github.com/crossyield-io/vault-go/ledger"
	"github.com/crossyield-io/vault-go/router"
)

// SwapExactInputSingle trades amountIn of tokenIn for tokenOut through one
// pool. Single-hop routes bypass the whitelist unless the policy flag says
// otherwise; everything else matches the multi-hop contract.
func (v *Vault) SwapExactInputSingle(caller ethcommon.Address, tokenIn, tokenOut ethcommon.Address, feeTier uint32, amountIn, minOut *big.Int) (*big.Int, error) {
	if err := v.enter(); err != nil {
		return nil, err
	}
	defer v.exit()

	if v.cfg.WhitelistSingleHop {
		hash := common.PathIdentity(router.EncodeSingleHop(tokenIn, tokenOut, feeTier))
		allowed, err := v.ledger.IsPathAllowed(hash)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, &PathNotAllowedError{Hash: hash}
		}
	}

	return v.swap(caller, tokenIn, tokenOut, amountIn, minOut, func() (*big.Int, error) {
		return v.router.ExactInputSingle(tokenIn, tokenOut, feeTier, amountIn, minOut)
	})
}

// SwapExactInputMultiHop trades along an encoded route. The whitelist check
// is mandatory here: multi-hop routes touch intermediate pools the vault
// has no other control over.
func (v *Vault) SwapExactInputMultiHop(caller ethcommon.Address, encodedPath []byte, amountIn, minOut *big.Int) (*big.Int, error) {
	if err := v.enter(); err != nil {
		return nil, err
	}
	defer v.exit()

	if len(encodedPath) == 0 {
		return nil, ErrEmptyPath
	}
	tokenIn, tokenOut, err := router.PathEnds(encodedPath)
	if err != nil {
		return nil, err
	}

	hash := common.PathIdentity(encodedPath)
	allowed, err := v.ledger.IsPathAllowed(hash)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, &PathNotAllowedError{Hash: hash}
	}

	return v.swap(caller, tokenIn, tokenOut, amountIn, minOut, func() (*big.Int, error) {
		return v.router.ExactInput(encodedPath, amountIn, minOut)
	})
}

// swap runs the shared tail of both swap entry points: gates, the custody
// check immediately before movement, the router call, the minimum-output
// bound, and the atomic ledger application.
func (v *Vault) swap(caller, tokenIn, tokenOut ethcommon.Address, amountIn, minOut *big.Int, invoke func() (*big.Int, error)) (*big.Int, error) {
	if err := v.requireRole(caller, agreement.RoleOperator); err != nil {
		return nil, err
	}
	if err := v.requireRunning(); err != nil {
		return nil, err
	}
	if amountIn == nil || amountIn.Sign() <= 0 || minOut == nil || minOut.Sign() < 0 {
		return nil, ErrInvalidAmount
	}

	custody, err := v.ledger.CustodyOf(tokenIn)
	if err != nil {
		return nil, err
	}
	if custody.Cmp(amountIn) < 0 {
		return nil, &ledger.InsufficientBalanceError{Asset: tokenIn, Requested: amountIn, Available: custody}
	}

	actualOut, err := invoke()
	if err != nil {
		return nil, err
	}
	if actualOut.Cmp(minOut) < 0 {
		// nothing was applied yet, so the whole operation unwinds to
		// the pre-call balances for free
		return nil, &InsufficientOutputError{Expected: minOut, Actual: actualOut}
	}

	err = v.ledger.ApplySwap(tokenIn, tokenOut, amountIn, actualOut,
		v.isPrincipal(tokenIn), v.isPrincipal(tokenOut))
	if err != nil {
		return nil, err
	}

	v.events.Publish(&agreement.SwappedEvent{
		TokenIn:   tokenIn,
		TokenOut:  tokenOut,
		AmountIn:  amountIn,
		AmountOut: actualOut,
	})
	logger.WithFields(logger.Fields{
		"tokenIn":  tokenIn.Hex(),
		"tokenOut": tokenOut.Hex(),
		"amountIn": amountIn.String(),
		"actual":   actualOut.String(),
	}).Info("swap")
	return actualOut, nil
}

// AllowSwapPath whitelists a route by content hash.
func (v *Vault) AllowSwapPath(caller ethcommon.Address, encodedPath []byte) error {
	if err := v.enter(); err != nil {
		return err
	}
	defer v.exit()

	if err := v.requireRole(caller, agreement.RoleAdmin); err != nil {
		return err
	}
	if len(encodedPath) == 0 {
		return ErrEmptyPath
	}

	hash := common.PathIdentity(encodedPath)
	if err := v.ledger.AllowPath(hash); err != nil {
		return err
	}
	v.events.Publish(&agreement.PathAllowedEvent{PathHash: hash})
	return nil
}

// DisallowSwapPath removes a route from the whitelist.
func (v *Vault) DisallowSwapPath(caller ethcommon.Address, encodedPath []byte) error {
	if err := v.enter(); err != nil {
		return err
	}
	defer v.exit()

	if err := v.requireRole(caller, agreement.RoleAdmin); err != nil {
		return err
	}
	if len(encodedPath) == 0 {
		return ErrEmptyPath
	}

	hash := common.PathIdentity(encodedPath)
	if err := v.ledger.DisallowPath(hash); err != nil {
		return err
	}
	v.events.Publish(&agreement.PathDisallowedEvent{PathHash: hash})
	return nil
}
