package vault

import (
	"math/big"
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"

	"github.com/crossyield-io/vault-go/agreement"
	"github.com/crossyield-io/vault-go/common"
	"github.com/crossyield-io/vault-go/router"
)

const testFeeTier = uint32(3000)

func TestSwapBuySide(t *testing.T) {
	env := newTestEnv(t)
	assert.NoError(t, env.vault.Deposit(env.stranger, env.usdc, big.NewInt(1000)))
	env.router.SetQuote(env.usdc, env.weth, big.NewInt(3))

	out, err := env.vault.SwapExactInputSingle(env.operator, env.usdc, env.weth, testFeeTier, big.NewInt(600), big.NewInt(3))
	assert.NoError(t, err)
	assert.Equal(t, big.NewInt(3), out)

	// custody moves on both legs
	usdcCustody, _ := env.vault.CustodyOf(env.usdc)
	assert.Equal(t, big.NewInt(400), usdcCustody)
	wethCustody, _ := env.vault.CustodyOf(env.weth)
	assert.Equal(t, big.NewInt(3), wethCustody)

	// principal out, non-principal in: a buy against the weth entry
	entry, _ := env.vault.AssetLedgerOf(env.weth)
	assert.Equal(t, big.NewInt(3), entry.TotalBought)
	assert.Equal(t, big.NewInt(600), entry.PrincipalSpent)
	assert.Equal(t, int64(0), entry.TotalSold.Int64())

	ev, ok := env.recorder.Last().(*agreement.SwappedEvent)
	assert.True(t, ok)
	assert.Equal(t, big.NewInt(600), ev.AmountIn)
	assert.Equal(t, big.NewInt(3), ev.AmountOut)
}

func TestSwapSellSide(t *testing.T) {
	env := newTestEnv(t)
	assert.NoError(t, env.vault.Deposit(env.stranger, env.weth, big.NewInt(5)))
	env.router.SetQuote(env.weth, env.usdc, big.NewInt(900))

	_, err := env.vault.SwapExactInputSingle(env.operator, env.weth, env.usdc, testFeeTier, big.NewInt(2), big.NewInt(900))
	assert.NoError(t, err)

	// non-principal out, principal in: a sell against the weth entry
	entry, _ := env.vault.AssetLedgerOf(env.weth)
	assert.Equal(t, big.NewInt(2), entry.TotalSold)
	assert.Equal(t, big.NewInt(900), entry.PrincipalReceived)
	assert.Equal(t, int64(0), entry.TotalBought.Int64())

	usdcCustody, _ := env.vault.CustodyOf(env.usdc)
	assert.Equal(t, big.NewInt(900), usdcCustody)
}

func TestSwapInsufficientOutput(t *testing.T) {
	env := newTestEnv(t)
	assert.NoError(t, env.vault.Deposit(env.stranger, env.usdc, big.NewInt(2000)))
	env.router.SetQuote(env.usdc, env.weth, big.NewInt(999))

	before := env.recorder.Len()
	_, err := env.vault.SwapExactInputSingle(env.operator, env.usdc, env.weth, testFeeTier, big.NewInt(2000), big.NewInt(1000))

	var insuff *InsufficientOutputError
	assert.ErrorAs(t, err, &insuff)
	assert.Equal(t, big.NewInt(1000), insuff.Expected)
	assert.Equal(t, big.NewInt(999), insuff.Actual)

	// balances as if the swap never happened
	usdcCustody, _ := env.vault.CustodyOf(env.usdc)
	assert.Equal(t, big.NewInt(2000), usdcCustody)
	wethCustody, _ := env.vault.CustodyOf(env.weth)
	assert.Equal(t, int64(0), wethCustody.Int64())
	entry, _ := env.vault.AssetLedgerOf(env.weth)
	assert.Equal(t, int64(0), entry.TotalBought.Int64())
	assert.Equal(t, before, env.recorder.Len())
}

func TestSwapInsufficientCustody(t *testing.T) {
	env := newTestEnv(t)
	assert.NoError(t, env.vault.Deposit(env.stranger, env.usdc, big.NewInt(10)))
	env.router.SetQuote(env.usdc, env.weth, big.NewInt(1))

	_, err := env.vault.SwapExactInputSingle(env.operator, env.usdc, env.weth, testFeeTier, big.NewInt(100), big.NewInt(0))
	assert.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestSwapRoleAndAmountGates(t *testing.T) {
	env := newTestEnv(t)
	assert.NoError(t, env.vault.Deposit(env.stranger, env.usdc, big.NewInt(100)))
	env.router.SetQuote(env.usdc, env.weth, big.NewInt(1))

	_, err := env.vault.SwapExactInputSingle(env.admin, env.usdc, env.weth, testFeeTier, big.NewInt(10), big.NewInt(0))
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = env.vault.SwapExactInputSingle(env.operator, env.usdc, env.weth, testFeeTier, big.NewInt(0), big.NewInt(0))
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = env.vault.SwapExactInputSingle(env.operator, env.usdc, env.weth, testFeeTier, nil, big.NewInt(0))
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = env.vault.SwapExactInputSingle(env.operator, env.usdc, env.weth, testFeeTier, big.NewInt(10), nil)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestSwapMultiHopWhitelist(t *testing.T) {
	env := newTestEnv(t)
	mid := common.RandEthAddress()
	path := router.EncodePath(
		[]ethcommon.Address{env.usdc, mid, env.weth},
		[]uint32{500, testFeeTier},
	)

	assert.NoError(t, env.vault.Deposit(env.stranger, env.usdc, big.NewInt(1000)))
	env.router.SetQuote(env.usdc, env.weth, big.NewInt(4))

	// not whitelisted yet
	_, err := env.vault.SwapExactInputMultiHop(env.operator, path, big.NewInt(500), big.NewInt(0))
	var notAllowed *PathNotAllowedError
	assert.ErrorAs(t, err, &notAllowed)
	assert.Equal(t, common.PathIdentity(path), notAllowed.Hash)

	// whitelisting is the admin's call, keyed by content hash
	assert.ErrorIs(t, env.vault.AllowSwapPath(env.operator, path), ErrUnauthorized)
	assert.NoError(t, env.vault.AllowSwapPath(env.admin, path))
	allowed, _ := env.vault.IsPathAllowed(common.PathIdentity(path))
	assert.True(t, allowed)

	out, err := env.vault.SwapExactInputMultiHop(env.operator, path, big.NewInt(500), big.NewInt(4))
	assert.NoError(t, err)
	assert.Equal(t, big.NewInt(4), out)

	// removal closes the route again
	assert.NoError(t, env.vault.DisallowSwapPath(env.admin, path))
	_, err = env.vault.SwapExactInputMultiHop(env.operator, path, big.NewInt(100), big.NewInt(0))
	assert.ErrorAs(t, err, &notAllowed)
}

func TestSwapMultiHopPathValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.vault.SwapExactInputMultiHop(env.operator, nil, big.NewInt(1), big.NewInt(0))
	assert.ErrorIs(t, err, ErrEmptyPath)

	_, err = env.vault.SwapExactInputMultiHop(env.operator, []byte{0x01, 0x02}, big.NewInt(1), big.NewInt(0))
	assert.ErrorIs(t, err, router.ErrInvalidPath)

	assert.ErrorIs(t, env.vault.AllowSwapPath(env.admin, nil), ErrEmptyPath)
	assert.ErrorIs(t, env.vault.DisallowSwapPath(env.admin, nil), ErrEmptyPath)
}

func TestSwapSingleHopPolicyFlag(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.WhitelistSingleHop = true

	assert.NoError(t, env.vault.Deposit(env.stranger, env.usdc, big.NewInt(1000)))
	env.router.SetQuote(env.usdc, env.weth, big.NewInt(2))

	// under the policy flag, single hops need the same whitelist entry
	_, err := env.vault.SwapExactInputSingle(env.operator, env.usdc, env.weth, testFeeTier, big.NewInt(100), big.NewInt(0))
	var notAllowed *PathNotAllowedError
	assert.ErrorAs(t, err, &notAllowed)

	single := router.EncodeSingleHop(env.usdc, env.weth, testFeeTier)
	assert.NoError(t, env.vault.AllowSwapPath(env.admin, single))

	_, err = env.vault.SwapExactInputSingle(env.operator, env.usdc, env.weth, testFeeTier, big.NewInt(100), big.NewInt(2))
	assert.NoError(t, err)

	// a different fee tier is a different path
	_, err = env.vault.SwapExactInputSingle(env.operator, env.usdc, env.weth, 500, big.NewInt(100), big.NewInt(0))
	assert.ErrorAs(t, err, &notAllowed)
}

func TestSwapReentrancyBlocked(t *testing.T) {
	env := newTestEnv(t)
	assert.NoError(t, env.vault.Deposit(env.stranger, env.usdc, big.NewInt(1000)))
	env.router.SetQuote(env.usdc, env.weth, big.NewInt(5))

	// the router calls back into the vault mid-swap; the guard rejects it
	// and the rejection aborts the whole swap
	env.router.Callback = func() error {
		return env.vault.Deposit(env.stranger, env.usdc, big.NewInt(1))
	}

	_, err := env.vault.SwapExactInputSingle(env.operator, env.usdc, env.weth, testFeeTier, big.NewInt(100), big.NewInt(0))
	assert.ErrorIs(t, err, ErrReentrantCall)

	custody, _ := env.vault.CustodyOf(env.usdc)
	assert.Equal(t, big.NewInt(1000), custody)
}
