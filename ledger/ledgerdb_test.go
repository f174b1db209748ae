package ledger

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/crossyield-io/vault-go/agreement"
	"github.com/crossyield-io/vault-go/common"
)

func TestDepositWithdraw(t *testing.T) {
	ldb, sqlDB := NewMemoryLedgerDB()
	defer func() {
		sqlDB.Close()
		ldb.Close()
	}()

	usdc := common.RandEthAddress()

	assert.NoError(t, ldb.ApplyDeposit(usdc, big.NewInt(1000)))
	assert.NoError(t, ldb.ApplyDeposit(usdc, big.NewInt(500)))

	custody, err := ldb.CustodyOf(usdc)
	assert.NoError(t, err)
	assert.Equal(t, big.NewInt(1500), custody)

	acc, err := ldb.PrincipalAccountOf(usdc)
	assert.NoError(t, err)
	assert.Equal(t, big.NewInt(1500), acc.TotalDeposited)
	assert.Equal(t, int64(0), acc.TotalWithdrawn.Int64())

	assert.NoError(t, ldb.ApplyWithdraw(usdc, big.NewInt(1500)))
	custody, err = ldb.CustodyOf(usdc)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), custody.Int64())

	// counters are audit trails: deposited stays put
	acc, err = ldb.PrincipalAccountOf(usdc)
	assert.NoError(t, err)
	assert.Equal(t, big.NewInt(1500), acc.TotalDeposited)
	assert.Equal(t, big.NewInt(1500), acc.TotalWithdrawn)
}

func TestWithdrawOverCustody(t *testing.T) {
	ldb, sqlDB := NewMemoryLedgerDB()
	defer func() {
		sqlDB.Close()
		ldb.Close()
	}()

	usdt := common.RandEthAddress()
	assert.NoError(t, ldb.ApplyDeposit(usdt, big.NewInt(50)))

	err := ldb.ApplyWithdraw(usdt, big.NewInt(100))
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	var balErr *InsufficientBalanceError
	assert.True(t, errors.As(err, &balErr))
	assert.Equal(t, big.NewInt(100), balErr.Requested)
	assert.Equal(t, big.NewInt(50), balErr.Available)

	// nothing moved
	custody, err := ldb.CustodyOf(usdt)
	assert.NoError(t, err)
	assert.Equal(t, big.NewInt(50), custody)
	acc, err := ldb.PrincipalAccountOf(usdt)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), acc.TotalWithdrawn.Int64())
}

func TestBridgeOutAndSettleInbound(t *testing.T) {
	ldb, sqlDB := NewMemoryLedgerDB()
	defer func() {
		sqlDB.Close()
		ldb.Close()
	}()

	usdc := common.RandEthAddress()
	assert.NoError(t, ldb.ApplyDeposit(usdc, big.NewInt(1000)))
	assert.NoError(t, ldb.ApplyBridgeOut(usdc, big.NewInt(400)))

	custody, _ := ldb.CustodyOf(usdc)
	assert.Equal(t, big.NewInt(600), custody)

	id := common.MessageIdentity(2, common.RandBytes32(), 1)
	settled := false
	err := ldb.SettleInbound(id, usdc, big.NewInt(250), func() error {
		settled = true
		return nil
	})
	assert.NoError(t, err)
	assert.True(t, settled)

	custody, _ = ldb.CustodyOf(usdc)
	assert.Equal(t, big.NewInt(850), custody)

	acc, _ := ldb.PrincipalAccountOf(usdc)
	assert.Equal(t, big.NewInt(400), acc.TotalBridgedOut)
	assert.Equal(t, big.NewInt(250), acc.TotalBridgedIn)

	// same identity again: rejected, counters frozen
	err = ldb.SettleInbound(id, usdc, big.NewInt(250), func() error { return nil })
	assert.ErrorIs(t, err, ErrAlreadyProcessed)
	custody, _ = ldb.CustodyOf(usdc)
	assert.Equal(t, big.NewInt(850), custody)

	ok, err := ldb.HasProcessed(id)
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestSettleInboundRollsBackOnSettleFailure(t *testing.T) {
	ldb, sqlDB := NewMemoryLedgerDB()
	defer func() {
		sqlDB.Close()
		ldb.Close()
	}()

	usdc := common.RandEthAddress()
	id := common.MessageIdentity(2, common.RandBytes32(), 9)

	boom := errors.New("bridge rejected settlement")
	err := ldb.SettleInbound(id, usdc, big.NewInt(100), func() error { return boom })
	assert.ErrorIs(t, err, boom)

	// the processed mark rolled back with everything else
	ok, err := ldb.HasProcessed(id)
	assert.NoError(t, err)
	assert.False(t, ok)
	custody, _ := ldb.CustodyOf(usdc)
	assert.Equal(t, int64(0), custody.Int64())

	// and the message can still settle later
	assert.NoError(t, ldb.SettleInbound(id, usdc, big.NewInt(100), func() error { return nil }))
}

func TestApplySwapBuySide(t *testing.T) {
	ldb, sqlDB := NewMemoryLedgerDB()
	defer func() {
		sqlDB.Close()
		ldb.Close()
	}()

	usdc := common.RandEthAddress() // principal
	weth := common.RandEthAddress()
	assert.NoError(t, ldb.ApplyDeposit(usdc, big.NewInt(1000)))

	assert.NoError(t, ldb.ApplySwap(usdc, weth, big.NewInt(300), big.NewInt(12), true, false))

	inC, _ := ldb.CustodyOf(usdc)
	outC, _ := ldb.CustodyOf(weth)
	assert.Equal(t, big.NewInt(700), inC)
	assert.Equal(t, big.NewInt(12), outC)

	entry, err := ldb.AssetLedgerOf(weth)
	assert.NoError(t, err)
	assert.Equal(t, big.NewInt(12), entry.TotalBought)
	assert.Equal(t, big.NewInt(300), entry.PrincipalSpent)
	assert.Equal(t, int64(0), entry.TotalSold.Int64())
}

func TestApplySwapSellSide(t *testing.T) {
	ldb, sqlDB := NewMemoryLedgerDB()
	defer func() {
		sqlDB.Close()
		ldb.Close()
	}()

	usdc := common.RandEthAddress() // principal
	weth := common.RandEthAddress()
	assert.NoError(t, ldb.ApplyDeposit(usdc, big.NewInt(1000)))
	assert.NoError(t, ldb.ApplySwap(usdc, weth, big.NewInt(300), big.NewInt(12), true, false))

	assert.NoError(t, ldb.ApplySwap(weth, usdc, big.NewInt(5), big.NewInt(140), false, true))

	entry, err := ldb.AssetLedgerOf(weth)
	assert.NoError(t, err)
	assert.Equal(t, big.NewInt(5), entry.TotalSold)
	assert.Equal(t, big.NewInt(140), entry.PrincipalReceived)
	// buy-side counters untouched by the sell
	assert.Equal(t, big.NewInt(12), entry.TotalBought)
	assert.Equal(t, big.NewInt(300), entry.PrincipalSpent)

	usdcC, _ := ldb.CustodyOf(usdc)
	assert.Equal(t, big.NewInt(840), usdcC)
}

func TestApplySwapInsufficientCustody(t *testing.T) {
	ldb, sqlDB := NewMemoryLedgerDB()
	defer func() {
		sqlDB.Close()
		ldb.Close()
	}()

	usdc := common.RandEthAddress()
	weth := common.RandEthAddress()
	assert.NoError(t, ldb.ApplyDeposit(usdc, big.NewInt(10)))

	err := ldb.ApplySwap(usdc, weth, big.NewInt(100), big.NewInt(5), true, false)
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	// whole swap rolled back
	inC, _ := ldb.CustodyOf(usdc)
	outC, _ := ldb.CustodyOf(weth)
	assert.Equal(t, big.NewInt(10), inC)
	assert.Equal(t, int64(0), outC.Int64())
	entry, _ := ldb.AssetLedgerOf(weth)
	assert.Equal(t, int64(0), entry.TotalBought.Int64())
}

func TestPathWhitelist(t *testing.T) {
	ldb, sqlDB := NewMemoryLedgerDB()
	defer func() {
		sqlDB.Close()
		ldb.Close()
	}()

	hash := common.PathIdentity([]byte{0x01, 0x02, 0x03})

	ok, err := ldb.IsPathAllowed(hash)
	assert.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, ldb.AllowPath(hash))
	ok, _ = ldb.IsPathAllowed(hash)
	assert.True(t, ok)

	// idempotent
	assert.NoError(t, ldb.AllowPath(hash))

	assert.NoError(t, ldb.DisallowPath(hash))
	ok, _ = ldb.IsPathAllowed(hash)
	assert.False(t, ok)
}

func TestRoles(t *testing.T) {
	ldb, sqlDB := NewMemoryLedgerDB()
	defer func() {
		sqlDB.Close()
		ldb.Close()
	}()

	alice := common.RandEthAddress()

	ok, err := ldb.HasRole(alice, agreement.RoleAdmin)
	assert.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, ldb.GrantRole(alice, agreement.RoleAdmin))
	ok, _ = ldb.HasRole(alice, agreement.RoleAdmin)
	assert.True(t, ok)

	// no cross-role inheritance
	ok, _ = ldb.HasRole(alice, agreement.RoleOperator)
	assert.False(t, ok)

	assert.NoError(t, ldb.RevokeRole(alice, agreement.RoleAdmin))
	ok, _ = ldb.HasRole(alice, agreement.RoleAdmin)
	assert.False(t, ok)

	assert.ErrorIs(t, ldb.GrantRole(alice, agreement.Role("superuser")), ErrInvalidRole)
}

func TestPauseFlag(t *testing.T) {
	ldb, sqlDB := NewMemoryLedgerDB()
	defer func() {
		sqlDB.Close()
		ldb.Close()
	}()

	paused, err := ldb.IsPaused()
	assert.NoError(t, err)
	assert.False(t, paused)

	assert.NoError(t, ldb.SetPaused(true))
	paused, _ = ldb.IsPaused()
	assert.True(t, paused)

	assert.NoError(t, ldb.SetPaused(false))
	paused, _ = ldb.IsPaused()
	assert.False(t, paused)
}
