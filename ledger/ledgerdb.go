// Package ledger is the persistent state of the vault: custody balances,
// the principal and asset accounting counters, the attestation replay set,
// the swap path whitelist, the role map and the pause flag. Every mutating
// method commits atomically; a failed call leaves no partial state.
package ledger

import (
	"database/sql"
	"errors"
	"fmt"
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/crossyield-io/vault-go/common"
	"github.com/crossyield-io/vault-go/database"
)

var (
	KeyVaultPaused = crypto.Keccak256Hash([]byte("KeyVaultPaused"))

	kvTrue  = common.HexStrToBytes32("0x01")
	kvFalse = [32]byte{}

	ErrAlreadyProcessed = errors.New("attestation already settled")
	ErrNegativeAmount   = errors.New("amount must not be negative")
)

// InsufficientBalanceError reports a custody shortfall. Matchable with
// errors.Is against ErrInsufficientBalance.
type InsufficientBalanceError struct {
	Asset     ethcommon.Address
	Requested *big.Int
	Available *big.Int
}

var ErrInsufficientBalance = errors.New("insufficient custody balance")

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient custody balance: asset=%s requested=%s available=%s",
		e.Asset, e.Requested, e.Available)
}

func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}

// PrincipalAccount mirrors one row of the principal_account table.
type PrincipalAccount struct {
	Asset           ethcommon.Address
	TotalDeposited  *big.Int
	TotalWithdrawn  *big.Int
	TotalBridgedIn  *big.Int
	TotalBridgedOut *big.Int
}

// AssetLedgerEntry mirrors one row of the asset_ledger table.
type AssetLedgerEntry struct {
	Asset             ethcommon.Address
	TotalBought       *big.Int
	TotalSold         *big.Int
	PrincipalSpent    *big.Int
	PrincipalReceived *big.Int
}

type LedgerDB struct {
	stmtCache *database.StmtCache
}

func NewLedgerDB(db *sql.DB) (*LedgerDB, error) {
	// 1. Create the tables.
	schema := custodyTable + principalTable + assetLedgerTable +
		processedTable + swapPathTable + roleTable + kvTable
	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}

	// 2. A stmt cache + db.
	return &LedgerDB{
		stmtCache: database.NewStmtCache(db),
	}, nil
}

func (ldb *LedgerDB) Close() {
	ldb.stmtCache.Clear()
}

func addrKey(addr ethcommon.Address) string {
	return common.ByteSliceToPureHexStr(addr.Bytes())
}

// -- custody --

func (ldb *LedgerDB) CustodyOf(asset ethcommon.Address) (*big.Int, error) {
	stmt, err := ldb.stmtCache.Prepare(`SELECT amount FROM custody WHERE asset = ?`)
	if err != nil {
		return nil, err
	}
	var amount string
	if err := stmt.QueryRow(addrKey(asset)).Scan(&amount); err != nil {
		if err == sql.ErrNoRows {
			return new(big.Int), nil
		}
		return nil, err
	}
	v := common.DecStrToBigInt(amount)
	if v == nil {
		return nil, fmt.Errorf("stored custody amount is invalid: %q", amount)
	}
	return v, nil
}

func (ldb *LedgerDB) custodyOfTx(tx *sql.Tx, asset ethcommon.Address) (*big.Int, error) {
	stmt, err := ldb.stmtCache.PrepareTx(tx, `SELECT amount FROM custody WHERE asset = ?`)
	if err != nil {
		return nil, err
	}
	var amount string
	if err := stmt.QueryRow(addrKey(asset)).Scan(&amount); err != nil {
		if err == sql.ErrNoRows {
			return new(big.Int), nil
		}
		return nil, err
	}
	v := common.DecStrToBigInt(amount)
	if v == nil {
		return nil, fmt.Errorf("stored custody amount is invalid: %q", amount)
	}
	return v, nil
}

func (ldb *LedgerDB) setCustodyTx(tx *sql.Tx, asset ethcommon.Address, amount *big.Int) error {
	stmt, err := ldb.stmtCache.PrepareTx(tx,
		`INSERT OR REPLACE INTO custody (asset, amount) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	_, err = stmt.Exec(addrKey(asset), amount.String())
	return err
}

// creditCustodyTx adds amount to the asset's live holdings.
func (ldb *LedgerDB) creditCustodyTx(tx *sql.Tx, asset ethcommon.Address, amount *big.Int) error {
	cur, err := ldb.custodyOfTx(tx, asset)
	if err != nil {
		return err
	}
	return ldb.setCustodyTx(tx, asset, new(big.Int).Add(cur, amount))
}

// debitCustodyTx removes amount from the asset's live holdings. The balance
// check happens here, inside the transaction, immediately before the write.
func (ldb *LedgerDB) debitCustodyTx(tx *sql.Tx, asset ethcommon.Address, amount *big.Int) error {
	cur, err := ldb.custodyOfTx(tx, asset)
	if err != nil {
		return err
	}
	if cur.Cmp(amount) < 0 {
		return &InsufficientBalanceError{Asset: asset, Requested: amount, Available: cur}
	}
	return ldb.setCustodyTx(tx, asset, new(big.Int).Sub(cur, amount))
}

// -- pause flag --

func (ldb *LedgerDB) IsPaused() (bool, error) {
	v, ok, err := ldb.getKeyedValue(KeyVaultPaused)
	if err != nil {
		return false, err
	}
	return ok && v == kvTrue, nil
}

func (ldb *LedgerDB) SetPaused(paused bool) error {
	if paused {
		return ldb.setKeyedValue(KeyVaultPaused, kvTrue)
	}
	return ldb.setKeyedValue(KeyVaultPaused, kvFalse)
}

func (ldb *LedgerDB) getKeyedValue(key ethcommon.Hash) ([32]byte, bool, error) {
	stmt, err := ldb.stmtCache.Prepare(`SELECT value FROM kv WHERE key = ?`)
	if err != nil {
		return [32]byte{}, false, err
	}

	var value string
	keyHex := key.String()[2:]
	if err := stmt.QueryRow(keyHex).Scan(&value); err != nil {
		if err == sql.ErrNoRows {
			return [32]byte{}, false, nil
		}
		return [32]byte{}, false, err
	}

	return common.HexStrToBytes32(value), true, nil
}

func (ldb *LedgerDB) setKeyedValue(key ethcommon.Hash, value [32]byte) error {
	stmt, err := ldb.stmtCache.Prepare(`INSERT OR REPLACE INTO kv (key, value) VALUES (?, ?)`)
	if err != nil {
		return err
	}

	keyHex := key.String()[2:]
	valueHex := common.ByteSliceToPureHexStr(value[:])
	if _, err := stmt.Exec(keyHex, valueHex); err != nil {
		return err
	}

	return nil
}
