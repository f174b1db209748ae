package ledger

import (
	"database/sql"
	"fmt"
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/crossyield-io/vault-go/common"
)

// The four principal counters are independent audit trails, not a balance
// formula: withdraw does not touch total_deposited, bridge-out does not
// touch total_withdrawn. Live holdings are tracked in custody alone.

const (
	colTotalDeposited  = "total_deposited"
	colTotalWithdrawn  = "total_withdrawn"
	colTotalBridgedIn  = "total_bridged_in"
	colTotalBridgedOut = "total_bridged_out"
)

// ApplyDeposit credits custody and the deposited counter in one commit.
// Zero amounts are applied as written; the caller decides their meaning.
func (ldb *LedgerDB) ApplyDeposit(asset ethcommon.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	return ldb.stmtCache.ExecTx(func(tx *sql.Tx) error {
		if err := ldb.creditCustodyTx(tx, asset, amount); err != nil {
			return err
		}
		return ldb.bumpPrincipalTx(tx, asset, colTotalDeposited, amount)
	})
}

// ApplyWithdraw debits custody (checked against live holdings inside the
// same transaction) and bumps the withdrawn counter.
func (ldb *LedgerDB) ApplyWithdraw(asset ethcommon.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	return ldb.stmtCache.ExecTx(func(tx *sql.Tx) error {
		if err := ldb.debitCustodyTx(tx, asset, amount); err != nil {
			return err
		}
		return ldb.bumpPrincipalTx(tx, asset, colTotalWithdrawn, amount)
	})
}

// ApplyBridgeOut moves custody to the bridge and bumps the bridged-out
// counter.
func (ldb *LedgerDB) ApplyBridgeOut(asset ethcommon.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	return ldb.stmtCache.ExecTx(func(tx *sql.Tx) error {
		if err := ldb.debitCustodyTx(tx, asset, amount); err != nil {
			return err
		}
		return ldb.bumpPrincipalTx(tx, asset, colTotalBridgedOut, amount)
	})
}

// SettleInbound performs the whole inbound settlement as one unit:
// mark the attestation processed, run the external settle call, then
// credit custody and the bridged-in counter. The processed mark lands
// before the external call; any failure rolls the entire unit back.
func (ldb *LedgerDB) SettleInbound(id ethcommon.Hash, token ethcommon.Address, amount *big.Int, settle func() error) error {
	if amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	return ldb.stmtCache.ExecTx(func(tx *sql.Tx) error {
		if err := ldb.markProcessedTx(tx, id); err != nil {
			return err
		}
		if err := settle(); err != nil {
			return err
		}
		if err := ldb.creditCustodyTx(tx, token, amount); err != nil {
			return err
		}
		return ldb.bumpPrincipalTx(tx, token, colTotalBridgedIn, amount)
	})
}

func (ldb *LedgerDB) bumpPrincipalTx(tx *sql.Tx, asset ethcommon.Address, column string, amount *big.Int) error {
	insert, err := ldb.stmtCache.PrepareTx(tx,
		`INSERT OR IGNORE INTO principal_account (asset) VALUES (?)`)
	if err != nil {
		return err
	}
	if _, err := insert.Exec(addrKey(asset)); err != nil {
		return err
	}

	// column names come from the consts above, never from input
	sel, err := ldb.stmtCache.PrepareTx(tx,
		`SELECT `+column+` FROM principal_account WHERE asset = ?`)
	if err != nil {
		return err
	}
	var cur string
	if err := sel.QueryRow(addrKey(asset)).Scan(&cur); err != nil {
		return err
	}
	curInt := common.DecStrToBigInt(cur)
	if curInt == nil {
		return fmt.Errorf("stored principal counter is invalid: %q", cur)
	}

	upd, err := ldb.stmtCache.PrepareTx(tx,
		`UPDATE principal_account SET `+column+` = ? WHERE asset = ?`)
	if err != nil {
		return err
	}
	_, err = upd.Exec(new(big.Int).Add(curInt, amount).String(), addrKey(asset))
	return err
}

// PrincipalAccountOf returns the counters for an asset, all zero if the
// asset never moved.
func (ldb *LedgerDB) PrincipalAccountOf(asset ethcommon.Address) (*PrincipalAccount, error) {
	stmt, err := ldb.stmtCache.Prepare(
		`SELECT total_deposited, total_withdrawn, total_bridged_in, total_bridged_out
		 FROM principal_account WHERE asset = ?`)
	if err != nil {
		return nil, err
	}

	acc := &PrincipalAccount{
		Asset:           asset,
		TotalDeposited:  new(big.Int),
		TotalWithdrawn:  new(big.Int),
		TotalBridgedIn:  new(big.Int),
		TotalBridgedOut: new(big.Int),
	}

	var dep, wd, bin, bout string
	if err := stmt.QueryRow(addrKey(asset)).Scan(&dep, &wd, &bin, &bout); err != nil {
		if err == sql.ErrNoRows {
			return acc, nil
		}
		return nil, err
	}

	for _, pair := range []struct {
		raw string
		dst **big.Int
	}{
		{dep, &acc.TotalDeposited},
		{wd, &acc.TotalWithdrawn},
		{bin, &acc.TotalBridgedIn},
		{bout, &acc.TotalBridgedOut},
	} {
		v := common.DecStrToBigInt(pair.raw)
		if v == nil {
			return nil, fmt.Errorf("stored principal counter is invalid: %q", pair.raw)
		}
		*pair.dst = v
	}

	return acc, nil
}
