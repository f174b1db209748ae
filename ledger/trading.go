package ledger

import (
	"database/sql"
	"fmt"
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/crossyield-io/vault-go/common"
)

// ApplySwap commits a completed swap: debit tokenIn custody (balance checked
// inside the transaction), credit tokenOut custody, and update the trading
// counters on the non-principal side of the trade. Called once per swap,
// after the router reported its actual output.
//
// buy  (tokenIn is principal):  total_bought[tokenOut] += actualOut,
//
//	principal_spent[tokenOut] += amountIn
//
// sell (tokenOut is principal): total_sold[tokenIn] += amountIn,
//
//	principal_received[tokenIn] += actualOut
//
// A swap between two non-principal assets moves custody only.
func (ldb *LedgerDB) ApplySwap(
	tokenIn, tokenOut ethcommon.Address,
	amountIn, actualOut *big.Int,
	tokenInIsPrincipal, tokenOutIsPrincipal bool,
) error {
	if amountIn.Sign() < 0 || actualOut.Sign() < 0 {
		return ErrNegativeAmount
	}
	return ldb.stmtCache.ExecTx(func(tx *sql.Tx) error {
		if err := ldb.debitCustodyTx(tx, tokenIn, amountIn); err != nil {
			return err
		}
		if err := ldb.creditCustodyTx(tx, tokenOut, actualOut); err != nil {
			return err
		}

		switch {
		case tokenInIsPrincipal && !tokenOutIsPrincipal:
			if err := ldb.bumpAssetLedgerTx(tx, tokenOut, colTotalBought, actualOut); err != nil {
				return err
			}
			return ldb.bumpAssetLedgerTx(tx, tokenOut, colPrincipalSpent, amountIn)
		case tokenOutIsPrincipal && !tokenInIsPrincipal:
			if err := ldb.bumpAssetLedgerTx(tx, tokenIn, colTotalSold, amountIn); err != nil {
				return err
			}
			return ldb.bumpAssetLedgerTx(tx, tokenIn, colPrincipalReceived, actualOut)
		}
		return nil
	})
}

const (
	colTotalBought       = "total_bought"
	colTotalSold         = "total_sold"
	colPrincipalSpent    = "principal_spent"
	colPrincipalReceived = "principal_received"
)

func (ldb *LedgerDB) bumpAssetLedgerTx(tx *sql.Tx, asset ethcommon.Address, column string, amount *big.Int) error {
	// lazily created on the asset's first trade
	insert, err := ldb.stmtCache.PrepareTx(tx,
		`INSERT OR IGNORE INTO asset_ledger (asset) VALUES (?)`)
	if err != nil {
		return err
	}
	if _, err := insert.Exec(addrKey(asset)); err != nil {
		return err
	}

	sel, err := ldb.stmtCache.PrepareTx(tx,
		`SELECT `+column+` FROM asset_ledger WHERE asset = ?`)
	if err != nil {
		return err
	}
	var cur string
	if err := sel.QueryRow(addrKey(asset)).Scan(&cur); err != nil {
		return err
	}
	curInt := common.DecStrToBigInt(cur)
	if curInt == nil {
		return fmt.Errorf("stored trading counter is invalid: %q", cur)
	}

	upd, err := ldb.stmtCache.PrepareTx(tx,
		`UPDATE asset_ledger SET `+column+` = ? WHERE asset = ?`)
	if err != nil {
		return err
	}
	_, err = upd.Exec(new(big.Int).Add(curInt, amount).String(), addrKey(asset))
	return err
}

// AssetLedgerOf returns the trading counters for an asset, all zero if the
// asset never traded.
func (ldb *LedgerDB) AssetLedgerOf(asset ethcommon.Address) (*AssetLedgerEntry, error) {
	stmt, err := ldb.stmtCache.Prepare(
		`SELECT total_bought, total_sold, principal_spent, principal_received
		 FROM asset_ledger WHERE asset = ?`)
	if err != nil {
		return nil, err
	}

	entry := &AssetLedgerEntry{
		Asset:             asset,
		TotalBought:       new(big.Int),
		TotalSold:         new(big.Int),
		PrincipalSpent:    new(big.Int),
		PrincipalReceived: new(big.Int),
	}

	var bought, sold, spent, received string
	if err := stmt.QueryRow(addrKey(asset)).Scan(&bought, &sold, &spent, &received); err != nil {
		if err == sql.ErrNoRows {
			return entry, nil
		}
		return nil, err
	}

	for _, pair := range []struct {
		raw string
		dst **big.Int
	}{
		{bought, &entry.TotalBought},
		{sold, &entry.TotalSold},
		{spent, &entry.PrincipalSpent},
		{received, &entry.PrincipalReceived},
	} {
		v := common.DecStrToBigInt(pair.raw)
		if v == nil {
			return nil, fmt.Errorf("stored trading counter is invalid: %q", pair.raw)
		}
		*pair.dst = v
	}

	return entry, nil
}
