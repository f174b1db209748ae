package ledger

import (
	"database/sql"

	ethcommon "github.com/ethereum/go-ethereum/common"
)

// AllowPath records a path hash as approved. Re-allowing is a no-op.
func (ldb *LedgerDB) AllowPath(pathHash ethcommon.Hash) error {
	stmt, err := ldb.stmtCache.Prepare(
		`INSERT OR IGNORE INTO swap_path (path_hash) VALUES (?)`)
	if err != nil {
		return err
	}
	_, err = stmt.Exec(pathHash.String()[2:])
	return err
}

// DisallowPath removes a path hash. Removing an absent hash is a no-op.
func (ldb *LedgerDB) DisallowPath(pathHash ethcommon.Hash) error {
	stmt, err := ldb.stmtCache.Prepare(`DELETE FROM swap_path WHERE path_hash = ?`)
	if err != nil {
		return err
	}
	_, err = stmt.Exec(pathHash.String()[2:])
	return err
}

func (ldb *LedgerDB) IsPathAllowed(pathHash ethcommon.Hash) (bool, error) {
	stmt, err := ldb.stmtCache.Prepare(`SELECT 1 FROM swap_path WHERE path_hash = ?`)
	if err != nil {
		return false, err
	}
	var one int
	if err := stmt.QueryRow(pathHash.String()[2:]).Scan(&one); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
