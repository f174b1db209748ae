package ledger

import (
	"database/sql"

	ethcommon "github.com/ethereum/go-ethereum/common"
	sqlite3 "github.com/mattn/go-sqlite3"
)

// HasProcessed reports whether an attestation identity is in the replay set.
func (ldb *LedgerDB) HasProcessed(id ethcommon.Hash) (bool, error) {
	stmt, err := ldb.stmtCache.Prepare(`SELECT 1 FROM processed_vaa WHERE id = ?`)
	if err != nil {
		return false, err
	}
	var one int
	if err := stmt.QueryRow(id.String()[2:]).Scan(&one); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// markProcessedTx inserts the identity into the replay set. The primary key
// turns a resubmission into ErrAlreadyProcessed instead of a second insert.
func (ldb *LedgerDB) markProcessedTx(tx *sql.Tx, id ethcommon.Hash) error {
	stmt, err := ldb.stmtCache.PrepareTx(tx, `INSERT INTO processed_vaa (id) VALUES (?)`)
	if err != nil {
		return err
	}
	if _, err := stmt.Exec(id.String()[2:]); err != nil {
		if sqliteErr, ok := err.(sqlite3.Error); ok &&
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
			return ErrAlreadyProcessed
		}
		return err
	}
	return nil
}
