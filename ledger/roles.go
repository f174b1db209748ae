package ledger

import (
	"database/sql"
	"errors"

	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/crossyield-io/vault-go/agreement"
)

var ErrInvalidRole = errors.New("unknown role")

// GrantRole adds one (account, role) capability row. Granting twice is a
// no-op; there is no inheritance between roles.
func (ldb *LedgerDB) GrantRole(account ethcommon.Address, role agreement.Role) error {
	if !role.Valid() {
		return ErrInvalidRole
	}
	stmt, err := ldb.stmtCache.Prepare(
		`INSERT OR IGNORE INTO role (account, role) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	_, err = stmt.Exec(addrKey(account), string(role))
	return err
}

func (ldb *LedgerDB) RevokeRole(account ethcommon.Address, role agreement.Role) error {
	if !role.Valid() {
		return ErrInvalidRole
	}
	stmt, err := ldb.stmtCache.Prepare(
		`DELETE FROM role WHERE account = ? AND role = ?`)
	if err != nil {
		return err
	}
	_, err = stmt.Exec(addrKey(account), string(role))
	return err
}

// HasRole is a pure lookup into the capability map.
func (ldb *LedgerDB) HasRole(account ethcommon.Address, role agreement.Role) (bool, error) {
	stmt, err := ldb.stmtCache.Prepare(
		`SELECT 1 FROM role WHERE account = ? AND role = ?`)
	if err != nil {
		return false, err
	}
	var one int
	if err := stmt.QueryRow(addrKey(account), string(role)).Scan(&one); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
