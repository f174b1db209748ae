package ledger

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
	logger "github.com/sirupsen/logrus"
)

// NewMemoryLedgerDB creates a ledger on an in-memory sqlite db.
// Testing facility, also used by the vault and reporter tests.
func NewMemoryLedgerDB() (*LedgerDB, *sql.DB) {
	sqlDB := getMemoryDB()
	ldb, err := NewLedgerDB(sqlDB)
	if err != nil {
		logger.Fatal(err)
	}
	return ldb, sqlDB
}

func getMemoryDB() *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		logger.Fatal(err)
	}
	// every pooled connection would get its own empty memory db
	db.SetMaxOpenConns(1)
	return db
}
