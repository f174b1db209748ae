package database

import (
	"database/sql"
	"sync"
)

// to cache prepared sql statement, which maps query string to stmt.
type StmtCache struct {
	db *sql.DB
	m  sync.Map
}

func NewStmtCache(db *sql.DB) *StmtCache {
	return &StmtCache{db: db}
}

func (sc *StmtCache) Prepare(query string) (*sql.Stmt, error) {
	cached, _ := sc.m.Load(query)
	if cached == nil {
		stmt, err := sc.db.Prepare(query)
		if err != nil {
			return nil, err
		}
		sc.m.Store(query, stmt)
		cached = stmt
	}
	return cached.(*sql.Stmt), nil
}

func (sc *StmtCache) MustPrepare(query string) *sql.Stmt {
	stmt, err := sc.Prepare(query)
	if err != nil {
		panic(err)
	}
	return stmt
}

// PrepareTx prepares on the transaction's own connection. Not cached:
// caching would prepare on a pooled connection, which can block while the
// tx holds the only one (memory dbs run with a single connection).
func (sc *StmtCache) PrepareTx(tx *sql.Tx, query string) (*sql.Stmt, error) {
	return tx.Prepare(query)
}

// Begin opens a transaction on the underlying db.
func (sc *StmtCache) Begin() (*sql.Tx, error) {
	return sc.db.Begin()
}

// ExecTx runs fn inside a transaction. Commit on nil error, rollback otherwise.
// Ledger mutations span several statements that must land together.
func (sc *StmtCache) ExecTx(fn func(tx *sql.Tx) error) error {
	tx, err := sc.db.Begin()
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (sc *StmtCache) Clear() {
	sc.m.Range(func(k, v interface{}) bool {
		_ = v.(*sql.Stmt).Close()
		sc.m.Delete(k)
		return true
	})
}
