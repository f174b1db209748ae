package ledger

import "strings"

var (
	strZeroBytes32 = strings.Repeat("0", 64)

	// live holdings per asset. Amounts are base-10 strings since token
	// amounts overflow sqlite integers.
	custodyTable = `CREATE TABLE IF NOT EXISTS custody (
		asset CHAR(40) PRIMARY KEY NOT NULL,
		amount TEXT NOT NULL DEFAULT '0'
	);`

	// cumulative audit counters per principal asset. Monotone by
	// construction: rows are only ever incremented, never decremented.
	principalTable = `CREATE TABLE IF NOT EXISTS principal_account (
		asset CHAR(40) PRIMARY KEY NOT NULL,
		total_deposited TEXT NOT NULL DEFAULT '0',
		total_withdrawn TEXT NOT NULL DEFAULT '0',
		total_bridged_in TEXT NOT NULL DEFAULT '0',
		total_bridged_out TEXT NOT NULL DEFAULT '0'
	);`

	// cumulative trade counters per non-principal asset, created lazily
	// on first trade.
	assetLedgerTable = `CREATE TABLE IF NOT EXISTS asset_ledger (
		asset CHAR(40) PRIMARY KEY NOT NULL,
		total_bought TEXT NOT NULL DEFAULT '0',
		total_sold TEXT NOT NULL DEFAULT '0',
		principal_spent TEXT NOT NULL DEFAULT '0',
		principal_received TEXT NOT NULL DEFAULT '0'
	);`

	// the replay guard: identities of settled attestations.
	processedTable = `CREATE TABLE IF NOT EXISTS processed_vaa (
		id CHAR(64) PRIMARY KEY NOT NULL,
		CONSTRAINT chk_id CHECK (id != '` + strZeroBytes32 + `')
	);`

	// approved multi-hop swap routes; presence of the hash means allowed.
	swapPathTable = `CREATE TABLE IF NOT EXISTS swap_path (
		path_hash CHAR(64) PRIMARY KEY NOT NULL,
		CONSTRAINT chk_path_hash CHECK (path_hash != '` + strZeroBytes32 + `')
	);`

	// explicit capability map, no cross-role inheritance.
	roleTable = `CREATE TABLE IF NOT EXISTS role (
		account CHAR(40) NOT NULL,
		role VARCHAR(10) NOT NULL,
		PRIMARY KEY (account, role),
		CONSTRAINT chk_role CHECK (role IN ('owner', 'admin', 'operator'))
	);`

	// table stores key-value pairs (pause flag and other singletons).
	// Both key and value are a 32-byte hex string without prefix '0x'
	kvTable = `CREATE TABLE IF NOT EXISTS kv (
		key CHAR(64) PRIMARY KEY NOT NULL,
		value CHAR(64) NOT NULL
	);`
)
