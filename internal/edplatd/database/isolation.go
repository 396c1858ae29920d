package database

import "database/sql"

// Transaction isolation levels used by the repositories
const (
	// LevelDefault uses the database's default isolation level
	LevelDefault = sql.LevelDefault

	// LevelReadCommitted prevents dirty reads; row locks and unique indexes
	// carry the remaining guarantees
	LevelReadCommitted = sql.LevelReadCommitted

	// LevelSerializable provides the highest isolation
	LevelSerializable = sql.LevelSerializable
)

// ReadCommitted is the option set used by mutating repository transactions
var ReadCommitted = &TxOptions{Isolation: LevelReadCommitted}

// ReadOnly is the option set used by multi-statement reads
var ReadOnly = &TxOptions{Isolation: LevelReadCommitted, ReadOnly: true}
