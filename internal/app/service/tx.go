package service

import (
	"database/sql"

	"gorm.io/gorm"
)

// serializableTx returns the strictest isolation the dialect supports.
// SQLite transactions are already serializable and its driver rejects an
// explicit isolation level.
func serializableTx(db *gorm.DB) *sql.TxOptions {
	if db.Dialector.Name() == "sqlite" {
		return nil
	}
	return &sql.TxOptions{Isolation: sql.LevelSerializable}
}
