package repositories

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// forUpdate scopes the next query on table so the rows it reads stay locked
// until tx commits. SQL Server has no FOR UPDATE and takes the lock through
// a table hint instead.
func forUpdate(tx *gorm.DB, table string) *gorm.DB {
	if tx.Dialector.Name() == "sqlserver" {
		return tx.Table(table + " WITH (UPDLOCK, ROWLOCK)")
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
