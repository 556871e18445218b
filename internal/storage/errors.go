// internal/storage/errors.go
package storage

import "errors"

// Sentinel errors returned by the storage engine. Callers compare with
// errors.Is; nothing here is retried by the engine itself.
var (
	ErrInvalidShape          = errors.New("row does not match table shape")
	ErrColumnNotFound        = errors.New("column not found")
	ErrPrimaryKeyNotInTable  = errors.New("primary key column not in table")
	ErrPrimaryKeyAlreadySet  = errors.New("primary key already set")
	ErrUnknownType           = errors.New("unknown column type")
	ErrTableNotFound         = errors.New("table not found")
	ErrTableAlreadyExists    = errors.New("table already exists")
	ErrInvalidCondition      = errors.New("invalid filter condition")
	ErrCorruptedDatabase     = errors.New("corrupted database: missing cols manifest")
	ErrBadValueLiteral       = errors.New("value cannot be coerced to column type")
	ErrNoPrimaryKey          = errors.New("table has no primary key")
	ErrDatabaseLocked        = errors.New("database directory is locked by another process")
)
