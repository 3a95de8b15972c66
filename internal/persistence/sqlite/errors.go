package sqlite

import "errors"

var (
	ErrBuildQuery = errors.New("sqlite: failed to build query")
	ErrExecQuery  = errors.New("sqlite: failed to execute query")
	ErrScanRow    = errors.New("sqlite: failed to scan row")
	ErrMigration  = errors.New("sqlite: migration failed")
)
