// Package database manages the SQLite connection for inputcore.
//
// It wraps database/sql with lifecycle management (WAL mode, busy
// timeout, file permissions) and owns the schema used by the sample
// history repository. The schema is embedded and applied idempotently
// by Migrate at startup.
package database
