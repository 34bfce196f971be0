package db

import (
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/syncstash/syncstash/internal/utils"
)

// InMemory opens a private in-process database. Handy for tests.
const InMemory = ":memory:"

// The gateway keeps whole object bodies in a single table, so the
// pragmas favor blob traffic: WAL lets readers proceed while a writer
// holds the lock, busy_timeout waits out writer contention instead of
// failing fast, and mmap serves large bodies without extra copies.
const objectStorePragmas = `
PRAGMA journal_mode=WAL;
PRAGMA busy_timeout=5000;
PRAGMA synchronous=NORMAL;
PRAGMA mmap_size=268435456;
`

// Open connects to the SQLite database at path, creating the file and
// its parent directory on first use.
//
// The DSN requests immediate transaction locks. Conditional writes read
// the stored revision and update the row in one transaction, and taking
// the write lock up front keeps that pair atomic rather than risking a
// busy error on lock upgrade.
func Open(path string) (*sqlx.DB, error) {
	dsn := path
	if path != InMemory {
		if err := utils.EnsureParent(path); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
		dsn = fmt.Sprintf("file:%s?_txlock=immediate&mode=rwc", path)
	}

	conn, err := sqlx.Connect(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if _, err := conn.Exec(objectStorePragmas); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	slog.Info("sqlite open", "driver", driverID, "path", path)
	return conn, nil
}
