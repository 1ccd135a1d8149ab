package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/vignaraja/internal/docstore"
	"github.com/dmitrijs2005/vignaraja/internal/logging"
	"github.com/dmitrijs2005/vignaraja/internal/server/repositories/repomanager"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// MemoryDSN selects a store without persistence.
const MemoryDSN = "memory"

// sqlOpen is a seam for tests.
var sqlOpen = sql.Open

// Backend is the served store together with what keeps it durable.
type Backend struct {
	Store     *docstore.MemoryStore
	Persister *Persister

	db     *sql.DB
	logger logging.Logger
}

// Open builds the store for dsn: "memory" (or empty) keeps everything in
// process, a postgres:// URL or key=value string uses pgx, anything else is
// treated as a SQLite file name.
func Open(ctx context.Context, dsn, docID string, logger logging.Logger) (*Backend, error) {
	logger = logger.With("module", "storage")

	if dsn == "" || dsn == MemoryDSN {
		logger.Warn(ctx, "using in-memory store, data is lost on restart")
		return &Backend{Store: docstore.NewMemoryStore(), logger: logger}, nil
	}

	driver, repos := dialectFor(dsn)

	db, err := sqlOpen(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if err := repos.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	p := NewPersister(db, repos, docID)
	root, err := p.Load(ctx)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("load document: %w", err)
	}

	logger.Info(ctx, "document loaded", "driver", driver, "id", docID, "version", p.Version())

	store := docstore.NewMemoryStore(docstore.WithRoot(root), docstore.WithCommitter(p.Commit))
	return &Backend{Store: store, Persister: p, db: db, logger: logger}, nil
}

func dialectFor(dsn string) (string, *repomanager.SQLRepositoryManager) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") || strings.Contains(dsn, "host=") {
		return "pgx", repomanager.NewPostgresRepositoryManager()
	}
	return "sqlite", repomanager.NewSQLiteRepositoryManager()
}

// Export returns the whole tree as JSON.
func (b *Backend) Export(ctx context.Context) ([]byte, error) {
	s, err := b.Store.Get(ctx, "")
	if err != nil {
		return nil, err
	}
	return json.Marshal(s.Value)
}

// Close cancels every watch and closes the database, if any.
func (b *Backend) Close() error {
	b.Store.Close()
	if b.db == nil {
		return nil
	}
	return b.db.Close()
}
