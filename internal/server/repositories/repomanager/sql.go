// Package repomanager vends repositories bound to a *sql.DB or *sql.Tx and
// runs the embedded goose migrations for the chosen SQL dialect.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/vignaraja/internal/dbx"
	"github.com/dmitrijs2005/vignaraja/internal/server/migrations"
	"github.com/dmitrijs2005/vignaraja/internal/server/repositories/documents"
	"github.com/pressly/goose/v3"
)

const (
	DialectPostgres = "pgx"
	DialectSQLite   = "sqlite3"
)

// SQLRepositoryManager serves both supported dialects.
type SQLRepositoryManager struct {
	dialect string
}

func NewPostgresRepositoryManager() *SQLRepositoryManager {
	return &SQLRepositoryManager{dialect: DialectPostgres}
}

func NewSQLiteRepositoryManager() *SQLRepositoryManager {
	return &SQLRepositoryManager{dialect: DialectSQLite}
}

// Documents returns a documents.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Documents(db dbx.DBTX) documents.Repository {
	if m.dialect == DialectSQLite {
		return documents.NewSQLiteRepository(db)
	}
	return documents.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations with the manager's dialect.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(m.dialect); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	return gooseUpContext(ctx, db, ".")
}
