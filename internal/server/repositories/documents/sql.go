// Package documents persists root documents in a single SQL table. The same
// queries serve PostgreSQL (pgx) and SQLite; only placeholders differ.
package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	"github.com/dmitrijs2005/vignaraja/internal/common"
	"github.com/dmitrijs2005/vignaraja/internal/dbx"
	"github.com/dmitrijs2005/vignaraja/internal/server/models"
)

const (
	getQuery = `SELECT id, body, version FROM documents
		 WHERE id = $1
		 `
	createQuery = `INSERT INTO documents (id, body, version)
		 VALUES ($1, $2, 1)
		 `
	updateQuery = `UPDATE documents SET body = $1, version = version + 1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $2 AND version = $3
		 `
)

var dollarPlaceholder = regexp.MustCompile(`\$\d+`)

type SQLRepository struct {
	db       dbx.DBTX
	question bool
}

// NewPostgresRepository binds the repository to db using $N placeholders.
func NewPostgresRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

// NewSQLiteRepository binds the repository to db using ? placeholders.
func NewSQLiteRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db, question: true}
}

func (r *SQLRepository) query(q string) string {
	if !r.question {
		return q
	}
	return dollarPlaceholder.ReplaceAllString(q, "?")
}

func (r *SQLRepository) Get(ctx context.Context, id string) (*models.Document, error) {
	doc := &models.Document{}
	var body string
	err := r.db.QueryRowContext(ctx, r.query(getQuery), id).Scan(&doc.ID, &body, &doc.Version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	doc.Body = []byte(body)
	return doc, nil
}

func (r *SQLRepository) Create(ctx context.Context, doc *models.Document) error {
	if _, err := r.db.ExecContext(ctx, r.query(createQuery), doc.ID, string(doc.Body)); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	doc.Version = 1
	return nil
}

func (r *SQLRepository) Update(ctx context.Context, doc *models.Document, expectedVersion int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.query(updateQuery), string(doc.Body), doc.ID, expectedVersion)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return 0, common.ErrVersionConflict
	}
	doc.Version = expectedVersion + 1
	return doc.Version, nil
}
