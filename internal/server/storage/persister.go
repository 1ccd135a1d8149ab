// Package storage makes the in-memory document store durable. The whole tree
// is one row in the documents table; every accepted mutation rewrites it
// inside a transaction guarded by the row version.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/vignaraja/internal/common"
	"github.com/dmitrijs2005/vignaraja/internal/dbx"
	"github.com/dmitrijs2005/vignaraja/internal/server/models"
	"github.com/dmitrijs2005/vignaraja/internal/server/repositories/repomanager"
)

type Persister struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
	id    string

	mu      sync.Mutex
	version int64
}

func NewPersister(db *sql.DB, repos repomanager.RepositoryManager, id string) *Persister {
	return &Persister{db: db, repos: repos, id: id}
}

// Load reads the stored tree. A missing row yields a nil tree.
func (p *Persister) Load(ctx context.Context) (any, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	doc, err := p.repos.Documents(p.db).Get(ctx, p.id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			p.version = 0
			return nil, nil
		}
		return nil, err
	}

	var root any
	if err := json.Unmarshal(doc.Body, &root); err != nil {
		return nil, fmt.Errorf("decode document %q: %w", p.id, err)
	}
	p.version = doc.Version
	return root, nil
}

// Commit stores root. It is used as the docstore.CommitFunc of the served
// store, so a failure here rejects the mutation.
func (p *Persister) Commit(ctx context.Context, root any) error {
	body, err := json.Marshal(root)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	var next int64
	err = dbx.WithTx(ctx, p.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := p.repos.Documents(tx)
		doc := &models.Document{ID: p.id, Body: body}

		if p.version == 0 {
			if err := repo.Create(ctx, doc); err != nil {
				return err
			}
			next = doc.Version
			return nil
		}

		v, err := repo.Update(ctx, doc, p.version)
		if err != nil {
			return err
		}
		next = v
		return nil
	})
	if err != nil {
		return fmt.Errorf("persist document %q: %w", p.id, err)
	}

	p.version = next
	return nil
}

// Version returns the row version of the last load or commit.
func (p *Persister) Version() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.version
}
