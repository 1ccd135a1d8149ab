package documents

import (
	"context"

	"github.com/dmitrijs2005/vignaraja/internal/server/models"
)

type Repository interface {
	// Get returns common.ErrorNotFound when no document has the id.
	Get(ctx context.Context, id string) (*models.Document, error)
	// Create stores doc with version 1.
	Create(ctx context.Context, doc *models.Document) error
	// Update replaces the body if the stored version still equals
	// expectedVersion and returns the new version; otherwise it returns
	// common.ErrVersionConflict.
	Update(ctx context.Context, doc *models.Document, expectedVersion int64) (int64, error)
}
