// Package services holds the community client's core: the session, the
// membership registry, the payment ledger with its vault total, and the
// shared gallery, all kept in one document store.
package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/vignaraja/internal/docstore"
	"github.com/dmitrijs2005/vignaraja/internal/logging"
)

// DefaultRoot is the store path everything lives under.
const DefaultRoot = "appData"

const (
	usersKey   = "users"
	paidKey    = "paid"
	galleryKey = "ganeshaImages"
	vaultKey   = "vaultAmount"
)

// Layout maps records to store paths below Root.
type Layout struct {
	Root string
}

func NewLayout(root string) Layout {
	root = docstore.Join(root)
	if root == "" {
		root = DefaultRoot
	}
	return Layout{Root: root}
}

func (l Layout) Users() string {
	return docstore.Join(l.Root, usersKey)
}

func (l Layout) User(name string) string {
	return docstore.Join(l.Root, usersKey, name)
}

func (l Layout) UserPaid(name string) string {
	return docstore.Join(l.Root, usersKey, name, "paid")
}

func (l Layout) UserImg(name string) string {
	return docstore.Join(l.Root, usersKey, name, "img")
}

func (l Layout) Paid() string {
	return docstore.Join(l.Root, paidKey)
}

func (l Layout) PaidOf(name string) string {
	return docstore.Join(l.Root, paidKey, name)
}

func (l Layout) Gallery() string {
	return docstore.Join(l.Root, galleryKey)
}

func (l Layout) Image(key string) string {
	return docstore.Join(l.Root, galleryKey, key)
}

func (l Layout) Vault() string {
	return docstore.Join(l.Root, vaultKey)
}

// checkKey rejects values that cannot be used as one path segment.
func checkKey(kind, key string) error {
	if key == "" {
		return validationf("%s is required", kind)
	}
	if strings.Contains(key, "/") {
		return validationf("%s must not contain '/'", kind)
	}
	return nil
}

// EnsureStructure creates the empty registries when the root does not exist
// yet. The vault override is left unset so the total starts out computed.
// Failures are logged and not returned: the structure may well exist already.
func EnsureStructure(ctx context.Context, store docstore.Store, l Layout, logger logging.Logger) {
	snap, err := store.Get(ctx, l.Root)
	if err != nil {
		logger.Warn(ctx, "DB init error", "err", err)
		return
	}
	if snap.Exists {
		return
	}

	err = store.Set(ctx, l.Root, map[string]any{
		usersKey:   map[string]any{},
		paidKey:    map[string]any{},
		galleryKey: map[string]any{},
	})
	if err != nil {
		logger.Warn(ctx, "DB init error", "err", err)
		return
	}
	logger.Info(ctx, "initial structure created", "root", l.Root)
}
