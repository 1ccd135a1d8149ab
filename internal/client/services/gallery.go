package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dmitrijs2005/vignaraja/internal/client/models"
	"github.com/dmitrijs2005/vignaraja/internal/docstore"
	"github.com/dmitrijs2005/vignaraja/internal/logging"
)

// imageKeyWidth pads upload keys so that sorting them as strings is sorting
// them by time.
const imageKeyWidth = 15

type GalleryService struct {
	store   docstore.Store
	layout  Layout
	session *Session
	logger  logging.Logger
	now     func() time.Time
}

func NewGalleryService(store docstore.Store, l Layout, s *Session, logger logging.Logger) *GalleryService {
	return &GalleryService{
		store:   store,
		layout:  l,
		session: s,
		logger:  logger.With("module", "gallery"),
		now:     time.Now,
	}
}

// ImageKey returns the gallery key for an upload at t.
func ImageKey(t time.Time) string {
	return fmt.Sprintf("%0*d", imageKeyWidth, t.UnixMilli())
}

// Upload stores image under a key derived from the current time and returns
// the key. Two uploads in the same millisecond share a key; the later wins.
func (g *GalleryService) Upload(ctx context.Context, image string) (string, error) {
	if !g.session.Actor().Authenticated() {
		return "", unauthorized("please login first")
	}
	if image == "" {
		return "", validationf("image is required")
	}

	key := ImageKey(g.now())
	if err := g.store.Set(ctx, g.layout.Image(key), image); err != nil {
		return "", err
	}

	g.logger.Info(ctx, "image uploaded", "key", key)
	return key, nil
}

// sortImages orders entries by key compared as strings. Non-string values
// are skipped.
func sortImages(v any) []models.GalleryImage {
	raw, _ := v.(map[string]any)
	list := make([]models.GalleryImage, 0, len(raw))
	for key, data := range raw {
		s, ok := data.(string)
		if !ok {
			continue
		}
		list = append(list, models.GalleryImage{Key: key, Data: s})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Key < list[j].Key })
	return list
}

func (g *GalleryService) List(ctx context.Context) ([]models.GalleryImage, error) {
	snap, err := g.store.Get(ctx, g.layout.Gallery())
	if err != nil {
		return nil, err
	}
	return sortImages(snap.Value), nil
}

// Delete removes an image. Admin only; unknown keys are ignored.
func (g *GalleryService) Delete(ctx context.Context, key string) error {
	if !g.session.Actor().IsAdmin() {
		return unauthorized("admin only")
	}
	if err := checkKey("image key", key); err != nil {
		return err
	}
	if err := g.store.Remove(ctx, g.layout.Image(key)); err != nil {
		return err
	}

	g.logger.Info(ctx, "image deleted", "key", key)
	return nil
}

// Watch calls fn with the sorted gallery now and on every change.
func (g *GalleryService) Watch(ctx context.Context, fn func([]models.GalleryImage)) error {
	sub, err := g.store.Watch(ctx, g.layout.Gallery(), func(snap docstore.Snapshot) {
		fn(sortImages(snap.Value))
	})
	if err != nil {
		return err
	}
	g.session.Track(sub)
	return nil
}
