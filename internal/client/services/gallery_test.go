package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/vignaraja/internal/client/models"
	"github.com/dmitrijs2005/vignaraja/internal/common"
	"github.com/dmitrijs2005/vignaraja/internal/docstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keys(list []models.GalleryImage) []string {
	out := make([]string, len(list))
	for i, img := range list {
		out[i] = img.Key
	}
	return out
}

func TestList_SortsKeysAsStrings(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	c := newCommunity(t, store)

	for _, k := range []string{"9", "100", "20"} {
		require.NoError(t, store.Set(ctx, "appData/ganeshaImages/"+k, "img-"+k))
	}

	list, err := c.ListImages(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"100", "20", "9"}, keys(list))
	assert.Equal(t, "img-100", list[0].Data)
}

func TestImageKey_PaddedKeysSortByTime(t *testing.T) {
	early := ImageKey(time.UnixMilli(999_999_999_999))
	late := ImageKey(time.UnixMilli(1_000_000_000_000))

	assert.Len(t, early, 15)
	assert.Equal(t, "000999999999999", early)
	assert.Less(t, early, late)
}

func TestUpload(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	c := newCommunity(t, store)
	register(t, c, "A")

	_, err := c.UploadImage(ctx, photo)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	_, err = c.Login(ctx, LoginRequest{Name: "A", Password: "pw-A"})
	require.NoError(t, err)

	_, err = c.UploadImage(ctx, "")
	assert.ErrorIs(t, err, common.ErrorValidation)

	tick := time.UnixMilli(1_757_000_000_000)
	c.Gallery.now = func() time.Time {
		tick = tick.Add(time.Millisecond)
		return tick
	}

	k1, err := c.UploadImage(ctx, "first")
	require.NoError(t, err)
	k2, err := c.UploadImage(ctx, "second")
	require.NoError(t, err)

	list, err := c.ListImages(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{k1, k2}, keys(list))
	assert.Equal(t, "second", list[1].Data)
}

func TestUpload_SameMillisecondLastWins(t *testing.T) {
	ctx := context.Background()
	c := newCommunity(t, docstore.NewMemoryStore())
	asAdmin(t, c)

	fixed := time.UnixMilli(1_757_000_000_000)
	c.Gallery.now = func() time.Time { return fixed }

	_, err := c.UploadImage(ctx, "first")
	require.NoError(t, err)
	_, err = c.UploadImage(ctx, "second")
	require.NoError(t, err)

	list, err := c.ListImages(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "second", list[0].Data)
}

func TestDeleteImage(t *testing.T) {
	ctx := context.Background()
	c := newCommunity(t, docstore.NewMemoryStore())
	asAdmin(t, c)

	key, err := c.UploadImage(ctx, photo)
	require.NoError(t, err)

	require.NoError(t, c.DeleteImage(ctx, key))
	require.NoError(t, c.DeleteImage(ctx, key))
	assert.ErrorIs(t, c.DeleteImage(ctx, ""), common.ErrorValidation)

	list, err := c.ListImages(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestWatchGallery(t *testing.T) {
	ctx := context.Background()
	c := newCommunity(t, docstore.NewMemoryStore())
	asAdmin(t, c)

	got := &latest[[]models.GalleryImage]{}
	require.NoError(t, c.WatchGallery(ctx, got.set))

	key, err := c.UploadImage(ctx, photo)
	require.NoError(t, err)

	eventually(t, func() bool {
		list, _ := got.get()
		return len(list) == 1 && list[0].Key == key
	})
}
