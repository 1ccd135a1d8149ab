package cli

import (
	"context"
)

func (a *App) Upload(ctx context.Context, path string) error {
	img, err := readImage(path)
	if err != nil {
		return err
	}

	ctx, cancel := a.opCtx(ctx)
	defer cancel()

	key, err := a.community.UploadImage(ctx, img)
	if err != nil {
		return err
	}
	a.printf("Uploaded %s\n", key)
	return nil
}

func (a *App) Images(ctx context.Context) error {
	ctx, cancel := a.opCtx(ctx)
	defer cancel()

	list, err := a.community.ListImages(ctx)
	if err != nil {
		return err
	}
	a.renderImages(list)
	return nil
}

func (a *App) DeleteImage(ctx context.Context, key string) error {
	ctx, cancel := a.opCtx(ctx)
	defer cancel()
	return a.community.DeleteImage(ctx, key)
}
