package cli

import (
	"context"
)

func (a *App) Members(ctx context.Context) error {
	ctx, cancel := a.opCtx(ctx)
	defer cancel()

	list, err := a.community.ListMembers(ctx)
	if err != nil {
		return err
	}
	a.renderMembers(list)
	return nil
}

func (a *App) Toggle(ctx context.Context, name string) error {
	ctx, cancel := a.opCtx(ctx)
	defer cancel()
	return a.community.TogglePaid(ctx, name)
}

func (a *App) MarkAll(ctx context.Context, paid bool) error {
	ctx, cancel := a.opCtx(ctx)
	defer cancel()

	if paid {
		return a.community.MarkAllPaid(ctx)
	}
	return a.community.MarkAllPending(ctx)
}

func (a *App) RemoveMember(ctx context.Context, name string) error {
	ctx, cancel := a.opCtx(ctx)
	defer cancel()

	if err := a.community.DeleteMember(ctx, name); err != nil {
		return err
	}
	a.printf("Removed %s\n", name)
	return nil
}
