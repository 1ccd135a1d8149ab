package cli

import (
	"context"

	"github.com/dmitrijs2005/vignaraja/internal/client/services"
)

// Vault prints the displayed vault total once.
func (a *App) Vault(ctx context.Context) error {
	ctx, cancel := a.opCtx(ctx)
	defer cancel()

	total, err := a.community.Ledger.Vault(ctx)
	if err != nil {
		return err
	}
	a.renderVault(total)
	return nil
}

// SetVault overrides the vault total with a typed amount.
func (a *App) SetVault(ctx context.Context, amount string) error {
	v, err := services.ParseVaultAmount(amount)
	if err != nil {
		return err
	}

	ctx, cancel := a.opCtx(ctx)
	defer cancel()
	return a.community.SetVaultOverride(ctx, v)
}

// ClearVault drops the override so the total follows paid members again.
func (a *App) ClearVault(ctx context.Context) error {
	ctx, cancel := a.opCtx(ctx)
	defer cancel()
	return a.community.Ledger.ClearOverride(ctx)
}
