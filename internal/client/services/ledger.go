package services

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/dmitrijs2005/vignaraja/internal/common"
	"github.com/dmitrijs2005/vignaraja/internal/docstore"
	"github.com/dmitrijs2005/vignaraja/internal/logging"
)

// LedgerService tracks who paid and the vault override. Every method that
// writes is admin only and checks that before touching the store. A paid
// flag is always written to users/<name>/paid and paid/<name> together.
type LedgerService struct {
	store   docstore.Store
	layout  Layout
	session *Session
	logger  logging.Logger
}

func NewLedgerService(store docstore.Store, l Layout, s *Session, logger logging.Logger) *LedgerService {
	return &LedgerService{
		store:   store,
		layout:  l,
		session: s,
		logger:  logger.With("module", "ledger"),
	}
}

func (l *LedgerService) requireAdmin() error {
	if !l.session.Actor().IsAdmin() {
		return unauthorized("admin only")
	}
	return nil
}

func (l *LedgerService) paidUpdate(updates map[string]any, name string, value bool) {
	updates[l.layout.UserPaid(name)] = value
	updates[l.layout.PaidOf(name)] = value
}

// currentPaid reads users/<name>/paid. The record itself is only fetched
// when the flag is absent, to tell a missing member from a missing flag.
func (l *LedgerService) currentPaid(ctx context.Context, name string) (bool, error) {
	snap, err := l.store.Get(ctx, l.layout.UserPaid(name))
	if err != nil {
		return false, err
	}
	if snap.Exists {
		paid, _ := snap.Value.(bool)
		return paid, nil
	}

	rec, err := l.store.Get(ctx, l.layout.User(name))
	if err != nil {
		return false, err
	}
	if !rec.Exists {
		return false, fmt.Errorf("%w: member %q", common.ErrorNotFound, name)
	}
	return false, nil
}

// TogglePaid flips the member's paid flag.
func (l *LedgerService) TogglePaid(ctx context.Context, name string) error {
	if err := l.requireAdmin(); err != nil {
		return err
	}
	if err := checkKey("name", name); err != nil {
		return err
	}

	current, err := l.currentPaid(ctx, name)
	if err != nil {
		return err
	}

	return l.write(ctx, name, !current)
}

// SetPaid sets the member's paid flag to value.
func (l *LedgerService) SetPaid(ctx context.Context, name string, value bool) error {
	if err := l.requireAdmin(); err != nil {
		return err
	}
	if err := checkKey("name", name); err != nil {
		return err
	}

	if _, err := l.currentPaid(ctx, name); err != nil {
		return err
	}

	return l.write(ctx, name, value)
}

func (l *LedgerService) write(ctx context.Context, name string, value bool) error {
	updates := map[string]any{}
	l.paidUpdate(updates, name, value)
	if err := l.store.Update(ctx, updates); err != nil {
		return err
	}

	l.logger.Info(ctx, "paid flag set", "name", name, "paid", value)
	return nil
}

// MarkAll sets every member's flag to value in a single Update.
func (l *LedgerService) MarkAll(ctx context.Context, value bool) error {
	if err := l.requireAdmin(); err != nil {
		return err
	}

	snap, err := l.store.Get(ctx, l.layout.Users())
	if err != nil {
		return err
	}
	users, _ := snap.Value.(map[string]any)
	if len(users) == 0 {
		return nil
	}

	updates := make(map[string]any, 2*len(users))
	for name := range users {
		l.paidUpdate(updates, name, value)
	}
	if err := l.store.Update(ctx, updates); err != nil {
		return err
	}

	l.logger.Info(ctx, "all members marked", "paid", value, "count", len(users))
	return nil
}

func (l *LedgerService) MarkAllPaid(ctx context.Context) error {
	return l.MarkAll(ctx, true)
}

func (l *LedgerService) MarkAllPending(ctx context.Context) error {
	return l.MarkAll(ctx, false)
}

// SetOverride makes amount the displayed vault total.
func (l *LedgerService) SetOverride(ctx context.Context, amount float64) error {
	if err := l.requireAdmin(); err != nil {
		return err
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return validationf("invalid number")
	}
	if err := l.store.Set(ctx, l.layout.Vault(), amount); err != nil {
		return err
	}

	l.logger.Info(ctx, "vault override set", "amount", amount)
	return nil
}

// ClearOverride removes the override so the total is computed again.
func (l *LedgerService) ClearOverride(ctx context.Context) error {
	if err := l.requireAdmin(); err != nil {
		return err
	}
	if err := l.store.Remove(ctx, l.layout.Vault()); err != nil {
		return err
	}

	l.logger.Info(ctx, "vault override cleared")
	return nil
}

// Vault reads both inputs once and returns the displayed total.
func (l *LedgerService) Vault(ctx context.Context) (float64, error) {
	paid, err := l.store.Get(ctx, l.layout.Paid())
	if err != nil {
		return 0, err
	}
	override, err := l.store.Get(ctx, l.layout.Vault())
	if err != nil {
		return 0, err
	}
	return ComputeDisplayedVault(paidFlags(paid.Value), overrideOf(override.Value)), nil
}

// WatchVault calls fn with the displayed total whenever the paid map or the
// override changes. The first call happens once both are known. Calls are
// serialized.
func (l *LedgerService) WatchVault(ctx context.Context, fn func(float64)) error {
	var (
		mu           sync.Mutex
		paid         map[string]bool
		override     *float64
		havePaid     bool
		haveOverride bool
	)
	emit := func() {
		if havePaid && haveOverride {
			fn(ComputeDisplayedVault(paid, override))
		}
	}

	paidSub, err := l.store.Watch(ctx, l.layout.Paid(), func(snap docstore.Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		paid, havePaid = paidFlags(snap.Value), true
		emit()
	})
	if err != nil {
		return err
	}

	overrideSub, err := l.store.Watch(ctx, l.layout.Vault(), func(snap docstore.Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		override, haveOverride = overrideOf(snap.Value), true
		emit()
	})
	if err != nil {
		paidSub.Cancel()
		return err
	}

	l.session.Track(paidSub)
	l.session.Track(overrideSub)
	return nil
}
