package services

import (
	"context"

	"github.com/dmitrijs2005/vignaraja/internal/client/models"
	"github.com/dmitrijs2005/vignaraja/internal/cryptox"
	"github.com/dmitrijs2005/vignaraja/internal/docstore"
	"github.com/dmitrijs2005/vignaraja/internal/logging"
)

// Community is the composition root of one client: a single session shared
// by the registry, ledger and gallery over one store.
type Community struct {
	Session *Session
	Auth    *AuthService
	Members *MemberService
	Ledger  *LedgerService
	Gallery *GalleryService

	store  docstore.Store
	layout Layout
	logger logging.Logger
}

func NewCommunity(store docstore.Store, root string, admin cryptox.CredentialVerifier, logger logging.Logger) *Community {
	l := NewLayout(root)
	s := NewSession()
	members := NewMemberService(store, l, s, logger)

	return &Community{
		Session: s,
		Auth:    NewAuthService(store, l, s, members, admin, logger),
		Members: members,
		Ledger:  NewLedgerService(store, l, s, logger),
		Gallery: NewGalleryService(store, l, s, logger),
		store:   store,
		layout:  l,
		logger:  logger,
	}
}

func (c *Community) Layout() Layout { return c.layout }

func (c *Community) EnsureStructure(ctx context.Context) {
	EnsureStructure(ctx, c.store, c.layout, c.logger)
}

func (c *Community) Register(ctx context.Context, name, password, phone, image string) error {
	return c.Members.Register(ctx, name, password, phone, image)
}

func (c *Community) Login(ctx context.Context, req LoginRequest) (LoginOutcome, error) {
	return c.Auth.Login(ctx, req)
}

func (c *Community) AdminLogin(ctx context.Context, user, pass string) error {
	return c.Auth.AdminLogin(ctx, user, pass)
}

func (c *Community) Logout() {
	c.Auth.Logout()
}

func (c *Community) ListMembers(ctx context.Context) ([]models.Member, error) {
	return c.Members.List(ctx)
}

func (c *Community) DeleteMember(ctx context.Context, name string) error {
	return c.Members.Delete(ctx, name)
}

func (c *Community) SelfDelete(ctx context.Context, callerName string) error {
	return c.Members.SelfDelete(ctx, callerName)
}

func (c *Community) TogglePaid(ctx context.Context, name string) error {
	return c.Ledger.TogglePaid(ctx, name)
}

func (c *Community) MarkAllPaid(ctx context.Context) error {
	return c.Ledger.MarkAllPaid(ctx)
}

func (c *Community) MarkAllPending(ctx context.Context) error {
	return c.Ledger.MarkAllPending(ctx)
}

func (c *Community) SetVaultOverride(ctx context.Context, amount float64) error {
	return c.Ledger.SetOverride(ctx, amount)
}

func (c *Community) ComputeDisplayedVault(paid map[string]bool, override *float64) float64 {
	return ComputeDisplayedVault(paid, override)
}

func (c *Community) UploadImage(ctx context.Context, image string) (string, error) {
	return c.Gallery.Upload(ctx, image)
}

func (c *Community) ListImages(ctx context.Context) ([]models.GalleryImage, error) {
	return c.Gallery.List(ctx)
}

func (c *Community) DeleteImage(ctx context.Context, key string) error {
	return c.Gallery.Delete(ctx, key)
}

func (c *Community) WatchMembers(ctx context.Context, fn func([]models.Member)) error {
	return c.Members.Watch(ctx, fn)
}

func (c *Community) WatchVault(ctx context.Context, fn func(float64)) error {
	return c.Ledger.WatchVault(ctx, fn)
}

func (c *Community) WatchGallery(ctx context.Context, fn func([]models.GalleryImage)) error {
	return c.Gallery.Watch(ctx, fn)
}
