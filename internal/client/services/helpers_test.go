package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/vignaraja/internal/cryptox"
	"github.com/dmitrijs2005/vignaraja/internal/docstore"
	"github.com/dmitrijs2005/vignaraja/internal/logging"
	"github.com/stretchr/testify/require"
)

const (
	adminUser = "vignaraja"
	adminPass = "Pracx99"
	photo     = "data:image/png;base64,iVBORw0KGgo="
)

// countingStore records how many writes reach the wrapped store.
type countingStore struct {
	docstore.Store
	writes atomic.Int64
}

func (c *countingStore) Set(ctx context.Context, path string, value any) error {
	c.writes.Add(1)
	return c.Store.Set(ctx, path, value)
}

func (c *countingStore) Update(ctx context.Context, updates map[string]any) error {
	c.writes.Add(1)
	return c.Store.Update(ctx, updates)
}

func (c *countingStore) Remove(ctx context.Context, path string) error {
	c.writes.Add(1)
	return c.Store.Remove(ctx, path)
}

var (
	adminOnce sync.Once
	adminCred *cryptox.Credential
)

func adminVerifier(t *testing.T) cryptox.CredentialVerifier {
	t.Helper()
	adminOnce.Do(func() {
		c, err := cryptox.NewCredential(adminUser, []byte(adminPass))
		require.NoError(t, err)
		adminCred = c
	})
	return adminCred
}

func newCommunity(t *testing.T, store docstore.Store) *Community {
	t.Helper()
	c := NewCommunity(store, DefaultRoot, adminVerifier(t), logging.Discard())
	c.EnsureStructure(context.Background())
	t.Cleanup(c.Logout)
	return c
}

func asAdmin(t *testing.T, c *Community) {
	t.Helper()
	require.NoError(t, c.AdminLogin(context.Background(), adminUser, adminPass))
}

func register(t *testing.T, c *Community, name string) {
	t.Helper()
	require.NoError(t, c.Register(context.Background(), name, "pw-"+name, "9876543210", photo))
}

// latest keeps the most recent value passed to a watch callback.
type latest[T any] struct {
	mu    sync.Mutex
	value T
	calls int
}

func (l *latest[T]) set(v T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.value = v
	l.calls++
}

func (l *latest[T]) get() (T, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.value, l.calls
}

func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, 2*time.Second, 5*time.Millisecond)
}

// paidState reads both copies of every member's paid flag.
func paidState(t *testing.T, store docstore.Store) (users map[string]bool, paid map[string]bool) {
	t.Helper()
	ctx := context.Background()

	us, err := store.Get(ctx, "appData/users")
	require.NoError(t, err)
	users = map[string]bool{}
	raw, _ := us.Value.(map[string]any)
	for name, rec := range raw {
		m, _ := rec.(map[string]any)
		users[name], _ = m["paid"].(bool)
	}

	ps, err := store.Get(ctx, "appData/paid")
	require.NoError(t, err)
	paid = paidFlags(ps.Value)
	return users, paid
}

func discard() logging.Logger { return logging.Discard() }
