package services

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/vignaraja/internal/client/models"
	clientstore "github.com/dmitrijs2005/vignaraja/internal/client/store"
	"github.com/dmitrijs2005/vignaraja/internal/docstore"
	"github.com/dmitrijs2005/vignaraja/internal/logging"
	gs "github.com/dmitrijs2005/vignaraja/internal/server/grpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"
)

// runTwoClientScenario registers A, logs A in on one client and the admin on
// another, toggles A to paid and checks that both clients see it.
func runTwoClientScenario(t *testing.T, memberStore, adminStore docstore.Store) {
	ctx := context.Background()

	member := newCommunity(t, memberStore)
	admin := newCommunity(t, adminStore)

	require.NoError(t, member.Register(ctx, "A", "p1", "9876543210", photo))

	out, err := member.Login(ctx, LoginRequest{Name: "A", Password: "p1"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeAuthenticated, out)

	require.NoError(t, admin.AdminLogin(ctx, adminUser, adminPass))

	var checks []func()
	for _, c := range []*Community{member, admin} {
		users := &latest[[]models.Member]{}
		require.NoError(t, c.WatchMembers(ctx, users.set))

		paid := &latest[bool]{}
		sub, err := c.store.Watch(ctx, c.Layout().PaidOf("A"), func(s docstore.Snapshot) {
			v, _ := s.Value.(bool)
			paid.set(v)
		})
		require.NoError(t, err)
		c.Session.Track(sub)

		vault := &latest[float64]{}
		require.NoError(t, c.WatchVault(ctx, vault.set))

		checks = append(checks, func() {
			eventually(t, func() bool {
				list, _ := users.get()
				return len(list) == 1 && list[0].Name == "A" && list[0].Paid
			})
			eventually(t, func() bool { v, _ := paid.get(); return v })
			eventually(t, func() bool { v, _ := vault.get(); return v == 250 })
		})
	}

	require.NoError(t, admin.TogglePaid(ctx, "A"))

	for _, check := range checks {
		check()
	}
}

func TestEndToEnd_SharedMemoryStore(t *testing.T) {
	store := docstore.NewMemoryStore()
	runTwoClientScenario(t, store, store)
}

func TestEndToEnd_OverGRPC(t *testing.T) {
	const secret = "e2e-secret"

	backing := docstore.NewMemoryStore()
	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = gs.NewGRPCServer("", logging.Discard(), backing, secret).Serve(ctx, lis)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	dial := grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	})
	newRemote := func() docstore.Store {
		s, err := clientstore.NewRemoteStore("passthrough:///bufnet", secret, time.Minute, logging.Discard(), dial)
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		return s
	}

	runTwoClientScenario(t, newRemote(), newRemote())

	users, paid := paidState(t, backing)
	assert.Equal(t, map[string]bool{"A": true}, users)
	assert.Equal(t, map[string]bool{"A": true}, paid)
}
