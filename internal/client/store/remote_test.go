package store

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/vignaraja/internal/common"
	"github.com/dmitrijs2005/vignaraja/internal/docstore"
	"github.com/dmitrijs2005/vignaraja/internal/logging"
	gs "github.com/dmitrijs2005/vignaraja/internal/server/grpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

const secret = "shared-secret"

// serve runs a document store server on an in-memory listener and returns
// the backing store with a dial option that reaches it.
func serve(t *testing.T) (*docstore.MemoryStore, grpc.DialOption) {
	t.Helper()

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

	return backing, grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	})
}

func newRemote(t *testing.T, key string, dial grpc.DialOption) *RemoteStore {
	t.Helper()
	s, err := NewRemoteStore("passthrough:///bufnet", key, time.Minute, logging.Discard(), dial)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

type recorder struct {
	mu    sync.Mutex
	snaps []docstore.Snapshot
}

func (r *recorder) add(s docstore.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, s)
}

func (r *recorder) last() (docstore.Snapshot, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.snaps) == 0 {
		return docstore.Snapshot{}, 0
	}
	return r.snaps[len(r.snaps)-1], len(r.snaps)
}

func TestRemoteStore_CRUD(t *testing.T) {
	ctx := context.Background()
	backing, dial := serve(t)
	s := newRemote(t, secret, dial)

	require.NoError(t, s.Set(ctx, "appData/vaultAmount", 250))
	require.NoError(t, s.Update(ctx, map[string]any{
		"appData/users/nila": map[string]any{"name": "nila", "paid": false},
		"appData/paid/nila":  false,
	}))

	snap, err := s.Get(ctx, "appData/vaultAmount")
	require.NoError(t, err)
	assert.True(t, snap.Exists)
	assert.Equal(t, float64(250), snap.Value)

	local, err := backing.Get(ctx, "appData/paid/nila")
	require.NoError(t, err)
	assert.Equal(t, false, local.Value)

	require.NoError(t, s.Remove(ctx, "appData/users/nila"))
	snap, err = s.Get(ctx, "appData/users/nila")
	require.NoError(t, err)
	assert.False(t, snap.Exists)
}

func TestRemoteStore_UpdateRejectsOverlapLocally(t *testing.T) {
	_, dial := serve(t)
	s := newRemote(t, secret, dial)

	err := s.Update(context.Background(), map[string]any{"a": 1, "a/b": 2})
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestRemoteStore_WrongSecretIsUnauthorized(t *testing.T) {
	_, dial := serve(t)
	s := newRemote(t, "not-the-secret", dial)

	_, err := s.Get(context.Background(), "appData")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	_, err = s.Watch(context.Background(), "appData", func(docstore.Snapshot) {})
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestRemoteStore_WatchFollowsWrites(t *testing.T) {
	ctx := context.Background()
	backing, dial := serve(t)
	s := newRemote(t, secret, dial)

	rec := &recorder{}
	sub, err := s.Watch(ctx, "appData/paid", rec.add)
	require.NoError(t, err)

	require.Eventually(t, func() bool { _, n := rec.last(); return n >= 1 }, 2*time.Second, 5*time.Millisecond)
	first, _ := rec.last()
	assert.False(t, first.Exists)

	require.NoError(t, backing.Set(ctx, "appData/paid/arun", true))

	require.Eventually(t, func() bool {
		snap, _ := rec.last()
		return snap.Exists
	}, 2*time.Second, 5*time.Millisecond)
	snap, _ := rec.last()
	assert.Equal(t, map[string]any{"arun": true}, snap.Value)

	sub.Cancel()
	sub.Cancel()
	require.Eventually(t, func() bool { return backing.Watchers() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestRemoteStore_WatchOutlivesOpeningContext(t *testing.T) {
	backing, dial := serve(t)
	s := newRemote(t, secret, dial)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	rec := &recorder{}
	sub, err := s.Watch(ctx, "appData/vaultAmount", rec.add)
	require.NoError(t, err)
	defer sub.Cancel()
	cancel()

	require.NoError(t, backing.Set(context.Background(), "appData/vaultAmount", 1000))
	require.Eventually(t, func() bool {
		snap, _ := rec.last()
		return snap.Exists && snap.Value == float64(1000)
	}, 2*time.Second, 5*time.Millisecond)
}

func TestMapError(t *testing.T) {
	s := &RemoteStore{}

	tests := []struct {
		code codes.Code
		want error
	}{
		{codes.Unauthenticated, common.ErrorUnauthorized},
		{codes.PermissionDenied, common.ErrorUnauthorized},
		{codes.Unavailable, common.ErrorStoreUnavailable},
		{codes.DeadlineExceeded, common.ErrorStoreUnavailable},
		{codes.InvalidArgument, common.ErrorValidation},
		{codes.NotFound, common.ErrorNotFound},
		{codes.Aborted, common.ErrVersionConflict},
		{codes.Canceled, context.Canceled},
	}
	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			assert.ErrorIs(t, s.mapError(status.Error(tt.code, "x")), tt.want)
		})
	}

	assert.NoError(t, s.mapError(nil))
	plain := errors.New("plain")
	assert.Equal(t, plain, s.mapError(plain))
	assert.ErrorContains(t, s.mapError(status.Error(codes.Internal, "boom")), "rpc error")
}

func TestRemoteStore_UnreachableServer(t *testing.T) {
	s, err := NewRemoteStore("passthrough:///nowhere", secret, time.Minute, logging.Discard(),
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return nil, errors.New("connection refused")
		}))
	require.NoError(t, err)
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	_, err = s.Get(ctx, "appData")
	assert.ErrorIs(t, err, common.ErrorStoreUnavailable)
}

func TestToken_ReusedUntilNearExpiry(t *testing.T) {
	s := &RemoteStore{clientID: "c", secret: []byte(secret), validity: time.Hour}

	a, err := s.token()
	require.NoError(t, err)
	b, err := s.token()
	require.NoError(t, err)
	assert.Equal(t, a, b)

	s.expiresAt = time.Now().Add(time.Second)
	c, err := s.token()
	require.NoError(t, err)
	assert.NotEmpty(t, c)
	assert.True(t, time.Until(s.expiresAt) > time.Minute)
}
