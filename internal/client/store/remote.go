// Package store implements docstore.Store on top of the DocumentStore gRPC
// service, so client code runs unchanged against a local or a remote store.
package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/vignaraja/internal/auth"
	"github.com/dmitrijs2005/vignaraja/internal/common"
	"github.com/dmitrijs2005/vignaraja/internal/docstore"
	"github.com/dmitrijs2005/vignaraja/internal/logging"
	"github.com/dmitrijs2005/vignaraja/internal/storerpc"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// tokenRefreshMargin renews the access token this long before it expires.
const tokenRefreshMargin = 10 * time.Second

type RemoteStore struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      *storerpc.DocumentStoreClient
	logger      logging.Logger

	clientID string
	secret   []byte
	validity time.Duration

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
}

var _ docstore.Store = (*RemoteStore)(nil)

// NewRemoteStore connects to endpointURL. Access tokens are signed locally
// with secret and renewed before they expire. Extra dial options are
// appended to the defaults.
func NewRemoteStore(endpointURL, secret string, validity time.Duration, l logging.Logger, opts ...grpc.DialOption) (*RemoteStore, error) {
	s := &RemoteStore{
		endpointURL: endpointURL,
		logger:      l.With("module", "remote_store"),
		clientID:    uuid.New().String(),
		secret:      []byte(secret),
		validity:    validity,
	}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
		grpc.WithStreamInterceptor(s.streamAccessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, dialOpts...)
	if err != nil {
		return nil, err
	}
	s.conn = conn
	s.client = storerpc.NewDocumentStoreClient(conn)
	return s, nil
}

func (s *RemoteStore) token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.accessToken != "" && time.Until(s.expiresAt) > tokenRefreshMargin {
		return s.accessToken, nil
	}

	t, err := auth.GenerateToken(s.clientID, s.secret, s.validity)
	if err != nil {
		return "", err
	}
	s.accessToken = t
	s.expiresAt = time.Now().Add(s.validity)
	return t, nil
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *RemoteStore) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	token, err := s.token()
	if err != nil {
		return err
	}
	return invoker(withAccessToken(ctx, token), method, req, reply, cc, opts...)
}

func (s *RemoteStore) streamAccessTokenInterceptor(
	ctx context.Context,
	desc *grpc.StreamDesc,
	cc *grpc.ClientConn,
	method string,
	streamer grpc.Streamer,
	opts ...grpc.CallOption,
) (grpc.ClientStream, error) {
	token, err := s.token()
	if err != nil {
		return nil, err
	}
	return streamer(withAccessToken(ctx, token), desc, cc, method, opts...)
}

func (s *RemoteStore) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %s", common.ErrorUnauthorized, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%w: %s", common.ErrorStoreUnavailable, st.Message())
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", common.ErrorValidation, st.Message())
	case codes.NotFound:
		return fmt.Errorf("%w: %s", common.ErrorNotFound, st.Message())
	case codes.Aborted:
		return fmt.Errorf("%w: %s", common.ErrVersionConflict, st.Message())
	case codes.Canceled:
		return context.Canceled
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}

func (s *RemoteStore) Get(ctx context.Context, path string) (docstore.Snapshot, error) {
	resp, err := s.client.Get(ctx, storerpc.PathRequest(path))
	if err != nil {
		return docstore.Snapshot{}, s.mapError(err)
	}
	return storerpc.SnapshotOf(resp), nil
}

func (s *RemoteStore) Set(ctx context.Context, path string, value any) error {
	v, err := docstore.Normalize(value)
	if err != nil {
		return err
	}
	req, err := storerpc.SetRequest(path, v)
	if err != nil {
		return err
	}
	return s.mapError(s.client.Set(ctx, req))
}

// Update validates the mutation locally before sending it.
func (s *RemoteStore) Update(ctx context.Context, updates map[string]any) error {
	m, err := docstore.NewMutation(updates)
	if err != nil {
		return err
	}
	if len(m) == 0 {
		return nil
	}
	req, err := storerpc.UpdateRequest(m)
	if err != nil {
		return err
	}
	return s.mapError(s.client.Update(ctx, req))
}

func (s *RemoteStore) Remove(ctx context.Context, path string) error {
	return s.mapError(s.client.Remove(ctx, storerpc.PathRequest(path)))
}

// Watch opens a server stream and waits for the first snapshot, so a
// rejected watch fails here rather than in the background. The stream lives
// until the subscription is cancelled; ctx only bounds the opening.
func (s *RemoteStore) Watch(ctx context.Context, path string, fn func(docstore.Snapshot)) (docstore.Subscription, error) {
	watchCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	type result struct {
		stream grpc.ClientStream
		first  docstore.Snapshot
		err    error
	}
	opened := make(chan result, 1)

	go func() {
		stream, err := s.client.Watch(watchCtx, storerpc.PathRequest(path))
		if err != nil {
			opened <- result{err: err}
			return
		}
		msg := new(structpb.Struct)
		if err := stream.RecvMsg(msg); err != nil {
			opened <- result{err: err}
			return
		}
		opened <- result{stream: stream, first: storerpc.SnapshotOf(msg)}
	}()

	var r result
	select {
	case <-ctx.Done():
		cancel()
		return nil, ctx.Err()
	case r = <-opened:
	}
	if r.err != nil {
		cancel()
		return nil, s.mapError(r.err)
	}

	var once sync.Once
	sub := docstore.SubscriptionFunc(func() { once.Do(cancel) })

	go s.deliver(watchCtx, path, r.stream, r.first, fn)

	return sub, nil
}

func (s *RemoteStore) deliver(ctx context.Context, path string, stream grpc.ClientStream, first docstore.Snapshot, fn func(docstore.Snapshot)) {
	fn(first)

	for {
		msg := new(structpb.Struct)
		if err := stream.RecvMsg(msg); err != nil {
			if ctx.Err() == nil {
				s.logger.Warn(ctx, "watch ended", "path", path, "err", s.mapError(err))
			}
			return
		}
		if ctx.Err() != nil {
			return
		}
		fn(storerpc.SnapshotOf(msg))
	}
}

// Close tears down the connection and with it every open watch.
func (s *RemoteStore) Close() error {
	return s.conn.Close()
}
