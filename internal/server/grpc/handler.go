package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/vignaraja/internal/common"
	"github.com/dmitrijs2005/vignaraja/internal/docstore"
	"github.com/dmitrijs2005/vignaraja/internal/storerpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

func (s *GRPCServer) Get(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	snap, err := s.store.Get(ctx, storerpc.PathOf(req))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	msg, err := storerpc.SnapshotMessage(snap)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return msg, nil
}

func (s *GRPCServer) Set(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	path := storerpc.PathOf(req)
	if err := s.store.Set(ctx, path, storerpc.ValueOf(req)); err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Debug(ctx, "set", "path", path, "client", clientIDFrom(ctx))
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) Update(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	updates, err := storerpc.UpdatesOf(req)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	if err := s.store.Update(ctx, updates); err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Debug(ctx, "update", "paths", len(updates), "client", clientIDFrom(ctx))
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) Remove(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	path := storerpc.PathOf(req)
	if err := s.store.Remove(ctx, path); err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Debug(ctx, "remove", "path", path, "client", clientIDFrom(ctx))
	return &emptypb.Empty{}, nil
}

// Watch streams the value at the requested path until the client goes away.
// Snapshots the client has not received yet are replaced by newer ones.
func (s *GRPCServer) Watch(req *structpb.Struct, stream grpc.ServerStream) error {
	ctx := stream.Context()
	path := storerpc.PathOf(req)

	latest := make(chan docstore.Snapshot, 1)
	sub, err := s.store.Watch(ctx, path, func(snap docstore.Snapshot) {
		select {
		case <-latest:
		default:
		}
		latest <- snap
	})
	if err != nil {
		return s.toStatus(ctx, err)
	}
	defer sub.Cancel()

	s.logger.Info(ctx, "watch opened", "path", path, "client", clientIDFrom(ctx))
	defer s.logger.Info(ctx, "watch closed", "path", path, "client", clientIDFrom(ctx))

	for {
		select {
		case <-ctx.Done():
			return nil
		case snap := <-latest:
			msg, err := storerpc.SnapshotMessage(snap)
			if err != nil {
				return s.toStatus(ctx, err)
			}
			if err := stream.SendMsg(msg); err != nil {
				return err
			}
		}
	}
}

// toStatus maps store errors onto gRPC codes the client maps back.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, "unauthorized")
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, common.ErrVersionConflict):
		return status.Error(codes.Aborted, err.Error())
	case errors.Is(err, common.ErrorStoreUnavailable):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}

	s.logger.Error(ctx, err.Error())
	return status.Error(codes.Internal, "internal error")
}
