// Package storerpc describes the DocumentStore gRPC service. Messages are
// protobuf well-known types (structpb.Struct in, structpb.Struct or
// emptypb.Empty out), which carry the store's JSON-shaped values directly and
// need no generated code.
//
//	Get    {path}             -> {path, exists, value}
//	Set    {path, value}      -> Empty
//	Update {updates: {p: v}}  -> Empty
//	Remove {path}             -> Empty
//	Watch  {path}             -> stream {path, exists, value}
package storerpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "vignaraja.store.v1.DocumentStore"

const (
	GetMethod    = "/" + ServiceName + "/Get"
	SetMethod    = "/" + ServiceName + "/Set"
	UpdateMethod = "/" + ServiceName + "/Update"
	RemoveMethod = "/" + ServiceName + "/Remove"
	WatchMethod  = "/" + ServiceName + "/Watch"
)

// DocumentStoreServer is implemented by the server side of the service.
type DocumentStoreServer interface {
	Get(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Set(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	Update(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	Remove(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	Watch(*structpb.Struct, grpc.ServerStream) error
}

func RegisterDocumentStoreServer(s grpc.ServiceRegistrar, srv DocumentStoreServer) {
	s.RegisterService(&ServiceDesc, srv)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DocumentStoreServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Get", Handler: unaryHandler(GetMethod, DocumentStoreServer.Get)},
		{MethodName: "Set", Handler: unaryHandler(SetMethod, DocumentStoreServer.Set)},
		{MethodName: "Update", Handler: unaryHandler(UpdateMethod, DocumentStoreServer.Update)},
		{MethodName: "Remove", Handler: unaryHandler(RemoveMethod, DocumentStoreServer.Remove)},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "Watch", Handler: watchHandler, ServerStreams: true},
	},
	Metadata: "vignaraja/store/v1/store.proto",
}

func unaryHandler[Resp any](fullMethod string, call func(DocumentStoreServer, context.Context, *structpb.Struct) (Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(DocumentStoreServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(DocumentStoreServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func watchHandler(srv any, stream grpc.ServerStream) error {
	in := new(structpb.Struct)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(DocumentStoreServer).Watch(in, stream)
}

// DocumentStoreClient is the client side of the service.
type DocumentStoreClient struct {
	cc grpc.ClientConnInterface
}

func NewDocumentStoreClient(cc grpc.ClientConnInterface) *DocumentStoreClient {
	return &DocumentStoreClient{cc: cc}
}

func (c *DocumentStoreClient) Get(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DocumentStoreClient) Set(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) error {
	return c.cc.Invoke(ctx, SetMethod, in, new(emptypb.Empty), opts...)
}

func (c *DocumentStoreClient) Update(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) error {
	return c.cc.Invoke(ctx, UpdateMethod, in, new(emptypb.Empty), opts...)
}

func (c *DocumentStoreClient) Remove(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) error {
	return c.cc.Invoke(ctx, RemoveMethod, in, new(emptypb.Empty), opts...)
}

// Watch opens the server stream and sends the request; read snapshots with
// RecvMsg into a *structpb.Struct.
func (c *DocumentStoreClient) Watch(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (grpc.ClientStream, error) {
	stream, err := c.cc.NewStream(ctx, &ServiceDesc.Streams[0], WatchMethod, opts...)
	if err != nil {
		return nil, err
	}
	if err := stream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := stream.CloseSend(); err != nil {
		return nil, err
	}
	return stream, nil
}
