package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully-qualified gRPC service name
const ServiceName = "reelfetch.v1.MediaService"

const (
	validateMethod         = "/" + ServiceName + "/Validate"
	resolveMethod          = "/" + ServiceName + "/Resolve"
	generateFilenameMethod = "/" + ServiceName + "/GenerateFilename"
	downloadMethod         = "/" + ServiceName + "/Download"
)

// MediaServiceServer is the server API of reelfetch.v1.MediaService. Messages are protobuf
// well-known types, so no generated code is needed on either side.
type MediaServiceServer interface {
	// Validate reports whether the URL in the request is a supported post URL.
	Validate(context.Context, *wrapperspb.StringValue) (*wrapperspb.BoolValue, error)
	// Resolve returns the media descriptor of a post URL.
	Resolve(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	// GenerateFilename builds the suggested filename from {username, id, quality}.
	GenerateFilename(context.Context, *structpb.Struct) (*wrapperspb.StringValue, error)
	// Download transfers {media_url, filename} and streams progress, handoff and task events.
	Download(*structpb.Struct, grpc.ServerStreamingServer[structpb.Struct]) error
}

// RegisterMediaServiceServer registers srv on s
func RegisterMediaServiceServer(s grpc.ServiceRegistrar, srv MediaServiceServer) {
	s.RegisterService(&MediaServiceDesc, srv)
}

func validateHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MediaServiceServer).Validate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: validateMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MediaServiceServer).Validate(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func resolveHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MediaServiceServer).Resolve(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: resolveMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MediaServiceServer).Resolve(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func generateFilenameHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MediaServiceServer).GenerateFilename(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: generateFilenameMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MediaServiceServer).GenerateFilename(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func downloadHandler(srv any, stream grpc.ServerStream) error {
	in := new(structpb.Struct)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(MediaServiceServer).Download(in, &grpc.GenericServerStream[structpb.Struct, structpb.Struct]{ServerStream: stream})
}

// MediaServiceDesc describes reelfetch.v1.MediaService for grpc.Server.RegisterService.
// It must stay in sync with api/proto/v1/reelfetch.proto.
var MediaServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*MediaServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Validate", Handler: validateHandler},
		{MethodName: "Resolve", Handler: resolveHandler},
		{MethodName: "GenerateFilename", Handler: generateFilenameHandler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "Download", Handler: downloadHandler, ServerStreams: true},
	},
	Metadata: "api/proto/v1/reelfetch.proto",
}

// MediaServiceClient is the client API of reelfetch.v1.MediaService
type MediaServiceClient interface {
	Validate(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error)
	Resolve(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
	GenerateFilename(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	Download(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (grpc.ServerStreamingClient[structpb.Struct], error)
}

type mediaServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewMediaServiceClient creates a client for reelfetch.v1.MediaService over cc
func NewMediaServiceClient(cc grpc.ClientConnInterface) MediaServiceClient {
	return &mediaServiceClient{cc: cc}
}

func (c *mediaServiceClient) Validate(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error) {
	out := new(wrapperspb.BoolValue)
	if err := c.cc.Invoke(ctx, validateMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *mediaServiceClient) Resolve(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, resolveMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *mediaServiceClient) GenerateFilename(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, generateFilenameMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *mediaServiceClient) Download(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (grpc.ServerStreamingClient[structpb.Struct], error) {
	stream, err := c.cc.NewStream(ctx, &MediaServiceDesc.Streams[0], downloadMethod, opts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[structpb.Struct, structpb.Struct]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}
