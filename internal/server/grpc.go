package server

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/xtding233/ability-miner/internal/bridge"
)

const (
	MinerServiceName  = "abilityminer.v1.Miner"
	minerSearchMethod = "/" + MinerServiceName + "/Search"
)

// MinerServer is the gRPC surface. Requests and responses are
// google.protobuf.Struct documents with the same shape as the HTTP API.
type MinerServer interface {
	Search(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// MinerServiceDesc describes the service for grpc.Server.RegisterService.
var MinerServiceDesc = grpc.ServiceDesc{
	ServiceName: MinerServiceName,
	HandlerType: (*MinerServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Search", Handler: minerSearchHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "abilityminer/v1/miner.proto",
}

func minerSearchHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MinerServer).Search(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: minerSearchMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MinerServer).Search(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// RegisterMinerServer registers srv on s.
func RegisterMinerServer(s grpc.ServiceRegistrar, srv MinerServer) {
	s.RegisterService(&MinerServiceDesc, srv)
}

// MinerClient calls a remote Miner service.
type MinerClient struct {
	cc grpc.ClientConnInterface
}

func NewMinerClient(cc grpc.ClientConnInterface) *MinerClient {
	return &MinerClient{cc: cc}
}

func (c *MinerClient) Search(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, minerSearchMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// Search implements MinerServer.
func (s *Server) Search(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	body, err := json.Marshal(in.AsMap())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	req, err := bridge.DecodeRequest(body)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	start := time.Now()
	seeds, err := s.Runner().Run(ctx, req)
	switch {
	case err == nil:
	case bridge.IsClientError(err):
		return nil, status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return nil, status.FromContextError(err).Err()
	default:
		s.log.Warn("search failed", zap.Error(err))
		return nil, status.Error(codes.Internal, err.Error())
	}
	return responseStruct(bridge.NewResponse(req.Brand, seeds, time.Since(start).Milliseconds()))
}

func responseStruct(resp bridge.Response) (*structpb.Struct, error) {
	seeds := make([]any, len(resp.Seeds))
	for i, v := range resp.Seeds {
		seeds[i] = v
	}
	hex := make([]any, len(resp.Hex))
	for i, v := range resp.Hex {
		hex[i] = v
	}
	out, err := structpb.NewStruct(map[string]any{
		"brand":     resp.Brand.String(),
		"seeds":     seeds,
		"hex":       hex,
		"elapsedMs": resp.ElapsedMs,
	})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}
