package oraclerpc

import (
	"context"
	"encoding/json"

	"rateoracle-service/internal/msg"

	"google.golang.org/grpc"
)

const (
	ServiceName = "rateoracle.v1.Oracle"

	ExecuteMethod = "/" + ServiceName + "/Execute"
	QueryMethod   = "/" + ServiceName + "/Query"

	// SenderKey is the metadata key carrying the caller identity of Execute.
	SenderKey = "x-sender"
)

type OracleServer interface {
	Execute(ctx context.Context, m *msg.ExecuteMsg) (json.RawMessage, error)
	Query(ctx context.Context, m *msg.QueryMsg) (json.RawMessage, error)
}

func RegisterOracleServer(s grpc.ServiceRegistrar, srv OracleServer) {
	s.RegisterService(&ServiceDesc, srv)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*OracleServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Execute", Handler: executeHandler},
		{MethodName: "Query", Handler: queryHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "rateoracle/v1/oracle",
}

func executeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(msg.ExecuteMsg)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(OracleServer).Execute(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ExecuteMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(OracleServer).Execute(ctx, req.(*msg.ExecuteMsg))
	}
	return interceptor(ctx, in, info, handler)
}

func queryHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(msg.QueryMsg)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(OracleServer).Query(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: QueryMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(OracleServer).Query(ctx, req.(*msg.QueryMsg))
	}
	return interceptor(ctx, in, info, handler)
}

// OracleClient is the client stub of the service.
type OracleClient struct{ cc grpc.ClientConnInterface }

func NewOracleClient(cc grpc.ClientConnInterface) *OracleClient { return &OracleClient{cc: cc} }

func (c *OracleClient) Execute(ctx context.Context, m *msg.ExecuteMsg, opts ...grpc.CallOption) (json.RawMessage, error) {
	var out json.RawMessage
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, ExecuteMethod, m, &out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *OracleClient) Query(ctx context.Context, m *msg.QueryMsg, opts ...grpc.CallOption) (json.RawMessage, error) {
	var out json.RawMessage
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, QueryMethod, m, &out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
