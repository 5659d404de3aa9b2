package plannerserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "evolve2048.planner.v1.PlannerService"

// Full method names
const (
	SuggestMoveMethod = "/" + ServiceName + "/SuggestMove"
	EvaluateMethod    = "/" + ServiceName + "/Evaluate"
	LegalMovesMethod  = "/" + ServiceName + "/LegalMoves"
)

// PlannerServiceServer is the server API for PlannerService.
//
// Every request is a Struct with a "board" list of 16 tile exponents in
// row-major order (0 for an empty cell) and an optional "score".
type PlannerServiceServer interface {
	// SuggestMove replies {"has_move": bool, "direction": string}.
	SuggestMove(context.Context, *structpb.Struct) (*structpb.Struct, error)
	// Evaluate replies {"candidates": [{"direction": string, "score": number}]}
	// for the legal directions in Left, Right, Up, Down order.
	Evaluate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	// LegalMoves replies {"directions": [string], "terminal": bool}.
	LegalMoves(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterPlannerServiceServer registers srv on s.
func RegisterPlannerServiceServer(s grpc.ServiceRegistrar, srv PlannerServiceServer) {
	s.RegisterService(&PlannerService_ServiceDesc, srv)
}

func unaryHandler(method string, call func(PlannerServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(PlannerServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(PlannerServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// PlannerService_ServiceDesc is the grpc.ServiceDesc for PlannerService.
var PlannerService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PlannerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "SuggestMove",
			Handler:    unaryHandler(SuggestMoveMethod, PlannerServiceServer.SuggestMove),
		},
		{
			MethodName: "Evaluate",
			Handler:    unaryHandler(EvaluateMethod, PlannerServiceServer.Evaluate),
		},
		{
			MethodName: "LegalMoves",
			Handler:    unaryHandler(LegalMovesMethod, PlannerServiceServer.LegalMoves),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "evolve2048/planner/v1/planner.proto",
}
