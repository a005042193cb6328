package grpcsvc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"

	"github.com/andrescamacho/massim-fleetctl/internal/domain/roadgraph"
)

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// LatLon is a wire-friendly request/response coordinate pair.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// RouteRequest asks for the shortest road path between two coordinates.
type RouteRequest struct {
	From      LatLon `json:"from"`
	To        LatLon `json:"to"`
	WithRoute bool   `json:"with_route"`
}

// RouteResponse carries the routed distance and, if requested, the ordered
// list of graph positions the route passes through.
type RouteResponse struct {
	DistanceMetres uint32   `json:"distance_metres"`
	Route          []LatLon `json:"route,omitempty"`
}

// RoutingServiceServer is the server-side contract cmd/routing-tool and any
// other in-process caller implements against.
type RoutingServiceServer interface {
	Route(ctx context.Context, req *RouteRequest) (*RouteResponse, error)
}

// GraphServer adapts a *roadgraph.Graph to RoutingServiceServer, snapping
// both endpoints before calling into the A* router.
type GraphServer struct {
	Graph *roadgraph.Graph
}

// NewGraphServer constructs a GraphServer over g.
func NewGraphServer(g *roadgraph.Graph) *GraphServer {
	return &GraphServer{Graph: g}
}

func (s *GraphServer) Route(ctx context.Context, req *RouteRequest) (*RouteResponse, error) {
	from := s.Graph.Snap(s.Graph.Bounds.ToPos(req.From.Lat, req.From.Lon))
	to := s.Graph.Snap(s.Graph.Bounds.ToPos(req.To.Lat, req.To.Lon))

	dist, path, err := s.Graph.DistRoad(from, to, req.WithRoute)
	if err != nil {
		return nil, fmt.Errorf("grpcsvc: route: %w", err)
	}

	resp := &RouteResponse{DistanceMetres: dist}
	if req.WithRoute {
		resp.Route = make([]LatLon, len(path))
		for i, gp := range path {
			node := s.Graph.Node(gp.ID)
			lat, lon := s.Graph.Bounds.FromPos(node.P)
			resp.Route[i] = LatLon{Lat: lat, Lon: lon}
		}
	}
	return resp, nil
}

func routeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	req := new(RouteRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RoutingServiceServer).Route(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: serviceName + "/Route"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RoutingServiceServer).Route(ctx, req.(*RouteRequest))
	}
	return interceptor(ctx, req, info, handler)
}

const serviceName = "fleetctl.routing.RoutingService"

// serviceDesc is this package's hand-written equivalent of a protoc-gc
// generated _ServiceDesc — the method table a *grpc.Server dispatches
// against. There's exactly one RPC, so unlike generated code this doesn't
// need codegen to stay in sync with a .proto file.
var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*RoutingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Route", Handler: routeHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "routing.grpcsvc",
}

// RegisterRoutingServiceServer registers srv against s the way a generated
// pb.go's RegisterXServer function would.
func RegisterRoutingServiceServer(s grpc.ServiceRegistrar, srv RoutingServiceServer) {
	s.RegisterService(&serviceDesc, srv)
}
