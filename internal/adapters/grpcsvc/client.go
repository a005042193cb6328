package grpcsvc

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Client is a thin RoutingServiceServer-shaped wrapper around a
// *grpc.ClientConn, grounded on the teacher's GRPCRoutingClient
// (internal/adapters/routing/grpc_routing_client.go) but talking to this
// package's JSON-coded service instead of a generated protobuf stub.
type Client struct {
	conn *grpc.ClientConn
}

// Dial connects to a routing-tool server at address.
func Dial(address string) (*Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := grpc.DialContext(ctx, address,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithBlock(),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(jsonCodecName)),
	)
	if err != nil {
		return nil, fmt.Errorf("grpcsvc: dial %s: %w", address, err)
	}
	return &Client{conn: conn}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Route calls the remote RoutingService's Route RPC.
func (c *Client) Route(ctx context.Context, req *RouteRequest) (*RouteResponse, error) {
	resp := new(RouteResponse)
	if err := c.conn.Invoke(ctx, serviceName+"/Route", req, resp); err != nil {
		return nil, fmt.Errorf("grpcsvc: route rpc: %w", err)
	}
	return resp, nil
}
