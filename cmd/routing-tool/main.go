// Command routing-tool exposes the road-graph router over gRPC for
// out-of-process tooling (spec.md §6 [EXPANDED]), the same role the
// teacher's cmd/routing-service fills for its Python OR-Tools sidecar,
// except this routing engine is native Go and served in-process rather
// than spawned as a subprocess.
package main

import (
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"google.golang.org/grpc"

	"github.com/andrescamacho/massim-fleetctl/internal/adapters/graphfile"
	"github.com/andrescamacho/massim-fleetctl/internal/adapters/grpcsvc"
	"github.com/andrescamacho/massim-fleetctl/internal/domain/roadgraph"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "50061"
)

func main() {
	host := getEnv("ROUTING_HOST", defaultHost)
	port := getEnv("ROUTING_PORT", defaultPort)
	nodesPath := getEnv("ROUTING_NODES_FILE", "")
	edgesPath := getEnv("ROUTING_EDGES_FILE", "")
	geometryPath := getEnv("ROUTING_GEOMETRY_FILE", "")

	if nodesPath == "" || edgesPath == "" || geometryPath == "" {
		log.Fatal("routing-tool: ROUTING_NODES_FILE, ROUTING_EDGES_FILE and ROUTING_GEOMETRY_FILE must all be set")
	}

	log.Println("Starting routing-tool gRPC server...")
	log.Printf("Host: %s", host)
	log.Printf("Port: %s", port)

	graph, err := loadGraph(nodesPath, edgesPath, geometryPath)
	if err != nil {
		log.Fatalf("Failed to load road graph: %v", err)
	}
	log.Printf("Loaded graph: %d nodes, %d edges", graph.NodeCount(), graph.EdgeCount())

	lis, err := net.Listen("tcp", fmt.Sprintf("%s:%s", host, port))
	if err != nil {
		log.Fatalf("Failed to listen: %v", err)
	}

	server := grpc.NewServer()
	grpcsvc.RegisterRoutingServiceServer(server, grpcsvc.NewGraphServer(graph))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() { serveErr <- server.Serve(lis) }()

	select {
	case sig := <-sigChan:
		log.Printf("Received signal %v, shutting down...", sig)
		server.GracefulStop()
	case err := <-serveErr:
		if err != nil {
			log.Fatalf("gRPC server stopped: %v", err)
		}
	}

	log.Println("routing-tool stopped")
}

func loadGraph(nodesPath, edgesPath, geometryPath string) (*roadgraph.Graph, error) {
	nodesFile, err := os.Open(nodesPath)
	if err != nil {
		return nil, fmt.Errorf("open nodes file: %w", err)
	}
	defer nodesFile.Close()
	edgesFile, err := os.Open(edgesPath)
	if err != nil {
		return nil, fmt.Errorf("open edges file: %w", err)
	}
	defer edgesFile.Close()
	geoFile, err := os.Open(geometryPath)
	if err != nil {
		return nil, fmt.Errorf("open geometry file: %w", err)
	}
	defer geoFile.Close()

	bounds := roadgraph.Bounds{MinLat: -90, MaxLat: 90, MinLon: -180, MaxLon: 180}.Padded()
	return graphfile.Load(bounds, nodesFile, edgesFile, geoFile)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
