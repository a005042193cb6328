package config

// GraphConfig locates the three binary road-graph files (spec.md §6) and
// tunes the snapping/routing search.
type GraphConfig struct {
	// NodesPath, EdgesPath, GeometryPath are the three fixed-header binary files
	NodesPath    string `mapstructure:"nodes_path" validate:"required"`
	EdgesPath    string `mapstructure:"edges_path" validate:"required"`
	GeometryPath string `mapstructure:"geometry_path" validate:"required"`

	// SnapCandidates is K in the nearest-tower-node snap search (spec.md §4.D)
	SnapCandidates int `mapstructure:"snap_candidates" validate:"required,min=1"`

	// EdgePenalty is the tie-break metres added to tower-node candidates during snapping
	EdgePenalty float64 `mapstructure:"edge_penalty" validate:"min=0"`

	// LatLonPadding pads the map bounding box before normalising into the unit square
	LatLonPadding float64 `mapstructure:"lat_lon_padding" validate:"min=0"`
}

// RoutingToolConfig configures the optional gRPC exposure of the road-graph
// routing engine used by cmd/routing-tool.
type RoutingToolConfig struct {
	Address string `mapstructure:"address" validate:"required"`
}
