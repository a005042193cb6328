package persistence

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/massim-fleetctl/internal/domain/roadgraph"
)

// rawGraph is the gob-serializable form of a road graph's raw load inputs —
// the Graph value itself is arena-backed and not a gob-friendly shape, but
// roadgraph.Build is cheap (it's just Tarjan pruning over these slices), so
// the cache stores the inputs and rebuilds on load.
type rawGraph struct {
	Bounds roadgraph.Bounds
	Nodes  []roadgraph.RawNode
	Edges  []roadgraph.RawEdge
	Geo    []roadgraph.RawGeometry
}

// GraphCacheRepository persists the road graph's raw load inputs so a
// restart skips re-reading the three binary files (spec.md §4.C).
type GraphCacheRepository struct {
	db *gorm.DB
}

// NewGraphCacheRepository constructs a GraphCacheRepository bound to db.
func NewGraphCacheRepository(db *gorm.DB) *GraphCacheRepository {
	return &GraphCacheRepository{db: db}
}

// Load returns the cached, rebuilt Graph for mapName, or false if nothing is
// cached yet.
func (r *GraphCacheRepository) Load(mapName string) (*roadgraph.Graph, bool, error) {
	var model RoadGraphModel
	err := r.db.Where("map_name = ?", mapName).First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("persistence: load graph cache: %w", err)
	}

	var raw rawGraph
	if err := gob.NewDecoder(bytes.NewReader(model.GraphData)).Decode(&raw); err != nil {
		return nil, false, fmt.Errorf("persistence: decode graph cache: %w", err)
	}

	g, err := roadgraph.Build(raw.Bounds, raw.Nodes, raw.Edges, raw.Geo)
	if err != nil {
		return nil, false, fmt.Errorf("persistence: rebuild cached graph: %w", err)
	}
	return g, true, nil
}

// Save stores mapName's raw load inputs for future restarts.
func (r *GraphCacheRepository) Save(mapName string, bounds roadgraph.Bounds, nodes []roadgraph.RawNode, edges []roadgraph.RawEdge, geo []roadgraph.RawGeometry) error {
	var buf bytes.Buffer
	raw := rawGraph{Bounds: bounds, Nodes: nodes, Edges: edges, Geo: geo}
	if err := gob.NewEncoder(&buf).Encode(raw); err != nil {
		return fmt.Errorf("persistence: encode graph cache: %w", err)
	}

	model := RoadGraphModel{
		MapName:   mapName,
		GraphData: buf.Bytes(),
		NodeCount: len(nodes),
		EdgeCount: len(edges),
	}
	return r.db.Save(&model).Error
}
