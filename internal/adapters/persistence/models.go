package persistence

import "time"

// RoadGraphModel caches the pruned road graph (spec.md §4.C) for one map, so
// a restart does not have to re-run Tarjan pruning against the binary graph
// files. GraphData is the gob-encoded serialized roadgraph.Graph.
type RoadGraphModel struct {
	MapName   string    `gorm:"column:map_name;primaryKey"`
	GraphData []byte    `gorm:"column:graph_data;type:blob;not null"`
	NodeCount int       `gorm:"column:node_count;not null"`
	EdgeCount int       `gorm:"column:edge_count;not null"`
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;autoUpdateTime"`
}

func (RoadGraphModel) TableName() string {
	return "road_graphs"
}

// FacilityDistanceModel caches one entry of the facility×facility distance
// matrix (spec.md §4.E), keyed by map and the pair of facility names at the
// time the distance was computed. The planner treats a cache miss here as
// authoritative only for the lifetime of one match; entries are not reused
// across maps.
type FacilityDistanceModel struct {
	MapName      string  `gorm:"column:map_name;primaryKey"`
	FromFacility string  `gorm:"column:from_facility;primaryKey"`
	ToFacility   string  `gorm:"column:to_facility;primaryKey"`
	Distance     float64 `gorm:"column:distance;not null"`
}

func (FacilityDistanceModel) TableName() string {
	return "facility_distances"
}
