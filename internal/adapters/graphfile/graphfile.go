// Package graphfile reads the road network's on-disk binary format (spec.md
// §6): a fixed 100-byte header, fixed-size node and edge records, and
// variable-length geometry records, all big-endian, parsed with
// encoding/binary the way the teacher's SpaceTraders gobot reads its own
// binary caches.
package graphfile

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/andrescamacho/massim-fleetctl/internal/domain/roadgraph"
)

const (
	headerSize     = 100
	nodeRecordSize = 12
	edgeRecordSize = 32
)

// Header is the fixed 100-byte file preamble: a magic number, a format
// version and node/edge/geometry counts, the remainder reserved for future
// extension and zero-padded.
type Header struct {
	Magic        uint32
	Version      uint32
	NodeCount    uint32
	EdgeCount    uint32
	GeometryCount uint32
}

const magicNumber uint32 = 0x46435447 // "FCTG"

// ReadNodes reads the header and every fixed-size node record.
func ReadNodes(r io.Reader) (Header, []roadgraph.RawNode, error) {
	hdr, err := readHeader(r)
	if err != nil {
		return Header{}, nil, err
	}

	nodes := make([]roadgraph.RawNode, hdr.NodeCount)
	buf := make([]byte, nodeRecordSize)
	for i := range nodes {
		if _, err := io.ReadFull(r, buf); err != nil {
			return hdr, nil, fmt.Errorf("graphfile: node record %d: %w", i, err)
		}
		nodes[i] = roadgraph.RawNode{
			Lat: int32(binary.BigEndian.Uint32(buf[0:4])),
			Lon: int32(binary.BigEndian.Uint32(buf[4:8])),
		}
	}
	return hdr, nodes, nil
}

// ReadEdges reads count fixed-size edge records from r. Callers must have
// already consumed the edges file's own 100-byte header (as Load does) and
// pass its EdgeCount.
func ReadEdges(r io.Reader, count uint32) ([]roadgraph.RawEdge, error) {
	edges := make([]roadgraph.RawEdge, count)
	buf := make([]byte, edgeRecordSize)
	for i := range edges {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("graphfile: edge record %d: %w", i, err)
		}
		edges[i] = roadgraph.RawEdge{
			NodeA: int32(binary.BigEndian.Uint32(buf[0:4])),
			NodeB: int32(binary.BigEndian.Uint32(buf[4:8])),
			LinkA: int32(binary.BigEndian.Uint32(buf[8:12])),
			LinkB: int32(binary.BigEndian.Uint32(buf[12:16])),
			Dist:  int32(binary.BigEndian.Uint32(buf[16:20])),
			Flags: int32(binary.BigEndian.Uint32(buf[20:24])),
			Geo:   int32(binary.BigEndian.Uint32(buf[24:28])),
			Name:  int32(binary.BigEndian.Uint32(buf[28:32])),
		}
	}
	return edges, nil
}

// ReadGeometry reads count variable-length, point-count-prefixed geometry
// records (a uint32 point count followed by that many lat/lon int32 pairs).
func ReadGeometry(r io.Reader, count uint32) ([]roadgraph.RawGeometry, error) {
	geo := make([]roadgraph.RawGeometry, count)
	countBuf := make([]byte, 4)
	for i := range geo {
		if _, err := io.ReadFull(r, countBuf); err != nil {
			return nil, fmt.Errorf("graphfile: geometry record %d count: %w", i, err)
		}
		n := binary.BigEndian.Uint32(countBuf)
		points := make([]roadgraph.RawNode, n)
		pointBuf := make([]byte, 8)
		for j := range points {
			if _, err := io.ReadFull(r, pointBuf); err != nil {
				return nil, fmt.Errorf("graphfile: geometry record %d point %d: %w", i, j, err)
			}
			points[j] = roadgraph.RawNode{
				Lat: int32(binary.BigEndian.Uint32(pointBuf[0:4])),
				Lon: int32(binary.BigEndian.Uint32(pointBuf[4:8])),
			}
		}
		geo[i] = roadgraph.RawGeometry{Points: points}
	}
	return geo, nil
}

func readHeader(r io.Reader) (Header, error) {
	buf := make([]byte, headerSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return Header{}, fmt.Errorf("graphfile: header: %w", err)
	}
	hdr := Header{
		Magic:         binary.BigEndian.Uint32(buf[0:4]),
		Version:       binary.BigEndian.Uint32(buf[4:8]),
		NodeCount:     binary.BigEndian.Uint32(buf[8:12]),
		EdgeCount:     binary.BigEndian.Uint32(buf[12:16]),
		GeometryCount: binary.BigEndian.Uint32(buf[16:20]),
	}
	if hdr.Magic != magicNumber {
		return hdr, fmt.Errorf("graphfile: bad magic number %#x", hdr.Magic)
	}
	return hdr, nil
}

// Load reads the full nodes+edges+geometry layout from separate readers (one
// per file, matching the three *.bin paths in GraphConfig) and builds a
// pruned, routable Graph.
func Load(bounds roadgraph.Bounds, nodesR, edgesR, geometryR io.Reader) (*roadgraph.Graph, error) {
	hdr, nodes, err := ReadNodes(nodesR)
	if err != nil {
		return nil, err
	}

	edgeHdr, err := readHeader(edgesR)
	if err != nil {
		return nil, err
	}
	edges, err := ReadEdges(edgesR, edgeHdr.EdgeCount)
	if err != nil {
		return nil, err
	}

	geoHdr, err := readHeader(geometryR)
	if err != nil {
		return nil, err
	}
	geo, err := ReadGeometry(geometryR, geoHdr.GeometryCount)
	if err != nil {
		return nil, err
	}

	if int(hdr.NodeCount) != len(nodes) {
		return nil, fmt.Errorf("graphfile: node count mismatch: header says %d, read %d", hdr.NodeCount, len(nodes))
	}

	return roadgraph.Build(bounds, nodes, edges, geo)
}
