package graphfile

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/andrescamacho/massim-fleetctl/internal/domain/roadgraph"
)

func writeHeader(buf *bytes.Buffer, nodeCount, edgeCount, geoCount uint32) {
	hdr := make([]byte, headerSize)
	binary.BigEndian.PutUint32(hdr[0:4], magicNumber)
	binary.BigEndian.PutUint32(hdr[4:8], 1)
	binary.BigEndian.PutUint32(hdr[8:12], nodeCount)
	binary.BigEndian.PutUint32(hdr[12:16], edgeCount)
	binary.BigEndian.PutUint32(hdr[16:20], geoCount)
	buf.Write(hdr)
}

func TestLoadRoundTripsASimpleGraph(t *testing.T) {
	var nodesBuf, edgesBuf, geoBuf bytes.Buffer

	writeHeader(&nodesBuf, 2, 0, 0)
	for _, n := range [][2]int32{{0, 0}, {0, 1_000_000}} {
		rec := make([]byte, nodeRecordSize)
		binary.BigEndian.PutUint32(rec[0:4], uint32(n[0]))
		binary.BigEndian.PutUint32(rec[4:8], uint32(n[1]))
		nodesBuf.Write(rec)
	}

	writeHeader(&edgesBuf, 0, 1, 0)
	rec := make([]byte, edgeRecordSize)
	noLink := int32(-1)
	binary.BigEndian.PutUint32(rec[0:4], 0)  // NodeA
	binary.BigEndian.PutUint32(rec[4:8], 1)  // NodeB
	binary.BigEndian.PutUint32(rec[8:12], uint32(noLink))
	binary.BigEndian.PutUint32(rec[12:16], uint32(noLink))
	binary.BigEndian.PutUint32(rec[16:20], 1000) // Dist
	binary.BigEndian.PutUint32(rec[20:24], uint32(roadgraph.FlagAtoB|roadgraph.FlagBtoA))
	edgesBuf.Write(rec)

	writeHeader(&geoBuf, 0, 0, 1)
	geoRec := make([]byte, 4)
	binary.BigEndian.PutUint32(geoRec, 0) // zero points
	geoBuf.Write(geoRec)

	bounds := roadgraph.Bounds{MinLat: 0, MaxLat: 1, MinLon: 0, MaxLon: 1}
	g, err := Load(bounds, &nodesBuf, &edgesBuf, &geoBuf)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if g.NodeCount() != 2 {
		t.Fatalf("expected 2 nodes, got %d", g.NodeCount())
	}
	if g.EdgeCount() != 1 {
		t.Fatalf("expected 1 edge, got %d", g.EdgeCount())
	}
}

func TestLoadRejectsBadMagic(t *testing.T) {
	var nodesBuf, edgesBuf, geoBuf bytes.Buffer
	hdr := make([]byte, headerSize)
	binary.BigEndian.PutUint32(hdr[0:4], 0xdeadbeef)
	nodesBuf.Write(hdr)
	writeHeader(&edgesBuf, 0, 0, 0)
	writeHeader(&geoBuf, 0, 0, 0)

	bounds := roadgraph.Bounds{MinLat: 0, MaxLat: 1, MinLon: 0, MaxLon: 1}
	if _, err := Load(bounds, &nodesBuf, &edgesBuf, &geoBuf); err == nil {
		t.Fatalf("expected an error for a bad magic number")
	}
}
