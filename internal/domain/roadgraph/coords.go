package roadgraph

import "math"

// LatLonPadding pads the map's lat/lon bounding box on every side before
// normalising into the [0, 65535]^2 lattice (spec.md §6).
const LatLonPadding = 0.2

// Bounds is the real-world lat/lon bounding box a map was loaded with. It is
// captured once at load time so Pos<->(lat,lon) conversions are an exact
// affine round trip.
type Bounds struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

// Padded returns the bounding box expanded by LatLonPadding on each side.
func (b Bounds) Padded() Bounds {
	latSpan := b.MaxLat - b.MinLat
	lonSpan := b.MaxLon - b.MinLon
	return Bounds{
		MinLat: b.MinLat - latSpan*LatLonPadding,
		MaxLat: b.MaxLat + latSpan*LatLonPadding,
		MinLon: b.MinLon - lonSpan*LatLonPadding,
		MaxLon: b.MaxLon + lonSpan*LatLonPadding,
	}
}

// ToPos maps a real (lat, lon) pair into the normalised lattice.
func (b Bounds) ToPos(lat, lon float64) Pos {
	padded := b.Padded()
	latFrac := (lat - padded.MinLat) / (padded.MaxLat - padded.MinLat)
	lonFrac := (lon - padded.MinLon) / (padded.MaxLon - padded.MinLon)
	return Pos{
		Lat: quantise(latFrac),
		Lon: quantise(lonFrac),
	}
}

// FromPos maps a lattice point back to real (lat, lon), exact to within one
// u16 ULP of the forward mapping.
func (b Bounds) FromPos(p Pos) (lat, lon float64) {
	padded := b.Padded()
	latFrac := float64(p.Lat) / 65535.0
	lonFrac := float64(p.Lon) / 65535.0
	lat = padded.MinLat + latFrac*(padded.MaxLat-padded.MinLat)
	lon = padded.MinLon + lonFrac*(padded.MaxLon-padded.MinLon)
	return lat, lon
}

func quantise(frac float64) uint16 {
	if frac < 0 {
		return 0
	}
	if frac > 1 {
		return 65535
	}
	return uint16(frac*65535.0 + 0.5)
}

// metresPerDegreeLat is near-constant across the globe; metresPerDegreeLon
// depends on latitude and is scaled per map at load time.
const metresPerDegreeLat = 111_320.0

// MetresPerDegreeLon returns the local east-west metres-per-degree scale at
// the given reference latitude (in degrees), used to turn lat/lon deltas
// into an approximately Euclidean metre distance for snapping and the A*
// heuristic.
func MetresPerDegreeLon(refLatDegrees float64) float64 {
	return metresPerDegreeLat * math.Cos(refLatDegrees*math.Pi/180.0)
}
