package models

// Bounds is a flat lat/lng rectangle in degrees. Antimeridian wrap is not handled.
type Bounds struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

// Contains reports whether c lies inside b, edges included.
func (b Bounds) Contains(c Coordinates) bool {
	return c.Lat >= b.South && c.Lat <= b.North &&
		c.Lng >= b.West && c.Lng <= b.East
}

type MapItemKind string

const (
	MapItemSingle  MapItemKind = "single"
	MapItemCluster MapItemKind = "cluster"
)

// Cluster is a group of at least two nearby listings shown as one pin.
type Cluster struct {
	CentroidLat float64         `json:"centroid_lat"`
	CentroidLng float64         `json:"centroid_lng"`
	MemberIDs   []string        `json:"member_ids"`
	Count       int             `json:"count"`
	Members     []ScoredListing `json:"members"`
}

// MapItem is either a single listing pin or a cluster pin. Exactly one of
// Listing and Cluster is set, matching Kind.
type MapItem struct {
	Kind    MapItemKind    `json:"kind"`
	Listing *ScoredListing `json:"listing,omitempty"`
	Cluster *Cluster       `json:"cluster,omitempty"`
}

// Size returns how many listings the item represents.
func (m MapItem) Size() int {
	if m.Kind == MapItemCluster && m.Cluster != nil {
		return m.Cluster.Count
	}
	return 1
}
