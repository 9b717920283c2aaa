package services

import (
	"math"
	"sort"

	"zelr-valuation/models"
)

// NoClusterZoom is the zoom level from which every listing is its own pin.
const NoClusterZoom = 14

// ClusterThreshold returns the box distance, in degrees, within which
// listings merge at zoom. clustered is false when zoom disables clustering.
func ClusterThreshold(zoom float64) (threshold float64, clustered bool) {
	switch {
	case zoom >= NoClusterZoom:
		return 0, false
	case zoom >= 12:
		return 0.01, true
	case zoom >= 10:
		return 0.02, true
	default:
		return 0.04, true
	}
}

// ClusterForZoom partitions scored listings into map pins for zoom.
//
// Below NoClusterZoom listings are visited in ID order. Each unclustered
// listing seeds a group and absorbs every other unclustered listing whose
// |Δlat| and |Δlng| to the seed are both within the zoom's threshold. The
// result is greedy and seed-order dependent, so it is an approximation rather
// than an optimal clustering; the ID order only makes it repeatable.
//
// Every input listing appears in exactly one returned item.
func ClusterForZoom(scored []models.ScoredListing, zoom float64) []models.MapItem {
	if len(scored) == 0 {
		return []models.MapItem{}
	}

	threshold, clustered := ClusterThreshold(zoom)
	if !clustered {
		items := make([]models.MapItem, len(scored))
		for i := range scored {
			l := scored[i]
			items[i] = models.MapItem{Kind: models.MapItemSingle, Listing: &l}
		}
		return items
	}

	ordered := make([]models.ScoredListing, len(scored))
	copy(ordered, scored)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ID < ordered[j].ID
	})

	used := make([]bool, len(ordered))
	items := make([]models.MapItem, 0, len(ordered))

	for i := range ordered {
		if used[i] {
			continue
		}
		used[i] = true
		seed := ordered[i]
		members := []models.ScoredListing{seed}

		for j := i + 1; j < len(ordered); j++ {
			if used[j] {
				continue
			}
			if withinBox(seed.Location, ordered[j].Location, threshold) {
				used[j] = true
				members = append(members, ordered[j])
			}
		}

		if len(members) == 1 {
			items = append(items, models.MapItem{Kind: models.MapItemSingle, Listing: &members[0]})
			continue
		}
		items = append(items, models.MapItem{Kind: models.MapItemCluster, Cluster: newCluster(members)})
	}
	return items
}

func withinBox(a, b models.Coordinates, threshold float64) bool {
	return math.Abs(a.Lat-b.Lat) <= threshold && math.Abs(a.Lng-b.Lng) <= threshold
}

func newCluster(members []models.ScoredListing) *models.Cluster {
	c := &models.Cluster{
		MemberIDs: make([]string, len(members)),
		Count:     len(members),
		Members:   members,
	}
	var sumLat, sumLng float64
	for i, m := range members {
		c.MemberIDs[i] = m.ID
		sumLat += m.Location.Lat
		sumLng += m.Location.Lng
	}
	c.CentroidLat = sumLat / float64(len(members))
	c.CentroidLng = sumLng / float64(len(members))
	return c
}
