package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"zelr-valuation/models"
	"zelr-valuation/services"
	"zelr-valuation/utils"
)

const defaultTTL = 5 * time.Minute

// errStaleLayout reports a cached layout naming a listing absent from the input.
var errStaleLayout = errors.New("cached layout references unknown listing")

// ClusterCache memoises the layout produced by services.ClusterForZoom per
// snapshot and zoom tier. Only the layout is stored; listing data is always
// taken from the caller's input.
//
// Key schema:
//
//	mapitems:{snapshot hash}:{threshold} - JSON-encoded []cachedItem
//
// Zooms that share a threshold produce identical layouts, so they share a key.
type ClusterCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *utils.Logger
}

// cachedItem is the stored form of a models.MapItem.
type cachedItem struct {
	Kind        models.MapItemKind `json:"kind"`
	IDs         []string           `json:"ids"`
	CentroidLat float64            `json:"lat,omitempty"`
	CentroidLng float64            `json:"lng,omitempty"`
}

// NewClusterCache creates a ClusterCache. A non-positive ttl means five minutes.
func NewClusterCache(rdb *redis.Client, ttl time.Duration, logger *utils.Logger) *ClusterCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &ClusterCache{rdb: rdb, ttl: ttl, logger: logger}
}

// SnapshotHash fingerprints the inputs a clustered layout depends on: each
// listing's ID and coordinates, taken in ID order.
func SnapshotHash(scored []models.ScoredListing) string {
	ordered := make([]models.ScoredListing, len(scored))
	copy(ordered, scored)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	h := sha256.New()
	for _, l := range ordered {
		fmt.Fprintf(h, "%s|%s|%s\n", l.ID,
			strconv.FormatFloat(l.Location.Lat, 'g', -1, 64),
			strconv.FormatFloat(l.Location.Lng, 'g', -1, 64))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Key returns the cache key for a snapshot hash at threshold.
func Key(snapshotHash string, threshold float64) string {
	return "mapitems:" + snapshotHash + ":" + strconv.FormatFloat(threshold, 'f', -1, 64)
}

// ClusterForZoom returns the map items for scored at zoom, reusing a layout
// from Redis when present. Cache failures are logged and fall back to direct
// computation. Unclustered zooms keep input order, which the hash ignores,
// and inputs with repeated IDs cannot be rebuilt by ID, so neither is cached.
func (c *ClusterCache) ClusterForZoom(ctx context.Context, scored []models.ScoredListing, zoom float64) []models.MapItem {
	threshold, clustered := services.ClusterThreshold(zoom)
	if !clustered || len(scored) == 0 {
		return services.ClusterForZoom(scored, zoom)
	}

	byID := make(map[string]models.ScoredListing, len(scored))
	for _, l := range scored {
		byID[l.ID] = l
	}
	if len(byID) != len(scored) {
		c.logger.Debug("[cache] Repeated listing IDs, clustering without cache")
		return services.ClusterForZoom(scored, zoom)
	}

	key := Key(SnapshotHash(scored), threshold)

	layout, err := c.get(ctx, key)
	if err == nil {
		var items []models.MapItem
		items, err = rebuild(layout, byID)
		if err == nil {
			c.logger.Debug("[cache] Hit %s (%d items)", key, len(items))
			return items
		}
		err = fmt.Errorf("redis: %s: %w", key, err)
	}
	if errors.Is(err, redis.Nil) {
		c.logger.Debug("[cache] Miss %s", key)
	} else {
		c.logger.Warn("[cache] %v", err)
	}

	items := services.ClusterForZoom(scored, zoom)
	if err := c.set(ctx, key, items); err != nil {
		c.logger.Warn("[cache] %v", err)
	}
	return items
}

func layoutOf(items []models.MapItem) []cachedItem {
	out := make([]cachedItem, len(items))
	for i, it := range items {
		if it.Kind == models.MapItemCluster {
			out[i] = cachedItem{
				Kind:        it.Kind,
				IDs:         it.Cluster.MemberIDs,
				CentroidLat: it.Cluster.CentroidLat,
				CentroidLng: it.Cluster.CentroidLng,
			}
			continue
		}
		out[i] = cachedItem{Kind: it.Kind, IDs: []string{it.Listing.ID}}
	}
	return out
}

// rebuild fills a cached layout with the current listings.
func rebuild(layout []cachedItem, byID map[string]models.ScoredListing) ([]models.MapItem, error) {
	items := make([]models.MapItem, len(layout))
	for i, ci := range layout {
		members := make([]models.ScoredListing, len(ci.IDs))
		for j, id := range ci.IDs {
			l, ok := byID[id]
			if !ok {
				return nil, fmt.Errorf("%w: %s", errStaleLayout, id)
			}
			members[j] = l
		}

		switch {
		case ci.Kind == models.MapItemSingle && len(members) == 1:
			items[i] = models.MapItem{Kind: models.MapItemSingle, Listing: &members[0]}
		case ci.Kind == models.MapItemCluster && len(members) >= 2:
			items[i] = models.MapItem{Kind: models.MapItemCluster, Cluster: &models.Cluster{
				CentroidLat: ci.CentroidLat,
				CentroidLng: ci.CentroidLng,
				MemberIDs:   ci.IDs,
				Count:       len(members),
				Members:     members,
			}}
		default:
			return nil, fmt.Errorf("%w: malformed %s item with %d members", errStaleLayout, ci.Kind, len(members))
		}
	}
	return items, nil
}

func (c *ClusterCache) get(ctx context.Context, key string) ([]cachedItem, error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, err
		}
		return nil, fmt.Errorf("redis: get %s: %w", key, err)
	}

	var layout []cachedItem
	if err := json.Unmarshal(data, &layout); err != nil {
		return nil, fmt.Errorf("redis: unmarshal %s: %w", key, err)
	}
	return layout, nil
}

func (c *ClusterCache) set(ctx context.Context, key string, items []models.MapItem) error {
	data, err := json.Marshal(layoutOf(items))
	if err != nil {
		return fmt.Errorf("redis: marshal %s: %w", key, err)
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", key, err)
	}
	return nil
}
