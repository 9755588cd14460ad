package store

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/sebbyk/airwaves/internal/cache"
	"github.com/sebbyk/airwaves/internal/models"
)

// Cache TTLs for different entity types. Short enough that admin edits made
// on another replica converge quickly.
const (
	ttlTMAs     = 5 * time.Minute
	ttlStations = 1 * time.Minute
	ttlStation  = 2 * time.Minute
	ttlNetworks = 2 * time.Minute
	ttlGroups   = 5 * time.Minute
)

// CachedStore wraps a Store with a Redis caching layer for the public catalog
// reads; write operations invalidate the relevant keys. User and feedback
// operations pass through uncached so the authorization gate always sees the
// current admin flag.
type CachedStore struct {
	inner Store
	cache *cache.Redis
	log   zerolog.Logger
}

// NewCachedStore creates a CachedStore that wraps inner with Redis caching.
func NewCachedStore(inner Store, c *cache.Redis, log zerolog.Logger) *CachedStore {
	return &CachedStore{inner: inner, cache: c, log: log}
}

// --- cached read operations ---

func (c *CachedStore) ListTMAs(ctx context.Context) ([]models.TMA, error) {
	const key = "tmas:all"
	if v, err := cache.Get[[]models.TMA](ctx, c.cache, key); err == nil {
		return v, nil
	}
	tmas, err := c.inner.ListTMAs(ctx)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, tmas, ttlTMAs)
	return tmas, nil
}

func (c *CachedStore) GetTMA(ctx context.Context, id int64) (*models.TMA, error) {
	key := fmt.Sprintf("tma:%d", id)
	if v, err := cache.Get[models.TMA](ctx, c.cache, key); err == nil {
		return &v, nil
	}
	t, err := c.inner.GetTMA(ctx, id)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, t, ttlTMAs)
	return t, nil
}

func (c *CachedStore) SearchStations(ctx context.Context, filter StationFilter) ([]models.StationWithTMA, error) {
	key := fmt.Sprintf("stations:%s", filterHash(filter))
	if v, err := cache.Get[[]models.StationWithTMA](ctx, c.cache, key); err == nil {
		return v, nil
	}
	stations, err := c.inner.SearchStations(ctx, filter)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, stations, ttlStations)
	return stations, nil
}

func (c *CachedStore) ListStationsByTMA(ctx context.Context, tmaID int64) ([]models.StationWithTMA, error) {
	key := fmt.Sprintf("tma_stations:%d", tmaID)
	if v, err := cache.Get[[]models.StationWithTMA](ctx, c.cache, key); err == nil {
		return v, nil
	}
	stations, err := c.inner.ListStationsByTMA(ctx, tmaID)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, stations, ttlStations)
	return stations, nil
}

func (c *CachedStore) GetStation(ctx context.Context, id int64) (*models.StationWithTMA, error) {
	key := fmt.Sprintf("station:%d", id)
	if v, err := cache.Get[models.StationWithTMA](ctx, c.cache, key); err == nil {
		return &v, nil
	}
	st, err := c.inner.GetStation(ctx, id)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, st, ttlStation)
	return st, nil
}

func (c *CachedStore) ListStationSubstations(ctx context.Context, stationID int64, groupID *int64) ([]models.SubstationWithNetwork, error) {
	gid := int64(0)
	if groupID != nil {
		gid = *groupID
	}
	key := fmt.Sprintf("station_subs:%d:%d", stationID, gid)
	if v, err := cache.Get[[]models.SubstationWithNetwork](ctx, c.cache, key); err == nil {
		return v, nil
	}
	subs, err := c.inner.ListStationSubstations(ctx, stationID, groupID)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, subs, ttlStation)
	return subs, nil
}

func (c *CachedStore) ListNetworks(ctx context.Context) ([]models.NetworkWithCount, error) {
	const key = "networks:all"
	if v, err := cache.Get[[]models.NetworkWithCount](ctx, c.cache, key); err == nil {
		return v, nil
	}
	networks, err := c.inner.ListNetworks(ctx)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, networks, ttlNetworks)
	return networks, nil
}

func (c *CachedStore) GetNetwork(ctx context.Context, id int64) (*models.MajorNetwork, error) {
	key := fmt.Sprintf("network:%d", id)
	if v, err := cache.Get[models.MajorNetwork](ctx, c.cache, key); err == nil {
		return &v, nil
	}
	n, err := c.inner.GetNetwork(ctx, id)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, n, ttlNetworks)
	return n, nil
}

func (c *CachedStore) ListStationGroups(ctx context.Context) ([]models.StationGroup, error) {
	const key = "groups:all"
	if v, err := cache.Get[[]models.StationGroup](ctx, c.cache, key); err == nil {
		return v, nil
	}
	groups, err := c.inner.ListStationGroups(ctx)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, groups, ttlGroups)
	return groups, nil
}

func (c *CachedStore) GetStationGroup(ctx context.Context, id int64) (*models.StationGroup, error) {
	key := fmt.Sprintf("group:%d", id)
	if v, err := cache.Get[models.StationGroup](ctx, c.cache, key); err == nil {
		return &v, nil
	}
	g, err := c.inner.GetStationGroup(ctx, id)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, g, ttlGroups)
	return g, nil
}

// --- write operations with cache invalidation ---

func (c *CachedStore) UpdateTMAStatus(ctx context.Context, id int64, status string) error {
	if err := c.inner.UpdateTMAStatus(ctx, id, status); err != nil {
		return err
	}
	c.invalidate(ctx, "tmas:all", fmt.Sprintf("tma:%d", id))
	return nil
}

func (c *CachedStore) CreateStation(ctx context.Context, st *models.Station) (int64, error) {
	id, err := c.inner.CreateStation(ctx, st)
	if err != nil {
		return 0, err
	}
	c.invalidateStationReads(ctx)
	return id, nil
}

func (c *CachedStore) UpdateStation(ctx context.Context, id int64, fields StationUpdate) error {
	if err := c.inner.UpdateStation(ctx, id, fields); err != nil {
		return err
	}
	c.invalidate(ctx, fmt.Sprintf("station:%d", id))
	c.invalidateStationReads(ctx)
	return nil
}

func (c *CachedStore) DeleteStation(ctx context.Context, id int64) error {
	if err := c.inner.DeleteStation(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, fmt.Sprintf("station:%d", id))
	c.invalidateStationReads(ctx)
	return nil
}

func (c *CachedStore) CreateSubstation(ctx context.Context, sub *models.Substation, owner models.Owner) (int64, error) {
	id, err := c.inner.CreateSubstation(ctx, sub, owner)
	if err != nil {
		return 0, err
	}
	c.invalidateSubstationReads(ctx)
	return id, nil
}

func (c *CachedStore) UpdateSubstation(ctx context.Context, id int64, fields SubstationUpdate) error {
	if err := c.inner.UpdateSubstation(ctx, id, fields); err != nil {
		return err
	}
	c.invalidateSubstationReads(ctx)
	return nil
}

func (c *CachedStore) DeleteSubstation(ctx context.Context, id int64) error {
	if err := c.inner.DeleteSubstation(ctx, id); err != nil {
		return err
	}
	c.invalidateSubstationReads(ctx)
	return nil
}

func (c *CachedStore) CreateNetwork(ctx context.Context, n *models.MajorNetwork) (int64, error) {
	id, err := c.inner.CreateNetwork(ctx, n)
	if err != nil {
		return 0, err
	}
	c.invalidate(ctx, "networks:all")
	return id, nil
}

func (c *CachedStore) UpdateNetwork(ctx context.Context, id int64, fields NetworkUpdate) error {
	if err := c.inner.UpdateNetwork(ctx, id, fields); err != nil {
		return err
	}
	c.invalidate(ctx, "networks:all", fmt.Sprintf("network:%d", id))
	c.invalidatePattern(ctx, "station_subs:*")
	return nil
}

func (c *CachedStore) DeleteNetwork(ctx context.Context, id int64) error {
	if err := c.inner.DeleteNetwork(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, "networks:all", fmt.Sprintf("network:%d", id))
	return nil
}

func (c *CachedStore) CreateStationGroup(ctx context.Context, g *models.StationGroup) (int64, error) {
	id, err := c.inner.CreateStationGroup(ctx, g)
	if err != nil {
		return 0, err
	}
	c.invalidate(ctx, "groups:all")
	return id, nil
}

func (c *CachedStore) UpdateStationGroup(ctx context.Context, id int64, fields StationGroupUpdate) error {
	if err := c.inner.UpdateStationGroup(ctx, id, fields); err != nil {
		return err
	}
	c.invalidate(ctx, "groups:all", fmt.Sprintf("group:%d", id))
	c.invalidatePattern(ctx, "station:*", "stations:*")
	return nil
}

func (c *CachedStore) DeleteStationGroup(ctx context.Context, id int64) error {
	if err := c.inner.DeleteStationGroup(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, "groups:all", fmt.Sprintf("group:%d", id))
	return nil
}

// --- passthrough (no caching) ---

func (c *CachedStore) GetSubstation(ctx context.Context, id int64) (*models.Substation, error) {
	return c.inner.GetSubstation(ctx, id)
}

func (c *CachedStore) ListGroupSubstations(ctx context.Context, groupID int64) ([]models.SubstationWithNetwork, error) {
	return c.inner.ListGroupSubstations(ctx, groupID)
}

func (c *CachedStore) ListDirectAffiliates(ctx context.Context, networkID int64) ([]models.Affiliate, error) {
	return c.inner.ListDirectAffiliates(ctx, networkID)
}

func (c *CachedStore) ListGroupAffiliates(ctx context.Context, networkID int64) ([]models.Affiliate, error) {
	return c.inner.ListGroupAffiliates(ctx, networkID)
}

func (c *CachedStore) ListStationsByGroup(ctx context.Context, groupID int64) ([]models.StationWithTMA, error) {
	return c.inner.ListStationsByGroup(ctx, groupID)
}

func (c *CachedStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	return c.inner.GetUser(ctx, id)
}

func (c *CachedStore) CreateUser(ctx context.Context, u *models.User) error {
	return c.inner.CreateUser(ctx, u)
}

func (c *CachedStore) ListUsers(ctx context.Context) ([]models.User, error) {
	return c.inner.ListUsers(ctx)
}

func (c *CachedStore) SetUserAdmin(ctx context.Context, id string, isAdmin bool) error {
	return c.inner.SetUserAdmin(ctx, id, isAdmin)
}

func (c *CachedStore) CreateFeedback(ctx context.Context, f *models.Feedback) (int64, error) {
	return c.inner.CreateFeedback(ctx, f)
}

func (c *CachedStore) GetFeedback(ctx context.Context, id int64) (*models.Feedback, error) {
	return c.inner.GetFeedback(ctx, id)
}

func (c *CachedStore) ListFeedback(ctx context.Context, status *string) ([]models.FeedbackWithUser, error) {
	return c.inner.ListFeedback(ctx, status)
}

func (c *CachedStore) ListFeedbackByUser(ctx context.Context, userID string) ([]models.Feedback, error) {
	return c.inner.ListFeedbackByUser(ctx, userID)
}

func (c *CachedStore) UpdateFeedbackStatus(ctx context.Context, id int64, status string) error {
	return c.inner.UpdateFeedbackStatus(ctx, id, status)
}

// --- helpers ---

func (c *CachedStore) set(ctx context.Context, key string, v any, ttl time.Duration) {
	if err := cache.Set(ctx, c.cache, key, v, ttl); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
}

// invalidate deletes exact cache keys, logging any errors.
func (c *CachedStore) invalidate(ctx context.Context, keys ...string) {
	if err := cache.Del(ctx, c.cache, keys...); err != nil && err != redis.Nil {
		c.log.Warn().Err(err).Strs("keys", keys).Msg("cache del failed")
	}
}

// invalidatePattern deletes all keys matching the given glob patterns.
func (c *CachedStore) invalidatePattern(ctx context.Context, patterns ...string) {
	for _, p := range patterns {
		if err := cache.DelPattern(ctx, c.cache, p); err != nil {
			c.log.Warn().Err(err).Str("pattern", p).Msg("cache del pattern failed")
		}
	}
}

// Station membership and channel numbers feed search results, market listings,
// and network affiliate counts, so station writes sweep broadly.
func (c *CachedStore) invalidateStationReads(ctx context.Context) {
	c.invalidatePattern(ctx, "stations:*", "tma_stations:*", "station_subs:*")
	c.invalidate(ctx, "networks:all")
}

func (c *CachedStore) invalidateSubstationReads(ctx context.Context) {
	c.invalidatePattern(ctx, "station_subs:*")
	c.invalidate(ctx, "networks:all")
}

// filterHash produces a short deterministic hash for a StationFilter so it
// can be used as part of a cache key.
func filterHash(f StationFilter) string {
	tma := int64(0)
	if f.TMAID != nil {
		tma = *f.TMAID
	}
	raw := fmt.Sprintf("%s|%d", f.Query, tma)
	h := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%x", h[:8])
}
