package catalog

import (
	"context"
	"fmt"
	"sort"

	"github.com/sebbyk/airwaves/internal/models"
	"github.com/sebbyk/airwaves/internal/store"
)

// Resolver composes store reads into the public catalog views.
type Resolver struct {
	store store.Store
}

// NewResolver creates a Resolver over the given store.
func NewResolver(s store.Store) *Resolver {
	return &Resolver{store: s}
}

// StationDetail returns a station with its resolved subchannel lineup.
// A group member sees its own substations plus the group's pool, ordered by
// subchannel number; group-sourced entries get callsign substitution, the
// station's own entries are returned verbatim.
func (r *Resolver) StationDetail(ctx context.Context, id int64) (*models.StationDetail, error) {
	st, err := r.store.GetStation(ctx, id)
	if err != nil {
		return nil, err
	}

	subs, err := r.store.ListStationSubstations(ctx, st.ID, st.StationGroupID)
	if err != nil {
		return nil, fmt.Errorf("resolve substations: %w", err)
	}
	for i := range subs {
		if subs[i].StationGroupID != nil {
			subs[i].MarketingName = RenderMarketingName(subs[i].MarketingName, st.Callsign)
		}
	}
	if subs == nil {
		subs = []models.SubstationWithNetwork{}
	}

	return &models.StationDetail{StationWithTMA: *st, Substations: subs}, nil
}

// NetworkDetail returns a network with its resolved affiliate list: substations
// directly owned by a station carrying the network, plus group-owned substations
// expanded to every member station with substituted names. Ordered by market
// name, then channel number.
func (r *Resolver) NetworkDetail(ctx context.Context, id int64) (*models.NetworkWithAffiliates, error) {
	n, err := r.store.GetNetwork(ctx, id)
	if err != nil {
		return nil, err
	}

	direct, err := r.store.ListDirectAffiliates(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("direct affiliates: %w", err)
	}
	expanded, err := r.store.ListGroupAffiliates(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("group affiliates: %w", err)
	}
	for i := range expanded {
		expanded[i].MarketingName = RenderMarketingName(expanded[i].MarketingName, expanded[i].StationCallsign)
	}

	affiliates := append(direct, expanded...)
	sort.SliceStable(affiliates, func(i, j int) bool {
		if affiliates[i].TMAName != affiliates[j].TMAName {
			return affiliates[i].TMAName < affiliates[j].TMAName
		}
		return affiliates[i].StationNumber < affiliates[j].StationNumber
	})
	if affiliates == nil {
		affiliates = []models.Affiliate{}
	}

	return &models.NetworkWithAffiliates{MajorNetwork: *n, Affiliates: affiliates}, nil
}

// StationGroupDetail returns a group with its member stations and pooled
// substations. Templates are left unrendered; the admin console edits them raw.
func (r *Resolver) StationGroupDetail(ctx context.Context, id int64) (*models.StationGroupDetail, error) {
	g, err := r.store.GetStationGroup(ctx, id)
	if err != nil {
		return nil, err
	}
	stations, err := r.store.ListStationsByGroup(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("group stations: %w", err)
	}
	subs, err := r.store.ListGroupSubstations(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("group substations: %w", err)
	}
	if stations == nil {
		stations = []models.StationWithTMA{}
	}
	if subs == nil {
		subs = []models.SubstationWithNetwork{}
	}
	return &models.StationGroupDetail{StationGroup: *g, Stations: stations, Substations: subs}, nil
}
