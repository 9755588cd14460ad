package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebbyk/airwaves/internal/models"
	"github.com/sebbyk/airwaves/internal/store"
)

// stubStore overrides only the reads the resolver touches.
type stubStore struct {
	store.Store

	station          *models.StationWithTMA
	stationSubs      []models.SubstationWithNetwork
	network          *models.MajorNetwork
	directAffiliates []models.Affiliate
	groupAffiliates  []models.Affiliate
	group            *models.StationGroup
	groupStations    []models.StationWithTMA
	groupSubs        []models.SubstationWithNetwork
}

func (s *stubStore) GetStation(_ context.Context, _ int64) (*models.StationWithTMA, error) {
	if s.station == nil {
		return nil, store.ErrNotFound
	}
	return s.station, nil
}

func (s *stubStore) ListStationSubstations(_ context.Context, _ int64, _ *int64) ([]models.SubstationWithNetwork, error) {
	return s.stationSubs, nil
}

func (s *stubStore) GetNetwork(_ context.Context, _ int64) (*models.MajorNetwork, error) {
	if s.network == nil {
		return nil, store.ErrNotFound
	}
	return s.network, nil
}

func (s *stubStore) ListDirectAffiliates(_ context.Context, _ int64) ([]models.Affiliate, error) {
	return s.directAffiliates, nil
}

func (s *stubStore) ListGroupAffiliates(_ context.Context, _ int64) ([]models.Affiliate, error) {
	return s.groupAffiliates, nil
}

func (s *stubStore) GetStationGroup(_ context.Context, _ int64) (*models.StationGroup, error) {
	if s.group == nil {
		return nil, store.ErrNotFound
	}
	return s.group, nil
}

func (s *stubStore) ListStationsByGroup(_ context.Context, _ int64) ([]models.StationWithTMA, error) {
	return s.groupStations, nil
}

func (s *stubStore) ListGroupSubstations(_ context.Context, _ int64) ([]models.SubstationWithNetwork, error) {
	return s.groupSubs, nil
}

func sub(id int64, number int, name string, stationID, groupID *int64) models.SubstationWithNetwork {
	return models.SubstationWithNetwork{Substation: models.Substation{
		ID:             id,
		StationID:      stationID,
		StationGroupID: groupID,
		Number:         number,
		MarketingName:  name,
	}}
}

func i64(n int64) *int64 { return &n }

func TestStationDetailSubstitution(t *testing.T) {
	groupID := i64(5)
	st := &models.StationWithTMA{
		Station: models.Station{ID: 1, Callsign: "WXYZ-TV", StationGroupID: groupID},
		TMAName: "Detroit",
	}
	s := &stubStore{
		station: st,
		stationSubs: []models.SubstationWithNetwork{
			sub(10, 1, "{CALL} Main", nil, groupID),
			sub(11, 2, "Local Weather", i64(1), nil),
			sub(12, 3, "{CALL4} Classics", nil, groupID),
		},
	}

	detail, err := NewResolver(s).StationDetail(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, detail.Substations, 3)

	// Group-sourced rows are rendered, the station's own row is untouched.
	assert.Equal(t, "WXYZ-TV Main", detail.Substations[0].MarketingName)
	assert.Equal(t, "Local Weather", detail.Substations[1].MarketingName)
	assert.Equal(t, "WXYZ Classics", detail.Substations[2].MarketingName)
}

func TestStationDetailOwnTemplateNotRendered(t *testing.T) {
	// A station-owned row containing placeholder text is returned verbatim:
	// substitution applies only to group-pooled templates.
	st := &models.StationWithTMA{Station: models.Station{ID: 2, Callsign: "KTVU"}}
	s := &stubStore{
		station:     st,
		stationSubs: []models.SubstationWithNetwork{sub(20, 1, "{CALL} Plus", i64(2), nil)},
	}

	detail, err := NewResolver(s).StationDetail(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "{CALL} Plus", detail.Substations[0].MarketingName)
}

func TestStationDetailNotFound(t *testing.T) {
	_, err := NewResolver(&stubStore{}).StationDetail(context.Background(), 99)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStationDetailEmptyLineup(t *testing.T) {
	s := &stubStore{station: &models.StationWithTMA{Station: models.Station{ID: 3, Callsign: "KQED"}}}
	detail, err := NewResolver(s).StationDetail(context.Background(), 3)
	require.NoError(t, err)
	assert.NotNil(t, detail.Substations)
	assert.Empty(t, detail.Substations)
}

func affiliate(subID int64, name, callsign, tmaName string, stationNumber int) models.Affiliate {
	return models.Affiliate{
		SubstationID:    subID,
		MarketingName:   name,
		StationCallsign: callsign,
		StationNumber:   stationNumber,
		TMAName:         tmaName,
	}
}

func TestNetworkDetailExpansionAndOrder(t *testing.T) {
	s := &stubStore{
		network: &models.MajorNetwork{ID: 4, ShortName: "PBS"},
		directAffiliates: []models.Affiliate{
			affiliate(30, "PBS HD", "WTTW", "Chicago", 11),
		},
		groupAffiliates: []models.Affiliate{
			affiliate(31, "{CALL4} PBS", "WFWA", "Fort Wayne", 39),
			affiliate(31, "{CALL4} PBS", "WIPB", "Muncie", 49),
			affiliate(32, "{CALL} Kids", "WFWA", "Fort Wayne", 39),
		},
	}

	detail, err := NewResolver(s).NetworkDetail(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, detail.Affiliates, 4)

	// Sorted by market name, then channel number; expansion rendered per station.
	assert.Equal(t, "PBS HD", detail.Affiliates[0].MarketingName)
	assert.Equal(t, "Chicago", detail.Affiliates[0].TMAName)
	assert.Equal(t, "WFWA PBS", detail.Affiliates[1].MarketingName)
	assert.Equal(t, "WFWA Kids", detail.Affiliates[2].MarketingName)
	assert.Equal(t, "WIPB PBS", detail.Affiliates[3].MarketingName)
}

func TestNetworkDetailDirectNamesNotRendered(t *testing.T) {
	s := &stubStore{
		network:          &models.MajorNetwork{ID: 5, ShortName: "ABC"},
		directAffiliates: []models.Affiliate{affiliate(40, "{CALL} Direct", "KABC", "Los Angeles", 7)},
	}

	detail, err := NewResolver(s).NetworkDetail(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "{CALL} Direct", detail.Affiliates[0].MarketingName)
}

func TestStationGroupDetailTemplatesRaw(t *testing.T) {
	groupID := i64(6)
	s := &stubStore{
		group: &models.StationGroup{ID: 6, Name: "State Public TV"},
		groupStations: []models.StationWithTMA{
			{Station: models.Station{ID: 1, Callsign: "WFWA"}, TMAName: "Fort Wayne"},
		},
		groupSubs: []models.SubstationWithNetwork{
			sub(50, 1, "{CALL4} PBS", nil, groupID),
		},
	}

	detail, err := NewResolver(s).StationGroupDetail(context.Background(), 6)
	require.NoError(t, err)
	require.Len(t, detail.Substations, 1)
	assert.Equal(t, "{CALL4} PBS", detail.Substations[0].MarketingName)
	assert.Len(t, detail.Stations, 1)
}
