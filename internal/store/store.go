package store

import (
	"context"
	"errors"

	"github.com/sebbyk/airwaves/internal/models"
)

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a delete would orphan rows that still
// reference the target.
var ErrConflict = errors.New("conflict: row is still referenced")

// Store defines persistence for markets, stations, substations, networks,
// station groups, users, and feedback.
type Store interface {
	// ListTMAs returns all markets ordered by name.
	ListTMAs(ctx context.Context) ([]models.TMA, error)
	// GetTMA returns a single market by id.
	GetTMA(ctx context.Context, id int64) (*models.TMA, error)
	// UpdateTMAStatus sets the rollout status of a market.
	UpdateTMAStatus(ctx context.Context, id int64, status string) error

	// SearchStations returns stations matching the filter, ordered by channel number.
	SearchStations(ctx context.Context, filter StationFilter) ([]models.StationWithTMA, error)
	// ListStationsByTMA returns the stations of one market ordered by channel number.
	ListStationsByTMA(ctx context.Context, tmaID int64) ([]models.StationWithTMA, error)
	// GetStation returns a station with joined market and group names.
	GetStation(ctx context.Context, id int64) (*models.StationWithTMA, error)
	// CreateStation inserts a station; the market (and group, if set) must exist.
	CreateStation(ctx context.Context, st *models.Station) (int64, error)
	// UpdateStation applies a partial update.
	UpdateStation(ctx context.Context, id int64, fields StationUpdate) error
	// DeleteStation removes a station; its own substations cascade.
	DeleteStation(ctx context.Context, id int64) error

	// GetSubstation returns a single substation by id.
	GetSubstation(ctx context.Context, id int64) (*models.Substation, error)
	// ListStationSubstations returns the substations visible on a station:
	// its own rows plus, when groupID is set, the group's pooled rows.
	// Ordered by subchannel number. Marketing names are raw templates.
	ListStationSubstations(ctx context.Context, stationID int64, groupID *int64) ([]models.SubstationWithNetwork, error)
	// ListGroupSubstations returns the substations pooled in a group.
	ListGroupSubstations(ctx context.Context, groupID int64) ([]models.SubstationWithNetwork, error)
	// CreateSubstation inserts a substation under a validated owner.
	CreateSubstation(ctx context.Context, sub *models.Substation, owner models.Owner) (int64, error)
	// UpdateSubstation applies a partial update (ownership is immutable).
	UpdateSubstation(ctx context.Context, id int64, fields SubstationUpdate) error
	// DeleteSubstation removes a substation.
	DeleteSubstation(ctx context.Context, id int64) error

	// ListNetworks returns all networks with computed affiliate counts,
	// ordered by short name.
	ListNetworks(ctx context.Context) ([]models.NetworkWithCount, error)
	// GetNetwork returns a single network by id.
	GetNetwork(ctx context.Context, id int64) (*models.MajorNetwork, error)
	// ListDirectAffiliates returns station-owned substations affiliated with
	// the network, one row per substation.
	ListDirectAffiliates(ctx context.Context, networkID int64) ([]models.Affiliate, error)
	// ListGroupAffiliates returns group-owned substations affiliated with the
	// network, expanded to one row per member station. Marketing names are raw
	// templates.
	ListGroupAffiliates(ctx context.Context, networkID int64) ([]models.Affiliate, error)
	// CreateNetwork inserts a network.
	CreateNetwork(ctx context.Context, n *models.MajorNetwork) (int64, error)
	// UpdateNetwork applies a partial update.
	UpdateNetwork(ctx context.Context, id int64, fields NetworkUpdate) error
	// DeleteNetwork removes a network; ErrConflict while substations reference it.
	DeleteNetwork(ctx context.Context, id int64) error

	// ListStationGroups returns all station groups ordered by name.
	ListStationGroups(ctx context.Context) ([]models.StationGroup, error)
	// GetStationGroup returns a single group by id.
	GetStationGroup(ctx context.Context, id int64) (*models.StationGroup, error)
	// ListStationsByGroup returns the member stations of a group.
	ListStationsByGroup(ctx context.Context, groupID int64) ([]models.StationWithTMA, error)
	// CreateStationGroup inserts a group.
	CreateStationGroup(ctx context.Context, g *models.StationGroup) (int64, error)
	// UpdateStationGroup applies a partial update.
	UpdateStationGroup(ctx context.Context, id int64, fields StationGroupUpdate) error
	// DeleteStationGroup removes a group; ErrConflict while stations or
	// substations reference it.
	DeleteStationGroup(ctx context.Context, id int64) error

	// GetUser returns a user by identity subject.
	GetUser(ctx context.Context, id string) (*models.User, error)
	// CreateUser inserts a user row. Only the authentication path calls this.
	CreateUser(ctx context.Context, u *models.User) error
	// ListUsers returns all users, newest first.
	ListUsers(ctx context.Context) ([]models.User, error)
	// SetUserAdmin sets the admin flag on a user.
	SetUserAdmin(ctx context.Context, id string, isAdmin bool) error

	// CreateFeedback inserts a feedback row with status pending.
	CreateFeedback(ctx context.Context, f *models.Feedback) (int64, error)
	// GetFeedback returns a single feedback row by id.
	GetFeedback(ctx context.Context, id int64) (*models.Feedback, error)
	// ListFeedback returns all feedback with submitter columns, newest first,
	// optionally filtered by status.
	ListFeedback(ctx context.Context, status *string) ([]models.FeedbackWithUser, error)
	// ListFeedbackByUser returns one user's feedback, newest first.
	ListFeedbackByUser(ctx context.Context, userID string) ([]models.Feedback, error)
	// UpdateFeedbackStatus sets the moderation status of a feedback row.
	UpdateFeedbackStatus(ctx context.Context, id int64, status string) error
}

// StationFilter holds optional filters for searching stations.
type StationFilter struct {
	Query string // case-insensitive substring match on callsign, marketing name, or channel number
	TMAID *int64
}

// StationUpdate holds mutable fields for partial station updates.
// Plain pointers: nil = don't change. Optional fields additionally
// distinguish an explicit null (clear) from absence.
type StationUpdate struct {
	Callsign       *string                 `json:"callsign"`
	StationNumber  *int                    `json:"station_number"`
	MarketingName  *string                 `json:"marketing_name"`
	LogoURL        models.Optional[string] `json:"logo_url"`
	TMAID          *int64                  `json:"tma_id"`
	StationGroupID models.Optional[int64]  `json:"station_group_id"`
}

// SubstationUpdate holds mutable fields for partial substation updates.
type SubstationUpdate struct {
	Number         *int                   `json:"number"`
	MarketingName  *string                `json:"marketing_name"`
	MajorNetworkID models.Optional[int64] `json:"major_network_id"`
}

// NetworkUpdate holds mutable fields for partial network updates.
type NetworkUpdate struct {
	ShortName *string                 `json:"short_name"`
	LongName  *string                 `json:"long_name"`
	LogoURL   models.Optional[string] `json:"logo_url"`
}

// StationGroupUpdate holds mutable fields for partial group updates.
type StationGroupUpdate struct {
	Name    *string                 `json:"name"`
	LogoURL models.Optional[string] `json:"logo_url"`
}
