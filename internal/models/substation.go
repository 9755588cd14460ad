package models

import "time"

// Substation is a digital subchannel owned by either a station or a station
// group, never both. Group-owned rows may carry {CALL}/{CALL4} placeholders in
// marketing_name which are substituted per consuming station at read time.
type Substation struct {
	ID             int64      `json:"id"`
	StationID      *int64     `json:"station_id,omitempty"`
	StationGroupID *int64     `json:"station_group_id,omitempty"`
	Number         int        `json:"number"`
	MarketingName  string     `json:"marketing_name"`
	MajorNetworkID *int64     `json:"major_network_id,omitempty"`
	CreatedAt      *time.Time `json:"created_at,omitempty"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

// SubstationWithNetwork is a substation row with joined network columns.
type SubstationWithNetwork struct {
	Substation
	NetworkShortName *string `json:"network_short_name,omitempty"`
	NetworkLongName  *string `json:"network_long_name,omitempty"`
	NetworkLogoURL   *string `json:"network_logo_url,omitempty"`
}
