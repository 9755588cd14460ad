package models

import "time"

// Station is a licensed broadcast transmitter identified by callsign and channel number.
type Station struct {
	ID             int64      `json:"id"`
	Callsign       string     `json:"callsign"`
	StationNumber  int        `json:"station_number"`
	MarketingName  string     `json:"marketing_name"`
	LogoURL        *string    `json:"logo_url,omitempty"`
	TMAID          int64      `json:"tma_id"`
	StationGroupID *int64     `json:"station_group_id,omitempty"`
	CreatedAt      *time.Time `json:"created_at,omitempty"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

// StationWithTMA is a station row with joined market (and optional group) names.
type StationWithTMA struct {
	Station
	TMAName          string  `json:"tma_name"`
	StationGroupName *string `json:"station_group_name,omitempty"`
}

// StationDetail is a station with its resolved subchannel list.
// Group-sourced substations carry rendered marketing names.
type StationDetail struct {
	StationWithTMA
	Substations []SubstationWithNetwork `json:"substations"`
}
