package models

import "time"

// MajorNetwork is a broadcast network brand substations can affiliate with.
type MajorNetwork struct {
	ID        int64      `json:"id"`
	ShortName string     `json:"short_name"`
	LongName  string     `json:"long_name"`
	LogoURL   *string    `json:"logo_url,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// NetworkWithCount is a network row with its computed affiliate count.
type NetworkWithCount struct {
	MajorNetwork
	AffiliateCount int `json:"affiliate_count"`
}

// Affiliate is one row of a network's nationwide affiliate list: a substation
// paired with the station that carries it. Group-owned substations are expanded
// to one row per member station, inheriting that station's display columns.
type Affiliate struct {
	SubstationID    int64   `json:"id"`
	Number          int     `json:"number"`
	MarketingName   string  `json:"marketing_name"`
	StationID       int64   `json:"station_id"`
	StationCallsign string  `json:"station_callsign"`
	StationNumber   int     `json:"station_number"`
	StationName     string  `json:"station_marketing_name"`
	StationLogoURL  *string `json:"station_logo_url,omitempty"`
	TMAID           int64   `json:"tma_id"`
	TMAName         string  `json:"tma_name"`
}

// NetworkWithAffiliates is a network with its resolved affiliate list.
type NetworkWithAffiliates struct {
	MajorNetwork
	Affiliates []Affiliate `json:"affiliates"`
}
