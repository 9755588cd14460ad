package models

import "time"

// StationGroup is a set of transmitters sharing a common pool of substations
// (e.g. a statewide public-broadcasting network).
type StationGroup struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	LogoURL   *string    `json:"logo_url,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// StationGroupDetail is a group with its member stations and pooled substations
// (templates left unrendered; substitution happens per consuming station).
type StationGroupDetail struct {
	StationGroup
	Stations    []StationWithTMA        `json:"stations"`
	Substations []SubstationWithNetwork `json:"substations"`
}
