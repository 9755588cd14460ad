package models

import "errors"

// ErrAmbiguousOwner is returned when a substation payload does not name
// exactly one of station_id / station_group_id.
var ErrAmbiguousOwner = errors.New("substation must belong to exactly one of a station or a station group")

// OwnerKind discriminates substation ownership.
type OwnerKind int8

const (
	OwnerStation OwnerKind = iota + 1
	OwnerGroup
)

// Owner is the tagged ownership of a substation: a single station or a shared
// station group. The zero value is invalid; construct via OwnerFromIDs or the
// typed constructors so the exactly-one invariant holds before any persistence.
type Owner struct {
	Kind OwnerKind
	ID   int64
}

// StationOwner returns an Owner for a station-owned substation.
func StationOwner(stationID int64) Owner { return Owner{Kind: OwnerStation, ID: stationID} }

// GroupOwner returns an Owner for a group-owned substation.
func GroupOwner(groupID int64) Owner { return Owner{Kind: OwnerGroup, ID: groupID} }

// OwnerFromIDs builds an Owner from the two nullable wire fields, rejecting
// payloads that set both or neither.
func OwnerFromIDs(stationID, stationGroupID *int64) (Owner, error) {
	switch {
	case stationID != nil && stationGroupID != nil:
		return Owner{}, ErrAmbiguousOwner
	case stationID != nil:
		return StationOwner(*stationID), nil
	case stationGroupID != nil:
		return GroupOwner(*stationGroupID), nil
	}
	return Owner{}, ErrAmbiguousOwner
}

// StationID returns the owning station id, or nil for group-owned rows.
// Used for binding the nullable station_id column.
func (o Owner) StationID() *int64 {
	if o.Kind == OwnerStation {
		id := o.ID
		return &id
	}
	return nil
}

// GroupID returns the owning group id, or nil for station-owned rows.
func (o Owner) GroupID() *int64 {
	if o.Kind == OwnerGroup {
		id := o.ID
		return &id
	}
	return nil
}

// Valid reports whether the owner was constructed through a constructor.
func (o Owner) Valid() bool {
	return o.Kind == OwnerStation || o.Kind == OwnerGroup
}
