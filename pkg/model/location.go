package model

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/latoulicious/anglerslog/pkg/database"
	"github.com/latoulicious/anglerslog/pkg/database/schema"
)

// Location owns its fishing spots; a spot name is unique within its location.
type Location struct {
	UserDefine
	FishingSpots []FishingSpot `json:"fishingSpots,omitempty"`
}

// FishingSpot is a named coordinate inside a location
type FishingSpot struct {
	UserDefine
	LocationID uuid.UUID `json:"locationId"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
}

func NewLocation(name string) Location {
	return Location{UserDefine: NewUserDefine(name)}
}

// NewFishingSpot creates a spot; it is attached to a location by AddFishingSpot
func NewFishingSpot(name string, latitude, longitude float64) FishingSpot {
	return FishingSpot{UserDefine: NewUserDefine(name), Latitude: latitude, Longitude: longitude}
}

// AddFishingSpot attaches spot to the location. A spot whose name is already
// taken in this location is rejected.
func (l *Location) AddFishingSpot(spot FishingSpot) error {
	if l.FishingSpot(spot.Name) != nil {
		return fmt.Errorf("location %q already has a fishing spot named %q", l.Name, spot.Name)
	}
	spot.LocationID = l.ID
	l.FishingSpots = append(l.FishingSpots, spot)
	return nil
}

// RemoveFishingSpot detaches the spot with the given name
func (l *Location) RemoveFishingSpot(name string) bool {
	i := slices.IndexFunc(l.FishingSpots, func(s FishingSpot) bool { return s.Name == name })
	if i < 0 {
		return false
	}
	l.FishingSpots = slices.Delete(l.FishingSpots, i, i+1)
	if len(l.FishingSpots) == 0 {
		l.FishingSpots = nil
	}
	return true
}

// FishingSpot finds a spot by name, nil if there is none
func (l *Location) FishingSpot(name string) *FishingSpot {
	for i := range l.FishingSpots {
		if l.FishingSpots[i].Name == name {
			return &l.FishingSpots[i]
		}
	}
	return nil
}

func (l *Location) FishingSpotCount() int {
	return len(l.FishingSpots)
}

// Clone copies the location and its spots. Without keepID every spot gets a
// new identity too, pointing at the new location.
func (l Location) Clone(keepID bool) Location {
	c := Location{UserDefine: l.UserDefine.Clone(keepID)}
	for _, s := range l.FishingSpots {
		spot := s.Clone(keepID)
		spot.LocationID = c.ID
		c.FishingSpots = append(c.FishingSpots, spot)
	}
	return c
}

// DisplayName is "location - spot"
func (s FishingSpot) DisplayName(location string) string {
	return fmt.Sprintf("%s - %s", location, s.Name)
}

func (s FishingSpot) Clone(keepID bool) FishingSpot {
	c := s
	c.UserDefine = s.UserDefine.Clone(keepID)
	return c
}

func (s FishingSpot) ColumnValues() database.Values {
	values := s.UserDefine.ColumnValues()
	values[schema.FishingSpotColLocationID] = s.LocationID.String()
	values[schema.FishingSpotColLatitude] = s.Latitude
	values[schema.FishingSpotColLongitude] = s.Longitude
	return values
}
