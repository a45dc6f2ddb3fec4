package model

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/latoulicious/anglerslog/pkg/database"
	"github.com/latoulicious/anglerslog/pkg/database/schema"
)

// Trip groups anglers, locations and catches over a date range
type Trip struct {
	UserDefine

	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Notes     string    `json:"notes,omitempty"`

	AnglerIDs   []uuid.UUID `json:"anglerIds,omitempty"`
	LocationIDs []uuid.UUID `json:"locationIds,omitempty"`
	CatchIDs    []uuid.UUID `json:"catchIds,omitempty"`
}

func NewTrip(name string, start, end time.Time) Trip {
	return Trip{
		UserDefine: NewUserDefine(name),
		StartDate:  NormalizeDate(start),
		EndDate:    NormalizeDate(end),
	}
}

// Contains reports whether t falls within the trip, ends included
func (t Trip) Contains(when time.Time) bool {
	return !when.Before(t.StartDate) && !when.After(t.EndDate)
}

func (t Trip) Clone(keepID bool) Trip {
	c := t
	c.UserDefine = t.UserDefine.Clone(keepID)
	c.AnglerIDs = slices.Clone(t.AnglerIDs)
	c.LocationIDs = slices.Clone(t.LocationIDs)
	c.CatchIDs = slices.Clone(t.CatchIDs)
	return c
}

func (t Trip) ColumnValues() database.Values {
	values := t.UserDefine.ColumnValues()
	values[schema.TripColStartDate] = NormalizeDate(t.StartDate).UnixMilli()
	values[schema.TripColEndDate] = NormalizeDate(t.EndDate).UnixMilli()
	values[schema.TripColNotes] = t.Notes
	return values
}
