package model

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/latoulicious/anglerslog/pkg/database"
	"github.com/latoulicious/anglerslog/pkg/database/schema"
)

// CatchResult is what happened to the fish
type CatchResult int

const (
	Released CatchResult = iota
	Kept
)

func (r CatchResult) String() string {
	if r == Kept {
		return "kept"
	}
	return "released"
}

// DisplayDateLayout formats a catch date into its name
const DisplayDateLayout = "Jan 2, 2006 at 3:04 PM"

// Catch is a single logged catch. Its date is unique across the logbook.
// References are weak: they name other entities by id and may be unset.
// Unset measurements are nil, never a sentinel.
type Catch struct {
	UserDefine
	PhotoSet

	Date time.Time `json:"date"`

	SpeciesID      uuid.NullUUID `json:"speciesId"`
	BaitID         uuid.NullUUID `json:"baitId"`
	FishingSpotID  uuid.NullUUID `json:"fishingSpotId"`
	WaterClarityID uuid.NullUUID `json:"waterClarityId"`

	IsFavorite bool        `json:"isFavorite"`
	Result     CatchResult `json:"result"`

	Quantity         *int     `json:"quantity,omitempty"`
	Length           *float64 `json:"length,omitempty"`
	Weight           *float64 `json:"weight,omitempty"`
	WaterDepth       *float64 `json:"waterDepth,omitempty"`
	WaterTemperature *int     `json:"waterTemperature,omitempty"`

	Notes            string      `json:"notes,omitempty"`
	FishingMethodIDs []uuid.UUID `json:"fishingMethodIds,omitempty"`
	Weather          *Weather    `json:"weather,omitempty"`
}

// NewCatch creates a catch at date
func NewCatch(date time.Time) Catch {
	c := Catch{UserDefine: NewUserDefine("")}
	c.SetDate(date)
	return c
}

// NormalizeDate reduces t to what the database keeps: UTC, millisecond precision
func NormalizeDate(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// SetDate changes the catch date and the name derived from it
func (c *Catch) SetDate(date time.Time) {
	c.Date = NormalizeDate(date)
	c.Name = c.Date.Format(DisplayDateLayout)
}

// UsesFishingMethod reports whether id is among the catch's methods
func (c Catch) UsesFishingMethod(id uuid.UUID) bool {
	return slices.Contains(c.FishingMethodIDs, id)
}

// Clone deep-copies the catch; without keepID it becomes a new catch with the
// same date, so it cannot be added until the date changes.
func (c Catch) Clone(keepID bool) Catch {
	cp := c
	cp.UserDefine = c.UserDefine.Clone(keepID)
	cp.PhotoSet = c.PhotoSet.clone()
	cp.Quantity = clonePtr(c.Quantity)
	cp.Length = clonePtr(c.Length)
	cp.Weight = clonePtr(c.Weight)
	cp.WaterDepth = clonePtr(c.WaterDepth)
	cp.WaterTemperature = clonePtr(c.WaterTemperature)
	cp.FishingMethodIDs = slices.Clone(c.FishingMethodIDs)
	cp.Weather = c.Weather.Clone()
	return cp
}

// ColumnValues covers the catch row only. Photos, fishing methods and
// weather live in their own tables.
func (c Catch) ColumnValues() database.Values {
	values := c.UserDefine.ColumnValues()
	values[schema.CatchColDate] = NormalizeDate(c.Date).UnixMilli()
	values[schema.CatchColSpeciesID] = database.NullableID(c.SpeciesID)
	values[schema.CatchColBaitID] = database.NullableID(c.BaitID)
	values[schema.CatchColFishingSpotID] = database.NullableID(c.FishingSpotID)
	values[schema.CatchColWaterClarityID] = database.NullableID(c.WaterClarityID)
	values[schema.CatchColIsFavorite] = boolToInt(c.IsFavorite)
	values[schema.CatchColResult] = int(c.Result)
	values[schema.CatchColQuantity] = nullable(positive(c.Quantity))
	values[schema.CatchColLength] = nullable(c.Length)
	values[schema.CatchColWeight] = nullable(c.Weight)
	values[schema.CatchColWaterDepth] = nullable(c.WaterDepth)
	values[schema.CatchColWaterTemperature] = nullable(c.WaterTemperature)
	values[schema.CatchColNotes] = c.Notes
	return values
}

// Ref wraps an id as a set reference
func Ref(id uuid.UUID) uuid.NullUUID {
	return uuid.NullUUID{UUID: id, Valid: true}
}

// Ptr returns a pointer to v, for filling optional measurements
func Ptr[T any](v T) *T {
	return &v
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func nullable[T any](p *T) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

// positive drops zero and negative counts, which mean the quantity was never set
func positive(p *int) *int {
	if p == nil || *p <= 0 {
		return nil
	}
	return p
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
