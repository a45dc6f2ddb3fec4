// Package backup moves a whole logbook to and from a portable JSON document.
// Entities reference each other by name (and catches by date), never by id,
// so a document can be imported into any logbook.
package backup

import (
	"time"

	"github.com/pkg/errors"
)

// FormatVersion is written into every export; documents from a newer
// version are refused on import
const FormatVersion = 1

// DateLayout is how dates are written: RFC 3339 with milliseconds
const DateLayout = "2006-01-02T15:04:05.000Z07:00"

// legacyDateLayout is accepted on import for documents from the old app
const legacyDateLayout = "01-02-2006_3-04_PM"

// DefaultBaitCategory files legacy catches whose bait has no category
const DefaultBaitCategory = "Other"

// Top level keys
const (
	KeyJournal        = "journal"
	KeySpecies        = "speciesList"
	KeyBaitCategories = "baitCategories"
	KeyBaits          = "baits"
	KeyWaterClarities = "waterClarities"
	KeyFishingMethods = "fishingMethods"
	KeyAnglers        = "anglers"
	KeyLocations      = "locations"
	KeyCatches        = "catches"
	KeyTrips          = "trips"

	// Not a top level key; fishing spots are nested in locations and only
	// appear in import counts
	KeyFishingSpots = "fishingSpots"
)

// Document is the whole exported logbook
type Document struct {
	Journal        JournalInfo `json:"journal"`
	Species        []Named     `json:"speciesList"`
	BaitCategories []Named     `json:"baitCategories"`
	Baits          []Bait      `json:"baits"`
	WaterClarities []Named     `json:"waterClarities"`
	FishingMethods []Named     `json:"fishingMethods"`
	Anglers        []Named     `json:"anglers"`
	Locations      []Location  `json:"locations"`
	Catches        []Catch     `json:"catches"`
	Trips          []Trip      `json:"trips"`
}

type JournalInfo struct {
	Name       string `json:"name"`
	Version    int    `json:"version"`
	ExportedAt string `json:"exportedAt,omitempty"`
}

// Named is any entity that is only a name
type Named struct {
	Name string `json:"name"`
}

type Bait struct {
	Name        string   `json:"name"`
	Category    string   `json:"baitCategory"`
	Color       string   `json:"color,omitempty"`
	Size        string   `json:"size,omitempty"`
	Description string   `json:"description,omitempty"`
	Type        int      `json:"baitType"`
	Images      []string `json:"images,omitempty"`
}

type Location struct {
	Name         string        `json:"name"`
	FishingSpots []FishingSpot `json:"fishingSpots,omitempty"`
}

type FishingSpot struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Catch keeps the field names of the original app's backups. Unset
// measurements are left out.
type Catch struct {
	Date               string   `json:"date"`
	IsFavorite         bool     `json:"isFavorite"`
	Species            string   `json:"fishSpecies,omitempty"`
	Result             int      `json:"fishResult"`
	Quantity           *int     `json:"fishQuantity,omitempty"`
	Length             *float64 `json:"fishLength,omitempty"`
	Weight             *float64 `json:"fishWeight,omitempty"`
	WaterDepth         *float64 `json:"waterDepth,omitempty"`
	WaterTemperature   *int     `json:"waterTemperature,omitempty"`
	WaterClarity       string   `json:"waterClarity,omitempty"`
	Bait               string   `json:"baitUsed,omitempty"`
	BaitCategory       string   `json:"baitCategory,omitempty"`
	Location           string   `json:"location,omitempty"`
	FishingSpot        string   `json:"fishingSpot,omitempty"`
	Notes              string   `json:"notes,omitempty"`
	FishingMethodNames []string `json:"fishingMethodNames,omitempty"`
	Images             []string `json:"images,omitempty"`
	Journal            string   `json:"journal,omitempty"`
	Weather            *Weather `json:"weatherData,omitempty"`
}

type Weather struct {
	Temperature   int    `json:"temperature"`
	WindSpeed     int    `json:"windSpeed"`
	SkyConditions string `json:"skyConditions"`
}

// Trip names its catches by date
type Trip struct {
	Name      string   `json:"name"`
	StartDate string   `json:"startDate"`
	EndDate   string   `json:"endDate"`
	Notes     string   `json:"notes,omitempty"`
	Anglers   []string `json:"anglers,omitempty"`
	Locations []string `json:"locations,omitempty"`
	Catches   []string `json:"catches,omitempty"`
}

// FormatDate writes t the way exports store dates
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// ParseDate reads an exported date, falling back to the legacy layout
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err == nil {
		return t.UTC(), nil
	}
	if t, legacyErr := time.Parse(time.RFC3339Nano, s); legacyErr == nil {
		return t.UTC(), nil
	}
	if t, legacyErr := time.Parse(legacyDateLayout, s); legacyErr == nil {
		return t.UTC(), nil
	}
	return time.Time{}, errors.Wrapf(err, "unrecognised date %q", s)
}
