// Package schema holds the table and column names of the logbook database.
// Nothing outside pkg/database and pkg/logbook should need these.
package schema

// Columns shared by every user-define table
const (
	ColID   = "id"
	ColName = "name"
)

// Primitive user-define tables. Each one is (id, name) with a unique name.
const (
	SpeciesTable       = "species"
	BaitCategoryTable  = "bait_categories"
	WaterClarityTable  = "water_clarities"
	FishingMethodTable = "fishing_methods"
	AnglerTable        = "anglers"
	LocationTable      = "locations"
)

// Catch table
const (
	CatchTable = "catches"

	CatchColDate             = "date"
	CatchColSpeciesID        = "species_id"
	CatchColBaitID           = "bait_id"
	CatchColFishingSpotID    = "fishing_spot_id"
	CatchColWaterClarityID   = "clarity_id"
	CatchColIsFavorite       = "is_favorite"
	CatchColResult           = "catch_result"
	CatchColQuantity         = "quantity"
	CatchColLength           = "length"
	CatchColWeight           = "weight"
	CatchColWaterDepth       = "water_depth"
	CatchColWaterTemperature = "water_temperature"
	CatchColNotes            = "notes"
)

// Bait table
const (
	BaitTable = "baits"

	BaitColCategoryID  = "category_id"
	BaitColColor       = "color"
	BaitColSize        = "size"
	BaitColDescription = "description"
	BaitColType        = "type"
)

// Fishing spot table, children of locations
const (
	FishingSpotTable = "fishing_spots"

	FishingSpotColLocationID = "location_id"
	FishingSpotColLatitude   = "latitude"
	FishingSpotColLongitude  = "longitude"
)

// Trip table
const (
	TripTable = "trips"

	TripColStartDate = "start_date"
	TripColEndDate   = "end_date"
	TripColNotes     = "notes"
)

// Weather is keyed by the owning catch
const (
	WeatherTable = "weather"

	WeatherColCatchID       = "catch_id"
	WeatherColTemperature   = "temperature"
	WeatherColWindSpeed     = "wind_speed"
	WeatherColSkyConditions = "sky_conditions"
)

// Photo tables share one layout
const (
	CatchPhotoTable = "catch_photos"
	BaitPhotoTable  = "bait_photos"

	PhotoColUserDefineID = "user_define_id"
	PhotoColName         = "name"
	PhotoColPosition     = "position"
)

// "Used" join tables
const (
	UsedFishingMethodTable       = "used_fishing_methods"
	UsedFishingMethodColCatchID  = "catch_id"
	UsedFishingMethodColMethodID = "fishing_method_id"

	UsedAnglerTable       = "used_anglers"
	UsedAnglerColTripID   = "trip_id"
	UsedAnglerColAnglerID = "angler_id"

	UsedLocationTable         = "used_locations"
	UsedLocationColTripID     = "trip_id"
	UsedLocationColLocationID = "location_id"

	UsedCatchTable      = "used_catches"
	UsedCatchColTripID  = "trip_id"
	UsedCatchColCatchID = "catch_id"
)

// PhotoTables lists every table holding photo file names.
var PhotoTables = []string{CatchPhotoTable, BaitPhotoTable}

// AllTables lists every table in dependency order, parents first.
var AllTables = []string{
	SpeciesTable,
	BaitCategoryTable,
	WaterClarityTable,
	FishingMethodTable,
	AnglerTable,
	LocationTable,
	FishingSpotTable,
	BaitTable,
	CatchTable,
	TripTable,
	WeatherTable,
	CatchPhotoTable,
	BaitPhotoTable,
	UsedFishingMethodTable,
	UsedAnglerTable,
	UsedLocationTable,
	UsedCatchTable,
}
