package logbook

import (
	"github.com/latoulicious/anglerslog/pkg/database"
	"github.com/latoulicious/anglerslog/pkg/database/schema"
	"github.com/latoulicious/anglerslog/pkg/model"
)

func decodeUserDefine(r *database.RowReader) model.UserDefine {
	return model.UserDefine{
		ID:   r.UUID(schema.ColID),
		Name: r.String(schema.ColName),
	}
}

// decodePrimitive builds a decoder for one of the id+name entities
func decodePrimitive[T any](wrap func(model.UserDefine) T) database.RowDecoder[T] {
	return func(row database.Row) (T, error) {
		r := database.NewRowReader(row)
		v := wrap(decodeUserDefine(r))
		return v, r.Err()
	}
}

// decodeBaitRow reads the bait columns; the category comes back with its id
// only and is filled in by the caller
func decodeBaitRow(row database.Row) (model.Bait, error) {
	r := database.NewRowReader(row)
	b := model.Bait{
		UserDefine:  decodeUserDefine(r),
		Color:       r.String(schema.BaitColColor),
		Size:        r.String(schema.BaitColSize),
		Description: r.String(schema.BaitColDescription),
		Type:        model.BaitType(r.Int64(schema.BaitColType)),
	}
	b.Category.ID = r.UUID(schema.BaitColCategoryID)
	return b, r.Err()
}

func decodeFishingSpot(row database.Row) (model.FishingSpot, error) {
	r := database.NewRowReader(row)
	s := model.FishingSpot{
		UserDefine: decodeUserDefine(r),
		LocationID: r.UUID(schema.FishingSpotColLocationID),
		Latitude:   r.Float(schema.FishingSpotColLatitude),
		Longitude:  r.Float(schema.FishingSpotColLongitude),
	}
	return s, r.Err()
}

// decodeCatchRow reads the catch table only; photos, fishing methods and
// weather are loaded separately
func decodeCatchRow(row database.Row) (model.Catch, error) {
	r := database.NewRowReader(row)
	c := model.Catch{
		UserDefine:       decodeUserDefine(r),
		Date:             r.Time(schema.CatchColDate),
		SpeciesID:        r.NullUUID(schema.CatchColSpeciesID),
		BaitID:           r.NullUUID(schema.CatchColBaitID),
		FishingSpotID:    r.NullUUID(schema.CatchColFishingSpotID),
		WaterClarityID:   r.NullUUID(schema.CatchColWaterClarityID),
		IsFavorite:       r.Bool(schema.CatchColIsFavorite),
		Result:           model.CatchResult(r.Int64(schema.CatchColResult)),
		Quantity:         r.NullInt(schema.CatchColQuantity),
		Length:           r.NullFloat(schema.CatchColLength),
		Weight:           r.NullFloat(schema.CatchColWeight),
		WaterDepth:       r.NullFloat(schema.CatchColWaterDepth),
		WaterTemperature: r.NullInt(schema.CatchColWaterTemperature),
		Notes:            r.String(schema.CatchColNotes),
	}
	return c, r.Err()
}

func decodeTripRow(row database.Row) (model.Trip, error) {
	r := database.NewRowReader(row)
	t := model.Trip{
		UserDefine: decodeUserDefine(r),
		StartDate:  r.Time(schema.TripColStartDate),
		EndDate:    r.Time(schema.TripColEndDate),
		Notes:      r.String(schema.TripColNotes),
	}
	return t, r.Err()
}

func decodeWeather(row database.Row) (model.Weather, error) {
	r := database.NewRowReader(row)
	w := model.Weather{
		Temperature:   int(r.Int64(schema.WeatherColTemperature)),
		WindSpeed:     int(r.Int64(schema.WeatherColWindSpeed)),
		SkyConditions: r.String(schema.WeatherColSkyConditions),
	}
	return w, r.Err()
}
