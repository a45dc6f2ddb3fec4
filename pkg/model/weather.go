package model

import (
	"github.com/google/uuid"
	"github.com/latoulicious/anglerslog/pkg/database"
	"github.com/latoulicious/anglerslog/pkg/database/schema"
)

// Weather is the conditions at the time of a catch, stored 1:1 under the
// catch's id.
type Weather struct {
	Temperature   int    `json:"temperature"`
	WindSpeed     int    `json:"windSpeed"`
	SkyConditions string `json:"skyConditions"`
}

func (w *Weather) Clone() *Weather {
	if w == nil {
		return nil
	}
	c := *w
	return &c
}

func (w Weather) ColumnValues(catchID uuid.UUID) database.Values {
	return database.Values{
		schema.WeatherColCatchID:       catchID.String(),
		schema.WeatherColTemperature:   w.Temperature,
		schema.WeatherColWindSpeed:     w.WindSpeed,
		schema.WeatherColSkyConditions: w.SkyConditions,
	}
}
