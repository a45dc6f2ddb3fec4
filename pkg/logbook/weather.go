package logbook

import (
	"github.com/google/uuid"
	"github.com/latoulicious/anglerslog/pkg/database"
	"github.com/latoulicious/anglerslog/pkg/database/schema"
	"github.com/latoulicious/anglerslog/pkg/model"
	"github.com/pkg/errors"
)

// SetCatchWeather stores w as the weather of the catch, replacing any
// previous record
func (l *Logbook) SetCatchWeather(catchID uuid.UUID, w model.Weather) error {
	if err := l.db.Replace(schema.WeatherTable, schema.WeatherColCatchID, w.ColumnValues(catchID)); err != nil {
		return errors.Wrapf(err, "set weather of catch %s", catchID)
	}
	return nil
}

// GetCatchWeather returns ErrNotFound when the catch has no weather
func (l *Logbook) GetCatchWeather(catchID uuid.UUID) (model.Weather, error) {
	res := database.QueryOneWhere(l.db, schema.WeatherTable,
		schema.WeatherColCatchID+" = ?", []interface{}{catchID.String()}, "", decodeWeather)
	return res.Get()
}

// RemoveCatchWeather clears the catch's weather; clearing absent weather is
// not an error
func (l *Logbook) RemoveCatchWeather(catchID uuid.UUID) error {
	_, err := l.db.DeleteWhere(schema.WeatherTable, schema.WeatherColCatchID+" = ?", []interface{}{catchID.String()})
	return err
}
