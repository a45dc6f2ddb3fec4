package logbook

import (
	"time"

	"github.com/google/uuid"
	"github.com/latoulicious/anglerslog/pkg/database"
	"github.com/latoulicious/anglerslog/pkg/database/schema"
	"github.com/latoulicious/anglerslog/pkg/model"
	"github.com/pkg/errors"
)

// AddCatch stores c with its photos, fishing methods and weather. Catch
// dates are unique; a second catch at the same instant is rejected.
func (l *Logbook) AddCatch(c model.Catch) error {
	c.SetDate(c.Date)
	return l.Transaction(func(tx *Logbook) error {
		taken, err := tx.catchDateTaken(c.Date, uuid.Nil)
		if err != nil {
			return err
		}
		if taken {
			return duplicate("a catch at %s already exists", c.Date.Format(time.RFC3339))
		}

		if err := tx.db.Insert(schema.CatchTable, c.ColumnValues()); err != nil {
			return errors.Wrapf(err, "add catch %s", c.Date.Format(time.RFC3339))
		}
		return tx.saveCatchChildren(c)
	})
}

// EditCatch overwrites the catch stored under id, children included
func (l *Logbook) EditCatch(id uuid.UUID, c model.Catch) error {
	c.ID = id
	c.SetDate(c.Date)
	return l.Transaction(func(tx *Logbook) error {
		taken, err := tx.catchDateTaken(c.Date, id)
		if err != nil {
			return err
		}
		if taken {
			return duplicate("a catch at %s already exists", c.Date.Format(time.RFC3339))
		}

		if err := editError(tx.db.Update(schema.CatchTable, c.ColumnValues(), id.String()), "catch", id.String()); err != nil {
			return err
		}
		return tx.saveCatchChildren(c)
	})
}

// RemoveCatch deletes the catch together with its photos, weather, fishing
// method links and trip links
func (l *Logbook) RemoveCatch(id uuid.UUID) error {
	err := l.Transaction(func(tx *Logbook) error {
		if err := tx.deletePhotos(schema.CatchPhotoTable, id); err != nil {
			return err
		}
		if err := tx.RemoveCatchWeather(id); err != nil {
			return err
		}
		if err := catchFishingMethods.clear(tx, id); err != nil {
			return err
		}
		if err := tripCatches.unlinkTarget(tx, id); err != nil {
			return err
		}
		return removeError(tx.db.Delete(schema.CatchTable, id.String()), "catch", id.String())
	})
	if err == nil {
		l.logRemoved("catch", id)
	}
	return err
}

func (l *Logbook) GetCatch(id uuid.UUID) (model.Catch, error) {
	c, err := database.QueryOne(l.db, schema.CatchTable, id.String(), decodeCatchRow).Get()
	if err != nil {
		return c, errors.Wrapf(err, "catch %s", id)
	}
	return l.fillCatch(c)
}

// GetCatchByDate finds the catch logged at date
func (l *Logbook) GetCatchByDate(date time.Time) (model.Catch, error) {
	date = model.NormalizeDate(date)
	res := database.QueryOneWhere(l.db, schema.CatchTable,
		schema.CatchColDate+" = ?", []interface{}{date.UnixMilli()}, "", decodeCatchRow)
	c, err := res.Get()
	if err != nil {
		return c, errors.Wrapf(err, "catch at %s", date.Format(time.RFC3339))
	}
	return l.fillCatch(c)
}

// ListCatches returns every catch, newest first
func (l *Logbook) ListCatches() ([]model.Catch, error) {
	return l.queryCatches("", nil)
}

// ListFavoriteCatches returns the catches marked favorite, newest first
func (l *Logbook) ListFavoriteCatches() ([]model.Catch, error) {
	return l.queryCatches(schema.CatchColIsFavorite+" = ?", []interface{}{1})
}

// CatchExists reports whether a catch is logged at date
func (l *Logbook) CatchExists(date time.Time) (bool, error) {
	return l.catchDateTaken(model.NormalizeDate(date), uuid.Nil)
}

func (l *Logbook) CatchCount() (int64, error) {
	return l.db.Count(schema.CatchTable, "", nil)
}

func (l *Logbook) queryCatches(where string, args []interface{}) ([]model.Catch, error) {
	catches, err := database.QueryAs(l.db, schema.CatchTable, where, args, schema.CatchColDate+" DESC", decodeCatchRow)
	if err != nil {
		return nil, err
	}
	for i := range catches {
		if catches[i], err = l.fillCatch(catches[i]); err != nil {
			return nil, err
		}
	}
	return catches, nil
}

func (l *Logbook) catchDateTaken(date time.Time, except uuid.UUID) (bool, error) {
	return l.taken(schema.CatchTable, schema.CatchColDate+" = ?", []interface{}{date.UnixMilli()}, except)
}

func (l *Logbook) saveCatchChildren(c model.Catch) error {
	if err := l.savePhotos(schema.CatchPhotoTable, c.ID, c.Photos); err != nil {
		return err
	}
	if err := catchFishingMethods.save(l, c.ID, c.FishingMethodIDs); err != nil {
		return err
	}
	if c.Weather == nil {
		return l.RemoveCatchWeather(c.ID)
	}
	return l.SetCatchWeather(c.ID, *c.Weather)
}

func (l *Logbook) fillCatch(c model.Catch) (model.Catch, error) {
	var err error
	if c.Photos, err = l.loadPhotos(schema.CatchPhotoTable, c.ID); err != nil {
		return c, err
	}
	if c.FishingMethodIDs, err = catchFishingMethods.load(l, c.ID); err != nil {
		return c, err
	}

	w, err := l.GetCatchWeather(c.ID)
	switch {
	case err == nil:
		c.Weather = &w
	case !errors.Is(err, ErrNotFound):
		return c, err
	}
	return c, nil
}
