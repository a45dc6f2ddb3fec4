package logbook

import (
	"github.com/google/uuid"
	"github.com/latoulicious/anglerslog/pkg/database"
	"github.com/latoulicious/anglerslog/pkg/database/schema"
	"github.com/latoulicious/anglerslog/pkg/model"
	"github.com/pkg/errors"
)

// AddTrip stores the trip and its angler, location and catch links. Trip
// names are unique.
func (l *Logbook) AddTrip(t model.Trip) error {
	if t.EndDate.Before(t.StartDate) {
		return errors.Errorf("trip %q ends before it starts", t.Name)
	}
	return l.Transaction(func(tx *Logbook) error {
		taken, err := tx.nameTaken(schema.TripTable, t.Name, uuid.Nil)
		if err != nil {
			return err
		}
		if taken {
			return duplicate("trip named %q already exists", t.Name)
		}

		if err := tx.db.Insert(schema.TripTable, t.ColumnValues()); err != nil {
			return errors.Wrapf(err, "add trip %q", t.Name)
		}
		return tx.saveTripLinks(t)
	})
}

// EditTrip overwrites the trip stored under id, links included
func (l *Logbook) EditTrip(id uuid.UUID, t model.Trip) error {
	t.ID = id
	if t.EndDate.Before(t.StartDate) {
		return errors.Errorf("trip %q ends before it starts", t.Name)
	}
	return l.Transaction(func(tx *Logbook) error {
		taken, err := tx.nameTaken(schema.TripTable, t.Name, id)
		if err != nil {
			return err
		}
		if taken {
			return duplicate("trip named %q already exists", t.Name)
		}

		if err := editError(tx.db.Update(schema.TripTable, t.ColumnValues(), id.String()), "trip", id.String()); err != nil {
			return err
		}
		return tx.saveTripLinks(t)
	})
}

// RemoveTrip deletes the trip and its links. The linked anglers, locations
// and catches are not touched.
func (l *Logbook) RemoveTrip(id uuid.UUID) error {
	err := l.Transaction(func(tx *Logbook) error {
		for _, k := range []link{tripAnglers, tripLocations, tripCatches} {
			if err := k.clear(tx, id); err != nil {
				return err
			}
		}
		return removeError(tx.db.Delete(schema.TripTable, id.String()), "trip", id.String())
	})
	if err == nil {
		l.logRemoved("trip", id)
	}
	return err
}

func (l *Logbook) GetTrip(id uuid.UUID) (model.Trip, error) {
	t, err := database.QueryOne(l.db, schema.TripTable, id.String(), decodeTripRow).Get()
	if err != nil {
		return t, errors.Wrapf(err, "trip %s", id)
	}
	return l.fillTrip(t)
}

func (l *Logbook) GetTripByName(name string) (model.Trip, error) {
	res := database.QueryOneWhere(l.db, schema.TripTable, schema.ColName+" = ?", []interface{}{name}, "", decodeTripRow)
	t, err := res.Get()
	if err != nil {
		return t, errors.Wrapf(err, "trip %q", name)
	}
	return l.fillTrip(t)
}

// ListTrips returns every trip, latest start first
func (l *Logbook) ListTrips() ([]model.Trip, error) {
	trips, err := database.QueryAs(l.db, schema.TripTable, "", nil, schema.TripColStartDate+" DESC", decodeTripRow)
	if err != nil {
		return nil, err
	}
	for i := range trips {
		if trips[i], err = l.fillTrip(trips[i]); err != nil {
			return nil, err
		}
	}
	return trips, nil
}

func (l *Logbook) TripExists(name string) (bool, error) {
	return l.nameTaken(schema.TripTable, name, uuid.Nil)
}

func (l *Logbook) TripCount() (int64, error) {
	return l.db.Count(schema.TripTable, "", nil)
}

func (l *Logbook) saveTripLinks(t model.Trip) error {
	if err := tripAnglers.save(l, t.ID, t.AnglerIDs); err != nil {
		return err
	}
	if err := tripLocations.save(l, t.ID, t.LocationIDs); err != nil {
		return err
	}
	return tripCatches.save(l, t.ID, t.CatchIDs)
}

func (l *Logbook) fillTrip(t model.Trip) (model.Trip, error) {
	var err error
	if t.AnglerIDs, err = tripAnglers.load(l, t.ID); err != nil {
		return t, err
	}
	if t.LocationIDs, err = tripLocations.load(l, t.ID); err != nil {
		return t, err
	}
	if t.CatchIDs, err = tripCatches.load(l, t.ID); err != nil {
		return t, err
	}
	return t, nil
}
