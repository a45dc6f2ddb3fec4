package logbook

import (
	"github.com/google/uuid"
	"github.com/latoulicious/anglerslog/pkg/database"
	"github.com/latoulicious/anglerslog/pkg/database/schema"
	"github.com/latoulicious/anglerslog/pkg/model"
	"github.com/pkg/errors"
)

// AddLocation stores the location and its fishing spots together
func (l *Logbook) AddLocation(loc model.Location) error {
	return l.Transaction(func(tx *Logbook) error {
		taken, err := tx.nameTaken(schema.LocationTable, loc.Name, uuid.Nil)
		if err != nil {
			return err
		}
		if taken {
			return duplicate("location named %q already exists", loc.Name)
		}

		if err := tx.db.Insert(schema.LocationTable, loc.UserDefine.ColumnValues()); err != nil {
			return errors.Wrapf(err, "add location %q", loc.Name)
		}
		for _, spot := range loc.FishingSpots {
			if err := tx.insertFishingSpot(loc.ID, spot); err != nil {
				return err
			}
		}
		return nil
	})
}

// EditLocation overwrites the location stored under id and brings its spots
// in line with loc.FishingSpots: spots matched by id are updated, new ones
// inserted and missing ones removed. Removing a spot a catch still uses fails
// the whole edit with ErrInUse.
func (l *Logbook) EditLocation(id uuid.UUID, loc model.Location) error {
	loc.ID = id
	return l.Transaction(func(tx *Logbook) error {
		taken, err := tx.nameTaken(schema.LocationTable, loc.Name, id)
		if err != nil {
			return err
		}
		if taken {
			return duplicate("location named %q already exists", loc.Name)
		}

		if err := editError(tx.db.Update(schema.LocationTable, loc.UserDefine.ColumnValues(), id.String()), "location", id.String()); err != nil {
			return err
		}

		stored, err := tx.ListFishingSpots(id)
		if err != nil {
			return err
		}
		keep := make(map[uuid.UUID]bool, len(loc.FishingSpots))
		for _, spot := range loc.FishingSpots {
			keep[spot.ID] = true
		}

		// Removals first so a renamed-and-replaced spot does not collide
		for _, spot := range stored {
			if keep[spot.ID] {
				continue
			}
			if err := removeError(tx.db.Delete(schema.FishingSpotTable, spot.ID.String()), "fishing spot", spot.Name); err != nil {
				return err
			}
		}

		existing := make(map[uuid.UUID]bool, len(stored))
		for _, spot := range stored {
			existing[spot.ID] = true
		}
		for _, spot := range loc.FishingSpots {
			if !existing[spot.ID] {
				if err := tx.insertFishingSpot(id, spot); err != nil {
					return err
				}
				continue
			}
			spot.LocationID = id
			if err := tx.db.Update(schema.FishingSpotTable, spot.ColumnValues(), spot.ID.String()); err != nil {
				if errors.Is(err, ErrDuplicate) {
					return duplicate("fishing spot %q already exists in location %q", spot.Name, loc.Name)
				}
				return errors.Wrapf(err, "edit fishing spot %q", spot.Name)
			}
		}
		return nil
	})
}

// RemoveLocation deletes the location and all of its fishing spots. If any
// spot is still used by a catch nothing is removed.
func (l *Logbook) RemoveLocation(id uuid.UUID) error {
	err := l.Transaction(func(tx *Logbook) error {
		_, err := tx.db.DeleteWhere(schema.FishingSpotTable, schema.FishingSpotColLocationID+" = ?", []interface{}{id.String()})
		if err != nil {
			return removeError(err, "fishing spots of location", id.String())
		}
		return removeError(tx.db.Delete(schema.LocationTable, id.String()), "location", id.String())
	})
	if err == nil {
		l.logRemoved("location", id)
	}
	return err
}

func (l *Logbook) GetLocation(id uuid.UUID) (model.Location, error) {
	loc, err := database.QueryOne(l.db, schema.LocationTable, id.String(), decodeLocationRow).Get()
	if err != nil {
		return loc, errors.Wrapf(err, "location %s", id)
	}
	return l.fillLocation(loc)
}

func (l *Logbook) GetLocationByName(name string) (model.Location, error) {
	res := database.QueryOneWhere(l.db, schema.LocationTable, schema.ColName+" = ?", []interface{}{name}, "", decodeLocationRow)
	loc, err := res.Get()
	if err != nil {
		return loc, errors.Wrapf(err, "location %q", name)
	}
	return l.fillLocation(loc)
}

// ListLocations returns every location with its spots, ordered by name
func (l *Logbook) ListLocations() ([]model.Location, error) {
	locations, err := database.QueryAs(l.db, schema.LocationTable, "", nil, schema.ColName, decodeLocationRow)
	if err != nil {
		return nil, err
	}
	for i := range locations {
		if locations[i], err = l.fillLocation(locations[i]); err != nil {
			return nil, err
		}
	}
	return locations, nil
}

func (l *Logbook) LocationExists(name string) (bool, error) {
	return l.nameTaken(schema.LocationTable, name, uuid.Nil)
}

func (l *Logbook) LocationCount() (int64, error) {
	return l.db.Count(schema.LocationTable, "", nil)
}

// AddFishingSpot attaches a new spot to a stored location
func (l *Logbook) AddFishingSpot(locationID uuid.UUID, spot model.FishingSpot) error {
	if _, err := database.QueryOne(l.db, schema.LocationTable, locationID.String(), decodeLocationRow).Get(); err != nil {
		return errors.Wrapf(err, "location %s", locationID)
	}
	return l.insertFishingSpot(locationID, spot)
}

func (l *Logbook) GetFishingSpot(id uuid.UUID) (model.FishingSpot, error) {
	spot, err := database.QueryOne(l.db, schema.FishingSpotTable, id.String(), decodeFishingSpot).Get()
	if err != nil {
		return spot, errors.Wrapf(err, "fishing spot %s", id)
	}
	return spot, nil
}

// GetFishingSpotByName finds a spot by name within a location
func (l *Logbook) GetFishingSpotByName(locationID uuid.UUID, name string) (model.FishingSpot, error) {
	res := database.QueryOneWhere(l.db, schema.FishingSpotTable,
		schema.ColName+" = ? AND "+schema.FishingSpotColLocationID+" = ?",
		[]interface{}{name, locationID.String()}, "", decodeFishingSpot)
	spot, err := res.Get()
	if err != nil {
		return spot, errors.Wrapf(err, "fishing spot %q", name)
	}
	return spot, nil
}

// ListFishingSpots returns the spots of one location ordered by name
func (l *Logbook) ListFishingSpots(locationID uuid.UUID) ([]model.FishingSpot, error) {
	return database.QueryAs(l.db, schema.FishingSpotTable,
		schema.FishingSpotColLocationID+" = ?", []interface{}{locationID.String()},
		schema.ColName, decodeFishingSpot)
}

func (l *Logbook) FishingSpotExists(locationID uuid.UUID, name string) (bool, error) {
	return l.taken(schema.FishingSpotTable,
		schema.ColName+" = ? AND "+schema.FishingSpotColLocationID+" = ?",
		[]interface{}{name, locationID.String()}, uuid.Nil)
}

func (l *Logbook) FishingSpotCount() (int64, error) {
	return l.db.Count(schema.FishingSpotTable, "", nil)
}

func (l *Logbook) insertFishingSpot(locationID uuid.UUID, spot model.FishingSpot) error {
	spot.LocationID = locationID
	if spot.ID == uuid.Nil {
		spot.ID = uuid.New()
	}

	taken, err := l.FishingSpotExists(locationID, spot.Name)
	if err != nil {
		return err
	}
	if taken {
		return duplicate("fishing spot %q already exists in this location", spot.Name)
	}

	if err := l.db.Insert(schema.FishingSpotTable, spot.ColumnValues()); err != nil {
		return errors.Wrapf(err, "add fishing spot %q", spot.Name)
	}
	return nil
}

func (l *Logbook) fillLocation(loc model.Location) (model.Location, error) {
	spots, err := l.ListFishingSpots(loc.ID)
	if err != nil {
		return loc, err
	}
	if len(spots) > 0 {
		loc.FishingSpots = spots
	}
	return loc, nil
}

func decodeLocationRow(row database.Row) (model.Location, error) {
	r := database.NewRowReader(row)
	loc := model.Location{UserDefine: decodeUserDefine(r)}
	return loc, r.Err()
}
