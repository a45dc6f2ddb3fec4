package logbook

import (
	"math/rand"
	"sort"

	"github.com/google/uuid"
	"github.com/latoulicious/anglerslog/pkg/database"
	"github.com/latoulicious/anglerslog/pkg/database/schema"
	"github.com/latoulicious/anglerslog/pkg/model"
	"github.com/pkg/errors"
)

// quantityOrOne is the totalling rule: a catch without a positive quantity
// is one fish
func quantityOrOne(q *int) int {
	if q == nil || *q <= 0 {
		return 1
	}
	return *q
}

// sumQuantities totals the quantity column of a catch selection
func (l *Logbook) sumQuantities(from, where string, args ...interface{}) (int, error) {
	rows, err := l.db.Raw("SELECT c."+schema.CatchColQuantity+" AS quantity FROM "+from+" WHERE "+where, args...)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, row := range rows {
		r := database.NewRowReader(row)
		q := r.NullInt("quantity")
		if err := r.Err(); err != nil {
			return 0, err
		}
		total += quantityOrOne(q)
	}
	return total, nil
}

const (
	fromCatches       = schema.CatchTable + " c"
	fromSpotCatches   = schema.CatchTable + " c JOIN " + schema.FishingSpotTable + " s ON s." + schema.ColID + " = c." + schema.CatchColFishingSpotID
	fromTripCatches   = schema.CatchTable + " c JOIN " + schema.UsedCatchTable + " u ON u." + schema.UsedCatchColCatchID + " = c." + schema.ColID
	fromTripLocations = fromTripCatches + " JOIN " + schema.FishingSpotTable + " s ON s." + schema.ColID + " = c." + schema.CatchColFishingSpotID
)

// TripCatchQuantity is the number of fish caught on the trip
func (l *Logbook) TripCatchQuantity(tripID uuid.UUID) (int, error) {
	return l.sumQuantities(fromTripCatches, "u."+schema.UsedCatchColTripID+" = ?", tripID.String())
}

// TripLocationCatchQuantity is the number of fish caught on the trip at one location
func (l *Logbook) TripLocationCatchQuantity(tripID, locationID uuid.UUID) (int, error) {
	return l.sumQuantities(fromTripLocations,
		"u."+schema.UsedCatchColTripID+" = ? AND s."+schema.FishingSpotColLocationID+" = ?",
		tripID.String(), locationID.String())
}

// LocationCatchQuantity is the number of fish caught at any spot of the location
func (l *Logbook) LocationCatchQuantity(locationID uuid.UUID) (int, error) {
	return l.sumQuantities(fromSpotCatches, "s."+schema.FishingSpotColLocationID+" = ?", locationID.String())
}

func (l *Logbook) FishingSpotCatchQuantity(spotID uuid.UUID) (int, error) {
	return l.sumQuantities(fromCatches, "c."+schema.CatchColFishingSpotID+" = ?", spotID.String())
}

func (l *Logbook) SpeciesCatchQuantity(speciesID uuid.UUID) (int, error) {
	return l.sumQuantities(fromCatches, "c."+schema.CatchColSpeciesID+" = ?", speciesID.String())
}

func (l *Logbook) BaitCatchQuantity(baitID uuid.UUID) (int, error) {
	return l.sumQuantities(fromCatches, "c."+schema.CatchColBaitID+" = ?", baitID.String())
}

// LongestCatch returns the catch with the greatest length, among catches of
// species when it is set. ErrNotFound if no catch has a length.
func (l *Logbook) LongestCatch(species uuid.NullUUID) (model.Catch, error) {
	return l.maxCatch(schema.CatchColLength, species)
}

// HeaviestCatch is LongestCatch by weight
func (l *Logbook) HeaviestCatch(species uuid.NullUUID) (model.Catch, error) {
	return l.maxCatch(schema.CatchColWeight, species)
}

func (l *Logbook) maxCatch(column string, species uuid.NullUUID) (model.Catch, error) {
	where := column + " IS NOT NULL"
	var args []interface{}
	if species.Valid {
		where += " AND " + schema.CatchColSpeciesID + " = ?"
		args = append(args, species.UUID.String())
	}

	c, err := database.QueryOneWhere(l.db, schema.CatchTable, where, args, column+" DESC, "+schema.CatchColDate, decodeCatchRow).Get()
	if err != nil {
		return c, errors.Wrapf(err, "catch with greatest %s", column)
	}
	return l.fillCatch(c)
}

// SpeciesStat summarises the catches of one species
type SpeciesStat struct {
	Species  model.Species
	Quantity int
	Catches  int
}

// SpeciesStats returns one entry per species that has been caught, most
// caught first
func (l *Logbook) SpeciesStats() ([]SpeciesStat, error) {
	species, err := l.ListSpecies()
	if err != nil {
		return nil, err
	}

	var stats []SpeciesStat
	for _, s := range species {
		n, err := l.db.Count(schema.CatchTable, schema.CatchColSpeciesID+" = ?", []interface{}{s.ID.String()})
		if err != nil {
			return nil, err
		}
		if n == 0 {
			continue
		}

		q, err := l.SpeciesCatchQuantity(s.ID)
		if err != nil {
			return nil, err
		}
		stats = append(stats, SpeciesStat{Species: s, Quantity: q, Catches: int(n)})
	}

	// ListSpecies is name ordered, so ties stay alphabetical
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Quantity > stats[j].Quantity
	})
	return stats, nil
}

// RandomCatchPhoto picks one catch photo name, ErrNotFound if there are none
func (l *Logbook) RandomCatchPhoto() (string, error) {
	rows, err := l.db.Query(schema.CatchPhotoTable, "", nil, "")
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", errors.Wrap(ErrNotFound, "catch photo")
	}

	r := database.NewRowReader(rows[rand.Intn(len(rows))])
	name := r.String(schema.PhotoColName)
	return name, r.Err()
}

// CleanOrphanPhotos deletes photo rows whose catch or bait no longer exists
// and reports how many went
func (l *Logbook) CleanOrphanPhotos() (int64, error) {
	owners := map[string]string{
		schema.CatchPhotoTable: schema.CatchTable,
		schema.BaitPhotoTable:  schema.BaitTable,
	}

	var total int64
	for photos, owner := range owners {
		n, err := l.db.DeleteWhere(photos,
			schema.PhotoColUserDefineID+" NOT IN (SELECT "+schema.ColID+" FROM "+owner+")", nil)
		if err != nil {
			return total, errors.Wrapf(err, "clean %s", photos)
		}
		total += n
	}

	if total > 0 {
		l.logger.Info("Deleted orphaned photos", map[string]interface{}{"count": total})
	}
	return total, nil
}
