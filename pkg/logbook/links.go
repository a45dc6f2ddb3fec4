package logbook

import (
	"github.com/google/uuid"
	"github.com/latoulicious/anglerslog/pkg/database"
	"github.com/latoulicious/anglerslog/pkg/database/schema"
	"github.com/pkg/errors"
)

// savePhotos replaces the owner's photo list, keeping the given order
func (l *Logbook) savePhotos(table string, owner uuid.UUID, photos []string) error {
	if _, err := l.db.DeleteWhere(table, schema.PhotoColUserDefineID+" = ?", []interface{}{owner.String()}); err != nil {
		return err
	}
	for i, name := range photos {
		err := l.db.Insert(table, database.Values{
			schema.PhotoColUserDefineID: owner.String(),
			schema.PhotoColName:         name,
			schema.PhotoColPosition:     i,
		})
		if err != nil {
			return errors.Wrapf(err, "save photo %q", name)
		}
	}
	return nil
}

func (l *Logbook) loadPhotos(table string, owner uuid.UUID) ([]string, error) {
	rows, err := l.db.Query(table, schema.PhotoColUserDefineID+" = ?", []interface{}{owner.String()},
		schema.PhotoColPosition+", "+schema.PhotoColName)
	if err != nil {
		return nil, err
	}

	var photos []string
	for _, row := range rows {
		r := database.NewRowReader(row)
		name := r.String(schema.PhotoColName)
		if err := r.Err(); err != nil {
			return nil, err
		}
		photos = append(photos, name)
	}
	return photos, nil
}

func (l *Logbook) deletePhotos(table string, owner uuid.UUID) error {
	_, err := l.db.DeleteWhere(table, schema.PhotoColUserDefineID+" = ?", []interface{}{owner.String()})
	return err
}

// link describes a many-to-many join table from an owner to its targets.
// Targets are read back ordered by orderBy on the target table.
type link struct {
	table     string
	ownerCol  string
	targetCol string
	target    string
	orderBy   string
}

var (
	catchFishingMethods = link{
		table:     schema.UsedFishingMethodTable,
		ownerCol:  schema.UsedFishingMethodColCatchID,
		targetCol: schema.UsedFishingMethodColMethodID,
		target:    schema.FishingMethodTable,
		orderBy:   "t." + schema.ColName,
	}
	tripAnglers = link{
		table:     schema.UsedAnglerTable,
		ownerCol:  schema.UsedAnglerColTripID,
		targetCol: schema.UsedAnglerColAnglerID,
		target:    schema.AnglerTable,
		orderBy:   "t." + schema.ColName,
	}
	tripLocations = link{
		table:     schema.UsedLocationTable,
		ownerCol:  schema.UsedLocationColTripID,
		targetCol: schema.UsedLocationColLocationID,
		target:    schema.LocationTable,
		orderBy:   "t." + schema.ColName,
	}
	tripCatches = link{
		table:     schema.UsedCatchTable,
		ownerCol:  schema.UsedCatchColTripID,
		targetCol: schema.UsedCatchColCatchID,
		target:    schema.CatchTable,
		orderBy:   "t." + schema.CatchColDate + " DESC",
	}
)

// save replaces the owner's links. Duplicate targets are stored once.
func (k link) save(l *Logbook, owner uuid.UUID, targets []uuid.UUID) error {
	if err := k.clear(l, owner); err != nil {
		return err
	}

	seen := make(map[uuid.UUID]bool, len(targets))
	for _, id := range targets {
		if seen[id] {
			continue
		}
		seen[id] = true

		err := l.db.Insert(k.table, database.Values{
			k.ownerCol:  owner.String(),
			k.targetCol: id.String(),
		})
		if err != nil {
			return errors.Wrapf(err, "link %s %s", k.target, id)
		}
	}
	return nil
}

func (k link) load(l *Logbook, owner uuid.UUID) ([]uuid.UUID, error) {
	rows, err := l.db.Raw(
		"SELECT u."+k.targetCol+" AS target FROM "+k.table+" u"+
			" JOIN "+k.target+" t ON t."+schema.ColID+" = u."+k.targetCol+
			" WHERE u."+k.ownerCol+" = ? ORDER BY "+k.orderBy,
		owner.String())
	if err != nil {
		return nil, err
	}

	var ids []uuid.UUID
	for _, row := range rows {
		r := database.NewRowReader(row)
		id := r.UUID("target")
		if err := r.Err(); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (k link) clear(l *Logbook, owner uuid.UUID) error {
	_, err := l.db.DeleteWhere(k.table, k.ownerCol+" = ?", []interface{}{owner.String()})
	return err
}

// unlinkTarget removes every link pointing at target
func (k link) unlinkTarget(l *Logbook, target uuid.UUID) error {
	_, err := l.db.DeleteWhere(k.table, k.targetCol+" = ?", []interface{}{target.String()})
	return err
}
