package logbook

import (
	"github.com/google/uuid"
	"github.com/latoulicious/anglerslog/pkg/database"
	"github.com/latoulicious/anglerslog/pkg/database/schema"
	"github.com/latoulicious/anglerslog/pkg/model"
	"github.com/pkg/errors"
)

// primitive implements storage for the entities that are only an id and a
// unique name
type primitive[T any] struct {
	table  string
	entity string
	wrap   func(model.UserDefine) T
	unwrap func(T) model.UserDefine
}

var (
	speciesStore = primitive[model.Species]{
		table:  schema.SpeciesTable,
		entity: "species",
		wrap:   func(u model.UserDefine) model.Species { return model.Species{UserDefine: u} },
		unwrap: func(s model.Species) model.UserDefine { return s.UserDefine },
	}
	baitCategoryStore = primitive[model.BaitCategory]{
		table:  schema.BaitCategoryTable,
		entity: "bait category",
		wrap:   func(u model.UserDefine) model.BaitCategory { return model.BaitCategory{UserDefine: u} },
		unwrap: func(c model.BaitCategory) model.UserDefine { return c.UserDefine },
	}
	waterClarityStore = primitive[model.WaterClarity]{
		table:  schema.WaterClarityTable,
		entity: "water clarity",
		wrap:   func(u model.UserDefine) model.WaterClarity { return model.WaterClarity{UserDefine: u} },
		unwrap: func(w model.WaterClarity) model.UserDefine { return w.UserDefine },
	}
	fishingMethodStore = primitive[model.FishingMethod]{
		table:  schema.FishingMethodTable,
		entity: "fishing method",
		wrap:   func(u model.UserDefine) model.FishingMethod { return model.FishingMethod{UserDefine: u} },
		unwrap: func(m model.FishingMethod) model.UserDefine { return m.UserDefine },
	}
	anglerStore = primitive[model.Angler]{
		table:  schema.AnglerTable,
		entity: "angler",
		wrap:   func(u model.UserDefine) model.Angler { return model.Angler{UserDefine: u} },
		unwrap: func(a model.Angler) model.UserDefine { return a.UserDefine },
	}
)

func (p primitive[T]) add(l *Logbook, v T) error {
	u := p.unwrap(v)

	taken, err := l.nameTaken(p.table, u.Name, uuid.Nil)
	if err != nil {
		return err
	}
	if taken {
		return duplicate("%s named %q already exists", p.entity, u.Name)
	}

	if err := l.db.Insert(p.table, u.ColumnValues()); err != nil {
		return errors.Wrapf(err, "add %s %q", p.entity, u.Name)
	}
	return nil
}

func (p primitive[T]) edit(l *Logbook, id uuid.UUID, v T) error {
	u := p.unwrap(v)
	u.ID = id

	taken, err := l.nameTaken(p.table, u.Name, id)
	if err != nil {
		return err
	}
	if taken {
		return duplicate("%s named %q already exists", p.entity, u.Name)
	}

	return editError(l.db.Update(p.table, u.ColumnValues(), id.String()), p.entity, id.String())
}

func (p primitive[T]) remove(l *Logbook, id uuid.UUID) error {
	if err := removeError(l.db.Delete(p.table, id.String()), p.entity, id.String()); err != nil {
		return err
	}
	l.logRemoved(p.entity, id)
	return nil
}

func (p primitive[T]) get(l *Logbook, id uuid.UUID) (T, error) {
	v, err := database.QueryOne(l.db, p.table, id.String(), decodePrimitive(p.wrap)).Get()
	if err != nil {
		return v, errors.Wrapf(err, "%s %s", p.entity, id)
	}
	return v, nil
}

func (p primitive[T]) byName(l *Logbook, name string) (T, error) {
	res := database.QueryOneWhere(l.db, p.table, schema.ColName+" = ?", []interface{}{name}, "", decodePrimitive(p.wrap))
	v, err := res.Get()
	if err != nil {
		return v, errors.Wrapf(err, "%s %q", p.entity, name)
	}
	return v, nil
}

func (p primitive[T]) list(l *Logbook) ([]T, error) {
	return database.QueryAs(l.db, p.table, "", nil, schema.ColName, decodePrimitive(p.wrap))
}

func (p primitive[T]) exists(l *Logbook, name string) (bool, error) {
	return l.nameTaken(p.table, name, uuid.Nil)
}

func (p primitive[T]) count(l *Logbook) (int64, error) {
	return l.db.Count(p.table, "", nil)
}

// nameTaken reports whether a row other than except already uses name
func (l *Logbook) nameTaken(table, name string, except uuid.UUID) (bool, error) {
	return l.taken(table, schema.ColName+" = ?", []interface{}{name}, except)
}

// taken reports whether a row other than except matches where
func (l *Logbook) taken(table, where string, args []interface{}, except uuid.UUID) (bool, error) {
	if except != uuid.Nil {
		where += " AND " + schema.ColID + " <> ?"
		args = append(args, except.String())
	}
	return l.db.Exists(table, where, args)
}

// Species

func (l *Logbook) AddSpecies(s model.Species) error { return speciesStore.add(l, s) }

func (l *Logbook) EditSpecies(id uuid.UUID, s model.Species) error {
	return speciesStore.edit(l, id, s)
}

// RemoveSpecies fails with ErrInUse while a catch refers to the species
func (l *Logbook) RemoveSpecies(id uuid.UUID) error { return speciesStore.remove(l, id) }

func (l *Logbook) GetSpecies(id uuid.UUID) (model.Species, error) { return speciesStore.get(l, id) }

func (l *Logbook) GetSpeciesByName(name string) (model.Species, error) {
	return speciesStore.byName(l, name)
}

func (l *Logbook) ListSpecies() ([]model.Species, error) { return speciesStore.list(l) }

func (l *Logbook) SpeciesExists(name string) (bool, error) { return speciesStore.exists(l, name) }

func (l *Logbook) SpeciesCount() (int64, error) { return speciesStore.count(l) }

// Bait categories

func (l *Logbook) AddBaitCategory(c model.BaitCategory) error { return baitCategoryStore.add(l, c) }

func (l *Logbook) EditBaitCategory(id uuid.UUID, c model.BaitCategory) error {
	return baitCategoryStore.edit(l, id, c)
}

// RemoveBaitCategory fails with ErrInUse while a bait belongs to the category
func (l *Logbook) RemoveBaitCategory(id uuid.UUID) error { return baitCategoryStore.remove(l, id) }

func (l *Logbook) GetBaitCategory(id uuid.UUID) (model.BaitCategory, error) {
	return baitCategoryStore.get(l, id)
}

func (l *Logbook) GetBaitCategoryByName(name string) (model.BaitCategory, error) {
	return baitCategoryStore.byName(l, name)
}

func (l *Logbook) ListBaitCategories() ([]model.BaitCategory, error) {
	return baitCategoryStore.list(l)
}

func (l *Logbook) BaitCategoryExists(name string) (bool, error) {
	return baitCategoryStore.exists(l, name)
}

func (l *Logbook) BaitCategoryCount() (int64, error) { return baitCategoryStore.count(l) }

// Water clarities

func (l *Logbook) AddWaterClarity(w model.WaterClarity) error { return waterClarityStore.add(l, w) }

func (l *Logbook) EditWaterClarity(id uuid.UUID, w model.WaterClarity) error {
	return waterClarityStore.edit(l, id, w)
}

func (l *Logbook) RemoveWaterClarity(id uuid.UUID) error { return waterClarityStore.remove(l, id) }

func (l *Logbook) GetWaterClarity(id uuid.UUID) (model.WaterClarity, error) {
	return waterClarityStore.get(l, id)
}

func (l *Logbook) GetWaterClarityByName(name string) (model.WaterClarity, error) {
	return waterClarityStore.byName(l, name)
}

func (l *Logbook) ListWaterClarities() ([]model.WaterClarity, error) {
	return waterClarityStore.list(l)
}

func (l *Logbook) WaterClarityExists(name string) (bool, error) {
	return waterClarityStore.exists(l, name)
}

func (l *Logbook) WaterClarityCount() (int64, error) { return waterClarityStore.count(l) }

// Fishing methods

func (l *Logbook) AddFishingMethod(m model.FishingMethod) error { return fishingMethodStore.add(l, m) }

func (l *Logbook) EditFishingMethod(id uuid.UUID, m model.FishingMethod) error {
	return fishingMethodStore.edit(l, id, m)
}

func (l *Logbook) RemoveFishingMethod(id uuid.UUID) error { return fishingMethodStore.remove(l, id) }

func (l *Logbook) GetFishingMethod(id uuid.UUID) (model.FishingMethod, error) {
	return fishingMethodStore.get(l, id)
}

func (l *Logbook) GetFishingMethodByName(name string) (model.FishingMethod, error) {
	return fishingMethodStore.byName(l, name)
}

func (l *Logbook) ListFishingMethods() ([]model.FishingMethod, error) {
	return fishingMethodStore.list(l)
}

func (l *Logbook) FishingMethodExists(name string) (bool, error) {
	return fishingMethodStore.exists(l, name)
}

func (l *Logbook) FishingMethodCount() (int64, error) { return fishingMethodStore.count(l) }

// Anglers

func (l *Logbook) AddAngler(a model.Angler) error { return anglerStore.add(l, a) }

func (l *Logbook) EditAngler(id uuid.UUID, a model.Angler) error { return anglerStore.edit(l, id, a) }

func (l *Logbook) RemoveAngler(id uuid.UUID) error { return anglerStore.remove(l, id) }

func (l *Logbook) GetAngler(id uuid.UUID) (model.Angler, error) { return anglerStore.get(l, id) }

func (l *Logbook) GetAnglerByName(name string) (model.Angler, error) {
	return anglerStore.byName(l, name)
}

func (l *Logbook) ListAnglers() ([]model.Angler, error) { return anglerStore.list(l) }

func (l *Logbook) AnglerExists(name string) (bool, error) { return anglerStore.exists(l, name) }

func (l *Logbook) AnglerCount() (int64, error) { return anglerStore.count(l) }
