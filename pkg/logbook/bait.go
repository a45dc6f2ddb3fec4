package logbook

import (
	"github.com/google/uuid"
	"github.com/latoulicious/anglerslog/pkg/database"
	"github.com/latoulicious/anglerslog/pkg/database/schema"
	"github.com/latoulicious/anglerslog/pkg/model"
	"github.com/pkg/errors"
)

// AddBait stores b and its photos. A category that does not exist yet, by id
// or by name, is created first. (name, category) must be unused.
func (l *Logbook) AddBait(b model.Bait) error {
	return l.Transaction(func(tx *Logbook) error {
		category, err := tx.resolveCategory(b.Category)
		if err != nil {
			return err
		}
		b.Category = category

		taken, err := tx.baitTaken(b.Name, category.ID, uuid.Nil)
		if err != nil {
			return err
		}
		if taken {
			return duplicate("bait %q already exists in category %q", b.Name, category.Name)
		}

		if err := tx.db.Insert(schema.BaitTable, b.ColumnValues()); err != nil {
			return errors.Wrapf(err, "add bait %q", b.Name)
		}
		return tx.savePhotos(schema.BaitPhotoTable, b.ID, b.Photos)
	})
}

// EditBait overwrites the bait stored under id with b. A collision with
// another bait's (name, category) leaves the stored bait untouched.
func (l *Logbook) EditBait(id uuid.UUID, b model.Bait) error {
	b.ID = id
	return l.Transaction(func(tx *Logbook) error {
		category, err := tx.resolveCategory(b.Category)
		if err != nil {
			return err
		}
		b.Category = category

		taken, err := tx.baitTaken(b.Name, category.ID, id)
		if err != nil {
			return err
		}
		if taken {
			return duplicate("bait %q already exists in category %q", b.Name, category.Name)
		}

		if err := editError(tx.db.Update(schema.BaitTable, b.ColumnValues(), id.String()), "bait", id.String()); err != nil {
			return err
		}
		return tx.savePhotos(schema.BaitPhotoTable, id, b.Photos)
	})
}

// RemoveBait deletes the bait and its photos. A bait used by a catch cannot
// be removed.
func (l *Logbook) RemoveBait(id uuid.UUID) error {
	err := l.Transaction(func(tx *Logbook) error {
		if err := tx.deletePhotos(schema.BaitPhotoTable, id); err != nil {
			return err
		}
		return removeError(tx.db.Delete(schema.BaitTable, id.String()), "bait", id.String())
	})
	if err == nil {
		l.logRemoved("bait", id)
	}
	return err
}

func (l *Logbook) GetBait(id uuid.UUID) (model.Bait, error) {
	b, err := database.QueryOne(l.db, schema.BaitTable, id.String(), decodeBaitRow).Get()
	if err != nil {
		return b, errors.Wrapf(err, "bait %s", id)
	}
	return l.fillBait(b)
}

// GetBaitByName finds a bait by its unique (name, category name) pair
func (l *Logbook) GetBaitByName(name, category string) (model.Bait, error) {
	c, err := l.GetBaitCategoryByName(category)
	if err != nil {
		return model.Bait{}, err
	}

	res := database.QueryOneWhere(l.db, schema.BaitTable,
		schema.ColName+" = ? AND "+schema.BaitColCategoryID+" = ?",
		[]interface{}{name, c.ID.String()}, "", decodeBaitRow)
	b, err := res.Get()
	if err != nil {
		return b, errors.Wrapf(err, "bait %q in %q", name, category)
	}
	return l.fillBait(b)
}

// ListBaits returns every bait ordered by name
func (l *Logbook) ListBaits() ([]model.Bait, error) {
	baits, err := database.QueryAs(l.db, schema.BaitTable, "", nil, schema.ColName, decodeBaitRow)
	if err != nil {
		return nil, err
	}
	for i := range baits {
		if baits[i], err = l.fillBait(baits[i]); err != nil {
			return nil, err
		}
	}
	return baits, nil
}

// BaitExists reports whether name is taken in the category
func (l *Logbook) BaitExists(name string, categoryID uuid.UUID) (bool, error) {
	return l.baitTaken(name, categoryID, uuid.Nil)
}

func (l *Logbook) BaitCount() (int64, error) {
	return l.db.Count(schema.BaitTable, "", nil)
}

func (l *Logbook) baitTaken(name string, categoryID, except uuid.UUID) (bool, error) {
	return l.taken(schema.BaitTable,
		schema.ColName+" = ? AND "+schema.BaitColCategoryID+" = ?",
		[]interface{}{name, categoryID.String()}, except)
}

// resolveCategory returns the stored category matching c by id, then by name,
// creating it when neither matches
func (l *Logbook) resolveCategory(c model.BaitCategory) (model.BaitCategory, error) {
	if c.ID == uuid.Nil && c.Name == "" {
		return c, ErrMissingCategory
	}

	if c.ID != uuid.Nil {
		stored, err := l.GetBaitCategory(c.ID)
		if err == nil {
			return stored, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return c, err
		}
	}

	if c.Name == "" {
		return c, errors.Wrapf(ErrMissingCategory, "category %s does not exist", c.ID)
	}

	stored, err := l.GetBaitCategoryByName(c.Name)
	if err == nil {
		return stored, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return c, err
	}

	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if err := l.AddBaitCategory(c); err != nil {
		return c, err
	}
	l.entityLogger("bait category", "").Info("Created bait category for bait", map[string]interface{}{
		"category": c.Name,
	})
	return c, nil
}

func (l *Logbook) fillBait(b model.Bait) (model.Bait, error) {
	category, err := l.GetBaitCategory(b.Category.ID)
	if err != nil {
		return b, err
	}
	b.Category = category

	if b.Photos, err = l.loadPhotos(schema.BaitPhotoTable, b.ID); err != nil {
		return b, err
	}
	return b, nil
}
