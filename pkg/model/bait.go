package model

import (
	"fmt"

	"github.com/latoulicious/anglerslog/pkg/database"
	"github.com/latoulicious/anglerslog/pkg/database/schema"
)

// BaitType says what kind of bait it is
type BaitType int

const (
	BaitArtificial BaitType = iota
	BaitLive
	BaitReal
)

func (t BaitType) String() string {
	switch t {
	case BaitLive:
		return "live"
	case BaitReal:
		return "real"
	default:
		return "artificial"
	}
}

// Valid reports whether t is one of the known types
func (t BaitType) Valid() bool {
	return t >= BaitArtificial && t <= BaitReal
}

// Bait belongs to exactly one category; (name, category) is unique.
type Bait struct {
	UserDefine
	PhotoSet

	Category    BaitCategory `json:"category"`
	Color       string       `json:"color,omitempty"`
	Size        string       `json:"size,omitempty"`
	Description string       `json:"description,omitempty"`
	Type        BaitType     `json:"type"`
}

func NewBait(name string, category BaitCategory) Bait {
	return Bait{UserDefine: NewUserDefine(name), Category: category}
}

// DisplayName is how a bait is shown in lists: "category - name"
func (b Bait) DisplayName() string {
	if b.Category.Name == "" {
		return b.Name
	}
	return fmt.Sprintf("%s - %s", b.Category.Name, b.Name)
}

// Clone copies the bait. The category is a reference and keeps its identity.
func (b Bait) Clone(keepID bool) Bait {
	c := b
	c.UserDefine = b.UserDefine.Clone(keepID)
	c.PhotoSet = b.PhotoSet.clone()
	c.Category = b.Category.Clone(true)
	return c
}

func (b Bait) ColumnValues() database.Values {
	values := b.UserDefine.ColumnValues()
	values[schema.BaitColCategoryID] = b.Category.ID.String()
	values[schema.BaitColColor] = b.Color
	values[schema.BaitColSize] = b.Size
	values[schema.BaitColDescription] = b.Description
	values[schema.BaitColType] = int(b.Type)
	return values
}
