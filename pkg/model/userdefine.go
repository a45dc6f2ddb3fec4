// Package model holds the logbook's entities. They are plain values: the
// logbook package persists them and enforces the uniqueness rules.
package model

import (
	"github.com/google/uuid"
	"github.com/latoulicious/anglerslog/pkg/database"
	"github.com/latoulicious/anglerslog/pkg/database/schema"
)

// UserDefine is the identity and name shared by every user-created record.
// ShouldDelete and IsSelected are UI state and never stored or exported.
type UserDefine struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`

	ShouldDelete bool `json:"-"`
	IsSelected   bool `json:"-"`
}

// NewUserDefine returns a record with a fresh identity
func NewUserDefine(name string) UserDefine {
	return UserDefine{ID: uuid.New(), Name: name}
}

// Clone copies the record. With keepID the copy is the same logical entity
// (an edit in progress); without it the copy is a new entity.
func (u UserDefine) Clone(keepID bool) UserDefine {
	c := UserDefine{ID: u.ID, Name: u.Name}
	if !keepID {
		c.ID = uuid.New()
	}
	return c
}

// ColumnValues returns the id and name columns
func (u UserDefine) ColumnValues() database.Values {
	return database.Values{
		schema.ColID:   u.ID.String(),
		schema.ColName: u.Name,
	}
}
