package model

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// PhotoSet is the ordered list of photo file names attached to a catch or bait.
// Only names are stored; the files themselves live outside the database.
type PhotoSet struct {
	Photos []string `json:"photos,omitempty"`
}

// AddPhoto appends name unless it is already present
func (p *PhotoSet) AddPhoto(name string) bool {
	if name == "" || slices.Contains(p.Photos, name) {
		return false
	}
	p.Photos = append(p.Photos, name)
	return true
}

// RemovePhoto drops name, reporting whether it was present
func (p *PhotoSet) RemovePhoto(name string) bool {
	i := slices.Index(p.Photos, name)
	if i < 0 {
		return false
	}
	p.Photos = slices.Delete(p.Photos, i, i+1)
	if len(p.Photos) == 0 {
		p.Photos = nil
	}
	return true
}

func (p *PhotoSet) PhotoCount() int {
	return len(p.Photos)
}

// NextPhotoName returns an unused file name for the owner's next photo,
// IMG_<owner id>_<n>.jpg
func (p *PhotoSet) NextPhotoName(owner uuid.UUID) string {
	compact := strings.ReplaceAll(owner.String(), "-", "")
	for n := len(p.Photos); ; n++ {
		name := fmt.Sprintf("IMG_%s_%d.jpg", compact, n)
		if !slices.Contains(p.Photos, name) {
			return name
		}
	}
}

func (p PhotoSet) clone() PhotoSet {
	return PhotoSet{Photos: slices.Clone(p.Photos)}
}
