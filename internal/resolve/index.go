// Package resolve builds the name index used to rewrite id-based references
// into name-based ones. The index must be built from the complete record set
// before any rewriting starts: references may point forward or backward
// within the export.
package resolve

import (
	"github.com/mfields/ctrlmig/internal/domain"
)

// Key is the composite lookup key. Ids are only unique within an object
// type, never globally, so a bare id is never used as a key.
type Key struct {
	Type domain.ObjectType
	ID   int64
}

type nameKey struct {
	Type domain.ObjectType
	Name string
}

// NameIndex maps (type, source id) to the object's resolved name.
type NameIndex struct {
	names  map[Key]string
	byName map[nameKey]int64
}

// BuildIndex makes a single pass over every record and returns the completed
// index. Two records of the same type sharing a name make resolution
// ambiguous and fail the build; the source guarantees per-type name
// uniqueness, so a collision means corrupted export data.
func BuildIndex(records []domain.ObjectRecord) (*NameIndex, error) {
	ix := &NameIndex{
		names:  make(map[Key]string, len(records)),
		byName: make(map[nameKey]int64, len(records)),
	}

	for _, rec := range records {
		nk := nameKey{Type: rec.Type, Name: rec.Name}
		if firstID, dup := ix.byName[nk]; dup {
			return nil, &domain.AmbiguityError{
				Type:     rec.Type,
				Name:     rec.Name,
				FirstID:  firstID,
				SecondID: rec.SourceID,
			}
		}
		ix.byName[nk] = rec.SourceID
		ix.names[Key{Type: rec.Type, ID: rec.SourceID}] = rec.Name
	}

	return ix, nil
}

// Resolve looks up the name for (type, id).
func (ix *NameIndex) Resolve(t domain.ObjectType, id int64) (string, bool) {
	name, ok := ix.names[Key{Type: t, ID: id}]
	return name, ok
}

// Len returns the number of indexed objects.
func (ix *NameIndex) Len() int {
	return len(ix.names)
}
