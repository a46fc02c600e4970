// Package rewrite replaces id-based references in desired-state records with
// the resolved names of the referenced objects. It only runs against a fully
// built name index; a reference that cannot be resolved fails the run rather
// than leaking a numeric id into output.
package rewrite

import (
	"sort"

	"github.com/mfields/ctrlmig/internal/domain"
	"github.com/mfields/ctrlmig/internal/mapping"
	"github.com/mfields/ctrlmig/internal/resolve"
)

// Rewrite resolves every reference of a record into its target name and
// merges the names into the record's fields. Single-valued references become
// a string; list references become a list of strings in source order. The
// returned record carries no unresolved references.
func Rewrite(rec domain.DesiredStateRecord, ix *resolve.NameIndex) (domain.DesiredStateRecord, error) {
	if len(rec.References) == 0 {
		return rec, nil
	}

	fields := make(map[string]any, len(rec.Fields)+len(rec.References))
	for k, v := range rec.Fields {
		fields[k] = v
	}

	for _, field := range sortedRefFields(rec.References) {
		ref := rec.References[field]

		names := make([]string, 0, len(ref.IDs))
		for _, id := range ref.IDs {
			name, ok := ix.Resolve(ref.Type, id)
			if !ok {
				return domain.DesiredStateRecord{}, &domain.DanglingReferenceError{
					RecordType: rec.Type,
					RecordName: rec.Name,
					Field:      field,
					RefType:    ref.Type,
					RefID:      id,
				}
			}
			if ref.Type == domain.TypeCredentialType {
				name = mapping.CredentialTypeName(name)
			}
			names = append(names, name)
		}

		if ref.List {
			fields[field] = names
		} else {
			fields[field] = names[0]
		}
	}

	return domain.DesiredStateRecord{
		Type:   rec.Type,
		Name:   rec.Name,
		Fields: fields,
	}, nil
}

func sortedRefFields(refs map[string]domain.Reference) []string {
	fields := make([]string, 0, len(refs))
	for f := range refs {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}
