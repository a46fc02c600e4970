package mapping

import (
	"fmt"
	"sort"

	"github.com/mfields/ctrlmig/internal/domain"
)

// Map converts an export record into a desired-state record using the static
// tables for its type. Secret-bearing fields are removed outright; unknown
// fields are dropped with a warning; documented defaults fill target fields
// the source did not supply. References pass through untouched for the
// rewriter. Warnings come back in deterministic field order.
func Map(rec domain.ObjectRecord) (domain.DesiredStateRecord, []domain.SchemaWarning) {
	spec := specs[rec.Type]
	out := make(map[string]any, len(rec.Fields)+2)
	var warnings []domain.SchemaWarning

	nameKey := rec.Type.NameKey()

	for _, k := range sortedKeys(rec.Fields) {
		v := rec.Fields[k]

		if k == nameKey {
			out[nameKey] = rec.Name
			continue
		}
		if _, ok := commonDrop[k]; ok {
			continue
		}
		if _, ok := spec.drop[k]; ok {
			continue
		}
		if _, ok := spec.secret[k]; ok {
			continue
		}
		if target, ok := spec.renames[k]; ok {
			out[target] = v
			continue
		}
		if _, ok := spec.allowed[k]; ok {
			out[k] = v
			continue
		}

		warnings = append(warnings, domain.SchemaWarning{
			Type:   rec.Type,
			Record: rec.Name,
			Field:  k,
			Kind:   domain.WarnUnknownFieldDropped,
			Detail: "no matching slot in target schema",
		})
	}

	// Strip secret keys from mapping-valued fields that are themselves
	// allow-listed (credential inputs, notification configuration). The
	// whole key is removed, never a partial redaction.
	for field, secretKeys := range spec.secretSub {
		if inner, ok := out[field].(map[string]any); ok {
			out[field] = withoutKeys(inner, secretKeys)
		}
	}

	for _, def := range spec.defaults {
		if _, present := out[def.Field]; present {
			continue
		}
		out[def.Field] = def.Value
		warnings = append(warnings, domain.SchemaWarning{
			Type:   rec.Type,
			Record: rec.Name,
			Field:  def.Field,
			Kind:   domain.WarnDefaultApplied,
			Detail: fmt.Sprintf("defaulted to %v", def.Value),
		})
	}

	// Every desired-state record is declared present for the reconciler.
	out["state"] = "present"

	return domain.DesiredStateRecord{
		Type:       rec.Type,
		Name:       rec.Name,
		Fields:     out,
		References: rec.References,
	}, warnings
}

// CheckRequired reports a warning for each required field missing from an
// emitted record. Called after reference rewriting so name-based reference
// fields count.
func CheckRequired(rec domain.DesiredStateRecord) []domain.SchemaWarning {
	var warnings []domain.SchemaWarning
	for _, field := range specs[rec.Type].required {
		v, ok := rec.Fields[field]
		if !ok || v == nil || v == "" {
			warnings = append(warnings, domain.SchemaWarning{
				Type:   rec.Type,
				Record: rec.Name,
				Field:  field,
				Kind:   domain.WarnRequiredFieldMissing,
				Detail: "target schema requires this field",
			})
		}
	}
	return warnings
}

func withoutKeys(m map[string]any, keys []string) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
