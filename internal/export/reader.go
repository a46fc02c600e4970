// Package export parses the per-type JSON documents produced by the source
// controller's extraction step into typed records. Parsing is pure: no
// filesystem or network access happens here.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mfields/ctrlmig/internal/domain"
)

// Filename returns the export document filename for a type, e.g.
// "organizations.json".
func Filename(t domain.ObjectType) string {
	return t.Plural() + ".json"
}

// ParseDocument parses one export document into records of the given type.
// The document is either a bare JSON array of objects or an API-style page
// wrapper {"results": [...]}. Every record must carry a numeric id and a
// non-empty name; a record missing either is a fatal ParseError, not a skip.
func ParseDocument(t domain.ObjectType, data []byte) ([]domain.ObjectRecord, error) {
	raw, err := decodeRecords(t, data)
	if err != nil {
		return nil, err
	}

	records := make([]domain.ObjectRecord, 0, len(raw))
	for i, obj := range raw {
		rec, err := parseRecord(t, i, obj)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func decodeRecords(t domain.ObjectType, data []byte) ([]map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		// Page wrapper: {"count": N, "results": [...]}
		var page struct {
			Results []map[string]any `json:"results"`
		}
		if err := dec.Decode(&page); err != nil {
			return nil, fmt.Errorf("failed to parse %s document: %w", t, err)
		}
		if page.Results == nil {
			return nil, fmt.Errorf("failed to parse %s document: object form must carry a \"results\" list", t)
		}
		return page.Results, nil
	}

	var list []map[string]any
	if err := dec.Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to parse %s document: %w", t, err)
	}
	return list, nil
}

func parseRecord(t domain.ObjectType, pos int, obj map[string]any) (domain.ObjectRecord, error) {
	id, ok := toInt64(obj["id"])
	if !ok {
		return domain.ObjectRecord{}, &domain.ParseError{Type: t, Position: pos, Reason: "missing or non-numeric id"}
	}

	nameKey := t.NameKey()
	name, ok := obj[nameKey].(string)
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return domain.ObjectRecord{}, &domain.ParseError{
			Type: t, Position: pos,
			Reason: fmt.Sprintf("missing or empty %q", nameKey),
		}
	}

	rec := domain.ObjectRecord{
		Type:       t,
		SourceID:   id,
		Name:       name,
		Fields:     make(map[string]any, len(obj)),
		References: make(map[string]domain.Reference),
	}

	refFields := domain.ReferenceFields(t)
	for k, v := range obj {
		if k == "id" {
			continue
		}
		if k == nameKey {
			rec.Fields[k] = name
			continue
		}
		if rf, isRef := refFields[k]; isRef {
			ref, err := parseReference(t, pos, k, rf, v)
			if err != nil {
				return domain.ObjectRecord{}, err
			}
			if ref != nil {
				rec.References[k] = *ref
			}
			continue
		}
		rec.Fields[k] = normalizeValue(v)
	}

	return rec, nil
}

// parseReference extracts a reference field value. A null value means the
// relation is unset and yields no reference; a present value must be a
// numeric id (or a list of them for list references).
func parseReference(t domain.ObjectType, pos int, field string, rf domain.RefField, v any) (*domain.Reference, error) {
	if v == nil {
		return nil, nil
	}

	if rf.List {
		items, ok := v.([]any)
		if !ok {
			return nil, &domain.ParseError{
				Type: t, Position: pos,
				Reason: fmt.Sprintf("reference field %q must be a list of ids", field),
			}
		}
		ids := make([]int64, 0, len(items))
		for _, item := range items {
			id, ok := toInt64(item)
			if !ok {
				return nil, &domain.ParseError{
					Type: t, Position: pos,
					Reason: fmt.Sprintf("reference field %q contains a non-numeric id", field),
				}
			}
			ids = append(ids, id)
		}
		return &domain.Reference{Type: rf.Type, IDs: ids, List: true}, nil
	}

	id, ok := toInt64(v)
	if !ok {
		return nil, &domain.ParseError{
			Type: t, Position: pos,
			Reason: fmt.Sprintf("reference field %q must be a numeric id", field),
		}
	}
	return &domain.Reference{Type: rf.Type, IDs: []int64{id}}, nil
}

// toInt64 coerces a decoded JSON value to an integer id. The decoder runs
// with UseNumber, so numbers arrive as json.Number.
func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return i, true
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	default:
		return 0, false
	}
}

// normalizeValue converts json.Number leaves back into plain Go numbers so
// downstream encoding does not depend on the decoder configuration. Strings
// are trimmed like the name field.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case string:
		return strings.TrimSpace(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalizeValue(item)
		}
		return out
	default:
		return v
	}
}
