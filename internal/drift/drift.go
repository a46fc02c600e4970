// Package drift compares the object counts recorded at export time against
// the counts observed on the live target after import. A non-empty mismatch
// set means the migration did not land everything it was supposed to.
package drift

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/mfields/ctrlmig/internal/domain"
)

// Mismatch is one object type whose live count differs from the exported
// count.
type Mismatch struct {
	Type     domain.ObjectType `json:"type"`
	Expected int               `json:"expected"`
	Actual   int               `json:"actual"`
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s: expected %d, got %d", m.Type.Plural(), m.Expected, m.Actual)
}

// MismatchError reports a non-empty mismatch set as a run failure. The
// validator itself always collects every mismatch before failing.
type MismatchError struct {
	Mismatches []Mismatch
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("drift detected in %d object type(s)", len(e.Mismatches))
}

// Compare checks every type present in expected against actual. Types absent
// from expected were intentionally excluded from migration and are not
// validated; a type present in expected but absent from actual counts as
// actual 0. All mismatches are collected, not just the first, and come back
// sorted by type for stable reporting.
func Compare(expected, actual domain.CountSnapshot) []Mismatch {
	var mismatches []Mismatch
	for t, want := range expected {
		got := actual[t]
		if got != want {
			mismatches = append(mismatches, Mismatch{Type: t, Expected: want, Actual: got})
		}
	}
	sort.Slice(mismatches, func(i, j int) bool { return mismatches[i].Type < mismatches[j].Type })
	return mismatches
}

// Counts builds a count snapshot from a set of export records, covering only
// the types given (a type with an export document but no records still
// appears with count 0).
func Counts(records []domain.ObjectRecord, include []domain.ObjectType) domain.CountSnapshot {
	snap := make(domain.CountSnapshot, len(include))
	for _, t := range include {
		snap[t] = 0
	}
	for _, rec := range records {
		snap[rec.Type]++
	}
	return snap
}

// EncodeSnapshot serializes a count snapshot as JSON keyed by plural type
// name with keys in type order.
func EncodeSnapshot(snap domain.CountSnapshot) ([]byte, error) {
	ordered := make(map[string]int, len(snap))
	for t, n := range snap {
		ordered[t.Plural()] = n
	}
	// encoding/json sorts map keys, which keeps the output stable.
	return json.MarshalIndent(ordered, "", "  ")
}

// ParseSnapshot reads a count snapshot from JSON keyed by plural type name.
// Unknown keys are an error: a typo in a snapshot must not silently skip
// validation of that type.
func ParseSnapshot(data []byte) (domain.CountSnapshot, error) {
	var raw map[string]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse count snapshot: %w", err)
	}

	snap := make(domain.CountSnapshot, len(raw))
	for key, n := range raw {
		t, err := domain.TypeFromPlural(key)
		if err != nil {
			return nil, fmt.Errorf("failed to parse count snapshot: %w", err)
		}
		snap[t] = n
	}
	return snap, nil
}
