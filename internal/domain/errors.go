package domain

import (
	"fmt"
)

// ParseError is a malformed or incomplete export record: missing or invalid
// id or name. Fatal; aborts the run before anything is written.
type ParseError struct {
	Type     ObjectType
	Position int // zero-based index within the type's document
	Reason   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s record %d: %s", e.Type, e.Position, e.Reason)
}

// AmbiguityError is a duplicate name within one object type during index
// build. The source guarantees per-type name uniqueness, so this indicates a
// corrupted or concurrently-modified export. Fatal.
type AmbiguityError struct {
	Type     ObjectType
	Name     string
	FirstID  int64
	SecondID int64
}

func (e *AmbiguityError) Error() string {
	return fmt.Sprintf("ambiguous name %q in %s: held by both id %d and id %d",
		e.Name, e.Type, e.FirstID, e.SecondID)
}

// DanglingReferenceError is a reference that cannot be resolved to a name.
// Fatal; the transform must not emit a document with a numeric or dangling
// reference.
type DanglingReferenceError struct {
	RecordType ObjectType
	RecordName string
	Field      string
	RefType    ObjectType
	RefID      int64
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("%s %q: field %q references %s id %d which is not in the export",
		e.RecordType, e.RecordName, e.Field, e.RefType, e.RefID)
}

// WarningKind classifies a recoverable schema warning.
type WarningKind string

const (
	WarnUnknownFieldDropped  WarningKind = "unknown_field_dropped"
	WarnDefaultApplied       WarningKind = "default_applied"
	WarnRequiredFieldMissing WarningKind = "required_field_missing"
)

// SchemaWarning is a recoverable mapping issue: an unknown source field was
// dropped, a documented default was applied, or an emitted record is missing
// a field the target requires. Logged and counted; strict mode escalates the
// whole set to fatal.
type SchemaWarning struct {
	Type   ObjectType
	Record string // record name
	Field  string
	Kind   WarningKind
	Detail string
}

func (w SchemaWarning) String() string {
	return fmt.Sprintf("%s %q: %s: field %q: %s", w.Type, w.Record, w.Kind, w.Field, w.Detail)
}

// StrictModeError wraps the collected warnings when strict mode escalates
// them to a fatal result.
type StrictModeError struct {
	Warnings []SchemaWarning
}

func (e *StrictModeError) Error() string {
	return fmt.Sprintf("strict mode: %d schema warning(s) escalated to errors", len(e.Warnings))
}
