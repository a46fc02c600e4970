// Package domain defines the object model shared by the migration pipeline:
// the closed set of controller object types, the typed record shapes read
// from an export, and the error taxonomy for a transform run.
package domain

import (
	"fmt"
)

// ObjectType identifies a controller object kind. The set is closed; the
// mapper and the secret tables are keyed by it.
type ObjectType string

const (
	TypeOrganization         ObjectType = "organization"
	TypeUser                 ObjectType = "user"
	TypeTeam                 ObjectType = "team"
	TypeCredentialType       ObjectType = "credential_type"
	TypeCredential           ObjectType = "credential"
	TypeProject              ObjectType = "project"
	TypeInventory            ObjectType = "inventory"
	TypeExecutionEnvironment ObjectType = "execution_environment"
	TypeJobTemplate          ObjectType = "job_template"
	TypeWorkflowJobTemplate  ObjectType = "workflow_job_template"
	TypeApplication          ObjectType = "application"
	TypeNotificationTemplate ObjectType = "notification_template"
	TypeSchedule             ObjectType = "schedule"
)

// AllTypes returns every object type in apply order: types that other types
// reference come first. The writer and the count snapshot also use this
// order so output is stable across runs.
func AllTypes() []ObjectType {
	return []ObjectType{
		TypeOrganization,
		TypeUser,
		TypeTeam,
		TypeCredentialType,
		TypeCredential,
		TypeProject,
		TypeInventory,
		TypeExecutionEnvironment,
		TypeJobTemplate,
		TypeWorkflowJobTemplate,
		TypeApplication,
		TypeNotificationTemplate,
		TypeSchedule,
	}
}

// plurals maps each type to the plural used in export filenames, document
// keys, and count snapshots.
var plurals = map[ObjectType]string{
	TypeOrganization:         "organizations",
	TypeUser:                 "users",
	TypeTeam:                 "teams",
	TypeCredentialType:       "credential_types",
	TypeCredential:           "credentials",
	TypeProject:              "projects",
	TypeInventory:            "inventories",
	TypeExecutionEnvironment: "execution_environments",
	TypeJobTemplate:          "job_templates",
	TypeWorkflowJobTemplate:  "workflow_job_templates",
	TypeApplication:          "applications",
	TypeNotificationTemplate: "notification_templates",
	TypeSchedule:             "schedules",
}

// Plural returns the plural spelling of the type.
func (t ObjectType) Plural() string {
	if p, ok := plurals[t]; ok {
		return p
	}
	return string(t) + "s"
}

// ValidateObjectType checks that s names a known object type.
func ValidateObjectType(s string) error {
	switch ObjectType(s) {
	case TypeOrganization, TypeUser, TypeTeam, TypeCredentialType, TypeCredential,
		TypeProject, TypeInventory, TypeExecutionEnvironment, TypeJobTemplate,
		TypeWorkflowJobTemplate, TypeApplication, TypeNotificationTemplate, TypeSchedule:
		return nil
	default:
		return fmt.Errorf("invalid object type: %q", s)
	}
}

// TypeFromPlural resolves a plural spelling (as used in count snapshots and
// export filenames) back to its object type.
func TypeFromPlural(plural string) (ObjectType, error) {
	for t, p := range plurals {
		if p == plural {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown object type: %q", plural)
}

// NameKey returns the field that carries an object's human-readable name.
// Users are named by username; everything else by name.
func (t ObjectType) NameKey() string {
	if t == TypeUser {
		return "username"
	}
	return "name"
}

// Reference is a foreign-key reference extracted from an export record.
// Single-valued references hold exactly one ID; list references preserve
// source order.
type Reference struct {
	Type ObjectType
	IDs  []int64
	List bool
}

// RefField declares a reference-bearing field of an object type.
type RefField struct {
	Type ObjectType
	List bool
}

// referenceFields declares, per object type, which fields carry references
// and what they point at. Fields absent from a source record are simply not
// extracted; fields present must resolve or the run fails.
var referenceFields = map[ObjectType]map[string]RefField{
	TypeTeam: {
		"organization": {Type: TypeOrganization},
	},
	TypeCredential: {
		"organization":    {Type: TypeOrganization},
		"credential_type": {Type: TypeCredentialType},
	},
	TypeProject: {
		"organization": {Type: TypeOrganization},
		"credential":   {Type: TypeCredential},
	},
	TypeInventory: {
		"organization": {Type: TypeOrganization},
	},
	TypeExecutionEnvironment: {
		"organization": {Type: TypeOrganization},
		"credential":   {Type: TypeCredential},
	},
	TypeJobTemplate: {
		"organization":          {Type: TypeOrganization},
		"project":               {Type: TypeProject},
		"inventory":             {Type: TypeInventory},
		"execution_environment": {Type: TypeExecutionEnvironment},
		"credentials":           {Type: TypeCredential, List: true},
	},
	TypeWorkflowJobTemplate: {
		"organization": {Type: TypeOrganization},
		"inventory":    {Type: TypeInventory},
	},
	TypeApplication: {
		"organization": {Type: TypeOrganization},
	},
	TypeNotificationTemplate: {
		"organization": {Type: TypeOrganization},
	},
	TypeSchedule: {
		"unified_job_template": {Type: TypeJobTemplate},
	},
}

// ReferenceFields returns the reference declarations for a type. The result
// is shared; callers must not mutate it.
func ReferenceFields(t ObjectType) map[string]RefField {
	return referenceFields[t]
}

// ObjectRecord is a strongly-typed export record. Fields holds non-reference
// source fields; References holds the extracted foreign keys. Records are
// immutable once read.
type ObjectRecord struct {
	Type       ObjectType
	SourceID   int64
	Name       string
	Fields     map[string]any
	References map[string]Reference
}

// DesiredStateRecord is the output shape of the mapper: target-schema fields
// with secrets excluded. References is carried until the rewriter replaces
// each entry with the resolved name inside Fields; a record with a non-empty
// References must never reach the writer.
type DesiredStateRecord struct {
	Type       ObjectType
	Name       string
	Fields     map[string]any
	References map[string]Reference
}

// CountSnapshot maps each object type to its record count. One is taken from
// the export, one from the live target; the drift validator compares them.
type CountSnapshot map[ObjectType]int
