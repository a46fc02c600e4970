package domain

import (
	"testing"
)

func TestPlural(t *testing.T) {
	tests := []struct {
		typ  ObjectType
		want string
	}{
		{TypeOrganization, "organizations"},
		{TypeInventory, "inventories"},
		{TypeExecutionEnvironment, "execution_environments"},
		{TypeWorkflowJobTemplate, "workflow_job_templates"},
		{TypeSchedule, "schedules"},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			if got := tt.typ.Plural(); got != tt.want {
				t.Errorf("Plural() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTypeFromPlural(t *testing.T) {
	for _, typ := range AllTypes() {
		got, err := TypeFromPlural(typ.Plural())
		if err != nil {
			t.Errorf("TypeFromPlural(%q) error: %v", typ.Plural(), err)
			continue
		}
		if got != typ {
			t.Errorf("TypeFromPlural(%q) = %q, want %q", typ.Plural(), got, typ)
		}
	}

	if _, err := TypeFromPlural("widgets"); err == nil {
		t.Error("TypeFromPlural(widgets) should fail")
	}
}

func TestValidateObjectType(t *testing.T) {
	for _, typ := range AllTypes() {
		if err := ValidateObjectType(string(typ)); err != nil {
			t.Errorf("ValidateObjectType(%q) error: %v", typ, err)
		}
	}
	if err := ValidateObjectType("host"); err == nil {
		t.Error("ValidateObjectType(host) should fail")
	}
}

func TestNameKey(t *testing.T) {
	if got := TypeUser.NameKey(); got != "username" {
		t.Errorf("user NameKey() = %q, want username", got)
	}
	if got := TypeProject.NameKey(); got != "name" {
		t.Errorf("project NameKey() = %q, want name", got)
	}
}

func TestAllTypesCoverReferenceTargets(t *testing.T) {
	known := make(map[ObjectType]bool)
	for _, typ := range AllTypes() {
		known[typ] = true
	}

	for _, typ := range AllTypes() {
		for field, rf := range ReferenceFields(typ) {
			if !known[rf.Type] {
				t.Errorf("%s field %q references unknown type %q", typ, field, rf.Type)
			}
		}
	}
}
