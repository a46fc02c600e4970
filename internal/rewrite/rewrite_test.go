package rewrite

import (
	"errors"
	"reflect"
	"testing"

	"github.com/mfields/ctrlmig/internal/domain"
	"github.com/mfields/ctrlmig/internal/resolve"
)

func buildIndex(t *testing.T, records ...domain.ObjectRecord) *resolve.NameIndex {
	t.Helper()
	ix, err := resolve.BuildIndex(records)
	if err != nil {
		t.Fatalf("BuildIndex() error: %v", err)
	}
	return ix
}

func TestRewriteSingleReference(t *testing.T) {
	ix := buildIndex(t,
		domain.ObjectRecord{Type: domain.TypeOrganization, SourceID: 1, Name: "Default"},
	)

	rec := domain.DesiredStateRecord{
		Type:   domain.TypeTeam,
		Name:   "Ops",
		Fields: map[string]any{"name": "Ops", "state": "present"},
		References: map[string]domain.Reference{
			"organization": {Type: domain.TypeOrganization, IDs: []int64{1}},
		},
	}

	out, err := Rewrite(rec, ix)
	if err != nil {
		t.Fatalf("Rewrite() error: %v", err)
	}
	if out.Fields["organization"] != "Default" {
		t.Errorf("organization = %v, want Default", out.Fields["organization"])
	}
	if len(out.References) != 0 {
		t.Errorf("references not cleared: %+v", out.References)
	}
}

func TestRewriteListPreservesOrder(t *testing.T) {
	ix := buildIndex(t,
		domain.ObjectRecord{Type: domain.TypeCredential, SourceID: 9, Name: "Vault Pass"},
		domain.ObjectRecord{Type: domain.TypeCredential, SourceID: 3, Name: "Machine Login"},
		domain.ObjectRecord{Type: domain.TypeCredential, SourceID: 5, Name: "Registry"},
		domain.ObjectRecord{Type: domain.TypeProject, SourceID: 4, Name: "App Deploy"},
	)

	rec := domain.DesiredStateRecord{
		Type:   domain.TypeJobTemplate,
		Name:   "Deploy",
		Fields: map[string]any{"name": "Deploy"},
		References: map[string]domain.Reference{
			"project":     {Type: domain.TypeProject, IDs: []int64{4}},
			"credentials": {Type: domain.TypeCredential, IDs: []int64{9, 3, 5}, List: true},
		},
	}

	out, err := Rewrite(rec, ix)
	if err != nil {
		t.Fatalf("Rewrite() error: %v", err)
	}
	if out.Fields["project"] != "App Deploy" {
		t.Errorf("project = %v", out.Fields["project"])
	}

	want := []string{"Vault Pass", "Machine Login", "Registry"}
	if got, ok := out.Fields["credentials"].([]string); !ok || !reflect.DeepEqual(got, want) {
		t.Errorf("credentials = %v, want %v (source order)", out.Fields["credentials"], want)
	}
}

func TestRewriteDangling(t *testing.T) {
	ix := buildIndex(t,
		domain.ObjectRecord{Type: domain.TypeOrganization, SourceID: 1, Name: "Default"},
	)

	rec := domain.DesiredStateRecord{
		Type:   domain.TypeProject,
		Name:   "Orphan",
		Fields: map[string]any{"name": "Orphan"},
		References: map[string]domain.Reference{
			"organization": {Type: domain.TypeOrganization, IDs: []int64{42}},
		},
	}

	_, err := Rewrite(rec, ix)
	var dangling *domain.DanglingReferenceError
	if !errors.As(err, &dangling) {
		t.Fatalf("expected DanglingReferenceError, got %v", err)
	}
	if dangling.RecordName != "Orphan" || dangling.Field != "organization" || dangling.RefID != 42 {
		t.Errorf("error = %+v", dangling)
	}
}

func TestRewriteCredentialTypeNormalization(t *testing.T) {
	ix := buildIndex(t,
		domain.ObjectRecord{Type: domain.TypeCredentialType, SourceID: 2, Name: "Source Control"},
	)

	rec := domain.DesiredStateRecord{
		Type:   domain.TypeCredential,
		Name:   "Git Deploy Key",
		Fields: map[string]any{"name": "Git Deploy Key"},
		References: map[string]domain.Reference{
			"credential_type": {Type: domain.TypeCredentialType, IDs: []int64{2}},
		},
	}

	out, err := Rewrite(rec, ix)
	if err != nil {
		t.Fatalf("Rewrite() error: %v", err)
	}
	if out.Fields["credential_type"] != "Source Control" {
		t.Errorf("credential_type = %v", out.Fields["credential_type"])
	}
}

func TestRewriteNoReferences(t *testing.T) {
	ix := buildIndex(t)
	rec := domain.DesiredStateRecord{
		Type:   domain.TypeOrganization,
		Name:   "Default",
		Fields: map[string]any{"name": "Default"},
	}
	out, err := Rewrite(rec, ix)
	if err != nil {
		t.Fatalf("Rewrite() error: %v", err)
	}
	if !reflect.DeepEqual(out, rec) {
		t.Errorf("record without references should pass through unchanged")
	}
}
