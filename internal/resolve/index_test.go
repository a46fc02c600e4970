package resolve

import (
	"errors"
	"testing"

	"github.com/mfields/ctrlmig/internal/domain"
)

func record(typ domain.ObjectType, id int64, name string) domain.ObjectRecord {
	return domain.ObjectRecord{Type: typ, SourceID: id, Name: name}
}

func TestBuildIndexResolves(t *testing.T) {
	ix, err := BuildIndex([]domain.ObjectRecord{
		record(domain.TypeOrganization, 1, "Default"),
		record(domain.TypeProject, 4, "App Deploy"),
		record(domain.TypeCredential, 9, "Machine Login"),
	})
	if err != nil {
		t.Fatalf("BuildIndex() error: %v", err)
	}

	if ix.Len() != 3 {
		t.Errorf("Len() = %d, want 3", ix.Len())
	}

	name, ok := ix.Resolve(domain.TypeProject, 4)
	if !ok || name != "App Deploy" {
		t.Errorf("Resolve(project, 4) = %q, %v", name, ok)
	}
	if _, ok := ix.Resolve(domain.TypeProject, 99); ok {
		t.Error("Resolve of absent id should miss")
	}
}

func TestBuildIndexCompositeKey(t *testing.T) {
	// The same numeric id in two different types must not collide:
	// identifiers are only unique within a type.
	ix, err := BuildIndex([]domain.ObjectRecord{
		record(domain.TypeOrganization, 1, "Default"),
		record(domain.TypeProject, 1, "App Deploy"),
	})
	if err != nil {
		t.Fatalf("BuildIndex() error: %v", err)
	}

	org, _ := ix.Resolve(domain.TypeOrganization, 1)
	proj, _ := ix.Resolve(domain.TypeProject, 1)
	if org != "Default" || proj != "App Deploy" {
		t.Errorf("composite key collision: org=%q proj=%q", org, proj)
	}
}

func TestBuildIndexSameNameAcrossTypes(t *testing.T) {
	// Name reuse across different types is fine; only reuse within one
	// type is ambiguous.
	if _, err := BuildIndex([]domain.ObjectRecord{
		record(domain.TypeOrganization, 1, "Shared"),
		record(domain.TypeTeam, 2, "Shared"),
	}); err != nil {
		t.Errorf("cross-type name reuse should not fail: %v", err)
	}
}

func TestBuildIndexAmbiguity(t *testing.T) {
	_, err := BuildIndex([]domain.ObjectRecord{
		record(domain.TypeCredential, 3, "Prod Token"),
		record(domain.TypeCredential, 8, "Prod Token"),
	})

	var ambErr *domain.AmbiguityError
	if !errors.As(err, &ambErr) {
		t.Fatalf("expected AmbiguityError, got %v", err)
	}
	if ambErr.Type != domain.TypeCredential || ambErr.Name != "Prod Token" {
		t.Errorf("error = %+v", ambErr)
	}
	if ambErr.FirstID != 3 || ambErr.SecondID != 8 {
		t.Errorf("error ids = %d, %d, want 3, 8", ambErr.FirstID, ambErr.SecondID)
	}
}
