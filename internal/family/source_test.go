package family

import (
	"context"
	"errors"
	"testing"

	"famcare/internal/domain"
)

var seedMembers = []domain.FamilyMember{
	{ID: "1", Name: "Alejandro", Relationship: "Father"},
	{ID: "2", Name: "Daniela", Relationship: "Mother"},
	{ID: "3", Name: "Antonio", Relationship: "Son"},
}

// fakeLoader implements repository.Members for tests
type fakeLoader struct {
	members []domain.FamilyMember
	err     error
	calls   int
}

func (f *fakeLoader) ListMembers(ctx context.Context) ([]domain.FamilyMember, error) {
	f.calls++
	return f.members, f.err
}

func TestSource_SeedOnly(t *testing.T) {
	src := NewSource(seedMembers, nil)
	ctx := context.Background()

	members := src.List(ctx)
	if len(members) != 3 {
		t.Fatalf("expected 3 members, got %d", len(members))
	}

	if m := src.GetByID(ctx, "2"); m == nil || m.Name != "Daniela" {
		t.Errorf("GetByID(2) = %+v", m)
	}
	if m := src.GetByID(ctx, "99"); m != nil {
		t.Errorf("unknown id should be nil, got %+v", m)
	}
}

func TestSource_GetByNameCaseInsensitive(t *testing.T) {
	src := NewSource(seedMembers, nil)
	ctx := context.Background()

	for _, name := range []string{"Antonio", "antonio", "ANTONIO"} {
		if m := src.GetByName(ctx, name); m == nil || m.ID != "3" {
			t.Errorf("GetByName(%q) = %+v", name, m)
		}
	}
	if m := src.GetByName(ctx, "Nadie"); m != nil {
		t.Errorf("unknown name should be nil, got %+v", m)
	}
}

func TestSource_LoaderOverridesSeed(t *testing.T) {
	loader := &fakeLoader{members: []domain.FamilyMember{
		{ID: "10", Name: "Gaspar", Relationship: "Son"},
	}}
	src := NewSource(seedMembers, loader)
	ctx := context.Background()

	members := src.List(ctx)
	if len(members) != 1 || members[0].ID != "10" {
		t.Fatalf("loaded members should replace the seed, got %+v", members)
	}

	// Consulted exactly once for the process lifetime.
	src.List(ctx)
	src.GetByID(ctx, "10")
	if loader.calls != 1 {
		t.Errorf("loader consulted %d times, want 1", loader.calls)
	}
}

func TestSource_EmptyLoadKeepsSeed(t *testing.T) {
	loader := &fakeLoader{}
	src := NewSource(seedMembers, loader)

	members := src.List(context.Background())
	if len(members) != 3 {
		t.Errorf("empty load should keep the seed, got %+v", members)
	}
}

func TestSource_LoadErrorKeepsSeed(t *testing.T) {
	loader := &fakeLoader{err: errors.New("database is locked")}
	src := NewSource(seedMembers, loader)

	members := src.List(context.Background())
	if len(members) != 3 {
		t.Errorf("failed load should keep the seed, got %+v", members)
	}
}

func TestSource_ListReturnsCopy(t *testing.T) {
	src := NewSource(seedMembers, nil)
	ctx := context.Background()

	members := src.List(ctx)
	members[0].Name = "tampered"

	if src.List(ctx)[0].Name != "Alejandro" {
		t.Error("mutating the returned slice leaked into the source")
	}
}
