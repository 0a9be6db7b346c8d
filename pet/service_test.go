package pet

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"petsitter/authz"
)

type fakeRepo struct {
	pets    map[string]Pet
	nextID  int
	deleted []string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{pets: make(map[string]Pet)}
}

func (f *fakeRepo) Create(ctx context.Context, ownerID string, params CreateParams) (Pet, error) {
	f.nextID++
	p := Pet{
		ID:      fmt.Sprintf("pet-%d", f.nextID),
		OwnerID: ownerID,
		Name:    params.Name,
		Species: params.Species,
		Gender:  params.Gender,
		Weight:  params.Weight,
	}
	f.pets[p.ID] = p
	return p, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (Pet, error) {
	p, ok := f.pets[id]
	if !ok {
		return Pet{}, ErrNotFound
	}
	return p, nil
}

func (f *fakeRepo) ListByOwner(ctx context.Context, ownerID string) ([]Pet, error) {
	var out []Pet
	for _, p := range f.pets {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdatePartial(ctx context.Context, id string, params UpdateParams) (Pet, error) {
	p, ok := f.pets[id]
	if !ok {
		return Pet{}, ErrNotFound
	}
	if params.Name != nil {
		p.Name = *params.Name
	}
	if params.Weight != nil {
		p.Weight = params.Weight
	}
	f.pets[id] = p
	return p, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.pets[id]; !ok {
		return ErrNotFound
	}
	delete(f.pets, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeRepo) CountOwnedBy(ctx context.Context, ownerID string, petIDs []string) (int, error) {
	n := 0
	for _, id := range petIDs {
		if p, ok := f.pets[id]; ok && p.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	negative := -1.0
	badGender := Gender("unknown")

	cases := []struct {
		name   string
		params CreateParams
	}{
		{"missing name", CreateParams{Species: SpeciesDog}},
		{"unknown species", CreateParams{Name: "Rex", Species: "dragon"}},
		{"bad gender", CreateParams{Name: "Rex", Species: SpeciesDog, Gender: &badGender}},
		{"non-positive weight", CreateParams{Name: "Rex", Species: SpeciesDog, Weight: &negative}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, "owner", "owner", tc.params)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestCreateForOtherAccountForbidden(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Create(context.Background(), "caller", "someone-else", CreateParams{Name: "Rex", Species: SpeciesDog})
	if !errors.Is(err, authz.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUpdateGuardedByOwnership(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	p, err := svc.Create(ctx, "owner", "owner", CreateParams{Name: "Rex", Species: SpeciesDog})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newName := "Max"
	if _, err := svc.Update(ctx, "intruder", p.ID, UpdateParams{Name: &newName}); !errors.Is(err, authz.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner, got %v", err)
	}

	updated, err := svc.Update(ctx, "owner", p.ID, UpdateParams{Name: &newName})
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if updated.Name != "Max" {
		t.Errorf("name = %q, want Max", updated.Name)
	}
}

func TestDeleteGuardedByOwnership(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	p, err := svc.Create(ctx, "owner", "owner", CreateParams{Name: "Rex", Species: SpeciesDog})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(ctx, "intruder", p.ID); !errors.Is(err, authz.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(ctx, "owner", p.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, err := svc.Get(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
