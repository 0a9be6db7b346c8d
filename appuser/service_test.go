package appuser

import (
	"context"
	"errors"
	"testing"
	"time"

	"petsitter/authz"
)

type fakeRepo struct {
	users map[string]Appuser
}

func newFakeRepo(users ...Appuser) *fakeRepo {
	f := &fakeRepo{users: make(map[string]Appuser)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeRepo) Create(ctx context.Context, email, passwordHash string) (Appuser, error) {
	for _, u := range f.users {
		if u.Email == email {
			return Appuser{}, ErrDuplicateEmail
		}
	}
	u := Appuser{ID: "id-" + email, Email: email, PasswordHash: passwordHash, AccountLanguage: LanguageEnglish}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (Appuser, error) {
	u, ok := f.users[id]
	if !ok {
		return Appuser{}, ErrNotFound
	}
	return u, nil
}

func (f *fakeRepo) GetByEmail(ctx context.Context, email string) (Appuser, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return Appuser{}, ErrNotFound
}

func (f *fakeRepo) UpdatePartial(ctx context.Context, id string, params UpdateParams) (Appuser, error) {
	u, ok := f.users[id]
	if !ok {
		return Appuser{}, ErrNotFound
	}
	if params.Firstname != nil {
		u.Firstname = params.Firstname
	}
	if params.Email != nil {
		u.Email = *params.Email
	}
	if params.AccountLanguage != nil {
		u.AccountLanguage = *params.AccountLanguage
	}
	if params.EnglishOK != nil {
		u.EnglishOK = *params.EnglishOK
	}
	f.users[id] = u
	return u, nil
}

func (f *fakeRepo) StampLastLogin(ctx context.Context, id string, at time.Time) error {
	u, ok := f.users[id]
	if !ok {
		return ErrNotFound
	}
	u.LastLogin = &at
	f.users[id] = u
	return nil
}

func TestUpdateOnlySelf(t *testing.T) {
	repo := newFakeRepo(Appuser{ID: "u1", Email: "a@example.com"})
	svc := NewService(repo)

	name := "Hana"
	_, err := svc.Update(context.Background(), "u2", "u1", UpdateParams{Firstname: &name})
	if !errors.Is(err, authz.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUpdateUnknownIDReadsAsNotFound(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Update(context.Background(), "u1", "missing", UpdateParams{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateValidation(t *testing.T) {
	repo := newFakeRepo(Appuser{ID: "u1", Email: "a@example.com"})
	svc := NewService(repo)
	ctx := context.Background()

	bad := Language("klingon")
	if _, err := svc.Update(ctx, "u1", "u1", UpdateParams{AccountLanguage: &bad}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown language, got %v", err)
	}

	empty := ""
	if _, err := svc.Update(ctx, "u1", "u1", UpdateParams{Email: &empty}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty email, got %v", err)
	}
}

func TestUpdateAppliesPatch(t *testing.T) {
	repo := newFakeRepo(Appuser{ID: "u1", Email: "a@example.com", AccountLanguage: LanguageEnglish})
	svc := NewService(repo)

	name := "Hana"
	lang := LanguageJapanese
	tru := true
	u, err := svc.Update(context.Background(), "u1", "u1", UpdateParams{
		Firstname:       &name,
		AccountLanguage: &lang,
		EnglishOK:       &tru,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if u.Firstname == nil || *u.Firstname != "Hana" {
		t.Errorf("firstname not applied: %+v", u)
	}
	if u.AccountLanguage != LanguageJapanese || !u.EnglishOK {
		t.Errorf("language flags not applied: %+v", u)
	}
	if u.Email != "a@example.com" {
		t.Errorf("untouched email changed: %q", u.Email)
	}
}
