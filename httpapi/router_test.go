package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"petsitter/appuser"
	"petsitter/auth"
)

type memAccountStore struct {
	users  map[string]appuser.Appuser
	nextID int
}

func newMemAccountStore() *memAccountStore {
	return &memAccountStore{users: make(map[string]appuser.Appuser)}
}

func (m *memAccountStore) Create(ctx context.Context, email, passwordHash string) (appuser.Appuser, error) {
	for _, u := range m.users {
		if u.Email == email {
			return appuser.Appuser{}, appuser.ErrDuplicateEmail
		}
	}
	m.nextID++
	u := appuser.Appuser{
		ID:              fmt.Sprintf("3f1e9b1c-0000-4000-8000-%012d", m.nextID),
		Email:           email,
		PasswordHash:    passwordHash,
		AccountLanguage: appuser.LanguageEnglish,
	}
	m.users[u.ID] = u
	return u, nil
}

func (m *memAccountStore) GetByID(ctx context.Context, id string) (appuser.Appuser, error) {
	u, ok := m.users[id]
	if !ok {
		return appuser.Appuser{}, appuser.ErrNotFound
	}
	return u, nil
}

func (m *memAccountStore) GetByEmail(ctx context.Context, email string) (appuser.Appuser, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return appuser.Appuser{}, appuser.ErrNotFound
}

func (m *memAccountStore) UpdatePartial(ctx context.Context, id string, params appuser.UpdateParams) (appuser.Appuser, error) {
	u, ok := m.users[id]
	if !ok {
		return appuser.Appuser{}, appuser.ErrNotFound
	}
	if params.Firstname != nil {
		u.Firstname = params.Firstname
	}
	m.users[id] = u
	return u, nil
}

func (m *memAccountStore) StampLastLogin(ctx context.Context, id string, at time.Time) error {
	u, ok := m.users[id]
	if !ok {
		return appuser.ErrNotFound
	}
	u.LastLogin = &at
	m.users[id] = u
	return nil
}

func newTestServer(t *testing.T) (*httptest.Server, *memAccountStore) {
	t.Helper()
	store := newMemAccountStore()
	authSvc := auth.NewService(store, "router-test-secret")
	handler := NewRouter(Options{
		Auth:     authSvc,
		Appusers: appuser.NewService(store),
	})
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, store
}

func postJSON(t *testing.T, url string, body any, token string) *http.Response {
	t.Helper()
	buf, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(buf))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	return resp
}

func TestSignupLoginAndAuthenticatedRead(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/signup", map[string]string{"email": "a@example.com", "password": "longenough"}, "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup status = %d, want 201", resp.StatusCode)
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode signup response: %v", err)
	}
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/login", map[string]string{"email": "a@example.com", "password": "longenough"}, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d, want 200", resp.StatusCode)
	}
	var login struct {
		Token   string `json:"token"`
		Appuser struct {
			ID string `json:"id"`
		} `json:"appuser"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&login); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	resp.Body.Close()
	if login.Token == "" || login.Appuser.ID != created.ID {
		t.Fatalf("login response incomplete: %+v", login)
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/appuser/"+created.ID, nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	getResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("get appuser: %v", err)
	}
	defer getResp.Body.Close()
	if getResp.StatusCode != http.StatusOK {
		t.Fatalf("authenticated read status = %d, want 200", getResp.StatusCode)
	}

	var body map[string]any
	if err := json.NewDecoder(getResp.Body).Decode(&body); err != nil {
		t.Fatalf("decode appuser: %v", err)
	}
	if _, leaked := body["password_hash"]; leaked {
		t.Errorf("password hash leaked in response body")
	}
}

func TestProtectedRoutesRejectMissingOrBadToken(t *testing.T) {
	srv, _ := newTestServer(t)

	for name, header := range map[string]string{
		"no token":  "",
		"bad token": "Bearer not-a-jwt",
	} {
		req, _ := http.NewRequest(http.MethodGet, srv.URL+"/appuser/3f1e9b1c-0000-4000-8000-000000000001", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("%s: status = %d, want 401", name, resp.StatusCode)
		}
	}
}

func TestUpdateOtherAccountIsForbidden(t *testing.T) {
	srv, _ := newTestServer(t)

	signUp := func(email string) (id, token string) {
		resp := postJSON(t, srv.URL+"/signup", map[string]string{"email": email, "password": "longenough"}, "")
		var created struct {
			ID string `json:"id"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
			t.Fatalf("decode signup: %v", err)
		}
		resp.Body.Close()

		resp = postJSON(t, srv.URL+"/login", map[string]string{"email": email, "password": "longenough"}, "")
		var login struct {
			Token string `json:"token"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&login); err != nil {
			t.Fatalf("decode login: %v", err)
		}
		resp.Body.Close()
		return created.ID, login.Token
	}

	victimID, _ := signUp("victim@example.com")
	_, attackerToken := signUp("attacker@example.com")

	buf, _ := json.Marshal(map[string]string{"firstname": "Hacked"})
	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/appuser/"+victimID, bytes.NewReader(buf))
	req.Header.Set("Authorization", "Bearer "+attackerToken)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("update request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("cross-account update status = %d, want 403", resp.StatusCode)
	}
}

func TestMalformedIDReadsAsNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/signup", map[string]string{"email": "a@example.com", "password": "longenough"}, "")
	resp.Body.Close()
	resp = postJSON(t, srv.URL+"/login", map[string]string{"email": "a@example.com", "password": "longenough"}, "")
	var login struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&login); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	resp.Body.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/appuser/not-a-uuid", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	getResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	getResp.Body.Close()
	if getResp.StatusCode != http.StatusNotFound {
		t.Errorf("malformed id status = %d, want 404", getResp.StatusCode)
	}
}
