package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/renthaven/renthaven/internal/api"
	"github.com/renthaven/renthaven/internal/core/domain"
	"github.com/renthaven/renthaven/internal/core/port"
	"github.com/renthaven/renthaven/internal/infra/config"
	"github.com/renthaven/renthaven/internal/session"
)

type authFixture struct {
	svc   *AuthService
	store *session.Store
	nav   *[]string
}

func newAuthFixture(t *testing.T, handler http.Handler) authFixture {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	log := zaptest.NewLogger(t)
	store := session.NewStore(session.NewMemoryKV(), log)

	targets := []string{}
	nav := port.NavigatorFunc(func(path string) { targets = append(targets, path) })

	clients := api.NewSet(config.APISettings{
		BaseURL:       srv.URL,
		Timeout:       5 * time.Second,
		UploadTimeout: 5 * time.Second,
	}, store, nav, log)

	return authFixture{
		svc:   NewAuthService(clients, store, nav, log),
		store: store,
		nav:   &targets,
	}
}

func loginHandler(t *testing.T, respond func(w http.ResponseWriter)) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds map[string]string
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			t.Errorf("decode credentials: %v", err)
		}
		respond(w)
	})
	return mux
}

func TestLoginNestedShape(t *testing.T) {
	fx := newAuthFixture(t, loginHandler(t, func(w http.ResponseWriter) {
		w.Write([]byte(`{"data":{"token":"tok-1","user":{"id":7,"email":"a@b.com","role":"ROLE_USER"}}}`))
	}))

	profile, err := fx.svc.Login(context.Background(), "a@b.com", "secret1")
	if err != nil {
		t.Fatal(err)
	}
	if profile.ID != "7" {
		t.Fatalf("numeric id should normalize to string, got %q", profile.ID)
	}
	if profile.RoleName != domain.RoleUser {
		t.Fatalf("got role %q", profile.RoleName)
	}
	if !fx.store.IsUserAuthenticated() {
		t.Fatal("session should be persisted")
	}
	if fx.store.Token() != "tok-1" {
		t.Fatalf("got token %q", fx.store.Token())
	}
}

func TestLoginFlatShape(t *testing.T) {
	fx := newAuthFixture(t, loginHandler(t, func(w http.ResponseWriter) {
		w.Write([]byte(`{"token":"tok-2","user":{"id":"u1","email":"a@b.com","roleName":"HOST"}}`))
	}))

	profile, err := fx.svc.Login(context.Background(), "a@b.com", "secret1")
	if err != nil {
		t.Fatal(err)
	}
	if profile.RoleName != domain.RoleHost {
		t.Fatalf("got role %q", profile.RoleName)
	}
}

func TestLoginTokenOnlyFetchesProfile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"accessToken":"tok-3"}`))
	})
	var gotAuth string
	mux.HandleFunc("GET /users/profile", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"data":{"id":"u9","email":"a@b.com","roleName":"USER"}}`))
	})

	fx := newAuthFixture(t, mux)
	profile, err := fx.svc.Login(context.Background(), "a@b.com", "secret1")
	if err != nil {
		t.Fatal(err)
	}
	if gotAuth != "Bearer tok-3" {
		t.Fatalf("profile fetch must use the fresh token, got %q", gotAuth)
	}
	if profile.ID != "u9" {
		t.Fatalf("got id %q", profile.ID)
	}
}

func TestLoginFallsBackToPlaceholder(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token":"tok-4"}`))
	})
	mux.HandleFunc("GET /users/profile", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
	})

	fx := newAuthFixture(t, mux)
	profile, err := fx.svc.Login(context.Background(), "jane@example.com", "secret1")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(profile.ID, "tmp-") {
		t.Fatalf("placeholder id should be temporary, got %q", profile.ID)
	}
	if profile.Username != "jane" {
		t.Fatalf("username should come from the email local part, got %q", profile.Username)
	}
	if profile.RoleName != domain.RoleUser {
		t.Fatalf("placeholder role should default to USER, got %q", profile.RoleName)
	}
	if !fx.store.IsUserAuthenticated() {
		t.Fatal("login should still persist a usable session")
	}
}

func TestLoginUnsupportedShape(t *testing.T) {
	fx := newAuthFixture(t, loginHandler(t, func(w http.ResponseWriter) {
		w.Write([]byte(`{"result":"ok"}`))
	}))

	if _, err := fx.svc.Login(context.Background(), "a@b.com", "secret1"); !errors.Is(err, ErrUnsupportedResponse) {
		t.Fatalf("expected ErrUnsupportedResponse, got %v", err)
	}
	if fx.store.IsUserAuthenticated() {
		t.Fatal("no session may be persisted on a failed login")
	}
}

func TestLoginBlanksFullNameEqualToEmail(t *testing.T) {
	fx := newAuthFixture(t, loginHandler(t, func(w http.ResponseWriter) {
		w.Write([]byte(`{"token":"t","user":{"id":1,"email":"a@b.com","fullName":"A@B.com","roleName":"USER"}}`))
	}))

	profile, err := fx.svc.Login(context.Background(), "a@b.com", "secret1")
	if err != nil {
		t.Fatal(err)
	}
	if profile.FullName != "" {
		t.Fatalf("fullName equal to email must be blanked, got %q", profile.FullName)
	}
}

func TestLoginAsHostRejectsTenant(t *testing.T) {
	fx := newAuthFixture(t, loginHandler(t, func(w http.ResponseWriter) {
		w.Write([]byte(`{"token":"t","user":{"id":"u1","email":"a@b.com","roleName":"USER"}}`))
	}))

	if _, err := fx.svc.LoginAsHost(context.Background(), "a@b.com", "secret1"); !errors.Is(err, ErrNotHostAccount) {
		t.Fatalf("expected ErrNotHostAccount, got %v", err)
	}
	if fx.store.IsUserAuthenticated() {
		t.Fatal("rejected host login must not persist a session")
	}
}

func TestLoginAsAdminUsesAdminSession(t *testing.T) {
	fx := newAuthFixture(t, loginHandler(t, func(w http.ResponseWriter) {
		w.Write([]byte(`{"token":"t","user":{"id":"u1","email":"a@b.com","role":"ROLE_ADMIN"}}`))
	}))

	if _, err := fx.svc.LoginAsAdmin(context.Background(), "a@b.com", "secret1"); err != nil {
		t.Fatal(err)
	}
	if !fx.store.IsAdminAuthenticated() {
		t.Fatal("admin session should be persisted")
	}
	if fx.store.IsUserAuthenticated() {
		t.Fatal("admin login must not touch the user session")
	}
}

func TestCurrentUserForbiddenClearsSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/profile", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"role changed"}`, http.StatusForbidden)
	})

	fx := newAuthFixture(t, mux)
	fx.store.SetUserSession("stale", &domain.Profile{ID: "u1", RoleName: "HOST"})

	if _, err := fx.svc.CurrentUser(context.Background()); !errors.Is(err, ErrSessionInvalid) {
		t.Fatalf("expected ErrSessionInvalid, got %v", err)
	}
	if fx.store.IsUserAuthenticated() {
		t.Fatal("session should be cleared")
	}

	nav := *fx.nav
	if len(nav) == 0 || nav[len(nav)-1] != "/login?roleChanged=true" {
		t.Fatalf("expected role-changed redirect, got %v", nav)
	}
}

func TestCurrentUserRefreshPersistsProfile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/profile", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"id":"u1","email":"a@b.com","fullName":"New Name","roleName":"USER"}}`))
	})

	fx := newAuthFixture(t, mux)
	fx.store.SetUserSession("tok", &domain.Profile{ID: "u1", RoleName: "USER"})

	profile, err := fx.svc.CurrentUser(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if profile.FullName != "New Name" {
		t.Fatalf("got %q", profile.FullName)
	}
	if stored := fx.store.User(); stored == nil || stored.FullName != "New Name" {
		t.Fatal("refreshed profile should be persisted")
	}
}

func TestUpdateProfileBirthDate(t *testing.T) {
	var sent ProfileUpdate
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /users/u1/profile", func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&sent); err != nil {
			t.Errorf("decode update: %v", err)
		}
		w.Write([]byte(`{"data":{"id":"u1","roleName":"USER","dateOfBirth":"1999-01-02"}}`))
	})

	fx := newAuthFixture(t, mux)
	fx.store.SetUserSession("tok", &domain.Profile{ID: "u1", RoleName: "USER"})

	profile, err := fx.svc.UpdateProfile(context.Background(), "u1", ProfileUpdate{DateOfBirth: "02/01/1999"})
	if err != nil {
		t.Fatal(err)
	}
	if sent.DateOfBirth != "1999-01-02" {
		t.Fatalf("date should be normalized before submission, got %q", sent.DateOfBirth)
	}
	if profile.BirthDate != "1999-01-02" {
		t.Fatalf("got %q", profile.BirthDate)
	}
}

func TestUpdateProfileRejectsBadBirthDates(t *testing.T) {
	requests := 0
	fx := newAuthFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))

	future := time.Now().AddDate(1, 0, 0).Format("2006-01-02")
	for _, value := range []string{"not-a-date", "13/13/2020", future} {
		if _, err := fx.svc.UpdateProfile(context.Background(), "u1", ProfileUpdate{DateOfBirth: value}); !errors.Is(err, ErrInvalidBirthDate) {
			t.Fatalf("value %q: expected ErrInvalidBirthDate, got %v", value, err)
		}
	}
	if requests != 0 {
		t.Fatal("invalid dates must be rejected before any request")
	}
}

func TestChangePasswordForwardsAllFields(t *testing.T) {
	var sent map[string]string
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /users/u1/change-password", func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&sent); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.Write([]byte(`{"message":"ok"}`))
	})

	fx := newAuthFixture(t, mux)
	fx.store.SetUserSession("tok", &domain.Profile{ID: "u1", RoleName: "USER"})

	// the confirmation mismatch is the backend's call, not the client's
	if err := fx.svc.ChangePassword(context.Background(), "u1", "old", "new-pass", "other"); err != nil {
		t.Fatal(err)
	}
	if sent["oldPassword"] != "old" || sent["newPassword"] != "new-pass" || sent["confirmPassword"] != "other" {
		t.Fatalf("fields must be forwarded untouched: %v", sent)
	}
}

func TestLogoutClearsOnlyUserSession(t *testing.T) {
	fx := newAuthFixture(t, http.NewServeMux())
	fx.store.SetUserSession("tok", &domain.Profile{ID: "u1", RoleName: "USER"})
	fx.store.SetAdminSession("atok", &domain.Profile{ID: "a1", RoleName: "ADMIN"})

	fx.svc.Logout()

	if fx.store.IsUserAuthenticated() {
		t.Fatal("user session should be cleared")
	}
	if !fx.store.IsAdminAuthenticated() {
		t.Fatal("admin session must survive a user logout")
	}
}

func TestRegisterReturnsServerMessage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/register", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data":{"id":"u2"},"message":"registration successful"}`))
	})

	fx := newAuthFixture(t, mux)
	msg, err := fx.svc.Register(context.Background(), RegisterInput{Email: "a@b.com", Password: "secret1"})
	if err != nil {
		t.Fatal(err)
	}
	if msg != "registration successful" {
		t.Fatalf("got %q", msg)
	}
	if fx.store.IsUserAuthenticated() {
		t.Fatal("registration must not log the user in")
	}
}
