package stub

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/renthaven/renthaven/internal/api"
	"github.com/renthaven/renthaven/internal/core/port"
	"github.com/renthaven/renthaven/internal/infra/config"
	"github.com/renthaven/renthaven/internal/session"
	"github.com/renthaven/renthaven/internal/usecase"
)

// harness runs the real client stack against an in-process stub server.
type harness struct {
	server *Server
	store  *session.Store
	set    *api.Set
	auth   *usecase.AuthService
	nav    *[]string
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	log := zaptest.NewLogger(t)
	server, err := NewServer(config.StubSettings{}, log)
	if err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(server.Router())
	t.Cleanup(srv.Close)

	store := session.NewStore(session.NewMemoryKV(), log)

	targets := []string{}
	nav := port.NavigatorFunc(func(path string) { targets = append(targets, path) })

	set := api.NewSet(config.APISettings{
		BaseURL:       srv.URL,
		PathPrefix:    "api",
		Timeout:       5 * time.Second,
		UploadTimeout: 5 * time.Second,
	}, store, nav, log)

	return &harness{
		server: server,
		store:  store,
		set:    set,
		auth:   usecase.NewAuthService(set, store, nav, log),
		nav:    &targets,
	}
}

func (h *harness) register(t *testing.T, email, password string) {
	t.Helper()
	_, err := h.auth.Register(context.Background(), usecase.RegisterInput{
		Username: "tester",
		Email:    email,
		Password: password,
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestRegisterLoginAndProfile(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.register(t, "tenant@example.com", "secret1")

	profile, err := h.auth.Login(ctx, "tenant@example.com", "secret1")
	if err != nil {
		t.Fatal(err)
	}
	if profile.RoleName != "USER" {
		t.Fatalf("role claim ROLE_USER should normalize to USER, got %q", profile.RoleName)
	}
	if !h.store.IsUserAuthenticated() {
		t.Fatal("session should be persisted")
	}

	fetched, err := h.auth.CurrentUser(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if fetched.Email != "tenant@example.com" {
		t.Fatalf("got %q", fetched.Email)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	h := newHarness(t)
	h.register(t, "tenant@example.com", "secret1")

	_, err := h.auth.Login(context.Background(), "tenant@example.com", "wrong")
	if !errors.Is(err, api.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestLoginAccessTokenShapeTriggersProfileFetch(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.register(t, "tenant@example.com", "secret1")

	// the "access" shape omits the user object entirely
	body, err := h.set.Public.Do(ctx, "POST", "/auth/login?shape=access", nil, map[string]string{
		"email":    "tenant@example.com",
		"password": "secret1",
	})
	if err != nil {
		t.Fatal(err)
	}
	if string(body) == "" {
		t.Fatal("expected a body")
	}

	// the auth service resolves the same shape end to end
	profile, err := h.auth.Login(ctx, "tenant@example.com", "secret1")
	if err != nil {
		t.Fatal(err)
	}
	if profile.ID == "" {
		t.Fatal("profile should be resolved")
	}
}

func TestHostLoginRejectsTenantAccount(t *testing.T) {
	h := newHarness(t)
	h.register(t, "tenant@example.com", "secret1")

	_, err := h.auth.LoginAsHost(context.Background(), "tenant@example.com", "secret1")
	if !errors.Is(err, usecase.ErrNotHostAccount) {
		t.Fatalf("expected ErrNotHostAccount, got %v", err)
	}
}

func TestAdminLoginWithSeededAccount(t *testing.T) {
	h := newHarness(t)

	profile, err := h.auth.LoginAsAdmin(context.Background(), "admin@renthaven.local", "admin-secret-1")
	if err != nil {
		t.Fatal(err)
	}
	if profile.RoleName != "ADMIN" {
		t.Fatalf("got %q", profile.RoleName)
	}
	if !h.store.IsAdminAuthenticated() {
		t.Fatal("admin session should be persisted")
	}
}

func TestPasswordResetEndToEnd(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.register(t, "tenant@example.com", "secret1")

	flow := usecase.NewPasswordResetFlow(h.set.Public, zaptest.NewLogger(t))
	if err := flow.SubmitEmail(ctx, "tenant@example.com"); err != nil {
		t.Fatal(err)
	}

	code, ok := h.server.OTPs().ActiveCode("tenant@example.com")
	if !ok {
		t.Fatal("a code should have been issued")
	}

	if err := flow.Continue(); err != nil {
		t.Fatal(err)
	}
	if err := flow.SubmitOTP(ctx, code); err != nil {
		t.Fatal(err)
	}
	if err := flow.SubmitNewPassword(ctx, "fresh-pass", "fresh-pass"); err != nil {
		t.Fatal(err)
	}
	if !flow.Completed() {
		t.Fatal("flow should be completed")
	}

	if _, err := h.auth.Login(ctx, "tenant@example.com", "secret1"); err == nil {
		t.Fatal("old password should be rejected")
	}
	if _, err := h.auth.Login(ctx, "tenant@example.com", "fresh-pass"); err != nil {
		t.Fatal(err)
	}
}

func TestPasswordResetConfirmRequiresVerify(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.register(t, "tenant@example.com", "secret1")

	flow := usecase.NewPasswordResetFlow(h.set.Public, zaptest.NewLogger(t))
	if err := flow.SubmitEmail(ctx, "tenant@example.com"); err != nil {
		t.Fatal(err)
	}

	code, _ := h.server.OTPs().ActiveCode("tenant@example.com")

	// hit confirm directly, skipping the verify step
	_, err := h.set.Public.Do(ctx, "POST",
		"/users/password-reset/confirm?otp="+code+"&newPassword=sneaky-pass", nil, nil)
	if err == nil {
		t.Fatal("confirm must require a previously verified code")
	}

	if _, err := h.auth.Login(ctx, "tenant@example.com", "secret1"); err != nil {
		t.Fatal("original password must still work")
	}
}

func TestPasswordResetUnknownEmail(t *testing.T) {
	h := newHarness(t)

	flow := usecase.NewPasswordResetFlow(h.set.Public, zaptest.NewLogger(t))
	err := flow.SubmitEmail(context.Background(), "nobody@example.com")
	if !errors.Is(err, usecase.ErrEmailNotFound) {
		t.Fatalf("expected ErrEmailNotFound, got %v", err)
	}
}

func TestChangePasswordRoundTrip(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.register(t, "tenant@example.com", "secret1")
	profile, err := h.auth.Login(ctx, "tenant@example.com", "secret1")
	if err != nil {
		t.Fatal(err)
	}

	if err := h.auth.ChangePassword(ctx, profile.ID, "secret1", "changed1", "changed1"); err != nil {
		t.Fatal(err)
	}
	if err := h.auth.ChangePassword(ctx, profile.ID, "secret1", "again66", "again66"); err == nil {
		t.Fatal("stale current password should be rejected")
	}

	h.auth.Logout()
	if _, err := h.auth.Login(ctx, "tenant@example.com", "changed1"); err != nil {
		t.Fatal(err)
	}
}

func TestExpiredTokenClearsSessionAndRedirects(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.register(t, "tenant@example.com", "secret1")
	if _, err := h.auth.Login(ctx, "tenant@example.com", "secret1"); err != nil {
		t.Fatal(err)
	}

	// poison the stored token; the backend will answer 401
	h.store.Set(session.KeyToken, "not-a-real-token")

	if _, err := h.auth.CurrentUser(ctx); !errors.Is(err, usecase.ErrSessionInvalid) {
		t.Fatalf("expected ErrSessionInvalid, got %v", err)
	}
	if h.store.IsUserAuthenticated() {
		t.Fatal("session should be cleared")
	}
	if len(*h.nav) == 0 {
		t.Fatal("a login redirect should have been issued")
	}
}

func TestHostApplicationApprovalUpgradesRole(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.register(t, "applicant@example.com", "secret1")
	if _, err := h.auth.Login(ctx, "applicant@example.com", "secret1"); err != nil {
		t.Fatal(err)
	}
	if _, err := h.auth.LoginAsAdmin(ctx, "admin@renthaven.local", "admin-secret-1"); err != nil {
		t.Fatal(err)
	}

	listings := usecase.NewListingService(h.set)
	app, err := listings.ApplyAsHost(ctx, "I have two flats")
	if err != nil {
		t.Fatal(err)
	}

	admin := usecase.NewAdminService(h.set)
	if err := admin.ApproveHostApplication(ctx, app.ID); err != nil {
		t.Fatal(err)
	}

	// the refreshed login now resolves to the host tier
	profile, err := h.auth.LoginAsHost(ctx, "applicant@example.com", "secret1")
	if err != nil {
		t.Fatal(err)
	}
	if profile.RoleName != "HOST" {
		t.Fatalf("got %q", profile.RoleName)
	}
}

func TestUploadAndDeleteRoundTrip(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.register(t, "tenant@example.com", "secret1")
	if _, err := h.auth.Login(ctx, "tenant@example.com", "secret1"); err != nil {
		t.Fatal(err)
	}

	uploads := usecase.NewUploadService(h.set.Upload, zaptest.NewLogger(t))

	url, err := uploads.UploadAvatar(ctx, "avatar.png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(url, "/static/") {
		t.Fatalf("got %q", url)
	}

	urls, err := uploads.UploadHouseImages(ctx, []api.FilePart{
		{Field: "files", Filename: "a.jpg", Content: strings.NewReader("a")},
		{Field: "files", Filename: "b.jpg", Content: strings.NewReader("b")},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(urls) != 2 {
		t.Fatalf("got %d urls", len(urls))
	}

	if err := uploads.Delete(ctx, url); err != nil {
		t.Fatal(err)
	}
	if err := uploads.Delete(ctx, url); err == nil {
		t.Fatal("second delete should fail")
	}
}

func TestAdminEndpointsRejectNonAdmin(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.register(t, "tenant@example.com", "secret1")
	if _, err := h.auth.Login(ctx, "tenant@example.com", "secret1"); err != nil {
		t.Fatal(err)
	}

	// user token on the admin client scope
	_, err := h.set.User.Do(ctx, "GET", "/admin/users", nil, nil)
	if !errors.Is(err, api.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
