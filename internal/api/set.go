package api

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/renthaven/renthaven/internal/core/port"
	"github.com/renthaven/renthaven/internal/infra/config"
	"github.com/renthaven/renthaven/internal/session"
)

// Set holds the scoped clients the front end talks through.
//
//	Public — optional user token, silent on 401.
//	User   — user token; 401 clears the user session and navigates to /login.
//	Admin  — admin token; 401 clears the admin session and navigates to /admin/login.
//	Upload — user scope with the longer multipart timeout.
type Set struct {
	Public *Client
	User   *Client
	Admin  *Client
	Upload *Client
}

// NewSet wires the client set against the session store and navigator.
func NewSet(cfg config.APISettings, store *session.Store, nav port.Navigator, logger *zap.Logger) *Set {
	endpoint := cfg.Endpoint()

	apiHTTP := &http.Client{Timeout: cfg.Timeout}
	uploadHTTP := &http.Client{Timeout: cfg.UploadTimeout}

	userExpired := func() {
		store.ClearUserSession()
		nav.Navigate("/login")
	}
	adminExpired := func() {
		store.ClearAdminSession()
		nav.Navigate("/admin/login")
	}

	return &Set{
		Public: NewClient("public", endpoint, apiHTTP, logger,
			WithToken(store.Token)),
		User: NewClient("user", endpoint, apiHTTP, logger,
			WithToken(store.Token),
			WithUnauthorizedHook(userExpired)),
		Admin: NewClient("admin", endpoint, apiHTTP, logger,
			WithToken(store.AdminToken),
			WithUnauthorizedHook(adminExpired)),
		Upload: NewClient("upload", endpoint, uploadHTTP, logger,
			WithToken(store.Token),
			WithUnauthorizedHook(userExpired)),
	}
}
