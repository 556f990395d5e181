// Package cli implements the renthaven command line client. Commands share a
// lazily initialized App that wires configuration, logging, session state and
// the API clients together.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/renthaven/renthaven/internal/api"
	"github.com/renthaven/renthaven/internal/core/port"
	"github.com/renthaven/renthaven/internal/infra/config"
	"github.com/renthaven/renthaven/internal/infra/logger"
	"github.com/renthaven/renthaven/internal/session"
	"github.com/renthaven/renthaven/internal/usecase"
)

// App carries the wired dependencies every command uses.
type App struct {
	Config   *config.AppConfig
	Logger   *zap.Logger
	Store    *session.Store
	Clients  *api.Set
	Auth     *usecase.AuthService
	Listings *usecase.ListingService
	Uploads  *usecase.UploadService
	Admin    *usecase.AdminService

	out io.Writer
	in  *bufio.Reader
}

// NewApp loads configuration and wires the client stack. Navigation targets
// from expired sessions surface as stderr hints since a CLI has no router.
func NewApp(out io.Writer, in io.Reader) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	kv, err := session.NewFileKV(cfg.State.Dir)
	if err != nil {
		return nil, fmt.Errorf("open state: %w", err)
	}
	store := session.NewStore(kv, log)

	nav := port.NavigatorFunc(func(path string) {
		switch {
		case strings.HasPrefix(path, "/admin/login"):
			fmt.Fprintln(os.Stderr, "admin session expired, run `renthaven admin login`")
		case strings.Contains(path, "roleChanged=true"):
			fmt.Fprintln(os.Stderr, "your account role changed, please log in again")
		default:
			fmt.Fprintln(os.Stderr, "session expired, run `renthaven login`")
		}
	})

	clients := api.NewSet(cfg.API, store, nav, log)

	return &App{
		Config:   cfg,
		Logger:   log,
		Store:    store,
		Clients:  clients,
		Auth:     usecase.NewAuthService(clients, store, nav, log),
		Listings: usecase.NewListingService(clients),
		Uploads:  usecase.NewUploadService(clients.Upload, log),
		Admin:    usecase.NewAdminService(clients),
		out:      out,
		in:       bufio.NewReader(in),
	}, nil
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// prompt reads one line from stdin after printing the label.
func (a *App) prompt(label string) (string, error) {
	fmt.Fprint(a.out, label)
	line, err := a.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
