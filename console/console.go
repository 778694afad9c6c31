// Package console wires the session core together for the UI shell:
// configuration, credential storage, the Identity API client, the
// session manager, the request gateway, and the route guard. The shell
// holds one Console for the life of the process.
package console

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-condo-console/credentials"
	"github.com/jrsteele09/go-condo-console/gateway"
	"github.com/jrsteele09/go-condo-console/identityapi"
	"github.com/jrsteele09/go-condo-console/internal/config"
	"github.com/jrsteele09/go-condo-console/navmenu"
	"github.com/jrsteele09/go-condo-console/routeguard"
	"github.com/jrsteele09/go-condo-console/session"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Console is the wired session core.
type Console struct {
	Manager *session.Manager
	Gateway *gateway.Gateway
	Guard   *routeguard.Guard

	log zerolog.Logger
}

// Option modifies the Console during construction.
type Option func(*builder)

type builder struct {
	log     zerolog.Logger
	logSet  bool
	store   credentials.Store
	onState func(session.State)
}

// WithLogger overrides the config-derived logger.
func WithLogger(log zerolog.Logger) Option {
	return func(b *builder) {
		b.log = log
		b.logSet = true
	}
}

// WithStore overrides the file-backed credential store (for tests).
func WithStore(store credentials.Store) Option {
	return func(b *builder) {
		b.store = store
	}
}

// WithStateListener forwards session state transitions to the shell.
func WithStateListener(fn func(session.State)) Option {
	return func(b *builder) {
		b.onState = fn
	}
}

// New builds the console core from configuration.
func New(cfg config.Config, options ...Option) (*Console, error) {
	if cfg == nil {
		return nil, errors.New("[console.New] config is required")
	}

	b := &builder{}
	for _, opt := range options {
		opt(b)
	}

	log := b.log
	if !b.logSet {
		level, err := zerolog.ParseLevel(cfg.GetLogLevel())
		if err != nil {
			level = zerolog.InfoLevel
		}
		log = zerolog.New(zerolog.NewConsoleWriter()).Level(level).With().Timestamp().Logger()
	}

	store := b.store
	if store == nil {
		store = credentials.NewFileStore(cfg.GetCredentialsFile())
	}

	api := identityapi.New(cfg.GetAPIBaseURL(),
		identityapi.WithHTTPClient(&http.Client{Timeout: cfg.GetHTTPTimeout()}))

	managerOpts := []session.ManagerOption{
		session.WithLogger(log),
		session.WithRenewTimeout(cfg.GetRenewTimeout()),
	}
	if b.onState != nil {
		managerOpts = append(managerOpts, session.WithStateListener(b.onState))
	}
	manager, err := session.NewManager(api, store, managerOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "[console.New] session manager")
	}

	gw, err := gateway.New(cfg.GetAPIBaseURL(), manager,
		gateway.WithLogger(log),
		gateway.WithHTTPClient(&http.Client{Timeout: cfg.GetHTTPTimeout()}),
	)
	if err != nil {
		return nil, errors.Wrap(err, "[console.New] gateway")
	}

	return &Console{
		Manager: manager,
		Gateway: gw,
		Guard:   routeguard.New(manager),
		log:     log,
	}, nil
}

// Bootstrap restores a stored session, if any. Call once at shell start;
// the manager settles at authenticated or unauthenticated and the route
// guard takes it from there.
func (c *Console) Bootstrap(ctx context.Context) error {
	return errors.Wrap(c.Manager.RestoreFromStorage(ctx), "[Console.Bootstrap] restore")
}

// VisibleMenu filters the navigation tree for the current identity.
func (c *Console) VisibleMenu(entries []navmenu.Entry) []navmenu.Entry {
	ident, ok := c.Manager.CurrentIdentity()
	if !ok {
		return navmenu.Filter(entries, nil)
	}
	return navmenu.Filter(entries, &ident)
}
