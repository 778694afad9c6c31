package console_test

import (
	"context"
	"testing"
	"time"

	"github.com/jrsteele09/go-condo-console/console"
	"github.com/jrsteele09/go-condo-console/credentials/storefake"
	"github.com/jrsteele09/go-condo-console/internal/config"
	"github.com/jrsteele09/go-condo-console/navmenu"
	"github.com/jrsteele09/go-condo-console/routeguard"
	"github.com/jrsteele09/go-condo-console/session"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	config.EnvVars
	baseURL string
}

func (c testConfig) GetAPIBaseURL() string {
	return c.baseURL
}

func (c testConfig) GetRenewTimeout() time.Duration {
	return 50 * time.Millisecond
}

// TestNew_WiresTheCore builds the object graph and bootstraps an empty
// session: the guard redirects to login and the menu collapses to the
// ungated entries.
func TestNew_WiresTheCore(t *testing.T) {
	c, err := console.New(testConfig{baseURL: "http://localhost:8000"},
		console.WithStore(storefake.NewFakeStore()),
	)
	require.NoError(t, err)

	// Empty store: bootstrap settles unauthenticated without touching
	// the network.
	require.NoError(t, c.Bootstrap(context.Background()))
	require.Equal(t, session.StateUnauthenticated, c.Manager.CurrentState())

	result := c.Guard.Check("/users", routeguard.Requirement{RequiredRole: "Administrador"})
	require.Equal(t, routeguard.RedirectLogin, result.Decision)
	require.Equal(t, "/users", result.ReturnTo)

	menu := c.VisibleMenu([]navmenu.Entry{
		{Title: "Inicio", Target: "/home"},
		{Title: "Gestionar Usuarios", Target: "/users", RequiredRole: "Administrador"},
	})
	require.Len(t, menu, 1)
	require.Equal(t, "Inicio", menu[0].Title)
}

func TestNew_RequiresConfig(t *testing.T) {
	_, err := console.New(nil)
	require.Error(t, err)
}
