package navmenu_test

import (
	"testing"

	"github.com/jrsteele09/go-condo-console/identity"
	"github.com/jrsteele09/go-condo-console/navmenu"
	"github.com/stretchr/testify/require"
)

func adminMenu() []navmenu.Entry {
	return []navmenu.Entry{
		{Title: "Inicio", Target: "/home"},
		{
			Title: "Administración",
			Children: []navmenu.Entry{
				{Title: "Gestionar Usuarios", Target: "/users", RequiredRole: "Administrador"},
				{Title: "Gestionar Unidades", Target: "/units", RequiredRole: "Administrador"},
			},
		},
		{
			Title: "Seguridad",
			Children: []navmenu.Entry{
				{Title: "Vehículos", Target: "/vehicles", RequiredRole: "Guardia"},
			},
		},
		{Title: "Reservas", Target: "/bookings"},
	}
}

// TestFilter_Administrator keeps the admin-gated entries for the
// administrator role and drops the guard-only section.
func TestFilter_Administrator(t *testing.T) {
	ident := identity.Identity{RoleName: "Administrador"}

	got := navmenu.Filter(adminMenu(), &ident)

	titles := make([]string, 0, len(got))
	for _, e := range got {
		titles = append(titles, e.Title)
	}
	require.Equal(t, []string{"Inicio", "Administración", "Reservas"}, titles)
	require.Len(t, got[1].Children, 2)
	require.Equal(t, "Gestionar Usuarios", got[1].Children[0].Title)
}

// TestFilter_PrivilegedOverride lets a staff user through admin gates
// even with a different role name, but not through other role gates.
func TestFilter_PrivilegedOverride(t *testing.T) {
	ident := identity.Identity{RoleName: "Soporte", IsPrivileged: true}

	got := navmenu.Filter(adminMenu(), &ident)

	titles := make([]string, 0, len(got))
	for _, e := range got {
		titles = append(titles, e.Title)
	}
	require.Equal(t, []string{"Inicio", "Administración", "Reservas"}, titles)
}

// TestFilter_UnprivilegedResident drops every gated entry and the
// grouping headers left without children.
func TestFilter_UnprivilegedResident(t *testing.T) {
	ident := identity.Identity{RoleName: "Residente"}

	got := navmenu.Filter(adminMenu(), &ident)

	titles := make([]string, 0, len(got))
	for _, e := range got {
		titles = append(titles, e.Title)
	}
	require.Equal(t, []string{"Inicio", "Reservas"}, titles)
}

// TestFilter_NilIdentity drops all requirement-bearing entries.
func TestFilter_NilIdentity(t *testing.T) {
	got := navmenu.Filter(adminMenu(), nil)

	titles := make([]string, 0, len(got))
	for _, e := range got {
		titles = append(titles, e.Title)
	}
	require.Equal(t, []string{"Inicio", "Reservas"}, titles)
}

// TestFilter_NavigableParentSurvivesEmpty keeps a parent whose children
// were all filtered away when it has its own target.
func TestFilter_NavigableParentSurvivesEmpty(t *testing.T) {
	menu := []navmenu.Entry{
		{
			Title:  "Multas",
			Target: "/fines",
			Children: []navmenu.Entry{
				{Title: "Ajustes de Multas", Target: "/fines/settings", RequiredRole: "Administrador"},
			},
		},
	}
	ident := identity.Identity{RoleName: "Residente"}

	got := navmenu.Filter(menu, &ident)

	require.Len(t, got, 1)
	require.Equal(t, "Multas", got[0].Title)
	require.Empty(t, got[0].Children)
}

// TestFilter_Idempotent applies the filter twice and gets the same tree,
// and verifies nothing unsatisfied survives.
func TestFilter_Idempotent(t *testing.T) {
	idents := []*identity.Identity{
		nil,
		{RoleName: "Administrador"},
		{RoleName: "Residente"},
		{RoleName: "Soporte", IsPrivileged: true},
	}

	for _, ident := range idents {
		once := navmenu.Filter(adminMenu(), ident)
		twice := navmenu.Filter(once, ident)
		require.Equal(t, once, twice)
		requireAllSatisfied(t, twice, ident)
	}
}

func requireAllSatisfied(t *testing.T, entries []navmenu.Entry, ident *identity.Identity) {
	t.Helper()
	for _, e := range entries {
		if e.RequiredRole != "" {
			require.NotNil(t, ident)
			require.True(t, ident.SatisfiesRole(e.RequiredRole))
		}
		requireAllSatisfied(t, e.Children, ident)
	}
}

// TestFilter_DoesNotMutateInput verifies the original tree is untouched.
func TestFilter_DoesNotMutateInput(t *testing.T) {
	menu := adminMenu()
	ident := identity.Identity{RoleName: "Residente"}

	_ = navmenu.Filter(menu, &ident)

	require.Equal(t, adminMenu(), menu)
}
