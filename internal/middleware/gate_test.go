package middleware

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func adminResolver() *TableResolver {
	return NewTableResolver().
		Add("/admin/", Route{Namespace: AdminNamespace, Name: "index"}).
		Add("/admin/password_change/", Route{Namespace: AdminNamespace, Name: "password_change"}).
		Add("/admin/*", Route{Namespace: AdminNamespace, Name: "app_list"}).
		Add("/api/apps", Route{Namespace: "api", Name: "index"})
}

func TestTableResolver_ExactMatch(t *testing.T) {
	r := adminResolver()

	route, ok := r.Resolve("/admin/")
	require.True(t, ok)
	require.Equal(t, "index", route.Name)
}

func TestTableResolver_PrefixMatch(t *testing.T) {
	r := adminResolver()

	route, ok := r.Resolve("/admin/blog/")
	require.True(t, ok)
	require.Equal(t, "app_list", route.Name)
}

func TestTableResolver_FirstMatchWins(t *testing.T) {
	// password_change is registered before the prefix pattern, so it
	// resolves to its own name rather than app_list.
	r := adminResolver()

	route, ok := r.Resolve("/admin/password_change/")
	require.True(t, ok)
	require.Equal(t, "password_change", route.Name)
}

func TestTableResolver_UnknownPath(t *testing.T) {
	r := adminResolver()

	_, ok := r.Resolve("/healthz")
	require.False(t, ok)
}

func TestGate_DefaultAllowList(t *testing.T) {
	gate := NewGate(adminResolver(), nil)
	ctx := context.Background()

	require.True(t, gate.Applicable(ctx, "/admin/"))
	require.True(t, gate.Applicable(ctx, "/admin/blog/"))

	// Known admin route, but its name is not in the default allow-list.
	require.False(t, gate.Applicable(ctx, "/admin/password_change/"))
}

func TestGate_RequiresAdminNamespace(t *testing.T) {
	// Same route name, wrong namespace. Both conditions must hold.
	gate := NewGate(adminResolver(), nil)

	require.False(t, gate.Applicable(context.Background(), "/api/apps"))
}

func TestGate_UnknownPath(t *testing.T) {
	gate := NewGate(adminResolver(), nil)

	require.False(t, gate.Applicable(context.Background(), "/healthz"))
}

func TestGate_CustomAllowList(t *testing.T) {
	gate := NewGate(adminResolver(), []string{"index"})
	ctx := context.Background()

	require.True(t, gate.Applicable(ctx, "/admin/"))
	require.False(t, gate.Applicable(ctx, "/admin/blog/"))
}

func TestGate_MemoizesDecisions(t *testing.T) {
	gate := NewGate(adminResolver(), nil)
	ctx := context.Background()

	first := gate.Applicable(ctx, "/admin/blog/")
	cached, ok := gate.decisions.Get(ctx, "/admin/blog/")
	require.True(t, ok)
	require.Equal(t, first, cached)

	require.Equal(t, first, gate.Applicable(ctx, "/admin/blog/"))
}
