package reorder

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/omenapps/adminsort/internal/adminindex"
)

func model(name string, mutate ...func(*adminindex.Model)) adminindex.Model {
	m := adminindex.Model{
		ObjectName: name,
		ModelName:  "app." + name,
		Name:       name + "s",
		Perms:      map[string]bool{"add": true, "change": true},
		Extra: map[string]any{
			"admin_url": "/admin/app/" + name + "/",
			"flags":     map[string]any{"view_only": false, "count": 3},
		},
	}
	for _, fn := range mutate {
		fn(&m)
	}
	return m
}

func TestDedupeModels_StructuralEquality(t *testing.T) {
	// Two independently built values with equal contents are duplicates;
	// map identity plays no part.
	out := dedupeModels([]adminindex.Model{model("Post"), model("Post")})
	require.Len(t, out, 1)
}

func TestDedupeModels_PreservesFirstSeenOrder(t *testing.T) {
	out := dedupeModels([]adminindex.Model{
		model("Post"),
		model("Comment"),
		model("Post"),
		model("Tag"),
		model("Comment"),
	})

	require.Len(t, out, 3)
	require.Equal(t, "Post", out[0].ObjectName)
	require.Equal(t, "Comment", out[1].ObjectName)
	require.Equal(t, "Tag", out[2].ObjectName)
}

func TestDedupeModels_FieldDifferencesKeepBoth(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*adminindex.Model)
	}{
		{"display name", func(m *adminindex.Model) { m.Name = "Articles" }},
		{"permission value", func(m *adminindex.Model) { m.Perms["add"] = false }},
		{"extra permission key", func(m *adminindex.Model) { m.Perms["view"] = true }},
		{"extra field", func(m *adminindex.Model) { m.Extra["admin_url"] = "/elsewhere/" }},
		{"nested extra field", func(m *adminindex.Model) {
			m.Extra["flags"] = map[string]any{"view_only": true, "count": 3}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := dedupeModels([]adminindex.Model{model("Post"), model("Post", tt.mutate)})
			require.Len(t, out, 2)
		})
	}
}

func TestDedupeModels_SmallInputs(t *testing.T) {
	require.Empty(t, dedupeModels(nil))

	one := []adminindex.Model{model("Post")}
	require.Equal(t, one, dedupeModels(one))
}

func TestFingerprint_IndependentOfMapOrigin(t *testing.T) {
	// fingerprint writes map fields in sorted-key order, so two maps
	// built in different insertion orders encode identically.
	a := model("Post")
	b := model("Post")
	b.Perms = map[string]bool{"change": true, "add": true}

	require.Equal(t, fingerprint(a), fingerprint(b))
}

// === Property-Based Tests ===

func TestDedupeModels_PropertyBased_Idempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		names := rapid.SliceOfN(rapid.SampledFrom([]string{"Post", "Comment", "Tag", "User"}), 0, 12).
			Draw(t, "names")

		models := make([]adminindex.Model, len(names))
		for i, name := range names {
			models[i] = model(name)
		}

		once := dedupeModels(models)
		twice := dedupeModels(once)
		require.Equal(t, once, twice, "dedup must be idempotent")

		seen := make(map[string]struct{})
		for _, m := range once {
			_, dup := seen[m.ObjectName]
			require.False(t, dup, "duplicate %s survived", m.ObjectName)
			seen[m.ObjectName] = struct{}{}
		}
	})
}
