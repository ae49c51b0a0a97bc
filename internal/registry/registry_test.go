package registry

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_Register(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("blog", "Post", "Comment"))

	models, err := r.Models("blog")
	require.NoError(t, err)
	require.Len(t, models, 2)
	require.Equal(t, "blog", models[0].AppLabel())
	require.Equal(t, "Post", models[0].ObjectName())
	require.Equal(t, "blog.Post", models[0].Label())
}

func TestRegistry_Register_Duplicate(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("blog", "Post"))
	require.ErrorIs(t, r.Register("blog", "Comment"), ErrDuplicateApp)
}

func TestRegistry_Register_EmptyLabel(t *testing.T) {
	r := New()
	require.ErrorIs(t, r.Register(""), ErrEmptyAppLabel)
}

func TestRegistry_Register_NoModels(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("empty"))

	models, err := r.Models("empty")
	require.NoError(t, err)
	require.Empty(t, models)
	require.Empty(t, r.ModelsFor("empty"))
}

func TestRegistry_Models_Unknown(t *testing.T) {
	r := New()
	_, err := r.Models("shop")
	require.ErrorIs(t, err, ErrAppNotFound)
}

func TestRegistry_ModelsFor_RegistrationOrder(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("auth", "User", "Group", "Permission"))

	require.Equal(t, []string{"auth.User", "auth.Group", "auth.Permission"}, r.ModelsFor("auth"))
}

func TestRegistry_ModelsFor_UnknownIsEmpty(t *testing.T) {
	// An unregistered app is a lookup miss, not an error.
	r := New()
	require.Nil(t, r.ModelsFor("shop"))
}

func TestRegistry_AppLabels_Sorted(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("sites", "Site"))
	require.NoError(t, r.Register("auth", "User"))
	require.NoError(t, r.Register("blog", "Post"))

	require.Equal(t, []string{"auth", "blog", "sites"}, r.AppLabels())
}
