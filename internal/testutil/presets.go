package testutil

import (
	"github.com/omenapps/adminsort/internal/adminindex"
	"github.com/omenapps/adminsort/internal/registry"
)

// PresetProject returns the app listing of a typical small project:
// blog (Post, Comment), auth (User, Group), sites (Site).
func PresetProject() []adminindex.App {
	return NewAppList().
		App("blog", "Blog").
		Model("Post", "Posts").
		Model("Comment", "Comments").
		App("auth", "Authentication and Authorization").
		Model("User", "Users").
		Model("Group", "Groups").
		App("sites", "Sites").
		Model("Site", "Sites").
		Build()
}

// PresetRegistry returns a model registry matching PresetProject.
func PresetRegistry() *registry.Registry {
	r := registry.New()
	// Registration errors only occur on duplicate or empty labels.
	_ = r.Register("blog", "Post", "Comment")
	_ = r.Register("auth", "User", "Group")
	_ = r.Register("sites", "Site")
	return r
}
