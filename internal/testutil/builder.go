// Package testutil provides builders and presets for constructing admin
// app listings in tests.
package testutil

import (
	"github.com/omenapps/adminsort/internal/adminindex"
)

// AppListBuilder accumulates apps and models fluently and produces the
// []adminindex.App slice the framework would hand the middleware.
type AppListBuilder struct {
	apps []adminindex.App
}

// NewAppList creates an empty builder.
func NewAppList() *AppListBuilder {
	return &AppListBuilder{}
}

// App starts a new app; subsequent Model calls attach to it.
func (b *AppListBuilder) App(label, name string, opts ...AppOption) *AppListBuilder {
	app := adminindex.App{
		AppLabel:       label,
		Name:           name,
		AppURL:         "/admin/" + label + "/",
		HasModulePerms: true,
	}
	for _, opt := range opts {
		opt(&app)
	}
	b.apps = append(b.apps, app)
	return b
}

// Model attaches a model to the most recently added app.
func (b *AppListBuilder) Model(objectName, name string, opts ...ModelOption) *AppListBuilder {
	if len(b.apps) == 0 {
		panic("testutil: Model called before App")
	}
	app := &b.apps[len(b.apps)-1]
	model := adminindex.Model{
		ObjectName: objectName,
		Name:       name,
		Perms:      map[string]bool{"add": true, "change": true, "delete": true, "view": true},
		Extra: map[string]any{
			"admin_url": "/admin/" + app.AppLabel + "/" + objectName + "/",
		},
	}
	for _, opt := range opts {
		opt(&model)
	}
	app.Models = append(app.Models, model)
	return b
}

// Build returns the accumulated app list.
func (b *AppListBuilder) Build() []adminindex.App {
	return b.apps
}

// AppOption configures an app.
type AppOption func(*adminindex.App)

// WithAppURL overrides the app's admin URL.
func WithAppURL(url string) AppOption {
	return func(a *adminindex.App) {
		a.AppURL = url
	}
}

// WithoutModulePerms marks the app as hidden for the current user.
func WithoutModulePerms() AppOption {
	return func(a *adminindex.App) {
		a.HasModulePerms = false
	}
}

// ModelOption configures a model.
type ModelOption func(*adminindex.Model)

// WithPerms replaces the model's permission map.
func WithPerms(perms map[string]bool) ModelOption {
	return func(m *adminindex.Model) {
		m.Perms = perms
	}
}

// WithExtra merges framework pass-through fields into the model.
func WithExtra(extra map[string]any) ModelOption {
	return func(m *adminindex.Model) {
		if m.Extra == nil {
			m.Extra = make(map[string]any, len(extra))
		}
		for k, v := range extra {
			m.Extra[k] = v
		}
	}
}
