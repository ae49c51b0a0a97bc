package adminindex

// Model represents one model registered under an app, as the admin index
// view reports it. Fields the framework attaches beyond the ones this
// package understands (admin URLs, view flags) ride along in Extra and are
// never interpreted, only carried through.
type Model struct {
	// ObjectName is the class-style name, e.g. "Post".
	ObjectName string `json:"object_name"`

	// ModelName is the fully-qualified identifier "app_label.ObjectName".
	// It is computed once per request by BuildCatalog.
	ModelName string `json:"model_name"`

	// Name is the display label shown on the index page.
	Name string `json:"name"`

	// Perms maps permission actions to grants, e.g. {"add": true, "change": false}.
	Perms map[string]bool `json:"perms,omitempty"`

	// Extra holds framework-defined fields passed through unchanged.
	Extra map[string]any `json:"extra,omitempty"`
}

// Clone returns a deep copy of the model. Perms and Extra are copied so
// mutating the clone never touches the original.
func (m Model) Clone() Model {
	out := m
	if m.Perms != nil {
		out.Perms = make(map[string]bool, len(m.Perms))
		for k, v := range m.Perms {
			out.Perms[k] = v
		}
	}
	if m.Extra != nil {
		out.Extra = cloneValueMap(m.Extra)
	}
	return out
}

// App represents one installed application as seen by the admin index.
// Identity key: AppLabel.
type App struct {
	// AppLabel is the unique short identifier, e.g. "blog".
	AppLabel string `json:"app_label"`

	// Name is the display label, e.g. "Blog". Overridable per config.
	Name string `json:"name"`

	// AppURL is the index URL for the app's admin section.
	AppURL string `json:"app_url"`

	// HasModulePerms reports whether the current user may see the app.
	HasModulePerms bool `json:"has_module_perms"`

	// Models lists the app's models in the framework's default order.
	Models []Model `json:"models"`
}

// Clone returns a deep copy of the app, including its models.
func (a App) Clone() App {
	out := a
	if a.Models != nil {
		out.Models = make([]Model, len(a.Models))
		for i, m := range a.Models {
			out.Models[i] = m.Clone()
		}
	}
	return out
}

// cloneValueMap deep-copies a pass-through field map. Nested maps and
// slices are copied; scalar values are shared (they are immutable).
func cloneValueMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneValueMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
