package adminindex

// Render context keys recognized for the app list, checked in priority
// order: the index view publishes under "app_list", other admin views
// under "available_apps".
const (
	KeyAppList       = "app_list"
	KeyAvailableApps = "available_apps"
)

// RenderContext is the mutable key-value structure consulted by the
// templating layer to produce the final page. Only the app-list keys are
// interpreted here; everything else passes through untouched.
type RenderContext map[string]any

// AppList locates the app list in the context. It returns the key it was
// found under (needed to write the result back to the same key), the
// list, and whether anything was found. A key holding a value of the
// wrong type is treated as absent.
func (rc RenderContext) AppList() (string, []App, bool) {
	for _, key := range []string{KeyAppList, KeyAvailableApps} {
		v, present := rc[key]
		if !present {
			continue
		}
		if apps, ok := v.([]App); ok {
			return key, apps, true
		}
	}
	return "", nil, false
}

// SetAppList installs apps under the given context key.
func (rc RenderContext) SetAppList(key string, apps []App) {
	rc[key] = apps
}
