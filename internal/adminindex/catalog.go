package adminindex

import "strings"

// Catalog is the per-request lookup index built from the framework's
// default app listing: apps by label, models by fully-qualified name.
// It is rebuilt fresh for every request and must never be cached or
// shared across requests; the listing can differ per request (the current
// user's permissions shape it).
type Catalog struct {
	apps   map[string]App
	models map[string]Model

	// modelOrder preserves the framework's enumeration order of model
	// names, used when appending unrepresented models.
	modelOrder []string
}

// QualifiedName joins an app label and object name into the canonical
// "app_label.ObjectName" form. If objectName already contains a dot it is
// returned unchanged; framework versions differ on whether the join is
// pre-applied.
func QualifiedName(appLabel, objectName string) string {
	if strings.Contains(objectName, ".") {
		return objectName
	}
	return appLabel + "." + objectName
}

// BuildCatalog flattens the raw app list into lookup structures. The
// ModelName of every model in apps is computed in place so that apps
// emitted unchanged still carry qualified names. An empty or nil listing
// yields an empty catalog, not an error.
func BuildCatalog(apps []App) *Catalog {
	c := &Catalog{
		apps:   make(map[string]App, len(apps)),
		models: make(map[string]Model),
	}
	for i := range apps {
		app := &apps[i]
		for j := range app.Models {
			model := &app.Models[j]
			model.ModelName = QualifiedName(app.AppLabel, model.ObjectName)
			if _, seen := c.models[model.ModelName]; !seen {
				c.modelOrder = append(c.modelOrder, model.ModelName)
			}
			c.models[model.ModelName] = *model
		}
		c.apps[app.AppLabel] = *app
	}
	return c
}

// App looks up an app by label.
func (c *Catalog) App(label string) (App, bool) {
	app, ok := c.apps[label]
	return app, ok
}

// Model looks up a model by its fully-qualified name.
func (c *Catalog) Model(name string) (Model, bool) {
	m, ok := c.models[name]
	return m, ok
}

// ModelNames returns all model names in the framework's enumeration order.
func (c *Catalog) ModelNames() []string {
	return c.modelOrder
}

// Len returns the number of distinct models in the catalog.
func (c *Catalog) Len() int {
	return len(c.models)
}
