package reorder

import (
	"sort"

	"github.com/omenapps/adminsort/internal/adminindex"
	"github.com/omenapps/adminsort/internal/log"
)

// Synthetic app appended when append_unrepresented is enabled: it
// collects every catalog model the explicit config left out.
const (
	UnrepresentedAppLabel = "other"
	UnrepresentedAppName  = "Other"
)

// ModelRegistry enumerates the fully-qualified labels of the models
// registered to an app. It is consulted only for wildcard selector
// expansion; an unknown app yields an empty enumeration.
type ModelRegistry interface {
	ModelsFor(appLabel string) []string
}

// Options tune transform behavior beyond the entry list.
type Options struct {
	// AppendUnrepresented appends one synthetic app collecting every
	// catalog model not referenced by the configured output.
	AppendUnrepresented bool
}

// Transform applies a parsed reorder configuration to a render context.
// It holds no per-request state: the catalog is rebuilt from the incoming
// app list on every Apply and discarded afterward.
type Transform struct {
	entries             []Entry
	registry            ModelRegistry
	appendUnrepresented bool
}

// New parses the raw apps setting and builds a transform. A nil registry
// is allowed; wildcard selectors then expand to nothing.
func New(raw []any, registry ModelRegistry, opts Options) (*Transform, error) {
	entries, err := ParseEntries(raw)
	if err != nil {
		return nil, err
	}
	return &Transform{
		entries:             entries,
		registry:            registry,
		appendUnrepresented: opts.AppendUnrepresented,
	}, nil
}

// Apply replaces the context's app list with the configured ordering.
// When the context carries no app list the call is a no-op.
func (t *Transform) Apply(rc adminindex.RenderContext) {
	key, apps, ok := rc.AppList()
	if !ok {
		log.Debug(log.CatReorder, "no app list in render context, nothing to reorder")
		return
	}

	catalog := adminindex.BuildCatalog(apps)

	out := make([]adminindex.App, 0, len(t.entries))
	for _, entry := range t.entries {
		if app, keep := t.resolveEntry(catalog, entry); keep {
			out = append(out, app)
		}
	}

	if t.appendUnrepresented {
		if app, any := collectUnrepresented(catalog, out); any {
			out = append(out, app)
		}
	}

	log.Debug(log.CatReorder, "app list reordered",
		"key", key, "in", len(apps), "out", len(out))
	rc.SetAppList(key, out)
}

// resolveEntry resolves one config entry against the catalog. A reference
// to an app the catalog doesn't contain resolves to nothing: stale or
// environment-specific entries degrade gracefully.
func (t *Transform) resolveEntry(catalog *adminindex.Catalog, entry Entry) (adminindex.App, bool) {
	app, ok := catalog.App(entry.App)
	if !ok {
		log.Debug(log.CatReorder, "app not in catalog, skipping", "app", entry.App)
		return adminindex.App{}, false
	}

	// Bare entries pass the catalog's app through untouched; no override
	// happens, so no copy is needed.
	if entry.Bare {
		return app, true
	}

	app = app.Clone()
	if entry.HasLabel {
		app.Name = entry.Label
	}
	if entry.HasModels {
		models := t.selectModels(catalog, entry.Selectors)
		if len(models) == 0 {
			// A model filter that resolves to nothing leaves the app
			// unrepresentable; drop it entirely.
			log.Debug(log.CatReorder, "model filter resolved to nothing, dropping app", "app", entry.App)
			return adminindex.App{}, false
		}
		app.Models = models
	}
	return app, true
}

// selectModels resolves the entry's selectors in order. Wildcard batches
// are sorted alphabetically by model name before appending so expansion
// is deterministic regardless of registry enumeration order; explicit
// selections are never resorted. The combined result is deduplicated
// preserving first occurrence.
func (t *Transform) selectModels(catalog *adminindex.Catalog, selectors []Selector) []adminindex.Model {
	var out []adminindex.Model
	for _, sel := range selectors {
		switch sel.Kind {
		case SelectExact:
			model, ok := catalog.Model(sel.Model)
			if !ok {
				log.Debug(log.CatReorder, "model not in catalog, skipping", "model", sel.Model)
				continue
			}
			if sel.HasLabel {
				model = model.Clone()
				model.Name = sel.Label
			}
			out = append(out, model)
		case SelectWildcard:
			batch := t.expandWildcard(catalog, sel.App)
			out = append(out, batch...)
		}
	}
	return dedupeModels(out)
}

func (t *Transform) expandWildcard(catalog *adminindex.Catalog, appLabel string) []adminindex.Model {
	if t.registry == nil {
		log.Warn(log.CatReorder, "wildcard selector without model registry", "app", appLabel)
		return nil
	}

	var batch []adminindex.Model
	for _, label := range t.registry.ModelsFor(appLabel) {
		if model, ok := catalog.Model(label); ok {
			batch = append(batch, model)
		}
	}
	sort.Slice(batch, func(i, j int) bool {
		return batch[i].ModelName < batch[j].ModelName
	})
	return batch
}

// collectUnrepresented gathers every catalog model not referenced by the
// resolved output, in the framework's enumeration order, under one
// synthetic app entry.
func collectUnrepresented(catalog *adminindex.Catalog, out []adminindex.App) (adminindex.App, bool) {
	referenced := make(map[string]struct{})
	for _, app := range out {
		for _, model := range app.Models {
			referenced[model.ModelName] = struct{}{}
		}
	}

	var models []adminindex.Model
	for _, name := range catalog.ModelNames() {
		if _, seen := referenced[name]; seen {
			continue
		}
		if model, ok := catalog.Model(name); ok {
			models = append(models, model)
		}
	}
	if len(models) == 0 {
		return adminindex.App{}, false
	}

	return adminindex.App{
		AppLabel:       UnrepresentedAppLabel,
		Name:           UnrepresentedAppName,
		HasModulePerms: true,
		Models:         models,
	}, true
}
