// Package reorder implements the configuration-driven reordering and
// relabeling of the admin index app list. Entries are parsed once at
// configuration load into typed form; Apply then resolves them against a
// per-request catalog.
package reorder

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// SettingsKey is the settings key holding the ordered app entries.
// Diagnostics reference it so a broken deployment config is easy to find.
const SettingsKey = "reorder.apps"

// wildcardMarker addresses all models of an app, e.g. "auth.*".
const wildcardMarker = ".*"

// ErrConfig marks configuration errors: missing or malformed entries in
// developer-authored settings. These fail fast and loud rather than
// silently dropping config.
var ErrConfig = errors.New("invalid reorder configuration")

func configErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrConfig}, args...)...)
}

// SelectorKind discriminates the parsed model selector forms.
type SelectorKind int

const (
	// SelectExact references a single model by qualified name.
	SelectExact SelectorKind = iota
	// SelectWildcard references all models of one app.
	SelectWildcard
)

// Selector is one parsed model selector: either an exact model reference
// (optionally relabeled) or a wildcard over an app's models.
type Selector struct {
	Kind SelectorKind

	// Model is the qualified "app_label.ObjectName" reference (exact only).
	Model string

	// Label overrides the model's display name when HasLabel is set.
	Label    string
	HasLabel bool

	// App is the app-label prefix of a wildcard selector.
	App string
}

// Entry is one parsed item of the apps configuration. A bare entry keeps
// the app exactly as the framework produced it; a structured entry may
// relabel the app and filter/reorder its models.
type Entry struct {
	App  string
	Bare bool

	Label    string
	HasLabel bool

	Selectors []Selector
	HasModels bool
}

// ParseEntries converts the raw apps setting into typed entries. The raw
// value comes straight from the settings loader, so items are strings or
// string-keyed mappings. Absence of any entries is a configuration error:
// a deployment that installs the middleware without configuring it is
// broken, not silent.
func ParseEntries(raw []any) ([]Entry, error) {
	if len(raw) == 0 {
		return nil, configErrorf("%s is not defined", SettingsKey)
	}

	entries := make([]Entry, 0, len(raw))
	for i, item := range raw {
		switch v := item.(type) {
		case string:
			entries = append(entries, Entry{App: v, Bare: true})
		case map[string]any:
			entry, err := parseAppEntry(i, v)
			if err != nil {
				return nil, err
			}
			entries = append(entries, entry)
		default:
			return nil, configErrorf("%s entry %d must be a string or mapping, got %v (%T)",
				SettingsKey, i, item, item)
		}
	}
	return entries, nil
}

func parseAppEntry(index int, raw map[string]any) (Entry, error) {
	appVal, ok := raw["app"]
	if !ok {
		return Entry{}, configErrorf(`%s entry %d must define "app", got %v`,
			SettingsKey, index, raw)
	}
	appLabel, ok := appVal.(string)
	if !ok {
		return Entry{}, configErrorf(`%s entry %d: "app" must be a string, got %v (%T)`,
			SettingsKey, index, appVal, appVal)
	}

	entry := Entry{App: appLabel}

	// A non-string label is ignored rather than rejected: the override
	// only applies when the label is a string.
	if labelVal, present := raw["label"]; present {
		if label, isString := labelVal.(string); isString {
			entry.Label = label
			entry.HasLabel = true
		}
	}

	if modelsVal, present := raw["models"]; present {
		selectors, err := parseSelectors(index, modelsVal)
		if err != nil {
			return Entry{}, err
		}
		entry.Selectors = selectors
		entry.HasModels = true
	}
	return entry, nil
}

// parseSelectors accepts a sequence of selectors, a mapping (keys ignored,
// values walked in sorted-key order for determinism), or a single selector
// string.
func parseSelectors(index int, raw any) ([]Selector, error) {
	var items []any
	switch v := raw.(type) {
	case []any:
		items = v
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			items = append(items, v[k])
		}
	case string:
		items = []any{v}
	default:
		return nil, configErrorf(`%s entry %d: "models" must be a sequence, mapping or string, got %v (%T)`,
			SettingsKey, index, raw, raw)
	}

	selectors := make([]Selector, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case string:
			selectors = append(selectors, parseSelectorString(v))
		case map[string]any:
			if sel, ok := parseSelectorMapping(v); ok {
				selectors = append(selectors, sel)
			}
			// A mapping missing "model" or "label" is skipped, not
			// rejected: partial admin-only configs degrade gracefully.
		default:
			return nil, configErrorf(`%s entry %d: model selector must be a string or mapping, got %v (%T)`,
				SettingsKey, index, item, item)
		}
	}
	return selectors, nil
}

func parseSelectorString(s string) Selector {
	if strings.Contains(s, wildcardMarker) {
		return Selector{
			Kind: SelectWildcard,
			App:  strings.SplitN(s, wildcardMarker, 2)[0],
		}
	}
	return Selector{Kind: SelectExact, Model: s}
}

func parseSelectorMapping(raw map[string]any) (Selector, bool) {
	model, ok := raw["model"].(string)
	if !ok {
		return Selector{}, false
	}
	label, ok := raw["label"].(string)
	if !ok {
		return Selector{}, false
	}
	return Selector{
		Kind:     SelectExact,
		Model:    model,
		Label:    label,
		HasLabel: true,
	}, true
}
