package reorder

import (
	"fmt"
	"sort"
	"strings"

	"github.com/omenapps/adminsort/internal/adminindex"
)

// dedupeModels removes structural duplicates, keeping the first
// occurrence of each model. Two models are duplicates when all their
// fields are equal by contents, nested permission and pass-through
// mappings included; identity of the underlying maps plays no part.
func dedupeModels(models []adminindex.Model) []adminindex.Model {
	if len(models) < 2 {
		return models
	}
	seen := make(map[string]struct{}, len(models))
	out := make([]adminindex.Model, 0, len(models))
	for _, model := range models {
		fp := fingerprint(model)
		if _, dup := seen[fp]; dup {
			continue
		}
		seen[fp] = struct{}{}
		out = append(out, model)
	}
	return out
}

// fingerprint flattens a model into a canonical string: map fields are
// written in sorted-key order so the encoding is independent of map
// iteration order, and strings are quoted so values cannot collide across
// field boundaries.
func fingerprint(m adminindex.Model) string {
	var b strings.Builder
	fmt.Fprintf(&b, "object_name=%q;model_name=%q;name=%q;perms={", m.ObjectName, m.ModelName, m.Name)

	permKeys := make([]string, 0, len(m.Perms))
	for k := range m.Perms {
		permKeys = append(permKeys, k)
	}
	sort.Strings(permKeys)
	for _, k := range permKeys {
		fmt.Fprintf(&b, "%q:%t,", k, m.Perms[k])
	}

	b.WriteString("};extra=")
	writeCanonical(&b, m.Extra)
	return b.String()
}

func writeCanonical(b *strings.Builder, v any) {
	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString("{")
		for _, k := range keys {
			fmt.Fprintf(b, "%q:", k)
			writeCanonical(b, val[k])
			b.WriteString(",")
		}
		b.WriteString("}")
	case []any:
		b.WriteString("[")
		for _, item := range val {
			writeCanonical(b, item)
			b.WriteString(",")
		}
		b.WriteString("]")
	case string:
		fmt.Fprintf(b, "%q", val)
	default:
		fmt.Fprintf(b, "%v", val)
	}
}
