// Package registry implements the project-wide model registry consulted
// for wildcard selector expansion. It answers one question: which models
// are registered to a given app. The per-request catalog remains the
// source of truth for model data; the registry only enumerates names.
package registry

import (
	"errors"
	"sort"

	"github.com/omenapps/adminsort/internal/adminindex"
)

// Registry errors
var (
	ErrAppNotFound   = errors.New("app not registered")
	ErrDuplicateApp  = errors.New("app already registered")
	ErrEmptyAppLabel = errors.New("app label cannot be empty")
)

// Registry holds the registered apps and their model descriptors.
type Registry struct {
	apps map[string][]Descriptor
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		apps: make(map[string][]Descriptor),
	}
}

// Register records an app and its models. Registration order of models is
// preserved; callers must not rely on it for presentation (wildcard
// expansion sorts its results).
func (r *Registry) Register(appLabel string, objectNames ...string) error {
	if appLabel == "" {
		return ErrEmptyAppLabel
	}
	if _, exists := r.apps[appLabel]; exists {
		return ErrDuplicateApp
	}
	descriptors := make([]Descriptor, 0, len(objectNames))
	for _, name := range objectNames {
		descriptors = append(descriptors, newDescriptor(appLabel, name))
	}
	r.apps[appLabel] = descriptors
	return nil
}

// Models returns the descriptors registered for an app.
func (r *Registry) Models(appLabel string) ([]Descriptor, error) {
	descriptors, ok := r.apps[appLabel]
	if !ok {
		return nil, ErrAppNotFound
	}
	return descriptors, nil
}

// ModelsFor returns the fully-qualified labels of the app's models, in
// registration order. An unregistered app yields an empty enumeration;
// referencing it is a lookup miss, not an error.
func (r *Registry) ModelsFor(appLabel string) []string {
	descriptors, ok := r.apps[appLabel]
	if !ok {
		return nil
	}
	labels := make([]string, 0, len(descriptors))
	for _, d := range descriptors {
		labels = append(labels, d.Label())
	}
	return labels
}

// AppLabels returns all registered app labels, sorted alphabetically.
func (r *Registry) AppLabels() []string {
	labels := make([]string, 0, len(r.apps))
	for label := range r.apps {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// Descriptor identifies one registered model.
type Descriptor struct {
	appLabel   string
	objectName string
}

func newDescriptor(appLabel, objectName string) Descriptor {
	return Descriptor{appLabel: appLabel, objectName: objectName}
}

// AppLabel returns the owning app's label.
func (d Descriptor) AppLabel() string {
	return d.appLabel
}

// ObjectName returns the model's class-style name.
func (d Descriptor) ObjectName() string {
	return d.objectName
}

// Label returns the fully-qualified "app_label.ObjectName" form.
func (d Descriptor) Label() string {
	return adminindex.QualifiedName(d.appLabel, d.objectName)
}
