package registry

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/nulzo/model-registry/internal/catalog"
	"github.com/nulzo/model-registry/pkg/api"
	"go.uber.org/zap"
)

// DefaultModelID is used when no selection is given or the selection is unknown.
const DefaultModelID = "openai/gpt-4.1"

var ErrUnknownDefault = errors.New("default model is not in the catalog")

// Handle is an opaque reference to a backend model.
type Handle interface {
	ModelID() string
}

// Factory builds the handle for a gateway identifier.
//
// It must be idempotent and free of side effects: the registry calls it at
// most once per identifier, but callers may swap factories in tests. It
// should return a non-nil handle; a nil result is never cached.
type Factory func(id string) Handle

// unavailable stands in for a handle the factory did not build. Capability
// queries still answer for its identifier, but it cannot generate.
type unavailable struct {
	id string
}

func (u unavailable) ModelID() string {
	return u.id
}

// Registry resolves user selections to cached backend handles and answers
// capability queries. The catalog and its indices are read-only after New.
type Registry struct {
	catalog   catalog.Catalog
	byID      map[string]catalog.Model
	byName    map[string]string
	factory   Factory
	defaultID string
	logger    *zap.Logger

	mu      sync.RWMutex
	handles map[string]Handle
}

type Option func(*Registry)

// WithDefaultModel overrides DefaultModelID.
func WithDefaultModel(id string) Option {
	return func(r *Registry) {
		if id != "" {
			r.defaultID = id
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New indexes the catalog. It fails only when the catalog itself is malformed
// or the default identifier is missing from it.
func New(cat catalog.Catalog, factory Factory, opts ...Option) (*Registry, error) {
	if factory == nil {
		return nil, errors.New("registry: nil handle factory")
	}
	if err := cat.Validate(); err != nil {
		return nil, fmt.Errorf("registry: invalid catalog: %w", err)
	}

	r := &Registry{
		catalog:   cat,
		byID:      make(map[string]catalog.Model),
		byName:    make(map[string]string),
		factory:   factory,
		defaultID: DefaultModelID,
		logger:    zap.NewNop(),
		handles:   make(map[string]Handle),
	}
	for _, opt := range opts {
		opt(r)
	}

	for _, p := range cat {
		for _, m := range p.Models {
			r.byID[m.ID] = m
			r.byName[catalog.Key(p.Name, m.Name)] = m.ID
		}
	}

	if _, ok := r.byID[r.defaultID]; !ok {
		return nil, fmt.Errorf("registry: %w: %s", ErrUnknownDefault, r.defaultID)
	}

	return r, nil
}

// DefaultID returns the identifier used for fallbacks.
func (r *Registry) DefaultID() string {
	return r.defaultID
}

// ListCatalog projects the catalog in declaration order.
func (r *Registry) ListCatalog() []api.ProviderInfo {
	out := make([]api.ProviderInfo, 0, len(r.catalog))
	for _, p := range r.catalog {
		models := make([]api.ModelInfo, 0, len(p.Models))
		for _, m := range p.Models {
			mimeTypes := make([]string, len(m.FileMimeTypes))
			copy(mimeTypes, m.FileMimeTypes)

			models = append(models, api.ModelInfo{
				Name:                   m.Name,
				ToolCallUnsupported:    m.ToolCallUnsupported,
				ImageInputUnsupported:  m.ImageInputUnsupported,
				SupportedFileMimeTypes: mimeTypes,
			})
		}
		out = append(out, api.ProviderInfo{
			Provider:       p.Name,
			Models:         models,
			HasCredentials: true,
		})
	}
	return out
}

// Resolve never fails: a nil selection or an unknown pair yields the
// default model's handle.
func (r *Registry) Resolve(sel *catalog.Selection) Handle {
	h, _ := r.ResolveWithFallback(sel)
	return h
}

// ResolveWithFallback is Resolve that also reports whether an explicit
// selection was unknown and replaced by the default model.
func (r *Registry) ResolveWithFallback(sel *catalog.Selection) (Handle, bool) {
	if sel == nil {
		return r.handle(r.defaultID), false
	}

	key := sel.Key()
	id, ok := r.byName[key]
	if !ok {
		r.logger.Warn("model not found, using default model",
			zap.String("provider", sel.Provider),
			zap.String("model", sel.Model),
			zap.String("default", r.defaultID),
		)
		return r.handle(r.defaultID), true
	}

	return r.handle(id), false
}

// IsToolCallUnsupported reports false for handles this registry does not know.
func (r *Registry) IsToolCallUnsupported(h Handle) bool {
	m, ok := r.lookup(h)
	if !ok {
		return false
	}
	return m.ToolCallUnsupported
}

// IsImageInputUnsupported reports false for handles this registry does not know.
func (r *Registry) IsImageInputUnsupported(h Handle) bool {
	m, ok := r.lookup(h)
	if !ok {
		return false
	}
	return m.ImageInputUnsupported
}

// SupportedFileMimeTypes returns the model's list, or the default list when
// the handle is unknown or the model has none configured.
func (r *Registry) SupportedFileMimeTypes(h Handle) []string {
	src := catalog.DefaultFileMimeTypes
	if m, ok := r.lookup(h); ok && m.FileMimeTypes != nil {
		src = m.FileMimeTypes
	}

	out := make([]string, len(src))
	copy(out, src)
	return out
}

// SupportsFileMimeType checks a single MIME type against SupportedFileMimeTypes.
func (r *Registry) SupportsFileMimeType(h Handle, mimeType string) bool {
	for _, t := range r.SupportedFileMimeTypes(h) {
		if t == mimeType {
			return true
		}
	}
	return false
}

func (r *Registry) lookup(h Handle) (catalog.Model, bool) {
	if h == nil {
		return catalog.Model{}, false
	}
	m, ok := r.byID[h.ModelID()]
	return m, ok
}

// handle returns the cached handle for id, building it on first use.
func (r *Registry) handle(id string) Handle {
	r.mu.RLock()
	h, exists := r.handles[id]
	r.mu.RUnlock()

	if exists {
		return h
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring write lock
	if h, exists = r.handles[id]; exists {
		return h
	}

	h = r.factory(id)
	if isNil(h) {
		r.logger.Error("model handle factory returned nil", zap.String("id", id))
		return unavailable{id: id}
	}
	r.handles[id] = h

	r.logger.Debug("model handle created", zap.String("id", id))

	return h
}

func isNil(h Handle) bool {
	if h == nil {
		return true
	}
	v := reflect.ValueOf(h)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}
