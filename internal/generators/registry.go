package generators

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/tldr-it-stepankutaj/hardenkit/internal/settings"
	"github.com/tldr-it-stepankutaj/hardenkit/pkg/logger"
)

// Registry holds generator instances keyed by name, in registration order.
type Registry struct {
	mu         sync.RWMutex
	generators map[string]Generator
	order      []string
	logger     *logger.Logger
}

func NewRegistry(log *logger.Logger) *Registry {
	if log == nil {
		log = logger.NewNop()
	}
	return &Registry{
		generators: make(map[string]Generator),
		logger:     log.WithComponent("generator-registry"),
	}
}

// Register stores g under name. Re-registering a name replaces the
// generator and keeps its original position.
func (r *Registry) Register(name string, g Generator) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.generators[name]; exists {
		r.logger.Warn().Str("name", name).Msg("generator re-registered, replacing previous instance")
	} else {
		r.order = append(r.order, name)
	}
	r.generators[name] = g

	r.logger.Debug().
		Str("name", name).
		Str("ext", g.FileExtension()).
		Str("mime", g.MimeType()).
		Msg("registered generator")
}

// Get returns the generator registered under name.
func (r *Registry) Get(name string) (Generator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.generators[name]
	return g, ok
}

// Lookup is Get with an ErrNotFound error for unknown names.
func (r *Registry) Lookup(name string) (Generator, error) {
	g, ok := r.Get(name)
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "%q", name)
	}
	return g, nil
}

// ListAll returns every registered generator in registration order.
func (r *Registry) ListAll() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, Entry{Name: name, Generator: r.generators[name]})
	}
	return out
}

// CompatibleWith returns the generators that support s, in registration
// order. The result is never nil.
func (r *Registry) CompatibleWith(s settings.Settings) []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []Entry{}
	for _, name := range r.order {
		g := r.generators[name]
		if g.SupportsSettings(s) {
			out = append(out, Entry{Name: name, Generator: g})
		}
	}
	return out
}

// Names returns registered names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.generators)
}
