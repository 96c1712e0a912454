package controls

import (
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/tldr-it-stepankutaj/hardenkit/pkg/logger"
)

// Registry maps control names to control and renderer factories.
type Registry struct {
	mu        sync.RWMutex
	controls  map[string]Factory
	renderers map[string]RendererFactory
	order     []string
	logger    *logger.Logger
}

func NewRegistry(log *logger.Logger) *Registry {
	if log == nil {
		log = logger.NewNop()
	}
	return &Registry{
		controls:  make(map[string]Factory),
		renderers: make(map[string]RendererFactory),
		logger:    log.WithComponent("control-registry"),
	}
}

// Register instantiates the control once to read its name and stores the
// factory under it. A second registration under the same name replaces the
// first (its position in Names is kept). Returns the registered name.
func (r *Registry) Register(factory Factory, renderer RendererFactory) string {
	meta := factory().Metadata()
	name := meta.Name

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.controls[name]; exists {
		r.logger.Warn().Str("name", name).Msg("control re-registered, replacing previous factory")
	} else {
		r.order = append(r.order, name)
	}
	r.controls[name] = factory
	if renderer != nil {
		r.renderers[name] = renderer
	}

	r.logger.Debug().
		Str("name", name).
		Str("risk", meta.RiskLevel.String()).
		Bool("renderer", renderer != nil).
		Msg("registered control")
	return name
}

// ListAvailable returns a copy of the name -> factory table.
func (r *Registry) ListAvailable() map[string]Factory {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]Factory, len(r.controls))
	for k, v := range r.controls {
		out[k] = v
	}
	return out
}

// Names returns registered names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Create returns a fresh control instance.
func (r *Registry) Create(name string) (Control, error) {
	r.mu.RLock()
	factory, ok := r.controls[name]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "%q", name)
	}
	return factory(), nil
}

// Renderer returns a fresh renderer for name. A missing renderer is not an
// error; ok is false.
func (r *Registry) Renderer(name string) (Renderer, bool) {
	r.mu.RLock()
	factory, ok := r.renderers[name]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return factory(), true
}

// Resolve maps user input to a registered name. It accepts the exact name,
// the safe name (File_Association_Security) and case-insensitive variants.
func (r *Registry) Resolve(input string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.controls[input]; ok {
		return input, nil
	}
	want := strings.ToLower(SafeName(strings.TrimSpace(input)))
	for _, name := range r.order {
		if strings.ToLower(SafeName(name)) == want {
			return name, nil
		}
	}
	return "", errors.Wrapf(ErrNotFound, "%q", input)
}

// Len returns the number of registered controls.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.controls)
}
