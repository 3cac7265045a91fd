package backends

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"time"

	"github.com/simonbru/taxi/internal/aliases"
	"github.com/simonbru/taxi/internal/projects"
)

// Entry is one timesheet line ready to be pushed to a remote system.
type Entry struct {
	Date        time.Time
	Hours       float64
	Description string
	Mapping     aliases.Mapping
}

// Backend pushes entries to a remote time-tracking system and exposes
// its project catalogue.
type Backend interface {
	Name() string
	PushEntry(ctx context.Context, entry Entry) error
	Projects(ctx context.Context) ([]projects.Project, error)
}

// Factory builds a backend from its configuration URI. The scheme picks
// the factory; the rest of the URI carries credentials and host.
type Factory func(name string, u *url.URL) (Backend, error)

var factories = map[string]Factory{}

// Register makes a backend scheme available to New. It panics on
// duplicate registration, which is a programming error.
func Register(scheme string, factory Factory) {
	if _, dup := factories[scheme]; dup {
		panic(fmt.Sprintf("backends: scheme %q registered twice", scheme))
	}
	factories[scheme] = factory
}

// Schemes returns the registered schemes in lexical order.
func Schemes() []string {
	out := make([]string, 0, len(factories))
	for scheme := range factories {
		out = append(out, scheme)
	}
	sort.Strings(out)
	return out
}

// New instantiates the backend named in the configuration from its URI,
// e.g. "zebra://token@timesheets.example.com".
func New(name, uri string) (Backend, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("backend %q: invalid URI: %w", name, err)
	}
	factory, ok := factories[u.Scheme]
	if !ok {
		return nil, fmt.Errorf("backend %q: unknown scheme %q", name, u.Scheme)
	}
	return factory(name, u)
}

// Registry holds the instantiated backends keyed by their configured
// name, so aliases can refer to them.
type Registry struct {
	backends map[string]Backend
}

// NewRegistry builds every backend from the name to URI map found in
// the configuration.
func NewRegistry(uris map[string]string) (*Registry, error) {
	r := &Registry{backends: make(map[string]Backend)}
	for name, uri := range uris {
		b, err := New(name, uri)
		if err != nil {
			return nil, err
		}
		r.backends[name] = b
	}
	return r, nil
}

// Get returns the backend with the given configured name.
func (r *Registry) Get(name string) (Backend, error) {
	b, ok := r.backends[name]
	if !ok {
		return nil, fmt.Errorf("no backend named %q is configured", name)
	}
	return b, nil
}

// Names returns the configured backend names in lexical order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.backends))
	for name := range r.backends {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
