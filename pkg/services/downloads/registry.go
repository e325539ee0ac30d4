package downloads

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Sink stores an artifact and returns where it ended up.
type Sink interface {
	Save(ctx context.Context, artifact *Artifact) (string, error)
}

// SinkSettings carries everything a sink factory may need.
type SinkSettings struct {
	Dir        string
	Bucket     string
	Prefix     string
	AWSProfile string
}

// SinkFactory creates a Sink from settings
type SinkFactory func(ctx context.Context, settings SinkSettings) (Sink, error)

// Registry manages sink factories by name
type Registry interface {
	// Register adds a new sink factory
	Register(name string, factory SinkFactory) error
	// Create instantiates the named sink
	Create(ctx context.Context, name string, settings SinkSettings) (Sink, error)
	// ListSinks returns the registered sink names
	ListSinks() []string
}

type registry struct {
	mu        sync.RWMutex
	factories map[string]SinkFactory
}

// NewRegistry creates a registry preloaded with factories
func NewRegistry(factories map[string]SinkFactory) Registry {
	r := &registry{
		factories: make(map[string]SinkFactory),
	}
	for name, factory := range factories {
		r.factories[name] = factory
	}
	return r
}

// DefaultRegistry knows the file and s3 sinks.
func DefaultRegistry() Registry {
	return NewRegistry(map[string]SinkFactory{
		SinkFile: FileSinkFactory,
		SinkS3:   S3SinkFactory,
	})
}

func (r *registry) Register(name string, factory SinkFactory) error {
	if name == "" {
		return fmt.Errorf("sink name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("sink %q is already registered", name)
	}

	r.factories[name] = factory
	return nil
}

func (r *registry) Create(ctx context.Context, name string, settings SinkSettings) (Sink, error) {
	r.mu.RLock()
	factory, exists := r.factories[name]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("sink %q is not registered", name)
	}

	return factory(ctx, settings)
}

func (r *registry) ListSinks() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
