package encoders

import "sync"

// HasNoder reports whether an engine can create a node kind.
type HasNoder interface {
	HasNode(kind string) bool
}

// Registry holds the encoder mappings in preference order.
type Registry struct {
	encoders []Encoder
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{encoders: make([]Encoder, 0)}
}

// Register adds an encoder to the registry.
func (r *Registry) Register(enc Encoder) {
	r.encoders = append(r.encoders, enc)
}

// Find returns the encoder for a variant, or nil.
func (r *Registry) Find(v Variant) Encoder {
	for _, enc := range r.encoders {
		if enc.Variant() == v {
			return enc
		}
	}
	return nil
}

// GetAll returns all registered encoders.
func (r *Registry) GetAll() []Encoder {
	return r.encoders
}

// GetAvailable returns the encoders whose element the engine can create.
func (r *Registry) GetAvailable(eng HasNoder) []Encoder {
	available := make([]Encoder, 0)
	for _, enc := range r.encoders {
		if eng.HasNode(enc.Element()) {
			available = append(available, enc)
		}
	}
	return available
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the registry with every supported encoder.
// Hardware encoders come first, software last.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
		defaultRegistry.Register(NewVaapiEncoder())
		defaultRegistry.Register(NewV4L2Encoder())
		defaultRegistry.Register(NewX264Encoder()) // Fallback last
	})
	return defaultRegistry
}
