package head

import "context"

type registryKey struct{}

// valueSetter is the part of an owner that can provide context values.
type valueSetter interface {
	SetValue(key, value any)
}

// Provide makes r available to o and all of its descendants.
func Provide(o valueSetter, r *Registry) {
	o.SetValue(registryKey{}, r)
}

// FromOwner returns the registry provided on the owner chain, or nil.
func FromOwner(o Owner) *Registry {
	if o == nil {
		return nil
	}
	r, _ := o.GetValue(registryKey{}).(*Registry)
	return r
}

// WithRegistry returns a copy of ctx carrying r.
func WithRegistry(ctx context.Context, r *Registry) context.Context {
	return context.WithValue(ctx, registryKey{}, r)
}

// FromContext returns the registry carried by ctx, or nil.
func FromContext(ctx context.Context) *Registry {
	r, _ := ctx.Value(registryKey{}).(*Registry)
	return r
}
