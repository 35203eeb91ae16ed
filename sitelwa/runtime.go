package sitelwa

// Runtime gives handlers the app-scoped dependencies. Inject it into handler
// constructors.
type Runtime[E Environment] struct {
	env E
	mux *Mux
}

// NewRuntime creates a Runtime.
func NewRuntime[E Environment](env E, mux *Mux) *Runtime[E] {
	return &Runtime[E]{env: env, mux: mux}
}

// Env returns the parsed environment.
func (r *Runtime[E]) Env() E {
	return r.env
}

// Reverse returns the URL of a named route.
func (r *Runtime[E]) Reverse(name string, params ...string) (string, error) {
	return r.mux.Reverse(name, params...)
}
