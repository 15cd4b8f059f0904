package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/rocketsim/internal/dynamo"
)

var factories = map[string]func() dynamo.Integrator{
	"euler":      func() dynamo.Integrator { return NewEuler() },
	"semi-euler": func() dynamo.Integrator { return NewSemiImplicitEuler() },
	"rk4":        func() dynamo.Integrator { return NewRK4() },
	"verlet":     func() dynamo.Integrator { return NewVerlet() },
}

// Default is the integrator used when none is configured.
const Default = "semi-euler"

// New returns a fresh integrator by name. An empty name selects Default.
func New(name string) (dynamo.Integrator, error) {
	if name == "" {
		name = Default
	}
	f, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("integrator %q: %w", name, dynamo.ErrInvalidConfig)
	}
	return f(), nil
}

func Names() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
