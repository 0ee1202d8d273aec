package integrators

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/gravsim/internal/gravity"
)

var ErrUnknownStepper = errors.New("integrators: unknown stepper")

var steppers = map[string]func(f gravity.Field, workers int) Stepper{
	"symplectic": func(f gravity.Field, _ int) Stepper { return NewSymplecticEuler(f) },
	"parallel":   func(f gravity.Field, workers int) Stepper { return NewParallel(f, workers) },
}

// New builds a stepper by name. workers only applies to "parallel"; 0 means one per CPU.
func New(name string, f gravity.Field, workers int) (Stepper, error) {
	fn, ok := steppers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %v)", ErrUnknownStepper, name, Names())
	}
	return fn(f, workers), nil
}

func Names() []string {
	names := make([]string, 0, len(steppers))
	for name := range steppers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
