package plant

import (
	"fmt"
	"sort"

	"github.com/san-kum/ctrlkit/internal/dynamo"
)

// Plant is a system that can also be tuned by name.
type Plant interface {
	dynamo.System
	dynamo.Configurable
}

// Info describes how a plant is normally controlled.
type Info struct {
	Name string
	// Measured is the state index a sensor reads by default.
	Measured int
	// Angular plants need a wrapping controller.
	Angular bool
	New     func() Plant
}

var builtin = map[string]Info{
	"spring_mass": {Name: "spring_mass", Measured: 0, New: func() Plant { return NewSpringMass() }},
	"pendulum":    {Name: "pendulum", Measured: 0, Angular: true, New: func() Plant { return NewPendulum() }},
	"motor":       {Name: "motor", Measured: 1, New: func() Plant { return NewMotor() }},
}

// Lookup returns the description of a built-in plant.
func Lookup(name string) (Info, error) {
	info, ok := builtin[name]
	if !ok {
		return Info{}, fmt.Errorf("%w: %s", dynamo.ErrUnknownPlant, name)
	}
	return info, nil
}

// Names lists the built-in plants in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
