package config

import (
	"sort"

	"github.com/san-kum/gravsim/internal/body"
)

func preset(name, desc string, duration float64, bodies ...body.Spec) *Config {
	cfg := DefaultConfig()
	cfg.Name = name
	cfg.Description = desc
	cfg.Duration = duration
	cfg.Bodies = bodies
	return cfg
}

var Presets = map[string]*Config{
	"pool": preset("pool", "probe, moon and a fixed sun", 20,
		body.Spec{Name: "probe", Kind: body.Test, Position: body.V(0, -100), Velocity: body.V(40, 0), Radius: 4},
		body.Spec{Name: "moon", Kind: body.Dynamic, Mass: 1, Position: body.V(0, 100), Velocity: body.V(-40, 0), Radius: 5},
		body.Spec{Name: "sun", Kind: body.Static, Mass: 10, Radius: 6},
	),
	"binary": preset("binary", "two equal masses on a mutual orbit", 30,
		body.Spec{Name: "alpha", Kind: body.Dynamic, Mass: 4, Position: body.V(-50, 0), Velocity: body.V(0, 40), Radius: 5},
		body.Spec{Name: "beta", Kind: body.Dynamic, Mass: 4, Position: body.V(50, 0), Velocity: body.V(0, -40), Radius: 5},
	),
	"well": preset("well", "test particles falling around a fixed mass", 20,
		body.Spec{Name: "well", Kind: body.Static, Mass: 20, Radius: 8},
		body.Spec{Name: "p1", Kind: body.Test, Position: body.V(150, 0), Velocity: body.V(0, 100), Radius: 2},
		body.Spec{Name: "p2", Kind: body.Test, Position: body.V(-120, 0), Velocity: body.V(0, -110), Radius: 2},
		body.Spec{Name: "p3", Kind: body.Test, Position: body.V(0, 200), Velocity: body.V(60, 0), Radius: 2},
		body.Spec{Name: "p4", Kind: body.Test, Position: body.V(0, -80), Velocity: body.V(0, 0), Radius: 2},
	),
	"headon": preset("headon", "two bodies on a collision course", 5,
		body.Spec{Name: "left", Kind: body.Dynamic, Mass: 1, Position: body.V(-100, 0), Velocity: body.V(30, 0), Radius: 5},
		body.Spec{Name: "right", Kind: body.Dynamic, Mass: 1, Position: body.V(100, 0), Velocity: body.V(-30, 0), Radius: 5},
	),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
