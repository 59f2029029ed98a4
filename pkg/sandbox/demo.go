package sandbox

import (
	"bytes"
	_ "embed"
)

//go:embed demo.yaml
var demoLevel []byte

// Demo returns the built-in playground: gravitational walls, balls, a
// polygon, a compound, a curve ramp, a closed path, a spring, a pin, a
// sensor and a player that follows gravity onto whatever it lands on.
func Demo() *Level {
	l, err := LoadYAML(bytes.NewReader(demoLevel))
	if err != nil {
		panic(err)
	}
	return l
}
