package hll

import "fmt"

// Rollup merges sketches into a single new Sketch, computing the
// per-register maximum across all of them in one pass rather than
// successively Merge-ing each into a common base.
func Rollup(sketches []*Sketch) (*Sketch, error) {
	if len(sketches) == 0 {
		return nil, fmt.Errorf("rollup requires a list of sketches")
	}

	firstPrecision := sketches[0].precision

	for i := 1; i < len(sketches); i++ {
		if sketches[i].precision != firstPrecision {
			return nil, fmt.Errorf("rollup requires a list of sketches with the same precision")
		}
	}

	base, err := newSketch(firstPrecision)
	if err != nil {
		return nil, err
	}

	for i := range base.registers {
		var max uint8

		for _, sk := range sketches {
			if sk.registers[i] > max {
				max = sk.registers[i]
			}
		}

		base.registers[i] = max
	}

	return base, nil
}
