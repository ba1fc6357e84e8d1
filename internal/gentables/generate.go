// Package gentables is the offline Monte Carlo tool used to derive the
// raw-estimate/bias anchor tables the hll package's bias interpolator reads
// at runtime. It is developer tooling, not part of the estimator core: it
// exists so the empirical tables baked into the library can be regenerated
// from scratch against this package's own Sketch implementation, the same
// way the teacher this module grew from generated its bias data.
package gentables

import (
	"errors"
	"fmt"
	"log"
	"os"

	hll "github.com/kixa/hllpp-go"
	"github.com/zeebo/xxh3"
)

const genBiasVerboseFlag = "HLL_BIAS_LOG"

// BiasEstimate holds an average raw-estimate/bias pair measured at one true
// cardinality, for one precision: run enough simulated streams of exactly
// TrueCardinality unique elements through a fresh Sketch, average the raw
// estimate each produced, and record the ratio needed to correct it.
type BiasEstimate struct {
	Precision               hll.Precision
	TrueCardinality         uint64
	RawEstimatedCardinality uint64
	Bias                    float64
}

// GenerationOptions parameterizes GenerateBiases.
type GenerationOptions struct {
	MaxCardinalityFactor float64 // multiple of m to simulate up to
	Repeats              int

	InitialStep int
	StepRate    float64
}

// DefaultGenerationOptions returns a copy of the default GenerationOptions.
func DefaultGenerationOptions() *GenerationOptions {
	return &GenerationOptions{
		MaxCardinalityFactor: 7,
		Repeats:              5_000,
		InitialStep:          50,
		StepRate:             1.25,
	}
}

// GenerateBiases runs the Monte Carlo procedure for a single precision: for
// a range of true cardinalities up to MaxCardinalityFactor*m, build Repeats
// independent Sketches, feed each exactly that many unique hashed byte
// strings from fn, and average the raw estimate and resulting bias ratio.
//
// WARNING: if fn produces fewer unique values than the largest simulated
// cardinality, this will never return.
// NOTE: set HLL_BIAS_LOG=1 for periodic log.Printf progress output.
func GenerateBiases(p hll.Precision, fn func() []byte, options *GenerationOptions) ([]*BiasEstimate, error) {
	if options == nil {
		options = DefaultGenerationOptions()
	}

	if fn == nil {
		return nil, errors.New("invalid fn: must not be nil")
	}

	if options.MaxCardinalityFactor <= 1 {
		return nil, errors.New("invalid options: MaxCardinalityFactor must be greater than 1")
	}

	if options.Repeats <= 0 {
		return nil, errors.New("invalid options: repeats must be greater than 0")
	}

	if options.InitialStep <= 0 {
		return nil, errors.New("invalid options: step must be greater than 0")
	}

	if options.StepRate <= 0 {
		return nil, errors.New("invalid options: step rate must be greater than 0")
	}

	verbose := os.Getenv(genBiasVerboseFlag) == "1"

	m := uint64(1) << uint(p)
	maxCardinality := uint64(float64(m) * options.MaxCardinalityFactor)

	cardinalities := calculateInterpolationPoints(p, maxCardinality, options.InitialStep, options.StepRate)
	results := make([]*BiasEstimate, len(cardinalities))

	if verbose {
		log.Printf("gentables - precision %d: total interpolation points: %d", p, len(cardinalities))
		log.Printf("gentables - precision %d: generating test sets...", p)
	}

	sets := generateSets(fn, maxCardinality, options.Repeats, verbose)

	for i, cardinality := range cardinalities {
		theseEstimates := make([]uint64, options.Repeats)
		theseBiases := make([]float64, options.Repeats)

		for r := 0; r < options.Repeats; r++ {
			s, err := hll.TryNew(int32(p))
			if err != nil {
				return nil, fmt.Errorf("gentables: creating sketch: %w", err)
			}

			for _, h := range sets[r][0:cardinality] {
				s.Update(h)
			}

			rawEstimate := s.RawEstimate()

			theseEstimates[r] = uint64(rawEstimate)
			theseBiases[r] = float64(cardinality) / rawEstimate
		}

		var sumEstimate uint64
		var sumBias float64

		for k := 0; k < options.Repeats; k++ {
			sumEstimate += theseEstimates[k]
			sumBias += theseBiases[k]
		}

		estimate := sumEstimate / uint64(options.Repeats)
		bias := sumBias / float64(options.Repeats)

		results[i] = &BiasEstimate{
			Precision:               p,
			TrueCardinality:         cardinality,
			RawEstimatedCardinality: estimate,
			Bias:                    bias,
		}

		if verbose {
			log.Printf("gentables - precision %d (%d/%d): true cardinality: %d, raw estimate: %d, bias: %f",
				p, i+1, len(cardinalities), cardinality, estimate, bias)
		}
	}

	return results, nil
}

// escalationSpan returns how many buckets [0, maxCardinality) is divided
// into before calculateInterpolationPoints lets its step size grow, as a
// function of precision rather than a fixed constant: a sketch built at a
// higher precision has proportionally more registers, so its raw-estimate
// curve needs denser true-cardinality sampling across the same
// MaxCardinalityFactor*m span to keep the regenerated bias table accurate.
// Lower precisions, with far fewer registers, can afford a coarser,
// faster-escalating schedule. minSketchPrecision/maxSketchPrecision mirror
// the fixed [4, 18] precision range the estimator itself enforces.
func escalationSpan(p hll.Precision) uint64 {
	const (
		minSketchPrecision = hll.Precision(4)
		maxSketchPrecision = hll.Precision(18)
	)

	return uint64(maxSketchPrecision - p + minSketchPrecision)
}

// calculateInterpolationPoints splits [0, maxCardinality) into
// escalationSpan(p) buckets, with a step size that grows by stepRate each
// time a bucket boundary is crossed. Coarser precisions divide the range
// into more, narrower buckets, so their step escalates quickly; finer
// precisions get fewer, wider buckets, so the step grows more slowly and
// more sample points survive across the same MaxCardinalityFactor*m span —
// the denser sampling a larger register count needs to keep the
// regenerated bias table accurate.
func calculateInterpolationPoints(p hll.Precision, maxCardinality uint64, initialStep int, stepRate float64) []uint64 {
	bucketSpan := maxCardinality / escalationSpan(p)

	step := uint64(initialStep)
	nextEscalation := bucketSpan

	var points []uint64

	for i := uint64(0); i < maxCardinality; i += step {
		if i > nextEscalation {
			nextEscalation += bucketSpan
			step = uint64(float64(step) * stepRate)
		}

		points = append(points, i)
	}

	if len(points) == 0 {
		return points
	}

	// Zero is a degenerate cardinality; skip it.
	return points[1:]
}

// generateSets returns repeats number of []uint64 slices, each containing
// maxCardinality unique hashes produced by hashing fn's output with xxh3 —
// the same role the teacher's own hll_test.go used xxh3 for, but here as
// an external caller of the core rather than inside it.
func generateSets(fn func() []byte, maxCardinality uint64, repeats int, verbose bool) [][]uint64 {
	sets := make([][]uint64, repeats)

	for i := 0; i < repeats; i++ {
		if verbose && i%100 == 0 {
			log.Printf("gentables - generating set: %d/%d", i, repeats)
		}

		uniques := make(map[uint64]struct{}, maxCardinality)

		var total uint64
		for total < maxCardinality {
			candidate := xxh3.Hash(fn())

			if _, exists := uniques[candidate]; exists {
				continue
			}

			total++
			uniques[candidate] = struct{}{}
		}

		set := make([]uint64, 0, len(uniques))
		for h := range uniques {
			set = append(set, h)
		}

		sets[i] = set
	}

	return sets
}
