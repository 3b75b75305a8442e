package eval

import "math/rand"

// Randomizer supplies the evaluator's randomizer component: a uniform
// sample from {0.0, 0.1, ..., 1.0}. Tests stub it to a constant (0.5 per
// the worked examples) so evaluator output is deterministic.
type Randomizer interface {
	Sample() float64
}

// UniformRandomizer is the production Randomizer: a uniform pick among the
// eleven tenths in [0,1], seeded once at construction.
type UniformRandomizer struct {
	rand *rand.Rand
}

func NewUniformRandomizer(seed int64) *UniformRandomizer {
	return &UniformRandomizer{rand: rand.New(rand.NewSource(seed))}
}

func (u *UniformRandomizer) Sample() float64 {
	return float64(u.rand.Intn(11)) / 10
}

// ConstantRandomizer always returns the same value; used in tests.
type ConstantRandomizer float64

func (c ConstantRandomizer) Sample() float64 { return float64(c) }
