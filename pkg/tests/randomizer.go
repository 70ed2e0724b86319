package tests

import (
	"math/rand/v2"
	"testing"
	"time"
)

type Randomizer struct {
	Seed    uint64
	IntN    func(n int) int
	Float64 func() float64
	Bool    func() bool
}

// NewRandomizer - источник для рандомизированных тестов. Seed печатается
// в лог теста, чтобы упавший прогон можно было повторить через NewSeededRandomizer.
func NewRandomizer(t testing.TB) Randomizer {
	seed := uint64(time.Now().UnixNano()) //nolint:gosec // for tests
	t.Logf("randomizer seed: %d", seed)

	return NewSeededRandomizer(seed)
}

func NewSeededRandomizer(seed uint64) Randomizer {
	random := rand.New(rand.NewPCG(seed, seed)) //nolint:gosec // for tests

	return Randomizer{
		Seed:    seed,
		IntN:    random.IntN,
		Float64: random.Float64,
		Bool:    func() bool { return random.IntN(2) == 0 }, //nolint:mnd // skip
	}
}
