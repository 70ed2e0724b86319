package predictor

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"sync"
)

// RandomSource - источник случайности предсказателя. *rand.Rand подходит.
type RandomSource interface {
	IntN(n int) int
	Float64() float64
}

// lockedSource делает *rand.Rand безопасным для конкурентных запросов.
type lockedSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (s *lockedSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.IntN(n)
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}

// NewSeededSource - воспроизводимый источник для тестов и PREDICT_SEED.
func NewSeededSource(seed uint64) RandomSource {
	return &lockedSource{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))} //nolint:gosec // not for security
}

// NewSource - источник со случайным зерном.
func NewSource() RandomSource {
	var buf [16]byte
	if _, err := cryptorand.Read(buf[:]); err != nil {
		return &lockedSource{r: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))} //nolint:gosec
	}

	return &lockedSource{r: rand.New(rand.NewPCG( //nolint:gosec
		binary.LittleEndian.Uint64(buf[:8]),
		binary.LittleEndian.Uint64(buf[8:]),
	))}
}
