package dice

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"sync"
)

// Source yields die faces.
//
// Implementations must be safe for concurrent use and return values in
// [1, Sides].
type Source interface {
	Next() int
}

// RandSource is a mutex-guarded PCG generator.
type RandSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandSource seeds a RandSource from crypto/rand.
func NewRandSource() (*RandSource, error) {
	seed, err := NewSeed()
	if err != nil {
		return nil, err
	}
	return NewSeededSource(seed), nil
}

// NewSeededSource returns a RandSource that always produces the same faces
// for the same seed.
func NewSeededSource(seed uint64) *RandSource {
	return &RandSource{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *RandSource) Next() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(Sides) + 1
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// Sequence replays fixed faces in order and starts over once exhausted.
type Sequence struct {
	mu     sync.Mutex
	values []int
	pos    int
}

// NewSequence panics when called without values.
func NewSequence(values ...int) *Sequence {
	if len(values) == 0 {
		panic("dice: NewSequence requires at least one value")
	}
	return &Sequence{values: append([]int(nil), values...)}
}

func (s *Sequence) Next() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.values[s.pos%len(s.values)]
	s.pos++
	return v
}
