package playback

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"time"
)

// Picker selects the shuffle target for a "next" skip. The selection
// policy is deliberately pluggable; the default is uniform over the other
// queue entries.
type Picker interface {
	// Pick returns a queue index excluding current, or -1 when no pick is
	// possible (fewer than 2 entries).
	Pick(current, length int) int
}

// UniformPicker picks uniformly at random among all indices except current.
type UniformPicker struct {
	rng *rand.Rand
}

// NewUniformPicker creates a picker seeded from crypto/rand.
func NewUniformPicker() *UniformPicker {
	var b [8]byte
	seed := time.Now().UnixNano()
	if _, err := cryptoRand.Read(b[:]); err == nil {
		seed = int64(binary.LittleEndian.Uint64(b[:]))
	}
	return &UniformPicker{rng: rand.New(rand.NewSource(seed))}
}

// Pick implements Picker.
func (p *UniformPicker) Pick(current, length int) int {
	if length < 2 {
		return -1
	}
	if current < 0 || current >= length {
		return p.rng.Intn(length)
	}
	i := p.rng.Intn(length - 1)
	if i >= current {
		i++
	}
	return i
}
