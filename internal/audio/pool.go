package audio

import "math/rand/v2"

// Pool picks among the variants of a sound, never the same one twice in a row.
type Pool struct {
	size int
	last int
	rand func(n int) int
}

// NewPool creates a pool over size variants.
func NewPool(size int) *Pool {
	return &Pool{size: size, last: -1, rand: rand.IntN}
}

// Next returns the index of the variant to play.
func (p *Pool) Next() int {
	switch {
	case p.size <= 0:
		return -1
	case p.size == 1:
		p.last = 0
		return 0
	}

	for {
		i := p.rand(p.size)
		if i != p.last {
			p.last = i
			return i
		}
	}
}
