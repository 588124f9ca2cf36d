// Package batch packs particle state into fixed-size chunks of flat
// buffers: interleaved float32 (x, y) coordinates and matching interleaved
// (r, g, b) bytes, in the same order as the particle collection.
package batch

import (
	"fmt"
	"math"

	"github.com/san-kum/particles/internal/dynamo"
)

// Chunk is a fixed-capacity buffer pair for up to Cap() particles.
type Chunk struct {
	coords []float32
	colors []uint8
	n      int
}

func newChunk(capacity, n int) *Chunk {
	return &Chunk{
		coords: make([]float32, 2*capacity),
		colors: make([]uint8, 3*capacity),
		n:      n,
	}
}

// Len is the number of particles stored in the chunk.
func (c *Chunk) Len() int { return c.n }

// Cap is the fixed particle capacity of the chunk.
func (c *Chunk) Cap() int { return len(c.coords) / 2 }

// Coords returns [x0, y0, x1, y1, ...] for the stored particles.
func (c *Chunk) Coords() []float32 { return c.coords[:2*c.n] }

// Colors returns [r0, g0, b0, r1, g1, b1, ...] for the stored particles.
func (c *Chunk) Colors() []uint8 { return c.colors[:3*c.n] }

// Set writes slot i.
func (c *Chunk) Set(i int, position dynamo.Vec2, speed float64) {
	c.coords[2*i] = float32(position.X)
	c.coords[2*i+1] = float32(position.Y)
	r, g, b := Color(speed)
	c.colors[3*i] = r
	c.colors[3*i+1] = g
	c.colors[3*i+2] = b
}

// Color maps a speed to a point color: red stays saturated and green fades
// from 255 at rest to 0 at speed 255 and above.
func Color(speed float64) (r, g, b uint8) {
	green := 255 - speed
	if math.IsNaN(green) || green < 0 {
		green = 0
	}
	if green > 255 {
		green = 255
	}
	return 255, uint8(green), 0
}

// Batcher splits n particles into ceil(n/size) chunks; every chunk but the
// last is full.
type Batcher struct {
	chunks []*Chunk
	size   int
	n      int
}

func NewBatcher(n, size int) (*Batcher, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: chunk size %d", dynamo.ErrParameterBounds, size)
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: particle count %d", dynamo.ErrParameterBounds, n)
	}

	count := (n + size - 1) / size
	b := &Batcher{
		chunks: make([]*Chunk, count),
		size:   size,
		n:      n,
	}
	for i := range b.chunks {
		filled := size
		if rest := n - i*size; rest < size {
			filled = rest
		}
		b.chunks[i] = newChunk(size, filled)
	}
	return b, nil
}

func (b *Batcher) Chunks() []*Chunk { return b.chunks }
func (b *Batcher) ChunkSize() int   { return b.size }
func (b *Batcher) Len() int         { return b.n }

// Fill writes particle i into its chunk slot.
func (b *Batcher) Fill(i int, position dynamo.Vec2, speed float64) {
	b.chunks[i/b.size].Set(i%b.size, position, speed)
}

// Range returns the particle index range [start, end) covered by chunk c.
func (b *Batcher) Range(c int) (start, end int) {
	start = c * b.size
	return start, start + b.chunks[c].n
}
