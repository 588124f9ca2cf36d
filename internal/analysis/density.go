package analysis

import (
	"strings"

	"github.com/san-kum/particles/internal/physics"
)

var shades = []rune(" .:-=+*#%@")

// Bounds is the world rectangle a density map covers.
type Bounds struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Fit returns the bounding box of the particle positions, padded by 10% so
// edge particles are not drawn on the border.
func Fit(ps []physics.Particle) Bounds {
	if len(ps) == 0 {
		return Bounds{MaxX: 1, MaxY: 1}
	}

	first := ps[0].Position()
	b := Bounds{MinX: first.X, MinY: first.Y, MaxX: first.X, MaxY: first.Y}
	for i := range ps {
		p := ps[i].Position()
		if p.X < b.MinX {
			b.MinX = p.X
		}
		if p.X > b.MaxX {
			b.MaxX = p.X
		}
		if p.Y < b.MinY {
			b.MinY = p.Y
		}
		if p.Y > b.MaxY {
			b.MaxY = p.Y
		}
	}

	rangeX, rangeY := b.MaxX-b.MinX, b.MaxY-b.MinY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	b.MinX -= rangeX * 0.1
	b.MaxX += rangeX * 0.1
	b.MinY -= rangeY * 0.1
	b.MaxY += rangeY * 0.1
	return b
}

// DensityMap draws particle occupancy as a width x height grid of shade
// characters. Rows follow screen orientation: y grows downwards. Particles
// outside b are skipped.
func DensityMap(ps []physics.Particle, b Bounds, width, height int) string {
	if width < 1 || height < 1 {
		return ""
	}

	counts := make([]int, width*height)
	peak := 0
	rangeX, rangeY := b.MaxX-b.MinX, b.MaxY-b.MinY
	if rangeX <= 0 || rangeY <= 0 {
		return ""
	}

	for i := range ps {
		p := ps[i].Position()
		col := int((p.X - b.MinX) / rangeX * float64(width))
		row := int((p.Y - b.MinY) / rangeY * float64(height))
		if col == width {
			col--
		}
		if row == height {
			row--
		}
		if row < 0 || row >= height || col < 0 || col >= width {
			continue
		}
		idx := row*width + col
		counts[idx]++
		if counts[idx] > peak {
			peak = counts[idx]
		}
	}

	var sb strings.Builder
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			sb.WriteRune(shade(counts[row*width+col], peak))
		}
		sb.WriteRune('\n')
	}
	return sb.String()
}

func shade(count, peak int) rune {
	if count == 0 || peak == 0 {
		return shades[0]
	}
	idx := 1 + (count-1)*(len(shades)-2)/max(peak-1, 1)
	return shades[idx]
}
