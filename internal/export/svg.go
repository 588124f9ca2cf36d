package export

import (
	"bufio"
	"fmt"
	"io"

	"github.com/san-kum/particles/internal/analysis"
	"github.com/san-kum/particles/internal/batch"
)

// WriteSVG draws the chunk buffers as speed-colored dots scaled from the
// world rectangle b into a width x height image. At most maxPoints dots
// are written, sampled evenly; maxPoints <= 0 writes all of them.
func WriteSVG(w io.Writer, chunks []*batch.Chunk, b analysis.Bounds, width, height, maxPoints int) error {
	rangeX, rangeY := b.MaxX-b.MinX, b.MaxY-b.MinY
	if rangeX <= 0 || rangeY <= 0 {
		return fmt.Errorf("empty bounds %+v", b)
	}

	total := 0
	for _, c := range chunks {
		total += c.Len()
	}
	stride := 1
	if maxPoints > 0 && total > maxPoints {
		stride = (total + maxPoints - 1) / maxPoints
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#000000"/>
`, width, height, width, height)

	idx := 0
	for _, c := range chunks {
		coords, colors := c.Coords(), c.Colors()
		for k := 0; k < c.Len(); k++ {
			if idx%stride == 0 {
				x := (float64(coords[2*k]) - b.MinX) / rangeX * float64(width)
				y := (float64(coords[2*k+1]) - b.MinY) / rangeY * float64(height)
				fmt.Fprintf(bw, `<rect x="%.1f" y="%.1f" width="1" height="1" fill="#%02x%02x%02x"/>
`, x, y, colors[3*k], colors[3*k+1], colors[3*k+2])
			}
			idx++
		}
	}

	bw.WriteString("</svg>\n")
	return bw.Flush()
}
