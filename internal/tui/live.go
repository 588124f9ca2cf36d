package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/san-kum/particles/internal/analysis"
	"github.com/san-kum/particles/internal/sim"
)

const (
	liveWidth   = 70
	liveHeight  = 20
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer is a sim.Observer that prints a density map of the world to
// out at most frameRate times per second. Bounds are fitted on the first
// drawn frame and kept, so motion stays visible.
type LiveRenderer struct {
	out       io.Writer
	frameRate int
	lastFrame time.Time
	bounds    *analysis.Bounds
	now       func() time.Time
}

func NewLiveRenderer(out io.Writer, frameRate int) *LiveRenderer {
	if frameRate < 1 {
		frameRate = 30
	}
	return &LiveRenderer{out: out, frameRate: frameRate, now: time.Now}
}

func (r *LiveRenderer) OnFrame(w *sim.World) {
	now := r.now()
	if !r.lastFrame.IsZero() && now.Sub(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
		return
	}
	r.lastFrame = now

	if r.bounds == nil {
		b := analysis.Fit(w.Particles())
		r.bounds = &b
	}

	var b strings.Builder
	b.WriteString(clearScreen)
	fmt.Fprintf(&b, "  particles=%d  frame=%d  t=%.2fs\n", w.Len(), w.Frame(), w.Time())
	b.WriteString("  " + strings.Repeat("-", liveWidth) + "\n")
	for _, row := range strings.Split(strings.TrimSuffix(analysis.DensityMap(w.Particles(), *r.bounds, liveWidth, liveHeight), "\n"), "\n") {
		b.WriteString("  " + row + "\n")
	}
	b.WriteString("  " + strings.Repeat("-", liveWidth) + "\n")

	io.WriteString(r.out, b.String())
}

func (r *LiveRenderer) Start() { io.WriteString(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { io.WriteString(r.out, showCursor) }
