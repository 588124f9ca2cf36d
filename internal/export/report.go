package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/san-kum/particles/internal/metrics"
	"github.com/san-kum/particles/internal/sim"
)

// Report summarises a headless run.
type Report struct {
	Preset    string             `json:"preset,omitempty"`
	Particles int                `json:"particles"`
	Workers   int                `json:"workers"`
	Walls     bool               `json:"walls"`
	Frames    int                `json:"frames"`
	Dt        float64            `json:"dt"`
	SimTime   float64            `json:"sim_time"`
	Elapsed   time.Duration      `json:"elapsed_ns"`
	FPS       float64            `json:"fps"`
	Metrics   map[string]float64 `json:"metrics"`
}

func NewReport(preset string, w *sim.World, dt float64, res *sim.Result) *Report {
	return &Report{
		Preset:    preset,
		Particles: w.Len(),
		Workers:   w.Workers(),
		Walls:     w.WallsEnabled(),
		Frames:    res.Frames,
		Dt:        dt,
		SimTime:   res.SimTime,
		Elapsed:   res.Elapsed,
		FPS:       res.FramesPerSecond(),
		Metrics:   res.Metrics,
	}
}

func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteCSV writes one row per recorded frame: the time followed by every
// series value. All series must come from the same run.
func WriteCSV(w io.Writer, series ...*metrics.Series) error {
	if len(series) == 0 {
		return fmt.Errorf("no series to export")
	}
	n := series[0].Len()
	for _, s := range series[1:] {
		if s.Len() != n {
			return fmt.Errorf("series %s has %d samples, want %d", s.Name(), s.Len(), n)
		}
	}

	cw := csv.NewWriter(w)

	header := []string{"time"}
	for _, s := range series {
		header = append(header, s.Name())
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	times := series[0].Times()
	for i := 0; i < n; i++ {
		row := []string{strconv.FormatFloat(times[i], 'f', 6, 64)}
		for _, s := range series {
			row = append(row, strconv.FormatFloat(s.Values()[i], 'f', 6, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
