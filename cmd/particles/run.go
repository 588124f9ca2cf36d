package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/particles/internal/analysis"
	"github.com/san-kum/particles/internal/automation"
	"github.com/san-kum/particles/internal/dynamo"
	"github.com/san-kum/particles/internal/export"
	"github.com/san-kum/particles/internal/metrics"
	"github.com/san-kum/particles/internal/sim"
	"github.com/san-kum/particles/internal/tui"
)

type runOptions struct {
	frames     int
	dt         float64
	pointerX   float64
	pointerY   float64
	holdFrames int
	scenario   string
	metrics    string
	plot       bool
	spectrum   bool
	density    bool
	live       bool
	fps        int
	validate   bool
	jsonOut    bool
	csvPath    string
	svgPath    string
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "run headless with a scripted pointer",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHeadless(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.frames, "frames", 600, "frames to simulate")
	f.Float64Var(&opts.dt, "dt", 1.0/60, "frame delta in seconds")
	f.Float64Var(&opts.pointerX, "pointer-x", 500, "pointer x in world coordinates")
	f.Float64Var(&opts.pointerY, "pointer-y", 500, "pointer y in world coordinates")
	f.IntVar(&opts.holdFrames, "hold", -1, "frames the pointer is held for (-1 = whole run, 0 = never)")
	f.StringVar(&opts.scenario, "scenario", "", "yaml pointer scenario; replaces --pointer-x/--pointer-y/--hold")
	f.StringVar(&opts.metrics, "metrics", "mean_speed,max_speed,kinetic_energy", "comma separated metrics ("+strings.Join(metrics.Names(), ", ")+")")
	f.BoolVar(&opts.plot, "plot", false, "plot every metric over time")
	f.BoolVar(&opts.spectrum, "spectrum", false, "frequency analysis of the mean speed")
	f.BoolVar(&opts.density, "density", false, "print the final particle density")
	f.BoolVar(&opts.live, "live", false, "print a density view while running")
	f.IntVar(&opts.fps, "fps", 15, "frame rate of --live")
	f.BoolVar(&opts.validate, "validate", false, "stop at the first non-finite particle")
	f.BoolVar(&opts.jsonOut, "json", false, "print the run report as json")
	f.StringVar(&opts.csvPath, "csv", "", "write metric series to a csv file")
	f.StringVar(&opts.svgPath, "svg", "", "write the final frame to an svg file")
	return cmd
}

// pointerScript holds the pointer at a fixed world position for the first
// hold frames; hold < 0 holds it for the whole run.
func pointerScript(at dynamo.Vec2, hold int) sim.InputSource {
	return sim.InputFunc(func(frame int, _ float64) sim.Input {
		return sim.Input{PointerHeld: hold < 0 || frame < hold, Pointer: at}
	})
}

func runHeadless(cmd *cobra.Command, opts *runOptions) error {
	w, err := newWorld(cmd)
	if err != nil {
		return err
	}

	var series []*metrics.Series
	for _, name := range strings.Split(opts.metrics, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		m, err := metrics.New(name, w.Config())
		if err != nil {
			return err
		}
		s := metrics.NewSeries(m, 0)
		series = append(series, s)
		w.AddMetric(s)
	}

	var speed *metrics.Series
	if opts.spectrum {
		speed = findSeries(series, "mean_speed")
		if speed == nil {
			speed = metrics.NewSeries(metrics.NewMeanSpeed(), 0)
			w.AddMetric(speed)
		}
	}

	var live *tui.LiveRenderer
	if opts.live {
		live = tui.NewLiveRenderer(os.Stdout, opts.fps)
		w.AddObserver(live)
		live.Start()
		defer live.Stop()
	}

	src := pointerScript(dynamo.Vec2{X: opts.pointerX, Y: opts.pointerY}, opts.holdFrames)
	if opts.scenario != "" {
		sc, err := automation.LoadScenario(opts.scenario)
		if err != nil {
			return fmt.Errorf("scenario %s: %w", opts.scenario, err)
		}
		src = sc
		if !cmd.Flags().Changed("frames") {
			opts.frames = sc.Frames()
		}
		logrus.WithFields(logrus.Fields{"scenario": sc.Name, "steps": len(sc.Steps)}).Info("scenario loaded")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log := logrus.WithFields(logrus.Fields{"frames": opts.frames, "dt": opts.dt})
	log.Info("run started")

	res, err := w.Run(ctx, sim.RunConfig{Frames: opts.frames, Dt: opts.dt, ValidateState: opts.validate}, src)
	if err != nil {
		if res == nil {
			return err
		}
		log.WithError(err).WithField("completed", res.Frames).Warn("run stopped early")
	}

	log.WithFields(logrus.Fields{
		"elapsed": res.Elapsed,
		"fps":     fmt.Sprintf("%.1f", res.FramesPerSecond()),
	}).Info("run finished")

	report := export.NewReport(preset, w, opts.dt, res)
	if opts.jsonOut {
		if err := export.WriteJSON(os.Stdout, report); err != nil {
			return err
		}
	} else {
		printReport(report, series)
	}

	if opts.plot {
		for _, s := range series {
			if s.Len() < 2 {
				continue
			}
			fmt.Println(asciigraph.Plot(s.Values(),
				asciigraph.Height(10),
				asciigraph.Width(80),
				asciigraph.Caption(s.Name()),
			))
			fmt.Println()
		}
	}

	if speed != nil {
		printSpectrum(speed, opts.dt)
	}

	if opts.density {
		fmt.Print(analysis.DensityMap(w.Particles(), analysis.Fit(w.Particles()), 70, 20))
	}

	if opts.csvPath != "" && len(series) > 0 {
		if err := writeFile(opts.csvPath, func(f *os.File) error { return export.WriteCSV(f, series...) }); err != nil {
			return err
		}
		log.WithField("path", opts.csvPath).Info("metric series written")
	}

	if opts.svgPath != "" {
		win := w.Config().Window
		err := writeFile(opts.svgPath, func(f *os.File) error {
			return export.WriteSVG(f, w.Chunks(), analysis.Fit(w.Particles()), win.Width, win.Height, 200000)
		})
		if err != nil {
			return err
		}
		log.WithField("path", opts.svgPath).Info("snapshot written")
	}

	return err
}

func findSeries(series []*metrics.Series, name string) *metrics.Series {
	for _, s := range series {
		if s.Name() == name {
			return s
		}
	}
	return nil
}

func printReport(r *export.Report, series []*metrics.Series) {
	fmt.Printf("particles: %d (workers %d, walls %t)\n", r.Particles, r.Workers, r.Walls)
	fmt.Printf("frames:    %d in %v (%.1f fps)\n", r.Frames, r.Elapsed, r.FPS)
	fmt.Printf("sim time:  %.3fs\n", r.SimTime)
	fmt.Println("\nmetrics:")
	for _, s := range series {
		fmt.Printf("  %s: %.6f\n", s.Name(), s.Value())
	}
	fmt.Println()
}

func printSpectrum(s *metrics.Series, dt float64) {
	ps := analysis.PowerSpectrum(s.Values())
	if len(ps) < 4 {
		fmt.Println("not enough frames for frequency analysis")
		return
	}

	graph := asciigraph.Plot(ps[:len(ps)/2],
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum (mean speed)"),
	)
	fmt.Println(graph)
	fmt.Println()

	freq, power := analysis.DominantFrequency(s.Values(), dt)
	fmt.Printf("dominant frequency: %.3f hz (power %.3g)\n", freq, power)
}

func writeFile(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
