package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/particles/internal/dynamo"
	"github.com/san-kum/particles/internal/sim"
)

func newBenchCmd() *cobra.Command {
	var (
		frames     int
		workerList string
	)
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "measure frame throughput per worker count",
		RunE: func(cmd *cobra.Command, args []string) error {
			counts, err := parseWorkers(workerList)
			if err != nil {
				return err
			}
			return bench(cmd, frames, counts)
		},
	}
	cmd.Flags().IntVar(&frames, "frames", 60, "frames per measurement")
	cmd.Flags().StringVar(&workerList, "worker-counts", "1,2,4,0", "comma separated worker counts (0 = one per cpu)")
	return cmd
}

func parseWorkers(list string) ([]int, error) {
	var counts []int
	for _, f := range strings.Split(list, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid worker count %q", f)
		}
		counts = append(counts, n)
	}
	if len(counts) == 0 {
		return nil, fmt.Errorf("no worker counts given")
	}
	return counts, nil
}

func bench(cmd *cobra.Command, frames int, counts []int) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	quiet := logrus.New()
	quiet.SetLevel(logrus.WarnLevel)

	src := sim.InputFunc(func(int, float64) sim.Input {
		return sim.Input{PointerHeld: true, Pointer: dynamo.Vec2{X: 500, Y: 500}}
	})

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "benchmarking %d particles, %d frames\n\n", cfg.NumParticles(), frames)
	fmt.Fprintln(tw, "WORKERS\tFRAMES\tELAPSED\tFPS\tNS/PARTICLE")

	for _, n := range counts {
		c := cfg.Clone()
		c.Workers = n

		w, err := sim.New(c, sim.WithLogger(quiet))
		if err != nil {
			return err
		}

		res, err := w.Run(context.Background(), sim.RunConfig{Frames: frames, Dt: 1.0 / 60}, src)
		if err != nil {
			return err
		}

		perParticle := float64(res.Elapsed.Nanoseconds()) / float64(res.Frames*max(w.Len(), 1))
		fmt.Fprintf(tw, "%d\t%d\t%v\t%.1f\t%.2f\n",
			w.Workers(), res.Frames, res.Elapsed.Round(1e6), res.FramesPerSecond(), perParticle)
	}

	return tw.Flush()
}
