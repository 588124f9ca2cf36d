package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/particles/internal/dynamo"
	"github.com/san-kum/particles/internal/metrics"
	"github.com/san-kum/particles/internal/optim"
	"github.com/san-kum/particles/internal/sim"
)

func newSweepCmd() *cobra.Command {
	var (
		params   []string
		metric   string
		maximize bool
		frames   int
		dt       float64
		px, py   float64
	)
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid search config parameters against a metric",
		Example: `  particles sweep --param drag_coefficient=0,1,5 --param pointer_softening=5,10 --metric mean_speed
  particles sweep --preset walls --param restitution_coefficient=0.2,0.5,1 --metric containment --maximize`,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, ranges, err := parseParams(params)
			if err != nil {
				return err
			}
			g, err := optim.NewGridSearch(names, ranges)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			quiet := logrus.New()
			quiet.SetLevel(logrus.WarnLevel)
			g.SetLogger(quiet)

			at := dynamo.Vec2{X: px, Y: py}
			obj := optim.Objective{
				Metric:   metric,
				Maximize: maximize,
				Run:      sim.RunConfig{Frames: frames, Dt: dt},
				Input:    pointerScript(at, -1),
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			logrus.WithFields(logrus.Fields{"points": g.Size(), "metric": metric}).Info("sweep started")
			res, err := g.Search(ctx, cfg, obj)
			if res != nil {
				if perr := printTrials(cmd, names, res); perr != nil {
					return perr
				}
			}
			return err
		},
	}

	f := cmd.Flags()
	f.StringArrayVar(&params, "param", nil, "name=v1,v2,... (repeatable; one of "+strings.Join(optim.Params(), ", ")+")")
	f.StringVar(&metric, "metric", "mean_speed", "metric to rank by ("+strings.Join(metrics.Names(), ", ")+")")
	f.BoolVar(&maximize, "maximize", false, "rank by the largest value instead of the smallest")
	f.IntVar(&frames, "frames", 120, "frames per trial")
	f.Float64Var(&dt, "dt", 1.0/60, "frame delta in seconds")
	f.Float64Var(&px, "pointer-x", 500, "held pointer x in world coordinates")
	f.Float64Var(&py, "pointer-y", 500, "held pointer y in world coordinates")
	_ = cmd.MarkFlagRequired("param")
	return cmd
}

// parseParams splits "name=v1,v2" flags into parallel name and value lists.
func parseParams(flags []string) ([]string, [][]float64, error) {
	var (
		names  []string
		ranges [][]float64
	)
	for _, p := range flags {
		name, list, ok := strings.Cut(p, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, nil, fmt.Errorf("invalid --param %q, want name=v1,v2", p)
		}
		var values []float64
		for _, f := range strings.Split(list, ",") {
			f = strings.TrimSpace(f)
			if f == "" {
				continue
			}
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("invalid value %q for %s", f, name)
			}
			values = append(values, v)
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}
	return names, ranges, nil
}

func printTrials(cmd *cobra.Command, names []string, res *optim.SearchResult) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.ToUpper(strings.Join(names, "\t"))+"\tVALUE\t")

	for _, tr := range res.Trials {
		row := make([]string, 0, len(names)+1)
		for _, n := range names {
			row = append(row, strconv.FormatFloat(tr.Params[n], 'g', -1, 64))
		}
		switch {
		case tr.Err != nil:
			row = append(row, "error: "+tr.Err.Error())
		default:
			row = append(row, fmt.Sprintf("%.6g", tr.Value))
		}
		fmt.Fprintln(tw, strings.Join(row, "\t")+"\t")
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if res.Best == nil {
		return nil
	}
	keys := make([]string, 0, len(res.Best))
	for k := range res.Best {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%g", k, res.Best[k]))
	}
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "\nbest: %s (%.6g)\n", strings.Join(parts, " "), res.Value)
	return err
}
