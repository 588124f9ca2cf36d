package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/particles/internal/config"
	"github.com/san-kum/particles/internal/gui"
	"github.com/san-kum/particles/internal/sim"
	"github.com/san-kum/particles/internal/tui"
)

var (
	configFile string
	preset     string
	logLevel   string
	logJSON    bool
	workers    int
	walls      bool
	cols       int
	rows       int
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "particles",
		Short:        "interactive million-particle sandbox",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(logLevel, logJSON)
		},
		RunE: runGUI,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.BoolVar(&logJSON, "log-json", false, "log as json")
	pf.IntVar(&workers, "workers", 0, "worker goroutines per frame (0 = one per cpu)")
	pf.BoolVar(&walls, "walls", false, "enable wall collisions")
	pf.IntVar(&cols, "cols", config.DefaultCols, "grid columns")
	pf.IntVar(&rows, "rows", config.DefaultRows, "grid rows")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "open the simulation window (default)",
		RunE:  runGUI,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive terminal view",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := newWorld(cmd)
			if err != nil {
				return err
			}
			return tui.Run(w)
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tPARTICLES\tCHUNKS\tGRAVITY\tDRAG\tWALLS")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(tw, "%s\t%d\t%dx%d\t%g\t%g\t%t\n",
					name, p.NumParticles(), p.ChunkCount, p.ChunkSize, p.Gravity, p.DragCoefficient, p.Walls.Enabled)
			}
			return tw.Flush()
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective configuration as yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return config.Encode(cmd.OutOrStdout(), cfg)
		},
	}

	rootCmd.AddCommand(guiCmd, newRunCmd(), liveCmd, newBenchCmd(), newSweepCmd(), presetsCmd, configCmd)
	return rootCmd
}

func setupLogging(level string, asJSON bool) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	logrus.SetLevel(lvl)
	logrus.SetOutput(os.Stderr)
	if asJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}

// loadConfig resolves defaults < preset < config file < explicitly set flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %s)", preset, strings.Join(config.ListPresets(), ", "))
		}
	}

	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("walls") {
		cfg.Walls.Enabled = walls
	}
	if flags.Changed("cols") {
		cfg.Grid.Cols = cols
	}
	if flags.Changed("rows") {
		cfg.Grid.Rows = rows
	}
	if flags.Changed("cols") || flags.Changed("rows") {
		cfg.ChunkCount = fitChunks(cfg.NumParticles(), cfg.ChunkSize, cfg.ChunkCount)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// fitChunks grows count so that count chunks of size hold n particles.
func fitChunks(n, size, count int) int {
	if size < 1 {
		return count
	}
	if need := (n + size - 1) / size; need > count {
		return need
	}
	return count
}

func newWorld(cmd *cobra.Command) (*sim.World, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return sim.New(cfg, sim.WithLogger(logrus.WithField("preset", presetName())))
}

func presetName() string {
	if preset == "" {
		return "reference"
	}
	return preset
}

func runGUI(cmd *cobra.Command, args []string) error {
	w, err := newWorld(cmd)
	if err != nil {
		return err
	}
	return gui.Run(w, logrus.StandardLogger())
}
