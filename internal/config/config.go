package config

import (
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/particles/internal/dynamo"
	"github.com/san-kum/particles/internal/integrators"
)

const (
	DefaultGravity           = 0.0
	DefaultDrag              = 0.0
	DefaultRestitution       = 1.0
	DefaultSpacing           = 0.5
	DefaultPointerForceScale = 500000.0
	DefaultPointerSoftening  = 10.0
	DefaultChunkCount        = 10
	DefaultChunkSize         = 100000
	DefaultCols              = 1000
	DefaultRows              = 1000
	DefaultOrigin            = 20.0
	DefaultMass              = 10.0
	DefaultWallInset         = 10.0
	DefaultWidth             = 1920
	DefaultHeight            = 1080
	DefaultFPS               = 60
)

type Config struct {
	Gravity                float64      `yaml:"gravity"`
	DragCoefficient        float64      `yaml:"drag_coefficient"`
	RestitutionCoefficient float64      `yaml:"restitution_coefficient"`
	InitialSpacing         float64      `yaml:"initial_spacing"`
	PointerForceScale      float64      `yaml:"pointer_force_scale"`
	PointerSoftening       float64      `yaml:"pointer_softening"`
	ChunkCount             int          `yaml:"chunk_count"`
	ChunkSize              int          `yaml:"chunk_size"`
	MinDt                  float64      `yaml:"min_dt"`
	Workers                int          `yaml:"workers"`
	Grid                   GridConfig   `yaml:"grid"`
	Walls                  WallConfig   `yaml:"walls"`
	Window                 WindowConfig `yaml:"window"`
}

type GridConfig struct {
	Cols    int     `yaml:"cols"`
	Rows    int     `yaml:"rows"`
	OriginX float64 `yaml:"origin_x"`
	OriginY float64 `yaml:"origin_y"`
	Mass    float64 `yaml:"mass"`
}

// WallConfig describes the optional collision pass. Segments are
// [x0, y0, x1, y1]; when empty a rectangle inset from the window is used.
type WallConfig struct {
	Enabled  bool         `yaml:"enabled"`
	Inset    float64      `yaml:"inset"`
	Segments [][4]float64 `yaml:"segments,omitempty"`
}

type WindowConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	FPS    int `yaml:"fps"`
}

// ValidationError reports the config field that failed validation.
type ValidationError struct {
	Field   string
	Value   interface{}
	Wrapped error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s=%v: %v", e.Field, e.Value, e.Wrapped)
}

func (e *ValidationError) Unwrap() error {
	return e.Wrapped
}

func DefaultConfig() *Config {
	return &Config{
		Gravity:                DefaultGravity,
		DragCoefficient:        DefaultDrag,
		RestitutionCoefficient: DefaultRestitution,
		InitialSpacing:         DefaultSpacing,
		PointerForceScale:      DefaultPointerForceScale,
		PointerSoftening:       DefaultPointerSoftening,
		ChunkCount:             DefaultChunkCount,
		ChunkSize:              DefaultChunkSize,
		MinDt:                  integrators.MinDt,
		Grid: GridConfig{
			Cols:    DefaultCols,
			Rows:    DefaultRows,
			OriginX: DefaultOrigin,
			OriginY: DefaultOrigin,
			Mass:    DefaultMass,
		},
		Walls: WallConfig{
			Inset: DefaultWallInset,
		},
		Window: WindowConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
			FPS:    DefaultFPS,
		},
	}
}

func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver decodes the file over a copy of base; keys the file omits keep
// the base values.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseOver(data, base.Clone())
}

// Parse decodes YAML over the defaults, so omitted keys keep default values.
func Parse(data []byte) (*Config, error) {
	return parseOver(data, DefaultConfig())
}

func parseOver(data []byte, cfg *Config) (*Config, error) {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Encode writes cfg as YAML.
func Encode(w io.Writer, cfg *Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	cp := *c
	if c.Walls.Segments != nil {
		cp.Walls.Segments = make([][4]float64, len(c.Walls.Segments))
		copy(cp.Walls.Segments, c.Walls.Segments)
	}
	return &cp
}

// NumParticles is the population size implied by the grid.
func (c *Config) NumParticles() int {
	return c.Grid.Cols * c.Grid.Rows
}

// Validate checks every field the simulation depends on. Errors wrap
// dynamo.ErrInvalidMass or dynamo.ErrParameterBounds.
func (c *Config) Validate() error {
	if !(c.Grid.Mass > 0) || math.IsInf(c.Grid.Mass, 0) {
		return &ValidationError{Field: "grid.mass", Value: c.Grid.Mass, Wrapped: dynamo.ErrInvalidMass}
	}

	checks := []struct {
		field string
		value interface{}
		ok    bool
	}{
		{"grid.cols", c.Grid.Cols, c.Grid.Cols >= 0},
		{"grid.rows", c.Grid.Rows, c.Grid.Rows >= 0},
		{"initial_spacing", c.InitialSpacing, finite(c.InitialSpacing)},
		{"gravity", c.Gravity, finite(c.Gravity)},
		{"drag_coefficient", c.DragCoefficient, finite(c.DragCoefficient) && c.DragCoefficient >= 0},
		{"restitution_coefficient", c.RestitutionCoefficient, c.RestitutionCoefficient >= 0 && c.RestitutionCoefficient <= 1},
		{"pointer_force_scale", c.PointerForceScale, finite(c.PointerForceScale)},
		{"pointer_softening", c.PointerSoftening, finite(c.PointerSoftening) && c.PointerSoftening >= 0},
		{"chunk_size", c.ChunkSize, c.ChunkSize > 0},
		{"chunk_count", c.ChunkCount, c.ChunkCount > 0},
		{"min_dt", c.MinDt, finite(c.MinDt) && c.MinDt >= integrators.MinDt},
		{"grid.origin_x", c.Grid.OriginX, finite(c.Grid.OriginX)},
		{"grid.origin_y", c.Grid.OriginY, finite(c.Grid.OriginY)},
		{"workers", c.Workers, c.Workers >= 0},
		{"walls.inset", c.Walls.Inset, finite(c.Walls.Inset) && c.Walls.Inset >= 0},
		{"window.width", c.Window.Width, c.Window.Width > 0},
		{"window.height", c.Window.Height, c.Window.Height > 0},
		{"window.fps", c.Window.FPS, c.Window.FPS >= 0},
	}
	for _, chk := range checks {
		if !chk.ok {
			return &ValidationError{Field: chk.field, Value: chk.value, Wrapped: dynamo.ErrParameterBounds}
		}
	}

	for i, seg := range c.Walls.Segments {
		for _, v := range seg {
			if !finite(v) {
				return &ValidationError{Field: fmt.Sprintf("walls.segments[%d]", i), Value: seg, Wrapped: dynamo.ErrParameterBounds}
			}
		}
	}

	if n := c.NumParticles(); n > c.ChunkCount*c.ChunkSize {
		return &ValidationError{
			Field:   "chunk_count",
			Value:   c.ChunkCount,
			Wrapped: fmt.Errorf("%w: %d chunks of %d cannot hold %d particles", dynamo.ErrParameterBounds, c.ChunkCount, c.ChunkSize, n),
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
