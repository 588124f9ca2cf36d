package config

import "sort"

var Presets = map[string]*Config{
	"reference": DefaultConfig(),
	"small": func() *Config {
		c := DefaultConfig()
		c.Grid.Cols, c.Grid.Rows = 200, 200
		c.InitialSpacing = 2.0
		c.ChunkCount, c.ChunkSize = 4, 10000
		return c
	}(),
	"walls": func() *Config {
		c := DefaultConfig()
		c.Grid.Cols, c.Grid.Rows = 400, 400
		c.InitialSpacing = 1.0
		c.Grid.OriginX, c.Grid.OriginY = 760, 340
		c.ChunkCount, c.ChunkSize = 2, 100000
		c.Walls.Enabled = true
		return c
	}(),
	"rain": func() *Config {
		c := DefaultConfig()
		c.Grid.Cols, c.Grid.Rows = 500, 200
		c.InitialSpacing = 2.0
		c.Grid.OriginX, c.Grid.OriginY = 460, 40
		c.ChunkCount, c.ChunkSize = 1, 100000
		c.Gravity = 2000
		c.DragCoefficient = 0.5
		c.RestitutionCoefficient = 0.6
		c.Walls.Enabled = true
		return c
	}(),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
