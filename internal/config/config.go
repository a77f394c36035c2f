package config

import "fmt"

// Geometry represents window geometry in screen coordinates.
type Geometry struct {
	X      int `json:"x" yaml:"x" mapstructure:"x"`
	Y      int `json:"y" yaml:"y" mapstructure:"y"`
	Width  int `json:"width" yaml:"width" mapstructure:"width"`
	Height int `json:"height" yaml:"height" mapstructure:"height"`
}

// Validate checks that the geometry describes a usable region.
func (g Geometry) Validate() error {
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("invalid frame size %dx%d", g.Width, g.Height)
	}
	return nil
}

// FrameConfig configures the frame window created at startup.
type FrameConfig struct {
	Title string `json:"title" yaml:"title" mapstructure:"title"`
	// Initial placement only. Once the window exists its geometry is
	// owned by the window manager and read back on demand.
	Geometry Geometry `json:"geometry" yaml:"geometry" mapstructure:"geometry"`
	// Frame translucency while aligning, 0 (invisible) to 1 (opaque).
	AlignmentOpacity float64 `json:"alignment_opacity" yaml:"alignment_opacity" mapstructure:"alignment_opacity"`
}

// APIConfig configures the optional local control API.
type APIConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	Port    int  `json:"port" yaml:"port" mapstructure:"port"`
}

// Config represents the application configuration.
type Config struct {
	Hotkey      string      `json:"hotkey" yaml:"hotkey" mapstructure:"hotkey"`
	Frame       FrameConfig `json:"frame" yaml:"frame" mapstructure:"frame"`
	API         APIConfig   `json:"api" yaml:"api" mapstructure:"api"`
	LogLevel    string      `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
	LogPretty   bool        `json:"log_pretty" yaml:"log_pretty" mapstructure:"log_pretty"`
	SnapshotDir string      `json:"snapshot_dir" yaml:"snapshot_dir" mapstructure:"snapshot_dir"`
}

// Validate checks the configuration for values the runtime cannot use.
func (c *Config) Validate() error {
	if c.Hotkey == "" {
		return fmt.Errorf("hotkey must not be empty")
	}
	if err := c.Frame.Geometry.Validate(); err != nil {
		return err
	}
	if c.Frame.AlignmentOpacity < 0 || c.Frame.AlignmentOpacity > 1 {
		return fmt.Errorf("alignment_opacity %v out of range [0, 1]", c.Frame.AlignmentOpacity)
	}
	if c.API.Enabled && (c.API.Port <= 0 || c.API.Port > 65535) {
		return fmt.Errorf("invalid api port %d", c.API.Port)
	}
	return nil
}

// Defaults returns the default configuration.
func Defaults() *Config {
	return &Config{
		Hotkey: "ctrl+shift+[",
		Frame: FrameConfig{
			Title:            "ShareFrame",
			Geometry:         Geometry{X: 100, Y: 100, Width: 800, Height: 600},
			AlignmentOpacity: 0.9,
		},
		API: APIConfig{
			Enabled: false,
			Port:    8080,
		},
		LogLevel:  "info",
		LogPretty: true,
	}
}
