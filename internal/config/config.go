// Package config handles tool configuration loading and management.
package config

// Config holds all wadgfx settings.
type Config struct {
	Data    DataConfig    `yaml:"data"`
	Render  RenderConfig  `yaml:"render"`
	Output  OutputConfig  `yaml:"output"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
}

// DataConfig holds asset archive paths.
type DataConfig struct {
	// WADPaths are mounted in order; later archives override earlier ones.
	WADPaths []string `yaml:"wad_paths"`
}

// RenderConfig holds default rendering parameters.
type RenderConfig struct {
	Palette    int    `yaml:"palette"`  // PLAYPAL bank (0-13 in the reference set)
	Colormap   int    `yaml:"colormap"` // COLORMAP bank (0-33 in the reference set)
	Scale      int    `yaml:"scale"`
	Format     string `yaml:"format"` // full, indexed or mask
	Anamorphic bool   `yaml:"anamorphic"`
}

// OutputConfig holds output settings.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Listen string `yaml:"listen"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			WADPaths: []string{"doom.wad"},
		},
		Render: RenderConfig{
			Palette:    0,
			Colormap:   0,
			Scale:      2,
			Format:     "full",
			Anamorphic: false,
		},
		Output: OutputConfig{
			Dir: ".",
		},
		Server: ServerConfig{
			Listen: "127.0.0.1:8845",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
