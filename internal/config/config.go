package config

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	configFile = "config.toml"
	appDir     = "sprayboard"

	MinBrushSize   = 2
	MaxBrushSize   = 64
	MinDeviceScale = 0.25
	MaxDeviceScale = 2.0
	MinSurface     = 320
	MaxSurface     = 4096
	MinExportDim   = 64
	MaxExportDim   = 4096
)

// Config holds every user-tunable setting.
type Config struct {
	Color         string
	BrushSize     int
	DeviceScale   float64
	Width         int
	Height        int
	ExportMaxDim  int
	ExportQuality int
	Background    string
	Port          int
	Advertise     bool
	Seed          uint64
}

// Default returns the settings used on first run.
func Default() Config {
	return Config{
		Color:         "#111111",
		BrushSize:     16,
		DeviceScale:   1,
		Width:         1024,
		Height:        720,
		ExportMaxDim:  900,
		ExportQuality: 65,
		Port:          8888,
		Advertise:     true,
	}
}

// Clamp pulls every value back into range. Nothing is ever rejected.
func (c *Config) Clamp() {
	c.BrushSize = ClampBrush(c.BrushSize)
	c.DeviceScale = ClampScale(c.DeviceScale)
	c.Width = min(MaxSurface, max(MinSurface, c.Width))
	c.Height = min(MaxSurface, max(MinSurface, c.Height))
	c.ExportMaxDim = min(MaxExportDim, max(MinExportDim, c.ExportMaxDim))
	c.ExportQuality = min(100, max(1, c.ExportQuality))
	if c.Port <= 0 || c.Port > 65535 {
		c.Port = Default().Port
	}
}

// ClampBrush keeps a brush cap radius within the slider limits.
func ClampBrush(size int) int {
	return min(MaxBrushSize, max(MinBrushSize, size))
}

// ClampScale keeps a device radius scale within limits.
func ClampScale(scale float64) float64 {
	if scale != scale || scale <= 0 {
		return 1
	}
	return min(MaxDeviceScale, max(MinDeviceScale, scale))
}

// Dir is the directory holding the config file.
func Dir() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		base = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(base, appDir)
}

// Load reads the config file in dir, writing defaults first if it does
// not exist yet.
func Load(dir string) (Config, error) {
	path := filepath.Join(dir, configFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Println("[CONFIG] Initializing config at", path)
		conf := Default()
		if err := Save(dir, conf); err != nil {
			return conf, err
		}
		return conf, nil
	} else if err != nil {
		return Default(), fmt.Errorf("couldn't check config file: %w", err)
	}

	conf := Default()
	if _, err := toml.DecodeFile(path, &conf); err != nil {
		return Default(), fmt.Errorf("couldn't read config file: %w", err)
	}
	conf.Clamp()
	return conf, nil
}

// Save writes conf to the config file in dir.
func Save(dir string, conf Config) error {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("couldn't create config directory: %w", err)
	}
	var buffer bytes.Buffer
	if err := toml.NewEncoder(&buffer).Encode(conf); err != nil {
		return fmt.Errorf("couldn't encode config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, configFile), buffer.Bytes(), 0644); err != nil {
		return fmt.Errorf("couldn't write config file: %w", err)
	}
	return nil
}
