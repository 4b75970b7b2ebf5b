// Package config loads Mudra's YAML configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ayusman/mudra/internal/detector"
)

// Display sizes the display surface independent of the camera's native
// resolution. Zero means native.
type Display struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Angle selects the two landmark indices the readout measures between.
type Angle struct {
	PointA int `yaml:"point_a"`
	PointB int `yaml:"point_b"`
}

// Config holds the application configuration.
type Config struct {
	CameraID        int     `yaml:"camera_id"`
	ListenAddr      string  `yaml:"listen_addr"`
	Backend         string  `yaml:"backend"`
	Display         Display `yaml:"display"`
	Angle           Angle   `yaml:"angle"`
	IdleFPS         int     `yaml:"idle_fps"`
	ActiveFPS       int     `yaml:"active_fps"`
	MotionThreshold float64 `yaml:"motion_threshold"`
	DataDir         string  `yaml:"data_dir"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	dataDir := ".mudra"
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".mudra")
	}

	return Config{
		CameraID:        0,
		ListenAddr:      ":8080",
		Backend:         "mediapipe",
		Angle:           Angle{PointA: detector.ThumbTip, PointB: detector.IndexTip},
		IdleFPS:         5,
		ActiveFPS:       15,
		MotionThreshold: 1.0,
		DataDir:         dataDir,
	}
}

// Load reads the YAML config at path, layered over the defaults. A missing
// file is not an error; the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	if c.Angle.PointA < 0 || c.Angle.PointA >= detector.NumLandmarks ||
		c.Angle.PointB < 0 || c.Angle.PointB >= detector.NumLandmarks {
		return fmt.Errorf("angle points must be landmark indices in [0, %d)", detector.NumLandmarks)
	}
	if c.IdleFPS <= 0 || c.ActiveFPS <= 0 {
		return fmt.Errorf("frame rates must be positive")
	}
	return nil
}

// Write saves the config as YAML to path.
func Write(cfg Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
