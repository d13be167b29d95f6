package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	GPS     GPSConfig     `yaml:"gps"`
	Forward ForwardConfig `yaml:"forward"`
	Web     WebConfig     `yaml:"web"`
	Log     LogConfig     `yaml:"log"`
}

type GPSConfig struct {
	// Source is serial, gpsd or replay.
	Source string `yaml:"source"`
	// Device may be empty to auto-detect.
	Device   string       `yaml:"device"`
	Baud     int          `yaml:"baud"`
	GPSDAddr string       `yaml:"gpsd_addr"`
	Record   RecordConfig `yaml:"record"`
	Replay   ReplayConfig `yaml:"replay"`
}

type RecordConfig struct {
	Enable bool   `yaml:"enable"`
	Path   string `yaml:"path"`
}

type ReplayConfig struct {
	Path  string  `yaml:"path"`
	Speed float64 `yaml:"speed"`
	Loop  bool    `yaml:"loop"`
}

type ForwardConfig struct {
	// UDPDest is host:port; empty disables forwarding.
	UDPDest string `yaml:"udp_dest"`
}

type WebConfig struct {
	// Listen is e.g. ":8080"; empty disables the HTTP API.
	Listen string `yaml:"listen"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default is the configuration used when no file is given: a serial
// receiver at 9600 baud, auto-detected, with console output only.
func Default() Config {
	cfg := Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads a YAML file, applies defaults and validates the result.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadOrDefault behaves like Load but returns Default when path does not
// exist.
func LoadOrDefault(path string) (Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

func (cfg *Config) applyDefaults() {
	cfg.GPS.Source = strings.ToLower(strings.TrimSpace(cfg.GPS.Source))
	if cfg.GPS.Source == "" {
		cfg.GPS.Source = "serial"
	}
	if cfg.GPS.Baud == 0 {
		cfg.GPS.Baud = 9600
	}
	if strings.TrimSpace(cfg.GPS.GPSDAddr) == "" {
		cfg.GPS.GPSDAddr = "127.0.0.1:2947"
	}
	if cfg.GPS.Replay.Speed == 0 {
		cfg.GPS.Replay.Speed = 1
	}
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	cfg.Log.Format = strings.ToLower(strings.TrimSpace(cfg.Log.Format))
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

// Validate reports the first invalid setting.
func (cfg Config) Validate() error {
	switch cfg.GPS.Source {
	case "serial", "gpsd", "replay":
	default:
		return fmt.Errorf("gps.source must be serial, gpsd or replay (got %q)", cfg.GPS.Source)
	}
	if cfg.GPS.Baud <= 0 {
		return fmt.Errorf("gps.baud must be > 0")
	}

	if cfg.GPS.Record.Enable {
		if cfg.GPS.Source == "replay" {
			return fmt.Errorf("gps.record cannot be used with gps.source=replay")
		}
		if strings.TrimSpace(cfg.GPS.Record.Path) == "" {
			return fmt.Errorf("gps.record.path is required when gps.record.enable is true")
		}
	}

	if cfg.GPS.Source == "replay" && strings.TrimSpace(cfg.GPS.Replay.Path) == "" {
		return fmt.Errorf("gps.replay.path is required when gps.source=replay")
	}
	if cfg.GPS.Replay.Speed < 0 {
		return fmt.Errorf("gps.replay.speed must be > 0")
	}

	switch cfg.Log.Level {
	case "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level must be one of trace, debug, info, warn, error (got %q)", cfg.Log.Level)
	}
	switch cfg.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json (got %q)", cfg.Log.Format)
	}
	return nil
}
