package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/vancomm/smines/internal/mines"
)

type Duration struct{ time.Duration }

// [Duration] implements [json.Marshaler]
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		var err error
		d.Duration, err = time.ParseDuration(value)
		if err != nil {
			return err
		}
		return nil
	default:
		return errors.New("invalid duration")
	}
}

// [Duration] implements [yaml.Unmarshaler]
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var n int64
	if err := node.Decode(&n); err == nil {
		d.Duration = time.Duration(n)
		return nil
	}
	var s string
	if err := node.Decode(&s); err != nil {
		return errors.New("invalid duration")
	}
	var err error
	d.Duration, err = time.ParseDuration(s)
	return err
}

type LogConfig struct {
	Level      string `json:"level" yaml:"level"`
	File       string `json:"file" yaml:"file"`
	MaxSizeMB  int    `json:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `json:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `json:"max_age_days" yaml:"max_age_days"`
}

type Config struct {
	Mode       string    `json:"mode" yaml:"mode"`
	Difficulty string    `json:"difficulty" yaml:"difficulty"`
	Width      int       `json:"width" yaml:"width"`
	Height     int       `json:"height" yaml:"height"`
	Mines      int       `json:"mines" yaml:"mines"`
	AllowUndo  bool      `json:"allow_undo" yaml:"allow_undo"`
	Seed       *uint64   `json:"seed,omitempty" yaml:"seed,omitempty"`
	Tick       Duration  `json:"tick" yaml:"tick"`
	Log        LogConfig `json:"log" yaml:"log"`
}

func Default() Config {
	return Config{
		Mode:       "production",
		Difficulty: "easy",
		Tick:       Duration{time.Second},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

func (c Config) Fields() logrus.Fields {
	fields := logrus.Fields{
		"mode":       c.Mode,
		"difficulty": c.Difficulty,
		"width":      c.Width,
		"height":     c.Height,
		"mines":      c.Mines,
		"allow_undo": c.AllowUndo,
		"tick":       c.Tick.Duration.String(),
		"log_level":  c.Log.Level,
		"log_file":   c.Log.File,
	}
	if c.Seed != nil {
		fields["seed"] = *c.Seed
	}
	return fields
}

func (c Config) Production() bool {
	return c.Mode == "production"
}

func (c Config) Development() bool {
	return c.Mode != "production"
}

// GameParams resolves the difficulty preset, then lets any non-zero
// width, height or mine count override it.
func (c Config) GameParams() (mines.GameParams, error) {
	var params mines.GameParams
	if c.Difficulty != "" {
		preset, err := mines.LookupPreset(c.Difficulty)
		if err != nil {
			return params, err
		}
		params = preset
	}
	if c.Width != 0 {
		params.Width = c.Width
	}
	if c.Height != 0 {
		params.Height = c.Height
	}
	if c.Mines != 0 {
		params.MineCount = c.Mines
	}
	if err := params.Validate(); err != nil {
		return params, err
	}
	return params, nil
}

// ReadConfig decodes the file at path over config. Files ending in .yaml or
// .yml are read as YAML, anything else as JSON.
func ReadConfig(path string, config *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, config)
	default:
		err = json.Unmarshal(b, config)
	}
	if err != nil {
		return fmt.Errorf("unable to parse config %s: %w", path, err)
	}
	return nil
}
