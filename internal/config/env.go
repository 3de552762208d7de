package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// LoadEnv overrides config with any SMINES_* variables that are set.
func LoadEnv(config *Config) error {
	if Development() {
		config.Mode = "development"
	}
	if mode, ok := os.LookupEnv("SMINES_MODE"); ok {
		config.Mode = mode
	}
	if difficulty, ok := os.LookupEnv("SMINES_DIFFICULTY"); ok {
		config.Difficulty = difficulty
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"SMINES_WIDTH", &config.Width},
		{"SMINES_HEIGHT", &config.Height},
		{"SMINES_MINES", &config.Mines},
	}
	for _, v := range ints {
		s, ok := os.LookupEnv(v.name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("unable to convert %s to int: %w", v.name, err)
		}
		*v.dst = n
	}

	if s, ok := os.LookupEnv("SMINES_ALLOW_UNDO"); ok {
		config.AllowUndo = s != "0"
	}
	if s, ok := os.LookupEnv("SMINES_SEED"); ok {
		seed, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return fmt.Errorf("unable to convert SMINES_SEED to uint: %w", err)
		}
		config.Seed = &seed
	}
	if s, ok := os.LookupEnv("SMINES_TICK"); ok {
		tick, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("unable to parse SMINES_TICK: %w", err)
		}
		config.Tick = Duration{tick}
	}
	if level, ok := os.LookupEnv("SMINES_LOG_LEVEL"); ok {
		config.Log.Level = level
	}
	if file, ok := os.LookupEnv("SMINES_LOG_FILE"); ok {
		config.Log.File = file
	}
	return nil
}
