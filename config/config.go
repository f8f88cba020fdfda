package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	// Window of 0 looks back over the whole sequence.
	Window   int
	Format   string
	Fields   []string
	Addr     string
	LogLevel string
	Progress bool
}

func Default() Config {
	return Config{
		Window:   0,
		Format:   "lines",
		Fields:   []string{"chord", "function"},
		Addr:     ":8080",
		LogLevel: "info",
	}
}

// Load returns the defaults overridden by REPETITION_* environment variables.
func Load() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	c := Default()
	if v := getenv("REPETITION_WINDOW"); v != "" {
		window, err := strconv.Atoi(v)
		if err != nil || window < 0 {
			return c, fmt.Errorf("%w: REPETITION_WINDOW=%q", ErrInvalidConfig, v)
		}
		c.Window = window
	}
	if v := getenv("REPETITION_FORMAT"); v != "" {
		c.Format = v
	}
	if v := getenv("REPETITION_FIELDS"); v != "" {
		c.Fields = SplitList(v)
	}
	if v := getenv("REPETITION_ADDR"); v != "" {
		c.Addr = v
	}
	if v := getenv("REPETITION_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := getenv("REPETITION_PROGRESS"); v != "" {
		progress, err := strconv.ParseBool(v)
		if err != nil {
			return c, fmt.Errorf("%w: REPETITION_PROGRESS=%q", ErrInvalidConfig, v)
		}
		c.Progress = progress
	}
	return c, nil
}

// SplitList splits a comma separated list, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
