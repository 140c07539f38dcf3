// Package config holds the tunable parameters of the card detector and reads
// them from a TOML file.
//
// Every parameter has a default calibrated for the reference captures. A
// file only needs the keys it changes; unknown keys are rejected so a typo
// does not silently fall back to a default.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/shirou/gopsutil/v3/cpu"

	"github.com/ironsheep/cardmatch/internal/card"
	"github.com/ironsheep/cardmatch/internal/detection"
	"github.com/ironsheep/cardmatch/internal/rank"
)

// EnvLogLevel overrides the log_level setting.
const EnvLogLevel = "CARDMATCH_LOG_LEVEL"

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

var logLevels = []string{"debug", "info", "warn", "error"}

// Config is the detector configuration.
type Config struct {
	CardMinArea         float64 `toml:"card_min_area"`
	CardMaxArea         float64 `toml:"card_max_area"`
	PolyApproxFactor    float64 `toml:"poly_approx_factor"`
	CardThreshold       int     `toml:"card_threshold"`
	RankRejectThreshold float64 `toml:"rank_reject_threshold"`
	BlurRadius          float64 `toml:"blur_radius"`
	CornerWidth         int     `toml:"corner_width"`
	CornerHeight        int     `toml:"corner_height"`
	TemplateDir         string  `toml:"template_dir"`

	// Workers bounds the number of candidates processed at once. Zero means
	// one per CPU.
	Workers  int    `toml:"workers"`
	LogLevel string `toml:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	det := detection.DefaultOptions()
	ext := rank.DefaultExtractOptions()
	return Config{
		CardMinArea:         det.MinArea,
		CardMaxArea:         det.MaxArea,
		PolyApproxFactor:    det.PolyApproxFactor,
		CardThreshold:       int(det.Threshold),
		RankRejectThreshold: rank.DefaultRejectThreshold,
		BlurRadius:          det.BlurRadius,
		CornerWidth:         ext.CornerWidth,
		CornerHeight:        ext.CornerHeight,
		TemplateDir:         "templates",
		Workers:             0,
		LogLevel:            "info",
	}
}

// GetXDGConfigHome returns XDG_CONFIG_HOME or its default.
func GetXDGConfigHome() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return xdgConfig
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config")
}

// DefaultPath is where Load looks when no path is given.
func DefaultPath() string {
	return filepath.Join(GetXDGConfigHome(), "cardmatch", "config.toml")
}

// Load reads the configuration at path on top of the defaults and applies
// the environment override. An empty path reads DefaultPath when it exists
// and otherwise returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
		if _, err := os.Stat(path); err != nil {
			cfg.ApplyEnv()
			return cfg, cfg.Validate()
		}
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("%w: unknown keys in %s: %s", ErrInvalid, path, strings.Join(keys, ", "))
	}

	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Write encodes cfg as TOML to path, creating parent directories.
func Write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	return Encode(file, cfg)
}

// Encode writes cfg to w as TOML.
func Encode(w io.Writer, cfg Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ApplyEnv applies environment overrides.
func (c *Config) ApplyEnv() {
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.LogLevel = strings.ToLower(level)
	}
}

// Validate checks every value against its allowed range.
func (c Config) Validate() error {
	var problems []string
	if c.CardMinArea <= 0 {
		problems = append(problems, "card_min_area must be positive")
	}
	if c.CardMaxArea < c.CardMinArea {
		problems = append(problems, "card_max_area must not be below card_min_area")
	}
	if c.PolyApproxFactor <= 0 || c.PolyApproxFactor >= 1 {
		problems = append(problems, "poly_approx_factor must be in (0, 1)")
	}
	if c.CardThreshold < 0 || c.CardThreshold > 255 {
		problems = append(problems, "card_threshold must be in [0, 255]")
	}
	if c.RankRejectThreshold <= 0 {
		problems = append(problems, "rank_reject_threshold must be positive")
	}
	if c.BlurRadius < 0 {
		problems = append(problems, "blur_radius must not be negative")
	}
	if c.CornerWidth <= 0 || c.CornerWidth > card.NormalizedWidth {
		problems = append(problems, fmt.Sprintf("corner_width must be in [1, %d]", card.NormalizedWidth))
	}
	if c.CornerHeight <= 0 || c.CornerHeight > card.NormalizedHeight {
		problems = append(problems, fmt.Sprintf("corner_height must be in [1, %d]", card.NormalizedHeight))
	}
	if c.Workers < 0 {
		problems = append(problems, "workers must not be negative")
	}
	if !validLogLevel(c.LogLevel) {
		problems = append(problems, fmt.Sprintf("log_level must be one of %s", strings.Join(logLevels, ", ")))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

func validLogLevel(level string) bool {
	for _, l := range logLevels {
		if l == level {
			return true
		}
	}
	return false
}

// Debug reports whether debug logging is enabled.
func (c Config) Debug() bool {
	return c.LogLevel == "debug"
}

// DetectionOptions returns the shape extractor settings.
func (c Config) DetectionOptions() detection.Options {
	return detection.Options{
		Threshold:        uint8(c.CardThreshold),
		BlurRadius:       c.BlurRadius,
		MinArea:          c.CardMinArea,
		MaxArea:          c.CardMaxArea,
		PolyApproxFactor: c.PolyApproxFactor,
	}
}

// ExtractOptions returns the rank region settings.
func (c Config) ExtractOptions() rank.ExtractOptions {
	return rank.ExtractOptions{CornerWidth: c.CornerWidth, CornerHeight: c.CornerHeight}
}

// WorkerCount resolves Workers to a concrete pool size. Zero means one
// worker per physical core, or per logical CPU when the core count is
// unknown.
func (c Config) WorkerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	if n, err := cpu.Counts(false); err == nil && n > 0 {
		return n
	}
	return runtime.NumCPU()
}
