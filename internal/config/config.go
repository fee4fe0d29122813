package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/wippyai/wcp-tools/errors"
)

const (
	EnvLogLevel   = "WCP_LOG_LEVEL"
	EnvLogFormat  = "WCP_LOG_FORMAT"
	EnvLogNoColor = "WCP_LOG_NOCOLOR"
)

type Log struct {
	Level   string
	Format  string
	NoColor bool
}

type Server struct {
	Addr           string
	MaxUploadBytes int64
}

type Watch struct {
	Patterns []string
	OutDir   string
	Debounce time.Duration
}

type Export struct {
	// Extension is appended to converted file names, including the dot.
	Extension string
}

type Config struct {
	Watch  Watch
	Log    Log
	Export Export
	Server Server
}

func Default() Config {
	return Config{
		Log: Log{
			Level:  "info",
			Format: "console",
		},
		Server: Server{
			Addr:           "127.0.0.1:8765",
			MaxUploadBytes: 64 << 20,
		},
		Watch: Watch{
			Patterns: []string{"**/*.wcp"},
			Debounce: 100 * time.Millisecond,
		},
		Export: Export{
			Extension: ".vcd",
		},
	}
}

type fileConfig struct {
	Log struct {
		Level   string `toml:"level"`
		Format  string `toml:"format"`
		NoColor bool   `toml:"no_color"`
	} `toml:"log"`
	Server struct {
		Addr           string `toml:"addr"`
		MaxUploadBytes int64  `toml:"max_upload_bytes"`
	} `toml:"server"`
	Watch struct {
		Patterns []string `toml:"patterns"`
		OutDir   string   `toml:"out_dir"`
		Debounce string   `toml:"debounce"`
	} `toml:"watch"`
	Export struct {
		Extension string `toml:"extension"`
	} `toml:"export"`
}

// Load returns the defaults overlaid with the keys present in the TOML file
// at path, then with WCP_LOG_* environment overrides. An empty path skips the
// file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		var raw fileConfig
		meta, err := toml.DecodeFile(path, &raw)
		if err != nil {
			return Config{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "load "+path)
		}
		if err := overlay(&cfg, &raw, meta); err != nil {
			return Config{}, err
		}
	}

	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func overlay(cfg *Config, raw *fileConfig, meta toml.MetaData) error {
	if meta.IsDefined("log", "level") {
		cfg.Log.Level = strings.TrimSpace(raw.Log.Level)
	}
	if meta.IsDefined("log", "format") {
		cfg.Log.Format = strings.TrimSpace(raw.Log.Format)
	}
	if meta.IsDefined("log", "no_color") {
		cfg.Log.NoColor = raw.Log.NoColor
	}

	if meta.IsDefined("server", "addr") {
		cfg.Server.Addr = strings.TrimSpace(raw.Server.Addr)
	}
	if meta.IsDefined("server", "max_upload_bytes") {
		cfg.Server.MaxUploadBytes = raw.Server.MaxUploadBytes
	}

	if meta.IsDefined("watch", "patterns") {
		cfg.Watch.Patterns = normalizePatterns(raw.Watch.Patterns)
	}
	if meta.IsDefined("watch", "out_dir") {
		cfg.Watch.OutDir = strings.TrimSpace(raw.Watch.OutDir)
	}
	if meta.IsDefined("watch", "debounce") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Watch.Debounce))
		if err != nil {
			return errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "parse watch.debounce")
		}
		cfg.Watch.Debounce = d
	}

	if meta.IsDefined("export", "extension") {
		cfg.Export.Extension = strings.TrimSpace(raw.Export.Extension)
	}
	return nil
}

func normalizePatterns(in []string) []string {
	out := make([]string, 0, len(in))
	for _, p := range in {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Log.Format = strings.ToLower(v)
	}
	if v, ok := parseBool(os.Getenv(EnvLogNoColor)); ok {
		cfg.Log.NoColor = v
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return invalid("log.level", c.Log.Level)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return invalid("log.format", c.Log.Format)
	}
	if c.Server.Addr == "" {
		return invalid("server.addr", c.Server.Addr)
	}
	if c.Server.MaxUploadBytes <= 0 {
		return invalid("server.max_upload_bytes", strconv.FormatInt(c.Server.MaxUploadBytes, 10))
	}
	if c.Watch.Debounce < 0 {
		return invalid("watch.debounce", c.Watch.Debounce.String())
	}
	if !strings.HasPrefix(c.Export.Extension, ".") {
		return invalid("export.extension", c.Export.Extension)
	}
	return nil
}

func invalid(key, value string) error {
	return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
		Value(value).
		Detail("invalid %s %q", key, value).
		Build()
}
