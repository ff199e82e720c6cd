package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"gopkg.in/yaml.v3"
)

// Log output formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// DefaultRemoveFields lists the upstream attributes the web app never reads.
var DefaultRemoveFields = []string{
	"code",
	"set_code",
	"side_code",
	"faction_code",
	"type_code",
	"subtype_code",
	"cyclenumber",
	"limited",
	"faction_letter",
	"last-modified",
	"url",
}

// Config represents the application configuration
type Config struct {
	API       APIConfig       `toml:"api" yaml:"api"`
	Store     StoreConfig     `toml:"store" yaml:"store"`
	Images    ImageConfig     `toml:"images" yaml:"images"`
	Transform TransformConfig `toml:"transform" yaml:"transform"`
	Log       LogConfig       `toml:"log" yaml:"log"`
}

// APIConfig describes the upstream card catalog.
type APIConfig struct {
	URL       string   `toml:"url" yaml:"url"`
	ImageBase string   `toml:"image_base" yaml:"image_base"`
	Timeout   Duration `toml:"timeout" yaml:"timeout"`
	UserAgent string   `toml:"user_agent" yaml:"user_agent"`
}

// StoreConfig points at the local card database.
type StoreConfig struct {
	Path string `toml:"path" yaml:"path"`
}

// ImageConfig controls image materialization.
type ImageConfig struct {
	Dir       string  `toml:"dir" yaml:"dir"`
	URLPrefix string  `toml:"url_prefix" yaml:"url_prefix"`
	Width     int     `toml:"width" yaml:"width"`
	Rate      float64 `toml:"rate" yaml:"rate"` // downloads per second
}

// TransformConfig holds the values the transform used to hard-code.
type TransformConfig struct {
	BannedTitle   string   `toml:"banned_title" yaml:"banned_title"`
	IcebreakerTag string   `toml:"icebreaker_tag" yaml:"icebreaker_tag"`
	RemoveFields  []string `toml:"remove_fields" yaml:"remove_fields"`
}

// LogConfig selects the slog level and handler.
type LogConfig struct {
	Level  slog.Level `toml:"level" yaml:"level"`
	Format string     `toml:"format" yaml:"format"`
}

// Duration is a time.Duration read from strings such as "30s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML lets yaml.v3 decode durations from scalars.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.UnmarshalText([]byte(node.Value))
}

// GetXDGDataHome returns XDG_DATA_HOME or default path
func GetXDGDataHome() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return xdgData
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".local", "share")
}

// GetXDGConfigHome returns XDG_CONFIG_HOME or default path
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

// GetDataDir returns the directory holding the card store and images
func GetDataDir() string {
	return filepath.Join(GetXDGDataHome(), "cardsync")
}

// GetConfigFilePath returns the path to the config file
func GetConfigFilePath() string {
	return filepath.Join(GetXDGConfigHome(), "cardsync", "config.toml")
}

// Default returns the configuration used when no file overrides it.
func Default() *Config {
	dataDir := GetDataDir()
	return &Config{
		API: APIConfig{
			URL:       "https://netrunnerdb.com/api/cards/",
			ImageBase: "https://netrunnerdb.com",
			Timeout:   Duration{30 * time.Second},
			UserAgent: "cardsync/1.0 (+https://github.com/arcanaland/cardsync)",
		},
		Store: StoreConfig{
			Path: filepath.Join(dataDir, "cards.json"),
		},
		Images: ImageConfig{
			Dir:       filepath.Join(dataDir, "images", "cards"),
			URLPrefix: "/images/cards/",
			Width:     300,
			Rate:      1,
		},
		Transform: TransformConfig{
			BannedTitle:   "Chronos Protocol",
			IcebreakerTag: "icebreaker",
			RemoveFields:  append([]string(nil), DefaultRemoveFields...),
		},
		Log: LogConfig{
			Level:  slog.LevelInfo,
			Format: LogFormatText,
		},
	}
}

// Load reads the config file at path over the defaults. An empty path means
// the XDG location. A missing file is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = GetConfigFilePath()
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("error decoding config file %s: %w", path, err)
		}
	default:
		if _, err := toml.Decode(expanded, cfg); err != nil {
			return nil, fmt.Errorf("error decoding config file %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// WriteDefault creates a default config file at path unless one exists.
func WriteDefault(path string) (*Config, error) {
	if path == "" {
		path = GetConfigFilePath()
	}

	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("error creating config directory: %w", err)
	}

	cfg := Default()

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("error creating config file: %w", err)
	}
	defer file.Close()

	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return nil, fmt.Errorf("error encoding config: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.API),
		validation.Field(&c.Store),
		validation.Field(&c.Images),
		validation.Field(&c.Transform),
		validation.Field(&c.Log),
	)
}

// Validate validates the API configuration.
func (c APIConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.URL, validation.Required, is.URL),
		validation.Field(&c.ImageBase, validation.Required, is.URL),
		validation.Field(&c.Timeout, validation.By(positiveDuration)),
	)
}

// Validate validates the store configuration.
func (c StoreConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Path, validation.Required),
	)
}

// Validate validates the image configuration.
func (c ImageConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Dir, validation.Required),
		validation.Field(&c.URLPrefix, validation.Required),
		validation.Field(&c.Width, validation.Min(0)),
		validation.Field(&c.Rate, validation.Min(0.0)),
	)
}

// Validate validates the transform configuration.
func (c TransformConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.BannedTitle, validation.Required),
		validation.Field(&c.IcebreakerTag, validation.Required),
		validation.Field(&c.RemoveFields, validation.Each(validation.Required)),
	)
}

// Validate validates the log configuration.
func (c LogConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Format, validation.In(LogFormatText, LogFormatJSON)),
	)
}

func positiveDuration(value any) error {
	d, _ := value.(Duration)
	if d.Duration <= 0 {
		return fmt.Errorf("must be positive")
	}
	return nil
}
