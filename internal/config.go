package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/adrgraph/internal/parser"
	"github.com/starford/adrgraph/internal/report"
	"github.com/starford/adrgraph/internal/validator"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Report formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

var markerRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Corpus CorpusConfig      `yaml:"corpus"`
	Report ReportConfig      `yaml:"report"`
	Map    MapConfig         `yaml:"map"`
	SQLite SQLiteConfig      `yaml:"sqlite"`
	Auth   AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Corpus.Validate(); err != nil {
		return fmt.Errorf("corpus: %w", err)
	}
	if err := c.Report.Validate(); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	if err := c.Map.Validate(); err != nil {
		return fmt.Errorf("map: %w", err)
	}
	if err := c.SQLite.Validate(); err != nil {
		return fmt.Errorf("sqlite: %w", err)
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// CorpusConfig locates the decision records.
//
// Pattern is a doublestar glob relative to Root; Marker is the reference
// prefix, so "ADR" matches "ADR-0001". Exclude lists case-insensitive
// globs for companion files (README, templates, proposals) to skip.
type CorpusConfig struct {
	Root    string   `yaml:"root"`
	Pattern string   `yaml:"pattern"`
	Exclude []string `yaml:"exclude"`
	Marker  string   `yaml:"marker"`
}

// Validate validates the corpus configuration.
func (c *CorpusConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Root, validation.Required),
		validation.Field(&c.Pattern, validation.Required, validation.By(globPattern)),
		validation.Field(&c.Exclude, validation.Each(validation.Required, validation.By(globPattern))),
		validation.Field(&c.Marker, validation.Required, validation.Match(markerRe)),
	)
}

func globPattern(value any) error {
	s, _ := value.(string)
	if !doublestar.ValidatePattern(s) {
		return errors.New("must be a valid glob pattern")
	}
	return nil
}

// ReportConfig controls report rendering.
type ReportConfig struct {
	Format       string `yaml:"format"`
	Color        bool   `yaml:"color"`
	DedupeCycles bool   `yaml:"dedupe_cycles"`
}

// Validate validates the report configuration.
func (c *ReportConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Format, validation.Required, validation.In(FormatText, FormatJSON)),
	)
}

// MapConfig controls the generated relationship map.
type MapConfig struct {
	Output     string            `yaml:"output"`
	Categories []report.Category `yaml:"categories"`
}

// Validate validates the map configuration.
func (c *MapConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Output, validation.Required),
		validation.Field(&c.Categories, validation.Each(validation.By(categoryRange))),
	)
}

func categoryRange(value any) error {
	cat, _ := value.(report.Category)
	switch {
	case cat.Name == "":
		return errors.New("name is required")
	case cat.Min < 0:
		return fmt.Errorf("%s: min must not be negative", cat.Name)
	case cat.Max >= 0 && cat.Max < cat.Min:
		return fmt.Errorf("%s: max must be >= min or negative for unbounded", cat.Name)
	}
	return nil
}

// SQLiteConfig holds SQLite export configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds authentication configuration for the HTTP API.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Corpus: CorpusConfig{
			Root:    "docs/adr",
			Pattern: validator.DefaultPattern,
			Exclude: slices.Clone(validator.DefaultExclude),
			Marker:  parser.DefaultMarker,
		},
		Report: ReportConfig{
			Format: FormatText,
			Color:  true,
		},
		Map: MapConfig{
			Output: "docs/adr/RELATIONSHIP-MAP.md",
		},
		SQLite: SQLiteConfig{
			Path: "./adrgraph.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
