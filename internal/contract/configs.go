package contract

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/selwyntheo/fund-services-architect/schema"
)

// Default values for configuration.
const (
	DefaultCommitLookbackDays   = 90
	DefaultPipelineLookbackDays = 30
	DefaultResultLimit          = 25
	MaxResultLimit              = 1000
	DefaultPrecision            = 1
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// WeightsRawInput holds category weight overrides from the YAML config file.
// Use float64 pointers so absence can be told apart from an explicit zero.
type WeightsRawInput struct {
	CodeQuality    *float64 `mapstructure:"code_quality"`
	Architecture   *float64 `mapstructure:"architecture"`
	Infrastructure *float64 `mapstructure:"infrastructure"`
	Operations     *float64 `mapstructure:"operations"`
}

// Config holds the runtime configuration for a scan.
// This struct remains the "final, validated" config.
type Config struct {
	RepoPath    string
	ProjectName string
	Targets     []string // Additional repository roots for batch scans
	Workers     int
	ResultLimit int
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)

	CommitLookback time.Duration
	PipelinesFile  string

	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string // Please use env var as this is plaintext

	// Weights is the final per-category weight map, computed from
	// defaults plus any overrides from the config file.
	Weights map[schema.Category]float64

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// These are set manually from positional args, so no tag
	RepoPathStr string
	TargetStrs  []string

	// --- Fields from rootCmd.PersistentFlags() ---
	ProjectName    string `mapstructure:"name"`
	OutputFile     string `mapstructure:"output-file"`
	Limit          int    `mapstructure:"limit"`
	Workers        int    `mapstructure:"workers"`
	Precision      int    `mapstructure:"precision"`
	Output         string `mapstructure:"output"`
	Width          int    `mapstructure:"width"`
	LookbackDays   int    `mapstructure:"lookback-days"`
	PipelinesFile  string `mapstructure:"pipelines"`
	StoreBackend   string `mapstructure:"store-backend"`
	StoreDBConnect string `mapstructure:"store-db-connect"`
	Emoji          string `mapstructure:"emoji"`
	Color          string `mapstructure:"color"`

	// --- Custom weights from config file ---
	Weights WeightsRawInput `mapstructure:"weights"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Targets != nil {
		clone.Targets = make([]string, len(c.Targets))
		copy(clone.Targets, c.Targets)
	}
	if c.Weights != nil {
		clone.Weights = make(map[schema.Category]float64)
		maps.Copy(clone.Weights, c.Weights)
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	// All validation functions read from 'input' and populate 'cfg'.
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processWeights(cfg, input); err != nil {
		return err
	}
	if err := resolveRepoPaths(ctx, cfg, client, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection
// strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.ProjectName = input.ProjectName
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.PipelinesFile = input.PipelinesFile

	// Parse emoji flag
	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 2. Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 3. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", cfg.Output)
	}

	// --- 4. Lookback Validation ---
	if input.LookbackDays <= 0 {
		return fmt.Errorf("lookback-days must be greater than 0 (received %d)", input.LookbackDays)
	}
	cfg.CommitLookback = time.Duration(input.LookbackDays) * 24 * time.Hour

	// --- 5. Backend Validation ---
	cfg.StoreBackend = schema.DatabaseBackend(strings.ToLower(input.StoreBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", input.StoreBackend)
	}
	cfg.StoreDBConnect = input.StoreDBConnect
	if err := ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreDBConnect); err != nil {
		return err
	}

	return nil
}

// ProcessWeightsRawInput converts WeightsRawInput into a category weight map.
// Overrides are all-or-nothing: the four category weights interlock, so a
// partial override would silently skew the untouched ones. If validateSum is
// true the provided weights must sum to 1.0.
func ProcessWeightsRawInput(weights WeightsRawInput, validateSum bool) (map[schema.Category]float64, error) {
	provided := map[schema.Category]*float64{
		schema.CodeQuality:    weights.CodeQuality,
		schema.Architecture:   weights.Architecture,
		schema.Infrastructure: weights.Infrastructure,
		schema.Operations:     weights.Operations,
	}

	result := make(map[schema.Category]float64)
	sum := 0.0
	for category, value := range provided {
		if value == nil {
			continue
		}
		if *value < 0 {
			return nil, fmt.Errorf("weight for %s cannot be negative, got %.3f", category, *value)
		}
		result[category] = *value
		sum += *value
	}

	if len(result) == 0 {
		return nil, nil
	}
	if len(result) != len(provided) {
		return nil, fmt.Errorf("weight overrides must set all four categories (code_quality, architecture, infrastructure, operations), got %d", len(result))
	}
	if validateSum && (sum < 0.999 || sum > 1.001) {
		return nil, fmt.Errorf("category weights must sum to 1.0, got %.3f", sum)
	}
	return result, nil
}

// processWeights converts the raw input into the final cfg.Weights map,
// starting from the defaults and applying any override from the config file.
func processWeights(cfg *Config, input *ConfigRawInput) error {
	custom, err := ProcessWeightsRawInput(input.Weights, true)
	if err != nil {
		return err
	}

	cfg.Weights = make(map[schema.Category]float64)
	maps.Copy(cfg.Weights, schema.DefaultCategoryWeights)
	if custom != nil {
		maps.Copy(cfg.Weights, custom)
	}
	return nil
}

// resolveRepoPaths resolves the primary repository path and any batch targets
// to absolute directory paths. A path does not have to be a Git repository;
// commit-history metrics simply stay empty for plain directories.
func resolveRepoPaths(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	resolve := func(raw string) (string, error) {
		abs, err := filepath.Abs(raw)
		if err != nil {
			return "", fmt.Errorf("cannot resolve path %q: %w", raw, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return "", fmt.Errorf("cannot access path %q: %w", raw, err)
		}
		if !info.IsDir() {
			return "", fmt.Errorf("path %q is not a directory", raw)
		}
		return abs, nil
	}

	raw := input.RepoPathStr
	if raw == "" {
		raw = "."
	}
	abs, err := resolve(raw)
	if err != nil {
		return err
	}

	// Prefer the Git repository root when the path sits inside one, so a scan
	// started from a subdirectory still sees the whole project.
	if client != nil {
		if root, rootErr := client.GetRepoRoot(ctx, abs); rootErr == nil {
			abs = root
		}
	}
	cfg.RepoPath = abs

	if cfg.ProjectName == "" {
		cfg.ProjectName = filepath.Base(abs)
	}

	cfg.Targets = nil
	for _, target := range input.TargetStrs {
		targetAbs, err := resolve(target)
		if err != nil {
			return err
		}
		cfg.Targets = append(cfg.Targets, targetAbs)
	}

	return nil
}
