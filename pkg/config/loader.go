package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the config directory.
const FileName = "casedesk.yaml"

// Initialize loads, validates, and returns ready-to-use configuration.
// This is the primary entry point for configuration loading.
//
// Steps performed:
//  1. Start from built-in defaults
//  2. Load casedesk.yaml from configDir if present, expanding {{.VAR}} references
//  3. Merge user values over the defaults
//  4. Apply CASEDESK_* environment overrides
//  5. Validate all configuration
func Initialize(ctx context.Context, configDir string) (*Config, error) {
	log := slog.With("config_dir", configDir)
	log.Info("Initializing configuration")

	cfg, err := load(ctx, configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	log.Info("Configuration initialized successfully",
		"backend_url", cfg.Backend.BaseURL,
		"due_diligence_url", cfg.Services.DueDiligenceURL,
		"poll_interval", cfg.Compliance.PollInterval,
		"nats_enabled", cfg.NATSEnabled())

	return cfg, nil
}

// load is the internal loader (not exported)
func load(_ context.Context, configDir string) (*Config, error) {
	loader := &configLoader{configDir: configDir}
	cfg := Default()
	cfg.configDir = configDir

	user, err := loader.loadCasedeskYAML()
	switch {
	case errors.Is(err, ErrConfigNotFound):
		slog.Info("No configuration file found, using built-in defaults", "file", FileName)
	case err != nil:
		return nil, NewLoadError(FileName, err)
	default:
		if err := mergeSections(cfg, user); err != nil {
			return nil, NewLoadError(FileName, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	normalize(cfg)
	return cfg, nil
}

// validate performs comprehensive validation on loaded configuration
func validate(cfg *Config) error {
	return NewValidator(cfg).ValidateAll()
}

type configLoader struct {
	configDir string
}

func (l *configLoader) loadYAML(filename string, target any) error {
	path := filepath.Join(l.configDir, filename)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return err
	}

	// ExpandEnv passes through original data on template errors so the
	// YAML parser reports them.
	data = ExpandEnv(data)

	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}

	return nil
}

func (l *configLoader) loadCasedeskYAML() (*Config, error) {
	var config Config
	if err := l.loadYAML(FileName, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

// mergeSections merges each user-provided section over its defaults
// (non-zero values override).
func mergeSections(dst, src *Config) error {
	if src.Backend != nil {
		if err := mergo.Merge(dst.Backend, src.Backend, mergo.WithOverride); err != nil {
			return fmt.Errorf("failed to merge backend config: %w", err)
		}
	}
	if src.Services != nil {
		if err := mergo.Merge(dst.Services, src.Services, mergo.WithOverride); err != nil {
			return fmt.Errorf("failed to merge services config: %w", err)
		}
	}
	if src.Compliance != nil {
		if err := mergo.Merge(dst.Compliance, src.Compliance, mergo.WithOverride); err != nil {
			return fmt.Errorf("failed to merge compliance config: %w", err)
		}
	}
	if src.Server != nil {
		if err := mergo.Merge(dst.Server, src.Server, mergo.WithOverride); err != nil {
			return fmt.Errorf("failed to merge server config: %w", err)
		}
	}
	if src.NATS != nil {
		if err := mergo.Merge(dst.NATS, src.NATS, mergo.WithOverride); err != nil {
			return fmt.Errorf("failed to merge nats config: %w", err)
		}
	}
	return nil
}

// applyEnv overrides values from CASEDESK_* variables. Unset variables keep
// the YAML or built-in value. Tags carry the full variable name and no prefix
// is passed, so envconfig never falls back to an unprefixed name.
func applyEnv(cfg *Config) error {
	sections := []any{cfg.Backend, cfg.Services, cfg.Compliance, cfg.Server, cfg.NATS}
	for _, section := range sections {
		if err := envconfig.Process("", section); err != nil {
			return err
		}
	}
	return nil
}

func normalize(cfg *Config) {
	cfg.Backend.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.Backend.BaseURL), "/")
	cfg.Services.DueDiligenceURL = strings.TrimRight(strings.TrimSpace(cfg.Services.DueDiligenceURL), "/")
	cfg.Services.UploadURL = strings.TrimRight(strings.TrimSpace(cfg.Services.UploadURL), "/")
	cfg.Services.ProcessURL = strings.TrimRight(strings.TrimSpace(cfg.Services.ProcessURL), "/")
}
