package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ConfigValidator validates configuration with clear error messages
type ConfigValidator struct {
	cfg      *Config
	validate *validator.Validate
}

// NewValidator creates a validator for the given configuration
func NewValidator(cfg *Config) *ConfigValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(yamlName)
	return &ConfigValidator{cfg: cfg, validate: v}
}

// ValidateAll validates every section (fail-fast - stops at first error)
func (v *ConfigValidator) ValidateAll() error {
	sections := []struct {
		name  string
		value any
	}{
		{"backend", v.cfg.Backend},
		{"services", v.cfg.Services},
		{"compliance", v.cfg.Compliance},
		{"server", v.cfg.Server},
		{"nats", v.cfg.NATS},
	}

	for _, s := range sections {
		if err := v.validateSection(s.name, s.value); err != nil {
			return err
		}
	}
	return nil
}

func (v *ConfigValidator) validateSection(name string, section any) error {
	err := v.validate.Struct(section)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return NewValidationError(name, fe.Field(), fmt.Errorf("%w: failed '%s' check (value %v)", ErrValidationFailed, fe.Tag(), fe.Value()))
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return NewValidationError(name, "", fmt.Errorf("%w: section missing", ErrValidationFailed))
	}
	return NewValidationError(name, "", err)
}

// yamlName reports fields by their casedesk.yaml key.
func yamlName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("yaml"), ",")
	if name == "-" {
		return ""
	}
	return name
}
