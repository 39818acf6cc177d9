// Package config loads casedesk configuration from casedesk.yaml, built-in
// defaults and environment variables.
//
// Only these variables are read, each overriding one casedesk.yaml key:
//
//	CASEDESK_API_URL            backend.base_url
//	CASEDESK_API_TIMEOUT        backend.timeout
//	CASEDESK_DUE_DILIGENCE_URL  services.due_diligence_url
//	CASEDESK_UPLOAD_URL         services.upload_url
//	CASEDESK_UPLOAD_PATH        services.upload_path
//	CASEDESK_PROCESS_URL        services.process_url
//	CASEDESK_PROCESS_PATH       services.process_path
//	CASEDESK_POLL_INTERVAL      compliance.poll_interval
//	CASEDESK_MAX_POLL_FAILURES  compliance.max_poll_failures
//	CASEDESK_HTTP_PORT          server.port
//	CASEDESK_DASHBOARD_URL      server.dashboard_url
//	CASEDESK_SESSION_TTL        server.session_ttl
//	CASEDESK_NATS_URL           nats.url
//	CASEDESK_NATS_NAME          nats.name
package config

import "time"

// Config is the resolved configuration returned by Initialize.
type Config struct {
	configDir string

	Backend    *BackendConfig    `yaml:"backend"`
	Services   *ServicesConfig   `yaml:"services"`
	Compliance *ComplianceConfig `yaml:"compliance"`
	Server     *ServerConfig     `yaml:"server"`
	NATS       *NATSConfig       `yaml:"nats"`
}

// BackendConfig points at the case-management REST backend.
type BackendConfig struct {
	BaseURL string        `yaml:"base_url" envconfig:"CASEDESK_API_URL" validate:"required,url"`
	Timeout time.Duration `yaml:"timeout" envconfig:"CASEDESK_API_TIMEOUT" validate:"gt=0"`
}

// ServicesConfig points at the AI analysis hosts.
type ServicesConfig struct {
	DueDiligenceURL string `yaml:"due_diligence_url" envconfig:"CASEDESK_DUE_DILIGENCE_URL" validate:"required,url"`
	UploadURL       string `yaml:"upload_url" envconfig:"CASEDESK_UPLOAD_URL" validate:"required,url"`
	UploadPath      string `yaml:"upload_path" envconfig:"CASEDESK_UPLOAD_PATH" validate:"required"`
	ProcessURL      string `yaml:"process_url" envconfig:"CASEDESK_PROCESS_URL" validate:"required,url"`
	ProcessPath     string `yaml:"process_path" envconfig:"CASEDESK_PROCESS_PATH" validate:"required"`
}

// ComplianceConfig tunes due-diligence polling.
type ComplianceConfig struct {
	PollInterval time.Duration `yaml:"poll_interval" envconfig:"CASEDESK_POLL_INTERVAL" validate:"gt=0"`
	// MaxPollFailures is how many consecutive transient status failures end
	// a request in error.
	MaxPollFailures int `yaml:"max_poll_failures" envconfig:"CASEDESK_MAX_POLL_FAILURES" validate:"min=1"`
}

// ServerConfig configures the dashboard HTTP server.
type ServerConfig struct {
	Port         string `yaml:"port" envconfig:"CASEDESK_HTTP_PORT" validate:"required,numeric"`
	DashboardURL string `yaml:"dashboard_url" envconfig:"CASEDESK_DASHBOARD_URL" validate:"omitempty,url"`
	// SessionTTL closes compliance sessions left unused this long.
	SessionTTL time.Duration `yaml:"session_ttl" envconfig:"CASEDESK_SESSION_TTL" validate:"gt=0"`
}

// NATSConfig enables the NATS notification publisher when URL is set.
type NATSConfig struct {
	URL  string `yaml:"url" envconfig:"CASEDESK_NATS_URL" validate:"omitempty,url"`
	Name string `yaml:"name" envconfig:"CASEDESK_NATS_NAME"`
}

// ConfigDir returns the configuration directory path
func (c *Config) ConfigDir() string {
	return c.configDir
}

// NATSEnabled reports whether notifications should be published to NATS.
func (c *Config) NATSEnabled() bool {
	return c.NATS != nil && c.NATS.URL != ""
}
