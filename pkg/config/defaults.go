package config

import "time"

// Built-in production hosts, used when neither casedesk.yaml nor the
// environment overrides them.
const (
	DefaultBackendURL      = "https://api.casedesk.app"
	DefaultDueDiligenceURL = "https://compliance.casedesk.app"
	DefaultUploadURL       = "https://docs.casedesk.app"
	DefaultProcessURL      = "https://analysis.casedesk.app"
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Backend: &BackendConfig{
			BaseURL: DefaultBackendURL,
			Timeout: 30 * time.Second,
		},
		Services: &ServicesConfig{
			DueDiligenceURL: DefaultDueDiligenceURL,
			UploadURL:       DefaultUploadURL,
			UploadPath:      "/upload",
			ProcessURL:      DefaultProcessURL,
			ProcessPath:     "/process",
		},
		Compliance: &ComplianceConfig{
			PollInterval:    5 * time.Second,
			MaxPollFailures: 3,
		},
		Server: &ServerConfig{
			Port:       "8080",
			SessionTTL: 30 * time.Minute,
		},
		NATS: &NATSConfig{
			Name: "casedesk",
		},
	}
}
