package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"
)

func TestExpandEnv(t *testing.T) {
	tests := []struct {
		name  string
		input string
		env   map[string]string
		want  string
	}{
		{
			name:  "simple substitution",
			input: "base_url: {{.CASEDESK_TEST_HOST}}",
			env:   map[string]string{"CASEDESK_TEST_HOST": "https://api.example.law"},
			want:  "base_url: https://api.example.law",
		},
		{
			name:  "shell syntax is not expanded",
			input: "base_url: ${CASEDESK_TEST_HOST}",
			env:   map[string]string{"CASEDESK_TEST_HOST": "x"},
			want:  "base_url: ${CASEDESK_TEST_HOST}",
		},
		{
			name:  "missing variable expands to empty",
			input: "url: {{.CASEDESK_TEST_MISSING}}",
			want:  "url: ",
		},
		{
			name:  "several variables in one value",
			input: "url: https://{{.CASEDESK_TEST_HOST}}:{{.CASEDESK_TEST_PORT}}",
			env:   map[string]string{"CASEDESK_TEST_HOST": "nats.local", "CASEDESK_TEST_PORT": "4222"},
			want:  "url: https://nats.local:4222",
		},
		{
			name:  "value containing equals sign",
			input: "token: {{.CASEDESK_TEST_TOKEN}}",
			env:   map[string]string{"CASEDESK_TEST_TOKEN": "a=b=c"},
			want:  "token: a=b=c",
		},
		{
			name:  "malformed template returned unchanged",
			input: "url: {{.BROKEN",
			want:  "url: {{.BROKEN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			assert.Equal(t, tt.want, string(ExpandEnv([]byte(tt.input))))
		})
	}
}

func TestExpandEnvFeedsYAMLParser(t *testing.T) {
	t.Setenv("CASEDESK_TEST_HOST", "https://api.example.law")

	var out struct {
		Backend struct {
			BaseURL string `yaml:"base_url"`
		} `yaml:"backend"`
	}
	data := ExpandEnv([]byte("backend:\n  base_url: \"{{.CASEDESK_TEST_HOST}}\"\n"))
	assert.NoError(t, yaml.Unmarshal(data, &out))
	assert.Equal(t, "https://api.example.law", out.Backend.BaseURL)
}
