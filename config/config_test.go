package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
handlers:
  - name: app_log
    level: DEBUG
    output: /var/log/app.log
    format: "%(asctime)s %(message)s"
    rolling_type: size
    rolling_value: 1048576
    backup_count: 3
  - name: alerts
    level: ERROR
    remote_url: https://logs.example.com/ingest
    method: PUT
  - name: audit
    level: INFO
    syslog_address: localhost:514
    include_filter: "audit:"
    case_insensitive: true
`

func TestParse_YAML(t *testing.T) {
	doc, err := Parse([]byte(sampleYAML), YAML)
	require.NoError(t, err)
	require.Len(t, doc.Handlers, 3)

	h := doc.Handlers[0]
	assert.Equal(t, "app_log", h.Name)
	assert.Equal(t, "DEBUG", h.Level)
	assert.Equal(t, "/var/log/app.log", h.Output)
	assert.Equal(t, "%(asctime)s %(message)s", h.Format)
	assert.Equal(t, "size", h.RollingType)
	assert.Equal(t, 3, h.BackupCount)

	assert.Equal(t, "https://logs.example.com/ingest", doc.Handlers[1].RemoteURL)
	assert.Equal(t, "PUT", doc.Handlers[1].Method)

	assert.Equal(t, "localhost:514", doc.Handlers[2].SyslogAddress)
	assert.Equal(t, "audit:", doc.Handlers[2].IncludeFilter)
	assert.True(t, doc.Handlers[2].CaseInsensitive)
}

func TestParse_JSON(t *testing.T) {
	data := `{
		"handlers": [
			{"name": "console_out", "level": "WARNING", "json_format": true,
			 "extra_fields": {"service": "billing"}}
		]
	}`
	doc, err := Parse([]byte(data), JSON)
	require.NoError(t, err)
	require.Len(t, doc.Handlers, 1)

	h := doc.Handlers[0]
	assert.True(t, h.JSONFormat)
	assert.Equal(t, "billing", h.ExtraFields["service"])
}

func TestParse_UnknownKeysIgnored(t *testing.T) {
	data := `
version: 2
reload: true
handlers:
  - name: only
    level: INFO
    future_option: whatever
`
	doc, err := Parse([]byte(data), YAML)
	require.NoError(t, err, "unknown keys must be ignored")
	require.Len(t, doc.Handlers, 1)
	assert.Equal(t, "only", doc.Handlers[0].Name)
}

func TestParse_MissingHandlers(t *testing.T) {
	doc, err := Parse([]byte("other_key: 1\n"), YAML)
	require.NoError(t, err, "a document without handlers is valid")
	assert.Empty(t, doc.Handlers)
}

func TestParse_Invalid(t *testing.T) {
	cases := []struct {
		name   string
		data   string
		format Format
	}{
		{"yaml syntax", "handlers: [unclosed", YAML},
		{"json syntax", `{"handlers": `, JSON},
		{"nameless handler", "handlers:\n  - level: INFO\n", YAML},
		{"duplicate names", "handlers:\n  - name: a\n  - name: a\n", YAML},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.data), tc.format)
			require.Error(t, err)

			var pe *ParseError
			assert.ErrorAs(t, err, &pe)
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "logging.yml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("handlers:\n  - name: y\n"), 0644))
	doc, err := LoadFile(yamlPath)
	require.NoError(t, err)
	assert.Len(t, doc.Handlers, 1)

	jsonPath := filepath.Join(dir, "logging.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"handlers": [{"name": "j"}]}`), 0644))
	doc, err = LoadFile(jsonPath)
	require.NoError(t, err)
	assert.Len(t, doc.Handlers, 1)

	tomlPath := filepath.Join(dir, "logging.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte("x = 1"), 0644))
	_, err = LoadFile(tomlPath)
	assert.Error(t, err, "unsupported extension must fail")

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestParseError_Unwrap(t *testing.T) {
	inner := errors.New("boom")
	pe := &ParseError{Source: "x.yaml", Err: inner}
	assert.ErrorIs(t, pe, inner)
	assert.Contains(t, pe.Error(), "x.yaml")
}
