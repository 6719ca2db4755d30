package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is the configuration consumed by the registry. Unknown
// top-level keys are ignored; a document without a handlers key yields
// zero handlers, which is not an error.
type Document struct {
	Handlers []HandlerConfig `yaml:"handlers" json:"handlers"`
}

// HandlerConfig describes one handler. Output selects the destination:
// "console" or a file path. When SyslogAddress or RemoteURL is set, the
// destination is a syslog daemon or HTTP endpoint instead.
type HandlerConfig struct {
	Name   string `yaml:"name" json:"name"`
	Level  string `yaml:"level" json:"level"`
	Output string `yaml:"output" json:"output"`

	// Formatting: a template string, or JSON mode with static extras
	Format      string                 `yaml:"format" json:"format"`
	JSONFormat  bool                   `yaml:"json_format" json:"json_format"`
	ExtraFields map[string]interface{} `yaml:"extra_fields" json:"extra_fields"`

	// Destination parameters
	SyslogAddress string `yaml:"syslog_address" json:"syslog_address"`
	RemoteURL     string `yaml:"remote_url" json:"remote_url"`
	Method        string `yaml:"method" json:"method"`

	// Filters
	IncludeFilter   string `yaml:"include_filter" json:"include_filter"`
	ExcludeFilter   string `yaml:"exclude_filter" json:"exclude_filter"`
	FileFilter      string `yaml:"file_filter" json:"file_filter"`
	LevelFilter     string `yaml:"level_filter" json:"level_filter"`
	CaseInsensitive bool   `yaml:"case_insensitive" json:"case_insensitive"`

	// Rotation: "size" takes a byte count, "time" an interval such as
	// "s", "m", "h", "d" or any duration string
	RollingType  string      `yaml:"rolling_type" json:"rolling_type"`
	RollingValue interface{} `yaml:"rolling_value" json:"rolling_value"`
	BackupCount  int         `yaml:"backup_count" json:"backup_count"`
}

// ParseError reports a malformed configuration document.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("parse config: %v", e.Err)
	}
	return fmt.Sprintf("parse config %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Format identifies the document encoding
type Format int

const (
	YAML Format = iota
	JSON
)

// Parse decodes a configuration document.
func Parse(data []byte, format Format) (*Document, error) {
	var doc Document
	var err error
	switch format {
	case JSON:
		err = json.Unmarshal(data, &doc)
	default:
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	if err := validate(&doc); err != nil {
		return nil, &ParseError{Err: err}
	}
	return &doc, nil
}

// LoadFile reads and parses a configuration file, choosing the format
// by extension (.json, .yaml, .yml).
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Source: path, Err: err}
	}

	var format Format
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		format = JSON
	case ".yaml", ".yml":
		format = YAML
	default:
		return nil, &ParseError{Source: path, Err: fmt.Errorf("unsupported format %q, use JSON or YAML", filepath.Ext(path))}
	}

	doc, err := Parse(data, format)
	if err != nil {
		return nil, &ParseError{Source: path, Err: err.(*ParseError).Err}
	}
	return doc, nil
}

func validate(doc *Document) error {
	seen := make(map[string]struct{}, len(doc.Handlers))
	for i, h := range doc.Handlers {
		if h.Name == "" {
			return fmt.Errorf("handler %d: name is required", i)
		}
		if _, dup := seen[h.Name]; dup {
			return fmt.Errorf("duplicate handler name %q", h.Name)
		}
		seen[h.Name] = struct{}{}
	}
	return nil
}
