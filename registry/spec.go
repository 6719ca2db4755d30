package registry

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/tzlog/tzlog/config"
	"github.com/tzlog/tzlog/core"
	"github.com/tzlog/tzlog/filter"
)

// Kind selects the destination a handler writes to. Exactly one kind
// is active per handler.
type Kind int

const (
	KindConsole Kind = iota
	KindFile
	KindSyslog
	KindRemote
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindConsole:
		return "console"
	case KindFile:
		return "file"
	case KindSyslog:
		return "syslog"
	case KindRemote:
		return "remote"
	default:
		return "unknown"
	}
}

// HandlerSpec is the validated, in-memory description of one handler.
type HandlerSpec struct {
	// Name is the unique registry key
	Name string
	// Level is the severity threshold
	Level core.Level
	// Kind selects the destination
	Kind Kind

	// Console parameters
	Writer io.Writer

	// File parameters
	Path           string
	MaxSize        int64
	RotateInterval time.Duration
	BackupCount    int

	// Syslog parameters
	SyslogAddress string
	SyslogNetwork string

	// Remote parameters
	RemoteURL    string
	Method       string
	QueueSize    int
	Timeout      time.Duration
	MaxAttempts  int
	BackoffBase  time.Duration
	DrainTimeout time.Duration

	// Filter criteria
	Filter filter.Spec

	// Formatting: Template when JSONFormat is false, otherwise JSON
	// mode with static ExtraFields
	Template    string
	JSONFormat  bool
	ExtraFields map[string]interface{}
}

// specFromConfig converts one parsed config entry into a HandlerSpec.
// The destination kind is inferred the way the config contract defines
// it: remote_url wins, then syslog_address, then output "console" or a
// file path.
func specFromConfig(hc config.HandlerConfig) (HandlerSpec, error) {
	spec := HandlerSpec{
		Name:        hc.Name,
		Level:       core.ParseLevel(hc.Level),
		Template:    hc.Format,
		JSONFormat:  hc.JSONFormat,
		ExtraFields: hc.ExtraFields,
		Filter: filter.Spec{
			Include:         hc.IncludeFilter,
			Exclude:         hc.ExcludeFilter,
			File:            hc.FileFilter,
			CaseInsensitive: hc.CaseInsensitive,
		},
	}

	if hc.LevelFilter != "" {
		lvl := core.ParseLevel(hc.LevelFilter)
		spec.Filter.ExactLevel = &lvl
	}

	switch {
	case hc.RemoteURL != "":
		spec.Kind = KindRemote
		spec.RemoteURL = hc.RemoteURL
		spec.Method = hc.Method

	case hc.SyslogAddress != "":
		spec.Kind = KindSyslog
		spec.SyslogAddress = hc.SyslogAddress

	case hc.Output == "" || hc.Output == "console":
		spec.Kind = KindConsole

	default:
		spec.Kind = KindFile
		spec.Path = hc.Output
		spec.BackupCount = hc.BackupCount

		switch hc.RollingType {
		case "":
		case "size":
			size, err := parseRollingSize(hc.RollingValue)
			if err != nil {
				return spec, fmt.Errorf("handler %q: %w", hc.Name, err)
			}
			spec.MaxSize = size
		case "time":
			interval, err := parseRollingInterval(hc.RollingValue)
			if err != nil {
				return spec, fmt.Errorf("handler %q: %w", hc.Name, err)
			}
			spec.RotateInterval = interval
		default:
			return spec, fmt.Errorf("handler %q: unknown rolling_type %q", hc.Name, hc.RollingType)
		}
	}

	return spec, nil
}

// parseRollingSize accepts a byte count as a YAML/JSON number or a
// numeric string.
func parseRollingSize(v interface{}) (int64, error) {
	switch val := v.(type) {
	case int:
		return int64(val), nil
	case int64:
		return val, nil
	case uint64:
		return int64(val), nil
	case float64:
		return int64(val), nil
	case string:
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid rolling_value %q: %w", val, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("invalid rolling_value %v for size rotation", v)
	}
}

// parseRollingInterval accepts the single-letter units "s", "m", "h",
// "d" or any Go duration string.
func parseRollingInterval(v interface{}) (time.Duration, error) {
	s, ok := v.(string)
	if !ok {
		return 0, fmt.Errorf("invalid rolling_value %v for time rotation", v)
	}
	switch strings.ToLower(s) {
	case "s":
		return time.Second, nil
	case "m":
		return time.Minute, nil
	case "h":
		return time.Hour, nil
	case "d":
		return 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid rolling_value %q: %w", s, err)
	}
	return d, nil
}
