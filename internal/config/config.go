// Package config loads the analyzer's declarative profile: the marker
// vocabulary the record parser and performance correlator use to
// recognize events/commands/requests, plus the known-vocabulary and
// session-prefix hints the profile analyzer checks logs against.
package config

import (
	"embed"
	"strings"

	"github.com/BurntSushi/toml"

	apperrors "github.com/eirenik0/log-analyzer/pkg/errors"
)

//go:embed templates/*.toml
var templateFS embed.FS

// ParserRules configures the record parser's (C3) and JSON extractor's
// (C2) marker vocabulary.
type ParserRules struct {
	EventEmitMarkers      []string `toml:"event_emit_markers"`
	EventReceiveMarkers   []string `toml:"event_receive_markers"`
	EventPayloadSeparator string   `toml:"event_payload_separator"`
	CommandPrefix         string   `toml:"command_prefix"`
	CommandStartMarker    string   `toml:"command_start_marker"`
	CommandPayloadMarkers []string `toml:"command_payload_markers"`
	RequestPrefix         string   `toml:"request_prefix"`
	RequestSendMarkers    []string `toml:"request_send_markers"`
	RequestReceiveMarkers []string `toml:"request_receive_markers"`
	RequestPayloadMarkers []string `toml:"request_payload_markers"`
	RequestEndpointMarker string   `toml:"request_endpoint_marker"`
	JSONIndicators        []string `toml:"json_indicators"`
}

// ContainsAnyMarker reports whether text contains any of markers.
func (r ParserRules) ContainsAnyMarker(text string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}

// PerfRules configures the performance correlator (C7).
type PerfRules struct {
	CommandStartMarkers      []string `toml:"command_start_markers"`
	CommandCompletionMarkers []string `toml:"command_completion_markers"`
	EventCorrelationKeys     []string `toml:"event_correlation_keys"`
}

// SessionPrefixes names the primary/secondary component-id segment
// prefixes the profile analyzer groups sessions by.
type SessionPrefixes struct {
	Primary   string `toml:"primary"`
	Secondary string `toml:"secondary"`
}

// ProfileRules carries the known vocabulary and session hints used by
// analyze_profile/generate_config.
type ProfileRules struct {
	KnownComponents []string        `toml:"known_components"`
	KnownCommands   []string        `toml:"known_commands"`
	KnownRequests   []string        `toml:"known_requests"`
	SessionPrefixes SessionPrefixes `toml:"session_prefixes"`
}

// SessionLevelConfig names one level of a session hierarchy (e.g.
// "primary", "secondary", "level-3"): the component-id segment prefix that
// identifies it, plus optional lifecycle commands and summary fields. The
// commands and summary fields are carried in the profile only; no analysis
// stage in this module reads them.
type SessionLevelConfig struct {
	Name            string   `toml:"name"`
	SegmentPrefix   string   `toml:"segment_prefix"`
	CreateCommand   string   `toml:"create_command,omitempty"`
	CompleteCommands []string `toml:"complete_commands"`
	SummaryFields   []string `toml:"summary_fields"`
}

// SessionsConfig holds the session level hierarchy, auto-populated by
// generate_config when empty.
type SessionsConfig struct {
	Levels []SessionLevelConfig `toml:"levels"`
}

// Config is the full analyzer profile.
type Config struct {
	ProfileName string         `toml:"profile_name"`
	Parser      ParserRules    `toml:"parser"`
	Perf        PerfRules      `toml:"perf"`
	Profile     ProfileRules   `toml:"profile"`
	Sessions    SessionsConfig `toml:"sessions"`
}

// HasProfileHints reports whether any known-vocabulary hint is configured.
func (c *Config) HasProfileHints() bool {
	return len(c.Profile.KnownComponents) > 0 ||
		len(c.Profile.KnownCommands) > 0 ||
		len(c.Profile.KnownRequests) > 0
}

// BuiltinTemplateNames lists the config templates shipped with the binary.
func BuiltinTemplateNames() []string {
	return []string{"base", "custom-start", "service-api", "event-pipeline"}
}

func normalizedTemplateKey(name string) string {
	name = strings.TrimSuffix(name, ".toml")
	name = strings.TrimPrefix(name, "templates/")
	return strings.ToLower(strings.TrimSpace(name))
}

// LoadBuiltinTemplate loads one of BuiltinTemplateNames by name.
func LoadBuiltinTemplate(name string) (*Config, error) {
	key := normalizedTemplateKey(name)
	data, err := templateFS.ReadFile("templates/" + key + ".toml")
	if err != nil {
		return nil, apperrors.ConfigError("load_builtin_template", "unknown template "+name).Wrap(err)
	}
	return parseConfigTOML(string(data))
}

// DefaultConfig returns the base built-in template; callers that load no
// config file at all start from this.
func DefaultConfig() *Config {
	cfg, err := LoadBuiltinTemplate("base")
	if err != nil {
		// The embedded base template is part of the binary; a failure here
		// means the build itself is broken, not a runtime condition.
		panic(apperrors.WrapError(err, "config", "default_config", "embedded base template failed to parse"))
	}
	return cfg
}

// LoadConfigFromPath reads and parses a profile TOML file from disk.
func LoadConfigFromPath(path string, readFile func(string) ([]byte, error)) (*Config, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeInputIO, "config", "load_config_from_path", "reading config file").Wrap(err).WithMetadata("path", path)
	}
	cfg, err := parseConfigTOML(string(data))
	if err != nil {
		return nil, apperrors.WrapError(err, "config", "load_config_from_path", "parsing config file").WithMetadata("path", path)
	}
	return cfg, nil
}

func parseConfigTOML(text string) (*Config, error) {
	var cfg Config
	if _, err := toml.Decode(text, &cfg); err != nil {
		return nil, apperrors.ConfigError("parse_config_toml", "invalid TOML profile").Wrap(err)
	}
	return &cfg, nil
}
