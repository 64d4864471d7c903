package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/musichub/internal/log"
)

// ErrUnknownKey is returned by SetValue for keys the config does not define.
var ErrUnknownKey = errors.New("unknown config key")

// DefaultConfigDocument renders the defaults as a commented YAML document.
func DefaultConfigDocument() *yaml.Node {
	d := Defaults()

	api := mapping(
		pair("base_url", scalar(d.API.BaseURL), "Registration backend"),
		pair("register_path", scalar(d.API.RegisterPath), ""),
		pair("recent_path", scalar(d.API.RecentPath), ""),
		pair("timeout", scalar(d.API.Timeout.String()), "Per-request timeout"),
	)
	notifications := mapping(
		pair("default_duration", scalar(d.Notifications.DefaultDuration.String()),
			"How long a notification stays up when it does not set its own duration"),
	)
	tr := mapping(
		pair("enabled", boolScalar(d.Tracing.Enabled), ""),
		pair("exporter", scalar(d.Tracing.Exporter), "none | file | stdout | otlp"),
		pair("file_path", scalar(d.Tracing.FilePath), ""),
		pair("otlp_endpoint", scalar(d.Tracing.OTLPEndpoint), ""),
		pair("sample_rate", floatScalar(d.Tracing.SampleRate), ""),
	)
	theme := mapping(
		pair("preset", scalar(d.Theme.Preset), "default | dracula | nord | high-contrast"),
	)

	root := mapping(
		pair("api", api, ""),
		pair("notifications", notifications, ""),
		pair("tracing", tr, "OpenTelemetry spans for every API call"),
		pair("theme", theme, ""),
	)
	root.HeadComment = "musichub configuration"

	return &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}
}

// DefaultConfigTemplate returns DefaultConfigDocument encoded as YAML.
func DefaultConfigTemplate() (string, error) {
	data, err := encode(DefaultConfigDocument())
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WriteDefaultConfig creates a config file at the given path with default
// settings and comments. Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	tmpl, err := DefaultConfigTemplate()
	if err != nil {
		return fmt.Errorf("rendering default config: %w", err)
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(tmpl), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}

// KnownKeys lists the dotted keys SetValue accepts, besides theme.colors.*.
func KnownKeys() []string {
	v := viper.New()
	SetDefaults(v)
	keys := v.AllKeys()
	slices.Sort(keys)
	return keys
}

// SetValue sets a single dotted key in the file at configPath, preserving
// comments and unrelated settings. The result is validated before anything
// is written; the write itself is atomic.
func SetValue(configPath, key, value string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	if !slices.Contains(KnownKeys(), key) && !strings.HasPrefix(key, "theme.colors.") {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	data, err := os.ReadFile(configPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	var doc yaml.Node
	if len(bytes.TrimSpace(data)) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}
	if doc.Kind == 0 {
		doc = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{mapping()}}
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return fmt.Errorf("parsing config: top level is not a mapping")
	}

	setPath(doc.Content[0], strings.Split(key, "."), value)

	out, err := encode(&doc)
	if err != nil {
		return err
	}

	// Refuse to write something Load would reject.
	v := viper.New()
	SetDefaults(v)
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(out)); err != nil {
		return fmt.Errorf("re-reading config: %w", err)
	}
	if _, err := decode(v); err != nil {
		return err
	}

	if err := writeAtomic(configPath, out); err != nil {
		return err
	}
	log.Info(log.CatConfig, "Updated config", "path", configPath, "key", key)
	return nil
}

// setPath walks or creates nested mappings along path and sets the leaf.
func setPath(node *yaml.Node, path []string, value string) {
	for i := 0; i < len(node.Content)-1; i += 2 {
		if node.Content[i].Value != path[0] {
			continue
		}
		child := node.Content[i+1]
		if len(path) == 1 {
			node.Content[i+1] = inferScalar(value, child)
			return
		}
		if child.Kind != yaml.MappingNode {
			child = mapping()
			node.Content[i+1] = child
		}
		setPath(child, path[1:], value)
		return
	}

	if len(path) == 1 {
		node.Content = append(node.Content, scalar(path[0]), inferScalar(value, nil))
		return
	}
	child := mapping()
	node.Content = append(node.Content, scalar(path[0]), child)
	setPath(child, path[1:], value)
}

// inferScalar keeps the previous node's comments and lets YAML resolve
// booleans and numbers the way a hand-edited file would.
func inferScalar(value string, prev *yaml.Node) *yaml.Node {
	n := &yaml.Node{Kind: yaml.ScalarNode, Value: value}
	switch {
	case value == "true" || value == "false":
		n.Tag = "!!bool"
	case isNumber(value):
		n.Tag = "!!float"
		if _, err := strconv.ParseInt(value, 10, 64); err == nil {
			n.Tag = "!!int"
		}
	default:
		n.Tag = "!!str"
	}
	if prev != nil {
		n.HeadComment = prev.HeadComment
		n.LineComment = prev.LineComment
		n.FootComment = prev.FootComment
	}
	return n
}

func isNumber(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func mapping(pairs ...[]*yaml.Node) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, p := range pairs {
		n.Content = append(n.Content, p...)
	}
	return n
}

func pair(key string, value *yaml.Node, comment string) []*yaml.Node {
	k := scalar(key)
	k.HeadComment = comment
	return []*yaml.Node{k, value}
}

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

func boolScalar(b bool) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(b)}
}

func floatScalar(f float64) *yaml.Node {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: s}
}

func encode(doc *yaml.Node) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()
	return buf.Bytes(), nil
}

// writeAtomic writes to a temp file in the same directory, then renames.
func writeAtomic(configPath string, data []byte) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".musichub.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, configPath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
