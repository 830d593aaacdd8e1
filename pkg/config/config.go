package config

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/redisinsight/config"
	ConfigFileName    = "redisinsight.yml"
)

// InsightConfig holds all server configuration settings
type InsightConfig struct {
	// TrustedProxies is a list of CIDR ranges for trusted proxies
	TrustedProxies []string `yaml:"trusted_proxies" json:"trusted_proxies"`

	// MaxStreamEntriesPerPage caps the count accepted by the stream
	// get-entries endpoint
	MaxStreamEntriesPerPage int `yaml:"max_stream_entries_per_page" json:"max_stream_entries_per_page"`

	// ConnectionTimeout is the Redis dial/read/write timeout in seconds
	ConnectionTimeout int `yaml:"connection_timeout" json:"connection_timeout"`

	// DatabaseListLimitMax is the maximum number of results for listing requests
	DatabaseListLimitMax int `yaml:"database_list_limit_max" json:"database_list_limit_max"`

	// TelemetryEnabled enables telemetry
	TelemetryEnabled bool `yaml:"telemetry_enabled" json:"telemetry_enabled"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Global singleton config
var (
	globalConfig *InsightConfig
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *InsightConfig {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			// Return defaults on error
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return nil
}

// newDefault returns a config with default values
func newDefault() *InsightConfig {
	return &InsightConfig{
		TrustedProxies:          []string{},
		MaxStreamEntriesPerPage: 500,
		ConnectionTimeout:       30,
		DatabaseListLimitMax:    1000,
		TelemetryEnabled:        false,
		sources:                 make(map[string]string),
	}
}

// Load loads configuration from file and environment variables
// Environment variables take precedence over file values
func Load() (*InsightConfig, error) {
	config := newDefault()

	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	configPath := os.Getenv("REDISINSIGHT_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig InsightConfig
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&fileConfig)
	}

	config.applyEnvConfig()

	return config, nil
}

func attributeNames() []string {
	return []string{
		"trusted_proxies", "max_stream_entries_per_page",
		"connection_timeout", "database_list_limit_max",
		"telemetry_enabled",
	}
}

func (c *InsightConfig) applyFileConfig(file *InsightConfig) {
	if len(file.TrustedProxies) > 0 {
		c.TrustedProxies = file.TrustedProxies
		c.sources["trusted_proxies"] = "file"
	}
	if file.MaxStreamEntriesPerPage != 0 {
		c.MaxStreamEntriesPerPage = file.MaxStreamEntriesPerPage
		c.sources["max_stream_entries_per_page"] = "file"
	}
	if file.ConnectionTimeout != 0 {
		c.ConnectionTimeout = file.ConnectionTimeout
		c.sources["connection_timeout"] = "file"
	}
	if file.DatabaseListLimitMax != 0 {
		c.DatabaseListLimitMax = file.DatabaseListLimitMax
		c.sources["database_list_limit_max"] = "file"
	}
}

func (c *InsightConfig) applyEnvConfig() {
	if val := os.Getenv("REDISINSIGHT_TRUSTED_PROXIES"); val != "" {
		c.TrustedProxies = splitAndTrim(val)
		c.sources["trusted_proxies"] = "environment"
	}
	if val := os.Getenv("REDISINSIGHT_MAX_STREAM_ENTRIES_PER_PAGE"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.MaxStreamEntriesPerPage = i
			c.sources["max_stream_entries_per_page"] = "environment"
		}
	}
	if val := os.Getenv("REDISINSIGHT_CONNECTION_TIMEOUT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.ConnectionTimeout = i
			c.sources["connection_timeout"] = "environment"
		}
	}
	if val := os.Getenv("REDISINSIGHT_DATABASE_LIST_LIMIT_MAX"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.DatabaseListLimitMax = i
			c.sources["database_list_limit_max"] = "environment"
		}
	}
	if val := os.Getenv("REDISINSIGHT_TELEMETRY_ENABLED"); val != "" {
		c.TelemetryEnabled = val == "true" || val == "1"
		c.sources["telemetry_enabled"] = "environment"
	}
}

// ConfigFilePath returns the path to the config file
func (c *InsightConfig) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *InsightConfig) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// DialTimeout returns the Redis connection timeout as a duration
func (c *InsightConfig) DialTimeout() time.Duration {
	return time.Duration(c.ConnectionTimeout) * time.Second
}

// IsTrustedProxy checks if an IP is from a trusted proxy
func (c *InsightConfig) IsTrustedProxy(ip string) bool {
	if len(c.TrustedProxies) == 0 {
		return false
	}

	parsedIP := net.ParseIP(ip)
	if parsedIP == nil {
		return false
	}

	for _, cidr := range c.TrustedProxies {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			// Try as plain IP
			if net.ParseIP(cidr) != nil && cidr == ip {
				return true
			}
			continue
		}
		if network.Contains(parsedIP) {
			return true
		}
	}
	return false
}

// Validate validates the configuration
func (c *InsightConfig) Validate() error {
	for _, cidr := range c.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			if net.ParseIP(cidr) == nil {
				return fmt.Errorf("invalid trusted_proxies value: %s", cidr)
			}
		}
	}

	if c.MaxStreamEntriesPerPage < 1 {
		return fmt.Errorf("max_stream_entries_per_page must be positive")
	}
	if c.ConnectionTimeout < 1 {
		return fmt.Errorf("connection_timeout must be positive")
	}

	return nil
}

// Attributes returns all configuration attributes with their values and sources
func (c *InsightConfig) Attributes() []Attribute {
	return []Attribute{
		{Name: "trusted_proxies", Value: strings.Join(c.TrustedProxies, ","), Source: c.Source("trusted_proxies")},
		{Name: "max_stream_entries_per_page", Value: strconv.Itoa(c.MaxStreamEntriesPerPage), Source: c.Source("max_stream_entries_per_page")},
		{Name: "connection_timeout", Value: strconv.Itoa(c.ConnectionTimeout), Source: c.Source("connection_timeout")},
		{Name: "database_list_limit_max", Value: strconv.Itoa(c.DatabaseListLimitMax), Source: c.Source("database_list_limit_max")},
		{Name: "telemetry_enabled", Value: strconv.FormatBool(c.TelemetryEnabled), Source: c.Source("telemetry_enabled")},
	}
}

// FormatText returns a text representation of the configuration
func (c *InsightConfig) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-40s %-30s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-40s %-30s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-40s %-30s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *InsightConfig) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
