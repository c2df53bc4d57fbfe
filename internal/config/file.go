package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides, e.g. RESTRICTIONS_MODULE_LOCAL_DOMAIN.
const EnvPrefix = "RESTRICTIONS"

// DefaultPath is the config file used when --config is not given.
const DefaultPath = "restrictions.yaml"

// File is an operator configuration file: ambient settings plus the module section.
type File struct {
	Log    LogConfig   `yaml:"log"`
	Audit  AuditConfig `yaml:"audit"`
	Module *Config     `yaml:"-"`
}

// LogConfig application logging settings
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// AuditConfig decision audit settings. An empty Dir disables auditing.
type AuditConfig struct {
	Dir string `yaml:"dir"`
}

// DefaultFile returns the ambient defaults. Module is left nil because
// local_domain has no sensible default.
func DefaultFile() *File {
	return &File{
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadFile reads an operator config file (YAML, JSON or TOML by extension),
// applies RESTRICTIONS_* environment overrides and parses the module section.
func LoadFile(path string) (*File, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath
	}

	v := viper.New()
	v.SetConfigFile(path)
	if filepath.Ext(path) == "" {
		v.SetConfigType("yaml")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault("log.level", "info")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file %s not found (run 'restrictions init')", path)
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	file := DefaultFile()
	file.Log.Level = v.GetString("log.level")
	file.Log.File = v.GetString("log.file")
	file.Audit.Dir = v.GetString("audit.dir")

	raw := map[string]any{}
	if section := v.Get("module"); section != nil {
		m, ok := section.(map[string]any)
		if !ok {
			return nil, &ConfigError{Field: "module", Msg: "must be a mapping"}
		}
		for key, value := range m {
			raw[key] = value
		}
	}
	for _, key := range []string{KeyLocalDomain, KeyLeaveErrorMessage} {
		if _, ok := os.LookupEnv(envName("module." + key)); ok {
			raw[key] = v.GetString("module." + key)
		}
	}

	module, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	file.Module = module
	return file, nil
}

func envName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

type sampleModule struct {
	RestrictedRooms   []string `yaml:"restricted_rooms"`
	LocalDomain       string   `yaml:"local_domain"`
	LeaveErrorMessage string   `yaml:"leave_error_message"`
}

type sampleFile struct {
	Log    LogConfig    `yaml:"log"`
	Audit  AuditConfig  `yaml:"audit"`
	Module sampleModule `yaml:"module"`
}

// SampleYAML renders a starter config file.
func SampleYAML(localDomain string) ([]byte, error) {
	if strings.TrimSpace(localDomain) == "" {
		localDomain = "example.com"
	}
	defaults := DefaultFile()
	sample := sampleFile{
		Log:   defaults.Log,
		Audit: defaults.Audit,
		Module: sampleModule{
			RestrictedRooms:   []string{"!announcements:" + localDomain},
			LocalDomain:       localDomain,
			LeaveErrorMessage: DefaultLeaveErrorMessage,
		},
	}
	return yaml.Marshal(sample)
}

// Save writes data to path, creating parent directories.
func Save(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0600)
}
