// Package config resolves the run configuration once at startup. Values come
// from built-in defaults, an optional YAML file, and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fastcmsdomain/szybkafucha/internal/derived"
)

const (
	DefaultServerURL  = "http://192.168.1.104:3000"
	DefaultFlutterBin = "flutter"
	DefaultDefineKey  = "DEV_SERVER_URL"
	DefaultFileName   = ".devrun.yaml"

	// mobileSubdir is where the Flutter app lives relative to the repo root
	mobileSubdir = "mobile"
)

// Config is the resolved run configuration. It is passed by value and never
// modified after Resolve returns.
type Config struct {
	ServerURL         string
	DeviceID          string
	NoClean           bool
	ListOnly          bool
	CopyCommand       bool
	FlutterBin        string
	ProjectDir        string
	DerivedDataDir    string
	DerivedDataPrefix string
	DefineKey         string
	Verbose           bool
}

// File mirrors the keys accepted in .devrun.yaml
type File struct {
	ServerURL         string `yaml:"server_url"`
	Device            string `yaml:"device"`
	Flutter           string `yaml:"flutter"`
	ProjectDir        string `yaml:"project_dir"`
	DerivedDataDir    string `yaml:"derived_data_dir"`
	DerivedDataPrefix string `yaml:"derived_data_prefix"`
	DefineKey         string `yaml:"define_key"`
	NoClean           bool   `yaml:"no_clean"`
}

// Overrides holds flag values. A nil pointer means the flag was not set.
type Overrides struct {
	ServerURL   *string
	DeviceID    *string
	FlutterBin  *string
	ProjectDir  *string
	NoClean     *bool
	ListOnly    bool
	CopyCommand bool
	Verbose     bool
}

// Defaults returns the built-in configuration for the current directory
func Defaults() Config {
	return Config{
		ServerURL:         DefaultServerURL,
		FlutterBin:        DefaultFlutterBin,
		ProjectDir:        DefaultProjectDir("."),
		DerivedDataDir:    derived.DefaultDir(),
		DerivedDataPrefix: derived.DefaultPrefix,
		DefineKey:         DefaultDefineKey,
	}
}

// DefaultProjectDir returns base itself when it is a Flutter project
// (contains pubspec.yaml) and base/mobile otherwise.
func DefaultProjectDir(base string) string {
	if _, err := os.Stat(filepath.Join(base, "pubspec.yaml")); err == nil {
		return base
	}
	return filepath.Join(base, mobileSubdir)
}

// LoadFile reads a YAML config file. When explicit is false a missing file
// is not an error and returns nil.
func LoadFile(path string, explicit bool) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &f, nil
}

// Resolve layers the file (may be nil) and flag overrides on top of base
func Resolve(base Config, file *File, o Overrides) Config {
	cfg := base

	if file != nil {
		setString(&cfg.ServerURL, file.ServerURL)
		setString(&cfg.DeviceID, file.Device)
		setString(&cfg.FlutterBin, file.Flutter)
		setString(&cfg.ProjectDir, file.ProjectDir)
		setString(&cfg.DerivedDataDir, expandHome(file.DerivedDataDir))
		setString(&cfg.DerivedDataPrefix, file.DerivedDataPrefix)
		setString(&cfg.DefineKey, file.DefineKey)
		cfg.NoClean = cfg.NoClean || file.NoClean
	}

	if o.ServerURL != nil {
		cfg.ServerURL = *o.ServerURL
	}
	if o.DeviceID != nil {
		cfg.DeviceID = *o.DeviceID
	}
	if o.FlutterBin != nil {
		cfg.FlutterBin = *o.FlutterBin
	}
	if o.ProjectDir != nil {
		cfg.ProjectDir = *o.ProjectDir
	}
	if o.NoClean != nil {
		cfg.NoClean = *o.NoClean
	}
	cfg.ListOnly = o.ListOnly
	cfg.CopyCommand = o.CopyCommand
	cfg.Verbose = o.Verbose

	return cfg
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[1:])
		}
	}
	return p
}
