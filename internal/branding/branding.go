// Package branding provides compile-time identity values for the CLI.
//
// Forkers edit branding.yaml in this package before building; //go:embed
// bakes it into the binary.
package branding

import (
	_ "embed"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName      string `yaml:"cli_name"`
	DisplayName  string `yaml:"display_name"`
	Description  string `yaml:"description"`
	HomeDir      string `yaml:"home_dir"`
	EnvPrefix    string `yaml:"env_prefix"`
	GoModule     string `yaml:"go_module"`
	ManifestFile string `yaml:"manifest_file"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing values.
		defaults = brand{
			CLIName:      "kcp",
			DisplayName:  "KCP",
			Description:  "Parse, validate, and serve KCP knowledge manifests",
			HomeDir:      ".kcp",
			EnvPrefix:    "KCP",
			GoModule:     "github.com/kcp-labs/kcp",
			ManifestFile: "knowledge.yaml",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "kcp").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".kcp").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "KCP").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// ManifestFile returns the conventional manifest file name (knowledge.yaml).
func ManifestFile() string { load(); return defaults.ManifestFile }
