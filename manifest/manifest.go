// Package manifest models the connector.yaml manifest: the externally
// persisted description of a connector that the build pipeline and the
// marketplace consume.
package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Filename is the canonical manifest file name in a connector project.
const Filename = "connector.yaml"

// Manifest represents the top-level connector.yaml document.
type Manifest struct {
	Name         string    `yaml:"name" json:"name"`
	Title        string    `yaml:"title" json:"title"`
	Version      string    `yaml:"version" json:"version"`
	Description  string    `yaml:"description" json:"description"`
	Go           string    `yaml:"go" json:"go"`
	Dependencies []string  `yaml:"dependencies" json:"dependencies"`
	Tags         []string  `yaml:"tags" json:"tags"`
	Timeout      Timeout   `yaml:"timeout" json:"timeout"`
	Resources    Resources `yaml:"resources" json:"resources"`
	Author       Author    `yaml:"author" json:"author"`
	URLs         URLs      `yaml:"urls" json:"urls"`
	Images       Images    `yaml:"images" json:"images"`
}

// Timeout bounds a single connector invocation.
type Timeout struct {
	Default int `yaml:"default" json:"default"` // seconds
}

// Resources declares the runtime resource limits for the managed host.
type Resources struct {
	Disk     int `yaml:"disk" json:"disk"`     // megabytes
	Memory   int `yaml:"memory" json:"memory"` // megabytes
	CPUCores int `yaml:"cpu_cores" json:"cpu_cores"`
}

// Author identifies the connector owner.
type Author struct {
	Name  string `yaml:"name" json:"name"`
	Email string `yaml:"email" json:"email"`
}

// URLs holds the project links surfaced in the marketplace listing.
type URLs struct {
	Repository string `yaml:"repository" json:"repository"`
	Logo       string `yaml:"logo" json:"logo"`
	Support    string `yaml:"support" json:"support"`
}

// Images names the published runtime images per architecture.
type Images struct {
	AMD64 string `yaml:"amd64" json:"amd64"`
	ARM64 string `yaml:"arm64,omitempty" json:"arm64,omitempty"`
}

// Parse parses raw YAML bytes into a Manifest and checks the fields every
// command needs before the marketplace gate runs.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing connector manifest: %w", err)
	}

	if m.Name == "" {
		return nil, fmt.Errorf("connector manifest: name is required")
	}
	if m.Version == "" {
		return nil, fmt.Errorf("connector manifest: version is required")
	}
	return &m, nil
}

// Load reads and parses a connector.yaml file from the given path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading connector manifest %s: %w", path, err)
	}
	return Parse(data)
}
