package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is the service identity document loaded from the YAML
// manifest file.
type Manifest struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Description string `yaml:"description"`
}

const (
	DefaultServiceName        = "toolbridge"
	DefaultServiceVersion     = "0.1.0"
	DefaultServiceDescription = "MCP tool service with LLM orchestration"
)

// LoadManifest reads the YAML manifest at path. A missing file falls
// back to the compiled defaults; fields absent from the file keep them.
func LoadManifest(path string) (*Manifest, error) {
	m := &Manifest{
		Name:        DefaultServiceName,
		Version:     DefaultServiceVersion,
		Description: DefaultServiceDescription,
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return m, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return m, nil
}
