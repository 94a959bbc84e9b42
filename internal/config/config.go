// Package config reads the document header configuration.
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Header holds the fixed, ordered set of assignment header fields.
type Header struct {
	Title      string `yaml:"title"`
	Name       string `yaml:"name"`
	ID         string `yaml:"id"`
	Course     string `yaml:"course"`
	Semester   string `yaml:"semester"`
	Instructor string `yaml:"instructor"`
}

// Parse decodes header fields from YAML.
func Parse(data []byte) (Header, error) {
	var h Header
	if err := yaml.Unmarshal(data, &h); err != nil {
		return Header{}, fmt.Errorf("parsing header config: %w", err)
	}
	return h, nil
}

// Load reads header fields from a YAML file.
func Load(path string) (Header, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Header{}, err
	}
	return Parse(data)
}
