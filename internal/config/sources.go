package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ChannelSource is one curated video channel from the sources file.
type ChannelSource struct {
	Name      string `yaml:"name" json:"name"`
	Handle    string `yaml:"handle" json:"handle"`
	ChannelID string `yaml:"channel_id" json:"channel_id"`
	Focus     string `yaml:"focus,omitempty" json:"focus,omitempty"`
}

// Sources is the parsed sources file.
type Sources struct {
	Channels []ChannelSource `yaml:"youtube_channels"`
}

// LoadSources parses the YAML channel-sources file.
func LoadSources(path string) (*Sources, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}

	var sources Sources
	if err := yaml.Unmarshal(data, &sources); err != nil {
		return nil, fmt.Errorf("failed to parse sources file: %w", err)
	}
	return &sources, nil
}
