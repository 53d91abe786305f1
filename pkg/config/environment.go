package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Environment is one saved tracker endpoint the CLI can target.
type Environment struct {
	Name   string `yaml:"name"`
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key,omitempty"`
}

// Environments holds the saved endpoint list and the active selection.
type Environments struct {
	Environments []Environment `yaml:"environments"`
	Selected     string        `yaml:"selected,omitempty"`
}

// LoadEnvironments loads saved endpoints from the default location.
func LoadEnvironments() (*Environments, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	configPath := filepath.Join(homeDir, ".convoy-sim", "environments.yaml")
	return LoadEnvironmentsFromFile(configPath)
}

// LoadEnvironmentsFromFile loads saved endpoints from a specific file.
func LoadEnvironmentsFromFile(path string) (*Environments, error) {
	// If file doesn't exist, return default config
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return defaultEnvironments(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read environments file: %w", err)
	}

	var envs Environments
	if err := yaml.Unmarshal(data, &envs); err != nil {
		return nil, fmt.Errorf("failed to parse environments file: %w", err)
	}

	return &envs, nil
}

// SaveEnvironments saves the endpoint list back to the default location.
func SaveEnvironments(envs *Environments) error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".convoy-sim")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath := filepath.Join(configDir, "environments.yaml")
	data, err := yaml.Marshal(envs)
	if err != nil {
		return fmt.Errorf("failed to marshal environments: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write environments file: %w", err)
	}

	return nil
}

// Get returns the named environment, or the selected one when name is
// empty.
func (e *Environments) Get(name string) (*Environment, error) {
	if name == "" {
		name = e.Selected
	}
	if name == "" && len(e.Environments) == 1 {
		return &e.Environments[0], nil
	}
	for i := range e.Environments {
		if e.Environments[i].Name == name {
			return &e.Environments[i], nil
		}
	}
	return nil, fmt.Errorf("environment %q not found", name)
}

func defaultEnvironments() *Environments {
	return &Environments{
		Environments: []Environment{
			{
				Name: "local",
				URL:  "http://localhost:8080",
			},
		},
		Selected: "local",
	}
}
