// Package utils holds the scenario runner's operator-facing plumbing:
// scenario discovery on disk and parameter collection.
package utils

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/picogrid/convoy-tracker/pkg/logger"
	"github.com/picogrid/convoy-tracker/pkg/simulation"
)

// scenarioManifest is the file a scenario package drops next to itself.
const scenarioManifest = "scenario.yaml"

// ScenarioInfo pairs a discovered scenario config with the directory it
// was found in.
type ScenarioInfo struct {
	Dir    string
	Config simulation.ScenarioConfig
}

// DiscoverScenarios walks the cmd tree for scenario.yaml manifests and
// returns the valid ones, sorted by scenario name. Manifests that fail
// to load are skipped with a warning so one broken scenario does not
// hide the rest.
func DiscoverScenarios() ([]ScenarioInfo, error) {
	root, err := projectRoot()
	if err != nil {
		return nil, err
	}

	var scenarios []ScenarioInfo
	walkErr := filepath.WalkDir(filepath.Join(root, "cmd"), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Name() != scenarioManifest {
			return nil
		}
		info, loadErr := loadScenarioManifest(path)
		if loadErr != nil {
			logger.Warnf("Skipping %s: %v", path, loadErr)
			return nil
		}
		scenarios = append(scenarios, *info)
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("failed to scan for scenarios: %w", walkErr)
	}

	sort.Slice(scenarios, func(i, j int) bool {
		return scenarios[i].Config.Name < scenarios[j].Config.Name
	})
	return scenarios, nil
}

func loadScenarioManifest(path string) (*ScenarioInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario manifest: %w", err)
	}

	var config simulation.ScenarioConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse scenario manifest: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &ScenarioInfo{Dir: filepath.Dir(path), Config: config}, nil
}

// projectRoot walks up from the working directory to the go.mod.
func projectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find project root (no go.mod found)")
		}
		dir = parent
	}
}
