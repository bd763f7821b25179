package chaos

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// ScenarioConfig is the config.json of one startup scenario.
type ScenarioConfig struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Difficulty  string         `json:"difficulty"`
	Challenges  []string       `json:"challenges"`
	Setup       map[string]any `json:"setup"`
}

// ScenarioInfo is the external view of the loaded scenario.
type ScenarioInfo struct {
	ScenarioID  string         `json:"scenario_id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Difficulty  string         `json:"difficulty"`
	Challenges  []string       `json:"challenges"`
	Setup       map[string]any `json:"setup"`
}

// ScenarioManager selects the startup scenario from SCENARIO and lets it
// override seed data files. Unknown scenario ids fall back to default.
type ScenarioManager struct {
	scenariosDir string
	dataDir      string
	current      string
	config       ScenarioConfig
}

func NewScenarioManager(scenariosDir, dataDir, scenarioID string) *ScenarioManager {
	m := &ScenarioManager{
		scenariosDir: scenariosDir,
		dataDir:      dataDir,
	}
	m.load(scenarioID)
	return m
}

func (m *ScenarioManager) load(id string) {
	cfg, err := readScenarioConfig(filepath.Join(m.scenariosDir, id, "config.json"))
	if err != nil && id != "default" {
		slog.Warn("Scenario not found, using default", "scenario", id)
		id = "default"
		cfg, err = readScenarioConfig(filepath.Join(m.scenariosDir, id, "config.json"))
	}
	if err != nil {
		cfg = ScenarioConfig{ID: "default", Name: "Default", Description: "Normal operation"}
	}

	m.current = id
	m.config = cfg
	slog.Info("Loaded scenario", "scenario", id, "name", cfg.Name)
}

func readScenarioConfig(path string) (ScenarioConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ScenarioConfig{}, err
	}
	var cfg ScenarioConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return ScenarioConfig{}, fmt.Errorf("parse scenario config %s: %w", path, err)
	}
	return cfg, nil
}

// Current returns the loaded scenario id.
func (m *ScenarioManager) Current() string { return m.current }

// DataPath resolves a data file, preferring the scenario's override.
func (m *ScenarioManager) DataPath(filename string) string {
	override := filepath.Join(m.scenariosDir, m.current, filename)
	if _, err := os.Stat(override); err == nil {
		return override
	}
	return filepath.Join(m.dataDir, filename)
}

// Info describes the loaded scenario.
func (m *ScenarioManager) Info() ScenarioInfo {
	return ScenarioInfo{
		ScenarioID:  m.current,
		Name:        m.config.Name,
		Description: m.config.Description,
		Difficulty:  m.config.Difficulty,
		Challenges:  m.config.Challenges,
		Setup:       m.config.Setup,
	}
}

// Available enumerates the scenarios installed next to the current one.
func (m *ScenarioManager) Available() []ScenarioConfig {
	return ListScenarios(m.scenariosDir)
}

// ListScenarios enumerates every scenario directory with a config.json.
func ListScenarios(scenariosDir string) []ScenarioConfig {
	entries, err := os.ReadDir(scenariosDir)
	if err != nil {
		return nil
	}

	var out []ScenarioConfig
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		cfg, err := readScenarioConfig(filepath.Join(scenariosDir, e.Name(), "config.json"))
		if err != nil {
			continue
		}
		if cfg.ID == "" {
			cfg.ID = e.Name()
		}
		out = append(out, cfg)
	}
	return out
}
