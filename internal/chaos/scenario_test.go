package chaos

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, dir, id, body string) {
	t.Helper()
	scenarioDir := filepath.Join(dir, id)
	require.NoError(t, os.MkdirAll(scenarioDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(scenarioDir, "config.json"), []byte(body), 0o644))
}

func TestScenarioManagerLoadsConfig(t *testing.T) {
	scenariosDir := t.TempDir()
	writeScenario(t, scenariosDir, "chaos_data",
		`{"id": "chaos_data", "name": "Corrupted Market Data", "difficulty": "medium"}`)

	m := NewScenarioManager(scenariosDir, t.TempDir(), "chaos_data")

	assert.Equal(t, "chaos_data", m.Current())
	info := m.Info()
	assert.Equal(t, "chaos_data", info.ScenarioID)
	assert.Equal(t, "Corrupted Market Data", info.Name)
	assert.Equal(t, "medium", info.Difficulty)
}

func TestScenarioManagerFallsBackToDefault(t *testing.T) {
	scenariosDir := t.TempDir()
	writeScenario(t, scenariosDir, "default", `{"id": "default", "name": "Default"}`)

	m := NewScenarioManager(scenariosDir, t.TempDir(), "no_such_scenario")

	assert.Equal(t, "default", m.Current())
	assert.Equal(t, "Default", m.Info().Name)
}

func TestScenarioManagerSurvivesMissingDirs(t *testing.T) {
	m := NewScenarioManager(filepath.Join(t.TempDir(), "missing"), t.TempDir(), "default")

	assert.Equal(t, "default", m.Current())
	assert.Equal(t, "Default", m.Info().Name)
}

func TestDataPathPrefersScenarioOverride(t *testing.T) {
	scenariosDir := t.TempDir()
	dataDir := t.TempDir()

	writeScenario(t, scenariosDir, "chaos_data", `{"id": "chaos_data", "name": "Corrupted"}`)
	override := filepath.Join(scenariosDir, "chaos_data", "stocks.json")
	require.NoError(t, os.WriteFile(override, []byte(`{"stocks": []}`), 0o644))

	m := NewScenarioManager(scenariosDir, dataDir, "chaos_data")

	assert.Equal(t, override, m.DataPath("stocks.json"))
	assert.Equal(t, filepath.Join(dataDir, "other.json"), m.DataPath("other.json"))
}

func TestListScenarios(t *testing.T) {
	scenariosDir := t.TempDir()
	writeScenario(t, scenariosDir, "default", `{"id": "default", "name": "Default"}`)
	writeScenario(t, scenariosDir, "chaos_data", `{"id": "chaos_data", "name": "Corrupted"}`)
	require.NoError(t, os.MkdirAll(filepath.Join(scenariosDir, "empty"), 0o755))

	list := ListScenarios(scenariosDir)
	require.Len(t, list, 2)
}
