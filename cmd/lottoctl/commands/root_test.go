package commands

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const historyFixture = `[
	{"concourse": 3, "date": "2024-04-03", "numbers": [11,12,13,14,15,16,17,18,19,20,21,22,23,24,25]},
	{"concourse": 2, "date": "2024-04-02", "numbers": [1,2,3,4,5,6,7,8,9,10,11,12,13,14,16]},
	{"concourse": 1, "date": "2024-04-01", "numbers": [1,2,3,4,5,6,7,8,9,10,11,12,13,14,15]}
]`

// setupEnvironment points the CLI at a fake generation service and a fresh SQLite file
func setupEnvironment(t *testing.T) string {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/history" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(historyFixture))
	}))
	t.Cleanup(server.Close)

	t.Setenv("GENERATION_URL", server.URL)
	t.Setenv("RESULTS_PAGE_URL", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("LOG_LEVEL", "error")

	return "sqlite:" + filepath.Join(t.TempDir(), "cli.db")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSyncAndLatest(t *testing.T) {
	database := setupEnvironment(t)

	out, err := run(t, "sync", "--database", database)
	require.NoError(t, err)
	assert.Contains(t, out, "Merged 3 draw(s)")

	out, err = run(t, "sync", "--database", database)
	require.NoError(t, err)
	assert.Contains(t, out, "Archive up to date (latest concourse 3)")

	out, err = run(t, "latest", "--database", database, "--format", "json")
	require.NoError(t, err)
	var draw map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &draw))
	assert.Equal(t, float64(3), draw["concourse"])
	assert.Equal(t, "2024-04-03", draw["date"])
}

func TestLatestOnEmptyArchiveFails(t *testing.T) {
	database := setupEnvironment(t)

	_, err := run(t, "latest", "--database", database)
	assert.Error(t, err)
}

func TestCheckCommand(t *testing.T) {
	database := setupEnvironment(t)
	_, err := run(t, "sync", "--database", database)
	require.NoError(t, err)

	out, err := run(t, "check", "--database", database, "--prizes-only", "--format", "json",
		"01,02,03,04,05,06,07,08,09,10,11,12,13,14,15")
	require.NoError(t, err)

	var result struct {
		Summary struct {
			JackpotCount    int `json:"jackpot_count"`
			SecondTierCount int `json:"second_tier_count"`
			TotalDraws      int `json:"total_draws"`
		} `json:"summary"`
		Results []json.RawMessage `json:"results"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 3, result.Summary.TotalDraws)
	assert.Equal(t, 1, result.Summary.JackpotCount)
	assert.Equal(t, 1, result.Summary.SecondTierCount)
	assert.Len(t, result.Results, 2)

	out, err = run(t, "check", "--database", database, "1", "2", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Selection: 01 02 03")

	_, err = run(t, "check", "--database", database, "99")
	assert.Error(t, err)
}

func TestGamesCommands(t *testing.T) {
	database := setupEnvironment(t)

	out, err := run(t, "games", "--database", database)
	require.NoError(t, err)
	assert.Contains(t, out, "No saved games")

	out, err = run(t, "games", "save", "--database", database, "--score", "70", "--tag", "weekly",
		"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12", "13", "14", "15")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved ")

	out, err = run(t, "games", "--database", database, "--format", "json")
	require.NoError(t, err)
	var games []struct {
		ID   string   `json:"id"`
		Tags []string `json:"tags"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &games))
	require.Len(t, games, 1)
	assert.Equal(t, []string{"weekly"}, games[0].Tags)

	out, err = run(t, "games", "delete", "--database", database, games[0].ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted")

	_, err = run(t, "games", "save", "--database", database, "1", "2")
	assert.Error(t, err)
}

func TestStatsAndHealth(t *testing.T) {
	database := setupEnvironment(t)

	out, err := run(t, "health", "--database", database)
	require.NoError(t, err)
	assert.Contains(t, out, "SYSTEM")
	assert.Contains(t, out, "History source")

	out, err = run(t, "stats", "--database", database)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Draws: 3", lines[0])
}

func TestInvalidFormatIsRejected(t *testing.T) {
	setupEnvironment(t)

	_, err := run(t, "stats", "--format", "xml")
	assert.Error(t, err)
}
