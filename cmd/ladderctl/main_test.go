package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"duo-ladder/internal/scoring"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gameJSON = `{
  "noob":  {"kills": 8,  "deaths": 2, "assists": 12, "peakElo": "G4", "newRank": {"tier": "GOLD", "division": "IV", "leaguePoints": 50}},
  "carry": {"kills": 10, "deaths": 3, "assists": 9,  "peakElo": "G4", "newRank": {"tier": "GOLD", "division": "IV", "leaguePoints": 50}},
  "win": true,
  "duration": 1500,
  "surrender": false,
  "remake": false
}`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := newApp(&out).Run(append([]string{"ladderctl"}, args...))
	return out.String(), err
}

func TestScoreCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.json")
	require.NoError(t, os.WriteFile(path, []byte(gameJSON), 0o600))

	out, err := run(t, "score", "--file", path, "--noob-streak", "2", "--carry-streak", "2")
	require.NoError(t, err)

	var breakdown scoring.ScoreBreakdown
	require.NoError(t, json.Unmarshal([]byte(out), &breakdown))
	assert.Equal(t, 52, breakdown.Noob.Final)
	assert.Equal(t, 43, breakdown.Carry.Final)
	assert.Equal(t, 95, breakdown.Points())
}

func TestScoreCommand_BadInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"noob": {"kills": 1}, "bogus": true}`), 0o600))

	_, err := run(t, "score", "--file", path)
	assert.ErrorContains(t, err, "decode")

	_, err = run(t, "score", "--file", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestRankCommand(t *testing.T) {
	out, err := run(t, "rank", "e2")
	require.NoError(t, err)
	assert.Contains(t, out, "Emerald")
	assert.Contains(t, out, "II")
	assert.Contains(t, out, "E2")
	assert.Contains(t, out, "22")

	out, err = run(t, "rank", "GM")
	require.NoError(t, err)
	assert.Contains(t, out, "Grandmaster")
	assert.NotContains(t, out, "division")

	_, err = run(t, "rank", "M1")
	assert.Error(t, err)
}

func TestMigrateAndStandings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ladder.db")

	out, err := run(t, "migrate", "--db", path)
	require.NoError(t, err)
	assert.Contains(t, out, "migrated")

	out, err = run(t, "standings", "--db", path)
	require.NoError(t, err)
	assert.Contains(t, out, "POINTS")
}
