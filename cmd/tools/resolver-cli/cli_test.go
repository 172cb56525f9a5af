package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	verbose, atFlag = false, ""

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestHoursCommand(t *testing.T) {
	out, err := run(t, "hours", "9 am to 5 pm", "--at", "2024-01-15T16:30:00Z")
	require.NoError(t, err)

	var got struct {
		Format string `json:"format"`
		Status struct {
			Status string `json:"status"`
		} `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "day-schedule", got.Format)
	assert.Equal(t, "open-closing-soon", got.Status.Status)
}

func TestClassifyCommand(t *testing.T) {
	dir := t.TempDir()
	previous := filepath.Join(dir, "previous.json")
	require.NoError(t, os.WriteFile(previous, []byte(`[
		{"id": "poi-a", "title": "Casa Pepe"},
		{"id": "poi-b", "title": "El Pescador"}
	]`), 0o600))

	out, err := run(t, "classify", "the second one please", "--previous", previous)
	require.NoError(t, err)
	assert.Contains(t, out, `"targetId": "poi-b"`)
	assert.Contains(t, out, `"reuse": true`)
}

func TestTurnCommand(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "turn.json")
	require.NoError(t, os.WriteFile(file, []byte(`{
		"utterance": "is the first one open?",
		"now": "2024-01-15T10:00:00Z",
		"previousResults": [{"id": "poi-a", "title": "Casa Pepe", "metadata": {"openingHours": "9 am to 5 pm"}}]
	}`), 0o600))

	out, err := run(t, "turn", "--file", file)
	require.NoError(t, err)
	assert.Contains(t, out, `"path": "reuse"`)
	assert.Contains(t, out, `"isCurrentlyOpen": true`)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"previousPoiIds": []}`), 0o600))
	_, err = run(t, "turn", "--file", bad)
	assert.Error(t, err)
}

func TestActivitiesCommand(t *testing.T) {
	out, err := run(t, "activities", "--registry", filepath.Join("..", "..", "..", "configs", "activity-registry.json"))
	require.NoError(t, err)
	assert.Contains(t, out, "resolve-poi-turn")
	assert.Contains(t, out, "evaluate-follow-up")
}

func TestActivitiesCommand_MissingWorker(t *testing.T) {
	file := filepath.Join(t.TempDir(), "registry.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"activities": [
		{"id": "classify-query", "taskType": "classify-query", "implementationStatus": "completed"}
	]}`), 0o600))

	_, err := run(t, "activities", "--registry", file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"resolve-poi-turn" has a worker but no registry entry`)
}
