package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"activities-api/pkg/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAddValidateListUpdate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed", "activities.json")

	out, err := run(t, "add", "--path", path,
		"--name", "Robotics Club",
		"--description", "Build and program robots",
		"--schedule", "Mondays, 4:00 PM - 5:30 PM",
		"--max-participants", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "Added activity: Robotics Club")

	_, err = run(t, "add", "--path", path,
		"--name", "Robotics Club", "--description", "x", "--schedule", "y")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	out, err = run(t, "validate", "--path", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Found 1 activities")

	out, err = run(t, "update", "--path", path, "--name", "Robotics Club", "--field", "max_participants", "--value", "14")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated activity Robotics Club")

	out, err = run(t, "list", "--path", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Robotics Club")
	assert.Contains(t, out, "0/14")

	reg, err := registry.LoadRegistry(path)
	require.NoError(t, err)
	a, ok := reg.Find("Robotics Club")
	require.True(t, ok)
	assert.Equal(t, 14, a.MaxParticipants)
	assert.NotEmpty(t, reg.LastUpdated)
}

func TestUpdateErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activities.json")
	_, err := run(t, "add", "--path", path, "--name", "Art Club", "--description", "Paint", "--schedule", "Thursdays")
	require.NoError(t, err)

	_, err = run(t, "update", "--path", path, "--name", "Art Club", "--field", "colour", "--value", "red")
	assert.ErrorContains(t, err, "unknown field")

	_, err = run(t, "update", "--path", path, "--name", "Knitting", "--field", "schedule", "--value", "never")
	assert.ErrorContains(t, err, "not found")

	_, err = run(t, "update", "--path", path, "--name", "Art Club", "--field", "max_participants", "--value", "many")
	assert.ErrorContains(t, err, "invalid max_participants")
}

func TestValidateRejectsBadDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activities.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":"1","activities":[{"name":""}]}`), 0o644))

	_, err := run(t, "validate", "--path", path)
	assert.ErrorContains(t, err, "registry validation failed")
}

func TestListDefaultCatalogue(t *testing.T) {
	out, err := run(t, "list", "--path", "")
	require.NoError(t, err)
	assert.Contains(t, out, "Chess Club")
	assert.Contains(t, out, "2/12")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "registry-tool version 1.0.0\n", out)
}

func TestDefaultPathShipsValidCatalogue(t *testing.T) {
	flag := rootCmd().PersistentFlags().Lookup("path")
	require.NotNil(t, flag)
	assert.Equal(t, defaultRegistryPath, flag.DefValue)

	// go test runs in the package directory; the default is repository-relative.
	path := filepath.Join("..", "..", "..", defaultRegistryPath)
	out, err := run(t, "validate", "--path", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Found 9 activities")

	shipped, err := registry.LoadRegistry(path)
	require.NoError(t, err)
	embedded, err := registry.Default()
	require.NoError(t, err)
	assert.Equal(t, embedded.ToMap(), shipped.ToMap())
}
