package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	assert.Len(t, reg.Activities, 9)

	chess, ok := reg.Find("Chess Club")
	require.True(t, ok)
	assert.Equal(t, 12, chess.MaxParticipants)
	assert.Equal(t, []string{"michael@mergington.edu", "daniel@mergington.edu"}, chess.Participants)

	activities := reg.ToMap()
	assert.Contains(t, activities, "Programming Class")
	assert.Contains(t, activities, "Gym Class")
	assert.NotContains(t, activities["Programming Class"].Participants, "nonexistent@example.com")
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		errMsg string
	}{
		{
			name:   "not json",
			doc:    `{activities`,
			errMsg: "validation error",
		},
		{
			name:   "missing activities",
			doc:    `{"version": "1"}`,
			errMsg: "seed catalogue validation failed",
		},
		{
			name:   "empty name",
			doc:    `{"activities": [{"name": "", "participants": []}]}`,
			errMsg: "seed catalogue validation failed",
		},
		{
			name:   "participants not strings",
			doc:    `{"activities": [{"name": "Chess Club", "participants": [1]}]}`,
			errMsg: "seed catalogue validation failed",
		},
		{
			name:   "unknown field",
			doc:    `{"activities": [{"name": "Chess Club", "participants": [], "room": "B12"}]}`,
			errMsg: "seed catalogue validation failed",
		},
		{
			name: "duplicate names",
			doc: `{"activities": [
				{"name": "Chess Club", "participants": []},
				{"name": "Chess Club", "participants": []}
			]}`,
			errMsg: "duplicate activity",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestToModel_DeduplicatesParticipants(t *testing.T) {
	a := Activity{
		Name:         "Chess Club",
		Participants: []string{"a@example.com", "b@example.com", "a@example.com"},
	}
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, a.ToModel().Participants)
}

func TestAddAndSave_RoundTrip(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	err = reg.Add(Activity{
		Name:            "Robotics Club",
		Description:     "Build and program robots",
		Schedule:        "Saturdays, 10:00 AM - 12:00 PM",
		MaxParticipants: 8,
	})
	require.NoError(t, err)

	err = reg.Add(Activity{Name: "Chess Club"})
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "activities.json")
	require.NoError(t, reg.Save(path))

	loaded, err := LoadRegistry(path)
	require.NoError(t, err)
	robotics, ok := loaded.Find("Robotics Club")
	require.True(t, ok)
	assert.Equal(t, 8, robotics.MaxParticipants)
	assert.Empty(t, robotics.Participants)
	assert.Len(t, loaded.Activities, 10)
}

func TestLoadOrDefault(t *testing.T) {
	reg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Len(t, reg.Activities, 9)

	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"activities": [{"name": "Chess Club", "participants": ["x@example.com"]}]}`), 0o644))

	reg, err = LoadOrDefault(path)
	require.NoError(t, err)
	assert.Len(t, reg.Activities, 1)

	_, err = LoadOrDefault(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
