package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Shivanand-hulikatti/mergington-activities/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSeed() map[string]model.Activity {
	return map[string]model.Activity{
		"Chess Club": {
			Description:     "Learn strategies and compete in chess tournaments",
			Schedule:        "Fridays, 3:30 PM - 5:00 PM",
			MaxParticipants: 12,
			Participants:    []string{"michael@mergington.edu", "daniel@mergington.edu"},
		},
		"Programming Class": {
			Description:     "Learn programming fundamentals and build software projects",
			Schedule:        "Tuesdays and Thursdays, 3:30 PM - 4:30 PM",
			MaxParticipants: 20,
			Participants:    []string{"emma@mergington.edu", "sophia@mergington.edu"},
		},
	}
}

func TestRegistry_List(t *testing.T) {
	r := New(testSeed())

	all := r.List()
	require.Len(t, all, 2)
	assert.Equal(t, 12, all["Chess Club"].MaxParticipants)
	assert.Len(t, all["Chess Club"].Participants, 2)
	assert.Equal(t, []string{"Chess Club", "Programming Class"}, r.Names())
}

func TestRegistry_ListIsSnapshot(t *testing.T) {
	r := New(testSeed())

	before := r.List()
	before["Chess Club"].Participants[0] = "mallory@mergington.edu"

	_, err := r.Signup("Chess Club", "john@mergington.edu")
	require.NoError(t, err)

	assert.Len(t, before["Chess Club"].Participants, 2)
	a, err := r.Get("Chess Club")
	require.NoError(t, err)
	assert.Equal(t, "michael@mergington.edu", a.Participants[0])
}

func TestRegistry_NewCopiesSeed(t *testing.T) {
	seed := testSeed()
	r := New(seed)

	_, err := r.Signup("Chess Club", "john@mergington.edu")
	require.NoError(t, err)
	assert.Len(t, seed["Chess Club"].Participants, 2)
}

func TestRegistry_Get(t *testing.T) {
	r := New(testSeed())

	a, err := r.Get("Programming Class")
	require.NoError(t, err)
	assert.Equal(t, 20, a.MaxParticipants)

	_, err = r.Get("Nonexistent Club")
	assert.ErrorIs(t, err, ErrActivityNotFound)
}

func TestRegistry_Signup(t *testing.T) {
	tests := []struct {
		name     string
		activity string
		email    string
		wantErr  error
		wantLen  int
	}{
		{name: "new participant", activity: "Chess Club", email: "john@mergington.edu", wantLen: 3},
		{name: "unknown activity", activity: "Nonexistent Club", email: "x@y.edu", wantErr: ErrActivityNotFound},
		{name: "already signed up", activity: "Chess Club", email: "michael@mergington.edu", wantErr: ErrAlreadySignedUp},
		{name: "email is not validated", activity: "Chess Club", email: "not-an-email", wantLen: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(testSeed())

			a, err := r.Signup(tt.activity, tt.email)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, a.Participants, tt.wantLen)
			assert.Equal(t, tt.email, a.Participants[len(a.Participants)-1])
		})
	}
}

func TestRegistry_SignupIgnoresCapacity(t *testing.T) {
	r := New(map[string]model.Activity{
		"Tiny Club": {MaxParticipants: 1, Participants: []string{"a@mergington.edu"}},
	})

	a, err := r.Signup("Tiny Club", "b@mergington.edu")
	require.NoError(t, err)
	assert.Len(t, a.Participants, 2)
	assert.Greater(t, len(a.Participants), a.MaxParticipants)
}

func TestRegistry_Unregister(t *testing.T) {
	r := New(testSeed())

	a, err := r.Unregister("Chess Club", "michael@mergington.edu")
	require.NoError(t, err)
	assert.Equal(t, []string{"daniel@mergington.edu"}, a.Participants)

	_, err = r.Unregister("Chess Club", "michael@mergington.edu")
	assert.ErrorIs(t, err, ErrNotRegistered)

	_, err = r.Unregister("Nonexistent Club", "michael@mergington.edu")
	assert.ErrorIs(t, err, ErrActivityNotFound)
}

func TestRegistry_SignupUnregisterRoundTrip(t *testing.T) {
	r := New(testSeed())
	before, err := r.Get("Programming Class")
	require.NoError(t, err)

	_, err = r.Signup("Programming Class", "test@mergington.edu")
	require.NoError(t, err)
	_, err = r.Unregister("Programming Class", "test@mergington.edu")
	require.NoError(t, err)

	after, err := r.Get("Programming Class")
	require.NoError(t, err)
	assert.Equal(t, before.Participants, after.Participants)
}

func TestRegistry_UnregisterKeepsOrder(t *testing.T) {
	r := New(map[string]model.Activity{
		"Art Club": {MaxParticipants: 10, Participants: []string{"a@x", "b@x", "c@x", "d@x"}},
	})

	a, err := r.Unregister("Art Club", "b@x")
	require.NoError(t, err)
	assert.Equal(t, []string{"a@x", "c@x", "d@x"}, a.Participants)
}

func TestRegistry_ConcurrentSignups(t *testing.T) {
	r := New(testSeed())

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			email := fmt.Sprintf("student%d@mergington.edu", i)
			_, _ = r.Signup("Chess Club", email)
			_, _ = r.Signup("Chess Club", email)
		}(i)
	}
	wg.Wait()

	a, err := r.Get("Chess Club")
	require.NoError(t, err)
	assert.Len(t, a.Participants, n+2)

	seen := make(map[string]bool)
	for _, p := range a.Participants {
		assert.False(t, seen[p], "duplicate participant %s", p)
		seen[p] = true
	}
}

func TestDefaultSeed(t *testing.T) {
	seed := DefaultSeed()

	chess, ok := seed["Chess Club"]
	require.True(t, ok)
	assert.Equal(t, 12, chess.MaxParticipants)
	assert.Len(t, chess.Participants, 2)

	for name, a := range seed {
		assert.NoError(t, validateSeedActivity(a), name)
	}
}

func TestLoadSeedFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("yaml", func(t *testing.T) {
		path := filepath.Join(dir, "activities.yaml")
		content := `activities:
  - name: Chess Club
    description: Learn strategies
    schedule: Fridays
    max_participants: 12
    participants:
      - michael@mergington.edu
  - name: Robotics Lab
    description: Build robots
    schedule: Mondays
    max_participants: 8
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		seed, err := LoadSeedFile(path)
		require.NoError(t, err)
		require.Len(t, seed, 2)
		assert.Equal(t, []string{"michael@mergington.edu"}, seed["Chess Club"].Participants)
		assert.Equal(t, 8, seed["Robotics Lab"].MaxParticipants)
		assert.NotNil(t, seed["Robotics Lab"].Participants)
	})

	t.Run("json", func(t *testing.T) {
		path := filepath.Join(dir, "activities.json")
		content := `{"activities":[{"name":"Drama Club","description":"Plays","schedule":"Mondays","max_participants":20,"participants":["ella@mergington.edu"]}]}`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		seed, err := LoadSeedFile(path)
		require.NoError(t, err)
		assert.Equal(t, 20, seed["Drama Club"].MaxParticipants)
	})

	t.Run("rejects invalid entries", func(t *testing.T) {
		cases := map[string]string{
			"missing name":    "activities:\n  - max_participants: 3\n",
			"zero capacity":   "activities:\n  - name: A\n    max_participants: 0\n",
			"duplicate email": "activities:\n  - name: A\n    max_participants: 3\n    participants: [a@x, a@x]\n",
			"duplicate name":  "activities:\n  - name: A\n    max_participants: 3\n  - name: A\n    max_participants: 3\n",
		}
		for name, content := range cases {
			path := filepath.Join(dir, "bad.yaml")
			require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

			_, err := LoadSeedFile(path)
			assert.Error(t, err, name)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadSeedFile(filepath.Join(dir, "nope.yaml"))
		assert.Error(t, err)
	})
}
