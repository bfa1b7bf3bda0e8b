package registry

import (
	"fmt"
	"strings"

	"github.com/Shivanand-hulikatti/mergington-activities/internal/model"
	"github.com/spf13/viper"
)

// DefaultSeed returns the activities the registry starts with when no seed
// file is configured.
func DefaultSeed() map[string]model.Activity {
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
		"Gym Class": {
			Description:     "Physical education and sports activities",
			Schedule:        "Mondays, Wednesdays, Fridays, 2:00 PM - 3:00 PM",
			MaxParticipants: 30,
			Participants:    []string{"john@mergington.edu", "olivia@mergington.edu"},
		},
		"Soccer Team": {
			Description:     "Join the school soccer team and compete in matches",
			Schedule:        "Tuesdays and Thursdays, 4:00 PM - 5:30 PM",
			MaxParticipants: 22,
			Participants:    []string{"liam@mergington.edu", "noah@mergington.edu"},
		},
		"Basketball Team": {
			Description:     "Practice and play basketball with the school team",
			Schedule:        "Wednesdays and Fridays, 3:30 PM - 5:00 PM",
			MaxParticipants: 15,
			Participants:    []string{"ava@mergington.edu", "mia@mergington.edu"},
		},
		"Art Club": {
			Description:     "Explore your creativity through painting and drawing",
			Schedule:        "Thursdays, 3:30 PM - 5:00 PM",
			MaxParticipants: 15,
			Participants:    []string{"amelia@mergington.edu", "harper@mergington.edu"},
		},
		"Drama Club": {
			Description:     "Act, direct, and produce plays and performances",
			Schedule:        "Mondays and Wednesdays, 4:00 PM - 5:30 PM",
			MaxParticipants: 20,
			Participants:    []string{"ella@mergington.edu", "scarlett@mergington.edu"},
		},
		"Math Club": {
			Description:     "Solve challenging problems and participate in math competitions",
			Schedule:        "Tuesdays, 3:30 PM - 4:30 PM",
			MaxParticipants: 10,
			Participants:    []string{"james@mergington.edu", "benjamin@mergington.edu"},
		},
		"Debate Team": {
			Description:     "Develop public speaking and argumentation skills",
			Schedule:        "Fridays, 4:00 PM - 5:30 PM",
			MaxParticipants: 12,
			Participants:    []string{"charlotte@mergington.edu", "henry@mergington.edu"},
		},
	}
}

// seedEntry is one element of the "activities" list in a seed file.
// A list is used instead of a map because viper lower-cases map keys.
type seedEntry struct {
	Name           string `mapstructure:"name"`
	model.Activity `mapstructure:",squash"`
}

// LoadSeedFile reads activities from a YAML or JSON file of the form
//
//	activities:
//	  - name: Chess Club
//	    description: ...
//	    schedule: ...
//	    max_participants: 12
//	    participants: [michael@mergington.edu]
func LoadSeedFile(path string) (map[string]model.Activity, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read seed file %s: %w", path, err)
	}

	var file struct {
		Activities []seedEntry `mapstructure:"activities"`
	}
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("decode seed file %s: %w", path, err)
	}

	seed := make(map[string]model.Activity, len(file.Activities))
	for i, e := range file.Activities {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return nil, fmt.Errorf("seed entry %d: name is required", i)
		}
		if _, dup := seed[name]; dup {
			return nil, fmt.Errorf("seed entry %d: duplicate activity %q", i, name)
		}
		if err := validateSeedActivity(e.Activity); err != nil {
			return nil, fmt.Errorf("seed activity %q: %w", name, err)
		}
		seed[name] = e.Activity.Clone()
	}
	return seed, nil
}

func validateSeedActivity(a model.Activity) error {
	if a.MaxParticipants <= 0 {
		return fmt.Errorf("max_participants must be a positive integer")
	}
	seen := make(map[string]struct{}, len(a.Participants))
	for _, p := range a.Participants {
		if _, ok := seen[p]; ok {
			return fmt.Errorf("participant %s listed twice", p)
		}
		seen[p] = struct{}{}
	}
	return nil
}
