// Package registry holds the in-memory activity registry: every activity
// keyed by name, together with its participant roster.
package registry

import (
	"errors"
	"sort"
	"sync"

	"github.com/Shivanand-hulikatti/mergington-activities/internal/model"
)

// ErrActivityNotFound is returned when a requested activity does not exist.
var ErrActivityNotFound = errors.New("activity not found")

// ErrAlreadySignedUp is returned when the same email signs up twice.
var ErrAlreadySignedUp = errors.New("student already signed up for this activity")

// ErrNotRegistered is returned when unregistering an email that is not on the roster.
var ErrNotRegistered = errors.New("student not registered for this activity")

// Registry is the in-memory collection of activities.
// It is safe for concurrent use; mutations are serialised by a single lock.
type Registry struct {
	mu         sync.RWMutex
	activities map[string]*model.Activity
}

// New constructs a Registry populated with a copy of seed.
func New(seed map[string]model.Activity) *Registry {
	r := &Registry{activities: make(map[string]*model.Activity, len(seed))}
	for name, a := range seed {
		c := a.Clone()
		r.activities[name] = &c
	}
	return r
}

// List returns a snapshot of every activity. The snapshot does not
// observe later signups or unregisters.
func (r *Registry) List() map[string]model.Activity {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]model.Activity, len(r.activities))
	for name, a := range r.activities {
		out[name] = a.Clone()
	}
	return out
}

// Names returns activity names in lexical order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.activities))
	for name := range r.activities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns a copy of a single activity or ErrActivityNotFound.
func (r *Registry) Get(name string) (model.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.activities[name]
	if !ok {
		return model.Activity{}, ErrActivityNotFound
	}
	return a.Clone(), nil
}

// Signup appends email to the activity's roster and returns the updated
// activity. Capacity is not checked and email is not validated.
func (r *Registry) Signup(name, email string) (model.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.activities[name]
	if !ok {
		return model.Activity{}, ErrActivityNotFound
	}
	if a.HasParticipant(email) {
		return model.Activity{}, ErrAlreadySignedUp
	}
	a.Participants = append(a.Participants, email)
	return a.Clone(), nil
}

// Unregister removes email from the activity's roster, keeping the order
// of the remaining participants.
func (r *Registry) Unregister(name, email string) (model.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.activities[name]
	if !ok {
		return model.Activity{}, ErrActivityNotFound
	}
	for i, p := range a.Participants {
		if p == email {
			a.Participants = append(a.Participants[:i:i], a.Participants[i+1:]...)
			return a.Clone(), nil
		}
	}
	return model.Activity{}, ErrNotRegistered
}
