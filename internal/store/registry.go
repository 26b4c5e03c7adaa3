// Package store holds the in-memory activity registry.
package store

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"activities-api/internal/models"
)

var (
	ErrActivityNotFound = errors.New("ACTIVITY_NOT_FOUND")
	ErrAlreadySignedUp  = errors.New("ALREADY_SIGNED_UP")
	ErrNotRegistered    = errors.New("NOT_REGISTERED")
)

// Registry maps activity names to activities. The set of names is fixed at
// construction; only participant lists change afterwards.
type Registry struct {
	mu         sync.RWMutex
	activities map[string]*models.Activity
}

// New builds a registry from seed. The seed is copied.
func New(seed map[string]models.Activity) *Registry {
	activities := make(map[string]*models.Activity, len(seed))
	for name, a := range seed {
		c := a.Clone()
		activities[name] = &c
	}
	return &Registry{activities: activities}
}

// List returns a deep copy of every activity keyed by name.
func (r *Registry) List() map[string]models.Activity {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]models.Activity, len(r.activities))
	for name, a := range r.activities {
		out[name] = a.Clone()
	}
	return out
}

// Get returns a copy of one activity.
func (r *Registry) Get(name string) (models.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.activities[name]
	if !ok {
		return models.Activity{}, fmt.Errorf("%w: %s", ErrActivityNotFound, name)
	}
	return a.Clone(), nil
}

// Names returns the activity names in sorted order.
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

// Len returns the number of activities.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.activities)
}

// Signup enrolls email in the named activity.
func (r *Registry) Signup(activityName, email string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.activities[activityName]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrActivityNotFound, activityName)
	}
	if a.HasParticipant(email) {
		return "", fmt.Errorf("%w: %s is already signed up for %s", ErrAlreadySignedUp, email, activityName)
	}

	a.Participants = append(a.Participants, email)
	return fmt.Sprintf("Signed up %s for %s", email, activityName), nil
}

// Unregister removes email from the named activity.
func (r *Registry) Unregister(activityName, email string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.activities[activityName]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrActivityNotFound, activityName)
	}

	idx := -1
	for i, p := range a.Participants {
		if p == email {
			idx = i
			break
		}
	}
	if idx < 0 {
		return "", fmt.Errorf("%w: %s is not registered for %s", ErrNotRegistered, email, activityName)
	}

	a.Participants = append(a.Participants[:idx], a.Participants[idx+1:]...)
	return fmt.Sprintf("Unregistered %s from %s", email, activityName), nil
}
