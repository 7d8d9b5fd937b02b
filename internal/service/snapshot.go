package service

import (
	"sync"

	"github.com/noah-isme/classroom-dashboard/internal/models"
	appErrors "github.com/noah-isme/classroom-dashboard/pkg/errors"
)

// Snapshot is the session's local copy of upstream state. All reads return
// deep copies; all writes go through Replace or Update.
type Snapshot struct {
	mu         sync.RWMutex
	classes    []models.ClassRoom
	loaded     bool
	generation uint64
	version    uint64
}

// NewSnapshot returns an empty, unloaded snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{classes: []models.ClassRoom{}}
}

// BeginReload reserves a generation for a whole-list reload.
func (s *Snapshot) BeginReload() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	return s.generation
}

// Replace installs a reloaded class list unless a newer reload has started
// since gen was reserved. It reports whether the list was applied.
func (s *Snapshot) Replace(gen uint64, classes []models.ClassRoom) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return false
	}
	s.classes = make([]models.ClassRoom, len(classes))
	for i, c := range classes {
		c.Normalize()
		s.classes[i] = c.Clone()
	}
	s.loaded = true
	s.version++
	return true
}

// Loaded reports whether at least one reload has been applied.
func (s *Snapshot) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Version increments on every applied change.
func (s *Snapshot) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Classes returns a copy of every class.
func (s *Snapshot) Classes() []models.ClassRoom {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ClassRoom, len(s.classes))
	for i, c := range s.classes {
		out[i] = c.Clone()
	}
	return out
}

// Class returns a copy of one class.
func (s *Snapshot) Class(id string) (models.ClassRoom, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return models.ClassRoom{}, appErrors.Clone(appErrors.ErrNotFound, "class not found")
	}
	return s.classes[idx].Clone(), nil
}

// Append adds a class.
func (s *Snapshot) Append(class models.ClassRoom) {
	class.Normalize()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.classes = append(s.classes, class.Clone())
	s.version++
}

// Remove drops a class, ignoring unknown ids.
func (s *Snapshot) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return
	}
	s.classes = append(s.classes[:idx], s.classes[idx+1:]...)
	s.version++
}

// Update applies fn to one class under the write lock. If fn fails the class
// is left untouched.
func (s *Snapshot) Update(classID string, fn func(*models.ClassRoom) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(classID)
	if idx < 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "class not found")
	}
	working := s.classes[idx].Clone()
	if err := fn(&working); err != nil {
		return err
	}
	working.Normalize()
	s.classes[idx] = working
	s.version++
	return nil
}

func (s *Snapshot) indexOf(id string) int {
	for i := range s.classes {
		if s.classes[i].ID == id {
			return i
		}
	}
	return -1
}
