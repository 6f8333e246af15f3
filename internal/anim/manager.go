package anim

import "image"

// Manager tracks the animators of all live entity instances. Each animator
// is owned exclusively by its instance; the manager only routes calls, so
// no cross-instance locking is needed on the single playback tick.
type Manager struct {
	entities map[string]*Animator
}

// NewManager returns an empty registry.
func NewManager() *Manager {
	return &Manager{entities: make(map[string]*Animator)}
}

// Add registers an entity instance's animator under its id.
func (m *Manager) Add(id string, a *Animator) {
	m.entities[id] = a
}

// Remove destroys the instance's playback state.
func (m *Manager) Remove(id string) {
	delete(m.entities, id)
}

// Get returns the animator for an instance.
func (m *Manager) Get(id string) (*Animator, bool) {
	a, ok := m.entities[id]
	return a, ok
}

// Play transitions one instance to an action.
func (m *Manager) Play(id, action string, forceRestart bool) error {
	a, ok := m.entities[id]
	if !ok {
		return ErrUnknownAction
	}
	return a.Play(action, forceRestart)
}

// AdvanceAll ticks every registered instance by dt seconds.
func (m *Manager) AdvanceAll(dt float64) {
	for _, a := range m.entities {
		a.Advance(dt)
	}
}

// Frame returns the current frame for an instance.
func (m *Manager) Frame(id string) (image.Image, bool) {
	a, ok := m.entities[id]
	if !ok {
		return nil, false
	}
	return a.CurrentFrame(), true
}
