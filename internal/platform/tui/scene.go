package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// UpdateResult tells the stack whether scenes below should see a message.
type UpdateResult int

const (
	KeepUpdating UpdateResult = iota
	StopUpdating
)

// SceneManager is the part of the stack a scene may change while it updates.
type SceneManager interface {
	PushScene(s Scene)
	PopCurrentScene()
}

// Scene is one screen of the application.
type Scene interface {
	// Init runs once when the scene enters the stack.
	Init() tea.Cmd

	// Update handles a message. Changes to the stack take effect after all
	// scenes have seen the message.
	Update(msg tea.Msg, mgr SceneManager) (UpdateResult, tea.Cmd)

	// View renders the scene at the given terminal size.
	View(width, height int) string

	// Close releases the scene's resources when it leaves the stack.
	Close()
}

// SceneStack routes messages from the top scene down and renders the top scene.
// Pushes and pops are deferred until the message has been fully handled, so
// a scene never sees the stack change under it.
type SceneStack struct {
	scenes  []Scene
	current int
	remove  map[int]bool
	add     []Scene
}

// NewSceneStack creates a stack holding the initial scene. The initial scene
// is initialized by the first Update.
func NewSceneStack(initial ...Scene) *SceneStack {
	s := &SceneStack{current: -1, remove: make(map[int]bool)}
	s.add = append(s.add, initial...)
	return s
}

// IsEmpty reports whether no scene is left.
func (s *SceneStack) IsEmpty() bool {
	return len(s.scenes) == 0 && len(s.add) == 0
}

// Len returns the number of live scenes.
func (s *SceneStack) Len() int {
	return len(s.scenes)
}

// Top returns the top scene, or nil.
func (s *SceneStack) Top() Scene {
	if len(s.scenes) == 0 {
		return nil
	}
	return s.scenes[len(s.scenes)-1]
}

// PushScene schedules s to be placed on top of the stack.
func (s *SceneStack) PushScene(scene Scene) {
	s.add = append(s.add, scene)
}

// PopCurrentScene schedules the scene being updated for removal.
func (s *SceneStack) PopCurrentScene() {
	if s.current >= 0 && s.current < len(s.scenes) {
		s.remove[s.current] = true
	}
}

// Update delivers msg to the scenes from top to bottom, then applies the
// scheduled pops and pushes.
func (s *SceneStack) Update(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for i := len(s.scenes) - 1; i >= 0; i-- {
		s.current = i
		result, cmd := s.scenes[i].Update(msg, s)
		cmds = append(cmds, cmd)
		if result == StopUpdating {
			break
		}
	}
	s.current = -1

	cmds = append(cmds, s.apply())
	return tea.Batch(cmds...)
}

func (s *SceneStack) apply() tea.Cmd {
	if len(s.remove) > 0 {
		kept := s.scenes[:0]
		for i, scene := range s.scenes {
			if s.remove[i] {
				scene.Close()
				continue
			}
			kept = append(kept, scene)
		}
		clear(s.scenes[len(kept):])
		s.scenes = kept
		clear(s.remove)
	}

	var cmds []tea.Cmd
	for len(s.add) > 0 {
		added := s.add
		s.add = nil
		for _, scene := range added {
			s.scenes = append(s.scenes, scene)
			cmds = append(cmds, scene.Init())
		}
	}
	return tea.Batch(cmds...)
}

// View renders the top scene.
func (s *SceneStack) View(width, height int) string {
	if top := s.Top(); top != nil {
		return top.View(width, height)
	}
	return ""
}

// Close closes every scene, top first.
func (s *SceneStack) Close() {
	for i := len(s.scenes) - 1; i >= 0; i-- {
		s.scenes[i].Close()
	}
	s.scenes = nil
	s.add = nil
}
