package anim

import (
	"errors"
	"fmt"
	"image"
)

// ErrTerminal is returned by Play once a death clip has been exhausted; the
// instance accepts no further transitions until Reset.
var ErrTerminal = errors.New("animator is in a terminal state")

// ErrUnknownAction means no clip is registered for the requested action.
var ErrUnknownAction = errors.New("unknown action")

// Animator is the per-entity-instance state machine over that entity's
// clips. States are the action names; idle loops and is the initial state.
type Animator struct {
	clips   map[string]*Clip
	current string
	state   *State
}

// NewAnimator registers the given clips by action. Playback starts on idle
// when present, otherwise on the first clip supplied.
func NewAnimator(clips ...*Clip) (*Animator, error) {
	if len(clips) == 0 {
		return nil, errors.New("animator needs at least one clip")
	}

	a := &Animator{clips: make(map[string]*Clip, len(clips))}
	for _, c := range clips {
		a.clips[c.Action] = c
	}

	initial := clips[0].Action
	if _, ok := a.clips[ActionIdle]; ok {
		initial = ActionIdle
	}
	a.current = initial
	a.state = NewState(a.clips[initial])
	return a, nil
}

// AddClip registers another clip. An existing clip for the same action is
// replaced for future Play calls; the running state is untouched.
func (a *Animator) AddClip(c *Clip) {
	a.clips[c.Action] = c
}

// Play transitions to the given action. Requesting the current action is a
// no-op unless forceRestart is set, which rewinds to frame zero even
// mid-play (supports replaying a repeated hurt reaction). A finished death
// clip is terminal.
func (a *Animator) Play(action string, forceRestart bool) error {
	if a.Terminal() {
		return fmt.Errorf("playing %q: %w", action, ErrTerminal)
	}

	clip, ok := a.clips[action]
	if !ok {
		return fmt.Errorf("playing %q: %w", action, ErrUnknownAction)
	}

	if action == a.current && !forceRestart {
		return nil
	}

	a.current = action
	a.state = NewState(clip)
	return nil
}

// Advance moves playback forward by dt seconds. A finished non-looping
// action hands control back to idle, except death, which holds its final
// frame.
func (a *Animator) Advance(dt float64) {
	a.state.Advance(dt)

	if a.state.Finished() && a.current != ActionDeath {
		if _, ok := a.clips[ActionIdle]; ok && a.current != ActionIdle {
			a.current = ActionIdle
			a.state = NewState(a.clips[ActionIdle])
		}
	}
}

// CurrentFrame returns the frame to render right now.
func (a *Animator) CurrentFrame() image.Image {
	return a.state.CurrentFrame()
}

// FrameIndex returns the current frame index within the playing clip.
func (a *Animator) FrameIndex() int {
	return a.state.FrameIndex()
}

// Current returns the playing action name.
func (a *Animator) Current() string {
	return a.current
}

// Terminal reports whether the instance has finished its death clip.
func (a *Animator) Terminal() bool {
	return a.current == ActionDeath && a.state.Finished()
}

// Reset returns the instance to looping idle (or its initial clip when no
// idle is registered), clearing any terminal state.
func (a *Animator) Reset() {
	if _, ok := a.clips[ActionIdle]; ok {
		a.current = ActionIdle
	}
	a.state = NewState(a.clips[a.current])
}
