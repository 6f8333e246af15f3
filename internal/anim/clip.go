// Package anim drives deterministic sprite-sheet animation playback at a
// fixed logical frame rate, independent of how often the host samples it.
package anim

import (
	"errors"
	"fmt"
	"image"
)

// Standard action names. Death is terminal: once its clip is exhausted the
// instance accepts no further transitions until reset.
const (
	ActionIdle   = "idle"
	ActionAttack = "attack"
	ActionCast   = "cast"
	ActionHurt   = "hurt"
	ActionDeath  = "death"
)

// DefaultFrameCount returns how many frames a generated clip uses for an
// action: short loop for idle, more frames for the complex actions.
func DefaultFrameCount(action string) int {
	switch action {
	case ActionIdle:
		return 8
	case ActionAttack, ActionCast:
		return 12
	default:
		return 10
	}
}

// Loops reports whether an action's clip repeats. Only idle loops; every
// other action plays once and either holds (death) or hands back to idle.
func Loops(action string) bool {
	return action == ActionIdle
}

// Clip is an immutable ordered frame sequence for one entity-type/action
// pair, shared read-only by every instance of that entity type.
type Clip struct {
	Entity        string
	Action        string
	Frames        []image.Image
	FrameDuration float64 // seconds per frame
	Loop          bool
}

// NewClip builds a clip playing at the given frames-per-second rate.
func NewClip(entity, action string, frames []image.Image, fps float64, loop bool) (*Clip, error) {
	if len(frames) == 0 {
		return nil, errors.New("clip needs at least one frame")
	}
	if fps <= 0 {
		return nil, fmt.Errorf("invalid fps %v", fps)
	}
	return &Clip{
		Entity:        entity,
		Action:        action,
		Frames:        frames,
		FrameDuration: 1.0 / fps,
		Loop:          loop,
	}, nil
}

// Len returns the frame count.
func (c *Clip) Len() int {
	return len(c.Frames)
}

// Duration returns the total clip length in seconds.
func (c *Clip) Duration() float64 {
	return float64(len(c.Frames)) * c.FrameDuration
}
