package anim

import (
	"image"
	"math"
)

// frameEpsilon compensates for float accumulation when elapsed time lands
// exactly on a frame boundary.
const frameEpsilon = 1e-6

// State is one live instance's playback position in a clip. Owned
// exclusively by that instance; mutated only by Advance and Reset.
type State struct {
	clip     *Clip
	elapsed  float64
	frame    int
	finished bool
}

// NewState starts playback at frame zero.
func NewState(clip *Clip) *State {
	return &State{clip: clip}
}

// Clip returns the clip this state plays.
func (s *State) Clip() *Clip {
	return s.clip
}

// Advance accumulates dt seconds and derives the current frame index from
// elapsed time divided by the fixed frame duration, never from a counter
// incremented per host tick. Looping clips wrap modulo the clip length;
// non-looping clips clamp to the final frame. An abnormally large dt (a
// host stall) is clamped to at most one full looped wrap so the animation
// does not silently skip cycles.
func (s *State) Advance(dt float64) {
	if dt <= 0 {
		return
	}
	if s.finished && !s.clip.Loop {
		return
	}

	total := s.clip.Duration()
	if s.clip.Loop {
		if dt > total {
			dt = math.Mod(dt, total)
		}
		s.elapsed = math.Mod(s.elapsed+dt, total)
	} else {
		s.elapsed += dt
		if s.elapsed >= total-frameEpsilon {
			s.elapsed = total
			s.finished = true
			s.frame = s.clip.Len() - 1
			return
		}
	}

	s.frame = s.index()
}

// index converts elapsed time to a frame index, always in [0, len).
func (s *State) index() int {
	i := int(s.elapsed/s.clip.FrameDuration + frameEpsilon)
	if i >= s.clip.Len() {
		i = s.clip.Len() - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// FrameIndex returns the current frame index.
func (s *State) FrameIndex() int {
	return s.frame
}

// CurrentFrame returns the current frame image. Valid at any time,
// including before the first Advance call.
func (s *State) CurrentFrame() image.Image {
	return s.clip.Frames[s.frame]
}

// Finished reports whether a non-looping clip has played through.
func (s *State) Finished() bool {
	return s.finished
}

// Reset rewinds to frame zero with a cleared accumulator.
func (s *State) Reset() {
	s.elapsed = 0
	s.frame = 0
	s.finished = false
}
