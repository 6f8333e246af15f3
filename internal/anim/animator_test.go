package anim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAnimator(t *testing.T) *Animator {
	t.Helper()
	a, err := NewAnimator(
		testClip(t, ActionIdle, 8, true),
		testClip(t, ActionAttack, 12, false),
		testClip(t, ActionHurt, 10, false),
		testClip(t, ActionDeath, 10, false),
	)
	require.NoError(t, err)
	return a
}

func TestAnimatorStartsOnIdle(t *testing.T) {
	a := testAnimator(t)
	assert.Equal(t, ActionIdle, a.Current())
	assert.Equal(t, 0, a.FrameIndex())
	assert.NotNil(t, a.CurrentFrame())
}

func TestAnimatorStartsOnFirstClipWithoutIdle(t *testing.T) {
	a, err := NewAnimator(testClip(t, ActionAttack, 12, false))
	require.NoError(t, err)
	assert.Equal(t, ActionAttack, a.Current())
}

func TestAnimatorReturnsToIdleAfterOneShot(t *testing.T) {
	a := testAnimator(t)
	attack := testClip(t, ActionAttack, 12, false)

	require.NoError(t, a.Play(ActionAttack, false))
	assert.Equal(t, ActionAttack, a.Current())

	a.Advance(attack.Duration() + attack.FrameDuration)
	assert.Equal(t, ActionIdle, a.Current())
	assert.Equal(t, 0, a.FrameIndex())
}

func TestAnimatorSameActionNoOpUnlessForced(t *testing.T) {
	a := testAnimator(t)
	hurt := testClip(t, ActionHurt, 10, false)

	require.NoError(t, a.Play(ActionHurt, false))
	a.Advance(3 * hurt.FrameDuration)
	require.Equal(t, 3, a.FrameIndex())

	// Repeating the same action does not restart it.
	require.NoError(t, a.Play(ActionHurt, false))
	assert.Equal(t, 3, a.FrameIndex())

	// A second hit mid-reaction does, via force restart.
	require.NoError(t, a.Play(ActionHurt, true))
	assert.Equal(t, 0, a.FrameIndex())
	assert.Equal(t, ActionHurt, a.Current())
}

func TestAnimatorUnknownAction(t *testing.T) {
	a := testAnimator(t)
	err := a.Play("backflip", false)
	assert.ErrorIs(t, err, ErrUnknownAction)
	assert.Equal(t, ActionIdle, a.Current(), "failed transition leaves state untouched")
}

func TestAnimatorDeathIsTerminal(t *testing.T) {
	a := testAnimator(t)
	death := testClip(t, ActionDeath, 10, false)

	require.NoError(t, a.Play(ActionDeath, false))
	a.Advance(death.Duration() * 2)

	// Death holds its final frame instead of handing back to idle.
	assert.True(t, a.Terminal())
	assert.Equal(t, ActionDeath, a.Current())
	assert.Equal(t, 9, a.FrameIndex())

	a.Advance(1.0)
	assert.Equal(t, 9, a.FrameIndex())

	err := a.Play(ActionIdle, false)
	assert.ErrorIs(t, err, ErrTerminal)
	err = a.Play(ActionAttack, true)
	assert.ErrorIs(t, err, ErrTerminal, "force restart does not override terminal state")
}

func TestAnimatorResetClearsTerminal(t *testing.T) {
	a := testAnimator(t)
	death := testClip(t, ActionDeath, 10, false)

	require.NoError(t, a.Play(ActionDeath, false))
	a.Advance(death.Duration() * 2)
	require.True(t, a.Terminal())

	a.Reset()
	assert.False(t, a.Terminal())
	assert.Equal(t, ActionIdle, a.Current())
	require.NoError(t, a.Play(ActionAttack, false))
}

func TestManagerRoutesPerInstance(t *testing.T) {
	m := NewManager()
	m.Add("goblin-1", testAnimator(t))
	m.Add("goblin-2", testAnimator(t))

	require.NoError(t, m.Play("goblin-1", ActionAttack, false))

	idle := testClip(t, ActionIdle, 8, true)
	m.AdvanceAll(2 * idle.FrameDuration)

	a1, ok := m.Get("goblin-1")
	require.True(t, ok)
	assert.Equal(t, ActionAttack, a1.Current())
	assert.Equal(t, 2, a1.FrameIndex())

	a2, ok := m.Get("goblin-2")
	require.True(t, ok)
	assert.Equal(t, ActionIdle, a2.Current())
	assert.Equal(t, 2, a2.FrameIndex())

	_, found := m.Frame("goblin-3")
	assert.False(t, found)
	assert.Error(t, m.Play("goblin-3", ActionIdle, false))

	m.Remove("goblin-1")
	_, ok = m.Get("goblin-1")
	assert.False(t, ok)
}
