package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wordTokenizer counts whitespace-separated words. It keeps the optimizer
// tests hermetic: the real BPE tokenizer needs its encoding tables, and the
// optimizer's contract does not depend on any particular tokenization.
type wordTokenizer struct{}

func (wordTokenizer) Count(text string) int {
	return len(strings.Fields(text))
}

func (wordTokenizer) Truncate(text string, maxTokens int) string {
	fields := strings.Fields(text)
	if len(fields) <= maxTokens {
		return text
	}
	return strings.Join(fields[:maxTokens], " ")
}

func newTestOptimizer() *Optimizer {
	return NewOptimizer(wordTokenizer{})
}

func TestSelectRespectsCeiling(t *testing.T) {
	opt := newTestOptimizer()
	fragments := []Fragment{
		{Text: "armored knight with sword", Tier: TierCritical},
		{Text: "masterpiece", Tier: TierHigh},
		{Text: "highly detailed", Tier: TierHigh},
		{Text: "dramatic lighting", Tier: TierMedium},
		{Text: "8k resolution", Tier: TierLow},
	}

	for ceiling := 1; ceiling <= 20; ceiling++ {
		sel, err := opt.Select(fragments, ceiling)
		require.NoError(t, err, "ceiling %d", ceiling)
		assert.LessOrEqual(t, sel.Tokens, ceiling, "ceiling %d", ceiling)
		assert.Equal(t, wordTokenizer{}.Count(sel.Prompt), sel.Tokens, "ceiling %d", ceiling)
	}
}

func TestSelectTierOrder(t *testing.T) {
	opt := newTestOptimizer()

	// Listed low-to-high on purpose: tier beats listing order.
	fragments := []Fragment{
		{Text: "grainy", Tier: TierLow},
		{Text: "glow", Tier: TierMedium},
		{Text: "sharp", Tier: TierHigh},
		{Text: "wizard", Tier: TierCritical},
	}

	sel, err := opt.Select(fragments, 10)
	require.NoError(t, err)
	assert.Equal(t, "wizard, sharp, glow, grainy", sel.Prompt)
	assert.False(t, sel.Truncated)
}

func TestSelectPreservesOrderWithinTier(t *testing.T) {
	opt := newTestOptimizer()
	fragments := []Fragment{
		{Text: "first", Tier: TierHigh},
		{Text: "second", Tier: TierHigh},
		{Text: "third", Tier: TierHigh},
	}

	sel, err := opt.Select(fragments, 10)
	require.NoError(t, err)
	assert.Equal(t, "first, second, third", sel.Prompt)
}

func TestSelectStopsAtFirstOverflow(t *testing.T) {
	opt := newTestOptimizer()
	fragments := []Fragment{
		{Text: "knight in armor", Tier: TierCritical}, // 3 tokens
		{Text: "a very long high tier fragment", Tier: TierHigh},
		{Text: "short", Tier: TierHigh},
		{Text: "tiny", Tier: TierLow},
	}

	// Ceiling of 5 fits the critical fragment but not the long high one.
	// Everything after the overflow is dropped, even fragments that would
	// still fit.
	sel, err := opt.Select(fragments, 5)
	require.NoError(t, err)
	assert.Equal(t, "knight in armor", sel.Prompt)
	assert.Len(t, sel.Fragments, 1)
	assert.False(t, sel.Truncated)
}

func TestSelectTruncatesOversizedFirstFragment(t *testing.T) {
	opt := newTestOptimizer()
	fragments := []Fragment{
		{Text: "one two three four five six", Tier: TierCritical},
	}

	sel, err := opt.Select(fragments, 4)
	require.NoError(t, err)
	assert.True(t, sel.Truncated)
	assert.Equal(t, "one two three four", sel.Prompt)
	assert.Equal(t, 4, sel.Tokens)
	require.Len(t, sel.Fragments, 1)
	assert.Equal(t, TierCritical, sel.Fragments[0].Tier)
}

func TestSelectNoTruncationWhenSomethingAlreadySelected(t *testing.T) {
	opt := newTestOptimizer()
	fragments := []Fragment{
		{Text: "knight", Tier: TierCritical},
		{Text: "one two three four five six seven", Tier: TierHigh},
	}

	sel, err := opt.Select(fragments, 4)
	require.NoError(t, err)
	assert.False(t, sel.Truncated)
	assert.Equal(t, "knight", sel.Prompt)
}

func TestSelectInvalidCeiling(t *testing.T) {
	opt := newTestOptimizer()
	fragments := []Fragment{{Text: "knight", Tier: TierCritical}}

	for _, ceiling := range []int{0, -1, -77} {
		_, err := opt.Select(fragments, ceiling)
		assert.ErrorIs(t, err, ErrBudgetExceeded, "ceiling %d", ceiling)
	}
}

func TestSelectEmptyInput(t *testing.T) {
	opt := newTestOptimizer()

	sel, err := opt.Select(nil, 77)
	require.NoError(t, err)
	assert.Empty(t, sel.Prompt)
	assert.Zero(t, sel.Tokens)
	assert.Empty(t, sel.Fragments)
}

func TestSelectDropsLowTiersUnderTightCeiling(t *testing.T) {
	opt := newTestOptimizer()
	fragments := []Fragment{
		{Text: "knight", Tier: TierCritical},
		{Text: "masterpiece", Tier: TierHigh},
		{Text: "detailed", Tier: TierHigh},
		{Text: "8k", Tier: TierLow},
		{Text: "ultra", Tier: TierLow},
	}

	sel, err := opt.Select(fragments, 3)
	require.NoError(t, err)
	assert.Equal(t, "knight, masterpiece, detailed", sel.Prompt)
	require.Len(t, sel.Fragments, 3)
	assert.False(t, sel.Truncated)
}

func TestSelectCardPrompt(t *testing.T) {
	opt := newTestOptimizer()
	tables := DefaultTables()

	fragments := Build(tables, "creature", "armored knight with a glowing sword", "rare", nil)
	sel, err := opt.Select(fragments, 77)
	require.NoError(t, err)

	assert.LessOrEqual(t, sel.Tokens, 77)
	// The subject is critical and must lead the prompt.
	assert.True(t, strings.HasPrefix(sel.Prompt, "armored knight with a glowing sword"))
}
