package prompt

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSubjectLeadsAndIsCritical(t *testing.T) {
	tables := DefaultTables()

	frags := Build(tables, "creature", "ancient dragon", "common", nil)
	require.NotEmpty(t, frags)
	assert.Equal(t, "ancient dragon", frags[0].Text)
	assert.Equal(t, TierCritical, frags[0].Tier)
}

func TestBuildRarityQualityCap(t *testing.T) {
	tables := DefaultTables()

	count := func(frags []Fragment) int {
		n := 0
		for _, f := range frags {
			if f.Category == CategoryQuality {
				n++
			}
		}
		return n
	}

	assert.Equal(t, 1, count(Build(tables, "creature", "x", "common", nil)))
	assert.Equal(t, 2, count(Build(tables, "creature", "x", "uncommon", nil)))
	assert.Equal(t, 3, count(Build(tables, "creature", "x", "rare", nil)))
	assert.Equal(t, 4, count(Build(tables, "creature", "x", "legendary", nil)))
}

func TestBuildUnknownRarityKeepsAllQuality(t *testing.T) {
	tables := DefaultTables()

	frags := Build(tables, "creature", "x", "", nil)
	n := 0
	for _, f := range frags {
		if f.Category == CategoryQuality {
			n++
		}
	}
	assert.Equal(t, len(tables.Quality), n)
}

func TestBuildDedupeKeepsFirst(t *testing.T) {
	tables := DefaultTables()

	// "medieval fantasy" is already a critical style fragment; the extra
	// duplicate must not appear a second time, and the surviving copy keeps
	// the first occurrence's tier.
	frags := Build(tables, "creature", "knight", "common", []string{"Medieval Fantasy"})
	var matches []Fragment
	for _, f := range frags {
		if f.Text == "medieval fantasy" || f.Text == "Medieval Fantasy" {
			matches = append(matches, f)
		}
	}
	require.Len(t, matches, 1)
	assert.Equal(t, TierCritical, matches[0].Tier)
}

func TestBuildNegativeIncludesCategoryNegatives(t *testing.T) {
	tables := DefaultTables()

	texts := func(frags []Fragment) map[string]bool {
		out := make(map[string]bool, len(frags))
		for _, f := range frags {
			out[f.Text] = true
		}
		return out
	}

	creature := texts(BuildNegative(tables, "creature", nil))
	assert.True(t, creature["robotic"])
	assert.True(t, creature["blurry"])

	land := texts(BuildNegative(tables, "land", []string{"oversaturated"}))
	assert.True(t, land["indoor"])
	assert.True(t, land["oversaturated"])
	assert.False(t, land["robotic"])
}

func TestBuildFramePoseProgression(t *testing.T) {
	const total = 12

	poses := make(map[string]bool)
	for i := 0; i < total; i++ {
		frags := BuildFrame("skeleton warrior", "attack", i, total)
		require.NotEmpty(t, frags)
		assert.Equal(t, "skeleton warrior", frags[0].Text)
		assert.Equal(t, TierCritical, frags[1].Tier)
		poses[frags[1].Text] = true

		marker := fmt.Sprintf("animation frame %d of %d", i+1, total)
		found := false
		for _, f := range frags {
			if f.Text == marker {
				found = true
				assert.Equal(t, TierHigh, f.Tier)
			}
		}
		assert.True(t, found, "frame %d missing position marker", i)
	}

	// An attack clip moves through wind-up, swing, and follow-through.
	assert.Len(t, poses, 3)
}

func TestPoseDescriptorUnknownAction(t *testing.T) {
	assert.Equal(t, "jump pose, dynamic movement", PoseDescriptor("jump", 0))
}

func TestBuildFrameSingleFrame(t *testing.T) {
	frags := BuildFrame("goblin", "idle", 0, 1)
	require.NotEmpty(t, frags)
	assert.Equal(t, "standing pose, relaxed stance, breathing in", frags[1].Text)
}
