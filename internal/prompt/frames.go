package prompt

import "fmt"

// frameQualifiers nudge the model toward a consistent look across the frames
// of one clip. Continuity between frames is only this textual hint; no
// cross-frame conditioning is applied.
var frameQualifiers = []string{
	"transparent background",
	"full body character",
	"high detail",
	"consistent art style",
	"medieval fantasy",
	"painterly style",
	"same character design",
	"consistent lighting",
}

// BuildFrame assembles the candidate fragments for one animation frame:
// the entity subject and its pose for this point in the action, then the
// consistency qualifiers and the frame-position marker.
func BuildFrame(subject, action string, frame, total int) []Fragment {
	progress := 0.0
	if total > 1 {
		progress = float64(frame) / float64(total-1)
	}

	candidates := []Fragment{
		{Text: subject, Tier: TierCritical, Category: CategorySubject},
		{Text: PoseDescriptor(action, progress), Tier: TierCritical, Category: CategorySubject},
	}
	for _, q := range frameQualifiers {
		candidates = append(candidates, Fragment{
			Text:     q,
			Tier:     TierMedium,
			Category: CategoryStyle,
		})
	}
	candidates = append(candidates, Fragment{
		Text:     fmt.Sprintf("animation frame %d of %d", frame+1, total),
		Tier:     TierHigh,
		Category: CategoryStyle,
	})

	return dedupe(candidates)
}

// PoseDescriptor returns the pose phrase for an action at a given progress
// through the clip (0.0 to 1.0).
func PoseDescriptor(action string, progress float64) string {
	switch action {
	case "idle":
		if progress < 0.5 {
			return "standing pose, relaxed stance, breathing in"
		}
		return "standing pose, relaxed stance, breathing out"

	case "attack":
		switch {
		case progress < 0.3:
			return "raising weapon, preparing to strike, wind-up pose"
		case progress < 0.6:
			return "mid-attack, weapon swinging, action pose"
		default:
			return "follow-through, weapon extended, completion pose"
		}

	case "cast":
		switch {
		case progress < 0.4:
			return "gathering magical energy, hands glowing, preparation"
		case progress < 0.7:
			return "casting spell, energy flowing, magical gestures"
		default:
			return "spell completion, energy released, finishing pose"
		}

	case "hurt":
		switch {
		case progress < 0.3:
			return "taking damage, impact reaction, stumbling"
		case progress < 0.7:
			return "recoiling from hit, defensive posture"
		default:
			return "recovering balance, defensive stance"
		}

	case "death":
		if progress < 0.5 {
			return "falling down, collapsing, losing balance"
		}
		return "on ground, defeated pose, motionless"

	default:
		return fmt.Sprintf("%s pose, dynamic movement", action)
	}
}
