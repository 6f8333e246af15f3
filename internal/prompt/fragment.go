// Package prompt builds diffusion prompts from tiered fragments and fits
// them into a hard token ceiling.
package prompt

import "fmt"

// Tier is the priority class of a fragment. Lower values survive budget
// truncation first.
type Tier int

const (
	TierCritical Tier = iota
	TierHigh
	TierMedium
	TierLow
)

var tierNames = map[Tier]string{
	TierCritical: "critical",
	TierHigh:     "high",
	TierMedium:   "medium",
	TierLow:      "low",
}

func (t Tier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return fmt.Sprintf("tier(%d)", int(t))
}

// ParseTier converts a tier name from a tables file into a Tier.
func ParseTier(s string) (Tier, error) {
	for t, name := range tierNames {
		if name == s {
			return t, nil
		}
	}
	return TierLow, fmt.Errorf("unknown tier %q", s)
}

// Category describes where a fragment came from.
type Category string

const (
	CategoryQuality  Category = "quality"
	CategoryStyle    Category = "style"
	CategoryLighting Category = "lighting"
	CategorySubject  Category = "subject"
	CategoryNegative Category = "negative"
)

// Fragment is a short prompt phrase with a priority tier. Immutable once
// constructed.
type Fragment struct {
	Text     string
	Tier     Tier
	Category Category
}
