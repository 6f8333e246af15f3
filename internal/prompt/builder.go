package prompt

import "strings"

// Build assembles the candidate fragments for one asset: the subject first
// (critical, so it always survives), then style, per-category theme, rarity
// flourishes, quality fragments capped by rarity, two lighting fragments,
// and any caller extras. Duplicate texts are dropped, keeping the first
// occurrence; the optimizer decides what actually fits.
func Build(t *Tables, category, subject, rarity string, extra []string) []Fragment {
	var candidates []Fragment

	if subject != "" {
		candidates = append(candidates, Fragment{
			Text:     subject,
			Tier:     TierCritical,
			Category: CategorySubject,
		})
	}

	candidates = append(candidates, t.Style...)
	candidates = append(candidates, t.Themes[category]...)

	for _, text := range t.RarityFlourish[rarity] {
		candidates = append(candidates, Fragment{
			Text:     text,
			Tier:     TierMedium,
			Category: CategorySubject,
		})
	}

	quality := t.Quality
	if limit, ok := t.RarityQuality[rarity]; ok && limit < len(quality) {
		quality = quality[:limit]
	}
	candidates = append(candidates, quality...)

	lighting := t.Lighting
	if len(lighting) > 2 {
		lighting = lighting[:2]
	}
	candidates = append(candidates, lighting...)

	for _, text := range extra {
		candidates = append(candidates, Fragment{
			Text:     text,
			Tier:     TierMedium,
			Category: CategorySubject,
		})
	}

	return dedupe(candidates)
}

// BuildNegative assembles the negative prompt candidates: the baseline
// negatives plus the per-category additions and caller extras, all at the
// same tier so budget truncation just cuts the tail.
func BuildNegative(t *Tables, category string, extra []string) []Fragment {
	var candidates []Fragment
	for _, text := range t.Negative {
		candidates = append(candidates, Fragment{
			Text:     text,
			Tier:     TierMedium,
			Category: CategoryNegative,
		})
	}
	for _, text := range t.TypeNegatives[category] {
		candidates = append(candidates, Fragment{
			Text:     text,
			Tier:     TierMedium,
			Category: CategoryNegative,
		})
	}
	for _, text := range extra {
		candidates = append(candidates, Fragment{
			Text:     text,
			Tier:     TierLow,
			Category: CategoryNegative,
		})
	}
	return dedupe(candidates)
}

func dedupe(fragments []Fragment) []Fragment {
	seen := make(map[string]bool, len(fragments))
	out := fragments[:0]
	for _, f := range fragments {
		key := strings.ToLower(f.Text)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, f)
	}
	return out
}
