package prompt

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tables holds the static prompt fragment lists. Loaded once at startup and
// never mutated afterwards; the orchestrator receives it by reference.
type Tables struct {
	Quality  []Fragment
	Style    []Fragment
	Lighting []Fragment

	// Themed fragments per asset category (creature, spell, artifact, land).
	Themes map[string][]Fragment

	// Negative holds the baseline negative prompt phrases; TypeNegatives
	// adds per-category ones.
	Negative      []string
	TypeNegatives map[string][]string

	// RarityFlourish adds descriptive phrases per rarity; RarityQuality
	// caps how many quality fragments a rarity is allowed.
	RarityFlourish map[string][]string
	RarityQuality  map[string]int
}

// DefaultTables returns the built-in medieval card tables.
func DefaultTables() *Tables {
	return &Tables{
		Quality: []Fragment{
			{Text: "masterpiece", Tier: TierHigh, Category: CategoryQuality},
			{Text: "best quality", Tier: TierHigh, Category: CategoryQuality},
			{Text: "high quality", Tier: TierHigh, Category: CategoryQuality},
			{Text: "ultra detailed", Tier: TierMedium, Category: CategoryQuality},
			{Text: "sharp focus", Tier: TierMedium, Category: CategoryQuality},
			{Text: "professional", Tier: TierMedium, Category: CategoryQuality},
			{Text: "8k resolution", Tier: TierLow, Category: CategoryQuality},
			{Text: "highly detailed", Tier: TierLow, Category: CategoryQuality},
		},
		Style: []Fragment{
			{Text: "medieval fantasy", Tier: TierCritical, Category: CategoryStyle},
			{Text: "dark fantasy", Tier: TierHigh, Category: CategoryStyle},
			{Text: "gothic", Tier: TierHigh, Category: CategoryStyle},
			{Text: "renaissance art", Tier: TierMedium, Category: CategoryStyle},
			{Text: "oil painting", Tier: TierMedium, Category: CategoryStyle},
			{Text: "concept art", Tier: TierMedium, Category: CategoryStyle},
			{Text: "fantasy art", Tier: TierLow, Category: CategoryStyle},
		},
		Lighting: []Fragment{
			{Text: "dramatic lighting", Tier: TierHigh, Category: CategoryLighting},
			{Text: "atmospheric", Tier: TierHigh, Category: CategoryLighting},
			{Text: "moody lighting", Tier: TierMedium, Category: CategoryLighting},
			{Text: "golden hour", Tier: TierMedium, Category: CategoryLighting},
			{Text: "candlelight", Tier: TierMedium, Category: CategoryLighting},
			{Text: "moonlight", Tier: TierLow, Category: CategoryLighting},
			{Text: "torch light", Tier: TierLow, Category: CategoryLighting},
		},
		Themes: map[string][]Fragment{
			"creature": {
				{Text: "ancient beast", Tier: TierCritical, Category: CategorySubject},
				{Text: "mythical creature", Tier: TierHigh, Category: CategorySubject},
				{Text: "dark forest", Tier: TierHigh, Category: CategorySubject},
				{Text: "ancient ruins", Tier: TierMedium, Category: CategorySubject},
				{Text: "mystical cavern", Tier: TierMedium, Category: CategorySubject},
			},
			"spell": {
				{Text: "magical energy", Tier: TierCritical, Category: CategorySubject},
				{Text: "arcane magic", Tier: TierHigh, Category: CategorySubject},
				{Text: "spell circle", Tier: TierHigh, Category: CategorySubject},
				{Text: "mystical runes", Tier: TierMedium, Category: CategorySubject},
				{Text: "enchantment", Tier: TierMedium, Category: CategorySubject},
			},
			"artifact": {
				{Text: "ancient relic", Tier: TierCritical, Category: CategorySubject},
				{Text: "magical item", Tier: TierHigh, Category: CategorySubject},
				{Text: "ornate weapon", Tier: TierHigh, Category: CategorySubject},
				{Text: "golden chalice", Tier: TierMedium, Category: CategorySubject},
				{Text: "jeweled crown", Tier: TierMedium, Category: CategorySubject},
			},
			"land": {
				{Text: "medieval castle", Tier: TierCritical, Category: CategorySubject},
				{Text: "ancient kingdom", Tier: TierHigh, Category: CategorySubject},
				{Text: "dark forest", Tier: TierHigh, Category: CategorySubject},
				{Text: "stone fortress", Tier: TierMedium, Category: CategorySubject},
				{Text: "mountain pass", Tier: TierMedium, Category: CategorySubject},
			},
		},
		Negative: []string{
			"blurry", "low quality", "pixelated", "cartoon", "anime",
			"text", "watermark", "signature", "logo", "bad anatomy",
			"deformed", "distorted", "ugly", "poorly drawn",
			"modern", "contemporary", "futuristic", "sci-fi",
			"plastic", "toy", "3d render", "cgi",
		},
		TypeNegatives: map[string][]string{
			"creature": {"robotic", "mechanical", "digital"},
			"spell":    {"physical", "solid", "mundane"},
			"artifact": {"organic", "living", "natural"},
			"land":     {"indoor", "interior", "enclosed"},
		},
		RarityFlourish: map[string][]string{
			"common":    {"rustic", "simple", "weathered"},
			"uncommon":  {"ornate", "decorated", "refined"},
			"rare":      {"magnificent", "golden", "jeweled", "majestic"},
			"legendary": {"epic", "divine", "legendary", "mythical", "godlike"},
		},
		RarityQuality: map[string]int{
			"common":    1,
			"uncommon":  2,
			"rare":      3,
			"legendary": 4,
		},
	}
}

// tablesFile is the YAML shape of a user-provided tables file. Every section
// is optional; present sections replace the built-in defaults.
type tablesFile struct {
	Quality  []fragmentEntry            `yaml:"quality"`
	Style    []fragmentEntry            `yaml:"style"`
	Lighting []fragmentEntry            `yaml:"lighting"`
	Themes   map[string][]fragmentEntry `yaml:"themes"`
	Negative []string                   `yaml:"negative"`
}

type fragmentEntry struct {
	Text string `yaml:"text"`
	Tier string `yaml:"tier"`
}

// LoadTables loads fragment tables from a YAML file, falling back to the
// built-in defaults for any section the file omits.
func LoadTables(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading tables file: %w", err)
	}

	var file tablesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing tables file: %w", err)
	}

	t := DefaultTables()
	if file.Quality != nil {
		if t.Quality, err = convertEntries(file.Quality, CategoryQuality); err != nil {
			return nil, fmt.Errorf("quality section: %w", err)
		}
	}
	if file.Style != nil {
		if t.Style, err = convertEntries(file.Style, CategoryStyle); err != nil {
			return nil, fmt.Errorf("style section: %w", err)
		}
	}
	if file.Lighting != nil {
		if t.Lighting, err = convertEntries(file.Lighting, CategoryLighting); err != nil {
			return nil, fmt.Errorf("lighting section: %w", err)
		}
	}
	if file.Themes != nil {
		t.Themes = make(map[string][]Fragment, len(file.Themes))
		for category, entries := range file.Themes {
			frags, err := convertEntries(entries, CategorySubject)
			if err != nil {
				return nil, fmt.Errorf("themes section %q: %w", category, err)
			}
			t.Themes[category] = frags
		}
	}
	if file.Negative != nil {
		t.Negative = file.Negative
	}

	return t, nil
}

func convertEntries(entries []fragmentEntry, category Category) ([]Fragment, error) {
	frags := make([]Fragment, 0, len(entries))
	for _, e := range entries {
		tier, err := ParseTier(e.Tier)
		if err != nil {
			return nil, fmt.Errorf("fragment %q: %w", e.Text, err)
		}
		frags = append(frags, Fragment{Text: e.Text, Tier: tier, Category: category})
	}
	return frags, nil
}
