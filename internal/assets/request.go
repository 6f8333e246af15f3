// Package assets orchestrates prompt shaping, generation calls, caching,
// and sprite sheet assembly for the card game's visual assets.
package assets

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
)

// Request is one fully resolved generation request. Immutable; its
// fingerprint is the cache key.
type Request struct {
	Category       string
	Subject        string
	Prompt         string
	NegativePrompt string
	Steps          int
	GuidanceScale  float64
	Width          int
	Height         int
	Seed           *int64
}

// fingerprintFields is the canonical hashed form: semantic fields only, in
// a fixed order, so identical content always produces identical keys.
type fingerprintFields struct {
	Prompt         string  `json:"prompt"`
	NegativePrompt string  `json:"negative_prompt"`
	Steps          int     `json:"steps"`
	GuidanceScale  float64 `json:"guidance_scale"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	Seed           *int64  `json:"seed"`
}

// Fingerprint returns the sha256 hex digest of the request's semantic
// fields. Any change to prompt, negative prompt, steps, guidance scale,
// size, or seed yields a different fingerprint.
func (r Request) Fingerprint() string {
	data, _ := json.Marshal(fingerprintFields{
		Prompt:         r.Prompt,
		NegativePrompt: r.NegativePrompt,
		Steps:          r.Steps,
		GuidanceScale:  r.GuidanceScale,
		Width:          r.Width,
		Height:         r.Height,
		Seed:           r.Seed,
	})
	return fmt.Sprintf("%x", sha256.Sum256(data))
}
