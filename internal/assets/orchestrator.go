package assets

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"image"

	_ "image/jpeg"
	_ "image/png"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/avaldr/deckforge/internal/anim"
	"github.com/avaldr/deckforge/internal/cache"
	"github.com/avaldr/deckforge/internal/config"
	"github.com/avaldr/deckforge/internal/diffusion"
	"github.com/avaldr/deckforge/internal/prompt"
	"github.com/avaldr/deckforge/internal/sheet"
)

// Orchestrator composes the optimizer, the generation server, and the
// content cache into the asset pipeline. It owns the single-slot gate in
// front of the server: the accelerator does not tolerate concurrent use, so
// calls queue on the gate rather than interleave.
type Orchestrator struct {
	cfg    *config.Config
	tables *prompt.Tables
	opt    *prompt.Optimizer
	gen    diffusion.Generator
	cache  *cache.Cache
	gate   *semaphore.Weighted
	log    zerolog.Logger
}

// New wires an Orchestrator. tables and cfg are read-only after startup.
func New(cfg *config.Config, tables *prompt.Tables, opt *prompt.Optimizer, gen diffusion.Generator, c *cache.Cache, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:    cfg,
		tables: tables,
		opt:    opt,
		gen:    gen,
		cache:  c,
		gate:   semaphore.NewWeighted(1),
		log:    log,
	}
}

// AssetOptions tune one asset generation. Zero values fall back to the
// configured generation defaults.
type AssetOptions struct {
	Rarity        string
	Extra         []string
	ExtraNegative []string
	Width         int
	Height        int
	Steps         int
	GuidanceScale float64
	Seed          *int64
}

// GenerateAsset produces (or retrieves) the artifact for one category and
// subject. With AI disabled it returns a deterministic placeholder and
// never touches the generation server.
func (o *Orchestrator) GenerateAsset(ctx context.Context, category, subject string, opts AssetOptions) (*cache.Artifact, error) {
	req, err := o.buildRequest(category, subject, opts)
	if err != nil {
		return nil, fmt.Errorf("asset %s/%s: %w", category, subject, err)
	}
	fingerprint := req.Fingerprint()

	log := o.log.With().
		Str("category", category).
		Str("subject", subject).
		Str("fingerprint", fingerprint).
		Logger()

	if !o.cfg.AI.Enabled {
		log.Debug().Msg("AI disabled, rendering placeholder")
		data, err := Placeholder(category, subject, req.Width, req.Height)
		if err != nil {
			return nil, fmt.Errorf("asset %s/%s: %w", category, subject, err)
		}
		return &cache.Artifact{Fingerprint: fingerprint, Data: data}, nil
	}

	art, err := o.cache.GetOrCreate(ctx, fingerprint, func(ctx context.Context) ([]byte, error) {
		return o.produce(ctx, req)
	})
	if err != nil {
		return nil, fmt.Errorf("asset %s/%s (fingerprint %s): %w", category, subject, fingerprint, err)
	}
	return art, nil
}

// buildRequest shapes both prompts under their ceilings and resolves the
// numeric parameters.
func (o *Orchestrator) buildRequest(category, subject string, opts AssetOptions) (Request, error) {
	sel, err := o.opt.Select(
		prompt.Build(o.tables, category, subject, opts.Rarity, opts.Extra),
		o.cfg.Prompt.MaxTokens,
	)
	if err != nil {
		return Request{}, err
	}
	if sel.Truncated {
		o.log.Warn().
			Str("category", category).
			Str("subject", subject).
			Int("ceiling", o.cfg.Prompt.MaxTokens).
			Msg("prompt fragment truncated at token level")
	}

	negSel, err := o.opt.Select(
		prompt.BuildNegative(o.tables, category, opts.ExtraNegative),
		o.cfg.Prompt.NegativeMaxTokens,
	)
	if err != nil {
		return Request{}, err
	}

	req := Request{
		Category:       category,
		Subject:        subject,
		Prompt:         sel.Prompt,
		NegativePrompt: negSel.Prompt,
		Steps:          o.cfg.Generation.NumInferenceSteps,
		GuidanceScale:  o.cfg.Generation.GuidanceScale,
		Width:          o.cfg.Generation.Width,
		Height:         o.cfg.Generation.Height,
		Seed:           opts.Seed,
	}
	if opts.Steps > 0 {
		req.Steps = opts.Steps
	}
	if opts.GuidanceScale > 0 {
		req.GuidanceScale = opts.GuidanceScale
	}
	if opts.Width > 0 {
		req.Width = opts.Width
	}
	if opts.Height > 0 {
		req.Height = opts.Height
	}
	return req, nil
}

// produce performs the external call under the single-slot gate, retrying
// transient failures with bounded exponential backoff. Non-transient
// failures surface immediately.
func (o *Orchestrator) produce(ctx context.Context, req Request) ([]byte, error) {
	if err := o.gate.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("acquiring generation slot: %w", err)
	}
	defer o.gate.Release(1)

	dreq := diffusion.Request{
		Prompt:         req.Prompt,
		NegativePrompt: req.NegativePrompt,
		Steps:          req.Steps,
		GuidanceScale:  req.GuidanceScale,
		Width:          req.Width,
		Height:         req.Height,
		Seed:           req.Seed,
	}

	bo := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), o.cfg.Generation.MaxRetries),
		ctx,
	)
	return backoff.RetryWithData(func() ([]byte, error) {
		data, err := o.gen.Generate(ctx, dreq)
		if err != nil {
			if diffusion.IsTransient(err) {
				o.log.Warn().Err(err).Msg("transient generation failure, retrying")
				return nil, err
			}
			return nil, backoff.Permanent(err)
		}
		return data, nil
	}, bo)
}

// GenerateClip generates one frame per index, each carrying its pose
// descriptor and frame-position marker, and assembles them into a
// horizontal sheet. Frames are independent generations; continuity between
// them is only the prompt hint.
func (o *Orchestrator) GenerateClip(ctx context.Context, entity, basePrompt, action string, frameCount int) (*sheet.Sheet, error) {
	if frameCount <= 0 {
		frameCount = anim.DefaultFrameCount(action)
	}
	if basePrompt == "" {
		basePrompt = entity
	}

	cellW := o.cfg.Animation.CellWidth
	cellH := o.cfg.Animation.CellHeight
	baseSeed := entitySeed(entity)

	log := o.log.With().
		Str("entity", entity).
		Str("action", action).
		Int("frames", frameCount).
		Logger()
	log.Info().Msg("generating animation clip")

	frames := make([]image.Image, frameCount)
	for i := 0; i < frameCount; i++ {
		data, err := o.generateFrame(ctx, entity, basePrompt, action, i, frameCount, baseSeed, cellW, cellH)
		if err != nil {
			return nil, fmt.Errorf("clip %s/%s frame %d: %w", entity, action, i, err)
		}

		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("clip %s/%s frame %d: decoding image: %w", entity, action, i, err)
		}
		frames[i] = img
	}

	sh, err := sheet.Assemble(frames, cellW, cellH)
	if err != nil {
		return nil, fmt.Errorf("clip %s/%s: %w", entity, action, err)
	}
	log.Info().Msg("animation clip assembled")
	return sh, nil
}

// generateFrame produces the bytes for one frame of a clip. Frames share
// the entity's base seed with a per-frame offset so the model keeps the
// character design as stable as a seed can make it.
func (o *Orchestrator) generateFrame(ctx context.Context, entity, basePrompt, action string, frame, total int, baseSeed int64, cellW, cellH int) ([]byte, error) {
	sel, err := o.opt.Select(
		prompt.BuildFrame(basePrompt, action, frame, total),
		o.cfg.Prompt.MaxTokens,
	)
	if err != nil {
		return nil, err
	}
	negSel, err := o.opt.Select(
		prompt.BuildNegative(o.tables, "", nil),
		o.cfg.Prompt.NegativeMaxTokens,
	)
	if err != nil {
		return nil, err
	}

	seed := baseSeed + int64(frame)
	req := Request{
		Category:       entity,
		Subject:        action,
		Prompt:         sel.Prompt,
		NegativePrompt: negSel.Prompt,
		Steps:          o.cfg.Generation.NumInferenceSteps,
		GuidanceScale:  o.cfg.Generation.GuidanceScale,
		Width:          cellW,
		Height:         cellH,
		Seed:           &seed,
	}

	if !o.cfg.AI.Enabled {
		label := fmt.Sprintf("%s %d/%d", action, frame+1, total)
		return Placeholder(entity, label, cellW, cellH)
	}

	art, err := o.cache.GetOrCreate(ctx, req.Fingerprint(), func(ctx context.Context) ([]byte, error) {
		return o.produce(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return art.Data, nil
}

// SaveClip writes the assembled sheet and its metadata into the configured
// sheet directory, named after the entity and action.
func (o *Orchestrator) SaveClip(sh *sheet.Sheet, entity, action string) (string, error) {
	return sh.WriteFiles(o.cfg.Output.SheetDir, SheetName(entity, action))
}

// SheetName returns the sheet base name for an entity/action pair.
func SheetName(entity, action string) string {
	return fmt.Sprintf("%s_%s_sheet", entity, action)
}

// entitySeed derives a stable seed from the entity id so regenerating a
// clip reproduces the same frames.
func entitySeed(entity string) int64 {
	sum := sha256.Sum256([]byte(entity))
	return int64(binary.BigEndian.Uint32(sum[:4]))
}
