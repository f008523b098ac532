// Package orchestrator composes the per-axis resolution state machines
// into one coherent "what to render" snapshot for the current selection.
// Axes resolve independently; each owns its generation counter and result
// slot, so no cross-axis locking is needed beyond the snapshot read.
package orchestrator

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"strings"
	"sync"

	"champ-model-viewer/internal/candidates"
	"champ-model-viewer/internal/catalog"
	"champ-model-viewer/internal/normalize"
	"champ-model-viewer/internal/patterns"
	"champ-model-viewer/internal/probe"
	"champ-model-viewer/internal/resolver"
	"champ-model-viewer/internal/selection"
	"champ-model-viewer/internal/texture"
)

// Snapshot is the merged view the render surface consumes.
type Snapshot struct {
	Subject string `json:"subject"`
	Skin    int    `json:"skin"`

	// Active model: alternate form > historical version > default.
	ModelURL string `json:"model_url,omitempty"`
	// Active texture override: form > historical > chroma > none.
	TextureURL string `json:"texture_url,omitempty"`

	CompanionModelURL   string `json:"companion_model_url,omitempty"`
	CompanionTextureURL string `json:"companion_texture_url,omitempty"`
	ExtraModelURL       string `json:"extra_model_url,omitempty"`

	// Idle-animation override requested by the active variant, if any.
	IdleOverride string `json:"idle_override,omitempty"`

	// Settled reports that no axis is still pending.
	Settled bool `json:"settled"`
}

// Orchestrator is the façade consumed by the view layer.
type Orchestrator struct {
	gen      *candidates.Generator
	tables   *patterns.Tables
	cat      *catalog.Catalog
	logger   *slog.Logger
	onChange func(Snapshot) // may be nil; fired after any axis settles

	mu      sync.Mutex
	subject *catalog.Subject
	skin    catalog.Skin
	chroma  int // 0 = none
	form    bool
	version int
	extras  []string

	axisModel        *resolver.Axis
	axisChroma       *resolver.Axis
	axisCompanion    *resolver.Axis
	axisCompanionTex *resolver.Axis
	axisForm         *resolver.Axis
	axisHistorical   *resolver.Axis
	axisExtra        *resolver.Axis

	chromaLookup map[string][]int // per-subject chroma id cache
	textures     *texture.Cache   // decoded textures for the current selection
}

// Options configures an orchestrator.
type Options struct {
	Hosts   candidates.Hosts
	Tables  *patterns.Tables
	Catalog *catalog.Catalog
	Checker probe.Checker
	Logger  *slog.Logger
	// OnChange is invoked after any axis publishes a live result.
	OnChange func(Snapshot)
}

// New builds an orchestrator with one state machine per variant axis.
func New(opts Options) *Orchestrator {
	if opts.Tables == nil {
		opts.Tables = patterns.Default()
	}
	if opts.Checker == nil {
		opts.Checker = &probe.HTTPChecker{Logger: opts.Logger}
	}

	o := &Orchestrator{
		gen:          &candidates.Generator{Hosts: opts.Hosts, Tables: opts.Tables},
		tables:       opts.Tables,
		cat:          opts.Catalog,
		logger:       opts.Logger,
		onChange:     opts.OnChange,
		chromaLookup: make(map[string][]int),
		textures:     texture.NewCache(&texture.Fetcher{}),
	}

	axis := func(name string) *resolver.Axis {
		return resolver.NewAxis(name, opts.Checker, opts.Logger, o.axisUpdated)
	}
	o.axisModel = axis("model")
	o.axisChroma = axis("chroma")
	o.axisCompanion = axis("companion")
	o.axisCompanionTex = axis("companion-texture")
	o.axisForm = axis("form")
	o.axisHistorical = axis("historical")
	o.axisExtra = axis("extra")
	return o
}

func (o *Orchestrator) axisUpdated(r resolver.Result) {
	if r.Status == resolver.StatusPending {
		return
	}
	if o.onChange != nil {
		o.onChange(o.Snapshot())
	}
}

// Select switches the subject and skin. All axis state resets: form off,
// historical version zero, chroma cleared.
func (o *Orchestrator) Select(slug string, skinNumber int) error {
	if o.cat == nil {
		return fmt.Errorf("orchestrator: no catalog loaded")
	}
	subj, ok := o.cat.Find(slug)
	if !ok {
		if hint := o.cat.Suggest(slug); hint != "" {
			return fmt.Errorf("orchestrator: unknown subject %q (did you mean %q?)", slug, hint)
		}
		return fmt.Errorf("orchestrator: unknown subject %q", slug)
	}
	skin, ok := subj.Skin(skinNumber)
	if !ok {
		return fmt.Errorf("orchestrator: %s has no skin %d", slug, skinNumber)
	}

	o.mu.Lock()
	o.subject = subj
	o.skin = skin
	o.chroma = 0
	o.form = false
	o.version = 0
	o.extras = append([]string(nil), skin.ExtraModels...)
	o.mu.Unlock()

	// Cached textures belong to the outgoing selection.
	o.textures.Reset()
	o.resubmitAll()
	return nil
}

// Texture fetches and caches the decoded image for a resolved texture URL.
// Returns nil when the texture cannot be fetched or decoded. The cache is
// dropped on every Select.
func (o *Orchestrator) Texture(ctx context.Context, url string) *image.NRGBA {
	return o.textures.Resolve(ctx, url)
}

// SetChroma switches only the color-variant axis; the other axes keep
// their state. A zero id clears the chroma.
func (o *Orchestrator) SetChroma(id int) {
	o.mu.Lock()
	o.chroma = id
	o.mu.Unlock()
	o.resubmitChroma()
}

// SetForm toggles the alternate form.
func (o *Orchestrator) SetForm(on bool) {
	o.mu.Lock()
	o.form = on
	o.mu.Unlock()
	o.resubmitForm()
}

// SetVersion selects a historical version by index; zero means current.
func (o *Orchestrator) SetVersion(index int) {
	o.mu.Lock()
	o.version = index
	o.mu.Unlock()
	o.resubmitHistorical()
}

func (o *Orchestrator) resubmitAll() {
	o.resubmitModel()
	o.resubmitChroma()
	o.resubmitForm()
	o.resubmitHistorical()
	o.resubmitExtra()
}

func (o *Orchestrator) resubmitModel() {
	ctx, hasCompanion := o.context(selection.Variant{})
	if ctx.IsZero() {
		o.axisModel.Clear()
		o.axisCompanion.Clear()
		return
	}
	o.axisModel.Submit(o.gen.Generate(ctx, candidates.FamilyModel))
	if hasCompanion {
		o.axisCompanion.Submit(o.gen.Generate(ctx, candidates.FamilyCompanionModel))
	} else {
		o.axisCompanion.Clear()
	}
}

func (o *Orchestrator) resubmitChroma() {
	o.mu.Lock()
	id := o.chroma
	o.mu.Unlock()
	if id == 0 {
		// No chroma selected: no resolution needed, no networking.
		o.axisChroma.Clear()
		o.axisCompanionTex.Clear()
		return
	}
	ctx, hasCompanion := o.context(selection.Variant{Kind: selection.VariantChroma, Chroma: id})
	if ctx.IsZero() {
		o.axisChroma.Clear()
		o.axisCompanionTex.Clear()
		return
	}
	o.axisChroma.Submit(o.gen.Generate(ctx, candidates.FamilyChromaTexture))
	if hasCompanion {
		o.axisCompanionTex.Submit(o.gen.Generate(ctx, candidates.FamilyCompanionTexture))
	} else {
		o.axisCompanionTex.Clear()
	}
}

func (o *Orchestrator) resubmitForm() {
	o.mu.Lock()
	on := o.form && o.skin.HasForm
	o.mu.Unlock()
	if !on {
		o.axisForm.Clear()
		return
	}
	ctx, _ := o.context(selection.Variant{Kind: selection.VariantAlternateForm, Form: true})
	// One axis walks form models first, then form textures: a form is
	// either a model swap or a texture swap, whichever exists.
	urls := append(
		o.gen.Generate(ctx, candidates.FamilyFormModel),
		o.gen.Generate(ctx, candidates.FamilyFormTexture)...,
	)
	o.axisForm.Submit(candidates.Dedup(urls))
}

func (o *Orchestrator) resubmitHistorical() {
	o.mu.Lock()
	v := o.version
	hasVersions := o.subject != nil && o.subject.Versions > 0
	o.mu.Unlock()
	if v == 0 || !hasVersions {
		o.axisHistorical.Clear()
		return
	}
	ctx, _ := o.context(selection.Variant{Kind: selection.VariantHistorical, Version: v})
	urls := append(
		o.gen.Generate(ctx, candidates.FamilyHistoricalModel),
		o.gen.Generate(ctx, candidates.FamilyHistoricalTexture)...,
	)
	o.axisHistorical.Submit(candidates.Dedup(urls))
}

func (o *Orchestrator) resubmitExtra() {
	o.mu.Lock()
	extras := append([]string(nil), o.extras...)
	o.mu.Unlock()
	if len(extras) == 0 {
		o.axisExtra.Clear()
		return
	}
	ctx, _ := o.context(selection.Variant{Kind: selection.VariantExtraModel, Aliases: extras})
	o.axisExtra.Submit(o.gen.Generate(ctx, candidates.FamilyExtraModel))
}

// context builds the selection context for the current subject/skin plus
// the given variant payload.
func (o *Orchestrator) context(v selection.Variant) (selection.Context, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.subject == nil {
		return selection.Context{}, false
	}
	return selection.Context{
		Subject:        o.subject.Slug,
		NumericKey:     o.subject.NumericKey,
		Skin:           o.skin.Number,
		Variant:        v,
		CompanionAlias: o.subject.CompanionAlias,
	}, o.subject.CompanionAlias != ""
}

// Snapshot merges the axis results into the current "what to render" view.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	subj := o.subject
	skin := o.skin
	formOn := o.form
	o.mu.Unlock()

	var s Snapshot
	if subj == nil {
		s.Settled = true
		return s
	}
	s.Subject = subj.Slug
	s.Skin = skin.Number

	model := o.axisModel.Current()
	chromaTex := o.axisChroma.Current()
	companion := o.axisCompanion.Current()
	companionTex := o.axisCompanionTex.Current()
	form := o.axisForm.Current()
	historical := o.axisHistorical.Current()
	extra := o.axisExtra.Current()

	s.Settled = true
	for _, r := range []resolver.Result{model, chromaTex, companion, companionTex, form, historical, extra} {
		if r.Status == resolver.StatusPending {
			s.Settled = false
		}
	}

	// Model precedence: form > historical > default.
	if u, ok := form.Override(); ok && isModelURL(u) {
		s.ModelURL = u
	} else if u, ok := historical.Override(); ok && isModelURL(u) {
		s.ModelURL = u
	} else if u, ok := model.Override(); ok {
		s.ModelURL = u
	}

	// Texture precedence: form > historical > chroma > none.
	if u, ok := form.Override(); ok && !isModelURL(u) {
		s.TextureURL = u
	} else if u, ok := historical.Override(); ok && !isModelURL(u) {
		s.TextureURL = u
	} else if u, ok := chromaTex.Override(); ok {
		s.TextureURL = u
	}

	if u, ok := companion.Override(); ok {
		s.CompanionModelURL = u
	}
	if u, ok := companionTex.Override(); ok {
		s.CompanionTextureURL = u
	}
	if u, ok := extra.Override(); ok {
		s.ExtraModelURL = u
	}

	if formOn {
		if _, ok := form.Override(); ok && skin.FormIdle != "" {
			s.IdleOverride = skin.FormIdle
		}
	}
	return s
}

func isModelURL(u string) bool {
	return strings.HasSuffix(u, ".glb")
}

// SplashCandidates returns the fallback chain for the current skin's
// splash art. LoadingCandidates is the loading-screen equivalent.
func (o *Orchestrator) SplashCandidates() []string {
	ctx, _ := o.context(selection.Variant{})
	return o.gen.Generate(ctx, candidates.FamilySplash)
}

func (o *Orchestrator) LoadingCandidates() []string {
	ctx, _ := o.context(selection.Variant{})
	return o.gen.Generate(ctx, candidates.FamilyLoading)
}

// Chromas returns the chroma ids for a subject's skin, cached per subject.
func (o *Orchestrator) Chromas(slug string, skinNumber int) []int {
	key := fmt.Sprintf("%s/%d", slug, skinNumber)
	o.mu.Lock()
	if ids, ok := o.chromaLookup[key]; ok {
		o.mu.Unlock()
		return ids
	}
	o.mu.Unlock()

	var ids []int
	if o.cat != nil {
		if subj, ok := o.cat.Find(slug); ok {
			if skin, ok := subj.Skin(skinNumber); ok {
				ids = append([]int(nil), skin.Chromas...)
			}
		}
	}

	o.mu.Lock()
	o.chromaLookup[key] = ids
	o.mu.Unlock()
	return ids
}

// ResetChromaCache clears the per-subject chroma lookups.
func (o *Orchestrator) ResetChromaCache() {
	o.mu.Lock()
	o.chromaLookup = make(map[string][]int)
	o.mu.Unlock()
}

// NormalizeParams returns the normalization parameters for the current
// subject, merging its display overrides over the defaults.
func (o *Orchestrator) NormalizeParams() normalize.Params {
	o.mu.Lock()
	defer o.mu.Unlock()

	p := normalize.Params{Tables: o.tables}
	if o.subject != nil && o.subject.Display != nil {
		d := o.subject.Display
		p.TargetHeight = d.TargetHeight
		p.BaselineY = d.BaselineY
		p.ForcedIdle = d.IdleClip
	}
	return p
}
