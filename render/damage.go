// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image/color"
	"log/slog"

	"github.com/gogpu/compositor"
	"github.com/gogpu/compositor/output"
)

// defaultMaxFrameHistory bounds the damage history ring. Swapchains
// rarely run deeper than four buffers, so older entries can never be
// requested through a valid buffer age.
const defaultMaxFrameHistory = 4

// TrackerMode selects how a [DamageTracker] resolves output geometry.
//
// In auto mode (Output non-nil) the tracker re-reads size, scale and
// transform from the output on every frame. In static mode the stored
// triple is used unchanged.
type TrackerMode struct {
	// Output is the tracked output in auto mode, nil in static mode.
	Output *output.Output

	// Size, Scale and Transform describe a static output. Unused in
	// auto mode.
	Size      compositor.Size
	Scale     float64
	Transform compositor.Transform
}

// Auto reports whether the mode tracks a live output.
func (m *TrackerMode) Auto() bool {
	return m.Output != nil
}

// resolve returns the current pre-transform size, fractional scale and
// transform, or ErrOutputNoMode for an auto-mode output without an
// active mode.
func (m *TrackerMode) resolve() (compositor.Size, float64, compositor.Transform, error) {
	if m.Output != nil {
		mode, ok := m.Output.CurrentMode()
		if !ok {
			return compositor.Size{}, 0, compositor.TransformNormal, ErrOutputNoMode
		}
		return mode.Size, m.Output.CurrentScale(), m.Output.CurrentTransform(), nil
	}
	return m.Size, m.Scale, m.Transform, nil
}

// elementInstanceState remembers one placement of an element in the
// previous frame.
type elementInstanceState struct {
	lastGeometry compositor.Rect
	lastZIndex   int
}

func (s elementInstanceState) matches(geometry compositor.Rect, zIndex int) bool {
	return s.lastGeometry == geometry && s.lastZIndex == zIndex
}

// elementState remembers everything the analyzer needs about one
// element id from the previous frame.
type elementState struct {
	lastCommit    CommitCounter
	lastInstances []elementInstanceState
}

func (s *elementState) instanceMatches(geometry compositor.Rect, zIndex int) bool {
	for _, instance := range s.lastInstances {
		if instance.matches(geometry, zIndex) {
			return true
		}
	}
	return false
}

// rendererState is the tracker's record of the most recent successful
// frame.
type rendererState struct {
	// size is the last frame's post-transform output size, nil before
	// the first frame and after a reset.
	size *compositor.Size

	// ids holds the element ids of the last frame in scene order;
	// elements maps them to their state.
	ids      []ID
	elements map[ID]*elementState

	// oldDamage holds recent frames' damage, most recent first.
	oldDamage [][]compositor.Rect
}

// zIndexedRegions are the output-space opaque regions of the element
// at the given scene-order z-index (0 = frontmost considered element).
type zIndexedRegions struct {
	zIndex  int
	regions []compositor.Rect
}

// trackedElement carries an element through a frame with its geometry,
// id and commit sampled exactly once.
type trackedElement struct {
	element  Element
	id       ID
	geometry compositor.Rect
	commit   CommitCounter
}

// DamageTracker computes and repaints per-output damage.
//
// Construct one per output with [NewDamageTracker] or [FromOutput],
// then call [DamageTracker.ComputeDamage] or [DamageTracker.Render]
// once per frame. The tracker owns all cross-frame state; elements are
// only borrowed per call.
//
// A DamageTracker is not safe for concurrent use.
type DamageTracker struct {
	mode            TrackerMode
	maxFrameHistory int
	lastState       rendererState
}

// TrackerOption configures a DamageTracker during creation.
type TrackerOption func(*DamageTracker)

// WithMaxFrameHistory caps the number of past frames whose damage is
// retained for buffer-age reuse. Ages beyond the cap fall back to a
// full repaint. Values below 1 are ignored. The default is 4.
func WithMaxFrameHistory(frames int) TrackerOption {
	return func(t *DamageTracker) {
		if frames >= 1 {
			t.maxFrameHistory = frames
		}
	}
}

// NewDamageTracker creates a tracker for a static output described by
// its pre-transform size, fractional scale and transform.
func NewDamageTracker(size compositor.Size, scale float64, transform compositor.Transform, opts ...TrackerOption) *DamageTracker {
	t := &DamageTracker{
		mode: TrackerMode{
			Size:      size,
			Scale:     scale,
			Transform: transform,
		},
		maxFrameHistory: defaultMaxFrameHistory,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// FromOutput creates a tracker bound to a live output. Size, scale and
// transform are re-read from the output on every frame, so mode
// changes are picked up automatically.
func FromOutput(out *output.Output, opts ...TrackerOption) *DamageTracker {
	t := &DamageTracker{
		mode:            TrackerMode{Output: out},
		maxFrameHistory: defaultMaxFrameHistory,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Mode returns the tracker's mode.
func (t *DamageTracker) Mode() *TrackerMode {
	return &t.mode
}

// ComputeDamage analyzes the frame without painting.
//
// age is the buffer age of the back buffer the caller would render
// into (0 = unknown content). elements are the scene in front-to-back
// order. The returned damage is a set of non-overlapping rectangles in
// post-transform output space; nil means nothing needs repainting.
// The tracker's state advances exactly as it would for a render.
func (t *DamageTracker) ComputeDamage(age int, elements []Element) ([]compositor.Rect, RenderElementStates, error) {
	size, scale, transform, err := t.mode.resolve()
	if err != nil {
		return nil, RenderElementStates{}, err
	}
	// The transform is applied to the size so every intersection test
	// below runs in the coordinate space the backend renders into.
	outputGeo := compositor.RectFromLocSize(compositor.Point{}, transform.TransformSize(size))

	damage, _, _, states := t.damageOutput(age, elements, scale, outputGeo)
	if len(damage) == 0 {
		return nil, states, nil
	}
	return damage, states, nil
}

// Render analyzes the frame and repaints the damage through the
// backend.
//
// A nil damage result means the backend was not touched. On a backend
// error the tracker's state is reset and a [*RenderError] is returned;
// the next frame then repaints the whole output.
func (t *DamageTracker) Render(renderer Renderer, age int, elements []RenderElement, clearColor color.Color) ([]compositor.Rect, RenderElementStates, error) {
	size, scale, transform, err := t.mode.resolve()
	if err != nil {
		return nil, RenderElementStates{}, err
	}
	outputGeo := compositor.RectFromLocSize(compositor.Point{}, transform.TransformSize(size))

	describe := make([]Element, len(elements))
	for i, e := range elements {
		describe[i] = e
	}
	damage, renderElements, opaqueRegions, states := t.damageOutput(age, describe, scale, outputGeo)

	log := compositor.Logger()
	if len(damage) == 0 {
		log.Debug("no damage, skipping rendering")
		return nil, states, nil
	}

	log.Debug("rendering output",
		slog.Int("damage_rects", len(damage)),
		slog.Int("elements", len(renderElements)))

	if err := paintOutput(renderer, size, transform, damage, renderElements, opaqueRegions, clearColor); err != nil {
		// The buffer may be partially repainted and no longer matches
		// the recorded state; drop everything so the next frame
		// starts from scratch.
		log.Warn("backend error, resetting tracker state", slog.Any("error", err))
		t.lastState = rendererState{}
		return nil, states, &RenderError{Err: err}
	}

	return damage, states, nil
}

// damageOutput runs the analysis phases and advances the tracker
// state. It returns the canonicalized damage, the considered elements
// in scene order, their opaque regions and the visibility report.
func (t *DamageTracker) damageOutput(age int, elements []Element, scale float64, outputGeo compositor.Rect) ([]compositor.Rect, []trackedElement, []zIndexedRegions, RenderElementStates) {
	log := compositor.Logger()

	states := RenderElementStates{States: make(map[ID]RenderElementState, len(elements))}
	var damage []compositor.Rect
	renderElements := make([]trackedElement, 0, len(elements))
	opaqueRegions := make([]zIndexedRegions, 0, len(elements))

	// Per-element contributions, in scene order. The z-index advances
	// only for elements that are actually considered, so it stays
	// dense over renderElements.
	zIndex := 0
	for _, element := range elements {
		id := element.ID()
		geometry := element.Geometry(scale)
		elementLoc := geometry.Loc()

		clipped, ok := geometry.Intersection(outputGeo)
		if !ok {
			states.recordSkipped(id)
			continue
		}

		visible := []compositor.Rect{clipped}
		for _, zr := range opaqueRegions {
			visible = compositor.SubtractAll(visible, zr.regions)
		}
		visibleArea := 0
		for _, r := range visible {
			visibleArea += r.Area()
		}
		if visibleArea == 0 {
			states.recordSkipped(id)
			continue
		}

		var priorCommit *CommitCounter
		if state, ok := t.lastState.elements[id]; ok {
			commit := state.lastCommit
			priorCommit = &commit
		}
		for _, d := range element.DamageSince(scale, priorCommit) {
			d = d.Translate(elementLoc)
			if clippedDamage, ok := d.Intersection(outputGeo); ok {
				damage = append(damage, clippedDamage)
			}
		}

		var regions []compositor.Rect
		for _, r := range element.OpaqueRegions(scale) {
			r = r.Translate(elementLoc)
			if clippedRegion, ok := r.Intersection(outputGeo); ok {
				regions = append(regions, clippedRegion)
			}
		}
		opaqueRegions = append(opaqueRegions, zIndexedRegions{zIndex: zIndex, regions: regions})

		renderElements = append(renderElements, trackedElement{
			element:  element,
			id:       id,
			geometry: geometry,
			commit:   element.CurrentCommit(),
		})
		states.recordRendered(id, visibleArea)
		zIndex++
	}

	currentIDs := make(map[ID]struct{}, len(renderElements))
	for _, te := range renderElements {
		currentIDs[te.id] = struct{}{}
	}

	// Elements that disappeared dirty their old pixels, minus whatever
	// is now covered by opaque content in front of their former
	// position.
	for _, id := range t.lastState.ids {
		if _, ok := currentIDs[id]; ok {
			continue
		}
		state := t.lastState.elements[id]
		for _, instance := range state.lastInstances {
			gone := []compositor.Rect{instance.lastGeometry}
			for _, zr := range opaqueRegions {
				if zr.zIndex < instance.lastZIndex {
					gone = compositor.SubtractAll(gone, zr.regions)
				}
			}
			damage = append(damage, gone...)
		}
	}

	// Moved or reordered elements dirty both their old and new
	// placements.
	for z, te := range renderElements {
		state, hasPrior := t.lastState.elements[te.id]
		if hasPrior && state.instanceMatches(te.geometry, z) {
			continue
		}
		moved := []compositor.Rect{te.geometry}
		if hasPrior {
			for _, instance := range state.lastInstances {
				moved = append(moved, instance.lastGeometry)
			}
		}
		for _, zr := range opaqueRegions {
			if zr.zIndex < z {
				moved = compositor.SubtractAll(moved, zr.regions)
			}
		}
		damage = append(damage, moved...)
	}

	// Output geometry changes (and the first frame) invalidate
	// everything seen so far.
	if t.lastState.size == nil || *t.lastState.size != outputGeo.Dim() {
		log.Debug("output geometry changed, damaging whole output",
			slog.Any("geometry", outputGeo))
		damage = []compositor.Rect{outputGeo}
	}

	// Snapshot this frame's own damage before folding in history; only
	// this goes on the ring, clipped so state never holds rectangles
	// outside the output.
	newDamage := make([]compositor.Rect, 0, len(damage))
	for _, d := range damage {
		if clipped, ok := d.Intersection(outputGeo); ok {
			newDamage = append(newDamage, clipped)
		}
	}

	if age > 0 && len(t.lastState.oldDamage) >= age {
		log.Debug("buffer age recent enough, reusing damage history", slog.Int("age", age))
		t.lastState.oldDamage = t.lastState.oldDamage[:age]
		// The buffer already shows the most recent frame; it is stale
		// on the age-1 frames behind it.
		for _, frameDamage := range t.lastState.oldDamage[:age-1] {
			damage = append(damage, frameDamage...)
		}
	} else {
		log.Debug("damage history too short for buffer age, repainting fully",
			slog.Int("age", age), slog.Int("history", len(t.lastState.oldDamage)))
		damage = []compositor.Rect{outputGeo}
	}

	damage = canonicalizeDamage(damage, outputGeo)

	// The state advances even when nothing is damaged, so the next
	// frame diffs against this one.
	newIDs := make([]ID, 0, len(renderElements))
	newElements := make(map[ID]*elementState, len(renderElements))
	for z, te := range renderElements {
		if state, ok := newElements[te.id]; ok {
			state.lastInstances = append(state.lastInstances, elementInstanceState{
				lastGeometry: te.geometry,
				lastZIndex:   z,
			})
			continue
		}
		newElements[te.id] = &elementState{
			lastCommit: te.commit,
			lastInstances: []elementInstanceState{{
				lastGeometry: te.geometry,
				lastZIndex:   z,
			}},
		}
		newIDs = append(newIDs, te.id)
	}

	size := outputGeo.Dim()
	t.lastState.size = &size
	t.lastState.ids = newIDs
	t.lastState.elements = newElements
	t.lastState.oldDamage = append([][]compositor.Rect{newDamage}, t.lastState.oldDamage...)
	if len(t.lastState.oldDamage) > t.maxFrameHistory {
		t.lastState.oldDamage = t.lastState.oldDamage[:t.maxFrameHistory]
	}

	return damage, renderElements, opaqueRegions, states
}

// canonicalizeDamage drops duplicates and empties, clips to the output
// and merges overlapping rectangles, leaving a pairwise non-overlapping
// set.
func canonicalizeDamage(damage []compositor.Rect, outputGeo compositor.Rect) []compositor.Rect {
	seen := make(map[compositor.Rect]struct{}, len(damage))
	var out []compositor.Rect
	for _, rect := range damage {
		clipped, ok := rect.Intersection(outputGeo)
		if !ok {
			continue
		}
		if _, dup := seen[clipped]; dup {
			continue
		}
		seen[clipped] = struct{}{}

		// Fold the clipped rect into the accumulator: everything it
		// overlaps is merged into it, and the grown rect is re-checked
		// until it overlaps nothing.
		for {
			overlap := -1
			for i, other := range out {
				if other.Overlaps(clipped) {
					overlap = i
					break
				}
			}
			if overlap < 0 {
				break
			}
			clipped = clipped.Merge(out[overlap])
			out = append(out[:overlap], out[overlap+1:]...)
		}
		out = append(out, clipped)
	}
	return out
}

// paintOutput performs the repaint: clear the exposed background, then
// draw elements back to front, each clipped to the damage it can
// actually affect.
func paintOutput(renderer Renderer, size compositor.Size, transform compositor.Transform,
	damage []compositor.Rect, renderElements []trackedElement,
	opaqueRegions []zIndexedRegions, clearColor color.Color) error {

	log := compositor.Logger()

	frame, err := renderer.Render(size, transform)
	if err != nil {
		return err
	}

	// The background only shows through where no opaque element pixel
	// lands, so opaque regions are carved out of the clear set.
	clearDamage := append([]compositor.Rect(nil), damage...)
	for _, zr := range opaqueRegions {
		clearDamage = compositor.SubtractAll(clearDamage, zr.regions)
	}
	if err := frame.Clear(clearColor, clearDamage); err != nil {
		return err
	}

	// Elements were analyzed front to back; painting runs back to
	// front. The scene-order z-index is kept across the reversal so
	// the "opaque regions in front of z" filter stays correct.
	for z := len(renderElements) - 1; z >= 0; z-- {
		te := renderElements[z]

		var elementDamage []compositor.Rect
		for _, d := range damage {
			if clipped, ok := d.Intersection(te.geometry); ok {
				elementDamage = append(elementDamage, clipped)
			}
		}
		for _, zr := range opaqueRegions {
			if zr.zIndex < z {
				elementDamage = compositor.SubtractAll(elementDamage, zr.regions)
			}
		}
		for i := range elementDamage {
			elementDamage[i] = elementDamage[i].Translate(compositor.Point{}.Sub(te.geometry.Loc()))
		}

		if len(elementDamage) == 0 {
			log.Debug("skipping element, no damage", slog.String("id", string(te.id)))
			continue
		}

		re := te.element.(RenderElement)
		if err := re.Draw(frame, re.Src(), te.geometry, elementDamage); err != nil {
			return err
		}
	}

	return frame.Finish()
}
