// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package memory provides a CPU memory-buffer render element.
//
// A [Buffer] is pixel storage with the bookkeeping the damage tracker
// needs: every draw transaction advances the commit counter and logs
// the regions it touched, so [Buffer.DamageSince] can answer "what
// changed since commit N" precisely — or fall back to the full extent
// when the answer is no longer known.
//
// A [BufferElement] places a buffer on an output and implements the
// render element contract for the software backend.
package memory

import (
	"image"
	"sync"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/compositor"
	"github.com/gogpu/compositor/cache"
	"github.com/gogpu/compositor/render"
)

// maxCommitLog is how many commits of damage a buffer remembers.
// Older commits resolve to full damage.
const maxCommitLog = 8

// maxScaleVariants bounds the per-buffer cache of pre-scaled copies.
const maxScaleVariants = 4

// commitDamage records the regions one commit touched.
type commitDamage struct {
	commit render.CommitCounter
	damage []compositor.Rect
}

// Buffer is CPU pixel storage with commit and damage bookkeeping.
//
// Buffer is safe for concurrent use, but note that the damage tracker
// samples commit counters once per frame; a draw transaction running
// concurrently with a render simply lands in the next frame.
type Buffer struct {
	mu     sync.Mutex
	img    *image.RGBA
	size   compositor.Size
	commit render.CommitCounter
	log    []commitDamage
	scaled *cache.LRU[float64, *render.ImageTexture]
}

// NewBuffer creates a zeroed buffer of the given logical size.
func NewBuffer(size compositor.Size) *Buffer {
	return &Buffer{
		img:    image.NewRGBA(image.Rect(0, 0, size.W, size.H)),
		size:   size,
		scaled: cache.New[float64, *render.ImageTexture](maxScaleVariants),
	}
}

// Size returns the buffer's logical size.
func (b *Buffer) Size() compositor.Size {
	return b.size
}

// CurrentCommit returns the buffer's content version.
func (b *Buffer) CurrentCommit() render.CommitCounter {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.commit
}

// Render runs a draw transaction. draw receives the backing image and
// returns the regions it changed, in buffer-local coordinates; the
// commit counter advances and the damage is logged. Rects outside the
// buffer are clipped.
func (b *Buffer) Render(draw func(img *image.RGBA) []compositor.Rect) {
	b.mu.Lock()
	defer b.mu.Unlock()

	damage := draw(b.img)

	full := compositor.Rect{W: b.size.W, H: b.size.H}
	clipped := make([]compositor.Rect, 0, len(damage))
	for _, d := range damage {
		if c, ok := d.Intersection(full); ok {
			clipped = append(clipped, c)
		}
	}

	b.commit++
	b.log = append(b.log, commitDamage{commit: b.commit, damage: clipped})
	if len(b.log) > maxCommitLog {
		b.log = b.log[len(b.log)-maxCommitLog:]
	}
	if len(clipped) > 0 {
		// Pre-scaled copies are stale now.
		b.scaled.Clear()
	}
}

// DamageSince returns the buffer-local regions changed since the given
// commit. A nil commit, a commit from the future, or one older than
// the log yields the full extent.
func (b *Buffer) DamageSince(commit *render.CommitCounter) []compositor.Rect {
	b.mu.Lock()
	defer b.mu.Unlock()

	full := []compositor.Rect{{W: b.size.W, H: b.size.H}}
	if commit == nil {
		return full
	}
	if *commit == b.commit {
		return nil
	}
	if *commit > b.commit {
		return full
	}
	distance := int(b.commit - *commit)
	if distance > len(b.log) {
		return full
	}

	var out []compositor.Rect
	for _, entry := range b.log[len(b.log)-distance:] {
		out = append(out, entry.damage...)
	}
	return out
}

// texture returns a texture of the buffer at the given uniform scale,
// pre-scaled copies coming from the LRU cache. Scale 1.0 references
// the live backing image directly.
func (b *Buffer) texture(scale float64) *render.ImageTexture {
	b.mu.Lock()
	defer b.mu.Unlock()

	if scale == 1.0 {
		return render.NewImageTexture(b.img)
	}
	return b.scaled.GetOrCreate(scale, func() *render.ImageTexture {
		physical := compositor.Rect{W: b.size.W, H: b.size.H}.Scale(scale)
		dst := image.NewRGBA(image.Rect(0, 0, physical.W, physical.H))
		xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), b.img, b.img.Bounds(), xdraw.Src, nil)
		return render.NewImageTexture(dst)
	})
}

// BufferElement places a [Buffer] on an output.
//
// The element's identity is the caller's choice; placing the same
// buffer twice under the same ID is the multi-instance case the damage
// tracker supports.
type BufferElement struct {
	id     render.ID
	buf    *Buffer
	loc    compositor.Point
	opaque []compositor.Rect
	alpha  float64
}

// ElementOption configures a BufferElement during creation.
type ElementOption func(*BufferElement)

// WithOpaqueRegions declares buffer-local regions guaranteed fully
// opaque. Elements behind them are culled.
func WithOpaqueRegions(regions []compositor.Rect) ElementOption {
	return func(e *BufferElement) {
		e.opaque = regions
	}
}

// WithAlpha sets a global opacity multiplier in [0,1].
func WithAlpha(alpha float64) ElementOption {
	return func(e *BufferElement) {
		e.alpha = alpha
	}
}

// NewElement places buf at the given logical location under the given
// identity.
func NewElement(id render.ID, buf *Buffer, loc compositor.Point, opts ...ElementOption) *BufferElement {
	e := &BufferElement{
		id:    id,
		buf:   buf,
		loc:   loc,
		alpha: 1.0,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ID returns the element's identity.
func (e *BufferElement) ID() render.ID {
	return e.id
}

// CurrentCommit returns the buffer's content version.
func (e *BufferElement) CurrentCommit() render.CommitCounter {
	return e.buf.CurrentCommit()
}

// Geometry returns the element's placement in physical pixels.
func (e *BufferElement) Geometry(scale float64) compositor.Rect {
	logical := compositor.RectFromLocSize(e.loc, e.buf.Size())
	return logical.Scale(scale)
}

// Src returns the sampled buffer region: the whole buffer.
func (e *BufferElement) Src() compositor.RectF {
	size := e.buf.Size()
	return compositor.RectF{W: float64(size.W), H: float64(size.H)}
}

// OpaqueRegions returns the declared opaque regions in physical
// pixels. Fractional scales round inward so opacity is never
// overclaimed.
func (e *BufferElement) OpaqueRegions(scale float64) []compositor.Rect {
	if e.alpha < 1.0 {
		return nil
	}
	out := make([]compositor.Rect, 0, len(e.opaque))
	for _, r := range e.opaque {
		if s := scaleInner(r, scale); !s.IsEmpty() {
			out = append(out, s)
		}
	}
	return out
}

// DamageSince returns the element-local physical regions changed since
// the given commit.
func (e *BufferElement) DamageSince(scale float64, commit *render.CommitCounter) []compositor.Rect {
	logical := e.buf.DamageSince(commit)
	if len(logical) == 0 {
		return nil
	}
	out := make([]compositor.Rect, len(logical))
	for i, r := range logical {
		out[i] = r.Scale(scale)
	}
	return out
}

// Draw paints the element into the frame.
func (e *BufferElement) Draw(frame render.Frame, src compositor.RectF, dst compositor.Rect, damage []compositor.Rect) error {
	size := e.buf.Size()

	// With a uniform scale other than 1 the pre-scaled variant maps
	// 1:1 onto dst; otherwise the frame samples the base texture.
	tex := e.buf.texture(1.0)
	srcUsed := src
	if size.W > 0 && size.H > 0 {
		sx := float64(dst.W) / float64(size.W)
		sy := float64(dst.H) / float64(size.H)
		if sx == sy && sx != 1.0 {
			tex = e.buf.texture(sx)
			srcUsed = compositor.RectF{
				X: src.X * sx,
				Y: src.Y * sy,
				W: src.W * sx,
				H: src.H * sy,
			}
		}
	}

	return frame.RenderTextureFromTo(tex, srcUsed, dst, damage, compositor.TransformNormal, e.alpha)
}

// scaleInner scales a rectangle rounding toward its interior.
func scaleInner(r compositor.Rect, scale float64) compositor.Rect {
	if scale == 1.0 {
		return r
	}
	x0 := ceilMul(r.X, scale)
	y0 := ceilMul(r.Y, scale)
	x1 := floorMul(r.Right(), scale)
	y1 := floorMul(r.Bottom(), scale)
	return compositor.Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

func ceilMul(v int, scale float64) int {
	f := float64(v) * scale
	i := int(f)
	if f > float64(i) {
		return i + 1
	}
	return i
}

func floorMul(v int, scale float64) int {
	f := float64(v) * scale
	i := int(f)
	if f < float64(i) {
		return i - 1
	}
	return i
}

// Ensure BufferElement implements the full element contract.
var (
	_ render.Element       = (*BufferElement)(nil)
	_ render.RenderElement = (*BufferElement)(nil)
)
