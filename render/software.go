// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/gogpu/gputypes"
	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/compositor"
)

// SoftwareRenderer is a CPU implementation of the backend contract.
//
// It renders into a [RenderTarget] with CPU pixel access, honoring the
// damage-clipped clear and draw semantics the damage tracker relies
// on: pixels outside the damage handed to [Frame.Clear] and
// [Frame.RenderTextureFromTo] are left untouched, which is what makes
// partial repaints correct.
//
// Example:
//
//	target := render.NewPixmapTarget(compositor.Size{W: 800, H: 600})
//	backend := render.NewSoftwareRenderer(target)
//	damage, states, err := tracker.Render(backend, age, elements, color.Black)
type SoftwareRenderer struct {
	target RenderTarget
}

// NewSoftwareRenderer creates a software backend over the given
// target.
func NewSoftwareRenderer(target RenderTarget) *SoftwareRenderer {
	return &SoftwareRenderer{target: target}
}

// Target returns the renderer's target.
func (r *SoftwareRenderer) Target() RenderTarget {
	return r.target
}

// ImportImage wraps a CPU image as a texture usable with this
// renderer's frames. The image is referenced, not copied.
func (r *SoftwareRenderer) ImportImage(img image.Image) *ImageTexture {
	return &ImageTexture{img: img}
}

// Render opens a frame. The target must have CPU access and an RGBA
// format; targets implementing Resize are resized to the output's
// post-transform size, fixed-size targets must already match.
func (r *SoftwareRenderer) Render(size compositor.Size, transform compositor.Transform) (Frame, error) {
	post := transform.TransformSize(size)

	if r.target.Format() != gputypes.TextureFormatRGBA8Unorm {
		return nil, ErrUnsupportedFormat
	}
	if r.target.Width() != post.W || r.target.Height() != post.H {
		rt, ok := r.target.(resizableTarget)
		if !ok {
			return nil, ErrTargetSizeMismatch
		}
		rt.Resize(post)
	}

	pixels := r.target.Pixels()
	if pixels == nil {
		return nil, ErrTargetNoCPUAccess
	}

	img := &image.RGBA{
		Pix:    pixels,
		Stride: r.target.Stride(),
		Rect:   image.Rect(0, 0, post.W, post.H),
	}
	return &softwareFrame{
		img:    img,
		bounds: compositor.Rect{W: post.W, H: post.H},
	}, nil
}

// Ensure SoftwareRenderer implements Renderer.
var _ Renderer = (*SoftwareRenderer)(nil)

// ImageTexture is a CPU image used as a texture by the software
// renderer.
type ImageTexture struct {
	img image.Image
}

// NewImageTexture wraps a CPU image as a texture.
func NewImageTexture(img image.Image) *ImageTexture {
	return &ImageTexture{img: img}
}

// Width returns the texture width in pixels.
func (t *ImageTexture) Width() int {
	return t.img.Bounds().Dx()
}

// Height returns the texture height in pixels.
func (t *ImageTexture) Height() int {
	return t.img.Bounds().Dy()
}

// Image returns the wrapped image.
func (t *ImageTexture) Image() image.Image {
	return t.img
}

// Ensure ImageTexture implements Texture.
var _ Texture = (*ImageTexture)(nil)

// softwareFrame is one in-flight CPU repaint.
type softwareFrame struct {
	img      *image.RGBA
	bounds   compositor.Rect
	finished bool
}

// Clear fills the damage regions with the color. The color replaces
// destination pixels including alpha.
func (f *softwareFrame) Clear(c color.Color, damage []compositor.Rect) error {
	if f.finished {
		return ErrFrameFinished
	}
	src := image.NewUniform(c)
	for _, r := range damage {
		clipped, ok := r.Intersection(f.bounds)
		if !ok {
			continue
		}
		draw.Draw(f.img, imageRect(clipped), src, image.Point{}, draw.Src)
	}
	return nil
}

// RenderTextureFromTo samples src out of the texture into dst,
// restricted to the dst-local damage regions.
func (f *softwareFrame) RenderTextureFromTo(tex Texture, src compositor.RectF, dst compositor.Rect,
	damage []compositor.Rect, transform compositor.Transform, alpha float64) error {
	if f.finished {
		return ErrFrameFinished
	}
	it, ok := tex.(*ImageTexture)
	if !ok {
		return ErrUnsupportedTexture
	}
	if transform != compositor.TransformNormal {
		return ErrUnsupportedTransform
	}
	if dst.IsEmpty() || src.IsEmpty() {
		return nil
	}

	var opts *xdraw.Options
	if alpha < 1.0 {
		a := uint8(math.Round(math.Max(0, alpha) * 255))
		opts = &xdraw.Options{SrcMask: image.NewUniform(color.Alpha{A: a})}
	}

	// src/dst ratios map dst-local damage back onto the source image.
	scaleX := src.W / float64(dst.W)
	scaleY := src.H / float64(dst.H)
	srcBounds := it.img.Bounds()

	local := compositor.Rect{W: dst.W, H: dst.H}
	for _, d := range damage {
		d, ok := d.Intersection(local)
		if !ok {
			continue
		}
		dstRect, ok := d.Translate(dst.Loc()).Intersection(f.bounds)
		if !ok {
			continue
		}
		// Re-derive the local span actually painted after clipping.
		painted := dstRect.Translate(compositor.Point{}.Sub(dst.Loc()))

		sx0 := src.X + float64(painted.X)*scaleX
		sy0 := src.Y + float64(painted.Y)*scaleY
		sx1 := src.X + float64(painted.Right())*scaleX
		sy1 := src.Y + float64(painted.Bottom())*scaleY
		srcRect := image.Rect(
			srcBounds.Min.X+int(math.Floor(sx0)),
			srcBounds.Min.Y+int(math.Floor(sy0)),
			srcBounds.Min.X+int(math.Ceil(sx1)),
			srcBounds.Min.Y+int(math.Ceil(sy1)),
		).Intersect(srcBounds)
		if srcRect.Empty() {
			continue
		}

		xdraw.NearestNeighbor.Scale(f.img, imageRect(dstRect), it.img, srcRect, xdraw.Over, opts)
	}
	return nil
}

// Finish completes the frame. Further use of the frame fails with
// ErrFrameFinished.
func (f *softwareFrame) Finish() error {
	f.finished = true
	return nil
}

// Ensure softwareFrame implements Frame.
var _ Frame = (*softwareFrame)(nil)

// imageRect converts a compositor rectangle to an image.Rectangle.
func imageRect(r compositor.Rect) image.Rectangle {
	return image.Rect(r.X, r.Y, r.Right(), r.Bottom())
}
