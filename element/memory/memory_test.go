// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package memory

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/gogpu/compositor"
	"github.com/gogpu/compositor/render"
)

func fillRect(img *image.RGBA, r compositor.Rect, c color.Color) {
	draw.Draw(img, image.Rect(r.X, r.Y, r.Right(), r.Bottom()), image.NewUniform(c), image.Point{}, draw.Src)
}

func TestBufferCommitAdvances(t *testing.T) {
	buf := NewBuffer(compositor.Size{W: 10, H: 10})

	if got := buf.CurrentCommit(); got != 0 {
		t.Errorf("initial commit = %d, want 0", got)
	}

	buf.Render(func(img *image.RGBA) []compositor.Rect {
		fillRect(img, compositor.Rect{W: 10, H: 10}, color.White)
		return []compositor.Rect{{W: 10, H: 10}}
	})

	if got := buf.CurrentCommit(); got != 1 {
		t.Errorf("commit after render = %d, want 1", got)
	}
}

func TestBufferDamageSince(t *testing.T) {
	buf := NewBuffer(compositor.Size{W: 10, H: 10})
	full := compositor.Rect{W: 10, H: 10}

	// Unknown history yields the full extent.
	got := buf.DamageSince(nil)
	if len(got) != 1 || got[0] != full {
		t.Errorf("DamageSince(nil) = %v, want [%v]", got, full)
	}

	c0 := buf.CurrentCommit()
	buf.Render(func(img *image.RGBA) []compositor.Rect {
		return []compositor.Rect{{X: 2, Y: 2, W: 3, H: 3}}
	})

	got = buf.DamageSince(&c0)
	if len(got) != 1 || got[0] != (compositor.Rect{X: 2, Y: 2, W: 3, H: 3}) {
		t.Errorf("DamageSince(c0) = %v, want [{2 2 3 3}]", got)
	}

	// Same commit means no damage.
	c1 := buf.CurrentCommit()
	if got := buf.DamageSince(&c1); got != nil {
		t.Errorf("DamageSince(current) = %v, want nil", got)
	}

	// Damage accumulates over multiple commits.
	buf.Render(func(img *image.RGBA) []compositor.Rect {
		return []compositor.Rect{{X: 5, Y: 5, W: 2, H: 2}}
	})
	got = buf.DamageSince(&c0)
	if len(got) != 2 {
		t.Errorf("DamageSince(c0) after 2 commits = %v, want 2 rects", got)
	}
}

func TestBufferDamageSinceTooOld(t *testing.T) {
	buf := NewBuffer(compositor.Size{W: 10, H: 10})
	full := compositor.Rect{W: 10, H: 10}

	c0 := buf.CurrentCommit()
	for i := 0; i < maxCommitLog+1; i++ {
		buf.Render(func(img *image.RGBA) []compositor.Rect {
			return []compositor.Rect{{X: 1, Y: 1, W: 1, H: 1}}
		})
	}

	got := buf.DamageSince(&c0)
	if len(got) != 1 || got[0] != full {
		t.Errorf("DamageSince(pruned commit) = %v, want [%v]", got, full)
	}
}

func TestBufferDamageClipped(t *testing.T) {
	buf := NewBuffer(compositor.Size{W: 10, H: 10})

	c0 := buf.CurrentCommit()
	buf.Render(func(img *image.RGBA) []compositor.Rect {
		return []compositor.Rect{{X: 8, Y: 8, W: 10, H: 10}}
	})

	got := buf.DamageSince(&c0)
	want := compositor.Rect{X: 8, Y: 8, W: 2, H: 2}
	if len(got) != 1 || got[0] != want {
		t.Errorf("DamageSince = %v, want [%v]", got, want)
	}
}

func TestElementGeometry(t *testing.T) {
	buf := NewBuffer(compositor.Size{W: 10, H: 20})
	e := NewElement("a", buf, compositor.Point{X: 100, Y: 50})

	if got, want := e.Geometry(1.0), (compositor.Rect{X: 100, Y: 50, W: 10, H: 20}); got != want {
		t.Errorf("Geometry(1.0) = %v, want %v", got, want)
	}
	if got, want := e.Geometry(2.0), (compositor.Rect{X: 200, Y: 100, W: 20, H: 40}); got != want {
		t.Errorf("Geometry(2.0) = %v, want %v", got, want)
	}
}

func TestElementOpaqueRegions(t *testing.T) {
	buf := NewBuffer(compositor.Size{W: 10, H: 10})
	e := NewElement("a", buf, compositor.Point{},
		WithOpaqueRegions([]compositor.Rect{{W: 10, H: 10}}))

	got := e.OpaqueRegions(1.0)
	if len(got) != 1 || got[0] != (compositor.Rect{W: 10, H: 10}) {
		t.Errorf("OpaqueRegions(1.0) = %v, want full", got)
	}

	// Translucent elements claim no opacity.
	translucent := NewElement("b", buf, compositor.Point{},
		WithOpaqueRegions([]compositor.Rect{{W: 10, H: 10}}),
		WithAlpha(0.5))
	if got := translucent.OpaqueRegions(1.0); len(got) != 0 {
		t.Errorf("translucent OpaqueRegions = %v, want none", got)
	}

	// Fractional scales round inward, never overclaiming.
	scaled := e.OpaqueRegions(1.5)
	if len(scaled) != 1 {
		t.Fatalf("OpaqueRegions(1.5) = %v, want 1 rect", scaled)
	}
	outer := compositor.Rect{W: 10, H: 10}.Scale(1.5)
	if !outer.Contains(scaled[0]) {
		t.Errorf("inner-rounded region %v exceeds outer %v", scaled[0], outer)
	}
}

func TestElementDrawThroughSoftwareFrame(t *testing.T) {
	buf := NewBuffer(compositor.Size{W: 4, H: 4})
	buf.Render(func(img *image.RGBA) []compositor.Rect {
		fillRect(img, compositor.Rect{W: 4, H: 4}, color.RGBA{R: 255, A: 255})
		return []compositor.Rect{{W: 4, H: 4}}
	})
	e := NewElement("a", buf, compositor.Point{X: 2, Y: 2})

	target := render.NewPixmapTarget(compositor.Size{W: 8, H: 8})
	backend := render.NewSoftwareRenderer(target)
	frame, err := backend.Render(compositor.Size{W: 8, H: 8}, compositor.TransformNormal)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	dst := e.Geometry(1.0)
	if err := e.Draw(frame, e.Src(), dst, []compositor.Rect{{W: 4, H: 4}}); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if err := frame.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	img := target.Image()
	if got := img.RGBAAt(3, 3); got.R != 255 {
		t.Errorf("pixel inside element = %v, want red", got)
	}
	if got := img.RGBAAt(0, 0); got.R != 0 {
		t.Errorf("pixel outside element = %v, want untouched", got)
	}
}

func TestElementDrawScaled(t *testing.T) {
	buf := NewBuffer(compositor.Size{W: 4, H: 4})
	buf.Render(func(img *image.RGBA) []compositor.Rect {
		fillRect(img, compositor.Rect{W: 4, H: 4}, color.RGBA{G: 255, A: 255})
		return []compositor.Rect{{W: 4, H: 4}}
	})
	e := NewElement("a", buf, compositor.Point{})

	target := render.NewPixmapTarget(compositor.Size{W: 8, H: 8})
	backend := render.NewSoftwareRenderer(target)
	frame, err := backend.Render(compositor.Size{W: 8, H: 8}, compositor.TransformNormal)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	dst := e.Geometry(2.0)
	if dst != (compositor.Rect{W: 8, H: 8}) {
		t.Fatalf("Geometry(2.0) = %v, want 8x8", dst)
	}
	if err := e.Draw(frame, e.Src(), dst, []compositor.Rect{{W: 8, H: 8}}); err != nil {
		t.Fatalf("Draw: %v", err)
	}

	img := target.Image()
	if got := img.RGBAAt(7, 7); got.G != 255 {
		t.Errorf("scaled pixel = %v, want green", got)
	}
}
