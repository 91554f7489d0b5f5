// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compositor

import "testing"

func TestRectIntersection(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 100, H: 100}
	b := Rect{X: 50, Y: 50, W: 100, H: 100}

	got, ok := a.Intersection(b)
	if !ok {
		t.Fatal("expected overlap")
	}
	want := Rect{X: 50, Y: 50, W: 50, H: 50}
	if got != want {
		t.Errorf("Intersection = %v, want %v", got, want)
	}

	// Touching edges do not overlap (inclusive-exclusive).
	c := Rect{X: 100, Y: 0, W: 10, H: 10}
	if _, ok := a.Intersection(c); ok {
		t.Error("edge-adjacent rects should not intersect")
	}
	if a.Overlaps(c) {
		t.Error("edge-adjacent rects should not overlap")
	}
}

func TestRectSubtractDisjoint(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 10, H: 10}
	b := Rect{X: 20, Y: 20, W: 10, H: 10}

	got := a.Subtract(b)
	if len(got) != 1 || got[0] != a {
		t.Errorf("Subtract(disjoint) = %v, want [%v]", got, a)
	}
}

func TestRectSubtractCovering(t *testing.T) {
	a := Rect{X: 5, Y: 5, W: 10, H: 10}
	b := Rect{X: 0, Y: 0, W: 100, H: 100}

	if got := a.Subtract(b); got != nil {
		t.Errorf("Subtract(covering) = %v, want nil", got)
	}
}

func TestRectSubtractHole(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 10, H: 10}
	hole := Rect{X: 3, Y: 3, W: 4, H: 4}

	parts := a.Subtract(hole)
	if len(parts) != 4 {
		t.Fatalf("Subtract(hole) returned %d parts, want 4", len(parts))
	}

	// Parts must be pairwise disjoint, inside a, outside the hole, and
	// together cover exactly area(a) - area(hole).
	total := 0
	for i, p := range parts {
		if !a.Contains(p) {
			t.Errorf("part %v outside original", p)
		}
		if p.Overlaps(hole) {
			t.Errorf("part %v overlaps hole", p)
		}
		for _, q := range parts[i+1:] {
			if p.Overlaps(q) {
				t.Errorf("parts %v and %v overlap", p, q)
			}
		}
		total += p.Area()
	}
	if want := a.Area() - hole.Area(); total != want {
		t.Errorf("parts cover %d pixels, want %d", total, want)
	}
}

func TestRectSubtractPartial(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 10, H: 10}
	right := Rect{X: 5, Y: 0, W: 10, H: 10}

	parts := a.Subtract(right)
	if len(parts) != 1 {
		t.Fatalf("Subtract(right half) returned %d parts, want 1", len(parts))
	}
	want := Rect{X: 0, Y: 0, W: 5, H: 10}
	if parts[0] != want {
		t.Errorf("Subtract(right half) = %v, want %v", parts[0], want)
	}
}

func TestSubtractAll(t *testing.T) {
	set := []Rect{{X: 0, Y: 0, W: 10, H: 10}}
	regions := []Rect{
		{X: 0, Y: 0, W: 5, H: 10},
		{X: 5, Y: 0, W: 5, H: 5},
	}

	got := SubtractAll(set, regions)
	total := 0
	for _, r := range got {
		total += r.Area()
	}
	if total != 25 {
		t.Errorf("remaining area = %d, want 25", total)
	}

	// Empty regions are ignored.
	got = SubtractAll(set, []Rect{{}})
	if len(got) != 1 || got[0] != set[0] {
		t.Errorf("SubtractAll with empty region = %v, want %v", got, set)
	}
}

func TestRectMerge(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 10, H: 10}
	b := Rect{X: 20, Y: 5, W: 10, H: 10}

	got := a.Merge(b)
	want := Rect{X: 0, Y: 0, W: 30, H: 15}
	if got != want {
		t.Errorf("Merge = %v, want %v", got, want)
	}

	if got := a.Merge(Rect{}); got != a {
		t.Errorf("Merge with empty = %v, want %v", got, a)
	}
	if got := (Rect{}).Merge(b); got != b {
		t.Errorf("empty.Merge = %v, want %v", got, b)
	}
}

func TestRectArea(t *testing.T) {
	if got := (Rect{X: 100, Y: 100, W: 10, H: 10}).Area(); got != 100 {
		t.Errorf("Area = %d, want 100", got)
	}
	if got := (Rect{W: -5, H: 10}).Area(); got != 0 {
		t.Errorf("Area of empty = %d, want 0", got)
	}
}

func TestRectScale(t *testing.T) {
	r := Rect{X: 10, Y: 10, W: 5, H: 5}

	if got := r.Scale(1.0); got != r {
		t.Errorf("Scale(1.0) = %v, want %v", got, r)
	}
	if got, want := r.Scale(2.0), (Rect{X: 20, Y: 20, W: 10, H: 10}); got != want {
		t.Errorf("Scale(2.0) = %v, want %v", got, want)
	}

	// Fractional scale must not shrink coverage.
	got := r.Scale(1.5)
	if got.X > 15 || got.Y > 15 || got.Right() < 23 || got.Bottom() < 23 {
		t.Errorf("Scale(1.5) = %v does not cover scaled extent", got)
	}
}

func TestRectTranslate(t *testing.T) {
	r := Rect{X: 1, Y: 2, W: 3, H: 4}
	got := r.Translate(Point{X: 10, Y: 20})
	want := Rect{X: 11, Y: 22, W: 3, H: 4}
	if got != want {
		t.Errorf("Translate = %v, want %v", got, want)
	}
}
