package gfx

import "testing"

func TestQuadVerticesFullViewport(t *testing.T) {
	// The full-viewport rectangle must map exactly onto the NDC square.
	got := quadVertices(0, 0, 512, 512, 512, 512)
	expected := [8]float32{-1, 1, 1, 1, -1, -1, 1, -1}
	if got != expected {
		t.Fatalf("full viewport: got %v, expected %v", got, expected)
	}
}

func TestQuadVerticesAffineMap(t *testing.T) {
	table := []struct {
		x, y, w, h, vw, vh float32
		expected           [8]float32
	}{
		// Top-left quadrant of a 2x2 viewport.
		{0, 0, 1, 1, 2, 2, [8]float32{-1, 1, 0, 1, -1, 0, 0, 0}},
		// Centered half-size quad.
		{128, 128, 256, 256, 512, 512, [8]float32{-0.5, 0.5, 0.5, 0.5, -0.5, -0.5, 0.5, -0.5}},
		// Degenerate zero-size quad collapses onto one point.
		{256, 256, 0, 0, 512, 512, [8]float32{0, 0, 0, 0, 0, 0, 0, 0}},
		// Out-of-viewport rectangle still maps affinely (clamping is the
		// driver's job, the advisory log is not a hard failure).
		{512, 512, 512, 512, 512, 512, [8]float32{1, -1, 3, -1, 1, -3, 3, -3}},
	}
	for _, entry := range table {
		got := quadVertices(entry.x, entry.y, entry.w, entry.h, entry.vw, entry.vh)
		if got != entry.expected {
			t.Fatalf("quadVertices(%v,%v,%v,%v in %vx%v): got %v, expected %v",
				entry.x, entry.y, entry.w, entry.h, entry.vw, entry.vh, got, entry.expected)
		}
	}
}
