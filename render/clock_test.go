package render

import (
	"math"
	"testing"

	"github.com/pulsequad/pulsequad/constant"
)

func TestClockScaleFormula(t *testing.T) {
	table := []float32{0, 0.016, 0.5, 1.0, math.Pi / 4, 10, 123.456}
	for _, elapsed := range table {
		c := Clock{t: elapsed}
		expected := 0.8 + 0.2*float32(math.Sin(float64(elapsed)*2))
		if got := c.Scale(); got != expected {
			t.Fatalf("Scale(%v): got %v, expected %v", elapsed, got, expected)
		}
	}
}

func TestClockScaleBounds(t *testing.T) {
	c := Clock{}
	for i := 0; i < 10000; i++ {
		c.Advance()
		s := c.Scale()
		if s < 0.6 || s > 1.0 {
			t.Fatalf("scale %v at t=%v out of [0.6, 1.0]", s, c.Elapsed())
		}
	}
}

func TestClockAdvancesByFixedStep(t *testing.T) {
	c := Clock{}
	c.Advance()
	if got := c.Elapsed(); got != constant.TIME_STEP {
		t.Fatalf("elapsed after one tick: got %v, expected %v", got, float32(constant.TIME_STEP))
	}
	c.Advance()
	if got := c.Elapsed(); got != float32(constant.TIME_STEP)+float32(constant.TIME_STEP) {
		t.Fatalf("elapsed after two ticks: got %v", got)
	}
}
