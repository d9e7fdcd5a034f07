package render

import (
	"math"

	"github.com/pulsequad/pulsequad/constant"
)

// Clock accumulates animation time, advanced by a fixed step each tick.
// It is ephemeral frame state and never persisted.
type Clock struct {
	t float32
}

func (c *Clock) Advance() { c.t += constant.TIME_STEP }

func (c *Clock) Elapsed() float32 { return c.t }

// Scale is the pulsing factor of the quad, bounded in [0.6, 1.0].
func (c *Clock) Scale() float32 {
	return 0.8 + 0.2*float32(math.Sin(float64(c.t)*2))
}
