// Package render runs the per-tick frame procedure: resolve a render
// target, clear it, derive the quad from time and input, draw, present.
package render

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pulsequad/pulsequad/constant"
	"github.com/pulsequad/pulsequad/diag"
	"github.com/pulsequad/pulsequad/gfx"
	"github.com/pulsequad/pulsequad/host"
)

// Quad fill colors: green by default, blue while A is held, red while B is
// held. B is checked last and wins when both are held.
var (
	colorDefault = mgl32.Vec4{0, 0.5, 0, 1}
	colorButtonA = mgl32.Vec4{0, 0, 1, 1}
	colorButtonB = mgl32.Vec4{1, 0, 0, 1}
)

// Renderer is the hardware frame path.
type Renderer struct {
	log  *diag.Logger
	host *host.Bindings
	ctx  *gfx.Context

	clock Clock

	// useDefaultTarget latches once surface acquisition fails so a broken
	// capability is not probed again every frame. Cleared only by Reset.
	useDefaultTarget bool
}

func NewRenderer(log *diag.Logger, bindings *host.Bindings, ctx *gfx.Context) *Renderer {
	return &Renderer{log: log, host: bindings, ctx: ctx}
}

// Reset clears the persistent default-target fallback so the next tick
// probes the surface-acquire capability again.
func (r *Renderer) Reset() {
	r.useDefaultTarget = false
}

// Clock exposes the animation clock for the frame parameter derivation.
func (r *Renderer) Clock() *Clock { return &r.clock }

// Tick renders one frame. Every missing precondition logs and returns;
// nothing here may take down the host process.
func (r *Renderer) Tick() {
	if !r.ctx.Ready() {
		r.log.Errorf("graphics context not initialized")
		return
	}
	if !r.ctx.ValidateLive("run") {
		return
	}

	// Input must be refreshed before it is queried this tick.
	r.host.PollInput()

	r.bindSurface()

	r.ctx.EnsureViewport(constant.HW_WIDTH, constant.HW_HEIGHT)
	r.ctx.ClearTarget()

	color := r.fillColor()

	r.clock.Advance()
	scale := r.clock.Scale()
	quadW := constant.HW_WIDTH * scale
	quadH := constant.HW_HEIGHT * scale
	quadX := (constant.HW_WIDTH - quadW) * 0.5
	quadY := (constant.HW_HEIGHT - quadH) * 0.5

	r.ctx.DrawQuad(quadX, quadY, quadW, quadH, color, constant.HW_WIDTH, constant.HW_HEIGHT)

	r.ctx.BindTarget(gfx.DefaultTarget)

	// nil pixels: the frame is already in the bound target.
	if err := r.host.Present(nil, constant.HW_WIDTH, constant.HW_HEIGHT, 0); err != nil {
		r.log.Errorf("present frame: %v", err)
	}
}

// bindSurface resolves this frame's render target. The handle is acquired
// fresh every frame; the host may reassign or invalidate it at any time.
func (r *Renderer) bindSurface() {
	if r.useDefaultTarget || !r.host.IsBound(host.CapSurfaceAcquire) {
		r.ctx.BindTarget(gfx.DefaultTarget)
		r.log.Warnf("using default render target")
		return
	}

	handle, _ := r.host.AcquireSurface()
	if handle == 0 {
		r.log.Warnf("surface acquire returned no handle, falling back to default render target")
		r.useDefaultTarget = true
		r.ctx.BindTarget(gfx.DefaultTarget)
		return
	}

	r.ctx.BindTarget(gfx.Framebuffer(handle))
	if status, ok := r.ctx.TargetComplete(); !ok {
		r.log.Errorf("render target %d incomplete (status 0x%04x), falling back to default render target", handle, uint32(status))
		r.useDefaultTarget = true
		r.ctx.BindTarget(gfx.DefaultTarget)
		return
	}
	r.log.Debugf("bound render target %d", handle)
}

func (r *Renderer) fillColor() mgl32.Vec4 {
	color := colorDefault
	if !r.host.IsBound(host.CapInputState) {
		return color
	}
	if r.host.InputState(0, host.DeviceJoypad, 0, host.IDButtonA) != 0 {
		color = colorButtonA
	}
	if r.host.InputState(0, host.DeviceJoypad, 0, host.IDButtonB) != 0 {
		color = colorButtonB
	}
	return color
}
