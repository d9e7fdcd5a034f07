package gfx

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pulsequad/pulsequad/diag"
	"github.com/pulsequad/pulsequad/host"
)

// State is the lifecycle of the graphics context. Destroyed behaves as
// Uninitialized: a destroyed context can be created again.
type State int

const (
	Uninitialized State = iota
	Ready
	Destroyed
)

// ErrContextInit marks every failure of Create; callers can match the whole
// class with errors.Is.
var ErrContextInit = errors.New("gfx: context initialization failed")

// ErrNoProcResolver is returned by Create when the host never supplied a
// proc-address capability.
var ErrNoProcResolver = fmt.Errorf("%w: no proc-address resolver", ErrContextInit)

// ErrNoBackend is returned by Create when the context was composed without
// a graphics backend.
var ErrNoBackend = fmt.Errorf("%w: no graphics backend", ErrContextInit)

// CompileError carries the compiler diagnostic of a failed shader stage.
type CompileError struct {
	Stage string // "vertex" or "fragment"
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s shader compilation failed: %s", e.Stage, e.Log)
}

func (e *CompileError) Unwrap() error { return ErrContextInit }

// LinkError carries the linker diagnostic of a failed program link.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("shader program linking failed: %s", e.Log)
}

func (e *LinkError) Unwrap() error { return ErrContextInit }

// Fixed shader pair: position attribute in, uniform fill color out.
const (
	vertexShaderSrc = `#version 330 core
layout(location = 0) in vec2 position;
void main() {
   gl_Position = vec4(position, 0.0, 1.0);
}
`
	fragmentShaderSrc = `#version 330 core
out vec4 frag_color;
uniform vec4 color;
void main() {
   frag_color = color;
}
`
)

// Context owns the shader program, geometry buffer and vertex layout.
// Created exactly once per context-active period; invalid before creation
// and after destruction; never partially mutated.
type Context struct {
	log  *diag.Logger
	open BackendOpen

	state   State
	gl      GL
	program Program
	vbo     Buffer
	vao     VertexArray
}

func NewContext(log *diag.Logger, open BackendOpen) *Context {
	return &Context{log: log, open: open}
}

func (c *Context) State() State { return c.state }
func (c *Context) Ready() bool  { return c.state == Ready }

// Create resolves the GPU function table and builds the context resources.
// It is idempotent: a Ready context is returned untouched. On any failure
// partially created objects are released and the state stays Uninitialized.
// This is the only error of the core that escalates to the caller, so the
// host can decide whether to retry loading.
func (c *Context) Create(resolve host.ProcResolverFunc) error {
	if c.state == Ready {
		c.log.Debugf("graphics context already initialized, skipping")
		return nil
	}
	if c.open == nil {
		c.log.Errorf("no graphics backend configured, cannot initialize graphics")
		return ErrNoBackend
	}
	if resolve == nil {
		c.log.Errorf("no proc-address resolver provided, cannot initialize graphics")
		return ErrNoProcResolver
	}
	gl, err := c.open(resolve)
	if err != nil {
		c.log.Errorf("failed to open graphics backend: %v", err)
		return fmt.Errorf("%w: %v", ErrContextInit, err)
	}
	c.gl = gl

	program, err := c.buildProgram(vertexShaderSrc, fragmentShaderSrc)
	if err != nil {
		c.log.Errorf("failed to create solid shader program: %v", err)
		c.gl = nil
		return err
	}
	c.program = program

	c.vao = gl.GenVertexArray()
	gl.BindVertexArray(c.vao)
	c.vbo = gl.GenBuffer()
	gl.BindBuffer(ARRAY_BUFFER, c.vbo)
	gl.BufferData(ARRAY_BUFFER, 4*2*4) // 4 vertices, 2 float32 each
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, 2*4, 0)
	gl.BindBuffer(ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	c.checkErr("create: vertex layout setup")

	gl.ClearColor(0, 0, 0, 1)
	gl.Enable(BLEND)
	gl.BlendFunc(SRC_ALPHA, ONE_MINUS_SRC_ALPHA)
	gl.Disable(DEPTH_TEST)
	gl.Disable(CULL_FACE)
	c.checkErr("create: baseline state setup")

	c.state = Ready
	c.log.Debugf("graphics context initialized")
	return nil
}

// buildProgram compiles and links the fixed shader pair, releasing every
// intermediate object on failure.
func (c *Context) buildProgram(vsSrc, fsSrc string) (Program, error) {
	gl := c.gl

	vs := gl.CreateShader(VERTEX_SHADER)
	gl.ShaderSource(vs, vsSrc)
	gl.CompileShader(vs)
	if !gl.ShaderCompileOK(vs) {
		err := &CompileError{Stage: "vertex", Log: gl.ShaderInfoLog(vs)}
		gl.DeleteShader(vs)
		return 0, err
	}

	fs := gl.CreateShader(FRAGMENT_SHADER)
	gl.ShaderSource(fs, fsSrc)
	gl.CompileShader(fs)
	if !gl.ShaderCompileOK(fs) {
		err := &CompileError{Stage: "fragment", Log: gl.ShaderInfoLog(fs)}
		gl.DeleteShader(fs)
		gl.DeleteShader(vs)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)
	linked := gl.ProgramLinkOK(program)
	if !linked {
		err := &LinkError{Log: gl.ProgramInfoLog(program)}
		gl.DeleteProgram(program)
		gl.DeleteShader(fs)
		gl.DeleteShader(vs)
		return 0, err
	}

	gl.DeleteShader(vs)
	gl.DeleteShader(fs)
	c.log.Debugf("solid shader program created")
	return program, nil
}

// Destroy releases the program, buffer and layout. Idempotent; a context
// that is not Ready is left alone.
func (c *Context) Destroy() {
	if c.state != Ready {
		return
	}
	gl := c.gl
	gl.DeleteProgram(c.program)
	gl.DeleteBuffer(c.vbo)
	gl.DeleteVertexArray(c.vao)
	c.program, c.vbo, c.vao = 0, 0, 0
	c.gl = nil
	c.state = Destroyed
	c.log.Debugf("graphics context destroyed")
}

// ValidateLive revalidates the GPU objects behind the context. The host may
// tear down and recreate the driver context without notifying through the
// normal path, so Ready state alone is not trusted.
func (c *Context) ValidateLive(site string) bool {
	if c.state != Ready {
		return false
	}
	gl := c.gl
	if !gl.IsProgram(c.program) || !gl.IsVertexArray(c.vao) || !gl.IsBuffer(c.vbo) {
		c.log.Errorf("invalid graphics state in %s", site)
		return false
	}
	return true
}

// quadVertices is the exact pixel-rectangle to NDC affine map: a triangle
// strip (x0,y0),(x1,y0),(x0,y1),(x1,y1) with y flipped so pixel y grows down.
func quadVertices(x, y, w, h, vpW, vpH float32) [8]float32 {
	x0 := (x/vpW)*2 - 1
	y0 := 1 - (y/vpH)*2
	x1 := ((x+w)/vpW)*2 - 1
	y1 := 1 - ((y+h)/vpH)*2
	return [8]float32{x0, y0, x1, y0, x0, y1, x1, y1}
}

// DrawQuad uploads and draws one solid quad given in pixel space. Requires a
// Ready context with live objects; anything else is logged and skipped.
func (c *Context) DrawQuad(x, y, w, h float32, color mgl32.Vec4, vpW, vpH float32) {
	if !c.ValidateLive("DrawQuad") {
		return
	}
	gl := c.gl

	verts := quadVertices(x, y, w, h, vpW, vpH)
	for _, v := range verts {
		if v < -1 || v > 1 {
			// Advisory only; out-of-range coordinates are still drawn.
			c.log.Warnf("quad vertex coordinate %f outside NDC range", v)
			break
		}
	}

	gl.UseProgram(c.program)
	c.checkErr("DrawQuad: use program")
	gl.BindVertexArray(c.vao)
	c.checkErr("DrawQuad: bind vertex array")
	gl.BindBuffer(ARRAY_BUFFER, c.vbo)
	c.checkErr("DrawQuad: bind buffer")
	gl.BufferSubData(ARRAY_BUFFER, 0, verts[:])
	c.checkErr("DrawQuad: upload vertices")

	loc := gl.UniformLocation(c.program, "color")
	gl.Uniform4f(loc, color)
	c.checkErr("DrawQuad: set color uniform")

	gl.DrawArrays(TRIANGLE_STRIP, 0, 4)
	c.checkErr("DrawQuad: draw arrays")

	gl.BindBuffer(ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	gl.UseProgram(0)
	c.checkErr("DrawQuad: unbind")

	c.log.Debugf("drew solid quad at (%f, %f), size (%f, %f)", x, y, w, h)
}

// BindTarget binds a render target; DefaultTarget selects the host's
// default framebuffer.
func (c *Context) BindTarget(f Framebuffer) {
	if c.state != Ready {
		return
	}
	c.gl.BindFramebuffer(f)
	c.checkErr("BindTarget")
}

// TargetComplete checks the completeness of the currently bound target.
func (c *Context) TargetComplete() (Enum, bool) {
	if c.state != Ready {
		return 0, false
	}
	status := c.gl.CheckFramebufferStatus()
	c.checkErr("TargetComplete")
	return status, status == FRAMEBUFFER_COMPLETE
}

// EnsureViewport sets the viewport only when it differs from the active one.
func (c *Context) EnsureViewport(w, h int32) {
	if c.state != Ready {
		return
	}
	vp := c.gl.GetViewport()
	if vp[2] == w && vp[3] == h {
		return
	}
	c.gl.Viewport(0, 0, w, h)
	c.checkErr("EnsureViewport")
	c.log.Debugf("set viewport to %dx%d", w, h)
}

// ClearTarget clears the bound target with the fixed clear color.
func (c *Context) ClearTarget() {
	if c.state != Ready {
		return
	}
	c.gl.ClearColor(0, 0, 0, 1)
	c.gl.Clear()
	c.checkErr("ClearTarget")
}

// checkErr drains the driver's error queue, logging each pending error
// tagged with the call site. Errors are observable but never abort a frame.
func (c *Context) checkErr(site string) {
	for {
		errno := c.gl.Err()
		if errno == NO_ERROR {
			return
		}
		c.log.Errorf("graphics error in %s: 0x%04x", site, uint32(errno))
	}
}
