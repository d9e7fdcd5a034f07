// Package gfxtest provides a recording in-memory GL function table so the
// context and renderer logic can be exercised without a driver.
package gfxtest

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pulsequad/pulsequad/gfx"
	"github.com/pulsequad/pulsequad/host"
)

// Draw records one issued draw call and the state it saw.
type Draw struct {
	Mode     gfx.Enum
	First    int
	Count    int
	Target   gfx.Framebuffer
	Vertices []float32
	Color    mgl32.Vec4
}

// FakeGL is a gfx.GL that tracks object lifetimes and draw state in memory.
// The zero value behaves as a healthy driver; failure knobs flip individual
// behaviors.
type FakeGL struct {
	// Failure knobs.
	FailVertexCompile   bool
	FailFragmentCompile bool
	FailLink            bool
	InfoLog             string
	FramebufferStatus   gfx.Enum // 0 means complete
	ErrQueue            []gfx.Enum

	// Recorded state.
	nextHandle     uint32
	liveShaders    map[gfx.Shader]bool
	shaderKind     map[gfx.Shader]gfx.Enum
	livePrograms   map[gfx.Program]bool
	liveBuffers    map[gfx.Buffer]bool
	liveArrays     map[gfx.VertexArray]bool
	CompileCalls   int
	LinkCalls      int
	GenBufferCalls int
	ClearCalls     int
	ViewportCalls  int
	Draws          []Draw

	boundTarget  gfx.Framebuffer
	BoundTargets []gfx.Framebuffer // every BindFramebuffer in order
	boundBuffer  gfx.Buffer
	boundArray   gfx.VertexArray
	usedProgram  gfx.Program
	viewport     [4]int32
	bufferData   []float32
	uniformColor mgl32.Vec4
}

// New returns a healthy fake driver.
func New() *FakeGL {
	return &FakeGL{
		liveShaders:  map[gfx.Shader]bool{},
		shaderKind:   map[gfx.Shader]gfx.Enum{},
		livePrograms: map[gfx.Program]bool{},
		liveBuffers:  map[gfx.Buffer]bool{},
		liveArrays:   map[gfx.VertexArray]bool{},
	}
}

// Open is a gfx.BackendOpen handing out this fake.
func (f *FakeGL) Open(resolve host.ProcResolverFunc) (gfx.GL, error) {
	return f, nil
}

// InvalidateObjects simulates the host tearing down the driver context
// behind the core's back: every object stops validating as live.
func (f *FakeGL) InvalidateObjects() {
	f.livePrograms = map[gfx.Program]bool{}
	f.liveBuffers = map[gfx.Buffer]bool{}
	f.liveArrays = map[gfx.VertexArray]bool{}
}

// LastDraw returns the most recent draw call; ok is false when none was made.
func (f *FakeGL) LastDraw() (Draw, bool) {
	if len(f.Draws) == 0 {
		return Draw{}, false
	}
	return f.Draws[len(f.Draws)-1], true
}

func (f *FakeGL) handle() uint32 {
	f.nextHandle++
	return f.nextHandle
}

func (f *FakeGL) CreateShader(kind gfx.Enum) gfx.Shader {
	s := gfx.Shader(f.handle())
	f.liveShaders[s] = true
	f.shaderKind[s] = kind
	return s
}

func (f *FakeGL) ShaderSource(s gfx.Shader, src string) {}

func (f *FakeGL) CompileShader(s gfx.Shader) { f.CompileCalls++ }

func (f *FakeGL) ShaderCompileOK(s gfx.Shader) bool {
	switch f.shaderKind[s] {
	case gfx.VERTEX_SHADER:
		return !f.FailVertexCompile
	case gfx.FRAGMENT_SHADER:
		return !f.FailFragmentCompile
	}
	return true
}

func (f *FakeGL) ShaderInfoLog(s gfx.Shader) string { return f.InfoLog }

func (f *FakeGL) DeleteShader(s gfx.Shader) { delete(f.liveShaders, s) }

// LiveShaders counts shader objects not yet deleted.
func (f *FakeGL) LiveShaders() int { return len(f.liveShaders) }

func (f *FakeGL) CreateProgram() gfx.Program {
	p := gfx.Program(f.handle())
	f.livePrograms[p] = true
	return p
}

func (f *FakeGL) AttachShader(p gfx.Program, s gfx.Shader) {}

func (f *FakeGL) LinkProgram(p gfx.Program) { f.LinkCalls++ }

func (f *FakeGL) ProgramLinkOK(p gfx.Program) bool { return !f.FailLink }

func (f *FakeGL) ProgramInfoLog(p gfx.Program) string { return f.InfoLog }

func (f *FakeGL) DeleteProgram(p gfx.Program) { delete(f.livePrograms, p) }

// LivePrograms counts program objects not yet deleted.
func (f *FakeGL) LivePrograms() int { return len(f.livePrograms) }

func (f *FakeGL) UseProgram(p gfx.Program) { f.usedProgram = p }

func (f *FakeGL) IsProgram(p gfx.Program) bool { return f.livePrograms[p] }

func (f *FakeGL) UniformLocation(p gfx.Program, name string) gfx.Uniform { return 1 }

func (f *FakeGL) Uniform4f(u gfx.Uniform, v mgl32.Vec4) { f.uniformColor = v }

func (f *FakeGL) GenBuffer() gfx.Buffer {
	f.GenBufferCalls++
	b := gfx.Buffer(f.handle())
	f.liveBuffers[b] = true
	return b
}

func (f *FakeGL) BindBuffer(target gfx.Enum, b gfx.Buffer) { f.boundBuffer = b }

func (f *FakeGL) BufferData(target gfx.Enum, size int) {
	f.bufferData = make([]float32, size/4)
}

func (f *FakeGL) BufferSubData(target gfx.Enum, offset int, data []float32) {
	copy(f.bufferData[offset/4:], data)
}

func (f *FakeGL) DeleteBuffer(b gfx.Buffer) { delete(f.liveBuffers, b) }

func (f *FakeGL) IsBuffer(b gfx.Buffer) bool { return f.liveBuffers[b] }

func (f *FakeGL) GenVertexArray() gfx.VertexArray {
	a := gfx.VertexArray(f.handle())
	f.liveArrays[a] = true
	return a
}

func (f *FakeGL) BindVertexArray(a gfx.VertexArray) { f.boundArray = a }

func (f *FakeGL) EnableVertexAttribArray(index gfx.Attrib) {}

func (f *FakeGL) VertexAttribPointer(index gfx.Attrib, size, stride, offset int) {}

func (f *FakeGL) DeleteVertexArray(a gfx.VertexArray) { delete(f.liveArrays, a) }

func (f *FakeGL) IsVertexArray(a gfx.VertexArray) bool { return f.liveArrays[a] }

func (f *FakeGL) DrawArrays(mode gfx.Enum, first, count int) {
	verts := make([]float32, len(f.bufferData))
	copy(verts, f.bufferData)
	f.Draws = append(f.Draws, Draw{
		Mode:     mode,
		First:    first,
		Count:    count,
		Target:   f.boundTarget,
		Vertices: verts,
		Color:    f.uniformColor,
	})
}

func (f *FakeGL) BindFramebuffer(fb gfx.Framebuffer) {
	f.boundTarget = fb
	f.BoundTargets = append(f.BoundTargets, fb)
}

func (f *FakeGL) CheckFramebufferStatus() gfx.Enum {
	if f.FramebufferStatus == 0 {
		return gfx.FRAMEBUFFER_COMPLETE
	}
	return f.FramebufferStatus
}

func (f *FakeGL) Viewport(x, y, w, h int32) {
	f.ViewportCalls++
	f.viewport = [4]int32{x, y, w, h}
}

func (f *FakeGL) GetViewport() [4]int32 { return f.viewport }

func (f *FakeGL) ClearColor(r, g, b, a float32) {}

func (f *FakeGL) Clear() { f.ClearCalls++ }

func (f *FakeGL) Enable(cap gfx.Enum)  {}
func (f *FakeGL) Disable(cap gfx.Enum) {}

func (f *FakeGL) BlendFunc(sfactor, dfactor gfx.Enum) {}

func (f *FakeGL) Err() gfx.Enum {
	if len(f.ErrQueue) == 0 {
		return gfx.NO_ERROR
	}
	e := f.ErrQueue[0]
	f.ErrQueue = f.ErrQueue[1:]
	return e
}
