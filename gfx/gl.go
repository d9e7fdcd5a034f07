// Package gfx owns the GPU-side resources of the core: one shader program,
// one geometry buffer and one vertex layout, with a lifecycle driven by the
// host's context notifications.
package gfx

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pulsequad/pulsequad/host"
)

// Typed handles for GPU objects. Zero is never a live object.
type (
	Enum        uint32
	Shader      uint32
	Program     uint32
	Buffer      uint32
	VertexArray uint32
	Framebuffer uint32
	Attrib      uint32
	Uniform     int32
)

// GL enum values mirrored for backends and the error queue.
const (
	NO_ERROR             Enum = 0
	VERTEX_SHADER        Enum = 0x8B31
	FRAGMENT_SHADER      Enum = 0x8B30
	ARRAY_BUFFER         Enum = 0x8892
	TRIANGLE_STRIP       Enum = 0x0005
	BLEND                Enum = 0x0BE2
	DEPTH_TEST           Enum = 0x0B71
	CULL_FACE            Enum = 0x0B44
	SRC_ALPHA            Enum = 0x0302
	ONE_MINUS_SRC_ALPHA  Enum = 0x0303
	FRAMEBUFFER_COMPLETE Enum = 0x8CD5
)

// DefaultTarget is the host's default framebuffer.
const DefaultTarget Framebuffer = 0

// GL is the function table resolved from the host's proc-address capability.
// It covers exactly the entry points the core issues; backends adapt it to
// a real driver, tests substitute a recording fake.
type GL interface {
	CreateShader(kind Enum) Shader
	ShaderSource(s Shader, src string)
	CompileShader(s Shader)
	ShaderCompileOK(s Shader) bool
	ShaderInfoLog(s Shader) string
	DeleteShader(s Shader)

	CreateProgram() Program
	AttachShader(p Program, s Shader)
	LinkProgram(p Program)
	ProgramLinkOK(p Program) bool
	ProgramInfoLog(p Program) string
	DeleteProgram(p Program)
	UseProgram(p Program)
	IsProgram(p Program) bool
	UniformLocation(p Program, name string) Uniform
	Uniform4f(u Uniform, v mgl32.Vec4)

	GenBuffer() Buffer
	BindBuffer(target Enum, b Buffer)
	BufferData(target Enum, size int)
	BufferSubData(target Enum, offset int, data []float32)
	DeleteBuffer(b Buffer)
	IsBuffer(b Buffer) bool

	GenVertexArray() VertexArray
	BindVertexArray(a VertexArray)
	EnableVertexAttribArray(index Attrib)
	VertexAttribPointer(index Attrib, size, stride, offset int)
	DeleteVertexArray(a VertexArray)
	IsVertexArray(a VertexArray) bool

	DrawArrays(mode Enum, first, count int)

	BindFramebuffer(f Framebuffer)
	CheckFramebufferStatus() Enum
	Viewport(x, y, w, h int32)
	GetViewport() [4]int32
	ClearColor(r, g, b, a float32)
	Clear()
	Enable(cap Enum)
	Disable(cap Enum)
	BlendFunc(sfactor, dfactor Enum)

	// Err pops one entry from the driver's error queue; NO_ERROR when empty.
	Err() Enum
}

// BackendOpen produces a live GL function table through the host's
// proc-address resolver.
type BackendOpen func(resolve host.ProcResolverFunc) (GL, error)
