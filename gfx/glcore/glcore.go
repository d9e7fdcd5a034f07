//go:build glfw

package glcore

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pulsequad/pulsequad/gfx"
	"github.com/pulsequad/pulsequad/host"
)

// Open resolves the OpenGL function table through the host's proc-address
// capability. It is a gfx.BackendOpen.
func Open(resolve host.ProcResolverFunc) (gfx.GL, error) {
	if err := gl.InitWithProcAddrFunc(resolve); err != nil {
		return nil, fmt.Errorf("glcore: %w", err)
	}
	return table{}, nil
}

type table struct{}

func (table) CreateShader(kind gfx.Enum) gfx.Shader {
	return gfx.Shader(gl.CreateShader(uint32(kind)))
}

func (table) ShaderSource(s gfx.Shader, src string) {
	csrc, free := gl.Strs(src + "\x00")
	defer free()
	gl.ShaderSource(uint32(s), 1, csrc, nil)
}

func (table) CompileShader(s gfx.Shader) { gl.CompileShader(uint32(s)) }

func (table) ShaderCompileOK(s gfx.Shader) bool {
	var status int32
	gl.GetShaderiv(uint32(s), gl.COMPILE_STATUS, &status)
	return status == gl.TRUE
}

func (table) ShaderInfoLog(s gfx.Shader) string {
	var length int32
	gl.GetShaderiv(uint32(s), gl.INFO_LOG_LENGTH, &length)
	if length == 0 {
		return ""
	}
	buf := strings.Repeat("\x00", int(length)+1)
	gl.GetShaderInfoLog(uint32(s), length, nil, gl.Str(buf))
	return strings.TrimRight(buf, "\x00")
}

func (table) DeleteShader(s gfx.Shader) { gl.DeleteShader(uint32(s)) }

func (table) CreateProgram() gfx.Program { return gfx.Program(gl.CreateProgram()) }

func (table) AttachShader(p gfx.Program, s gfx.Shader) {
	gl.AttachShader(uint32(p), uint32(s))
}

func (table) LinkProgram(p gfx.Program) { gl.LinkProgram(uint32(p)) }

func (table) ProgramLinkOK(p gfx.Program) bool {
	var status int32
	gl.GetProgramiv(uint32(p), gl.LINK_STATUS, &status)
	return status == gl.TRUE
}

func (table) ProgramInfoLog(p gfx.Program) string {
	var length int32
	gl.GetProgramiv(uint32(p), gl.INFO_LOG_LENGTH, &length)
	if length == 0 {
		return ""
	}
	buf := strings.Repeat("\x00", int(length)+1)
	gl.GetProgramInfoLog(uint32(p), length, nil, gl.Str(buf))
	return strings.TrimRight(buf, "\x00")
}

func (table) DeleteProgram(p gfx.Program) { gl.DeleteProgram(uint32(p)) }
func (table) UseProgram(p gfx.Program)    { gl.UseProgram(uint32(p)) }
func (table) IsProgram(p gfx.Program) bool {
	return gl.IsProgram(uint32(p))
}

func (table) UniformLocation(p gfx.Program, name string) gfx.Uniform {
	return gfx.Uniform(gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00")))
}

func (table) Uniform4f(u gfx.Uniform, v mgl32.Vec4) {
	gl.Uniform4f(int32(u), v[0], v[1], v[2], v[3])
}

func (table) GenBuffer() gfx.Buffer {
	var b uint32
	gl.GenBuffers(1, &b)
	return gfx.Buffer(b)
}

func (table) BindBuffer(target gfx.Enum, b gfx.Buffer) {
	gl.BindBuffer(uint32(target), uint32(b))
}

func (table) BufferData(target gfx.Enum, size int) {
	gl.BufferData(uint32(target), size, nil, gl.DYNAMIC_DRAW)
}

func (table) BufferSubData(target gfx.Enum, offset int, data []float32) {
	gl.BufferSubData(uint32(target), offset, 4*len(data), gl.Ptr(data))
}

func (table) DeleteBuffer(b gfx.Buffer) {
	u := uint32(b)
	gl.DeleteBuffers(1, &u)
}

func (table) IsBuffer(b gfx.Buffer) bool { return gl.IsBuffer(uint32(b)) }

func (table) GenVertexArray() gfx.VertexArray {
	var a uint32
	gl.GenVertexArrays(1, &a)
	return gfx.VertexArray(a)
}

func (table) BindVertexArray(a gfx.VertexArray) { gl.BindVertexArray(uint32(a)) }

func (table) EnableVertexAttribArray(index gfx.Attrib) {
	gl.EnableVertexAttribArray(uint32(index))
}

func (table) VertexAttribPointer(index gfx.Attrib, size, stride, offset int) {
	gl.VertexAttribPointerWithOffset(uint32(index), int32(size), gl.FLOAT, false, int32(stride), uintptr(offset))
}

func (table) DeleteVertexArray(a gfx.VertexArray) {
	u := uint32(a)
	gl.DeleteVertexArrays(1, &u)
}

func (table) IsVertexArray(a gfx.VertexArray) bool {
	return gl.IsVertexArray(uint32(a))
}

func (table) DrawArrays(mode gfx.Enum, first, count int) {
	gl.DrawArrays(uint32(mode), int32(first), int32(count))
}

func (table) BindFramebuffer(f gfx.Framebuffer) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(f))
}

func (table) CheckFramebufferStatus() gfx.Enum {
	return gfx.Enum(gl.CheckFramebufferStatus(gl.FRAMEBUFFER))
}

func (table) Viewport(x, y, w, h int32) { gl.Viewport(x, y, w, h) }

func (table) GetViewport() [4]int32 {
	var vp [4]int32
	gl.GetIntegerv(gl.VIEWPORT, &vp[0])
	return vp
}

func (table) ClearColor(r, g, b, a float32) { gl.ClearColor(r, g, b, a) }

func (table) Clear() { gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT) }

func (table) Enable(cap gfx.Enum)  { gl.Enable(uint32(cap)) }
func (table) Disable(cap gfx.Enum) { gl.Disable(uint32(cap)) }

func (table) BlendFunc(sfactor, dfactor gfx.Enum) {
	gl.BlendFunc(uint32(sfactor), uint32(dfactor))
}

func (table) Err() gfx.Enum { return gfx.Enum(gl.GetError()) }
