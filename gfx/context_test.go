package gfx_test

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pulsequad/pulsequad/diag"
	"github.com/pulsequad/pulsequad/gfx"
	"github.com/pulsequad/pulsequad/gfx/gfxtest"
)

func noProc(name string) unsafe.Pointer { return nil }

type logRecorder struct {
	msgs []string
}

func (r *logRecorder) record(level diag.Level, msg string) {
	r.msgs = append(r.msgs, "["+level.Tag()+"] "+msg)
}

func (r *logRecorder) count(substr string) int {
	n := 0
	for _, m := range r.msgs {
		if strings.Contains(m, substr) {
			n++
		}
	}
	return n
}

func newTestContext(t *testing.T) (*gfx.Context, *gfxtest.FakeGL, *logRecorder) {
	t.Helper()
	rec := &logRecorder{}
	log := diag.NewLogger(filepath.Join(t.TempDir(), "core.log"))
	log.BindHost(rec.record)
	fake := gfxtest.New()
	return gfx.NewContext(log, fake.Open), fake, rec
}

func TestCreateIsIdempotent(t *testing.T) {
	ctx, fake, _ := newTestContext(t)

	if err := ctx.Create(noProc); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := ctx.Create(noProc); err != nil {
		t.Fatalf("second create: %v", err)
	}
	if !ctx.Ready() {
		t.Fatalf("context not ready")
	}
	if fake.GenBufferCalls != 1 || fake.LinkCalls != 1 {
		t.Fatalf("GPU allocation repeated: buffers=%d links=%d", fake.GenBufferCalls, fake.LinkCalls)
	}
}

func TestCreateWithoutBackend(t *testing.T) {
	rec := &logRecorder{}
	log := diag.NewLogger(filepath.Join(t.TempDir(), "core.log"))
	log.BindHost(rec.record)
	ctx := gfx.NewContext(log, nil)

	err := ctx.Create(noProc)
	if !errors.Is(err, gfx.ErrNoBackend) {
		t.Fatalf("got %v, expected ErrNoBackend", err)
	}
	if !errors.Is(err, gfx.ErrContextInit) {
		t.Fatalf("ErrNoBackend must match ErrContextInit")
	}
	if ctx.State() != gfx.Uninitialized {
		t.Fatalf("state = %v, expected Uninitialized", ctx.State())
	}
}

func TestCreateWithoutResolver(t *testing.T) {
	ctx, _, _ := newTestContext(t)

	err := ctx.Create(nil)
	if !errors.Is(err, gfx.ErrNoProcResolver) {
		t.Fatalf("got %v, expected ErrNoProcResolver", err)
	}
	if !errors.Is(err, gfx.ErrContextInit) {
		t.Fatalf("ErrNoProcResolver must match ErrContextInit")
	}
	if ctx.State() != gfx.Uninitialized {
		t.Fatalf("state = %v, expected Uninitialized", ctx.State())
	}
}

func TestCreateShaderCompileFailure(t *testing.T) {
	ctx, fake, _ := newTestContext(t)
	fake.FailFragmentCompile = true
	fake.InfoLog = "syntax error"

	err := ctx.Create(noProc)
	var cerr *gfx.CompileError
	if !errors.As(err, &cerr) {
		t.Fatalf("got %v, expected CompileError", err)
	}
	if cerr.Stage != "fragment" || cerr.Log != "syntax error" {
		t.Fatalf("diagnostic not captured: %+v", cerr)
	}
	if !errors.Is(err, gfx.ErrContextInit) {
		t.Fatalf("CompileError must match ErrContextInit")
	}
	if ctx.State() != gfx.Uninitialized {
		t.Fatalf("state = %v, expected Uninitialized", ctx.State())
	}
	// No partially created objects may survive the failure.
	if fake.LiveShaders() != 0 || fake.LivePrograms() != 0 {
		t.Fatalf("leaked objects: shaders=%d programs=%d", fake.LiveShaders(), fake.LivePrograms())
	}
}

func TestCreateLinkFailure(t *testing.T) {
	ctx, fake, _ := newTestContext(t)
	fake.FailLink = true
	fake.InfoLog = "unresolved symbol"

	err := ctx.Create(noProc)
	var lerr *gfx.LinkError
	if !errors.As(err, &lerr) {
		t.Fatalf("got %v, expected LinkError", err)
	}
	if lerr.Log != "unresolved symbol" {
		t.Fatalf("diagnostic not captured: %+v", lerr)
	}
	if fake.LiveShaders() != 0 || fake.LivePrograms() != 0 {
		t.Fatalf("leaked objects: shaders=%d programs=%d", fake.LiveShaders(), fake.LivePrograms())
	}
}

func TestDestroyThenCreateRestartsLifecycle(t *testing.T) {
	ctx, fake, _ := newTestContext(t)

	if err := ctx.Create(noProc); err != nil {
		t.Fatalf("create: %v", err)
	}
	ctx.Destroy()
	if ctx.State() != gfx.Destroyed {
		t.Fatalf("state = %v, expected Destroyed", ctx.State())
	}
	ctx.Destroy() // idempotent

	if err := ctx.Create(noProc); err != nil {
		t.Fatalf("re-create: %v", err)
	}
	if !ctx.Ready() {
		t.Fatalf("context not drawable after re-create")
	}
	ctx.DrawQuad(0, 0, 512, 512, mgl32.Vec4{1, 0, 0, 1}, 512, 512)
	if _, ok := fake.LastDraw(); !ok {
		t.Fatalf("no draw issued after re-create")
	}
}

func TestDrawQuadUploadsStripAndColor(t *testing.T) {
	ctx, fake, _ := newTestContext(t)
	if err := ctx.Create(noProc); err != nil {
		t.Fatalf("create: %v", err)
	}

	color := mgl32.Vec4{0, 0.5, 0, 1}
	ctx.DrawQuad(128, 128, 256, 256, color, 512, 512)

	draw, ok := fake.LastDraw()
	if !ok {
		t.Fatalf("no draw issued")
	}
	if draw.Mode != gfx.TRIANGLE_STRIP || draw.First != 0 || draw.Count != 4 {
		t.Fatalf("draw call: %+v", draw)
	}
	expected := []float32{-0.5, 0.5, 0.5, 0.5, -0.5, -0.5, 0.5, -0.5}
	for i, v := range expected {
		if draw.Vertices[i] != v {
			t.Fatalf("vertex %d: got %v, expected %v", i, draw.Vertices[i], v)
		}
	}
	if draw.Color != color {
		t.Fatalf("color: got %v, expected %v", draw.Color, color)
	}
}

func TestDrawQuadRequiresLiveObjects(t *testing.T) {
	ctx, fake, rec := newTestContext(t)
	if err := ctx.Create(noProc); err != nil {
		t.Fatalf("create: %v", err)
	}

	// The host tore the driver context down behind the core's back.
	fake.InvalidateObjects()
	ctx.DrawQuad(0, 0, 512, 512, mgl32.Vec4{}, 512, 512)

	if len(fake.Draws) != 0 {
		t.Fatalf("draw issued against dead objects")
	}
	if rec.count("invalid graphics state") != 1 {
		t.Fatalf("dead objects not reported: %v", rec.msgs)
	}
}

func TestDrawQuadOutsideNDCIsAdvisory(t *testing.T) {
	ctx, fake, rec := newTestContext(t)
	if err := ctx.Create(noProc); err != nil {
		t.Fatalf("create: %v", err)
	}

	ctx.DrawQuad(-512, -512, 2048, 2048, mgl32.Vec4{}, 512, 512)

	if rec.count("outside NDC") != 1 {
		t.Fatalf("advisory not logged: %v", rec.msgs)
	}
	if len(fake.Draws) != 1 {
		t.Fatalf("out-of-range quad must still be drawn")
	}
}

func TestGraphicsErrorsAreLoggedNotRaised(t *testing.T) {
	ctx, fake, rec := newTestContext(t)
	if err := ctx.Create(noProc); err != nil {
		t.Fatalf("create: %v", err)
	}

	fake.ErrQueue = []gfx.Enum{0x0502, 0x0505} // INVALID_OPERATION, OUT_OF_MEMORY
	ctx.ClearTarget()

	if rec.count("graphics error in ClearTarget") != 2 {
		t.Fatalf("error queue not drained into the log: %v", rec.msgs)
	}
}

func TestEnsureViewportSkipsRedundantChange(t *testing.T) {
	ctx, fake, _ := newTestContext(t)
	if err := ctx.Create(noProc); err != nil {
		t.Fatalf("create: %v", err)
	}

	ctx.EnsureViewport(512, 512)
	ctx.EnsureViewport(512, 512)
	if fake.ViewportCalls != 1 {
		t.Fatalf("viewport set %d times, expected 1", fake.ViewportCalls)
	}
	ctx.EnsureViewport(320, 240)
	if fake.ViewportCalls != 2 {
		t.Fatalf("viewport change suppressed")
	}
}
