package host

import (
	"path/filepath"
	"strings"
	"testing"
	"unsafe"

	"github.com/pulsequad/pulsequad/diag"
)

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

func newTestBindings(t *testing.T) (*Bindings, *logRecorder) {
	t.Helper()
	rec := &logRecorder{}
	log := diag.NewLogger(filepath.Join(t.TempDir(), "core.log"))
	log.BindHost(rec.record)
	return NewBindings(log), rec
}

type fakeEnv struct {
	noContentCalls int
	noContent      bool
	grant          bool
	handles        ContextHandles
	logFn          diag.LogFunc
	req            ContextRequest
}

func (e *fakeEnv) SupportsNoContent() bool {
	e.noContentCalls++
	return e.noContent
}

func (e *fakeEnv) Logger() (diag.LogFunc, bool) {
	return e.logFn, e.logFn != nil
}

func (e *fakeEnv) SetRenderContext(req ContextRequest) (ContextHandles, bool) {
	e.req = req
	return e.handles, e.grant
}

func TestBindNilCallbackRetainsPrevious(t *testing.T) {
	b, rec := newTestBindings(t)

	calls := 0
	b.BindPresent(func(pix []byte, width, height, pitch int) { calls++ })
	b.BindPresent(nil)

	if !b.IsBound(CapPresent) {
		t.Fatalf("present should stay bound after nil bind")
	}
	if rec.count("nil callback") != 1 {
		t.Fatalf("nil bind not reported: %v", rec.msgs)
	}
	if err := b.Present(nil, 1, 1, 0); err != nil {
		t.Fatalf("present: %v", err)
	}
	if calls != 1 {
		t.Fatalf("previous presenter not retained, calls = %d", calls)
	}
}

func TestBindNilCallbackStaysUnbound(t *testing.T) {
	b, rec := newTestBindings(t)

	b.BindInputPoll(nil)
	if b.IsBound(CapInputPoll) {
		t.Fatalf("input poll should stay unbound")
	}
	if rec.count("nil callback") != 1 {
		t.Fatalf("nil bind not reported: %v", rec.msgs)
	}
}

func TestUnboundInvokes(t *testing.T) {
	b, _ := newTestBindings(t)

	if err := b.Present(nil, 1, 1, 0); err != ErrCapabilityMissing {
		t.Fatalf("present: got %v, expected ErrCapabilityMissing", err)
	}
	b.PollInput() // no-op, must not panic
	if got := b.InputState(0, DeviceJoypad, 0, IDButtonA); got != 0 {
		t.Fatalf("input state: got %d, expected 0", got)
	}
	if handle, ok := b.AcquireSurface(); ok || handle != 0 {
		t.Fatalf("acquire surface: got (%d, %v)", handle, ok)
	}
	if b.ProcResolver() != nil {
		t.Fatalf("proc resolver should be nil")
	}
}

func TestContentlessNegotiatedOnce(t *testing.T) {
	b, _ := newTestBindings(t)
	env := &fakeEnv{noContent: true}

	b.BindEnvironment(env)
	b.BindEnvironment(env)
	b.NegotiateContentless()

	if env.noContentCalls != 1 {
		t.Fatalf("negotiation requested %d times, expected 1", env.noContentCalls)
	}
	if !b.ContentlessGranted() {
		t.Fatalf("grant lost")
	}
}

func TestContentlessFailureIsSingleShot(t *testing.T) {
	b, rec := newTestBindings(t)
	env := &fakeEnv{noContent: false}

	b.BindEnvironment(env)
	b.NegotiateContentless()

	if env.noContentCalls != 1 {
		t.Fatalf("failed negotiation retried: %d calls", env.noContentCalls)
	}
	if rec.count("content-less") != 1 {
		t.Fatalf("failure not logged once: %v", rec.msgs)
	}
}

func TestRequestRenderContext(t *testing.T) {
	b, _ := newTestBindings(t)

	if _, ok := b.RequestRenderContext(ContextRequest{}); ok {
		t.Fatalf("request without environment should fail")
	}

	resolver := func(name string) unsafe.Pointer { return nil }
	env := &fakeEnv{grant: true, handles: ContextHandles{ResolveProc: resolver}}
	b.BindEnvironment(env)

	ready := func() {}
	handles, ok := b.RequestRenderContext(ContextRequest{
		API:            "opengl-core",
		VersionMajor:   3,
		VersionMinor:   3,
		OnContextReady: ready,
	})
	if !ok {
		t.Fatalf("request refused")
	}
	if handles.ResolveProc == nil {
		t.Fatalf("resolver not passed through")
	}
	if env.req.API != "opengl-core" || env.req.VersionMajor != 3 || env.req.VersionMinor != 3 {
		t.Fatalf("request not forwarded: %+v", env.req)
	}
	if env.req.OnContextReady == nil {
		t.Fatalf("context notifications not forwarded")
	}
}

func TestAdoptHostLogger(t *testing.T) {
	rec := &logRecorder{}
	log := diag.NewLogger(filepath.Join(t.TempDir(), "core.log"))
	b := NewBindings(log)

	b.BindEnvironment(&fakeEnv{logFn: rec.record})
	b.AdoptHostLogger()

	if !b.IsBound(CapLog) {
		t.Fatalf("host logger not adopted")
	}
	log.Infof("routed")
	if rec.count("routed") != 1 {
		t.Fatalf("messages not routed to host logger: %v", rec.msgs)
	}
}
