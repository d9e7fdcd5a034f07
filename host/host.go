// Package host is the binding layer for functions supplied by the frontend.
// Every capability is optional: absence is a handled state, and the rest of
// the core reaches host functions only through the invoke helpers here.
package host

import (
	"errors"
	"unsafe"

	"github.com/pulsequad/pulsequad/diag"
)

// Capability names one host-supplied function slot.
type Capability int

const (
	CapLog Capability = iota
	CapPresent
	CapInputPoll
	CapInputState
	CapSurfaceAcquire
	CapProcResolver
	CapEnvironment
)

func (c Capability) String() string {
	switch c {
	case CapLog:
		return "log"
	case CapPresent:
		return "present"
	case CapInputPoll:
		return "input-poll"
	case CapInputState:
		return "input-state"
	case CapSurfaceAcquire:
		return "surface-acquire"
	case CapProcResolver:
		return "proc-resolver"
	case CapEnvironment:
		return "environment"
	}
	return "unknown"
}

// ErrCapabilityMissing is returned by invoke helpers whose capability was
// never bound and that cannot silently no-op.
var ErrCapabilityMissing = errors.New("host: capability not bound")

// PresentFunc hands a finished frame to the host. A nil pix means the frame
// is already in the bound render target (hardware path); otherwise pix holds
// packed pixels with the given byte pitch per row.
type PresentFunc func(pix []byte, width, height, pitch int)

// InputPollFunc refreshes the host's input state for this tick.
type InputPollFunc func()

// InputStateFunc queries one digital input; nonzero means pressed.
type InputStateFunc func(port, device, index, id uint) int16

// SurfaceAcquireFunc yields the handle of the host's current render target.
// Zero is a legal answer meaning "no dedicated target this frame".
type SurfaceAcquireFunc func() uintptr

// ProcResolverFunc resolves one GPU entry point by name.
type ProcResolverFunc func(name string) unsafe.Pointer

// Input device and button identities the renderer queries.
const (
	DeviceJoypad uint = 1
	IDButtonB    uint = 0
	IDButtonA    uint = 8
)

// ContextRequest asks the host for a hardware render context. The two
// notification callbacks are the only legitimate triggers for creating and
// destroying GPU resources; the host invokes them at its discretion.
type ContextRequest struct {
	API                string
	VersionMajor       int
	VersionMinor       int
	OnContextReady     func()
	OnContextDestroyed func()
}

// ContextHandles is what the host answers a granted ContextRequest with.
// Either handle may be nil when the host cannot provide it.
type ContextHandles struct {
	AcquireSurface SurfaceAcquireFunc
	ResolveProc    ProcResolverFunc
}

// Environment is the host's negotiation surface, consumed during setup.
type Environment interface {
	// SupportsNoContent asks the host to run the core without loaded content.
	SupportsNoContent() bool
	// Logger yields the host's structured logging sink, if it has one.
	Logger() (diag.LogFunc, bool)
	// SetRenderContext requests a hardware render context.
	SetRenderContext(req ContextRequest) (ContextHandles, bool)
}

// Bindings is the capability set. It is single-owner state: only the host's
// synchronous calls into the core ever touch it.
type Bindings struct {
	log *diag.Logger

	env            Environment
	present        PresentFunc
	inputPoll      InputPollFunc
	inputState     InputStateFunc
	acquireSurface SurfaceAcquireFunc
	resolveProc    ProcResolverFunc

	contentlessAsked   bool
	contentlessGranted bool
}

func NewBindings(log *diag.Logger) *Bindings {
	return &Bindings{log: log}
}

func (b *Bindings) rejectNil(c Capability) {
	b.log.Errorf("bind %s: nil callback ignored", c)
}

// BindEnvironment records the negotiation capability and performs the
// one-shot content-less negotiation. Re-binding never re-requests a grant
// that was already obtained.
func (b *Bindings) BindEnvironment(env Environment) {
	if env == nil {
		b.rejectNil(CapEnvironment)
		return
	}
	b.env = env
	b.NegotiateContentless()
}

func (b *Bindings) BindPresent(fn PresentFunc) {
	if fn == nil {
		b.rejectNil(CapPresent)
		return
	}
	b.present = fn
	b.log.Debugf("present callback set")
}

func (b *Bindings) BindInputPoll(fn InputPollFunc) {
	if fn == nil {
		b.rejectNil(CapInputPoll)
		return
	}
	b.inputPoll = fn
	b.log.Debugf("input poll callback set")
}

func (b *Bindings) BindInputState(fn InputStateFunc) {
	if fn == nil {
		b.rejectNil(CapInputState)
		return
	}
	b.inputState = fn
	b.log.Debugf("input state callback set")
}

func (b *Bindings) BindSurfaceAcquire(fn SurfaceAcquireFunc) {
	if fn == nil {
		b.rejectNil(CapSurfaceAcquire)
		return
	}
	b.acquireSurface = fn
	b.log.Debugf("surface acquire callback set")
}

func (b *Bindings) BindProcResolver(fn ProcResolverFunc) {
	if fn == nil {
		b.rejectNil(CapProcResolver)
		return
	}
	b.resolveProc = fn
	b.log.Debugf("proc resolver callback set")
}

func (b *Bindings) IsBound(c Capability) bool {
	switch c {
	case CapLog:
		return b.log.HostBound()
	case CapPresent:
		return b.present != nil
	case CapInputPoll:
		return b.inputPoll != nil
	case CapInputState:
		return b.inputState != nil
	case CapSurfaceAcquire:
		return b.acquireSurface != nil
	case CapProcResolver:
		return b.resolveProc != nil
	case CapEnvironment:
		return b.env != nil
	}
	return false
}

// NegotiateContentless requests "operate without loaded content" from the
// host. The request is attempted exactly once per Bindings; failure is
// logged and operation continues degraded.
func (b *Bindings) NegotiateContentless() {
	if b.contentlessAsked || b.env == nil {
		return
	}
	b.contentlessAsked = true
	b.contentlessGranted = b.env.SupportsNoContent()
	if b.contentlessGranted {
		b.log.Debugf("content-less support enabled")
	} else {
		b.log.Errorf("failed to negotiate content-less support")
	}
}

// ContentlessGranted reports the outcome of the one-shot negotiation.
func (b *Bindings) ContentlessGranted() bool { return b.contentlessGranted }

// AdoptHostLogger asks the environment for the host's structured logger and
// routes diagnostics through it from then on.
func (b *Bindings) AdoptHostLogger() {
	if b.env == nil {
		return
	}
	if fn, ok := b.env.Logger(); ok {
		b.log.BindHost(fn)
	}
}

// RequestRenderContext forwards a hardware-context request to the host.
func (b *Bindings) RequestRenderContext(req ContextRequest) (ContextHandles, bool) {
	if b.env == nil {
		b.log.Errorf("request render context: %v", ErrCapabilityMissing)
		return ContextHandles{}, false
	}
	return b.env.SetRenderContext(req)
}

// Present hands the frame to the host's presenter.
func (b *Bindings) Present(pix []byte, width, height, pitch int) error {
	if b.present == nil {
		return ErrCapabilityMissing
	}
	b.present(pix, width, height, pitch)
	return nil
}

// PollInput refreshes input state; a no-op when the capability is unbound.
func (b *Bindings) PollInput() {
	if b.inputPoll != nil {
		b.inputPoll()
	}
}

// InputState queries one digital input; released when unbound.
func (b *Bindings) InputState(port, device, index, id uint) int16 {
	if b.inputState == nil {
		return 0
	}
	return b.inputState(port, device, index, id)
}

// AcquireSurface invokes the host's surface-acquire capability. The second
// return is false when the capability is unbound.
func (b *Bindings) AcquireSurface() (uintptr, bool) {
	if b.acquireSurface == nil {
		return 0, false
	}
	return b.acquireSurface(), true
}

// ProcResolver exposes the resolver for context creation.
func (b *Bindings) ProcResolver() ProcResolverFunc { return b.resolveProc }
