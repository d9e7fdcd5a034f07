// Package core ties the host bindings, graphics context and frame renderer
// into the single owned instance the host calls into. Every entry point is
// synchronous and single-threaded: the host drives the core once per tick
// and between lifecycle events.
package core

import (
	"fmt"

	"github.com/pulsequad/pulsequad/constant"
	"github.com/pulsequad/pulsequad/diag"
	"github.com/pulsequad/pulsequad/gfx"
	"github.com/pulsequad/pulsequad/host"
	"github.com/pulsequad/pulsequad/render"
)

const apiVersion = 1

// Region of the core; fixed.
type Region int

const RegionNTSC Region = 0

// SystemInfo describes the core's identity to the host.
type SystemInfo struct {
	Name            string
	Version         string
	ValidExtensions string
	NeedFullPath    bool
}

// AVInfo describes frame geometry and timing to the host.
type AVInfo struct {
	BaseWidth, BaseHeight int
	MaxWidth, MaxHeight   int
	AspectRatio           float64
	FPS                   float64
	SampleRate            float64
}

// Options configure a core at construction time. Software selects the
// fallback frame path; Backend opens the GPU function table for the
// hardware path.
type Options struct {
	Software bool
	LogPath  string
	Backend  gfx.BackendOpen
}

// Core is the plugin instance. No ambient globals: everything the entry
// points touch hangs off this struct.
type Core struct {
	log  *diag.Logger
	host *host.Bindings
	ctx  *gfx.Context
	hw   *render.Renderer
	soft *render.SoftRenderer

	software    bool
	initialized bool
	loaded      bool
}

func New(opts Options) *Core {
	path := opts.LogPath
	if path == "" {
		path = constant.LOG_FILE
	}
	log := diag.NewLogger(path)
	bindings := host.NewBindings(log)
	ctx := gfx.NewContext(log, opts.Backend)
	return &Core{
		log:      log,
		host:     bindings,
		ctx:      ctx,
		hw:       render.NewRenderer(log, bindings, ctx),
		soft:     render.NewSoftRenderer(log, bindings),
		software: opts.Software,
	}
}

// Logger exposes the diagnostics sink (demo hosts route through it too).
func (c *Core) Logger() *diag.Logger { return c.log }

// SetEnvironment records the negotiation capability and performs the
// one-shot content-less negotiation.
func (c *Core) SetEnvironment(env host.Environment) {
	c.host.BindEnvironment(env)
}

// SetVideoRefresh records the host presenter.
func (c *Core) SetVideoRefresh(fn host.PresentFunc) {
	c.host.BindPresent(fn)
}

// SetInputPoll records the host input-poll capability.
func (c *Core) SetInputPoll(fn host.InputPollFunc) {
	c.host.BindInputPoll(fn)
}

// SetInputState records the host input-state capability.
func (c *Core) SetInputState(fn host.InputStateFunc) {
	c.host.BindInputState(fn)
}

// SetAudioSample and SetAudioSampleBatch exist for the host boundary and do
// nothing; the core produces no audio.
func (c *Core) SetAudioSample(fn func(left, right int16)) {}
func (c *Core) SetAudioSampleBatch(fn func([]int16) int)  {}

func (c *Core) SetControllerPortDevice(port, device uint) {
	c.log.Debugf("controller port device set: port=%d, device=%d", port, device)
}

// Init brings the core up and adopts the host's structured logger when the
// environment offers one.
func (c *Core) Init() {
	c.host.AdoptHostLogger()
	c.initialized = true
	c.log.Debugf("%s core initialized", constant.CORE_NAME)
}

// Deinit releases the graphics context and the diagnostics sink.
func (c *Core) Deinit() {
	c.ctx.Destroy()
	c.initialized = false
	c.log.Debugf("core deinitialized")
	c.log.Close()
}

// LoadGame prepares the render path. Content is never required; hardware
// mode requests a render context from the host and registers the context
// notifications, which are the sole triggers for GPU resource lifecycle.
func (c *Core) LoadGame() error {
	if !c.host.IsBound(host.CapEnvironment) {
		c.log.Errorf("load: environment capability not bound")
		return host.ErrCapabilityMissing
	}
	if c.software {
		c.loaded = true
		c.log.Debugf("loaded (content-less, software path)")
		return nil
	}

	req := host.ContextRequest{
		API:                "opengl-core",
		VersionMajor:       3,
		VersionMinor:       3,
		OnContextReady:     c.onContextReady,
		OnContextDestroyed: c.onContextDestroyed,
	}
	handles, ok := c.host.RequestRenderContext(req)
	if !ok {
		c.log.Errorf("failed to obtain a hardware render context")
		return fmt.Errorf("load: render context refused by host")
	}
	if handles.ResolveProc == nil {
		c.log.Errorf("host provided no proc-address resolver")
		return fmt.Errorf("load: %w", gfx.ErrNoProcResolver)
	}
	c.host.BindProcResolver(handles.ResolveProc)
	if handles.AcquireSurface == nil {
		c.log.Warnf("host provided no surface-acquire callback, will use default render target")
	} else {
		c.host.BindSurfaceAcquire(handles.AcquireSurface)
	}

	c.loaded = true
	c.log.Debugf("loaded (content-less)")
	return nil
}

// LoadGameSpecial exists for the host boundary; no special game types are
// supported.
func (c *Core) LoadGameSpecial(kind uint) bool {
	c.log.Errorf("special game type %d not supported", kind)
	return false
}

// UnloadGame drops the loaded flag; resources are torn down by the host's
// context-destroyed notification or Deinit.
func (c *Core) UnloadGame() {
	c.loaded = false
	c.log.Debugf("unloaded")
}

// Reset clears the persistent default-target fallback.
func (c *Core) Reset() {
	c.hw.Reset()
	c.log.Debugf("core reset")
}

// onContextReady is the host's "context became ready" notification.
func (c *Core) onContextReady() {
	if err := c.ctx.Create(c.host.ProcResolver()); err != nil {
		c.log.Errorf("context create: %v", err)
	}
}

// onContextDestroyed is the host's "context destroyed" notification.
func (c *Core) onContextDestroyed() {
	c.ctx.Destroy()
}

// Run renders one frame. Missing preconditions log and end the tick early;
// they never propagate to the host.
func (c *Core) Run() {
	if !c.initialized {
		c.log.Errorf("core not initialized")
		return
	}
	if !c.loaded {
		c.log.Errorf("no game loaded")
		return
	}
	if c.software {
		c.soft.Tick()
		return
	}
	if !c.ctx.Ready() {
		c.log.Errorf("graphics context not initialized")
		return
	}
	c.hw.Tick()
}

func (c *Core) SystemInfo() SystemInfo {
	return SystemInfo{
		Name:    constant.CORE_NAME,
		Version: constant.CORE_VERSION,
	}
}

func (c *Core) AVInfo() AVInfo {
	return AVInfo{
		BaseWidth:   constant.FRAME_WIDTH,
		BaseHeight:  constant.FRAME_HEIGHT,
		MaxWidth:    constant.HW_WIDTH,
		MaxHeight:   constant.HW_HEIGHT,
		AspectRatio: float64(constant.FRAME_WIDTH) / float64(constant.FRAME_HEIGHT),
		FPS:         constant.FPS,
		SampleRate:  constant.SAMPLE_RATE,
	}
}

func (c *Core) Region() Region { return RegionNTSC }

func (c *Core) APIVersion() int { return apiVersion }

// Persistent-state, cheat and memory hooks exist for the host boundary and
// report absence.
func (c *Core) SerializeSize() int          { return 0 }
func (c *Core) Serialize(buf []byte) bool   { return false }
func (c *Core) Unserialize(buf []byte) bool { return false }

func (c *Core) CheatReset()                                    {}
func (c *Core) CheatSet(index uint, enabled bool, code string) {}

func (c *Core) MemoryData(id uint) []byte { return nil }
func (c *Core) MemorySize(id uint) int    { return 0 }
