package main

import (
	"time"

	"github.com/pulsequad/pulsequad/diag"
	"github.com/pulsequad/pulsequad/host"
)

// demoEnv is the negotiation surface the standalone demos present to the
// core. It always grants content-less operation, has no structured logger
// (so the core's file/console fallback is exercised), and hands back
// whatever context handles the demo configured.
type demoEnv struct {
	hwGranted bool
	handles   host.ContextHandles

	onReady     func()
	onDestroyed func()
}

func (e *demoEnv) SupportsNoContent() bool { return true }

func (e *demoEnv) Logger() (diag.LogFunc, bool) { return nil, false }

func (e *demoEnv) SetRenderContext(req host.ContextRequest) (host.ContextHandles, bool) {
	if !e.hwGranted {
		return host.ContextHandles{}, false
	}
	e.onReady = req.OnContextReady
	e.onDestroyed = req.OnContextDestroyed
	return e.handles, true
}

// notifyContextReady fires the registered "context became ready" callback;
// the demo host calls it once its window and driver context are live.
func (e *demoEnv) notifyContextReady() {
	if e.onReady != nil {
		e.onReady()
	}
}

func (e *demoEnv) notifyContextDestroyed() {
	if e.onDestroyed != nil {
		e.onDestroyed()
	}
}

// unpack1555 expands one 0RGB1555 pixel to 8-bit channels.
func unpack1555(v uint16) (r, g, b uint8) {
	r = uint8((v>>10)&0x1f) << 3
	g = uint8((v>>5)&0x1f) << 3
	b = uint8(v&0x1f) << 3
	return
}

type timeSynchronizer struct {
	prevTime   time.Time
	usPerFrame int
}

func newTimeSynchronizer(targetFPS int) *timeSynchronizer {
	return &timeSynchronizer{
		prevTime:   time.Now(),
		usPerFrame: 1000000 / targetFPS,
	}
}

func (ts *timeSynchronizer) maySleep() {
	curTime := time.Now()
	dur := curTime.Sub(ts.prevTime)
	diff := ts.usPerFrame - int(dur.Microseconds())
	if diff > 0 {
		time.Sleep(time.Duration(diff) * time.Microsecond)
	}
	ts.prevTime = curTime
}
