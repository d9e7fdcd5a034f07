//go:build glfw

package main

import (
	"log"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/pulsequad/pulsequad/constant"
	"github.com/pulsequad/pulsequad/core"
	"github.com/pulsequad/pulsequad/gfx/glcore"
	"github.com/pulsequad/pulsequad/host"
)

func init() {
	// GLFW event handling must run on the main OS thread.
	runtime.LockOSThread()
}

func runGLFW() error {
	if err := glfw.Init(); err != nil {
		return err
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	window, err := glfw.CreateWindow(constant.HW_WIDTH, constant.HW_HEIGHT, constant.WINDOW_TITLE, nil, nil)
	if err != nil {
		return err
	}
	defer window.Destroy()
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
		}
	})
	window.MakeContextCurrent()

	c := core.New(core.Options{Backend: glcore.Open})
	env := &demoEnv{
		hwGranted: true,
		// No surface-acquire handle: the core renders into the window's
		// default framebuffer every frame.
		handles: host.ContextHandles{ResolveProc: glfw.GetProcAddress},
	}
	c.SetEnvironment(env)
	c.SetVideoRefresh(func(pix []byte, width, height, pitch int) {
		window.SwapBuffers()
	})
	c.SetInputPoll(glfw.PollEvents)
	c.SetInputState(func(port, device, index, id uint) int16 {
		var key glfw.Key
		switch id {
		case host.IDButtonA:
			key = glfw.KeyK
		case host.IDButtonB:
			key = glfw.KeyJ
		default:
			return 0
		}
		if window.GetKey(key) == glfw.Press {
			return 1
		}
		return 0
	})

	c.Init()
	defer c.Deinit()
	if err := c.LoadGame(); err != nil {
		return err
	}
	defer c.UnloadGame()

	// The window's driver context is current now; tell the core.
	env.notifyContextReady()
	defer env.notifyContextDestroyed()

	synchronizer := newTimeSynchronizer(constant.FPS)
	for !window.ShouldClose() {
		c.Run()
		synchronizer.maySleep()
	}
	return nil
}

func main() {
	err := runGLFW()
	if err != nil {
		log.Fatal(err)
	}
}
