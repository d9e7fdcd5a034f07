//go:build sdl2

package main

import (
	"encoding/binary"
	"log"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/pulsequad/pulsequad/constant"
	"github.com/pulsequad/pulsequad/core"
	"github.com/pulsequad/pulsequad/host"
)

// SDL2 demo: presents the software-fallback frames through a streaming
// texture.
func runSDL2() error {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return err
	}
	defer sdl.Quit()

	window, err := sdl.CreateWindow(
		constant.WINDOW_TITLE,
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		constant.FRAME_WIDTH*2,
		constant.FRAME_HEIGHT*2,
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		return err
	}
	defer window.Destroy()

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		return err
	}
	defer renderer.Destroy()

	texture, err := renderer.CreateTexture(
		sdl.PIXELFORMAT_ARGB8888,
		sdl.TEXTUREACCESS_STREAMING,
		constant.FRAME_WIDTH,
		constant.FRAME_HEIGHT,
	)
	if err != nil {
		return err
	}
	defer texture.Destroy()

	c := core.New(core.Options{Software: true})
	c.SetEnvironment(&demoEnv{})
	c.SetVideoRefresh(func(pix []byte, width, height, pitch int) {
		pixels, _, err := texture.Lock(nil)
		if err != nil {
			c.Logger().Errorf("lock texture: %v", err)
			return
		}
		for i := 0; i < width*height; i++ {
			v := binary.LittleEndian.Uint16(pix[i*2:])
			r, g, b := unpack1555(v)
			pixels[i*4+0] = b
			pixels[i*4+1] = g
			pixels[i*4+2] = r
			pixels[i*4+3] = 0xff
		}
		texture.Unlock()
		renderer.Clear()
		renderer.Copy(texture, nil, nil)
		renderer.Present()
	})
	c.SetInputPoll(sdl.PumpEvents)
	c.SetInputState(func(port, device, index, id uint) int16 {
		keys := sdl.GetKeyboardState()
		var scancode sdl.Scancode
		switch id {
		case host.IDButtonA:
			scancode = sdl.SCANCODE_K
		case host.IDButtonB:
			scancode = sdl.SCANCODE_J
		default:
			return 0
		}
		return int16(keys[scancode])
	})

	c.Init()
	defer c.Deinit()
	if err := c.LoadGame(); err != nil {
		return err
	}
	defer c.UnloadGame()

	synchronizer := newTimeSynchronizer(constant.FPS)
	for {
		escape := false
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch ev := event.(type) {
			case *sdl.QuitEvent:
				escape = true
			case *sdl.KeyboardEvent:
				if ev.Keysym.Sym == sdl.K_ESCAPE {
					escape = true
				}
			}
		}
		if escape {
			break
		}
		c.Run()
		synchronizer.maySleep()
	}
	return nil
}

func main() {
	err := runSDL2()
	if err != nil {
		log.Fatal(err)
	}
}
