//go:build !glfw && !sdl2 && !ebiten

package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"os"

	"github.com/pulsequad/pulsequad/constant"
	"github.com/pulsequad/pulsequad/core"
)

// Headless demo: drive the software-fallback path for a fixed number of
// ticks and dump the last presented frame to a PNG.
func run() error {
	frames := flag.Int("frames", 60, "number of ticks to run")
	out := flag.String("out", "frame.png", "output image path")
	flag.Parse()

	c := core.New(core.Options{Software: true})
	c.SetEnvironment(&demoEnv{})

	var last []byte
	var lastW, lastH int
	c.SetVideoRefresh(func(pix []byte, width, height, pitch int) {
		last = append(last[:0], pix...)
		lastW, lastH = width, height
	})

	c.Init()
	defer c.Deinit()
	if err := c.LoadGame(); err != nil {
		return err
	}
	defer c.UnloadGame()

	for i := 0; i < *frames; i++ {
		c.Run()
	}
	if last == nil {
		return fmt.Errorf("no frame was presented")
	}

	img := image.NewRGBA(image.Rect(0, 0, lastW, lastH))
	for y := 0; y < lastH; y++ {
		for x := 0; x < lastW; x++ {
			v := binary.LittleEndian.Uint16(last[(y*lastW+x)*2:])
			r, g, b := unpack1555(v)
			img.Set(x, y, color.RGBA{R: r, G: g, B: b, A: 0xff})
		}
	}
	file, err := os.Create(*out)
	if err != nil {
		return err
	}
	defer file.Close()
	if err := png.Encode(file, img); err != nil {
		return err
	}
	fmt.Printf("wrote %dx%d frame to %s\n", constant.FRAME_WIDTH, constant.FRAME_HEIGHT, *out)
	return nil
}

func main() {
	err := run()
	if err != nil {
		log.Fatal(err)
	}
}
