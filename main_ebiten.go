//go:build ebiten

package main

import (
	"encoding/binary"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/pulsequad/pulsequad/constant"
	"github.com/pulsequad/pulsequad/core"
	"github.com/pulsequad/pulsequad/host"
)

// Ebiten demo: presents the software-fallback frames via WritePixels.
type Game struct {
	core  *core.Core
	frame []byte // latest presented frame, 0RGB1555
}

func NewGame(c *core.Core) *Game {
	return &Game{core: c}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return constant.FRAME_WIDTH, constant.FRAME_HEIGHT
}

func (g *Game) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		os.Exit(0)
	}
	g.core.Run()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.frame == nil {
		return
	}
	pixels := make([]uint8, 4*constant.FRAME_WIDTH*constant.FRAME_HEIGHT)
	for i := 0; i < constant.FRAME_WIDTH*constant.FRAME_HEIGHT; i++ {
		v := binary.LittleEndian.Uint16(g.frame[i*2:])
		r, gr, b := unpack1555(v)
		pixels[i*4+0] = r
		pixels[i*4+1] = gr
		pixels[i*4+2] = b
		pixels[i*4+3] = 0xff
	}
	screen.WritePixels(pixels)
}

func runEbiten() error {
	ebiten.SetTPS(constant.FPS)
	ebiten.SetWindowSize(constant.FRAME_WIDTH*2, constant.FRAME_HEIGHT*2)
	ebiten.SetWindowTitle(constant.WINDOW_TITLE)

	c := core.New(core.Options{Software: true})
	game := NewGame(c)

	c.SetEnvironment(&demoEnv{})
	c.SetVideoRefresh(func(pix []byte, width, height, pitch int) {
		game.frame = append(game.frame[:0], pix...)
	})
	c.SetInputState(func(port, device, index, id uint) int16 {
		var key ebiten.Key
		switch id {
		case host.IDButtonA:
			key = ebiten.KeyK
		case host.IDButtonB:
			key = ebiten.KeyJ
		default:
			return 0
		}
		if ebiten.IsKeyPressed(key) {
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

	return ebiten.RunGame(game)
}

func main() {
	err := runEbiten()
	if err != nil {
		log.Fatal(err)
	}
}
