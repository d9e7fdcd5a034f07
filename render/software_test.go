package render

import (
	"encoding/binary"
	"path/filepath"
	"testing"

	"github.com/pulsequad/pulsequad/constant"
	"github.com/pulsequad/pulsequad/diag"
	"github.com/pulsequad/pulsequad/host"
)

func TestSoftTickFillsAndPresents(t *testing.T) {
	rec := &logRecorder{}
	log := diag.NewLogger(filepath.Join(t.TempDir(), "core.log"))
	log.BindHost(rec.record)
	bindings := host.NewBindings(log)

	var pix []byte
	var w, h, pitch int
	bindings.BindPresent(func(p []byte, width, height, stride int) {
		pix = p
		w, h, pitch = width, height, stride
	})

	s := NewSoftRenderer(log, bindings)
	s.Tick()

	if w != constant.FRAME_WIDTH || h != constant.FRAME_HEIGHT {
		t.Fatalf("frame size: %dx%d", w, h)
	}
	if pitch != constant.FRAME_WIDTH*2 {
		t.Fatalf("pitch: got %d, expected %d", pitch, constant.FRAME_WIDTH*2)
	}
	if len(pix) != constant.FRAME_WIDTH*constant.FRAME_HEIGHT*2 {
		t.Fatalf("buffer length: %d", len(pix))
	}
	for i := 0; i < len(pix); i += 2 {
		if v := binary.LittleEndian.Uint16(pix[i:]); v != constant.SOFT_FILL_0RGB1555 {
			t.Fatalf("pixel %d: got %#04x, expected %#04x", i/2, v, uint16(constant.SOFT_FILL_0RGB1555))
		}
	}
}

func TestSoftTickWithoutPresenter(t *testing.T) {
	rec := &logRecorder{}
	log := diag.NewLogger(filepath.Join(t.TempDir(), "core.log"))
	log.BindHost(rec.record)

	s := NewSoftRenderer(log, host.NewBindings(log))
	s.Tick() // must not panic

	if rec.count("present software frame") != 1 {
		t.Fatalf("unbound presenter not logged: %v", rec.msgs)
	}
}
