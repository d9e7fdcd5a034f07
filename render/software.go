package render

import (
	"encoding/binary"

	"github.com/pulsequad/pulsequad/constant"
	"github.com/pulsequad/pulsequad/diag"
	"github.com/pulsequad/pulsequad/host"
)

// SoftRenderer is the fallback frame path used when no graphics surface is
// available: a fixed-size 0RGB1555 buffer filled with one constant color,
// presented with an explicit byte stride. No GPU state is touched.
type SoftRenderer struct {
	log  *diag.Logger
	host *host.Bindings
	pix  []byte
}

func NewSoftRenderer(log *diag.Logger, bindings *host.Bindings) *SoftRenderer {
	return &SoftRenderer{
		log:  log,
		host: bindings,
		pix:  make([]byte, constant.FRAME_WIDTH*constant.FRAME_HEIGHT*2),
	}
}

// Tick fills and presents one software frame.
func (s *SoftRenderer) Tick() {
	for i := 0; i < len(s.pix); i += 2 {
		binary.LittleEndian.PutUint16(s.pix[i:], constant.SOFT_FILL_0RGB1555)
	}
	err := s.host.Present(s.pix, constant.FRAME_WIDTH, constant.FRAME_HEIGHT, constant.FRAME_WIDTH*2)
	if err != nil {
		s.log.Errorf("present software frame: %v", err)
	}
}
