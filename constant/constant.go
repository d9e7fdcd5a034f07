package constant

const (
	CORE_NAME    = "pulsequad"
	CORE_VERSION = "1.0"
	WINDOW_TITLE = "pulsequad"

	FRAME_WIDTH  = 320
	FRAME_HEIGHT = 240
	HW_WIDTH     = 512 // physical render-target size requested from the host
	HW_HEIGHT    = 512

	FPS         = 60.0
	SAMPLE_RATE = 48000.0

	// Per-tick animation increment, ~1/60s.
	TIME_STEP = 0.016

	// Single fill color of the software fallback frame, packed 0RGB1555
	// (mid green, matching the default quad color of the hardware path).
	SOFT_FILL_0RGB1555 = 0x0200

	LOG_FILE = "core.log"
)
