// Package glcore adapts the OpenGL 3.3 core profile to the gfx.GL function
// table. It needs cgo and a driver, so the adapter only builds with the
// glfw tag; everything else in the module stays pure Go.
package glcore
