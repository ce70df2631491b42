package common

import (
	"errors"
	"fmt"
	"math"
)

const (
	// FrameMillis is the wall-clock length of one simulation tick.
	FrameMillis = 1000.0 / 60.0

	// ForceScale converts scene force units (per ms²) into engine units (per tick).
	ForceScale = FrameMillis * FrameMillis

	DefaultGravityScale = 0.001
)

var ErrNegativeExtent = errors.New("units: negative extent")

// ToAbsolute maps a percentage of an axis extent onto engine units.
func ToAbsolute(percent, extent float64) (float64, error) {
	if extent < 0 || math.IsNaN(extent) {
		return 0, fmt.Errorf("%w: %v", ErrNegativeExtent, extent)
	}
	return percent / 100 * extent, nil
}

// Viewport holds the canvas extents scene percentages are resolved against.
type Viewport struct {
	Width      float64
	Height     float64
	PixelRatio float64
}

func NewViewport(width, height float64) (Viewport, error) {
	if width < 0 || height < 0 || math.IsNaN(width) || math.IsNaN(height) {
		return Viewport{}, fmt.Errorf("%w: %vx%v", ErrNegativeExtent, width, height)
	}
	return Viewport{Width: width, Height: height, PixelRatio: 1}, nil
}

// Device returns the extents in device pixels.
func (v Viewport) Device() (float64, float64) {
	ratio := v.PixelRatio
	if !(ratio > 0) {
		ratio = 1
	}
	return v.Width * ratio, v.Height * ratio
}

// MinDim is the smaller of the two extents; radius-like fields resolve against it.
func (v Viewport) MinDim() float64 {
	return math.Min(v.Width, v.Height)
}

func (v Viewport) X(percent float64) float64 {
	return percent / 100 * v.Width
}

func (v Viewport) Y(percent float64) float64 {
	return percent / 100 * v.Height
}

func (v Viewport) Min(percent float64) float64 {
	return percent / 100 * v.MinDim()
}
