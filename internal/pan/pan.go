// Package pan clamps 2D art panning offsets to the panel's pannable range.
// Offsets never outlive the current skin selection.
package pan

import "math"

// Offset is a requested pan in panel pixels.
type Offset struct {
	X, Y float64
}

// Limits computes the maximum pan extents for a panel showing an image
// scaled to cover it. Degenerate dimensions yield zero extents.
func Limits(panelW, panelH, imageW, imageH float64) (maxX, maxY float64) {
	if panelW <= 0 || panelH <= 0 || imageW <= 0 || imageH <= 0 {
		return 0, 0
	}
	scale := math.Max(panelW/imageW, panelH/imageH)
	renderedW := imageW * scale
	renderedH := imageH * scale
	maxX = math.Max((renderedW-panelW)/2, 0)
	maxY = math.Max((renderedH-panelH)/2, 0)
	return maxX, maxY
}

// Clamp restricts an offset to [-maxX,maxX] × [-maxY,maxY] for the given
// panel and natural image dimensions.
func Clamp(o Offset, panelW, panelH, imageW, imageH float64) Offset {
	maxX, maxY := Limits(panelW, panelH, imageW, imageH)
	return Offset{
		X: clamp(o.X, -maxX, maxX),
		Y: clamp(o.Y, -maxY, maxY),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
