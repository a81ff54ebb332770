package gesture

import (
	"math"

	"github.com/klokku/availshare/pkg/timeutil"
)

// Geometry maps client coordinates of one day's grid to minutes of the day.
type Geometry struct {
	// GridTop is the client Y of the grid's top edge.
	GridTop float64
	// ScrollTop is the vertical scroll offset of the grid.
	ScrollTop float64
	// PixelsPerMinute defaults to 1 when zero.
	PixelsPerMinute float64
	// HiddenMinutesAbove is the number of minutes collapsed above the visible top.
	HiddenMinutesAbove int
}

func (g Geometry) scale() float64 {
	if g.PixelsPerMinute <= 0 {
		return 1
	}
	return g.PixelsPerMinute
}

// MinutesAt returns the grid position under clientY, snapped to the 15-minute grid and
// never past the last minute of the day.
func (g Geometry) MinutesAt(clientY float64) int {
	offset := int(math.Round((clientY - g.GridTop + g.ScrollTop) / g.scale()))
	minutes := timeutil.ClampMinutes(offset + g.HiddenMinutesAbove)
	return min(timeutil.LastMinute, timeutil.Snap(minutes))
}

// SnappedDelta converts a vertical pixel displacement to a grid-aligned minute delta.
func (g Geometry) SnappedDelta(dy float64) int {
	return timeutil.Snap(int(math.Round(dy / g.scale())))
}
