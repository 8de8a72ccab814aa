// Package camera provides a 2D camera system for viewport control.
package camera

import "math"

// Mode selects what drives the camera position.
type Mode uint8

const (
	ModeFree   Mode = iota // panned by the user
	ModeFollow             // eases toward a followed point
)

// Camera controls the viewport into an unbounded world plane.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y float32

	// Zoom level (1.0 = 1:1, 2.0 = 2x magnification)
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Home is where Reset returns the camera
	HomeX, HomeY float32

	// Zoom constraints
	MinZoom, MaxZoom float32

	Mode Mode

	// FollowRate is the fraction of the remaining distance covered per second
	// in ModeFollow (values >= 1/dt snap instantly).
	FollowRate float32
}

// New creates a camera centered on (homeX, homeY) with 1:1 zoom.
func New(viewportW, viewportH, homeX, homeY float32) *Camera {
	return &Camera{
		X:          homeX,
		Y:          homeY,
		Zoom:       1.0,
		ViewportW:  viewportW,
		ViewportH:  viewportH,
		HomeX:      homeX,
		HomeY:      homeY,
		MinZoom:    0.1,
		MaxZoom:    4.0,
		FollowRate: 4.0,
	}
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	sx = c.ViewportW/2 + (wx-c.X)*c.Zoom
	sy = c.ViewportH/2 + (wy-c.Y)*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	wx = c.X + (sx-c.ViewportW/2)/c.Zoom
	wy = c.Y + (sy-c.ViewportH/2)/c.Zoom
	return wx, wy
}

// IsVisible returns true if a circle at (wx, wy) with given radius
// could be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	halfW := c.ViewportW/(2*c.Zoom) + radius
	halfH := c.ViewportH/(2*c.Zoom) + radius
	return absf(wx-c.X) <= halfW && absf(wy-c.Y) <= halfH
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// Pan moves the camera by the given delta in screen pixels and switches it
// to free mode.
func (c *Camera) Pan(dx, dy float32) {
	c.X += dx / c.Zoom
	c.Y += dy / c.Zoom
	c.Mode = ModeFree
}

// Follow eases the camera toward (x, y) when in follow mode.
func (c *Camera) Follow(x, y, dt float32) {
	if c.Mode != ModeFollow {
		return
	}
	t := c.FollowRate * dt
	if t >= 1 {
		c.X, c.Y = x, y
		return
	}
	c.X += (x - c.X) * t
	c.Y += (y - c.Y) * t
}

// ToggleMode switches between free and follow mode.
func (c *Camera) ToggleMode() {
	if c.Mode == ModeFollow {
		c.Mode = ModeFree
	} else {
		c.Mode = ModeFollow
	}
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// ZoomAt multiplies the zoom by factor while keeping the world point under
// the screen position (sx, sy) fixed.
func (c *Camera) ZoomAt(sx, sy, factor float32) {
	wx, wy := c.ScreenToWorld(sx, sy)
	c.ZoomBy(factor)
	nx, ny := c.ScreenToWorld(sx, sy)
	c.X += wx - nx
	c.Y += wy - ny
}

// Reset returns the camera to its home position and zoom.
func (c *Camera) Reset() {
	c.X = c.HomeX
	c.Y = c.HomeY
	c.Zoom = 1.0
}

// VisibleWorldBounds returns the world-coordinate bounds of the visible area.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float32) {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)

	minX = c.X - halfW
	maxX = c.X + halfW
	minY = c.Y - halfH
	maxY = c.Y + halfH
	return
}

// absf returns the absolute value of a float32.
func absf(x float32) float32 {
	return float32(math.Abs(float64(x)))
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
