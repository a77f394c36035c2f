// Package capture grabs the screen content behind the frame, which is
// what a third-party capturer sees of the framed region in sharing mode.
package capture

import (
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
	xdraw "golang.org/x/image/draw"

	"github.com/bryanchriswhite/shareframe/internal/config"
	"github.com/bryanchriswhite/shareframe/internal/logger"
)

// Grabber captures screen regions.
type Grabber struct{}

// NewGrabber creates a screen grabber.
func NewGrabber() *Grabber {
	return &Grabber{}
}

// Grab captures the display region described by geom, clamped to the
// virtual screen so a frame dragged half off-screen still yields the
// visible part.
func (g *Grabber) Grab(geom config.Geometry) (*image.RGBA, error) {
	bounds := virtualScreenBounds()
	rect, err := Clamp(image.Rect(geom.X, geom.Y, geom.X+geom.Width, geom.Y+geom.Height), bounds)
	if err != nil {
		return nil, err
	}

	img, err := screenshot.CaptureRect(rect)
	if err != nil {
		return nil, fmt.Errorf("failed to capture region: %w", err)
	}

	logger.WithComponent("capture").Debug().
		Int("x", rect.Min.X).Int("y", rect.Min.Y).
		Int("width", rect.Dx()).Int("height", rect.Dy()).
		Msg("Captured framed region")

	return img, nil
}

// virtualScreenBounds returns the union of all active displays.
func virtualScreenBounds() image.Rectangle {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return image.Rectangle{}
	}
	bounds := screenshot.GetDisplayBounds(0)
	for i := 1; i < n; i++ {
		bounds = bounds.Union(screenshot.GetDisplayBounds(i))
	}
	return bounds
}

// Clamp intersects the requested rect with the screen bounds. An empty
// intersection is an error: there is nothing behind the frame to capture.
func Clamp(rect, bounds image.Rectangle) (image.Rectangle, error) {
	clamped := rect.Intersect(bounds)
	if clamped.Empty() {
		return image.Rectangle{}, fmt.Errorf("region %v is outside the screen %v", rect, bounds)
	}
	return clamped, nil
}

// Scale downsamples img so its longest side is at most maxDim, preserving
// aspect ratio. Images already within the limit are returned unchanged.
func Scale(img *image.RGBA, maxDim int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return img
	}

	if w >= h {
		h = h * maxDim / w
		w = maxDim
	} else {
		w = w * maxDim / h
		h = maxDim
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}
