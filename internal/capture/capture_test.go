package capture

import (
	"image"
	"testing"
)

func TestClampInsideBounds(t *testing.T) {
	bounds := image.Rect(0, 0, 1920, 1080)
	rect := image.Rect(150, 120, 550, 420)

	got, err := Clamp(rect, bounds)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != rect {
		t.Fatalf("got %v, want %v", got, rect)
	}
}

func TestClampPartiallyOffscreen(t *testing.T) {
	bounds := image.Rect(0, 0, 1920, 1080)

	// Frame dragged past the right and bottom edges.
	got, err := Clamp(image.Rect(1800, 1000, 2200, 1400), bounds)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := image.Rect(1800, 1000, 1920, 1080)
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}

	// Frame dragged past the top-left corner.
	got, err = Clamp(image.Rect(-100, -50, 300, 250), bounds)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want = image.Rect(0, 0, 300, 250)
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestClampFullyOffscreen(t *testing.T) {
	bounds := image.Rect(0, 0, 1920, 1080)
	if _, err := Clamp(image.Rect(3000, 3000, 3400, 3300), bounds); err == nil {
		t.Fatal("expected error for region outside the screen")
	}
}

func TestScaleLandscape(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 800, 600))
	got := Scale(img, 200)
	if got.Bounds().Dx() != 200 || got.Bounds().Dy() != 150 {
		t.Fatalf("got %v, want 200x150", got.Bounds())
	}
}

func TestScalePortrait(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 300, 600))
	got := Scale(img, 200)
	if got.Bounds().Dx() != 100 || got.Bounds().Dy() != 200 {
		t.Fatalf("got %v, want 100x200", got.Bounds())
	}
}

func TestScaleNoopWithinLimit(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 80))
	if got := Scale(img, 200); got != img {
		t.Fatal("image within the limit must be returned unchanged")
	}
	if got := Scale(img, 0); got != img {
		t.Fatal("maxDim <= 0 must disable scaling")
	}
}
