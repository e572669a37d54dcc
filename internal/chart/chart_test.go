package chart

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func hasColor(img image.Image, want color.RGBA, tolerance int) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := rgba8(img.At(x, y))
			if near(r, want.R, tolerance) && near(g, want.G, tolerance) && near(bl, want.B, tolerance) {
				return true
			}
		}
	}
	return false
}

func near(a, b uint8, tolerance int) bool {
	d := int(a) - int(b)
	return d >= -tolerance && d <= tolerance
}

func samplePoints() []Point {
	return []Point{
		{Label: "Crisis 0", Security: 50, Freedom: 70},
		{Label: "Crisis 1", Security: 80, Freedom: 40},
		{Label: "Final", Security: 65, Freedom: 55},
	}
}

func TestRender(t *testing.T) {
	img := Render(samplePoints(), 320, 160)
	if b := img.Bounds(); b.Dx() != 320 || b.Dy() != 160 {
		t.Fatalf("Expected 320x160, got %v", b)
	}
	if !hasColor(img, SecurityColor, 12) {
		t.Errorf("Expected the security line to be drawn")
	}
	if !hasColor(img, FreedomColor, 12) {
		t.Errorf("Expected the freedom line to be drawn")
	}
}

func TestRenderEdgeCases(t *testing.T) {
	empty := Render(nil, 40, 20)
	if hasColor(empty, SecurityColor, 12) {
		t.Errorf("Did not expect series in an empty chart")
	}

	single := Render([]Point{{Label: "Final", Security: 50, Freedom: 50}}, 40, 20)
	if !hasColor(single, SecurityColor, 30) {
		t.Errorf("Expected a marker for a single point")
	}

	tiny := Render(samplePoints(), 0, -5)
	if b := tiny.Bounds(); b.Dx() < 2 || b.Dy() < 2 {
		t.Errorf("Expected a minimum size, got %v", b)
	}
}

func TestWritePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "trend.png")
	if err := WritePNG(path, Render(samplePoints(), 200, 120)); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 120 {
		t.Errorf("Unexpected size %v", b)
	}
}

func TestANSI(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 3))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	img.Set(0, 1, color.RGBA{0, 0, 255, 255})

	out := ANSI(img)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 text rows for 3 pixel rows, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "\x1b[38;2;255;0;0m\x1b[48;2;0;0;255m▀") {
		t.Errorf("Unexpected first cell %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], "   \x1b[0m") {
		t.Errorf("Expected transparent cells as spaces, got %q", lines[1])
	}

	if ANSI(image.NewRGBA(image.Rect(0, 0, 0, 0))) != "" {
		t.Errorf("Expected empty output for an empty image")
	}
}
