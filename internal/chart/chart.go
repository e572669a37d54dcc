// Package chart draws the security and freedom trend of a run.
package chart

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"
)

// Point is one sample on the x axis.
type Point struct {
	Label    string
	Security float64
	Freedom  float64
}

var (
	backgroundColor = color.RGBA{0x0f, 0x17, 0x2a, 0xff}
	gridColor       = color.RGBA{0x33, 0x41, 0x55, 0xff}
	labelColor      = color.RGBA{0x94, 0xa3, 0xb8, 0xff}
	SecurityColor   = color.RGBA{0x10, 0xb9, 0x81, 0xff}
	FreedomColor    = color.RGBA{0x3b, 0x82, 0xf6, 0xff}
)

// labelHeight is the smallest image that gets axis labels; smaller renders
// are meant for the terminal.
const labelHeight = 120

// Render draws both series on a 0..100 axis.
func Render(points []Point, width, height int) image.Image {
	width = max(width, 2)
	height = max(height, 2)
	dc := gg.NewContext(width, height)
	dc.SetColor(backgroundColor)
	dc.Clear()

	labels := height >= labelHeight
	left, right, top, bottom := 1.0, 1.0, 1.0, 1.0
	if labels {
		left, right, top, bottom = 34, 16, 12, 24
	}
	plotW := float64(width) - left - right
	plotH := float64(height) - top - bottom

	yFor := func(v float64) float64 {
		v = clampFloat(v, 0, 100)
		return top + plotH*(1-v/100)
	}
	xFor := func(i int) float64 {
		if len(points) <= 1 {
			return left + plotW/2
		}
		return left + plotW*float64(i)/float64(len(points)-1)
	}

	dc.SetColor(gridColor)
	dc.SetLineWidth(1)
	for _, v := range []float64{0, 50, 100} {
		y := yFor(v)
		dc.DrawLine(left, y, left+plotW, y)
		dc.Stroke()
		if labels {
			dc.SetColor(labelColor)
			dc.DrawStringAnchored(fmt.Sprintf("%.0f", v), left-6, y, 1, 0.5)
			dc.SetColor(gridColor)
		}
	}

	if len(points) == 0 {
		return dc.Image()
	}

	lineWidth := math.Max(1, float64(height)/60)
	drawSeries(dc, points, xFor, yFor, func(p Point) float64 { return p.Freedom }, FreedomColor, lineWidth)
	drawSeries(dc, points, xFor, yFor, func(p Point) float64 { return p.Security }, SecurityColor, lineWidth)

	if labels {
		dc.SetColor(labelColor)
		for i, p := range points {
			dc.DrawStringAnchored(p.Label, xFor(i), float64(height)-bottom/2, 0.5, 0.5)
		}
	}
	return dc.Image()
}

func drawSeries(dc *gg.Context, points []Point, xFor func(int) float64, yFor func(float64) float64, value func(Point) float64, c color.Color, lineWidth float64) {
	dc.SetColor(c)
	dc.SetLineWidth(lineWidth)
	if len(points) == 1 {
		dc.DrawCircle(xFor(0), yFor(value(points[0])), lineWidth*1.5)
		dc.Fill()
		return
	}
	dc.MoveTo(xFor(0), yFor(value(points[0])))
	for i := 1; i < len(points); i++ {
		dc.LineTo(xFor(i), yFor(value(points[i])))
	}
	dc.Stroke()
}

// WritePNG saves img to path, creating parent directories.
func WritePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return gg.SavePNG(path, img)
}

// ANSI renders img with upper half blocks, two pixel rows per text row.
func ANSI(img image.Image) string {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= 0 || height <= 0 {
		return ""
	}

	var out strings.Builder
	for y := 0; y < height; y += 2 {
		for x := 0; x < width; x++ {
			tr, tg, tb, ta := rgba8(img.At(bounds.Min.X+x, bounds.Min.Y+y))
			br, bg, bb, ba := uint8(0), uint8(0), uint8(0), uint8(0)
			if y+1 < height {
				br, bg, bb, ba = rgba8(img.At(bounds.Min.X+x, bounds.Min.Y+y+1))
			}

			if ta < 8 && ba < 8 {
				out.WriteByte(' ')
				continue
			}

			out.WriteString(fmt.Sprintf("\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀", tr, tg, tb, br, bg, bb))
		}
		out.WriteString("\x1b[0m\n")
	}
	return out.String()
}

func rgba8(c color.Color) (r, g, b, a uint8) {
	r16, g16, b16, a16 := c.RGBA()
	return uint8(r16 >> 8), uint8(g16 >> 8), uint8(b16 >> 8), uint8(a16 >> 8)
}

func clampFloat(v, minV, maxV float64) float64 {
	return math.Min(maxV, math.Max(minV, v))
}
