// Package chart renders report series as simple line and bar images for
// PNG download. It intentionally covers only what the dashboard tabs
// need: one series, a title, axis lines, and value scaling.
package chart

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"salespulse/pkg/contracts/domain"
)

const (
	width      = 800
	height     = 450
	marginLeft = 70
	marginTop  = 50
	marginBot  = 60
	marginRight = 30
)

var (
	background = color.RGBA{255, 255, 255, 255}
	axisColor  = color.RGBA{60, 60, 60, 255}
	lineColor  = color.RGBA{31, 119, 180, 255}
	barColor   = color.RGBA{31, 119, 180, 255}
	textColor  = color.RGBA{20, 20, 20, 255}
)

// Line renders the series as a line chart with point markers.
func Line(title string, points []domain.SeriesPoint) image.Image {
	img := newCanvas(title, points)
	if len(points) == 0 {
		return img
	}

	maxV := maxValue(points)
	plotW := width - marginLeft - marginRight
	plotH := height - marginTop - marginBot

	var prevX, prevY int
	for i, p := range points {
		x := marginLeft + plotW*i/max(len(points)-1, 1)
		y := marginTop + plotH - scale(p.Value, maxV, plotH)
		if i > 0 {
			drawSegment(img, prevX, prevY, x, y, lineColor)
		}
		drawMarker(img, x, y, lineColor)
		drawLabel(img, x-len(p.Label)*3, height-marginBot+16, p.Label)
		prevX, prevY = x, y
	}
	return img
}

// Bar renders the series as a vertical bar chart.
func Bar(title string, points []domain.SeriesPoint) image.Image {
	img := newCanvas(title, points)
	if len(points) == 0 {
		return img
	}

	maxV := maxValue(points)
	plotW := width - marginLeft - marginRight
	plotH := height - marginTop - marginBot
	slot := plotW / len(points)
	barW := slot * 3 / 4

	for i, p := range points {
		h := scale(p.Value, maxV, plotH)
		x0 := marginLeft + i*slot + (slot-barW)/2
		y0 := marginTop + plotH - h
		fillRect(img, x0, y0, x0+barW, marginTop+plotH, barColor)
		drawLabel(img, x0+barW/2-len(p.Label)*3, height-marginBot+16, truncate(p.Label, 12))
	}
	return img
}

func newCanvas(title string, points []domain.SeriesPoint) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{background}, image.Point{}, draw.Src)

	// Axes
	for x := marginLeft; x <= width-marginRight; x++ {
		img.Set(x, height-marginBot, axisColor)
	}
	for y := marginTop; y <= height-marginBot; y++ {
		img.Set(marginLeft, y, axisColor)
	}

	drawLabel(img, marginLeft, marginTop-20, title)
	return img
}

func maxValue(points []domain.SeriesPoint) float64 {
	maxV := 0.0
	for _, p := range points {
		if p.Value > maxV {
			maxV = p.Value
		}
	}
	return maxV
}

func scale(v, maxV float64, plotH int) int {
	if maxV <= 0 || v <= 0 {
		return 0
	}
	return int(v / maxV * float64(plotH))
}

// drawSegment draws a line between two points by stepping along the
// longer axis.
func drawSegment(img *image.RGBA, x0, y0, x1, y1 int, c color.Color) {
	dx, dy := x1-x0, y1-y0
	steps := max(abs(dx), abs(dy))
	if steps == 0 {
		img.Set(x0, y0, c)
		return
	}
	for i := 0; i <= steps; i++ {
		img.Set(x0+dx*i/steps, y0+dy*i/steps, c)
	}
}

func drawMarker(img *image.RGBA, x, y int, c color.Color) {
	fillRect(img, x-2, y-2, x+3, y+3, c)
}

func fillRect(img *image.RGBA, x0, y0, x1, y1 int, c color.Color) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			img.Set(x, y, c)
		}
	}
}

func drawLabel(img *image.RGBA, x, y int, text string) {
	d := font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{textColor},
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
