package main

import (
	"errors"
	"fmt"
	"image/color"
	"os"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

// ErrNothingToExport is returned when the map pane shows nothing.
var ErrNothingToExport = errors.New("nothing to export")

// Character cell size in exported images.
const (
	charWidth  = 8.0
	charHeight = 16.0
)

var pngColors = map[cellClass]color.Color{
	cellPlain:     color.Black,
	cellMarker:    color.RGBA{R: 0xd7, G: 0x87, B: 0x00, A: 0xff},
	cellCollected: color.RGBA{R: 0x9e, G: 0x9e, B: 0x9e, A: 0xff},
	cellLabel:     color.RGBA{R: 0x00, G: 0x5f, B: 0x87, A: 0xff},
	cellLink:      color.RGBA{R: 0x00, G: 0x5f, B: 0xd7, A: 0xff},
	cellSubregion: color.RGBA{R: 0xbc, G: 0xbc, B: 0xbc, A: 0xff},
	cellSelection: color.RGBA{R: 0xd7, G: 0x00, B: 0x87, A: 0xff},
	cellDraft:     color.RGBA{R: 0xff, G: 0x87, B: 0x00, A: 0xff},
}

// exportVisualTXT writes the map pane as plain text, exactly as shown but
// without the cursor.
func (m *model) exportVisualTXT(filename string) error {
	g := m.renderMap(false)
	if g.empty() {
		return ErrNothingToExport
	}
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	for _, line := range g.lines(false) {
		if _, err := fmt.Fprintln(file, line); err != nil {
			return err
		}
	}
	return nil
}

// exportPNG draws the used part of the map pane into an image.
func (m *model) exportPNG(filename string) error {
	g := m.renderMap(false)

	minX, minY, maxX, maxY := g.w, g.h, -1, -1
	for y := range g.cells {
		for x, r := range g.cells[y] {
			if r == ' ' || r == wideTail {
				continue
			}
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
		}
	}
	if maxX < 0 {
		return ErrNothingToExport
	}

	padding := 2
	minX -= padding
	minY -= padding
	maxX += padding + 1
	maxY += padding + 1

	imageWidth := int(float64(maxX-minX) * charWidth)
	imageHeight := int(float64(maxY-minY) * charHeight)

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(color.White)
	dc.Clear()

	ttfFont, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return fmt.Errorf("failed to parse font: %w", err)
	}
	face := truetype.NewFace(ttfFont, &truetype.Options{
		Size:    12,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	defer face.Close()
	dc.SetFontFace(face)

	for y := range g.cells {
		for x, r := range g.cells[y] {
			if r == ' ' || r == wideTail {
				continue
			}
			c, ok := pngColors[g.classes[y][x]]
			if !ok {
				c = color.Black
			}
			dc.SetColor(c)
			px := float64(x-minX) * charWidth
			py := float64(y-minY+1) * charHeight
			dc.DrawString(string(r), px, py-charHeight/4)
		}
	}

	return dc.SavePNG(filename)
}
