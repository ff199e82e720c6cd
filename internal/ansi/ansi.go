// Package ansi renders card images as half-block terminal art.
package ansi

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/nfnt/resize"
)

// RenderFile decodes the image at path and renders it cols wide and rows tall.
func RenderFile(path string, cols, rows int) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}
	return Render(img, cols, rows), nil
}

// Render draws img with one '▀' per cell: the top two pixels set the
// foreground, the bottom two the background.
func Render(img image.Image, cols, rows int) string {
	scaled := resize.Resize(uint(cols*2), uint(rows*2), img, resize.Lanczos3)

	var b strings.Builder
	for y := 0; y < rows*2; y += 2 {
		for x := 0; x < cols*2; x += 2 {
			top := average(pixel(scaled, x, y), pixel(scaled, x+1, y))
			bottom := average(pixel(scaled, x, y+1), pixel(scaled, x+1, y+1))
			b.WriteString(cell('▀', top, bottom))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func pixel(img image.Image, x, y int) colorful.Color {
	if !(image.Point{X: x, Y: y}).In(img.Bounds()) {
		return colorful.Color{}
	}
	c, _ := colorful.MakeColor(img.At(x, y))
	return c
}

func average(colors ...colorful.Color) colorful.Color {
	var r, g, b float64
	for _, c := range colors {
		r += c.R
		g += c.G
		b += c.B
	}
	n := float64(len(colors))
	return colorful.Color{R: r / n, G: g / n, B: b / n}
}

func cell(ch rune, fg, bg colorful.Color) string {
	f := toRGBA(fg)
	k := toRGBA(bg)
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm%c\x1b[0m",
		f.R, f.G, f.B, k.R, k.G, k.B, ch)
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// Strip removes ANSI escape sequences from s.
func Strip(s string) string {
	var b strings.Builder
	inEscape := false
	for _, c := range s {
		switch {
		case inEscape:
			if c == 'm' {
				inEscape = false
			}
		case c == '\033':
			inEscape = true
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}

// Width is the visible width of the widest line in s.
func Width(s string) int {
	w := 0
	for _, line := range strings.Split(s, "\n") {
		w = max(w, len([]rune(Strip(line))))
	}
	return w
}

// Wrap breaks text into lines no wider than width.
func Wrap(text string, width int) []string {
	if width < 10 {
		width = 40
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	current := ""
	for _, word := range words {
		switch {
		case current == "":
			current = word
		case len(current)+1+len(word) <= width:
			current += " " + word
		default:
			lines = append(lines, current)
			current = word
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}
