package tui

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// halfBlock paints the top half of a cell in the foreground color and
// the bottom half in the background color.
const halfBlock = "▀"

type cellColors struct {
	top, bottom color.RGBA
}

// RenderFrame converts a composed window image to terminal cells.
// The image is sampled every step pixels and each cell shows two sampled
// rows, so one framebuffer pixel maps to half a cell when step equals
// the display scale.
// Groups adjacent cells with the same colors to minimize ANSI escape sequences.
func RenderFrame(img *image.RGBA, step int) string {
	if step < 1 {
		step = 1
	}
	b := img.Bounds()
	cols := (b.Dx() + step - 1) / step
	rows := (b.Dy() + step - 1) / step

	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(cols*((rows+1)/2)*4 + rows)

	sample := func(cx, cy int) color.RGBA {
		if cy >= rows {
			return color.RGBA{}
		}
		return img.RGBAAt(b.Min.X+cx*step, b.Min.Y+cy*step)
	}

	for cy := 0; cy < rows; cy += 2 {
		if cy > 0 {
			sb.WriteRune('\n')
		}

		// Group consecutive cells with the same colors for efficiency
		x := 0
		for x < cols {
			start := cellColors{top: sample(x, cy), bottom: sample(x, cy+1)}
			n := 0
			for x < cols {
				c := cellColors{top: sample(x, cy), bottom: sample(x, cy+1)}
				if c != start {
					break
				}
				n++
				x++
			}
			sb.WriteString(cellStyle(start).Render(strings.Repeat(halfBlock, n)))
		}
	}
	return sb.String()
}

func cellStyle(c cellColors) lipgloss.Style {
	style := lipgloss.NewStyle().Foreground(hexColor(c.top))
	if c.bottom.A != 0 {
		style = style.Background(hexColor(c.bottom))
	}
	return style
}

func hexColor(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}
