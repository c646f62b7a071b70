package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Display is a screen that can present what was drawn to it.
// *uv.Terminal satisfies it.
type Display interface {
	uv.Screen
	Display() error
}

// TerminalRenderer copies a Framebuffer onto a terminal screen.
type TerminalRenderer struct {
	display Display
	width   int // terminal columns
	height  int // terminal rows
}

// NewTerminalRenderer creates a renderer for a width x height cell area.
func NewTerminalRenderer(display Display, width, height int) *TerminalRenderer {
	return &TerminalRenderer{
		display: display,
		width:   width,
		height:  height,
	}
}

// FramebufferSize returns the pixel size matching the cell area: one pixel
// per column and two per row.
func (t *TerminalRenderer) FramebufferSize() (width, height int) {
	return t.width, t.height * 2
}

// Resize changes the cell area.
func (t *TerminalRenderer) Resize(width, height int) {
	t.width = width
	t.height = height
}

// Render draws fb onto the screen without presenting it.
func (t *TerminalRenderer) Render(fb *Framebuffer) {
	fb.Draw(t.display, uv.Rect(0, 0, t.width, t.height))
}

// Flush presents the screen.
func (t *TerminalRenderer) Flush() error {
	return t.display.Display()
}

// Draw converts the internal framebuffer to terminal cells and draws them on
// the screen.
// The framebuffer height should be 2x the terminal height.
func (r *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	// Each row uses ▀ with fg = top pixel and bg = bottom pixel.
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := row * 2
		botY := topY + 1

		for col := area.Min.X; col < area.Max.X && col < r.Width; col++ {
			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: rgbaToColor(r.GetPixel(col, topY)),
					Bg: rgbaToColor(r.GetPixel(col, botY)),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// rgbaToColor maps fully transparent pixels to the terminal default.
func rgbaToColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil
	}
	return c
}

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

// Colors for the debug views.
var (
	ColorBlack   = color.RGBA{0, 0, 0, 255}
	ColorWhite   = color.RGBA{255, 255, 255, 255}
	ColorRed     = color.RGBA{255, 0, 0, 255}
	ColorGreen   = color.RGBA{0, 255, 0, 255}
	ColorBlue    = color.RGBA{0, 0, 255, 255}
	ColorYellow  = color.RGBA{255, 255, 0, 255}
	ColorCyan    = color.RGBA{0, 255, 255, 255}
	ColorMagenta = color.RGBA{255, 0, 255, 255}
	ColorGray    = color.RGBA{128, 128, 128, 255}
)

// RGB creates a color from RGB values.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{r, g, b, 255}
}
