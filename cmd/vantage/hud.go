package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/taigrr/vantage/pkg/math3d"
	"github.com/taigrr/vantage/pkg/render"
)

// HUD renders an overlay with scene info and controller state.
type HUD struct {
	out       io.Writer
	filename  string
	polyCount int
	fps       float64
	fpsFrames int
	fpsTime   time.Time

	message   string
	messageAt time.Time
}

// hudStatus is the per-frame state shown on the bottom row.
type hudStatus struct {
	Controller string
	Drawn      int
	Culled     int
	Keyframes  int
	Playing    bool
	Frame      float64
	Labels     []hudLabel
}

// hudLabel is text pinned to a terminal cell, 1-based.
type hudLabel struct {
	Row, Col int
	Text     string
}

// keyframeLabel places keyframe i's number next to its position on
// screen. Framebuffer rows are half a terminal row.
func keyframeLabel(cam *render.Camera, fb *render.Framebuffer, i int, pos math3d.Vec3) (hudLabel, bool) {
	x, y, _, ok := cam.WorldToScreen(pos, fb.Width, fb.Height)
	if !ok {
		return hudLabel{}, false
	}
	return hudLabel{
		Row:  int(y)/2 + 1,
		Col:  int(x) + 2,
		Text: strconv.Itoa(i + 1),
	}, true
}

// NewHUD creates a new HUD
func NewHUD(out io.Writer, filename string, polyCount int) *HUD {
	return &HUD{
		out:       out,
		filename:  filename,
		polyCount: polyCount,
		fpsTime:   time.Now(),
	}
}

// UpdateFPS updates the FPS counter (call once per frame)
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// Flash shows msg on the bottom row for a few seconds.
func (h *HUD) Flash(msg string) {
	h.message = msg
	h.messageAt = time.Now()
}

// Render draws the HUD overlay directly to the terminal
func (h *HUD) Render(width, height int, show bool, st hudStatus) {
	const (
		reset     = "\x1b[0m"
		bold      = "\x1b[1m"
		dim       = "\x1b[2m"
		bgBlack   = "\x1b[40m"
		fgWhite   = "\x1b[97m"
		fgGreen   = "\x1b[92m"
		fgYellow  = "\x1b[93m"
		fgCyan    = "\x1b[96m"
		fgRed     = "\x1b[91m"
		clearLine = "\x1b[2K"
	)

	moveTo := func(row, col int) string {
		return fmt.Sprintf("\x1b[%d;%dH", row, col)
	}

	// Always clear the HUD rows (so toggling off works)
	fmt.Fprint(h.out, moveTo(1, 1)+clearLine)
	fmt.Fprint(h.out, moveTo(height, 1)+clearLine)

	if h.message != "" && time.Since(h.messageAt) < 4*time.Second {
		msg := fmt.Sprintf("%s%s%s %s %s", bgBlack, bold, fgYellow, h.message, reset)
		fmt.Fprint(h.out, moveTo(height, 1)+msg)
		return
	}

	if !show {
		return
	}

	fmt.Fprintf(h.out, "%s%s%s %.0f FPS %s", moveTo(1, 1), bgBlack, fgGreen, h.fps, reset)

	titleCol := max((width-len(h.filename)-2)/2, 1)
	fmt.Fprint(h.out, moveTo(1, titleCol)+fmt.Sprintf("%s%s%s %s %s", bold, bgBlack, fgWhite, h.filename, reset))

	polyStr := fmt.Sprintf("%d tris", h.polyCount)
	polyCol := max(width-len(polyStr)-1, 1)
	fmt.Fprint(h.out, moveTo(1, polyCol)+fmt.Sprintf("%s%s%s %s %s", bgBlack, fgCyan, bold, polyStr, reset))

	for _, l := range st.Labels {
		if l.Row <= 1 || l.Row >= height || l.Col > width {
			continue
		}
		fmt.Fprintf(h.out, "%s%s%s%s%s", moveTo(l.Row, l.Col), bold, fgYellow, l.Text, reset)
	}

	mode := fmt.Sprintf("%s%s %s  %d drawn  %d culled ", bgBlack, fgWhite, st.Controller, st.Drawn, st.Culled)
	if st.Controller == "studio" {
		mode += fmt.Sprintf(" %d keyframes ", st.Keyframes)
		if st.Playing {
			mode += fmt.Sprintf("%s● PLAY %.0f %s", fgRed, st.Frame, fgWhite)
		}
	}
	fmt.Fprint(h.out, moveTo(height, 1)+mode+reset)

	hint := fmt.Sprintf("%s%s%s Tab: controller  ?: HUD %s", bgBlack, dim, fgYellow, reset)
	hintCol := max(width-24, 1)
	fmt.Fprint(h.out, moveTo(height, hintCol)+hint)
}
