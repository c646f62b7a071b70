// vantage - Terminal camera viewer for glTF scenes
// Fly, orbit and record camera paths through a scene drawn as a wireframe
// in your terminal.
//
// Controls (view):
//
//	W/A/S/D     - Move (fps, studio), pan (orbit, ortho)
//	Arrows      - Move and turn
//	Q/E         - Down/up (fps), zoom (ortho)
//	Mouse drag  - Look around or orbit
//	Scroll      - Zoom (orbit, ortho)
//	Shift       - Faster moves, snapped ortho views
//	R           - Toggle auto orbit
//	Enter       - Record a keyframe (studio)
//	P           - Play recorded keyframes (studio)
//	Tab         - Next controller
//	F           - Frame the scene
//	G           - Toggle grid
//	C           - Log the pose share string
//	?           - Toggle HUD overlay
//	Ctrl+C      - Quit
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
)

var version = "dev"

func main() {
	if err := fang.Execute(context.Background(), newRootCmd(), fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}
