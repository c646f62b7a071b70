package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taigrr/vantage/pkg/render"
)

func newSnapshotCmd(a *app) *cobra.Command {
	var (
		pose          poseOptions
		width, height int
		output        string
		grid, bounds  bool
		sceneCam      int
	)
	cmd := &cobra.Command{
		Use:   "snapshot <scene.glb>",
		Short: "Render the scene wireframe to a PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if width <= 0 || height <= 0 {
				return fmt.Errorf("invalid size %dx%d", width, height)
			}
			scene, err := a.loadScene(args[0])
			if err != nil {
				return err
			}

			f := frameScene(scene, a.cfg.Camera.FovYRadians())
			aspect := float64(width) / float64(height)
			cam := a.newCamera(aspect, f)
			if sceneCam >= 0 {
				if sceneCam >= len(scene.Cameras) {
					return fmt.Errorf("scene has %d cameras, no camera %d", len(scene.Cameras), sceneCam)
				}
				applySceneCamera(cam, scene.Cameras[sceneCam], aspect)
			} else if err := pose.apply(cam, f); err != nil {
				return err
			}

			r, g, b, err := a.cfg.UI.RGB()
			if err != nil {
				return err
			}
			fb := render.NewFramebuffer(width, height)
			fb.Clear(render.RGB(r, g, b))
			wire := render.NewWireframe(cam, fb)
			drawScene(wire, scene, f, grid, bounds)

			if err := fb.SavePNG(output); err != nil {
				return err
			}
			drawn, culled := wire.Stats()
			a.logger.Info("snapshot written",
				"path", output,
				"drawn", drawn,
				"culled", culled,
				"pose", render.PoseOf(cam).String(),
			)
			return nil
		},
	}
	pose.register(cmd)
	flags := cmd.Flags()
	flags.IntVar(&width, "width", 640, "Image width in pixels")
	flags.IntVar(&height, "height", 360, "Image height in pixels")
	flags.StringVarP(&output, "output", "o", "snapshot.png", "Output PNG path")
	flags.BoolVar(&grid, "grid", true, "Draw the ground grid")
	flags.BoolVar(&bounds, "bounds", false, "Draw node bounding boxes")
	flags.IntVar(&sceneCam, "scene-camera", -1, "Use a camera from the scene by index")
	return cmd
}
