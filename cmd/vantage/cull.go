package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/taigrr/vantage/pkg/geometry"
	"github.com/taigrr/vantage/pkg/render"
)

func newCullCmd(a *app) *cobra.Command {
	var (
		pose   poseOptions
		aspect float64
	)
	cmd := &cobra.Command{
		Use:   "cull <scene.glb>",
		Short: "Classify every mesh node against the camera frustum",
		Long: "Classify every mesh node of a glTF scene as inside, intersecting or outside\n" +
			"the view frustum of a camera pose, and print its screen coverage.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scene, err := a.loadScene(args[0])
			if err != nil {
				return err
			}
			f := frameScene(scene, a.cfg.Camera.FovYRadians())
			cam := a.newCamera(aspect, f)
			if err := pose.apply(cam, f); err != nil {
				return err
			}

			counts := map[geometry.IntersectionState]int{}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NODE\tSTATE\tDEPTH\tSCREEN")
			for _, n := range scene.Nodes {
				state := cam.Frustum.Intersect(n.Bounds)
				counts[state]++

				depth := render.ViewSpaceDepthFromWorldSpaceAABB(cam, n.Bounds)
				ssp := render.ScreenSpaceProjectionFromWorldSpaceAABB(cam, n.Bounds)
				fmt.Fprintf(tw, "%s\t%s\t%.3f\t%.4f\n", nodeName(n.Name), state, depth, ssp.ScreenArea())
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\n%d inside, %d partial, %d outside (pose %s)\n",
				counts[geometry.FullyInside], counts[geometry.PartialIntersect], counts[geometry.FullyOutside], render.PoseOf(cam))
			return nil
		},
	}
	pose.register(cmd)
	cmd.Flags().Float64Var(&aspect, "aspect", 16.0/9.0, "Viewport aspect ratio")
	return cmd
}

func nodeName(name string) string {
	if name == "" {
		return "(unnamed)"
	}
	return name
}
