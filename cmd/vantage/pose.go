package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taigrr/vantage/pkg/math3d"
	"github.com/taigrr/vantage/pkg/render"
)

func newPoseCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pose",
		Short: "Encode and decode camera pose share strings",
	}

	var eye, target, up string
	encodeCmd := &cobra.Command{
		Use:   "encode",
		Short: "Print the share string for a look-at pose",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := parseVec3(eye)
			if err != nil {
				return fmt.Errorf("--eye: %w", err)
			}
			t, err := parseVec3(target)
			if err != nil {
				return fmt.Errorf("--target: %w", err)
			}
			u, err := parseVec3(up)
			if err != nil {
				return fmt.Errorf("--up: %w", err)
			}
			if e.Distance(t) == 0 {
				return fmt.Errorf("eye and target are the same point")
			}

			cam := render.NewCamera()
			cam.LookAt(e, t, u)
			pose := render.PoseOf(cam)
			a.logger.Debug("pose encoded", "eye", e, "target", t)
			fmt.Fprintln(cmd.OutOrStdout(), pose)
			return nil
		},
	}
	encodeCmd.Flags().StringVar(&eye, "eye", "0,0,10", "Camera position as x,y,z")
	encodeCmd.Flags().StringVar(&target, "target", "0,0,0", "Look-at point as x,y,z")
	encodeCmd.Flags().StringVar(&up, "up", "0,1,0", "Up vector as x,y,z")

	decodeCmd := &cobra.Command{
		Use:   "decode <pose>",
		Short: "Print the camera placement stored in a share string",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pose, err := render.ParsePose(args[0])
			if err != nil {
				return err
			}
			cam := render.NewCamera()
			pose.Apply(cam)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "position %s\n", formatVec3(cam.Position()))
			fmt.Fprintf(out, "forward  %s\n", formatVec3(cam.Forward()))
			fmt.Fprintf(out, "up       %s\n", formatVec3(cam.Up()))
			m := pose.Matrix
			for row := range 3 {
				fmt.Fprintf(out, "[% .6f % .6f % .6f % .6f]\n", m[row], m[4+row], m[8+row], m[12+row])
			}
			return nil
		},
	}

	cmd.AddCommand(encodeCmd, decodeCmd)
	return cmd
}

func formatVec3(v math3d.Vec3) string {
	return fmt.Sprintf("%.4f,%.4f,%.4f", v.X, v.Y, v.Z)
}
