package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taigrr/vantage/pkg/math3d"
	"github.com/taigrr/vantage/pkg/models"
	"github.com/taigrr/vantage/pkg/render"
)

var (
	colorEdges    = render.RGB(0, 255, 128)
	colorBounds   = render.RGB(90, 90, 140)
	colorGrid     = render.RGB(60, 60, 70)
	colorKeyframe = render.RGB(255, 200, 0)
)

func (a *app) loadScene(path string) (*models.Scene, error) {
	scene, err := models.LoadScene(path)
	if err != nil {
		return nil, fmt.Errorf("load scene: %w", err)
	}
	a.logger.Debug("scene loaded",
		"name", scene.Name,
		"nodes", len(scene.Nodes),
		"cameras", len(scene.Cameras),
		"triangles", scene.TriangleCount(),
	)
	return scene, nil
}

// framing is a camera placement that shows a whole scene.
type framing struct {
	Center math3d.Vec3
	Radius float64
	Eye    math3d.Vec3
}

func frameScene(scene *models.Scene, fovY float64) framing {
	center := scene.Bounds.Center()
	radius := scene.Bounds.BoundingSphereRadius()
	if radius <= 0 || math.IsNaN(radius) {
		radius = 1
	}
	dist := radius / math.Sin(fovY/2)
	dir := math3d.V3(0, 0.35, 1).Normalize()
	return framing{
		Center: center,
		Radius: radius,
		Eye:    center.ScaleAdd(dir, dist),
	}
}

// newCamera builds a perspective camera from the config and looks at the
// framed scene.
func (a *app) newCamera(aspect float64, f framing) *render.Camera {
	cam := render.NewCamera(a.cfg.Camera.CameraOptions(aspect)...)
	cam.LookAt(f.Eye, f.Center, math3d.UnitY())
	return cam
}

// poseOptions selects a camera pose on the command line.
type poseOptions struct {
	pose   string
	eye    string
	target string
	up     string
}

func (p *poseOptions) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&p.pose, "pose", "", "Camera pose share string")
	flags.StringVar(&p.eye, "eye", "", "Camera position as x,y,z")
	flags.StringVar(&p.target, "target", "", "Look-at point as x,y,z (default scene center)")
	flags.StringVar(&p.up, "up", "0,1,0", "Up vector as x,y,z")
}

// apply moves cam to the chosen pose. Without flags the camera keeps the
// framed pose.
func (p *poseOptions) apply(cam *render.Camera, f framing) error {
	if p.pose != "" {
		pose, err := render.ParsePose(p.pose)
		if err != nil {
			return err
		}
		pose.Apply(cam)
		return nil
	}
	if p.eye == "" && p.target == "" {
		return nil
	}

	eye, target := f.Eye, f.Center
	var err error
	if p.eye != "" {
		if eye, err = parseVec3(p.eye); err != nil {
			return fmt.Errorf("--eye: %w", err)
		}
	}
	if p.target != "" {
		if target, err = parseVec3(p.target); err != nil {
			return fmt.Errorf("--target: %w", err)
		}
	}
	up, err := parseVec3(p.up)
	if err != nil {
		return fmt.Errorf("--up: %w", err)
	}
	if eye.Distance(target) == 0 {
		return fmt.Errorf("eye and target are the same point")
	}
	cam.LookAt(eye, target, up)
	return nil
}

func parseVec3(s string) (math3d.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return math3d.Vec3{}, fmt.Errorf("want x,y,z, got %q", s)
	}
	var v [3]float64
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return math3d.Vec3{}, fmt.Errorf("parse %q: %w", part, err)
		}
		v[i] = f
	}
	return math3d.V3(v[0], v[1], v[2]), nil
}

// drawScene draws every node with frustum culling, plus optional node
// bounds and a ground grid sized to the scene.
func drawScene(w *render.Wireframe, scene *models.Scene, f framing, grid, bounds bool) {
	w.ResetStats()
	if grid {
		step := math.Pow(10, math.Floor(math.Log10(f.Radius)))
		w.DrawGrid(f.Radius*4, step, colorGrid)
	}
	for _, n := range scene.Nodes {
		if w.DrawCulled(n.Bounds, n.Mesh.Positions, n.Mesh.Edges, n.World, colorEdges) && bounds {
			w.DrawAABB(n.Bounds, colorBounds)
		}
	}
}

// applySceneCamera moves cam to a camera node from the scene and adopts its
// projection. The viewport aspect wins over the file's.
func applySceneCamera(cam *render.Camera, cn models.CameraNode, aspect float64) {
	cam.SetWorldMatrix(cn.World)
	cam.SetProjectionMatrix(cn.Projection(aspect))
}
