package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"slices"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"

	"github.com/taigrr/vantage/pkg/anim"
	"github.com/taigrr/vantage/pkg/config"
	"github.com/taigrr/vantage/pkg/controls"
	"github.com/taigrr/vantage/pkg/input"
	"github.com/taigrr/vantage/pkg/math3d"
	"github.com/taigrr/vantage/pkg/models"
	"github.com/taigrr/vantage/pkg/render"
)

func newViewCmd(a *app) *cobra.Command {
	var (
		controller string
		pose       poseOptions
	)
	cmd := &cobra.Command{
		Use:   "view <scene.glb>",
		Short: "Explore a scene interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if controller != "" {
				a.cfg.Controller = controller
				if err := a.cfg.Validate(); err != nil {
					return err
				}
			}
			scene, err := a.loadScene(args[0])
			if err != nil {
				return err
			}
			return runViewer(cmd.Context(), a, scene, &pose)
		},
	}
	cmd.Flags().StringVar(&controller, "controller", "", "Camera controller (fps, orbit, ortho, studio)")
	pose.register(cmd)
	return cmd
}

// viewer is the interactive session. Fields touched by the event goroutine
// are guarded by mu; everything else belongs to the frame loop.
type viewer struct {
	cfg     *config.Config
	logger  *slog.Logger
	scene   *models.Scene
	framing framing

	term         *uv.Terminal
	termRenderer *render.TerminalRenderer
	fb           *render.Framebuffer
	wire         *render.Wireframe
	hud          *HUD
	bg           render.Color

	camera      *render.Camera
	controllers map[string]controls.Controller
	active      string
	fps         *controls.FPS
	orbit       *controls.Orbit
	ortho       *controls.Ortho
	studio      *controls.Studio
	keyframes   *anim.KeyframeManager
	clock       *anim.Clock
	playStart   time.Time

	input *input.State

	// Aspect ratio easing after a resize.
	aspect, aspectVel, aspectTarget float64
	appliedAspect                   float64
	aspectSpring                    harmonica.Spring

	showHUD, showGrid, showBounds bool
	labels                        []hudLabel

	pendingConfig atomic.Pointer[config.Config]

	mu            sync.Mutex
	width, height int
	resized       bool
	actions       []string
}

func runViewer(ctx context.Context, a *app, scene *models.Scene, pose *poseOptions) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	term := uv.DefaultTerminal()
	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	v := &viewer{
		cfg:      a.cfg,
		logger:   a.uiLogger(),
		scene:    scene,
		term:     term,
		width:    width,
		height:   height,
		showHUD:  a.cfg.UI.HUD,
		showGrid: true,
	}
	if err := v.init(pose); err != nil {
		return err
	}

	if a.configPath != "" {
		err := config.Watch(ctx, a.configPath, func(cfg *config.Config, err error) {
			if err != nil {
				v.logger.Warn("config reload failed", "err", err)
				return
			}
			v.pendingConfig.Store(cfg)
			v.queue("reload")
		})
		if err != nil {
			v.logger.Warn("config watch disabled", "err", err)
		}
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	// Enable mouse mode
	fmt.Fprint(os.Stdout, "\x1b[?1003h") // Enable any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // Enable SGR extended mouse mode

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	go v.handleEvents(cancel)

	v.logger.Info("viewer started", "scene", scene.Name, "controller", v.active, "size", fmt.Sprintf("%dx%d", width, height))
	return v.loop(ctx)
}

func (v *viewer) init(pose *poseOptions) error {
	r, g, b, err := v.cfg.UI.RGB()
	if err != nil {
		return err
	}
	v.bg = render.RGB(r, g, b)

	v.termRenderer = render.NewTerminalRenderer(v.term, v.width, v.height)
	fbWidth, fbHeight := v.termRenderer.FramebufferSize()
	v.fb = render.NewFramebuffer(fbWidth, fbHeight)
	v.aspect = v.fb.Aspect()
	v.aspectTarget = v.aspect
	v.appliedAspect = v.aspect
	v.aspectSpring = harmonica.NewSpring(harmonica.FPS(v.cfg.UI.FPS), 6.0, 1.0)

	v.framing = frameScene(v.scene, v.cfg.Camera.FovYRadians())
	v.camera = render.NewCamera(v.cfg.Camera.CameraOptions(v.aspect)...)
	v.camera.LookAt(v.framing.Eye, v.framing.Center, math3d.UnitY())
	v.wire = render.NewWireframe(v.camera, v.fb)
	v.hud = NewHUD(os.Stdout, v.scene.Name, v.scene.TriangleCount())

	v.keyframes = anim.NewKeyframeManager()
	v.keyframes.LookDistance = v.framing.Radius
	v.keyframes.Logger = v.logger
	for _, cn := range v.scene.Cameras {
		v.keyframes.AddNextKeyframe(cn.World)
	}
	v.keyframes.OnStopped = func() {
		v.hud.Flash("playback finished")
	}
	v.clock = anim.NewClock(float64(v.cfg.UI.FPS))

	v.buildControllers()
	if err := pose.apply(v.camera, v.framing); err != nil {
		return err
	}
	v.input = input.NewState(
		input.WithBindings(input.DefaultBindings().Merge(v.cfg.Keys)),
		input.WithInvert(v.cfg.FPS.InvertX, v.cfg.FPS.InvertY),
	)
	v.activate(v.cfg.Controller)
	return nil
}

func (v *viewer) buildControllers() {
	moveMult := max(v.framing.Radius/50, 1e-3)

	v.fps = controls.NewFPS(v.camera)
	v.fps.Logger = v.logger

	v.orbit = controls.NewOrbit(v.camera, v.cfg.Orbit.AutoOrbit)
	v.orbit.Logger = v.logger

	v.ortho = controls.NewOrtho(v.camera)
	v.ortho.Logger = v.logger

	v.studio = controls.NewStudio(v.camera, v.keyframes)
	v.studio.Logger = v.logger

	v.controllers = map[string]controls.Controller{
		config.ControllerFPS:    v.fps,
		config.ControllerOrbit:  v.orbit,
		config.ControllerOrtho:  v.ortho,
		config.ControllerStudio: v.studio,
	}
	for _, c := range v.controllers {
		c.SetSceneMoveSpeedMult(moveMult)
	}
	v.applyTuning()
	v.reframe()
}

// applyTuning copies the controller settings from the config.
func (v *viewer) applyTuning() {
	for _, f := range []*controls.FPS{v.fps, v.studio.FPS} {
		f.SetKeyMoveSpeed(v.cfg.FPS.KeyMoveSpeed)
		f.UseViewUp = v.cfg.FPS.UseViewUp
	}
	v.orbit.OrbitSpeed = v.cfg.Orbit.Speed
	v.ortho.OrbitSpeed = v.cfg.Orbit.Speed
}

// reframe points every controller at the whole scene.
func (v *viewer) reframe() {
	f := v.framing
	dist := f.Eye.Distance(f.Center)

	v.orbit.Translation = f.Center
	v.orbit.Z = -dist
	if v.cfg.Orbit.Distance > 0 {
		v.orbit.Z = -v.cfg.Orbit.Distance
	}
	v.orbit.XVel, v.orbit.YVel, v.orbit.ZVel = 0, 0, 0

	v.ortho.Translation = f.Center
	v.ortho.Z = f.Radius / 10 * 1.2
	if v.cfg.Ortho.Zoom > 0 {
		v.ortho.Z = v.cfg.Ortho.Zoom
	}
	v.ortho.ZVel = 0

	if v.active != config.ControllerOrtho {
		v.camera.LookAt(f.Eye, f.Center, math3d.UnitY())
	}
	for _, c := range v.controllers {
		c.CameraUpdateForced()
		c.ForceUpdate()
	}
}

// activate switches to the named controller.
func (v *viewer) activate(name string) {
	c, ok := v.controllers[name]
	if !ok {
		return
	}
	if v.studio.IsPlaying() && name != config.ControllerStudio {
		v.studio.StopAnimation()
	}
	v.mu.Lock()
	v.active = name
	v.mu.Unlock()
	if name != config.ControllerOrtho {
		v.camera.SetPerspective(v.cfg.Camera.FovYRadians(), v.aspect, v.cfg.Camera.Near, v.cfg.Camera.FarPlane())
		v.appliedAspect = v.aspect
	}
	c.CameraUpdateForced()
	c.ForceUpdate()
	v.logger.Debug("controller", "name", name)
}

func (v *viewer) nextController() {
	i := slices.Index(config.Controllers, v.active)
	v.activate(config.Controllers[(i+1)%len(config.Controllers)])
	v.hud.Flash(v.active)
}

// handleEvents feeds terminal events into the input state. Viewer keys are
// queued for the frame loop.
func (v *viewer) handleEvents(cancel context.CancelFunc) {
	for ev := range v.term.Events() {
		switch ev := ev.(type) {
		case uv.WindowSizeEvent:
			v.mu.Lock()
			v.width, v.height = ev.Width, ev.Height
			v.resized = true
			v.mu.Unlock()
			continue

		case uv.KeyPressEvent:
			switch {
			case ev.MatchString("ctrl+c"):
				cancel()
				return
			case ev.MatchString("esc", "escape"):
				v.mu.Lock()
				studio := v.active == config.ControllerStudio
				v.mu.Unlock()
				if !studio {
					cancel()
					return
				}
			case ev.MatchString("tab"):
				v.queue("next")
				continue
			case ev.MatchString("?", "shift+/"):
				v.queue("hud")
				continue
			case ev.MatchString("g"):
				v.queue("grid")
				continue
			case ev.MatchString("x"):
				v.queue("bounds")
				continue
			case ev.MatchString("f"):
				v.queue("frame")
				continue
			case ev.MatchString("c"):
				v.queue("pose")
				continue
			case ev.MatchString("p"):
				v.queue("play")
				continue
			}
		}
		v.input.HandleEvent(ev)
	}
}

func (v *viewer) queue(action string) {
	v.mu.Lock()
	v.actions = append(v.actions, action)
	v.mu.Unlock()
}

func (v *viewer) loop(ctx context.Context) error {
	targetDuration := time.Second / time.Duration(v.cfg.UI.FPS)
	lastFrame := time.Now()

	for {
		select {
		case <-ctx.Done():
			v.logger.Info("viewer stopped", "pose", render.PoseOf(v.camera).String())
			return nil
		default:
		}

		now := time.Now()
		dt := now.Sub(lastFrame).Seconds()
		lastFrame = now
		if dt > 0.1 {
			dt = 0.1
		}

		v.mu.Lock()
		actions := v.actions
		v.actions = nil
		resized := v.resized
		v.resized = false
		width, height := v.width, v.height
		v.mu.Unlock()

		if resized {
			v.resize(width, height)
		}
		for _, action := range actions {
			v.do(action)
		}
		v.easeAspect()

		frame := v.input.Snapshot()
		result := v.controllers[v.active].Update(frame, dt, 1)
		if result == controls.ImportantChange {
			v.logger.Debug("pose settled", "pose", render.PoseOf(v.camera).String())
		}
		if v.studio.IsPlaying() {
			v.clock.SetTimeInMilliseconds(float64(time.Since(v.playStart).Milliseconds()))
			v.clock.QuantizeTimeToFPS()
		}

		v.draw()
		if err := v.termRenderer.Flush(); err != nil {
			return fmt.Errorf("flush: %w", err)
		}

		drawn, culled := v.wire.Stats()
		v.hud.UpdateFPS()
		v.hud.Render(width, height, v.showHUD, hudStatus{
			Controller: v.active,
			Drawn:      drawn,
			Culled:     culled,
			Keyframes:  v.keyframes.Len(),
			Playing:    v.studio.IsPlaying(),
			Frame:      v.clock.TimeInFrames(),
			Labels:     v.labels,
		})

		// Frame timing
		elapsed := time.Since(now)
		if elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}

func (v *viewer) resize(width, height int) {
	v.term.Erase()
	v.term.Resize(width, height)
	v.termRenderer.Resize(width, height)
	fbWidth, fbHeight := v.termRenderer.FramebufferSize()
	v.fb.Resize(fbWidth, fbHeight)
	v.aspectTarget = v.fb.Aspect()
	if !v.cfg.UI.ResizeSmoothing {
		v.aspect = v.aspectTarget
		v.aspectVel = 0
	}
}

// easeAspect moves the aspect ratio toward the framebuffer's and updates
// the projection when it changed.
func (v *viewer) easeAspect() {
	if v.aspect != v.aspectTarget {
		v.aspect, v.aspectVel = v.aspectSpring.Update(v.aspect, v.aspectVel, v.aspectTarget)
		if math.Abs(v.aspect-v.aspectTarget) < 1e-4 && math.Abs(v.aspectVel) < 1e-4 {
			v.aspect, v.aspectVel = v.aspectTarget, 0
		}
	}
	if v.aspect == v.appliedAspect {
		return
	}
	v.appliedAspect = v.aspect
	if v.camera.IsOrthographic {
		// Ortho rebuilds its projection from Aspect every frame.
		v.camera.Aspect = v.aspect
		v.ortho.ForceUpdate()
		return
	}
	v.camera.SetPerspective(v.camera.FovY, v.aspect, v.cfg.Camera.Near, v.cfg.Camera.FarPlane())
}

func (v *viewer) do(action string) {
	switch action {
	case "next":
		v.nextController()
	case "hud":
		v.showHUD = !v.showHUD
	case "grid":
		v.showGrid = !v.showGrid
	case "bounds":
		v.showBounds = !v.showBounds
	case "frame":
		v.reframe()
	case "pose":
		s := render.PoseOf(v.camera).String()
		v.logger.Info("pose", "pose", s)
		v.hud.Flash("pose " + s)
	case "play":
		v.play()
	case "reload":
		v.reload()
	}
}

func (v *viewer) play() {
	if v.studio.IsPlaying() {
		v.studio.StopAnimation()
		return
	}
	if v.active != config.ControllerStudio {
		v.activate(config.ControllerStudio)
	}
	start, err := v.keyframes.StartPlayback()
	if err != nil {
		v.hud.Flash(err.Error())
		return
	}
	v.playStart = time.Now()
	v.clock.SetTimeInFrames(0)
	v.studio.PlayAnimation(start)
}

func (v *viewer) reload() {
	cfg := v.pendingConfig.Swap(nil)
	if cfg == nil {
		return
	}
	r, g, b, err := cfg.UI.RGB()
	if err != nil {
		v.logger.Warn("config reload failed", "err", err)
		return
	}
	v.bg = render.RGB(r, g, b)
	v.cfg = cfg

	v.input.SetBindings(input.DefaultBindings().Merge(cfg.Keys))
	v.input.SetInvert(cfg.FPS.InvertX, cfg.FPS.InvertY)
	v.applyTuning()
	v.clock.FPS = float64(cfg.UI.FPS)
	if cfg.Controller != v.active {
		v.activate(cfg.Controller)
	} else if v.active != config.ControllerOrtho {
		v.camera.SetPerspective(cfg.Camera.FovYRadians(), v.aspect, cfg.Camera.Near, cfg.Camera.FarPlane())
	}
	v.hud.Flash("config reloaded")
	v.logger.Info("config reloaded", "controller", cfg.Controller)
}

func (v *viewer) draw() {
	v.labels = v.labels[:0]
	v.fb.Clear(v.bg)
	drawScene(v.wire, v.scene, v.framing, v.showGrid, v.showBounds)
	if v.active == config.ControllerStudio && !v.studio.IsPlaying() {
		size := v.framing.Radius / 20
		for i, kf := range v.keyframes.Keyframes() {
			v.wire.DrawPoint(kf.Pos, size, colorKeyframe)
			v.wire.DrawLine3D(kf.Pos, kf.LookAt, colorKeyframe)
			if l, ok := keyframeLabel(v.camera, v.fb, i, kf.Pos); ok {
				v.labels = append(v.labels, l)
			}
		}
	}
	v.termRenderer.Render(v.fb)
}
