// Package game implements the main client loop: input, chunk streaming,
// block editing and rendering glued together.
package game

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/voxelforge/voxelforge/internal/config"
	"github.com/voxelforge/voxelforge/internal/engine/block"
	"github.com/voxelforge/voxelforge/internal/engine/camera"
	"github.com/voxelforge/voxelforge/internal/engine/debug"
	"github.com/voxelforge/voxelforge/internal/engine/input"
	"github.com/voxelforge/voxelforge/internal/engine/picking"
	"github.com/voxelforge/voxelforge/internal/engine/renderer"
	"github.com/voxelforge/voxelforge/internal/engine/window"
	"github.com/voxelforge/voxelforge/internal/engine/world"
	"github.com/voxelforge/voxelforge/internal/logger"
	"github.com/voxelforge/voxelforge/internal/worldgen"
)

const pickDistance = 8

// Game is the main client instance.
type Game struct {
	cfg     *config.Config
	running bool

	window    *window.Window
	renderer  *renderer.Renderer
	input     *input.Input
	camera    *camera.FlyCamera
	store     *world.Store
	raycaster *picking.Raycaster

	// Block type placed on right click; number keys select it.
	placeBlock block.Type
}

// New creates the client: window and GL context first, then the renderer,
// then the world wired to it.
func New(cfg *config.Config) (*Game, error) {
	g := &Game{
		cfg:        cfg,
		placeBlock: block.Stone,
	}

	var err error
	g.window, err = window.New(window.Config{
		Title:      "VoxelForge",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	atlas := block.DefaultAtlas()
	g.renderer, err = renderer.New(atlas)
	if err != nil {
		g.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	g.store = world.NewStore(world.Options{
		Generator:          newGenerator(cfg.World),
		Atlas:              atlas,
		Sink:               g.renderer,
		MinChunkY:          cfg.World.MinChunkY,
		MaxChunkY:          cfg.World.MaxChunkY,
		MaxTasksPerTick:    cfg.Engine.MaxTasksPerTick,
		MaxRemeshesPerTick: cfg.Engine.MaxRemeshesPerTick,
		Workers:            cfg.Engine.Workers,
		Logger:             logger.Named("world"),
	})

	g.input = input.New()
	g.camera = camera.New(mgl32.Vec3{8, float32(cfg.World.GroundLevel) + 12, 24})
	g.raycaster = picking.NewRaycaster(g.store)
	g.window.CaptureMouse(true)

	logger.Sugar.Infow("game initialized",
		"generator", cfg.World.Generator,
		"view_radius", cfg.World.ViewRadius,
		"detail_radius", cfg.World.DetailRadius,
		"workers", cfg.Engine.Workers,
	)
	return g, nil
}

// newGenerator builds the configured terrain source.
func newGenerator(w config.WorldConfig) world.Generator {
	switch w.Generator {
	case "flat":
		return worldgen.NewFlat(w.GroundLevel)
	default:
		return worldgen.NewHeightmap(w.Seed)
	}
}

// Run starts the main loop and blocks until quit.
func (g *Game) Run() error {
	g.running = true

	lastTime := time.Now()
	statsTimer := time.Now()
	frameCount := 0

	logger.Sugar.Info("starting game loop")

	for g.running {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		if g.input.Update() {
			g.running = false
			break
		}
		g.handleEvents()
		g.handleMovement(float32(dt))

		// Stream chunks around the camera and run one bounded world tick.
		pos := g.camera.Position
		g.store.LoadAroundAnchor(float64(pos.X()), float64(pos.Y()), float64(pos.Z()),
			g.cfg.World.ViewRadius, g.cfg.World.DetailRadius)
		g.store.Tick(dt)

		g.render(float32(dt))
		g.window.SwapBuffers()

		frameCount++
		if time.Since(statsTimer) >= time.Second {
			st := g.store.LastTick()
			logger.Sugar.Debugw("frame stats",
				"fps", frameCount,
				"chunks", g.store.ChunkCount(),
				"meshes", g.renderer.MeshCount(),
				"pending", g.store.PendingTasks(),
				"tick_tasks", st.TasksProcessed,
				"tick_remeshes", st.Remeshes,
			)
			frameCount = 0
			statsTimer = time.Now()
		}
	}

	return nil
}

// handleEvents processes discrete input events.
func (g *Game) handleEvents() {
	for _, event := range g.input.Events() {
		switch event.Type {
		case input.EventKeyDown:
			switch event.Key {
			case sdl.SCANCODE_ESCAPE:
				if g.window.MouseCaptured() {
					g.window.CaptureMouse(false)
				} else {
					g.running = false
				}
			case sdl.SCANCODE_1:
				g.placeBlock = block.Stone
			case sdl.SCANCODE_2:
				g.placeBlock = block.Dirt
			case sdl.SCANCODE_3:
				g.placeBlock = block.Grass
			case sdl.SCANCODE_4:
				g.placeBlock = block.Sand
			case sdl.SCANCODE_5:
				g.placeBlock = block.Wood
			case sdl.SCANCODE_6:
				g.placeBlock = block.Brick
			case sdl.SCANCODE_F12:
				g.captureScreenshot()
			}

		case input.EventMouseMove:
			if g.window.MouseCaptured() {
				g.camera.HandleLook(float32(event.MouseDX), float32(event.MouseDY))
			}

		case input.EventMouseDown:
			if !g.window.MouseCaptured() {
				g.window.CaptureMouse(true)
				continue
			}
			switch event.Button {
			case sdl.BUTTON_LEFT:
				g.removeBlock()
			case sdl.BUTTON_RIGHT:
				g.placeBlockAtHit()
			}
		}
	}
}

// handleMovement reads the held-key state into camera movement axes.
func (g *Game) handleMovement(dt float32) {
	if !g.window.MouseCaptured() {
		return
	}
	var forward, right, up float32
	if g.input.IsKeyHeld(sdl.SCANCODE_W) {
		forward++
	}
	if g.input.IsKeyHeld(sdl.SCANCODE_S) {
		forward--
	}
	if g.input.IsKeyHeld(sdl.SCANCODE_D) {
		right++
	}
	if g.input.IsKeyHeld(sdl.SCANCODE_A) {
		right--
	}
	if g.input.IsKeyHeld(sdl.SCANCODE_SPACE) {
		up++
	}
	if g.input.IsKeyHeld(sdl.SCANCODE_LCTRL) {
		up--
	}
	sprint := g.input.IsKeyHeld(sdl.SCANCODE_LSHIFT)
	g.camera.HandleMovement(forward, right, up, sprint, dt)
}

// removeBlock digs out the block under the crosshair.
func (g *Game) removeBlock() {
	hit, ok := g.raycaster.Query(g.camera.Position, g.camera.Forward(), pickDistance, true)
	if !ok {
		return
	}
	g.store.SetBlock(hit.X, hit.Y, hit.Z, block.Air)
	g.raycaster.Invalidate()
}

// placeBlockAtHit puts the selected block into the empty cell adjacent to
// the hit face.
func (g *Game) placeBlockAtHit() {
	hit, ok := g.raycaster.Query(g.camera.Position, g.camera.Forward(), pickDistance, true)
	if !ok {
		return
	}
	x := hit.X + hit.Normal[0]
	y := hit.Y + hit.Normal[1]
	z := hit.Z + hit.Normal[2]
	if g.store.GetBlock(x, y, z) != block.Air {
		return
	}
	// Refuse to place inside the camera's own cell.
	cx, cy, cz := int(floor(g.camera.Position.X())), int(floor(g.camera.Position.Y())), int(floor(g.camera.Position.Z()))
	if x == cx && y == cy && z == cz {
		return
	}
	g.store.SetBlock(x, y, z, g.placeBlock)
	g.raycaster.Invalidate()
}

func floor(v float32) float32 {
	f := float32(int(v))
	if v < 0 && f != v {
		f--
	}
	return f
}

// captureScreenshot saves the previous frame's framebuffer to disk.
func (g *Game) captureScreenshot() {
	w, h := g.window.GetSize()
	pixels := g.renderer.CapturePixels(w, h)
	path, err := debug.SaveScreenshot("screenshots", pixels, w, h)
	if err != nil {
		logger.Sugar.Warnw("screenshot failed", "error", err)
		return
	}
	logger.Sugar.Infow("screenshot saved", "path", path)
}

// render draws the frame.
func (g *Game) render(dt float32) {
	w, h := g.window.GetSize()
	g.renderer.BeginFrame(w, h)

	viewProj := g.camera.ProjectionMatrix(w, h).Mul4(g.camera.ViewMatrix())
	g.renderer.Draw(viewProj, dt)
}

// Close cleans up all resources.
func (g *Game) Close() {
	logger.Sugar.Info("closing game")

	if g.store != nil {
		g.store.Close()
	}
	if g.renderer != nil {
		g.renderer.Close()
	}
	if g.window != nil {
		g.window.Close()
	}
}
