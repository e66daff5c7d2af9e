package ebitenhost

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/motion"
)

// RunConfig configures the preview window.
type RunConfig struct {
	Title         string
	Width, Height int
	// ShowFPS draws the FPS/TPS overlay in the top-left corner.
	ShowFPS bool
	// Background is a CSS color for the clear color. Empty means a dark
	// slate.
	Background string
	// Update runs once per tick before input is forwarded and the engine
	// ticks. A non-nil error stops the game loop.
	Update func() error
	// Writer receives every frame after the preview has recorded it.
	Writer motion.StyleWriter
}

var defaultBackground = color.RGBA{R: 26, G: 26, B: 38, A: 255}

// Game implements ebiten.Game around an Engine.
type Game struct {
	engine  *motion.Engine
	cfg     RunConfig
	preview *Preview
	mouse   mouseTracker
	touches touchTracker
	fps     *fpsOverlay
	bg      color.Color
	clockMS float64
	ids     []ebiten.TouchID
}

// NewGame wires the engine's style writer to a Preview and returns a game
// ready for ebiten.RunGame.
func NewGame(engine *motion.Engine, cfg RunConfig) *Game {
	if cfg.Width <= 0 {
		cfg.Width = 640
	}
	if cfg.Height <= 0 {
		cfg.Height = 480
	}
	g := &Game{
		engine:  engine,
		cfg:     cfg,
		preview: NewPreview(engine),
		touches: newTouchTracker(),
		bg:      defaultBackground,
	}
	g.preview.Next = cfg.Writer
	engine.SetStyleWriter(g.preview)
	if cfg.Background != "" {
		if c, a, err := motion.ParseColor(cfg.Background); err == nil {
			g.bg = toRGBA(c.R, c.G, c.B, a)
		}
	}
	if cfg.ShowFPS {
		g.fps = newFPSOverlay()
	}
	return g
}

// Run opens a window and drives engine until the window closes or an
// update fails.
func Run(engine *motion.Engine, cfg RunConfig) error {
	g := NewGame(engine, cfg)
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	ebiten.SetWindowSize(g.cfg.Width, g.cfg.Height)
	return ebiten.RunGame(g)
}

// Preview returns the game's renderer.
func (g *Game) Preview() *Preview { return g.preview }

// Update is called every tick (1/TPS seconds).
func (g *Game) Update() error {
	dt := 1.0 / float64(ebiten.TPS())
	g.clockMS += dt * 1000

	if g.cfg.Update != nil {
		if err := g.cfg.Update(); err != nil {
			return err
		}
	}

	mx, my := ebiten.CursorPosition()
	down := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	for _, ev := range g.mouse.update(float64(mx), float64(my), down, g.clockMS) {
		g.engine.HandlePointer(ev)
	}

	g.ids = ebiten.AppendTouchIDs(g.ids[:0])
	for _, ev := range g.touches.update(g.ids, ebiten.TouchPosition, g.clockMS) {
		g.engine.HandleTouch(ev)
	}

	if err := g.engine.Tick(dt); err != nil {
		return err
	}
	if g.fps != nil {
		g.fps.update(dt)
	}
	return nil
}

// Draw paints every mounted element, then the FPS overlay.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.bg)
	g.preview.Draw(screen)
	if g.fps != nil {
		g.fps.draw(screen)
	}
}

// Layout returns the configured logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Width, g.cfg.Height
}

func toRGBA(r, g, b, a float64) color.RGBA {
	to8 := func(v float64) uint8 {
		if v <= 0 {
			return 0
		}
		if v >= 1 {
			return 255
		}
		return uint8(v*255 + 0.5)
	}
	// color.RGBA is alpha-premultiplied.
	return color.RGBA{R: to8(r * a), G: to8(g * a), B: to8(b * a), A: to8(a)}
}
