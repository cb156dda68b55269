package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"log"
	"math"
	"os"

	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/1siamBot/steering-playground/engine/core"
	"github.com/1siamBot/steering-playground/engine/input"
	"github.com/1siamBot/steering-playground/engine/logging"
	"github.com/1siamBot/steering-playground/engine/scene"
	"github.com/1siamBot/steering-playground/engine/vecmath"
)

var (
	colorBackground = color.RGBA{20, 20, 30, 255}
	colorPlayer     = color.RGBA{255, 255, 255, 255}
	colorFriend     = color.RGBA{0, 255, 255, 255}
	colorTarget     = color.RGBA{255, 255, 0, 140}
)

// Game implements ebiten.Game for the separation scene
type Game struct {
	scene   *scene.Separate
	loop    *core.GameLoop
	events  *core.EventBus
	pointer *input.PointerState
	log     logging.Logger
	face    text.Face
}

func NewGame(cfg scene.Config, logger logging.Logger) (*Game, error) {
	events := core.NewEventBus()
	sc, err := scene.NewSeparate(cfg, logger, events)
	if err != nil {
		return nil, err
	}
	g := &Game{
		scene:   sc,
		loop:    core.NewGameLoop(sc, cfg.TickRate),
		events:  events,
		pointer: input.NewPointerState(),
		log:     logger,
		face:    text.NewGoXFace(basicfont.Face7x13),
	}
	events.On(core.EvtAgentAdded, func(e core.Event) {
		g.log.Debug("event", "type", e.Type.String(), "tick", e.Tick, "agent", e.Payload)
	})
	events.On(core.EvtAgentRemoved, func(e core.Event) {
		g.log.Info("event", "type", e.Type.String(), "tick", e.Tick, "agent", e.Payload)
	})
	g.loop.Play()
	return g, nil
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	g.pointer.Update()
	g.handlePointer()
	g.handleKeys()

	if _, err := g.loop.Update(); err != nil {
		return fmt.Errorf("simulation tick %d: %w", g.loop.CurrentTick(), err)
	}
	g.events.Dispatch()
	return nil
}

func (g *Game) handlePointer() {
	p := g.pointerPos()
	switch {
	case g.pointer.JustPressed:
		g.scene.Queue(scene.CmdPointerDown, p)
	case g.pointer.JustReleased:
		g.scene.Queue(scene.CmdPointerUp, p)
	case g.pointer.Down && g.pointer.Moved:
		g.scene.Queue(scene.CmdPointerMove, p)
	}
}

func (g *Game) handleKeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		if _, err := g.scene.AddFriend(g.pointerPos()); err != nil {
			g.log.Error("add friend", "err", err)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if friends := g.scene.Friends(); len(friends) > 0 {
			g.scene.RemoveFriend(friends[len(friends)-1])
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		if g.loop.State == core.StatePlaying {
			g.loop.Pause()
		} else {
			g.loop.Play()
		}
		g.log.Info("loop state", "state", g.loop.State.String())
	}
}

func (g *Game) pointerPos() vecmath.Vec2 {
	return vecmath.V2(float64(g.pointer.X), float64(g.pointer.Y))
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)

	for _, a := range g.scene.Agents() {
		x, y := float32(a.Position.X), float32(a.Position.Y)
		r := float32(a.Radius)
		switch a.Role {
		case scene.RoleTracking:
			if g.scene.Mode() == scene.ModeSeeking {
				vector.StrokeLine(screen, x-6, y, x+6, y, 1, colorTarget, false)
				vector.StrokeLine(screen, x, y-6, x, y+6, 1, colorTarget, false)
			}
			continue
		case scene.RolePlayer:
			drawAgent(screen, x, y, r, a.Heading, colorPlayer)
		default:
			drawAgent(screen, x, y, r, a.Heading, colorFriend)
		}
	}

	g.drawHUD(screen)
}

// drawAgent draws the agent's body and a line showing its heading
func drawAgent(screen *ebiten.Image, x, y, r float32, heading float64, c color.Color) {
	vector.StrokeCircle(screen, x, y, r, 2, c, true)
	hx := x + r*float32(math.Cos(heading))
	hy := y + r*float32(math.Sin(heading))
	vector.StrokeLine(screen, x, y, hx, hy, 2, c, true)
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(12, 12)
	op.ColorScale.ScaleWithColor(colorPlayer)
	text.Draw(screen, g.scene.Name(), g.face, op)

	info := fmt.Sprintf(
		"FPS: %.0f | Tick: %d | Mode: %s | Agents: %d\n"+
			"[Drag] Seek [F] Add friend [R] Remove friend [P] Pause [Esc] Quit",
		ebiten.ActualFPS(),
		g.loop.CurrentTick(),
		g.scene.Mode(),
		len(g.scene.Agents()),
	)
	op = &text.DrawOptions{}
	op.GeoM.Translate(12, float64(g.scene.Config().Height)-40)
	op.LineSpacing = 16
	op.ColorScale.ScaleWithColor(colorFriend)
	text.Draw(screen, info, g.face, op)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	cfg := g.scene.Config()
	return int(cfg.Width), int(cfg.Height)
}

func main() {
	cfg := scene.DefaultConfig()
	flag.Float64Var(&cfg.Width, "width", cfg.Width, "scene width")
	flag.Float64Var(&cfg.Height, "height", cfg.Height, "scene height")
	flag.Float64Var(&cfg.AgentRadius, "radius", cfg.AgentRadius, "agent radius")
	flag.Float64Var(&cfg.MaxSpeed, "max-speed", cfg.MaxSpeed, "agent max speed")
	flag.Float64Var(&cfg.MaxAcceleration, "max-accel", cfg.MaxAcceleration, "agent max acceleration")
	flag.Float64Var(&cfg.SeparationDistance, "sep-distance", cfg.SeparationDistance, "separation max distance")
	flag.Float64Var(&cfg.SeparationAngle, "sep-angle", cfg.SeparationAngle, "separation view cone in radians (>= 2π disables)")
	flag.Float64Var(&cfg.SeparationWeight, "sep-weight", cfg.SeparationWeight, "separation goal weight")
	flag.Float64Var(&cfg.Drag, "drag", cfg.Drag, "velocity damping per second (0 = coast)")
	flag.Float64Var(&cfg.TickRate, "tps", cfg.TickRate, "simulation ticks per second")
	level := flag.String("log-level", "info", "debug, info, warn or error")
	format := flag.String("log-format", "text", "text or json")
	flag.Parse()

	logger := logging.New(logging.Config{
		Level:  logging.ParseLevel(*level),
		Format: *format,
		Output: os.Stderr,
	}).With("run_id", uuid.NewString())

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "err", err)
		os.Exit(2)
	}
	logger.Info("starting", "width", cfg.Width, "height", cfg.Height, "tps", cfg.TickRate,
		"sep_distance", cfg.SeparationDistance, "sep_angle", cfg.SeparationAngle)

	game, err := NewGame(cfg, logger)
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowSize(int(cfg.Width), int(cfg.Height))
	ebiten.SetWindowTitle("Agents Catalog: Separation")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(int(math.Round(cfg.TickRate)))
	ebiten.SetVsyncEnabled(true)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
	logger.Info("stopped", "ticks", game.loop.CurrentTick())
}
