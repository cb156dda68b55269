package core

import "time"

// LoopState is the run state of a GameLoop
type LoopState uint8

const (
	StatePaused LoopState = iota
	StatePlaying
)

func (s LoopState) String() string {
	if s == StatePlaying {
		return "playing"
	}
	return "paused"
}

// Simulation is anything advanced in fixed steps by a GameLoop
type Simulation interface {
	Tick(dt float64) error
}

// maxFrameTime caps one frame's contribution to avoid a spiral of death
const maxFrameTime = 0.25

// GameLoop runs a Simulation at a fixed timestep regardless of the render
// frame rate, which keeps the simulation deterministic.
type GameLoop struct {
	Sim         Simulation
	State       LoopState
	TickRate    float64 // fixed ticks per second
	accumulator float64
	lastTime    time.Time
	ticks       uint64
	now         func() time.Time
}

// NewGameLoop creates a paused loop with a fixed tick rate
func NewGameLoop(sim Simulation, tickRate float64) *GameLoop {
	return newGameLoop(sim, tickRate, time.Now)
}

func newGameLoop(sim Simulation, tickRate float64, now func() time.Time) *GameLoop {
	return &GameLoop{
		Sim:      sim,
		TickRate: tickRate,
		lastTime: now(),
		now:      now,
	}
}

// Update should be called every render frame. It runs as many fixed ticks
// as the elapsed wall time allows and returns the interpolation alpha for
// rendering. The first simulation error stops the frame.
func (gl *GameLoop) Update() (float64, error) {
	now := gl.now()
	frameTime := now.Sub(gl.lastTime).Seconds()
	gl.lastTime = now

	if frameTime > maxFrameTime {
		frameTime = maxFrameTime
	}

	dt := gl.Step()
	if gl.State != StatePlaying {
		return 0, nil
	}
	gl.accumulator += frameTime

	for gl.accumulator >= dt {
		if err := gl.Sim.Tick(dt); err != nil {
			return 0, err
		}
		gl.ticks++
		gl.accumulator -= dt
	}

	return gl.accumulator / dt, nil
}

// Step returns the fixed timestep in seconds
func (gl *GameLoop) Step() float64 {
	return 1.0 / gl.TickRate
}

// Play starts or resumes the loop
func (gl *GameLoop) Play() {
	gl.State = StatePlaying
	gl.lastTime = gl.now()
}

// Pause stops ticking; time spent paused is not replayed on resume
func (gl *GameLoop) Pause() {
	gl.State = StatePaused
	gl.accumulator = 0
}

// CurrentTick returns the number of ticks run by this loop
func (gl *GameLoop) CurrentTick() uint64 {
	return gl.ticks
}
