package steering

import (
	"fmt"
	"math"

	"github.com/1siamBot/steering-playground/engine/vecmath"
)

// AgentID identifies an agent inside a System. IDs are never reused.
type AgentID uint64

// RestSpeed is the speed below which an agent is considered stopped
const RestSpeed = 1e-3

// AgentConfig holds the construction parameters of an agent
type AgentConfig struct {
	Position        vecmath.Vec2
	Velocity        vecmath.Vec2
	Heading         float64 // radians, 0 = +X
	MaxSpeed        float64 // > 0
	MaxAcceleration float64 // >= 0
	Radius          float64 // > 0
	Drag            float64 // >= 0, fraction of velocity shed per second
}

// Agent is a point mass under steering control
type Agent struct {
	id       AgentID
	pos      vecmath.Vec2
	vel      vecmath.Vec2
	heading  float64
	maxSpeed float64
	maxAccel float64
	radius   float64
	drag     float64
	behavior *Behavior
}

// NewAgent validates cfg and returns an agent that is not yet part of any system.
// An initial velocity above MaxSpeed is clamped.
func NewAgent(cfg AgentConfig) (*Agent, error) {
	switch {
	case !(cfg.Radius > 0):
		return nil, fmt.Errorf("%w: radius %v must be positive", ErrInvalidParameter, cfg.Radius)
	case !(cfg.MaxSpeed > 0):
		return nil, fmt.Errorf("%w: max speed %v must be positive", ErrInvalidParameter, cfg.MaxSpeed)
	case !(cfg.MaxAcceleration >= 0):
		return nil, fmt.Errorf("%w: max acceleration %v must not be negative", ErrInvalidParameter, cfg.MaxAcceleration)
	case !(cfg.Drag >= 0):
		return nil, fmt.Errorf("%w: drag %v must not be negative", ErrInvalidParameter, cfg.Drag)
	case math.IsInf(cfg.Radius, 0) || math.IsInf(cfg.MaxSpeed, 0) || math.IsInf(cfg.MaxAcceleration, 0) || math.IsInf(cfg.Drag, 0):
		return nil, fmt.Errorf("%w: limits must be finite", ErrInvalidParameter)
	}
	a := &Agent{
		pos:      cfg.Position,
		vel:      cfg.Velocity.Limit(cfg.MaxSpeed),
		heading:  cfg.Heading,
		maxSpeed: cfg.MaxSpeed,
		maxAccel: cfg.MaxAcceleration,
		radius:   cfg.Radius,
		drag:     cfg.Drag,
	}
	if !a.vel.IsZero() {
		a.heading = a.vel.Angle()
	}
	return a, nil
}

func (a *Agent) ID() AgentID                { return a.id }
func (a *Agent) Position() vecmath.Vec2     { return a.pos }
func (a *Agent) Velocity() vecmath.Vec2     { return a.vel }
func (a *Agent) Heading() float64           { return a.heading }
func (a *Agent) MaxSpeed() float64          { return a.maxSpeed }
func (a *Agent) MaxAcceleration() float64   { return a.maxAccel }
func (a *Agent) Radius() float64            { return a.radius }
func (a *Agent) Drag() float64              { return a.drag }
func (a *Agent) Behavior() *Behavior        { return a.behavior }
func (a *Agent) SetBehavior(b *Behavior)    { a.behavior = b }
func (a *Agent) SetPosition(p vecmath.Vec2) { a.pos = p }

// State returns a value copy of the agent's kinematic state
func (a *Agent) State() State {
	return State{
		ID:              a.id,
		Position:        a.pos,
		Velocity:        a.vel,
		Heading:         a.heading,
		MaxSpeed:        a.maxSpeed,
		MaxAcceleration: a.maxAccel,
		Radius:          a.radius,
	}
}

// Integrate applies force for dt seconds. The velocity change is capped at
// MaxAcceleration*dt and the resulting speed at MaxSpeed. dt <= 0 is a no-op.
// Drag damps the velocity before the force is applied; with zero drag an
// agent that receives no force keeps coasting.
func (a *Agent) Integrate(force vecmath.Vec2, dt float64) {
	if !(dt > 0) {
		return
	}
	if a.drag > 0 {
		a.vel = a.vel.Scale(math.Max(0, 1-a.drag*dt))
	}
	dv := force.Scale(dt).Limit(a.maxAccel * dt)
	a.vel = a.vel.Add(dv).Limit(a.maxSpeed)
	if a.vel.LenSq() < RestSpeed*RestSpeed {
		a.vel = vecmath.Vec2{}
	}
	a.pos = a.pos.Add(a.vel.Scale(dt))
	if !a.vel.IsZero() {
		a.heading = a.vel.Angle()
	}
}

// State is a read-only snapshot of one agent, used for goal evaluation and
// by renderers.
type State struct {
	ID              AgentID
	Position        vecmath.Vec2
	Velocity        vecmath.Vec2
	Heading         float64
	MaxSpeed        float64
	MaxAcceleration float64
	Radius          float64
}

// Roster resolves agent ids to start-of-tick snapshots
type Roster interface {
	Lookup(id AgentID) (State, bool)
}

// snapshot is the Roster a System builds at the start of each tick
type snapshot map[AgentID]State

func (s snapshot) Lookup(id AgentID) (State, bool) {
	st, ok := s[id]
	return st, ok
}
