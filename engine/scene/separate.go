package scene

import (
	"fmt"

	"github.com/1siamBot/steering-playground/engine/core"
	"github.com/1siamBot/steering-playground/engine/logging"
	"github.com/1siamBot/steering-playground/engine/steering"
	"github.com/1siamBot/steering-playground/engine/vecmath"
)

// Mode is the pointer-driven state of the scene
type Mode uint8

const (
	ModeIdle Mode = iota
	ModeSeeking
)

func (m Mode) String() string {
	if m == ModeSeeking {
		return "seeking"
	}
	return "idle"
}

// Role tells a renderer how to draw an agent
type Role uint8

const (
	RoleTracking Role = iota
	RolePlayer
	RoleFriend
)

// AgentView is what a renderer needs to draw one agent
type AgentView struct {
	steering.State
	Role Role
}

// Separate is the separation demo: the player seeks the pointer-driven
// tracking agent while friends keep their distance from the player.
type Separate struct {
	cfg    Config
	sys    *steering.System
	log    logging.Logger
	events *core.EventBus
	cmds   commandQueue

	tracking steering.AgentID
	player   steering.AgentID
	friends  []steering.AgentID

	seek     *steering.Goal
	stop     *steering.Goal
	separate *steering.Goal

	mode Mode
}

// NewSeparate builds the scene: a tracking agent and the player at the
// centre, and one friend on each side of it. events may be nil.
func NewSeparate(cfg Config, log logging.Logger, events *core.EventBus) (*Separate, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logging.NoOpLogger{}
	}
	if events == nil {
		events = core.NewEventBus()
	}
	s := &Separate{
		cfg:    cfg,
		sys:    steering.NewSystem(),
		log:    log.With("scene", "separation"),
		events: events,
		stop:   steering.StopGoal(),
	}
	centre := vecmath.V2(cfg.Width/2, cfg.Height/2)

	var err error
	if s.tracking, err = s.spawn(centre, cfg.MaxSpeed, RoleTracking); err != nil {
		return nil, err
	}
	s.seek = steering.SeekGoal(s.tracking)

	if s.player, err = s.spawn(centre, cfg.MaxSpeed*cfg.PlayerSpeedFactor, RolePlayer); err != nil {
		return nil, err
	}

	s.separate, err = steering.SeparateGoal([]steering.AgentID{s.player}, cfg.SeparationDistance, cfg.SeparationAngle)
	if err != nil {
		return nil, err
	}
	for _, dx := range []float64{-cfg.FriendOffset, cfg.FriendOffset} {
		if _, err := s.AddFriend(centre.Add(vecmath.V2(dx, 0))); err != nil {
			return nil, err
		}
	}

	s.applyMode(ModeIdle)
	return s, nil
}

func (s *Separate) spawn(pos vecmath.Vec2, maxSpeed float64, role Role) (steering.AgentID, error) {
	a, err := steering.NewAgent(steering.AgentConfig{
		Position:        pos,
		MaxSpeed:        maxSpeed,
		MaxAcceleration: s.cfg.MaxAcceleration,
		Radius:          s.cfg.AgentRadius,
		Drag:            s.cfg.Drag,
	})
	if err != nil {
		return 0, fmt.Errorf("spawn %s agent: %w", roleName(role), err)
	}
	id, err := s.sys.AddAgent(a)
	if err != nil {
		return 0, err
	}
	s.log.Debug("agent added", "id", id, "role", roleName(role), "x", pos.X, "y", pos.Y)
	s.events.Emit(core.Event{Type: core.EvtAgentAdded, Tick: s.sys.TickCount(), Payload: id})
	return id, nil
}

// AddFriend spawns a friend that keeps away from the player. It follows the
// current mode like every other agent with a behavior.
func (s *Separate) AddFriend(pos vecmath.Vec2) (steering.AgentID, error) {
	id, err := s.spawn(s.clamp(pos), s.cfg.MaxSpeed, RoleFriend)
	if err != nil {
		return 0, err
	}
	if err := s.sys.SetGoalWeight(id, s.separate, s.cfg.SeparationWeight); err != nil {
		return 0, err
	}
	s.friends = append(s.friends, id)
	s.weighAgent(id, s.mode)
	return id, nil
}

// RemoveFriend removes one friend. It reports false for ids that are not
// friends of this scene.
func (s *Separate) RemoveFriend(id steering.AgentID) bool {
	for i, f := range s.friends {
		if f != id {
			continue
		}
		s.friends = append(s.friends[:i], s.friends[i+1:]...)
		s.sys.RemoveAgent(id)
		s.log.Debug("agent removed", "id", id)
		s.events.Emit(core.Event{Type: core.EvtAgentRemoved, Tick: s.sys.TickCount(), Payload: id})
		return true
	}
	return false
}

// Queue records pointer input; it takes effect at the next tick boundary
func (s *Separate) Queue(t CmdType, pos vecmath.Vec2) {
	s.cmds.push(Command{Tick: s.sys.TickCount(), Type: t, Pos: pos})
}

// Tick applies queued input, then advances the simulation by dt
func (s *Separate) Tick(dt float64) error {
	for _, c := range s.cmds.drain() {
		s.apply(c)
	}
	return s.sys.Tick(dt)
}

func (s *Separate) apply(c Command) {
	s.log.Debug("pointer command",
		"type", c.Type.String(),
		"queued", c.Tick,
		"tick", s.sys.TickCount(),
		"x", c.Pos.X, "y", c.Pos.Y)
	switch c.Type {
	case CmdPointerDown:
		s.MoveTarget(c.Pos)
		s.SetSeeking(true)
	case CmdPointerMove:
		s.MoveTarget(c.Pos)
	case CmdPointerUp:
		s.SetSeeking(false)
	}
}

// MoveTarget places the tracking agent, clamped to the scene bounds
func (s *Separate) MoveTarget(pos vecmath.Vec2) {
	p := s.clamp(pos)
	if err := s.sys.SetPosition(s.tracking, p); err != nil {
		s.log.Error("move target", "err", err)
		return
	}
	s.events.Emit(core.Event{Type: core.EvtTargetMoved, Tick: s.sys.TickCount(), Payload: p})
}

// SetSeeking switches between seeking the target and braking to rest
func (s *Separate) SetSeeking(seeking bool) {
	next := ModeIdle
	if seeking {
		next = ModeSeeking
	}
	if next == s.mode {
		return
	}
	s.applyMode(next)
	s.log.Info("mode changed", "mode", next.String(), "tick", s.sys.TickCount())
	s.events.Emit(core.Event{Type: core.EvtModeChanged, Tick: s.sys.TickCount(), Payload: next})
}

// applyMode re-weights seek and stop on every agent that has a behavior
func (s *Separate) applyMode(m Mode) {
	s.mode = m
	s.weighAgent(s.player, m)
	for _, id := range s.friends {
		s.weighAgent(id, m)
	}
}

func (s *Separate) weighAgent(id steering.AgentID, m Mode) {
	seekW, stopW := 0.0, 1.0
	if m == ModeSeeking {
		seekW, stopW = 1, 0
	}
	if err := s.sys.SetGoalWeight(id, s.seek, seekW); err != nil {
		s.log.Error("set seek weight", "id", id, "err", err)
	}
	if err := s.sys.SetGoalWeight(id, s.stop, stopW); err != nil {
		s.log.Error("set stop weight", "id", id, "err", err)
	}
}

func (s *Separate) clamp(p vecmath.Vec2) vecmath.Vec2 {
	return vecmath.V2(clampf(p.X, 0, s.cfg.Width), clampf(p.Y, 0, s.cfg.Height))
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Name is the scene title shown by hosts
func (s *Separate) Name() string { return "SEPARATION" }

func (s *Separate) Config() Config             { return s.cfg }
func (s *Separate) Mode() Mode                 { return s.mode }
func (s *Separate) System() *steering.System   { return s.sys }
func (s *Separate) Player() steering.AgentID   { return s.player }
func (s *Separate) Tracking() steering.AgentID { return s.tracking }
func (s *Separate) PendingCommands() int       { return s.cmds.size() }
func (s *Separate) Friends() []steering.AgentID {
	return append([]steering.AgentID(nil), s.friends...)
}

// Agents returns every agent with its role, ordered by id
func (s *Separate) Agents() []AgentView {
	states := s.sys.Agents()
	out := make([]AgentView, 0, len(states))
	for _, st := range states {
		out = append(out, AgentView{State: st, Role: s.role(st.ID)})
	}
	return out
}

func (s *Separate) role(id steering.AgentID) Role {
	switch id {
	case s.tracking:
		return RoleTracking
	case s.player:
		return RolePlayer
	}
	return RoleFriend
}

func roleName(r Role) string {
	switch r {
	case RoleTracking:
		return "tracking"
	case RolePlayer:
		return "player"
	default:
		return "friend"
	}
}
