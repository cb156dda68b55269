package steering

import (
	"fmt"
	"math"
	"sort"

	"github.com/1siamBot/steering-playground/engine/vecmath"
)

// System owns a set of agents and advances them in fixed steps.
// It is not safe for concurrent use; mutate it only between ticks.
type System struct {
	agents    map[AgentID]*Agent
	order     []AgentID
	slot      map[AgentID]int // index into order
	nextID    AgentID
	tickCount uint64

	// per-tick scratch
	forces []vecmath.Vec2
}

// NewSystem creates an empty steering system
func NewSystem() *System {
	return &System{
		agents: make(map[AgentID]*Agent),
		slot:   make(map[AgentID]int),
	}
}

// AddAgent registers a and assigns its id
func (s *System) AddAgent(a *Agent) (AgentID, error) {
	if a == nil {
		return 0, fmt.Errorf("%w: nil agent", ErrInvalidParameter)
	}
	if a.id != 0 {
		return 0, fmt.Errorf("%w: agent %d already registered", ErrInvalidParameter, a.id)
	}
	s.nextID++
	a.id = s.nextID
	s.agents[a.id] = a
	s.slot[a.id] = len(s.order)
	s.order = append(s.order, a.id)
	return a.id, nil
}

// RemoveAgent drops the agent with id. Goals that still reference it skip
// it from then on. Returns false if the id is unknown.
func (s *System) RemoveAgent(id AgentID) bool {
	i, ok := s.slot[id]
	if !ok {
		return false
	}
	last := len(s.order) - 1
	if i != last {
		moved := s.order[last]
		s.order[i] = moved
		s.slot[moved] = i
	}
	s.order = s.order[:last]
	s.agents[id].id = 0
	delete(s.slot, id)
	delete(s.agents, id)
	return true
}

// Agent returns a snapshot of one agent
func (s *System) Agent(id AgentID) (State, bool) {
	a, ok := s.agents[id]
	if !ok {
		return State{}, false
	}
	return a.State(), true
}

// Agents returns snapshots of all agents ordered by id
func (s *System) Agents() []State {
	out := make([]State, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.agents[id].State())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of registered agents
func (s *System) Len() int { return len(s.order) }

// TickCount returns the number of completed ticks
func (s *System) TickCount() uint64 { return s.tickCount }

// SetPosition teleports an agent, typically one driven by pointer input
func (s *System) SetPosition(id AgentID, p vecmath.Vec2) error {
	a, ok := s.agents[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownAgent, id)
	}
	a.SetPosition(p)
	return nil
}

// SetBehavior attaches b to the agent, replacing any previous behavior
func (s *System) SetBehavior(id AgentID, b *Behavior) error {
	a, ok := s.agents[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownAgent, id)
	}
	a.SetBehavior(b)
	return nil
}

// Behavior returns the agent's behavior, which may be nil
func (s *System) Behavior(id AgentID) (*Behavior, bool) {
	a, ok := s.agents[id]
	if !ok {
		return nil, false
	}
	return a.behavior, true
}

// SetGoalWeight sets the weight of goal in the agent's behavior, creating
// the behavior if the agent has none.
func (s *System) SetGoalWeight(id AgentID, goal *Goal, weight float64) error {
	a, ok := s.agents[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownAgent, id)
	}
	b := a.behavior
	if b == nil {
		b = NewBehavior()
	}
	if err := b.SetWeight(goal, weight); err != nil {
		return err
	}
	a.behavior = b
	return nil
}

// Tick advances every agent that has a behavior by dt seconds.
// All behaviors read the start-of-tick state, so the result does not depend
// on iteration order. dt == 0 is a no-op.
func (s *System) Tick(dt float64) error {
	if dt < 0 || math.IsNaN(dt) {
		return fmt.Errorf("%w: tick delta %v", ErrInvalidParameter, dt)
	}
	if dt == 0 {
		return nil
	}
	s.tick(dt, s.order)
	return nil
}

func (s *System) tick(dt float64, order []AgentID) {
	roster := make(snapshot, len(order))
	for _, id := range order {
		roster[id] = s.agents[id].State()
	}

	if cap(s.forces) < len(order) {
		s.forces = make([]vecmath.Vec2, len(order))
	}
	forces := s.forces[:len(order)]
	for i, id := range order {
		a := s.agents[id]
		if a.behavior == nil {
			forces[i] = vecmath.Vec2{}
			continue
		}
		forces[i] = a.behavior.Evaluate(roster[id], roster)
	}

	for i, id := range order {
		a := s.agents[id]
		if a.behavior == nil {
			continue
		}
		a.Integrate(forces[i], dt)
	}
	s.tickCount++
}
