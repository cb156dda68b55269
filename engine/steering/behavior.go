package steering

import (
	"fmt"

	"github.com/1siamBot/steering-playground/engine/vecmath"
)

type weightedGoal struct {
	goal   *Goal
	weight float64
}

// Behavior is a weighted set of goals owned by one agent
type Behavior struct {
	goals []weightedGoal
	index map[*Goal]int
}

// NewBehavior returns an empty behavior
func NewBehavior() *Behavior {
	return &Behavior{index: make(map[*Goal]int)}
}

// SetWeight inserts goal or replaces its weight. Negative weights are rejected.
func (b *Behavior) SetWeight(goal *Goal, weight float64) error {
	if goal == nil {
		return fmt.Errorf("%w: nil goal", ErrInvalidParameter)
	}
	if !(weight >= 0) {
		return fmt.Errorf("%w: weight %v for %s must not be negative", ErrInvalidParameter, weight, goal)
	}
	if i, ok := b.index[goal]; ok {
		b.goals[i].weight = weight
		return nil
	}
	b.index[goal] = len(b.goals)
	b.goals = append(b.goals, weightedGoal{goal: goal, weight: weight})
	return nil
}

// Weight returns the weight of goal and whether the behavior holds it
func (b *Behavior) Weight(goal *Goal) (float64, bool) {
	i, ok := b.index[goal]
	if !ok {
		return 0, false
	}
	return b.goals[i].weight, true
}

// Remove drops goal from the behavior
func (b *Behavior) Remove(goal *Goal) {
	i, ok := b.index[goal]
	if !ok {
		return
	}
	copy(b.goals[i:], b.goals[i+1:])
	b.goals = b.goals[:len(b.goals)-1]
	delete(b.index, goal)
	for j := i; j < len(b.goals); j++ {
		b.index[b.goals[j].goal] = j
	}
}

// Goals returns the goals in insertion order
func (b *Behavior) Goals() []*Goal {
	out := make([]*Goal, len(b.goals))
	for i, wg := range b.goals {
		out[i] = wg.goal
	}
	return out
}

// Len returns the number of goals
func (b *Behavior) Len() int { return len(b.goals) }

// Evaluate returns the weighted sum of every goal's force
func (b *Behavior) Evaluate(self State, roster Roster) vecmath.Vec2 {
	var force vecmath.Vec2
	for _, wg := range b.goals {
		if wg.weight == 0 {
			continue
		}
		force = force.Add(wg.goal.Evaluate(self, roster).Scale(wg.weight))
	}
	return force
}
