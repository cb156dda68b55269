package steering

import (
	"fmt"
	"math"

	"github.com/1siamBot/steering-playground/engine/vecmath"
)

// GoalKind selects the steering rule a Goal applies
type GoalKind uint8

const (
	GoalSeek GoalKind = iota
	GoalSeparate
	GoalStop
)

func (k GoalKind) String() string {
	switch k {
	case GoalSeek:
		return "seek"
	case GoalSeparate:
		return "separate"
	case GoalStop:
		return "stop"
	default:
		return fmt.Sprintf("GoalKind(%d)", uint8(k))
	}
}

// FullCircle as a Separate max angle disables the view-cone filter
const FullCircle = 2 * math.Pi

// minSeparation stands in for the distance to a coincident neighbor
const minSeparation = 1e-6

// Goal is a steering rule. Goals are compared by identity, so one Goal
// value can be shared by many behaviors and re-weighted in each.
type Goal struct {
	Kind GoalKind

	// Seek
	Target AgentID

	// Separate
	From        []AgentID
	MaxDistance float64
	MaxAngle    float64 // full width of the view cone, radians
}

// SeekGoal steers toward the current position of target
func SeekGoal(target AgentID) *Goal {
	return &Goal{Kind: GoalSeek, Target: target}
}

// StopGoal brakes the agent to rest
func StopGoal() *Goal {
	return &Goal{Kind: GoalStop}
}

// SeparateGoal steers away from the listed agents when they are closer than
// maxDistance and inside the view cone of width maxAngle around the heading.
func SeparateGoal(from []AgentID, maxDistance, maxAngle float64) (*Goal, error) {
	if !(maxDistance >= 0) {
		return nil, fmt.Errorf("%w: separate max distance %v must not be negative", ErrInvalidParameter, maxDistance)
	}
	if !(maxAngle >= 0) {
		return nil, fmt.Errorf("%w: separate max angle %v must not be negative", ErrInvalidParameter, maxAngle)
	}
	ids := make([]AgentID, len(from))
	copy(ids, from)
	return &Goal{Kind: GoalSeparate, From: ids, MaxDistance: maxDistance, MaxAngle: maxAngle}, nil
}

func (g *Goal) String() string {
	switch g.Kind {
	case GoalSeek:
		return fmt.Sprintf("seek(%d)", g.Target)
	case GoalSeparate:
		return fmt.Sprintf("separate(%v, %.1f, %.2f)", g.From, g.MaxDistance, g.MaxAngle)
	default:
		return g.Kind.String()
	}
}

// Evaluate returns the steering force this goal wants for self. Ids that
// the roster cannot resolve are skipped.
func (g *Goal) Evaluate(self State, roster Roster) vecmath.Vec2 {
	switch g.Kind {
	case GoalSeek:
		return seek(self, roster, g.Target)
	case GoalSeparate:
		return separate(self, roster, g.From, g.MaxDistance, g.MaxAngle)
	case GoalStop:
		return stop(self)
	}
	return vecmath.Vec2{}
}

func seek(self State, roster Roster, target AgentID) vecmath.Vec2 {
	t, ok := roster.Lookup(target)
	if !ok || t.ID == self.ID {
		return vecmath.Vec2{}
	}
	return t.Position.Sub(self.Position).Normalize().Scale(self.MaxAcceleration)
}

func separate(self State, roster Roster, from []AgentID, maxDistance, maxAngle float64) vecmath.Vec2 {
	facing := headingVector(self)
	checkAngle := maxAngle < FullCircle
	var sum vecmath.Vec2
	for _, id := range from {
		if id == self.ID {
			continue
		}
		o, ok := roster.Lookup(id)
		if !ok {
			continue
		}
		delta := o.Position.Sub(self.Position)
		d := delta.Len()
		if d >= maxDistance {
			continue
		}
		if checkAngle && d > minSeparation && vecmath.AngleBetween(facing, delta) > maxAngle/2 {
			continue
		}
		if d < minSeparation {
			sum = sum.Add(facing.Neg().Scale(1 / minSeparation))
			continue
		}
		// unit away vector scaled by 1/d
		sum = sum.Add(delta.Scale(-1 / (d * d)))
	}
	if sum.IsZero() {
		return vecmath.Vec2{}
	}
	return sum.Normalize().Scale(self.MaxAcceleration)
}

func stop(self State) vecmath.Vec2 {
	if self.MaxSpeed <= 0 {
		return vecmath.Vec2{}
	}
	return self.Velocity.Scale(-self.MaxAcceleration / self.MaxSpeed)
}

func headingVector(s State) vecmath.Vec2 {
	if !s.Velocity.IsZero() {
		return s.Velocity.Normalize()
	}
	return vecmath.FromAngle(s.Heading)
}
