package steering

import (
	"math"
	"testing"

	"github.com/1siamBot/steering-playground/engine/vecmath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func state(id AgentID, x, y float64) State {
	return State{ID: id, Position: vecmath.V2(x, y), MaxSpeed: 100, MaxAcceleration: 50, Radius: 10}
}

func rosterOf(states ...State) snapshot {
	r := make(snapshot, len(states))
	for _, s := range states {
		r[s.ID] = s
	}
	return r
}

func TestSeekPointsAtTarget(t *testing.T) {
	self := state(1, 0, 0)
	target := state(2, 30, 40)
	f := SeekGoal(2).Evaluate(self, rosterOf(self, target))
	assert.InDelta(t, 50, f.Len(), 1e-9)
	assert.InDelta(t, 30.0, f.X, 1e-9)
	assert.InDelta(t, 40.0, f.Y, 1e-9)
}

func TestSeekMissingTargetIsZero(t *testing.T) {
	self := state(1, 0, 0)
	assert.Equal(t, vecmath.Vec2{}, SeekGoal(9).Evaluate(self, rosterOf(self)))
	assert.Equal(t, vecmath.Vec2{}, SeekGoal(1).Evaluate(self, rosterOf(self)))
}

func TestStopOpposesVelocity(t *testing.T) {
	self := state(1, 0, 0)
	self.Velocity = vecmath.V2(40, -30)
	f := StopGoal().Evaluate(self, rosterOf(self))
	assert.InDelta(t, -20, f.X, 1e-9)
	assert.InDelta(t, 15, f.Y, 1e-9)
	assert.LessOrEqual(t, f.Len(), self.MaxAcceleration)
}

func TestSeparateWithoutNeighborsIsZero(t *testing.T) {
	self := state(1, 0, 0)
	far := state(2, 150, 0)
	g, err := SeparateGoal([]AgentID{2}, 100, FullCircle)
	require.NoError(t, err)
	assert.Equal(t, vecmath.Vec2{}, g.Evaluate(self, rosterOf(self, far)))

	empty, err := SeparateGoal(nil, 100, FullCircle)
	require.NoError(t, err)
	assert.Equal(t, vecmath.Vec2{}, empty.Evaluate(self, rosterOf(self, far)))
}

func TestSeparatePushesAway(t *testing.T) {
	self := state(1, 0, 0)
	near := state(2, 50, 0)
	g, err := SeparateGoal([]AgentID{2}, 100, FullCircle)
	require.NoError(t, err)
	f := g.Evaluate(self, rosterOf(self, near))
	assert.InDelta(t, -50, f.X, 1e-9)
	assert.InDelta(t, 0, f.Y, 1e-9)
}

func TestSeparateWeightsCloserNeighborsMore(t *testing.T) {
	self := state(1, 0, 0)
	near := state(2, 10, 0)
	farther := state(3, 0, 80)
	g, err := SeparateGoal([]AgentID{2, 3}, 100, FullCircle)
	require.NoError(t, err)
	f := g.Evaluate(self, rosterOf(self, near, farther))
	assert.InDelta(t, 50, f.Len(), 1e-9)
	assert.Less(t, f.X, 0.0)
	assert.Less(t, f.Y, 0.0)
	assert.Greater(t, math.Abs(f.X), math.Abs(f.Y))
}

func TestSeparateViewCone(t *testing.T) {
	self := state(1, 0, 0)
	self.Heading = 0
	behind := state(2, -20, 0)
	ahead := state(3, 20, 0)

	narrow, err := SeparateGoal([]AgentID{2}, 100, math.Pi/2)
	require.NoError(t, err)
	assert.Equal(t, vecmath.Vec2{}, narrow.Evaluate(self, rosterOf(self, behind)))

	narrowAhead, err := SeparateGoal([]AgentID{3}, 100, math.Pi/2)
	require.NoError(t, err)
	assert.InDelta(t, -50, narrowAhead.Evaluate(self, rosterOf(self, ahead)).X, 1e-9)

	full, err := SeparateGoal([]AgentID{2}, 100, FullCircle)
	require.NoError(t, err)
	assert.InDelta(t, 50, full.Evaluate(self, rosterOf(self, behind)).X, 1e-9)
}

func TestSeparateSkipsStaleAndSelf(t *testing.T) {
	self := state(1, 0, 0)
	near := state(2, 0, 10)
	g, err := SeparateGoal([]AgentID{1, 7, 2}, 100, FullCircle)
	require.NoError(t, err)
	f := g.Evaluate(self, rosterOf(self, near))
	assert.InDelta(t, 0, f.X, 1e-9)
	assert.InDelta(t, -50, f.Y, 1e-9)
}

func TestSeparateCoincidentNeighborBacksOff(t *testing.T) {
	self := state(1, 5, 5)
	self.Heading = math.Pi / 2
	twin := state(2, 5, 5)
	g, err := SeparateGoal([]AgentID{2}, 100, FullCircle)
	require.NoError(t, err)
	f := g.Evaluate(self, rosterOf(self, twin))
	assert.InDelta(t, 0, f.X, 1e-9)
	assert.InDelta(t, -50, f.Y, 1e-9)
}

func TestSeparateGoalRejectsNegativeParameters(t *testing.T) {
	_, err := SeparateGoal(nil, -1, FullCircle)
	assert.ErrorIs(t, err, ErrInvalidParameter)
	_, err = SeparateGoal(nil, 10, -0.5)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestSeparateGoalCopiesIDs(t *testing.T) {
	ids := []AgentID{2}
	g, err := SeparateGoal(ids, 100, FullCircle)
	require.NoError(t, err)
	ids[0] = 9
	assert.Equal(t, []AgentID{2}, g.From)
}
