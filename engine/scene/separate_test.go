package scene

import (
	"bytes"
	"log/slog"
	"math"
	"testing"

	"github.com/1siamBot/steering-playground/engine/core"
	"github.com/1siamBot/steering-playground/engine/logging"
	"github.com/1siamBot/steering-playground/engine/steering"
	"github.com/1siamBot/steering-playground/engine/vecmath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frame = 1.0 / 60

func newScene(t *testing.T) *Separate {
	t.Helper()
	s, err := NewSeparate(DefaultConfig(), nil, nil)
	require.NoError(t, err)
	return s
}

func run(t *testing.T, s *Separate, ticks int) {
	t.Helper()
	for i := 0; i < ticks; i++ {
		require.NoError(t, s.Tick(frame))
	}
}

func agentState(t *testing.T, s *Separate, id steering.AgentID) steering.State {
	t.Helper()
	st, ok := s.System().Agent(id)
	require.True(t, ok)
	return st
}

func weights(t *testing.T, s *Separate, id steering.AgentID) (seek, stop float64) {
	t.Helper()
	beh, ok := s.System().Behavior(id)
	require.True(t, ok)
	require.NotNil(t, beh)
	seek, ok = beh.Weight(s.seek)
	require.True(t, ok)
	stop, ok = beh.Weight(s.stop)
	require.True(t, ok)
	return seek, stop
}

func TestNewSeparateLayout(t *testing.T) {
	s := newScene(t)
	cfg := s.Config()
	centre := vecmath.V2(cfg.Width/2, cfg.Height/2)

	views := s.Agents()
	require.Len(t, views, 4)
	assert.Equal(t, RoleTracking, views[0].Role)
	assert.Equal(t, RolePlayer, views[1].Role)
	assert.Equal(t, RoleFriend, views[2].Role)
	assert.Equal(t, RoleFriend, views[3].Role)

	player := agentState(t, s, s.Player())
	assert.Equal(t, centre, player.Position)
	assert.InDelta(t, 120, player.MaxSpeed, 1e-9)
	assert.Equal(t, 40.0, player.Radius)

	friends := s.Friends()
	require.Len(t, friends, 2)
	assert.Equal(t, centre.Add(vecmath.V2(-150, 0)), agentState(t, s, friends[0]).Position)
	assert.Equal(t, centre.Add(vecmath.V2(150, 0)), agentState(t, s, friends[1]).Position)
	assert.Equal(t, ModeIdle, s.Mode())
	assert.Equal(t, "SEPARATION", s.Name())
}

func TestNewSeparateRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"negative radius", func(c *Config) { c.AgentRadius = -1 }},
		{"nan max speed", func(c *Config) { c.MaxSpeed = math.NaN() }},
		{"negative acceleration", func(c *Config) { c.MaxAcceleration = -5 }},
		{"negative separation weight", func(c *Config) { c.SeparationWeight = -1 }},
		{"infinite distance", func(c *Config) { c.SeparationDistance = math.Inf(1) }},
		{"zero tick rate", func(c *Config) { c.TickRate = 0 }},
		{"fractional tick rate", func(c *Config) { c.TickRate = 0.4 }},
		{"infinite tick rate", func(c *Config) { c.TickRate = math.Inf(1) }},
		{"negative drag", func(c *Config) { c.Drag = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			s, err := NewSeparate(cfg, nil, nil)
			assert.Nil(t, s)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestModeWeights(t *testing.T) {
	s := newScene(t)
	for _, id := range append(s.Friends(), s.Player()) {
		seek, stop := weights(t, s, id)
		assert.Equal(t, 0.0, seek)
		assert.Equal(t, 1.0, stop)
	}

	s.SetSeeking(true)
	for _, id := range append(s.Friends(), s.Player()) {
		seek, stop := weights(t, s, id)
		assert.Equal(t, 1.0, seek)
		assert.Equal(t, 0.0, stop)
	}
	beh, ok := s.System().Behavior(s.Tracking())
	assert.True(t, ok)
	assert.Nil(t, beh)
}

func TestPointerCommandsApplyAtTickBoundary(t *testing.T) {
	s := newScene(t)
	target := vecmath.V2(300, 100)

	s.Queue(CmdPointerDown, target)
	assert.Equal(t, ModeIdle, s.Mode())
	assert.Equal(t, 1, s.PendingCommands())

	run(t, s, 1)
	assert.Equal(t, ModeSeeking, s.Mode())
	assert.Zero(t, s.PendingCommands())
	assert.Equal(t, target, agentState(t, s, s.Tracking()).Position)

	start := agentState(t, s, s.Player()).Position
	run(t, s, 120)
	moved := agentState(t, s, s.Player()).Position
	assert.Less(t, moved.Dist(target), start.Dist(target))

	s.Queue(CmdPointerMove, vecmath.V2(310, 90))
	s.Queue(CmdPointerUp, vecmath.V2(310, 90))
	run(t, s, 1)
	assert.Equal(t, ModeIdle, s.Mode())
	assert.Equal(t, vecmath.V2(310, 90), agentState(t, s, s.Tracking()).Position)
}

func TestPointerCommandsLogQueuedTick(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.Config{Level: slog.LevelDebug, Format: "text", Output: &buf})
	s, err := NewSeparate(DefaultConfig(), log, nil)
	require.NoError(t, err)

	run(t, s, 3)
	s.Queue(CmdPointerDown, vecmath.V2(300, 100))
	assert.NotContains(t, buf.String(), "pointer command")

	run(t, s, 1)
	assert.Contains(t, buf.String(), "pointer command")
	assert.Contains(t, buf.String(), "type=pointer_down")
	assert.Contains(t, buf.String(), "queued=3")
}

func TestDragBringsSceneToRest(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Drag = 2
	s, err := NewSeparate(cfg, nil, nil)
	require.NoError(t, err)

	s.Queue(CmdPointerDown, vecmath.V2(300, 100))
	run(t, s, 120)
	s.Queue(CmdPointerUp, vecmath.V2(300, 100))
	run(t, s, 60*20)

	for _, v := range s.Agents() {
		assert.True(t, v.Velocity.IsZero(), "%s still moving: %v", roleName(v.Role), v.Velocity)
	}
}

func TestIdlePlayerComesToRest(t *testing.T) {
	s := newScene(t)
	s.Queue(CmdPointerDown, vecmath.V2(300, 100))
	run(t, s, 90)
	require.Greater(t, agentState(t, s, s.Player()).Velocity.Len(), 0.0)

	s.Queue(CmdPointerUp, vecmath.V2(300, 100))
	run(t, s, 60*40)
	assert.Equal(t, vecmath.Vec2{}, agentState(t, s, s.Player()).Velocity)
}

func TestFriendBacksAwayFromPlayer(t *testing.T) {
	s := newScene(t)
	left := s.Friends()[0]
	start := agentState(t, s, left).Position

	s.Queue(CmdPointerDown, start)
	run(t, s, 180)

	now := agentState(t, s, left).Position
	assert.Less(t, now.X, start.X)
}

func TestMoveTargetClampsToBounds(t *testing.T) {
	s := newScene(t)
	s.MoveTarget(vecmath.V2(-50, 9000))
	assert.Equal(t, vecmath.V2(0, 800), agentState(t, s, s.Tracking()).Position)
}

func TestAddAndRemoveFriend(t *testing.T) {
	s := newScene(t)
	s.SetSeeking(true)

	id, err := s.AddFriend(vecmath.V2(100, 100))
	require.NoError(t, err)
	seek, stop := weights(t, s, id)
	assert.Equal(t, 1.0, seek)
	assert.Equal(t, 0.0, stop)
	assert.Len(t, s.Friends(), 3)

	assert.True(t, s.RemoveFriend(id))
	assert.False(t, s.RemoveFriend(id))
	assert.False(t, s.RemoveFriend(s.Player()))
	assert.Len(t, s.Friends(), 2)
	run(t, s, 10)
	assert.Len(t, s.Agents(), 4)
}

func TestSceneEmitsEvents(t *testing.T) {
	bus := core.NewEventBus()
	var added, modes []core.Event
	bus.On(core.EvtAgentAdded, func(e core.Event) { added = append(added, e) })
	bus.On(core.EvtModeChanged, func(e core.Event) { modes = append(modes, e) })

	s, err := NewSeparate(DefaultConfig(), nil, bus)
	require.NoError(t, err)
	run(t, s, 3)
	s.Queue(CmdPointerDown, vecmath.V2(10, 10))
	s.Queue(CmdPointerMove, vecmath.V2(20, 10))
	run(t, s, 1)
	bus.Dispatch()

	assert.Len(t, added, 4)
	require.Len(t, modes, 1)
	assert.Equal(t, ModeSeeking, modes[0].Payload)
	assert.Equal(t, uint64(3), modes[0].Tick)
}

func TestSceneLogsModeChanges(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.Config{Level: slog.LevelInfo, Format: "text", Output: &buf})
	s, err := NewSeparate(DefaultConfig(), log, nil)
	require.NoError(t, err)

	s.SetSeeking(true)
	s.SetSeeking(true)
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("mode changed")))
	assert.Contains(t, buf.String(), "mode=seeking")
	assert.Contains(t, buf.String(), "scene=separation")
}
