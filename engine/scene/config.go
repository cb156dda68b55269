package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/1siamBot/steering-playground/engine/steering"
)

// ErrInvalidConfig is returned by Config.Validate
var ErrInvalidConfig = errors.New("scene: invalid config")

// Config describes the separation scene
type Config struct {
	Width, Height float64

	AgentRadius       float64
	MaxSpeed          float64
	MaxAcceleration   float64
	PlayerSpeedFactor float64 // player max speed = MaxSpeed * factor

	FriendOffset float64 // friends start this far left and right of the centre

	SeparationDistance float64
	SeparationAngle    float64 // view cone width, radians; >= 2π disables it
	SeparationWeight   float64

	Drag float64 // velocity damping per second; 0 lets agents coast

	TickRate float64 // ticks per second, >= 1
}

// DefaultConfig mirrors the classic separation playground page
func DefaultConfig() Config {
	return Config{
		Width:              600,
		Height:             800,
		AgentRadius:        40,
		MaxSpeed:           100,
		MaxAcceleration:    50,
		PlayerSpeedFactor:  1.2,
		FriendOffset:       150,
		SeparationDistance: 100,
		SeparationAngle:    steering.FullCircle,
		SeparationWeight:   100,
		TickRate:           60,
	}
}

// Validate checks every field, reporting the first problem
func (c Config) Validate() error {
	positive := []struct {
		name string
		v    float64
	}{
		{"width", c.Width},
		{"height", c.Height},
		{"agent radius", c.AgentRadius},
		{"max speed", c.MaxSpeed},
		{"player speed factor", c.PlayerSpeedFactor},
	}
	for _, p := range positive {
		if !(p.v > 0) || math.IsInf(p.v, 0) {
			return fmt.Errorf("%w: %s must be positive and finite, got %v", ErrInvalidConfig, p.name, p.v)
		}
	}
	nonNegative := []struct {
		name string
		v    float64
	}{
		{"max acceleration", c.MaxAcceleration},
		{"friend offset", c.FriendOffset},
		{"separation distance", c.SeparationDistance},
		{"separation angle", c.SeparationAngle},
		{"separation weight", c.SeparationWeight},
		{"drag", c.Drag},
	}
	for _, p := range nonNegative {
		if !(p.v >= 0) || math.IsInf(p.v, 0) {
			return fmt.Errorf("%w: %s must be non-negative and finite, got %v", ErrInvalidConfig, p.name, p.v)
		}
	}
	// the host loop runs at whole ticks per second
	if !(c.TickRate >= 1) || math.IsInf(c.TickRate, 0) {
		return fmt.Errorf("%w: tick rate must be at least 1 and finite, got %v", ErrInvalidConfig, c.TickRate)
	}
	return nil
}
