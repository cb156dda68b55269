package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// PointerState merges the left mouse button and the first active touch
// into a single pointer, tracked per frame.
type PointerState struct {
	X, Y         int
	Down         bool
	JustPressed  bool
	JustReleased bool
	Moved        bool

	touch    ebiten.TouchID
	touching bool
	touchBuf []ebiten.TouchID
}

func NewPointerState() *PointerState {
	return &PointerState{}
}

// Update should be called every frame
func (s *PointerState) Update() {
	prevX, prevY := s.X, s.Y

	if s.updateTouch() {
		s.Moved = s.X != prevX || s.Y != prevY
		return
	}

	s.X, s.Y = ebiten.CursorPosition()
	s.JustPressed = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	s.JustReleased = inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)
	s.Down = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	s.Moved = s.X != prevX || s.Y != prevY
}

// updateTouch follows one touch from press to release; it reports whether
// touch input drove the pointer this frame.
func (s *PointerState) updateTouch() bool {
	if s.touching {
		if inpututil.IsTouchJustReleased(s.touch) {
			s.touching = false
			s.Down = false
			s.JustPressed = false
			s.JustReleased = true
			return true
		}
		s.X, s.Y = ebiten.TouchPosition(s.touch)
		s.JustPressed = false
		s.JustReleased = false
		return true
	}

	s.touchBuf = inpututil.AppendJustPressedTouchIDs(s.touchBuf[:0])
	if len(s.touchBuf) == 0 {
		return false
	}
	s.touch = s.touchBuf[0]
	s.touching = true
	s.X, s.Y = ebiten.TouchPosition(s.touch)
	s.Down = true
	s.JustPressed = true
	s.JustReleased = false
	return true
}
