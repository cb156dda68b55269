package core

// Event is something the simulation reports to the host
type Event struct {
	Type    EventType
	Tick    uint64
	Payload any
}

type EventType uint16

const (
	EvtAgentAdded EventType = iota
	EvtAgentRemoved
	EvtModeChanged
	EvtTargetMoved
)

func (t EventType) String() string {
	switch t {
	case EvtAgentAdded:
		return "agent_added"
	case EvtAgentRemoved:
		return "agent_removed"
	case EvtModeChanged:
		return "mode_changed"
	case EvtTargetMoved:
		return "target_moved"
	default:
		return "unknown"
	}
}

// EventBus dispatches events to listeners
type EventBus struct {
	listeners map[EventType][]EventHandler
	queue     []Event
}

type EventHandler func(e Event)

func NewEventBus() *EventBus {
	return &EventBus{
		listeners: make(map[EventType][]EventHandler),
	}
}

// On registers a handler for an event type
func (eb *EventBus) On(t EventType, h EventHandler) {
	eb.listeners[t] = append(eb.listeners[t], h)
}

// Emit queues an event for dispatch
func (eb *EventBus) Emit(e Event) {
	eb.queue = append(eb.queue, e)
}

// Pending returns the number of queued events
func (eb *EventBus) Pending() int {
	return len(eb.queue)
}

// Dispatch processes all queued events in emission order. Events emitted
// by handlers are delivered on the next Dispatch.
func (eb *EventBus) Dispatch() {
	queue := eb.queue
	eb.queue = nil
	for _, e := range queue {
		for _, h := range eb.listeners[e.Type] {
			h(e)
		}
	}
}
