package services

// Event types on the streaming wire. A stream is zero or more status
// and token events followed by exactly one done or error event.
const (
	EventStatus = "status"
	EventToken  = "token"
	EventDone   = "done"
	EventError  = "error"
)

// Event is one record on the streaming wire.
type Event struct {
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`
}

// Emitter delivers events to the caller strictly in emission order.
// An Emit error means the caller is gone; the pipeline stops.
type Emitter interface {
	Emit(ev Event) error
}

// EmitterFunc adapts a function to the Emitter interface.
type EmitterFunc func(ev Event) error

func (f EmitterFunc) Emit(ev Event) error { return f(ev) }
