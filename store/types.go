package store

import "github.com/wippyai/wcp-tools/waveform"

// Handle identifies an open waveform. Handle 0 is reserved and always invalid.
type Handle uint32

// Format names the input syntax a waveform was read from.
type Format string

const (
	FormatWCP Format = "wcp"
	FormatVCD Format = "vcd"
)

// EventType distinguishes store lifecycle notifications.
type EventType uint8

const (
	EventOpened EventType = iota
	EventClosed
)

func (t EventType) String() string {
	switch t {
	case EventOpened:
		return "opened"
	case EventClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// MarshalText renders the event type by name in JSON payloads.
func (t EventType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Event is sent to observers after a waveform is opened or closed.
type Event struct {
	Name   string    `json:"name"`
	Handle Handle    `json:"handle"`
	Type   EventType `json:"type"`
}

// Observer receives store lifecycle events. Calls happen outside the store
// lock, so observers may call back into the store.
type Observer interface {
	OnStoreEvent(Event)
}

// Info summarizes one open waveform.
type Info struct {
	Header  waveform.Header `json:"header"`
	Name    string          `json:"name"`
	Format  Format          `json:"format"`
	Handle  Handle          `json:"handle"`
	Signals int             `json:"signals"`
	Changes int             `json:"changes"`
	EndTime uint64          `json:"end_time"`
}
