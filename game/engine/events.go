package engine

// EventType identifies what happened during an intent
type EventType string

const (
	EventStarted     EventType = "started"
	EventOpened      EventType = "opened"
	EventFlagged     EventType = "flagged"
	EventUnflagged   EventType = "unflagged"
	EventAutoFlagged EventType = "auto_flagged"
	EventWon         EventType = "won"
	EventLost        EventType = "lost"
	EventReset       EventType = "reset"
	EventGodMode     EventType = "god_mode"
)

// Event is a typed notification for presentation observers
type Event struct {
	Type    EventType `json:"type"`
	Cells   []int     `json:"cells,omitempty"`
	Moves   int       `json:"moves"`
	Elapsed int       `json:"elapsed"`
	Message string    `json:"message,omitempty"`
}

// emit records the event on the delta and forwards it to the observer
// channel without ever blocking the engine
func (e *GameEngine) emit(d *Delta, ev Event) {
	ev.Moves = e.moves
	ev.Elapsed = e.ElapsedSeconds()
	if d != nil {
		d.Events = append(d.Events, ev)
	}
	if e.events == nil {
		return
	}
	select {
	case e.events <- ev:
	default:
	}
}
