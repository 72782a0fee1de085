package engine

// Phase is the interaction state of a session
type Phase uint8

const (
	PhaseIdle            Phase = iota // no scene entered
	PhaseTyping                       // typewriter revealing a chunk
	PhaseAwaitingAdvance              // chunk done, more queued
	PhaseSettling                     // input ignored until the settle deadline
	PhaseAwaitingTap                  // tap runs the armed action
	PhaseChoosing                     // buttons visible
	PhaseEnded                        // terminal scene, nothing left to do
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseTyping:
		return "typing"
	case PhaseAwaitingAdvance:
		return "awaiting_advance"
	case PhaseSettling:
		return "settling"
	case PhaseAwaitingTap:
		return "awaiting_tap"
	case PhaseChoosing:
		return "choosing"
	case PhaseEnded:
		return "ended"
	}
	return "unknown"
}

// tapAction is what a tap does once settling finishes
type tapAction uint8

const (
	actionNone tapAction = iota
	actionExecuteFirst
	actionShowButtons
)
