package input

// InputMode mirrors the session phase for parser context
// Kept in sync by mode.Router via SetMode()
type InputMode uint8

const (
	ModeDialogue InputMode = iota // text, settle and tap-to-continue phases
	ModeChoice                    // buttons visible
	ModeHalted                    // load failure, only quit is accepted
)

func (m InputMode) String() string {
	switch m {
	case ModeChoice:
		return "choice"
	case ModeHalted:
		return "halted"
	}
	return "dialogue"
}
