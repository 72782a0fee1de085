package constants

// Reserved scene identifiers
const (
	SceneTitle      = "Chapter_00_Title"
	SceneChapterOne = "Chapter_01_Title"
	SceneFirstEvent = "Event_01"
	SceneGallery    = "Gallery_View"
)

// resetScenes zero the affinity counters on entry
var resetScenes = map[string]struct{}{
	SceneTitle:      {},
	SceneChapterOne: {},
	SceneFirstEvent: {},
}

// IsResetScene reports whether entering id resets the affinity counters
func IsResetScene(id string) bool {
	_, ok := resetScenes[id]
	return ok
}

// Speaker sentinels
const (
	SpeakerChapter     = "【章節】"
	SpeakerSystem      = "【系統】"
	SpeakerSystemAlert = "【系統警示】"
)

// ThoughtMarkers select the inner-monologue style when contained in a speaker name
var ThoughtMarkers = []string{"內心", "獨白"}

// EllipsisChoice is the label of a choice that continues silently on tap
const EllipsisChoice = "..."

// EndingCount is the number of collectible endings
const EndingCount = 4

// EndingsStorageKey is the persistence key of the ending registry
const EndingsStorageKey = "fred_endings"

// Affinity variable names bound in choice conditions
const (
	VarIdealism   = "idealism"
	VarAlienation = "alienation"
)

// ConditionVars lists every identifier a condition may reference
var ConditionVars = []string{VarIdealism, VarAlienation}
