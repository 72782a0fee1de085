package constants

// Fixed UI Messages
const (
	// LoadFailureMessage replaces the dialogue when the story document cannot be loaded
	LoadFailureMessage = "讀取失敗"

	// LockedHintFallback is shown for a locked choice without its own hint
	LockedHintFallback = "條件未達成"

	// UnlockToastFormat takes the ending index and EndingCount
	UnlockToastFormat = "已解鎖結局 %d/%d"

	// GalleryHeader titles the ending gallery
	GalleryHeader = "結局蒐集進度"

	// LockedChoicePrefix marks a locked choice button
	LockedChoicePrefix = "🔒 "

	// ContinueHint is drawn on title covers
	ContinueHint = "— 點擊或按空白鍵繼續 —"

	// QuitHint accompanies the load failure message
	QuitHint = "按 Esc 或 q 離開"

	// Status bar labels
	StatusBackground = "場景"
	StatusCharacter  = "角色"
	StatusIdealism   = "理想"
	StatusAlienation = "疏離"
)

// UI Layout
const (
	// StatusBarHeight is the top row holding assets and affinity
	StatusBarHeight = 1

	// DialogueBoxHeight is the bordered box at the bottom, including borders
	DialogueBoxHeight = 8

	// DialogueMargin is the horizontal inset of the dialogue box
	DialogueMargin = 2

	// ChoiceButtonWidth is the maximum width of a choice button
	ChoiceButtonWidth = 60

	// MaxNumberedChoices is the highest choice reachable by digit keys
	MaxNumberedChoices = 9
)

// Indicator glyphs
const (
	MoreIndicator  = '▼'
	TypingCursor   = '▌'
	AlertIcon      = "⚠ "
	GalleryLocked  = "🔒"
	GalleryUnknown = "???"
)
