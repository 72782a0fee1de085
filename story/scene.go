package story

import (
	"encoding/json"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// AttributeChanges holds the affinity deltas applied when a choice executes
// Absent fields are zero
type AttributeChanges struct {
	Idealism   int `json:"idealism,omitempty"`
	Alienation int `json:"alienation,omitempty"`
}

// IsZero reports whether the choice leaves affinity untouched
func (a AttributeChanges) IsZero() bool {
	return a.Idealism == 0 && a.Alienation == 0
}

// Choice is one option offered at the end of a scene
type Choice struct {
	Text             string           `json:"text"`
	Condition        string           `json:"condition,omitempty"`
	Hint             string           `json:"hint,omitempty"`
	AttributeChanges AttributeChanges `json:"attribute_changes"`
	NextSceneID      string           `json:"next_scene_id,omitempty"`
}

// IsExternal reports whether the next id is a web link rather than a scene
func (c Choice) IsExternal() bool {
	return IsExternalLink(c.NextSceneID)
}

// IsExternalLink reports whether id names an http(s) URL
func IsExternalLink(id string) bool {
	return strings.HasPrefix(id, "http://") || strings.HasPrefix(id, "https://")
}

// Scene is one node of the story graph
type Scene struct {
	ID              string   `json:"scene_id"`
	Text            string   `json:"text,omitempty"`
	Speaker         string   `json:"speaker,omitempty"`
	BackgroundImage string   `json:"bg_img,omitempty"`
	CharacterImage  string   `json:"char_img,omitempty"`
	HideUI          bool     `json:"hide_ui,omitempty"`
	IsTitle         bool     `json:"is_title,omitempty"`
	Choices         []Choice `json:"choices,omitempty"`
}

// IsTerminal reports whether the scene offers no way forward
func (s *Scene) IsTerminal() bool {
	return len(s.Choices) == 0
}

// sceneDocument accepts the alternate key spellings found in story files
type sceneDocument struct {
	SceneID         string   `json:"scene_id"`
	ID              string   `json:"id"`
	Text            string   `json:"text"`
	Speaker         string   `json:"speaker"`
	BackgroundImage string   `json:"bg_img"`
	CharacterImage  string   `json:"char_img"`
	HideUI          bool     `json:"hide_ui"`
	HideUIDash      bool     `json:"hide-ui"`
	IsTitle         bool     `json:"is_title"`
	IsTitleCamel    bool     `json:"isTitle"`
	Choices         []Choice `json:"choices"`
}

func (s *Scene) UnmarshalJSON(data []byte) error {
	var doc sceneDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	id := doc.SceneID
	if id == "" {
		id = doc.ID
	}

	*s = Scene{
		ID:              id,
		Text:            doc.Text,
		Speaker:         doc.Speaker,
		BackgroundImage: doc.BackgroundImage,
		CharacterImage:  doc.CharacterImage,
		HideUI:          doc.HideUI || doc.HideUIDash,
		IsTitle:         doc.IsTitle || doc.IsTitleCamel,
		Choices:         doc.Choices,
	}
	return nil
}

// normalize rewrites all display text to NFC so grapheme boundaries are stable
func (s *Scene) normalize() {
	s.Text = norm.NFC.String(strings.ReplaceAll(s.Text, "\r\n", "\n"))
	s.Speaker = norm.NFC.String(s.Speaker)
	for i := range s.Choices {
		c := &s.Choices[i]
		c.Text = norm.NFC.String(c.Text)
		c.Hint = norm.NFC.String(c.Hint)
	}
}
