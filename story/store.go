// Package story loads the scene graph and answers lookups against it.
package story

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/lixenwraith/vi-novel/condition"
	"github.com/lixenwraith/vi-novel/constants"
)

var (
	ErrSceneNotFound = errors.New("scene not found")
	ErrEmptyStory    = errors.New("story has no scenes")
	ErrDuplicateID   = errors.New("duplicate scene id")
	ErrMissingID     = errors.New("scene without id")
)

// document is the top-level shape of a story file
type document struct {
	Scenes []Scene `json:"scenes"`
}

// Store is the immutable scene graph, keyed by scene id
type Store struct {
	scenes map[string]*Scene
	order  []string
}

// Parse decodes a story document and indexes its scenes
func Parse(data []byte) (*Store, error) {
	var doc document
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode story: %w", err)
	}
	return newStore(doc.Scenes)
}

// Load reads a story document from r
func Load(r io.Reader) (*Store, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read story: %w", err)
	}
	return Parse(data)
}

// LoadFile reads the story document at path
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read story %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func newStore(scenes []Scene) (*Store, error) {
	if len(scenes) == 0 {
		return nil, ErrEmptyStory
	}

	s := &Store{
		scenes: make(map[string]*Scene, len(scenes)),
		order:  make([]string, 0, len(scenes)),
	}
	for i := range scenes {
		sc := &scenes[i]
		if sc.ID == "" {
			return nil, fmt.Errorf("%w: entry %d", ErrMissingID, i)
		}
		if _, dup := s.scenes[sc.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, sc.ID)
		}
		sc.normalize()
		s.scenes[sc.ID] = sc
		s.order = append(s.order, sc.ID)
	}
	return s, nil
}

// Scene returns the scene with the given id
func (s *Store) Scene(id string) (*Scene, bool) {
	sc, ok := s.scenes[id]
	return sc, ok
}

// Get is Scene with a wrapped ErrSceneNotFound for callers that propagate errors
func (s *Store) Get(id string) (*Scene, error) {
	sc, ok := s.scenes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSceneNotFound, id)
	}
	return sc, nil
}

// IDs returns scene ids in document order
func (s *Store) IDs() []string {
	return slices.Clone(s.order)
}

func (s *Store) Len() int {
	return len(s.order)
}

// Reachable returns every scene id reachable from start by following choices, start included.
// External links and dangling references are not followed.
func (s *Store) Reachable(start string) []string {
	if _, ok := s.scenes[start]; !ok {
		return nil
	}

	seen := map[string]bool{start: true}
	queue := []string{start}
	var out []string
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		out = append(out, id)

		for _, c := range s.scenes[id].Choices {
			next := c.NextSceneID
			if next == "" || c.IsExternal() || seen[next] {
				continue
			}
			if _, ok := s.scenes[next]; !ok {
				continue
			}
			seen[next] = true
			queue = append(queue, next)
		}
	}
	return out
}

// IssueKind classifies a validation finding
type IssueKind int

const (
	IssueDanglingReference IssueKind = iota
	IssueMalformedCondition
	IssueUnknownVariable
)

func (k IssueKind) String() string {
	switch k {
	case IssueDanglingReference:
		return "dangling_reference"
	case IssueMalformedCondition:
		return "malformed_condition"
	case IssueUnknownVariable:
		return "unknown_variable"
	}
	return "unknown"
}

// Issue is a non-fatal defect found in the story graph
type Issue struct {
	Kind    IssueKind
	SceneID string
	Choice  int
	Detail  string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: scene %s choice %d: %s", i.Kind, i.SceneID, i.Choice, i.Detail)
}

// Validate reports dangling next_scene_id references, conditions that fail to
// compile, and conditions reading variables other than the affinity counters.
// A nil cache compiles every condition afresh.
func (s *Store) Validate(cache *condition.Cache) []Issue {
	if cache == nil {
		cache = condition.NewCache()
	}

	var issues []Issue
	for _, id := range s.order {
		for i, c := range s.scenes[id].Choices {
			if c.NextSceneID != "" && !c.IsExternal() {
				if _, ok := s.scenes[c.NextSceneID]; !ok {
					issues = append(issues, Issue{IssueDanglingReference, id, i, c.NextSceneID})
				}
			}

			if c.Condition == "" {
				continue
			}
			prog, err := cache.Compile(c.Condition)
			if err != nil {
				issues = append(issues, Issue{IssueMalformedCondition, id, i, err.Error()})
				continue
			}
			for _, name := range prog.Identifiers() {
				if !slices.Contains(constants.ConditionVars, name) {
					issues = append(issues, Issue{IssueUnknownVariable, id, i, name})
				}
			}
		}
	}
	return issues
}
