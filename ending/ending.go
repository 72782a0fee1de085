// Package ending tracks which story endings the player has reached across runs.
package ending

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/vi-novel/constants"
	"github.com/lixenwraith/vi-novel/save"
)

// Info describes one collectible ending
type Info struct {
	Index   int
	SceneID string
	Title   string
	Icon    string
}

// Catalog lists the endings in index order
var Catalog = [constants.EndingCount]Info{
	{1, "Ending_01_Revenge_End", "玉石俱焚", "🔥"},
	{2, "Ending_02_Escape_End", "無根的漂泊", "🌊"},
	{3, "Ending_03_Silent_End", "沈默的傷痕", "😶"},
	{4, "Ending_04_True_End", "真實的力量", "⚖️"},
}

// IndexOf maps an ending scene id to its index
func IndexOf(sceneID string) (int, bool) {
	for _, e := range Catalog {
		if e.SceneID == sceneID {
			return e.Index, true
		}
	}
	return 0, false
}

// Entry is a gallery card
type Entry struct {
	Info
	Unlocked bool
}

// DisplayTitle hides the title until the ending is reached
func (e Entry) DisplayTitle() string {
	if !e.Unlocked {
		return constants.GalleryUnknown
	}
	return e.Title
}

func (e Entry) DisplayIcon() string {
	if !e.Unlocked {
		return constants.GalleryLocked
	}
	return e.Icon
}

// Label is the card caption, e.g. "End 2 無根的漂泊"
func (e Entry) Label() string {
	return fmt.Sprintf("End %d %s", e.Index, e.DisplayTitle())
}

// Registry holds the unlock flags and writes them through on every change.
// Flags only move from false to true.
type Registry struct {
	mu       sync.Mutex
	store    save.Store
	logger   *zap.Logger
	timeout  time.Duration
	unlocked map[int]bool
}

// NewRegistry reads persisted flags from store.
// Missing or unreadable data starts with every ending locked.
func NewRegistry(ctx context.Context, store save.Store, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Registry{
		store:    store,
		logger:   logger.Named("ending"),
		timeout:  constants.PersistTimeout,
		unlocked: defaultFlags(),
	}
	r.load(ctx)
	return r
}

func defaultFlags() map[int]bool {
	flags := make(map[int]bool, constants.EndingCount)
	for _, e := range Catalog {
		flags[e.Index] = false
	}
	return flags
}

func (r *Registry) load(ctx context.Context) {
	data, err := r.store.Get(ctx, constants.EndingsStorageKey)
	if errors.Is(err, save.ErrNotFound) {
		return
	}
	if err != nil {
		r.logger.Warn("read endings failed", zap.Error(err))
		return
	}

	var stored map[int]bool
	if err := json.Unmarshal(data, &stored); err != nil {
		r.logger.Warn("stored endings unreadable, starting locked", zap.Error(err), zap.ByteString("raw", data))
		return
	}
	for idx, ok := range stored {
		if _, known := r.unlocked[idx]; known && ok {
			r.unlocked[idx] = true
		}
	}
}

// Unlock marks the ending reached by entering sceneID.
// It returns the ending index and whether this call changed the flag.
// A failed write is logged; the flag stays set for this run.
func (r *Registry) Unlock(sceneID string) (int, bool) {
	idx, ok := IndexOf(sceneID)
	if !ok {
		return 0, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.unlocked[idx] {
		return idx, false
	}
	r.unlocked[idx] = true

	if err := r.persist(); err != nil {
		r.logger.Error("persist endings failed",
			zap.Int("ending", idx),
			zap.String("scene_id", sceneID),
			zap.Error(err))
	} else {
		r.logger.Info("ending unlocked", zap.Int("ending", idx), zap.String("scene_id", sceneID))
	}
	return idx, true
}

func (r *Registry) persist() error {
	data, err := json.Marshal(r.unlocked)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	return r.store.Set(ctx, constants.EndingsStorageKey, data)
}

func (r *Registry) IsUnlocked(index int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.unlocked[index]
}

// Count returns how many endings are unlocked
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ok := range r.unlocked {
		if ok {
			n++
		}
	}
	return n
}

// Gallery returns one entry per ending in index order
func (r *Registry) Gallery() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(Catalog))
	for i, info := range Catalog {
		out[i] = Entry{Info: info, Unlocked: r.unlocked[info.Index]}
	}
	return out
}
