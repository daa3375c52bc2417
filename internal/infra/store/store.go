// Package store provides file-backed persistence of the game snapshot.
package store

import (
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/osa030/linetimer/internal/domain/game"
	"github.com/osa030/linetimer/internal/domain/score"
)

// Version is the document format written by Save.
const Version = 1

// ErrNotFound is returned by Load when no snapshot has been saved.
var ErrNotFound = errors.New("snapshot not found")

// Store reads and writes a single YAML snapshot document.
type Store struct {
	path string
	mu   sync.Mutex
}

// New creates a store for the given file path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the document path.
func (s *Store) Path() string {
	return s.path
}

// document is the on-disk envelope. Game is decoded separately so durations
// can be written as strings and read back leniently.
type document struct {
	Version int       `yaml:"version"`
	SavedAt time.Time `yaml:"saved_at"`
	Game    yaml.Node `yaml:"game"`
}

type gameDoc struct {
	Elapsed string      `yaml:"elapsed"`
	Score   score.Board `yaml:"score"`
	Players []playerDoc `yaml:"players"`
}

type playerDoc struct {
	ID          int    `yaml:"id"`
	Name        string `yaml:"name"`
	Active      bool   `yaml:"active"`
	Accumulated string `yaml:"accumulated"`
}

// Save writes the snapshot atomically (temp file + rename).
func (s *Store) Save(snap game.Snapshot, savedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	gd := gameDoc{
		Elapsed: snap.Elapsed.String(),
		Score:   snap.Score,
		Players: make([]playerDoc, len(snap.Players)),
	}
	for i, p := range snap.Players {
		gd.Players[i] = playerDoc{
			ID:          p.ID,
			Name:        p.Name,
			Active:      p.IsActive,
			Accumulated: p.Accumulated.String(),
		}
	}

	var node yaml.Node
	if err := node.Encode(gd); err != nil {
		return errors.Wrap(err, "failed to encode game")
	}
	data, err := yaml.Marshal(document{
		Version: Version,
		SavedAt: savedAt.UTC(),
		Game:    node,
	})
	if err != nil {
		return errors.Wrap(err, "failed to marshal snapshot")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "failed to create store directory")
	}
	tmp, err := os.CreateTemp(dir, ".snapshot-*.yaml")
	if err != nil {
		return errors.Wrap(err, "failed to create temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "failed to write snapshot")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "failed to close snapshot")
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return errors.Wrap(err, "failed to replace snapshot")
	}
	return nil
}

// Load reads the snapshot. It returns ErrNotFound when the file is missing.
func (s *Store) Load() (game.Snapshot, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return game.Snapshot{}, time.Time{}, ErrNotFound
		}
		return game.Snapshot{}, time.Time{}, errors.Wrap(err, "failed to read snapshot")
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return game.Snapshot{}, time.Time{}, errors.Wrap(err, "failed to parse snapshot")
	}
	if doc.Version != Version {
		return game.Snapshot{}, time.Time{}, errors.Newf("unsupported snapshot version %d", doc.Version)
	}

	raw := map[string]any{}
	if doc.Game.Kind != 0 {
		if err := doc.Game.Decode(&raw); err != nil {
			return game.Snapshot{}, time.Time{}, errors.Wrap(err, "failed to parse game")
		}
	}

	snap, err := decodeGame(raw)
	if err != nil {
		return game.Snapshot{}, time.Time{}, err
	}
	return snap, doc.SavedAt, nil
}

// Clear removes the snapshot. A missing file is not an error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to remove snapshot")
	}
	return nil
}

// decodeGame maps the generic YAML tree onto the snapshot.
func decodeGame(raw map[string]any) (game.Snapshot, error) {
	var snap game.Snapshot

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &snap,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			secondsToDurationHook,
		),
	})
	if err != nil {
		return game.Snapshot{}, errors.Wrap(err, "failed to create decoder")
	}
	if err := decoder.Decode(raw); err != nil {
		return game.Snapshot{}, errors.Wrap(err, "failed to decode game")
	}
	return snap, nil
}

var durationType = reflect.TypeOf(time.Duration(0))

// secondsToDurationHook reads bare numbers as seconds.
func secondsToDurationHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != durationType {
		return data, nil
	}
	switch v := data.(type) {
	case int:
		return time.Duration(v) * time.Second, nil
	case int64:
		return time.Duration(v) * time.Second, nil
	case uint64:
		return time.Duration(v) * time.Second, nil
	case float64:
		return time.Duration(v * float64(time.Second)), nil
	}
	return data, nil
}
