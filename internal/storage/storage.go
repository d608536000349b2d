package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-ledmatrix/internal/model"
)

// DefaultDir is the system-wide storage location.
const DefaultDir = "/var/lib/led-matrix-controller"

const (
	playlistFile   = "playlist.json"
	brightnessFile = "brightness.json"
	imagesDir      = "images"
)

// Store persists the playlist, brightness, and uploaded images as flat files.
// Safe for concurrent use; file writes are whole-file replacements.
type Store struct {
	mu      sync.Mutex
	baseDir string

	decodeMu sync.Mutex
	decoded  map[string]*decodedEntry
}

func New(baseDir string) (*Store, error) {
	if baseDir == "" {
		baseDir = DefaultDir
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory %s: %w", baseDir, err)
	}
	if err := os.MkdirAll(filepath.Join(baseDir, imagesDir), 0o755); err != nil {
		return nil, fmt.Errorf("create images directory: %w", err)
	}
	log.Info().Str("dir", baseDir).Msg("storage initialized")
	return &Store{
		baseDir: baseDir,
		decoded: make(map[string]*decodedEntry),
	}, nil
}

func (s *Store) BaseDir() string { return s.baseDir }

// LoadPlaylist reads the persisted queue. Missing or unparseable files yield
// (zero, false); the active index always restarts at 0 on load.
func (s *Store) LoadPlaylist() (model.Playlist, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.baseDir, playlistFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Error().Err(err).Str("path", path).Msg("error reading playlist file")
		}
		return model.Playlist{}, false
	}

	var playlist model.Playlist
	if err := json.Unmarshal(data, &playlist); err != nil {
		log.Error().Err(err).Str("path", path).Msg("error parsing playlist file")
		return model.Playlist{}, false
	}

	playlist.ActiveIndex = 0
	log.Info().Int("items", len(playlist.Items)).Msg("loaded playlist")
	return playlist, true
}

// SavePlaylist writes the queue as pretty-printed JSON.
func (s *Store) SavePlaylist(playlist model.Playlist) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(playlist, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize playlist: %w", err)
	}
	path := filepath.Join(s.baseDir, playlistFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write playlist file: %w", err)
	}
	log.Debug().Str("path", path).Int("items", len(playlist.Items)).Msg("playlist saved")
	return nil
}

type brightnessSetting struct {
	Brightness int `json:"brightness"`
}

// LoadBrightness reads the persisted brightness; false when unset.
func (s *Store) LoadBrightness() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(filepath.Join(s.baseDir, brightnessFile))
	if err != nil {
		return 0, false
	}
	var setting brightnessSetting
	if err := json.Unmarshal(data, &setting); err != nil {
		log.Error().Err(err).Msg("error parsing brightness file")
		return 0, false
	}
	log.Info().Int("brightness", setting.Brightness).Msg("loaded brightness setting")
	return setting.Brightness, true
}

func (s *Store) SaveBrightness(brightness int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(brightnessSetting{Brightness: brightness}, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize brightness: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.baseDir, brightnessFile), data, 0o644); err != nil {
		return fmt.Errorf("write brightness file: %w", err)
	}
	return nil
}
