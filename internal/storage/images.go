package storage

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-ledmatrix/internal/model"
	"github.com/coreman2200/funtimes-ledmatrix/internal/render"
)

type decodedEntry struct {
	img *render.DecodedImage // nil caches a decode failure
}

func (s *Store) imagePath(imageID string) string {
	return filepath.Join(s.baseDir, imagesDir, imageID+".png")
}

// SaveImage stores uploaded image bytes under the given id and invalidates
// any cached decode of it.
func (s *Store) SaveImage(imageID string, data []byte) error {
	if err := os.WriteFile(s.imagePath(imageID), data, 0o644); err != nil {
		return err
	}
	s.decodeMu.Lock()
	delete(s.decoded, imageID)
	s.decodeMu.Unlock()
	log.Info().Str("image_id", imageID).Int("bytes", len(data)).Msg("image saved")
	return nil
}

// LoadImage returns the raw stored bytes, or nil if absent.
func (s *Store) LoadImage(imageID string) []byte {
	data, err := os.ReadFile(s.imagePath(imageID))
	if err != nil {
		return nil
	}
	return data
}

// DeleteImage removes the stored file and drops the decode cache entry.
func (s *Store) DeleteImage(imageID string) {
	if err := os.Remove(s.imagePath(imageID)); err != nil && !os.IsNotExist(err) {
		log.Error().Err(err).Str("image_id", imageID).Msg("failed to remove image")
		return
	}
	s.decodeMu.Lock()
	delete(s.decoded, imageID)
	s.decodeMu.Unlock()
}

// Decode loads and decodes the image to a flat RGB buffer, caching the
// result. Nil means the image is missing or undecodable; the renderer treats
// that as unplayable content.
func (s *Store) Decode(imageID string) *render.DecodedImage {
	s.decodeMu.Lock()
	if entry, ok := s.decoded[imageID]; ok {
		s.decodeMu.Unlock()
		return entry.img
	}
	s.decodeMu.Unlock()

	decoded := s.decodeFromDisk(imageID)

	s.decodeMu.Lock()
	s.decoded[imageID] = &decodedEntry{img: decoded}
	s.decodeMu.Unlock()
	return decoded
}

func (s *Store) decodeFromDisk(imageID string) *render.DecodedImage {
	data := s.LoadImage(imageID)
	if data == nil {
		log.Error().Str("image_id", imageID).Msg("image file not found")
		return nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		log.Error().Err(err).Str("image_id", imageID).Msg("failed to decode image")
		return nil
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pix := make([]uint8, 0, w*h*3)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			pix = append(pix, uint8(r>>8), uint8(g>>8), uint8(b>>8))
		}
	}
	return &render.DecodedImage{Width: w, Height: h, Pixels: pix}
}

// CleanupUnusedImages removes stored images no playlist item references.
// Returns how many files were removed.
func (s *Store) CleanupUnusedImages(playlist model.Playlist) int {
	referenced := make(map[string]struct{})
	for _, item := range playlist.Items {
		if item.Content.Type == model.ContentImage && item.Content.Image != nil {
			referenced[item.Content.Image.ImageID] = struct{}{}
		}
	}

	dir := filepath.Join(s.baseDir, imagesDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Debug().Err(err).Str("dir", dir).Msg("skipping image cleanup")
		return 0
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".png") {
			continue
		}
		imageID := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		if _, ok := referenced[imageID]; ok {
			continue
		}
		s.DeleteImage(imageID)
		log.Debug().Str("image_id", imageID).Msg("removed unused image")
		removed++
	}

	if removed > 0 {
		log.Info().Int("removed", removed).Msg("image cleanup complete")
	}
	return removed
}
