package web

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// maxImageBytes caps uploads before decode.
const maxImageBytes = 30 * 1024 * 1024

type imageUploadResponse struct {
	ImageID string `json:"image_id"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

// handleUploadImage accepts a multipart upload in the "file" field, validates
// it decodes as an image, and stores it re-encoded as PNG under a fresh ID.
func (s *Server) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes)

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing 'file' field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "upload too large")
		return
	}
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, "empty upload")
		return
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		writeError(w, http.StatusUnsupportedMediaType, "unrecognized image format")
		return
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		log.Error().Err(err).Msg("failed to encode uploaded image as png")
		writeError(w, http.StatusInternalServerError, "image encode failed")
		return
	}

	imageID := uuid.NewString()
	if err := s.store.SaveImage(imageID, buf.Bytes()); err != nil {
		log.Error().Err(err).Str("image", imageID).Msg("failed to save image")
		writeError(w, http.StatusInternalServerError, "image save failed")
		return
	}

	bounds := img.Bounds()
	log.Info().
		Str("image", imageID).
		Str("format", format).
		Int("width", bounds.Dx()).
		Int("height", bounds.Dy()).
		Msg("image uploaded")

	writeJSON(w, http.StatusOK, imageUploadResponse{
		ImageID: imageID,
		Width:   bounds.Dx(),
		Height:  bounds.Dy(),
	})
}

func (s *Server) handleFetchImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	data := s.store.LoadImage(id)
	if data == nil {
		writeError(w, http.StatusNotFound, "image not found")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
