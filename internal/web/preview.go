package web

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-ledmatrix/internal/model"
)

// sessionID pulls the caller's preview session identifier from the request.
func sessionID(r *http.Request) string {
	return r.Header.Get("X-Session-Id")
}

// ownsPreview reports whether the caller may act on the current preview. When
// no preview is active there is nothing to own, so the answer is yes.
func (s *Server) ownsPreview(r *http.Request) bool {
	if !s.controller.IsInPreviewMode() {
		return true
	}
	return s.controller.IsPreviewSessionOwner(sessionID(r))
}

func (s *Server) handleStartPreview(w http.ResponseWriter, r *http.Request) {
	session := sessionID(r)
	if session == "" {
		writeError(w, http.StatusBadRequest, "missing X-Session-Id header")
		return
	}
	if !s.ownsPreview(r) {
		writeError(w, http.StatusConflict, "preview is locked by another session")
		return
	}

	var item model.PlayListItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.controller.EnterPreview(item, session)
	if s.hub != nil {
		s.hub.EditorLockChanged(true, session)
	}

	log.Info().Str("session", session).Msg("preview started")
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleUpdatePreview(w http.ResponseWriter, r *http.Request) {
	if !s.controller.IsInPreviewMode() {
		writeError(w, http.StatusNotFound, "no active preview")
		return
	}
	if !s.ownsPreview(r) {
		writeError(w, http.StatusConflict, "preview is locked by another session")
		return
	}

	var item model.PlayListItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.controller.UpdatePreview(item)
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleExitPreview(w http.ResponseWriter, r *http.Request) {
	if !s.controller.IsInPreviewMode() {
		w.WriteHeader(http.StatusOK)
		return
	}
	if !s.ownsPreview(r) {
		writeError(w, http.StatusConflict, "preview is locked by another session")
		return
	}

	session := sessionID(r)
	s.controller.ExitPreview()
	if s.hub != nil {
		s.hub.EditorLockChanged(false, session)
	}

	log.Info().Str("session", session).Msg("preview exited")
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handlePreviewStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{
		"active": s.controller.IsInPreviewMode(),
	})
}

func (s *Server) handlePreviewPing(w http.ResponseWriter, r *http.Request) {
	if !s.controller.IsInPreviewMode() {
		writeError(w, http.StatusNotFound, "no active preview")
		return
	}
	if !s.ownsPreview(r) {
		writeError(w, http.StatusConflict, "preview is locked by another session")
		return
	}

	if !s.controller.PingPreview() {
		writeError(w, http.StatusNotFound, "no active preview")
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleCheckSession(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{
		"owner": s.controller.IsPreviewSessionOwner(body.SessionID),
	})
}
