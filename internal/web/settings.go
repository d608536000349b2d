package web

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

type brightnessSettings struct {
	Brightness int `json:"brightness"`
}

func (s *Server) handleGetBrightness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, brightnessSettings{Brightness: s.controller.Brightness()})
}

func (s *Server) handleSetBrightness(w http.ResponseWriter, r *http.Request) {
	var body brightnessSettings
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	previous := s.controller.Brightness()
	s.controller.SetBrightness(body.Brightness)
	applied := s.controller.Brightness()

	if applied != previous {
		log.Info().Int("from", previous).Int("to", applied).Msg("display brightness changed")
		if err := s.store.SaveBrightness(applied); err != nil {
			log.Error().Err(err).Msg("failed to save brightness")
		}
		if s.hub != nil {
			s.hub.BrightnessChanged(applied)
		}
	}

	writeJSON(w, http.StatusOK, brightnessSettings{Brightness: applied})
}
