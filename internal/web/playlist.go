package web

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-ledmatrix/internal/model"
)

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	items := s.controller.Items()
	if items == nil {
		items = []model.PlayListItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var item model.PlayListItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.controller.AddItem(item)
	s.persistPlaylist()

	log.Debug().Str("item", item.ID).Str("content", string(item.Content.Type)).Msg("playlist item created")
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	item, ok := s.controller.Item(id)
	if !ok {
		writeError(w, http.StatusNotFound, "playlist item not found")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var item model.PlayListItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	// The path identifies the item; a mismatched body ID is overridden.
	item.ID = id

	if !s.controller.UpdateItem(item) {
		writeError(w, http.StatusNotFound, "playlist item not found")
		return
	}
	s.persistPlaylist()

	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if !s.controller.DeleteItem(id) {
		writeError(w, http.StatusNotFound, "playlist item not found")
		return
	}
	s.persistPlaylist()

	log.Debug().Str("item", id).Msg("playlist item deleted")
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleReorder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ItemIDs []string `json:"item_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.controller.Reorder(body.ItemIDs); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.persistPlaylist()

	writeJSON(w, http.StatusOK, s.controller.Items())
}

func (s *Server) handleGetRepeat(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"repeat": s.controller.Repeat()})
}

func (s *Server) handleSetRepeat(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Repeat bool `json:"repeat"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.controller.SetRepeat(body.Repeat)
	s.persistPlaylist()

	writeJSON(w, http.StatusOK, map[string]bool{"repeat": body.Repeat})
}
