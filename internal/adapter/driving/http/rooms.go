package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Wyydra/teleguild/internal/core/domain"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) listRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.Hub.Rooms(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]roomDTO, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, toRoomDTO(room))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) createRoom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	room, err := h.Hub.CreateRoom(req.Name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, toRoomDTO(room))
}

func (h *Handler) listMessages(w http.ResponseWriter, r *http.Request) {
	roomID, err := domain.ParseRoomID(chi.URLParam(r, "roomID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid room id")
		return
	}
	if _, err := h.Hub.Room(r.Context(), roomID); err != nil {
		writeDomainError(w, err)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
	}

	msgs, err := h.ChatService.History(r.Context(), roomID, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]messageDTO, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toMessageDTO(m))
	}
	writeJSON(w, http.StatusOK, out)
}
