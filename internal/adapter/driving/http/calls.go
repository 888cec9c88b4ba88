package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Wyydra/teleguild/internal/core/domain"
	"github.com/Wyydra/teleguild/internal/core/service"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

func (h *Handler) listCalls(w http.ResponseWriter, r *http.Request) {
	sessions := h.CallService.Sessions()
	out := make([]callDTO, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, toCallDTO(s))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) ringCall(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Initiator string `json:"initiator"`
		Target    string `json:"target"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	initiator, err := domain.ParseRoomID(req.Initiator)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid initiator room id")
		return
	}
	if strings.TrimSpace(req.Target) == "" {
		writeError(w, http.StatusBadRequest, "target is required")
		return
	}

	session, err := h.CallService.Ring(r.Context(), service.RingRequest{
		Initiator: initiator,
		Target:    req.Target,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	log.Info().Str("call_id", session.ID().String()).Msg("Call rung over HTTP")
	writeJSON(w, http.StatusCreated, toCallDTO(session.Info()))
}

func (h *Handler) hangUpCall(w http.ResponseWriter, r *http.Request) {
	roomID, err := domain.ParseRoomID(chi.URLParam(r, "roomID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid room id")
		return
	}
	if !h.CallService.HangUp(r.Context(), roomID) {
		writeError(w, http.StatusNotFound, "room is not in a call")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
