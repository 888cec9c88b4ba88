package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Wyydra/teleguild/internal/adapter/driven/gateway/ws"
	"github.com/Wyydra/teleguild/internal/core/domain"
	"github.com/Wyydra/teleguild/internal/core/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	ChatService      *service.ChatService
	CallService      *service.CallService
	DirectoryService *service.DirectoryService
	Hub              *ws.Hub
	StaticDir        string

	templates *templates
}

func NewHandler(chatService *service.ChatService, callService *service.CallService, directoryService *service.DirectoryService, hub *ws.Hub, staticDir string) (*Handler, error) {
	t, err := newTemplates()
	if err != nil {
		return nil, err
	}
	return &Handler{
		ChatService:      chatService,
		CallService:      callService,
		DirectoryService: directoryService,
		Hub:              hub,
		StaticDir:        staticDir,
		templates:        t,
	}, nil
}

func (h *Handler) NewRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/ws", h.ServeWS)
	r.Get("/directory", h.ServeDirectory)

	r.Route("/rooms", func(r chi.Router) {
		r.Get("/", h.listRooms)
		r.Post("/", h.createRoom)
		r.Get("/{roomID}/messages", h.listMessages)
	})

	r.Route("/calls", func(r chi.Router) {
		r.Get("/", h.listCalls)
		r.Post("/", h.ringCall)
		r.Delete("/{roomID}", h.hangUpCall)
	})

	if h.StaticDir != "" {
		fs := http.FileServer(http.Dir(h.StaticDir))
		r.Handle("/*", fs)
	}

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON")
	}
}

type errorDTO struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorDTO{Error: msg})
}

// statusFor maps domain errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrRoomNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyInCall):
		return http.StatusConflict
	case errors.Is(err, domain.ErrSelfCall), errors.Is(err, domain.ErrEmptyMessage):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSetupSend):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeDomainError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("Request failed")
	}
	writeError(w, status, err.Error())
}
