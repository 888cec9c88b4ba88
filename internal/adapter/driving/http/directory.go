package http

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"
)

//go:embed templates/*.html
var templatesFS embed.FS

type templates struct {
	directory *template.Template
}

func newTemplates() (*templates, error) {
	directory, err := template.New("directory.html").ParseFS(templatesFS, "templates/directory.html")
	if err != nil {
		return nil, err
	}
	return &templates{directory: directory}, nil
}

type directoryPage struct {
	Title      string
	ShowRoomID bool
	Portals    []directoryRow
}

type directoryRow struct {
	CallID int
	Name   string
	RoomID string
	InCall bool
}

func (h *Handler) ServeDirectory(w http.ResponseWriter, r *http.Request) {
	portals, err := h.DirectoryService.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list directory")
		http.Error(w, "directory unavailable", http.StatusInternalServerError)
		return
	}

	page := directoryPage{
		Title:      "Room directory",
		ShowRoomID: h.DirectoryService.ShowRoomID(),
	}
	for _, p := range portals {
		_, inCall := h.CallService.SessionFor(p.Room.ID)
		page.Portals = append(page.Portals, directoryRow{
			CallID: p.CallID,
			Name:   p.Room.Name,
			RoomID: p.Room.ID.String(),
			InCall: inCall,
		})
	}

	var buf bytes.Buffer
	if err := h.templates.directory.Execute(&buf, page); err != nil {
		log.Error().Err(err).Msg("Failed to render directory")
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}
