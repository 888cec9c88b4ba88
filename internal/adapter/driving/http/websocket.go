package http

import (
	"net/http"
	"strings"

	"github.com/Wyydra/teleguild/internal/core/domain"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// TODO: restrict origins once the web client has a fixed host.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WSClient struct {
	id     domain.UserID
	roomID domain.RoomID
	conn   *websocket.Conn
}

func (c *WSClient) ID() string {
	return c.id.String()
}

func (c *WSClient) RoomID() domain.RoomID {
	return c.roomID
}

func (c *WSClient) SendText(msg domain.Message) error {
	return c.conn.WriteJSON(toMessageDTO(msg))
}

func (c *WSClient) Close() error {
	return c.conn.Close()
}

type incomingDTO struct {
	Type        string          `json:"type"`
	Content     string          `json:"content"`
	QuoteID     string          `json:"quote_id"`
	Attachments []attachmentDTO `json:"attachments"`
}

// HTTP handler
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	roomID, err := domain.ParseRoomID(r.URL.Query().Get("room"))
	if err != nil {
		http.Error(w, "invalid room id", http.StatusBadRequest)
		return
	}
	room, err := h.Hub.Room(r.Context(), roomID)
	if err != nil {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		name = "guest"
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Error while upgrading ws")
		return
	}

	client := &WSClient{
		id:     domain.NewUserID(),
		roomID: room.ID,
		conn:   conn,
	}

	l := log.With().Str("client_id", client.ID()).Str("room_id", room.ID.String()).Str("name", name).Logger()
	l.Info().Msg("New client connected")

	// the hub replays recent history before any live message
	h.Hub.Register(client)

	defer func() {
		l.Info().Msg("Client disconnected")
		h.Hub.Unregister(client)
		conn.Close()
	}()

	// listening for browser
	for {
		var req incomingDTO
		err := conn.ReadJSON(&req)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				l.Error().Err(err).Msg("Unexpected close error")
			}
			break
		}
		if req.Type != "" && req.Type != "message" {
			l.Warn().Str("type", req.Type).Msg("Ignoring unknown frame type")
			continue
		}

		msg := domain.Message{
			RoomID:      room.ID,
			SenderID:    client.id,
			SenderName:  name,
			Content:     req.Content,
			Attachments: fromAttachmentDTOs(req.Attachments),
		}
		if req.QuoteID != "" {
			if quote, err := domain.ParseMessageID(req.QuoteID); err == nil {
				msg.QuoteID = quote
			}
		}

		sent, err := h.ChatService.SendMessage(r.Context(), msg)
		if err != nil {
			l.Error().Err(err).Msg("Failed to process message")
			continue
		}

		if cmd, arg, ok := parseCommand(sent.Content); ok {
			h.runCommand(r.Context(), sent, cmd, arg)
		}
	}
}
