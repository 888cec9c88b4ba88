package ws

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/Wyydra/teleguild/internal/core/domain"
	"github.com/Wyydra/teleguild/internal/core/port"
	"github.com/rs/zerolog/log"
)

const (
	BotName             = "teleguild"
	broadcastBufferSize = 256
	// JoinHistory is how many past messages a client gets on register.
	JoinHistory = 50
)

// Hub implements port.Gateway for rooms whose members are connected over
// websockets.
type Hub struct {
	self domain.UserID
	repo port.MessageRepository

	roomsMu sync.RWMutex
	rooms   map[domain.RoomID]domain.Room

	// publishMu orders persistence and fan-out so every listener of a room
	// sees the same sequence.
	publishMu sync.Mutex
	subsMu    sync.Mutex
	subs      map[domain.RoomID]map[*subscription]struct{}

	// clients is owned by Run. Each client keeps the ids replayed to it on
	// register so a pending broadcast of the same message is skipped.
	clients    map[Client]map[domain.MessageID]struct{}
	broadcast  chan domain.Message
	register   chan Client
	unregister chan Client
	quit       chan struct{}
	stopOnce   sync.Once
}

func NewHub(repo port.MessageRepository) *Hub {
	return &Hub{
		self:       domain.NewUserID(),
		repo:       repo,
		rooms:      make(map[domain.RoomID]domain.Room),
		subs:       make(map[domain.RoomID]map[*subscription]struct{}),
		clients:    make(map[Client]map[domain.MessageID]struct{}),
		broadcast:  make(chan domain.Message, broadcastBufferSize),
		register:   make(chan Client),
		unregister: make(chan Client),
		quit:       make(chan struct{}),
	}
}

func (h *Hub) SelfID() domain.UserID {
	return h.self
}

// CreateRoom adds a room named name. Room ids derive from the name, so a
// restarted hub hands out the same ids and creating an existing name
// returns that room.
func (h *Hub) CreateRoom(name string) (domain.Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Room{}, fmt.Errorf("room name is empty")
	}
	room := domain.Room{ID: domain.RoomIDFromName(name), Name: name}
	h.roomsMu.Lock()
	defer h.roomsMu.Unlock()
	if existing, ok := h.rooms[room.ID]; ok {
		return existing, nil
	}
	h.rooms[room.ID] = room
	log.Info().Str("room_id", room.ID.String()).Str("name", name).Msg("Room created")
	return room, nil
}

func (h *Hub) Room(ctx context.Context, roomID domain.RoomID) (domain.Room, error) {
	h.roomsMu.RLock()
	defer h.roomsMu.RUnlock()
	room, ok := h.rooms[roomID]
	if !ok {
		return domain.Room{}, domain.ErrRoomNotFound
	}
	return room, nil
}

// Rooms lists the rooms ordered by name.
func (h *Hub) Rooms(ctx context.Context) ([]domain.Room, error) {
	h.roomsMu.RLock()
	rooms := make([]domain.Room, 0, len(h.rooms))
	for _, r := range h.rooms {
		rooms = append(rooms, r)
	}
	h.roomsMu.RUnlock()
	sort.Slice(rooms, func(i, j int) bool {
		if rooms[i].Name != rooms[j].Name {
			return rooms[i].Name < rooms[j].Name
		}
		return rooms[i].ID.String() < rooms[j].ID.String()
	})
	return rooms, nil
}

// Send posts a bot message to a room.
func (h *Hub) Send(ctx context.Context, roomID domain.RoomID, out domain.Outgoing) (domain.MessageID, error) {
	msg, err := domain.NewMessage(h.self, BotName, roomID, out.Content)
	if err != nil {
		return domain.MessageID{}, err
	}
	msg.QuoteID = out.QuoteID
	msg.Attachments = out.Attachments
	if err := h.Publish(ctx, *msg); err != nil {
		return domain.MessageID{}, err
	}
	return msg.ID, nil
}

// Publish persists msg and hands it to the room's subscriptions and clients.
func (h *Hub) Publish(ctx context.Context, msg domain.Message) error {
	if _, err := h.Room(ctx, msg.RoomID); err != nil {
		return fmt.Errorf("publish to %s: %w", msg.RoomID, err)
	}

	h.publishMu.Lock()
	defer h.publishMu.Unlock()

	if err := h.repo.Save(ctx, msg); err != nil {
		return fmt.Errorf("save message: %w", err)
	}

	h.subsMu.Lock()
	for sub := range h.subs[msg.RoomID] {
		if !sub.offer(msg) {
			log.Warn().Str("room_id", msg.RoomID.String()).Msg("Subscription queue full, dropping message")
		}
	}
	h.subsMu.Unlock()

	select {
	case h.broadcast <- msg:
	default:
		log.Warn().Msg("Broadcast channel full, dropping message")
	}
	return nil
}

func (h *Hub) Subscribe(roomID domain.RoomID, filter port.Filter, handler port.Handler) port.Subscription {
	sub := &subscription{
		hub:     h,
		room:    roomID,
		filter:  filter,
		handler: handler,
		queue:   make(chan domain.Message, subscriptionQueueSize),
		done:    make(chan struct{}),
	}
	h.subsMu.Lock()
	if h.subs[roomID] == nil {
		h.subs[roomID] = make(map[*subscription]struct{})
	}
	h.subs[roomID][sub] = struct{}{}
	h.subsMu.Unlock()

	go sub.run()
	return sub
}

func (h *Hub) removeSubscription(sub *subscription) {
	h.subsMu.Lock()
	defer h.subsMu.Unlock()
	delete(h.subs[sub.room], sub)
	if len(h.subs[sub.room]) == 0 {
		delete(h.subs, sub.room)
	}
}

func (h *Hub) Run() {
	for {
		select {
		case <-h.quit:
			for client := range h.clients {
				client.Close()
				delete(h.clients, client)
			}
			return

		case client := <-h.register:
			replayed, err := h.replay(client)
			if err != nil {
				log.Error().Err(err).Str("client_id", client.ID()).Msg("Error replaying history")
				client.Close()
				continue
			}
			h.clients[client] = replayed
			log.Info().Str("client_id", client.ID()).Str("room_id", client.RoomID().String()).Msg("Client registered")

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.Close()
				log.Info().Str("client_id", client.ID()).Msg("Client unregistered")
			}

		case message := <-h.broadcast:
			for client, replayed := range h.clients {
				if client.RoomID() != message.RoomID {
					continue
				}
				if _, ok := replayed[message.ID]; ok {
					delete(replayed, message.ID)
					continue
				}
				if err := client.SendText(message); err != nil {
					log.Error().Err(err).Str("client_id", client.ID()).Msg("Error sending message")
					client.Close()
					delete(h.clients, client)
				}
			}
		}
	}
}

// replay sends the room's recent history to a client that is joining.
// It runs on Run so nothing else writes to the client meanwhile.
func (h *Hub) replay(c Client) (map[domain.MessageID]struct{}, error) {
	history, err := h.repo.ListByRoom(context.Background(), c.RoomID(), JoinHistory)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	replayed := make(map[domain.MessageID]struct{}, len(history))
	for _, msg := range history {
		if err := c.SendText(msg); err != nil {
			return nil, fmt.Errorf("send history: %w", err)
		}
		replayed[msg.ID] = struct{}{}
	}
	return replayed, nil
}

func (h *Hub) Register(c Client) {
	select {
	case h.register <- c:
	case <-h.quit:
	}
}

func (h *Hub) Unregister(c Client) {
	select {
	case h.unregister <- c:
	case <-h.quit:
	}
}

// Stop ends Run and every subscription.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.quit)

		h.subsMu.Lock()
		var subs []*subscription
		for _, set := range h.subs {
			for sub := range set {
				subs = append(subs, sub)
			}
		}
		h.subsMu.Unlock()

		for _, sub := range subs {
			sub.Unsubscribe()
		}
	})
}
