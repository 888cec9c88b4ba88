package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Wyydra/teleguild/internal/core/domain"
	"github.com/Wyydra/teleguild/internal/core/port"
	"github.com/rs/zerolog/log"
)

// DirectoryService keeps the list of rooms that can be dialled. In auto
// mode it is refreshed from the gateway's rooms; otherwise it mirrors a
// fixed, operator-provided list numbered from 1.
type DirectoryService struct {
	repo    port.PortalRepository
	gateway port.Gateway
	opts    DirectoryOptions
}

type DirectoryOptions struct {
	// Auto fills the directory from the gateway's rooms. When false, Rooms
	// is the directory.
	Auto       bool
	Rooms      []domain.Room
	ShowRoomID bool
}

func NewDirectoryService(repo port.PortalRepository, gateway port.Gateway, opts DirectoryOptions) *DirectoryService {
	return &DirectoryService{
		repo:    repo,
		gateway: gateway,
		opts:    opts,
	}
}

func (s *DirectoryService) Refresh(ctx context.Context) error {
	if s.opts.Auto {
		rooms, err := s.gateway.Rooms(ctx)
		if err != nil {
			return fmt.Errorf("list gateway rooms: %w", err)
		}
		if err := s.repo.Upsert(ctx, rooms); err != nil {
			return fmt.Errorf("upsert directory: %w", err)
		}
		return nil
	}

	portals := make([]domain.Portal, 0, len(s.opts.Rooms))
	for i, room := range s.opts.Rooms {
		portals = append(portals, domain.Portal{CallID: i + 1, Room: room})
	}
	if err := s.repo.Replace(ctx, portals); err != nil {
		return fmt.Errorf("replace directory: %w", err)
	}
	return nil
}

// List refreshes the directory and returns it ordered by call id.
func (s *DirectoryService) List(ctx context.Context) ([]domain.Portal, error) {
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

// Resolve tries ref as a call id, then as a room id known to the
// directory, then asks the gateway directly. Directory hits must still
// exist on the gateway.
func (s *DirectoryService) Resolve(ctx context.Context, ref string) (domain.Room, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return domain.Room{}, domain.ErrRoomNotFound
	}

	if callID, err := strconv.Atoi(ref); err == nil {
		portal, err := s.repo.ByCallID(ctx, callID)
		if err == nil {
			return s.live(ctx, portal)
		}
		if !errors.Is(err, domain.ErrRoomNotFound) {
			return domain.Room{}, err
		}
	}

	roomID, err := domain.ParseRoomID(ref)
	if err != nil {
		return domain.Room{}, domain.ErrRoomNotFound
	}
	portal, err := s.repo.ByRoomID(ctx, roomID)
	if err == nil {
		return s.live(ctx, portal)
	}
	if !errors.Is(err, domain.ErrRoomNotFound) {
		return domain.Room{}, err
	}

	room, err := s.gateway.Room(ctx, roomID)
	if err != nil {
		log.Debug().Err(err).Str("ref", ref).Msg("Directory miss")
		return domain.Room{}, domain.ErrRoomNotFound
	}
	return room, nil
}

func (s *DirectoryService) live(ctx context.Context, portal domain.Portal) (domain.Room, error) {
	if _, err := s.gateway.Room(ctx, portal.Room.ID); err != nil {
		log.Warn().Err(err).Int("call_id", portal.CallID).Str("room_id", portal.Room.ID.String()).Msg("Directory entry has no room")
		return domain.Room{}, domain.ErrRoomNotFound
	}
	return portal.Room, nil
}

func (s *DirectoryService) ShowRoomID() bool {
	return s.opts.ShowRoomID
}

// Render formats the directory as plain text for chat replies.
func (s *DirectoryService) Render(ctx context.Context) (string, error) {
	portals, err := s.List(ctx)
	if err != nil {
		return "", err
	}
	if len(portals) == 0 {
		return "The directory is empty.", nil
	}
	var b strings.Builder
	b.WriteString("Directory:")
	for _, p := range portals {
		fmt.Fprintf(&b, "\n%d  %s", p.CallID, p.Room.Name)
		if s.opts.ShowRoomID {
			fmt.Fprintf(&b, "  (%s)", p.Room.ID)
		}
	}
	return b.String(), nil
}
