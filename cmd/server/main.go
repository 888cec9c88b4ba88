package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Wyydra/teleguild/internal/adapter/driven/clock"
	"github.com/Wyydra/teleguild/internal/adapter/driven/gateway/ws"
	"github.com/Wyydra/teleguild/internal/adapter/driven/persistence/memory"
	"github.com/Wyydra/teleguild/internal/adapter/driven/persistence/sqlite"
	handler "github.com/Wyydra/teleguild/internal/adapter/driving/http"
	"github.com/Wyydra/teleguild/internal/config"
	"github.com/Wyydra/teleguild/internal/core/domain"
	"github.com/Wyydra/teleguild/internal/core/port"
	"github.com/Wyydra/teleguild/internal/core/service"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	w := zerolog.ConsoleWriter{Out: os.Stdout}
	log.Logger = zerolog.New(w).With().Timestamp().Caller().Logger()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	zerolog.SetGlobalLevel(cfg.Level())

	policy, err := config.LoadPolicy(cfg.PolicyPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.PolicyPath).Msg("Invalid call policy")
	}

	messages := memory.NewMessageRepository()
	hub := ws.NewHub(messages)

	rooms, err := createRooms(hub, cfg.Rooms, policy.Directory)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create rooms")
	}

	var portals port.PortalRepository
	if cfg.DBPath == "" {
		portals = memory.NewPortalRepository()
	} else {
		store, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("Failed to open directory store")
		}
		defer store.Close()
		portals = store
	}

	directoryService := service.NewDirectoryService(portals, hub, service.DirectoryOptions{
		Auto:       policy.AutoDirectory,
		Rooms:      pick(rooms, policy.Directory),
		ShowRoomID: policy.Call.ShowRoomID,
	})
	chatService := service.NewChatService(messages, hub)
	callService := service.NewCallService(directoryService, hub, clock.NewScheduler(nil), service.NewSessionRegistry(), policy.Call)

	h, err := handler.NewHandler(chatService, callService, directoryService, hub, cfg.StaticDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build handler")
	}

	go hub.Run()

	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	if cfg.PolicyPath != "" {
		err := config.WatchPolicy(watchCtx, cfg.PolicyPath, func(p config.Policy) {
			if err := callService.SetPolicy(p.Call); err != nil {
				log.Warn().Err(err).Msg("Rejected reloaded call policy")
			}
		})
		if err != nil {
			log.Error().Err(err).Msg("Policy hot reload disabled")
		}
	}

	if err := directoryService.Refresh(context.Background()); err != nil {
		log.Error().Err(err).Msg("Initial directory refresh failed")
	}

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: h.NewRouter(),
	}

	go func() {
		log.Info().Str("addr", cfg.Addr).Str("limit", policy.Call.Limit.Mode().String()).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	callService.Close(ctx)
	hub.Stop()
	log.Info().Msg("Server exited")
}

// createRooms creates every named room once, in order, and returns them by name.
func createRooms(hub *ws.Hub, groups ...[]string) (map[string]domain.Room, error) {
	rooms := make(map[string]domain.Room)
	for _, names := range groups {
		for _, name := range names {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if _, ok := rooms[name]; ok {
				continue
			}
			room, err := hub.CreateRoom(name)
			if err != nil {
				return nil, err
			}
			rooms[name] = room
		}
	}
	return rooms, nil
}

func pick(rooms map[string]domain.Room, names []string) []domain.Room {
	out := make([]domain.Room, 0, len(names))
	for _, name := range names {
		out = append(out, rooms[name])
	}
	return out
}
