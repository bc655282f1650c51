package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/roshambo-games/roshambo-backend/internal/config"
	"github.com/roshambo-games/roshambo-backend/internal/registry"
	"github.com/roshambo-games/roshambo-backend/internal/repository"
	"github.com/roshambo-games/roshambo-backend/internal/repository/storage"
	"github.com/roshambo-games/roshambo-backend/internal/service"
	"github.com/roshambo-games/roshambo-backend/internal/usecase"
	"github.com/roshambo-games/roshambo-backend/transport/rest"
	"github.com/roshambo-games/roshambo-backend/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	roundRepo := repository.NewRoundRepository(redisStorage.Connection)

	roomRegistry := registry.NewRoomRegistry()
	playerRegistry := registry.NewPlayerRegistry()
	transportRegistry := registry.NewTransportRegistry()
	tokenizer := service.NewTokenizer(conf.Hashing.Salt)

	sessions := usecase.NewSessionManager(logger, roomRegistry, playerRegistry, transportRegistry, tokenizer, roundRepo)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.Start(ctx, logger, conf.HTTPPort, roomRegistry); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, sessions)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		transportRegistry.CloseAll(usecase.CloseCodeGameEnded, "server shutting down")

		return nil
	}
}
