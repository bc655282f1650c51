package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/roshambo-games/roshambo-backend/internal/registry"
)

// Start - starts the HTTP boundary: room creation and lookup, plus ping.
func Start(ctx context.Context, logger *slog.Logger, port string, rooms *registry.RoomRegistry) error {
	h := newHandlers(logger, rooms)

	router := mux.NewRouter()
	router.HandleFunc("/rooms", h.createRoom).Methods(http.MethodPost)
	router.HandleFunc("/rooms/{id}", h.getRoom).Methods(http.MethodGet)
	router.HandleFunc("/ping", h.ping).Methods(http.MethodGet)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
