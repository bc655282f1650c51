package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/roshambo-games/roshambo-backend/internal/registry"
)

type sessionManager interface {
	HandleSession(ctx context.Context, transport registry.Transport, roomID, name, credential string) error
}

type Server struct {
	logger   *slog.Logger
	sessions sessionManager

	upgrader websocket.Upgrader
}

func New(logger *slog.Logger, sessions sessionManager) *Server {
	return &Server{
		logger:   logger,
		sessions: sessions,

		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},
	}
}

// Start - starts the WebSocket server and shuts it down when ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	router := mux.NewRouter()
	router.HandleFunc("/start/{roomID}", that.handleStart)

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     router,
		ReadTimeout: 0, // sessions hold the connection open indefinitely
		IdleTimeout: 30 * time.Second,
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

// handleStart - upgrades the connection and hands it to the session protocol.
// The room id comes from the path, the display name and the optional session
// credential from the query string.
func (that *Server) handleStart(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "handleStart")

	roomID := mux.Vars(req)["roomID"]
	name := req.URL.Query().Get("name")
	credential := req.URL.Query().Get("hash")

	ws, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	log.Info("WebSocket connection established", "roomID", roomID)

	if err = that.sessions.HandleSession(req.Context(), NewConn(ws), roomID, name, credential); err != nil {
		log.Info("session ended", "roomID", roomID, "reason", err)
	}
}
