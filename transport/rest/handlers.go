package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/roshambo-games/roshambo-backend/internal/apperror"
	"github.com/roshambo-games/roshambo-backend/internal/registry"
)

type handlers struct {
	logger *slog.Logger
	rooms  *registry.RoomRegistry
}

func newHandlers(logger *slog.Logger, rooms *registry.RoomRegistry) *handlers {
	return &handlers{
		logger: logger,
		rooms:  rooms,
	}
}

type createRoomRequest struct {
	Name            string `json:"name"`
	RequiredPlayers int    `json:"required_players"`
}

func (that *handlers) createRoom(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "createRoom")

	var body createRoomRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		http.Error(writer, "invalid request body", http.StatusBadRequest)
		return
	}

	if body.Name == "" {
		http.Error(writer, "name is required", http.StatusBadRequest)
		return
	}

	if body.RequiredPlayers < 1 {
		http.Error(writer, "required_players must be positive", http.StatusBadRequest)
		return
	}

	room := that.rooms.Create(body.Name, body.RequiredPlayers)

	log.Info("room created", "roomID", room.ID, "requiredPlayers", room.RequiredPlayers)

	// the room is joinable the moment Create returns, so serialize a
	// snapshot rather than the live room
	snapshot, err := that.rooms.Snapshot(room.ID)
	if err != nil {
		http.Error(writer, "internal error", http.StatusInternalServerError)
		return
	}

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(http.StatusCreated)

	if err = json.NewEncoder(writer).Encode(snapshot); err != nil {
		log.Error("failed to encode room", "error", err)
	}
}

func (that *handlers) getRoom(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "getRoom")

	snapshot, err := that.rooms.Snapshot(mux.Vars(req)["id"])
	if errors.Is(err, apperror.ErrRoomNotFound) {
		http.Error(writer, "room not found", http.StatusNotFound)
		return
	}

	if err != nil {
		http.Error(writer, "internal error", http.StatusInternalServerError)
		return
	}

	writer.Header().Set("Content-Type", "application/json")

	if err = json.NewEncoder(writer).Encode(snapshot); err != nil {
		log.Error("failed to encode room", "error", err)
	}
}

func (that *handlers) ping(writer http.ResponseWriter, _ *http.Request) {
	writer.WriteHeader(http.StatusOK)

	if _, err := writer.Write([]byte("pong")); err != nil {
		http.Error(writer, "Internal Server Error", http.StatusInternalServerError)
	}
}
