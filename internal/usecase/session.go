package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/roshambo-games/roshambo-backend/internal/apperror"
	"github.com/roshambo-games/roshambo-backend/internal/entity"
	"github.com/roshambo-games/roshambo-backend/internal/registry"
)

// Close codes for session termination.
const (
	CloseCodeGameEnded    = 1000
	CloseCodeRoomNotFound = 4004
	CloseCodeRoomFull     = 4005
)

const (
	noticeInvalidChoice  = "not valid choice"
	noticeGameNotStarted = "game is not started"
	noticeChoiceMade     = "choice is already made"
)

type tokenizer interface {
	Issue(player *entity.Player) string
}

type roundArchive interface {
	Save(ctx context.Context, record *entity.RoundRecord) error
}

// SessionManager drives one session per connected client: join-or-resume,
// lifecycle broadcasts, choice collection and round resolution. All reads and
// writes of shared room state happen under the room's registry mutex; the
// handler whose choice completes the round resolves it while still holding
// the lock, so a round can never resolve twice.
type SessionManager struct {
	logger *slog.Logger

	rooms      *registry.RoomRegistry
	players    *registry.PlayerRegistry
	transports *registry.TransportRegistry
	tokenizer  tokenizer
	archive    roundArchive
}

func NewSessionManager(
	logger *slog.Logger,
	rooms *registry.RoomRegistry,
	players *registry.PlayerRegistry,
	transports *registry.TransportRegistry,
	tokenizer tokenizer,
	archive roundArchive,
) *SessionManager {
	return &SessionManager{
		logger: logger,

		rooms:      rooms,
		players:    players,
		transports: transports,
		tokenizer:  tokenizer,
		archive:    archive,
	}
}

// HandleSession - serves one client connection from accept to termination.
// It returns once the transport is gone or the join was rejected.
func (that *SessionManager) HandleSession(ctx context.Context, transport registry.Transport, roomID, name, credential string) error {
	log := that.logger.With("method", "HandleSession", "roomID", roomID)

	that.transports.Add(transport)

	room, err := that.rooms.Get(roomID)
	if err != nil {
		if err = that.transports.Disconnect(transport, CloseCodeRoomNotFound, "room not found"); err != nil {
			log.Error("failed to close rejected connection", "error", err)
		}

		return fmt.Errorf("failed to join: %w", apperror.ErrRoomNotFound)
	}

	lock := that.rooms.RoomLock(roomID)

	player, err := that.join(lock, room, transport, name, credential)
	if errors.Is(err, apperror.ErrRoomFull) {
		if err = that.transports.Disconnect(transport, CloseCodeRoomFull, "room is full"); err != nil {
			log.Error("failed to close rejected connection", "error", err)
		}

		return fmt.Errorf("failed to join: %w", apperror.ErrRoomFull)
	}

	if err != nil {
		that.cleanup(lock, room, nil, transport)
		return fmt.Errorf("failed to join: %w", err)
	}

	log = log.With("playerID", player.ID)
	log.Info("player joined room")

	for {
		input, err := transport.Receive()
		if err != nil {
			log.Info("player disconnected", "reason", err)
			that.cleanup(lock, room, player, transport)

			return nil
		}

		that.handleInput(ctx, lock, room, player, transport, input)
	}
}

// join - resolves or creates the player, adds it to the room and announces
// the join. Runs under the room lock so the broadcast decision and the
// player-list mutation are one atomic step.
func (that *SessionManager) join(lock *sync.Mutex, room *entity.Room, transport registry.Transport, name, credential string) (*entity.Player, error) {
	log := that.logger.With("method", "join", "roomID", room.ID)

	lock.Lock()
	defer lock.Unlock()

	var player *entity.Player
	if credential != "" {
		existing, err := that.players.GetByToken(credential)
		if err == nil {
			player = existing
		}
	}

	// an empty or unknown credential always means a fresh player
	if player == nil {
		player = entity.NewPlayer(name)
	}

	resumed := room.HasPlayer(player.ID)

	// transports bound before this join; a joining player must never
	// receive its own NewPlayerConnected echo
	var prior []registry.Transport
	if !resumed {
		var err error
		if prior, err = that.rooms.Transports(room); err != nil {
			return nil, fmt.Errorf("failed to collect room transports: %w", err)
		}

		if err = room.AddPlayer(player); err != nil {
			return nil, fmt.Errorf("failed to add player: %w", err)
		}
	}

	token := that.tokenizer.Issue(player)
	that.players.Register(token, player, transport)
	that.rooms.RegisterTransport(player, transport)

	connected := &entity.EventMessage{
		Event: entity.EventConnectedToRoom,
		Room:  room,
		Hash:  token,
	}
	if err := transport.Send(connected); err != nil {
		return nil, fmt.Errorf("failed to send %s: %w", entity.EventConnectedToRoom, err)
	}

	if !resumed {
		for _, other := range prior {
			if err := other.Send(&entity.EventMessage{Event: entity.EventNewPlayerConnected, Room: room}); err != nil {
				log.Error("failed to announce new player", "error", err)
			}
		}
	}

	if room.CanStart() {
		that.broadcast(room, entity.EventGameCanBeStart)
	}

	return player, nil
}

// handleInput - processes one inbound token. Malformed input never aborts
// the session; it only produces a personal notice.
func (that *SessionManager) handleInput(ctx context.Context, lock *sync.Mutex, room *entity.Room, player *entity.Player, transport registry.Transport, input string) {
	log := that.logger.With("method", "handleInput", "roomID", room.ID, "playerID", player.ID)

	choice, err := entity.ParseChoice(input)
	if err != nil {
		if err = transport.SendText(noticeInvalidChoice); err != nil {
			log.Error("failed to send notice", "error", err)
		}

		return
	}

	lock.Lock()
	defer lock.Unlock()

	if !room.CanStart() {
		if err = transport.SendText(noticeGameNotStarted); err != nil {
			log.Error("failed to send notice", "error", err)
		}

		return
	}

	if err = player.SetChoice(choice); err != nil {
		if err = transport.SendText(noticeChoiceMade); err != nil {
			log.Error("failed to send notice", "error", err)
		}

		return
	}

	if !room.AllPlayersMadeChoice() {
		return
	}

	if err = that.resolveRound(ctx, room); err != nil {
		log.Error("failed to resolve round", "error", err)
	}
}

// resolveRound - determines winners and delivers exactly one personal event
// per member. Caller holds the room lock. A member without a bound transport
// is a state-machine bug and fails the whole resolution.
func (that *SessionManager) resolveRound(ctx context.Context, room *entity.Room) error {
	log := that.logger.With("method", "resolveRound", "roomID", room.ID)

	winners := room.Winners()

	// a personal result goes to whichever transport the player registry
	// currently binds for that identity, so a mid-round resume is honored
	transports := make([]registry.Transport, 0, len(room.Players))
	for _, player := range room.Players {
		transport, err := that.players.TransportFor(player)
		if err != nil {
			return fmt.Errorf("failed to resolve member transport: %w", err)
		}

		transports = append(transports, transport)
	}

	winnerIDs := make(map[string]struct{}, len(winners))
	for _, winner := range winners {
		winnerIDs[winner.ID] = struct{}{}
	}

	isDraw := len(winners) == len(room.Players)

	for i, player := range room.Players {
		event := entity.EventLose
		if _, ok := winnerIDs[player.ID]; ok {
			event = entity.EventWin
			if isDraw {
				event = entity.EventDraw
			}
		}

		if err := transports[i].Send(&entity.EventMessage{Event: event, Room: room}); err != nil {
			// a failed send is an implicit disconnect of that player
			log.Error("failed to deliver round result", "playerID", player.ID, "error", err)
		}
	}

	if err := that.archive.Save(ctx, entity.NewRoundRecord(room, winners)); err != nil {
		log.Error("failed to archive round", "error", err)
	}

	room.ResetChoices()

	// next round starts immediately
	that.broadcast(room, entity.EventGameCanBeStart)

	log.Info("round resolved", "winners", len(winners))

	return nil
}

// broadcast - sends the event to every room member's transport, best effort.
// Caller holds the room lock.
func (that *SessionManager) broadcast(room *entity.Room, event entity.RoomEvent) {
	log := that.logger.With("method", "broadcast", "roomID", room.ID)

	transports, err := that.rooms.Transports(room)
	if err != nil {
		log.Error("failed to collect room transports", "error", err)
		return
	}

	for i, transport := range transports {
		if err = transport.Send(&entity.EventMessage{Event: event, Room: room}); err != nil {
			log.Error("failed to broadcast", "event", event, "playerID", room.Players[i].ID, "error", err)
		}
	}
}

// cleanup - releases this handler's resources only: the transport is
// deregistered and closed, membership and identity survive for resume.
func (that *SessionManager) cleanup(lock *sync.Mutex, room *entity.Room, player *entity.Player, transport registry.Transport) {
	_ = that.transports.Disconnect(transport, CloseCodeGameEnded, "game ended")

	if player == nil {
		return
	}

	lock.Lock()
	defer lock.Unlock()

	log := that.logger.With("method", "cleanup", "roomID", room.ID, "playerID", player.ID)

	transports, err := that.rooms.Transports(room)
	if err != nil {
		log.Error("failed to collect room transports", "error", err)
		return
	}

	for i, other := range transports {
		if other == transport {
			continue
		}

		if err = other.Send(&entity.EventMessage{Event: entity.EventPlayerDisconnected, Room: room}); err != nil {
			log.Error("failed to announce disconnect", "playerID", room.Players[i].ID, "error", err)
		}
	}
}
