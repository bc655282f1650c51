package entity

// RoomEvent - kind of a lifecycle event delivered to room members.
type RoomEvent string

const (
	EventConnectedToRoom    RoomEvent = "ConnectedToRoom"
	EventNewPlayerConnected RoomEvent = "NewPlayerConnected"
	EventPlayerDisconnected RoomEvent = "PlayerDisconnected"
	EventGameCanBeStart     RoomEvent = "GameCanBeStart"
	EventDraw               RoomEvent = "Draw"
	EventWin                RoomEvent = "Win"
	EventLose               RoomEvent = "Lose"
)

// EventMessage is the outbound JSON envelope. Hash is the session credential
// and is carried only by ConnectedToRoom, only to the joining transport.
type EventMessage struct {
	Event RoomEvent `json:"event"`
	Room  *Room     `json:"room"`
	Hash  string    `json:"hash,omitempty"`
}
