package apperror

import "errors"

var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrRoomFull            = errors.New("room is full")
	ErrPlayerAlreadyInRoom = errors.New("player is already in the room")
	ErrPlayerNotFound      = errors.New("player not found")
	ErrInvalidChoice       = errors.New("not valid choice")
	ErrChoiceAlreadyMade   = errors.New("choice is already made")
	ErrGameIsNotStarted    = errors.New("game is not started")
	ErrTransportNotBound   = errors.New("no transport bound for player")
)
