package services

import "github.com/Dosada05/gameet/live"

// Broadcaster pushes messages to websocket rooms. *live.Hub implements it.
type Broadcaster interface {
	BroadcastToRoom(roomID string, message interface{})
}

func publishEvent(b Broadcaster, eventID int, msgType string, payload interface{}) {
	if b == nil {
		return
	}
	room := live.EventRoom(eventID)
	b.BroadcastToRoom(room, live.Message{Type: msgType, Payload: payload, RoomID: room})
}
