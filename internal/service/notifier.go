package service

// Notifier delivers realtime events to a connected user. The websocket hub
// implements it; a nil notifier disables delivery.
type Notifier interface {
	SendToUser(userID uint, event interface{}) error
}
