// Package events fans live system events (marks, session changes,
// registration results) out to connected dashboard websockets.
package events

import (
	"encoding/json"
	"log"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"
)

const (
	TypeMark         = "mark"
	TypeSession      = "session"
	TypeRegistration = "registration"
)

type Event struct {
	Type    string `json:"type"`
	Name    string `json:"name,omitempty"`
	Message string `json:"message"`
	Time    string `json:"time"`
}

// SendFunc returns true if data was successfully sent
type SendFunc func([]byte) bool

var clients = cmap.New[SendFunc]()

// AddClient registers a connected dashboard; id must be unique per socket.
func AddClient(id string, fn SendFunc) {
	clients.Set(id, fn)
}

func RemoveClient(id string) {
	clients.Remove(id)
}

// Broadcast sends the event to every connected client, dropping the ones
// whose socket has gone away.
func Broadcast(eventType, name, message string) {
	data, err := json.Marshal(Event{
		Type:    eventType,
		Name:    name,
		Message: message,
		Time:    time.Now().Format("15:04:05"),
	})
	if err != nil {
		log.Printf("Event marshal error: %v", err)
		return
	}
	dead := []string{}
	clients.IterCb(func(id string, send SendFunc) {
		if !send(data) {
			dead = append(dead, id)
		}
	})
	for _, id := range dead {
		clients.Remove(id)
	}
}
