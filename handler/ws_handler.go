package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"my-social/events"
)

const (
	keepAlivePingInterval = 10 * time.Second
	writeWait             = 5 * time.Second
	pongWait              = 2 * keepAlivePingInterval
	streamBuffer          = 32
)

// StreamMessages pushes every message addressed to the caller over a
// websocket until either side closes.
func (h *Handler) StreamMessages(w http.ResponseWriter, r *http.Request) {
	me, ok := currentUserID(w, r)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	outgoing := make(chan []byte, streamBuffer)
	unsubscribe, err := h.Bus.Subscribe(events.MessagesFor(me), func(data []byte) {
		select {
		case outgoing <- data:
		default:
			log.Printf("dropping message event for user %d: stream buffer full", me)
		}
	})
	if err != nil {
		log.Printf("failed to subscribe to messages for user %d: %v", me, err)
		return
	}
	defer func() {
		if err := unsubscribe(); err != nil {
			log.Printf("failed to unsubscribe messages for user %d: %v", me, err)
		}
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(keepAlivePingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case data := <-outgoing:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
