package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/fasthttp/websocket"
)

type Hub struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	mutex      sync.RWMutex
}

type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// TimerTickMessage tick del temporizador de una sesión
type TimerTickMessage struct {
	SessionID string `json:"sessionId"`
	Remaining int    `json:"remaining"`
	Timestamp string `json:"timestamp"`
}

// AutoAdvanceMessage avance automático por expiración del temporizador
type AutoAdvanceMessage struct {
	SessionID   string `json:"sessionId"`
	ActiveIndex int    `json:"activeIndex"`
	Timestamp   string `json:"timestamp"`
}

// SubmittedMessage sesión enviada, con su resultado para renderizar feedback
type SubmittedMessage struct {
	SessionID string      `json:"sessionId"`
	Score     interface{} `json:"score"`
	Timestamp string      `json:"timestamp"`
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan []byte),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			log.Printf("Cliente WebSocket conectado. Total: %d", len(h.clients))

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.Close()
			}
			h.mutex.Unlock()
			log.Printf("Cliente WebSocket desconectado. Total: %d", len(h.clients))

		case message := <-h.broadcast:
			h.mutex.RLock()
			for client := range h.clients {
				err := client.WriteMessage(websocket.TextMessage, message)
				if err != nil {
					log.Printf("Error enviando mensaje WebSocket: %v", err)
					delete(h.clients, client)
					client.Close()
				}
			}
			h.mutex.RUnlock()
		}
	}
}

func (h *Hub) Register(conn *websocket.Conn) {
	h.register <- conn
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	h.unregister <- conn
}

// BroadcastTimerTick notifica el tiempo restante de la pregunta activa
func (h *Hub) BroadcastTimerTick(sessionID string, remaining int) {
	h.BroadcastMessage("timerTick", TimerTickMessage{
		SessionID: sessionID,
		Remaining: remaining,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// BroadcastAutoAdvance notifica que la sesión avanzó sola de pregunta
func (h *Hub) BroadcastAutoAdvance(sessionID string, activeIndex int) {
	h.BroadcastMessage("autoAdvance", AutoAdvanceMessage{
		SessionID:   sessionID,
		ActiveIndex: activeIndex,
		Timestamp:   time.Now().Format(time.RFC3339),
	})
}

// BroadcastSubmitted notifica el envío de una sesión con su resultado
func (h *Hub) BroadcastSubmitted(sessionID string, score interface{}) {
	h.BroadcastMessage("sessionSubmitted", SubmittedMessage{
		SessionID: sessionID,
		Score:     score,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

func (h *Hub) BroadcastMessage(msgType string, data interface{}) {
	msg := Message{
		Type: msgType,
		Data: data,
	}

	msgData, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error serializando mensaje: %v", err)
		return
	}

	h.broadcast <- msgData
}
