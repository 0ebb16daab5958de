package main

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"civicBack/internal/models"
)

const wsTicketTTL = time.Minute

const (
	readLimit     = 1 << 16
	readDeadline  = 120 * time.Second
	writeDeadline = 5 * time.Second
	pingInterval  = 15 * time.Second
)

type WebSocketManager struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan models.ComplaintEvent
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
}

func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan models.ComplaintEvent, 64),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
	}
}

// PublishComplaintEvent queues the event for delivery to every connected
// client. Never blocks the caller: if the feed is saturated the event is
// dropped, the database stays the source of truth.
func (ws *WebSocketManager) PublishComplaintEvent(event models.ComplaintEvent) {
	select {
	case ws.broadcast <- event:
	default:
		log.Printf("WS feed full, dropped event type=%s complaint=%d", event.Type, event.ComplaintID)
	}
}

// Все операции с clients — только здесь.
func (ws *WebSocketManager) Run() {
	for {
		select {
		case conn := <-ws.register:
			ws.clients[conn] = true
			log.Printf("WS register, clients=%d", len(ws.clients))

		case conn := <-ws.unregister:
			if _, ok := ws.clients[conn]; ok {
				_ = conn.Close()
				delete(ws.clients, conn)
				log.Printf("WS unregister, clients=%d", len(ws.clients))
			}

		case event := <-ws.broadcast:
			for conn := range ws.clients {
				_ = conn.SetWriteDeadline(time.Now().Add(writeDeadline))
				if err := conn.WriteJSON(event); err != nil {
					log.Printf("broadcast error: %v", err)
					_ = conn.Close()
					delete(ws.clients, conn)
				}
			}
		}
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin:       func(r *http.Request) bool { return true },
	ReadBufferSize:    1024,
	WriteBufferSize:   1024,
	EnableCompression: true,
}

// WebSocketTicketHandler mints a short-lived ticket for the feed.
// Browsers cannot set an Authorization header on a websocket connect,
// so the client fetches a ticket here and passes it in the query
// string of the /ws request.
func (app *application) WebSocketTicketHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(int)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ticket, err := app.tokenManager.NewJWT(strconv.Itoa(userID), wsTicketTTL)
	if err != nil {
		app.serverError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"ticket": ticket})
}

// WebSocketHandler validates the ticket, upgrades the connection and
// streams complaint events to the client. The feed is one-way: inbound
// frames are drained only to service pongs and detect disconnects.
func (app *application) WebSocketHandler(w http.ResponseWriter, r *http.Request) {
	if _, err := app.tokenManager.Parse(r.URL.Query().Get("ticket")); err != nil {
		http.Error(w, "Invalid or expired ticket", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WebSocket upgrade error:", err)
		return
	}

	conn.SetReadLimit(readLimit)
	conn.SetReadDeadline(time.Now().Add(readDeadline))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readDeadline))
		return nil
	})

	app.wsManager.register <- conn

	go pingLoop(app.wsManager, conn)
	go drainLoop(app.wsManager, conn)
}

func pingLoop(ws *WebSocketManager, conn *websocket.Conn) {
	t := time.NewTicker(pingInterval)
	defer t.Stop()
	for range t.C {
		_ = conn.SetWriteDeadline(time.Now().Add(writeDeadline))
		if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
			_ = writeClose(conn, websocket.CloseGoingAway, "ping error")
			ws.unregister <- conn
			return
		}
	}
}

func drainLoop(ws *WebSocketManager, conn *websocket.Conn) {
	defer func() {
		ws.unregister <- conn
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// аккуратная отправка close-фрейма
func writeClose(conn *websocket.Conn, code int, reason string) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeDeadline))
	return conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason),
		time.Now().Add(writeDeadline),
	)
}
