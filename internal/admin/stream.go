// ABOUTME: WebSocket feed of new request logs for the admin UI.
// ABOUTME: Each connection subscribes to the logging feed until the browser goes away.

package admin

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/2389/wpish/internal/store"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     sameHostOrigin,
}

// sameHostOrigin accepts clients without an Origin header, local
// development origins and pages served by this server.
func sameHostOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if strings.EqualFold(u.Host, r.Host) {
		return true
	}
	switch u.Hostname() {
	case "localhost", "127.0.0.1", "::1":
		return true
	}
	return false
}

// streamEntry is the wire form of a request log pushed to the browser.
type streamEntry struct {
	RequestID  string `json:"request_id"`
	Timestamp  string `json:"timestamp"`
	API        string `json:"api"`
	Method     string `json:"method"`
	Path       string `json:"path"`
	Query      string `json:"query,omitempty"`
	Status     int    `json:"status"`
	DurationMs int    `json:"duration_ms"`
	Client     string `json:"client,omitempty"`
}

func newStreamEntry(l *store.RequestLog) streamEntry {
	return streamEntry{
		RequestID:  l.RequestID,
		Timestamp:  l.Timestamp.UTC().Format("2006-01-02 15:04:05"),
		API:        l.APIName,
		Method:     l.Method,
		Path:       l.Path,
		Query:      l.Query,
		Status:     l.StatusCode,
		DurationMs: l.DurationMs,
		Client:     l.Client,
	}
}

func (h *Handlers) logsStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	entries, unsubscribe := h.feed.Subscribe()
	defer unsubscribe()

	done := make(chan struct{})
	go readUntilClosed(conn, done)
	writeEntries(conn, entries, done)
}

// readUntilClosed drains client frames so pongs and close frames are
// processed, and closes done when the connection ends.
func readUntilClosed(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	conn.SetReadLimit(512)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("Failed to set read deadline: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Log stream error: %v", err)
			}
			return
		}
	}
}

func writeEntries(conn *websocket.Conn, entries <-chan *store.RequestLog, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case entry, ok := <-entries:
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Printf("Failed to set write deadline: %v", err)
				return
			}
			if !ok {
				if err := conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					log.Printf("Failed to write close message: %v", err)
				}
				return
			}
			msg, err := json.Marshal(newStreamEntry(entry))
			if err != nil {
				log.Printf("Failed to encode log entry: %v", err)
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Printf("Failed to write message: %v", err)
				return
			}

		case <-ticker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Printf("Failed to set ping write deadline: %v", err)
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("Failed to write ping: %v", err)
				return
			}

		case <-done:
			return
		}
	}
}
