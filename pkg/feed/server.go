package feed

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

// Handler serves the hub over HTTP:
//
//	GET /ws           websocket stream of events, last event first
//	GET /api/v1/last  last event as JSON, 204 when nothing was read yet
func Handler(h *Hub) http.Handler {
	s := &server{
		hub: h,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/api/v1/last", s.handleLast)
	return mux
}

type server struct {
	hub      *Hub
	upgrader websocket.Upgrader
}

func (s *server) handleLast(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ev, ok := s.hub.Last()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(ev); err != nil {
		s.hub.log.Warn().Err(err).Msg("writing last event")
	}
}

func (s *server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.hub.log.Warn().Err(err).Msg("websocket upgrade")
		return
	}
	defer conn.Close()

	sub := s.hub.Subscribe()
	defer sub.Cancel()
	log := s.hub.log.With().Str("subscriber", sub.ID).Logger()

	// Clients only listen; reading detects their departure.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Debug().Err(err).Msg("websocket read")
				}
				return
			}
		}
	}()

	for {
		select {
		case ev, ok := <-sub.C:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "feed closed"),
					time.Now().Add(writeWait))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(ev); err != nil {
				log.Warn().Err(err).Msg("websocket write")
				return
			}
		case <-gone:
			return
		}
	}
}
