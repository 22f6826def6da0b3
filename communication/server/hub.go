package server

import (
	"net/http"
	"time"

	"djambi/gamemaster"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
)

const (
	wsIdlePingInterval = 30 * time.Second
	wsWriteTimeout     = 10 * time.Second
)

// Message types sent to websocket clients.
const (
	MessageState  = "state"
	MessageUpdate = "update"
	MessagePing   = "ping"
)

type wsMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// serveWS streams the match state, then every update, until the client disconnects.
func (s *Server) serveWS(w http.ResponseWriter, r *http.Request, m *gamemaster.Match) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	updates, unsubscribe := m.Subscribe()
	s.log.Debug().Str("match", m.ID).Str("remote", r.RemoteAddr).Msg("websocket client connected")

	done := make(chan struct{})
	go func() {
		defer close(done)
		// drain client messages to observe the close
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	defer func() {
		unsubscribe()
		conn.Close()
		s.log.Debug().Str("match", m.ID).Msg("websocket client disconnected")
	}()

	if err := writeWS(conn, wsMessage{Type: MessageState, Payload: m.State()}); err != nil {
		return
	}

	ticker := time.NewTicker(wsIdlePingInterval)
	defer ticker.Stop()
	lastWrite := time.Now()
	for {
		select {
		case <-done:
			return
		case u, ok := <-updates:
			if !ok {
				return
			}
			if err := writeWS(conn, wsMessage{Type: MessageUpdate, Payload: u}); err != nil {
				return
			}
			lastWrite = time.Now()
		case <-ticker.C:
			if time.Since(lastWrite) < wsIdlePingInterval {
				continue
			}
			if err := writeWS(conn, wsMessage{Type: MessagePing}); err != nil {
				return
			}
			lastWrite = time.Now()
		}
	}
}

func writeWS(conn *websocket.Conn, msg wsMessage) error {
	data, err := sonic.Marshal(msg)
	if err != nil {
		return err
	}
	if err := conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}
