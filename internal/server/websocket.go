package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/kapu/astroweb-go/internal/constants"
	"github.com/kapu/astroweb-go/internal/domain"
	"github.com/kapu/astroweb-go/internal/render"
	"github.com/kapu/astroweb-go/internal/session"
)

// previewMessage is pushed to live-preview sockets after every session write.
type previewMessage struct {
	Type    string        `json:"type"`
	Version uint64        `json:"version"`
	HTML    string        `json:"html"` // preview body fragment
	Layout  domain.Layout `json:"layout"`
}

func (s *Server) previewMessage(u session.Update) (previewMessage, error) {
	html, err := render.NewPreview().RenderString(u.Layout, render.Options{Fragment: true, Year: s.now().Year()})
	if err != nil {
		return previewMessage{}, err
	}
	return previewMessage{Type: "layout", Version: u.Version, HTML: html, Layout: u.Layout}, nil
}

// handleSessionSocket streams every new session version until the client
// goes away or the session is removed.
func (s *Server) handleSessionSocket(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFor(w, r)
	if !ok {
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("WebSocket upgrade failed", zap.String("session", sess.ID()), zap.Error(err))
		return
	}
	defer conn.Close()

	updates, unsubscribe := sess.Subscribe()
	defer unsubscribe()

	done := make(chan struct{})
	go s.readPump(conn, done)

	ticker := time.NewTicker(constants.WebSocketConfig.PingPeriod)
	defer ticker.Stop()

	send := func(u session.Update) bool {
		msg, err := s.previewMessage(u)
		if err != nil {
			s.logger.Error("Failed to render live preview", zap.String("session", sess.ID()), zap.Error(err))
			return true
		}
		_ = conn.SetWriteDeadline(time.Now().Add(constants.WebSocketConfig.WriteWait))
		if err := conn.WriteJSON(msg); err != nil {
			s.logger.Debug("WebSocket write failed", zap.String("session", sess.ID()), zap.Error(err))
			return false
		}
		return true
	}

	if !send(session.Update{Version: sess.Version(), Layout: sess.Layout()}) {
		return
	}

	for {
		select {
		case u, ok := <-updates:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "session closed"),
					time.Now().Add(constants.WebSocketConfig.WriteWait))
				return
			}
			if !send(u) {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(constants.WebSocketConfig.WriteWait)); err != nil {
				return
			}
		case <-done:
			return
		case <-r.Context().Done():
			return
		}
	}
}

// readPump discards client messages and tracks pongs; it closes done when the peer is gone.
func (s *Server) readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	_ = conn.SetReadDeadline(time.Now().Add(constants.WebSocketConfig.PongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(constants.WebSocketConfig.PongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
