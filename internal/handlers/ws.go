package handlers

import (
	"net/http"
	"time"

	"github.com/XavierBriggs/fortuna/services/arb-calculator/internal/calculator"
	"github.com/XavierBriggs/fortuna/services/arb-calculator/internal/metrics"
	"github.com/XavierBriggs/fortuna/services/arb-calculator/internal/report"
	"github.com/XavierBriggs/fortuna/services/arb-calculator/internal/session"
	"github.com/XavierBriggs/fortuna/services/arb-calculator/pkg/models"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Maximum message size allowed from peer
	maxMessageSize = 1024

	defaultIdleTimeout = 5 * time.Minute
)

// SessionConfig controls live calculator sessions
type SessionConfig struct {
	IdleTimeout    time.Duration
	AllowedOrigins []string
}

func (h *Handler) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, allowed := range h.sessions.AllowedOrigins {
				if allowed == "*" || allowed == origin {
					return true
				}
			}
			return false
		},
	}
}

// HandleWebSocket serves a live calculator session. The server sends a
// result on connect and a full recomputed result after every update.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader().Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	s := session.New(h.solver, h.defaultMode)
	log := h.logger.With().Str("session_id", s.ID).Logger()

	metrics.SessionsActive.Inc()
	defer metrics.SessionsActive.Dec()

	log.Info().Msg("session opened")
	defer func() {
		log.Info().
			Int64("updates", s.Updates()).
			Dur("duration", time.Since(s.ConnectedAt())).
			Msg("session closed")
	}()

	conn.SetReadLimit(maxMessageSize)

	resp, res, err := s.Recompute()
	if err != nil {
		// The session's mode comes from validated config, so this means a bug
		log.Error().Err(err).Msg("initial recompute failed")
		return
	}
	metrics.ObserveSolve(resp.Mode, resp.Status, res.Iterations)
	if err := h.writeResult(conn, s, resp); err != nil {
		return
	}

	for {
		conn.SetReadDeadline(time.Now().Add(h.sessions.IdleTimeout))

		var msg models.ClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Msg("session read ended")
			}
			return
		}

		if msg.Type != models.MessageTypeUpdate {
			if err := h.writeError(conn, s, "unknown message type: "+msg.Type); err != nil {
				return
			}
			continue
		}

		resp, res, err := s.Apply(msg.Payload)
		if err != nil {
			metrics.SolveErrorsTotal.WithLabelValues("ws").Inc()
			if err := h.writeError(conn, s, err.Error()); err != nil {
				return
			}
			continue
		}

		metrics.ObserveSolve(resp.Mode, resp.Status, res.Iterations)
		if res.Status() == calculator.StatusDidNotConverge {
			log.Warn().Int("iterations", res.Iterations).Msg("solver did not converge")
		}

		if err := h.writeResult(conn, s, resp); err != nil {
			return
		}
	}
}

func (h *Handler) writeResult(conn *websocket.Conn, s *session.Session, resp models.SolveResponse) error {
	params := report.ToModel(s.Params())
	return h.write(conn, models.ServerMessage{
		Type:      models.MessageTypeResult,
		SessionID: s.ID,
		Params:    &params,
		Result:    &resp,
		Timestamp: time.Now(),
	})
}

func (h *Handler) writeError(conn *websocket.Conn, s *session.Session, message string) error {
	return h.write(conn, models.ServerMessage{
		Type:      models.MessageTypeError,
		SessionID: s.ID,
		Error:     message,
		Timestamp: time.Now(),
	})
}

func (h *Handler) write(conn *websocket.Conn, msg models.ServerMessage) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(msg); err != nil {
		h.logger.Debug().Err(err).Str("session_id", msg.SessionID).Msg("session write failed")
		return err
	}
	return nil
}
