package server

import (
	"time"

	"github.com/gorilla/websocket"

	"github.com/wishlane/landing/pkg/protocol"
)

// ReadLoop continuously reads frames from the WebSocket connection.
// Pings are answered directly; other frames pass the rate limiter and are
// queued for the EventLoop. It blocks until the connection fails and then
// closes the session.
func (s *Session) ReadLoop() {
	defer s.Close()

	s.conn.SetReadLimit(s.config.MaxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
	})

	for {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure,
				websocket.CloseNoStatusReceived) {
				s.logger.Warn("read error", "error", err)
				s.metrics.wsError("read")
			}
			return
		}

		_ = s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
		s.touch()
		s.bytesRecv.Add(uint64(len(msg)))

		frame, err := protocol.DecodeClient(msg)
		if err != nil {
			s.logger.Debug("frame decode error", "error", err)
			s.metrics.dropped("invalid")
			s.sendError(protocol.ErrInvalidFrame, "invalid frame")
			continue
		}

		if frame.Type == protocol.ClientPing {
			if err := s.send(protocol.NewPong()); err != nil {
				return
			}
			continue
		}

		if frame.Type != protocol.ClientHello && !s.allow() {
			s.metrics.dropped("rate_limited")
			s.sendError(protocol.ErrRateLimited, ErrRateLimited.Error())
			continue
		}

		if err := s.QueueEvent(frame); err != nil {
			s.sendError(protocol.ErrRateLimited, err.Error())
		}
	}
}

// WriteLoop sends heartbeat pings until the session is closed.
func (s *Session) WriteLoop() {
	ticker := s.clock.Ticker(s.config.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.sendPing(); err != nil {
				s.logger.Debug("heartbeat failed", "error", err)
				s.Close()
				return
			}

		case <-s.done:
			return
		}
	}
}

// EventLoop processes queued frames and dispatched callbacks one at a time.
func (s *Session) EventLoop() {
	for {
		select {
		case frame := <-s.events:
			s.handleFrame(frame)

		case fn := <-s.dispatchCh:
			s.executeDispatch(fn)

		case <-s.done:
			return
		}
	}
}
