// Package bridge terminates client WebSocket connections and pumps
// video frames between each client and its inference channel.
package bridge

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"haircast-core/internal/codec"
	"haircast-core/internal/core/dispose"
	"haircast-core/internal/core/idgen"
	corelog "haircast-core/internal/core/log"
	"haircast-core/internal/core/metrics"
	"haircast-core/internal/errors"
	"haircast-core/internal/session"
)

// Error codes carried in the outbound error envelope.
const (
	CodeChannelUnavailable = "ChannelUnavailable"
	CodeDuplicateSession   = "DuplicateSession"
	CodeInternalError      = "InternalError"
)

// Server is the WebSocket-facing side of the session bridge. One
// reader goroutine per connection plus one receive pump per session.
type Server struct {
	*dispose.ManagerBase

	config   *Config
	registry *session.Registry
	provider ChannelProvider
	ids      idgen.Generator
	upgrader websocket.Upgrader
}

// NewServer creates a bridge server.
func NewServer(parentCtx context.Context, config *Config, registry *session.Registry, provider ChannelProvider) *Server {
	if config == nil {
		config = DefaultConfig()
	}
	config.applyDefaults()

	return &Server{
		ManagerBase: dispose.NewManager("BridgeServer", parentCtx),
		config:      config,
		registry:    registry,
		provider:    provider,
		ids:         idgen.NewUUIDGenerator(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// The mobile client connects from an app webview; origin
			// enforcement happens at the gateway in front of us.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// RegisterRoutes mounts the stream endpoint on the router.
func (s *Server) RegisterRoutes(router *mux.Router) {
	router.HandleFunc(s.config.Path, s.HandleStream)
}

// HandleStream upgrades the request and runs the session until either
// side disconnects.
func (s *Server) HandleStream(w http.ResponseWriter, r *http.Request) {
	if err := s.authorize(r); err != nil {
		corelog.Warnf("Bridge: rejected upgrade from %s: %v", r.RemoteAddr, err)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		corelog.Warnf("Bridge: upgrade failed for %s: %v", r.RemoteAddr, err)
		return
	}
	conn.SetReadLimit(s.config.ReadLimit)

	s.serveConn(conn)
}

// serveConn owns the connection for the lifetime of one session.
func (s *Server) serveConn(conn *websocket.Conn) {
	defer conn.Close()

	var wmu sync.Mutex

	id := s.ids.NewSessionID()
	sess := session.New(id)
	if err := s.registry.Create(sess); err != nil {
		corelog.Errorf("Bridge: session %s registration failed: %v", id, err)
		s.writeError(conn, &wmu, CodeDuplicateSession, "session id collision")
		sess.MarkClosed()
		return
	}

	openCtx, cancel := context.WithTimeout(s.Ctx(), s.config.OpenTimeout)
	ch, err := s.provider.OpenChannel(openCtx, id)
	cancel()
	if err != nil {
		corelog.Errorf("Bridge: session %s channel open failed: %v", id, err)
		s.writeError(conn, &wmu, CodeChannelUnavailable, "inference backend unavailable")
		s.registry.Remove(id)
		sess.MarkClosed()
		return
	}

	if err := sess.Activate(ch); err != nil {
		corelog.Errorf("Bridge: session %s activation failed: %v", id, err)
		s.writeError(conn, &wmu, CodeInternalError, "session activation failed")
		s.provider.CloseChannel(id)
		s.registry.Remove(id)
		sess.MarkClosed()
		return
	}

	if err := s.writeMessage(conn, &wmu, codec.ConnectionEstablishedMessage{
		SessionID: id,
		Timestamp: time.Now().UnixMilli(),
	}); err != nil {
		corelog.Warnf("Bridge: session %s handshake write failed: %v", id, err)
		s.closeSession(sess)
		return
	}
	corelog.Infof("Bridge: session %s established", id)

	g, ctx := errgroup.WithContext(s.Ctx())
	g.Go(func() error {
		return s.receivePump(ctx, conn, &wmu, sess, ch)
	})
	g.Go(func() error {
		return s.readLoop(ctx, conn, &wmu, sess, ch)
	})
	if err := g.Wait(); err != nil {
		corelog.Debugf("Bridge: session %s ended: %v", id, err)
	}

	s.closeSession(sess)
	corelog.Infof("Bridge: session %s closed (sent=%d received=%d dropped=%d)",
		id, sess.FramesSent(), sess.FramesReceived(), sess.DroppedFrames())
}

// closeSession runs the teardown sequence. Also used by the idle
// sweeper, so it must tolerate partially closed sessions.
func (s *Server) closeSession(sess *session.Session) {
	sess.StartClosing()
	s.provider.CloseChannel(sess.ID)
	s.registry.Remove(sess.ID)
	sess.MarkClosed()
}

// EvictSession releases an idle session's resources. Wired as the
// registry sweeper callback; the session is already out of the
// registry when this runs.
func (s *Server) EvictSession(sess *session.Session) {
	sess.StartClosing()
	s.provider.CloseChannel(sess.ID)
	sess.MarkClosed()
}

// readLoop handles inbound client messages until the socket errors
// out. Frame-level problems are recovered locally; only socket and
// channel failures end the session.
func (s *Server) readLoop(ctx context.Context, conn *websocket.Conn, wmu *sync.Mutex, sess *session.Session, ch session.ChannelHandle) error {
	var limiter *rate.Limiter
	if s.config.MaxFPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(s.config.MaxFPS), s.config.MaxFPS)
	}

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				corelog.Debugf("Bridge: session %s socket error: %v", sess.ID, err)
			}
			return err
		}

		msg, err := codec.Decode(raw)
		if err != nil {
			metrics.IncrementMalformedFrames()
			corelog.Warnf("Bridge: session %s dropped malformed message: %v", sess.ID, err)
			continue
		}

		switch m := msg.(type) {
		case codec.VideoFrameMessage:
			if limiter != nil && !limiter.Allow() {
				sess.RecordDropped()
				metrics.IncrementFramesDropped()
				continue
			}
			m.Frame.SessionID = sess.ID
			switch err := ch.Send(m.Frame); {
			case err == nil:
				sess.RecordSent()
			case errors.Is(err, errors.ErrQueueFull):
				// Queue at capacity: the incoming frame is the one
				// dropped; frames already queued keep their slots.
				sess.RecordDropped()
				metrics.IncrementFramesDropped()
			default:
				s.writeError(conn, wmu, CodeChannelUnavailable, "inference channel lost")
				return err
			}
		case codec.PingMessage:
			if err := s.writeMessage(conn, wmu, codec.PongMessage{Timestamp: m.Timestamp}); err != nil {
				return err
			}
			sess.Touch()
		default:
			metrics.IncrementMalformedFrames()
			corelog.Warnf("Bridge: session %s sent unexpected %T", sess.ID, m)
		}
	}
}

// receivePump forwards processed frames to the client in the order
// the backend emitted them. End of stream while the session is still
// active means the channel was lost underneath us.
func (s *Server) receivePump(ctx context.Context, conn *websocket.Conn, wmu *sync.Mutex, sess *session.Session, ch session.ChannelHandle) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case frame, ok := <-ch.Recv():
			if !ok {
				// End of stream. Close the socket either way so the
				// read loop unblocks and the session fully releases;
				// an eviction or teardown must not leave a live socket.
				if sess.State() == session.StateActive {
					s.writeError(conn, wmu, CodeChannelUnavailable, "inference channel lost")
					conn.Close()
					return errors.ErrChannelClosed
				}
				conn.Close()
				return nil
			}
			if err := s.writeMessage(conn, wmu, codec.ProcessedFrameMessage{Frame: frame}); err != nil {
				conn.Close()
				return err
			}
			sess.RecordReceived()
			if frame.Timestamp > 0 {
				sess.RecordLatency(time.Now().UnixMilli() - frame.Timestamp)
			}
			metrics.IncrementFramesReturned()
		}
	}
}

func (s *Server) writeMessage(conn *websocket.Conn, wmu *sync.Mutex, msg codec.Message) error {
	wire, err := codec.Encode(msg)
	if err != nil {
		return err
	}
	wmu.Lock()
	defer wmu.Unlock()
	conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	return conn.WriteMessage(websocket.TextMessage, wire)
}

func (s *Server) writeError(conn *websocket.Conn, wmu *sync.Mutex, code, message string) {
	// Best effort; the socket may already be gone.
	if err := s.writeMessage(conn, wmu, codec.ErrorMessage{
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UnixMilli(),
	}); err != nil {
		corelog.Debugf("Bridge: error envelope write failed: %v", err)
	}
}
