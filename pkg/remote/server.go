package remote

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/buoy-ui/buoy/internal/errors"
	"github.com/buoy-ui/buoy/pkg/protocol"
)

// Server accepts WebSocket connections and runs one engine session per
// connection.
type Server struct {
	cfg      *Config
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu       sync.RWMutex
	sessions map[string]*Session

	httpServer *http.Server
}

// New creates a server. A nil cfg uses DefaultConfig; zero fields are filled
// from it.
func New(cfg *Config) *Server {
	cfg = cfg.withDefaults()
	return &Server{
		cfg:    cfg,
		logger: cfg.Logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:    cfg.ReadBufferSize,
			WriteBufferSize:   cfg.WriteBufferSize,
			EnableCompression: cfg.EnableCompression,
			CheckOrigin:       cfg.CheckOrigin,
		},
		sessions: make(map[string]*Session),
	}
}

// Config returns the normalized configuration the server runs with.
func (s *Server) Config() *Config {
	return s.cfg.Clone()
}

// Router returns the HTTP handler: the WebSocket endpoint at
// BasePath + "/ws", a health probe at "/healthz", and, when a metrics
// collector is configured, its exposition at "/metrics".
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealth)
	if s.cfg.Metrics != nil {
		r.Handle("/metrics", s.cfg.Metrics.Handler())
	}
	r.Get("/ws", s.HandleWebSocket)

	base := "/" + strings.Trim(s.cfg.BasePath, "/")
	if base == "/" {
		return r
	}
	outer := chi.NewRouter()
	outer.Mount(base, r)
	return outer
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":   "ok",
		"sessions": s.SessionCount(),
	})
}

// HandleWebSocket upgrades the connection, performs the handshake, and
// starts the session. It can be mounted directly for callers that bring
// their own router.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed",
			"error", errors.New("E040").Wrap(err),
			"remote", r.RemoteAddr)
		return
	}

	sess, err := s.handshake(conn)
	if err != nil {
		s.logger.Warn("handshake failed", "error", err, "remote", r.RemoteAddr)
		conn.Close()
		return
	}

	s.logger.Info("session started",
		"session_id", sess.ID,
		"remote", r.RemoteAddr)
	sess.start()
}

// handshake reads the Hello frame, validates it, and answers with Welcome.
// On failure it sends the matching Welcome status and returns an error; the
// caller closes the connection.
func (s *Server) handshake(conn *websocket.Conn) (*Session, error) {
	conn.SetReadLimit(s.cfg.ReadLimit)
	conn.SetReadDeadline(time.Now().Add(s.cfg.HandshakeTimeout))

	_, data, err := conn.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("reading hello: %w", err)
	}

	frame, err := protocol.DecodeFrame(data)
	if err != nil {
		s.sendHandshakeError(conn, protocol.HandshakeInvalidFormat)
		return nil, errors.New("E041").Wrap(err)
	}
	if frame.Type != protocol.FrameHello {
		s.sendHandshakeError(conn, protocol.HandshakeInvalidFormat)
		return nil, errors.New("E041").WithDetail("first frame was %s, want Hello", frame.Type)
	}
	hello, err := protocol.DecodeHello(frame.Payload)
	if err != nil {
		s.sendHandshakeError(conn, protocol.HandshakeInvalidFormat)
		return nil, errors.New("E041").Wrap(err)
	}

	if hello.Version.Major != protocol.CurrentVersion.Major {
		s.sendHandshakeError(conn, protocol.HandshakeVersionMismatch)
		return nil, errors.New("E042").WithDetail("client speaks %d.%d, server speaks %d.%d",
			hello.Version.Major, hello.Version.Minor,
			protocol.CurrentVersion.Major, protocol.CurrentVersion.Minor)
	}

	if s.cfg.MaxSessions > 0 && s.SessionCount() >= s.cfg.MaxSessions {
		s.sendHandshakeError(conn, protocol.HandshakeServerBusy)
		return nil, errors.New("E043")
	}

	sess := newSession(s, conn, hello)
	s.addSession(sess)
	if s.cfg.Metrics != nil {
		s.cfg.Metrics.SessionOpened()
	}

	welcome := protocol.NewWelcome(sess.ID, uint64(time.Now().UnixMilli()), uint32(s.cfg.ReadLimit))
	if err := sess.writeFrame(protocol.FrameWelcome, 0, protocol.EncodeWelcome(welcome)); err != nil {
		sess.teardown()
		return nil, fmt.Errorf("sending welcome: %w", err)
	}

	// The handshake deadline is done; the read loop sets its own.
	conn.SetReadDeadline(time.Time{})
	return sess, nil
}

// sendHandshakeError answers a failed handshake with a Welcome carrying the
// failure status. Write errors are ignored; the connection is closing.
func (s *Server) sendHandshakeError(conn *websocket.Conn, status protocol.HandshakeStatus) {
	welcome := protocol.NewWelcomeError(status)
	frame := protocol.NewFrame(protocol.FrameWelcome, protocol.EncodeWelcome(welcome))
	conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
	conn.WriteMessage(websocket.BinaryMessage, frame.Encode())
}

// addSession registers a session, closing any live session holding the same
// id first. The takeover lets a reconnecting host keep its id; engine state
// is not carried over.
func (s *Server) addSession(sess *Session) {
	s.mu.Lock()
	old := s.sessions[sess.ID]
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	if old != nil {
		s.logger.Info("session taken over", "session_id", sess.ID)
		old.Close(protocol.CloseGoingAway, "session taken over by a new connection")
	}
}

// removeSession drops the registry entry if it still belongs to sess.
func (s *Server) removeSession(sess *Session) {
	s.mu.Lock()
	if s.sessions[sess.ID] == sess {
		delete(s.sessions, sess.ID)
	}
	s.mu.Unlock()
}

// GetSession returns the live session with the given id, or nil.
func (s *Server) GetSession(id string) *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[id]
}

// SessionCount returns the number of live sessions.
func (s *Server) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Run listens on Config.Addr and serves until ctx is canceled or an
// interrupt arrives, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	s.httpServer = &http.Server{
		Addr:    s.cfg.Addr,
		Handler: s.Router(),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", s.cfg.Addr, "base_path", s.cfg.BasePath)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Shutdown closes every session with a ServerShutdown notice, then shuts the
// HTTP server down. Safe to call when Run was never started.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.RLock()
	open := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		open = append(open, sess)
	}
	s.mu.RUnlock()

	s.logger.Info("shutting down", "sessions", len(open))
	for _, sess := range open {
		sess.Close(protocol.CloseServerShutdown, "server shutting down")
	}

	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// generateSessionID returns a cryptographically random session id.
func generateSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("crypto/rand failed: %v", err))
	}
	return hex.EncodeToString(b)
}
