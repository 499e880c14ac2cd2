package socketio

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	socket "github.com/zishang520/socket.io/socket"

	jwtutil "github.com/mo-amir99/lms-progress-server-go/internal/utils/jwt"
)

// ErrClosed is returned when emitting through a closed server.
var ErrClosed = errors.New("socket server closed")

// Server pushes achievement events to connected learners. Every socket joins
// the room of its authenticated user, so emits fan out to all of their tabs.
type Server struct {
	io        *socket.Server
	logger    *slog.Logger
	jwtSecret string

	heartbeatStop chan struct{}
	heartbeatWG   sync.WaitGroup

	connMutex   sync.RWMutex
	connections map[string]*socket.Socket
	closed      bool
}

// NewServer creates a Socket.IO server that authenticates with JWTs.
func NewServer(logger *slog.Logger, jwtSecret string) *Server {
	opts := socket.DefaultServerOptions()
	opts.SetPingTimeout(60 * time.Second)
	opts.SetPingInterval(25 * time.Second)
	opts.SetServeClient(false)
	opts.SetPath("/socket.io")

	s := &Server{
		io:          socket.NewServer(nil, opts),
		logger:      logger,
		jwtSecret:   jwtSecret,
		connections: make(map[string]*socket.Socket),
	}

	s.setupEventHandlers()
	s.startHeartbeat()

	return s
}

// GetHandler returns the HTTP handler for Socket.IO.
func (s *Server) GetHandler() http.Handler {
	return s.io.ServeHandler(nil)
}

// EmitToUser sends an event to every socket of the user.
func (s *Server) EmitToUser(userID uuid.UUID, event string, payload any) error {
	s.connMutex.RLock()
	closed := s.closed
	s.connMutex.RUnlock()
	if closed {
		return ErrClosed
	}

	return s.io.To(userRoom(userID)).Emit(event, payload)
}

// ConnectionCount returns the number of live sockets.
func (s *Server) ConnectionCount() int {
	s.connMutex.RLock()
	defer s.connMutex.RUnlock()
	return len(s.connections)
}

// Close shuts down the Socket.IO server.
func (s *Server) Close() error {
	s.connMutex.Lock()
	if s.closed {
		s.connMutex.Unlock()
		return nil
	}
	s.closed = true
	s.connMutex.Unlock()

	close(s.heartbeatStop)
	s.heartbeatWG.Wait()

	done := make(chan struct{})
	s.io.Close(func() {
		close(done)
	})

	<-done
	return nil
}

func (s *Server) setupEventHandlers() {
	s.io.Use(s.connectionMiddleware)
	s.io.On("connection", func(args ...any) {
		sock, ok := args[0].(*socket.Socket)
		if !ok {
			s.logger.Error("unexpected connection payload", slog.Any("payload", args))
			return
		}
		s.handleConnection(sock)
	})
}

func (s *Server) connectionMiddleware(sock *socket.Socket, next func(*socket.ExtendedError)) {
	token := s.extractToken(sock)
	if token == "" {
		s.logger.Warn("socket connection rejected: missing token")
		next(socket.NewExtendedError("missing authentication token", map[string]any{"code": "MISSING_TOKEN"}))
		return
	}

	claims, err := jwtutil.VerifyToken(token, s.jwtSecret)
	if err != nil {
		s.logger.Warn("socket connection rejected: invalid token", slog.String("error", err.Error()))
		next(socket.NewExtendedError("invalid token", map[string]any{"code": "INVALID_TOKEN"}))
		return
	}

	sock.SetData(claims.UserID)
	next(nil)
}

func (s *Server) handleConnection(sock *socket.Socket) {
	userID, ok := userFromSocket(sock)
	if !ok {
		s.logger.Error("connection established without user context")
		sock.Disconnect(true)
		return
	}

	s.connMutex.Lock()
	s.connections[string(sock.Id())] = sock
	s.connMutex.Unlock()

	s.logger.Info("WebSocket connected",
		slog.String("userId", userID.String()),
		slog.String("connId", string(sock.Id())),
	)

	sock.Join(userRoom(userID))

	if err := sock.Emit("connectionConfirmed", map[string]any{
		"userId":    userID.String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		s.logger.Warn("failed to emit connection confirmation", slog.String("error", err.Error()))
	}

	sock.On("disconnect", func(args ...any) {
		reason := ""
		if len(args) > 0 {
			reason, _ = args[0].(string)
		}
		s.handleDisconnect(sock, userID, reason)
	})
}

func (s *Server) handleDisconnect(sock *socket.Socket, userID uuid.UUID, reason string) {
	s.connMutex.Lock()
	delete(s.connections, string(sock.Id()))
	s.connMutex.Unlock()

	s.logger.Info("WebSocket disconnected",
		slog.String("userId", userID.String()),
		slog.String("reason", reason),
	)
}

func (s *Server) startHeartbeat() {
	s.heartbeatStop = make(chan struct{})
	s.heartbeatWG.Add(1)

	go func() {
		defer s.heartbeatWG.Done()
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.sendHeartbeat()
			case <-s.heartbeatStop:
				return
			}
		}
	}()
}

func (s *Server) sendHeartbeat() {
	timestamp := time.Now().Unix()

	s.connMutex.RLock()
	defer s.connMutex.RUnlock()

	for id, sock := range s.connections {
		if err := sock.Emit("ping", timestamp); err != nil {
			s.logger.Debug("heartbeat emit failed", slog.String("connId", id), slog.String("error", err.Error()))
		}
	}
}

func (s *Server) extractToken(sock *socket.Socket) string {
	if sock == nil {
		return ""
	}

	if conn := sock.Conn(); conn != nil {
		if ctx := conn.Request(); ctx != nil {
			if req := ctx.Request(); req != nil {
				if token := req.URL.Query().Get("token"); token != "" {
					return token
				}
			}
		}
	}

	if hs := sock.Handshake(); hs != nil {
		if hs.Query != nil {
			if token, ok := hs.Query.Get("token"); ok && token != "" {
				return token
			}
		}
		if authMap, ok := hs.Auth.(map[string]any); ok {
			if token, ok := authMap["token"].(string); ok {
				return token
			}
		}
	}

	return ""
}

func userFromSocket(sock *socket.Socket) (uuid.UUID, bool) {
	if sock == nil {
		return uuid.Nil, false
	}
	id, ok := sock.Data().(uuid.UUID)
	return id, ok && id != uuid.Nil
}

func userRoom(userID uuid.UUID) socket.Room {
	return socket.Room("user_" + userID.String())
}
