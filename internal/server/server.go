// Package server accepts websocket clients and runs one chat session per
// connection.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/Cyclone1070/fschat/internal/dispatch"
	"github.com/Cyclone1070/fschat/internal/protocol"
	"github.com/Cyclone1070/fschat/internal/provider"
	"github.com/Cyclone1070/fschat/internal/session"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// toolDispatcher executes a parsed tool call.
type toolDispatcher interface {
	Dispatch(ctx context.Context, call protocol.ToolCall) dispatch.Result
}

// Options configures a Server.
type Options struct {
	Addr         string
	ReadLimit    int64
	PingInterval time.Duration
	WriteTimeout time.Duration
	Session      session.Options
}

// Server owns the HTTP listener and the registry of live sessions.
type Server struct {
	dispatcher toolDispatcher
	completer  provider.Completer
	opts       Options
	registry   *Registry
	upgrader   websocket.Upgrader
	log        logrus.FieldLogger
	wg         sync.WaitGroup
}

// New creates a Server. Dispatcher and completer are shared by all sessions.
func New(dispatcher toolDispatcher, completer provider.Completer, opts Options, log logrus.FieldLogger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Server{
		dispatcher: dispatcher,
		completer:  completer,
		opts:       opts,
		registry:   NewRegistry(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Clients such as editor extensions send their own origin.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		log: log,
	}
}

// Registry returns the live session registry.
func (s *Server) Registry() *Registry { return s.registry }

// Handler returns the HTTP routes: /ws for chat clients and /healthz.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

// Run listens on Options.Addr and serves until ctx is cancelled, then shuts
// down and waits for every session to finish.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return &ListenError{Addr: s.opts.Addr, Cause: err}
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return gctx },
	}

	g.Go(func() error {
		s.log.WithField("addr", ln.Addr().String()).Info("server listening")
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		err := httpServer.Shutdown(shutdownCtx)
		s.wg.Wait()
		s.log.Info("server stopped")
		return err
	})

	return g.Wait()
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	// Counted before Upgrade: once hijacked, Shutdown no longer sees the
	// connection.
	s.wg.Add(1)
	defer s.wg.Done()

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Debug("websocket upgrade failed")
		return
	}

	conn := newWSConn(ws, connOptions{
		ReadLimit:    s.opts.ReadLimit,
		PingInterval: s.opts.PingInterval,
		WriteTimeout: s.opts.WriteTimeout,
	})

	id := uuid.NewString()
	log := s.log.WithFields(logrus.Fields{"session": id, "remote": r.RemoteAddr})
	sess := session.New(id, conn, s.dispatcher, s.completer, s.opts.Session, log)

	s.registry.Add(sess)
	defer s.registry.Remove(id)
	log.WithField("clients", s.registry.Len()).Info("client connected")

	err = sess.Run(r.Context())
	entry := log.WithField("clients", s.registry.Len()-1)
	if err != nil && !errors.Is(err, session.ErrTransportClosed) {
		entry.WithError(err).Warn("session ended with error")
		return
	}
	entry.Info("client disconnected")
}

type healthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(healthResponse{Status: "ok", Sessions: s.registry.Len()})
}
