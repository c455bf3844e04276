// Package session runs the per-connection chat loop: it reads client frames
// in order, routes direct tool calls to the dispatcher, asks the completer
// for replies to everything else, and writes the results back.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/Cyclone1070/fschat/internal/dispatch"
	"github.com/Cyclone1070/fschat/internal/protocol"
	"github.com/Cyclone1070/fschat/internal/provider"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// InvalidMessageFormat is sent when a client frame cannot be decoded.
const InvalidMessageFormat = "Invalid message format"

// inboundQueue bounds how many frames may wait while one is processed.
const inboundQueue = 16

// State is the lifecycle stage of a session.
type State int32

const (
	StateConnected State = iota
	StateActive
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnected:
		return "connected"
	case StateActive:
		return "active"
	case StateClosed:
		return "closed"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// Conn is a message-oriented client connection. ReadMessage blocks until a
// frame arrives and fails once the connection is closed. WriteMessage is only
// called from the session loop.
type Conn interface {
	ReadMessage() ([]byte, error)
	WriteMessage(msg protocol.Message) error
	Close() error
}

// toolDispatcher executes a parsed tool call.
type toolDispatcher interface {
	Dispatch(ctx context.Context, call protocol.ToolCall) dispatch.Result
}

// Options configures a session.
type Options struct {
	// Greeting is sent as an ai-message right after connecting. Empty disables it.
	Greeting string
	// CompletionTimeout bounds each completer call. Zero means no bound.
	CompletionTimeout time.Duration
	// MaxHistory caps the conversation length. Zero means unbounded.
	MaxHistory int
}

// Session is the state of one live client connection.
type Session struct {
	id         string
	conn       Conn
	dispatcher toolDispatcher
	completer  provider.Completer
	opts       Options
	history    *History
	state      atomic.Int32
	log        logrus.FieldLogger
}

// New creates a session in the Connected state.
func New(id string, conn Conn, dispatcher toolDispatcher, completer provider.Completer, opts Options, log logrus.FieldLogger) *Session {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Session{
		id:         id,
		conn:       conn,
		dispatcher: dispatcher,
		completer:  completer,
		opts:       opts,
		history:    NewHistory(opts.MaxHistory),
		log:        log.WithField("session", id),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// State returns the current lifecycle stage.
func (s *Session) State() State { return State(s.state.Load()) }

// Run greets the client and serves frames until the connection closes or ctx
// is cancelled. It always closes the connection before returning. The
// returned error matches ErrTransportClosed when the peer went away, and is
// nil when ctx was cancelled.
func (s *Session) Run(ctx context.Context) error {
	defer func() {
		s.state.Store(int32(StateClosed))
		s.history.Reset()
	}()

	if s.opts.Greeting != "" {
		if err := s.send(protocol.AIMessage(s.opts.Greeting)); err != nil {
			_ = s.conn.Close()
			return err
		}
	}
	s.state.Store(int32(StateActive))
	s.log.Debug("session active")

	frames := make(chan []byte, inboundQueue)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(frames)
		for {
			data, err := s.conn.ReadMessage()
			if err != nil {
				return &TransportError{Op: "read", Cause: err}
			}
			select {
			case frames <- data:
			case <-gctx.Done():
				return nil
			}
		}
	})

	g.Go(func() error {
		defer s.conn.Close()
		for {
			select {
			case <-gctx.Done():
				return nil
			case data, ok := <-frames:
				if !ok {
					return nil
				}
				if err := s.handle(gctx, data); err != nil {
					return err
				}
			}
		}
	})

	err := g.Wait()
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// handle processes one inbound frame. Only transport failures are returned.
func (s *Session) handle(ctx context.Context, data []byte) error {
	msg, err := protocol.DecodeInbound(data)
	if err != nil {
		s.log.WithError(err).Debug("rejecting inbound frame")
		return s.send(protocol.Error(InvalidMessageFormat))
	}

	if call, ok := protocol.Parse(msg.Content); ok {
		res := s.dispatcher.Dispatch(ctx, call)
		return s.send(res.Message())
	}

	s.history.Append(provider.RoleUser, msg.Content)

	reply, err := s.complete(ctx)
	if err != nil {
		if ctx.Err() != nil {
			// The session is shutting down; nobody is left to tell.
			return nil
		}
		perr := provider.Normalize(err)
		s.log.WithError(err).WithField("code", perr.Code).Warn("completion failed")
		return s.send(protocol.Error(upstreamMessage(perr)))
	}

	s.history.Append(provider.RoleAssistant, reply)

	if call, ok := protocol.Parse(reply); ok {
		res := s.dispatcher.Dispatch(ctx, call)
		s.history.Append(provider.RoleUser, toolNote(call, res))
		return s.send(res.Message())
	}

	return s.send(protocol.AIMessage(reply))
}

func (s *Session) complete(ctx context.Context) (string, error) {
	if s.opts.CompletionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.CompletionTimeout)
		defer cancel()
	}

	reply, err := s.completer.Complete(ctx, s.history.Messages())
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "", &provider.ProviderError{
			Code:       provider.ErrorCodeTimeout,
			Message:    provider.ErrTimeout.Error(),
			Underlying: err,
			Retryable:  true,
		}
	}
	return reply, err
}

func (s *Session) send(msg protocol.Message) error {
	if err := s.conn.WriteMessage(msg); err != nil {
		return &TransportError{Op: "write", Cause: err}
	}
	return nil
}

// upstreamMessage renders a completion failure for the client without
// exposing the underlying error.
func upstreamMessage(err *provider.ProviderError) string {
	msg := fmt.Sprintf("The AI service could not answer (%s).", err.Message)
	if !provider.IsRetryable(err) {
		return msg
	}
	if retryAfter := provider.GetRetryAfter(err); retryAfter != nil {
		return fmt.Sprintf("%s Please try again in %s.", msg, retryAfter.Round(time.Second))
	}
	return msg + " Please try again."
}

// toolNote records a tool result in the history so the model sees it on
// the next turn.
func toolNote(call protocol.ToolCall, res dispatch.Result) string {
	if res.OK() {
		return fmt.Sprintf("[tool_output] %s %s:\n%s", call.Name(), call.Target(), res.Output)
	}
	return fmt.Sprintf("[tool_output] %s %s failed: %s", call.Name(), call.Target(), res.Failure.Message)
}
