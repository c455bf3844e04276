package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Cyclone1070/fschat/internal/config"
	"github.com/Cyclone1070/fschat/internal/dispatch"
	"github.com/Cyclone1070/fschat/internal/protocol"
	"github.com/Cyclone1070/fschat/internal/provider"
	"github.com/Cyclone1070/fschat/internal/session"
	"github.com/Cyclone1070/fschat/internal/tool/file"
	"github.com/Cyclone1070/fschat/internal/tool/service/fs"
	"github.com/Cyclone1070/fschat/internal/tool/service/lock"
	"github.com/Cyclone1070/fschat/internal/tool/service/path"
	"github.com/gorilla/websocket"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoCompleter struct {
	calls atomic.Int32
}

func (e *echoCompleter) Complete(_ context.Context, history []provider.Message) (string, error) {
	e.calls.Add(1)
	return "echo: " + history[len(history)-1].Content, nil
}

type fixture struct {
	root      string
	server    *Server
	http      *httptest.Server
	completer *echoCompleter
}

func newFixture(t *testing.T, tweaks ...func(*Options)) *fixture {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("alpha"), 0o644))

	guard, err := path.NewGuard([]string{root})
	require.NoError(t, err)
	store, err := file.NewStore(guard, fs.NewOSFileSystem(), lock.New(), config.DefaultConfig())
	require.NoError(t, err)

	log, _ := logtest.NewNullLogger()
	completer := &echoCompleter{}
	opts := Options{
		ReadLimit:    1 << 20,
		PingInterval: time.Second,
		WriteTimeout: time.Second,
		Session: session.Options{
			Greeting:          "hello",
			CompletionTimeout: 5 * time.Second,
			MaxHistory:        50,
		},
	}
	for _, tweak := range tweaks {
		tweak(&opts)
	}
	srv := New(dispatch.New(store, log), completer, opts, log)

	hs := httptest.NewServer(srv.Handler())
	t.Cleanup(hs.Close)

	return &fixture{root: root, server: srv, http: hs, completer: completer}
}

func (f *fixture) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.http.URL, "http") + "/ws"
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) protocol.Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg protocol.Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func send(t *testing.T, conn *websocket.Conn, content string) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(protocol.UserMessage(content)))
}

func TestServer_EndToEnd(t *testing.T) {
	f := newFixture(t)
	conn := f.dial(t)

	assert.Equal(t, protocol.AIMessage("hello"), readFrame(t, conn))

	call := `{"tool":"list_directory","params":{"path":"` + f.root + `"}}`
	send(t, conn, call)
	assert.Equal(t, protocol.ToolOutput("[FILE] a.txt"), readFrame(t, conn))
	assert.Equal(t, int32(0), f.completer.calls.Load())

	send(t, conn, "hi there")
	assert.Equal(t, protocol.AIMessage("echo: hi there"), readFrame(t, conn))

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	assert.Equal(t, protocol.Error(session.InvalidMessageFormat), readFrame(t, conn))

	send(t, conn, `{"tool":"read_file","params":{"path":"/etc/passwd"}}`)
	msg := readFrame(t, conn)
	assert.Equal(t, protocol.TypeError, msg.Type)
	assert.Contains(t, msg.Content, "access denied")
}

func TestServer_RegistryTracksSessions(t *testing.T) {
	f := newFixture(t)

	a := f.dial(t)
	readFrame(t, a)
	b := f.dial(t)
	readFrame(t, b)

	assert.Equal(t, 2, f.server.Registry().Len())
	assert.Len(t, f.server.Registry().IDs(), 2)

	require.NoError(t, a.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	_ = a.Close()
	require.Eventually(t, func() bool { return f.server.Registry().Len() == 1 }, 5*time.Second, 10*time.Millisecond)

	_ = b.Close()
	require.Eventually(t, func() bool { return f.server.Registry().Len() == 0 }, 5*time.Second, 10*time.Millisecond)
}

func TestServer_SessionsAreIsolated(t *testing.T) {
	f := newFixture(t)

	a := f.dial(t)
	readFrame(t, a)
	b := f.dial(t)
	readFrame(t, b)

	send(t, a, "from a")
	send(t, b, "from b")
	assert.Equal(t, protocol.AIMessage("echo: from a"), readFrame(t, a))
	assert.Equal(t, protocol.AIMessage("echo: from b"), readFrame(t, b))
}

func TestServer_Healthz(t *testing.T) {
	f := newFixture(t)
	conn := f.dial(t)
	readFrame(t, conn)

	resp, err := http.Get(f.http.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body healthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, healthResponse{Status: "ok", Sessions: 1}, body)
}

func TestServer_ReadLimitClosesConnection(t *testing.T) {
	f := newFixture(t, func(o *Options) { o.ReadLimit = 64 })
	conn := f.dial(t)
	readFrame(t, conn)

	send(t, conn, strings.Repeat("x", 1024))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	require.Eventually(t, func() bool { return f.server.Registry().Len() == 0 }, 5*time.Second, 10*time.Millisecond)
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	srv := New(nil, &echoCompleter{}, Options{Session: session.Options{Greeting: "hello"}}, log)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	url := "ws://" + ln.Addr().String() + "/ws"
	var conn *websocket.Conn
	require.Eventually(t, func() bool {
		c, resp, err := websocket.DefaultDialer.Dial(url, nil)
		if err != nil {
			return false
		}
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
		conn = c
		return true
	}, 5*time.Second, 10*time.Millisecond)
	defer conn.Close()
	readFrame(t, conn)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.Equal(t, 0, srv.Registry().Len())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
}

func TestServer_FailedUpgradeDoesNotBlockShutdown(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	srv := New(nil, &echoCompleter{}, Options{}, log)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	// A plain GET is not a websocket handshake.
	url := "http://" + ln.Addr().String() + "/ws"
	var status int
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		status = resp.StatusCode
		return true
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, http.StatusBadRequest, status)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server waited on a connection that never upgraded")
	}
}

func TestServer_RunReportsListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	log, _ := logtest.NewNullLogger()
	srv := New(nil, &echoCompleter{}, Options{Addr: ln.Addr().String()}, log)

	err = srv.Run(context.Background())
	var listenErr *ListenError
	require.ErrorAs(t, err, &listenErr)
	assert.Equal(t, ln.Addr().String(), listenErr.Addr)
}
