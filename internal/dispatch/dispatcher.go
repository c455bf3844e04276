// Package dispatch routes parsed tool calls to the file store and turns
// their outcomes into results the session can send to a client.
package dispatch

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Cyclone1070/fschat/internal/protocol"
	"github.com/Cyclone1070/fschat/internal/tool/file"
	"github.com/sirupsen/logrus"
)

// fileStore is the set of sandboxed operations the dispatcher drives.
type fileStore interface {
	Read(ctx context.Context, path string) (string, error)
	Write(ctx context.Context, path, content string) (string, error)
	List(ctx context.Context, path string) ([]file.Entry, error)
	Mkdir(ctx context.Context, path string) (string, error)
	Delete(ctx context.Context, path string) (file.DeleteResult, error)
	Info(ctx context.Context, path string) (file.FileInfo, error)
}

// Failure describes a tool call that did not succeed.
type Failure struct {
	Kind    file.Kind
	Message string
}

// Result is the outcome of one tool call: Output on success, Failure otherwise.
type Result struct {
	Output  string
	Failure *Failure
}

// OK reports whether the call succeeded.
func (r Result) OK() bool { return r.Failure == nil }

// Message converts r into the frame sent to the client.
func (r Result) Message() protocol.Message {
	if r.Failure != nil {
		return protocol.Error(r.Failure.Message)
	}
	return protocol.ToolOutput(r.Output)
}

// Dispatcher executes tool calls against a file store. It holds no
// per-session state and is shared by all sessions.
type Dispatcher struct {
	store fileStore
	log   logrus.FieldLogger
}

// New creates a Dispatcher. A nil logger means the logrus standard logger.
func New(store fileStore, log logrus.FieldLogger) *Dispatcher {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Dispatcher{store: store, log: log}
}

// Dispatch runs call and never returns an error: store failures become a
// Result with a Failure.
func (d *Dispatcher) Dispatch(ctx context.Context, call protocol.ToolCall) Result {
	start := time.Now()
	v := &visitor{ctx: ctx, store: d.store}
	call.Accept(v)

	entry := d.log.WithFields(logrus.Fields{
		"tool":     call.Name(),
		"path":     call.Target(),
		"duration": time.Since(start),
	})
	if v.result.Failure != nil {
		entry.WithField("kind", v.result.Failure.Kind).Warn("tool call failed")
	} else {
		entry.Debug("tool call succeeded")
	}

	return v.result
}

// visitor carries one call's context and records its result.
type visitor struct {
	ctx    context.Context
	store  fileStore
	result Result
}

func (v *visitor) succeed(output string) { v.result = Result{Output: output} }

func (v *visitor) fail(err error) {
	v.result = Result{Failure: &Failure{Kind: file.KindOf(err), Message: err.Error()}}
}

func (v *visitor) VisitReadFile(c protocol.ReadFileCall) {
	content, err := v.store.Read(v.ctx, c.Path)
	if err != nil {
		v.fail(err)
		return
	}
	v.succeed(content)
}

func (v *visitor) VisitWriteFile(c protocol.WriteFileCall) {
	msg, err := v.store.Write(v.ctx, c.Path, c.Content)
	if err != nil {
		v.fail(err)
		return
	}
	v.succeed(msg)
}

func (v *visitor) VisitListDirectory(c protocol.ListDirectoryCall) {
	entries, err := v.store.List(v.ctx, c.Path)
	if err != nil {
		v.fail(err)
		return
	}
	v.succeed(file.FormatListing(entries))
}

func (v *visitor) VisitCreateDirectory(c protocol.CreateDirectoryCall) {
	msg, err := v.store.Mkdir(v.ctx, c.Path)
	if err != nil {
		v.fail(err)
		return
	}
	v.succeed(msg)
}

func (v *visitor) VisitDeleteFile(c protocol.DeleteFileCall) {
	res, err := v.store.Delete(v.ctx, c.Path)
	if err != nil {
		v.fail(err)
		return
	}
	if !res.Success {
		v.result = Result{Failure: &Failure{Kind: file.KindIOError, Message: res.Message}}
		return
	}
	v.succeed(res.Message)
}

// infoView is the JSON rendering of file.FileInfo.
type infoView struct {
	Size     int64  `json:"size"`
	Modified string `json:"modified"`
	IsDir    bool   `json:"is_dir"`
	Mode     string `json:"mode"`
}

func (v *visitor) VisitFileInfo(c protocol.FileInfoCall) {
	info, err := v.store.Info(v.ctx, c.Path)
	if err != nil {
		v.fail(err)
		return
	}

	data, err := json.MarshalIndent(infoView{
		Size:     info.Size,
		Modified: info.Modified.UTC().Format(time.RFC3339),
		IsDir:    info.IsDir,
		Mode:     info.Mode.String(),
	}, "", "  ")
	if err != nil {
		v.fail(err)
		return
	}
	v.succeed(string(data))
}
