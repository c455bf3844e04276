// Package main provides a terminal chat client for an fschat server.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/Cyclone1070/fschat/internal/client"
	"github.com/Cyclone1070/fschat/internal/protocol"
	"github.com/Cyclone1070/fschat/internal/ui"
	uiservices "github.com/Cyclone1070/fschat/internal/ui/services"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const defaultURL = "ws://localhost:3000/ws"

// Dependencies holds the components required to run the application.
type Dependencies struct {
	UI     UserInterface
	Client Transport
}

// UserInterface is the subset of the terminal UI the chat loop drives.
type UserInterface interface {
	ui.ChatInterface
	Start() error
}

// Transport is the server connection.
type Transport interface {
	Send(content string) error
	Receive() (protocol.Message, error)
	Close() error
}

func main() {
	if err := newApp().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "fschat",
		Short:         "Terminal chat client for fschatd",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          chatAction,
	}
	cmd.Flags().String("url", defaultURL, "Server websocket URL")
	cmd.Flags().String("log-file", "", "Write debug logs to this file")
	return cmd
}

// setupLogging sends logs to path, or discards them. The terminal belongs to
// the UI.
func setupLogging(path string) (func(), error) {
	if path == "" {
		logrus.SetOutput(io.Discard)
		return func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	logrus.SetOutput(f)
	logrus.SetLevel(logrus.DebugLevel)
	return func() { _ = f.Close() }, nil
}

func chatAction(cmd *cobra.Command, _ []string) error {
	url, _ := cmd.Flags().GetString("url")
	logFile, _ := cmd.Flags().GetString("log-file")

	closeLog, err := setupLogging(logFile)
	if err != nil {
		return err
	}
	defer closeLog()

	c, err := client.Dial(cmd.Context(), url, nil)
	if err != nil {
		return err
	}
	logrus.WithField("url", url).Debug("connected")

	channels := ui.NewUIChannels()
	spinnerFactory := func() spinner.Model {
		return spinner.New(spinner.WithSpinner(spinner.Dot))
	}
	userInterface := ui.NewUI(channels, url, uiservices.NewGlamourRenderer(), spinnerFactory)

	return runInteractive(cmd.Context(), Dependencies{UI: userInterface, Client: c})
}

// runInteractive pumps frames between the transport and the UI until the
// user quits.
func runInteractive(ctx context.Context, deps Dependencies) error {
	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup

	// Server -> UI
	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case <-deps.UI.Ready():
		case <-loopCtx.Done():
			return
		}

		for {
			msg, err := deps.Client.Receive()
			if err != nil {
				if loopCtx.Err() != nil {
					return
				}
				logrus.WithError(err).Debug("receive failed")
				if client.IsNormalClose(err) {
					deps.UI.WriteDisconnected(nil)
				} else {
					deps.UI.WriteDisconnected(err)
				}
				return
			}
			logrus.WithFields(logrus.Fields{"type": msg.Type, "bytes": len(msg.Content)}).Debug("frame received")
			if err := deps.UI.WriteFrame(loopCtx, msg); err != nil {
				return
			}
		}
	}()

	// UI -> Server
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-loopCtx.Done():
				return
			case content := <-deps.UI.Outgoing():
				if err := deps.Client.Send(content); err != nil {
					logrus.WithError(err).Debug("send failed")
					deps.UI.WriteDisconnected(err)
					return
				}
				logrus.WithField("preview", preview(content)).Debug("message sent")
			}
		}
	}()

	uiErr := deps.UI.Start()

	// UI exited, trigger shutdown
	cancel()
	_ = deps.Client.Close()
	wg.Wait()

	if uiErr != nil {
		return fmt.Errorf("error running UI: %w", uiErr)
	}
	return nil
}

func preview(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) > 40 {
		return s[:40] + "..."
	}
	return s
}
