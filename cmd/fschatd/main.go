// Package main runs the fschat server: a websocket chat endpoint backed by
// Gemini with sandboxed file tools.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/Cyclone1070/fschat/internal/config"
	"github.com/Cyclone1070/fschat/internal/dispatch"
	"github.com/Cyclone1070/fschat/internal/protocol"
	"github.com/Cyclone1070/fschat/internal/provider"
	"github.com/Cyclone1070/fschat/internal/provider/gemini"
	"github.com/Cyclone1070/fschat/internal/server"
	"github.com/Cyclone1070/fschat/internal/session"
	"github.com/Cyclone1070/fschat/internal/tool/file"
	fsops "github.com/Cyclone1070/fschat/internal/tool/service/fs"
	"github.com/Cyclone1070/fschat/internal/tool/service/lock"
	"github.com/Cyclone1070/fschat/internal/tool/service/path"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const apiKeyEnv = "GEMINI_API_KEY"

func main() {
	if err := newApp().Execute(); err != nil {
		logrus.Fatal(err)
	}
}

func newApp() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fschatd",
		Short: "Chat server with sandboxed file tools",
		Example: `  Serve the current directory on the default port:
  $ fschatd

  Expose two project directories on port 8080:
  $ fschatd --port 8080 --root ~/src/app --root ~/src/lib`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serveAction,
	}

	rootCmd.PersistentFlags().String("log-level", "", "Set the logging level [trace, debug, info, warn, error]")
	rootCmd.PersistentFlags().String("log-format", "text", "Set the logging format [text, json]")
	rootCmd.PersistentFlags().Bool("debug", false, "Debug mode")
	rootCmd.PersistentFlags().String("config", "", "Path to a JSON config file (default ~/.config/fschat/config.json)")
	rootCmd.PersistentFlags().String("env-file", ".env", "Load environment variables from this file if it exists")
	rootCmd.PersistentPreRunE = func(*cobra.Command, []string) error {
		return processGlobalFlags(rootCmd)
	}

	rootCmd.Flags().String("host", "", "Interface to listen on")
	rootCmd.Flags().Int("port", 0, "Port to listen on")
	rootCmd.Flags().StringArray("root", nil, "Directory the tools may access (repeatable)")
	rootCmd.Flags().String("model", "", "Gemini model name")

	rootCmd.AddCommand(newToolsCommand())
	return rootCmd
}

func processGlobalFlags(rootCmd *cobra.Command) error {
	// --log-level will override --debug
	if debug, _ := rootCmd.Flags().GetBool("debug"); debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	l, _ := rootCmd.Flags().GetString("log-level")
	if l != "" {
		lvl, err := logrus.ParseLevel(l)
		if err != nil {
			return err
		}
		logrus.SetLevel(lvl)
	}

	logFormat, _ := rootCmd.Flags().GetString("log-format")
	switch logFormat {
	case "json":
		logrus.StandardLogger().SetFormatter(new(logrus.JSONFormatter))
	case "text":
		// logrus uses text format by default.
	default:
		return fmt.Errorf("unsupported log-format: %q", logFormat)
	}
	return nil
}

// loadEnv reads the env file. A missing file is only an error when the user
// named it explicitly.
func loadEnv(cmd *cobra.Command) error {
	envFile, _ := cmd.Flags().GetString("env-file")
	if envFile == "" {
		return nil
	}
	err := godotenv.Load(envFile)
	if errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("env-file") {
		return nil
	}
	return err
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if p, _ := cmd.Flags().GetString("config"); p != "" {
		cfg, err = config.NewLoader().LoadFile(p)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	applyOverrides(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyOverrides copies explicitly set flags over file values.
func applyOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Server.Host, _ = flags.GetString("host")
	}
	if flags.Changed("port") {
		cfg.Server.Port, _ = flags.GetInt("port")
	}
	if flags.Changed("root") {
		cfg.Sandbox.AllowedRoots, _ = flags.GetStringArray("root")
	}
	if flags.Changed("model") {
		cfg.Provider.Model, _ = flags.GetString("model")
	}
}

func serveAction(cmd *cobra.Command, _ []string) error {
	if err := loadEnv(cmd); err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := gemini.Dial(ctx, os.Getenv(apiKeyEnv))
	if err != nil {
		if errors.Is(err, gemini.ErrMissingAPIKey) {
			return fmt.Errorf("%s environment variable is required", apiKeyEnv)
		}
		return err
	}
	completer := gemini.New(client, gemini.Options{
		Model:           cfg.Provider.Model,
		SystemPrompt:    protocol.SystemPrompt(cfg.Provider.SystemPrompt),
		Temperature:     cfg.Provider.Temperature,
		MaxOutputTokens: int32(cfg.Provider.MaxOutputTokens),
	})

	srv, err := newServer(cfg, completer, logrus.StandardLogger())
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"model": completer.Model(),
		"roots": cfg.Sandbox.AllowedRoots,
	}).Info("starting fschatd")
	return srv.Run(ctx)
}

// newServer wires the file tools and the given completer into a Server.
func newServer(cfg *config.Config, completer provider.Completer, log logrus.FieldLogger) (*server.Server, error) {
	guard, err := path.NewGuard(cfg.Sandbox.AllowedRoots)
	if err != nil {
		return nil, fmt.Errorf("failed to set up allowed roots: %w", err)
	}

	store, err := file.NewStore(guard, fsops.NewOSFileSystem(), lock.New(), cfg)
	if err != nil {
		return nil, err
	}

	opts := server.Options{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		ReadLimit:    cfg.Server.ReadLimitBytes,
		PingInterval: time.Duration(cfg.Server.PingIntervalMs) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutMs) * time.Millisecond,
		Session: session.Options{
			Greeting:          cfg.Session.Greeting,
			CompletionTimeout: time.Duration(cfg.Provider.TimeoutSeconds) * time.Second,
			MaxHistory:        cfg.Session.MaxHistory,
		},
	}
	return server.New(dispatch.New(store, log), completer, opts, log), nil
}

func newToolsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "Print the tool declarations sent to the model",
		Args:  cobra.NoArgs,
		RunE:  toolsAction,
	}
}

func toolsAction(cmd *cobra.Command, _ []string) error {
	j, err := json.MarshalIndent(protocol.Declarations(), "", "    ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(j))
	return err
}

// Compile-time check that the Gemini adapter satisfies the provider contract.
var _ provider.Completer = (*gemini.Completer)(nil)
