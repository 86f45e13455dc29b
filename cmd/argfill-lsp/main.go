// Command argfill-lsp is a Language Server Protocol server that fills
// call-site arguments in Java source.
package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"os"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rlch/argfill"
	"github.com/rlch/argfill/lsp"
)

var (
	debugFlag     = flag.Bool("debug", false, "Enable debug logging")
	clientLogFlag = flag.Bool("client-log", false, "Forward logs to the editor via window/logMessage")
)

func main() {
	flag.Parse()

	// Set up logging to stderr (stdout is for LSP communication)
	config := zap.NewDevelopmentConfig()
	config.OutputPaths = []string{"stderr"}
	config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

	if *debugFlag {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	logger, err := config.Build()
	if err != nil {
		panic(err)
	}

	defer func() {
		_ = logger.Sync()
	}()

	logger.Info("Starting argfill-lsp server")

	ctx := context.Background()

	err = run(ctx, logger, os.Stdin, os.Stdout)
	if err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}

func run(ctx context.Context, logger *zap.Logger, in io.Reader, out io.Writer) error {
	// Create a JSON-RPC stream connection over stdio
	stream := jsonrpc2.NewStream(&readWriteCloser{in, out})
	conn := jsonrpc2.NewConn(stream)

	// Create a client to send notifications to the editor
	client := protocol.ClientDispatcher(conn, logger)

	if *clientLogFlag {
		level := zapcore.InfoLevel
		if *debugFlag {
			level = zapcore.DebugLevel
		}

		logger = lsp.NewClientLogger(client, logger.Core(), level)
	}

	// An upstream signature provider is optional; without one the server
	// falls back to naming heuristics for the fill command.
	cfg := loadConfig(logger)

	var source argfill.SignatureSource
	if cfg != nil && cfg.Provider != nil && len(cfg.Provider.Command) > 0 {
		logger.Info("Using signature provider", zap.Strings("command", cfg.Provider.Command))

		source = lsp.NewProvider(logger, cfg.Provider.Command)
	}

	server := lsp.NewServer(client, logger, source)
	server.SetOptions(cfg.Options())

	// Register the server handler with the connection
	conn.Go(ctx, server.Handler())

	// Wait for the connection to close
	<-conn.Done()

	return conn.Err()
}

// loadConfig loads the nearest .argfill.yaml, or returns nil when none
// exists. A missing config is not an error; the defaults apply.
func loadConfig(logger *zap.Logger) *argfill.Config {
	cwd, err := os.Getwd()
	if err != nil {
		return nil
	}

	cfg, err := argfill.LoadConfig(cwd)
	if err != nil {
		if !errors.Is(err, argfill.ErrConfigNotFound) {
			logger.Warn("Failed to load config", zap.Error(err))
		}

		return nil
	}

	return cfg
}

// readWriteCloser wraps separate reader/writer into io.ReadWriteCloser.
type readWriteCloser struct {
	io.Reader
	io.Writer
}

func (rwc *readWriteCloser) Close() error {
	// Close writer if it's closeable
	if c, ok := rwc.Writer.(io.Closer); ok {
		return c.Close()
	}

	return nil
}
