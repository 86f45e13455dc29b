package lsp

import (
	"context"
	"strings"
	"sync"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// clientCore is a zapcore.Core that mirrors server logs to the editor via
// window/logMessage, so they show up in the client's LSP log viewer.
// Delivery is asynchronous through a bounded queue; a full queue drops the
// entry rather than blocking a handler on a client RPC.
type clientCore struct {
	client  protocol.Client
	level   zapcore.Level
	encoder zapcore.Encoder
	fields  []zapcore.Field
	mu      sync.Mutex

	ctx    context.Context
	cancel context.CancelFunc
	queue  chan clientLogEntry
}

type clientLogEntry struct {
	typ     protocol.MessageType
	message string
}

// NewClientLogger builds a logger that tees to the given fallback core
// (typically stderr) and to the LSP client.
func NewClientLogger(client protocol.Client, fallback zapcore.Core, level zapcore.Level) *zap.Logger {
	ctx, cancel := context.WithCancel(context.Background())

	core := &clientCore{
		client: client,
		level:  level,
		encoder: zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
			MessageKey:     "msg",
			NameKey:        "logger",
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
		}),
		ctx:    ctx,
		cancel: cancel,
		queue:  make(chan clientLogEntry, 64),
	}

	go core.send()

	return zap.New(zapcore.NewTee(core, fallback))
}

func (c *clientCore) send() {
	for {
		select {
		case entry := <-c.queue:
			// Client may be gone; nothing useful to do with the error.
			_ = c.client.LogMessage(c.ctx, &protocol.LogMessageParams{
				Type:    entry.typ,
				Message: entry.message,
			})
		case <-c.ctx.Done():
			return
		}
	}
}

// Close stops the sender goroutine.
func (c *clientCore) Close() {
	c.cancel()
}

func (c *clientCore) Enabled(level zapcore.Level) bool {
	return level >= c.level
}

func (c *clientCore) With(fields []zapcore.Field) zapcore.Core {
	return &clientCore{
		client:  c.client,
		level:   c.level,
		encoder: c.encoder.Clone(),
		fields:  append(c.fields, fields...),
		ctx:     c.ctx,
		cancel:  c.cancel,
		queue:   c.queue,
	}
}

func (c *clientCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return ce.AddCore(entry, c)
	}

	return ce
}

func (c *clientCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	buf, err := c.encoder.EncodeEntry(entry, append(c.fields, fields...))
	if err != nil {
		return err
	}

	message := strings.TrimSpace(buf.String())
	buf.Free()

	var typ protocol.MessageType

	switch entry.Level {
	case zapcore.DebugLevel:
		typ = protocol.MessageTypeLog
	case zapcore.InfoLevel:
		typ = protocol.MessageTypeInfo
	case zapcore.WarnLevel:
		typ = protocol.MessageTypeWarning
	default:
		typ = protocol.MessageTypeError
	}

	select {
	case c.queue <- clientLogEntry{typ: typ, message: message}:
	default:
		// Queue full; drop.
	}

	return nil
}

func (c *clientCore) Sync() error {
	return nil
}
