// Package adapter binds the pipeline's output side to a transport.
// Adapters are collaborators: the core only hands them the final action.
package adapter

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/trindadeeesx/nexus/internal/model"
)

// Adapter emits a final action to the outside world.
type Adapter interface {
	Name() string
	Send(action model.Action)
}

// Terminal writes human-readable lines to a writer.
type Terminal struct {
	W io.Writer
}

func (Terminal) Name() string { return "terminal" }

func (t Terminal) Send(action model.Action) {
	switch action.Type {
	case model.ActionSendMessage:
		fmt.Fprintf(t.W, "[%s] %s\n", strings.ToUpper(action.Target), action.Text())
	case model.ActionLog:
		fmt.Fprintf(t.W, "[LOG] %v\n", action.Payload)
	}
}

// Log emits actions as structured log records. Used when no interactive
// transport is bound.
type Log struct {
	Logger *slog.Logger
}

func (Log) Name() string { return "log" }

func (l Log) Send(action model.Action) {
	l.Logger.Info("action out",
		"type", action.Type,
		"target", action.Target,
		"text", action.Text(),
	)
}
