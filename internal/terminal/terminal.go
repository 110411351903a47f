// Package terminal runs the line-oriented TCP stream server. Each
// connected client is a user of the "terminal" stream; every line is one
// conversational turn.
package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync"

	"github.com/trindadeeesx/nexus/internal/agent"
	"github.com/trindadeeesx/nexus/internal/model"
	"github.com/trindadeeesx/nexus/internal/pipeline"
)

const stream = "terminal"

// Server accepts raw TCP connections and feeds lines through the
// conversation pipeline.
type Server struct {
	addr     string
	pipeline *pipeline.Pipeline
	agents   *agent.Registry
	logger   *slog.Logger

	mu       sync.Mutex
	listener net.Listener
}

// New creates a terminal stream server.
func New(addr string, p *pipeline.Pipeline, agents *agent.Registry, logger *slog.Logger) *Server {
	return &Server{
		addr:     addr,
		pipeline: p,
		agents:   agents,
		logger:   logger,
	}
}

// Serve listens on the configured address until ctx is cancelled.
// Connections are handled one goroutine each.
func (s *Server) Serve(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("terminal: listen %s: %w", s.addr, err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	s.logger.Info("terminal stream listening", "addr", listener.Addr().String())

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	var wg sync.WaitGroup
	for {
		conn, err := listener.Accept()
		if err != nil {
			wg.Wait()
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("terminal: accept: %w", err)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.handleConn(ctx, conn)
		}()
	}
}

// Addr returns the bound listening address, for tests using port 0.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	userID := userIDFor(conn.RemoteAddr())
	s.logger.Info("terminal client connected", "user_id", userID)

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		agentName, action, _ := s.pipeline.HandleConversation(ctx, model.ConversationRequest{
			Text:      text,
			UserID:    userID,
			Stream:    stream,
			AgentHint: extractAgentHint(text),
		})

		reply := s.replyLine(agentName, action)
		if _, err := fmt.Fprintln(conn, reply); err != nil {
			s.logger.Warn("terminal write failed", "user_id", userID, "error", err)
			return
		}
	}
	s.logger.Info("terminal client disconnected", "user_id", userID)
}

// replyLine renders the executed action, or a hold-the-line fallback in
// the routed agent's voice when nothing survived the pipeline.
func (s *Server) replyLine(agentName string, action *model.Action) string {
	if action != nil && action.Type == model.ActionSendMessage {
		return action.Text()
	}

	fallback := model.Action{
		Type:       model.ActionSendMessage,
		Target:     stream,
		Payload:    map[string]any{"text": "Estou ouvindo."},
		Priority:   1,
		Confidence: 0.6,
	}
	if ag, ok := s.agents.Get(agentName); ok {
		return ag.Handle(fallback).Text()
	}
	return fallback.Text()
}

// userIDFor derives a per-connection user identity from the client port,
// so every connection gets its own session.
func userIDFor(addr net.Addr) string {
	if _, port, err := net.SplitHostPort(addr.String()); err == nil {
		return stream + ":" + port
	}
	return stream + ":" + addr.String()
}

// extractAgentHint recognizes a leading agent name in the line, so a
// user can address "lucia ..." or "dominus ..." directly.
func extractAgentHint(text string) string {
	lowered := strings.ToLower(text)
	for _, name := range []string{"lucia", "dominus"} {
		if strings.HasPrefix(lowered, name) {
			return name
		}
	}
	return ""
}
