package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trindadeeesx/nexus/internal/adapter"
	"github.com/trindadeeesx/nexus/internal/agent"
	"github.com/trindadeeesx/nexus/internal/echo"
	"github.com/trindadeeesx/nexus/internal/guard"
	"github.com/trindadeeesx/nexus/internal/memory"
	"github.com/trindadeeesx/nexus/internal/oracle"
	"github.com/trindadeeesx/nexus/internal/pipeline"
	"github.com/trindadeeesx/nexus/internal/policy"
	"github.com/trindadeeesx/nexus/internal/session"
	"github.com/trindadeeesx/nexus/internal/storage"
	"github.com/trindadeeesx/nexus/internal/veto"
)

func startServer(t *testing.T) (*Server, context.CancelFunc) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := storage.Open(context.Background(), t.TempDir()+"/oracle.db", logger)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	noon := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return noon }

	cfg := guard.DefaultConfig()
	cfg.Cooldown = 0

	sessions := session.NewManager(session.DefaultTimeout).WithClock(clock)
	agents := agent.NewRegistry(agent.Lucia{}, agent.Dominus{})

	p := pipeline.New(pipeline.Config{
		Policies: policy.NewEngine(policy.FoodPolicy{}, policy.ChatPolicy{}),
		Guard:    guard.New(cfg).WithClock(clock),
		Veto:     veto.New(veto.DefaultConfidenceThreshold),
		Sessions: sessions,
		Router:   session.NewRouter(sessions, "lucia"),
		Agents:   agents,
		Executor: echo.New(adapter.Terminal{W: io.Discard}),
		Oracle:   oracle.NewService(store, logger),
		Memory:   memory.NewStore(memory.DefaultLimit),
		Logger:   logger,
	}).WithClock(clock)

	srv := New("127.0.0.1:0", p, agents, logger)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("server did not stop")
		}
	})

	// Wait for the listener to bind.
	require.Eventually(t, func() bool { return srv.Addr() != "" },
		2*time.Second, 10*time.Millisecond)
	return srv, cancel
}

func dial(t *testing.T, srv *Server) (net.Conn, *bufio.Scanner) {
	t.Helper()
	conn, err := net.Dial("tcp", srv.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, conn.SetDeadline(time.Now().Add(5*time.Second)))
	return conn, bufio.NewScanner(conn)
}

func TestServeFoodTurn(t *testing.T) {
	srv, _ := startServer(t)
	conn, scanner := dial(t, srv)

	fmt.Fprintln(conn, "quero uma receita de bolo")
	require.True(t, scanner.Scan(), "expected a reply line: %v", scanner.Err())
	assert.Contains(t, scanner.Text(), "Lúcia diz:")
	assert.Contains(t, scanner.Text(), "receita")
}

func TestServeAgentHintPrefix(t *testing.T) {
	srv, _ := startServer(t)
	conn, scanner := dial(t, srv)

	fmt.Fprintln(conn, "dominus ligar a luz")
	require.True(t, scanner.Scan(), "expected a reply line: %v", scanner.Err())
	assert.Contains(t, scanner.Text(), "Dominus executou:")
}

// A turn the routed agent ignores still answers in that agent's voice.
func TestServeFallbackReply(t *testing.T) {
	srv, _ := startServer(t)
	conn, scanner := dial(t, srv)

	fmt.Fprintln(conn, "dominus nada para fazer")
	require.True(t, scanner.Scan(), "expected a reply line: %v", scanner.Err())
	assert.Equal(t, "Dominus executou: Estou ouvindo.", scanner.Text())
}

func TestExtractAgentHint(t *testing.T) {
	assert.Equal(t, "lucia", extractAgentHint("Lucia, oi"))
	assert.Equal(t, "dominus", extractAgentHint("dominus ligar tv"))
	assert.Equal(t, "", extractAgentHint("oi, tudo bem?"))
}

func TestUserIDPerConnection(t *testing.T) {
	srv, _ := startServer(t)

	connA, scannerA := dial(t, srv)
	connB, scannerB := dial(t, srv)

	// Bind connection A to dominus; connection B must stay with lucia.
	fmt.Fprintln(connA, "dominus ligar a luz")
	require.True(t, scannerA.Scan())
	assert.Contains(t, scannerA.Text(), "Dominus")

	fmt.Fprintln(connB, "quero bolo")
	require.True(t, scannerB.Scan())
	assert.Contains(t, scannerB.Text(), "Lúcia diz:")
}
