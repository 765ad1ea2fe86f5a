// Package mcpserver exposes the coordinator's six tools over the Model
// Context Protocol, grounded on the teacher's internal/mcp server
// lifecycle: a long-lived stdio server with a debounced vault watcher
// feeding it, and graceful shutdown on SIGINT/SIGTERM.
package mcpserver

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/contextvault/internal/config"
	"github.com/mvp-joe/contextvault/internal/coordinator"
	"github.com/mvp-joe/contextvault/internal/embed"
	"github.com/mvp-joe/contextvault/internal/fetch"
	"github.com/mvp-joe/contextvault/internal/index"
	"github.com/mvp-joe/contextvault/internal/retrieve"
	"github.com/mvp-joe/contextvault/internal/vaultstate"
)

const version = "0.1.0"

// Server manages the MCP server's lifecycle: tool registration, the
// vault's file watcher, and the resources the coordinator depends on.
type Server struct {
	coordinator *coordinator.Coordinator
	watcher     *vaultstate.Watcher
	db          *sql.DB
	provider    embed.Provider
	mcp         *server.MCPServer
}

// New builds a Server: opens the index database, constructs the
// embedding provider, wires the coordinator, registers every tool, and
// starts a debounced watcher over vaultRoot so out-of-band edits get
// reconciled without a caller having to ask.
func New(vaultRoot string, mode config.Mode, dbPath string, embedCfg embed.Config, thresholds vaultstate.Thresholds) (*Server, error) {
	db, err := index.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open index database: %w", err)
	}

	provider, err := embed.NewProvider(embedCfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("construct embedding provider: %w", err)
	}

	store := index.NewStore(db, provider)
	svc, err := retrieve.NewService(store, provider)
	if err != nil {
		provider.Close()
		db.Close()
		return nil, fmt.Errorf("construct retrieve service: %w", err)
	}

	coord := coordinator.New(vaultRoot, mode, store, svc)

	watcher, err := vaultstate.NewWatcher(vaultRoot, 500*time.Millisecond)
	if err != nil {
		provider.Close()
		db.Close()
		return nil, fmt.Errorf("create vault watcher: %w", err)
	}

	mcpServer := server.NewMCPServer(
		"contextvault-mcp",
		version,
		server.WithToolCapabilities(true),
	)

	AddSaveContextTool(mcpServer, coord)
	AddGetContextTool(mcpServer, coord)
	AddListContextTool(mcpServer, coord)
	AddDeleteContextTool(mcpServer, coord)
	AddIngestURLTool(mcpServer, coord, fetch.NewHTTPFetcher(15*time.Second))
	AddContextStatusTool(mcpServer, coord, thresholds)

	return &Server{
		coordinator: coord,
		watcher:     watcher,
		db:          db,
		provider:    provider,
		mcp:         mcpServer,
	}, nil
}

// Serve starts the vault watcher and the MCP server, blocking until a
// shutdown signal arrives, the server errors, or ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	s.watcher.Start(ctx, func() {
		s.coordinator.ScheduleReindex()
	})
	defer s.watcher.Stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("contextvault: serving MCP tools on stdio")
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("mcp server: %w", err)
		}
	}()

	select {
	case <-sigCh:
		log.Printf("contextvault: shutdown signal received, stopping")
		cancel()
		return nil
	case err := <-errCh:
		cancel()
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close releases every resource Server owns. Safe to call more than
// once: later calls find everything already closed and return nil.
func (s *Server) Close() error {
	if s.watcher != nil {
		s.watcher.Stop()
	}
	if s.provider != nil {
		if err := s.provider.Close(); err != nil {
			log.Printf("contextvault: closing embedding provider: %v", err)
		}
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
