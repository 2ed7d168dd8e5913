// ABOUTME: Gateway orchestrator that coordinates the public and internal HTTP servers
// ABOUTME: Wires store, memory, inference, and chat; manages listener lifecycle and shutdown

package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/stephentwig/huddle/internal/chat"
	"github.com/stephentwig/huddle/internal/config"
	"github.com/stephentwig/huddle/internal/inference"
	"github.com/stephentwig/huddle/internal/memory"
	"github.com/stephentwig/huddle/internal/store"
)

// Gateway orchestrates the huddle server components. It owns the public
// HTTP server for the chat page and API, and optionally an internal HTTP
// server exposing the memory facade.
type Gateway struct {
	config *config.Config
	store  store.Store
	memory *memory.Service
	chat   *chat.Service
	logger *slog.Logger

	httpServer     *http.Server
	internalServer *http.Server
}

// New creates a gateway from configuration: opens the store, builds the
// memory and chat services, and prepares both HTTP servers.
func New(cfg *config.Config, logger *slog.Logger) (*Gateway, error) {
	if logger == nil {
		logger = slog.Default()
	}

	sqlStore, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	memService := memory.New(sqlStore, logger)

	completer := inference.NewClient(inference.Config{
		BaseURL:   cfg.AI.BaseURL,
		AccountID: cfg.AI.AccountID,
		APIToken:  cfg.AI.APIToken,
		Model:     cfg.AI.Model,
		Timeout:   cfg.AI.Timeout,
	})
	chatService := chat.New(completer, cfg.Chat.SystemPrompt, logger)

	g := &Gateway{
		config: cfg,
		store:  sqlStore,
		memory: memService,
		chat:   chatService,
		logger: logger.With("component", "gateway"),
	}

	g.httpServer = &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           g.publicRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if cfg.Server.InternalAddr != "" {
		g.internalServer = &http.Server{
			Addr:              cfg.Server.InternalAddr,
			Handler:           memory.NewHandler(memService, logger),
			ReadHeaderTimeout: 10 * time.Second,
		}
	}

	return g, nil
}

// setupListeners creates TCP listeners for the configured servers.
func (g *Gateway) setupListeners() (httpLn, internalLn net.Listener, err error) {
	httpLn, err = net.Listen("tcp", g.config.Server.HTTPAddr)
	if err != nil {
		return nil, nil, fmt.Errorf("listening on HTTP address: %w", err)
	}

	if g.internalServer != nil {
		internalLn, err = net.Listen("tcp", g.config.Server.InternalAddr)
		if err != nil {
			_ = httpLn.Close()
			return nil, nil, fmt.Errorf("listening on internal address: %w", err)
		}
	}

	return httpLn, internalLn, nil
}

// startServers starts the HTTP servers in goroutines, returning an error channel.
func (g *Gateway) startServers(httpLn, internalLn net.Listener) chan error {
	errCh := make(chan error, 2)

	go func() {
		g.logger.Info("HTTP server listening", "addr", httpLn.Addr().String())
		if err := g.httpServer.Serve(httpLn); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
	}()

	if g.internalServer != nil && internalLn != nil {
		go func() {
			g.logger.Info("internal memory server listening", "addr", internalLn.Addr().String())
			if err := g.internalServer.Serve(internalLn); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("internal server: %w", err)
			}
		}()
	}

	return errCh
}

// waitForShutdownSignal waits for context cancellation or server error.
func (g *Gateway) waitForShutdownSignal(ctx context.Context, errCh chan error) error {
	select {
	case <-ctx.Done():
		g.logger.Info("context canceled, initiating shutdown")
		return nil
	case err := <-errCh:
		g.logger.Error("server error", "error", err)
		g.drainErrors(errCh)
		return err
	}
}

// drainErrors drains any remaining errors from the channel.
func (g *Gateway) drainErrors(errCh chan error) {
	select {
	case additionalErr := <-errCh:
		g.logger.Error("additional server error", "error", additionalErr)
	default:
	}
}

// Run starts the gateway servers and blocks until the context is
// canceled. Returns nil on graceful shutdown, or an error if a server
// fails.
func (g *Gateway) Run(ctx context.Context) error {
	httpLn, internalLn, err := g.setupListeners()
	if err != nil {
		return err
	}

	errCh := g.startServers(httpLn, internalLn)
	serverErr := g.waitForShutdownSignal(ctx, errCh)

	shutdownErr := g.gracefulShutdown()

	if serverErr != nil {
		return serverErr
	}
	return shutdownErr
}

// gracefulShutdown performs shutdown with a fresh context and timeout.
// Uses context.Background() intentionally since the original context is already canceled.
func (g *Gateway) gracefulShutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return g.Shutdown(ctx)
}

// Shutdown stops the HTTP servers and closes the store.
func (g *Gateway) Shutdown(ctx context.Context) error {
	var errs []error

	if err := g.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutting down HTTP server: %w", err))
	}
	if g.internalServer != nil {
		if err := g.internalServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutting down internal server: %w", err))
		}
	}
	if err := g.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing store: %w", err))
	}

	return errors.Join(errs...)
}
