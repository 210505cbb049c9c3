package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

type Server struct {
	logger *slog.Logger
	srv    *http.Server
}

type Handlers struct {
	Ping   PingHandler
	Game   GameHandler
	Stream http.Handler
}

func NewServer(logger *slog.Logger, port string, allowedOrigins []string, handlers Handlers) *Server {
	log := logger.With("component", "http")

	return &Server{
		logger: log,
		srv: &http.Server{
			Addr:         ":" + port,
			Handler:      NewRouter(log, allowedOrigins, handlers),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  30 * time.Second,
		},
	}
}

// NewRouter - the API routes behind request id, access log and CORS middlewares.
func NewRouter(logger *slog.Logger, allowedOrigins []string, handlers Handlers) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", handlers.Ping.Ping)

	mux.HandleFunc("GET /api/tictactoe/state", handlers.Game.State)
	mux.HandleFunc("POST /api/tictactoe/move", handlers.Game.Move)
	mux.HandleFunc("POST /api/tictactoe/restart", handlers.Game.Restart)
	mux.HandleFunc("GET /api/tictactoe/history", handlers.Game.History)

	if handlers.Stream != nil {
		mux.Handle("GET /api/tictactoe/ws", handlers.Stream)
	}

	return chain(mux, requestID, accessLog(logger), cors(allowedOrigins))
}

// Start - blocks until the server stops. A graceful Shutdown is not an error.
func (that *Server) Start() error {
	that.logger.Info("Starting HTTP server", "addr", that.srv.Addr)

	if err := that.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) Shutdown(ctx context.Context) error {
	if err := that.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}
