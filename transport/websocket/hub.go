package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	ws "nhooyr.io/websocket"

	"github.com/rocketscienceinc/tictactoe-api/internal/entity"
)

const sendBuffer = 16

var (
	pingInterval = 15 * time.Second
	writeTimeout = 5 * time.Second
)

type stateProvider interface {
	State(ctx context.Context) entity.Snapshot
}

type client struct {
	id   string
	send chan []byte
}

// Hub pushes every game event to the connected browsers. Clients never
// send moves through it, moves go through the REST API.
type Hub struct {
	logger         *slog.Logger
	game           stateProvider
	originPatterns []string

	mu      sync.RWMutex
	clients map[*client]struct{}

	done      chan struct{}
	closeOnce sync.Once
}

func New(logger *slog.Logger, game stateProvider, allowedOrigins []string) *Hub {
	return &Hub{
		logger:         logger.With("component", "websocket"),
		game:           game,
		originPatterns: originPatterns(allowedOrigins),

		clients: make(map[*client]struct{}),
		done:    make(chan struct{}),
	}
}

// Publish - queues the event for every client; a client with a full buffer misses it.
func (that *Hub) Publish(_ context.Context, event *entity.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("could not marshal event: %w", err)
	}

	that.mu.RLock()
	defer that.mu.RUnlock()

	for c := range that.clients {
		select {
		case c.send <- data:
		default:
			that.logger.Warn("client buffer full, event dropped", "client_id", c.id, "event_id", event.ID)
		}
	}

	return nil
}

// Clients - number of connected clients.
func (that *Hub) Clients() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.clients)
}

// Close - disconnects every client. http.Server.Shutdown does not track hijacked connections.
func (that *Hub) Close() {
	that.closeOnce.Do(func() {
		close(that.done)
	})
}

func (that *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "ServeHTTP")

	// the server timeouts are meant for plain requests, not long lived streams
	rc := http.NewResponseController(w)
	_ = rc.SetReadDeadline(time.Time{})
	_ = rc.SetWriteDeadline(time.Time{})

	conn, err := ws.Accept(w, r, &ws.AcceptOptions{OriginPatterns: that.originPatterns})
	if err != nil {
		log.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.CloseNow()

	c, err := that.register(r.Context())
	if err != nil {
		log.Error("failed to register client", "error", err)
		_ = conn.Close(ws.StatusInternalError, "internal error")
		return
	}
	defer that.unregister(c)

	log = log.With("client_id", c.id)
	log.Info("client connected")

	ctx := conn.CloseRead(r.Context())
	if err = that.writeLoop(ctx, conn, c); err != nil {
		log.Debug("client write loop stopped", "error", err)
	}

	log.Info("client disconnected")
}

// register - the sync event is queued before the client becomes visible to Publish,
// so it is always the first message and no later event is lost.
func (that *Hub) register(ctx context.Context) (*client, error) {
	c := &client{
		id:   uuid.NewString(),
		send: make(chan []byte, sendBuffer),
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	data, err := json.Marshal(entity.NewEvent(entity.EventSync, nil, that.game.State(ctx)))
	if err != nil {
		return nil, fmt.Errorf("could not marshal sync event: %w", err)
	}

	c.send <- data
	that.clients[c] = struct{}{}

	return c, nil
}

func (that *Hub) unregister(c *client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.clients, c)
}

func (that *Hub) writeLoop(ctx context.Context, conn *ws.Conn, c *client) error {
	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-that.done:
			return conn.Close(ws.StatusGoingAway, "server shutting down")
		case <-ctx.Done():
			return ctx.Err()
		case msg := <-c.send:
			if err := write(ctx, conn, msg); err != nil {
				return err
			}
		case <-ping.C:
			if err := pingPeer(ctx, conn); err != nil {
				return err
			}
		}
	}
}

func write(ctx context.Context, conn *ws.Conn, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err := conn.Write(ctx, ws.MessageText, msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

// pingPeer - an unresponsive peer must not stall the loop, shutdown is only seen between writes.
func pingPeer(ctx context.Context, conn *ws.Conn) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err := conn.Ping(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}

	return nil
}

// originPatterns - the allow-list holds full origins, the websocket library matches hosts.
func originPatterns(allowedOrigins []string) []string {
	patterns := make([]string, 0, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		if origin == "*" {
			patterns = append(patterns, "*")
			continue
		}

		parsed, err := url.Parse(origin)
		if err != nil || parsed.Host == "" {
			continue
		}

		patterns = append(patterns, parsed.Host)
	}

	return patterns
}
