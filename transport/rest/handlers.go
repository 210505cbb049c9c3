package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/big"
	"net/http"
	"strconv"

	"github.com/rocketscienceinc/tictactoe-api/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-api/internal/entity"
)

const (
	maxBodyBytes        = 1 << 10
	defaultHistoryLimit = 20
)

var (
	errInvalidBody  = errors.New("invalid request body")
	errMissingField = errors.New("row and col are required")
	errInvalidLimit = errors.New("limit must be a positive integer")
)

type gameUseCase interface {
	State(ctx context.Context) entity.Snapshot
	MakeMove(ctx context.Context, move entity.Move) (entity.Snapshot, error)
	Restart(ctx context.Context) entity.Snapshot
}

type historyReader interface {
	History(ctx context.Context, limit int64) ([]*entity.Event, error)
}

type GameHandler interface {
	State(w http.ResponseWriter, r *http.Request)
	Move(w http.ResponseWriter, r *http.Request)
	Restart(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
}

type gameHandler struct {
	logger  *slog.Logger
	game    gameUseCase
	history historyReader
}

// NewGameHandler - history may be nil, the history endpoint then reports it is unavailable.
func NewGameHandler(logger *slog.Logger, game gameUseCase, history historyReader) GameHandler {
	return &gameHandler{
		logger:  logger.With("component", "rest"),
		game:    game,
		history: history,
	}
}

type moveRequest struct {
	Row *json.Number `json:"row"`
	Col *json.Number `json:"col"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type historyResponse struct {
	Events []*entity.Event `json:"events"`
}

func (that *gameHandler) State(w http.ResponseWriter, r *http.Request) {
	that.writeJSON(w, http.StatusOK, that.game.State(r.Context()))
}

func (that *gameHandler) Move(w http.ResponseWriter, r *http.Request) {
	move, err := decodeMove(r)
	if err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	state, err := that.game.MakeMove(r.Context(), move)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusOK, state)
}

func (that *gameHandler) Restart(w http.ResponseWriter, r *http.Request) {
	that.writeJSON(w, http.StatusOK, that.game.Restart(r.Context()))
}

func (that *gameHandler) History(w http.ResponseWriter, r *http.Request) {
	if that.history == nil {
		that.writeJSON(w, http.StatusNotFound, errorResponse{Error: "event history is disabled"})
		return
	}

	limit := int64(defaultHistoryLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: errInvalidLimit.Error()})
			return
		}
		limit = parsed
	}

	events, err := that.history.History(r.Context(), limit)
	if err != nil {
		that.writeError(w, r, fmt.Errorf("failed to read history: %w", err))
		return
	}

	that.writeJSON(w, http.StatusOK, historyResponse{Events: events})
}

func decodeMove(r *http.Request) (entity.Move, error) {
	var req moveRequest

	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := decoder.Decode(&req); err != nil {
		return entity.Move{}, errInvalidBody
	}

	if req.Row == nil || req.Col == nil {
		return entity.Move{}, errMissingField
	}

	row, err := coordinate(*req.Row)
	if err != nil {
		return entity.Move{}, err
	}

	col, err := coordinate(*req.Col)
	if err != nil {
		return entity.Move{}, err
	}

	return entity.Move{Row: row, Col: col}, nil
}

// coordinate - accepts any integral number (1, 1.0, 1e2). Integers that do not fit an int
// become -1, so the engine still reports game over before out of range.
func coordinate(number json.Number) (int, error) {
	if value, err := strconv.Atoi(number.String()); err == nil {
		return value, nil
	}

	parsed, _, err := big.ParseFloat(number.String(), 10, 0, big.ToNearestEven)
	if err != nil {
		return 0, errInvalidBody
	}

	if parsed.IsInf() {
		return -1, nil
	}

	if !parsed.IsInt() {
		return 0, errInvalidBody
	}

	value, accuracy := parsed.Int64()
	if accuracy != big.Exact || value < math.MinInt || value > math.MaxInt {
		return -1, nil
	}

	return int(value), nil
}

// writeError - move rejections become 400 with their literal message, anything else is a 500.
func (that *gameHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if msg, ok := apperror.ClientMessage(err); ok {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
		return
	}

	that.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	that.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
}

func (that *gameHandler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
