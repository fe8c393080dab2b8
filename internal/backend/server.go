package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/vovakirdan/tui-jumper/internal/core"
)

type ctxKey int

const userKey ctxKey = iota

// Server exposes a Ledger over HTTP with bearer-token auth.
type Server struct {
	ledger  *Ledger
	issuer  *TokenIssuer
	logger  *log.Logger
	schemas map[string]*jsonschema.Schema
	handler http.Handler
}

// NewServer builds the API handler.
func NewServer(ledger *Ledger, issuer *TokenIssuer, logger *log.Logger) (*Server, error) {
	schemas, err := compileSchemas()
	if err != nil {
		return nil, err
	}
	s := &Server{ledger: ledger, issuer: issuer, logger: logger, schemas: schemas}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/leaderboard", s.handleLeaderboard)
	mux.HandleFunc("GET /api/stats/{user}", s.handleStats)
	mux.Handle("POST /api/verify-payment", s.auth(s.handleVerifyPayment))
	mux.Handle("POST /api/game/start", s.auth(s.handleStartSession))
	mux.Handle("POST /api/game/end", s.auth(s.handleEndSession))
	mux.Handle("GET /api/powerups/inventory", s.auth(s.handleInventory))
	mux.Handle("POST /api/powerups/use", s.auth(s.handleUsePowerUp))

	s.handler = s.logRequests(mux)
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// auth resolves the bearer token into a user before calling next.
func (s *Server) auth(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			s.writeError(w, errors.Join(ErrUnauthorized, errors.New("no authorization token provided")))
			return
		}
		user, err := s.issuer.Verify(token)
		if err != nil {
			s.writeError(w, err)
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	})
}

func userFrom(r *http.Request) string {
	u, _ := r.Context().Value(userKey).(string)
	return u
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start).Round(time.Microsecond),
		)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("write response", "err", err)
	}
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := StatusCode(err)
	body := errorBody{Error: err.Error(), Code: errorCode(err)}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
		body.Error = "internal server error"
	}
	s.writeJSON(w, status, body)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req PaymentRequest
	if err := decodeValidated(r, s.schemas[schemaVerifyPayment], &req); err != nil {
		s.writeError(w, err)
		return
	}
	res, err := s.ledger.VerifyPayment(r.Context(), userFrom(r), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	res, err := s.ledger.StartSession(r.Context(), userFrom(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

type endSessionBody struct {
	SessionID string `json:"sessionId"`
	EndStats
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	var body endSessionBody
	if err := decodeValidated(r, s.schemas[schemaGameEnd], &body); err != nil {
		s.writeError(w, err)
		return
	}
	res, err := s.ledger.EndSession(r.Context(), userFrom(r), body.SessionID, body.EndStats)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleInventory(w http.ResponseWriter, r *http.Request) {
	inv, err := s.ledger.Inventory(r.Context(), userFrom(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, inv)
}

type usePowerUpBody struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId"`
}

func (s *Server) handleUsePowerUp(w http.ResponseWriter, r *http.Request) {
	var body usePowerUpBody
	if err := decodeValidated(r, s.schemas[schemaPowerUpUse], &body); err != nil {
		s.writeError(w, err)
		return
	}
	kind, err := core.ParsePowerUpKind(body.Type)
	if err != nil {
		s.writeError(w, errors.Join(ErrInvalidRequest, err))
		return
	}
	res, err := s.ledger.UsePowerUp(r.Context(), userFrom(r), kind, body.SessionID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

type leaderboardBody struct {
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
	Total       int                `json:"total"`
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)
	offset := queryInt(r, "offset", 0)
	if limit < 1 || limit > 100 || offset < 0 {
		s.writeError(w, errors.Join(ErrInvalidRequest, errors.New("limit must be 1..100 and offset non-negative")))
		return
	}
	rows, err := s.ledger.Leaderboard(r.Context(), limit, offset)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if rows == nil {
		rows = []LeaderboardEntry{}
	}
	s.writeJSON(w, http.StatusOK, leaderboardBody{Leaderboard: rows, Total: len(rows)})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.ledger.Stats(r.Context(), r.PathValue("user"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, st)
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return -1
	}
	return n
}
