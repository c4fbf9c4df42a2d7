// Package server implements "RPAL as a service": an HTTP API that runs
// RPAL source through the same pipeline as the CLI and returns its Print
// output, behind shared-secret API key authentication. Grounded on the
// teacher's server package (server.go, endpoints.go, token.go, api/api.go)
// with the user/session/game DAO layer stripped out -- this service has
// exactly one principal, not a multi-user account system.
package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/dewminawijekoon/rpal"
	"github.com/dewminawijekoon/rpal/internal/config"
	"github.com/dewminawijekoon/rpal/internal/rpalerr"
	"github.com/dewminawijekoon/rpal/internal/version"
	"github.com/dewminawijekoon/rpal/server/middle"
	"github.com/dewminawijekoon/rpal/server/serr"
)

// diagWidth is the column width run diagnostics are wrapped to before being
// placed in a JSON error field, matching the CLI's use of
// rpalerr.Format for terminal output (spec.md 6 has no such contract for
// the HTTP surface, so this is this service's own convention).
const diagWidth = 100

// PathPrefix is the prefix every route in this package is mounted under.
const PathPrefix = "/api/v1"

// UnauthDelay is how long a request pauses before an HTTP-401/403/500
// response is sent, to deprioritize malformed-credential traffic, matching
// the teacher's api.API.UnauthDelay field.
const UnauthDelay = 250 * time.Millisecond

// Server holds everything one running rpalserve instance needs: the
// signing secret for minted tokens, the bcrypt hash of the one valid API
// key, and the audit log every run is recorded to.
type Server struct {
	router     chi.Router
	jwtSecret  []byte
	apiKeyHash []byte
	audit      *auditLog
	tokenTTL   time.Duration
}

// New builds a Server from cfg. The audit database at cfg.AuditDBPath is
// opened (and created if absent) immediately. cfg.APIKeyHash is the
// base64-encoded bcrypt hash produced by HashAPIKey.
func New(cfg config.ServerConfig) (*Server, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("server config: jwt_secret must not be empty")
	}
	if cfg.APIKeyHash == "" {
		return nil, fmt.Errorf("server config: api_key_hash must not be empty")
	}

	apiKeyHash, err := base64.StdEncoding.DecodeString(cfg.APIKeyHash)
	if err != nil {
		return nil, fmt.Errorf("server config: api_key_hash is not valid base64: %w", err)
	}

	audit, err := newAuditLog(cfg.AuditDBPath)
	if err != nil {
		return nil, err
	}

	ttl := time.Duration(cfg.TokenTTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	s := &Server{
		jwtSecret:  []byte(cfg.JWTSecret),
		apiKeyHash: apiKeyHash,
		audit:      audit,
		tokenTTL:   ttl,
	}
	s.router = s.routes()
	return s, nil
}

// Close releases resources held by the server, notably the audit DB.
func (s *Server) Close() error {
	return s.audit.Close()
}

// ServeHTTP lets Server be passed directly to http.ListenAndServe.
func (s *Server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	s.router.ServeHTTP(w, req)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middle.DontPanic())

	r.Route(PathPrefix, func(r chi.Router) {
		r.With(middle.OptionalAuth(s.jwtSecret, UnauthDelay)).Get("/info", endpoint(UnauthDelay, s.handleInfo))
		r.Post("/token", endpoint(UnauthDelay, s.handleIssueToken))

		r.Group(func(r chi.Router) {
			r.Use(middle.RequireAuth(s.jwtSecret, UnauthDelay))
			r.Post("/run", endpoint(UnauthDelay, s.handleRun))
			r.Get("/run/{id}", endpoint(UnauthDelay, s.handleGetRun))
		})
	})

	return r
}

type tokenRequest struct {
	APIKey string `json:"api_key"`
}

type tokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in_seconds"`
}

func (s *Server) handleIssueToken(req *http.Request) result {
	var body tokenRequest
	if err := parseJSON(req, &body); err != nil {
		return jsonErr(http.StatusBadRequest, "request body must be JSON with an api_key field", err.Error())
	}

	if err := bcrypt.CompareHashAndPassword(s.apiKeyHash, []byte(body.APIKey)); err != nil {
		return jsonErr(http.StatusUnauthorized, "the supplied API key is incorrect", serr.ErrBadCredentials.Error())
	}

	tok, err := issueToken(s.jwtSecret, s.tokenTTL)
	if err != nil {
		return jsonErr(http.StatusInternalServerError, "An internal server error occurred", err.Error())
	}

	return jsonOK(tokenResponse{Token: tok, ExpiresIn: int64(s.tokenTTL.Seconds())}, "issued token")
}

type runRequest struct {
	Source string `json:"source"`
}

type runResponse struct {
	RunID  string `json:"run_id,omitempty"`
	Output string `json:"output"`
	Error  string `json:"error,omitempty"`
}

func (s *Server) handleRun(req *http.Request) result {
	var body runRequest
	if err := parseJSON(req, &body); err != nil {
		return jsonErr(http.StatusBadRequest, "request body must be JSON with a source field", err.Error())
	}

	start := time.Now()
	var runErr string

	buf := &bytes.Buffer{}
	eng := rpal.New(buf)
	if err := eng.Run(body.Source); err != nil {
		runErr = rpalerr.Format(err, diagWidth)
	}
	out := buf.String()
	dur := time.Since(start)

	auditID, auditErr := s.audit.Record(context.Background(), body.Source, runErr == "", dur)
	if auditErr != nil {
		// audit logging is best-effort; a DB hiccup must not fail the run.
		auditID = ""
	}

	if runErr != "" {
		return result{
			status:      http.StatusUnprocessableEntity,
			body:        runResponse{RunID: auditID, Output: out, Error: runErr},
			internalMsg: fmt.Sprintf("audit=%s: %s", auditID, runErr),
			isErr:       true,
		}
	}
	return jsonOK(runResponse{RunID: auditID, Output: out}, fmt.Sprintf("audit=%s ran in %s", auditID, dur))
}

type auditResponse struct {
	ID         string `json:"id"`
	SourceHash string `json:"source_hash"`
	Success    bool   `json:"success"`
	DurationMS int64  `json:"duration_ms"`
}

func (s *Server) handleGetRun(req *http.Request) result {
	id := chi.URLParam(req, "id")
	if id == "" {
		return jsonErr(http.StatusBadRequest, "a run id is required", "missing id path param")
	}

	entry, err := s.audit.Get(req.Context(), id)
	if err != nil {
		if errors.Is(err, errAuditNotFound) {
			return jsonErr(http.StatusNotFound, "no run with that id was found", err.Error())
		}
		return jsonErr(http.StatusInternalServerError, "An internal server error occurred", err.Error())
	}

	return jsonOK(auditResponse{
		ID:         entry.ID,
		SourceHash: entry.SourceHash,
		Success:    entry.Success,
		DurationMS: entry.DurationMS,
	}, "fetched audit entry")
}

type infoResponse struct {
	Version           string  `json:"version"`
	RecentFailureRate float64 `json:"recent_failure_rate"`
	Authenticated     bool    `json:"authenticated"`
}

func (s *Server) handleInfo(req *http.Request) result {
	rate, err := s.audit.RecentFailureRate(req.Context(), 100)
	if err != nil {
		// audit health is informational only; don't fail /info over it.
		rate = 0
	}

	loggedIn, _ := req.Context().Value(middle.AuthLoggedIn).(bool)

	return jsonOK(infoResponse{
		Version:           version.ServerCurrent,
		RecentFailureRate: rate,
		Authenticated:     loggedIn,
	}, "info")
}

// HashAPIKey bcrypt-hashes an API key for storage in the TOML config file's
// server.api_key_hash field, matching the teacher's tunas.Service user
// registration hashing.
func HashAPIKey(key string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash API key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(h), nil
}
